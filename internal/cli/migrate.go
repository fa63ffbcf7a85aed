// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package cli

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"

	"github.com/spf13/cobra"

	"proviewz/internal/cache"
	"proviewz/internal/config"
	"proviewz/internal/database"
)

// NewMigrateCommand creates the migrate command with its up, down and
// version subcommands.
func NewMigrateCommand(rootOpts *RootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "migrate",
		Short: "Manage the database schema",
	}

	cmd.AddCommand(&cobra.Command{
		Use:   "up",
		Short: "Apply all pending migrations",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return withDB(cmd.Context(), rootOpts, func(cfg *config.Config, db *sql.DB) error {
				if err := database.Migrate(db); err != nil {
					return err
				}
				// Cached posts may no longer match the schema.
				flushPostCache(cmd.Context(), cfg)
				return nil
			})
		},
	})

	cmd.AddCommand(&cobra.Command{
		Use:   "down",
		Short: "Roll back the most recent migration",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return withDB(cmd.Context(), rootOpts, func(cfg *config.Config, db *sql.DB) error {
				if err := database.MigrateDown(db); err != nil {
					return err
				}
				flushPostCache(cmd.Context(), cfg)
				return nil
			})
		},
	})

	cmd.AddCommand(&cobra.Command{
		Use:   "version",
		Short: "Print the current schema version",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return withDB(cmd.Context(), rootOpts, func(_ *config.Config, db *sql.DB) error {
				v, err := database.MigrationVersion(db)
				if err != nil {
					return err
				}
				fmt.Fprintln(cmd.OutOrStdout(), v)
				return nil
			})
		},
	})

	return cmd
}

func withDB(ctx context.Context, opts *RootOptions, fn func(*config.Config, *sql.DB) error) error {
	cfg, err := opts.setup()
	if err != nil {
		return fmt.Errorf("load configuration: %w", err)
	}
	db, err := database.ConnectContext(ctx, cfg.DSN())
	if err != nil {
		return err
	}
	defer db.Close()
	return fn(cfg, db)
}

// flushPostCache drops cached posts. Valkey being down is not an error
// here: the cache is rebuilt on the next read.
func flushPostCache(ctx context.Context, cfg *config.Config) {
	client, err := cache.ConnectValkey(ctx, cfg.ValkeyHost, cfg.ValkeyPort, cfg.ValkeyPassword)
	if err != nil {
		slog.Warn("post cache not flushed", "error", err)
		return
	}
	defer client.Close()

	n := cache.NewPostCache(client, cfg.PostCacheTTL).InvalidateAll(ctx)
	slog.Info("post cache flushed", "keys", n)
}
