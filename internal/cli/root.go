// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

// Package cli defines the proviewz command tree: serve, migrate and cache
// maintenance. Every command reads its settings from the environment via
// the config package.
package cli

import (
	"io"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"proviewz/internal/config"
)

// RootOptions holds global flags for all commands.
type RootOptions struct {
	Verbose bool

	// loadConfig is swapped out in tests.
	loadConfig func() (*config.Config, error)
}

// NewRootCommand creates the root command for the proviewz CLI.
func NewRootCommand() *cobra.Command {
	return newRootCommand(&RootOptions{loadConfig: config.Load})
}

func newRootCommand(opts *RootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "proviewz",
		Short: "ProViewz product review API",
		Long: `ProViewz serves product reviews with likes, comments, ratings and
notifications over a JSON API backed by PostgreSQL and Valkey.`,
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	cmd.PersistentFlags().BoolVarP(&opts.Verbose, "verbose", "v", false, "enable debug logging")

	cmd.AddCommand(NewServeCommand(opts))
	cmd.AddCommand(NewMigrateCommand(opts))
	cmd.AddCommand(NewCacheCommand(opts))

	return cmd
}

// Execute runs the root command and returns the process exit code.
func Execute() int {
	if err := NewRootCommand().Execute(); err != nil {
		slog.Error("command failed", "error", err)
		return 1
	}
	return 0
}

// newLogger returns a text logger in development and a JSON logger
// everywhere else.
func newLogger(w io.Writer, env string, verbose bool) *slog.Logger {
	level := slog.LevelInfo
	if verbose || env == "development" {
		level = slog.LevelDebug
	}
	handlerOpts := &slog.HandlerOptions{Level: level}
	if env == "development" {
		return slog.New(slog.NewTextHandler(w, handlerOpts))
	}
	return slog.New(slog.NewJSONHandler(w, handlerOpts))
}

// setup loads configuration and installs the default logger.
func (o *RootOptions) setup() (*config.Config, error) {
	cfg, err := o.loadConfig()
	if err != nil {
		return nil, err
	}
	slog.SetDefault(newLogger(os.Stdout, cfg.Env, o.Verbose))
	return cfg, nil
}
