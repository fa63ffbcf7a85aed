// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"proviewz/internal/cache"
)

// NewCacheCommand creates the cache command.
func NewCacheCommand(rootOpts *RootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "cache",
		Short: "Maintain the Valkey post cache",
	}

	cmd.AddCommand(&cobra.Command{
		Use:   "flush",
		Short: "Remove every cached post",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := rootOpts.setup()
			if err != nil {
				return fmt.Errorf("load configuration: %w", err)
			}
			client, err := cache.ConnectValkey(cmd.Context(), cfg.ValkeyHost, cfg.ValkeyPort, cfg.ValkeyPassword)
			if err != nil {
				return err
			}
			defer client.Close()

			n := cache.NewPostCache(client, cfg.PostCacheTTL).InvalidateAll(cmd.Context())
			fmt.Fprintf(cmd.OutOrStdout(), "removed %d cached posts\n", n)
			return nil
		},
	})

	return cmd
}
