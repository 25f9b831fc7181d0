package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"cbind/internal/driver"
)

func newCacheCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "cache",
		Short: "Manage the on-disk report cache",
	}
	cmd.AddCommand(&cobra.Command{
		Use:   "dir",
		Short: "Print the cache directory",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cache, err := driver.OpenDiskCache(cacheApp)
			if err != nil {
				return fmt.Errorf("failed to open cache: %w", err)
			}
			fmt.Fprintln(cmd.OutOrStdout(), cache.Dir())
			return nil
		},
	})
	cmd.AddCommand(&cobra.Command{
		Use:   "clean",
		Short: "Remove every cached report",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cache, err := driver.OpenDiskCache(cacheApp)
			if err != nil {
				return fmt.Errorf("failed to open cache: %w", err)
			}
			if err := cache.DropAll(); err != nil {
				return fmt.Errorf("failed to clean cache: %w", err)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "removed cached reports from %s\n", cache.Dir())
			return nil
		},
	})
	return cmd
}
