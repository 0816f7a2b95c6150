package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/benchscan/benchscan/config"
	"github.com/benchscan/benchscan/internal/cache"
)

// NewCmdCache creates the cache command with subcommands.
func NewCmdCache() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "cache",
		Short: "Manage the GitHub response cache",
	}

	cmd.AddCommand(newCmdCacheClear())
	cmd.AddCommand(newCmdCacheStats())

	return cmd
}

// newCmdCacheClear creates the cache clear subcommand.
func newCmdCacheClear() *cobra.Command {
	return &cobra.Command{
		Use:   "clear",
		Short: "Clear the GitHub response cache",
		RunE:  runCacheClear,
	}
}

// newCmdCacheStats creates the cache stats subcommand.
func newCmdCacheStats() *cobra.Command {
	return &cobra.Command{
		Use:   "stats",
		Short: "Show cache statistics",
		RunE:  runCacheStats,
	}
}

func openConfiguredStore() (*cache.DiskStore, string, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, "", fmt.Errorf("failed to load config: %w", err)
	}

	dir := cfg.CacheDir()
	if dir == "" {
		dir, err = cache.DefaultDir()
		if err != nil {
			return nil, "", fmt.Errorf("failed to locate cache directory: %w", err)
		}
	}

	expiry, err := cfg.CacheExpiry()
	if err != nil {
		return nil, "", err
	}

	store, err := cache.NewDiskStore(dir, expiry)
	if err != nil {
		return nil, "", fmt.Errorf("failed to access cache: %w", err)
	}
	return store, dir, nil
}

func runCacheClear(cmd *cobra.Command, args []string) error {
	store, dir, err := openConfiguredStore()
	if err != nil {
		return err
	}

	if err := store.Clear(); err != nil {
		return fmt.Errorf("failed to clear cache: %w", err)
	}

	fmt.Printf("Cache cleared: %s\n", dir)
	return nil
}

func runCacheStats(cmd *cobra.Command, args []string) error {
	store, dir, err := openConfiguredStore()
	if err != nil {
		return err
	}

	stats, err := store.Stats()
	if err != nil {
		return fmt.Errorf("failed to get cache stats: %w", err)
	}

	fmt.Printf("Cache statistics (%s):\n", dir)
	fmt.Printf("  Total:   %d\n", stats.Total)
	fmt.Printf("  Valid:   %d\n", stats.Valid)
	fmt.Printf("  Expired: %d\n", stats.Total-stats.Valid)
	return nil
}
