package main

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/vlinker/variant-linker/internal/cache"
)

func newCacheCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "cache",
		Short: "Inspect or clear the recoder/VEP response cache",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runCacheStats()
		},
	}

	cmd.AddCommand(&cobra.Command{
		Use:   "stats",
		Short: "Show cache occupancy",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runCacheStats()
		},
	})

	cmd.AddCommand(&cobra.Command{
		Use:   "clear",
		Short: "Empty both cache tiers",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runCacheClear()
		},
	})

	return cmd
}

func openConfiguredCache() (*cache.Tier, error) {
	ttl, err := time.ParseDuration(viper.GetString("cache.ttl"))
	if err != nil {
		ttl = 24 * time.Hour
	}
	return cache.New(cache.Options{
		Location:      viper.GetString("cache.location"),
		TTL:           ttl,
		MaxSize:       viper.GetInt64("cache.maxSizeBytes"),
		MemoryEntries: 1000,
	})
}

func runCacheStats() error {
	tier, err := openConfiguredCache()
	if err != nil {
		return err
	}
	stats := tier.GetStats()
	fmt.Printf("location:        %s\n", stats.Location)
	fmt.Printf("valid entries:   %d\n", stats.ValidEntries)
	fmt.Printf("expired entries: %d\n", stats.ExpiredEntries)
	fmt.Printf("total size:      %d bytes\n", stats.TotalSize)
	if stats.MaxSize > 0 {
		fmt.Printf("max size:        %d bytes\n", stats.MaxSize)
	}
	return nil
}

func runCacheClear() error {
	tier, err := openConfiguredCache()
	if err != nil {
		return err
	}
	tier.Clear()
	fmt.Println("cache cleared")
	return nil
}
