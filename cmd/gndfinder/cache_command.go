package main

import (
	"fmt"
	"strconv"
	"time"

	"github.com/spf13/cobra"

	"gndfinder/internal/lookupcache"
)

func newCacheCommand(ctx *commandContext) *cobra.Command {
	cacheCmd := &cobra.Command{
		Use:   "cache",
		Short: "Inspect and maintain the lookup response cache",
	}
	cacheCmd.AddCommand(newCacheStatsCommand(ctx))
	cacheCmd.AddCommand(newCachePruneCommand(ctx))
	cacheCmd.AddCommand(newCacheClearCommand(ctx))
	return cacheCmd
}

// withCacheStore opens the configured cache file even when caching is
// disabled for lookups, so stale files can still be inspected and cleared.
func withCacheStore(ctx *commandContext, fn func(*lookupcache.Store, bool) error) error {
	cfg, err := ctx.ensureConfig()
	if err != nil {
		return err
	}
	store, err := lookupcache.Open(cfg.Cache.Path, lookupcache.Options{TTL: cfg.CacheTTL()})
	if err != nil {
		return err
	}
	defer store.Close()
	return fn(store, cfg.Cache.Enabled)
}

func newCacheStatsCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "stats",
		Short: "Show cache size and age",
		RunE: func(cmd *cobra.Command, args []string) error {
			return withCacheStore(ctx, func(store *lookupcache.Store, enabled bool) error {
				stats, err := store.Stats(cmd.Context())
				if err != nil {
					return err
				}
				out := cmd.OutOrStdout()
				rows := [][]string{
					{"Path", stats.Path},
					{"Enabled", yesNo(enabled)},
					{"Entries", strconv.Itoa(stats.Entries)},
					{"Expired", strconv.Itoa(stats.Expired)},
					{"Size", formatBytes(stats.Bytes)},
					{"Oldest", formatTime(stats.Oldest)},
					{"Newest", formatTime(stats.Newest)},
				}
				fmt.Fprintln(out, renderTable([]string{"Field", "Value"}, rows, nil))
				return nil
			})
		},
	}
}

func newCachePruneCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "prune",
		Short: "Remove entries older than cache.ttl_hours",
		RunE: func(cmd *cobra.Command, args []string) error {
			return withCacheStore(ctx, func(store *lookupcache.Store, _ bool) error {
				removed, err := store.Prune(cmd.Context())
				if err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "Pruned %d expired entries\n", removed)
				return nil
			})
		},
	}
}

func newCacheClearCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "clear",
		Short: "Remove every cached response",
		RunE: func(cmd *cobra.Command, args []string) error {
			return withCacheStore(ctx, func(store *lookupcache.Store, _ bool) error {
				removed, err := store.Clear(cmd.Context())
				if err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "Removed %d cached responses\n", removed)
				return nil
			})
		},
	}
}

func formatTime(ts time.Time) string {
	if ts.IsZero() {
		return "-"
	}
	return ts.Local().Format(time.DateTime)
}

func formatBytes(n int64) string {
	const unit = 1024
	if n < unit {
		return fmt.Sprintf("%d B", n)
	}
	div, exp := int64(unit), 0
	for m := n / unit; m >= unit; m /= unit {
		div *= unit
		exp++
	}
	return fmt.Sprintf("%.1f %ciB", float64(n)/float64(div), "KMGTPE"[exp])
}
