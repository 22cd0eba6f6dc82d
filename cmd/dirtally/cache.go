package main

import (
	"fmt"
	"os"

	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"
)

var cacheCmd = &cobra.Command{
	Use:   "cache",
	Short: "Manage the report cache",
	Long: `Commands for managing the dirtally cache.

The cache stores finished reports keyed by a digest of the transcript and
the analysis options, plus the history of runs. Cache data is stored in the
XDG cache directory (typically ~/.cache/dirtally/reports).`,
}

var cacheClearCmd = &cobra.Command{
	Use:   "clear",
	Short: "Clear all cached data",
	Long:  `Removes all cached reports. With --all the run history is removed too.`,
	RunE:  runCacheClear,
}

var cacheStatsCmd = &cobra.Command{
	Use:   "stats",
	Short: "Show cache statistics",
	Long:  `Displays the cache location, the number of reports and runs, and its size on disk.`,
	RunE:  runCacheStats,
}

var cachePathCmd = &cobra.Command{
	Use:   "path",
	Short: "Show cache location",
	Long:  `Prints the path to the cache directory.`,
	Run: func(cmd *cobra.Command, _ []string) {
		fmt.Fprintln(cmd.OutOrStdout(), appConfig.CachePath())
	},
}

var cacheClearAll bool

func init() {
	cacheClearCmd.Flags().BoolVar(&cacheClearAll, "all", false, "also remove the run history")

	cacheCmd.AddCommand(cacheClearCmd)
	cacheCmd.AddCommand(cacheStatsCmd)
	cacheCmd.AddCommand(cachePathCmd)
	rootCmd.AddCommand(cacheCmd)
}

func runCacheClear(cmd *cobra.Command, _ []string) error {
	out := cmd.OutOrStdout()
	if _, err := os.Stat(appConfig.CachePath()); os.IsNotExist(err) {
		fmt.Fprintln(out, "Cache is already empty.")
		return nil
	}

	c, err := openHistory()
	if err != nil {
		return err
	}
	defer c.Close()

	if cacheClearAll {
		err = c.Clear()
	} else {
		err = c.ClearReports()
	}
	if err != nil {
		return fmt.Errorf("failed to clear cache: %w", err)
	}

	fmt.Fprintln(out, "Cache cleared.")
	return nil
}

func runCacheStats(cmd *cobra.Command, _ []string) error {
	out := cmd.OutOrStdout()
	path := appConfig.CachePath()

	if _, err := os.Stat(path); os.IsNotExist(err) {
		fmt.Fprintln(out, "Cache: empty (no cache directory)")
		fmt.Fprintf(out, "Cache location: %s\n", path)
		return nil
	}

	c, err := openHistory()
	if err != nil {
		return err
	}
	defer c.Close()

	stats, err := c.Stats()
	if err != nil {
		return fmt.Errorf("failed to read cache statistics: %w", err)
	}

	fmt.Fprintf(out, "Cache location: %s\n", path)
	fmt.Fprintf(out, "Reports:        %d\n", stats.Reports)
	fmt.Fprintf(out, "Runs:           %d\n", stats.Runs)
	fmt.Fprintf(out, "Size:           %s (LSM %s, value log %s)\n",
		humanize.IBytes(uint64(stats.LSMSize+stats.VlogSize)),
		humanize.IBytes(uint64(stats.LSMSize)),
		humanize.IBytes(uint64(stats.VlogSize)))
	return nil
}
