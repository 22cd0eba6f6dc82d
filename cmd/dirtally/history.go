package main

import (
	"fmt"
	"strings"
	"text/tabwriter"

	"github.com/dustin/go-humanize"
	"github.com/jamesainslie/dirtally/pkg/dirtally/cache"
	"github.com/spf13/cobra"
)

var historyCmd = &cobra.Command{
	Use:   "history",
	Short: "View analysis history",
	Long: `View the history of analyses. Every run is recorded in the cache
together with its totals and deletion candidate, newest first.`,
	RunE: runHistory,
}

var historyShowCmd = &cobra.Command{
	Use:   "show [id]",
	Short: "Show details of a specific run",
	Long:  `Display a recorded run by its ID or a unique prefix of it.`,
	Args:  cobra.ExactArgs(1),
	RunE:  runHistoryShow,
}

var historyLimit int

func init() {
	historyCmd.Flags().IntVarP(&historyLimit, "count", "n", 0, "maximum number of entries to show (default from config)")

	historyCmd.AddCommand(historyShowCmd)
	rootCmd.AddCommand(historyCmd)
}

// openHistory opens the cache even when report caching is disabled; the
// history lives in the same store.
func openHistory() (*cache.Cache, error) {
	c, err := cache.Open(appConfig.CachePath())
	if err != nil {
		return nil, fmt.Errorf("failed to open history: %w", err)
	}
	return c, nil
}

// runHistory lists recent runs.
func runHistory(cmd *cobra.Command, _ []string) error {
	limit := historyLimit
	if limit <= 0 {
		limit = appConfig.History.Limit
	}

	c, err := openHistory()
	if err != nil {
		return err
	}
	defer c.Close()

	runs, err := c.History(limit)
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	if len(runs) == 0 {
		fmt.Fprintln(out, "No history entries found.")
		fmt.Fprintln(out, "Run 'dirtally <transcript>' to analyse a transcript.")
		return nil
	}

	tw := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "ID\tWHEN\tSOURCE\tTOTAL\tCANDIDATE\tCACHED")
	for _, run := range runs {
		candidate := "-"
		if run.Candidate != "" {
			candidate = fmt.Sprintf("%s (%s)", run.Candidate, humanize.IBytes(uint64(run.CandidateSize)))
		}
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%s\t%t\n",
			shortID(run.ID),
			humanize.Time(run.Time),
			truncateString(run.Source, 40),
			humanize.IBytes(uint64(run.TotalSize)),
			candidate,
			run.Cached,
		)
	}
	return tw.Flush()
}

// runHistoryShow displays a single run.
func runHistoryShow(cmd *cobra.Command, args []string) error {
	c, err := openHistory()
	if err != nil {
		return err
	}
	defer c.Close()

	runs, err := c.History(0)
	if err != nil {
		return err
	}

	run, err := findRun(runs, args[0])
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	fmt.Fprintln(out, "Run Details")
	fmt.Fprintln(out, strings.Repeat("=", 60))
	fmt.Fprintf(out, "ID:          %s\n", run.ID)
	fmt.Fprintf(out, "Timestamp:   %s\n", run.Time.Format("2006-01-02 15:04:05 MST"))
	fmt.Fprintf(out, "Source:      %s\n", run.Source)
	fmt.Fprintf(out, "Digest:      %s\n", run.Digest)
	fmt.Fprintf(out, "Total:       %s\n", humanize.Comma(run.TotalSize))
	fmt.Fprintf(out, "Small total: %s\n", humanize.Comma(run.SmallTotal))
	fmt.Fprintf(out, "Deficit:     %s\n", humanize.Comma(run.Deficit))
	if run.Candidate != "" {
		fmt.Fprintf(out, "Candidate:   %s (%s)\n", run.Candidate, humanize.Comma(run.CandidateSize))
	} else {
		fmt.Fprintln(out, "Candidate:   -")
	}
	fmt.Fprintf(out, "Cached:      %t\n", run.Cached)
	return nil
}

// findRun returns the run whose ID starts with prefix. The prefix must be
// unambiguous.
func findRun(runs []cache.Run, prefix string) (cache.Run, error) {
	var matches []cache.Run
	for _, run := range runs {
		if strings.HasPrefix(run.ID, prefix) {
			matches = append(matches, run)
		}
	}
	switch len(matches) {
	case 0:
		return cache.Run{}, fmt.Errorf("no run with id %s", prefix)
	case 1:
		return matches[0], nil
	default:
		return cache.Run{}, fmt.Errorf("id %s is ambiguous (%d runs)", prefix, len(matches))
	}
}

func shortID(id string) string {
	if len(id) > 8 {
		return id[:8]
	}
	return id
}

// truncateString truncates a string to maxLen, adding "..." if truncated.
func truncateString(s string, maxLen int) string {
	if len(s) <= maxLen {
		return s
	}
	if maxLen <= 3 {
		return s[:maxLen]
	}
	return s[:maxLen-3] + "..."
}
