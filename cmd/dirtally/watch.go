package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/jamesainslie/dirtally/pkg/dirtally/output"
	"github.com/jamesainslie/dirtally/pkg/dirtally/watcher"
	"github.com/spf13/cobra"
)

var watchCmd = &cobra.Command{
	Use:   "watch <transcript>",
	Short: "Re-analyse a transcript whenever it changes",
	Long: `Analyse a transcript, then keep watching the file and print a fresh
report after every write. Parse errors are reported and watching continues.
Stop with Ctrl+C.`,
	Args: cobra.ExactArgs(1),
	RunE: runWatch,
}

func init() {
	rootCmd.AddCommand(watchCmd)
}

func runWatch(cmd *cobra.Command, args []string) error {
	path := args[0]
	if path == stdinSource {
		return fmt.Errorf("cannot watch stdin")
	}

	formatter, err := selectFormatter(appConfig.Output, appConfig.Template)
	if err != nil {
		return err
	}

	w, err := watcher.New(appConfig.Watch.Debounce)
	if err != nil {
		return fmt.Errorf("failed to start watcher: %w", err)
	}
	defer w.Close()

	if err := w.Watch(path); err != nil {
		return fmt.Errorf("failed to watch %s: %w", path, err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	analyzeOnce := func() {
		if err := watchIteration(cmd, formatter, path); err != nil {
			printError("%v", err)
		}
	}

	analyzeOnce()
	printInfo("Watching %s (Ctrl+C to stop)", path)

	w.Run(ctx, func(string) {
		printInfo("\n%s changed at %s", path, time.Now().Format("15:04:05"))
		analyzeOnce()
	})
	return nil
}

// watchIteration analyses path once. The cache is held only for the
// duration of the run so other dirtally processes can open it in between.
func watchIteration(cmd *cobra.Command, formatter output.Formatter, path string) error {
	text, err := readTranscript(cmd.InOrStdin(), path)
	if err != nil {
		return err
	}

	c := openCache(appConfig)
	if c != nil {
		defer c.Close()
	}

	rep, err := analyzeText(c, path, text, appConfig.Options())
	if err != nil {
		return err
	}
	return writeReport(cmd.OutOrStdout(), formatter, rep)
}
