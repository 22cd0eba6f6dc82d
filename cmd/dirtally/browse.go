package main

import (
	"github.com/jamesainslie/dirtally/cmd/dirtally/tui"
	"github.com/spf13/cobra"
)

var browseCmd = &cobra.Command{
	Use:   "browse [transcript]",
	Short: "Explore the rebuilt tree interactively",
	Long: `Open an interactive browser over the directory tree described by a
transcript. Small directories are highlighted and "d" jumps to the smallest
directory whose deletion frees enough space.`,
	Args: cobra.MaximumNArgs(1),
	RunE: runBrowse,
}

func init() {
	rootCmd.AddCommand(browseCmd)
}

func runBrowse(cmd *cobra.Command, args []string) error {
	root, source, err := loadTree(cmd, args)
	if err != nil {
		return err
	}

	return tui.Run(tui.Options{
		Root:    root,
		Source:  source,
		Options: appConfig.Options(),

		InputTTY: source == stdinSource,
	})
}
