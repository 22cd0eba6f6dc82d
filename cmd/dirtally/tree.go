package main

import (
	"fmt"
	"strings"

	"github.com/jamesainslie/dirtally/pkg/dirtally/tree"
	"github.com/spf13/cobra"
)

var treeCmd = &cobra.Command{
	Use:   "tree [transcript]",
	Short: "Print the rebuilt directory tree",
	Long: `Print the directory tree described by a transcript, with the size of
every file and the rolled-up size of every directory.

Use --find to print a single subtree, for example --find /a/e.`,
	Args: cobra.MaximumNArgs(1),
	RunE: runTree,
}

var (
	treeDepth    int
	treeDirsOnly bool
	treeHuman    bool
	treeFind     string
)

func init() {
	treeCmd.Flags().IntVarP(&treeDepth, "depth", "L", 0, "maximum depth to print (0 = unlimited)")
	treeCmd.Flags().BoolVarP(&treeDirsOnly, "dirs-only", "d", false, "print directories only")
	treeCmd.Flags().BoolVarP(&treeHuman, "human", "H", false, "print sizes in IEC units")
	treeCmd.Flags().StringVar(&treeFind, "find", "", "print only the subtree at this path")
	rootCmd.AddCommand(treeCmd)
}

func runTree(cmd *cobra.Command, args []string) error {
	root, _, err := loadTree(cmd, args)
	if err != nil {
		return err
	}

	if treeFind != "" {
		sub, ok := findPath(root, treeFind)
		if !ok {
			return fmt.Errorf("no directory at %s", treeFind)
		}
		root = sub
	}

	return tree.Render(cmd.OutOrStdout(), root, tree.RenderOptions{
		MaxDepth:   treeDepth,
		DirsOnly:   treeDirsOnly,
		HumanSizes: treeHuman,
	})
}

// loadTree reads and parses the transcript named by args.
func loadTree(cmd *cobra.Command, args []string) (*tree.Entry, string, error) {
	source := sourceArg(args)
	text, err := readTranscript(cmd.InOrStdin(), source)
	if err != nil {
		return nil, source, err
	}
	root, err := tree.Parse(text)
	if err != nil {
		return nil, source, err
	}
	return root, source, nil
}

// findPath descends from root through slash-separated directory names.
func findPath(root *tree.Entry, path string) (*tree.Entry, bool) {
	cur := root
	for _, name := range strings.Split(path, "/") {
		if name == "" {
			continue
		}
		next, ok := tree.FindSubdirectory(cur, name)
		if !ok {
			return nil, false
		}
		cur = next
	}
	return cur, true
}
