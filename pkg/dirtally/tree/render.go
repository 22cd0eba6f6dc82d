package tree

import (
	"fmt"
	"io"
	"strconv"

	"github.com/dustin/go-humanize"
)

// Tree drawing connectors.
const (
	connectorMid  = "├── "
	connectorLast = "└── "
	indentPipe    = "│   "
	indentBlank   = "    "
)

// RenderOptions controls Render output.
type RenderOptions struct {
	// MaxDepth limits how deep the tree is drawn. Zero draws everything.
	MaxDepth int

	// DirsOnly hides files.
	DirsOnly bool

	// HumanSizes prints sizes as "1.2 MiB" instead of raw bytes.
	HumanSizes bool
}

// Render draws the tree under root, one entry per line:
//
//	/ (dir, 48381165)
//	├── a (dir, 94853)
//	│   └── f (file, 29116)
//	└── b.txt (file, 14848514)
func Render(w io.Writer, root *Entry, opts RenderOptions) error {
	if _, err := fmt.Fprintf(w, "%s (%s, %s)\n", root.Name, root.Kind, formatSize(Size(root), opts.HumanSizes)); err != nil {
		return err
	}
	return renderChildren(w, root, "", 1, opts)
}

func renderChildren(w io.Writer, dir *Entry, prefix string, depth int, opts RenderOptions) error {
	if opts.MaxDepth > 0 && depth > opts.MaxDepth {
		return nil
	}

	children := dir.Children
	if opts.DirsOnly {
		children = make([]*Entry, 0, len(dir.Children))
		for _, c := range dir.Children {
			if c.IsDir() {
				children = append(children, c)
			}
		}
	}

	for i, child := range children {
		last := i == len(children)-1
		connector, indent := connectorMid, indentPipe
		if last {
			connector, indent = connectorLast, indentBlank
		}

		line := fmt.Sprintf("%s%s%s (%s, %s)\n", prefix, connector, child.Name, child.Kind,
			formatSize(Size(child), opts.HumanSizes))
		if _, err := io.WriteString(w, line); err != nil {
			return err
		}

		if child.IsDir() {
			if err := renderChildren(w, child, prefix+indent, depth+1, opts); err != nil {
				return err
			}
		}
	}
	return nil
}

func formatSize(size int64, human bool) string {
	if human {
		return humanize.IBytes(uint64(size))
	}
	return strconv.FormatInt(size, 10)
}
