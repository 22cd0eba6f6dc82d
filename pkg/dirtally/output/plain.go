package output

import (
	"bytes"
	"fmt"
	"text/tabwriter"

	"github.com/dustin/go-humanize"
	"github.com/jamesainslie/dirtally/pkg/dirtally/report"
)

// PlainFormatter writes an unstyled key/value summary followed by the small
// directories, suitable for scripts.
type PlainFormatter struct{}

// Format writes the formatted output to the buffer.
func (f *PlainFormatter) Format(w *bytes.Buffer, r *report.Report) error {
	tw := tabwriter.NewWriter(w, 0, 0, 1, ' ', 0)

	fmt.Fprintf(tw, "total\t%d\n", r.TotalSize)
	fmt.Fprintf(tw, "small_total\t%d\n", r.SmallTotal)
	fmt.Fprintf(tw, "free\t%d\n", r.Free)
	fmt.Fprintf(tw, "deficit\t%d\n", r.Deficit)
	if r.Candidate != nil {
		fmt.Fprintf(tw, "candidate\t%s\t%d\n", r.Candidate.Path, r.Candidate.Size)
	} else {
		fmt.Fprintf(tw, "candidate\t-\n")
	}

	if err := tw.Flush(); err != nil {
		return err
	}

	if len(r.SmallDirectories) == 0 {
		return nil
	}

	w.WriteString("\n")
	tw = tabwriter.NewWriter(w, 0, 0, 1, ' ', 0)
	fmt.Fprintf(tw, "SIZE\tPATH\n")
	for _, d := range r.SmallDirectories {
		fmt.Fprintf(tw, "%d\t%s\n", d.Size, d.Path)
	}
	return tw.Flush()
}

// formatBytes renders a byte count with IEC units.
func formatBytes(n int64) string {
	if n < 0 {
		return "-" + humanize.IBytes(uint64(-n))
	}
	return humanize.IBytes(uint64(n))
}

func init() {
	Register("plain", func() Formatter {
		return &PlainFormatter{}
	})
}

var _ Formatter = (*PlainFormatter)(nil)
