package output

import (
	"bytes"
	"encoding/csv"
	"fmt"
	"strconv"
	"strings"

	"github.com/jamesainslie/dirtally/pkg/dirtally/report"
)

// CSVFormatter writes one row per small directory plus the candidate,
// tagged in the first column.
type CSVFormatter struct{}

// Format writes the formatted output to the buffer.
func (f *CSVFormatter) Format(w *bytes.Buffer, r *report.Report) error {
	writer := csv.NewWriter(w)

	if err := writer.Write([]string{"ROLE", "SIZE", "PATH"}); err != nil {
		return err
	}
	if err := writer.Write([]string{"root", strconv.FormatInt(r.TotalSize, 10), "/"}); err != nil {
		return err
	}
	for _, d := range r.SmallDirectories {
		if err := writer.Write([]string{"small", strconv.FormatInt(d.Size, 10), d.Path}); err != nil {
			return err
		}
	}
	if r.Candidate != nil {
		if err := writer.Write([]string{"candidate", strconv.FormatInt(r.Candidate.Size, 10), r.Candidate.Path}); err != nil {
			return err
		}
	}

	writer.Flush()
	return writer.Error()
}

func init() {
	Register("csv", func() Formatter {
		return &CSVFormatter{}
	})
}

var _ Formatter = (*CSVFormatter)(nil)

// MarkdownFormatter writes a GitHub-flavoured summary table and a table of
// small directories.
type MarkdownFormatter struct{}

// Format writes the formatted output to the buffer.
func (f *MarkdownFormatter) Format(w *bytes.Buffer, r *report.Report) error {
	w.WriteString("| METRIC | VALUE |\n")
	w.WriteString("|--------|-------|\n")
	fmt.Fprintf(w, "| Total | %d |\n", r.TotalSize)
	fmt.Fprintf(w, "| Small total (< %d) | %d |\n", r.Options.Limit, r.SmallTotal)
	fmt.Fprintf(w, "| Free | %d |\n", r.Free)
	fmt.Fprintf(w, "| Deficit | %d |\n", r.Deficit)
	if r.Candidate != nil {
		fmt.Fprintf(w, "| Candidate | %s (%d) |\n", escapeMarkdown(r.Candidate.Path), r.Candidate.Size)
	}

	if len(r.SmallDirectories) == 0 {
		return nil
	}

	w.WriteString("\n| SIZE | PATH |\n")
	w.WriteString("|------|------|\n")
	for _, d := range r.SmallDirectories {
		fmt.Fprintf(w, "| %d | %s |\n", d.Size, escapeMarkdown(d.Path))
	}
	return nil
}

// escapeMarkdown escapes pipe characters that would break table cells.
func escapeMarkdown(s string) string {
	return strings.ReplaceAll(s, "|", "\\|")
}

func init() {
	Register("markdown", func() Formatter {
		return &MarkdownFormatter{}
	})
}

var _ Formatter = (*MarkdownFormatter)(nil)
