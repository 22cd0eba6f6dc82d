package output

import (
	"bytes"
	"fmt"
	"strings"

	"github.com/dustin/go-humanize"
	"github.com/jamesainslie/dirtally/pkg/dirtally/report"
)

// PrettyFormatter renders a styled terminal summary.
type PrettyFormatter struct{}

// Format writes the formatted output to the buffer.
func (f *PrettyFormatter) Format(w *bytes.Buffer, r *report.Report) error {
	w.WriteString(f.formatHeader(r))
	w.WriteString("\n")
	w.WriteString(f.formatSmall(r))
	w.WriteString(f.formatFooter(r))
	w.WriteString("\n")
	return nil
}

func (f *PrettyFormatter) formatHeader(r *report.Report) string {
	source := r.Source
	if source == "" {
		source = "-"
	}

	lines := []string{
		TitleStyle.Render("dirtally"),
		field("Source:", ValueStyle.Render(source)),
		field("Total:", SizeStyle.Render(bytesWithRaw(r.TotalSize))),
		field("Entries:", ValueStyle.Render(fmt.Sprintf("%s directories, %s files",
			humanize.Comma(int64(r.Directories)), humanize.Comma(int64(r.Files))))),
	}
	return HeaderBox.Render(strings.Join(lines, "\n"))
}

func (f *PrettyFormatter) formatSmall(r *report.Report) string {
	var sb strings.Builder

	title := fmt.Sprintf("Directories under %s", formatBytes(r.Options.Limit))
	sb.WriteString(TitleStyle.Render(title))
	sb.WriteString("\n")

	if len(r.SmallDirectories) == 0 {
		sb.WriteString(MutedStyle.Render("  none"))
		sb.WriteString("\n")
		return sb.String()
	}

	sizes := make([]string, len(r.SmallDirectories))
	width := 8
	for i, d := range r.SmallDirectories {
		sizes[i] = humanize.Comma(d.Size)
		if len(sizes[i]) > width {
			width = len(sizes[i])
		}
	}

	sb.WriteString(fmt.Sprintf("  %s  %s\n",
		TableHeaderStyle.Render(padLeft("SIZE", width)), TableHeaderStyle.Render("PATH")))
	for i, d := range r.SmallDirectories {
		sb.WriteString(fmt.Sprintf("  %s  %s\n",
			SizeStyle.Render(padLeft(sizes[i], width)), PathStyle.Render(d.Path)))
	}
	sb.WriteString(fmt.Sprintf("  %s %s\n", LabelStyle.Render("Sum:"), SizeStyle.Render(humanize.Comma(r.SmallTotal))))
	return sb.String()
}

func (f *PrettyFormatter) formatFooter(r *report.Report) string {
	lines := []string{
		field("Free:", ValueStyle.Render(fmt.Sprintf("%s of %s",
			bytesWithRaw(r.Free), formatBytes(r.Options.Capacity)))),
	}

	switch {
	case !r.NeedsDeletion():
		lines = append(lines, SuccessStyle.Render(fmt.Sprintf("At least %s already free, nothing to delete",
			formatBytes(r.Options.Required))))
	case r.Candidate != nil:
		lines = append(lines,
			field("Need:", WarningStyle.Render(bytesWithRaw(r.Deficit))),
			field("Delete:", DangerStyle.Render(r.Candidate.Path)+" "+SizeStyle.Render(bytesWithRaw(r.Candidate.Size))),
		)
	default:
		lines = append(lines, DangerStyle.Render("No directory frees enough space"))
	}

	return FooterBox.Render(strings.Join(lines, "\n"))
}

func field(label, value string) string {
	return LabelStyle.Render(label) + " " + value
}

// bytesWithRaw renders "46 MiB (48,381,165)".
func bytesWithRaw(n int64) string {
	return fmt.Sprintf("%s (%s)", formatBytes(n), humanize.Comma(n))
}

func padLeft(s string, width int) string {
	if len(s) >= width {
		return s
	}
	return strings.Repeat(" ", width-len(s)) + s
}

func init() {
	Register("pretty", func() Formatter {
		return &PrettyFormatter{}
	})
}

var _ Formatter = (*PrettyFormatter)(nil)
