package output

import (
	"bytes"
	"encoding/json"

	"github.com/jamesainslie/dirtally/pkg/dirtally/report"
)

// document is the shared json/yaml shape of a report.
type document struct {
	Source      string            `json:"source" yaml:"source"`
	TotalSize   int64             `json:"total_size" yaml:"total_size"`
	TotalHuman  string            `json:"total_human" yaml:"total_human"`
	Directories int               `json:"directories" yaml:"directories"`
	Files       int               `json:"files" yaml:"files"`
	Small       smallSection      `json:"small" yaml:"small"`
	Space       spaceSection      `json:"space" yaml:"space"`
	Candidate   *report.Directory `json:"candidate,omitempty" yaml:"candidate,omitempty"`
	Elapsed     string            `json:"elapsed,omitempty" yaml:"elapsed,omitempty"`
}

type smallSection struct {
	Limit       int64              `json:"limit" yaml:"limit"`
	Total       int64              `json:"total" yaml:"total"`
	Directories []report.Directory `json:"directories" yaml:"directories"`
}

type spaceSection struct {
	Capacity int64 `json:"capacity" yaml:"capacity"`
	Required int64 `json:"required" yaml:"required"`
	Free     int64 `json:"free" yaml:"free"`
	Deficit  int64 `json:"deficit" yaml:"deficit"`
}

func buildDocument(r *report.Report) document {
	small := r.SmallDirectories
	if small == nil {
		small = []report.Directory{}
	}

	doc := document{
		Source:      r.Source,
		TotalSize:   r.TotalSize,
		TotalHuman:  formatBytes(r.TotalSize),
		Directories: r.Directories,
		Files:       r.Files,
		Small: smallSection{
			Limit:       r.Options.Limit,
			Total:       r.SmallTotal,
			Directories: small,
		},
		Space: spaceSection{
			Capacity: r.Options.Capacity,
			Required: r.Options.Required,
			Free:     r.Free,
			Deficit:  r.Deficit,
		},
		Candidate: r.Candidate,
	}
	if r.Elapsed > 0 {
		doc.Elapsed = r.Elapsed.String()
	}
	return doc
}

// JSONFormatter writes the report as one indented JSON document.
type JSONFormatter struct{}

// Format writes the formatted output to the buffer.
func (f *JSONFormatter) Format(w *bytes.Buffer, r *report.Report) error {
	encoder := json.NewEncoder(w)
	encoder.SetIndent("", "  ")
	return encoder.Encode(buildDocument(r))
}

func init() {
	Register("json", func() Formatter {
		return &JSONFormatter{}
	})
}

var _ Formatter = (*JSONFormatter)(nil)
