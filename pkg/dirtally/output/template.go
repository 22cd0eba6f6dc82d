package output

import (
	"bytes"
	"errors"
	"sync"
	"text/template"

	"github.com/dustin/go-humanize"
	"github.com/jamesainslie/dirtally/pkg/dirtally/report"
)

// ErrEmptyTemplate is returned when a TemplateFormatter has no template.
var ErrEmptyTemplate = errors.New("empty output template")

// TemplateFormatter renders a report with a user text/template. The
// template receives the *report.Report and these helpers:
//
//	{{bytes .TotalSize}}   46 MiB
//	{{comma .SmallTotal}}  95,437
type TemplateFormatter struct {
	mu       sync.Mutex
	text     string
	template *template.Template
}

// NewTemplateFormatter returns a formatter for the given template text.
func NewTemplateFormatter(text string) *TemplateFormatter {
	return &TemplateFormatter{text: text}
}

// SetTemplate replaces the template text.
func (f *TemplateFormatter) SetTemplate(text string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.text = text
	f.template = nil
}

func templateFuncs() template.FuncMap {
	return template.FuncMap{
		"bytes": formatBytes,
		"comma": humanize.Comma,
	}
}

// Format writes the formatted output to the buffer.
func (f *TemplateFormatter) Format(w *bytes.Buffer, r *report.Report) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	if f.text == "" {
		return ErrEmptyTemplate
	}
	if f.template == nil {
		tmpl, err := template.New("output").Funcs(templateFuncs()).Parse(f.text)
		if err != nil {
			return err
		}
		f.template = tmpl
	}
	return f.template.Execute(w, r)
}

func init() {
	Register("template", func() Formatter {
		return NewTemplateFormatter("")
	})
}

var _ Formatter = (*TemplateFormatter)(nil)
