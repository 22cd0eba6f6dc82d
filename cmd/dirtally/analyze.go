package main

import (
	"bytes"
	"fmt"
	"io"
	"os"

	"github.com/jamesainslie/dirtally/pkg/dirtally/cache"
	"github.com/jamesainslie/dirtally/pkg/dirtally/config"
	"github.com/jamesainslie/dirtally/pkg/dirtally/logging"
	"github.com/jamesainslie/dirtally/pkg/dirtally/output"
	"github.com/jamesainslie/dirtally/pkg/dirtally/report"
	"github.com/jamesainslie/dirtally/pkg/dirtally/tree"
	"github.com/spf13/cobra"
)

// stdinSource names standard input as a transcript source.
const stdinSource = "-"

// runAnalyze is the root command handler.
func runAnalyze(cmd *cobra.Command, args []string) error {
	source := sourceArg(args)

	formatter, err := selectFormatter(appConfig.Output, appConfig.Template)
	if err != nil {
		return err
	}

	text, err := readTranscript(cmd.InOrStdin(), source)
	if err != nil {
		return err
	}

	c := openCache(appConfig)
	if c != nil {
		defer c.Close()
	}

	rep, err := analyzeText(c, source, text, appConfig.Options())
	if err != nil {
		return err
	}

	return writeReport(cmd.OutOrStdout(), formatter, rep)
}

func sourceArg(args []string) string {
	if len(args) == 0 {
		return stdinSource
	}
	return args[0]
}

// selectFormatter resolves the output format, building a template formatter
// from tmpl when format is "template".
func selectFormatter(format, tmpl string) (output.Formatter, error) {
	if format == "" {
		format = config.DefaultOutput
	}

	if format == "template" {
		if tmpl == "" {
			return nil, fmt.Errorf("--template is required when using -o template")
		}
		return output.NewTemplateFormatter(tmpl), nil
	}

	f, err := output.Get(format)
	if err != nil {
		return nil, fmt.Errorf("unknown output format %q: available formats are %v", format, output.Available())
	}
	return f, nil
}

// readTranscript reads the whole transcript from a file or, for "-", from
// stdin.
func readTranscript(stdin io.Reader, source string) (string, error) {
	if source == stdinSource {
		data, err := io.ReadAll(stdin)
		if err != nil {
			return "", fmt.Errorf("reading stdin: %w", err)
		}
		return string(data), nil
	}

	path, err := config.ExpandPath(source)
	if err != nil {
		return "", err
	}
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return "", fmt.Errorf("transcript does not exist: %s", path)
		}
		return "", fmt.Errorf("reading transcript: %w", err)
	}
	return string(data), nil
}

// openCache opens the configured cache. A cache that cannot be opened, for
// example because another dirtally process holds it, is skipped.
func openCache(cfg *config.Config) *cache.Cache {
	if !cfg.Cache.Enabled {
		return nil
	}
	c, err := cache.Open(cfg.CachePath())
	if err != nil {
		logging.Get("cache").Warn("cache unavailable", "error", err)
		return nil
	}
	return c
}

// analyzeText produces the report for text, serving it from c when the same
// transcript was analysed with the same options before. Every analysis is
// recorded in the history. c may be nil.
func analyzeText(c *cache.Cache, source, text string, opts report.Options) (*report.Report, error) {
	log := logging.Get("cache").With("source", source)
	digest := cache.Digest(text, opts)

	if c != nil {
		rep, err := c.Lookup(digest)
		switch {
		case err == nil:
			log.Debug("cache hit", "digest", digest)
			rep.Source = source
			record(c, source, digest, rep, true)
			return rep, nil
		case !cache.IsNotFound(err):
			log.Warn("cache lookup failed", "error", err)
		}
	}

	root, err := tree.Parse(text)
	if err != nil {
		return nil, err
	}
	rep, err := report.Analyze(root, opts)
	if err != nil {
		return nil, err
	}
	rep.Source = source

	if c != nil {
		if err := c.Save(digest, rep); err != nil {
			log.Warn("failed to cache report", "error", err)
		}
		record(c, source, digest, rep, false)
	}
	return rep, nil
}

func record(c *cache.Cache, source, digest string, rep *report.Report, cached bool) {
	if _, err := c.Record(cache.NewRun(source, digest, rep, cached)); err != nil {
		logging.Get("cache").Warn("failed to record run", "error", err)
	}
}

func writeReport(w io.Writer, formatter output.Formatter, rep *report.Report) error {
	var buf bytes.Buffer
	if err := formatter.Format(&buf, rep); err != nil {
		return fmt.Errorf("failed to format output: %w", err)
	}
	_, err := w.Write(buf.Bytes())
	return err
}
