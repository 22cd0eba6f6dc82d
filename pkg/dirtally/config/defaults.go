// Package config provides configuration management for dirtally.
package config

import (
	"time"

	"github.com/jamesainslie/dirtally/pkg/dirtally/report"
)

// Default configuration values for dirtally.
const (
	// DefaultLimit is the exclusive bound for small directories.
	DefaultLimit = report.DefaultLimit

	// DefaultCapacity is the device size.
	DefaultCapacity = report.DefaultCapacity

	// DefaultRequired is the free space the device must end up with.
	DefaultRequired = report.DefaultRequired

	// DefaultOutput is the formatter used when none is given.
	DefaultOutput = "pretty"

	// DefaultHistoryLimit is how many runs `dirtally history` shows.
	DefaultHistoryLimit = 20

	// DefaultDebounce coalesces rapid transcript writes in watch mode.
	DefaultDebounce = 100 * time.Millisecond

	// DefaultLogMaxSize bounds the log file before it is rotated.
	DefaultLogMaxSize = "10MB"

	// DefaultLogMaxBackups is how many rotated log files are kept.
	DefaultLogMaxBackups = 3
)

// DefaultComponents holds the per-component log levels.
var DefaultComponents = map[string]string{
	"transcript": "info",
	"tree":       "info",
	"report":     "info",
	"cache":      "info",
	"watcher":    "warn",
	"tui":        "info",
}
