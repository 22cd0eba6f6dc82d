package logging_test

import (
	"bytes"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/jamesainslie/dirtally/pkg/dirtally/logging"
)

func TestParseLevel(t *testing.T) {
	tests := []struct {
		input   string
		want    logging.Level
		wantErr bool
	}{
		{"debug", logging.LevelDebug, false},
		{"INFO", logging.LevelInfo, false},
		{"", logging.LevelInfo, false},
		{"warning", logging.LevelWarn, false},
		{"error", logging.LevelError, false},
		{"loud", logging.LevelInfo, true},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			got, err := logging.ParseLevel(tt.input)
			if tt.wantErr {
				if !errors.Is(err, logging.ErrInvalidLevel) {
					t.Fatalf("ParseLevel(%q) error = %v, want ErrInvalidLevel", tt.input, err)
				}
				return
			}
			if err != nil {
				t.Fatalf("ParseLevel(%q) unexpected error: %v", tt.input, err)
			}
			if got != tt.want {
				t.Errorf("ParseLevel(%q) = %v, want %v", tt.input, got, tt.want)
			}
		})
	}
}

func TestInitWritesToFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "dirtally.log")

	if err := logging.Init(logging.Config{Level: "debug", Path: path}); err != nil {
		t.Fatalf("Init() error = %v", err)
	}
	logging.Get("tree").Debug("tree built", "dirs", 4)
	if err := logging.Close(); err != nil {
		t.Fatalf("Close() error = %v", err)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("reading log: %v", err)
	}
	if !strings.Contains(string(data), "tree built") {
		t.Errorf("log file missing message, got %q", data)
	}
	if !strings.Contains(string(data), "dirs=4") {
		t.Errorf("log file missing key/value, got %q", data)
	}
}

func TestLoggerBeforeInitIsRebuilt(t *testing.T) {
	early := logging.Get("early")
	early.Info("dropped before init")

	path := filepath.Join(t.TempDir(), "early.log")
	if err := logging.Init(logging.Config{Level: "info", Path: path}); err != nil {
		t.Fatalf("Init() error = %v", err)
	}
	early.Info("kept after init")
	if err := logging.Close(); err != nil {
		t.Fatalf("Close() error = %v", err)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("reading log: %v", err)
	}
	if strings.Contains(string(data), "dropped before init") {
		t.Error("record logged before Init should be discarded")
	}
	if !strings.Contains(string(data), "kept after init") {
		t.Errorf("record logged after Init missing, got %q", data)
	}
}

func TestComponentLevelOverride(t *testing.T) {
	path := filepath.Join(t.TempDir(), "components.log")
	err := logging.Init(logging.Config{
		Level:      "info",
		Path:       path,
		Components: map[string]string{"noisy": "error"},
	})
	if err != nil {
		t.Fatalf("Init() error = %v", err)
	}
	logging.Get("noisy").Warn("suppressed warning")
	logging.Get("quiet").Warn("visible warning")
	if err := logging.Close(); err != nil {
		t.Fatalf("Close() error = %v", err)
	}

	data, _ := os.ReadFile(path)
	if strings.Contains(string(data), "suppressed warning") {
		t.Error("component override should suppress warn records")
	}
	if !strings.Contains(string(data), "visible warning") {
		t.Error("default level should keep warn records")
	}
}

func TestConsoleOutput(t *testing.T) {
	var console bytes.Buffer
	err := logging.Init(logging.Config{
		Level:        "debug",
		Path:         filepath.Join(t.TempDir(), "console.log"),
		ConsoleLevel: "warn",
		Console:      &console,
	})
	if err != nil {
		t.Fatalf("Init() error = %v", err)
	}
	defer func() { _ = logging.Close() }()

	logger := logging.Get("console")
	logger.Info("file only")
	logger.Warn("both sinks")

	if strings.Contains(console.String(), "file only") {
		t.Error("info record should not reach a warn-level console")
	}
	if !strings.Contains(console.String(), "both sinks") {
		t.Errorf("warn record missing from console, got %q", console.String())
	}
}

func TestInitRejectsInvalidLevels(t *testing.T) {
	dir := t.TempDir()
	cases := []logging.Config{
		{Level: "verbose", Path: filepath.Join(dir, "a.log")},
		{Level: "info", Path: filepath.Join(dir, "b.log"), Components: map[string]string{"x": "nope"}},
		{Level: "info", Path: filepath.Join(dir, "c.log"), ConsoleLevel: "nope"},
	}
	for _, cfg := range cases {
		if err := logging.Init(cfg); err == nil {
			_ = logging.Close()
			t.Errorf("Init(%+v) expected error", cfg)
		}
	}
}

func TestWithAddsContext(t *testing.T) {
	path := filepath.Join(t.TempDir(), "with.log")
	if err := logging.Init(logging.Config{Level: "info", Path: path}); err != nil {
		t.Fatalf("Init() error = %v", err)
	}
	logger := logging.Get("report").With("source", "input.txt")
	logger.Info("analysed")
	if err := logging.Close(); err != nil {
		t.Fatalf("Close() error = %v", err)
	}

	data, _ := os.ReadFile(path)
	if !strings.Contains(string(data), "source=input.txt") {
		t.Errorf("With() context missing, got %q", data)
	}
}
