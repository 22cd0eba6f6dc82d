package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/adrg/xdg"
	"github.com/dustin/go-humanize"
	"github.com/spf13/viper"

	"github.com/jamesainslie/dirtally/pkg/dirtally/logging"
	"github.com/jamesainslie/dirtally/pkg/dirtally/report"
)

// EnvPrefix prefixes environment overrides, e.g. DIRTALLY_LIMIT or
// DIRTALLY_CACHE_ENABLED.
const EnvPrefix = "DIRTALLY"

// RotationConfig configures log file rotation.
type RotationConfig struct {
	MaxSize    string `mapstructure:"max_size"`
	MaxBackups int    `mapstructure:"max_backups"`
}

// LoggingConfig configures application logging.
type LoggingConfig struct {
	Level      string            `mapstructure:"level"`
	Path       string            `mapstructure:"path"`
	Console    string            `mapstructure:"console"` // level mirrored to stderr, empty disables
	Rotation   RotationConfig    `mapstructure:"rotation"`
	Components map[string]string `mapstructure:"components"`
}

// CacheConfig configures the report cache and run history.
type CacheConfig struct {
	Enabled bool   `mapstructure:"enabled"`
	Path    string `mapstructure:"path"`
}

// WatchConfig configures watch mode.
type WatchConfig struct {
	Debounce time.Duration `mapstructure:"debounce"`
}

// Config represents the application configuration.
type Config struct {
	Limit    int64  `mapstructure:"limit"`
	Capacity int64  `mapstructure:"capacity"`
	Required int64  `mapstructure:"required"`
	Output   string `mapstructure:"output"`
	Template string `mapstructure:"template"`
	History  struct {
		Limit int `mapstructure:"limit"`
	} `mapstructure:"history"`
	Cache   CacheConfig   `mapstructure:"cache"`
	Watch   WatchConfig   `mapstructure:"watch"`
	Logging LoggingConfig `mapstructure:"logging"`
}

// SetDefaults registers every default on v.
func SetDefaults(v *viper.Viper) {
	v.SetDefault("limit", DefaultLimit)
	v.SetDefault("capacity", DefaultCapacity)
	v.SetDefault("required", DefaultRequired)
	v.SetDefault("output", DefaultOutput)
	v.SetDefault("template", "")
	v.SetDefault("history.limit", DefaultHistoryLimit)

	v.SetDefault("cache.enabled", true)
	v.SetDefault("cache.path", "") // Empty means use CacheDir

	v.SetDefault("watch.debounce", DefaultDebounce)

	v.SetDefault("logging.level", "info")
	v.SetDefault("logging.path", "") // Empty means use logging.DefaultLogPath
	v.SetDefault("logging.console", "")
	v.SetDefault("logging.rotation.max_size", DefaultLogMaxSize)
	v.SetDefault("logging.rotation.max_backups", DefaultLogMaxBackups)
	v.SetDefault("logging.components", DefaultComponents)
}

// Configure points v at the config file and the environment. An explicit
// file overrides the XDG search path.
func Configure(v *viper.Viper, file string) {
	if file != "" {
		v.SetConfigFile(file)
	} else {
		v.SetConfigName("config")
		v.SetConfigType("yaml")
		v.AddConfigPath(ConfigDir())
	}

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_", "-", "_"))
	v.AutomaticEnv()
}

// Read loads the config file into v. A missing file is not an error.
func Read(v *viper.Viper) error {
	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if errors.As(err, &notFound) {
			return nil
		}
		return fmt.Errorf("failed to read config file: %w", err)
	}
	return nil
}

// Decode unmarshals v into a Config and validates it.
func Decode(v *viper.Viper) (*Config, error) {
	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	path, err := ExpandPath(cfg.Cache.Path)
	if err != nil {
		return nil, err
	}
	cfg.Cache.Path = path

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Load loads configuration from the default file and environment variables.
// Config file location: $XDG_CONFIG_HOME/dirtally/config.yaml.
func Load() (*Config, error) {
	return LoadFile("")
}

// LoadFile is Load with an explicit config file.
func LoadFile(file string) (*Config, error) {
	v := viper.New()
	SetDefaults(v)
	Configure(v, file)
	if err := Read(v); err != nil {
		return nil, err
	}
	return Decode(v)
}

// Validate checks the analysis options and the logging section.
func (c *Config) Validate() error {
	if err := c.Options().Validate(); err != nil {
		return err
	}
	if _, err := c.Logging.Logging(); err != nil {
		return err
	}
	return nil
}

// Options returns the analysis options.
func (c *Config) Options() report.Options {
	return report.Options{
		Limit:    c.Limit,
		Capacity: c.Capacity,
		Required: c.Required,
	}
}

// CachePath returns the configured cache directory or the default one.
func (c *Config) CachePath() string {
	if c.Cache.Path != "" {
		return c.Cache.Path
	}
	return CacheDir()
}

// Logging converts the section into a logging.Config.
func (l LoggingConfig) Logging() (logging.Config, error) {
	if _, err := logging.ParseLevel(l.Level); err != nil {
		return logging.Config{}, err
	}
	for component, level := range l.Components {
		if _, err := logging.ParseLevel(level); err != nil {
			return logging.Config{}, fmt.Errorf("component %s: %w", component, err)
		}
	}

	var maxSize uint64
	if l.Rotation.MaxSize != "" {
		n, err := humanize.ParseBytes(l.Rotation.MaxSize)
		if err != nil {
			return logging.Config{}, fmt.Errorf("invalid logging.rotation.max_size %q: %w", l.Rotation.MaxSize, err)
		}
		maxSize = n
	}

	path, err := ExpandPath(l.Path)
	if err != nil {
		return logging.Config{}, err
	}

	return logging.Config{
		Level: l.Level,
		Path:  path,
		Rotation: logging.RotationConfig{
			MaxSize:    int64(maxSize),
			MaxBackups: l.Rotation.MaxBackups,
		},
		Components:   l.Components,
		ConsoleLevel: l.Console,
	}, nil
}

// ConfigDir returns $XDG_CONFIG_HOME/dirtally.
func ConfigDir() string {
	return filepath.Join(xdg.ConfigHome, "dirtally")
}

// ConfigFile returns the default config file path.
func ConfigFile() string {
	return filepath.Join(ConfigDir(), "config.yaml")
}

// CacheDir returns $XDG_CACHE_HOME/dirtally/reports.
func CacheDir() string {
	return filepath.Join(xdg.CacheHome, "dirtally", "reports")
}

// StateDir returns $XDG_STATE_HOME/dirtally for log files.
func StateDir() string {
	return filepath.Join(xdg.StateHome, "dirtally")
}

// ExpandPath expands ~ in a path to the user's home directory.
func ExpandPath(path string) (string, error) {
	if !strings.HasPrefix(path, "~") {
		return path, nil
	}

	homeDir, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("failed to get user home directory: %w", err)
	}

	return filepath.Join(homeDir, path[1:]), nil
}

// WriteDefault writes a commented default config file to path, creating
// its directory. It reports false without touching anything when the file
// already exists.
func WriteDefault(path string) (bool, error) {
	if _, err := os.Stat(path); err == nil {
		return false, nil
	} else if !os.IsNotExist(err) {
		return false, fmt.Errorf("failed to check config file: %w", err)
	}

	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return false, fmt.Errorf("failed to create config directory: %w", err)
	}

	if err := os.WriteFile(path, []byte(DefaultYAML()), 0o644); err != nil {
		return false, fmt.Errorf("failed to write default config: %w", err)
	}
	return true, nil
}

// DefaultYAML renders the default configuration file.
func DefaultYAML() string {
	return fmt.Sprintf(`# dirtally configuration

# Directories strictly smaller than this are reported as small
limit: %d

# Device capacity and the free space it must end up with
capacity: %d
required: %d

# Output format: pretty, plain, json, yaml, markdown, csv, template
output: %s

# text/template used when output is "template"
template: ""

history:
  # Runs listed by "dirtally history"
  limit: %d

# Report cache and run history
cache:
  enabled: true
  # Empty means use default: $XDG_CACHE_HOME/dirtally/reports
  path: ""

watch:
  debounce: %s

logging:
  # Log level: debug, info, warn, error
  level: info
  # Log file path (empty means use default: $XDG_STATE_HOME/dirtally/dirtally.log)
  path: ""
  # Level mirrored to stderr (empty disables)
  console: ""
  rotation:
    max_size: %s
    max_backups: %d
  components:
    transcript: info
    tree: info
    report: info
    cache: info
    watcher: warn
    tui: info
`, DefaultLimit, DefaultCapacity, DefaultRequired, DefaultOutput,
		DefaultHistoryLimit, DefaultDebounce, DefaultLogMaxSize, DefaultLogMaxBackups)
}
