package main

import (
	"fmt"
	"os"
	"os/exec"
	"sort"
	"strings"

	"github.com/jamesainslie/dirtally/pkg/dirtally/config"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"gopkg.in/yaml.v3"
)

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Manage configuration",
	Long: `Manage dirtally configuration settings.

Configuration is loaded from $XDG_CONFIG_HOME/dirtally/config.yaml
(typically ~/.config/dirtally/config.yaml) or the file given with --config.

Environment variables can override config file settings using the DIRTALLY_ prefix:
  DIRTALLY_LIMIT=50000
  DIRTALLY_OUTPUT=json
  DIRTALLY_CACHE_ENABLED=false`,
	// Config commands must work even when the current file is invalid.
	PersistentPreRunE: func(*cobra.Command, []string) error { return nil },
}

var configShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Show current configuration",
	Long:  `Display the effective configuration merged from defaults, file, environment and flags.`,
	RunE:  runConfigShow,
}

var configEditCmd = &cobra.Command{
	Use:   "edit",
	Short: "Edit configuration file",
	Long: `Open the configuration file in your default editor.

The editor is determined by:
  1. $VISUAL environment variable
  2. $EDITOR environment variable
  3. Falls back to 'vi'

If the config file doesn't exist, a default one will be created first.`,
	RunE: runConfigEdit,
}

var configInitCmd = &cobra.Command{
	Use:   "init",
	Short: "Create default configuration file",
	Long:  `Create a default configuration file if one doesn't exist.`,
	RunE:  runConfigInit,
}

var configPathCmd = &cobra.Command{
	Use:   "path",
	Short: "Show configuration file path",
	Long:  `Display the path to the configuration file.`,
	Run:   runConfigPath,
}

func init() {
	configCmd.AddCommand(configShowCmd)
	configCmd.AddCommand(configEditCmd)
	configCmd.AddCommand(configInitCmd)
	configCmd.AddCommand(configPathCmd)
	rootCmd.AddCommand(configCmd)
}

// configPath returns the file in use: --config, the file viper found, or
// the default location.
func configPath() string {
	if cfgFile != "" {
		return cfgFile
	}
	if used := viper.ConfigFileUsed(); used != "" {
		return used
	}
	return config.ConfigFile()
}

// runConfigShow displays the current configuration.
func runConfigShow(cmd *cobra.Command, _ []string) error {
	out := cmd.OutOrStdout()

	if configErr != nil {
		printError("Failed to read configuration: %v", configErr)
	}
	if _, err := config.Decode(viper.GetViper()); err != nil {
		printError("Configuration is invalid: %v", err)
	}

	if used := viper.ConfigFileUsed(); used != "" {
		fmt.Fprintf(out, "# Config file: %s\n", used)
	} else {
		fmt.Fprintln(out, "# Config file: (using defaults, no file found)")
	}

	// Flags that only steer a single invocation are not configuration.
	settings := viper.AllSettings()
	for _, k := range []string{"no_cache", "quiet", "verbose"} {
		delete(settings, k)
	}

	data, err := yaml.Marshal(settings)
	if err != nil {
		return fmt.Errorf("failed to render configuration: %w", err)
	}
	if _, err := out.Write(data); err != nil {
		return err
	}

	var overrides []string
	for _, env := range os.Environ() {
		if strings.HasPrefix(env, config.EnvPrefix+"_") {
			overrides = append(overrides, env)
		}
	}
	sort.Strings(overrides)

	fmt.Fprintln(out, "\n# Environment overrides:")
	if len(overrides) == 0 {
		fmt.Fprintln(out, "#   (none)")
	}
	for _, env := range overrides {
		fmt.Fprintf(out, "#   %s\n", env)
	}
	return nil
}

// runConfigEdit opens the config file in an editor.
func runConfigEdit(_ *cobra.Command, _ []string) error {
	path := configPath()
	if _, err := config.WriteDefault(path); err != nil {
		return fmt.Errorf("failed to create config file: %w", err)
	}

	editor := os.Getenv("VISUAL")
	if editor == "" {
		editor = os.Getenv("EDITOR")
	}
	if editor == "" {
		editor = "vi"
	}

	editorCmd := exec.Command(editor, path)
	editorCmd.Stdin = os.Stdin
	editorCmd.Stdout = os.Stdout
	editorCmd.Stderr = os.Stderr

	if err := editorCmd.Run(); err != nil {
		return fmt.Errorf("editor command failed: %w", err)
	}
	return nil
}

// runConfigInit creates a default config file.
func runConfigInit(cmd *cobra.Command, _ []string) error {
	path := configPath()
	out := cmd.OutOrStdout()

	created, err := config.WriteDefault(path)
	if err != nil {
		return fmt.Errorf("failed to create config file: %w", err)
	}
	if !created {
		fmt.Fprintf(out, "Config file already exists: %s\n", path)
		fmt.Fprintln(out, "Use 'dirtally config edit' to modify it.")
		return nil
	}

	fmt.Fprintf(out, "Created default config file: %s\n", path)
	return nil
}

// runConfigPath shows the config file path.
func runConfigPath(cmd *cobra.Command, _ []string) {
	fmt.Fprintln(cmd.OutOrStdout(), configPath())
}
