package main

import (
	"fmt"
	"os"

	"github.com/jamesainslie/dirtally/pkg/dirtally/config"
	"github.com/jamesainslie/dirtally/pkg/dirtally/logging"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

var (
	cfgFile   string
	configErr error
	appConfig *config.Config

	rootCmd = &cobra.Command{
		Use:   "dirtally [transcript]",
		Short: "Rebuild a directory tree from a shell transcript and size it",
		Long: `dirtally replays a transcript of "cd" and "ls" commands, rebuilds the
directory tree it describes and reports on its sizes: the total, the sum of
all directories below a limit, and the smallest directory whose deletion
frees enough space on the device.

The transcript is read from the given file, or from stdin when the argument
is "-" or omitted.

Examples:
  dirtally input.txt                 # Analyse a transcript
  cat input.txt | dirtally           # Read from stdin
  dirtally -o json input.txt         # JSON output
  dirtally --limit 50000 input.txt   # Different small-directory limit
  dirtally tree input.txt            # Print the rebuilt tree
  dirtally browse input.txt          # Explore the tree interactively
  dirtally watch input.txt           # Re-analyse on every change`,
		Args:               cobra.MaximumNArgs(1),
		PersistentPreRunE:  setup,
		PersistentPostRunE: teardown,
		RunE:               runAnalyze,
		SilenceUsage:       true,
	}
)

func init() {
	cobra.OnInitialize(initConfig)

	// Persistent flags (available to all commands)
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default: $XDG_CONFIG_HOME/dirtally/config.yaml)")
	rootCmd.PersistentFlags().Int64("limit", config.DefaultLimit, "exclusive size bound for small directories")
	rootCmd.PersistentFlags().Int64("capacity", config.DefaultCapacity, "total device capacity")
	rootCmd.PersistentFlags().Int64("required", config.DefaultRequired, "free space the device must end up with")
	rootCmd.PersistentFlags().StringP("output", "o", config.DefaultOutput, "output format (pretty, plain, json, yaml, markdown, csv, template)")
	rootCmd.PersistentFlags().String("template", "", "text/template used with -o template")
	rootCmd.PersistentFlags().Bool("no-cache", false, "bypass the report cache")
	rootCmd.PersistentFlags().BoolP("quiet", "q", false, "minimal output")
	rootCmd.PersistentFlags().BoolP("verbose", "v", false, "debug output")

	// Bind flags to viper
	_ = viper.BindPFlag("limit", rootCmd.PersistentFlags().Lookup("limit"))
	_ = viper.BindPFlag("capacity", rootCmd.PersistentFlags().Lookup("capacity"))
	_ = viper.BindPFlag("required", rootCmd.PersistentFlags().Lookup("required"))
	_ = viper.BindPFlag("output", rootCmd.PersistentFlags().Lookup("output"))
	_ = viper.BindPFlag("template", rootCmd.PersistentFlags().Lookup("template"))
	_ = viper.BindPFlag("no_cache", rootCmd.PersistentFlags().Lookup("no-cache"))
	_ = viper.BindPFlag("quiet", rootCmd.PersistentFlags().Lookup("quiet"))
	_ = viper.BindPFlag("verbose", rootCmd.PersistentFlags().Lookup("verbose"))
}

// initConfig reads in config file and environment variables.
func initConfig() {
	v := viper.GetViper()
	config.SetDefaults(v)
	config.Configure(v, cfgFile)
	configErr = config.Read(v)
}

// setup decodes the configuration and starts logging before any command runs.
func setup(cmd *cobra.Command, _ []string) error {
	if configErr != nil {
		return configErr
	}

	cfg, err := config.Decode(viper.GetViper())
	if err != nil {
		return err
	}
	if viper.GetBool("no_cache") {
		cfg.Cache.Enabled = false
	}
	appConfig = cfg

	return initLogging(cfg)
}

// initLogging configures the logging package from the config and the
// verbosity flags.
func initLogging(cfg *config.Config) error {
	lc, err := cfg.Logging.Logging()
	if err != nil {
		return err
	}

	if getVerbose() {
		lc.Level = "debug"
		lc.ConsoleLevel = "debug"
	}
	if getQuiet() {
		lc.ConsoleLevel = ""
	}

	if err := logging.Init(lc); err != nil {
		return fmt.Errorf("failed to initialize logging: %w", err)
	}
	return nil
}

func teardown(_ *cobra.Command, _ []string) error {
	return logging.Close()
}

// Execute runs the root command.
func Execute() error {
	return rootCmd.Execute()
}

// getVerbose returns true if verbose mode is enabled.
func getVerbose() bool {
	return viper.GetBool("verbose")
}

// getQuiet returns true if quiet mode is enabled.
func getQuiet() bool {
	return viper.GetBool("quiet")
}

// printInfo prints a message to stderr if quiet mode is not enabled.
func printInfo(format string, args ...interface{}) {
	if !getQuiet() {
		fmt.Fprintf(os.Stderr, format+"\n", args...)
	}
}

// printError prints an error message to stderr.
func printError(format string, args ...interface{}) {
	fmt.Fprintf(os.Stderr, "Error: "+format+"\n", args...)
}
