// =============================================================================
// Crime Chart - Root Command
// =============================================================================
//
// This file defines the root command for the Cobra CLI. Every other command
// (render, summary, export, version) is attached to it.
//
// COBRA CLI STRUCTURE:
//   rootCmd (crimechart)
//   ├── renderCmd  (crimechart render)
//   ├── summaryCmd (crimechart summary)
//   ├── exportCmd  (crimechart export)
//   └── versionCmd (crimechart version)
//
// CONFIGURATION:
//   Settings are resolved in this order, later sources winning:
//   1. Built-in defaults
//   2. The YAML config file (--config, default crimechart.yaml)
//   3. CRIMECHART_* environment variables (a .env file is loaded first)
//   4. Command-line flags
//
// =============================================================================

package cmd

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/fatih/color"
	"github.com/ginjaninja78/crimechart/internal/config"
	"github.com/ginjaninja78/crimechart/internal/pipeline"
	"github.com/ginjaninja78/crimechart/pkg/utils"
	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

// =============================================================================
// GLOBAL VARIABLES
// =============================================================================

// cfgFile holds the path to the configuration file. Empty means
// config.DefaultConfigFile, which may be absent.
var cfgFile string

// verbose switches logging to debug level.
var verbose bool

// =============================================================================
// ROOT COMMAND DEFINITION
// =============================================================================

var rootCmd = &cobra.Command{
	Use:   "crimechart",
	Short: "Crime Chart - Stacked bar charts of crime statistics by year",
	Long: `Crime Chart reads crime statistics (one row per year and category) from
CSV or XLSX files and draws a stacked bar chart: one bar per year, one
coloured segment per crime category.

Key Features:
  - SVG, interactive HTML and PNG charts
  - JSON, CSV and Parquet exports of the aggregated and stacked data
  - Lenient parsing (blank is 0, bad numbers are NaN) or strict validation
  - Concurrent rendering of many input files

Example Usage:
  crimechart render data.csv                 # Render data.csv to ./output/data.svg
  crimechart render ./inputs --format html   # Render every input under ./inputs
  crimechart summary data.csv                # Print the aggregated table
  crimechart export data.csv --format json   # Export the stacked series`,
	SilenceErrors: true,
	SilenceUsage:  true,
	Run: func(cmd *cobra.Command, args []string) {
		_ = cmd.Help()
	},
}

// =============================================================================
// EXECUTE FUNCTION
// =============================================================================

// Execute runs the root command. It is called by main.main().
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "%s %v\n", color.New(color.FgRed).Sprint("Error:"), err)
		os.Exit(1)
	}
}

// =============================================================================
// INITIALIZATION
// =============================================================================

func init() {
	cobra.OnInitialize(initConfig)

	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "",
		fmt.Sprintf("Path to the configuration file (default is %s)", config.DefaultConfigFile))
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Enable verbose output for debugging")
	rootCmd.PersistentFlags().String("log-level", "", "Log level: debug, info, warn or error")

	if err := viper.BindPFlag("log-level", rootCmd.PersistentFlags().Lookup("log-level")); err != nil {
		fmt.Fprintf(os.Stderr, "Error binding root flags: %v\n", err)
		os.Exit(1)
	}
}

// initConfig loads .env and wires CRIMECHART_* environment variables into
// viper.
func initConfig() {
	// A missing .env is normal.
	_ = godotenv.Load()

	viper.SetEnvPrefix("CRIMECHART")
	viper.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	viper.AutomaticEnv()
}

// bindFlags binds the named flags of cmd to viper keys of the same name.
// Binding happens when the command runs so that commands sharing a flag
// name do not steal each other's bindings.
func bindFlags(cmd *cobra.Command, names ...string) error {
	for _, name := range names {
		if err := viper.BindPFlag(name, cmd.Flags().Lookup(name)); err != nil {
			return fmt.Errorf("failed to bind flag %s: %w", name, err)
		}
	}
	return nil
}

// =============================================================================
// CONFIGURATION HELPERS
// =============================================================================

// loadConfig reads the configuration file and applies environment and
// flag overrides.
func loadConfig() (*config.Config, error) {
	var (
		cfg *config.Config
		err error
	)
	switch {
	case cfgFile == "":
		cfg, err = config.LoadOrDefault(config.DefaultConfigFile)
	case !utils.FileExists(cfgFile):
		return nil, fmt.Errorf("config file not found: %s", cfgFile)
	default:
		cfg, err = config.Load(cfgFile)
	}
	if err != nil {
		return nil, err
	}

	if err := applyOverrides(cfg, viper.GetViper()); err != nil {
		return nil, err
	}
	if verbose {
		cfg.LogLevel = "debug"
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}
	return cfg, nil
}

// applyOverrides copies every key set in v (by flag or environment) onto
// cfg. Unset keys leave the file value alone. A y-max of 0 is rejected
// here: in the config file 0 means "use the default", which a flag
// cannot ask for.
func applyOverrides(cfg *config.Config, v *viper.Viper) error {
	if v.IsSet("format") {
		cfg.Output.Format = strings.ToLower(v.GetString("format"))
	}
	if v.IsSet("out-dir") {
		cfg.Output.Dir = v.GetString("out-dir")
	}
	if v.IsSet("file-pattern") {
		cfg.Output.FilePattern = v.GetString("file-pattern")
	}
	if v.IsSet("concurrency") {
		cfg.Output.MaxConcurrency = v.GetInt("concurrency")
	}
	if v.IsSet("strict") {
		cfg.Strict = v.GetBool("strict")
	}
	if v.IsSet("y-max") {
		yMax := v.GetFloat64("y-max")
		if yMax == 0 {
			return errors.New("y-max must not be 0: give a positive upper bound, or a negative value to size the axis from the data")
		}
		cfg.Chart.YMax = yMax
	}
	if v.IsSet("auto-scale") {
		cfg.Chart.AutoScale = v.GetBool("auto-scale")
	}
	if v.IsSet("title") {
		cfg.Chart.Title = v.GetString("title")
	}
	if v.IsSet("log-level") && v.GetString("log-level") != "" {
		cfg.LogLevel = v.GetString("log-level")
	}
	return nil
}

// newLogger builds the stderr logger for cfg.
func newLogger(cfg *config.Config) (pipeline.Logger, error) {
	logger, err := pipeline.NewLogger(os.Stderr, cfg.LogLevel)
	if err != nil {
		return nil, err
	}
	return logger, nil
}
