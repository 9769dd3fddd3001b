// =============================================================================
// Report Consolidator - Root Command
// =============================================================================
//
// This file defines the root command for the Cobra CLI. The root command is
// the base command that all other commands are attached to.
//
// COBRA CLI STRUCTURE:
//   rootCmd (consolidator)
//   ├── consolidateCmd (consolidator consolidate)
//   ├── convertCmd     (consolidator convert)
//   ├── sheetsCmd      (consolidator sheets)
//   ├── validateCmd    (consolidator validate)
//   └── versionCmd     (consolidator version)
//
// CONFIGURATION:
//   The root command is responsible for:
//   1. Setting up global flags (--config, --verbose, --log-format)
//   2. Loading .env, the YAML configuration and environment overrides
//   3. Setting up logging
//
// =============================================================================

package cmd

import (
	"fmt"
	"io"
	"os"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/ginjaninja78/report-consolidator/internal/config"
	"github.com/ginjaninja78/report-consolidator/pkg/utils"
)

// =============================================================================
// GLOBAL VARIABLES
// =============================================================================

// cfgFile holds the path to the main configuration file.
var cfgFile string

// verbose enables debug logging when set to true.
var verbose bool

// logFormat selects the log formatter: "text" or "json".
var logFormat string

// cfg is the resolved configuration, set before any subcommand runs.
var cfg *config.Config

// cfgSource names where cfg came from: the config file path, or
// "built-in defaults" when no file was found.
var cfgSource string

// logger is shared by every subcommand.
var logger = logrus.New()

// =============================================================================
// ROOT COMMAND DEFINITION
// =============================================================================

// rootCmd represents the base command when called without any subcommands.
var rootCmd = &cobra.Command{
	Use:   "consolidator",
	Short: "Report Consolidator - Merge billing CSV reports and sum their totals",

	Long: `Report Consolidator merges a batch of semicolon-delimited CSV reports that
share a common header into a single file, and appends a grand total computed
from the "Total" fields found near the end of each report.

Amounts use the Brazilian format: "." groups thousands and "," separates
decimals (1.234,56). The grand total is written with two decimals and no
thousands separator (1234,56).

Key Features:
  - Header block copied once from the first report
  - Per-file totals read from the last lines of each report
  - Abort or skip policy for unreadable files
  - XLS/XLSX sheet export to CSV

Example Usage:
  consolidator consolidate ./reports "clinic *.csv" consolidado.csv
  consolidator convert faturamento.xlsx --sheet Dados
  consolidator sheets faturamento.xls
  consolidator validate --config ./my.yaml`,

	SilenceUsage:  true,
	SilenceErrors: true,

	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		return initApp(cmd)
	},

	Run: func(cmd *cobra.Command, args []string) {
		cmd.Help()
	},
}

// =============================================================================
// EXECUTE FUNCTION
// =============================================================================

// Execute runs the root command. This is called by main.main().
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

// =============================================================================
// INITIALIZATION
// =============================================================================

func init() {
	rootCmd.PersistentFlags().StringVar(
		&cfgFile,
		"config",
		"config.yaml",
		"Path to the configuration file (optional unless set explicitly)",
	)

	rootCmd.PersistentFlags().BoolVarP(
		&verbose,
		"verbose",
		"v",
		false,
		"Enable verbose output for debugging",
	)

	rootCmd.PersistentFlags().StringVar(
		&logFormat,
		"log-format",
		"text",
		"Log format: text or json",
	)
}

// initApp resolves the configuration and configures the logger.
//
// An explicitly passed --config must exist. The default config.yaml is
// optional and built-in defaults are used without it.
func initApp(cmd *cobra.Command) error {
	if err := config.LoadDotEnv(".env"); err != nil {
		return err
	}

	var (
		loaded *config.Config
		err    error
	)
	if cmd.Flags().Changed("config") {
		loaded, err = config.Load(cfgFile)
	} else {
		loaded, err = config.LoadOptional(cfgFile)
	}
	if err != nil {
		return fmt.Errorf("failed to load configuration: %w", err)
	}
	loaded.ApplyEnv(nil)
	cfg = loaded

	cfgSource = "built-in defaults"
	if utils.FileExists(cfgFile) {
		cfgSource = cfgFile
	}

	return setupLogger(cmd.ErrOrStderr(), cfg.LogLevel)
}

// setupLogger applies the output, format and level to the shared logger.
func setupLogger(w io.Writer, level string) error {
	logger.SetOutput(w)

	switch logFormat {
	case "", "text":
		logger.SetFormatter(&logrus.TextFormatter{FullTimestamp: true})
	case "json":
		logger.SetFormatter(&logrus.JSONFormatter{})
	default:
		return fmt.Errorf("invalid log format %q (expected text or json)", logFormat)
	}

	lvl, err := logrus.ParseLevel(level)
	if err != nil {
		lvl = logrus.InfoLevel
	}
	if verbose {
		lvl = logrus.DebugLevel
	}
	logger.SetLevel(lvl)
	return nil
}
