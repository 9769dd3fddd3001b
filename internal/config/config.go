// =============================================================================
// Report Consolidator - Configuration Module
// =============================================================================
//
// This module is responsible for loading the application configuration.
//
// CONFIGURATION SOURCES (later sources win):
//   1. Built-in defaults (the format of the consolidated reports)
//   2. The YAML file (config.yaml by default, optional)
//   3. Environment variables, optionally read from a .env file
//
// The core packages never read the environment themselves; the CLI resolves
// configuration once and passes plain values down.
//
// =============================================================================

package config

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

// =============================================================================
// ENVIRONMENT VARIABLES
// =============================================================================

const (
	EnvDelimiter   = "CONSOLIDATOR_DELIMITER"
	EnvEncoding    = "CONSOLIDATOR_ENCODING"
	EnvOnReadError = "CONSOLIDATOR_ON_READ_ERROR"
	EnvLogLevel    = "CONSOLIDATOR_LOG_LEVEL"
)

// Read error policies.
const (
	OnReadErrorAbort = "abort"
	OnReadErrorSkip  = "skip"
)

// =============================================================================
// CONFIGURATION STRUCTURE
// =============================================================================

// Config holds the application configuration.
type Config struct {
	// Report describes the layout of the input report files.
	Report ReportSettings `yaml:"report"`

	// Consolidation holds defaults for the consolidate command.
	Consolidation ConsolidationSettings `yaml:"consolidation"`

	// Conversion holds defaults for the convert command.
	Conversion ConversionSettings `yaml:"conversion"`

	// LogLevel controls the verbosity of logging.
	// Valid values: "debug", "info", "warn", "error"
	// Default: "info"
	LogLevel string `yaml:"log_level"`
}

// ReportSettings describes the semi-structured report format.
type ReportSettings struct {
	// Delimiter separates fields within a report line.
	// Default: ";"
	Delimiter string `yaml:"delimiter"`

	// HeaderLines is the size of the header block shared by every report.
	// Default: 3
	HeaderLines int `yaml:"header_lines"`

	// TailWindow is the number of trailing lines scanned for totals.
	// Default: 10
	TailWindow int `yaml:"tail_window"`

	// Encoding of the input files: "utf-8", "latin1" or "windows-1252".
	// A UTF-8 byte-order mark is always tolerated.
	// Default: "utf-8"
	Encoding string `yaml:"encoding"`

	// ExcludedLabels are total labels that are counts, not amounts.
	// Default: ["Total Procedimentos:"]
	ExcludedLabels []string `yaml:"excluded_labels"`

	// SummaryLabel opens the trailing grand total row.
	// Default: "Total Geral de Todos os Arquivos:"
	SummaryLabel string `yaml:"summary_label"`
}

// ConsolidationSettings holds defaults for a consolidation run.
type ConsolidationSettings struct {
	// Pattern is the glob used to select report files.
	// Default: "*.csv"
	Pattern string `yaml:"pattern"`

	// OutputFile is the consolidated file name, relative to the directory.
	// Default: "consolidado.csv"
	OutputFile string `yaml:"output_file"`

	// OnReadError decides what happens when a report cannot be read.
	//   "abort" - stop the whole run, write nothing (default)
	//   "skip"  - log the failure and continue with the next file
	OnReadError string `yaml:"on_read_error"`

	// SummaryLogDir, when set, receives a text summary of every run.
	SummaryLogDir string `yaml:"summary_log_dir"`
}

// ConversionSettings holds defaults for spreadsheet conversion.
type ConversionSettings struct {
	// Delimiter used in the generated CSV.
	// Default: ","
	Delimiter string `yaml:"delimiter"`
}

// =============================================================================
// CONFIGURATION LOADING FUNCTIONS
// =============================================================================

// Default returns a configuration with every default applied.
func Default() *Config {
	cfg := &Config{}
	applyDefaults(cfg)
	return cfg
}

// Load loads the configuration from a YAML file.
//
// PARAMETERS:
//   - configPath: The path to the configuration file.
//
// RETURNS:
//   - A pointer to the Config struct, defaults applied.
//   - An error if the file cannot be read or parsed.
func Load(configPath string) (*Config, error) {
	data, err := os.ReadFile(configPath)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	return Parse(data)
}

// LoadOptional behaves like Load but falls back to the defaults when the
// file does not exist.
func LoadOptional(configPath string) (*Config, error) {
	cfg, err := Load(configPath)
	if errors.Is(err, os.ErrNotExist) {
		return Default(), nil
	}
	return cfg, err
}

// Parse decodes YAML configuration data and applies defaults.
func Parse(data []byte) (*Config, error) {
	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config file: %w", err)
	}

	applyDefaults(&cfg)
	return &cfg, nil
}

// applyDefaults sets default values for any unset configuration options.
func applyDefaults(cfg *Config) {
	if cfg.Report.Delimiter == "" {
		cfg.Report.Delimiter = ";"
	}
	if cfg.Report.HeaderLines == 0 {
		cfg.Report.HeaderLines = 3
	}
	if cfg.Report.TailWindow == 0 {
		cfg.Report.TailWindow = 10
	}
	if cfg.Report.Encoding == "" {
		cfg.Report.Encoding = "utf-8"
	}
	if cfg.Report.ExcludedLabels == nil {
		cfg.Report.ExcludedLabels = []string{"Total Procedimentos:"}
	}
	if cfg.Report.SummaryLabel == "" {
		cfg.Report.SummaryLabel = "Total Geral de Todos os Arquivos:"
	}
	if cfg.Consolidation.Pattern == "" {
		cfg.Consolidation.Pattern = "*.csv"
	}
	if cfg.Consolidation.OutputFile == "" {
		cfg.Consolidation.OutputFile = "consolidado.csv"
	}
	if cfg.Consolidation.OnReadError == "" {
		cfg.Consolidation.OnReadError = OnReadErrorAbort
	}
	if cfg.Conversion.Delimiter == "" {
		cfg.Conversion.Delimiter = ","
	}
	if cfg.LogLevel == "" {
		cfg.LogLevel = "info"
	}
}

// =============================================================================
// ENVIRONMENT OVERRIDES
// =============================================================================

// LoadDotEnv reads KEY=VALUE pairs from a .env file into the process
// environment. Variables already set are left alone. A missing file is not
// an error.
func LoadDotEnv(path string) error {
	if path == "" {
		return nil
	}
	if _, err := os.Stat(path); errors.Is(err, os.ErrNotExist) {
		return nil
	}
	if err := godotenv.Load(path); err != nil {
		return fmt.Errorf("failed to load %s: %w", path, err)
	}
	return nil
}

// ApplyEnv overrides configuration values with the environment.
func (c *Config) ApplyEnv(lookup func(string) (string, bool)) {
	if lookup == nil {
		lookup = os.LookupEnv
	}
	if v, ok := lookup(EnvDelimiter); ok && v != "" {
		c.Report.Delimiter = v
	}
	if v, ok := lookup(EnvEncoding); ok && v != "" {
		c.Report.Encoding = v
	}
	if v, ok := lookup(EnvOnReadError); ok && v != "" {
		c.Consolidation.OnReadError = strings.ToLower(strings.TrimSpace(v))
	}
	if v, ok := lookup(EnvLogLevel); ok && v != "" {
		c.LogLevel = strings.ToLower(strings.TrimSpace(v))
	}
}
