// =============================================================================
// Report Consolidator - Validation Module
// =============================================================================
//
// This module validates the configuration before a run and checks the
// assumptions a consolidation relies on:
//   - Configuration values are usable (delimiter, window, policy, encoding)
//   - Every report in a batch shares the header block of the first report
//
// Header differences are warnings: the consolidated output still uses the
// first report's header, but the operator should know the batch is mixed.
//
// =============================================================================

package validation

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/ginjaninja78/report-consolidator/internal/config"
	"github.com/ginjaninja78/report-consolidator/internal/report"
)

// Severity levels.
const (
	SeverityError   = "error"
	SeverityWarning = "warning"
)

// =============================================================================
// VALIDATION ERROR STRUCTURE
// =============================================================================

// ValidationError represents a single validation problem.
type ValidationError struct {
	// Severity is "error" or "warning".
	Severity string

	// Field is the configuration key or file the problem relates to.
	Field string

	// Value is the offending value.
	Value string

	// Rule names the check that failed.
	Rule string

	// Message is a human-readable description.
	Message string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("[%s] %s: %s (value: '%s')",
		strings.ToUpper(e.Severity),
		e.Field,
		e.Message,
		e.Value,
	)
}

// ValidationResult aggregates the outcome of a validation pass.
type ValidationResult struct {
	IsValid      bool
	Errors       []*ValidationError
	ErrorCount   int
	WarningCount int
}

func newResult() *ValidationResult {
	return &ValidationResult{IsValid: true, Errors: make([]*ValidationError, 0)}
}

func (r *ValidationResult) add(e *ValidationError) {
	r.Errors = append(r.Errors, e)
	if e.Severity == SeverityError {
		r.ErrorCount++
		r.IsValid = false
	} else {
		r.WarningCount++
	}
}

// =============================================================================
// CONFIGURATION VALIDATION
// =============================================================================

// ValidateConfig checks a loaded configuration.
func ValidateConfig(cfg *config.Config) *ValidationResult {
	result := newResult()

	if cfg.Report.Delimiter == "" {
		result.add(&ValidationError{
			Severity: SeverityError,
			Field:    "report.delimiter",
			Rule:     "required",
			Message:  "delimiter must not be empty",
		})
	}

	if cfg.Report.HeaderLines < 0 {
		result.add(&ValidationError{
			Severity: SeverityError,
			Field:    "report.header_lines",
			Value:    fmt.Sprint(cfg.Report.HeaderLines),
			Rule:     "non_negative",
			Message:  "header_lines must be zero or more",
		})
	}

	if cfg.Report.TailWindow <= 0 {
		result.add(&ValidationError{
			Severity: SeverityError,
			Field:    "report.tail_window",
			Value:    fmt.Sprint(cfg.Report.TailWindow),
			Rule:     "positive",
			Message:  "tail_window must be at least 1",
		})
	}

	if _, err := report.CanonicalEncoding(cfg.Report.Encoding); err != nil {
		result.add(&ValidationError{
			Severity: SeverityError,
			Field:    "report.encoding",
			Value:    cfg.Report.Encoding,
			Rule:     "supported_encoding",
			Message:  "use utf-8, latin1 or windows-1252",
		})
	}

	for _, label := range cfg.Report.ExcludedLabels {
		if strings.TrimSpace(label) != label {
			result.add(&ValidationError{
				Severity: SeverityWarning,
				Field:    "report.excluded_labels",
				Value:    label,
				Rule:     "trimmed",
				Message:  "labels are compared against trimmed fields and will never match",
			})
		}
	}

	switch cfg.Consolidation.OnReadError {
	case config.OnReadErrorAbort, config.OnReadErrorSkip:
	default:
		result.add(&ValidationError{
			Severity: SeverityError,
			Field:    "consolidation.on_read_error",
			Value:    cfg.Consolidation.OnReadError,
			Rule:     "one_of",
			Message:  "must be 'abort' or 'skip'",
		})
	}

	if _, err := filepath.Match(cfg.Consolidation.Pattern, ""); err != nil {
		result.add(&ValidationError{
			Severity: SeverityError,
			Field:    "consolidation.pattern",
			Value:    cfg.Consolidation.Pattern,
			Rule:     "glob",
			Message:  "pattern is not a valid glob",
		})
	}

	if len([]rune(cfg.Conversion.Delimiter)) != 1 {
		result.add(&ValidationError{
			Severity: SeverityError,
			Field:    "conversion.delimiter",
			Value:    cfg.Conversion.Delimiter,
			Rule:     "single_char",
			Message:  "CSV delimiter must be a single character",
		})
	}

	switch cfg.LogLevel {
	case "debug", "info", "warn", "warning", "error":
	default:
		result.add(&ValidationError{
			Severity: SeverityWarning,
			Field:    "log_level",
			Value:    cfg.LogLevel,
			Rule:     "one_of",
			Message:  "unknown level, falling back to info",
		})
	}

	return result
}

// =============================================================================
// HEADER VALIDATION
// =============================================================================

// CompareHeaders checks a report header against the reference header.
// Line terminators are ignored. It returns nil when both match.
func CompareHeaders(reference, header []string, path string) *ValidationError {
	if len(reference) == 0 || len(header) == 0 {
		return nil
	}

	for i := range reference {
		if i >= len(header) {
			break
		}
		want := strings.TrimRight(reference[i], "\r\n")
		got := strings.TrimRight(header[i], "\r\n")
		if want != got {
			return &ValidationError{
				Severity: SeverityWarning,
				Field:    filepath.Base(path),
				Value:    got,
				Rule:     "shared_header",
				Message:  fmt.Sprintf("header line %d differs from the first report", i+1),
			}
		}
	}

	return nil
}
