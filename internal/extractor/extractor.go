// =============================================================================
// Report Consolidator - Total Extractor
// =============================================================================
//
// The extractor scans the tail of a report for monetary "Total" fields and
// sums them.
//
// ALGORITHM:
//   1. Only the last TailWindow lines are inspected (Total rows sit at the end
//      of a report; earlier ones are ignored).
//   2. Each line containing the marker ("Total") is tokenized by the delimiter.
//   3. A field containing the marker and ":" followed by another field is a
//      candidate. Excluded labels (by default "Total Procedimentos:", which is
//      a count) are skipped by exact match on the trimmed field.
//   4. The following field is normalized from Brazilian format and parsed.
//      Unparseable values are recorded as FieldParseError and skipped.
//
// =============================================================================

package extractor

import (
	"fmt"
	"io"
	"strings"

	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"

	"github.com/ginjaninja78/report-consolidator/internal/brl"
)

// =============================================================================
// DEFAULTS
// =============================================================================

const (
	// DefaultTailWindow is the number of trailing lines scanned for totals.
	DefaultTailWindow = 10

	// DefaultDelimiter separates fields in a report line.
	DefaultDelimiter = ";"

	// DefaultMarker is the substring that flags a total label.
	DefaultMarker = "Total"

	// ProceduresLabel counts procedures; it is not a monetary value.
	ProceduresLabel = "Total Procedimentos:"
)

// =============================================================================
// TYPES
// =============================================================================

// Options controls how a report tail is scanned.
type Options struct {
	// TailWindow is the maximum number of trailing lines to inspect.
	TailWindow int

	// Delimiter separates fields within a line.
	Delimiter string

	// Marker must appear in a line (and in a field) for it to be considered.
	Marker string

	// ExcludedLabels are compared against trimmed fields by exact equality.
	ExcludedLabels []string
}

// DefaultOptions returns the options used by the consolidated reports.
func DefaultOptions() Options {
	return Options{
		TailWindow:     DefaultTailWindow,
		Delimiter:      DefaultDelimiter,
		Marker:         DefaultMarker,
		ExcludedLabels: []string{ProceduresLabel},
	}
}

// Match is a total field that contributed to the sum.
type Match struct {
	// LineIndex is the index of the line within the slice passed to Extract.
	LineIndex int

	// Line is the line content without its terminator.
	Line string

	// Label is the trimmed "Total <label>:" field.
	Label string

	// Raw is the value field as written in the report.
	Raw string

	// Value is the parsed amount.
	Value decimal.Decimal
}

// Extraction is the outcome of scanning one sequence of lines.
type Extraction struct {
	// Total is the sum of every Match value.
	Total decimal.Decimal

	// Matches lists contributing fields in scan order.
	Matches []Match

	// Errors lists value fields that could not be parsed. They do not
	// contribute to Total.
	Errors []*FieldParseError
}

// TotalFloat returns Total as a float64.
func (e *Extraction) TotalFloat() float64 {
	return e.Total.InexactFloat64()
}

// FieldParseError reports a candidate value field that failed to parse.
type FieldParseError struct {
	LineIndex int
	Label     string
	Value     string
	Err       error
}

func (e *FieldParseError) Error() string {
	return fmt.Sprintf("line %d: cannot convert value %q after %q: %v", e.LineIndex+1, e.Value, e.Label, e.Err)
}

func (e *FieldParseError) Unwrap() error {
	return e.Err
}

// =============================================================================
// EXTRACTOR
// =============================================================================

// Extractor sums total fields found in report tails.
type Extractor struct {
	opts   Options
	logger logrus.FieldLogger
}

// New creates an extractor. Zero-valued options fall back to the defaults.
// A nil logger discards output.
func New(opts Options, logger logrus.FieldLogger) *Extractor {
	def := DefaultOptions()
	if opts.TailWindow <= 0 {
		opts.TailWindow = def.TailWindow
	}
	if opts.Delimiter == "" {
		opts.Delimiter = def.Delimiter
	}
	if opts.Marker == "" {
		opts.Marker = def.Marker
	}
	if opts.ExcludedLabels == nil {
		opts.ExcludedLabels = def.ExcludedLabels
	}
	if logger == nil {
		l := logrus.New()
		l.SetOutput(io.Discard)
		logger = l
	}
	return &Extractor{opts: opts, logger: logger}
}

// Options returns the effective options.
func (x *Extractor) Options() Options {
	return x.opts
}

// Extract scans the tail window of lines and sums every qualifying value.
func (x *Extractor) Extract(lines []string) *Extraction {
	result := &Extraction{Total: decimal.Zero}

	window := x.opts.TailWindow
	if len(lines) < window {
		window = len(lines)
	}

	for i := len(lines) - window; i < len(lines); i++ {
		if !strings.Contains(lines[i], x.opts.Marker) {
			continue
		}
		x.scanLine(i, lines[i], result)
	}

	return result
}

// scanLine walks the fields of one line looking for label/value pairs.
func (x *Extractor) scanLine(index int, line string, result *Extraction) {
	fields := Tokenize(line, x.opts.Delimiter)
	trimmed := strings.TrimRight(line, "\r\n")

	for j := 0; j+1 < len(fields); j++ {
		label := fields[j]
		if !isTotalLabel(label, x.opts.Marker) {
			continue
		}
		if isExcluded(label, x.opts.ExcludedLabels) {
			continue
		}

		raw := fields[j+1].Raw
		value, ok, err := brl.Parse(raw)
		if err != nil {
			perr := &FieldParseError{
				LineIndex: index,
				Label:     label.Text,
				Value:     raw,
				Err:       err,
			}
			result.Errors = append(result.Errors, perr)
			x.logger.WithField("line", index+1).Warnf("Error converting value: %s", raw)
			continue
		}
		if !ok {
			continue
		}

		result.Total = result.Total.Add(value)
		result.Matches = append(result.Matches, Match{
			LineIndex: index,
			Line:      trimmed,
			Label:     label.Text,
			Raw:       raw,
			Value:     value,
		})
		x.logger.WithFields(logrus.Fields{
			"label": label.Text,
			"value": value.String(),
		}).Infof("Value found (line: %s)", strings.TrimSpace(trimmed))
	}
}

// ExtractTotal sums the total fields of lines using the default options.
func ExtractTotal(lines []string) float64 {
	return New(DefaultOptions(), nil).Extract(lines).TotalFloat()
}
