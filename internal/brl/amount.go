// =============================================================================
// Report Consolidator - Brazilian Amount Formatting
// =============================================================================
//
// Reports use the Brazilian numeric convention for money:
//   - "." is the thousands separator
//   - "," is the decimal separator
//
// Reading and writing are NOT symmetric. Input such as "1.234,56" is
// normalized to the machine form "1234.56"; output is rendered as "1234,56"
// (comma decimal, exactly two fraction digits, no thousands separator).
// Downstream consumers of the consolidated file rely on that exact text.
//
// =============================================================================

package brl

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/shopspring/decimal"
)

// FractionDigits is the fixed number of decimal places used in output.
const FractionDigits = 2

// Normalize converts a Brazilian formatted amount into machine form.
//
// The value is trimmed, every "." is dropped, "," becomes ".", and finally
// any character that is neither a digit nor "." is removed. Currency symbols,
// quotes and signs therefore disappear. An empty result means the field
// carried no number at all.
func Normalize(raw string) string {
	s := strings.TrimSpace(raw)
	s = strings.ReplaceAll(s, ".", "")
	s = strings.ReplaceAll(s, ",", ".")

	var b strings.Builder
	b.Grow(len(s))
	for _, r := range s {
		if (r >= '0' && r <= '9') || r == '.' {
			b.WriteRune(r)
		}
	}
	return b.String()
}

// ParseNormalized parses a value already produced by Normalize.
// Values such as "1.2.3" (from "1,2,3") or "." are rejected.
func ParseNormalized(s string) (decimal.Decimal, error) {
	if _, err := strconv.ParseFloat(s, 64); err != nil {
		return decimal.Zero, fmt.Errorf("invalid amount %q: %w", s, err)
	}
	d, err := decimal.NewFromString(s)
	if err != nil {
		return decimal.Zero, fmt.Errorf("invalid amount %q: %w", s, err)
	}
	return d, nil
}

// Parse normalizes and parses a Brazilian formatted amount.
// It returns ok=false when the normalized value is empty.
func Parse(raw string) (value decimal.Decimal, ok bool, err error) {
	s := Normalize(raw)
	if s == "" {
		return decimal.Zero, false, nil
	}
	d, err := ParseNormalized(s)
	if err != nil {
		return decimal.Zero, false, err
	}
	return d, true, nil
}

// Format renders an amount with a comma decimal separator and two digits.
// Rounding happens on the nearest float64, half to even, so 0,125 becomes
// 0,12 and 2,675 becomes 2,67 (2.675 is stored just below the half).
func Format(d decimal.Decimal) string {
	return FormatFloat(d.InexactFloat64())
}

// FormatFloat is Format for callers holding a float64.
func FormatFloat(f float64) string {
	return strings.Replace(strconv.FormatFloat(f, 'f', FractionDigits, 64), ".", ",", 1)
}
