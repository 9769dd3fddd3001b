// =============================================================================
// Report Consolidator - Report Reader
// =============================================================================
//
// This module reads report files as ordered text lines. Unlike a CSV record
// parser it keeps every line verbatim, line terminator included, because the
// consolidated output must reproduce the data rows byte for byte.
//
// FEATURES:
//   - UTF-8 input with or without a byte-order mark (the BOM is dropped)
//   - Latin-1 / Windows-1252 input for reports exported by older systems
//   - Invalid UTF-8 is reported as a DecodeError instead of being replaced
//   - Header/body split by a fixed number of header lines
//
// =============================================================================

package report

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"
	"unicode/utf8"

	"golang.org/x/text/encoding/charmap"
	"golang.org/x/text/encoding/unicode"
	"golang.org/x/text/transform"
)

// =============================================================================
// ENCODINGS
// =============================================================================

const (
	// EncodingUTF8 is the default. A leading BOM is tolerated.
	EncodingUTF8 = "utf-8"

	// EncodingLatin1 is ISO-8859-1.
	EncodingLatin1 = "latin1"

	// EncodingWindows1252 is the Windows western code page.
	EncodingWindows1252 = "windows-1252"
)

// ErrUnsupportedEncoding is returned for unknown encoding names.
var ErrUnsupportedEncoding = errors.New("unsupported encoding")

// DecodeError reports a line that is not valid in the declared encoding.
type DecodeError struct {
	Line     int
	Encoding string
}

func (e *DecodeError) Error() string {
	return fmt.Sprintf("line %d is not valid %s", e.Line, e.Encoding)
}

// CanonicalEncoding maps accepted aliases onto one of the Encoding constants.
func CanonicalEncoding(name string) (string, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "", "utf-8", "utf8", "utf-8-sig", "utf8-sig":
		return EncodingUTF8, nil
	case "latin1", "latin-1", "iso-8859-1", "iso8859-1":
		return EncodingLatin1, nil
	case "windows-1252", "cp1252", "win1252":
		return EncodingWindows1252, nil
	default:
		return "", fmt.Errorf("%w: %q", ErrUnsupportedEncoding, name)
	}
}

// decoder returns the transformer for an encoding and whether the decoded
// text still has to be validated as UTF-8.
func decoder(encoding string) (transform.Transformer, bool, error) {
	canonical, err := CanonicalEncoding(encoding)
	if err != nil {
		return nil, false, err
	}

	switch canonical {
	case EncodingLatin1:
		return charmap.ISO8859_1.NewDecoder(), false, nil
	case EncodingWindows1252:
		return charmap.Windows1252.NewDecoder(), false, nil
	default:
		// BOMOverride strips a UTF-8 (or UTF-16) BOM and decodes accordingly.
		// Without a BOM the bytes pass through untouched and are validated.
		return unicode.BOMOverride(transform.Nop), true, nil
	}
}

// =============================================================================
// READING
// =============================================================================

// ReadLines decodes r and splits it into lines. Each line keeps its
// terminator; a final line without one is returned as is.
func ReadLines(r io.Reader, encoding string) ([]string, error) {
	t, validate, err := decoder(encoding)
	if err != nil {
		return nil, err
	}

	canonical, _ := CanonicalEncoding(encoding)
	reader := bufio.NewReader(transform.NewReader(r, t))

	var lines []string
	for {
		line, err := reader.ReadString('\n')
		if line != "" {
			if validate && !utf8.ValidString(line) {
				return nil, &DecodeError{Line: len(lines) + 1, Encoding: canonical}
			}
			lines = append(lines, line)
		}
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("failed to read line %d: %w", len(lines)+1, err)
		}
	}

	return lines, nil
}

// Report is one input file as an ordered sequence of lines.
type Report struct {
	// Path is the file the lines were read from.
	Path string

	// Lines holds every line, terminators included.
	Lines []string
}

// Load reads a report file.
func Load(path, encoding string) (*Report, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open file: %w", err)
	}
	defer file.Close()

	lines, err := ReadLines(file, encoding)
	if err != nil {
		return nil, err
	}

	return &Report{Path: path, Lines: lines}, nil
}

// Header returns the first n lines, or nil when the report is shorter.
func (r *Report) Header(n int) []string {
	if n <= 0 || len(r.Lines) < n {
		return nil
	}
	return r.Lines[:n]
}

// Body returns the lines after the first n, or nil when there are none.
func (r *Report) Body(n int) []string {
	if n < 0 || len(r.Lines) <= n {
		return nil
	}
	return r.Lines[n:]
}

// HasBody reports whether at least one data line follows the header.
func (r *Report) HasBody(n int) bool {
	return len(r.Body(n)) > 0
}
