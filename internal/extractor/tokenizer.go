package extractor

import "strings"

// Field is one delimiter-separated cell of a report line.
type Field struct {
	// Index is the zero-based position of the field within the line.
	Index int

	// Raw is the field exactly as it appeared between delimiters.
	Raw string

	// Text is Raw with surrounding whitespace removed.
	Text string
}

// Tokenize splits a line into fields. Trailing line terminators are dropped
// first so the last field never carries "\n" or "\r".
func Tokenize(line, delimiter string) []Field {
	line = strings.TrimRight(line, "\r\n")
	parts := strings.Split(line, delimiter)

	fields := make([]Field, len(parts))
	for i, part := range parts {
		fields[i] = Field{
			Index: i,
			Raw:   part,
			Text:  strings.TrimSpace(part),
		}
	}
	return fields
}

// isTotalLabel reports whether a field looks like "Total <label>:".
func isTotalLabel(f Field, marker string) bool {
	return strings.Contains(f.Raw, marker) && strings.Contains(f.Raw, ":")
}

// isExcluded compares the trimmed field against the excluded labels using
// full string equality. "Total Procedimentos Extras:" is not excluded by
// "Total Procedimentos:".
func isExcluded(f Field, excluded []string) bool {
	for _, label := range excluded {
		if f.Text == label {
			return true
		}
	}
	return false
}
