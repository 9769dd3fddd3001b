package spreadsheet

import (
	"bytes"
	"encoding/csv"
	"fmt"

	"github.com/ginjaninja78/report-consolidator/pkg/utils"
)

// ConvertOptions controls a sheet export.
type ConvertOptions struct {
	// Sheet selects the sheet by zero-based index or by name.
	// Empty means the first sheet.
	Sheet string

	// Delimiter separates fields in the CSV. Zero means ','.
	Delimiter rune
}

// ConvertResult describes a finished export.
type ConvertResult struct {
	Input   string
	Output  string
	Sheet   string
	Rows    int
	Columns int
}

// Convert exports one sheet of the workbook at input as a UTF-8 CSV file.
// Blank rows are dropped and short rows are padded so every record has the
// same number of fields. When output is empty the input path with a .csv
// extension is used.
func Convert(input, output string, opts ConvertOptions) (*ConvertResult, error) {
	if output == "" {
		output = utils.ReplaceExtension(input, ".csv")
	}

	wb, err := Open(input)
	if err != nil {
		return nil, err
	}
	defer wb.Close()

	names := wb.SheetNames()
	index, err := ResolveSheet(names, opts.Sheet)
	if err != nil {
		return nil, err
	}

	rows, err := wb.Rows(index)
	if err != nil {
		return nil, err
	}

	records := normalizeRows(rows)
	data, err := encodeCSV(records, opts.Delimiter)
	if err != nil {
		return nil, err
	}

	if err := utils.WriteFileAtomic(output, data, 0644); err != nil {
		return nil, fmt.Errorf("failed to write %s: %w", output, err)
	}

	columns := 0
	if len(records) > 0 {
		columns = len(records[0])
	}

	return &ConvertResult{
		Input:   input,
		Output:  output,
		Sheet:   names[index],
		Rows:    len(records),
		Columns: columns,
	}, nil
}

// normalizeRows drops blank rows and pads the rest to the widest row.
func normalizeRows(rows [][]string) [][]string {
	width := 0
	for _, row := range rows {
		if len(row) > width {
			width = len(row)
		}
	}

	records := make([][]string, 0, len(rows))
	for _, row := range rows {
		if isRowEmpty(row) {
			continue
		}
		record := make([]string, width)
		copy(record, row)
		records = append(records, record)
	}
	return records
}

func encodeCSV(records [][]string, delimiter rune) ([]byte, error) {
	var buf bytes.Buffer
	w := csv.NewWriter(&buf)
	if delimiter != 0 {
		w.Comma = delimiter
	}
	if err := w.WriteAll(records); err != nil {
		return nil, fmt.Errorf("failed to encode CSV: %w", err)
	}
	return buf.Bytes(), nil
}
