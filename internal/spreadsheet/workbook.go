// =============================================================================
// Report Consolidator - Workbook Reader
// =============================================================================
//
// This module opens spreadsheet workbooks so a sheet can be exported to CSV.
// Two formats are supported:
//   - .xlsx / .xlsm (Office Open XML) through excelize
//   - .xls (BIFF, Excel 97-2003) through extrame/xls
//
// Rows are returned as the formatted cell text, trailing empty rows removed.
//
// =============================================================================

package spreadsheet

import (
	"bytes"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/extrame/xls"
	"github.com/xuri/excelize/v2"
)

// ErrUnsupportedFormat is returned for files that are neither XLS nor XLSX.
var ErrUnsupportedFormat = errors.New("unsupported workbook format")

// ErrSheetNotFound is returned when a sheet selector matches nothing.
var ErrSheetNotFound = errors.New("sheet not found")

// =============================================================================
// WORKBOOK INTERFACE
// =============================================================================

// Workbook is a read-only view over a spreadsheet file.
type Workbook interface {
	// SheetNames lists sheets in workbook order.
	SheetNames() []string

	// Rows returns the cell text of the sheet at index.
	Rows(index int) ([][]string, error)

	// Close releases the underlying file.
	Close() error
}

// Open opens a workbook, choosing the reader by file extension.
func Open(path string) (Workbook, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".xlsx", ".xlsm":
		f, err := excelize.OpenFile(path)
		if err != nil {
			return nil, fmt.Errorf("failed to open workbook: %w", err)
		}
		return &xlsxWorkbook{file: f}, nil
	case ".xls":
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("failed to open workbook: %w", err)
		}
		wb, err := xls.OpenReader(bytes.NewReader(data), "utf-8")
		if err != nil {
			return nil, fmt.Errorf("failed to parse workbook: %w", err)
		}
		return &xlsWorkbook{book: wb}, nil
	default:
		return nil, fmt.Errorf("%w: %s", ErrUnsupportedFormat, filepath.Base(path))
	}
}

// ListSheets returns the sheet names of the workbook at path.
func ListSheets(path string) ([]string, error) {
	wb, err := Open(path)
	if err != nil {
		return nil, err
	}
	defer wb.Close()

	return wb.SheetNames(), nil
}

// ResolveSheet turns a selector into a sheet index. A selector that parses
// as an integer is a zero-based index; anything else is a sheet name. An
// empty selector means the first sheet.
func ResolveSheet(names []string, selector string) (int, error) {
	if len(names) == 0 {
		return 0, fmt.Errorf("%w: workbook has no sheets", ErrSheetNotFound)
	}

	selector = strings.TrimSpace(selector)
	if selector == "" {
		return 0, nil
	}

	if index, err := strconv.Atoi(selector); err == nil {
		if index < 0 || index >= len(names) {
			return 0, fmt.Errorf("%w: invalid sheet number %d, the file has %d sheet(s)", ErrSheetNotFound, index, len(names))
		}
		return index, nil
	}

	for i, name := range names {
		if name == selector {
			return i, nil
		}
	}
	return 0, fmt.Errorf("%w: sheet '%s' not found in the file", ErrSheetNotFound, selector)
}

// =============================================================================
// XLSX
// =============================================================================

type xlsxWorkbook struct {
	file *excelize.File
}

func (w *xlsxWorkbook) SheetNames() []string {
	return w.file.GetSheetList()
}

func (w *xlsxWorkbook) Rows(index int) ([][]string, error) {
	names := w.SheetNames()
	if index < 0 || index >= len(names) {
		return nil, fmt.Errorf("%w: index %d", ErrSheetNotFound, index)
	}

	rows, err := w.file.GetRows(names[index])
	if err != nil {
		return nil, fmt.Errorf("failed to read rows: %w", err)
	}
	return rows, nil
}

func (w *xlsxWorkbook) Close() error {
	return w.file.Close()
}

// =============================================================================
// XLS
// =============================================================================

type xlsWorkbook struct {
	book *xls.WorkBook
}

func (w *xlsWorkbook) SheetNames() []string {
	names := make([]string, 0, w.book.NumSheets())
	for i := 0; i < w.book.NumSheets(); i++ {
		if sheet := w.book.GetSheet(i); sheet != nil {
			names = append(names, sheet.Name)
		}
	}
	return names
}

func (w *xlsWorkbook) Rows(index int) ([][]string, error) {
	sheet := w.book.GetSheet(index)
	if sheet == nil {
		return nil, fmt.Errorf("%w: index %d", ErrSheetNotFound, index)
	}

	rows := make([][]string, 0, int(sheet.MaxRow)+1)
	for i := 0; i <= int(sheet.MaxRow); i++ {
		row := sheet.Row(i)
		if row == nil {
			rows = append(rows, nil)
			continue
		}
		cols := make([]string, row.LastCol())
		for j := range cols {
			cols[j] = row.Col(j)
		}
		rows = append(rows, cols)
	}
	return trimTrailingEmptyRows(rows), nil
}

func (w *xlsWorkbook) Close() error {
	return nil
}

// =============================================================================
// HELPERS
// =============================================================================

// isRowEmpty checks if a row contains only empty values.
func isRowEmpty(row []string) bool {
	for _, cell := range row {
		if strings.TrimSpace(cell) != "" {
			return false
		}
	}
	return true
}

func trimTrailingEmptyRows(rows [][]string) [][]string {
	end := len(rows)
	for end > 0 && isRowEmpty(rows[end-1]) {
		end--
	}
	return rows[:end]
}
