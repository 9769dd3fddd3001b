// =============================================================================
// Report Consolidator - Convert Command
// =============================================================================
//
// This file defines the 'convert' command, which exports one sheet of an
// XLS or XLSX workbook to a UTF-8 CSV file.
//
// COMMAND USAGE:
//   consolidator convert <input.xls|input.xlsx> [output.csv] [flags]
//
// FLAGS:
//   --sheet     : sheet index (0-based) or name, default the first sheet
//   --delimiter : CSV field delimiter (default from config, ",")
//
// =============================================================================

package cmd

import (
	"fmt"
	"unicode/utf8"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/ginjaninja78/report-consolidator/internal/spreadsheet"
	"github.com/ginjaninja78/report-consolidator/pkg/utils"
)

var (
	sheetSelector    string
	convertDelimiter string
)

var convertCmd = &cobra.Command{
	Use:   "convert <input.xls|input.xlsx> [output.csv]",
	Short: "Export a workbook sheet to CSV",
	Long: `The convert command writes one sheet of an Excel workbook as a UTF-8 CSV
file. The first row is kept as-is, blank rows are dropped and empty cells stay
empty. Without an output name the input name with a .csv extension is used.

Use 'consolidator sheets <workbook>' to see the available sheets.`,
	Args: cobra.RangeArgs(1, 2),
	RunE: runConvert,
}

func init() {
	rootCmd.AddCommand(convertCmd)

	convertCmd.Flags().StringVar(
		&sheetSelector,
		"sheet",
		"",
		"Sheet to export, by 0-based index or by name (default: first sheet)",
	)

	convertCmd.Flags().StringVar(
		&convertDelimiter,
		"delimiter",
		"",
		"CSV field delimiter (default from config)",
	)
}

func runConvert(cmd *cobra.Command, args []string) error {
	out := cmd.OutOrStdout()
	input := args[0]

	output := ""
	if len(args) > 1 {
		output = args[1]
	}

	if !utils.FileExists(input) {
		return fmt.Errorf("file '%s' does not exist", input)
	}

	delimiter := cfg.Conversion.Delimiter
	if convertDelimiter != "" {
		delimiter = convertDelimiter
	}
	if utf8.RuneCountInString(delimiter) != 1 {
		return fmt.Errorf("delimiter must be a single character, got %q", delimiter)
	}
	comma, _ := utf8.DecodeRuneInString(delimiter)

	logger.Infof("Reading file '%s'", input)

	result, err := spreadsheet.Convert(input, output, spreadsheet.ConvertOptions{
		Sheet:     sheetSelector,
		Delimiter: comma,
	})
	if err != nil {
		return fmt.Errorf("conversion failed: %w", err)
	}

	logger.WithFields(logrus.Fields{
		"sheet":   result.Sheet,
		"rows":    result.Rows,
		"columns": result.Columns,
	}).Debug("Sheet exported")

	fmt.Fprintf(out, "Conversion complete! Sheet '%s' saved as '%s' (%d rows).\n",
		result.Sheet, result.Output, result.Rows)
	return nil
}
