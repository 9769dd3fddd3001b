// =============================================================================
// Report Consolidator - Consolidate Command
// =============================================================================
//
// This file defines the 'consolidate' command, the main command of the tool.
//
// COMMAND USAGE:
//   consolidator consolidate [directory] [glob_pattern] [output_file_name]
//
//   directory         default: current directory
//   glob_pattern      default: consolidation.pattern ("*.csv")
//   output_file_name  default: consolidation.output_file ("consolidado.csv"),
//                     relative names are placed inside directory
//
//   With no arguments and an interactive terminal, the three values are
//   asked for; pressing Enter keeps the default.
//
// FLAGS:
//   --on-read-error : abort (default) or skip unreadable files
//   --encoding      : input encoding (utf-8, latin1, windows-1252)
//   --summary-log   : directory that receives a text summary of the run
//   --dry-run       : compute the totals without writing the output
//
// =============================================================================

package cmd

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/ginjaninja78/report-consolidator/internal/brl"
	"github.com/ginjaninja78/report-consolidator/internal/consolidator"
	"github.com/ginjaninja78/report-consolidator/internal/extractor"
	"github.com/ginjaninja78/report-consolidator/internal/types"
	"github.com/ginjaninja78/report-consolidator/internal/validation"
	"github.com/ginjaninja78/report-consolidator/pkg/utils"
)

// =============================================================================
// COMMAND FLAGS
// =============================================================================

var (
	onReadError   string
	inputEncoding string
	summaryLogDir string
	dryRun        bool
)

// isInteractive reports whether r is a terminal. Replaced in tests.
var isInteractive = func(r io.Reader) bool {
	f, ok := r.(*os.File)
	if !ok {
		return false
	}
	info, err := f.Stat()
	if err != nil {
		return false
	}
	return info.Mode()&os.ModeCharDevice != 0
}

// =============================================================================
// CONSOLIDATE COMMAND DEFINITION
// =============================================================================

var consolidateCmd = &cobra.Command{
	Use:   "consolidate [directory] [glob_pattern] [output_file_name]",
	Short: "Merge report files and append the grand total",
	Long: `The consolidate command reads every file in the directory matching the glob
pattern, in sorted order, and writes one consolidated file:

  - the 3-line header of the first report
  - the data lines of every report, in order
  - a blank line
  - "Total Geral de Todos os Arquivos:;;Total:;<grand total>;"

Reports with no data lines after the header contribute nothing. The grand
total is the sum of the "Total" fields found in the last 10 data lines of
each report, excluding "Total Procedimentos:" counts.

Files that are never treated as reports, even when they match the pattern:
  - the output file itself, so a rerun does not fold the previous grand
    total back in
  - hidden files (names starting with "."), unless the pattern also starts
    with "."`,
	Args: cobra.MaximumNArgs(3),
	RunE: runConsolidate,
}

func init() {
	rootCmd.AddCommand(consolidateCmd)

	consolidateCmd.Flags().StringVar(
		&onReadError,
		"on-read-error",
		"",
		"What to do with unreadable files: abort or skip (default from config)",
	)

	consolidateCmd.Flags().StringVar(
		&inputEncoding,
		"encoding",
		"",
		"Input encoding: utf-8, latin1 or windows-1252 (default from config)",
	)

	consolidateCmd.Flags().StringVar(
		&summaryLogDir,
		"summary-log",
		"",
		"Directory for a text summary of the run (default from config)",
	)

	consolidateCmd.Flags().BoolVar(
		&dryRun,
		"dry-run",
		false,
		"Compute and report the totals without writing the output file",
	)
}

// =============================================================================
// MAIN PROCESSING FUNCTION
// =============================================================================

func runConsolidate(cmd *cobra.Command, args []string) error {
	out := cmd.OutOrStdout()

	directory := "."
	pattern := cfg.Consolidation.Pattern
	outputName := cfg.Consolidation.OutputFile

	if len(args) == 0 && isInteractive(cmd.InOrStdin()) {
		directory, pattern, outputName = promptArgs(cmd.InOrStdin(), out, directory, pattern, outputName)
	}
	if len(args) > 0 && args[0] != "" {
		directory = args[0]
	}
	if len(args) > 1 && args[1] != "" {
		pattern = args[1]
	}
	if len(args) > 2 && args[2] != "" {
		outputName = args[2]
	}

	if onReadError != "" {
		cfg.Consolidation.OnReadError = strings.ToLower(onReadError)
	}
	if inputEncoding != "" {
		cfg.Report.Encoding = inputEncoding
	}
	if summaryLogDir != "" {
		cfg.Consolidation.SummaryLogDir = summaryLogDir
	}

	if result := validation.ValidateConfig(cfg); !result.IsValid {
		for _, e := range result.Errors {
			logger.Error(e.Error())
		}
		return fmt.Errorf("configuration has %d error(s)", result.ErrorCount)
	}

	outputPath, err := utils.ResolveOutputPath(directory, outputName)
	if err != nil {
		return err
	}

	c := consolidator.New(consolidatorOptions(), logger)
	result, err := c.Run(directory, pattern, outputPath)
	if err != nil {
		return err
	}

	fmt.Fprintln(out, "\nProcessing complete!")
	if result.DryRun {
		fmt.Fprintf(out, "Dry run, nothing written to: %s\n", result.OutputPath)
	} else {
		fmt.Fprintf(out, "Consolidated file generated: %s\n", result.OutputPath)
	}
	fmt.Fprintf(out, "Files merged: %d, short: %d, failed: %d\n",
		result.Count(types.StatusMerged), result.Count(types.StatusShort), result.Count(types.StatusFailed))
	fmt.Fprintf(out, "Sum total of all files: %s\n", brl.Format(result.GrandTotal))

	if dir := cfg.Consolidation.SummaryLogDir; dir != "" {
		path, err := utils.WriteSummaryLog(result, dir)
		if err != nil {
			logger.WithError(err).Warn("Failed to write summary log")
		} else {
			fmt.Fprintf(out, "Summary written to: %s\n", path)
		}
	}

	return nil
}

// consolidatorOptions maps the resolved configuration onto the core options.
func consolidatorOptions() consolidator.Options {
	return consolidator.Options{
		HeaderLines:  cfg.Report.HeaderLines,
		Encoding:     cfg.Report.Encoding,
		SummaryLabel: cfg.Report.SummaryLabel,
		OnReadError:  consolidator.ReadErrorPolicy(cfg.Consolidation.OnReadError),
		DryRun:       dryRun,
		Extractor: extractor.Options{
			TailWindow:     cfg.Report.TailWindow,
			Delimiter:      cfg.Report.Delimiter,
			Marker:         extractor.DefaultMarker,
			ExcludedLabels: cfg.Report.ExcludedLabels,
		},
	}
}

// promptArgs asks for the directory, pattern and output name. An empty
// answer keeps the default shown in brackets.
func promptArgs(in io.Reader, out io.Writer, directory, pattern, output string) (string, string, string) {
	reader := bufio.NewReader(in)
	ask := func(question, def string) string {
		fmt.Fprintf(out, "%s [%s]: ", question, def)
		line, _ := reader.ReadString('\n')
		if v := strings.TrimSpace(line); v != "" {
			return v
		}
		return def
	}

	directory = ask("Directory of the CSV files", directory)
	pattern = ask("Pattern of the files to process (e.g. 'clinic *.csv')", pattern)
	output = ask("Output file name", output)
	return directory, pattern, output
}
