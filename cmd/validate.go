// =============================================================================
// Report Consolidator - Validate Command
// =============================================================================
//
// This file defines the 'validate' command, which loads the configuration
// (file, .env and environment) and reports every problem found, without
// touching any report.
//
// COMMAND USAGE:
//   consolidator validate [--config path]
//
// =============================================================================

package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/ginjaninja78/report-consolidator/internal/validation"
)

var validateCmd = &cobra.Command{
	Use:   "validate",
	Short: "Validate the configuration without processing any file",
	RunE: func(cmd *cobra.Command, args []string) error {
		out := cmd.OutOrStdout()
		result := validation.ValidateConfig(cfg)

		fmt.Fprintln(out, "=== Configuration Validation ===")
		fmt.Fprintf(out, "Delimiter:       %q\n", cfg.Report.Delimiter)
		fmt.Fprintf(out, "Header lines:    %d\n", cfg.Report.HeaderLines)
		fmt.Fprintf(out, "Tail window:     %d\n", cfg.Report.TailWindow)
		fmt.Fprintf(out, "Encoding:        %s\n", cfg.Report.Encoding)
		fmt.Fprintf(out, "Pattern:         %s\n", cfg.Consolidation.Pattern)
		fmt.Fprintf(out, "On read error:   %s\n", cfg.Consolidation.OnReadError)

		for _, e := range result.Errors {
			fmt.Fprintf(out, "  %s\n", e.Error())
		}

		if !result.IsValid {
			return fmt.Errorf("configuration has %d error(s) and %d warning(s)",
				result.ErrorCount, result.WarningCount)
		}

		fmt.Fprintf(out, "Configuration is valid (%d warning(s)).\n", result.WarningCount)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(validateCmd)
}
