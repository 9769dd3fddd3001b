// =============================================================================
// Report Consolidator - Main Entry Point
// =============================================================================
//
// This is the main entry point for the Report Consolidator CLI application.
// It delegates command execution to the cmd package (Cobra).
//
// USAGE:
//   consolidator consolidate   - Merge report CSV files and sum their totals
//   consolidator convert       - Export an XLS/XLSX sheet to CSV
//   consolidator sheets        - List workbook sheets or workbooks
//   consolidator validate      - Validate the configuration
//   consolidator version       - Display the application version
//
// ARCHITECTURE:
//   - cmd/           : CLI command definitions (Cobra)
//   - internal/      : Core logic (extraction, consolidation, conversion)
//   - pkg/           : Shared file utilities
//
// =============================================================================

package main

import (
	"github.com/ginjaninja78/report-consolidator/cmd"
)

func main() {
	cmd.Execute()
}
