// =============================================================================
// Report Consolidator - File Management Utilities
// =============================================================================
//
// This module provides file discovery and output helpers:
//   - Discovering report files by glob, in deterministic (sorted) order
//   - Listing workbooks available for conversion
//   - Writing output atomically (temp file + rename, never a partial file)
//   - Writing a human-readable summary log for a consolidation run
//
// =============================================================================

package utils

import (
	"bufio"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/ginjaninja78/report-consolidator/internal/brl"
	"github.com/ginjaninja78/report-consolidator/internal/types"
)

// =============================================================================
// FILE MANAGER STRUCTURE
// =============================================================================

// FileManager handles file discovery within one directory.
type FileManager struct {
	// Dir is the directory that is scanned.
	Dir string
}

// NewFileManager creates a new FileManager for a directory.
func NewFileManager(dir string) *FileManager {
	return &FileManager{Dir: dir}
}

// =============================================================================
// FILE DISCOVERY
// =============================================================================

// DiscoverInputFiles returns the regular files in Dir matching pattern,
// sorted lexicographically so processing order never depends on the
// filesystem.
//
// PARAMETERS:
//   - pattern: A glob pattern (e.g., "*.csv"). Empty means "*.csv".
//
// RETURNS:
//   - A sorted slice of file paths.
//   - An error if the pattern is malformed.
func (fm *FileManager) DiscoverInputFiles(pattern string) ([]string, error) {
	if pattern == "" {
		pattern = "*.csv"
	}

	files, err := filepath.Glob(filepath.Join(fm.Dir, pattern))
	if err != nil {
		return nil, fmt.Errorf("failed to scan input directory: %w", err)
	}

	// Hidden entries (editor backups, "._" resource forks) only match a
	// pattern that itself starts with a dot, as with a shell glob.
	allowHidden := strings.HasPrefix(filepath.Base(pattern), ".")

	result := make([]string, 0, len(files))
	for _, file := range files {
		if !allowHidden && strings.HasPrefix(filepath.Base(file), ".") {
			continue
		}
		info, err := os.Stat(file)
		if err != nil {
			continue
		}
		if !info.IsDir() {
			result = append(result, file)
		}
	}

	sort.Strings(result)
	return result, nil
}

// ListWorkbooks returns the .xls and .xlsx files in Dir, sorted.
func (fm *FileManager) ListWorkbooks() ([]string, error) {
	var books []string
	for _, pattern := range []string{"*.xls", "*.xlsx"} {
		files, err := fm.DiscoverInputFiles(pattern)
		if err != nil {
			return nil, err
		}
		books = append(books, files...)
	}
	sort.Strings(books)
	return books, nil
}

// ResolveOutputPath joins a relative output name onto dir and returns an
// absolute path. Absolute names are returned cleaned.
func ResolveOutputPath(dir, name string) (string, error) {
	if !filepath.IsAbs(name) {
		name = filepath.Join(dir, name)
	}
	abs, err := filepath.Abs(name)
	if err != nil {
		return "", fmt.Errorf("failed to resolve output path: %w", err)
	}
	return abs, nil
}

// =============================================================================
// OUTPUT
// =============================================================================

// WriteFileAtomic writes data to a temporary file next to path and renames
// it into place, replacing any existing file. Readers never observe a
// partially written file.
func WriteFileAtomic(path string, data []byte, perm os.FileMode) error {
	dir := filepath.Dir(path)
	tmp, err := os.CreateTemp(dir, "."+filepath.Base(path)+".*.tmp")
	if err != nil {
		return fmt.Errorf("failed to create temporary file: %w", err)
	}
	tmpName := tmp.Name()

	cleanup := func() {
		tmp.Close()
		os.Remove(tmpName)
	}

	if _, err := tmp.Write(data); err != nil {
		cleanup()
		return fmt.Errorf("failed to write temporary file: %w", err)
	}
	if err := tmp.Sync(); err != nil {
		cleanup()
		return fmt.Errorf("failed to sync temporary file: %w", err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("failed to close temporary file: %w", err)
	}
	if err := os.Chmod(tmpName, perm); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("failed to set permissions: %w", err)
	}
	if err := os.Rename(tmpName, path); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("failed to move file into place: %w", err)
	}

	return nil
}

// NewRunID returns a random identifier for a consolidation run.
func NewRunID() string {
	return uuid.New().String()
}

// =============================================================================
// SUMMARY LOG
// =============================================================================

// WriteSummaryLog writes a processing summary to a text file.
//
// PARAMETERS:
//   - summary: The run summary.
//   - outputDir: The directory to write the summary file.
//
// RETURNS:
//   - The path to the summary file.
//   - An error if writing fails.
func WriteSummaryLog(summary *types.RunSummary, outputDir string) (string, error) {
	if err := os.MkdirAll(outputDir, 0755); err != nil {
		return "", fmt.Errorf("failed to create summary directory: %w", err)
	}

	runID := summary.RunID
	if len(runID) > 8 {
		runID = runID[:8]
	}
	summaryPath := filepath.Join(outputDir, fmt.Sprintf("consolidation_summary_%s_%s.txt", Timestamp(summary.EndTime), runID))

	file, err := os.Create(summaryPath)
	if err != nil {
		return "", fmt.Errorf("failed to create summary file: %w", err)
	}
	defer file.Close()

	writer := bufio.NewWriter(file)
	rule := strings.Repeat("=", 80) + "\n"
	dash := strings.Repeat("-", 80) + "\n"

	duration := summary.EndTime.Sub(summary.StartTime)
	fmt.Fprintf(writer, "Report Consolidator - Processing Summary\n%s\n", rule)
	fmt.Fprintf(writer, "Run Information:\n"+
		"  Run ID:         %s\n"+
		"  Start Time:     %s\n"+
		"  End Time:       %s\n"+
		"  Duration:       %s\n"+
		"  Directory:      %s\n"+
		"  Pattern:        %s\n"+
		"  Output:         %s\n"+
		"  Dry Run:        %t\n\n",
		summary.RunID,
		summary.StartTime.Format("2006-01-02 15:04:05"),
		summary.EndTime.Format("2006-01-02 15:04:05"),
		duration.String(),
		summary.Directory,
		summary.Pattern,
		summary.OutputPath,
		summary.DryRun)

	fmt.Fprintf(writer, "Statistics:\n"+
		"  Matched Files:  %d\n"+
		"  Merged:         %d\n"+
		"  Short:          %d\n"+
		"  Failed:         %d\n"+
		"  Parse Errors:   %d\n"+
		"  Grand Total:    %s\n\n",
		len(summary.Files),
		summary.Count(types.StatusMerged),
		summary.Count(types.StatusShort),
		summary.Count(types.StatusFailed),
		summary.ParseErrorCount(),
		brl.Format(summary.GrandTotal))

	if len(summary.Files) > 0 {
		writer.WriteString("Files:\n")
		writer.WriteString(dash)
		for _, f := range summary.Files {
			fmt.Fprintf(writer, "  File:   %s\n", f.Path)
			fmt.Fprintf(writer, "  Status: %s\n", f.Status)
			if f.Status == types.StatusMerged {
				fmt.Fprintf(writer, "  Lines:  %d\n", f.BodyLines)
				fmt.Fprintf(writer, "  Total:  %s\n", brl.Format(f.Total))
			}
			if f.Err != nil {
				fmt.Fprintf(writer, "  Error:  %v\n", f.Err)
			}
			for _, pe := range f.ParseErrors {
				fmt.Fprintf(writer, "  Parse:  %s\n", pe)
			}
			writer.WriteString("\n")
		}
	}

	if len(summary.Warnings) > 0 {
		writer.WriteString("Warnings:\n")
		writer.WriteString(dash)
		for _, w := range summary.Warnings {
			fmt.Fprintf(writer, "  %s\n", w)
		}
		writer.WriteString("\n")
	}

	writer.WriteString(rule + "End of Summary\n")

	if err := writer.Flush(); err != nil {
		return "", fmt.Errorf("failed to flush summary file: %w", err)
	}

	return summaryPath, nil
}

// =============================================================================
// UTILITY FUNCTIONS
// =============================================================================

// FileExists checks if a file exists.
func FileExists(path string) bool {
	_, err := os.Stat(path)
	return !os.IsNotExist(err)
}

// ReplaceExtension swaps the extension of path for ext (".csv").
func ReplaceExtension(path, ext string) string {
	return strings.TrimSuffix(path, filepath.Ext(path)) + ext
}

// Timestamp is the layout used in generated file names.
func Timestamp(t time.Time) string {
	return t.Format("20060102_150405")
}
