// =============================================================================
// Report Consolidator - Shared Types
// =============================================================================
//
// This package contains types shared by the consolidator and the summary
// log writer (pkg/utils) to avoid import cycles.
//
// =============================================================================

package types

import (
	"time"

	"github.com/shopspring/decimal"
)

// FileStatus describes what a consolidation run did with one input file.
type FileStatus string

const (
	// StatusMerged means the file's body and total were consolidated.
	StatusMerged FileStatus = "merged"

	// StatusShort means the file had no data lines after the header.
	StatusShort FileStatus = "short"

	// StatusFailed means the file could not be read and was skipped.
	StatusFailed FileStatus = "failed"
)

// FileResult is the per-file outcome of a consolidation run.
type FileResult struct {
	// Path is the input file path.
	Path string

	// Status tells whether the file contributed to the output.
	Status FileStatus

	// LineCount is the number of lines read, header included.
	LineCount int

	// BodyLines is the number of data lines appended to the output.
	BodyLines int

	// Total is the sum of the file's total fields.
	Total decimal.Decimal

	// Matches is the number of total fields that contributed.
	Matches int

	// ParseErrors describes total fields whose value could not be parsed.
	ParseErrors []string

	// Err is the read error for failed files.
	Err error
}

// RunSummary is the outcome of one consolidation run.
type RunSummary struct {
	// RunID identifies the run in logs and summary files.
	RunID string

	Directory  string
	Pattern    string
	OutputPath string

	StartTime time.Time
	EndTime   time.Time

	// Files lists every matched file in processing order.
	Files []FileResult

	// HeaderSource is the file whose header block was used.
	HeaderSource string

	// GrandTotal is the sum of every merged file's Total.
	GrandTotal decimal.Decimal

	// Warnings collects non-fatal observations such as header mismatches.
	Warnings []string

	// DryRun is set when nothing was written.
	DryRun bool
}

// Count returns the number of files with the given status.
func (s *RunSummary) Count(status FileStatus) int {
	n := 0
	for _, f := range s.Files {
		if f.Status == status {
			n++
		}
	}
	return n
}

// ParseErrorCount returns the number of unparseable total fields.
func (s *RunSummary) ParseErrorCount() int {
	n := 0
	for _, f := range s.Files {
		n += len(f.ParseErrors)
	}
	return n
}
