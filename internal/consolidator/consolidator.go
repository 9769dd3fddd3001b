// =============================================================================
// Report Consolidator - Consolidation Pipeline
// =============================================================================
//
// This module merges a batch of report files into one consolidated file.
//
// PROCESSING PIPELINE:
//   1. Discover files in the directory matching the glob, sorted by name
//   2. For each file, in order:
//      a. Read all lines (UTF-8 BOM tolerated, terminators preserved)
//      b. The first file with a complete header block supplies the header
//      c. Files with data after the header contribute their body and total
//   3. Write header + bodies + blank line + grand total row, all at once
//
// The run is synchronous and owns all of its buffers. Callers that need a
// responsive UI must run it off the UI goroutine.
//
// =============================================================================

package consolidator

import (
	"bytes"
	"fmt"
	"io"
	"path/filepath"
	"time"

	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"

	"github.com/ginjaninja78/report-consolidator/internal/brl"
	"github.com/ginjaninja78/report-consolidator/internal/extractor"
	"github.com/ginjaninja78/report-consolidator/internal/report"
	"github.com/ginjaninja78/report-consolidator/internal/types"
	"github.com/ginjaninja78/report-consolidator/internal/validation"
	"github.com/ginjaninja78/report-consolidator/pkg/utils"
)

// =============================================================================
// OPTIONS
// =============================================================================

// ReadErrorPolicy decides what a run does with an unreadable file.
type ReadErrorPolicy string

const (
	// AbortOnReadError stops the run; no output is written.
	AbortOnReadError ReadErrorPolicy = "abort"

	// SkipOnReadError records the failure and continues.
	SkipOnReadError ReadErrorPolicy = "skip"
)

// DefaultSummaryLabel opens the grand total row.
const DefaultSummaryLabel = "Total Geral de Todos os Arquivos:"

// DefaultHeaderLines is the size of the shared header block.
const DefaultHeaderLines = 3

// Options configures a Consolidator.
type Options struct {
	// HeaderLines is the number of leading lines forming the header block.
	HeaderLines int

	// Encoding of the input files (see report.CanonicalEncoding).
	Encoding string

	// SummaryLabel is the first field of the grand total row.
	SummaryLabel string

	// OnReadError is the policy for unreadable files.
	OnReadError ReadErrorPolicy

	// DryRun computes everything but writes nothing.
	DryRun bool

	// Extractor configures total extraction.
	Extractor extractor.Options
}

// DefaultOptions returns the options matching the report format.
func DefaultOptions() Options {
	return Options{
		HeaderLines:  DefaultHeaderLines,
		Encoding:     report.EncodingUTF8,
		SummaryLabel: DefaultSummaryLabel,
		OnReadError:  AbortOnReadError,
		Extractor:    extractor.DefaultOptions(),
	}
}

// Result is the outcome of a run.
type Result = types.RunSummary

// =============================================================================
// CONSOLIDATOR
// =============================================================================

// Consolidator merges report files.
type Consolidator struct {
	opts   Options
	logger logrus.FieldLogger
}

// New creates a Consolidator. Zero-valued options fall back to defaults and
// a nil logger discards output.
func New(opts Options, logger logrus.FieldLogger) *Consolidator {
	def := DefaultOptions()
	if opts.HeaderLines <= 0 {
		opts.HeaderLines = def.HeaderLines
	}
	if opts.Encoding == "" {
		opts.Encoding = def.Encoding
	}
	if opts.SummaryLabel == "" {
		opts.SummaryLabel = def.SummaryLabel
	}
	if opts.OnReadError == "" {
		opts.OnReadError = def.OnReadError
	}
	if logger == nil {
		l := logrus.New()
		l.SetOutput(io.Discard)
		logger = l
	}
	return &Consolidator{opts: opts, logger: logger}
}

// Consolidate runs a consolidation with default options.
func Consolidate(directory, pattern, outputPath string) (*Result, error) {
	return New(DefaultOptions(), nil).Run(directory, pattern, outputPath)
}

// Run merges every file in directory matching pattern into outputPath.
//
// RETURNS:
//   - The run summary, also on success with skipped files.
//   - *NoMatchingFilesError when the pattern matches nothing.
//   - *FileReadError when a file cannot be read and the policy is abort.
//   - *FileWriteError when the output cannot be written.
func (c *Consolidator) Run(directory, pattern, outputPath string) (*Result, error) {
	result := &Result{
		RunID:      utils.NewRunID(),
		Directory:  directory,
		Pattern:    pattern,
		OutputPath: outputPath,
		StartTime:  time.Now(),
		GrandTotal: decimal.Zero,
		DryRun:     c.opts.DryRun,
	}
	log := c.logger.WithField("run_id", result.RunID)

	files, err := utils.NewFileManager(directory).DiscoverInputFiles(pattern)
	if err != nil {
		return nil, err
	}
	files = c.withoutOutput(files, outputPath, log)

	if len(files) == 0 {
		return nil, &NoMatchingFilesError{Directory: directory, Pattern: pattern}
	}

	var (
		header []string
		body   bytes.Buffer
	)

	for _, path := range files {
		log.Infof("Processing file: %s", path)

		rep, err := report.Load(path, c.opts.Encoding)
		if err != nil {
			rerr := &FileReadError{Path: path, Err: err}
			if c.opts.OnReadError != SkipOnReadError {
				return nil, rerr
			}
			log.WithError(err).Warnf("Skipping unreadable file: %s", path)
			result.Files = append(result.Files, types.FileResult{
				Path:   path,
				Status: types.StatusFailed,
				Err:    rerr,
			})
			continue
		}

		fr := types.FileResult{
			Path:      path,
			Status:    types.StatusShort,
			LineCount: len(rep.Lines),
			Total:     decimal.Zero,
		}

		if h := rep.Header(c.opts.HeaderLines); h != nil {
			if header == nil {
				header = h
				result.HeaderSource = path
			} else if verr := validation.CompareHeaders(header, h, path); verr != nil {
				log.Warn(verr.Error())
				result.Warnings = append(result.Warnings, verr.Error())
			}
		}

		if data := rep.Body(c.opts.HeaderLines); len(data) > 0 {
			x := extractor.New(c.opts.Extractor, log.WithField("file", filepath.Base(path)))
			extraction := x.Extract(data)

			result.GrandTotal = result.GrandTotal.Add(extraction.Total)
			for _, perr := range extraction.Errors {
				fr.ParseErrors = append(fr.ParseErrors, perr.Error())
			}
			for _, line := range data {
				body.WriteString(line)
			}

			fr.Status = types.StatusMerged
			fr.BodyLines = len(data)
			fr.Total = extraction.Total
			fr.Matches = len(extraction.Matches)

			log.Infof("Total extracted from file %s: %s, running sum: %s",
				filepath.Base(path), extraction.Total.String(), result.GrandTotal.String())
		}

		result.Files = append(result.Files, fr)
	}

	if !c.opts.DryRun {
		if err := c.write(outputPath, header, body.Bytes(), result.GrandTotal); err != nil {
			return nil, err
		}
	}

	result.EndTime = time.Now()
	log.WithField("grand_total", brl.Format(result.GrandTotal)).Info("Processing complete")
	return result, nil
}

// withoutOutput drops the output file from the inputs so a rerun never
// consolidates the previous result into itself.
func (c *Consolidator) withoutOutput(files []string, outputPath string, log logrus.FieldLogger) []string {
	out, err := filepath.Abs(outputPath)
	if err != nil {
		return files
	}

	kept := files[:0:0]
	for _, f := range files {
		if abs, err := filepath.Abs(f); err == nil && abs == out {
			log.Warnf("Ignoring output file among inputs: %s", f)
			continue
		}
		kept = append(kept, f)
	}
	return kept
}

// write assembles the consolidated file and writes it in one step.
func (c *Consolidator) write(outputPath string, header []string, body []byte, total decimal.Decimal) error {
	var buf bytes.Buffer
	for _, line := range header {
		buf.WriteString(line)
	}
	buf.Write(body)
	buf.WriteString("\n")
	buf.WriteString(SummaryRow(c.opts.SummaryLabel, total))

	if err := utils.WriteFileAtomic(outputPath, buf.Bytes(), 0644); err != nil {
		return &FileWriteError{Path: outputPath, Err: err}
	}
	return nil
}

// SummaryRow renders the trailing grand total row, newline included.
func SummaryRow(label string, total decimal.Decimal) string {
	return fmt.Sprintf("%s;;Total:;%s;\n", label, brl.Format(total))
}
