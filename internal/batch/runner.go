// Package batch converts every statement file of a directory in one run.
package batch

import (
	"context"
	"fmt"
	"path/filepath"
	"time"

	"fjacquet/wire-csv/internal/converter"
	"fjacquet/wire-csv/internal/fileutils"
	"fjacquet/wire-csv/internal/logging"
	"fjacquet/wire-csv/internal/report"
	"fjacquet/wire-csv/internal/validation"

	"github.com/google/uuid"
)

// FileConverter converts one statement file.
type FileConverter interface {
	ConvertFile(ctx context.Context, inputFile, outputDir string) (*converter.Result, error)
	OutputPath(inputFile, outputDir string) string
}

// FileFailure records a file that could not be converted.
type FileFailure struct {
	File string
	Err  error
}

// Summary is the outcome of one batch run.
type Summary struct {
	RunID      string
	Results    []*converter.Result
	Failures   []FileFailure
	Coverage   *report.Coverage
	DateRange  DateRange
	Duplicates map[string][]Location
	Duration   time.Duration
}

// Succeeded returns the number of converted files.
func (s *Summary) Succeeded() int { return len(s.Results) }

// Failed returns the number of files that could not be converted.
func (s *Summary) Failed() int { return len(s.Failures) }

// Runner converts directories of statement files.
type Runner struct {
	logger    logging.Logger
	converter FileConverter
	newRunID  func() string
}

// NewRunner creates a Runner.
func NewRunner(logger logging.Logger, conv FileConverter) *Runner {
	if logger == nil {
		logger = logging.NewLogrusAdapter("info", "text")
	}
	return &Runner{
		logger:    logger,
		converter: conv,
		newRunID:  func() string { return uuid.New().String() },
	}
}

// Run converts every .csv file directly inside inputDir into outputDir.
// A file that fails is recorded in the summary and the run continues.
// Files that are the output of another input in the same directory are
// skipped, so rerunning in place does not reprocess results.
func (r *Runner) Run(ctx context.Context, inputDir, outputDir string) (*Summary, error) {
	start := time.Now()
	runID := r.newRunID()
	logger := r.logger.WithField(logging.FieldRunID, runID)

	if err := validation.IsValidInputDir(inputDir); err != nil {
		return nil, fmt.Errorf("invalid input directory: %w", err)
	}

	files, err := fileutils.ListFilesWithExtension(inputDir, ".csv")
	if err != nil {
		return nil, err
	}
	files = r.skipOutputs(files, outputDir)

	summary := &Summary{
		RunID:    runID,
		Coverage: &report.Coverage{RunID: runID},
	}
	if len(files) == 0 {
		logger.Warn("No statement files found", logging.Field{Key: logging.FieldFile, Value: inputDir})
		summary.Duration = time.Since(start)
		return summary, nil
	}

	logger.Info("Starting batch conversion",
		logging.Field{Key: logging.FieldCount, Value: len(files)},
		logging.Field{Key: logging.FieldOutputFile, Value: outputDir})

	tracker := NewDuplicateTracker()
	for _, file := range files {
		if err := ctx.Err(); err != nil {
			return summary, err
		}

		result, err := r.converter.ConvertFile(ctx, file, outputDir)
		if err != nil {
			logger.WithError(err).Error("Failed to convert file", logging.Field{Key: logging.FieldFile, Value: file})
			summary.Failures = append(summary.Failures, FileFailure{File: file, Err: err})
			continue
		}

		summary.Results = append(summary.Results, result)
		summary.Coverage.Merge(result.Coverage)
		summary.DateRange = summary.DateRange.Merge(DateRangeOf(result.Records))
		tracker.Add(file, result.Records)
	}

	tracker.LogDuplicates(logger)
	summary.Duplicates = tracker.Duplicates()
	summary.Duration = time.Since(start)

	logger.Info("Batch conversion completed",
		logging.Field{Key: "succeeded", Value: summary.Succeeded()},
		logging.Field{Key: "failed", Value: summary.Failed()},
		logging.Field{Key: "date_range", Value: summary.DateRange.String()},
		logging.Field{Key: logging.FieldDuration, Value: summary.Duration.String()})
	return summary, nil
}

func (r *Runner) skipOutputs(files []string, outputDir string) []string {
	outputs := make(map[string]bool, len(files))
	for _, f := range files {
		outputs[absPath(r.converter.OutputPath(f, outputDir))] = true
	}

	kept := files[:0:0]
	for _, f := range files {
		if outputs[absPath(f)] {
			r.logger.Debug("Skipping previous output", logging.Field{Key: logging.FieldFile, Value: f})
			continue
		}
		kept = append(kept, f)
	}
	return kept
}

func absPath(path string) string {
	if abs, err := filepath.Abs(path); err == nil {
		return abs
	}
	return filepath.Clean(path)
}
