// Package converter turns one statement file into a structured CSV file.
package converter

import (
	"context"
	"fmt"
	"time"

	"fjacquet/wire-csv/internal/fileutils"
	"fjacquet/wire-csv/internal/logging"
	"fjacquet/wire-csv/internal/models"
	"fjacquet/wire-csv/internal/parsererror"
	"fjacquet/wire-csv/internal/pipeline"
	"fjacquet/wire-csv/internal/report"
	"fjacquet/wire-csv/internal/validation"
	"fjacquet/wire-csv/pkg/decomposer"
)

// DefaultSuffix is appended to the input file name to build the output name.
const DefaultSuffix = "_processed"

// StatementReader validates and reads statement files.
type StatementReader interface {
	ValidateFormat(filePath string) (bool, error)
	ParseFile(filePath string) ([]models.StatementRow, error)
}

// RowProcessor turns statement rows into records.
type RowProcessor interface {
	Process(ctx context.Context, rows []models.StatementRow) (pipeline.Result, error)
}

// RecordWriter writes records to a file.
type RecordWriter interface {
	WriteFile(records []models.Record, csvFile string) error
}

// Result describes one converted file.
type Result struct {
	InputFile  string
	OutputFile string
	Records    []models.Record
	Coverage   *report.Coverage
	Duration   time.Duration
}

// Converter runs validate, parse, process and write for one file.
type Converter struct {
	logger    logging.Logger
	reader    StatementReader
	processor RowProcessor
	writer    RecordWriter
	fields    []decomposer.FieldName
	suffix    string
}

// New creates a Converter. fields lists the decomposed columns counted in
// the coverage report; an empty suffix means DefaultSuffix.
func New(logger logging.Logger, reader StatementReader, processor RowProcessor, writer RecordWriter, fields []decomposer.FieldName, suffix string) *Converter {
	if logger == nil {
		logger = logging.NewLogrusAdapter("info", "text")
	}
	if suffix == "" {
		suffix = DefaultSuffix
	}
	return &Converter{
		logger:    logger,
		reader:    reader,
		processor: processor,
		writer:    writer,
		fields:    fields,
		suffix:    suffix,
	}
}

// OutputPath returns where ConvertFile writes the result of inputFile.
func (c *Converter) OutputPath(inputFile, outputDir string) string {
	return fileutils.OutputPath(inputFile, outputDir, c.suffix)
}

// ConvertFile converts inputFile into <outputDir>/<name><suffix>.csv.
func (c *Converter) ConvertFile(ctx context.Context, inputFile, outputDir string) (*Result, error) {
	start := time.Now()
	logger := c.logger.WithFields(
		logging.Field{Key: logging.FieldInputFile, Value: inputFile},
		logging.Field{Key: logging.FieldOperation, Value: "convert"})

	if err := validation.IsValidInputFile(inputFile); err != nil {
		return nil, fmt.Errorf("invalid input file: %w", err)
	}

	valid, err := c.reader.ValidateFormat(inputFile)
	if err != nil {
		return nil, fmt.Errorf("error validating file format: %w", err)
	}
	if !valid {
		return nil, &parsererror.InvalidFormatError{
			FilePath:       inputFile,
			ExpectedFormat: "statement CSV",
			Msg:            "file did not pass format validation",
		}
	}

	rows, err := c.reader.ParseFile(inputFile)
	if err != nil {
		return nil, fmt.Errorf("error parsing file: %w", err)
	}

	processed, err := c.processor.Process(ctx, rows)
	if err != nil {
		return nil, fmt.Errorf("error processing rows: %w", err)
	}

	if err := fileutils.EnsureDirectoryExists(outputDir); err != nil {
		return nil, err
	}
	outputFile := c.OutputPath(inputFile, outputDir)
	if err := c.writer.WriteFile(processed.Records, outputFile); err != nil {
		return nil, fmt.Errorf("error writing records to CSV: %w", err)
	}

	coverage := report.NewCoverage(c.fields, processed.Records)
	coverage.Files = 1
	coverage.Issues = processed.Issues

	result := &Result{
		InputFile:  inputFile,
		OutputFile: outputFile,
		Records:    processed.Records,
		Coverage:   coverage,
		Duration:   time.Since(start),
	}

	logger.Info("Successfully converted file",
		logging.Field{Key: logging.FieldOutputFile, Value: outputFile},
		logging.Field{Key: logging.FieldCount, Value: len(processed.Records)},
		logging.Field{Key: logging.FieldDuration, Value: result.Duration.String()})
	return result, nil
}
