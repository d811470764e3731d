// Package common provides the CSV output shared by the conversion commands.
package common

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"fjacquet/wire-csv/internal/logging"
	"fjacquet/wire-csv/internal/models"

	"github.com/gocarina/gocsv"
)

// DefaultDelimiter is the output field delimiter when none is configured.
const DefaultDelimiter = ','

// Writer writes structured records as CSV.
type Writer struct {
	logger    logging.Logger
	delimiter rune
}

// NewWriter creates a Writer. A zero delimiter means DefaultDelimiter.
func NewWriter(logger logging.Logger, delimiter rune) *Writer {
	if logger == nil {
		logger = logging.NewLogrusAdapter("info", "text")
	}
	if delimiter == 0 {
		delimiter = DefaultDelimiter
	}
	return &Writer{logger: logger, delimiter: delimiter}
}

// Delimiter returns the configured field delimiter.
func (w *Writer) Delimiter() rune {
	return w.delimiter
}

// Write writes the header and one line per record to out. An empty record
// list still produces the header line.
func (w *Writer) Write(out io.Writer, records []models.Record) error {
	if records == nil {
		return fmt.Errorf("cannot write nil records to CSV")
	}

	csvWriter := csv.NewWriter(out)
	csvWriter.Comma = w.delimiter

	if len(records) == 0 {
		if err := csvWriter.Write(models.Headers()); err != nil {
			return fmt.Errorf("error writing CSV header: %w", err)
		}
		csvWriter.Flush()
		return csvWriter.Error()
	}

	if err := gocsv.MarshalCSV(records, gocsv.NewSafeCSVWriter(csvWriter)); err != nil {
		return fmt.Errorf("error writing CSV data: %w", err)
	}
	return nil
}

// WriteFile writes records to csvFile, creating its directory if needed.
func (w *Writer) WriteFile(records []models.Record, csvFile string) error {
	logger := w.logger.WithFields(
		logging.Field{Key: logging.FieldFile, Value: csvFile},
		logging.Field{Key: logging.FieldCount, Value: len(records)})
	logger.Info("Writing records to CSV file")

	dir := filepath.Dir(csvFile)
	if err := os.MkdirAll(dir, 0750); err != nil {
		logger.WithError(err).Error("Failed to create directory")
		return fmt.Errorf("error creating directory: %w", err)
	}

	file, err := os.Create(csvFile)
	if err != nil {
		logger.WithError(err).Error("Failed to create CSV file")
		return fmt.Errorf("error creating CSV file: %w", err)
	}
	defer func() {
		if err := file.Close(); err != nil {
			logger.WithError(err).Warn("Failed to close file")
		}
	}()

	if err := w.Write(file, records); err != nil {
		logger.WithError(err).Error("Failed to marshal records to CSV")
		return err
	}

	logger.Info("Successfully wrote records to CSV file")
	return nil
}
