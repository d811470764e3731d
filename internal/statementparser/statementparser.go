// Package statementparser reads wire statement exports: a few preamble rows
// followed by positional Account, Date, SRC_SYST_TXN_CD, Transaction Type,
// Description and Amount columns.
package statementparser

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"strings"

	"fjacquet/wire-csv/internal/logging"
	"fjacquet/wire-csv/internal/models"
	"fjacquet/wire-csv/internal/parser"
	"fjacquet/wire-csv/internal/parsererror"
	"fjacquet/wire-csv/internal/textutils"

	"github.com/gocarina/gocsv"
)

const (
	// DefaultSkipRows drops the header row and the three header-like rows
	// that precede the data in bank exports.
	DefaultSkipRows = 4

	expectedFormat = "statement CSV with 6 positional columns"
	snippetLength  = 80
)

// StatementParser reads statement exports into models.StatementRow values.
type StatementParser struct {
	parser.BaseParser
	skipRows  int
	delimiter rune
}

var _ parser.FullParser = (*StatementParser)(nil)

// Option configures a StatementParser.
type Option func(*StatementParser)

// WithSkipRows sets how many leading records are dropped before data rows.
func WithSkipRows(n int) Option {
	return func(p *StatementParser) {
		if n >= 0 {
			p.skipRows = n
		}
	}
}

// WithDelimiter sets the field delimiter of the input file.
func WithDelimiter(delimiter rune) Option {
	return func(p *StatementParser) {
		if delimiter != 0 {
			p.delimiter = delimiter
		}
	}
}

// New creates a StatementParser. A nil logger falls back to the default one.
func New(logger logging.Logger, opts ...Option) *StatementParser {
	p := &StatementParser{
		BaseParser: parser.NewBaseParser(logger),
		skipRows:   DefaultSkipRows,
		delimiter:  ',',
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// Parse reads every data row of a statement export.
// Fully blank records are ignored; shorter records are padded and longer
// ones truncated to the six statement columns.
func (p *StatementParser) Parse(r io.Reader) ([]models.StatementRow, error) {
	return p.parse(r, "(from reader)")
}

// ParseFile opens filePath and parses it.
func (p *StatementParser) ParseFile(filePath string) ([]models.StatementRow, error) {
	logger := p.GetLogger().WithField(logging.FieldFile, filePath)
	logger.Info("Reading statement file")

	file, err := os.Open(filePath)
	if err != nil {
		return nil, fmt.Errorf("error opening statement file: %w", err)
	}
	defer func() {
		if err := file.Close(); err != nil {
			logger.WithError(err).Warn("Failed to close file")
		}
	}()

	rows, err := p.parse(file, filePath)
	if err != nil {
		return nil, err
	}

	logger.Info("Successfully read statement rows", logging.Field{Key: logging.FieldCount, Value: len(rows)})
	return rows, nil
}

// ValidateFormat checks that the first data record of filePath carries the
// six statement columns.
func (p *StatementParser) ValidateFormat(filePath string) (bool, error) {
	logger := p.GetLogger().WithField(logging.FieldFile, filePath)
	logger.Debug("Validating statement format")

	file, err := os.Open(filePath)
	if err != nil {
		return false, fmt.Errorf("error opening file to validate: %w", err)
	}
	defer func() {
		if err := file.Close(); err != nil {
			logger.WithError(err).Warn("Failed to close file")
		}
	}()

	reader := p.newReader(file)
	for i := 0; ; i++ {
		record, err := reader.Read()
		if err == io.EOF {
			return false, &parsererror.ValidationError{
				FilePath: filePath,
				Reason:   fmt.Sprintf("no data rows after skipping %d leading records", p.skipRows),
			}
		}
		if err != nil {
			return false, &parsererror.InvalidFormatError{
				FilePath:       filePath,
				ExpectedFormat: expectedFormat,
				Msg:            fmt.Sprintf("malformed CSV: %v", err),
			}
		}
		if i < p.skipRows || isBlank(record) {
			continue
		}
		if len(record) < models.StatementColumns {
			return false, &parsererror.ValidationError{
				FilePath: filePath,
				Reason: fmt.Sprintf("expected %d columns, found %d in %q",
					models.StatementColumns, len(record),
					textutils.TruncateSnippet(strings.Join(record, string(p.delimiter)), snippetLength)),
			}
		}
		return true, nil
	}
}

func (p *StatementParser) parse(r io.Reader, source string) ([]models.StatementRow, error) {
	records, err := p.newReader(r).ReadAll()
	if err != nil {
		return nil, &parsererror.DataExtractionError{
			FilePath:  source,
			FieldName: "rows",
			Reason:    "malformed CSV",
			Err:       err,
		}
	}

	if len(records) <= p.skipRows {
		p.GetLogger().Warn("Statement has no data rows",
			logging.Field{Key: logging.FieldFile, Value: source},
			logging.Field{Key: logging.FieldCount, Value: len(records)})
		return []models.StatementRow{}, nil
	}

	normalized := make([][]string, 0, len(records)-p.skipRows)
	lines := make([]int, 0, len(records)-p.skipRows)
	for i, record := range records[p.skipRows:] {
		if isBlank(record) {
			continue
		}
		normalized = append(normalized, normalize(record))
		lines = append(lines, p.skipRows+i+1)
	}

	rows := make([]models.StatementRow, 0, len(normalized))
	if len(normalized) == 0 {
		return rows, nil
	}
	if err := gocsv.UnmarshalCSVWithoutHeaders(&recordsReader{records: normalized}, &rows); err != nil {
		return nil, &parsererror.DataExtractionError{
			FilePath:       source,
			FieldName:      "rows",
			RawDataSnippet: textutils.TruncateSnippet(strings.Join(normalized[0], string(p.delimiter)), snippetLength),
			Reason:         "failed to map statement columns",
			Err:            err,
		}
	}
	for i := range rows {
		rows[i].Line = lines[i]
	}

	p.GetLogger().Debug("Parsed statement rows",
		logging.Field{Key: logging.FieldFile, Value: source},
		logging.Field{Key: logging.FieldCount, Value: len(rows)})
	return rows, nil
}

func (p *StatementParser) newReader(r io.Reader) *csv.Reader {
	reader := csv.NewReader(r)
	reader.Comma = p.delimiter
	reader.FieldsPerRecord = -1 // preamble rows rarely match the data width
	reader.LazyQuotes = true
	return reader
}

func normalize(record []string) []string {
	out := make([]string, models.StatementColumns)
	copy(out, record)
	return out
}

func isBlank(record []string) bool {
	for _, cell := range record {
		if strings.TrimSpace(cell) != "" {
			return false
		}
	}
	return true
}

// recordsReader serves pre-read records to gocsv.
type recordsReader struct {
	records [][]string
	pos     int
}

func (r *recordsReader) Read() ([]string, error) {
	if r.pos >= len(r.records) {
		return nil, io.EOF
	}
	record := r.records[r.pos]
	r.pos++
	return record, nil
}

func (r *recordsReader) ReadAll() ([][]string, error) {
	rest := r.records[r.pos:]
	r.pos = len(r.records)
	return rest, nil
}
