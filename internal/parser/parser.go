package parser

import (
	"io"

	"fjacquet/wire-csv/internal/logging"
	"fjacquet/wire-csv/internal/models"
)

// Parser reads statement rows from an io.Reader.
// Implementations should return the typed errors of the parsererror package
// (InvalidFormatError, DataExtractionError) for specific failures.
type Parser interface {
	Parse(r io.Reader) ([]models.StatementRow, error)
}

// Validator checks whether a file looks like the format a parser reads.
type Validator interface {
	ValidateFormat(filePath string) (bool, error)
}

// LoggerConfigurable is implemented by components whose logger can be swapped.
type LoggerConfigurable interface {
	SetLogger(logger logging.Logger)
}

// FullParser combines every parser capability.
type FullParser interface {
	Parser
	Validator
	LoggerConfigurable
	ParseFile(filePath string) ([]models.StatementRow, error)
}
