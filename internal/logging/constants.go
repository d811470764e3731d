package logging

// Standardized field names for structured logging.
// These constants keep log output consistent across commands so runs can be
// filtered by file, run or row.
const (
	FieldFile       = "file_path"
	FieldParser     = "parser"
	FieldRunID      = "run_id"
	FieldRow        = "row"
	FieldField      = "field"
	FieldOperation  = "operation"
	FieldStatus     = "status"
	FieldError      = "error"
	FieldDuration   = "duration_ms"
	FieldCount      = "count"
	FieldWorkers    = "workers"
	FieldDelimiter  = "delimiter"
	FieldInputFile  = "input_file"
	FieldOutputFile = "output_file"
)
