package models

// StatementColumns is the number of positional columns of a statement export.
const StatementColumns = 6

// StatementRow is one data row of a wire statement export, mapped by
// position. Date and Amount are kept raw; coercion happens when the row is
// turned into a Record.
type StatementRow struct {
	Account         string `csv:"Account"`
	Date            string `csv:"Date"`
	SourceSystemTxn string `csv:"SRC_SYST_TXN_CD"`
	TransactionType string `csv:"Transaction Type"`
	Description     string `csv:"Description"`
	Amount          string `csv:"Amount"`

	// Line is the 1-based record number in the source file.
	Line int `csv:"-"`
}
