// Package models defines the statement rows read from bank exports and the
// structured records written back out.
package models

import (
	"fmt"
	"strings"
	"time"

	"fjacquet/wire-csv/internal/currencyutils"
	"fjacquet/wire-csv/internal/dateutils"
	"fjacquet/wire-csv/pkg/decomposer"

	"github.com/gocarina/gocsv"
	"github.com/shopspring/decimal"
)

// TransactionIDHeader is the output column holding the Transaction ID.
const TransactionIDHeader = "Transaction ID (IMAD, TRN)"

func init() {
	// Output headers contain commas, so tag options use ';'.
	gocsv.TagSeparator = ";"
}

// Date is a coerced statement date. The zero value is absent.
type Date struct {
	Time  time.Time
	Valid bool
}

// NewDate returns a present date.
func NewDate(t time.Time) Date {
	return Date{Time: t, Valid: true}
}

// MarshalCSV implements gocsv.TypeMarshaller.
func (d Date) MarshalCSV() (string, error) {
	return d.String(), nil
}

// String returns the ISO date, or "" when absent.
func (d Date) String() string {
	if !d.Valid {
		return ""
	}
	return dateutils.ToISODate(d.Time)
}

// Amount is a coerced statement amount. The zero value is absent.
type Amount struct {
	Value decimal.Decimal
	Valid bool
}

// NewAmount returns a present amount.
func NewAmount(v decimal.Decimal) Amount {
	return Amount{Value: v, Valid: true}
}

// MarshalCSV implements gocsv.TypeMarshaller.
func (a Amount) MarshalCSV() (string, error) {
	return a.String(), nil
}

// String returns the amount with two decimals, or "" when absent.
func (a Amount) String() string {
	if !a.Valid {
		return ""
	}
	return currencyutils.FormatAmount(a.Value)
}

// Record is one structured output row: the columnar fields carried over from
// the statement followed by the fields decomposed from the description.
// The csv tags define the output header and column order.
type Record struct {
	Date                Date   `csv:"Date"`
	TransactionType     string `csv:"Transaction Type"`
	Amount              Amount `csv:"Amount"`
	SenderName          string `csv:"Sender Name"`
	SenderBankLocation  string `csv:"Sender Bank & Location"`
	ReceiverName        string `csv:"Receiver Name"`
	ReferencePurpose    string `csv:"Reference / Purpose"`
	TransactionID       string `csv:"Transaction ID (IMAD, TRN)"`
	ReceiverBank        string `csv:"Receiver Bank"`
	ReceiverAccountName string `csv:"Receiver Account Name"`

	Line        int    `csv:"-"`
	Account     string `csv:"-"`
	Description string `csv:"-"`
	// Fields keeps the tri-state values behind the string columns.
	Fields decomposer.Fields `csv:"-"`
	// DecompositionFailed is set when the description could not be read as text.
	DecompositionFailed bool `csv:"-"`
}

// Headers returns the output column names in order.
func Headers() []string {
	return []string{
		"Date",
		"Transaction Type",
		"Amount",
		string(decomposer.SenderName),
		string(decomposer.SenderBankLocation),
		string(decomposer.ReceiverName),
		string(decomposer.ReferencePurpose),
		TransactionIDHeader,
		string(decomposer.ReceiverBank),
		string(decomposer.ReceiverAccountName),
	}
}

// DecomposedColumns returns the decomposed fields a Record has columns for.
func DecomposedColumns() []decomposer.FieldName {
	return []decomposer.FieldName{
		decomposer.SenderName,
		decomposer.SenderBankLocation,
		decomposer.ReceiverName,
		decomposer.ReferencePurpose,
		decomposer.TransactionID,
		decomposer.ReceiverBank,
		decomposer.ReceiverAccountName,
	}
}

// CheckOutputFields reports an error unless fields are exactly the
// decomposed columns, in any order.
func CheckOutputFields(fields []decomposer.FieldName) error {
	want := make(map[decomposer.FieldName]bool)
	for _, name := range DecomposedColumns() {
		want[name] = true
	}

	var unknown []string
	seen := make(map[decomposer.FieldName]bool, len(fields))
	for _, name := range fields {
		if !want[name] {
			unknown = append(unknown, fmt.Sprintf("%q", name))
		}
		seen[name] = true
	}
	var missing []string
	for _, name := range DecomposedColumns() {
		if !seen[name] {
			missing = append(missing, fmt.Sprintf("%q", name))
		}
	}

	switch {
	case len(unknown) > 0:
		return fmt.Errorf("output fields without a CSV column: %s (mark them intermediate or remove them)", strings.Join(unknown, ", "))
	case len(missing) > 0:
		return fmt.Errorf("output columns without a rule: %s", strings.Join(missing, ", "))
	}
	return nil
}
