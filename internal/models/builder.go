package models

import (
	"errors"
	"fmt"
	"strings"

	"fjacquet/wire-csv/internal/currencyutils"
	"fjacquet/wire-csv/internal/dateutils"
	"fjacquet/wire-csv/pkg/decomposer"
)

// RecordBuilder provides a fluent API for constructing records.
//
// Date and amount values that cannot be coerced leave the column absent and
// are reported through Issues; they never make Build fail.
type RecordBuilder struct {
	rec    Record
	issues []string
}

// NewRecordBuilder creates a builder for an empty record.
func NewRecordBuilder() *RecordBuilder {
	return &RecordBuilder{}
}

// FromStatementRow seeds the builder with every column of a statement row.
func (b *RecordBuilder) FromStatementRow(row StatementRow) *RecordBuilder {
	return b.WithLine(row.Line).
		WithAccount(row.Account).
		WithDate(row.Date).
		WithTransactionType(row.TransactionType).
		WithAmount(row.Amount).
		WithDescription(row.Description)
}

// WithLine sets the source record number.
func (b *RecordBuilder) WithLine(line int) *RecordBuilder {
	b.rec.Line = line
	return b
}

// WithAccount sets the account column.
func (b *RecordBuilder) WithAccount(account string) *RecordBuilder {
	b.rec.Account = strings.TrimSpace(account)
	return b
}

// WithDate coerces a raw date. Blank or unparseable dates leave it absent.
func (b *RecordBuilder) WithDate(raw string) *RecordBuilder {
	if strings.TrimSpace(raw) == "" {
		b.rec.Date = Date{}
		return b
	}
	t, err := dateutils.ParseDateString(raw)
	if err != nil {
		b.rec.Date = Date{}
		b.issues = append(b.issues, fmt.Sprintf("date: %v", err))
		return b
	}
	b.rec.Date = NewDate(t)
	return b
}

// WithTransactionType sets the transaction type column.
func (b *RecordBuilder) WithTransactionType(transactionType string) *RecordBuilder {
	b.rec.TransactionType = strings.TrimSpace(transactionType)
	return b
}

// WithAmount coerces a raw amount. Blank or unparseable amounts leave it absent.
func (b *RecordBuilder) WithAmount(raw string) *RecordBuilder {
	amount, err := currencyutils.ParseAmount(raw)
	switch {
	case errors.Is(err, currencyutils.ErrEmptyAmount):
		b.rec.Amount = Amount{}
	case err != nil:
		b.rec.Amount = Amount{}
		b.issues = append(b.issues, fmt.Sprintf("amount: %v", err))
	default:
		b.rec.Amount = NewAmount(amount)
	}
	return b
}

// WithDescription keeps the raw description for reference.
func (b *RecordBuilder) WithDescription(description string) *RecordBuilder {
	b.rec.Description = description
	return b
}

// WithFields copies decomposed fields into the record columns.
func (b *RecordBuilder) WithFields(fields decomposer.Fields) *RecordBuilder {
	b.rec.Fields = fields
	// Fields without a column are rejected by CheckOutputFields before a
	// rule set is used.
	b.rec.SenderName, _ = fields.Get(decomposer.SenderName)
	b.rec.SenderBankLocation, _ = fields.Get(decomposer.SenderBankLocation)
	b.rec.ReceiverName, _ = fields.Get(decomposer.ReceiverName)
	b.rec.ReferencePurpose, _ = fields.Get(decomposer.ReferencePurpose)
	b.rec.TransactionID, _ = fields.Get(decomposer.TransactionID)
	b.rec.ReceiverBank, _ = fields.Get(decomposer.ReceiverBank)
	b.rec.ReceiverAccountName, _ = fields.Get(decomposer.ReceiverAccountName)
	return b
}

// WithDecompositionFailure marks the description as unreadable.
func (b *RecordBuilder) WithDecompositionFailure() *RecordBuilder {
	b.rec.DecompositionFailed = true
	return b
}

// Issues returns the coercion problems met so far.
func (b *RecordBuilder) Issues() []string {
	return append([]string(nil), b.issues...)
}

// Build returns the record. The builder may keep being used afterwards
// without affecting the returned value.
func (b *RecordBuilder) Build() Record {
	return b.rec
}
