package statementparser

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"testing/iotest"

	"fjacquet/wire-csv/internal/logging"
	"fjacquet/wire-csv/internal/parsererror"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const preamble = `Account,Date,SRC_SYST_TXN_CD,Transaction Type,Description,Amount
Wire Activity Report,,,,,
Generated 2023-01-31,,,,,
,,,,,Currency: USD
`

const sampleData = `12345,01/15/2023,FW,Wire In,"B/O: John Smith, VIA: Bank Of X/BNF=Jane Doe/A/C: Acme Bank, Checking 1002/REF: invoice-9/IMAD: 20230101ABC","1,250.00"
12345,01/16/2023,FW,Wire Out,TRN: 2023XYZ REF: rent,-300.50
`

func writeFile(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "statement.csv")
	require.NoError(t, os.WriteFile(path, []byte(content), 0600))
	return path
}

func TestParse(t *testing.T) {
	p := New(logging.NewMockLogger())

	rows, err := p.Parse(strings.NewReader(preamble + sampleData))
	require.NoError(t, err)
	require.Len(t, rows, 2)

	first := rows[0]
	assert.Equal(t, "12345", first.Account)
	assert.Equal(t, "01/15/2023", first.Date)
	assert.Equal(t, "FW", first.SourceSystemTxn)
	assert.Equal(t, "Wire In", first.TransactionType)
	assert.True(t, strings.HasPrefix(first.Description, "B/O: John Smith, VIA:"))
	assert.Equal(t, "1,250.00", first.Amount)
	assert.Equal(t, 5, first.Line)

	assert.Equal(t, "-300.50", rows[1].Amount)
	assert.Equal(t, 6, rows[1].Line)
}

func TestParse_NormalizesRecords(t *testing.T) {
	p := New(logging.NewMockLogger(), WithSkipRows(0))

	content := "acct,2023-01-01,X,Type,desc\n" +
		",,,,,\n" +
		"acct,2023-01-02,X,Type,desc,5,extra,columns\n"
	rows, err := p.Parse(strings.NewReader(content))
	require.NoError(t, err)
	require.Len(t, rows, 2)

	assert.Equal(t, "desc", rows[0].Description)
	assert.Equal(t, "", rows[0].Amount)
	assert.Equal(t, 1, rows[0].Line)

	assert.Equal(t, "5", rows[1].Amount)
	assert.Equal(t, 3, rows[1].Line)
}

func TestParse_Delimiter(t *testing.T) {
	p := New(logging.NewMockLogger(), WithSkipRows(1), WithDelimiter(';'))

	rows, err := p.Parse(strings.NewReader("header\nacct;15.01.2023;X;Wire;BNF=Jane/;1.234,56\n"))
	require.NoError(t, err)
	require.Len(t, rows, 1)
	assert.Equal(t, "BNF=Jane/", rows[0].Description)
	assert.Equal(t, "1.234,56", rows[0].Amount)
}

func TestParse_NoDataRows(t *testing.T) {
	mockLog := logging.NewMockLogger()
	p := New(mockLog)

	rows, err := p.Parse(strings.NewReader(preamble))
	require.NoError(t, err)
	assert.Empty(t, rows)
	assert.True(t, mockLog.HasEntry("WARN", "Statement has no data rows"))
}

func TestParse_ReadError(t *testing.T) {
	p := New(logging.NewMockLogger(), WithSkipRows(0))

	_, err := p.Parse(iotest.ErrReader(errors.New("disk read failed")))
	require.Error(t, err)

	var extractionErr *parsererror.DataExtractionError
	assert.True(t, errors.As(err, &extractionErr))
}

func TestParseFile(t *testing.T) {
	path := writeFile(t, preamble+sampleData)
	mockLog := logging.NewMockLogger()

	rows, err := New(mockLog).ParseFile(path)
	require.NoError(t, err)
	assert.Len(t, rows, 2)
	assert.True(t, mockLog.HasEntry("INFO", "Successfully read statement rows"))

	_, err = New(mockLog).ParseFile(filepath.Join(t.TempDir(), "missing.csv"))
	assert.Error(t, err)
}

func TestValidateFormat(t *testing.T) {
	tests := []struct {
		name        string
		content     string
		expectValid bool
		expectErr   any
	}{
		{name: "valid statement", content: preamble + sampleData, expectValid: true},
		{name: "only preamble", content: preamble, expectErr: &parsererror.ValidationError{}},
		{name: "too few columns", content: preamble + "a,b,c\n", expectErr: &parsererror.ValidationError{}},
		{name: "blank rows are skipped", content: preamble + ",,,,,\n" + sampleData, expectValid: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			valid, err := New(logging.NewMockLogger()).ValidateFormat(writeFile(t, tt.content))

			assert.Equal(t, tt.expectValid, valid)
			if tt.expectErr == nil {
				assert.NoError(t, err)
				return
			}
			var validationErr *parsererror.ValidationError
			assert.True(t, errors.As(err, &validationErr))
		})
	}
}

func TestValidateFormat_MissingFile(t *testing.T) {
	valid, err := New(nil).ValidateFormat(filepath.Join(t.TempDir(), "missing.csv"))
	assert.False(t, valid)
	assert.Error(t, err)
}

func TestOptions_IgnoreInvalidValues(t *testing.T) {
	p := New(nil, WithSkipRows(-1), WithDelimiter(0))
	assert.Equal(t, DefaultSkipRows, p.skipRows)
	assert.Equal(t, ',', p.delimiter)
}
