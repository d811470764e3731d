package convert

import (
	"bytes"
	"context"
	"encoding/csv"
	"os"
	"path/filepath"
	"testing"

	"fjacquet/wire-csv/internal/config"
	"fjacquet/wire-csv/internal/container"
	"fjacquet/wire-csv/internal/logging"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const statement = `Account,Date,SRC_SYST_TXN_CD,Transaction Type,Description,Amount
ACCOUNT SUMMARY,,,,,
OPENING BALANCE,,,,,
,,,,,
1002,1/15/2024,WIRE,Wire Out,"B/O: John Smith, VIA: Bank Of X/BNF=Jane Doe/A/C: Acme Bank, Checking 1002/REF: invoice-9/IMAD: 20230101ABC",-1250.00
1002,1/16/2024,WIRE,Wire In,BNF=Only Receiver/TRN: 99X,300
`

func newTestContainer(t *testing.T, format string) *container.Container {
	t.Helper()
	cfg := &config.Config{}
	cfg.Log.Level = "info"
	cfg.Log.Format = "text"
	cfg.CSV.Delimiter = ","
	cfg.Statement.SkipRows = 4
	cfg.Statement.Delimiter = ","
	cfg.Processing.ConcurrencyThreshold = 100
	cfg.Output.Suffix = "_processed"
	cfg.Report.Format = format

	c, err := container.NewContainerWithLogger(cfg, logging.NewMockLogger())
	require.NoError(t, err)
	return c
}

func writeStatement(t *testing.T) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "statement.csv")
	require.NoError(t, os.WriteFile(path, []byte(statement), 0600))
	return path
}

func TestCommandMetadata(t *testing.T) {
	assert.Equal(t, "convert", Cmd.Use)
	assert.Contains(t, Cmd.Long, "Example")
	assert.NotNil(t, Cmd.RunE)
}

func TestRun_Converts(t *testing.T) {
	input := writeStatement(t)
	outDir := filepath.Join(t.TempDir(), "out")
	var out bytes.Buffer

	require.NoError(t, run(context.Background(), newTestContainer(t, "yaml"), input, outDir, false, &out))

	assert.Contains(t, out.String(), "rows: 2")
	assert.Contains(t, out.String(), "field: Receiver Name")

	f, err := os.Open(filepath.Join(outDir, "statement_processed.csv"))
	require.NoError(t, err)
	defer f.Close()
	records, err := csv.NewReader(f).ReadAll()
	require.NoError(t, err)
	require.Len(t, records, 3)
	assert.Equal(t, "Date", records[0][0])
	assert.Equal(t, "2024-01-15", records[1][0])
	assert.Equal(t, "John Smith", records[1][3])
	assert.Equal(t, "Only Receiver", records[2][5])
	assert.Equal(t, "TRN: 99X", records[2][7])
}

func TestRun_DefaultOutputDirIsInputDir(t *testing.T) {
	input := writeStatement(t)
	var out bytes.Buffer

	require.NoError(t, run(context.Background(), newTestContainer(t, "table"), input, "", false, &out))

	_, err := os.Stat(filepath.Join(filepath.Dir(input), "statement_processed.csv"))
	assert.NoError(t, err)
	assert.Contains(t, out.String(), "COVERAGE")
	assert.Contains(t, out.String(), "Receiver Name")
}

func TestRun_ValidateOnly(t *testing.T) {
	input := writeStatement(t)
	var out bytes.Buffer

	require.NoError(t, run(context.Background(), newTestContainer(t, "json"), input, "", true, &out))
	assert.Empty(t, out.String())

	_, err := os.Stat(filepath.Join(filepath.Dir(input), "statement_processed.csv"))
	assert.True(t, os.IsNotExist(err))

	narrow := filepath.Join(t.TempDir(), "narrow.csv")
	require.NoError(t, os.WriteFile(narrow, []byte("a,b\n1,2\n"), 0600))
	assert.Error(t, run(context.Background(), newTestContainer(t, "json"), narrow, "", true, &out))
}

func TestRun_MissingInput(t *testing.T) {
	var out bytes.Buffer
	err := run(context.Background(), newTestContainer(t, "table"), filepath.Join(t.TempDir(), "none.csv"), "", false, &out)
	assert.Error(t, err)
}
