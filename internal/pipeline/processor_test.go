package pipeline

import (
	"context"
	"errors"
	"fmt"
	"runtime"
	"strings"
	"testing"

	"fjacquet/wire-csv/internal/logging"
	"fjacquet/wire-csv/internal/models"
	"fjacquet/wire-csv/internal/parsererror"
	"fjacquet/wire-csv/pkg/decomposer"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func makeRows(n int) []models.StatementRow {
	rows := make([]models.StatementRow, n)
	for i := range rows {
		rows[i] = models.StatementRow{
			Account:         "12345",
			Date:            "2023-01-15",
			TransactionType: "Wire In",
			Description:     fmt.Sprintf("B/O: Sender %d, BNF=Receiver %d/REF: ref-%d/IMAD: ID%04d", i, i, i, i),
			Amount:          fmt.Sprintf("%d.50", i),
			Line:            i + 5,
		}
	}
	return rows
}

// failingDecomposer rejects descriptions containing "bad".
type failingDecomposer struct {
	err error
}

func (f failingDecomposer) Decompose(description any) (decomposer.Fields, error) {
	if s, ok := description.(string); ok && strings.Contains(s, "bad") {
		return decomposer.Fields{}, f.err
	}
	return decomposer.Decompose(description)
}

func (f failingDecomposer) Absent() decomposer.Fields {
	return decomposer.Default().Absent()
}

func TestNewConcurrentProcessor(t *testing.T) {
	cp := NewConcurrentProcessor(nil, nil)

	assert.NotNil(t, cp.logger)
	assert.NotNil(t, cp.decomposer)
	assert.Equal(t, runtime.NumCPU(), cp.workerCount)
	assert.Equal(t, DefaultConcurrencyThreshold, cp.threshold)

	cp = NewConcurrentProcessor(nil, nil, WithWorkers(3), WithThreshold(10), WithWorkers(0), WithThreshold(-1))
	assert.Equal(t, 3, cp.workerCount)
	assert.Equal(t, 10, cp.threshold)
}

func TestProcess_Sequential(t *testing.T) {
	cp := NewConcurrentProcessor(logging.NewMockLogger(), nil)

	result, err := cp.Process(context.Background(), makeRows(3))
	require.NoError(t, err)
	require.Len(t, result.Records, 3)

	rec := result.Records[1]
	assert.Equal(t, "Sender 1", rec.SenderName)
	assert.Equal(t, "Receiver 1", rec.ReceiverName)
	assert.Equal(t, "ref-1", rec.ReferencePurpose)
	assert.Equal(t, "IMAD: ID0001", rec.TransactionID)
	assert.Equal(t, "2023-01-15", rec.Date.String())
	assert.Equal(t, "1.50", rec.Amount.String())
	assert.Equal(t, 6, rec.Line)
	assert.Zero(t, result.Invalid)
	assert.Zero(t, result.Issues)
}

func TestProcess_ConcurrentMatchesSequential(t *testing.T) {
	rows := makeRows(500)

	sequential, err := NewConcurrentProcessor(logging.NewMockLogger(), nil, WithThreshold(len(rows)+1)).
		Process(context.Background(), rows)
	require.NoError(t, err)

	concurrent, err := NewConcurrentProcessor(logging.NewMockLogger(), nil, WithWorkers(8), WithThreshold(10)).
		Process(context.Background(), rows)
	require.NoError(t, err)

	require.Len(t, concurrent.Records, len(rows))
	for i := range rows {
		assert.Equal(t, rows[i].Line, concurrent.Records[i].Line)
		assert.Equal(t, sequential.Records[i].SenderName, concurrent.Records[i].SenderName)
		assert.Equal(t, sequential.Records[i].TransactionID, concurrent.Records[i].TransactionID)
		assert.Equal(t, sequential.Records[i].Fields.Map(), concurrent.Records[i].Fields.Map())
	}
}

func TestProcess_InvalidInputKind(t *testing.T) {
	mockLog := logging.NewMockLogger()
	d := failingDecomposer{err: &parsererror.InvalidInputKindError{Kind: "int"}}
	cp := NewConcurrentProcessor(mockLog, d)

	rows := makeRows(3)
	rows[1].Description = "bad description"

	result, err := cp.Process(context.Background(), rows)
	require.NoError(t, err)

	assert.Equal(t, 1, result.Invalid)
	assert.True(t, result.Records[1].DecompositionFailed)
	assert.Equal(t, 0, result.Records[1].Fields.PresentCount())
	assert.Len(t, result.Records[1].Fields.Names(), 7)
	assert.Equal(t, "1.50", result.Records[1].Amount.String())
	assert.False(t, result.Records[0].DecompositionFailed)
	assert.True(t, mockLog.HasEntry("WARN", "Skipping decomposition of row"))
}

func TestProcess_OtherDecomposerError(t *testing.T) {
	mockLog := logging.NewMockLogger()
	cp := NewConcurrentProcessor(mockLog, failingDecomposer{err: errors.New("boom")})

	rows := makeRows(1)
	rows[0].Description = "bad"

	result, err := cp.Process(context.Background(), rows)
	require.NoError(t, err)
	assert.Equal(t, 1, result.Invalid)
	assert.True(t, mockLog.HasEntry("ERROR", "Decomposition failed"))
}

func TestProcess_CountsCoercionIssues(t *testing.T) {
	rows := makeRows(2)
	rows[0].Date = "not a date"
	rows[1].Amount = "twelve"

	result, err := NewConcurrentProcessor(logging.NewMockLogger(), nil).Process(context.Background(), rows)
	require.NoError(t, err)

	assert.Equal(t, 2, result.Issues)
	assert.False(t, result.Records[0].Date.Valid)
	assert.False(t, result.Records[1].Amount.Valid)
}

func TestProcess_Cancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	for _, threshold := range []int{1, 1000} {
		cp := NewConcurrentProcessor(logging.NewMockLogger(), nil, WithWorkers(4), WithThreshold(threshold))
		_, err := cp.Process(ctx, makeRows(200))
		assert.ErrorIs(t, err, context.Canceled)
	}
}

func TestProcess_Empty(t *testing.T) {
	result, err := NewConcurrentProcessor(logging.NewMockLogger(), nil).Process(context.Background(), nil)
	require.NoError(t, err)
	assert.Empty(t, result.Records)
}
