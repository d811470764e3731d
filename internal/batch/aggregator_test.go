package batch

import (
	"testing"
	"time"

	"fjacquet/wire-csv/internal/logging"
	"fjacquet/wire-csv/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func day(d int) time.Time {
	return time.Date(2023, time.January, d, 0, 0, 0, 0, time.UTC)
}

func TestDateRange_Merge(t *testing.T) {
	tests := []struct {
		name     string
		a, b     DateRange
		expected DateRange
	}{
		{"both empty", DateRange{}, DateRange{}, DateRange{}},
		{"empty with range", DateRange{}, DateRange{day(2), day(5)}, DateRange{day(2), day(5)}},
		{"range with empty", DateRange{day(2), day(5)}, DateRange{}, DateRange{day(2), day(5)}},
		{"widening", DateRange{day(3), day(4)}, DateRange{day(1), day(9)}, DateRange{day(1), day(9)}},
		{"overlap", DateRange{day(1), day(4)}, DateRange{day(3), day(6)}, DateRange{day(1), day(6)}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, tt.a.Merge(tt.b))
		})
	}
}

func TestDateRange_String(t *testing.T) {
	assert.Equal(t, "2023-01-02_2023-01-05", DateRange{day(2), day(5)}.String())
	assert.Equal(t, "", DateRange{Start: day(2)}.String())
}

func TestDateRangeOf(t *testing.T) {
	records := []models.Record{
		{Date: models.NewDate(day(7))},
		{},
		{Date: models.NewDate(day(3))},
	}
	assert.Equal(t, DateRange{day(3), day(7)}, DateRangeOf(records))
	assert.Equal(t, DateRange{}, DateRangeOf(nil))
}

func TestDuplicateTracker(t *testing.T) {
	tracker := NewDuplicateTracker()
	tracker.Add("a.csv", []models.Record{
		{TransactionID: "IMAD: 1", Line: 5},
		{TransactionID: "IMAD: 2", Line: 6},
		{Line: 7},
	})
	tracker.Add("b.csv", []models.Record{
		{TransactionID: "IMAD: 1", Line: 5},
		{Line: 6},
	})

	duplicates := tracker.Duplicates()
	require.Len(t, duplicates, 1)
	assert.Equal(t, []Location{{File: "a.csv", Line: 5}, {File: "b.csv", Line: 5}}, duplicates["IMAD: 1"])

	mockLog := logging.NewMockLogger()
	assert.Equal(t, 1, tracker.LogDuplicates(mockLog))
	assert.True(t, mockLog.HasEntry("WARN", "Potential duplicate transaction"))
	assert.True(t, mockLog.HasEntry("WARN", "Found potential duplicate transactions"))
}

func TestDuplicateTracker_NoDuplicates(t *testing.T) {
	tracker := NewDuplicateTracker()
	tracker.Add("a.csv", []models.Record{{TransactionID: "TRN: 1"}})

	mockLog := logging.NewMockLogger()
	assert.Equal(t, 0, tracker.LogDuplicates(mockLog))
	assert.Empty(t, mockLog.GetEntries())
}

func TestLocation_String(t *testing.T) {
	assert.Equal(t, "a.csv:5", Location{File: "a.csv", Line: 5}.String())
}
