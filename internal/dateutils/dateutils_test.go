package dateutils

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseDate(t *testing.T) {
	tests := []struct {
		name        string
		dateStr     string
		expectedOk  bool
		expectedY   int
		expectedM   time.Month
		expectedD   int
		expectedFmt string
	}{
		{"ISO format", "2023-01-15", true, 2023, time.January, 15, DateLayoutISO},
		{"Full timestamp", "2023-01-15 10:30:45", true, 2023, time.January, 15, DateLayoutFull},
		{"US format", "01/15/2023", true, 2023, time.January, 15, DateLayoutUS},
		{"US format without padding", "1/5/2023", true, 2023, time.January, 5, DateLayoutUS},
		{"Slash date read day-first when month-first fails", "15/01/2023", true, 2023, time.January, 15, "2/1/2006"},
		{"European format", "15.01.2023", true, 2023, time.January, 15, DateLayoutEuropean},
		{"Dash-separated EU", "15-01-2023", true, 2023, time.January, 15, "02-01-2006"},
		{"With month name", "15-Jan-2023", true, 2023, time.January, 15, DateLayoutWithMonth},
		{"Compact", "20230115", true, 2023, time.January, 15, "20060102"},
		{"Extra whitespace", "  2023-01-15  ", true, 2023, time.January, 15, DateLayoutISO},
		{"Empty string", "", false, 0, 0, 0, ""},
		{"Invalid format", "not a date", false, 0, 0, 0, ""},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			date, format, err := ParseDate(tc.dateStr)

			if !tc.expectedOk {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tc.expectedY, date.Year())
			assert.Equal(t, tc.expectedM, date.Month())
			assert.Equal(t, tc.expectedD, date.Day())
			assert.Equal(t, tc.expectedFmt, format)
		})
	}
}

func TestParseDateString(t *testing.T) {
	date, err := ParseDateString("03/04/2024")
	require.NoError(t, err)
	assert.Equal(t, time.March, date.Month())

	_, err = ParseDateString("soon")
	assert.Error(t, err)
}

func TestCleanDateString(t *testing.T) {
	assert.Equal(t, "Jan 2, 2006", CleanDateString("  Jan   2,\t2006 "))
}

func TestToISODate(t *testing.T) {
	assert.Equal(t, "2024-02-29", ToISODate(time.Date(2024, 2, 29, 13, 0, 0, 0, time.UTC)))
	assert.Equal(t, "", ToISODate(time.Time{}))
}
