package batch

import (
	"fmt"
	"sort"
	"time"

	"fjacquet/wire-csv/internal/dateutils"
	"fjacquet/wire-csv/internal/logging"
	"fjacquet/wire-csv/internal/models"
)

// DateRange spans the transaction dates of one or more statements.
// A zero bound is unknown.
type DateRange struct {
	Start time.Time
	End   time.Time
}

// String renders the range as "start_end" ISO dates, or "" when a bound is unknown.
func (dr DateRange) String() string {
	if dr.Start.IsZero() || dr.End.IsZero() {
		return ""
	}
	return fmt.Sprintf("%s_%s", dateutils.ToISODate(dr.Start), dateutils.ToISODate(dr.End))
}

// Merge widens dr to cover other. Unknown bounds never narrow a known one.
func (dr DateRange) Merge(other DateRange) DateRange {
	return DateRange{
		Start: earliest(dr.Start, other.Start),
		End:   latest(dr.End, other.End),
	}
}

func earliest(a, b time.Time) time.Time {
	if a.IsZero() || (!b.IsZero() && b.Before(a)) {
		return b
	}
	return a
}

func latest(a, b time.Time) time.Time {
	if a.IsZero() || b.After(a) {
		return b
	}
	return a
}

// DateRangeOf returns the range spanned by the present dates of records.
func DateRangeOf(records []models.Record) DateRange {
	var dr DateRange
	for _, rec := range records {
		if rec.Date.Valid {
			dr = dr.Merge(DateRange{Start: rec.Date.Time, End: rec.Date.Time})
		}
	}
	return dr
}

// Location points at one record of a converted file.
type Location struct {
	File string `json:"file" yaml:"file"`
	Line int    `json:"line" yaml:"line"`
}

func (l Location) String() string {
	return fmt.Sprintf("%s:%d", l.File, l.Line)
}

// DuplicateTracker collects the locations of every Transaction ID seen.
// A wire reference is expected once per run; repeats usually mean
// overlapping statement exports.
type DuplicateTracker struct {
	seen map[string][]Location
}

// NewDuplicateTracker returns an empty tracker.
func NewDuplicateTracker() *DuplicateTracker {
	return &DuplicateTracker{seen: make(map[string][]Location)}
}

// Add records the Transaction IDs of one file.
func (d *DuplicateTracker) Add(file string, records []models.Record) {
	for _, rec := range records {
		if rec.TransactionID == "" {
			continue
		}
		d.seen[rec.TransactionID] = append(d.seen[rec.TransactionID], Location{File: file, Line: rec.Line})
	}
}

// Duplicates returns the IDs seen more than once, with their locations.
func (d *DuplicateTracker) Duplicates() map[string][]Location {
	out := make(map[string][]Location)
	for id, locations := range d.seen {
		if len(locations) > 1 {
			out[id] = append([]Location(nil), locations...)
		}
	}
	return out
}

// LogDuplicates warns once per repeated Transaction ID and returns the count.
func (d *DuplicateTracker) LogDuplicates(logger logging.Logger) int {
	duplicates := d.Duplicates()
	ids := make([]string, 0, len(duplicates))
	for id := range duplicates {
		ids = append(ids, id)
	}
	sort.Strings(ids)

	for _, id := range ids {
		locations := make([]string, len(duplicates[id]))
		for i, l := range duplicates[id] {
			locations[i] = l.String()
		}
		logger.Warn("Potential duplicate transaction",
			logging.Field{Key: "transaction_id", Value: id},
			logging.Field{Key: "locations", Value: locations})
	}

	if len(ids) > 0 {
		logger.Warn("Found potential duplicate transactions",
			logging.Field{Key: logging.FieldCount, Value: len(ids)})
	}
	return len(ids)
}
