package report

import (
	"fjacquet/wire-csv/internal/models"
	"fjacquet/wire-csv/pkg/decomposer"
)

// FieldCoverage counts the states of one decomposed field.
type FieldCoverage struct {
	Field   string `json:"field" yaml:"field"`
	Present int    `json:"present" yaml:"present"`
	Empty   int    `json:"empty" yaml:"empty"`
	Absent  int    `json:"absent" yaml:"absent"`
}

// Percent returns the share of rows where the field is present.
func (f FieldCoverage) Percent() float64 {
	total := f.Present + f.Empty + f.Absent
	if total == 0 {
		return 0
	}
	return float64(f.Present) * 100 / float64(total)
}

// Coverage summarises how much structure was recovered from a set of records.
type Coverage struct {
	RunID         string          `json:"run_id,omitempty" yaml:"run_id,omitempty"`
	Files         int             `json:"files" yaml:"files"`
	Rows          int             `json:"rows" yaml:"rows"`
	Invalid       int             `json:"invalid_descriptions" yaml:"invalid_descriptions"`
	Issues        int             `json:"coercion_issues" yaml:"coercion_issues"`
	DatesAbsent   int             `json:"dates_absent" yaml:"dates_absent"`
	AmountsAbsent int             `json:"amounts_absent" yaml:"amounts_absent"`
	Fields        []FieldCoverage `json:"fields" yaml:"fields"`

	index map[string]int
}

// NewCoverage counts records against the given output fields.
func NewCoverage(fields []decomposer.FieldName, records []models.Record) *Coverage {
	c := &Coverage{
		Fields: make([]FieldCoverage, len(fields)),
		index:  make(map[string]int, len(fields)),
	}
	for i, name := range fields {
		c.Fields[i] = FieldCoverage{Field: string(name)}
		c.index[string(name)] = i
	}
	for _, rec := range records {
		c.Add(rec)
	}
	return c
}

// Add counts one record.
func (c *Coverage) Add(rec models.Record) {
	c.Rows++
	if rec.DecompositionFailed {
		c.Invalid++
	}
	if !rec.Date.Valid {
		c.DatesAbsent++
	}
	if !rec.Amount.Valid {
		c.AmountsAbsent++
	}
	for i := range c.Fields {
		switch rec.Fields.Value(decomposer.FieldName(c.Fields[i].Field)).State {
		case decomposer.Present:
			c.Fields[i].Present++
		case decomposer.Empty:
			c.Fields[i].Empty++
		default:
			c.Fields[i].Absent++
		}
	}
}

// Merge adds the counts of other. Fields unknown to c are appended.
func (c *Coverage) Merge(other *Coverage) {
	if other == nil {
		return
	}
	if c.index == nil {
		c.index = make(map[string]int, len(c.Fields))
		for i, f := range c.Fields {
			c.index[f.Field] = i
		}
	}

	c.Files += other.Files
	c.Rows += other.Rows
	c.Invalid += other.Invalid
	c.Issues += other.Issues
	c.DatesAbsent += other.DatesAbsent
	c.AmountsAbsent += other.AmountsAbsent

	for _, f := range other.Fields {
		i, ok := c.index[f.Field]
		if !ok {
			c.index[f.Field] = len(c.Fields)
			c.Fields = append(c.Fields, f)
			continue
		}
		c.Fields[i].Present += f.Present
		c.Fields[i].Empty += f.Empty
		c.Fields[i].Absent += f.Absent
	}
}
