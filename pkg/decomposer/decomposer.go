// Package decomposer splits free-text wire transfer descriptions into
// structured fields.
//
// A description such as
//
//	B/O: John Smith, VIA: Bank Of X/BNF=Jane Doe/A/C: Acme Bank, Checking 1002/REF: invoice-9/IMAD: 20230101ABC
//
// is matched against a declarative rule table (see DefaultStages). Each rule
// is anchored on a literal marker and bounded by an exclusive terminator.
// Only the first occurrence of a marker is used and captured spans are
// trimmed of surrounding whitespace. A missing marker or an empty span is a
// normal outcome reported as an absent value, never as an error.
//
// Decomposition is pure: a Decomposer holds no mutable state once built and
// is safe for concurrent use.
package decomposer

import (
	"fmt"
	"strings"

	"fjacquet/wire-csv/internal/parsererror"
	"fjacquet/wire-csv/internal/textutils"
)

// Decomposer applies staged extraction rules to descriptions.
type Decomposer struct {
	stages  []Stage
	outputs []FieldName
	size    int
}

var defaultDecomposer = MustNew(DefaultStages...)

// Default returns the decomposer built from DefaultStages.
func Default() *Decomposer {
	return defaultDecomposer
}

// New builds a decomposer from stages, rejecting rule sets whose chained
// rules read a field that no earlier stage produces.
func New(stages ...Stage) (*Decomposer, error) {
	if err := validateStages(stages); err != nil {
		return nil, fmt.Errorf("invalid rule set: %w", err)
	}

	d := &Decomposer{stages: make([]Stage, len(stages))}
	for i, stage := range stages {
		d.stages[i] = append(Stage(nil), stage...)
		for _, rule := range stage {
			d.size++
			if !rule.Intermediate {
				d.outputs = append(d.outputs, rule.Field)
			}
		}
	}
	return d, nil
}

// MustNew is like New but panics on an invalid rule set.
func MustNew(stages ...Stage) *Decomposer {
	d, err := New(stages...)
	if err != nil {
		panic(err)
	}
	return d
}

// Stages returns a copy of the rule table.
func (d *Decomposer) Stages() []Stage {
	stages := make([]Stage, len(d.stages))
	for i, stage := range d.stages {
		stages[i] = append(Stage(nil), stage...)
	}
	return stages
}

// OutputFields returns the names every result carries, in column order.
func (d *Decomposer) OutputFields() []FieldName {
	return append([]FieldName(nil), d.outputs...)
}

// Absent returns a result with every output field absent.
func (d *Decomposer) Absent() Fields {
	values := make(map[FieldName]Value, len(d.outputs))
	for _, name := range d.outputs {
		values[name] = Value{}
	}
	return Fields{names: d.outputs, values: values}
}

// Decompose accepts a string, *string, []byte, fmt.Stringer or nil.
// Nil inputs decompose like an empty description. Any other kind fails
// with a *parsererror.InvalidInputKindError.
func (d *Decomposer) Decompose(description any) (Fields, error) {
	switch v := description.(type) {
	case nil:
		return d.DecomposeText(""), nil
	case string:
		return d.DecomposeText(v), nil
	case *string:
		if v == nil {
			return d.DecomposeText(""), nil
		}
		return d.DecomposeText(*v), nil
	case []byte:
		return d.DecomposeText(string(v)), nil
	case fmt.Stringer:
		return d.DecomposeText(v.String()), nil
	default:
		return Fields{}, &parsererror.InvalidInputKindError{Kind: fmt.Sprintf("%T", description)}
	}
}

// DecomposeText runs every stage over description and drops intermediate
// fields from the result.
func (d *Decomposer) DecomposeText(description string) Fields {
	working := make(map[FieldName]Value, d.size)

	for _, stage := range d.stages {
		for _, rule := range stage {
			source := description
			if rule.Source != "" {
				sourceValue := working[rule.Source]
				if !sourceValue.IsPresent() {
					working[rule.Field] = Value{}
					continue
				}
				source = sourceValue.Text
			}
			working[rule.Field] = extract(rule, source)
		}
	}

	values := make(map[FieldName]Value, len(d.outputs))
	for _, name := range d.outputs {
		values[name] = working[name]
	}
	return Fields{names: d.outputs, values: values}
}

// extract applies one rule to source without modifying it.
func extract(rule Rule, source string) Value {
	start, marker := 0, ""
	if len(rule.Markers) > 0 {
		start, marker = textutils.IndexFirstMarker(source, rule.Markers...)
		if start < 0 {
			return Value{}
		}
	}

	rest := source[start+len(marker):]
	stop := rule.Terminator.stop()

	if rule.Capture == WithMarker {
		lead := textutils.LeadingSpace(rest)
		run := textutils.CutBefore(rest[lead:], stop)
		if run == "" {
			return Value{State: Empty}
		}
		end := start + len(marker) + lead + len(run)
		return Value{Text: source[start:end], State: Present}
	}

	span := strings.TrimSpace(textutils.CutBefore(rest, stop))
	if span == "" {
		return Value{State: Empty}
	}
	return Value{Text: span, State: Present}
}

// Decompose runs the default rule set. See (*Decomposer).Decompose.
func Decompose(description any) (Fields, error) {
	return defaultDecomposer.Decompose(description)
}

// DecomposeText runs the default rule set over a description.
func DecomposeText(description string) Fields {
	return defaultDecomposer.DecomposeText(description)
}
