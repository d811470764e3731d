package decomposer

import (
	"fmt"
	"unicode"
)

// Terminator ends a captured span. The terminator itself is never captured.
type Terminator int

const (
	// EndOfText captures up to the end of the source.
	EndOfText Terminator = iota
	// Comma stops at the next ','.
	Comma
	// Slash stops at the next '/'.
	Slash
	// Whitespace stops at the next whitespace rune.
	Whitespace
)

func (t Terminator) stop() func(rune) bool {
	switch t {
	case Comma:
		return func(r rune) bool { return r == ',' }
	case Slash:
		return func(r rune) bool { return r == '/' }
	case Whitespace:
		return unicode.IsSpace
	default:
		return nil
	}
}

var terminatorNames = map[Terminator]string{
	EndOfText:  "end",
	Comma:      "comma",
	Slash:      "slash",
	Whitespace: "whitespace",
}

// Name returns the keyword used for t in rule files.
func (t Terminator) Name() string {
	return terminatorNames[t]
}

// ParseTerminator parses a rule file keyword. "" means EndOfText.
func ParseTerminator(name string) (Terminator, error) {
	if name == "" {
		return EndOfText, nil
	}
	for t, n := range terminatorNames {
		if n == name {
			return t, nil
		}
	}
	return EndOfText, fmt.Errorf("unknown terminator %q", name)
}

func (t Terminator) String() string {
	switch t {
	case Comma:
		return "','"
	case Slash:
		return "'/'"
	case Whitespace:
		return "whitespace"
	default:
		return "end of text"
	}
}

// Capture selects which part of the match becomes the field value.
type Capture int

const (
	// AfterMarker captures the text between the marker and the terminator.
	AfterMarker Capture = iota
	// WithMarker captures the marker itself followed by one non-space run.
	WithMarker
)

// Name returns the keyword used for c in rule files.
func (c Capture) Name() string {
	if c == WithMarker {
		return "with_marker"
	}
	return "after_marker"
}

// ParseCapture parses a rule file keyword. "" means AfterMarker.
func ParseCapture(name string) (Capture, error) {
	switch name {
	case "", "after_marker":
		return AfterMarker, nil
	case "with_marker":
		return WithMarker, nil
	default:
		return AfterMarker, fmt.Errorf("unknown capture %q", name)
	}
}

// Rule is one declarative extraction step.
type Rule struct {
	Field FieldName
	// Source is the field the rule reads. The zero value reads the raw
	// description.
	Source FieldName
	// Markers are tried in priority order; the first one found anywhere in
	// the source anchors the match. No markers anchors at the start of the
	// source.
	Markers    []string
	Terminator Terminator
	Capture    Capture
	// Intermediate fields feed later stages and never reach the output.
	Intermediate bool
}

func (r Rule) String() string {
	source := "description"
	if r.Source != "" {
		source = string(r.Source)
	}
	return fmt.Sprintf("%s <- %s %q until %s", r.Field, source, r.Markers, r.Terminator)
}

// Stage groups rules that only depend on the raw description or on fields
// produced by earlier stages. Rules within a stage are order independent.
type Stage []Rule

// DefaultStages is the wire description rule set.
//
// Stage one scans the raw description; every rule rescans it in full, so no
// rule shrinks another's search space. Stage two splits the intermediate
// "Receiver Bank & Location" into bank and account name.
var DefaultStages = []Stage{
	{
		{Field: SenderName, Markers: []string{"B/O:"}, Terminator: Comma},
		{Field: SenderBankLocation, Markers: []string{"VIA:"}, Terminator: Slash},
		{Field: ReceiverName, Markers: []string{"BNF="}, Terminator: Slash},
		{Field: ReceiverBankLocation, Markers: []string{"A/C:"}, Terminator: Slash, Intermediate: true},
		{Field: ReferencePurpose, Markers: []string{"REF:"}, Terminator: Slash},
		{Field: TransactionID, Markers: []string{"IMAD:", "TRN:"}, Terminator: Whitespace, Capture: WithMarker},
	},
	{
		{Field: ReceiverBank, Source: ReceiverBankLocation, Terminator: Comma},
		{Field: ReceiverAccountName, Source: ReceiverBankLocation, Markers: []string{","}, Terminator: EndOfText},
	},
}

// validateStages checks that every field is produced once and that every
// source is produced by an earlier stage.
func validateStages(stages []Stage) error {
	produced := make(map[FieldName]bool)
	for i, stage := range stages {
		current := make(map[FieldName]bool)
		for _, rule := range stage {
			if rule.Field == "" {
				return fmt.Errorf("stage %d: rule without field name", i+1)
			}
			if produced[rule.Field] || current[rule.Field] {
				return fmt.Errorf("stage %d: field %q produced more than once", i+1, rule.Field)
			}
			if rule.Source != "" && !produced[rule.Source] {
				return fmt.Errorf("stage %d: field %q reads %q, which no earlier stage produces", i+1, rule.Field, rule.Source)
			}
			current[rule.Field] = true
		}
		for name := range current {
			produced[name] = true
		}
	}
	return nil
}
