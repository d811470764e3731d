package decomposer

// FieldName identifies one structured field produced from a description.
type FieldName string

// Structured field names. The values double as the output column headers.
const (
	SenderName           FieldName = "Sender Name"
	SenderBankLocation   FieldName = "Sender Bank & Location"
	ReceiverName         FieldName = "Receiver Name"
	ReceiverBankLocation FieldName = "Receiver Bank & Location"
	ReferencePurpose     FieldName = "Reference / Purpose"
	TransactionID        FieldName = "Transaction ID"
	ReceiverBank         FieldName = "Receiver Bank"
	ReceiverAccountName  FieldName = "Receiver Account Name"
)

// State tells apart a missing marker from a marker with nothing after it.
type State int

const (
	// Absent means the marker (or the source field) was not found.
	Absent State = iota
	// Empty means the marker was found but the captured span trimmed to "".
	Empty
	// Present means a non-empty value was captured.
	Present
)

func (s State) String() string {
	switch s {
	case Empty:
		return "empty"
	case Present:
		return "present"
	default:
		return "absent"
	}
}

// Value is the result of one rule.
type Value struct {
	Text  string
	State State
}

// IsPresent reports whether the value carries extracted text.
func (v Value) IsPresent() bool {
	return v.State == Present
}

// String returns the extracted text, or "" for both empty and absent values.
func (v Value) String() string {
	if v.State != Present {
		return ""
	}
	return v.Text
}

// Fields is the immutable result of decomposing one description.
// Only output fields are exposed; intermediate fields are dropped before
// a Fields value is built.
type Fields struct {
	names  []FieldName
	values map[FieldName]Value
}

// Names returns the output field names in column order.
func (f Fields) Names() []FieldName {
	names := make([]FieldName, len(f.names))
	copy(names, f.names)
	return names
}

// Has reports whether name is one of the output fields.
func (f Fields) Has(name FieldName) bool {
	_, ok := f.values[name]
	return ok
}

// Value returns the tri-state value of a field. Unknown names are Absent.
func (f Fields) Value(name FieldName) Value {
	return f.values[name]
}

// Get returns the extracted text of a field and whether it is present.
// Empty and absent values both return ("", false).
func (f Fields) Get(name FieldName) (string, bool) {
	v := f.values[name]
	return v.String(), v.IsPresent()
}

// Map returns every output field keyed by name, with "" as the absence value.
func (f Fields) Map() map[string]string {
	out := make(map[string]string, len(f.names))
	for _, name := range f.names {
		out[string(name)] = f.values[name].String()
	}
	return out
}

// PresentCount returns how many output fields carry a value.
func (f Fields) PresentCount() int {
	n := 0
	for _, name := range f.names {
		if f.values[name].IsPresent() {
			n++
		}
	}
	return n
}
