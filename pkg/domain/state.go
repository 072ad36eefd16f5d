package domain

// FieldState is the value and tag of one propagating field in one step.
type FieldState struct {
	Value  any         `json:"value,omitempty"`
	Status FieldStatus `json:"status"`
}

// StepState is the derived per-step shadow of an entity.
// It is produced by the propagation engine and never built by callers.
type StepState struct {
	Step   string                `json:"step"`
	Status Status                `json:"status"`
	Fields map[string]FieldState `json:"fields,omitempty"`
}

// Value returns the effective value of a field, or nil when absent.
func (s StepState) Value(field string) any {
	return s.Fields[field].Value
}

// FieldStatus returns the tag of a field, or UNSET when unknown.
func (s StepState) FieldStatus(field string) FieldStatus {
	fs, ok := s.Fields[field]
	if !ok {
		return FieldUnset
	}
	return fs.Status
}

// Clone returns a StepState whose field values do not alias s.
func (s StepState) Clone() StepState {
	out := StepState{Step: s.Step, Status: s.Status}
	if s.Fields != nil {
		out.Fields = make(map[string]FieldState, len(s.Fields))
		for k, fs := range s.Fields {
			out.Fields[k] = FieldState{Value: CloneValue(fs.Value), Status: fs.Status}
		}
	}
	return out
}
