package domain

import (
	"reflect"
	"sort"
)

// StepDiff represents the changes between two consecutive StepStates of one entity.
type StepDiff struct {
	From string `json:"from,omitempty"`
	To   string `json:"to"`

	// Status is set only when the object status changed.
	Status *Status `json:"status,omitempty"`

	// Fields holds only fields whose value or tag changed.
	Fields map[string]FieldDelta `json:"fields,omitempty"`
}

// FieldDelta is the before/after pair of one field.
type FieldDelta struct {
	Before FieldState `json:"before"`
	After  FieldState `json:"after"`
}

// Diff calculates the difference between prev and next.
// If prev is nil, it returns a diff representing the entire next state.
// It returns nil when nothing changed.
func Diff(prev, next *StepState) *StepDiff {
	if next == nil {
		return nil
	}

	diff := &StepDiff{To: next.Step}
	if prev != nil {
		diff.From = prev.Step
	}

	if prev == nil || prev.Status != next.Status {
		status := next.Status
		diff.Status = &status
	}

	diff.Fields = diffFields(prev, next)

	if diff.IsEmpty() {
		return nil
	}
	return diff
}

func diffFields(prev, next *StepState) map[string]FieldDelta {
	delta := make(map[string]FieldDelta)

	for name, after := range next.Fields {
		var before FieldState
		if prev != nil {
			before = prev.Fields[name]
		}
		if before.Status != after.Status || !reflect.DeepEqual(before.Value, after.Value) {
			delta[name] = FieldDelta{Before: before, After: after}
		}
	}

	if prev != nil {
		for name, before := range prev.Fields {
			if _, ok := next.Fields[name]; !ok {
				delta[name] = FieldDelta{Before: before}
			}
		}
	}

	if len(delta) == 0 {
		return nil
	}
	return delta
}

// DiffSequence returns the diff of every step against its predecessor,
// skipping steps where nothing changed.
func DiffSequence(states []StepState) []StepDiff {
	var out []StepDiff
	var prev *StepState
	for i := range states {
		if d := Diff(prev, &states[i]); d != nil {
			out = append(out, *d)
		}
		prev = &states[i]
	}
	return out
}

// ChangedFields returns the changed field names in lexical order.
func (d *StepDiff) ChangedFields() []string {
	names := make([]string, 0, len(d.Fields))
	for name := range d.Fields {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// IsEmpty checks if the diff contains any actionable changes.
func (d *StepDiff) IsEmpty() bool {
	return d.Status == nil && len(d.Fields) == 0
}
