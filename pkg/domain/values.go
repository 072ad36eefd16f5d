package domain

import (
	"maps"
	"slices"
	"sort"
)

// Symbol is a token drawn from a ConstantDomain axis.
type Symbol string

// Values maps field names to field values.
type Values map[string]any

// Clone returns a copy whose tables, vectors and nested maps do not alias v.
func (v Values) Clone() Values {
	if v == nil {
		return nil
	}
	out := make(Values, len(v))
	for k, val := range v {
		out[k] = CloneValue(val)
	}
	return out
}

// Keys returns the field names in lexical order.
func (v Values) Keys() []string {
	keys := make([]string, 0, len(v))
	for k := range v {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// Merge returns a copy of v overlaid with patch.
func (v Values) Merge(patch Values) Values {
	out := v.Clone()
	if out == nil {
		out = make(Values, len(patch))
	}
	for k, val := range patch {
		out[k] = CloneValue(val)
	}
	return out
}

// CloneValue copies the mutable value shapes.
func CloneValue(v any) any {
	switch t := v.(type) {
	case Table:
		return t.Clone()
	case []float64:
		return slices.Clone(t)
	case map[string]any:
		return maps.Clone(t)
	}
	return v
}

// Region selects the geometry an entity applies to.
// The zero Region means unset; every entity owns its own copy.
type Region struct {
	Set     string `json:"set,omitempty" yaml:"set,omitempty" mapstructure:"set"`
	Surface string `json:"surface,omitempty" yaml:"surface,omitempty" mapstructure:"surface"`
}

// IsZero reports whether the region is unset.
func (r Region) IsZero() bool {
	return r.Set == "" && r.Surface == ""
}

func (r Region) String() string {
	switch {
	case r.IsZero():
		return "<unset>"
	case r.Surface != "":
		return "surface:" + r.Surface
	default:
		return "set:" + r.Set
	}
}

// Table is a small numeric table with a fixed number of columns per row.
type Table [][]float64

// Clone deep-copies the table rows.
func (t Table) Clone() Table {
	if t == nil {
		return nil
	}
	out := make(Table, len(t))
	for i, row := range t {
		out[i] = slices.Clone(row)
	}
	return out
}
