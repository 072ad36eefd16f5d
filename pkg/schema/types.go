package schema

import (
	"encoding/json"
	"fmt"
	"math"
	"strings"

	"github.com/mitchellh/mapstructure"

	"github.com/aretw0/stepwise/pkg/constants"
	"github.com/aretw0/stepwise/pkg/domain"
)

// Type defines the contract for field validation.
// Implementations determine how values are validated against a type.
type Type interface {
	// Name returns the human-readable name of the type (e.g., "float", "symbol:distributionType").
	Name() string
	// Validate checks if a value conforms to this type.
	Validate(value any) error
	// Coerce validates value and converts it to the canonical Go representation.
	// Decoded JSON/YAML shapes (json.Number, []any, map[string]any) are accepted.
	Coerce(value any) (any, error)
}

// --- Built-in Type Implementations ---

// StringType validates string values.
type StringType struct{}

func (t *StringType) Name() string { return "string" }

func (t *StringType) Validate(value any) error {
	_, err := t.Coerce(value)
	return err
}

func (t *StringType) Coerce(value any) (any, error) {
	switch v := value.(type) {
	case string:
		return v, nil
	case domain.Symbol:
		return string(v), nil
	}
	return nil, fmt.Errorf("expected string, got %T", value)
}

// IntType validates integer values.
type IntType struct{}

func (t *IntType) Name() string { return "int" }

func (t *IntType) Validate(value any) error {
	_, err := t.Coerce(value)
	return err
}

func (t *IntType) Coerce(value any) (any, error) {
	switch v := value.(type) {
	case int:
		return v, nil
	case int8:
		return int(v), nil
	case int16:
		return int(v), nil
	case int32:
		return int(v), nil
	case int64:
		return int(v), nil
	case float64:
		// Accept floats that are whole numbers (from JSON unmarshaling)
		if v == float64(int64(v)) {
			return int(v), nil
		}
		return nil, fmt.Errorf("expected int, got float (not a whole number)")
	case json.Number:
		i, err := v.Int64()
		if err != nil {
			return nil, fmt.Errorf("expected int, got %q", v.String())
		}
		return int(i), nil
	}
	return nil, fmt.Errorf("expected int, got %T", value)
}

// FloatType validates floating-point values, optionally within [min, max].
type FloatType struct {
	min, max float64
	bounded  bool
}

func (t *FloatType) Name() string {
	if t.bounded {
		return fmt.Sprintf("float[%g,%g]", t.min, t.max)
	}
	return "float"
}

func (t *FloatType) Validate(value any) error {
	_, err := t.Coerce(value)
	return err
}

func (t *FloatType) Coerce(value any) (any, error) {
	f, err := toFloat(value)
	if err != nil {
		return nil, fmt.Errorf("expected float, got %T", value)
	}
	if t.bounded && (f < t.min || f > t.max) {
		return nil, &domain.RangeError{Axis: t.Name(), Value: f, Reason: fmt.Sprintf("must be within [%g, %g]", t.min, t.max)}
	}
	return f, nil
}

// BoolType validates boolean values. The symbolic ON/OFF spelling is accepted.
type BoolType struct{}

func (t *BoolType) Name() string { return "bool" }

func (t *BoolType) Validate(value any) error {
	_, err := t.Coerce(value)
	return err
}

func (t *BoolType) Coerce(value any) (any, error) {
	switch v := value.(type) {
	case bool:
		return v, nil
	case string, domain.Symbol:
		switch strings.ToUpper(fmt.Sprint(v)) {
		case "ON", "TRUE":
			return true, nil
		case "OFF", "FALSE":
			return false, nil
		}
	}
	return nil, fmt.Errorf("expected bool, got %T", value)
}

// SymbolicType validates tokens of a ConstantDomain axis, optionally
// narrowed to a subset the concrete kind accepts.
type SymbolicType struct {
	axis   constants.Axis
	subset []domain.Symbol
}

func (t *SymbolicType) Name() string { return "symbol:" + string(t.axis) }

// Axis returns the constant axis of the type.
func (t *SymbolicType) Axis() constants.Axis { return t.axis }

func (t *SymbolicType) Validate(value any) error {
	_, err := t.Coerce(value)
	return err
}

func (t *SymbolicType) Coerce(value any) (any, error) {
	var sym domain.Symbol
	switch v := value.(type) {
	case domain.Symbol:
		sym = v
	case string:
		sym = domain.Symbol(v)
	default:
		return nil, fmt.Errorf("expected symbolic constant, got %T", value)
	}
	if _, err := constants.Validate(t.axis, sym); err != nil {
		return nil, err
	}
	if len(t.subset) > 0 && !containsSymbol(t.subset, sym) {
		legal := make([]string, len(t.subset))
		for i, s := range t.subset {
			legal[i] = string(s)
		}
		return nil, &domain.RangeError{Axis: string(t.axis), Value: sym, Legal: legal}
	}
	return sym, nil
}

// RefType validates a named foreign key into another repository.
// Existence is checked by the caller's resolver, not here.
type RefType struct {
	target string
}

func (t *RefType) Name() string { return "ref:" + t.target }

// Target returns the repository the reference points into.
func (t *RefType) Target() string { return t.target }

func (t *RefType) Validate(value any) error {
	_, err := t.Coerce(value)
	return err
}

func (t *RefType) Coerce(value any) (any, error) {
	s, ok := value.(string)
	if !ok {
		return nil, fmt.Errorf("expected %s name, got %T", t.target, value)
	}
	if strings.TrimSpace(s) == "" {
		return nil, fmt.Errorf("empty %s reference", t.target)
	}
	return s, nil
}

// RegionType validates region selectors.
type RegionType struct{}

func (t *RegionType) Name() string { return "region" }

func (t *RegionType) Validate(value any) error {
	_, err := t.Coerce(value)
	return err
}

func (t *RegionType) Coerce(value any) (any, error) {
	switch v := value.(type) {
	case domain.Region:
		return v, nil
	case *domain.Region:
		if v == nil {
			return domain.Region{}, nil
		}
		return *v, nil
	case map[string]any:
		var r domain.Region
		dec, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
			Result:      &r,
			ErrorUnused: true,
		})
		if err != nil {
			return nil, err
		}
		if err := dec.Decode(v); err != nil {
			return nil, fmt.Errorf("invalid region: %w", err)
		}
		if r.Set != "" && r.Surface != "" {
			return nil, fmt.Errorf("region selects both set %q and surface %q", r.Set, r.Surface)
		}
		return r, nil
	}
	return nil, fmt.Errorf("expected region, got %T", value)
}

// TableType validates small numeric tables with a fixed column count.
type TableType struct {
	columns int
}

func (t *TableType) Name() string { return fmt.Sprintf("table:%d", t.columns) }

func (t *TableType) Validate(value any) error {
	_, err := t.Coerce(value)
	return err
}

func (t *TableType) Coerce(value any) (any, error) {
	var rows []any
	switch v := value.(type) {
	case domain.Table:
		rows = make([]any, len(v))
		for i, r := range v {
			rows[i] = r
		}
	case [][]float64:
		rows = make([]any, len(v))
		for i, r := range v {
			rows[i] = r
		}
	case []any:
		rows = v
	default:
		return nil, fmt.Errorf("expected table, got %T", value)
	}

	out := make(domain.Table, len(rows))
	for i, r := range rows {
		row, err := toFloats(r)
		if err != nil {
			return nil, fmt.Errorf("row %d: %w", i, err)
		}
		if len(row) != t.columns {
			return nil, fmt.Errorf("row %d: expected %d columns, got %d", i, t.columns, len(row))
		}
		out[i] = row
	}
	return out, nil
}

// VectorType validates fixed-length float tuples (directions, axes).
type VectorType struct {
	size int
}

func (t *VectorType) Name() string { return fmt.Sprintf("vector:%d", t.size) }

func (t *VectorType) Validate(value any) error {
	_, err := t.Coerce(value)
	return err
}

func (t *VectorType) Coerce(value any) (any, error) {
	v, err := toFloats(value)
	if err != nil {
		return nil, err
	}
	if len(v) != t.size {
		return nil, fmt.Errorf("expected %d components, got %d", t.size, len(v))
	}
	return v, nil
}

// CustomType applies a user-defined validation function.
type CustomType struct {
	name     string
	validate func(any) error
}

func (t *CustomType) Name() string { return t.name }

func (t *CustomType) Validate(value any) error {
	return t.validate(value)
}

func (t *CustomType) Coerce(value any) (any, error) {
	if err := t.validate(value); err != nil {
		return nil, err
	}
	return value, nil
}

// --- Factory Functions ---

// String creates a string type validator.
func String() Type { return &StringType{} }

// Int creates an integer type validator.
func Int() Type { return &IntType{} }

// Float creates a float type validator.
func Float() Type { return &FloatType{} }

// FloatRange creates a float validator rejecting values outside [min, max] with a RangeError.
func FloatRange(min, max float64) Type {
	return &FloatType{min: min, max: max, bounded: true}
}

// NonNegative accepts floats >= 0.
func NonNegative() Type { return FloatRange(0, math.Inf(1)) }

// Bool creates a boolean type validator.
func Bool() Type { return &BoolType{} }

// Symbolic creates a validator for tokens of axis. When subset is given,
// only those tokens are accepted by this field.
func Symbolic(axis constants.Axis, subset ...domain.Symbol) Type {
	return &SymbolicType{axis: axis, subset: subset}
}

// Ref creates a named foreign key into the target repository.
func Ref(target string) Type { return &RefType{target: target} }

// Region creates a region selector validator.
func Region() Type { return &RegionType{} }

// Table creates a numeric table validator with the given column count.
func Table(columns int) Type { return &TableType{columns: columns} }

// Vector creates a fixed-length float tuple validator.
func Vector(size int) Type { return &VectorType{size: size} }

// Custom creates a custom type validator with a user-defined function.
func Custom(name string, validate func(any) error) Type {
	return &CustomType{name: name, validate: validate}
}

// --- helpers ---

func toFloat(value any) (float64, error) {
	switch v := value.(type) {
	case float64:
		return v, nil
	case float32:
		return float64(v), nil
	case int:
		return float64(v), nil
	case int8:
		return float64(v), nil
	case int16:
		return float64(v), nil
	case int32:
		return float64(v), nil
	case int64:
		return float64(v), nil
	case json.Number:
		return v.Float64()
	}
	return 0, fmt.Errorf("expected number, got %T", value)
}

func toFloats(value any) ([]float64, error) {
	switch v := value.(type) {
	case []float64:
		out := make([]float64, len(v))
		copy(out, v)
		return out, nil
	case []any:
		out := make([]float64, len(v))
		for i, e := range v {
			f, err := toFloat(e)
			if err != nil {
				return nil, fmt.Errorf("element %d: %w", i, err)
			}
			out[i] = f
		}
		return out, nil
	}
	return nil, fmt.Errorf("expected list of numbers, got %T", value)
}

func containsSymbol(list []domain.Symbol, s domain.Symbol) bool {
	for _, e := range list {
		if e == s {
			return true
		}
	}
	return false
}
