package schema

import (
	"fmt"
	"strings"

	"github.com/aretw0/stepwise/pkg/domain"
)

// Constraint is a cross-field rule checked on the effective values of an entity.
type Constraint interface {
	Check(values domain.Values) error
	String() string
}

type onlyWhen struct {
	field, other string
	allowed      []domain.Symbol
}

// OnlyWhen declares that field is only meaningful when other holds one of allowed.
func OnlyWhen(field, other string, allowed ...domain.Symbol) Constraint {
	return &onlyWhen{field: field, other: other, allowed: allowed}
}

func (c *onlyWhen) Check(values domain.Values) error {
	if !IsSet(values[c.field]) || matches(values[c.other], c.allowed) {
		return nil
	}
	return &domain.ValueError{Op: "validate", Target: c.field, Reason: c.String()}
}

func (c *onlyWhen) String() string {
	return fmt.Sprintf("%s applies only when %s = %s", c.field, c.other, joinSymbols(c.allowed))
}

type requiredWhen struct {
	field, other string
	when         []domain.Symbol
}

// RequiredWhen declares that field must be set when other holds one of when.
func RequiredWhen(field, other string, when ...domain.Symbol) Constraint {
	return &requiredWhen{field: field, other: other, when: when}
}

func (c *requiredWhen) Check(values domain.Values) error {
	if IsSet(values[c.field]) || !matches(values[c.other], c.when) {
		return nil
	}
	return &domain.ValueError{Op: "validate", Target: c.field, Reason: c.String()}
}

func (c *requiredWhen) String() string {
	return fmt.Sprintf("%s is required when %s = %s", c.field, c.other, joinSymbols(c.when))
}

type rule struct {
	name  string
	check func(domain.Values) error
}

// Rule wraps an arbitrary check. A plain error returned by check becomes a ValueError.
func Rule(name string, check func(domain.Values) error) Constraint {
	return &rule{name: name, check: check}
}

func (r *rule) Check(values domain.Values) error {
	if err := r.check(values); err != nil {
		if _, ok := err.(*domain.ValueError); ok {
			return err
		}
		return &domain.ValueError{Op: "validate", Target: r.name, Reason: err.Error()}
	}
	return nil
}

func (r *rule) String() string { return r.name }

// IsSet reports whether a value counts as present: nil, empty strings and
// unset regions do not.
func IsSet(v any) bool {
	switch t := v.(type) {
	case nil:
		return false
	case string:
		return t != ""
	case domain.Symbol:
		return t != ""
	case domain.Region:
		return !t.IsZero()
	case domain.Table:
		return len(t) > 0
	case []float64:
		return len(t) > 0
	}
	return true
}

func matches(v any, set []domain.Symbol) bool {
	if v == nil {
		return false
	}
	s := fmt.Sprint(v)
	for _, want := range set {
		if string(want) == s {
			return true
		}
	}
	return false
}

func joinSymbols(list []domain.Symbol) string {
	parts := make([]string, len(list))
	for i, s := range list {
		parts[i] = string(s)
	}
	return strings.Join(parts, " | ")
}
