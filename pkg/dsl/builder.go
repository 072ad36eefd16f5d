package dsl

import (
	"errors"
	"fmt"
	"slices"

	"github.com/aretw0/stepwise/pkg/constants"
	"github.com/aretw0/stepwise/pkg/domain"
	"github.com/aretw0/stepwise/pkg/schema"
)

// KindBuilder manages the construction of one kind declaration.
type KindBuilder struct {
	kind schema.Kind
	refs [][2]string // constraint field pairs, checked on Build
	errs []error
}

// Kind starts a new kind declaration.
func Kind(name string, family schema.Family) *KindBuilder {
	return &KindBuilder{
		kind: schema.Kind{Name: name, Family: family},
	}
}

// FieldBuilder refines the most recently added field. Kind-level methods
// remain available through the embedded builder.
type FieldBuilder struct {
	*KindBuilder
	index int
}

// Creation adds a creation-only field.
func (b *KindBuilder) Creation(name string, t schema.Type) *FieldBuilder {
	return b.add(name, t, schema.CreationOnly)
}

// Propagating adds a field that can be amended per step.
func (b *KindBuilder) Propagating(name string, t schema.Type) *FieldBuilder {
	return b.add(name, t, schema.Propagating)
}

func (b *KindBuilder) add(name string, t schema.Type, m schema.Mutability) *FieldBuilder {
	if _, exists := b.kind.Field(name); exists {
		b.errs = append(b.errs, fmt.Errorf("field %q declared twice", name))
	}
	b.kind.Fields = append(b.kind.Fields, schema.Field{Name: name, Type: t, Mutability: m})
	return &FieldBuilder{KindBuilder: b, index: len(b.kind.Fields) - 1}
}

// Default sets the value used when the field is not supplied at creation.
func (f *FieldBuilder) Default(v any) *FieldBuilder {
	f.kind.Fields[f.index].Default = v
	return f
}

// Required rejects definitions where the field is absent or unset.
func (f *FieldBuilder) Required() *FieldBuilder {
	f.kind.Fields[f.index].Required = true
	return f
}

// Freeable accepts the Freed sentinel in step amendments.
func (f *FieldBuilder) Freeable() *FieldBuilder {
	f.kind.Fields[f.index].Freeable = true
	return f
}

// Computable accepts the Computed sentinel in step amendments.
func (f *FieldBuilder) Computable() *FieldBuilder {
	f.kind.Fields[f.index].Computable = true
	return f
}

// OnlyWhen declares that field is meaningful only when other is one of allowed.
func (b *KindBuilder) OnlyWhen(field, other string, allowed ...domain.Symbol) *KindBuilder {
	b.refs = append(b.refs, [2]string{field, other})
	b.kind.Constraints = append(b.kind.Constraints, schema.OnlyWhen(field, other, allowed...))
	return b
}

// RequiredWhen declares that field must be set when other is one of when.
func (b *KindBuilder) RequiredWhen(field, other string, when ...domain.Symbol) *KindBuilder {
	b.refs = append(b.refs, [2]string{field, other})
	b.kind.Constraints = append(b.kind.Constraints, schema.RequiredWhen(field, other, when...))
	return b
}

// Rule adds an arbitrary cross-field check.
func (b *KindBuilder) Rule(name string, check func(domain.Values) error) *KindBuilder {
	b.kind.Constraints = append(b.kind.Constraints, schema.Rule(name, check))
	return b
}

// Statuses declares the legal object statuses.
func (b *KindBuilder) Statuses(statuses ...domain.Status) *KindBuilder {
	b.kind.Statuses = append(b.kind.Statuses, statuses...)
	return b
}

// Procedures restricts the step procedures the kind applies to.
func (b *KindBuilder) Procedures(procs ...domain.Symbol) *KindBuilder {
	b.kind.Procedures = append(b.kind.Procedures, procs...)
	return b
}

// CreateIn restricts the procedures of steps the kind can be created in.
func (b *KindBuilder) CreateIn(procs ...domain.Symbol) *KindBuilder {
	b.kind.CreateIn = append(b.kind.CreateIn, procs...)
	return b
}

// RedefineAnyStep allows whole-object redefinition from any step context.
func (b *KindBuilder) RedefineAnyStep() *KindBuilder {
	b.kind.Redefine = schema.RedefineAnyStep
	return b
}

// ForbidAmend makes every step amendment fail with reason.
func (b *KindBuilder) ForbidAmend(reason string) *KindBuilder {
	b.kind.Amend = schema.AmendForbidden
	b.kind.AmendReason = reason
	return b
}

// Reactivatable allows reactivation after deactivation.
func (b *KindBuilder) Reactivatable() *KindBuilder {
	b.kind.Reactivatable = true
	return b
}

// Build validates and returns the declaration.
func (b *KindBuilder) Build() (*schema.Kind, error) {
	errs := slices.Clone(b.errs)
	k := b.kind
	k.Fields = slices.Clone(b.kind.Fields)
	k.Constraints = slices.Clone(b.kind.Constraints)

	if k.Name == "" {
		errs = append(errs, errors.New("kind name is empty"))
	}
	if !slices.Contains(schema.Families, k.Family) {
		errs = append(errs, fmt.Errorf("unknown family %q", k.Family))
	}

	for i, f := range k.Fields {
		if f.Type == nil {
			errs = append(errs, fmt.Errorf("field %q has no type", f.Name))
			continue
		}
		if f.Default != nil {
			v, err := f.Type.Coerce(f.Default)
			if err != nil {
				errs = append(errs, fmt.Errorf("field %q: default: %w", f.Name, err))
				continue
			}
			k.Fields[i].Default = v
		}
		if (f.Freeable || f.Computable) && f.Mutability != schema.Propagating {
			errs = append(errs, fmt.Errorf("field %q: only propagating fields accept sentinels", f.Name))
		}
	}

	for _, pair := range b.refs {
		for _, name := range pair {
			if _, ok := k.Field(name); !ok {
				errs = append(errs, fmt.Errorf("constraint references undeclared field %q", name))
			}
		}
	}

	for _, s := range k.Statuses {
		if _, err := constants.Validate(constants.AxisStatus, domain.Symbol(s)); err != nil {
			errs = append(errs, err)
		}
	}
	for _, required := range []domain.Status{domain.StatusCreated, domain.StatusPropagated} {
		if !k.Allows(required) {
			errs = append(errs, fmt.Errorf("status %s must be legal for every kind", required))
		}
	}
	if k.Reactivatable && !k.Allows(domain.StatusDeactivated) {
		errs = append(errs, errors.New("reactivatable kinds must allow DEACTIVATED"))
	}

	for _, p := range slices.Concat(k.Procedures, k.CreateIn) {
		if _, err := constants.Validate(constants.AxisProcedure, p); err != nil {
			errs = append(errs, err)
		}
	}

	if len(errs) > 0 {
		return nil, fmt.Errorf("kind %s: %w", k.Name, errors.Join(errs...))
	}
	return &k, nil
}

// MustBuild is like Build but panics on error. It is meant for static catalogs.
func (b *KindBuilder) MustBuild() *schema.Kind {
	k, err := b.Build()
	if err != nil {
		panic(err)
	}
	return k
}
