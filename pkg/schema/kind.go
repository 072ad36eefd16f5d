package schema

import (
	"slices"

	"github.com/aretw0/stepwise/pkg/domain"
)

// Mutability classifies how a field may be changed after creation.
type Mutability int

const (
	// CreationOnly fields change only through whole-object redefinition.
	CreationOnly Mutability = iota
	// Propagating fields may also be amended per step and carry forward.
	Propagating
)

func (m Mutability) String() string {
	if m == Propagating {
		return "propagating"
	}
	return "creation-only"
}

// Family groups kinds by the model repository that stores them.
type Family string

const (
	FamilyBoundaryCondition Family = "boundaryConditions"
	FamilyLoad              Family = "loads"
	FamilyInteraction       Family = "interactions"
	FamilyPredefinedField   Family = "predefinedFields"
)

// Families lists the entity repositories of a model in display order.
var Families = []Family{
	FamilyBoundaryCondition,
	FamilyLoad,
	FamilyInteraction,
	FamilyPredefinedField,
}

// RedefinePolicy decides where whole-object redefinition may be invoked from.
type RedefinePolicy int

const (
	// RedefineCreationStepOnly rejects redefinition from any step but the creation step.
	RedefineCreationStepOnly RedefinePolicy = iota
	// RedefineAnyStep accepts redefinition from any step; it still edits the creation definition.
	RedefineAnyStep
)

// AmendPolicy decides whether step-scoped amendment exists for a kind.
type AmendPolicy int

const (
	AmendAllowed AmendPolicy = iota
	AmendForbidden
)

// Field declares one attribute of a kind.
type Field struct {
	Name       string
	Type       Type
	Mutability Mutability
	Default    any
	Required   bool
	Freeable   bool // accepts the Freed sentinel
	Computable bool // accepts the Computed sentinel
}

// Kind is the static declaration of an entity kind.
type Kind struct {
	Name        string
	Family      Family
	Fields      []Field
	Constraints []Constraint

	// Statuses is the legal subset of object statuses.
	Statuses []domain.Status
	// Procedures lists the step procedures the kind applies to; empty means all.
	Procedures []domain.Symbol
	// CreateIn lists the procedures of steps the kind may be created in; empty means all.
	CreateIn []domain.Symbol

	Redefine      RedefinePolicy
	Amend         AmendPolicy
	AmendReason   string
	Reactivatable bool
}

// Field returns the declaration of name.
func (k *Kind) Field(name string) (Field, bool) {
	for _, f := range k.Fields {
		if f.Name == name {
			return f, true
		}
	}
	return Field{}, false
}

// Allows reports whether status belongs to the kind's legal subset.
func (k *Kind) Allows(status domain.Status) bool {
	return slices.Contains(k.Statuses, status)
}

// AppliesTo reports whether the kind is meaningful in a step of procedure p.
func (k *Kind) AppliesTo(p domain.Symbol) bool {
	return len(k.Procedures) == 0 || slices.Contains(k.Procedures, p)
}

// CanCreateIn reports whether an entity may be created in a step of procedure p.
func (k *Kind) CanCreateIn(p domain.Symbol) bool {
	return len(k.CreateIn) == 0 || slices.Contains(k.CreateIn, p)
}

// PropagatingFields returns the propagating fields in declaration order.
func (k *Kind) PropagatingFields() []Field {
	var out []Field
	for _, f := range k.Fields {
		if f.Mutability == Propagating {
			out = append(out, f)
		}
	}
	return out
}

// Defaults returns a fresh copy of the declared default values.
// Fields without a default are absent, never shared.
func (k *Kind) Defaults() domain.Values {
	out := make(domain.Values)
	for _, f := range k.Fields {
		if f.Default != nil {
			out[f.Name] = domain.CloneValue(f.Default)
		}
	}
	return out
}
