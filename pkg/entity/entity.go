// Package entity implements step-scoped entities: whole-object redefinition,
// step amendments and the explicit status operations. Every mutation is
// validated in full and re-derived before it is committed, so a failed call
// leaves the entity untouched.
package entity

import (
	"fmt"
	"slices"

	"github.com/aretw0/stepwise/internal/propagation"
	"github.com/aretw0/stepwise/pkg/domain"
	"github.com/aretw0/stepwise/pkg/schema"
)

// RefResolver checks that a named foreign key exists in its target repository.
type RefResolver interface {
	Resolve(target, name string) error
}

// Context is the explicit model handle every entity operates against.
type Context struct {
	Steps domain.StepOrder
	// Refs is optional; references are only checked when it is set.
	Refs RefResolver
}

// Entity is one user-created object of a kind, scoped to a repository.
type Entity struct {
	scope      string
	key        string
	kind       *schema.Kind
	createStep string
	ctx        Context

	definition domain.Values
	ops        []domain.Op
	states     []domain.StepState
}

// New validates values against kind and creates an entity in createStep.
// Fields not supplied take the kind's defaults; fields without a default
// stay unset.
func New(ctx Context, scope, key string, kind *schema.Kind, createStep string, values domain.Values) (*Entity, error) {
	if kind == nil {
		return nil, domain.NewValueError("create", key, "no kind")
	}
	return newEntity(ctx, scope, key, kind, createStep, kind.Defaults(), values)
}

// newEntity builds the definition by overlaying values on base.
func newEntity(ctx Context, scope, key string, kind *schema.Kind, createStep string, base, values domain.Values) (*Entity, error) {
	idx := ctx.Steps.Index(createStep)
	if idx < 0 {
		return nil, domain.NewValueError("create", createStep, "step does not exist")
	}
	proc := ctx.Steps.Steps()[idx].Procedure
	if !kind.CanCreateIn(proc) || !kind.AppliesTo(proc) {
		return nil, domain.NewValueError("create", key, "%s cannot be created in a %s step", kind.Name, proc)
	}

	e := &Entity{
		scope:      scope,
		key:        key,
		kind:       kind,
		createStep: createStep,
		ctx:        ctx,
	}
	def, err := e.buildDefinition(base, values)
	if err != nil {
		return nil, err
	}
	states, err := e.derive(def, nil)
	if err != nil {
		return nil, err
	}
	e.definition, e.states = def, states
	return e, nil
}

// Restore rebuilds an entity from its snapshot by replaying the recorded
// history. Decoded JSON/YAML values are coerced back to their field types.
// The stored definition is complete, so kind defaults are not applied again.
func Restore(ctx Context, kind *schema.Kind, snap domain.EntitySnapshot) (*Entity, error) {
	if kind == nil {
		return nil, domain.NewValueError("restore", snap.Key, "no kind")
	}
	e, err := newEntity(ctx, snap.Repository, snap.Key, kind, snap.CreateStep, nil, snap.Definition)
	if err != nil {
		return nil, fmt.Errorf("restore %s/%s: %w", snap.Repository, snap.Key, err)
	}
	ops := make([]domain.Op, 0, len(snap.Ops))
	for _, op := range snap.Ops {
		if op.Kind == domain.OpAmend {
			values, err := kind.CoerceAmendment(op.Values)
			if err != nil {
				return nil, fmt.Errorf("restore %s/%s: %w", snap.Repository, snap.Key, err)
			}
			op.Values = values
		}
		ops = append(ops, op)
	}
	states, err := e.derive(e.definition, ops)
	if err != nil {
		return nil, fmt.Errorf("restore %s/%s: %w", snap.Repository, snap.Key, err)
	}
	e.ops, e.states = ops, states
	return e, nil
}

// Key returns the identity key within the repository.
func (e *Entity) Key() string { return e.key }

// Scope returns the name of the owning repository.
func (e *Entity) Scope() string { return e.scope }

// Kind returns the kind declaration.
func (e *Entity) Kind() *schema.Kind { return e.kind }

// CreateStep returns the step the entity was created in.
func (e *Entity) CreateStep() string { return e.createStep }

// Context returns the model handle the entity operates against.
func (e *Entity) Context() Context { return e.ctx }

// Released reports whether the entity was deleted from its repository.
// A released entity has no StepStates and rejects every further call.
func (e *Entity) Released() bool { return e.states == nil }

// Definition returns a copy of the creation definition.
func (e *Entity) Definition() domain.Values { return e.definition.Clone() }

// Ops returns a copy of the recorded call history.
func (e *Entity) Ops() []domain.Op {
	out := make([]domain.Op, len(e.ops))
	for i, op := range e.ops {
		out[i] = op.Clone()
	}
	return out
}

// States returns a copy of the derived StepState sequence, starting at the
// creation step.
func (e *Entity) States() []domain.StepState {
	out := make([]domain.StepState, len(e.states))
	for i, s := range e.states {
		out[i] = s.Clone()
	}
	return out
}

// StateAt returns the StepState of step. It reports false for steps before
// creation.
func (e *Entity) StateAt(step string) (domain.StepState, bool) {
	for _, s := range e.states {
		if s.Step == step {
			return s.Clone(), true
		}
	}
	return domain.StepState{}, false
}

// Status returns the object status in step; NOT_YET_ACTIVE before creation.
func (e *Entity) Status(step string) domain.Status {
	return propagation.Status(e.states, step)
}

// Value returns the effective value of field in step. Creation-only fields
// read from the definition.
func (e *Entity) Value(step, field string) any {
	if f, ok := e.kind.Field(field); ok && f.Mutability == schema.CreationOnly {
		return domain.CloneValue(e.definition[field])
	}
	st, ok := e.StateAt(step)
	if !ok {
		return nil
	}
	return st.Value(field)
}

// Redefine replaces fields of the creation definition. Supplied fields
// overwrite, omitted fields keep their values and an explicit nil clears an
// optional field. contextStep is the step the call is issued from; kinds
// with a creation-step-only policy reject any other step.
func (e *Entity) Redefine(contextStep string, values domain.Values) error {
	const op = "redefine"
	if err := e.live(); err != nil {
		return err
	}
	idx := e.ctx.Steps.Index(contextStep)
	switch {
	case idx < 0:
		return domain.NewValueError(op, contextStep, "step does not exist")
	case idx < e.ctx.Steps.Index(e.createStep):
		return domain.NewValueError(op, contextStep, "step precedes creation step %s", e.createStep)
	case e.kind.Redefine == schema.RedefineCreationStepOnly && contextStep != e.createStep:
		return domain.NewValueError(op, e.key, "%s can only be redefined in its creation step %s", e.kind.Name, e.createStep)
	}

	def, err := e.buildDefinition(e.definition, values)
	if err != nil {
		return err
	}
	states, err := e.derive(def, e.ops)
	if err != nil {
		return err
	}
	e.definition, e.states = def, states
	return nil
}

// AmendInStep changes propagating fields from step forward. Each value is a
// literal or one of the Unchanged, Freed and Computed sentinels. All fields
// are validated before any is applied.
func (e *Entity) AmendInStep(step string, values domain.Values) error {
	const op = "amendInStep"
	if err := e.checkStep(op, step); err != nil {
		return err
	}
	if e.kind.Amend == schema.AmendForbidden {
		return domain.NewValueError(op, e.key, "%s", e.kind.AmendReason)
	}
	coerced, err := e.kind.CoerceAmendment(values)
	if err != nil {
		return err
	}
	if err := e.resolveRefs(coerced); err != nil {
		return err
	}
	return e.record(domain.Op{Kind: domain.OpAmend, Step: step, Values: coerced})
}

// Deactivate suppresses the entity from step forward.
func (e *Entity) Deactivate(step string) error { return e.call(domain.OpDeactivate, step) }

// DeactivateToInitial suppresses the entity from step forward and reverts its
// values to the creation definition.
func (e *Entity) DeactivateToInitial(step string) error {
	return e.call(domain.OpDeactivateToInitial, step)
}

// Reactivate restores a deactivated entity in step, for kinds that allow it.
func (e *Entity) Reactivate(step string) error { return e.call(domain.OpReactivate, step) }

// Reset reverts propagating values to the creation definition in step.
func (e *Entity) Reset(step string) error { return e.call(domain.OpReset, step) }

// Compute defers the entity to a solver-computed result from step forward.
func (e *Entity) Compute(step string) error { return e.call(domain.OpCompute, step) }

// BuildIntoBase folds the entity into the base state; it accepts no further calls.
func (e *Entity) BuildIntoBase(step string) error { return e.call(domain.OpBuildIntoBase, step) }

// Retire marks the entity no longer active; it cannot be reactivated.
func (e *Entity) Retire(step string) error { return e.call(domain.OpRetire, step) }

// MarkNotApplicable marks the entity not applicable in step only.
func (e *Entity) MarkNotApplicable(step string) error {
	return e.call(domain.OpNotApplicable, step)
}

// Apply dispatches a recorded operation. Amendment values are validated as
// by AmendInStep.
func (e *Entity) Apply(op domain.Op) error {
	if op.Kind == domain.OpAmend {
		return e.AmendInStep(op.Step, op.Values)
	}
	if !slices.Contains(domain.OpKinds, op.Kind) {
		return domain.NewValueError(string(op.Kind), e.key, "unknown operation")
	}
	return e.call(op.Kind, op.Step)
}

// Refresh re-derives the states after the step sequence changed.
func (e *Entity) Refresh() error {
	if err := e.live(); err != nil {
		return err
	}
	states, err := e.derive(e.definition, e.ops)
	if err != nil {
		return err
	}
	e.states = states
	return nil
}

// Release drops the derived states. It is the delete cascade.
func (e *Entity) Release() {
	e.states = nil
}

// Snapshot captures the entity for persistence.
func (e *Entity) Snapshot() domain.EntitySnapshot {
	return domain.EntitySnapshot{
		Repository: e.scope,
		Key:        e.key,
		Kind:       e.kind.Name,
		CreateStep: e.createStep,
		Definition: e.Definition(),
		Ops:        e.Ops(),
		States:     e.States(),
	}
}

// Targets reports whether the entity was created in step or has a recorded
// call on it.
func (e *Entity) Targets(step string) bool {
	if e.createStep == step {
		return true
	}
	return slices.ContainsFunc(e.ops, func(op domain.Op) bool { return op.Step == step })
}

func (e *Entity) call(kind domain.OpKind, step string) error {
	if err := e.checkStep(string(kind), step); err != nil {
		return err
	}
	return e.record(domain.Op{Kind: kind, Step: step})
}

// live fails for released entities: their states are gone with the
// repository entry and must not come back.
func (e *Entity) live() error {
	if e.Released() {
		return &domain.KeyNotFoundError{Scope: e.scope, Key: e.key}
	}
	return nil
}

func (e *Entity) checkStep(op, step string) error {
	if err := e.live(); err != nil {
		return err
	}
	idx := e.ctx.Steps.Index(step)
	if idx < 0 {
		return domain.NewValueError(op, step, "step does not exist")
	}
	if idx < e.ctx.Steps.Index(e.createStep) {
		return domain.NewValueError(op, step, "step precedes creation step %s", e.createStep)
	}
	return nil
}

func (e *Entity) record(op domain.Op) error {
	ops := append(slices.Clip(e.ops), op)
	states, err := e.derive(e.definition, ops)
	if err != nil {
		return err
	}
	e.ops, e.states = ops, states
	return nil
}

func (e *Entity) derive(def domain.Values, ops []domain.Op) ([]domain.StepState, error) {
	return propagation.Derive(propagation.Input{
		Kind:       e.kind,
		Steps:      e.ctx.Steps.Steps(),
		CreateStep: e.createStep,
		Definition: def,
		Ops:        ops,
	})
}

// buildDefinition overlays a coerced patch on base and validates the result.
func (e *Entity) buildDefinition(base, values domain.Values) (domain.Values, error) {
	patch, err := e.kind.CoerceDefinition(values)
	if err != nil {
		return nil, err
	}
	def := base.Merge(patch)
	for k, v := range def {
		if v == nil {
			delete(def, k)
		}
	}
	if err := e.kind.CheckDefinition(def); err != nil {
		return nil, err
	}
	if err := e.resolveRefs(def); err != nil {
		return nil, err
	}
	return def, nil
}

// resolveRefs reports a dangling foreign key as a ValueError wrapping the
// resolver's error, so a KeyNotFoundError cause stays visible to errors.Is.
func (e *Entity) resolveRefs(values domain.Values) error {
	if e.ctx.Refs == nil {
		return nil
	}
	for _, name := range values.Keys() {
		f, ok := e.kind.Field(name)
		if !ok {
			continue
		}
		ref, ok := f.Type.(*schema.RefType)
		if !ok {
			continue
		}
		target, ok := values[name].(string)
		if !ok || target == "" {
			continue
		}
		if err := e.ctx.Refs.Resolve(ref.Target(), target); err != nil {
			return &domain.ValueError{Op: "resolve", Target: name, Reason: err.Error(), Err: err}
		}
	}
	return nil
}
