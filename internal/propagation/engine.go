// Package propagation derives the per-step states of an entity from its
// creation definition and its recorded call history.
//
// Derive is pure: the same input always yields the same sequence, which is
// what makes snapshot restore a plain replay.
package propagation

import (
	"github.com/aretw0/stepwise/pkg/domain"
	"github.com/aretw0/stepwise/pkg/schema"
)

// Input is everything the engine needs to derive an entity's states.
// Op values must already be coerced by the kind.
type Input struct {
	Kind       *schema.Kind
	Steps      []domain.Step
	CreateStep string
	Definition domain.Values
	Ops        []domain.Op
}

// lineage is the underlying object status that default transitions carry.
type lineage int

const (
	active lineage = iota
	computed
	suppressed
)

type cursor struct {
	in      Input
	index   int
	status  domain.Status // status shown for the current step
	lineage lineage
	fields  map[string]domain.FieldState
}

// Derive returns one StepState per step from the creation step to the end of
// the sequence. Steps before creation have no state.
func Derive(in Input) ([]domain.StepState, error) {
	if in.Kind == nil {
		return nil, domain.NewValueError("derive", "", "no kind")
	}
	start := indexOf(in.Steps, in.CreateStep)
	if start < 0 {
		return nil, domain.NewValueError("create", in.CreateStep, "step does not exist")
	}

	byStep, err := groupOps(in, start)
	if err != nil {
		return nil, err
	}

	c := &cursor{
		in:     in,
		index:  start,
		status: domain.StatusCreated,
		fields: initialFields(in.Kind, in.Definition),
	}
	out := make([]domain.StepState, 0, len(in.Steps)-start)

	for i := start; i < len(in.Steps); i++ {
		c.index = i
		if i > start {
			c.advance()
		}
		for _, op := range byStep[i] {
			if err := c.apply(op); err != nil {
				return nil, err
			}
		}
		out = append(out, c.snapshot())
	}
	return out, nil
}

// Status reports the object status of step in states, NOT_YET_ACTIVE when the
// step precedes creation or is unknown.
func Status(states []domain.StepState, step string) domain.Status {
	for _, s := range states {
		if s.Step == step {
			return s.Status
		}
	}
	return domain.StatusNotYetActive
}

func groupOps(in Input, start int) (map[int][]domain.Op, error) {
	byStep := make(map[int][]domain.Op)
	prev := start
	for _, op := range in.Ops {
		idx := indexOf(in.Steps, op.Step)
		switch {
		case idx < 0:
			return nil, domain.NewValueError(string(op.Kind), op.Step, "step does not exist")
		case idx < start:
			return nil, domain.NewValueError(string(op.Kind), op.Step, "step precedes creation step %s", in.CreateStep)
		case idx < prev:
			return nil, domain.NewValueError(string(op.Kind), op.Step, "step precedes %s, already targeted by an earlier call", in.Steps[prev].Name)
		case idx == start && op.Kind != domain.OpAmend:
			return nil, domain.NewValueError(string(op.Kind), op.Step, "only amendments may target the creation step")
		}
		byStep[idx] = append(byStep[idx], op)
		prev = idx
	}
	return byStep, nil
}

// advance applies the default transition into the next step.
func (c *cursor) advance() {
	switch {
	case c.lineage == suppressed:
		// sticky: the last suppressing status stays
	case c.lineage == computed && c.in.Kind.Allows(domain.StatusPropagatedFromComputed):
		c.status = domain.StatusPropagatedFromComputed
	default:
		c.status = domain.StatusPropagated
	}

	for name, fs := range c.fields {
		if fs.Status == domain.FieldUnset {
			continue
		}
		c.fields[name] = domain.FieldState{Value: fs.Value, Status: domain.FieldPropagated}
	}

	if c.lineage != suppressed && !c.in.Kind.AppliesTo(c.step().Procedure) && c.in.Kind.Allows(domain.StatusTypeNotApplicable) {
		c.status = domain.StatusTypeNotApplicable
	}
}

func (c *cursor) apply(op domain.Op) error {
	name := string(op.Kind)
	if c.status.Terminal() {
		return domain.NewValueError(name, op.Step, "entity is %s and accepts no further calls", c.status)
	}
	if p := c.step().Procedure; !c.in.Kind.AppliesTo(p) {
		return domain.NewValueError(name, op.Step, "%s does not apply to %s steps", c.in.Kind.Name, p)
	}

	switch op.Kind {
	case domain.OpAmend:
		return c.amend(op)

	case domain.OpDeactivate:
		if err := c.transition(name, domain.StatusDeactivated, false); err != nil {
			return err
		}
		c.lineage = suppressed

	case domain.OpDeactivateToInitial:
		if err := c.transition(name, domain.StatusDeactivatedToInitial, false); err != nil {
			return err
		}
		c.fields = initialFields(c.in.Kind, c.in.Definition)
		c.lineage = suppressed

	case domain.OpReactivate:
		if !c.in.Kind.Reactivatable {
			return domain.NewValueError(name, op.Step, "%s cannot be reactivated", c.in.Kind.Name)
		}
		if c.lineage != suppressed {
			return domain.NewValueError(name, op.Step, "entity is %s, not deactivated", c.status)
		}
		if err := c.require(name, domain.StatusModified); err != nil {
			return err
		}
		c.status = domain.StatusModified
		c.lineage = active

	case domain.OpReset:
		if err := c.transition(name, domain.StatusResetToInitial, false); err != nil {
			return err
		}
		c.fields = initialFields(c.in.Kind, c.in.Definition)
		c.lineage = active

	case domain.OpCompute:
		if err := c.transition(name, domain.StatusToBeComputed, false); err != nil {
			return err
		}
		c.lineage = computed

	case domain.OpBuildIntoBase:
		if err := c.transition(name, domain.StatusBuiltIntoBaseState, false); err != nil {
			return err
		}
		c.lineage = suppressed

	case domain.OpRetire:
		if err := c.transition(name, domain.StatusNoLongerActive, true); err != nil {
			return err
		}
		c.lineage = suppressed

	case domain.OpNotApplicable:
		// an overlay for this step only; the lineage is untouched
		if err := c.transition(name, domain.StatusInstanceNotApplicable, false); err != nil {
			return err
		}

	default:
		return domain.NewValueError(name, op.Step, "unknown operation")
	}
	return nil
}

// transition moves the object to status. Suppressed entities only accept it
// when fromSuppressed is set.
func (c *cursor) transition(op string, status domain.Status, fromSuppressed bool) error {
	if c.lineage == suppressed && !fromSuppressed {
		return domain.NewValueError(op, c.step().Name, "entity is %s", c.status)
	}
	if err := c.require(op, status); err != nil {
		return err
	}
	c.status = status
	return nil
}

func (c *cursor) require(op string, status domain.Status) error {
	if !c.in.Kind.Allows(status) {
		return domain.NewValueError(op, c.step().Name, "status %s is not legal for %s", status, c.in.Kind.Name)
	}
	return nil
}

func (c *cursor) amend(op domain.Op) error {
	atCreation := c.status == domain.StatusCreated
	if c.lineage == suppressed {
		return domain.NewValueError("amend", op.Step, "entity is %s", c.status)
	}

	next := make(map[string]domain.FieldState, len(c.fields))
	for k, v := range c.fields {
		next[k] = v
	}

	changed := false
	for _, name := range op.Values.Keys() {
		if _, ok := next[name]; !ok {
			return domain.NewValueError("amend", name, "not a propagating field of %s", c.in.Kind.Name)
		}
		value := op.Values[name]
		s, isSentinel := domain.IsSentinel(value)
		switch {
		case !isSentinel && atCreation:
			next[name] = domain.FieldState{Value: domain.CloneValue(value), Status: domain.FieldSet}
		case !isSentinel:
			next[name] = domain.FieldState{Value: domain.CloneValue(value), Status: domain.FieldModified}
			changed = true
		case s == domain.Unchanged:
			if atCreation {
				return domain.NewValueError("amend", name, "nothing to inherit in the creation step")
			}
			next[name] = domain.FieldState{Value: next[name].Value, Status: domain.FieldPropagated}
		case s == domain.Freed && atCreation:
			next[name] = domain.FieldState{Status: domain.FieldUnset}
		case s == domain.Freed:
			next[name] = domain.FieldState{Status: domain.FieldFreed}
			changed = true
		case s == domain.Computed:
			next[name] = domain.FieldState{Status: domain.FieldComputed}
			if !atCreation {
				changed = true
			}
		}
	}

	if err := c.in.Kind.CheckConstraints(effective(c.in.Definition, next)); err != nil {
		return err
	}

	c.fields = next
	switch {
	case atCreation:
	case changed:
		if err := c.require("amend", domain.StatusModified); err != nil {
			return err
		}
		c.status = domain.StatusModified
		c.lineage = active
	case c.status == domain.StatusInstanceNotApplicable:
		c.status = domain.StatusPropagated
	}
	return nil
}

func (c *cursor) step() domain.Step {
	return c.in.Steps[c.index]
}

func (c *cursor) snapshot() domain.StepState {
	st := domain.StepState{Step: c.step().Name, Status: c.status}
	if len(c.fields) > 0 {
		st.Fields = make(map[string]domain.FieldState, len(c.fields))
		for k, fs := range c.fields {
			st.Fields[k] = domain.FieldState{Value: domain.CloneValue(fs.Value), Status: fs.Status}
		}
	}
	return st
}

func initialFields(k *schema.Kind, def domain.Values) map[string]domain.FieldState {
	out := make(map[string]domain.FieldState)
	for _, f := range k.PropagatingFields() {
		v := def[f.Name]
		if schema.IsSet(v) {
			out[f.Name] = domain.FieldState{Value: domain.CloneValue(v), Status: domain.FieldSet}
		} else {
			out[f.Name] = domain.FieldState{Status: domain.FieldUnset}
		}
	}
	return out
}

// effective overlays the current propagating values on the definition.
func effective(def domain.Values, fields map[string]domain.FieldState) domain.Values {
	out := def.Clone()
	if out == nil {
		out = make(domain.Values, len(fields))
	}
	for k, fs := range fields {
		out[k] = fs.Value
	}
	return out
}

func indexOf(steps []domain.Step, name string) int {
	for i, s := range steps {
		if s.Name == name {
			return i
		}
	}
	return -1
}
