// Package dto holds the JSON views shared by the HTTP, MCP and CLI outputs.
package dto

import (
	"github.com/aretw0/stepwise/pkg/domain"
	"github.com/aretw0/stepwise/pkg/entity"
	"github.com/aretw0/stepwise/pkg/model"
	"github.com/aretw0/stepwise/pkg/schema"
)

// StepView is one step of the sequence.
type StepView struct {
	Name      string        `json:"name"`
	Procedure domain.Symbol `json:"procedure"`
}

// StepStatus is the object status of an entity in one step.
type StepStatus struct {
	Step   string        `json:"step"`
	Status domain.Status `json:"status"`
}

// EntitySummary identifies an entity and lists its status per step.
type EntitySummary struct {
	Repository string       `json:"repository"`
	Key        string       `json:"key"`
	Kind       string       `json:"kind"`
	CreateStep string       `json:"create_step"`
	Statuses   []StepStatus `json:"statuses"`
}

// EntityDetail adds the definition, call history and derived states.
type EntityDetail struct {
	EntitySummary
	Definition domain.Values      `json:"definition"`
	Ops        []domain.Op        `json:"ops,omitempty"`
	States     []domain.StepState `json:"states"`
}

// ReferenceView names a foreign-key target.
type ReferenceView struct {
	Repository string `json:"repository"`
	Name       string `json:"name"`
}

// ModelView summarizes a model.
type ModelView struct {
	Name       string          `json:"name"`
	Steps      []StepView      `json:"steps"`
	References []ReferenceView `json:"references,omitempty"`
	Entities   []EntitySummary `json:"entities"`
}

// FieldView describes one field of a kind.
type FieldView struct {
	Name       string `json:"name"`
	Type       string `json:"type"`
	Mutability string `json:"mutability"`
	Required   bool   `json:"required,omitempty"`
	Default    any    `json:"default,omitempty"`
}

// KindView describes a registered kind.
type KindView struct {
	Name          string          `json:"name"`
	Family        schema.Family   `json:"family"`
	Fields        []FieldView     `json:"fields"`
	Procedures    []domain.Symbol `json:"procedures,omitempty"`
	Amendable     bool            `json:"amendable"`
	Reactivatable bool            `json:"reactivatable"`
}

// NewModelView builds the summary of m.
func NewModelView(m *model.Model) ModelView {
	steps := m.Steps()
	v := ModelView{
		Name:     m.Name(),
		Steps:    make([]StepView, len(steps)),
		Entities: []EntitySummary{},
	}
	for i, st := range steps {
		v.Steps[i] = StepView{Name: st.Name, Procedure: st.Procedure}
	}
	for _, a := range m.Amplitudes.Values() {
		v.References = append(v.References, ReferenceView{Repository: m.Amplitudes.Scope(), Name: a.Name})
	}
	for _, p := range m.InteractionProperties.Values() {
		v.References = append(v.References, ReferenceView{Repository: m.InteractionProperties.Scope(), Name: p.Name})
	}
	for e := range m.All() {
		v.Entities = append(v.Entities, NewEntitySummary(e, steps))
	}
	return v
}

// NewEntitySummary lists the status of e in every step of steps.
func NewEntitySummary(e *entity.Entity, steps []domain.Step) EntitySummary {
	s := EntitySummary{
		Repository: e.Scope(),
		Key:        e.Key(),
		Kind:       e.Kind().Name,
		CreateStep: e.CreateStep(),
		Statuses:   make([]StepStatus, len(steps)),
	}
	for i, st := range steps {
		s.Statuses[i] = StepStatus{Step: st.Name, Status: e.Status(st.Name)}
	}
	return s
}

// NewEntityDetail builds the full view of e.
func NewEntityDetail(e *entity.Entity, steps []domain.Step) EntityDetail {
	return EntityDetail{
		EntitySummary: NewEntitySummary(e, steps),
		Definition:    e.Definition(),
		Ops:           e.Ops(),
		States:        e.States(),
	}
}

// NewKindView describes k.
func NewKindView(k *schema.Kind) KindView {
	v := KindView{
		Name:          k.Name,
		Family:        k.Family,
		Fields:        make([]FieldView, len(k.Fields)),
		Procedures:    k.Procedures,
		Amendable:     k.Amend == schema.AmendAllowed,
		Reactivatable: k.Reactivatable,
	}
	for i, f := range k.Fields {
		v.Fields[i] = FieldView{
			Name:       f.Name,
			Type:       f.Type.Name(),
			Mutability: f.Mutability.String(),
			Required:   f.Required,
			Default:    f.Default,
		}
	}
	return v
}

// NewKindViews describes every kind of kinds.
func NewKindViews(kinds []*schema.Kind) []KindView {
	out := make([]KindView, len(kinds))
	for i, k := range kinds {
		out[i] = NewKindView(k)
	}
	return out
}
