package model

import (
	"fmt"

	"github.com/aretw0/stepwise/pkg/domain"
	"github.com/aretw0/stepwise/pkg/entity"
	"github.com/aretw0/stepwise/pkg/schema"
)

// Snapshot captures the model for persistence.
func (m *Model) Snapshot() *domain.ModelSnapshot {
	snap := &domain.ModelSnapshot{
		Name:      m.name,
		Steps:     m.Steps(),
		UpdatedAt: m.now().UTC(),
	}
	for _, a := range m.Amplitudes.Values() {
		snap.Amplitudes = append(snap.Amplitudes, domain.AmplitudeSnapshot{Name: a.Name, Data: a.Data.Clone()})
	}
	for _, p := range m.InteractionProperties.Values() {
		snap.Properties = append(snap.Properties, domain.PropertySnapshot{Name: p.Name, Type: p.Type})
	}
	for e := range m.All() {
		snap.Entities = append(snap.Entities, e.Snapshot())
	}
	return snap
}

// Restore rebuilds a model from a snapshot by replaying every entity's
// definition and call history. Derived states stored in the snapshot are
// ignored and recomputed.
func Restore(snap *domain.ModelSnapshot, opts ...Option) (*Model, error) {
	if snap == nil {
		return nil, fmt.Errorf("restore: nil snapshot")
	}
	m := New(snap.Name, opts...)
	if len(snap.Steps) == 0 || snap.Steps[0].Name != domain.InitialStep {
		return nil, domain.NewValueError("restore", snap.Name, "step sequence must start with %s", domain.InitialStep)
	}
	for _, s := range snap.Steps[1:] {
		if err := m.insertStep(s.Name, s.Procedure, m.steps[len(m.steps)-1].Name); err != nil {
			return nil, fmt.Errorf("restore step %s: %w", s.Name, err)
		}
	}
	for _, a := range snap.Amplitudes {
		if _, err := m.AddAmplitude(a.Name, a.Data); err != nil {
			return nil, fmt.Errorf("restore amplitude %s: %w", a.Name, err)
		}
	}
	for _, p := range snap.Properties {
		if _, err := m.AddInteractionProperty(p.Name, p.Type); err != nil {
			return nil, fmt.Errorf("restore property %s: %w", p.Name, err)
		}
	}
	for _, es := range snap.Entities {
		k, err := m.registry.Lookup(es.Kind)
		if err != nil {
			return nil, fmt.Errorf("restore %s/%s: %w", es.Repository, es.Key, err)
		}
		repo, err := m.Repository(string(k.Family))
		if err != nil {
			return nil, err
		}
		if es.Repository != "" && es.Repository != string(k.Family) {
			return nil, domain.NewValueError("restore", es.Key, "kind %s belongs to %s, not %s", k.Name, k.Family, es.Repository)
		}
		if _, err := repo.Create(es.Key, func() (*entity.Entity, error) {
			return entity.Restore(m.Context(), k, withFamily(es, k))
		}); err != nil {
			return nil, err
		}
	}
	return m, nil
}

func withFamily(es domain.EntitySnapshot, k *schema.Kind) domain.EntitySnapshot {
	es.Repository = string(k.Family)
	return es
}
