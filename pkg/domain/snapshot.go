package domain

import (
	"slices"
	"time"
)

// ModelSnapshot is the persisted form of a model.
// Entities are restored by replaying Definition and Ops; States is kept for
// consumers that only read the derived sequence.
type ModelSnapshot struct {
	Name       string              `json:"name"`
	Steps      []Step              `json:"steps"`
	Amplitudes []AmplitudeSnapshot `json:"amplitudes,omitempty"`
	Properties []PropertySnapshot  `json:"properties,omitempty"`
	Entities   []EntitySnapshot    `json:"entities,omitempty"`
	UpdatedAt  time.Time           `json:"updated_at"`

	// Sealed holds the encrypted form of the whole snapshot when the store
	// is wrapped by an encryption layer. The other fields are then empty.
	Sealed string `json:"sealed,omitempty"`
}

// AmplitudeSnapshot is a named time/amplitude table.
type AmplitudeSnapshot struct {
	Name string `json:"name"`
	Data Table  `json:"data"`
}

// PropertySnapshot is a named interaction property.
type PropertySnapshot struct {
	Name string `json:"name"`
	Type Symbol `json:"type"`
}

// EntitySnapshot is one entity and its call history.
type EntitySnapshot struct {
	Repository string      `json:"repository"`
	Key        string      `json:"key"`
	Kind       string      `json:"kind"`
	CreateStep string      `json:"create_step"`
	Definition Values      `json:"definition"`
	Ops        []Op        `json:"ops,omitempty"`
	States     []StepState `json:"states,omitempty"`
}

// Clone deep-copies the snapshot.
func (s *ModelSnapshot) Clone() *ModelSnapshot {
	if s == nil {
		return nil
	}
	out := &ModelSnapshot{
		Name:       s.Name,
		Steps:      slices.Clone(s.Steps),
		Properties: slices.Clone(s.Properties),
		UpdatedAt:  s.UpdatedAt,
		Sealed:     s.Sealed,
	}
	for _, a := range s.Amplitudes {
		out.Amplitudes = append(out.Amplitudes, AmplitudeSnapshot{Name: a.Name, Data: a.Data.Clone()})
	}
	for _, e := range s.Entities {
		ec := EntitySnapshot{
			Repository: e.Repository,
			Key:        e.Key,
			Kind:       e.Kind,
			CreateStep: e.CreateStep,
			Definition: e.Definition.Clone(),
		}
		for _, op := range e.Ops {
			ec.Ops = append(ec.Ops, op.Clone())
		}
		for _, st := range e.States {
			ec.States = append(ec.States, st.Clone())
		}
		out.Entities = append(out.Entities, ec)
	}
	return out
}
