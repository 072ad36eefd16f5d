package domain

import "time"

// EventType defines the category of the event.
type EventType string

const (
	EventEntityCreate EventType = "entity_create"
	EventEntityMutate EventType = "entity_mutate"
	EventEntityDelete EventType = "entity_delete"
	EventStepInsert   EventType = "step_insert"
	EventStepDelete   EventType = "step_delete"
)

// EventBase contains common fields for all events.
type EventBase struct {
	Timestamp time.Time `json:"timestamp"`
	Type      EventType `json:"type"`
	Model     string    `json:"model"`
}

// EntityEvent describes one entity operation, accepted or rejected.
type EntityEvent struct {
	EventBase
	Repository string `json:"repository"`
	Key        string `json:"key"`
	Kind       string `json:"kind,omitempty"`
	Op         string `json:"op"`
	Step       string `json:"step,omitempty"`
	Err        error  `json:"-"`
}

// StepEvent describes a change to the step sequence.
type StepEvent struct {
	EventBase
	Step      string `json:"step"`
	Procedure Symbol `json:"procedure,omitempty"`
	Err       error  `json:"-"`
}

// LifecycleHooks defines callbacks for model observability.
// Hooks run synchronously on the mutating goroutine and must not block.
type LifecycleHooks struct {
	OnEntity func(*EntityEvent)
	OnStep   func(*StepEvent)
}

// Merge returns hooks that call h and then other.
func (h LifecycleHooks) Merge(other LifecycleHooks) LifecycleHooks {
	return LifecycleHooks{
		OnEntity: chain(h.OnEntity, other.OnEntity),
		OnStep:   chain(h.OnStep, other.OnStep),
	}
}

func chain[E any](a, b func(E)) func(E) {
	switch {
	case a == nil:
		return b
	case b == nil:
		return a
	}
	return func(e E) {
		a(e)
		b(e)
	}
}
