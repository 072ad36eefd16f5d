package observability

import (
	"errors"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/aretw0/stepwise/pkg/domain"
)

// Metrics counts entity operations and step changes.
type Metrics struct {
	EntityOps *prometheus.CounterVec
	StepOps   *prometheus.CounterVec
}

// NewMetrics creates the collectors and registers them on reg. A nil reg
// leaves them unregistered. Collectors already registered by an earlier
// call are reused.
func NewMetrics(reg prometheus.Registerer) (*Metrics, error) {
	m := &Metrics{
		EntityOps: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "stepwise_entity_operations_total",
				Help: "Entity operations by repository, operation and outcome.",
			},
			[]string{"repository", "op", "outcome"},
		),
		StepOps: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "stepwise_step_operations_total",
				Help: "Step insertions and deletions by outcome.",
			},
			[]string{"type", "outcome"},
		),
	}
	if reg == nil {
		return m, nil
	}
	var err error
	if m.EntityOps, err = register(reg, m.EntityOps); err != nil {
		return nil, err
	}
	if m.StepOps, err = register(reg, m.StepOps); err != nil {
		return nil, err
	}
	return m, nil
}

func register(reg prometheus.Registerer, c *prometheus.CounterVec) (*prometheus.CounterVec, error) {
	if err := reg.Register(c); err != nil {
		var are prometheus.AlreadyRegisteredError
		if errors.As(err, &are) {
			if existing, ok := are.ExistingCollector.(*prometheus.CounterVec); ok {
				return existing, nil
			}
		}
		return nil, err
	}
	return c, nil
}

// Hooks returns lifecycle hooks that record every event.
func (m *Metrics) Hooks() domain.LifecycleHooks {
	return domain.LifecycleHooks{
		OnEntity: func(e *domain.EntityEvent) {
			m.EntityOps.WithLabelValues(e.Repository, e.Op, outcome(e.Err)).Inc()
		},
		OnStep: func(e *domain.StepEvent) {
			m.StepOps.WithLabelValues(string(e.Type), outcome(e.Err)).Inc()
		},
	}
}

// outcome separates caller mistakes from unexpected failures.
func outcome(err error) string {
	switch {
	case err == nil:
		return "ok"
	case errors.Is(err, domain.ErrValue),
		errors.Is(err, domain.ErrRange),
		errors.Is(err, domain.ErrKeyCollision),
		errors.Is(err, domain.ErrKeyNotFound):
		return "rejected"
	}
	return "error"
}
