package middleware

import (
	"context"

	"github.com/aretw0/stepwise/pkg/domain"
	"github.com/aretw0/stepwise/pkg/ports"
)

type compactMiddleware struct {
	next ports.ModelStore
}

// NewCompactMiddleware drops derived step states before saving. Restoring a
// model recomputes them from each entity's definition and call history.
func NewCompactMiddleware() Middleware {
	return func(next ports.ModelStore) ports.ModelStore {
		return &compactMiddleware{next: next}
	}
}

func (m *compactMiddleware) Save(ctx context.Context, name string, snap *domain.ModelSnapshot) error {
	// Clone so the caller's snapshot keeps its states.
	cloned := snap.Clone()
	for i := range cloned.Entities {
		cloned.Entities[i].States = nil
	}
	return m.next.Save(ctx, name, cloned)
}

func (m *compactMiddleware) Load(ctx context.Context, name string) (*domain.ModelSnapshot, error) {
	return m.next.Load(ctx, name)
}

func (m *compactMiddleware) Delete(ctx context.Context, name string) error {
	return m.next.Delete(ctx, name)
}

func (m *compactMiddleware) List(ctx context.Context) ([]string, error) {
	return m.next.List(ctx)
}
