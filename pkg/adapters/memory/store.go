package memory

import (
	"context"
	"slices"
	"sync"

	"github.com/aretw0/stepwise/pkg/domain"
)

// Store implements ports.ModelStore in memory.
// Safe for concurrent use.
type Store struct {
	data map[string]*domain.ModelSnapshot
	mu   sync.RWMutex
}

// NewStore creates a new in-memory store.
func NewStore() *Store {
	return &Store{
		data: make(map[string]*domain.ModelSnapshot),
	}
}

// Save persists a deep copy of the snapshot.
func (s *Store) Save(ctx context.Context, name string, snap *domain.ModelSnapshot) error {
	copied := snap.Clone()

	s.mu.Lock()
	defer s.mu.Unlock()
	s.data[name] = copied
	return nil
}

// Load returns a copy so callers cannot mutate the stored snapshot.
func (s *Store) Load(ctx context.Context, name string) (*domain.ModelSnapshot, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	snap, ok := s.data[name]
	if !ok {
		return nil, domain.ErrModelNotFound
	}
	return snap.Clone(), nil
}

// Delete removes the snapshot.
func (s *Store) Delete(ctx context.Context, name string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.data, name)
	return nil
}

// List returns the stored model names in sorted order.
func (s *Store) List(ctx context.Context) ([]string, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	names := make([]string, 0, len(s.data))
	for name := range s.data {
		names = append(names, name)
	}
	slices.Sort(names)
	return names, nil
}
