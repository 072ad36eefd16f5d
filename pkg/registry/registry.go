// Package registry indexes kind declarations by name.
package registry

import (
	"sync"

	"github.com/aretw0/stepwise/pkg/domain"
	"github.com/aretw0/stepwise/pkg/schema"
)

const scope = "kinds"

// Registry manages the available kinds.
type Registry struct {
	mu    sync.RWMutex
	kinds map[string]*schema.Kind
	order []string
}

// New creates a new empty registry.
func New() *Registry {
	return &Registry{
		kinds: make(map[string]*schema.Kind),
	}
}

// Register adds a kind to the registry.
// Registering a name twice is a key collision.
func (r *Registry) Register(k *schema.Kind) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, exists := r.kinds[k.Name]; exists {
		return &domain.KeyCollisionError{Scope: scope, Key: k.Name}
	}
	r.kinds[k.Name] = k
	r.order = append(r.order, k.Name)
	return nil
}

// Lookup returns the kind registered under name.
func (r *Registry) Lookup(name string) (*schema.Kind, error) {
	r.mu.RLock()
	k, ok := r.kinds[name]
	r.mu.RUnlock()

	if !ok {
		return nil, &domain.KeyNotFoundError{Scope: scope, Key: name}
	}
	return k, nil
}

// Kinds returns every kind in registration order.
func (r *Registry) Kinds() []*schema.Kind {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]*schema.Kind, 0, len(r.order))
	for _, name := range r.order {
		out = append(out, r.kinds[name])
	}
	return out
}

// ByFamily returns the kinds stored in one model repository.
func (r *Registry) ByFamily(f schema.Family) []*schema.Kind {
	var out []*schema.Kind
	for _, k := range r.Kinds() {
		if k.Family == f {
			out = append(out, k)
		}
	}
	return out
}
