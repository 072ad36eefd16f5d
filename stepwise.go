package stepwise

import (
	"context"
	"fmt"

	"github.com/aretw0/stepwise/pkg/model"
	"github.com/aretw0/stepwise/pkg/ports"
	"github.com/aretw0/stepwise/pkg/script"
	"github.com/aretw0/stepwise/pkg/session"
)

// DefaultModelName names models built from scripts that do not name one.
const DefaultModelName = "Model-1"

// New creates an empty model holding only the initial step. The built-in
// kinds are registered unless model.WithRegistry says otherwise.
func New(name string, opts ...model.Option) *model.Model {
	return model.New(name, opts...)
}

// Load parses a YAML or JSON script and applies it to a new model.
// Imports are resolved through fetch; a nil fetch only accepts scripts
// without imports.
func Load(ctx context.Context, data []byte, fetch script.Fetcher, opts ...model.Option) (*model.Model, error) {
	s, err := script.Parse(data)
	if err != nil {
		return nil, err
	}
	s, err = script.ResolveScript(ctx, s, fetch)
	if err != nil {
		return nil, err
	}
	name := s.Model
	if name == "" {
		name = DefaultModelName
	}
	m := model.New(name, opts...)
	if err := script.Apply(m, s); err != nil {
		return nil, fmt.Errorf("failed to apply script to %s: %w", name, err)
	}
	return m, nil
}

// Open returns a session manager that persists models in store and
// serializes every mutation of a model behind its lock.
func Open(store ports.ModelStore, opts ...session.Option) *session.Manager {
	return session.NewManager(store, opts...)
}
