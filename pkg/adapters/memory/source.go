package memory

import (
	"context"
	"fmt"
	"slices"

	"github.com/aretw0/stepwise/pkg/script"
)

// Source implements ports.ScriptSource over a fixed set of scripts.
type Source struct {
	scripts map[string]*script.Script
}

// NewSource creates a source from raw YAML or JSON documents keyed by name.
func NewSource(docs map[string]string) (*Source, error) {
	scripts := make(map[string]*script.Script, len(docs))
	for name, doc := range docs {
		s, err := script.Parse([]byte(doc))
		if err != nil {
			return nil, fmt.Errorf("script %s: %w", name, err)
		}
		scripts[script.Normalize(name)] = s
	}
	return &Source{scripts: scripts}, nil
}

// Fetch returns the named script without resolving its imports.
func (s *Source) Fetch(_ context.Context, name string) (*script.Script, error) {
	sc, ok := s.scripts[name]
	if !ok {
		return nil, fmt.Errorf("script not found: %s", name)
	}
	return sc, nil
}

// Script returns the named script with its imports merged in.
func (s *Source) Script(ctx context.Context, name string) (*script.Script, error) {
	return script.Resolve(ctx, name, s.Fetch)
}

// Scripts lists the script names in sorted order.
func (s *Source) Scripts(ctx context.Context) ([]string, error) {
	names := make([]string, 0, len(s.scripts))
	for name := range s.scripts {
		names = append(names, name)
	}
	slices.Sort(names)
	return names, nil
}
