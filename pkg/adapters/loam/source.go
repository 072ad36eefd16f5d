// Package loam reads model scripts from a Loam document repository.
package loam

import (
	"context"
	"fmt"
	"path/filepath"

	"github.com/aretw0/loam"

	"github.com/aretw0/stepwise/pkg/script"
)

// Source adapts a Loam repository to ports.ScriptSource.
type Source struct {
	Repo *loam.TypedRepository[ScriptDocument]
}

// New creates a new Loam adapter.
func New(repo *loam.TypedRepository[ScriptDocument]) *Source {
	return &Source{Repo: repo}
}

// Open initializes a read-only Loam repository at dir.
// Strict mode keeps numbers as json.Number across JSON and YAML documents.
func Open(dir string) (*Source, error) {
	absPath, err := filepath.Abs(dir)
	if err != nil {
		return nil, fmt.Errorf("invalid path: %w", err)
	}
	repo, err := loam.Init(absPath,
		loam.WithStrict(true),
		loam.WithReadOnly(true),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize loam: %w", err)
	}
	return New(loam.NewTypedRepository[ScriptDocument](repo)), nil
}

// Fetch loads one script document without resolving its imports.
func (s *Source) Fetch(ctx context.Context, name string) (*script.Script, error) {
	doc, err := s.Repo.Get(ctx, script.Normalize(name))
	if err != nil {
		return nil, fmt.Errorf("loam get failed for %s: %w", name, err)
	}
	out := doc.Data.Script
	if err := out.Validate(); err != nil {
		return nil, fmt.Errorf("script %s: %w", name, err)
	}
	return &out, nil
}

// Script loads name and merges its imports.
func (s *Source) Script(ctx context.Context, name string) (*script.Script, error) {
	return script.Resolve(ctx, name, s.Fetch)
}

// Scripts lists all scripts in the repository.
func (s *Source) Scripts(ctx context.Context) ([]string, error) {
	docs, err := s.Repo.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("loam list failed: %w", err)
	}

	seen := make(map[string]string)
	names := make([]string, 0, len(docs))
	for _, doc := range docs {
		rawID := doc.Data.ID
		if rawID == "" {
			rawID = doc.ID
		}
		name := script.Normalize(rawID)
		if existing, ok := seen[name]; ok {
			return nil, fmt.Errorf("collision detected: script '%s' is defined in both '%s' and '%s'", name, existing, doc.ID)
		}
		seen[name] = doc.ID
		names = append(names, name)
	}
	return names, nil
}

// Watch implements ports.Watchable.
func (s *Source) Watch(ctx context.Context) (<-chan string, error) {
	events, err := s.Repo.Watch(ctx, "**/*.{md,json,yaml,yml}")
	if err != nil {
		return nil, fmt.Errorf("failed to start loam watcher: %w", err)
	}

	ch := make(chan string, 1)
	go func() {
		defer close(ch)
		for {
			select {
			case <-ctx.Done():
				return
			case evt, ok := <-events:
				if !ok {
					return
				}
				select {
				case ch <- script.Normalize(evt.ID):
				case <-ctx.Done():
					return
				}
			}
		}
	}()
	return ch, nil
}
