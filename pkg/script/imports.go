package script

import (
	"context"
	"fmt"
	"path/filepath"
	"strings"
)

// Fetcher loads a single script by name, without resolving its imports.
type Fetcher func(ctx context.Context, name string) (*Script, error)

// Resolve loads name and merges its imports depth first: imported
// declarations come before the importer's own. A library imported from two
// branches is merged once. An import cycle is an error.
func Resolve(ctx context.Context, name string, fetch Fetcher) (*Script, error) {
	r := &resolver{fetch: fetch, visiting: map[string]bool{}, merged: map[string]bool{}}
	return r.resolve(ctx, Normalize(name))
}

// ResolveScript merges the imports of an already decoded script. A script
// with imports needs a non-nil fetch.
func ResolveScript(ctx context.Context, s *Script, fetch Fetcher) (*Script, error) {
	if len(s.Imports) == 0 {
		return s, nil
	}
	if fetch == nil {
		return nil, fmt.Errorf("script imports %v but no script library is configured", s.Imports)
	}
	const root = "\x00inline"
	return Resolve(ctx, root, func(ctx context.Context, name string) (*Script, error) {
		if name == root {
			return s, nil
		}
		return fetch(ctx, name)
	})
}

type resolver struct {
	fetch    Fetcher
	visiting map[string]bool
	merged   map[string]bool
}

func (r *resolver) resolve(ctx context.Context, name string) (*Script, error) {
	if r.visiting[name] {
		return nil, fmt.Errorf("cycle detected in script imports: %s", name)
	}
	r.visiting[name] = true
	defer delete(r.visiting, name)

	s, err := r.fetch(ctx, name)
	if err != nil {
		return nil, fmt.Errorf("failed to load script %q: %w", name, err)
	}

	acc := &Script{}
	for _, imp := range s.Imports {
		imp = Normalize(imp)
		if r.merged[imp] {
			continue
		}
		lib, err := r.resolve(ctx, imp)
		if err != nil {
			return nil, err
		}
		acc = lib.Merge(acc)
	}
	r.merged[name] = true

	out := s.Merge(acc)
	out.Imports = nil
	return out, nil
}

// Normalize strips the extension so "base.yaml" and "base" name the same script.
func Normalize(name string) string {
	return filepath.ToSlash(strings.TrimSuffix(name, filepath.Ext(name)))
}
