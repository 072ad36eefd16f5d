// Package repository provides an insertion-ordered container with unique,
// caller-chosen keys scoped under a named parent.
package repository

import (
	"iter"
	"slices"

	"github.com/aretw0/stepwise/pkg/domain"
)

// Repository holds values of one type keyed by caller-chosen names.
// It is single-writer; callers that share one across goroutines must
// serialize access.
type Repository[V any] struct {
	scope    string
	keys     []string
	items    map[string]V
	onDelete func(key string, v V)
}

// Option configures a Repository.
type Option[V any] func(*Repository[V])

// WithOnDelete registers a cascade invoked after a value is removed.
func WithOnDelete[V any](fn func(key string, v V)) Option[V] {
	return func(r *Repository[V]) {
		r.onDelete = fn
	}
}

// New creates an empty repository named scope.
func New[V any](scope string, opts ...Option[V]) *Repository[V] {
	r := &Repository[V]{
		scope: scope,
		items: make(map[string]V),
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Scope returns the repository name used in error messages.
func (r *Repository[V]) Scope() string { return r.scope }

// Create builds a value with factory and stores it under key.
// The factory is not called when key is already taken; a factory error
// leaves the repository unchanged.
func (r *Repository[V]) Create(key string, factory func() (V, error)) (V, error) {
	var zero V
	if _, exists := r.items[key]; exists {
		return zero, &domain.KeyCollisionError{Scope: r.scope, Key: key}
	}
	v, err := factory()
	if err != nil {
		return zero, err
	}
	r.items[key] = v
	r.keys = append(r.keys, key)
	return v, nil
}

// Get returns the value stored under key.
func (r *Repository[V]) Get(key string) (V, error) {
	v, ok := r.items[key]
	if !ok {
		var zero V
		return zero, &domain.KeyNotFoundError{Scope: r.scope, Key: key}
	}
	return v, nil
}

// Has reports whether key is present.
func (r *Repository[V]) Has(key string) bool {
	_, ok := r.items[key]
	return ok
}

// Delete removes key and runs the delete cascade.
func (r *Repository[V]) Delete(key string) error {
	v, ok := r.items[key]
	if !ok {
		return &domain.KeyNotFoundError{Scope: r.scope, Key: key}
	}
	delete(r.items, key)
	r.keys = slices.DeleteFunc(r.keys, func(k string) bool { return k == key })
	if r.onDelete != nil {
		r.onDelete(key, v)
	}
	return nil
}

// Len returns the number of stored values.
func (r *Repository[V]) Len() int { return len(r.keys) }

// Keys returns the keys in insertion order.
func (r *Repository[V]) Keys() []string { return slices.Clone(r.keys) }

// Values returns the values in insertion order.
func (r *Repository[V]) Values() []V {
	out := make([]V, 0, len(r.keys))
	for _, k := range r.keys {
		out = append(out, r.items[k])
	}
	return out
}

// All yields key/value pairs in insertion order. Mutating the repository
// while iterating is undefined; take Keys first if the loop deletes.
func (r *Repository[V]) All() iter.Seq2[string, V] {
	return func(yield func(string, V) bool) {
		for _, k := range r.keys {
			if !yield(k, r.items[k]) {
				return
			}
		}
	}
}
