// Package middleware wraps a ports.ModelStore with cross-cutting persistence behavior.
package middleware

import "github.com/aretw0/stepwise/pkg/ports"

// Middleware allows wrapping a ModelStore to add behavior.
type Middleware func(ports.ModelStore) ports.ModelStore

// Chain applies middlewares so the first one is the outermost.
func Chain(store ports.ModelStore, mws ...Middleware) ports.ModelStore {
	for i := len(mws) - 1; i >= 0; i-- {
		store = mws[i](store)
	}
	return store
}
