// Package middleware decorates a ports.ContextStore with cross-cutting
// persistence concerns: snapshot encryption and PII masking.
package middleware

import "github.com/parley-dev/parley/pkg/ports"

// Middleware wraps a ContextStore with additional behavior.
type Middleware func(next ports.ContextStore) ports.ContextStore

// Chain applies middlewares so the first one listed sees calls first.
func Chain(store ports.ContextStore, middlewares ...Middleware) ports.ContextStore {
	for i := len(middlewares) - 1; i >= 0; i-- {
		store = middlewares[i](store)
	}
	return store
}
