// Package middleware provides StateStore decorators: encryption at
// rest and PII masking for persisted quiz sessions.
package middleware

import "github.com/quizflow/quizflow/pkg/ports"

// Middleware allows wrapping a StateStore to add behavior.
type Middleware func(ports.StateStore) ports.StateStore

// Chain applies the middlewares to the store, first one outermost.
func Chain(store ports.StateStore, mws ...Middleware) ports.StateStore {
	for i := len(mws) - 1; i >= 0; i-- {
		store = mws[i](store)
	}
	return store
}
