package domain

import "errors"

// ErrSessionNotFound is returned when a session ID cannot be found in the store.
var ErrSessionNotFound = errors.New("session not found")

// ErrInvalidState is returned when a state snapshot violates its invariants.
var ErrInvalidState = errors.New("invalid session state")
