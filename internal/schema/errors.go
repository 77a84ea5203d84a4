package schema

import "errors"

var (
	// ErrNotFound is returned by MustLookup-style callers when a type is not registered.
	ErrNotFound = errors.New("event type not found")

	// ErrNotInitialized means the registry was never built; this is a setup
	// failure, never a validation outcome.
	ErrNotInitialized = errors.New("schema registry not initialized")
)
