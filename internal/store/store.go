package store

import "context"

// Client retrieves named model artifacts from durable storage.
// Implementations must be safe for concurrent use across identifiers.
type Client interface {
	// Fetch returns the raw artifact bytes for id. A missing identifier
	// yields an error satisfying IsNotFound; a reachability problem yields
	// one satisfying IsTransient.
	Fetch(ctx context.Context, id string) ([]byte, error)
}

// Lister is an optional extension for stores that can enumerate their
// artifacts. The HTTP layer uses it for GET /models.
type Lister interface {
	List(ctx context.Context) ([]string, error)
}

// notFoundError indicates the identifier does not exist in the store.
type notFoundError struct{ id string }

func (e notFoundError) Error() string { return "artifact not found: " + e.id }

// ErrNotFound constructs a not-found error for id.
func ErrNotFound(id string) error { return notFoundError{id: id} }

// IsNotFound reports whether err indicates a missing artifact.
func IsNotFound(err error) bool {
	_, ok := err.(notFoundError)
	return ok
}

// transientError indicates the store was temporarily unreachable.
type transientError struct {
	id  string
	err error
}

func (e transientError) Error() string { return "fetch " + e.id + ": " + e.err.Error() }
func (e transientError) Unwrap() error { return e.err }

// ErrTransient wraps a retryable fetch failure for id.
func ErrTransient(id string, err error) error { return transientError{id: id, err: err} }

// IsTransient reports whether err indicates a retryable store failure.
func IsTransient(err error) bool {
	_, ok := err.(transientError)
	return ok
}
