package engine

import "time"

// unknownModelError indicates the identifier does not exist in the
// artifact store. Never retried by the engine.
type unknownModelError struct{ id string }

func (e unknownModelError) Error() string { return "unknown model: " + e.id }

// ErrUnknownModel constructs an unknown-model error for id.
func ErrUnknownModel(id string) error { return unknownModelError{id: id} }

// IsUnknownModel reports whether err indicates a missing model id.
func IsUnknownModel(err error) bool {
	_, ok := err.(unknownModelError)
	return ok
}

// transientFetchError indicates the artifact store was unreachable.
// Retry policy belongs to the caller, not the engine.
type transientFetchError struct {
	id  string
	err error
}

func (e transientFetchError) Error() string { return "fetch model " + e.id + ": " + e.err.Error() }
func (e transientFetchError) Unwrap() error { return e.err }

// ErrTransientFetch wraps a retryable store failure for id.
func ErrTransientFetch(id string, err error) error { return transientFetchError{id: id, err: err} }

// IsTransientFetch reports whether err indicates a retryable fetch failure.
func IsTransientFetch(err error) bool {
	_, ok := err.(transientFetchError)
	return ok
}

// constructionFailedError indicates the artifact exists but could not be
// turned into a usable model. Permanent for the current artifact.
type constructionFailedError struct {
	id  string
	err error
}

func (e constructionFailedError) Error() string { return "load model " + e.id + ": " + e.err.Error() }
func (e constructionFailedError) Unwrap() error { return e.err }

// ErrConstructionFailed wraps a runtime construction failure for id.
func ErrConstructionFailed(id string, err error) error {
	return constructionFailedError{id: id, err: err}
}

// IsConstructionFailed reports whether err indicates a construction failure.
func IsConstructionFailed(err error) bool {
	_, ok := err.(constructionFailedError)
	return ok
}

// predictionFailedError indicates the loaded model rejected one payload.
// The slot stays resident; only the requesting caller sees this.
type predictionFailedError struct {
	id  string
	err error
}

func (e predictionFailedError) Error() string { return "invoke model " + e.id + ": " + e.err.Error() }
func (e predictionFailedError) Unwrap() error { return e.err }

// ErrPredictionFailed wraps a model execution failure for id.
func ErrPredictionFailed(id string, err error) error {
	return predictionFailedError{id: id, err: err}
}

// IsPredictionFailed reports whether err indicates a prediction failure.
func IsPredictionFailed(err error) bool {
	_, ok := err.(predictionFailedError)
	return ok
}

// loadTimeoutError indicates a caller gave up waiting for a load.
// The load itself keeps running for other waiters.
type loadTimeoutError struct {
	id   string
	wait time.Duration
}

func (e loadTimeoutError) Error() string {
	return "timed out after " + e.wait.String() + " waiting for model " + e.id
}

// ErrLoadTimeout constructs a load-timeout error for id.
func ErrLoadTimeout(id string, wait time.Duration) error {
	return loadTimeoutError{id: id, wait: wait}
}

// IsLoadTimeout reports whether err indicates a load wait timeout.
func IsLoadTimeout(err error) bool {
	_, ok := err.(loadTimeoutError)
	return ok
}

// shuttingDownError signals the engine no longer accepts work.
type shuttingDownError struct{}

func (shuttingDownError) Error() string { return "engine is shutting down" }

// ErrShuttingDown is returned for acquires after Close begins.
func ErrShuttingDown() error { return shuttingDownError{} }

// IsShuttingDown reports whether err indicates engine shutdown.
func IsShuttingDown(err error) bool {
	_, ok := err.(shuttingDownError)
	return ok
}
