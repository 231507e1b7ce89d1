// Package runtime defines the backend-agnostic model runtime boundary.
// A Runtime turns raw artifact bytes into an invokable Handle; the rest
// of the server treats both as opaque. Heavy frameworks plug in behind
// this interface without the cache or router knowing about them.
package runtime

import "context"

// Runtime constructs loaded models from artifact bytes.
type Runtime interface {
	// Construct parses/loads artifact and returns an invokable handle.
	// A malformed or incompatible artifact yields an error satisfying
	// IsConstruction.
	Construct(ctx context.Context, artifact []byte) (Handle, error)
}

// Handle is one loaded model. Predict may be called concurrently;
// Close releases whatever resources the backend holds.
type Handle interface {
	Predict(ctx context.Context, payload []byte) ([]byte, error)
	Close() error
}

// constructionError indicates the artifact could not become a model.
type constructionError struct{ msg string }

func (e constructionError) Error() string { return "construct model: " + e.msg }

// ErrConstruction builds a construction error with the given detail.
func ErrConstruction(msg string) error { return constructionError{msg: msg} }

// IsConstruction reports whether err came from artifact construction.
func IsConstruction(err error) bool {
	_, ok := err.(constructionError)
	return ok
}

// predictionError indicates a loaded model rejected a payload.
type predictionError struct{ msg string }

func (e predictionError) Error() string { return "predict: " + e.msg }

// ErrPrediction builds a prediction error with the given detail.
func ErrPrediction(msg string) error { return predictionError{msg: msg} }

// IsPrediction reports whether err came from model execution.
func IsPrediction(err error) bool {
	_, ok := err.(predictionError)
	return ok
}
