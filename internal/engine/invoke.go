package engine

import (
	"context"
	"errors"
)

// Invoke routes one invocation: resolve the slot for id (loading on first
// use), run the model's predict over payload, and release the slot. The
// slot is released exactly once on every exit path, including a panicking
// predict. Invocations against different identifiers never serialize
// against each other, and no engine lock is held while predict runs.
func (e *Engine) Invoke(ctx context.Context, id string, payload []byte) ([]byte, error) {
	if id == "" {
		return nil, ErrUnknownModel("(unspecified)")
	}
	s, err := e.acquire(ctx, id)
	if err != nil {
		return nil, err
	}
	defer e.release(s)

	out, err := s.handle.Predict(ctx, payload)
	if err != nil {
		if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
			return nil, err
		}
		// A bad payload does not invalidate the cached model; the slot
		// stays resident and only this caller sees the failure.
		return nil, ErrPredictionFailed(id, err)
	}
	return out, nil
}
