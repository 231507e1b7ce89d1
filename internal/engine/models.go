package engine

import (
	"context"

	"mmserve/internal/store"
)

// ListModels enumerates the identifiers the artifact store advertises.
// Stores that cannot enumerate fall back to the resident set.
func (e *Engine) ListModels(ctx context.Context) ([]string, error) {
	if l, ok := e.store.(store.Lister); ok {
		return l.List(ctx)
	}
	return e.ResidentModels(), nil
}
