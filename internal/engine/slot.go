package engine

import (
	"time"

	"mmserve/internal/runtime"
)

// SlotState represents the lifecycle state of a resident model slot.
type SlotState string

const (
	// SlotReady means the model is loaded and invokable.
	SlotReady SlotState = "ready"
	// SlotEvicting means the slot was chosen as a victim and is being
	// removed; it is no longer reachable from the cache map.
	SlotEvicting SlotState = "evicting"
)

// Slot is the unit of cache residency: one loaded model plus bookkeeping.
// The engine owns installed slots exclusively; callers hold a borrowed
// reference (refs) for the duration of one invocation.
type Slot struct {
	id        string
	handle    runtime.Handle
	sizeBytes int64
	lastUsed  time.Time
	refs      int
	state     SlotState
}

// ID returns the model identifier this slot serves.
func (s *Slot) ID() string { return s.id }
