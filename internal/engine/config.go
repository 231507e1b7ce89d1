package engine

import "time"

// Defaults applied when corresponding Config fields are unset.
const (
	defaultLoadTimeout  = 30 * time.Second
	defaultDrainTimeout = 5 * time.Second
)

// Config encapsulates all tunables for Engine construction.
// Zero capacities mean unlimited, matching the rest of the config surface.
type Config struct {
	// CapacityBytes bounds total resident artifact bytes (0 = unlimited).
	CapacityBytes int64
	// CapacitySlots bounds the number of resident models (0 = unlimited).
	CapacitySlots int
	// EvictionDisabled turns capacity reclamation off entirely; loads then
	// always proceed and nothing is ever evicted.
	EvictionDisabled bool
	// LoadTimeout bounds fetch+construct for one load and how long a
	// caller waits on another caller's in-flight load.
	LoadTimeout time.Duration
	// DrainTimeout bounds how long Close waits for in-flight invocations.
	DrainTimeout time.Duration
}

func (c Config) withDefaults() Config {
	if c.LoadTimeout <= 0 {
		c.LoadTimeout = defaultLoadTimeout
	}
	if c.DrainTimeout <= 0 {
		c.DrainTimeout = defaultDrainTimeout
	}
	return c
}
