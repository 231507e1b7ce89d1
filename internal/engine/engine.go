package engine

import (
	"sync"
	"time"

	"github.com/rs/zerolog"

	"mmserve/internal/runtime"
	"mmserve/internal/store"
)

// Engine is the process-wide serving core. Construct one at startup and
// Close it on shutdown; it is safe for concurrent use.
type Engine struct {
	mu        sync.Mutex
	slots     map[string]*Slot
	tickets   map[string]*loadTicket
	usedBytes int64
	closed    bool

	loadsTotal     uint64
	evictionsTotal uint64

	store   store.Client
	runtime runtime.Runtime
	cfg     Config

	publisher EventPublisher
	log       zerolog.Logger
	startTime time.Time
}

// Option customizes Engine construction.
type Option func(*Engine)

// WithPublisher installs an event publisher (noop by default).
func WithPublisher(p EventPublisher) Option {
	return func(e *Engine) {
		if p != nil {
			e.publisher = p
		}
	}
}

// WithLogger installs a structured logger (disabled by default).
func WithLogger(l zerolog.Logger) Option {
	return func(e *Engine) { e.log = l }
}

// New constructs an Engine over the given artifact store and model runtime.
func New(st store.Client, rt runtime.Runtime, cfg Config, opts ...Option) *Engine {
	e := &Engine{
		slots:     make(map[string]*Slot),
		tickets:   make(map[string]*loadTicket),
		store:     st,
		runtime:   rt,
		cfg:       cfg.withDefaults(),
		publisher: noopPublisher{},
		log:       zerolog.Nop(),
		startTime: time.Now(),
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Ready reports whether the engine accepts invocations.
func (e *Engine) Ready() bool {
	e.mu.Lock()
	defer e.mu.Unlock()
	return !e.closed
}

// Close drains the engine: new acquires are refused, in-flight invocations
// get up to DrainTimeout to finish, then every resident handle is released.
func (e *Engine) Close() error {
	e.mu.Lock()
	if e.closed {
		e.mu.Unlock()
		return nil
	}
	e.closed = true
	e.mu.Unlock()
	e.publisher.Publish(Event{Name: "shutdown_start"})

	deadline := time.Now().Add(e.cfg.DrainTimeout)
	for {
		e.mu.Lock()
		busy := len(e.tickets)
		for _, s := range e.slots {
			busy += s.refs
		}
		e.mu.Unlock()
		if busy == 0 || time.Now().After(deadline) {
			if busy > 0 {
				e.log.Warn().Int("busy", busy).Msg("drain timeout, closing anyway")
			}
			break
		}
		time.Sleep(10 * time.Millisecond)
	}

	e.mu.Lock()
	handles := make([]*Slot, 0, len(e.slots))
	for _, s := range e.slots {
		s.state = SlotEvicting
		handles = append(handles, s)
	}
	e.slots = make(map[string]*Slot)
	e.usedBytes = 0
	e.mu.Unlock()
	residentBytes.Set(0)
	residentSlots.Set(0)

	var firstErr error
	for _, s := range handles {
		if err := s.handle.Close(); err != nil && firstErr == nil {
			firstErr = err
		}
	}
	e.publisher.Publish(Event{Name: "shutdown_done", Fields: map[string]any{"released": len(handles)}})
	return firstErr
}
