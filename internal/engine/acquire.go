package engine

import (
	"context"
	"time"
)

// acquire returns a Ready slot for id with one reference counted for the
// caller. A miss joins (or starts) the in-flight load for id; callers for
// other identifiers are never blocked by it.
func (e *Engine) acquire(ctx context.Context, id string) (*Slot, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	e.mu.Lock()
	if e.closed {
		e.mu.Unlock()
		return nil, ErrShuttingDown()
	}
	if s, ok := e.slots[id]; ok {
		s.refs++
		s.lastUsed = time.Now()
		e.mu.Unlock()
		cacheHits.Inc()
		return s, nil
	}
	t, ok := e.tickets[id]
	if !ok {
		t = newLoadTicket(id)
		e.tickets[id] = t
		// The load runs detached from any single waiter's context: one
		// caller cancelling must not abort a fetch others depend on.
		go e.runLoad(t)
		cacheMisses.Inc()
	}
	t.waiters++
	e.mu.Unlock()

	timer := time.NewTimer(e.cfg.LoadTimeout)
	defer timer.Stop()
	select {
	case <-t.done:
		e.mu.Lock()
		t.waiters--
		if t.err != nil {
			err := t.err
			e.mu.Unlock()
			return nil, err
		}
		s := t.slot
		s.lastUsed = time.Now()
		e.mu.Unlock()
		// Our reference was pre-counted when the slot was installed.
		return s, nil
	case <-ctx.Done():
		e.abandonWait(t)
		return nil, ctx.Err()
	case <-timer.C:
		e.abandonWait(t)
		return nil, ErrLoadTimeout(id, e.cfg.LoadTimeout)
	}
}

// abandonWait withdraws one caller's interest in a ticket without
// affecting other waiters. If the ticket raced to a successful resolution
// the pre-counted reference is handed back so the slot can be evicted.
func (e *Engine) abandonWait(t *loadTicket) {
	e.mu.Lock()
	t.waiters--
	if t.resolved() && t.err == nil && t.slot != nil {
		e.releaseLocked(t.slot)
	}
	e.mu.Unlock()
}

// release returns a borrowed slot. At zero references the slot becomes
// eviction-eligible but stays resident until capacity is actually needed.
func (e *Engine) release(s *Slot) {
	if s == nil {
		return
	}
	e.mu.Lock()
	e.releaseLocked(s)
	e.mu.Unlock()
}

func (e *Engine) releaseLocked(s *Slot) {
	if s.refs > 0 {
		s.refs--
		return
	}
	e.log.Error().Str("model", s.id).Msg("release of slot with zero refs")
}
