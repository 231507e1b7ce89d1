package engine

import (
	"context"
	"time"

	"mmserve/internal/store"
)

// runLoad performs the single fetch+construct for a ticket and resolves it
// for every waiter. It owns the ticket's removal from the in-flight map.
func (e *Engine) runLoad(t *loadTicket) {
	start := time.Now()
	e.publisher.Publish(Event{Name: "load_start", ModelID: t.id})
	e.log.Debug().Str("model", t.id).Msg("load start")

	ctx, cancel := context.WithTimeout(context.Background(), e.cfg.LoadTimeout)
	defer cancel()

	artifact, err := e.store.Fetch(ctx, t.id)
	if err != nil {
		e.resolveFailed(t, e.classifyFetchErr(t.id, err), "fetch")
		return
	}
	handle, err := e.runtime.Construct(ctx, artifact)
	if err != nil {
		e.resolveFailed(t, ErrConstructionFailed(t.id, err), "construct")
		return
	}

	size := int64(len(artifact))
	if size <= 0 {
		// Unit cost keeps eviction ordering meaningful for empty sizes.
		size = 1
	}

	e.mu.Lock()
	if e.closed {
		t.err = ErrShuttingDown()
		delete(e.tickets, t.id)
		close(t.done)
		e.mu.Unlock()
		_ = handle.Close()
		return
	}
	var victims []*Slot
	if !e.cfg.EvictionDisabled {
		victims = e.evictToFitLocked(size)
	}
	s := &Slot{
		id:        t.id,
		handle:    handle,
		sizeBytes: size,
		lastUsed:  time.Now(),
		state:     SlotReady,
		// Every registered waiter leaves acquire holding one reference.
		refs: t.waiters,
	}
	e.slots[t.id] = s
	e.usedBytes += size
	e.loadsTotal++
	t.slot = s
	delete(e.tickets, t.id)
	close(t.done)
	used, count := e.usedBytes, len(e.slots)
	e.mu.Unlock()

	for _, v := range victims {
		_ = v.handle.Close()
	}
	residentBytes.Set(float64(used))
	residentSlots.Set(float64(count))
	loadsTotal.Inc()
	loadDuration.Observe(time.Since(start).Seconds())
	e.publisher.Publish(Event{Name: "load_ready", ModelID: t.id, Fields: map[string]any{
		"size_bytes": size,
		"dur_ms":     int(time.Since(start) / time.Millisecond),
		"evicted":    len(victims),
	}})
	e.log.Info().Str("model", t.id).Int64("size_bytes", size).
		Dur("dur", time.Since(start)).Int("evicted", len(victims)).Msg("model loaded")
}

// resolveFailed fails the ticket for every waiter. No slot is installed.
func (e *Engine) resolveFailed(t *loadTicket, err error, stage string) {
	e.mu.Lock()
	t.err = err
	delete(e.tickets, t.id)
	close(t.done)
	e.mu.Unlock()
	loadFailures.WithLabelValues(stage).Inc()
	e.publisher.Publish(Event{Name: "load_fail", ModelID: t.id, Fields: map[string]any{
		"stage": stage,
		"error": err.Error(),
	}})
	e.log.Warn().Str("model", t.id).Str("stage", stage).Err(err).Msg("load failed")
}

// classifyFetchErr maps store errors onto the engine taxonomy.
func (e *Engine) classifyFetchErr(id string, err error) error {
	if store.IsNotFound(err) {
		return ErrUnknownModel(id)
	}
	// Timeouts and reachability problems are equally retryable upstream.
	return ErrTransientFetch(id, err)
}

// evictToFitLocked reclaims capacity for an incoming artifact of the given
// size by evicting least-recently-used idle slots. When every resident
// slot is busy it gives up and lets the load proceed over budget: an
// accounting miss must never fail a correct invocation.
func (e *Engine) evictToFitLocked(incoming int64) []*Slot {
	var victims []*Slot
	for e.overBudgetLocked(incoming) {
		v := e.evictOneVictimLocked()
		if v == nil {
			break
		}
		victims = append(victims, v)
	}
	return victims
}

func (e *Engine) overBudgetLocked(incoming int64) bool {
	if e.cfg.CapacityBytes > 0 && e.usedBytes+incoming > e.cfg.CapacityBytes {
		return true
	}
	if e.cfg.CapacitySlots > 0 && len(e.slots)+1 > e.cfg.CapacitySlots {
		return true
	}
	return false
}

// evictOneVictimLocked removes the least-recently-used slot with zero
// references, breaking timestamp ties by lexical identifier order.
// Returns nil when every slot is busy. The caller closes the handle
// after dropping the engine mutex.
func (e *Engine) evictOneVictimLocked() *Slot {
	var victim *Slot
	for _, s := range e.slots {
		if s.refs > 0 {
			continue
		}
		if victim == nil ||
			s.lastUsed.Before(victim.lastUsed) ||
			(s.lastUsed.Equal(victim.lastUsed) && s.id < victim.id) {
			victim = s
		}
	}
	if victim == nil {
		return nil
	}
	victim.state = SlotEvicting
	delete(e.slots, victim.id)
	e.usedBytes -= victim.sizeBytes
	if e.usedBytes < 0 {
		e.usedBytes = 0
	}
	e.evictionsTotal++
	evictionsTotal.Inc()
	e.publisher.Publish(Event{Name: "evict", ModelID: victim.id, Fields: map[string]any{
		"size_bytes": victim.sizeBytes,
	}})
	e.log.Info().Str("model", victim.id).Int64("size_bytes", victim.sizeBytes).Msg("model evicted")
	return victim
}
