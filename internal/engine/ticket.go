package engine

// loadTicket deduplicates loads: all concurrent misses for one identifier
// share a single ticket and its eventual outcome. Terminal once resolved;
// a later miss for the same identifier gets a fresh ticket.
type loadTicket struct {
	id string
	// done is closed exactly once when the ticket resolves.
	done chan struct{}
	// slot/err are set under the engine mutex before done is closed.
	slot *Slot
	err  error
	// waiters counts callers currently registered on this ticket. On
	// success the slot is installed with refs pre-counted per waiter, so
	// an abandoning waiter must hand its reference back.
	waiters int
}

func newLoadTicket(id string) *loadTicket {
	return &loadTicket{id: id, done: make(chan struct{})}
}

// resolved reports whether the ticket outcome is available. Callers must
// hold the engine mutex to read slot/err afterwards.
func (t *loadTicket) resolved() bool {
	select {
	case <-t.done:
		return true
	default:
		return false
	}
}
