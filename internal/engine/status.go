package engine

import (
	"sort"
	"time"

	"mmserve/pkg/types"
)

// Status builds a detailed status response for /status.
func (e *Engine) Status() types.StatusResponse {
	e.mu.Lock()
	defer e.mu.Unlock()
	resp := types.StatusResponse{
		CapacityBytes:   e.cfg.CapacityBytes,
		UsedBytes:       e.usedBytes,
		CapacitySlots:   e.cfg.CapacitySlots,
		EvictionEnabled: !e.cfg.EvictionDisabled,
		PendingLoads:    len(e.tickets),
		LoadsTotal:      e.loadsTotal,
		EvictionsTotal:  e.evictionsTotal,
		UptimeSeconds:   int64(time.Since(e.startTime).Seconds()),
		ServerTimeUnix:  time.Now().Unix(),
		Ready:           !e.closed,
	}
	resp.Slots = make([]types.SlotStatus, 0, len(e.slots))
	for _, s := range e.slots {
		resp.Slots = append(resp.Slots, types.SlotStatus{
			ModelID:   s.id,
			State:     string(s.state),
			Refs:      s.refs,
			SizeBytes: s.sizeBytes,
			LastUsed:  s.lastUsed.Unix(),
		})
	}
	sort.Slice(resp.Slots, func(i, j int) bool { return resp.Slots[i].ModelID < resp.Slots[j].ModelID })
	return resp
}

// ResidentModels returns the identifiers currently resident, sorted.
// Intended for tests and introspection; the serving path never needs it.
func (e *Engine) ResidentModels() []string {
	e.mu.Lock()
	defer e.mu.Unlock()
	ids := make([]string, 0, len(e.slots))
	for id := range e.slots {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}
