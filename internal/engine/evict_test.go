package engine

import (
	"context"
	"testing"
	"time"

	"mmserve/internal/store"
)

func TestEvictionLRUWithSlotCapacity(t *testing.T) {
	st := store.NewMemStore()
	for _, id := range []string{"x", "y", "z"} {
		st.Put(id, []byte(linearArtifact))
	}
	e := newTestEngine(t, st, Config{CapacitySlots: 2})

	mustInvoke(t, e, "x", featuresPayload)
	time.Sleep(5 * time.Millisecond)
	mustInvoke(t, e, "y", featuresPayload)
	time.Sleep(5 * time.Millisecond)
	// Loading z exceeds the two-slot budget; x has the oldest access.
	mustInvoke(t, e, "z", featuresPayload)

	got := e.ResidentModels()
	if len(got) != 2 || got[0] != "y" || got[1] != "z" {
		t.Fatalf("resident = %v, want [y z]", got)
	}
	if e.Status().EvictionsTotal != 1 {
		t.Fatalf("evictions_total = %d, want 1", e.Status().EvictionsTotal)
	}
}

func TestEvictionWithByteCapacity(t *testing.T) {
	st := store.NewMemStore()
	for _, id := range []string{"a", "b", "c"} {
		st.Put(id, []byte(linearArtifact))
	}
	size := int64(len(linearArtifact))
	e := newTestEngine(t, st, Config{CapacityBytes: 2 * size})

	mustInvoke(t, e, "a", featuresPayload)
	time.Sleep(5 * time.Millisecond)
	mustInvoke(t, e, "b", featuresPayload)
	time.Sleep(5 * time.Millisecond)
	mustInvoke(t, e, "c", featuresPayload)

	got := e.ResidentModels()
	if len(got) != 2 || got[0] != "b" || got[1] != "c" {
		t.Fatalf("resident = %v, want [b c]", got)
	}
	if used := e.Status().UsedBytes; used != 2*size {
		t.Fatalf("used bytes = %d, want %d", used, 2*size)
	}
}

func TestWarmHitRefreshesRecency(t *testing.T) {
	st := store.NewMemStore()
	for _, id := range []string{"x", "y", "z"} {
		st.Put(id, []byte(linearArtifact))
	}
	e := newTestEngine(t, st, Config{CapacitySlots: 2})

	mustInvoke(t, e, "x", featuresPayload)
	time.Sleep(5 * time.Millisecond)
	mustInvoke(t, e, "y", featuresPayload)
	time.Sleep(5 * time.Millisecond)
	// Touch x so y becomes the LRU victim.
	mustInvoke(t, e, "x", featuresPayload)
	time.Sleep(5 * time.Millisecond)
	mustInvoke(t, e, "z", featuresPayload)

	got := e.ResidentModels()
	if len(got) != 2 || got[0] != "x" || got[1] != "z" {
		t.Fatalf("resident = %v, want [x z]", got)
	}
}

func TestBusySlotNeverEvictedAndLoadProceedsOverBudget(t *testing.T) {
	st := store.NewMemStore()
	st.Put("busy", []byte(linearArtifact))
	st.Put("next", []byte(linearArtifact))
	rt := newRecordRuntime()
	e := New(st, rt, Config{CapacitySlots: 1})
	defer e.Close()

	// Load "busy" and park an invocation inside its predict.
	mustInvoke(t, e, "busy", featuresPayload)
	block := make(chan struct{})
	rt.mu.Lock()
	h := rt.handles[0]
	rt.mu.Unlock()
	h.setBlock(block)

	busyDone := make(chan error, 1)
	go func() {
		_, err := e.Invoke(context.Background(), "busy", []byte(featuresPayload))
		busyDone <- err
	}()
	waitUntil(t, func() bool {
		e.mu.Lock()
		defer e.mu.Unlock()
		s := e.slots["busy"]
		return s != nil && s.refs > 0
	}, "busy invocation to hold its slot")

	// Loading "next" exceeds the one-slot budget, but the only candidate
	// victim is busy: the load must proceed over budget, not fail or wait.
	if out := mustInvoke(t, e, "next", featuresPayload); out != wantPrediction {
		t.Fatalf("prediction = %s, want %s", out, wantPrediction)
	}
	got := e.ResidentModels()
	if len(got) != 2 || got[0] != "busy" || got[1] != "next" {
		t.Fatalf("resident = %v, want [busy next]", got)
	}
	if e.Status().EvictionsTotal != 0 {
		t.Fatalf("evictions_total = %d, want 0", e.Status().EvictionsTotal)
	}

	close(block)
	if err := <-busyDone; err != nil {
		t.Fatalf("busy invoke: %v", err)
	}
}

func TestEvictOneVictimTieBreaksLexically(t *testing.T) {
	e := newTestEngine(t, store.NewMemStore(), Config{})
	ts := time.Now()
	e.mu.Lock()
	e.slots["b"] = &Slot{id: "b", handle: nopHandle{}, sizeBytes: 1, lastUsed: ts, state: SlotReady}
	e.slots["a"] = &Slot{id: "a", handle: nopHandle{}, sizeBytes: 1, lastUsed: ts, state: SlotReady}
	e.usedBytes = 2
	v := e.evictOneVictimLocked()
	e.mu.Unlock()
	if v == nil || v.id != "a" {
		t.Fatalf("victim = %+v, want a", v)
	}
}

func TestEvictOneVictimNoneWhenAllBusy(t *testing.T) {
	e := newTestEngine(t, store.NewMemStore(), Config{})
	e.mu.Lock()
	e.slots["a"] = &Slot{id: "a", handle: nopHandle{}, sizeBytes: 1, lastUsed: time.Now(), refs: 1, state: SlotReady}
	v := e.evictOneVictimLocked()
	e.mu.Unlock()
	if v != nil {
		t.Fatalf("expected no victim, got %s", v.id)
	}
}

func TestEvictionDisabledKeepsEverythingResident(t *testing.T) {
	st := store.NewMemStore()
	for _, id := range []string{"x", "y", "z"} {
		st.Put(id, []byte(linearArtifact))
	}
	e := newTestEngine(t, st, Config{CapacitySlots: 1, EvictionDisabled: true})

	mustInvoke(t, e, "x", featuresPayload)
	mustInvoke(t, e, "y", featuresPayload)
	mustInvoke(t, e, "z", featuresPayload)
	if got := len(e.ResidentModels()); got != 3 {
		t.Fatalf("resident = %d, want 3", got)
	}
}

func TestEvictionClosesVictimHandle(t *testing.T) {
	st := store.NewMemStore()
	st.Put("x", []byte(linearArtifact))
	st.Put("y", []byte(linearArtifact))
	rt := newRecordRuntime()
	e := New(st, rt, Config{CapacitySlots: 1})
	defer e.Close()

	ctx := context.Background()
	if _, err := e.Invoke(ctx, "x", []byte(featuresPayload)); err != nil {
		t.Fatalf("invoke x: %v", err)
	}
	if _, err := e.Invoke(ctx, "y", []byte(featuresPayload)); err != nil {
		t.Fatalf("invoke y: %v", err)
	}
	if got := rt.closedHandles(); got != 1 {
		t.Fatalf("closed handles = %d, want 1 (evicted x)", got)
	}
}

// nopHandle satisfies runtime.Handle for white-box eviction tests.
type nopHandle struct{}

func (nopHandle) Predict(ctx context.Context, payload []byte) ([]byte, error) { return nil, nil }
func (nopHandle) Close() error                                                { return nil }
