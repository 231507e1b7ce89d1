package engine

import (
	"context"
	"testing"
	"time"

	"mmserve/internal/store"
)

func TestPredictionFailureLeavesSlotResident(t *testing.T) {
	st := store.NewMemStore()
	st.Put("m1", []byte(linearArtifact))
	e := newTestEngine(t, st, Config{})

	// Malformed payload: wrong feature arity.
	_, err := e.Invoke(context.Background(), "m1", []byte(`{"features":[1]}`))
	if err == nil || !IsPredictionFailed(err) {
		t.Fatalf("expected prediction failure, got %v", err)
	}
	if got := e.ResidentModels(); len(got) != 1 || got[0] != "m1" {
		t.Fatalf("bad payload must not invalidate the cached model, resident=%v", got)
	}

	// A valid payload against the same identifier succeeds without refetch.
	if out := mustInvoke(t, e, "m1", featuresPayload); out != wantPrediction {
		t.Fatalf("prediction = %s, want %s", out, wantPrediction)
	}
	if n := st.Fetches("m1"); n != 1 {
		t.Fatalf("fetches = %d, want 1", n)
	}
}

func TestSlotReleasedOnPredictionFailure(t *testing.T) {
	st := store.NewMemStore()
	st.Put("m1", []byte(linearArtifact))
	e := newTestEngine(t, st, Config{})

	_, _ = e.Invoke(context.Background(), "m1", []byte(`not-json`))
	s := e.Status()
	if len(s.Slots) != 1 || s.Slots[0].Refs != 0 {
		t.Fatalf("slot must be released after a failed predict: %+v", s.Slots)
	}
}

func TestSlotReleasedWhenPredictPanics(t *testing.T) {
	st := store.NewMemStore()
	st.Put("m1", []byte(linearArtifact))
	rt := newRecordRuntime()
	e := New(st, rt, Config{})
	defer e.Close()

	mustInvoke(t, e, "m1", featuresPayload)
	rt.mu.Lock()
	h := rt.handles[0]
	rt.mu.Unlock()
	h.setPanics()

	func() {
		defer func() {
			if recover() == nil {
				t.Fatalf("expected predict panic to propagate")
			}
		}()
		_, _ = e.Invoke(context.Background(), "m1", []byte(featuresPayload))
	}()

	s := e.Status()
	if len(s.Slots) != 1 || s.Slots[0].Refs != 0 {
		t.Fatalf("slot must be released even when predict panics: %+v", s.Slots)
	}
}

func TestColdInvokeSlowerThanWarm(t *testing.T) {
	st := store.NewMemStore()
	st.Put("m1", []byte(linearArtifact))
	st.SetDelay(60 * time.Millisecond)
	e := newTestEngine(t, st, Config{})

	start := time.Now()
	mustInvoke(t, e, "m1", featuresPayload)
	cold := time.Since(start)

	st.SetDelay(0)
	start = time.Now()
	mustInvoke(t, e, "m1", featuresPayload)
	warm := time.Since(start)

	if cold < 50*time.Millisecond {
		t.Fatalf("cold invoke did not pay fetch latency: %v", cold)
	}
	if warm >= cold/2 {
		t.Fatalf("warm invoke not measurably faster: cold=%v warm=%v", cold, warm)
	}
}
