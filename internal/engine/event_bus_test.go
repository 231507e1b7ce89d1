package engine

import (
	"context"
	"testing"

	"mmserve/internal/runtime"
	"mmserve/internal/store"
)

func TestLoadAndEvictEventsPublished(t *testing.T) {
	st := store.NewMemStore()
	st.Put("x", []byte(linearArtifact))
	st.Put("y", []byte(linearArtifact))
	pub := NewMemoryPublisher()
	e := New(st, runtime.NewLinearRuntime(), Config{CapacitySlots: 1}, WithPublisher(pub))
	defer e.Close()

	ctx := context.Background()
	if _, err := e.Invoke(ctx, "x", []byte(featuresPayload)); err != nil {
		t.Fatalf("invoke x: %v", err)
	}
	if _, err := e.Invoke(ctx, "y", []byte(featuresPayload)); err != nil {
		t.Fatalf("invoke y: %v", err)
	}

	if got := len(pub.Named("load_start")); got != 2 {
		t.Fatalf("load_start events = %d, want 2", got)
	}
	if got := len(pub.Named("load_ready")); got != 2 {
		t.Fatalf("load_ready events = %d, want 2", got)
	}
	evicts := pub.Named("evict")
	if len(evicts) != 1 || evicts[0].ModelID != "x" {
		t.Fatalf("evict events = %+v, want one for x", evicts)
	}
}

func TestLoadFailEventPublished(t *testing.T) {
	st := store.NewMemStore()
	pub := NewMemoryPublisher()
	e := New(st, runtime.NewLinearRuntime(), Config{}, WithPublisher(pub))
	defer e.Close()

	_, err := e.Invoke(context.Background(), "missing", []byte(featuresPayload))
	if err == nil {
		t.Fatalf("expected error for missing model")
	}
	fails := pub.Named("load_fail")
	if len(fails) != 1 || fails[0].ModelID != "missing" || fails[0].Fields["stage"] != "fetch" {
		t.Fatalf("load_fail events = %+v", fails)
	}
}
