package engine

import (
	"context"
	"sync"
	"testing"
	"time"

	"mmserve/internal/runtime"
	"mmserve/internal/store"
)

// linearArtifact is a valid artifact for the built-in linear runtime:
// prediction = 2*x0 + 3*x1 + 1.
const linearArtifact = `{"weights":[2,3],"intercept":1}`

// featuresPayload predicts 2*1 + 3*2 + 1 = 9 against linearArtifact.
const featuresPayload = `{"features":[1,2]}`

const wantPrediction = `{"prediction":9}`

// newTestEngine wires a MemStore and the linear runtime.
func newTestEngine(t *testing.T, st *store.MemStore, cfg Config) *Engine {
	t.Helper()
	e := New(st, runtime.NewLinearRuntime(), cfg)
	t.Cleanup(func() { _ = e.Close() })
	return e
}

func mustInvoke(t *testing.T, e *Engine, id, payload string) string {
	t.Helper()
	out, err := e.Invoke(context.Background(), id, []byte(payload))
	if err != nil {
		t.Fatalf("invoke %s: %v", id, err)
	}
	return string(out)
}

// recordRuntime wraps construction so tests can observe and close-track
// every handle, or force construction failures.
type recordRuntime struct {
	mu        sync.Mutex
	inner     runtime.Runtime
	handles   []*recordHandle
	construct int
	failWith  error
}

func newRecordRuntime() *recordRuntime {
	return &recordRuntime{inner: runtime.NewLinearRuntime()}
}

func (r *recordRuntime) Construct(ctx context.Context, artifact []byte) (runtime.Handle, error) {
	r.mu.Lock()
	r.construct++
	failWith := r.failWith
	r.mu.Unlock()
	if failWith != nil {
		return nil, failWith
	}
	h, err := r.inner.Construct(ctx, artifact)
	if err != nil {
		return nil, err
	}
	rh := &recordHandle{inner: h}
	r.mu.Lock()
	r.handles = append(r.handles, rh)
	r.mu.Unlock()
	return rh, nil
}

func (r *recordRuntime) constructed() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.construct
}

func (r *recordRuntime) closedHandles() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	n := 0
	for _, h := range r.handles {
		if h.isClosed() {
			n++
		}
	}
	return n
}

type recordHandle struct {
	mu      sync.Mutex
	inner   runtime.Handle
	closed  bool
	blockCh chan struct{}
	panics  bool
}

func (h *recordHandle) Predict(ctx context.Context, payload []byte) ([]byte, error) {
	h.mu.Lock()
	blockCh := h.blockCh
	panics := h.panics
	h.mu.Unlock()
	if panics {
		panic("predict exploded")
	}
	if blockCh != nil {
		select {
		case <-blockCh:
		case <-ctx.Done():
			return nil, ctx.Err()
		}
	}
	return h.inner.Predict(ctx, payload)
}

func (h *recordHandle) Close() error {
	h.mu.Lock()
	h.closed = true
	h.mu.Unlock()
	return h.inner.Close()
}

func (h *recordHandle) setBlock(ch chan struct{}) {
	h.mu.Lock()
	h.blockCh = ch
	h.mu.Unlock()
}

func (h *recordHandle) setPanics() {
	h.mu.Lock()
	h.panics = true
	h.mu.Unlock()
}

func (h *recordHandle) isClosed() bool {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.closed
}

// waitUntil polls cond for up to 2s.
func waitUntil(t *testing.T, cond func() bool, msg string) {
	t.Helper()
	deadline := time.Now().Add(2 * time.Second)
	for time.Now().Before(deadline) {
		if cond() {
			return
		}
		time.Sleep(2 * time.Millisecond)
	}
	t.Fatalf("timed out waiting for %s", msg)
}
