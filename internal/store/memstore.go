package store

import (
	"context"
	"sort"
	"sync"
	"time"
)

// MemStore is a map-backed Client for tests. It counts fetches per
// identifier and can delay each fetch to simulate cold-start latency.
type MemStore struct {
	mu        sync.Mutex
	artifacts map[string][]byte
	fetches   map[string]int
	delay     time.Duration
	failWith  error
}

func NewMemStore() *MemStore {
	return &MemStore{
		artifacts: make(map[string][]byte),
		fetches:   make(map[string]int),
	}
}

// Put registers an artifact under id.
func (s *MemStore) Put(id string, b []byte) {
	s.mu.Lock()
	s.artifacts[id] = append([]byte(nil), b...)
	s.mu.Unlock()
}

// SetDelay makes every subsequent Fetch sleep for d before returning.
func (s *MemStore) SetDelay(d time.Duration) {
	s.mu.Lock()
	s.delay = d
	s.mu.Unlock()
}

// FailWith makes every subsequent Fetch return err.
func (s *MemStore) FailWith(err error) {
	s.mu.Lock()
	s.failWith = err
	s.mu.Unlock()
}

// Fetches returns how many times id has been fetched.
func (s *MemStore) Fetches(id string) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.fetches[id]
}

func (s *MemStore) Fetch(ctx context.Context, id string) ([]byte, error) {
	s.mu.Lock()
	s.fetches[id]++
	delay := s.delay
	failWith := s.failWith
	b, ok := s.artifacts[id]
	s.mu.Unlock()
	if delay > 0 {
		select {
		case <-time.After(delay):
		case <-ctx.Done():
			return nil, ctx.Err()
		}
	}
	if failWith != nil {
		return nil, failWith
	}
	if !ok {
		return nil, ErrNotFound(id)
	}
	return append([]byte(nil), b...), nil
}

func (s *MemStore) List(ctx context.Context) ([]string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	ids := make([]string, 0, len(s.artifacts))
	for id := range s.artifacts {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids, nil
}
