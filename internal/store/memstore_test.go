package store

import (
	"context"
	"testing"
)

func TestMemStoreCountsFetches(t *testing.T) {
	s := NewMemStore()
	s.Put("m1", []byte("abc"))
	ctx := context.Background()
	if _, err := s.Fetch(ctx, "m1"); err != nil {
		t.Fatalf("fetch: %v", err)
	}
	if _, err := s.Fetch(ctx, "m1"); err != nil {
		t.Fatalf("fetch: %v", err)
	}
	if n := s.Fetches("m1"); n != 2 {
		t.Fatalf("fetches = %d, want 2", n)
	}
	if _, err := s.Fetch(ctx, "other"); err == nil || !IsNotFound(err) {
		t.Fatalf("expected not-found, got %v", err)
	}
}

func TestMemStoreReturnsCopies(t *testing.T) {
	s := NewMemStore()
	s.Put("m1", []byte("abc"))
	b, err := s.Fetch(context.Background(), "m1")
	if err != nil {
		t.Fatalf("fetch: %v", err)
	}
	b[0] = 'z'
	again, _ := s.Fetch(context.Background(), "m1")
	if string(again) != "abc" {
		t.Fatalf("stored artifact mutated via returned slice")
	}
}

func TestMemStoreList(t *testing.T) {
	s := NewMemStore()
	s.Put("b", []byte("x"))
	s.Put("a", []byte("x"))
	ids, err := s.List(context.Background())
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(ids) != 2 || ids[0] != "a" || ids[1] != "b" {
		t.Fatalf("ids = %v", ids)
	}
}
