package service

import (
	"context"
	"testing"

	"github.com/marelvy/linkpulse/internal/repository"
)

func TestResolve_StoreOnly(t *testing.T) {
	store := repository.NewMemoryStore()
	mustCreate(t, store, "abc123", "owner-1", "")
	svc := newTestService(t, store, nil)

	got, err := svc.Resolve(context.Background(), "abc123")
	if err != nil {
		t.Fatalf("Resolve failed: %v", err)
	}
	if got != "https://example.com" {
		t.Errorf("Expected destination URL, got: %s", got)
	}
}

func TestResolve_NotFound(t *testing.T) {
	store := repository.NewMemoryStore()

	// With and without a cache the answer must be the same
	for _, c := range []*fakeCache{nil, newFakeCache()} {
		svc := newTestService(t, store, nil)
		if c != nil {
			svc = newTestService(t, store, c)
		}
		_, err := svc.Resolve(context.Background(), "ghost")
		if err != ErrNotFound {
			t.Errorf("Expected ErrNotFound, got: %v", err)
		}
	}
}

func TestResolve_CacheHitSkipsStore(t *testing.T) {
	// The cached value wins without a freshness check, even if the
	// store holds something else
	store := repository.NewMemoryStore()
	mustCreate(t, store, "abc123", "owner-1", "")

	c := newFakeCache()
	c.entries["url:abc123"] = "https://cached.example.com"

	svc := newTestService(t, store, c)
	got, err := svc.Resolve(context.Background(), "abc123")
	if err != nil {
		t.Fatalf("Resolve failed: %v", err)
	}
	if got != "https://cached.example.com" {
		t.Errorf("Expected cached value, got: %s", got)
	}
}

func TestResolve_MissPopulatesCache(t *testing.T) {
	store := repository.NewMemoryStore()
	mustCreate(t, store, "abc123", "owner-1", "")
	c := newFakeCache()
	svc := newTestService(t, store, c)

	if _, err := svc.Resolve(context.Background(), "abc123"); err != nil {
		t.Fatalf("Resolve failed: %v", err)
	}

	if c.entries["url:abc123"] != "https://example.com" {
		t.Errorf("Expected cache populated after miss, got: %q", c.entries["url:abc123"])
	}

	// Second resolve is served from cache
	c.failSet = true // a store fallback would now trip the Set counter check
	before := c.gets
	if _, err := svc.Resolve(context.Background(), "abc123"); err != nil {
		t.Fatalf("Second resolve failed: %v", err)
	}
	if c.gets != before+1 {
		t.Errorf("Expected exactly one cache read, got %d", c.gets-before)
	}
}

func TestResolve_CacheFailuresAreSwallowed(t *testing.T) {
	store := repository.NewMemoryStore()
	mustCreate(t, store, "abc123", "owner-1", "")

	c := newFakeCache()
	c.failGet = true
	c.failSet = true

	svc := newTestService(t, store, c)
	got, err := svc.Resolve(context.Background(), "abc123")
	if err != nil {
		t.Fatalf("Resolve must survive a broken cache, got: %v", err)
	}
	if got != "https://example.com" {
		t.Errorf("Expected store value, got: %s", got)
	}
}
