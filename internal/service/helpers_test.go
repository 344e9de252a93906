package service

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/marelvy/linkpulse/internal/agent"
	"github.com/marelvy/linkpulse/internal/cache"
	"github.com/marelvy/linkpulse/internal/logger"
	"github.com/marelvy/linkpulse/internal/model"
	"github.com/marelvy/linkpulse/internal/repository"
)

// fakeCache is an in-memory cache.Cache with switchable failure modes.
type fakeCache struct {
	mu      sync.Mutex
	entries map[string]string
	failGet bool
	failSet bool
	gets    int
	sets    int
}

func newFakeCache() *fakeCache {
	return &fakeCache{entries: make(map[string]string)}
}

func (f *fakeCache) Get(_ context.Context, key string) (string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.gets++
	if f.failGet {
		return "", errors.New("connection refused")
	}
	val, ok := f.entries[key]
	if !ok {
		return "", cache.ErrMiss
	}
	return val, nil
}

func (f *fakeCache) Set(_ context.Context, key, value string, _ time.Duration) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.sets++
	if f.failSet {
		return errors.New("connection refused")
	}
	f.entries[key] = value
	return nil
}

func (f *fakeCache) Close() error { return nil }

// newTestService wires a service over the given store and cache with a
// fixed clock and the real user-agent parser. c may be nil.
func newTestService(t *testing.T, store repository.Store, c cache.Cache) *Service {
	t.Helper()
	svc := New(store, c, agent.Parse, nil, "http://localhost:8080", logger.Discard())
	svc.now = func() time.Time {
		return time.Date(2024, 1, 2, 10, 0, 0, 0, time.UTC)
	}
	return svc
}

// mustCreate seeds an alias record directly in the store.
func mustCreate(t *testing.T, store repository.Store, alias, owner, topic string) {
	t.Helper()
	err := store.Create(context.Background(), &model.Alias{
		Alias:     alias,
		LongURL:   "https://example.com",
		OwnerID:   owner,
		Topic:     topic,
		CreatedAt: time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC),
	})
	if err != nil {
		t.Fatalf("seed alias %q: %v", alias, err)
	}
}

// mustRecord appends an event via the store's atomic update so the
// counter invariant holds.
func mustRecord(t *testing.T, store repository.Store, alias string, ev model.ClickEvent) {
	t.Helper()
	if err := store.RecordClick(context.Background(), alias, ev); err != nil {
		t.Fatalf("seed event on %q: %v", alias, err)
	}
}

func event(ts time.Time, ip, os, device string) model.ClickEvent {
	return model.ClickEvent{
		Timestamp:  ts,
		UserAgent:  "seed-agent",
		IPAddress:  ip,
		OSType:     os,
		DeviceType: device,
	}
}
