package repository

import (
	"context"
	"sync"

	"github.com/marelvy/linkpulse/internal/model"
)

// MemoryStore is a mutex-guarded in-process Store. Used by tests and as
// a zero-dependency fallback for local development.
type MemoryStore struct {
	mu      sync.RWMutex
	records map[string]*memoryRecord
}

type memoryRecord struct {
	alias  model.Alias
	events []model.ClickEvent
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{records: make(map[string]*memoryRecord)}
}

func (s *MemoryStore) Create(_ context.Context, a *model.Alias) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.records[a.Alias]; exists {
		return ErrDuplicateAlias
	}
	s.records[a.Alias] = &memoryRecord{alias: *a}
	return nil
}

func (s *MemoryStore) GetByAlias(_ context.Context, alias string) (*model.Alias, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	rec, ok := s.records[alias]
	if !ok {
		return nil, ErrNotFound
	}
	a := rec.alias
	return &a, nil
}

// RecordClick holds the write lock across the increment and the append,
// which is the whole atomicity story for this store.
func (s *MemoryStore) RecordClick(_ context.Context, alias string, event model.ClickEvent) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	rec, ok := s.records[alias]
	if !ok {
		return ErrNotFound
	}
	rec.alias.ClickCount++
	rec.events = append(rec.events, event)
	return nil
}

func (s *MemoryStore) EventsByAlias(_ context.Context, alias string) ([]model.ClickEvent, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	rec, ok := s.records[alias]
	if !ok {
		return nil, nil
	}
	out := make([]model.ClickEvent, len(rec.events))
	copy(out, rec.events)
	return out, nil
}

func (s *MemoryStore) ListByOwner(_ context.Context, ownerID string) ([]model.Alias, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var out []model.Alias
	for _, rec := range s.records {
		if rec.alias.OwnerID == ownerID {
			out = append(out, rec.alias)
		}
	}
	return out, nil
}

func (s *MemoryStore) ListByOwnerAndTopic(_ context.Context, ownerID, topic string) ([]model.Alias, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var out []model.Alias
	for _, rec := range s.records {
		if rec.alias.OwnerID == ownerID && rec.alias.Topic == topic {
			out = append(out, rec.alias)
		}
	}
	return out, nil
}

func (s *MemoryStore) Close() error {
	return nil
}
