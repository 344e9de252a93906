package repository

import (
	"context"
	"errors"

	"github.com/marelvy/linkpulse/internal/model"
)

var (
	ErrNotFound       = errors.New("alias not found")
	ErrDuplicateAlias = errors.New("alias already exists")
)

// Store is the durable alias mapping plus its append-only click history.
//
// RecordClick is the one operation that needs atomicity: the counter
// increment and the event append must commit together, so concurrent
// recordings on the same alias never lose an event or let the counter
// drift from the event count. Implementations provide this with a
// transaction (SQL) or a single critical section (memory).
type Store interface {
	// Create inserts a new alias record. ErrDuplicateAlias when the
	// alias is already taken.
	Create(ctx context.Context, a *model.Alias) error

	// GetByAlias returns the record without its event history.
	GetByAlias(ctx context.Context, alias string) (*model.Alias, error)

	// RecordClick atomically increments click_count and appends the
	// event. ErrNotFound when the alias does not exist; recording never
	// creates a record.
	RecordClick(ctx context.Context, alias string, event model.ClickEvent) error

	// EventsByAlias returns the full click history in append order. An
	// unknown alias yields an empty history, not an error.
	EventsByAlias(ctx context.Context, alias string) ([]model.ClickEvent, error)

	// ListByOwner returns every record owned by ownerID, without events.
	ListByOwner(ctx context.Context, ownerID string) ([]model.Alias, error)

	// ListByOwnerAndTopic narrows ListByOwner to one topic.
	ListByOwnerAndTopic(ctx context.Context, ownerID, topic string) ([]model.Alias, error)

	Close() error
}
