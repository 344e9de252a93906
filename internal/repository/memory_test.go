package repository

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/marelvy/linkpulse/internal/model"
)

func testAlias(alias, owner, topic string) *model.Alias {
	return &model.Alias{
		Alias:     alias,
		LongURL:   "https://example.com/" + alias,
		OwnerID:   owner,
		Topic:     topic,
		CreatedAt: time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC),
	}
}

func testEvent(ip, os string) model.ClickEvent {
	return model.ClickEvent{
		Timestamp:  time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC),
		UserAgent:  "test-agent",
		IPAddress:  ip,
		OSType:     os,
		DeviceType: "desktop",
	}
}

func TestMemoryStore_CreateAndGet(t *testing.T) {
	store := NewMemoryStore()
	ctx := context.Background()

	require.NoError(t, store.Create(ctx, testAlias("abc123", "owner-1", "")))

	got, err := store.GetByAlias(ctx, "abc123")
	require.NoError(t, err)
	assert.Equal(t, "https://example.com/abc123", got.LongURL)
	assert.Equal(t, "owner-1", got.OwnerID)
	assert.EqualValues(t, 0, got.ClickCount)
}

func TestMemoryStore_DuplicateAlias(t *testing.T) {
	store := NewMemoryStore()
	ctx := context.Background()

	require.NoError(t, store.Create(ctx, testAlias("taken", "owner-1", "")))
	err := store.Create(ctx, testAlias("taken", "owner-2", ""))
	assert.ErrorIs(t, err, ErrDuplicateAlias)
}

func TestMemoryStore_GetUnknown(t *testing.T) {
	store := NewMemoryStore()

	_, err := store.GetByAlias(context.Background(), "nope")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestMemoryStore_RecordClick(t *testing.T) {
	store := NewMemoryStore()
	ctx := context.Background()

	require.NoError(t, store.Create(ctx, testAlias("abc123", "owner-1", "")))
	require.NoError(t, store.RecordClick(ctx, "abc123", testEvent("1.1.1.1", "Windows")))
	require.NoError(t, store.RecordClick(ctx, "abc123", testEvent("2.2.2.2", "Linux")))

	got, err := store.GetByAlias(ctx, "abc123")
	require.NoError(t, err)
	assert.EqualValues(t, 2, got.ClickCount)

	events, err := store.EventsByAlias(ctx, "abc123")
	require.NoError(t, err)
	require.Len(t, events, 2)
	// Append order preserved
	assert.Equal(t, "1.1.1.1", events[0].IPAddress)
	assert.Equal(t, "2.2.2.2", events[1].IPAddress)
}

func TestMemoryStore_RecordClickUnknownAlias(t *testing.T) {
	store := NewMemoryStore()

	err := store.RecordClick(context.Background(), "ghost", testEvent("1.1.1.1", "Linux"))
	assert.ErrorIs(t, err, ErrNotFound)

	// Recording must not have created a record
	_, err = store.GetByAlias(context.Background(), "ghost")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestMemoryStore_ConcurrentRecordClick(t *testing.T) {
	store := NewMemoryStore()
	ctx := context.Background()

	require.NoError(t, store.Create(ctx, testAlias("hot", "owner-1", "")))

	const n = 100
	var wg sync.WaitGroup
	for i := 0; i < n; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if err := store.RecordClick(ctx, "hot", testEvent("1.1.1.1", "Linux")); err != nil {
				t.Error(err)
			}
		}()
	}
	wg.Wait()

	got, err := store.GetByAlias(ctx, "hot")
	require.NoError(t, err)
	assert.EqualValues(t, n, got.ClickCount)

	events, err := store.EventsByAlias(ctx, "hot")
	require.NoError(t, err)
	assert.Len(t, events, n)
}

func TestMemoryStore_ListByOwnerAndTopic(t *testing.T) {
	store := NewMemoryStore()
	ctx := context.Background()

	require.NoError(t, store.Create(ctx, testAlias("a1", "owner-1", "launch")))
	require.NoError(t, store.Create(ctx, testAlias("a2", "owner-1", "launch")))
	require.NoError(t, store.Create(ctx, testAlias("a3", "owner-1", "docs")))
	require.NoError(t, store.Create(ctx, testAlias("b1", "owner-2", "launch")))

	all, err := store.ListByOwner(ctx, "owner-1")
	require.NoError(t, err)
	assert.Len(t, all, 3)

	launch, err := store.ListByOwnerAndTopic(ctx, "owner-1", "launch")
	require.NoError(t, err)
	assert.Len(t, launch, 2)

	none, err := store.ListByOwnerAndTopic(ctx, "owner-2", "docs")
	require.NoError(t, err)
	assert.Empty(t, none)
}
