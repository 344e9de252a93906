package repository

import (
	"context"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/marelvy/linkpulse/internal/model"
)

func newTestSQLite(t *testing.T) *SQLiteStore {
	t.Helper()
	store, err := NewSQLiteStore(filepath.Join(t.TempDir(), "test.db"))
	require.NoError(t, err)
	t.Cleanup(func() { store.Close() })
	return store
}

func TestSQLiteStore_CreateAndGet(t *testing.T) {
	store := newTestSQLite(t)
	ctx := context.Background()

	require.NoError(t, store.Create(ctx, testAlias("abc123", "owner-1", "launch")))

	got, err := store.GetByAlias(ctx, "abc123")
	require.NoError(t, err)
	assert.Equal(t, "abc123", got.Alias)
	assert.Equal(t, "https://example.com/abc123", got.LongURL)
	assert.Equal(t, "launch", got.Topic)
	assert.EqualValues(t, 0, got.ClickCount)
}

func TestSQLiteStore_DuplicateAlias(t *testing.T) {
	store := newTestSQLite(t)
	ctx := context.Background()

	require.NoError(t, store.Create(ctx, testAlias("taken", "owner-1", "")))
	err := store.Create(ctx, testAlias("taken", "owner-2", ""))
	assert.ErrorIs(t, err, ErrDuplicateAlias)
}

func TestSQLiteStore_GetUnknown(t *testing.T) {
	store := newTestSQLite(t)

	_, err := store.GetByAlias(context.Background(), "nope")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestSQLiteStore_RecordClickRoundTrip(t *testing.T) {
	store := newTestSQLite(t)
	ctx := context.Background()

	require.NoError(t, store.Create(ctx, testAlias("abc123", "owner-1", "")))

	event := model.ClickEvent{
		Timestamp:  time.Date(2024, 1, 1, 12, 30, 0, 0, time.UTC),
		UserAgent:  "Mozilla/5.0",
		IPAddress:  "1.1.1.1",
		Location:   &model.Location{Country: "DE", City: "Berlin", Timezone: "Europe/Berlin"},
		OSType:     "Windows",
		DeviceType: "desktop",
	}
	require.NoError(t, store.RecordClick(ctx, "abc123", event))
	require.NoError(t, store.RecordClick(ctx, "abc123", testEvent("2.2.2.2", "Linux")))

	got, err := store.GetByAlias(ctx, "abc123")
	require.NoError(t, err)
	assert.EqualValues(t, 2, got.ClickCount)

	events, err := store.EventsByAlias(ctx, "abc123")
	require.NoError(t, err)
	require.Len(t, events, 2)

	assert.Equal(t, "1.1.1.1", events[0].IPAddress)
	assert.Equal(t, "Windows", events[0].OSType)
	require.NotNil(t, events[0].Location)
	assert.Equal(t, "Berlin", events[0].Location.City)
	assert.Nil(t, events[1].Location)
}

func TestSQLiteStore_RecordClickUnknownAlias(t *testing.T) {
	store := newTestSQLite(t)

	err := store.RecordClick(context.Background(), "ghost", testEvent("1.1.1.1", "Linux"))
	assert.ErrorIs(t, err, ErrNotFound)

	_, err = store.GetByAlias(context.Background(), "ghost")
	assert.ErrorIs(t, err, ErrNotFound)
}

// Counter and event count must stay in lockstep under concurrent
// recording on the same alias.
func TestSQLiteStore_ConcurrentRecordClick(t *testing.T) {
	store := newTestSQLite(t)
	ctx := context.Background()

	require.NoError(t, store.Create(ctx, testAlias("hot", "owner-1", "")))

	const n = 25
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

func TestSQLiteStore_EventsUnknownAliasEmpty(t *testing.T) {
	store := newTestSQLite(t)

	events, err := store.EventsByAlias(context.Background(), "ghost")
	require.NoError(t, err)
	assert.Empty(t, events)
}

func TestSQLiteStore_ListByOwnerAndTopic(t *testing.T) {
	store := newTestSQLite(t)
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
}
