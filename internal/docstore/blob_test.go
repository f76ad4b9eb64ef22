package docstore_test

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"startupconnect-backend/internal/docstore"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newStore(t *testing.T) *docstore.Blob {
	t.Helper()
	store, err := docstore.OpenBlob("")
	require.NoError(t, err)
	return store
}

// TestOpenBlob_SeedsFixtures verifies that a fresh store is explorable
// without a registration step.
func TestOpenBlob_SeedsFixtures(t *testing.T) {
	store := newStore(t)
	ctx := context.Background()

	users, err := store.List(ctx, docstore.Users, nil)
	require.NoError(t, err)
	assert.Len(t, users, 3)

	startup, err := store.Get(ctx, docstore.Startups, "s1")
	require.NoError(t, err)
	assert.Equal(t, "MaTech", startup["name"])

	offer, err := store.Get(ctx, docstore.Offers, "o1")
	require.NoError(t, err)
	assert.Equal(t, "Programme d'Accélération Tech 2025", offer["title"])

	// Relations start empty
	conns, err := store.List(ctx, docstore.StartupConnections, nil)
	require.NoError(t, err)
	assert.Empty(t, conns)
}

// TestInsertThenGet verifies that an inserted record comes back equal,
// except for the generated id.
func TestInsertThenGet(t *testing.T) {
	store := newStore(t)
	ctx := context.Background()

	inserted, err := store.Insert(ctx, docstore.Posts, docstore.Record{
		"title": "hello",
		"score": float64(3),
	})
	require.NoError(t, err)
	require.NotEmpty(t, inserted.ID())

	got, err := store.Get(ctx, docstore.Posts, inserted.ID())
	require.NoError(t, err)
	assert.Equal(t, "hello", got["title"])
	assert.Equal(t, float64(3), got["score"])
	assert.Equal(t, inserted.ID(), got.ID())
}

// TestInsert_GeneratedIDsAreUnique covers rapid successive inserts within
// the same millisecond.
func TestInsert_GeneratedIDsAreUnique(t *testing.T) {
	store := newStore(t)
	ctx := context.Background()

	seen := make(map[string]bool)
	for i := 0; i < 100; i++ {
		rec, err := store.Insert(ctx, docstore.Posts, docstore.Record{"n": float64(i)})
		require.NoError(t, err)
		assert.False(t, seen[rec.ID()], "id %s generated twice", rec.ID())
		seen[rec.ID()] = true
	}
}

func TestUpdate_MergesPatch(t *testing.T) {
	store := newStore(t)
	ctx := context.Background()

	inserted, err := store.Insert(ctx, docstore.Posts, docstore.Record{
		"title": "before",
		"kept":  "yes",
	})
	require.NoError(t, err)

	merged, err := store.Update(ctx, docstore.Posts, inserted.ID(), docstore.Record{
		"title": "after",
		"extra": "new",
	})
	require.NoError(t, err)
	assert.Equal(t, "after", merged["title"])
	assert.Equal(t, "yes", merged["kept"])
	assert.Equal(t, "new", merged["extra"])
}

func TestUpdate_AbsentIDFailsAndLeavesCollectionUnchanged(t *testing.T) {
	store := newStore(t)
	ctx := context.Background()

	before, err := store.List(ctx, docstore.Offers, nil)
	require.NoError(t, err)

	_, err = store.Update(ctx, docstore.Offers, "missing", docstore.Record{"title": "x"})
	assert.ErrorIs(t, err, docstore.ErrNotFound)

	after, err := store.List(ctx, docstore.Offers, nil)
	require.NoError(t, err)
	assert.Equal(t, before, after)
}

func TestDelete_ShrinksByOneAndIsNotIdempotent(t *testing.T) {
	store := newStore(t)
	ctx := context.Background()

	before, err := store.List(ctx, docstore.Offers, nil)
	require.NoError(t, err)

	require.NoError(t, store.Delete(ctx, docstore.Offers, "o3"))

	after, err := store.List(ctx, docstore.Offers, nil)
	require.NoError(t, err)
	assert.Len(t, after, len(before)-1)

	// Repeating the same call fails with NotFound
	assert.ErrorIs(t, store.Delete(ctx, docstore.Offers, "o3"), docstore.ErrNotFound)
}

func TestList_FilterAndInsertionOrder(t *testing.T) {
	store := newStore(t)
	ctx := context.Background()

	offers, err := store.List(ctx, docstore.Offers, func(rec docstore.Record) bool {
		return rec["sector"] == "Tech"
	})
	require.NoError(t, err)
	require.Len(t, offers, 2)
	assert.Equal(t, "o1", offers[0].ID())
	assert.Equal(t, "o2", offers[1].ID())
}

// TestSubscribe_MutationsEmitEvents verifies the change broadcast fired
// after every mutating call. Events carry no payload.
func TestSubscribe_MutationsEmitEvents(t *testing.T) {
	store := newStore(t)
	ctx := context.Background()

	events, unsubscribe := store.Subscribe()
	defer unsubscribe()

	_, err := store.Insert(ctx, docstore.Posts, docstore.Record{"title": "x"})
	require.NoError(t, err)

	select {
	case <-events:
	case <-time.After(time.Second):
		t.Fatal("expected a change event after insert")
	}
}

// TestPersistence_SurvivesReopen verifies the blob file round trip.
func TestPersistence_SurvivesReopen(t *testing.T) {
	path := filepath.Join(t.TempDir(), "data.json")
	ctx := context.Background()

	store, err := docstore.OpenBlob(path)
	require.NoError(t, err)

	inserted, err := store.Insert(ctx, docstore.Posts, docstore.Record{"title": "persisted"})
	require.NoError(t, err)

	reopened, err := docstore.OpenBlob(path)
	require.NoError(t, err)

	got, err := reopened.Get(ctx, docstore.Posts, inserted.ID())
	require.NoError(t, err)
	assert.Equal(t, "persisted", got["title"])
}

// TestReadsDoNotAliasStoreState guards against callers mutating records
// in place and bypassing the write path.
func TestReadsDoNotAliasStoreState(t *testing.T) {
	store := newStore(t)
	ctx := context.Background()

	rec, err := store.Get(ctx, docstore.Offers, "o1")
	require.NoError(t, err)
	rec["title"] = "tampered"

	fresh, err := store.Get(ctx, docstore.Offers, "o1")
	require.NoError(t, err)
	assert.Equal(t, "Programme d'Accélération Tech 2025", fresh["title"])
}
