package services_test

import (
	"context"
	"testing"

	"startupconnect-backend/internal/docstore"
	"startupconnect-backend/internal/models"
	"startupconnect-backend/internal/services"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newStartups(t *testing.T) *services.StartupService {
	t.Helper()
	store, err := docstore.OpenBlob("")
	require.NoError(t, err)
	return services.NewStartupService(store)
}

func TestStartupList_Query(t *testing.T) {
	startups := newStartups(t)
	ctx := context.Background()

	all, err := startups.List(ctx, "")
	require.NoError(t, err)
	assert.Len(t, all, 3)

	byName, err := startups.List(ctx, "matech")
	require.NoError(t, err)
	require.Len(t, byName, 1)
	assert.Equal(t, "MaTech", byName[0].Name)

	bySector, err := startups.List(ctx, "agri")
	require.NoError(t, err)
	require.Len(t, bySector, 1)
	assert.Equal(t, "AgriBenin", bySector[0].Name)

	none, err := startups.List(ctx, "zzz")
	require.NoError(t, err)
	assert.Empty(t, none)
}

func TestStartupGet(t *testing.T) {
	startups := newStartups(t)

	startup, err := startups.Get(context.Background(), "s1")
	require.NoError(t, err)
	assert.Equal(t, "MaTech", startup.Name)
	assert.True(t, startup.Verified)
	require.Len(t, startup.Members, 1)
	assert.Equal(t, "startuper1", startup.Members[0].UserID)

	_, err = startups.Get(context.Background(), "missing")
	assert.ErrorIs(t, err, services.ErrNotFound)
}

// TestRequestJoin_ReusesOpenRequest files the same join request twice
// and expects the open one back instead of a duplicate.
func TestRequestJoin_ReusesOpenRequest(t *testing.T) {
	startups := newStartups(t)
	ctx := context.Background()

	first, err := startups.RequestJoin(ctx, "partner1", "s2")
	require.NoError(t, err)
	assert.Equal(t, models.StatusPending, first.Status)

	second, err := startups.RequestJoin(ctx, "partner1", "s2")
	require.NoError(t, err)
	assert.Equal(t, first.ID, second.ID)

	requests, err := startups.JoinRequests(ctx, "s2")
	require.NoError(t, err)
	assert.Len(t, requests, 1)
}

func TestRequestJoin_UnknownStartup(t *testing.T) {
	startups := newStartups(t)

	_, err := startups.RequestJoin(context.Background(), "partner1", "missing")
	assert.ErrorIs(t, err, services.ErrNotFound)
}
