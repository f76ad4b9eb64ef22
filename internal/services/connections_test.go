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

func newConnections(t *testing.T) *services.ConnectionService {
	t.Helper()
	store, err := docstore.OpenBlob("")
	require.NoError(t, err)
	return services.NewConnectionService(store)
}

func TestConnectionRequest(t *testing.T) {
	conns := newConnections(t)
	ctx := context.Background()

	conn, err := conns.Request(ctx, "s1", "s2", "Collaborons sur l'agritech")
	require.NoError(t, err)
	assert.Equal(t, models.StatusPending, conn.Status)
	assert.Equal(t, "s1", conn.FromStartupID)
	assert.Equal(t, "s2", conn.ToStartupID)
	assert.NotEmpty(t, conn.ID)

	incoming, err := conns.PendingIncoming(ctx, "s2")
	require.NoError(t, err)
	require.Len(t, incoming, 1)
	assert.Equal(t, conn.ID, incoming[0].ID)

	sent, err := conns.Sent(ctx, "s1")
	require.NoError(t, err)
	assert.Len(t, sent, 1)
}

// TestConnectionRequest_DuplicateBlocked sends a second request between
// the same pair, in the opposite direction, and expects it refused.
func TestConnectionRequest_DuplicateBlocked(t *testing.T) {
	conns := newConnections(t)
	ctx := context.Background()

	_, err := conns.Request(ctx, "s1", "s2", "")
	require.NoError(t, err)

	_, err = conns.Request(ctx, "s1", "s2", "")
	assert.ErrorIs(t, err, services.ErrDuplicateRequest)

	_, err = conns.Request(ctx, "s2", "s1", "")
	assert.ErrorIs(t, err, services.ErrDuplicateRequest)
}

// TestConnectionRequest_RejectionBlocksRetry mirrors the observable rule
// that a rejected pair can never retry: the old record stays and keeps
// blocking new requests.
func TestConnectionRequest_RejectionBlocksRetry(t *testing.T) {
	conns := newConnections(t)
	ctx := context.Background()

	conn, err := conns.Request(ctx, "s1", "s3", "")
	require.NoError(t, err)

	_, err = conns.Reject(ctx, conn.ID, "s3")
	require.NoError(t, err)

	_, err = conns.Request(ctx, "s1", "s3", "")
	assert.ErrorIs(t, err, services.ErrDuplicateRequest)
}

func TestConnectionAccept(t *testing.T) {
	conns := newConnections(t)
	ctx := context.Background()

	conn, err := conns.Request(ctx, "s1", "s2", "")
	require.NoError(t, err)

	accepted, err := conns.Accept(ctx, conn.ID, "s2")
	require.NoError(t, err)
	assert.Equal(t, models.StatusAccepted, accepted.Status)
	assert.NotZero(t, accepted.RespondedAt)

	// Both sides see the accepted connection
	for _, startupID := range []string{"s1", "s2"} {
		list, err := conns.Accepted(ctx, startupID)
		require.NoError(t, err)
		require.Len(t, list, 1)
		assert.Equal(t, conn.ID, list[0].ID)
	}

	incoming, err := conns.PendingIncoming(ctx, "s2")
	require.NoError(t, err)
	assert.Empty(t, incoming)
}

func TestConnectionResolve_RecipientOnly(t *testing.T) {
	conns := newConnections(t)
	ctx := context.Background()

	conn, err := conns.Request(ctx, "s1", "s2", "")
	require.NoError(t, err)

	_, err = conns.Accept(ctx, conn.ID, "s1")
	assert.ErrorIs(t, err, services.ErrForbidden)

	_, err = conns.Reject(ctx, conn.ID, "s3")
	assert.ErrorIs(t, err, services.ErrForbidden)
}

func TestConnectionResolve_Terminal(t *testing.T) {
	conns := newConnections(t)
	ctx := context.Background()

	conn, err := conns.Request(ctx, "s1", "s2", "")
	require.NoError(t, err)

	_, err = conns.Accept(ctx, conn.ID, "s2")
	require.NoError(t, err)

	_, err = conns.Reject(ctx, conn.ID, "s2")
	assert.ErrorIs(t, err, services.ErrAlreadyResolved)

	_, err = conns.Accept(ctx, conn.ID, "s2")
	assert.ErrorIs(t, err, services.ErrAlreadyResolved)
}

func TestConnectionResolve_UnknownRequest(t *testing.T) {
	conns := newConnections(t)

	_, err := conns.Accept(context.Background(), "missing", "s2")
	assert.ErrorIs(t, err, services.ErrNotFound)
}
