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

func newAdmin(t *testing.T) (*services.AdminService, docstore.Store) {
	t.Helper()
	store, err := docstore.OpenBlob("")
	require.NoError(t, err)
	return services.NewAdminService(store), store
}

func TestAdminLists(t *testing.T) {
	admin, _ := newAdmin(t)
	ctx := context.Background()

	users, err := admin.ListUsers(ctx)
	require.NoError(t, err)
	assert.Len(t, users, 3)

	startups, err := admin.ListStartups(ctx)
	require.NoError(t, err)
	assert.Len(t, startups, 3)
}

func TestSetUserRole(t *testing.T) {
	admin, _ := newAdmin(t)
	ctx := context.Background()

	user, err := admin.SetUserRole(ctx, "partner1", models.RoleAdmin)
	require.NoError(t, err)
	assert.Equal(t, models.RoleAdmin, user.Role)
	assert.Equal(t, "invest@partner.com", user.Email)

	_, err = admin.SetUserRole(ctx, "partner1", models.Role("superuser"))
	assert.Error(t, err)

	_, err = admin.SetUserRole(ctx, "missing", models.RolePartner)
	assert.ErrorIs(t, err, services.ErrNotFound)
}

func TestSetStartupVerified(t *testing.T) {
	admin, _ := newAdmin(t)
	ctx := context.Background()

	startup, err := admin.SetStartupVerified(ctx, "s3", true)
	require.NoError(t, err)
	assert.True(t, startup.Verified)
	assert.Equal(t, "FinTech Solutions", startup.Name)

	startup, err = admin.SetStartupVerified(ctx, "s3", false)
	require.NoError(t, err)
	assert.False(t, startup.Verified)
}

func TestAdminDeletes(t *testing.T) {
	admin, store := newAdmin(t)
	ctx := context.Background()

	require.NoError(t, admin.DeleteOffer(ctx, "o3"))
	_, err := store.Get(ctx, docstore.Offers, "o3")
	assert.ErrorIs(t, err, services.ErrNotFound)

	require.NoError(t, admin.DeleteStartup(ctx, "s2"))
	require.NoError(t, admin.DeleteUser(ctx, "partner1"))

	assert.ErrorIs(t, admin.DeleteUser(ctx, "partner1"), services.ErrNotFound)
}

func TestReportLifecycle(t *testing.T) {
	admin, _ := newAdmin(t)
	ctx := context.Background()

	report, err := admin.CreateReport(ctx, "partner1", "content", "offer", "o2", "Lien externe douteux")
	require.NoError(t, err)
	assert.Equal(t, models.StatusPending, report.Status)
	assert.Zero(t, report.ResolvedAt)

	reports, err := admin.ListReports(ctx)
	require.NoError(t, err)
	assert.Len(t, reports, 2) // the seed ships one pending report

	resolved, err := admin.ResolveReport(ctx, report.ID, models.StatusAccepted)
	require.NoError(t, err)
	assert.Equal(t, models.StatusAccepted, resolved.Status)
	assert.NotZero(t, resolved.ResolvedAt)

	_, err = admin.ResolveReport(ctx, report.ID, models.StatusPending)
	assert.Error(t, err)

	_, err = admin.ResolveReport(ctx, "missing", models.StatusRejected)
	assert.ErrorIs(t, err, services.ErrNotFound)
}
