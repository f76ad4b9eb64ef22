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

func newAuth(t *testing.T) (*services.AuthService, docstore.Store) {
	t.Helper()
	store, err := docstore.OpenBlob("")
	require.NoError(t, err)
	groups := services.NewGroupService(store)
	return services.NewAuthService(store, groups, "test-secret"), store
}

func TestLogin_SeededUser(t *testing.T) {
	auth, _ := newAuth(t)

	user, token, err := auth.Login(context.Background(), "ceo@matech.com", "whatever")
	require.NoError(t, err)
	assert.Equal(t, "startuper1", user.ID)
	assert.Equal(t, models.RoleStartuper, user.Role)
	assert.NotEmpty(t, token)

	userID, role, err := auth.ValidateJWT(token)
	require.NoError(t, err)
	assert.Equal(t, "startuper1", userID)
	assert.Equal(t, models.RoleStartuper, role)
}

func TestLogin_UnknownEmail(t *testing.T) {
	auth, _ := newAuth(t)

	_, _, err := auth.Login(context.Background(), "nobody@nowhere.bj", "x")
	assert.ErrorIs(t, err, services.ErrNotFound)
}

func TestLogin_UnverifiedEmail(t *testing.T) {
	auth, store := newAuth(t)
	ctx := context.Background()

	rec, err := docstore.Encode(models.User{
		Email:       "pending@matech.com",
		DisplayName: "Pending",
		Role:        models.RoleStartuper,
	})
	require.NoError(t, err)
	_, err = store.Insert(ctx, docstore.Users, rec)
	require.NoError(t, err)

	_, _, err = auth.Login(ctx, "pending@matech.com", "x")
	assert.ErrorIs(t, err, services.ErrNotVerified)
}

func TestRegister_DuplicateEmail(t *testing.T) {
	auth, _ := newAuth(t)

	_, _, err := auth.Register(context.Background(), services.RegisterRequest{
		Email:       "ceo@matech.com",
		Password:    "longenough",
		DisplayName: "Copycat",
		Role:        models.RolePartner,
	})
	assert.ErrorIs(t, err, services.ErrDuplicateEmail)
}

func TestRegister_InvalidRCCMBlocksStartupCreation(t *testing.T) {
	auth, store := newAuth(t)
	ctx := context.Background()

	before, err := store.List(ctx, docstore.Startups, nil)
	require.NoError(t, err)

	_, _, err = auth.Register(ctx, services.RegisterRequest{
		Email:         "newco@example.bj",
		Password:      "longenough",
		DisplayName:   "New Founder",
		Role:          models.RoleStartuper,
		Sector:        "Tech",
		StartupChoice: "new",
		StartupName:   "NewCo",
		RCCM:          "RB/cot/2024/A/001",
	})
	assert.ErrorIs(t, err, services.ErrInvalidFormat)

	after, err := store.List(ctx, docstore.Startups, nil)
	require.NoError(t, err)
	assert.Len(t, after, len(before))
}

// TestRegister_NewStartupProvisionsMembershipAndGroup covers the side
// effects of a startuper founding a new startup in one call.
func TestRegister_NewStartupProvisionsMembershipAndGroup(t *testing.T) {
	auth, store := newAuth(t)
	ctx := context.Background()

	user, token, err := auth.Register(ctx, services.RegisterRequest{
		Email:         "founder@energie.bj",
		Password:      "longenough",
		DisplayName:   "Awa Sow",
		Role:          models.RoleStartuper,
		Sector:        "Energie",
		JobTitle:      "CEO",
		IsFounder:     true,
		StartupChoice: "new",
		StartupName:   "SolarBenin",
		Location:      "Cotonou",
		RCCM:          "RB/COT/2025/B/042",
	})
	require.NoError(t, err)
	assert.NotEmpty(t, token)
	assert.True(t, user.EmailVerified)
	require.NotEmpty(t, user.StartupID)

	// Startup exists, unverified, with the founder as member
	rec, err := store.Get(ctx, docstore.Startups, user.StartupID)
	require.NoError(t, err)
	var startup models.Startup
	require.NoError(t, docstore.Decode(rec, &startup))
	assert.False(t, startup.Verified)
	require.Len(t, startup.Members, 1)
	assert.Equal(t, user.ID, startup.Members[0].UserID)
	assert.Equal(t, "CEO", startup.Members[0].Role)
	assert.True(t, startup.Members[0].IsFounder)

	// Sector group was auto-created and joined
	groups := services.NewGroupService(store)
	userGroups, err := groups.GroupsForUser(ctx, user.ID)
	require.NoError(t, err)
	require.Len(t, userGroups, 1)
	assert.Equal(t, "Secteur : Energie", userGroups[0].Name)
}

func TestRegister_ExistingStartupFilesJoinRequest(t *testing.T) {
	auth, store := newAuth(t)
	ctx := context.Background()

	user, _, err := auth.Register(ctx, services.RegisterRequest{
		Email:             "dev@matech.com",
		Password:          "longenough",
		DisplayName:       "Dev Two",
		Role:              models.RoleStartuper,
		Sector:            "Tech",
		StartupChoice:     "existing",
		ExistingStartupID: "s1",
	})
	require.NoError(t, err)
	assert.Equal(t, "s1", user.StartupID)

	requests, err := store.List(ctx, docstore.JoinRequests, nil)
	require.NoError(t, err)
	require.Len(t, requests, 1)
	assert.Equal(t, user.ID, requests[0]["user_id"])
	assert.Equal(t, "s1", requests[0]["startup_id"])
	assert.Equal(t, string(models.StatusPending), requests[0]["status"])
}

func TestVerifyEmail(t *testing.T) {
	auth, store := newAuth(t)
	ctx := context.Background()

	rec, err := docstore.Encode(models.User{
		Email:       "pending@matech.com",
		DisplayName: "Pending",
		Role:        models.RoleStartuper,
	})
	require.NoError(t, err)
	inserted, err := store.Insert(ctx, docstore.Users, rec)
	require.NoError(t, err)

	user, err := auth.VerifyEmail(ctx, inserted.ID())
	require.NoError(t, err)
	assert.True(t, user.EmailVerified)
}

// TestRegisterVerifyAndFeed walks the full scenario: a startuper founds
// MaTech's namesake, an admin verifies it, and the sector feed contains
// the seeded accelerator offer.
func TestRegisterVerifyAndFeed(t *testing.T) {
	auth, store := newAuth(t)
	ctx := context.Background()

	user, _, err := auth.Register(ctx, services.RegisterRequest{
		Email:         "founder2@matech.bj",
		Password:      "longenough",
		DisplayName:   "Deuxième Fondateur",
		Role:          models.RoleStartuper,
		Sector:        "Tech",
		StartupChoice: "new",
		StartupName:   "MaTech",
		Location:      "Cotonou",
		RCCM:          "RB/COT/2024/A/001",
	})
	require.NoError(t, err)

	startups := services.NewStartupService(store)
	created, err := startups.Get(ctx, user.StartupID)
	require.NoError(t, err)
	assert.False(t, created.Verified)

	_, _, err = auth.Register(ctx, services.RegisterRequest{
		Email:       "admin2@adpme.bj",
		Password:    "longenough",
		DisplayName: "Second Admin",
		Role:        models.RoleAdmin,
	})
	require.NoError(t, err)

	admin := services.NewAdminService(store)
	verified, err := admin.SetStartupVerified(ctx, user.StartupID, true)
	require.NoError(t, err)
	assert.True(t, verified.Verified)

	offers := services.NewOfferService(store)
	feed, err := offers.List(ctx, "Tech", "")
	require.NoError(t, err)

	titles := make([]string, 0, len(feed))
	for _, o := range feed {
		titles = append(titles, o.Title)
	}
	assert.Contains(t, titles, "Programme d'Accélération Tech 2025")
}
