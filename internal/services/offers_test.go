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

func newOffers(t *testing.T) (*services.OfferService, docstore.Store) {
	t.Helper()
	store, err := docstore.OpenBlob("")
	require.NoError(t, err)
	return services.NewOfferService(store), store
}

func seededUser(t *testing.T, store docstore.Store, id string) *models.User {
	t.Helper()
	rec, err := store.Get(context.Background(), docstore.Users, id)
	require.NoError(t, err)
	var user models.User
	require.NoError(t, docstore.Decode(rec, &user))
	return &user
}

func TestOfferList_Filters(t *testing.T) {
	offers, _ := newOffers(t)
	ctx := context.Background()

	all, err := offers.List(ctx, "", "")
	require.NoError(t, err)
	assert.Len(t, all, 3)

	tech, err := offers.List(ctx, "Tech", "")
	require.NoError(t, err)
	require.Len(t, tech, 2)
	assert.Equal(t, "Programme d'Accélération Tech 2025", tech[0].Title)

	events, err := offers.List(ctx, "", models.OfferTypeEvent)
	require.NoError(t, err)
	require.Len(t, events, 1)
	assert.Equal(t, "Tech Salon Cotonou 2025", events[0].Title)
}

func TestOfferCreate_UsesCompanyNameWhenSet(t *testing.T) {
	offers, store := newOffers(t)
	ctx := context.Background()

	partner := seededUser(t, store, "partner1")
	created, err := offers.Create(ctx, partner, services.CreateOfferRequest{
		Title:       "Bourse Incubation 2026",
		Description: "Six mois d'incubation",
		Type:        models.OfferTypeOffer,
		Sector:      "Tech",
	})
	require.NoError(t, err)
	assert.NotEmpty(t, created.ID)
	assert.Equal(t, partner.CompanyName, created.CreatorName)

	got, err := offers.Get(ctx, created.ID)
	require.NoError(t, err)
	assert.Equal(t, "Bourse Incubation 2026", got.Title)
}

func TestIncrementViews(t *testing.T) {
	offers, _ := newOffers(t)
	ctx := context.Background()

	before, err := offers.Get(ctx, "o1")
	require.NoError(t, err)

	require.NoError(t, offers.IncrementViews(ctx, "o1"))

	after, err := offers.Get(ctx, "o1")
	require.NoError(t, err)
	assert.Equal(t, before.Views+1, after.Views)
}

// TestSaveUnsave_Idempotent checks that repeated saves do not duplicate
// the bookmark and that unsaving twice is harmless.
func TestSaveUnsave_Idempotent(t *testing.T) {
	offers, _ := newOffers(t)
	ctx := context.Background()

	require.NoError(t, offers.Save(ctx, "partner1", "o2"))
	require.NoError(t, offers.Save(ctx, "partner1", "o2"))

	saved, err := offers.SavedOffers(ctx, "partner1")
	require.NoError(t, err)
	require.Len(t, saved, 1)
	assert.Equal(t, "o2", saved[0].ID)

	require.NoError(t, offers.Unsave(ctx, "partner1", "o2"))
	require.NoError(t, offers.Unsave(ctx, "partner1", "o2"))

	saved, err = offers.SavedOffers(ctx, "partner1")
	require.NoError(t, err)
	assert.Empty(t, saved)
}

func TestSavedOffers_SeededBookmark(t *testing.T) {
	offers, _ := newOffers(t)

	saved, err := offers.SavedOffers(context.Background(), "startuper1")
	require.NoError(t, err)
	require.Len(t, saved, 1)
	assert.Equal(t, "o2", saved[0].ID)
}

func TestApply_OncePerUserAndOffer(t *testing.T) {
	offers, store := newOffers(t)
	ctx := context.Background()

	user := seededUser(t, store, "startuper1")

	before, err := offers.Get(ctx, "o2")
	require.NoError(t, err)

	candidacy, err := offers.Apply(ctx, user, "o2", map[string]string{"motivation": "Stand au salon"})
	require.NoError(t, err)
	assert.Equal(t, models.StatusPending, candidacy.Status)
	assert.Equal(t, "MaTech", candidacy.StartupName)
	assert.Equal(t, before.Title, candidacy.OfferTitle)

	after, err := offers.Get(ctx, "o2")
	require.NoError(t, err)
	assert.Equal(t, before.Applications+1, after.Applications)

	_, err = offers.Apply(ctx, user, "o2", nil)
	assert.ErrorIs(t, err, services.ErrAlreadyApplied)
}

func TestApply_RejectedCandidacyStillBlocksReapply(t *testing.T) {
	offers, store := newOffers(t)
	ctx := context.Background()

	user := seededUser(t, store, "startuper1")

	// The seed already holds a candidacy by startuper1 on o1; reject it
	// and confirm a fresh application is still refused.
	_, err := offers.ReviewCandidacy(ctx, "c1", models.StatusRejected)
	require.NoError(t, err)

	_, err = offers.Apply(ctx, user, "o1", nil)
	assert.ErrorIs(t, err, services.ErrAlreadyApplied)
}

func TestApply_UnknownOffer(t *testing.T) {
	offers, store := newOffers(t)

	user := seededUser(t, store, "startuper1")
	_, err := offers.Apply(context.Background(), user, "missing", nil)
	assert.ErrorIs(t, err, services.ErrNotFound)
}

func TestReviewCandidacy(t *testing.T) {
	offers, _ := newOffers(t)
	ctx := context.Background()

	reviewed, err := offers.ReviewCandidacy(ctx, "c1", models.StatusAccepted)
	require.NoError(t, err)
	assert.Equal(t, models.StatusAccepted, reviewed.Status)

	_, err = offers.ReviewCandidacy(ctx, "c1", models.StatusPending)
	assert.Error(t, err)

	byOffer, err := offers.CandidaciesForOffer(ctx, "o1")
	require.NoError(t, err)
	require.Len(t, byOffer, 1)
	assert.Equal(t, models.StatusAccepted, byOffer[0].Status)
}
