package services

import (
	"context"
	"fmt"
	"time"

	"startupconnect-backend/internal/docstore"
	"startupconnect-backend/internal/models"
)

// OfferService manages opportunity postings, bookmarks and candidacies.
type OfferService struct {
	store docstore.Store
}

// NewOfferService creates a new offer service.
func NewOfferService(store docstore.Store) *OfferService {
	return &OfferService{store: store}
}

// CreateOfferRequest carries the offer creation form.
type CreateOfferRequest struct {
	Title           string           `json:"title"`
	Description     string           `json:"description"`
	Type            models.OfferType `json:"type"`
	Sector          string           `json:"sector"`
	Deadline        int64            `json:"deadline,omitempty"`
	HasInternalForm bool             `json:"has_internal_form"`
	ExternalFormURL string           `json:"external_form_url,omitempty"`
}

// Create posts a new offer on behalf of a partner or admin.
func (s *OfferService) Create(ctx context.Context, creator *models.User, req CreateOfferRequest) (*models.Offer, error) {
	creatorName := creator.CompanyName
	if creatorName == "" {
		creatorName = creator.DisplayName
	}

	rec, err := docstore.Encode(models.Offer{
		Title:           req.Title,
		Description:     req.Description,
		Type:            req.Type,
		Sector:          req.Sector,
		CreatorID:       creator.ID,
		CreatorName:     creatorName,
		Deadline:        req.Deadline,
		HasInternalForm: req.HasInternalForm,
		ExternalFormURL: req.ExternalFormURL,
		CreatedAt:       time.Now().UnixMilli(),
	})
	if err != nil {
		return nil, err
	}
	inserted, err := s.store.Insert(ctx, docstore.Offers, rec)
	if err != nil {
		return nil, fmt.Errorf("failed to create offer: %w", err)
	}

	var offer models.Offer
	if err := docstore.Decode(inserted, &offer); err != nil {
		return nil, err
	}
	return &offer, nil
}

// List returns offers, optionally narrowed by sector and type.
func (s *OfferService) List(ctx context.Context, sector string, offerType models.OfferType) ([]models.Offer, error) {
	recs, err := s.store.List(ctx, docstore.Offers, func(rec docstore.Record) bool {
		if sector != "" {
			if sec, _ := rec["sector"].(string); sec != sector {
				return false
			}
		}
		if offerType != "" {
			if t, _ := rec["type"].(string); t != string(offerType) {
				return false
			}
		}
		return true
	})
	if err != nil {
		return nil, err
	}
	return decodeAll[models.Offer](recs)
}

// Get returns one offer by id.
func (s *OfferService) Get(ctx context.Context, id string) (*models.Offer, error) {
	rec, err := s.store.Get(ctx, docstore.Offers, id)
	if err != nil {
		return nil, err
	}
	var offer models.Offer
	if err := docstore.Decode(rec, &offer); err != nil {
		return nil, err
	}
	return &offer, nil
}

// IncrementViews bumps the offer's view counter. The read-then-patch is
// deliberately not atomic; the counter is cosmetic.
func (s *OfferService) IncrementViews(ctx context.Context, id string) error {
	offer, err := s.Get(ctx, id)
	if err != nil {
		return err
	}
	_, err = s.store.Update(ctx, docstore.Offers, id, docstore.Record{"views": offer.Views + 1})
	return err
}

// Save bookmarks an offer for a user. Saving an already-saved offer does
// not duplicate the relation.
func (s *OfferService) Save(ctx context.Context, userID, offerID string) error {
	existing, err := s.savedRecords(ctx, userID, offerID)
	if err != nil {
		return err
	}
	if len(existing) > 0 {
		return nil
	}

	rec, err := docstore.Encode(models.SavedOffer{
		UserID:  userID,
		OfferID: offerID,
		SavedAt: time.Now().UnixMilli(),
	})
	if err != nil {
		return err
	}
	if _, err := s.store.Insert(ctx, docstore.SavedOffers, rec); err != nil {
		return fmt.Errorf("failed to save offer: %w", err)
	}
	return nil
}

// Unsave removes the bookmark; unsaving a not-saved offer is a no-op.
func (s *OfferService) Unsave(ctx context.Context, userID, offerID string) error {
	existing, err := s.savedRecords(ctx, userID, offerID)
	if err != nil {
		return err
	}
	for _, rec := range existing {
		if err := s.store.Delete(ctx, docstore.SavedOffers, rec.ID()); err != nil {
			return err
		}
	}
	return nil
}

// SavedOffers returns the offers a user has bookmarked.
func (s *OfferService) SavedOffers(ctx context.Context, userID string) ([]models.Offer, error) {
	saved, err := s.store.List(ctx, docstore.SavedOffers, func(rec docstore.Record) bool {
		u, _ := rec["user_id"].(string)
		return u == userID
	})
	if err != nil {
		return nil, err
	}

	offerIDs := make(map[string]bool, len(saved))
	for _, rec := range saved {
		if id, ok := rec["offer_id"].(string); ok {
			offerIDs[id] = true
		}
	}

	recs, err := s.store.List(ctx, docstore.Offers, func(rec docstore.Record) bool {
		return offerIDs[rec.ID()]
	})
	if err != nil {
		return nil, err
	}
	return decodeAll[models.Offer](recs)
}

// Apply submits a candidacy for an offer on behalf of the user's startup.
// A user can apply to an offer at most once, regardless of the earlier
// candidacy's outcome.
func (s *OfferService) Apply(ctx context.Context, user *models.User, offerID string, formData map[string]string) (*models.Candidacy, error) {
	offer, err := s.Get(ctx, offerID)
	if err != nil {
		return nil, err
	}

	existing, err := s.store.List(ctx, docstore.Candidacies, func(rec docstore.Record) bool {
		o, _ := rec["offer_id"].(string)
		u, _ := rec["user_id"].(string)
		return o == offerID && u == user.ID
	})
	if err != nil {
		return nil, err
	}
	if len(existing) > 0 {
		return nil, ErrAlreadyApplied
	}

	startupName := ""
	if user.StartupID != "" {
		if rec, err := s.store.Get(ctx, docstore.Startups, user.StartupID); err == nil {
			startupName, _ = rec["name"].(string)
		}
	}

	rec, err := docstore.Encode(models.Candidacy{
		OfferID:     offerID,
		OfferTitle:  offer.Title,
		StartupID:   user.StartupID,
		StartupName: startupName,
		UserID:      user.ID,
		Status:      models.StatusPending,
		FormData:    formData,
		SubmittedAt: time.Now().UnixMilli(),
	})
	if err != nil {
		return nil, err
	}
	inserted, err := s.store.Insert(ctx, docstore.Candidacies, rec)
	if err != nil {
		return nil, fmt.Errorf("failed to submit candidacy: %w", err)
	}

	if _, err := s.store.Update(ctx, docstore.Offers, offerID, docstore.Record{"applications": offer.Applications + 1}); err != nil {
		return nil, fmt.Errorf("failed to bump applications counter: %w", err)
	}

	var candidacy models.Candidacy
	if err := docstore.Decode(inserted, &candidacy); err != nil {
		return nil, err
	}
	return &candidacy, nil
}

// CandidaciesByUser lists a user's candidacies.
func (s *OfferService) CandidaciesByUser(ctx context.Context, userID string) ([]models.Candidacy, error) {
	recs, err := s.store.List(ctx, docstore.Candidacies, func(rec docstore.Record) bool {
		u, _ := rec["user_id"].(string)
		return u == userID
	})
	if err != nil {
		return nil, err
	}
	return decodeAll[models.Candidacy](recs)
}

// CandidaciesForOffer lists the candidacies submitted to an offer.
func (s *OfferService) CandidaciesForOffer(ctx context.Context, offerID string) ([]models.Candidacy, error) {
	recs, err := s.store.List(ctx, docstore.Candidacies, func(rec docstore.Record) bool {
		o, _ := rec["offer_id"].(string)
		return o == offerID
	})
	if err != nil {
		return nil, err
	}
	return decodeAll[models.Candidacy](recs)
}

// ReviewCandidacy resolves a pending candidacy.
func (s *OfferService) ReviewCandidacy(ctx context.Context, candidacyID string, status models.Status) (*models.Candidacy, error) {
	if status != models.StatusAccepted && status != models.StatusRejected {
		return nil, fmt.Errorf("invalid candidacy status %q", status)
	}

	rec, err := s.store.Update(ctx, docstore.Candidacies, candidacyID, docstore.Record{"status": string(status)})
	if err != nil {
		return nil, err
	}
	var candidacy models.Candidacy
	if err := docstore.Decode(rec, &candidacy); err != nil {
		return nil, err
	}
	return &candidacy, nil
}

func (s *OfferService) savedRecords(ctx context.Context, userID, offerID string) ([]docstore.Record, error) {
	return s.store.List(ctx, docstore.SavedOffers, func(rec docstore.Record) bool {
		u, _ := rec["user_id"].(string)
		o, _ := rec["offer_id"].(string)
		return u == userID && o == offerID
	})
}
