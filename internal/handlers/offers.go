package handlers

import (
	"encoding/json"
	"net/http"

	"startupconnect-backend/internal/middleware"
	"startupconnect-backend/internal/models"
	"startupconnect-backend/internal/services"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog/log"
)

// OfferHandler handles offer, bookmark and candidacy HTTP requests.
type OfferHandler struct {
	offerService *services.OfferService
	authService  *services.AuthService
}

// NewOfferHandler creates a new offer handler.
func NewOfferHandler(offerService *services.OfferService, authService *services.AuthService) *OfferHandler {
	return &OfferHandler{
		offerService: offerService,
		authService:  authService,
	}
}

// List handles GET /api/v1/offers?sector=&type=
func (h *OfferHandler) List(w http.ResponseWriter, r *http.Request) {
	sector := r.URL.Query().Get("sector")
	offerType := models.OfferType(r.URL.Query().Get("type"))

	offers, err := h.offerService.List(r.Context(), sector, offerType)
	if err != nil {
		log.Error().Err(err).Msg("Failed to list offers")
		respondError(w, "Failed to list offers", http.StatusInternalServerError)
		return
	}

	respondJSON(w, http.StatusOK, offers)
}

// Get handles GET /api/v1/offers/{offer_id}. Fetching an offer bumps its
// view counter.
func (h *OfferHandler) Get(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	offerID := chi.URLParam(r, "offer_id")

	if err := h.offerService.IncrementViews(ctx, offerID); err != nil {
		respondError(w, err.Error(), statusFor(err))
		return
	}
	offer, err := h.offerService.Get(ctx, offerID)
	if err != nil {
		respondError(w, err.Error(), statusFor(err))
		return
	}

	respondJSON(w, http.StatusOK, offer)
}

// Create handles POST /api/v1/offers
func (h *OfferHandler) Create(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	userID := middleware.GetUserID(ctx)

	var req services.CreateOfferRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, "Invalid request body", http.StatusBadRequest)
		return
	}
	if req.Title == "" || req.Sector == "" {
		respondError(w, "title and sector are required", http.StatusBadRequest)
		return
	}
	if req.Type != models.OfferTypeOffer && req.Type != models.OfferTypeEvent {
		respondError(w, "type must be offer or event", http.StatusBadRequest)
		return
	}

	creator, err := h.authService.UserByID(ctx, userID)
	if err != nil {
		respondError(w, err.Error(), statusFor(err))
		return
	}

	offer, err := h.offerService.Create(ctx, creator, req)
	if err != nil {
		log.Error().Err(err).Str("user_id", userID).Msg("Failed to create offer")
		respondError(w, err.Error(), statusFor(err))
		return
	}

	log.Info().
		Str("offer_id", offer.ID).
		Str("user_id", userID).
		Msg("Offer created")

	respondJSON(w, http.StatusOK, offer)
}

// Save handles PUT /api/v1/offers/{offer_id}/save
func (h *OfferHandler) Save(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	userID := middleware.GetUserID(ctx)
	offerID := chi.URLParam(r, "offer_id")

	if err := h.offerService.Save(ctx, userID, offerID); err != nil {
		respondError(w, err.Error(), statusFor(err))
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// Unsave handles DELETE /api/v1/offers/{offer_id}/save
func (h *OfferHandler) Unsave(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	userID := middleware.GetUserID(ctx)
	offerID := chi.URLParam(r, "offer_id")

	if err := h.offerService.Unsave(ctx, userID, offerID); err != nil {
		respondError(w, err.Error(), statusFor(err))
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// Saved handles GET /api/v1/offers/saved
func (h *OfferHandler) Saved(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	userID := middleware.GetUserID(ctx)

	offers, err := h.offerService.SavedOffers(ctx, userID)
	if err != nil {
		respondError(w, err.Error(), statusFor(err))
		return
	}
	respondJSON(w, http.StatusOK, offers)
}

// ApplyRequest represents a candidacy submission.
type ApplyRequest struct {
	FormData map[string]string `json:"form_data,omitempty"`
}

// Apply handles POST /api/v1/offers/{offer_id}/apply
func (h *OfferHandler) Apply(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	userID := middleware.GetUserID(ctx)
	offerID := chi.URLParam(r, "offer_id")

	var req ApplyRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, "Invalid request body", http.StatusBadRequest)
		return
	}

	user, err := h.authService.UserByID(ctx, userID)
	if err != nil {
		respondError(w, err.Error(), statusFor(err))
		return
	}

	candidacy, err := h.offerService.Apply(ctx, user, offerID, req.FormData)
	if err != nil {
		log.Error().
			Err(err).
			Str("user_id", userID).
			Str("offer_id", offerID).
			Msg("Failed to submit candidacy")
		respondError(w, err.Error(), statusFor(err))
		return
	}

	log.Info().
		Str("candidacy_id", candidacy.ID).
		Str("offer_id", offerID).
		Str("user_id", userID).
		Msg("Candidacy submitted")

	respondJSON(w, http.StatusOK, candidacy)
}

// MyCandidacies handles GET /api/v1/candidacies
func (h *OfferHandler) MyCandidacies(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	userID := middleware.GetUserID(ctx)

	candidacies, err := h.offerService.CandidaciesByUser(ctx, userID)
	if err != nil {
		respondError(w, err.Error(), statusFor(err))
		return
	}
	respondJSON(w, http.StatusOK, candidacies)
}

// OfferCandidacies handles GET /api/v1/offers/{offer_id}/candidacies
func (h *OfferHandler) OfferCandidacies(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	offerID := chi.URLParam(r, "offer_id")

	candidacies, err := h.offerService.CandidaciesForOffer(ctx, offerID)
	if err != nil {
		respondError(w, err.Error(), statusFor(err))
		return
	}
	respondJSON(w, http.StatusOK, candidacies)
}

// ReviewRequest represents a candidacy review decision.
type ReviewRequest struct {
	Status models.Status `json:"status"`
}

// ReviewCandidacy handles PUT /api/v1/candidacies/{candidacy_id}
func (h *OfferHandler) ReviewCandidacy(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	candidacyID := chi.URLParam(r, "candidacy_id")

	var req ReviewRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, "Invalid request body", http.StatusBadRequest)
		return
	}

	candidacy, err := h.offerService.ReviewCandidacy(ctx, candidacyID, req.Status)
	if err != nil {
		respondError(w, err.Error(), statusFor(err))
		return
	}

	log.Info().
		Str("candidacy_id", candidacy.ID).
		Str("status", string(candidacy.Status)).
		Msg("Candidacy reviewed")

	respondJSON(w, http.StatusOK, candidacy)
}
