package handlers

import (
	"net/http"

	"startupconnect-backend/internal/middleware"
	"startupconnect-backend/internal/services"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog/log"
)

// StartupHandler handles the startup directory HTTP requests.
type StartupHandler struct {
	startupService *services.StartupService
}

// NewStartupHandler creates a new startup handler.
func NewStartupHandler(startupService *services.StartupService) *StartupHandler {
	return &StartupHandler{startupService: startupService}
}

// List handles GET /api/v1/startups?q=
func (h *StartupHandler) List(w http.ResponseWriter, r *http.Request) {
	startups, err := h.startupService.List(r.Context(), r.URL.Query().Get("q"))
	if err != nil {
		respondError(w, err.Error(), statusFor(err))
		return
	}
	respondJSON(w, http.StatusOK, startups)
}

// Get handles GET /api/v1/startups/{startup_id}
func (h *StartupHandler) Get(w http.ResponseWriter, r *http.Request) {
	startup, err := h.startupService.Get(r.Context(), chi.URLParam(r, "startup_id"))
	if err != nil {
		respondError(w, err.Error(), statusFor(err))
		return
	}
	respondJSON(w, http.StatusOK, startup)
}

// RequestJoin handles POST /api/v1/startups/{startup_id}/join
func (h *StartupHandler) RequestJoin(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	userID := middleware.GetUserID(ctx)
	startupID := chi.URLParam(r, "startup_id")

	req, err := h.startupService.RequestJoin(ctx, userID, startupID)
	if err != nil {
		log.Error().Err(err).Str("user_id", userID).Str("startup_id", startupID).Msg("Failed to create join request")
		respondError(w, err.Error(), statusFor(err))
		return
	}

	respondJSON(w, http.StatusOK, req)
}

// JoinRequests handles GET /api/v1/startups/{startup_id}/join-requests
func (h *StartupHandler) JoinRequests(w http.ResponseWriter, r *http.Request) {
	requests, err := h.startupService.JoinRequests(r.Context(), chi.URLParam(r, "startup_id"))
	if err != nil {
		respondError(w, err.Error(), statusFor(err))
		return
	}
	respondJSON(w, http.StatusOK, requests)
}
