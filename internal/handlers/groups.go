package handlers

import (
	"encoding/json"
	"net/http"
	"strings"

	"startupconnect-backend/internal/middleware"
	"startupconnect-backend/internal/services"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog/log"
)

// GroupHandler handles sector group and messaging HTTP requests.
type GroupHandler struct {
	groupService *services.GroupService
	authService  *services.AuthService
}

// NewGroupHandler creates a new group handler.
func NewGroupHandler(groupService *services.GroupService, authService *services.AuthService) *GroupHandler {
	return &GroupHandler{
		groupService: groupService,
		authService:  authService,
	}
}

// List handles GET /api/v1/groups — the caller's groups.
func (h *GroupHandler) List(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	userID := middleware.GetUserID(ctx)

	groups, err := h.groupService.GroupsForUser(ctx, userID)
	if err != nil {
		respondError(w, err.Error(), statusFor(err))
		return
	}
	respondJSON(w, http.StatusOK, groups)
}

// JoinSectorRequest represents a sector join request.
type JoinSectorRequest struct {
	Sector string `json:"sector"`
}

// JoinSector handles POST /api/v1/groups/join
func (h *GroupHandler) JoinSector(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	userID := middleware.GetUserID(ctx)

	var req JoinSectorRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, "Invalid request body", http.StatusBadRequest)
		return
	}
	if req.Sector == "" {
		respondError(w, "sector is required", http.StatusBadRequest)
		return
	}

	group, err := h.groupService.JoinSector(ctx, userID, req.Sector)
	if err != nil {
		log.Error().Err(err).Str("user_id", userID).Str("sector", req.Sector).Msg("Failed to join sector group")
		respondError(w, err.Error(), statusFor(err))
		return
	}

	log.Info().
		Str("group_id", group.ID).
		Str("user_id", userID).
		Msg("Joined sector group")

	respondJSON(w, http.StatusOK, group)
}

// Messages handles GET /api/v1/groups/{group_id}/messages
func (h *GroupHandler) Messages(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	groupID := chi.URLParam(r, "group_id")

	messages, err := h.groupService.Messages(ctx, groupID)
	if err != nil {
		respondError(w, err.Error(), statusFor(err))
		return
	}
	respondJSON(w, http.StatusOK, messages)
}

// SendMessageRequest represents a message to post.
type SendMessageRequest struct {
	Content string `json:"content"`
}

// SendMessage handles POST /api/v1/groups/{group_id}/messages
func (h *GroupHandler) SendMessage(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	userID := middleware.GetUserID(ctx)
	groupID := chi.URLParam(r, "group_id")

	var req SendMessageRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, "Invalid request body", http.StatusBadRequest)
		return
	}
	req.Content = strings.TrimSpace(req.Content)
	if req.Content == "" {
		respondError(w, "content is required", http.StatusBadRequest)
		return
	}

	sender, err := h.authService.UserByID(ctx, userID)
	if err != nil {
		respondError(w, err.Error(), statusFor(err))
		return
	}

	message, err := h.groupService.SendMessage(ctx, groupID, sender, req.Content)
	if err != nil {
		log.Error().Err(err).Str("user_id", userID).Str("group_id", groupID).Msg("Failed to send message")
		respondError(w, err.Error(), statusFor(err))
		return
	}

	respondJSON(w, http.StatusOK, message)
}
