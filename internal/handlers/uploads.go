package handlers

import (
	"encoding/json"
	"net/http"

	"startupconnect-backend/internal/middleware"
	"startupconnect-backend/internal/services"

	"github.com/rs/zerolog/log"
)

// UploadHandler hands out pre-signed URLs for RCCM document uploads.
type UploadHandler struct {
	uploadService *services.UploadService
}

// NewUploadHandler creates a new upload handler.
func NewUploadHandler(uploadService *services.UploadService) *UploadHandler {
	return &UploadHandler{uploadService: uploadService}
}

// PresignRequest represents an upload URL request.
type PresignRequest struct {
	ContentType string `json:"content_type"`
}

// PresignRCCM handles POST /api/v1/uploads/rccm
func (h *UploadHandler) PresignRCCM(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	var req PresignRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, "Invalid request body", http.StatusBadRequest)
		return
	}
	if req.ContentType == "" {
		req.ContentType = "application/pdf"
	}

	resp, err := h.uploadService.PresignRCCM(ctx, req.ContentType)
	if err != nil {
		log.Error().Err(err).Str("user_id", middleware.GetUserID(ctx)).Msg("Failed to presign RCCM upload")
		respondError(w, "Failed to generate upload URL", http.StatusInternalServerError)
		return
	}

	respondJSON(w, http.StatusOK, resp)
}
