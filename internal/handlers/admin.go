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

// AdminHandler handles moderation HTTP requests. All routes except
// CreateReport sit behind the admin role gate.
type AdminHandler struct {
	adminService *services.AdminService
}

// NewAdminHandler creates a new admin handler.
func NewAdminHandler(adminService *services.AdminService) *AdminHandler {
	return &AdminHandler{adminService: adminService}
}

// ListUsers handles GET /api/v1/admin/users
func (h *AdminHandler) ListUsers(w http.ResponseWriter, r *http.Request) {
	users, err := h.adminService.ListUsers(r.Context())
	if err != nil {
		respondError(w, err.Error(), statusFor(err))
		return
	}
	respondJSON(w, http.StatusOK, users)
}

// SetRoleRequest represents a role change.
type SetRoleRequest struct {
	Role models.Role `json:"role"`
}

// SetUserRole handles PUT /api/v1/admin/users/{user_id}/role
func (h *AdminHandler) SetUserRole(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	userID := chi.URLParam(r, "user_id")

	var req SetRoleRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, "Invalid request body", http.StatusBadRequest)
		return
	}

	user, err := h.adminService.SetUserRole(ctx, userID, req.Role)
	if err != nil {
		respondError(w, err.Error(), statusFor(err))
		return
	}

	log.Info().
		Str("user_id", user.ID).
		Str("role", string(user.Role)).
		Str("admin_id", middleware.GetUserID(ctx)).
		Msg("User role changed")

	respondJSON(w, http.StatusOK, user)
}

// DeleteUser handles DELETE /api/v1/admin/users/{user_id}
func (h *AdminHandler) DeleteUser(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	userID := chi.URLParam(r, "user_id")

	if err := h.adminService.DeleteUser(ctx, userID); err != nil {
		respondError(w, err.Error(), statusFor(err))
		return
	}

	log.Info().
		Str("user_id", userID).
		Str("admin_id", middleware.GetUserID(ctx)).
		Msg("User deleted")

	w.WriteHeader(http.StatusNoContent)
}

// VerifyStartupRequest represents a verification decision.
type VerifyStartupRequest struct {
	Verified bool `json:"verified"`
}

// VerifyStartup handles PUT /api/v1/admin/startups/{startup_id}/verify
func (h *AdminHandler) VerifyStartup(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	startupID := chi.URLParam(r, "startup_id")

	var req VerifyStartupRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, "Invalid request body", http.StatusBadRequest)
		return
	}

	startup, err := h.adminService.SetStartupVerified(ctx, startupID, req.Verified)
	if err != nil {
		respondError(w, err.Error(), statusFor(err))
		return
	}

	log.Info().
		Str("startup_id", startup.ID).
		Bool("verified", startup.Verified).
		Str("admin_id", middleware.GetUserID(ctx)).
		Msg("Startup verification changed")

	respondJSON(w, http.StatusOK, startup)
}

// DeleteStartup handles DELETE /api/v1/admin/startups/{startup_id}
func (h *AdminHandler) DeleteStartup(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	startupID := chi.URLParam(r, "startup_id")

	if err := h.adminService.DeleteStartup(ctx, startupID); err != nil {
		respondError(w, err.Error(), statusFor(err))
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// DeleteOffer handles DELETE /api/v1/admin/offers/{offer_id}
func (h *AdminHandler) DeleteOffer(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	offerID := chi.URLParam(r, "offer_id")

	if err := h.adminService.DeleteOffer(ctx, offerID); err != nil {
		respondError(w, err.Error(), statusFor(err))
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// CreateReportRequest represents a report submission.
type CreateReportRequest struct {
	Type       string `json:"type"`
	TargetType string `json:"target_type"`
	TargetID   string `json:"target_id"`
	Reason     string `json:"reason"`
}

// CreateReport handles POST /api/v1/reports
func (h *AdminHandler) CreateReport(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	reporterID := middleware.GetUserID(ctx)

	var req CreateReportRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, "Invalid request body", http.StatusBadRequest)
		return
	}
	if req.TargetType == "" || req.TargetID == "" || req.Reason == "" {
		respondError(w, "target_type, target_id and reason are required", http.StatusBadRequest)
		return
	}

	report, err := h.adminService.CreateReport(ctx, reporterID, req.Type, req.TargetType, req.TargetID, req.Reason)
	if err != nil {
		respondError(w, err.Error(), statusFor(err))
		return
	}

	log.Info().
		Str("report_id", report.ID).
		Str("reporter_id", reporterID).
		Msg("Report created")

	respondJSON(w, http.StatusOK, report)
}

// ListReports handles GET /api/v1/admin/reports
func (h *AdminHandler) ListReports(w http.ResponseWriter, r *http.Request) {
	reports, err := h.adminService.ListReports(r.Context())
	if err != nil {
		respondError(w, err.Error(), statusFor(err))
		return
	}
	respondJSON(w, http.StatusOK, reports)
}

// ResolveReportRequest represents a report resolution.
type ResolveReportRequest struct {
	Status models.Status `json:"status"`
}

// ResolveReport handles PUT /api/v1/admin/reports/{report_id}
func (h *AdminHandler) ResolveReport(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	reportID := chi.URLParam(r, "report_id")

	var req ResolveReportRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, "Invalid request body", http.StatusBadRequest)
		return
	}

	report, err := h.adminService.ResolveReport(ctx, reportID, req.Status)
	if err != nil {
		respondError(w, err.Error(), statusFor(err))
		return
	}

	log.Info().
		Str("report_id", report.ID).
		Str("status", string(report.Status)).
		Msg("Report resolved")

	respondJSON(w, http.StatusOK, report)
}
