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

// ConnectionHandler handles the startup connection handshake over HTTP.
// Every route resolves the caller's startup from its user record first.
type ConnectionHandler struct {
	connectionService *services.ConnectionService
	authService       *services.AuthService
}

// NewConnectionHandler creates a new connection handler.
func NewConnectionHandler(connectionService *services.ConnectionService, authService *services.AuthService) *ConnectionHandler {
	return &ConnectionHandler{
		connectionService: connectionService,
		authService:       authService,
	}
}

// RequestConnectionRequest represents an outgoing connection request.
type RequestConnectionRequest struct {
	ToStartupID string `json:"to_startup_id"`
	Message     string `json:"message,omitempty"`
}

// Request handles POST /api/v1/connections
func (h *ConnectionHandler) Request(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	var req RequestConnectionRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, "Invalid request body", http.StatusBadRequest)
		return
	}
	if req.ToStartupID == "" {
		respondError(w, "to_startup_id is required", http.StatusBadRequest)
		return
	}

	caller, ok := h.callerStartup(w, r)
	if !ok {
		return
	}
	if caller == req.ToStartupID {
		respondError(w, "cannot connect a startup to itself", http.StatusBadRequest)
		return
	}

	conn, err := h.connectionService.Request(ctx, caller, req.ToStartupID, req.Message)
	if err != nil {
		log.Error().
			Err(err).
			Str("from_startup_id", caller).
			Str("to_startup_id", req.ToStartupID).
			Msg("Failed to create connection request")
		respondError(w, err.Error(), statusFor(err))
		return
	}

	log.Info().
		Str("connection_id", conn.ID).
		Str("from_startup_id", conn.FromStartupID).
		Str("to_startup_id", conn.ToStartupID).
		Msg("Connection requested")

	respondJSON(w, http.StatusOK, conn)
}

// Accept handles PUT /api/v1/connections/{connection_id}/accept
func (h *ConnectionHandler) Accept(w http.ResponseWriter, r *http.Request) {
	h.resolve(w, r, models.StatusAccepted)
}

// Reject handles PUT /api/v1/connections/{connection_id}/reject
func (h *ConnectionHandler) Reject(w http.ResponseWriter, r *http.Request) {
	h.resolve(w, r, models.StatusRejected)
}

// List handles GET /api/v1/connections?state=accepted|pending|sent
func (h *ConnectionHandler) List(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	caller, ok := h.callerStartup(w, r)
	if !ok {
		return
	}

	var (
		conns []models.StartupConnection
		err   error
	)
	switch state := r.URL.Query().Get("state"); state {
	case "", "accepted":
		conns, err = h.connectionService.Accepted(ctx, caller)
	case "pending":
		conns, err = h.connectionService.PendingIncoming(ctx, caller)
	case "sent":
		conns, err = h.connectionService.Sent(ctx, caller)
	default:
		respondError(w, "state must be accepted, pending or sent", http.StatusBadRequest)
		return
	}
	if err != nil {
		respondError(w, err.Error(), statusFor(err))
		return
	}

	respondJSON(w, http.StatusOK, conns)
}

func (h *ConnectionHandler) resolve(w http.ResponseWriter, r *http.Request, status models.Status) {
	ctx := r.Context()
	connectionID := chi.URLParam(r, "connection_id")

	caller, ok := h.callerStartup(w, r)
	if !ok {
		return
	}

	var (
		conn *models.StartupConnection
		err  error
	)
	if status == models.StatusAccepted {
		conn, err = h.connectionService.Accept(ctx, connectionID, caller)
	} else {
		conn, err = h.connectionService.Reject(ctx, connectionID, caller)
	}
	if err != nil {
		log.Error().
			Err(err).
			Str("connection_id", connectionID).
			Str("startup_id", caller).
			Msg("Failed to resolve connection request")
		respondError(w, err.Error(), statusFor(err))
		return
	}

	log.Info().
		Str("connection_id", conn.ID).
		Str("status", string(conn.Status)).
		Msg("Connection resolved")

	respondJSON(w, http.StatusOK, conn)
}

// callerStartup resolves the authenticated user's startup id, writing the
// error response itself when the user has none.
func (h *ConnectionHandler) callerStartup(w http.ResponseWriter, r *http.Request) (string, bool) {
	user, err := h.authService.UserByID(r.Context(), middleware.GetUserID(r.Context()))
	if err != nil {
		respondError(w, err.Error(), statusFor(err))
		return "", false
	}
	if user.StartupID == "" {
		respondError(w, "user does not belong to a startup", http.StatusForbidden)
		return "", false
	}
	return user.StartupID, true
}
