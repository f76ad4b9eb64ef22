package handlers

import (
	"net/http"

	"startupconnect-backend/internal/middleware"
	"startupconnect-backend/internal/services"

	"github.com/gorilla/websocket"
	"github.com/rs/zerolog/log"
)

var upgrader = websocket.Upgrader{
	CheckOrigin: func(r *http.Request) bool {
		return true // single-origin deployment sits behind the frontend
	},
}

// WebSocketHandler serves the change feed. Clients receive a bare
// "db-update" frame after every mutating store call and re-fetch whatever
// state they render.
type WebSocketHandler struct {
	hub         *services.EventsHub
	authService *services.AuthService
}

// NewWebSocketHandler creates a new change feed handler.
func NewWebSocketHandler(hub *services.EventsHub, authService *services.AuthService) *WebSocketHandler {
	return &WebSocketHandler{
		hub:         hub,
		authService: authService,
	}
}

// HandleWebSocket handles GET /ws?token=
func (h *WebSocketHandler) HandleWebSocket(w http.ResponseWriter, r *http.Request) {
	userID, err := middleware.ValidateWebSocketToken(r.URL.Query().Get("token"), h.authService)
	if err != nil {
		respondError(w, "invalid token", http.StatusUnauthorized)
		return
	}

	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		log.Error().Err(err).Msg("Failed to upgrade WebSocket connection")
		return
	}

	h.hub.Register(userID, conn)
	defer h.hub.Unregister(userID)

	// Drain the connection; the feed is one-way and the read loop only
	// exists to notice the client going away.
	for {
		if _, _, err := conn.ReadMessage(); err != nil {
			return
		}
	}
}
