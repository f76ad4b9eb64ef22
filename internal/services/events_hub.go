package services

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"

	"startupconnect-backend/internal/docstore"

	"github.com/gorilla/websocket"
	"github.com/rs/zerolog/log"
)

// WSMessage is the frame sent over the change feed. It deliberately
// carries no diff: observers re-read whatever state they care about.
type WSMessage struct {
	Type string `json:"type"`
}

// EventsHub fans store change events out to connected websocket clients,
// one connection per user.
type EventsHub struct {
	mu          sync.RWMutex
	connections map[string]*websocket.Conn
	store       docstore.Store
}

// NewEventsHub creates a new change-feed hub.
func NewEventsHub(store docstore.Store) *EventsHub {
	return &EventsHub{
		connections: make(map[string]*websocket.Conn),
		store:       store,
	}
}

// Run pumps store change events to connected clients until the context
// is cancelled. Meant to be started as a goroutine from the entry point.
func (h *EventsHub) Run(ctx context.Context) {
	events, unsubscribe := h.store.Subscribe()
	defer unsubscribe()

	for {
		select {
		case <-ctx.Done():
			return
		case _, ok := <-events:
			if !ok {
				return
			}
			h.Broadcast(WSMessage{Type: "db-update"})
		}
	}
}

// Register registers a connection for a user, replacing any existing one.
func (h *EventsHub) Register(userID string, conn *websocket.Conn) {
	h.mu.Lock()
	defer h.mu.Unlock()

	if existing, exists := h.connections[userID]; exists {
		existing.Close()
	}
	h.connections[userID] = conn

	log.Info().Str("user_id", userID).Msg("Change feed connection registered")
}

// Unregister removes a user's connection.
func (h *EventsHub) Unregister(userID string) {
	h.mu.Lock()
	defer h.mu.Unlock()

	if conn, exists := h.connections[userID]; exists {
		conn.Close()
		delete(h.connections, userID)
		log.Info().Str("user_id", userID).Msg("Change feed connection unregistered")
	}
}

// IsOnline checks whether a user has a live connection.
func (h *EventsHub) IsOnline(userID string) bool {
	h.mu.RLock()
	defer h.mu.RUnlock()
	_, exists := h.connections[userID]
	return exists
}

// Broadcast sends a message to every connected client.
func (h *EventsHub) Broadcast(message WSMessage) {
	data, err := json.Marshal(message)
	if err != nil {
		log.Error().Err(err).Msg("Failed to marshal change feed message")
		return
	}

	h.mu.RLock()
	targets := make(map[string]*websocket.Conn, len(h.connections))
	for userID, conn := range h.connections {
		targets[userID] = conn
	}
	h.mu.RUnlock()

	for userID, conn := range targets {
		if err := conn.WriteMessage(websocket.TextMessage, data); err != nil {
			log.Error().Err(err).Str("user_id", userID).Msg("Failed to push change event")
			h.Unregister(userID)
		}
	}
}

// SendToUser sends a message to a specific user.
func (h *EventsHub) SendToUser(userID string, message WSMessage) error {
	h.mu.RLock()
	conn, exists := h.connections[userID]
	h.mu.RUnlock()

	if !exists {
		return fmt.Errorf("user %s is not connected", userID)
	}

	data, err := json.Marshal(message)
	if err != nil {
		return fmt.Errorf("failed to marshal message: %w", err)
	}
	if err := conn.WriteMessage(websocket.TextMessage, data); err != nil {
		h.Unregister(userID)
		return fmt.Errorf("failed to send message: %w", err)
	}
	return nil
}
