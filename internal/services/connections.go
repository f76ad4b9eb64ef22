package services

import (
	"context"
	"fmt"
	"time"

	"startupconnect-backend/internal/docstore"
	"startupconnect-backend/internal/models"
)

// ConnectionService runs the startup-to-startup connection handshake:
// a request starts pending and is resolved exactly once by its recipient.
type ConnectionService struct {
	store docstore.Store
}

// NewConnectionService creates a new connection service.
func NewConnectionService(store docstore.Store) *ConnectionService {
	return &ConnectionService{store: store}
}

// Request sends a connection request from one startup to another. Any
// prior request between the pair, in either direction and regardless of
// its status, blocks a new one.
func (s *ConnectionService) Request(ctx context.Context, fromStartupID, toStartupID, message string) (*models.StartupConnection, error) {
	existing, err := s.store.List(ctx, docstore.StartupConnections, func(rec docstore.Record) bool {
		from, _ := rec["from_startup_id"].(string)
		to, _ := rec["to_startup_id"].(string)
		return (from == fromStartupID && to == toStartupID) ||
			(from == toStartupID && to == fromStartupID)
	})
	if err != nil {
		return nil, err
	}
	if len(existing) > 0 {
		return nil, ErrDuplicateRequest
	}

	rec, err := docstore.Encode(models.StartupConnection{
		FromStartupID: fromStartupID,
		ToStartupID:   toStartupID,
		Message:       message,
		Status:        models.StatusPending,
		CreatedAt:     time.Now().UnixMilli(),
	})
	if err != nil {
		return nil, err
	}
	inserted, err := s.store.Insert(ctx, docstore.StartupConnections, rec)
	if err != nil {
		return nil, fmt.Errorf("failed to create connection request: %w", err)
	}

	var conn models.StartupConnection
	if err := docstore.Decode(inserted, &conn); err != nil {
		return nil, err
	}
	return &conn, nil
}

// Accept resolves a pending request. Only the recipient startup may
// accept, and a resolved request is terminal.
func (s *ConnectionService) Accept(ctx context.Context, requestID, actorStartupID string) (*models.StartupConnection, error) {
	return s.resolve(ctx, requestID, actorStartupID, models.StatusAccepted)
}

// Reject resolves a pending request. Only the recipient startup may
// reject, and a resolved request is terminal.
func (s *ConnectionService) Reject(ctx context.Context, requestID, actorStartupID string) (*models.StartupConnection, error) {
	return s.resolve(ctx, requestID, actorStartupID, models.StatusRejected)
}

// Accepted lists the startup's accepted connections, in either direction.
func (s *ConnectionService) Accepted(ctx context.Context, startupID string) ([]models.StartupConnection, error) {
	recs, err := s.store.List(ctx, docstore.StartupConnections, func(rec docstore.Record) bool {
		from, _ := rec["from_startup_id"].(string)
		to, _ := rec["to_startup_id"].(string)
		status, _ := rec["status"].(string)
		return (from == startupID || to == startupID) && status == string(models.StatusAccepted)
	})
	if err != nil {
		return nil, err
	}
	return decodeAll[models.StartupConnection](recs)
}

// PendingIncoming lists pending requests addressed to the startup.
func (s *ConnectionService) PendingIncoming(ctx context.Context, startupID string) ([]models.StartupConnection, error) {
	recs, err := s.store.List(ctx, docstore.StartupConnections, func(rec docstore.Record) bool {
		to, _ := rec["to_startup_id"].(string)
		status, _ := rec["status"].(string)
		return to == startupID && status == string(models.StatusPending)
	})
	if err != nil {
		return nil, err
	}
	return decodeAll[models.StartupConnection](recs)
}

// Sent lists every request the startup has sent, whatever its status.
func (s *ConnectionService) Sent(ctx context.Context, startupID string) ([]models.StartupConnection, error) {
	recs, err := s.store.List(ctx, docstore.StartupConnections, func(rec docstore.Record) bool {
		from, _ := rec["from_startup_id"].(string)
		return from == startupID
	})
	if err != nil {
		return nil, err
	}
	return decodeAll[models.StartupConnection](recs)
}

func (s *ConnectionService) resolve(ctx context.Context, requestID, actorStartupID string, status models.Status) (*models.StartupConnection, error) {
	rec, err := s.store.Get(ctx, docstore.StartupConnections, requestID)
	if err != nil {
		return nil, err
	}
	var conn models.StartupConnection
	if err := docstore.Decode(rec, &conn); err != nil {
		return nil, err
	}

	if conn.ToStartupID != actorStartupID {
		return nil, ErrForbidden
	}
	if conn.Status != models.StatusPending {
		return nil, ErrAlreadyResolved
	}

	updated, err := s.store.Update(ctx, docstore.StartupConnections, requestID, docstore.Record{
		"status":       string(status),
		"responded_at": time.Now().UnixMilli(),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to resolve connection request: %w", err)
	}
	if err := docstore.Decode(updated, &conn); err != nil {
		return nil, err
	}
	return &conn, nil
}
