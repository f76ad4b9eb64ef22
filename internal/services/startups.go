package services

import (
	"context"
	"fmt"
	"strings"
	"time"

	"startupconnect-backend/internal/docstore"
	"startupconnect-backend/internal/models"
)

// StartupService serves the startup directory and join requests.
type StartupService struct {
	store docstore.Store
}

// NewStartupService creates a new startup service.
func NewStartupService(store docstore.Store) *StartupService {
	return &StartupService{store: store}
}

// List returns startups, optionally narrowed by a free-text query against
// name and sector.
func (s *StartupService) List(ctx context.Context, query string) ([]models.Startup, error) {
	query = strings.ToLower(query)
	recs, err := s.store.List(ctx, docstore.Startups, func(rec docstore.Record) bool {
		if query == "" {
			return true
		}
		name, _ := rec["name"].(string)
		sector, _ := rec["sector"].(string)
		return strings.Contains(strings.ToLower(name), query) ||
			strings.Contains(strings.ToLower(sector), query)
	})
	if err != nil {
		return nil, err
	}
	return decodeAll[models.Startup](recs)
}

// Get returns one startup by id.
func (s *StartupService) Get(ctx context.Context, id string) (*models.Startup, error) {
	rec, err := s.store.Get(ctx, docstore.Startups, id)
	if err != nil {
		return nil, err
	}
	var startup models.Startup
	if err := docstore.Decode(rec, &startup); err != nil {
		return nil, err
	}
	return &startup, nil
}

// RequestJoin files a pending join request for an existing startup.
// A user with an open request against the same startup does not get a
// second one.
func (s *StartupService) RequestJoin(ctx context.Context, userID, startupID string) (*models.JoinRequest, error) {
	if _, err := s.store.Get(ctx, docstore.Startups, startupID); err != nil {
		return nil, err
	}

	existing, err := s.store.List(ctx, docstore.JoinRequests, func(rec docstore.Record) bool {
		u, _ := rec["user_id"].(string)
		st, _ := rec["startup_id"].(string)
		status, _ := rec["status"].(string)
		return u == userID && st == startupID && status == string(models.StatusPending)
	})
	if err != nil {
		return nil, err
	}
	if len(existing) > 0 {
		var req models.JoinRequest
		if err := docstore.Decode(existing[0], &req); err != nil {
			return nil, err
		}
		return &req, nil
	}

	rec, err := docstore.Encode(models.JoinRequest{
		UserID:    userID,
		StartupID: startupID,
		Status:    models.StatusPending,
		CreatedAt: time.Now().UnixMilli(),
	})
	if err != nil {
		return nil, err
	}
	inserted, err := s.store.Insert(ctx, docstore.JoinRequests, rec)
	if err != nil {
		return nil, fmt.Errorf("failed to create join request: %w", err)
	}

	var req models.JoinRequest
	if err := docstore.Decode(inserted, &req); err != nil {
		return nil, err
	}
	return &req, nil
}

// JoinRequests lists the join requests filed against a startup.
func (s *StartupService) JoinRequests(ctx context.Context, startupID string) ([]models.JoinRequest, error) {
	recs, err := s.store.List(ctx, docstore.JoinRequests, func(rec docstore.Record) bool {
		st, _ := rec["startup_id"].(string)
		return st == startupID
	})
	if err != nil {
		return nil, err
	}
	return decodeAll[models.JoinRequest](recs)
}
