package services

import (
	"context"
	"fmt"
	"time"

	"startupconnect-backend/internal/docstore"
	"startupconnect-backend/internal/models"
)

// AdminService carries the moderation actions reserved for admins, plus
// report creation which is open to every user.
type AdminService struct {
	store docstore.Store
}

// NewAdminService creates a new admin service.
func NewAdminService(store docstore.Store) *AdminService {
	return &AdminService{store: store}
}

// ListUsers returns every account.
func (s *AdminService) ListUsers(ctx context.Context) ([]models.User, error) {
	recs, err := s.store.List(ctx, docstore.Users, nil)
	if err != nil {
		return nil, err
	}
	return decodeAll[models.User](recs)
}

// ListStartups returns every startup profile.
func (s *AdminService) ListStartups(ctx context.Context) ([]models.Startup, error) {
	recs, err := s.store.List(ctx, docstore.Startups, nil)
	if err != nil {
		return nil, err
	}
	return decodeAll[models.Startup](recs)
}

// SetUserRole changes a user's role.
func (s *AdminService) SetUserRole(ctx context.Context, userID string, role models.Role) (*models.User, error) {
	switch role {
	case models.RoleStartuper, models.RolePartner, models.RoleAdmin:
	default:
		return nil, fmt.Errorf("invalid role %q", role)
	}

	rec, err := s.store.Update(ctx, docstore.Users, userID, docstore.Record{"role": string(role)})
	if err != nil {
		return nil, err
	}
	var user models.User
	if err := docstore.Decode(rec, &user); err != nil {
		return nil, err
	}
	return &user, nil
}

// DeleteUser removes an account.
func (s *AdminService) DeleteUser(ctx context.Context, userID string) error {
	return s.store.Delete(ctx, docstore.Users, userID)
}

// SetStartupVerified flips a startup's verified flag. This is the only
// path through which the flag changes.
func (s *AdminService) SetStartupVerified(ctx context.Context, startupID string, verified bool) (*models.Startup, error) {
	rec, err := s.store.Update(ctx, docstore.Startups, startupID, docstore.Record{"verified": verified})
	if err != nil {
		return nil, err
	}
	var startup models.Startup
	if err := docstore.Decode(rec, &startup); err != nil {
		return nil, err
	}
	return &startup, nil
}

// DeleteStartup removes a startup profile.
func (s *AdminService) DeleteStartup(ctx context.Context, startupID string) error {
	return s.store.Delete(ctx, docstore.Startups, startupID)
}

// DeleteOffer removes an offer.
func (s *AdminService) DeleteOffer(ctx context.Context, offerID string) error {
	return s.store.Delete(ctx, docstore.Offers, offerID)
}

// CreateReport files a report against an arbitrary entity. The target
// reference is not checked against the store.
func (s *AdminService) CreateReport(ctx context.Context, reporterID, reportType, targetType, targetID, reason string) (*models.Report, error) {
	rec, err := docstore.Encode(models.Report{
		Type:       reportType,
		TargetType: targetType,
		TargetID:   targetID,
		ReporterID: reporterID,
		Reason:     reason,
		Status:     models.StatusPending,
		CreatedAt:  time.Now().UnixMilli(),
	})
	if err != nil {
		return nil, err
	}
	inserted, err := s.store.Insert(ctx, docstore.Reports, rec)
	if err != nil {
		return nil, fmt.Errorf("failed to create report: %w", err)
	}

	var report models.Report
	if err := docstore.Decode(inserted, &report); err != nil {
		return nil, err
	}
	return &report, nil
}

// ListReports returns every report.
func (s *AdminService) ListReports(ctx context.Context) ([]models.Report, error) {
	recs, err := s.store.List(ctx, docstore.Reports, nil)
	if err != nil {
		return nil, err
	}
	return decodeAll[models.Report](recs)
}

// ResolveReport closes a report as accepted or rejected.
func (s *AdminService) ResolveReport(ctx context.Context, reportID string, status models.Status) (*models.Report, error) {
	if status != models.StatusAccepted && status != models.StatusRejected {
		return nil, fmt.Errorf("invalid report status %q", status)
	}

	rec, err := s.store.Update(ctx, docstore.Reports, reportID, docstore.Record{
		"status":      string(status),
		"resolved_at": time.Now().UnixMilli(),
	})
	if err != nil {
		return nil, err
	}
	var report models.Report
	if err := docstore.Decode(rec, &report); err != nil {
		return nil, err
	}
	return &report, nil
}
