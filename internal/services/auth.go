package services

import (
	"context"
	"fmt"
	"time"

	"startupconnect-backend/internal/docstore"
	"startupconnect-backend/internal/models"

	"github.com/golang-jwt/jwt/v5"
)

const jwtExpDays = 365

// AuthService resolves logins to user records and provisions new
// accounts, including the side effects of startuper registration.
type AuthService struct {
	store     docstore.Store
	groups    *GroupService
	jwtSecret string
}

// NewAuthService creates a new auth service.
func NewAuthService(store docstore.Store, groups *GroupService, jwtSecret string) *AuthService {
	return &AuthService{
		store:     store,
		groups:    groups,
		jwtSecret: jwtSecret,
	}
}

// RegisterRequest carries the registration form. StartupChoice selects
// whether a startuper founds a new startup or requests to join an
// existing one.
type RegisterRequest struct {
	Email       string      `json:"email"`
	Password    string      `json:"password"`
	DisplayName string      `json:"display_name"`
	Role        models.Role `json:"role"`
	Sector      string      `json:"sector,omitempty"`
	JobTitle    string      `json:"job_title,omitempty"`
	IsFounder   bool        `json:"is_founder,omitempty"`
	CompanyName string      `json:"company_name,omitempty"`
	CompanyType string      `json:"company_type,omitempty"`

	StartupChoice     string `json:"startup_choice,omitempty"` // "new" or "existing"
	StartupName       string `json:"startup_name,omitempty"`
	Location          string `json:"location,omitempty"`
	RCCM              string `json:"rccm,omitempty"`
	RCCMPDF           string `json:"rccm_pdf,omitempty"`
	ExistingStartupID string `json:"existing_startup_id,omitempty"`
}

// Login resolves an email to a user record. The password is accepted but
// not verified against a stored secret; this mirrors the mock check of
// the system this backend stands in for.
func (s *AuthService) Login(ctx context.Context, email, _ string) (*models.User, string, error) {
	user, err := s.userByEmail(ctx, email)
	if err != nil {
		return nil, "", err
	}
	if !user.EmailVerified {
		return nil, "", ErrNotVerified
	}

	token, err := s.GenerateJWT(user)
	if err != nil {
		return nil, "", err
	}
	return user, token, nil
}

// Register creates the user record and, for startupers, provisions the
// startup membership and sector-group membership in the same call.
func (s *AuthService) Register(ctx context.Context, req RegisterRequest) (*models.User, string, error) {
	if _, err := s.userByEmail(ctx, req.Email); err == nil {
		return nil, "", ErrDuplicateEmail
	}

	now := time.Now().UnixMilli()
	startupID := ""

	if req.Role == models.RoleStartuper && req.StartupChoice == "new" {
		if !ValidateRCCM(req.RCCM) {
			return nil, "", ErrInvalidFormat
		}

		rec, err := docstore.Encode(models.Startup{
			Name:        req.StartupName,
			Sector:      req.Sector,
			Location:    req.Location,
			RCCM:        req.RCCM,
			RCCMPDF:     req.RCCMPDF,
			Members:     []models.Member{},
			Verified:    false,
			CreatedAt:   now,
			Description: "",
		})
		if err != nil {
			return nil, "", err
		}
		inserted, err := s.store.Insert(ctx, docstore.Startups, rec)
		if err != nil {
			return nil, "", fmt.Errorf("failed to create startup: %w", err)
		}
		startupID = inserted.ID()
	} else if req.Role == models.RoleStartuper && req.StartupChoice == "existing" {
		startupID = req.ExistingStartupID
	}

	user := models.User{
		Email:         req.Email,
		DisplayName:   req.DisplayName,
		Role:          req.Role,
		StartupID:     startupID,
		Sector:        req.Sector,
		JobTitle:      req.JobTitle,
		IsFounder:     req.IsFounder,
		CompanyName:   req.CompanyName,
		CompanyType:   req.CompanyType,
		EmailVerified: true, // auto-verified, no real verification flow
		CreatedAt:     now,
	}
	rec, err := docstore.Encode(user)
	if err != nil {
		return nil, "", err
	}
	inserted, err := s.store.Insert(ctx, docstore.Users, rec)
	if err != nil {
		return nil, "", fmt.Errorf("failed to create user: %w", err)
	}
	user.ID = inserted.ID()

	switch {
	case req.Role == models.RoleStartuper && req.StartupChoice == "new" && startupID != "":
		if err := s.addFoundingMember(ctx, startupID, &user); err != nil {
			return nil, "", err
		}
		if user.Sector != "" {
			if _, err := s.groups.JoinSector(ctx, user.ID, user.Sector); err != nil {
				return nil, "", err
			}
		}
	case req.Role == models.RoleStartuper && req.StartupChoice == "existing" && startupID != "":
		joinRec, err := docstore.Encode(models.JoinRequest{
			UserID:    user.ID,
			StartupID: startupID,
			Status:    models.StatusPending,
			CreatedAt: now,
		})
		if err != nil {
			return nil, "", err
		}
		if _, err := s.store.Insert(ctx, docstore.JoinRequests, joinRec); err != nil {
			return nil, "", fmt.Errorf("failed to create join request: %w", err)
		}
	}

	token, err := s.GenerateJWT(&user)
	if err != nil {
		return nil, "", err
	}
	return &user, token, nil
}

// VerifyEmail marks the user's email as verified.
func (s *AuthService) VerifyEmail(ctx context.Context, userID string) (*models.User, error) {
	rec, err := s.store.Update(ctx, docstore.Users, userID, docstore.Record{"email_verified": true})
	if err != nil {
		return nil, err
	}
	var user models.User
	if err := docstore.Decode(rec, &user); err != nil {
		return nil, err
	}
	return &user, nil
}

// UserByID returns the user record for the given id.
func (s *AuthService) UserByID(ctx context.Context, id string) (*models.User, error) {
	rec, err := s.store.Get(ctx, docstore.Users, id)
	if err != nil {
		return nil, err
	}
	var user models.User
	if err := docstore.Decode(rec, &user); err != nil {
		return nil, err
	}
	return &user, nil
}

// GenerateJWT issues a signed session token for a user. It replaces the
// forgeable client-side session slot of the system this stands in for.
func (s *AuthService) GenerateJWT(user *models.User) (string, error) {
	claims := jwt.MapClaims{
		"user_id": user.ID,
		"role":    string(user.Role),
		"exp":     time.Now().AddDate(0, 0, jwtExpDays).Unix(),
		"iat":     time.Now().Unix(),
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	tokenString, err := token.SignedString([]byte(s.jwtSecret))
	if err != nil {
		return "", fmt.Errorf("failed to sign token: %w", err)
	}
	return tokenString, nil
}

// ValidateJWT validates a session token and returns the user id and role.
func (s *AuthService) ValidateJWT(tokenString string) (string, models.Role, error) {
	token, err := jwt.Parse(tokenString, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return []byte(s.jwtSecret), nil
	})
	if err != nil {
		return "", "", fmt.Errorf("failed to parse token: %w", err)
	}
	if !token.Valid {
		return "", "", fmt.Errorf("invalid token")
	}

	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok {
		return "", "", fmt.Errorf("invalid token claims")
	}
	userID, ok := claims["user_id"].(string)
	if !ok {
		return "", "", fmt.Errorf("user_id not found in token")
	}
	role, _ := claims["role"].(string)

	return userID, models.Role(role), nil
}

// addFoundingMember appends the freshly registered startuper to the
// startup's member list.
func (s *AuthService) addFoundingMember(ctx context.Context, startupID string, user *models.User) error {
	rec, err := s.store.Get(ctx, docstore.Startups, startupID)
	if err != nil {
		return err
	}
	var startup models.Startup
	if err := docstore.Decode(rec, &startup); err != nil {
		return err
	}

	role := user.JobTitle
	if role == "" {
		role = "Membre"
	}
	startup.Members = append(startup.Members, models.Member{
		UserID:    user.ID,
		Name:      user.DisplayName,
		Role:      role,
		IsFounder: user.IsFounder,
		JoinedAt:  time.Now().UnixMilli(),
	})

	membersRec, err := docstore.Encode(startup)
	if err != nil {
		return err
	}
	if _, err := s.store.Update(ctx, docstore.Startups, startupID, docstore.Record{"members": membersRec["members"]}); err != nil {
		return fmt.Errorf("failed to update startup members: %w", err)
	}
	return nil
}

func (s *AuthService) userByEmail(ctx context.Context, email string) (*models.User, error) {
	recs, err := s.store.List(ctx, docstore.Users, func(rec docstore.Record) bool {
		e, _ := rec["email"].(string)
		return e == email
	})
	if err != nil {
		return nil, err
	}
	if len(recs) == 0 {
		return nil, fmt.Errorf("user %s: %w", email, ErrNotFound)
	}

	var user models.User
	if err := docstore.Decode(recs[0], &user); err != nil {
		return nil, err
	}
	return &user, nil
}
