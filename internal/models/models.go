package models

// Role identifies what kind of account a user has.
type Role string

const (
	RoleStartuper Role = "startuper"
	RolePartner   Role = "partner"
	RoleAdmin     Role = "admin"
)

// Status is the shared lifecycle of candidacies, connection requests,
// join requests and reports.
type Status string

const (
	StatusPending  Status = "pending"
	StatusAccepted Status = "accepted"
	StatusRejected Status = "rejected"
)

// User represents an account in the system. A startuper belongs to at most
// one startup via StartupID.
type User struct {
	ID            string `json:"id"`
	Email         string `json:"email"`
	DisplayName   string `json:"display_name"`
	Role          Role   `json:"role"`
	StartupID     string `json:"startup_id,omitempty"`
	Sector        string `json:"sector,omitempty"`
	JobTitle      string `json:"job_title,omitempty"`
	IsFounder     bool   `json:"is_founder,omitempty"`
	CompanyName   string `json:"company_name,omitempty"`
	CompanyType   string `json:"company_type,omitempty"`
	EmailVerified bool   `json:"email_verified"`
	CreatedAt     int64  `json:"created_at"`
}

// Member is a startup membership record.
type Member struct {
	UserID    string `json:"user_id"`
	Name      string `json:"name"`
	Role      string `json:"role"`
	IsFounder bool   `json:"is_founder"`
	JoinedAt  int64  `json:"joined_at"`
}

// Startup is a registered startup profile. Verified is mutated only by
// admin action.
type Startup struct {
	ID          string   `json:"id"`
	Name        string   `json:"name"`
	Sector      string   `json:"sector"`
	Location    string   `json:"location"`
	RCCM        string   `json:"rccm"`
	RCCMPDF     string   `json:"rccm_pdf,omitempty"`
	Members     []Member `json:"members"`
	Description string   `json:"description"`
	Website     string   `json:"website,omitempty"`
	Size        string   `json:"size,omitempty"`
	Verified    bool     `json:"verified"`
	CreatedAt   int64    `json:"created_at"`
}

// OfferType distinguishes funding offers from events.
type OfferType string

const (
	OfferTypeOffer OfferType = "offer"
	OfferTypeEvent OfferType = "event"
)

// Offer is an opportunity posted by a partner or admin. Deadline is epoch
// milliseconds, zero when open-ended. Views and Applications are plain
// counters bumped by read-triggering side effects.
type Offer struct {
	ID              string    `json:"id"`
	Title           string    `json:"title"`
	Description     string    `json:"description"`
	Type            OfferType `json:"type"`
	Sector          string    `json:"sector"`
	CreatorID       string    `json:"creator_id"`
	CreatorName     string    `json:"creator_name"`
	Deadline        int64     `json:"deadline,omitempty"`
	HasInternalForm bool      `json:"has_internal_form"`
	ExternalFormURL string    `json:"external_form_url,omitempty"`
	Views           int       `json:"views"`
	Applications    int       `json:"applications"`
	CreatedAt       int64     `json:"created_at"`
}

// Candidacy is a startup's application to an offer.
type Candidacy struct {
	ID          string            `json:"id"`
	OfferID     string            `json:"offer_id"`
	OfferTitle  string            `json:"offer_title"`
	StartupID   string            `json:"startup_id"`
	StartupName string            `json:"startup_name"`
	UserID      string            `json:"user_id"`
	Status      Status            `json:"status"`
	FormData    map[string]string `json:"form_data,omitempty"`
	SubmittedAt int64             `json:"submitted_at"`
}

// Group is a messaging group. Sector groups are auto-provisioned the first
// time a sector needs one.
type Group struct {
	ID           string   `json:"id"`
	Name         string   `json:"name"`
	Type         string   `json:"type"`
	Sector       string   `json:"sector,omitempty"`
	Members      []string `json:"members"`
	LastActivity int64    `json:"last_activity,omitempty"`
	CreatedAt    int64    `json:"created_at"`
}

// Message belongs to one group. UserName is denormalized at send time.
type Message struct {
	ID        string `json:"id"`
	GroupID   string `json:"group_id"`
	UserID    string `json:"user_id"`
	UserName  string `json:"user_name"`
	Content   string `json:"content"`
	CreatedAt int64  `json:"created_at"`
}

// SavedOffer marks an offer bookmarked by a user.
type SavedOffer struct {
	ID      string `json:"id"`
	UserID  string `json:"user_id"`
	OfferID string `json:"offer_id"`
	SavedAt int64  `json:"saved_at"`
}

// JoinRequest is a user's request to join an existing startup.
type JoinRequest struct {
	ID        string `json:"id"`
	UserID    string `json:"user_id"`
	StartupID string `json:"startup_id"`
	Status    Status `json:"status"`
	CreatedAt int64  `json:"created_at"`
}

// StartupConnection is a handshake between two startups. It starts pending
// and is resolved exactly once by the recipient; accepted and rejected are
// both terminal.
type StartupConnection struct {
	ID            string `json:"id"`
	FromStartupID string `json:"from_startup_id"`
	ToStartupID   string `json:"to_startup_id"`
	Message       string `json:"message,omitempty"`
	Status        Status `json:"status"`
	CreatedAt     int64  `json:"created_at"`
	RespondedAt   int64  `json:"responded_at,omitempty"`
}

// Report flags an arbitrary entity, referenced by (TargetType, TargetID)
// without referential integrity to the target.
type Report struct {
	ID         string `json:"id"`
	Type       string `json:"type"`
	TargetType string `json:"target_type"`
	TargetID   string `json:"target_id"`
	ReporterID string `json:"reporter_id"`
	Reason     string `json:"reason"`
	Status     Status `json:"status"`
	CreatedAt  int64  `json:"created_at"`
	ResolvedAt int64  `json:"resolved_at,omitempty"`
}
