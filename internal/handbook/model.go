package handbook

import (
	"net/http"
	"time"

	"github.com/pontush81/handbook-backend/internal/pkg/apperror"
)

var (
	ErrNotFound          = apperror.New(http.StatusNotFound, "handbook not found")
	ErrSlugTaken         = apperror.New(http.StatusConflict, "slug is already taken")
	ErrTitleRequired     = apperror.New(http.StatusBadRequest, "title is required")
	ErrInvalidSlug       = apperror.New(http.StatusBadRequest, "slug may only contain lowercase letters, digits and hyphens")
	ErrInvalidRole       = apperror.New(http.StatusBadRequest, "invalid member role")
	ErrMemberNotFound    = apperror.New(http.StatusNotFound, "member not found")
	ErrAlreadyMember     = apperror.New(http.StatusConflict, "user is already a member of this handbook")
	ErrPermissionDenied  = apperror.New(http.StatusForbidden, "permission denied")
	ErrSubscriptionEnded = apperror.New(http.StatusPaymentRequired, "trial period has ended and no active subscription exists")
	ErrOwnerRemoval      = apperror.New(http.StatusBadRequest, "the handbook owner cannot be removed")
)

// Member roles, matching the handbook_members.role enum.
const (
	RoleAdmin  = "admin"
	RoleEditor = "editor"
	RoleViewer = "viewer"
)

// ValidRole reports whether s is a known member role.
func ValidRole(s string) bool {
	return s == RoleAdmin || s == RoleEditor || s == RoleViewer
}

// SubscriptionStatus is the derived payment state of a handbook.
type SubscriptionStatus string

const (
	StatusTrialing SubscriptionStatus = "trialing"
	StatusActive   SubscriptionStatus = "active"
	StatusExpired  SubscriptionStatus = "expired"
)

// Handbook is one association's isolated data scope: its content, resources
// and bookings all hang off a handbook.
type Handbook struct {
	ID                 string
	Slug               string
	Title              string
	OwnerUserID        string
	Published          bool
	SubscriptionActive bool // set when a paid subscription exists
	TrialEndsAt        time.Time
	CreatedAt          time.Time
	UpdatedAt          time.Time
}

// Status derives the subscription state at the given instant. A paid
// subscription always wins; otherwise the trial end date decides.
func (h *Handbook) Status(now time.Time) SubscriptionStatus {
	if h.SubscriptionActive {
		return StatusActive
	}
	if now.Before(h.TrialEndsAt) {
		return StatusTrialing
	}
	return StatusExpired
}

// TrialDaysLeft returns the number of whole days of trial remaining,
// never negative. Zero both on the last day and after expiry.
func (h *Handbook) TrialDaysLeft(now time.Time) int {
	if !now.Before(h.TrialEndsAt) {
		return 0
	}
	return int(h.TrialEndsAt.Sub(now) / (24 * time.Hour))
}

// Member is a user with a role within one handbook.
type Member struct {
	UserID      string
	Email       string
	DisplayName *string
	Role        string
	JoinedAt    time.Time
}

// CanEdit reports whether the member's role allows content mutation.
func (m *Member) CanEdit() bool {
	return m.Role == RoleAdmin || m.Role == RoleEditor
}

// Filter defines parameters for listing handbooks.
type Filter struct {
	OwnerUserID string
	Published   *bool
	Page        int
	PageSize    int
}

// MemberFilter defines parameters for listing members.
type MemberFilter struct {
	Page     int
	PageSize int
}
