package http

import (
	"time"

	"github.com/pontush81/handbook-backend/internal/handbook"
)

// HandbookResponse is the API representation of a handbook, including the
// derived subscription state.
type HandbookResponse struct {
	ID                 string    `json:"id"`
	Slug               string    `json:"slug"`
	Title              string    `json:"title"`
	OwnerUserID        string    `json:"owner_user_id"`
	Published          bool      `json:"published"`
	SubscriptionStatus string    `json:"subscription_status"`
	TrialEndsAt        time.Time `json:"trial_ends_at"`
	TrialDaysLeft      int       `json:"trial_days_left"`
	CreatedAt          time.Time `json:"created_at"`
	UpdatedAt          time.Time `json:"updated_at"`
}

// HandbookTag is a brief representation embedded in other responses.
type HandbookTag struct {
	ID    string `json:"id"`
	Slug  string `json:"slug"`
	Title string `json:"title"`
}

// NewHandbookResponse converts a domain handbook to its API shape.
func NewHandbookResponse(h *handbook.Handbook) HandbookResponse {
	now := time.Now().UTC()
	return HandbookResponse{
		ID:                 h.ID,
		Slug:               h.Slug,
		Title:              h.Title,
		OwnerUserID:        h.OwnerUserID,
		Published:          h.Published,
		SubscriptionStatus: string(h.Status(now)),
		TrialEndsAt:        h.TrialEndsAt,
		TrialDaysLeft:      h.TrialDaysLeft(now),
		CreatedAt:          h.CreatedAt,
		UpdatedAt:          h.UpdatedAt,
	}
}

// CreateHandbookBody is the payload for creating a handbook.
type CreateHandbookBody struct {
	Slug  string `json:"slug" binding:"required"`
	Title string `json:"title" binding:"required"`
}

// UpdateHandbookBody is the payload for updating a handbook.
// SubscriptionActive may only be set by a superadmin.
type UpdateHandbookBody struct {
	Slug               *string `json:"slug"`
	Title              *string `json:"title"`
	Published          *bool   `json:"published"`
	SubscriptionActive *bool   `json:"subscription_active"`
}

// MemberResponse is the API representation of a handbook member.
type MemberResponse struct {
	UserID      string    `json:"user_id"`
	Email       string    `json:"email"`
	DisplayName *string   `json:"display_name"`
	Role        string    `json:"role"`
	JoinedAt    time.Time `json:"joined_at"`
}

// NewMemberResponse converts a domain member to its API shape.
func NewMemberResponse(m *handbook.Member) MemberResponse {
	return MemberResponse{
		UserID:      m.UserID,
		Email:       m.Email,
		DisplayName: m.DisplayName,
		Role:        m.Role,
		JoinedAt:    m.JoinedAt,
	}
}

// AddMemberBody is the payload for adding a member.
type AddMemberBody struct {
	UserID string `json:"user_id" binding:"required,uuid"`
	Role   string `json:"role" binding:"required,oneof=admin editor viewer"`
}

// UpdateMemberBody is the payload for changing a member's role.
type UpdateMemberBody struct {
	Role string `json:"role" binding:"required,oneof=admin editor viewer"`
}
