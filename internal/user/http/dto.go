package http

import (
	"time"

	"github.com/pontush81/handbook-backend/internal/user"
)

// UserResponse is the shape of user data returned in API responses.
type UserResponse struct {
	ID           string                   `json:"id"`
	Email        string                   `json:"email"`
	DisplayName  *string                  `json:"display_name"`
	Phone        *string                  `json:"phone"`
	CreatedAt    time.Time                `json:"created_at"`
	LastLoginAt  *time.Time               `json:"last_login_at"`
	IsActive     bool                     `json:"is_active"`
	IsSuperAdmin bool                     `json:"is_super_admin"`
	Handbooks    []user.UserHandbookBrief `json:"handbooks"`
}

// UserTag is a brief representation of a user embedded in other responses.
type UserTag struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

// NewUserResponse converts a domain user.User to the API representation.
func NewUserResponse(u *user.User) UserResponse {
	handbooks := u.Handbooks
	if handbooks == nil {
		handbooks = make([]user.UserHandbookBrief, 0)
	}

	return UserResponse{
		ID:           u.ID,
		Email:        u.Email,
		DisplayName:  u.DisplayName,
		Phone:        u.Phone,
		CreatedAt:    u.CreatedAt,
		LastLoginAt:  u.LastLoginAt,
		IsActive:     u.IsActive,
		IsSuperAdmin: u.IsSuperAdmin,
		Handbooks:    handbooks,
	}
}

// RegisterRequest defines the payload for user registration.
type RegisterRequest struct {
	Email       string `json:"email" binding:"required,email"`
	Password    string `json:"password" binding:"required,min=8"`
	DisplayName string `json:"display_name" binding:"required"`
}

// LoginRequest defines the payload for user login.
type LoginRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

// LoginResponse returns the token and user info.
type LoginResponse struct {
	AccessToken string       `json:"access_token"`
	User        UserResponse `json:"user"`
}

// MeResponse returns the current user info.
type MeResponse struct {
	User UserResponse `json:"user"`
}

// ListUsersParams are the query parameters for the superadmin user listing.
type ListUsersParams struct {
	Keyword  string `form:"keyword"`
	Page     int    `form:"page,default=1"`
	PageSize int    `form:"page_size,default=20"`
}

// SetActiveRequest toggles an account's active flag. A pointer so that
// omitting the field fails validation instead of silently deactivating.
type SetActiveRequest struct {
	IsActive *bool `json:"is_active" binding:"required"`
}
