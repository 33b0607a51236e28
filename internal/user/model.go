package user

import (
	"errors"
	"time"
)

var (
	ErrNotFound           = errors.New("user not found")
	ErrEmailAlreadyUsed   = errors.New("email already used")
	ErrInvalidCredentials = errors.New("invalid email or password")
	ErrInactiveUser       = errors.New("user is inactive")
	ErrEmailRequired      = errors.New("email is required")
	ErrPasswordTooShort   = errors.New("password is too short")
	ErrCannotDeactivate   = errors.New("superadmin accounts cannot be deactivated")
)

// User represents an account on the platform.
type User struct {
	ID           string // UUID
	Email        string
	PasswordHash string
	DisplayName  *string
	Phone        *string
	CreatedAt    time.Time
	LastLoginAt  *time.Time
	IsActive     bool
	IsSuperAdmin bool
	Handbooks    []UserHandbookBrief
}

// Filter defines parameters for the superadmin user listing.
type Filter struct {
	Keyword  string // matches email or display name
	Page     int
	PageSize int
}

// UserHandbookBrief holds minimal handbook info for profile views.
type UserHandbookBrief struct {
	ID    string `json:"id"`
	Slug  string `json:"slug"`
	Title string `json:"title"`
	Role  string `json:"role"`
}
