package resource

import (
	"net/http"
	"time"

	"github.com/pontush81/handbook-backend/internal/pkg/apperror"
)

var (
	ErrNotFound        = apperror.New(http.StatusNotFound, "resource not found")
	ErrEmptyName       = apperror.New(http.StatusBadRequest, "name cannot be empty")
	ErrInvalidCategory = apperror.New(http.StatusBadRequest, "invalid resource category")
	ErrInvalidCapacity = apperror.New(http.StatusBadRequest, "capacity must be a positive integer")
	ErrInvalidDuration = apperror.New(http.StatusBadRequest, "max duration must be a positive number of hours")
	ErrInvalidHours    = apperror.New(http.StatusBadRequest, "invalid operating hours")
)

// Category classifies a bookable asset.
type Category string

const (
	CategoryLaundry        Category = "laundry"
	CategoryPartyRoom      Category = "party_room"
	CategoryGuestApartment Category = "guest_apartment"
	CategorySauna          Category = "sauna"
	CategoryGym            Category = "gym"
	CategoryParking        Category = "parking"
	CategoryStorage        Category = "storage"
	CategoryOther          Category = "other"
)

// ValidCategories lists every accepted category value.
var ValidCategories = []Category{
	CategoryLaundry, CategoryPartyRoom, CategoryGuestApartment, CategorySauna,
	CategoryGym, CategoryParking, CategoryStorage, CategoryOther,
}

// ValidCategory reports whether c is a known category.
func ValidCategory(c Category) bool {
	for _, v := range ValidCategories {
		if c == v {
			return true
		}
	}
	return false
}

// TimeRestrictions is the daily operating-hours policy, expressed as local
// wall-clock times.
type TimeRestrictions struct {
	OpenTime   string `json:"open_time"`  // "HH:MM"
	CloseTime  string `json:"close_time"` // "HH:MM"
	AlwaysOpen bool   `json:"always_open"`
}

// BookingRules is the per-resource booking policy. Zero values for the
// numeric limits mean the limit is not enforced.
type BookingRules struct {
	CancellationDeadlineHours int    `json:"cancellation_deadline_hours"`
	AutoApprove               bool   `json:"auto_approve"`
	SpecialInstructions       string `json:"special_instructions,omitempty"`
	// MaxAdvanceDays caps how far ahead a booking may start.
	MaxAdvanceDays int `json:"max_advance_days"`
	// MaxPerUserPerWeek caps a member's bookings of this resource within one
	// local calendar week.
	MaxPerUserPerWeek int `json:"max_per_user_per_week"`
	// CleaningBufferMinutes is the recommended gap to neighbouring bookings.
	// Violations warn, they do not reject.
	CleaningBufferMinutes int `json:"cleaning_buffer_minutes"`
}

// Resource is a bookable asset owned by one handbook (e.g. the laundry room).
// Inactive resources are hidden from new-booking flows but their booking
// history remains.
type Resource struct {
	ID               string
	HandbookID       string
	Name             string
	Description      string
	Capacity         int
	Category         Category
	MaxDurationHours int
	IsActive         bool
	TimeRestrictions TimeRestrictions
	BookingRules     BookingRules
	CreatedAt        time.Time
	UpdatedAt        time.Time
}

// Filter defines parameters for listing resources.
type Filter struct {
	HandbookID string
	Category   string
	ActiveOnly bool
	Page       int
	PageSize   int
}
