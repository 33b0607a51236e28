package booking

import (
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/pontush81/handbook-backend/internal/pkg/apperror"
	"github.com/pontush81/handbook-backend/internal/pkg/timeutil"
)

var (
	ErrNotFound         = apperror.New(http.StatusNotFound, "booking not found")
	ErrInvalidTimeRange = apperror.New(http.StatusBadRequest, "start time must be before end time")
	ErrStartTimePast    = apperror.New(http.StatusBadRequest, "cannot create a booking in the past")
	ErrDurationExceeded = apperror.New(http.StatusBadRequest, "booking exceeds the resource's maximum duration")
	ErrOutsideHours     = apperror.New(http.StatusBadRequest, "booking falls outside the resource's operating hours")
	ErrResourceNotFound = apperror.New(http.StatusNotFound, "resource not found")
	ErrResourceInactive = apperror.New(http.StatusBadRequest, "resource is not open for booking")
	ErrPermissionDenied = apperror.New(http.StatusForbidden, "permission denied")
	ErrAlreadyCancelled = apperror.New(http.StatusConflict, "booking is already cancelled")
	ErrCancelTooLate    = apperror.New(http.StatusBadRequest, "the cancellation deadline for this booking has passed")
	ErrMissingFields    = apperror.New(http.StatusBadRequest, "resource, start time and end time are required")
	ErrTooFarAhead      = apperror.New(http.StatusBadRequest, "booking starts beyond the resource's advance-booking horizon")
	ErrWeeklyQuota      = apperror.New(http.StatusBadRequest, "weekly booking limit for this resource reached")
)

// CollisionError reports that a candidate interval overlaps existing
// bookings. It wraps an AppError so the response layer maps it to 409; the
// handler additionally renders the conflict list.
type CollisionError struct {
	Conflicts []Conflict
}

func (e *CollisionError) Error() string {
	if len(e.Conflicts) == 0 {
		return "time slot already booked"
	}
	labels := make([]string, len(e.Conflicts))
	for i, c := range e.Conflicts {
		labels[i] = fmt.Sprintf("%s (%s–%s)",
			c.Label,
			timeutil.ToLocal(c.Start).Format("15:04"),
			timeutil.ToLocal(c.End).Format("15:04"))
	}
	return "time slot conflicts with: " + strings.Join(labels, ", ")
}

// Unwrap lets response.Error resolve the HTTP status via errors.As.
func (e *CollisionError) Unwrap() error {
	return apperror.New(http.StatusConflict, e.Error())
}

type Status string

const (
	StatusPending   Status = "pending"
	StatusConfirmed Status = "confirmed"
	StatusCancelled Status = "cancelled"
)

type Booking struct {
	ID            string
	HandbookID    string
	ResourceID    string
	ResourceName  string
	UserID        string
	UserName      string
	Purpose       string
	AttendeeCount int
	ContactPhone  string
	Notes         string
	StartTime     time.Time // UTC
	EndTime       time.Time // UTC
	Status        Status
	CreatedAt     time.Time
	UpdatedAt     time.Time

	// Warnings carries non-blocking advisories from the create/reschedule
	// path, e.g. a violated cleaning buffer. Never persisted.
	Warnings []string
}

// Interval returns the booking's half-open UTC interval.
func (b *Booking) Interval() Interval {
	return Interval{Start: b.StartTime, End: b.EndTime}
}

type Filter struct {
	HandbookID string
	ResourceID string
	UserID     string
	Status     string
	From       *time.Time // bookings ending at or after this instant
	To         *time.Time // bookings starting at or before this instant
	Page       int
	PageSize   int
}
