package http

import (
	"time"

	"github.com/pontush81/handbook-backend/internal/booking"
	"github.com/pontush81/handbook-backend/internal/pkg/timeutil"
)

type CreateBookingBody struct {
	ResourceID    string    `json:"resource_id" binding:"required,uuid"`
	StartTime     time.Time `json:"start_time" binding:"required"`
	EndTime       time.Time `json:"end_time" binding:"required"`
	Purpose       string    `json:"purpose"`
	AttendeeCount int       `json:"attendee_count"`
	ContactPhone  string    `json:"contact_phone"`
	Notes         string    `json:"notes"`
}

type RescheduleBookingBody struct {
	StartTime time.Time `json:"start_time" binding:"required"`
	EndTime   time.Time `json:"end_time" binding:"required"`
}

type BookingResponse struct {
	ID            string    `json:"id"`
	HandbookID    string    `json:"handbook_id"`
	ResourceID    string    `json:"resource_id"`
	ResourceName  string    `json:"resource_name"`
	UserID        string    `json:"user_id"`
	UserName      string    `json:"user_name"`
	Purpose       string    `json:"purpose"`
	AttendeeCount int       `json:"attendee_count"`
	ContactPhone  string    `json:"contact_phone"`
	Notes         string    `json:"notes"`
	StartTime     time.Time `json:"start_time"`
	EndTime       time.Time `json:"end_time"`
	Status        string    `json:"status"`
	CreatedAt     time.Time `json:"created_at"`
	UpdatedAt     time.Time `json:"updated_at"`
	Warnings      []string  `json:"warnings,omitempty"`
}

func NewBookingResponse(b *booking.Booking) BookingResponse {
	return BookingResponse{
		ID:            b.ID,
		HandbookID:    b.HandbookID,
		ResourceID:    b.ResourceID,
		ResourceName:  b.ResourceName,
		UserID:        b.UserID,
		UserName:      b.UserName,
		Purpose:       b.Purpose,
		AttendeeCount: b.AttendeeCount,
		ContactPhone:  b.ContactPhone,
		Notes:         b.Notes,
		StartTime:     b.StartTime.UTC(),
		EndTime:       b.EndTime.UTC(),
		Status:        string(b.Status),
		CreatedAt:     b.CreatedAt,
		UpdatedAt:     b.UpdatedAt,
		Warnings:      b.Warnings,
	}
}

// CalendarEntry is one booking on the week grid, classified for styling.
type CalendarEntry struct {
	BookingResponse
	Kind string `json:"kind"`
}

type CalendarDay struct {
	Date    string          `json:"date"` // local calendar date, YYYY-MM-DD
	Entries []CalendarEntry `json:"entries"`
}

type CalendarResponse struct {
	ResourceID   string        `json:"resource_id"`
	ResourceName string        `json:"resource_name"`
	Days         []CalendarDay `json:"days"`
}

func NewCalendarResponse(resourceID, resourceName string, days []booking.DaySchedule, now time.Time, viewerID string) CalendarResponse {
	out := CalendarResponse{
		ResourceID:   resourceID,
		ResourceName: resourceName,
		Days:         make([]CalendarDay, len(days)),
	}
	for i, d := range days {
		day := CalendarDay{
			Date:    timeutil.ToLocal(d.Date).Format("2006-01-02"),
			Entries: make([]CalendarEntry, len(d.Bookings)),
		}
		for j, b := range d.Bookings {
			day.Entries[j] = CalendarEntry{
				BookingResponse: NewBookingResponse(b),
				Kind:            string(booking.Classify(b, now, viewerID)),
			}
		}
		out.Days[i] = day
	}
	return out
}

type SlotResponse struct {
	StartTime time.Time `json:"start_time"`
	EndTime   time.Time `json:"end_time"`
}

func NewSlotResponses(slots []booking.Interval) []SlotResponse {
	out := make([]SlotResponse, len(slots))
	for i, s := range slots {
		out[i] = SlotResponse{StartTime: s.Start.UTC(), EndTime: s.End.UTC()}
	}
	return out
}

// ConflictResponse enumerates the bookings blocking a rejected candidate.
type ConflictResponse struct {
	Error     string         `json:"error"`
	Conflicts []ConflictItem `json:"conflicts"`
}

type ConflictItem struct {
	BookingID string    `json:"booking_id"`
	Label     string    `json:"label"`
	StartTime time.Time `json:"start_time"`
	EndTime   time.Time `json:"end_time"`
}

func NewConflictResponse(e *booking.CollisionError) ConflictResponse {
	out := ConflictResponse{
		Error:     e.Error(),
		Conflicts: make([]ConflictItem, len(e.Conflicts)),
	}
	for i, c := range e.Conflicts {
		out.Conflicts[i] = ConflictItem{
			BookingID: c.BookingID,
			Label:     c.Label,
			StartTime: c.Start.UTC(),
			EndTime:   c.End.UTC(),
		}
	}
	return out
}
