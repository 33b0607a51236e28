package http

import (
	"time"

	"github.com/pontush81/handbook-backend/internal/resource"
)

type CreateResourceBody struct {
	HandbookID       string            `json:"handbook_id" binding:"required,uuid"`
	Name             string            `json:"name" binding:"required"`
	Description      string            `json:"description"`
	Capacity         int               `json:"capacity"`
	Category         string            `json:"category" binding:"required"`
	MaxDurationHours int               `json:"max_duration_hours"`
	AlwaysOpen       bool              `json:"always_open"`
	OpenTime         string            `json:"open_time"`
	CloseTime        string            `json:"close_time"`
	BookingRules     *BookingRulesBody `json:"booking_rules"`
}

type UpdateResourceBody struct {
	Name             *string           `json:"name"`
	Description      *string           `json:"description"`
	Capacity         *int              `json:"capacity"`
	Category         *string           `json:"category"`
	MaxDurationHours *int              `json:"max_duration_hours"`
	AlwaysOpen       *bool             `json:"always_open"`
	OpenTime         *string           `json:"open_time"`
	CloseTime        *string           `json:"close_time"`
	BookingRules     *BookingRulesBody `json:"booking_rules"`
	IsActive         *bool             `json:"is_active"`
}

type BookingRulesBody struct {
	CancellationDeadlineHours int    `json:"cancellation_deadline_hours"`
	AutoApprove               bool   `json:"auto_approve"`
	SpecialInstructions       string `json:"special_instructions"`
	MaxAdvanceDays            int    `json:"max_advance_days"`
	MaxPerUserPerWeek         int    `json:"max_per_user_per_week"`
	CleaningBufferMinutes     int    `json:"cleaning_buffer_minutes"`
}

type ResourceResponse struct {
	ID               string                   `json:"id"`
	HandbookID       string                   `json:"handbook_id"`
	Name             string                   `json:"name"`
	Description      string                   `json:"description"`
	Capacity         int                      `json:"capacity"`
	Category         string                   `json:"category"`
	MaxDurationHours int                      `json:"max_duration_hours"`
	IsActive         bool                     `json:"is_active"`
	TimeRestrictions TimeRestrictionsResponse `json:"time_restrictions"`
	BookingRules     BookingRulesBody         `json:"booking_rules"`
	CreatedAt        time.Time                `json:"created_at"`
	UpdatedAt        time.Time                `json:"updated_at"`
}

type TimeRestrictionsResponse struct {
	OpenTime   string `json:"open_time"`
	CloseTime  string `json:"close_time"`
	AlwaysOpen bool   `json:"always_open"`
}

func NewResourceResponse(r *resource.Resource) ResourceResponse {
	return ResourceResponse{
		ID:               r.ID,
		HandbookID:       r.HandbookID,
		Name:             r.Name,
		Description:      r.Description,
		Capacity:         r.Capacity,
		Category:         string(r.Category),
		MaxDurationHours: r.MaxDurationHours,
		IsActive:         r.IsActive,
		TimeRestrictions: TimeRestrictionsResponse{
			OpenTime:   r.TimeRestrictions.OpenTime,
			CloseTime:  r.TimeRestrictions.CloseTime,
			AlwaysOpen: r.TimeRestrictions.AlwaysOpen,
		},
		BookingRules: BookingRulesBody{
			CancellationDeadlineHours: r.BookingRules.CancellationDeadlineHours,
			AutoApprove:               r.BookingRules.AutoApprove,
			SpecialInstructions:       r.BookingRules.SpecialInstructions,
			MaxAdvanceDays:            r.BookingRules.MaxAdvanceDays,
			MaxPerUserPerWeek:         r.BookingRules.MaxPerUserPerWeek,
			CleaningBufferMinutes:     r.BookingRules.CleaningBufferMinutes,
		},
		CreatedAt: r.CreatedAt,
		UpdatedAt: r.UpdatedAt,
	}
}
