package resource

import (
	"context"
	"strings"

	"github.com/pontush81/handbook-backend/internal/handbook"
	"github.com/pontush81/handbook-backend/internal/pkg/timeutil"
)

// CreateRequest holds the fields for creating a resource. Zero values for
// MaxDurationHours and TimeRestrictions mean "use the category template".
type CreateRequest struct {
	HandbookID       string
	Name             string
	Description      string
	Capacity         int
	Category         Category
	MaxDurationHours int
	AlwaysOpen       bool
	OpenTime         string
	CloseTime        string
	BookingRules     BookingRules
}

// UpdateRequest holds mutable resource fields. Nil means "leave as is".
// Changing the category without supplying explicit hours or duration
// re-derives those from the new category's template.
type UpdateRequest struct {
	Name             *string
	Description      *string
	Capacity         *int
	Category         *Category
	MaxDurationHours *int
	AlwaysOpen       *bool
	OpenTime         *string
	CloseTime        *string
	BookingRules     *BookingRules
	IsActive         *bool
}

// Service defines business logic for resources.
type Service interface {
	Create(ctx context.Context, req CreateRequest) (*Resource, error)
	GetByID(ctx context.Context, id string) (*Resource, error)
	List(ctx context.Context, filter Filter) ([]*Resource, int, error)
	Update(ctx context.Context, id string, req UpdateRequest) (*Resource, error)
	Delete(ctx context.Context, id string) error
}

type service struct {
	repo            Repository
	handbookService handbook.Service
}

// NewService creates a resource Service.
func NewService(repo Repository, handbookService handbook.Service) Service {
	return &service{
		repo:            repo,
		handbookService: handbookService,
	}
}

func validateHours(tr TimeRestrictions) error {
	open, err := timeutil.ParseClock(tr.OpenTime)
	if err != nil {
		return ErrInvalidHours
	}
	close, err := timeutil.ParseClock(tr.CloseTime)
	if err != nil {
		return ErrInvalidHours
	}
	if close.Minutes() <= open.Minutes() {
		return ErrInvalidHours
	}
	return nil
}

func (s *service) Create(ctx context.Context, req CreateRequest) (*Resource, error) {
	if strings.TrimSpace(req.Name) == "" {
		return nil, ErrEmptyName
	}
	if !ValidCategory(req.Category) {
		return nil, ErrInvalidCategory
	}
	if req.Capacity < 1 {
		return nil, ErrInvalidCapacity
	}

	if err := s.handbookService.EnsureWritable(ctx, req.HandbookID); err != nil {
		return nil, err
	}

	// Start from the category template and apply admin overrides on top.
	// Always-open only swaps the operating hours; the category keeps
	// supplying duration, horizon and quota defaults.
	tpl := TemplateFor(req.Category)
	if req.AlwaysOpen {
		open := AlwaysOpenTemplate()
		tpl.OpenTime = open.OpenTime
		tpl.CloseTime = open.CloseTime
	}

	maxDuration := tpl.MaxDurationHours
	if req.MaxDurationHours != 0 {
		if req.MaxDurationHours < 1 {
			return nil, ErrInvalidDuration
		}
		maxDuration = req.MaxDurationHours
	}

	restrictions := TimeRestrictions{
		OpenTime:   tpl.OpenTime,
		CloseTime:  tpl.CloseTime,
		AlwaysOpen: req.AlwaysOpen,
	}
	if req.OpenTime != "" {
		restrictions.OpenTime = req.OpenTime
	}
	if req.CloseTime != "" {
		restrictions.CloseTime = req.CloseTime
	}
	if err := validateHours(restrictions); err != nil {
		return nil, err
	}

	rules := req.BookingRules
	if rules.MaxAdvanceDays == 0 {
		rules.MaxAdvanceDays = tpl.MaxAdvanceDays
	}
	if rules.MaxPerUserPerWeek == 0 {
		rules.MaxPerUserPerWeek = tpl.MaxPerUserPerWeek
	}
	if rules.CleaningBufferMinutes == 0 {
		rules.CleaningBufferMinutes = tpl.CleaningBufferMinutes
	}

	res := &Resource{
		HandbookID:       req.HandbookID,
		Name:             strings.TrimSpace(req.Name),
		Description:      req.Description,
		Capacity:         req.Capacity,
		Category:         req.Category,
		MaxDurationHours: maxDuration,
		IsActive:         true,
		TimeRestrictions: restrictions,
		BookingRules:     rules,
	}

	if err := s.repo.Create(ctx, res); err != nil {
		return nil, err
	}
	return res, nil
}

func (s *service) GetByID(ctx context.Context, id string) (*Resource, error) {
	return s.repo.GetByID(ctx, id)
}

func (s *service) List(ctx context.Context, filter Filter) ([]*Resource, int, error) {
	return s.repo.List(ctx, filter)
}

func (s *service) Update(ctx context.Context, id string, req UpdateRequest) (*Resource, error) {
	res, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if err := s.handbookService.EnsureWritable(ctx, res.HandbookID); err != nil {
		return nil, err
	}

	if req.Name != nil {
		if strings.TrimSpace(*req.Name) == "" {
			return nil, ErrEmptyName
		}
		res.Name = strings.TrimSpace(*req.Name)
	}
	if req.Description != nil {
		res.Description = *req.Description
	}
	if req.Capacity != nil {
		if *req.Capacity < 1 {
			return nil, ErrInvalidCapacity
		}
		res.Capacity = *req.Capacity
	}

	if req.Category != nil && *req.Category != res.Category {
		if !ValidCategory(*req.Category) {
			return nil, ErrInvalidCategory
		}
		res.Category = *req.Category

		// A category switch re-derives template defaults unless the same
		// request overrides them explicitly.
		tpl := TemplateFor(res.Category)
		if req.MaxDurationHours == nil {
			res.MaxDurationHours = tpl.MaxDurationHours
		}
		if req.OpenTime == nil && req.CloseTime == nil && req.AlwaysOpen == nil && !res.TimeRestrictions.AlwaysOpen {
			res.TimeRestrictions.OpenTime = tpl.OpenTime
			res.TimeRestrictions.CloseTime = tpl.CloseTime
		}
	}

	if req.MaxDurationHours != nil {
		if *req.MaxDurationHours < 1 {
			return nil, ErrInvalidDuration
		}
		res.MaxDurationHours = *req.MaxDurationHours
	}
	if req.AlwaysOpen != nil {
		res.TimeRestrictions.AlwaysOpen = *req.AlwaysOpen
		if *req.AlwaysOpen {
			tpl := AlwaysOpenTemplate()
			res.TimeRestrictions.OpenTime = tpl.OpenTime
			res.TimeRestrictions.CloseTime = tpl.CloseTime
		}
	}
	if req.OpenTime != nil {
		res.TimeRestrictions.OpenTime = *req.OpenTime
	}
	if req.CloseTime != nil {
		res.TimeRestrictions.CloseTime = *req.CloseTime
	}
	if err := validateHours(res.TimeRestrictions); err != nil {
		return nil, err
	}

	if req.BookingRules != nil {
		res.BookingRules = *req.BookingRules
	}
	if req.IsActive != nil {
		res.IsActive = *req.IsActive
	}

	if err := s.repo.Update(ctx, res); err != nil {
		return nil, err
	}
	return res, nil
}

func (s *service) Delete(ctx context.Context, id string) error {
	if _, err := s.repo.GetByID(ctx, id); err != nil {
		return err
	}
	return s.repo.Delete(ctx, id)
}
