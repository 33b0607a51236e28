package booking

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/pontush81/handbook-backend/internal/handbook"
	"github.com/pontush81/handbook-backend/internal/notify"
	"github.com/pontush81/handbook-backend/internal/pkg/timeutil"
	"github.com/pontush81/handbook-backend/internal/resource"
)

type CreateRequest struct {
	UserID        string
	ResourceID    string
	StartTime     time.Time
	EndTime       time.Time
	Purpose       string
	AttendeeCount int
	ContactPhone  string
	Notes         string
}

type Service interface {
	Create(ctx context.Context, req CreateRequest) (*Booking, error)
	GetByID(ctx context.Context, id string) (*Booking, error)
	List(ctx context.Context, filter Filter) ([]*Booking, int, error)
	// Cancel marks a booking cancelled. The owner is bound by the resource's
	// cancellation deadline; handbook admins and superadmins are not.
	Cancel(ctx context.Context, id, actorID string, isAdmin bool) (*Booking, error)
	// Reschedule moves a booking to a new interval as an atomic
	// cancel-and-recreate. The old booking never coexists with the new one.
	Reschedule(ctx context.Context, id string, start, end time.Time, actorID string, isAdmin bool) (*Booking, error)
	Delete(ctx context.Context, id, actorID string, isAdmin bool) error
	// Propose pre-fills a candidate interval for the given local day.
	Propose(ctx context.Context, resourceID string, day time.Time) (Interval, error)
	// WeekSchedule returns the resource's non-cancelled bookings for the
	// local week containing ref, grouped by day.
	WeekSchedule(ctx context.Context, resourceID string, ref time.Time) (*resource.Resource, []DaySchedule, error)
	// DayAvailability returns the open slots of a resource for one local day.
	DayAvailability(ctx context.Context, resourceID string, day time.Time) ([]Interval, error)
}

type service struct {
	repo            Repository
	resService      resource.Service
	handbookService handbook.Service
	hub             *notify.Hub
	now             func() time.Time
}

func NewService(repo Repository, resService resource.Service, handbookService handbook.Service, hub *notify.Hub) Service {
	return &service{
		repo:            repo,
		resService:      resService,
		handbookService: handbookService,
		hub:             hub,
		now:             func() time.Time { return time.Now().UTC() },
	}
}

// conflictLabel names a booking in collision messages.
func conflictLabel(b *Booking) string {
	if b.Purpose != "" {
		return b.Purpose
	}
	if b.UserName != "" {
		return b.UserName
	}
	return "existing booking"
}

func entries(bookings []*Booking) []Entry {
	out := make([]Entry, len(bookings))
	for i, b := range bookings {
		out[i] = Entry{
			ID:    b.ID,
			Label: conflictLabel(b),
			Start: b.StartTime,
			End:   b.EndTime,
		}
	}
	return out
}

// validate runs the policy checks that precede any collision check. It never
// touches the booking repository.
func (s *service) validate(res *resource.Resource, candidate Interval) error {
	if !candidate.Start.Before(candidate.End) {
		return ErrInvalidTimeRange
	}
	if candidate.Start.Before(s.now()) {
		return ErrStartTimePast
	}
	if max := res.BookingRules.MaxAdvanceDays; max > 0 && candidate.Start.After(s.now().AddDate(0, 0, max)) {
		return ErrTooFarAhead
	}
	if !res.IsActive {
		return ErrResourceInactive
	}
	if candidate.Duration() > time.Duration(res.MaxDurationHours)*time.Hour {
		return ErrDurationExceeded
	}
	if !res.TimeRestrictions.AlwaysOpen {
		window, err := DayWindow(res, candidate.Start)
		if err != nil {
			return err
		}
		if candidate.Start.Before(window.Start) || candidate.End.After(window.End) {
			return ErrOutsideHours
		}
	}
	return nil
}

// checkCollision re-fetches the resource's current bookings and runs the
// detector. Pulling a fresh list here narrows the race window between two
// concurrent attempts; the database exclusion constraint closes it.
func (s *service) checkCollision(ctx context.Context, resourceID string, candidate Interval, excludeID string) error {
	existing, err := s.repo.ListActiveForResource(ctx, resourceID, candidate.Start, candidate.End)
	if err != nil {
		return err
	}
	if excludeID != "" {
		kept := existing[:0]
		for _, b := range existing {
			if b.ID != excludeID {
				kept = append(kept, b)
			}
		}
		existing = kept
	}
	if result := Detect(candidate, entries(existing)); result.HasCollision {
		return &CollisionError{Conflicts: result.Conflicts}
	}
	return nil
}

// checkWeeklyQuota enforces the resource's per-user limit for the local
// calendar week the candidate starts in. A rescheduled booking does not count
// against its own quota.
func (s *service) checkWeeklyQuota(ctx context.Context, res *resource.Resource, userID string, start time.Time, rescheduling bool) error {
	max := res.BookingRules.MaxPerUserPerWeek
	if max <= 0 {
		return nil
	}

	weekStart := timeutil.StartOfLocalWeek(start)
	weekEnd := timeutil.StartOfLocalDay(timeutil.ToLocal(weekStart).AddDate(0, 0, 7))

	count, err := s.repo.CountActiveForUser(ctx, res.ID, userID, weekStart, weekEnd)
	if err != nil {
		return err
	}
	if rescheduling {
		count--
	}
	if count >= max {
		return ErrWeeklyQuota
	}
	return nil
}

// cleaningWarnings reports bookings closer than the resource's cleaning
// buffer. Advisory only, mirrors the collision check with a padded window.
func (s *service) cleaningWarnings(ctx context.Context, res *resource.Resource, candidate Interval, excludeID string) []string {
	buffer := time.Duration(res.BookingRules.CleaningBufferMinutes) * time.Minute
	if buffer <= 0 {
		return nil
	}

	padded := Interval{Start: candidate.Start.Add(-buffer), End: candidate.End.Add(buffer)}
	existing, err := s.repo.ListActiveForResource(ctx, res.ID, padded.Start, padded.End)
	if err != nil {
		return nil
	}
	for _, b := range existing {
		if b.ID == excludeID {
			continue
		}
		if padded.Overlaps(b.Interval()) {
			return []string{fmt.Sprintf("recommended: leave %d min of cleaning time between bookings", res.BookingRules.CleaningBufferMinutes)}
		}
	}
	return nil
}

func (s *service) Create(ctx context.Context, req CreateRequest) (*Booking, error) {
	if req.ResourceID == "" || req.StartTime.IsZero() || req.EndTime.IsZero() {
		return nil, ErrMissingFields
	}

	res, err := s.resService.GetByID(ctx, req.ResourceID)
	if err != nil {
		if errors.Is(err, resource.ErrNotFound) {
			return nil, ErrResourceNotFound
		}
		return nil, err
	}

	if err := s.handbookService.EnsureWritable(ctx, res.HandbookID); err != nil {
		return nil, err
	}

	candidate := Interval{Start: req.StartTime.UTC(), End: req.EndTime.UTC()}
	if err := s.validate(res, candidate); err != nil {
		return nil, err
	}
	if err := s.checkWeeklyQuota(ctx, res, req.UserID, candidate.Start, false); err != nil {
		return nil, err
	}
	if err := s.checkCollision(ctx, req.ResourceID, candidate, ""); err != nil {
		return nil, err
	}

	status := StatusPending
	if res.BookingRules.AutoApprove {
		status = StatusConfirmed
	}

	b := &Booking{
		HandbookID:    res.HandbookID,
		ResourceID:    req.ResourceID,
		ResourceName:  res.Name,
		UserID:        req.UserID,
		Purpose:       req.Purpose,
		AttendeeCount: req.AttendeeCount,
		ContactPhone:  req.ContactPhone,
		Notes:         req.Notes,
		StartTime:     candidate.Start,
		EndTime:       candidate.End,
		Status:        status,
	}
	b.Warnings = s.cleaningWarnings(ctx, res, candidate, "")

	if err := s.repo.Create(ctx, b); err != nil {
		return nil, err
	}

	s.hub.Publish(res.HandbookID, notify.Event{
		Type:    notify.EventBookingCreated,
		Payload: map[string]string{"booking_id": b.ID, "resource_id": b.ResourceID},
	})
	return b, nil
}

func (s *service) GetByID(ctx context.Context, id string) (*Booking, error) {
	return s.repo.GetByID(ctx, id)
}

func (s *service) List(ctx context.Context, filter Filter) ([]*Booking, int, error) {
	return s.repo.List(ctx, filter)
}

func (s *service) Cancel(ctx context.Context, id, actorID string, isAdmin bool) (*Booking, error) {
	b, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if b.Status == StatusCancelled {
		return nil, ErrAlreadyCancelled
	}
	if !isAdmin && b.UserID != actorID {
		return nil, ErrPermissionDenied
	}

	if !isAdmin {
		res, err := s.resService.GetByID(ctx, b.ResourceID)
		if err != nil {
			return nil, err
		}
		if deadline := res.BookingRules.CancellationDeadlineHours; deadline > 0 {
			cutoff := b.StartTime.Add(-time.Duration(deadline) * time.Hour)
			if s.now().After(cutoff) {
				return nil, ErrCancelTooLate
			}
		}
	}

	b.Status = StatusCancelled
	if err := s.repo.Update(ctx, b); err != nil {
		return nil, err
	}

	s.hub.Publish(b.HandbookID, notify.Event{
		Type:    notify.EventBookingCancelled,
		Payload: map[string]string{"booking_id": b.ID, "resource_id": b.ResourceID},
	})
	return b, nil
}

func (s *service) Reschedule(ctx context.Context, id string, start, end time.Time, actorID string, isAdmin bool) (*Booking, error) {
	old, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if old.Status == StatusCancelled {
		return nil, ErrAlreadyCancelled
	}
	if !isAdmin && old.UserID != actorID {
		return nil, ErrPermissionDenied
	}

	res, err := s.resService.GetByID(ctx, old.ResourceID)
	if err != nil {
		return nil, err
	}
	if err := s.handbookService.EnsureWritable(ctx, res.HandbookID); err != nil {
		return nil, err
	}

	candidate := Interval{Start: start.UTC(), End: end.UTC()}
	if err := s.validate(res, candidate); err != nil {
		return nil, err
	}
	sameWeek := timeutil.StartOfLocalWeek(candidate.Start).Equal(timeutil.StartOfLocalWeek(old.StartTime))
	if err := s.checkWeeklyQuota(ctx, res, old.UserID, candidate.Start, sameWeek); err != nil {
		return nil, err
	}
	if err := s.checkCollision(ctx, old.ResourceID, candidate, old.ID); err != nil {
		return nil, err
	}

	replacement := &Booking{
		HandbookID:    old.HandbookID,
		ResourceID:    old.ResourceID,
		ResourceName:  old.ResourceName,
		UserID:        old.UserID,
		Purpose:       old.Purpose,
		AttendeeCount: old.AttendeeCount,
		ContactPhone:  old.ContactPhone,
		Notes:         old.Notes,
		StartTime:     candidate.Start,
		EndTime:       candidate.End,
		Status:        old.Status,
	}
	replacement.Warnings = s.cleaningWarnings(ctx, res, candidate, old.ID)

	if err := s.repo.Replace(ctx, old.ID, replacement); err != nil {
		return nil, err
	}

	s.hub.Publish(old.HandbookID, notify.Event{
		Type:    notify.EventBookingCreated,
		Payload: map[string]string{"booking_id": replacement.ID, "resource_id": replacement.ResourceID},
	})
	return replacement, nil
}

func (s *service) Delete(ctx context.Context, id, actorID string, isAdmin bool) error {
	b, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return err
	}
	if !isAdmin {
		return ErrPermissionDenied
	}
	if err := s.repo.Delete(ctx, id); err != nil {
		return err
	}
	s.hub.Publish(b.HandbookID, notify.Event{
		Type:    notify.EventBookingCancelled,
		Payload: map[string]string{"booking_id": b.ID, "resource_id": b.ResourceID},
	})
	return nil
}

func (s *service) Propose(ctx context.Context, resourceID string, day time.Time) (Interval, error) {
	res, err := s.resService.GetByID(ctx, resourceID)
	if err != nil {
		return Interval{}, err
	}
	return ProposeInterval(res, day, s.now())
}

func (s *service) WeekSchedule(ctx context.Context, resourceID string, ref time.Time) (*resource.Resource, []DaySchedule, error) {
	res, err := s.resService.GetByID(ctx, resourceID)
	if err != nil {
		return nil, nil, err
	}

	weekStart := timeutil.StartOfLocalWeek(ref)
	weekEnd := timeutil.StartOfLocalDay(timeutil.ToLocal(weekStart).AddDate(0, 0, 7))
	bookings, err := s.repo.ListActiveForResource(ctx, resourceID, weekStart, weekEnd)
	if err != nil {
		return nil, nil, err
	}
	return res, GroupWeek(bookings, ref), nil
}

func (s *service) DayAvailability(ctx context.Context, resourceID string, day time.Time) ([]Interval, error) {
	res, err := s.resService.GetByID(ctx, resourceID)
	if err != nil {
		return nil, err
	}
	window, err := DayWindow(res, day)
	if err != nil {
		return nil, err
	}
	bookings, err := s.repo.ListActiveForResource(ctx, resourceID, window.Start, window.End)
	if err != nil {
		return nil, err
	}
	return FreeSlots(window, bookings), nil
}
