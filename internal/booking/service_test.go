package booking

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pontush81/handbook-backend/internal/handbook"
	"github.com/pontush81/handbook-backend/internal/pkg/timeutil"
	"github.com/pontush81/handbook-backend/internal/resource"
)

// fakeRepo is an in-memory Repository that counts calls, so tests can assert
// that validation failures short-circuit before any collision check.
type fakeRepo struct {
	existing []*Booking

	listActiveCalls int
	countCalls      int
	createCalls     int
	updateCalls     int
	replaceCalls    int
}

func (f *fakeRepo) Create(_ context.Context, b *Booking) error {
	f.createCalls++
	b.ID = "new-booking"
	b.CreatedAt = time.Now()
	b.UpdatedAt = b.CreatedAt
	f.existing = append(f.existing, b)
	return nil
}

func (f *fakeRepo) GetByID(_ context.Context, id string) (*Booking, error) {
	for _, b := range f.existing {
		if b.ID == id {
			return b, nil
		}
	}
	return nil, ErrNotFound
}

func (f *fakeRepo) List(_ context.Context, _ Filter) ([]*Booking, int, error) {
	return f.existing, len(f.existing), nil
}

func (f *fakeRepo) Update(_ context.Context, b *Booking) error {
	f.updateCalls++
	return nil
}

func (f *fakeRepo) Delete(_ context.Context, _ string) error {
	return nil
}

func (f *fakeRepo) Replace(_ context.Context, oldID string, replacement *Booking) error {
	f.replaceCalls++
	replacement.ID = "replacement-booking"
	return nil
}

func (f *fakeRepo) ListActiveForResource(_ context.Context, resourceID string, from, to time.Time) ([]*Booking, error) {
	f.listActiveCalls++
	var out []*Booking
	for _, b := range f.existing {
		if b.ResourceID == resourceID && b.Status != StatusCancelled &&
			b.StartTime.Before(to) && b.EndTime.After(from) {
			out = append(out, b)
		}
	}
	return out, nil
}

func (f *fakeRepo) CountActiveForUser(_ context.Context, resourceID, userID string, from, to time.Time) (int, error) {
	f.countCalls++
	count := 0
	for _, b := range f.existing {
		if b.ResourceID == resourceID && b.UserID == userID && b.Status != StatusCancelled &&
			!b.StartTime.Before(from) && b.StartTime.Before(to) {
			count++
		}
	}
	return count, nil
}

// fakeResources serves a single resource. Unused Service methods panic via
// the embedded nil interface.
type fakeResources struct {
	resource.Service
	res *resource.Resource
}

func (f fakeResources) GetByID(_ context.Context, id string) (*resource.Resource, error) {
	if f.res == nil || f.res.ID != id {
		return nil, resource.ErrNotFound
	}
	return f.res, nil
}

type fakeHandbooks struct {
	handbook.Service
	writableErr error
}

func (f fakeHandbooks) EnsureWritable(_ context.Context, _ string) error {
	return f.writableErr
}

// laundryRoom mirrors a typical shared laundry: four-hour cap, open 08-22.
func laundryRoom() *resource.Resource {
	return &resource.Resource{
		ID:               "res-laundry",
		HandbookID:       "hb-1",
		Name:             "Tvättstuga",
		Capacity:         1,
		Category:         resource.CategoryLaundry,
		MaxDurationHours: 4,
		IsActive:         true,
		TimeRestrictions: resource.TimeRestrictions{OpenTime: "08:00", CloseTime: "22:00"},
		BookingRules:     resource.BookingRules{CancellationDeadlineHours: 24},
	}
}

func newTestService(repo *fakeRepo, res *resource.Resource, now time.Time) *service {
	return &service{
		repo:            repo,
		resService:      fakeResources{res: res},
		handbookService: fakeHandbooks{},
		now:             func() time.Time { return now },
	}
}

// morningOf returns a fixed "now" early on the scenario day, before the
// resource opens.
func morningOf() time.Time {
	return timeutil.LocalDate(2024, 3, 10, 7, 0)
}

func existingMorningBooking() *Booking {
	return &Booking{
		ID:         "bk-existing",
		HandbookID: "hb-1",
		ResourceID: "res-laundry",
		UserID:     "user-neighbor",
		UserName:   "Granne",
		Purpose:    "Veckotvätt",
		StartTime:  timeutil.LocalDate(2024, 3, 10, 9, 0),
		EndTime:    timeutil.LocalDate(2024, 3, 10, 11, 0),
		Status:     StatusConfirmed,
	}
}

func TestCreateRejectsOverlapWithConflictDetails(t *testing.T) {
	repo := &fakeRepo{existing: []*Booking{existingMorningBooking()}}
	s := newTestService(repo, laundryRoom(), morningOf())

	_, err := s.Create(context.Background(), CreateRequest{
		UserID:     "user-me",
		ResourceID: "res-laundry",
		StartTime:  timeutil.LocalDate(2024, 3, 10, 10, 0),
		EndTime:    timeutil.LocalDate(2024, 3, 10, 12, 0),
	})

	var collErr *CollisionError
	require.ErrorAs(t, err, &collErr)
	require.Len(t, collErr.Conflicts, 1)
	assert.Equal(t, "bk-existing", collErr.Conflicts[0].BookingID)
	assert.Equal(t, "Veckotvätt", collErr.Conflicts[0].Label)
	assert.Equal(t, 0, repo.createCalls, "rejected booking must not be persisted")
}

func TestCreateAcceptsTouchingInterval(t *testing.T) {
	repo := &fakeRepo{existing: []*Booking{existingMorningBooking()}}
	s := newTestService(repo, laundryRoom(), morningOf())

	b, err := s.Create(context.Background(), CreateRequest{
		UserID:     "user-me",
		ResourceID: "res-laundry",
		StartTime:  timeutil.LocalDate(2024, 3, 10, 11, 0),
		EndTime:    timeutil.LocalDate(2024, 3, 10, 13, 0),
	})

	require.NoError(t, err)
	assert.Equal(t, StatusPending, b.Status)
	assert.Equal(t, 1, repo.listActiveCalls, "collision check re-fetches the booking list once")
	assert.Equal(t, 1, repo.createCalls)
}

func TestCreateRejectsDurationExceededBeforeCollisionCheck(t *testing.T) {
	repo := &fakeRepo{existing: []*Booking{existingMorningBooking()}}
	s := newTestService(repo, laundryRoom(), morningOf())

	_, err := s.Create(context.Background(), CreateRequest{
		UserID:     "user-me",
		ResourceID: "res-laundry",
		StartTime:  timeutil.LocalDate(2024, 3, 10, 12, 0),
		EndTime:    timeutil.LocalDate(2024, 3, 10, 17, 0), // five hours, cap is four
	})

	assert.ErrorIs(t, err, ErrDurationExceeded)
	assert.Equal(t, 0, repo.listActiveCalls, "validation failures must not reach the collision check")
	assert.Equal(t, 0, repo.createCalls)
}

func TestCreateRejectsPastStartEvenWhenOverlapping(t *testing.T) {
	repo := &fakeRepo{existing: []*Booking{existingMorningBooking()}}
	// Now is mid-afternoon, so a 10:00 candidate is in the past and also
	// overlaps the existing booking. The validation failure must win.
	s := newTestService(repo, laundryRoom(), timeutil.LocalDate(2024, 3, 10, 15, 0))

	_, err := s.Create(context.Background(), CreateRequest{
		UserID:     "user-me",
		ResourceID: "res-laundry",
		StartTime:  timeutil.LocalDate(2024, 3, 10, 10, 0),
		EndTime:    timeutil.LocalDate(2024, 3, 10, 11, 0),
	})

	assert.ErrorIs(t, err, ErrStartTimePast)
	var collErr *CollisionError
	assert.False(t, errors.As(err, &collErr), "past start is a validation error, not a collision")
	assert.Equal(t, 0, repo.listActiveCalls)
}

func TestCreateRejectsOutsideOperatingHours(t *testing.T) {
	repo := &fakeRepo{}
	s := newTestService(repo, laundryRoom(), morningOf())

	_, err := s.Create(context.Background(), CreateRequest{
		UserID:     "user-me",
		ResourceID: "res-laundry",
		StartTime:  timeutil.LocalDate(2024, 3, 10, 21, 0),
		EndTime:    timeutil.LocalDate(2024, 3, 10, 23, 0),
	})

	assert.ErrorIs(t, err, ErrOutsideHours)
	assert.Equal(t, 0, repo.listActiveCalls)
}

func TestCreateRejectsInvertedRange(t *testing.T) {
	repo := &fakeRepo{}
	s := newTestService(repo, laundryRoom(), morningOf())

	_, err := s.Create(context.Background(), CreateRequest{
		UserID:     "user-me",
		ResourceID: "res-laundry",
		StartTime:  timeutil.LocalDate(2024, 3, 10, 12, 0),
		EndTime:    timeutil.LocalDate(2024, 3, 10, 10, 0),
	})

	assert.ErrorIs(t, err, ErrInvalidTimeRange)
}

func TestCreateRejectsMissingFields(t *testing.T) {
	repo := &fakeRepo{}
	s := newTestService(repo, laundryRoom(), morningOf())

	_, err := s.Create(context.Background(), CreateRequest{UserID: "user-me"})

	assert.ErrorIs(t, err, ErrMissingFields)
}

func TestCreateRejectsInactiveResource(t *testing.T) {
	res := laundryRoom()
	res.IsActive = false
	repo := &fakeRepo{}
	s := newTestService(repo, res, morningOf())

	_, err := s.Create(context.Background(), CreateRequest{
		UserID:     "user-me",
		ResourceID: "res-laundry",
		StartTime:  timeutil.LocalDate(2024, 3, 10, 10, 0),
		EndTime:    timeutil.LocalDate(2024, 3, 10, 12, 0),
	})

	assert.ErrorIs(t, err, ErrResourceInactive)
}

func TestCreateHonorsTrialGate(t *testing.T) {
	repo := &fakeRepo{}
	s := newTestService(repo, laundryRoom(), morningOf())
	s.handbookService = fakeHandbooks{writableErr: handbook.ErrSubscriptionEnded}

	_, err := s.Create(context.Background(), CreateRequest{
		UserID:     "user-me",
		ResourceID: "res-laundry",
		StartTime:  timeutil.LocalDate(2024, 3, 10, 10, 0),
		EndTime:    timeutil.LocalDate(2024, 3, 10, 12, 0),
	})

	assert.ErrorIs(t, err, handbook.ErrSubscriptionEnded)
	assert.Equal(t, 0, repo.createCalls)
}

func TestCreateAutoApproveConfirmsImmediately(t *testing.T) {
	res := laundryRoom()
	res.BookingRules.AutoApprove = true
	repo := &fakeRepo{}
	s := newTestService(repo, res, morningOf())

	b, err := s.Create(context.Background(), CreateRequest{
		UserID:     "user-me",
		ResourceID: "res-laundry",
		StartTime:  timeutil.LocalDate(2024, 3, 10, 12, 0),
		EndTime:    timeutil.LocalDate(2024, 3, 10, 14, 0),
	})

	require.NoError(t, err)
	assert.Equal(t, StatusConfirmed, b.Status)
}

func TestCreateRejectsBeyondAdvanceHorizon(t *testing.T) {
	res := laundryRoom()
	res.BookingRules.MaxAdvanceDays = 7
	repo := &fakeRepo{}
	s := newTestService(repo, res, morningOf())

	// Ten days out with a seven-day horizon.
	_, err := s.Create(context.Background(), CreateRequest{
		UserID:     "user-me",
		ResourceID: "res-laundry",
		StartTime:  timeutil.LocalDate(2024, 3, 20, 10, 0),
		EndTime:    timeutil.LocalDate(2024, 3, 20, 12, 0),
	})

	assert.ErrorIs(t, err, ErrTooFarAhead)
	assert.Equal(t, 0, repo.listActiveCalls, "horizon check precedes the collision check")
	assert.Equal(t, 0, repo.createCalls)
}

func TestCreateAllowsStartOnAdvanceHorizon(t *testing.T) {
	res := laundryRoom()
	res.BookingRules.MaxAdvanceDays = 7
	repo := &fakeRepo{}
	s := newTestService(repo, res, morningOf())

	_, err := s.Create(context.Background(), CreateRequest{
		UserID:     "user-me",
		ResourceID: "res-laundry",
		StartTime:  timeutil.LocalDate(2024, 3, 16, 10, 0),
		EndTime:    timeutil.LocalDate(2024, 3, 16, 12, 0),
	})

	require.NoError(t, err)
	assert.Equal(t, 1, repo.createCalls)
}

func TestCreateEnforcesWeeklyQuota(t *testing.T) {
	res := laundryRoom()
	res.BookingRules.MaxPerUserPerWeek = 2
	first := existingMorningBooking()
	first.UserID = "user-me"
	second := existingMorningBooking()
	second.ID = "bk-second"
	second.UserID = "user-me"
	second.StartTime = timeutil.LocalDate(2024, 3, 10, 14, 0)
	second.EndTime = timeutil.LocalDate(2024, 3, 10, 16, 0)
	repo := &fakeRepo{existing: []*Booking{first, second}}
	s := newTestService(repo, res, morningOf())

	// Third laundry slot in the same local week.
	_, err := s.Create(context.Background(), CreateRequest{
		UserID:     "user-me",
		ResourceID: "res-laundry",
		StartTime:  timeutil.LocalDate(2024, 3, 10, 18, 0),
		EndTime:    timeutil.LocalDate(2024, 3, 10, 20, 0),
	})

	assert.ErrorIs(t, err, ErrWeeklyQuota)
	assert.Equal(t, 1, repo.countCalls)
	assert.Equal(t, 0, repo.createCalls)
}

func TestCreateWeeklyQuotaIgnoresOtherUsers(t *testing.T) {
	res := laundryRoom()
	res.BookingRules.MaxPerUserPerWeek = 1
	repo := &fakeRepo{existing: []*Booking{existingMorningBooking()}} // user-neighbor's slot
	s := newTestService(repo, res, morningOf())

	b, err := s.Create(context.Background(), CreateRequest{
		UserID:     "user-me",
		ResourceID: "res-laundry",
		StartTime:  timeutil.LocalDate(2024, 3, 10, 12, 0),
		EndTime:    timeutil.LocalDate(2024, 3, 10, 14, 0),
	})

	require.NoError(t, err)
	assert.NotNil(t, b)
}

func TestCreateWeeklyQuotaResetsNextWeek(t *testing.T) {
	res := laundryRoom()
	res.BookingRules.MaxPerUserPerWeek = 1
	res.BookingRules.MaxAdvanceDays = 0
	used := existingMorningBooking()
	used.UserID = "user-me"
	repo := &fakeRepo{existing: []*Booking{used}}
	s := newTestService(repo, res, morningOf())

	// Monday of the following local week.
	_, err := s.Create(context.Background(), CreateRequest{
		UserID:     "user-me",
		ResourceID: "res-laundry",
		StartTime:  timeutil.LocalDate(2024, 3, 11, 10, 0),
		EndTime:    timeutil.LocalDate(2024, 3, 11, 12, 0),
	})

	require.NoError(t, err)
	assert.Equal(t, 1, repo.createCalls)
}

func TestCreateWarnsAboutCleaningBuffer(t *testing.T) {
	res := laundryRoom()
	res.BookingRules.CleaningBufferMinutes = 15
	repo := &fakeRepo{existing: []*Booking{existingMorningBooking()}}
	s := newTestService(repo, res, morningOf())

	// Touches the existing booking: allowed, but inside the cleaning buffer.
	b, err := s.Create(context.Background(), CreateRequest{
		UserID:     "user-me",
		ResourceID: "res-laundry",
		StartTime:  timeutil.LocalDate(2024, 3, 10, 11, 0),
		EndTime:    timeutil.LocalDate(2024, 3, 10, 13, 0),
	})

	require.NoError(t, err)
	require.Len(t, b.Warnings, 1)
	assert.Contains(t, b.Warnings[0], "15 min")
	assert.Equal(t, 1, repo.createCalls, "buffer violations warn, they do not reject")
}

func TestCreateNoWarningOutsideCleaningBuffer(t *testing.T) {
	res := laundryRoom()
	res.BookingRules.CleaningBufferMinutes = 15
	repo := &fakeRepo{existing: []*Booking{existingMorningBooking()}}
	s := newTestService(repo, res, morningOf())

	// Starts a full hour after the neighbour's slot ends.
	b, err := s.Create(context.Background(), CreateRequest{
		UserID:     "user-me",
		ResourceID: "res-laundry",
		StartTime:  timeutil.LocalDate(2024, 3, 10, 12, 0),
		EndTime:    timeutil.LocalDate(2024, 3, 10, 14, 0),
	})

	require.NoError(t, err)
	assert.Empty(t, b.Warnings)
}

func TestRescheduleWithinSameWeekKeepsQuota(t *testing.T) {
	res := laundryRoom()
	res.BookingRules.MaxPerUserPerWeek = 1
	existing := existingMorningBooking()
	repo := &fakeRepo{existing: []*Booking{existing}}
	s := newTestService(repo, res, morningOf())

	// The booking being moved must not count against its own quota.
	moved, err := s.Reschedule(context.Background(), "bk-existing",
		timeutil.LocalDate(2024, 3, 10, 14, 0), timeutil.LocalDate(2024, 3, 10, 16, 0),
		"user-neighbor", false)

	require.NoError(t, err)
	assert.Equal(t, 1, repo.replaceCalls)
	assert.Equal(t, timeutil.LocalDate(2024, 3, 10, 14, 0), moved.StartTime)
}

func TestCancelByOwnerBeforeDeadline(t *testing.T) {
	existing := existingMorningBooking()
	repo := &fakeRepo{existing: []*Booking{existing}}
	// More than 24 hours before the booking starts.
	s := newTestService(repo, laundryRoom(), timeutil.LocalDate(2024, 3, 8, 12, 0))

	b, err := s.Cancel(context.Background(), "bk-existing", "user-neighbor", false)

	require.NoError(t, err)
	assert.Equal(t, StatusCancelled, b.Status)
	assert.Equal(t, 1, repo.updateCalls)
}

func TestCancelByOwnerAfterDeadline(t *testing.T) {
	existing := existingMorningBooking()
	repo := &fakeRepo{existing: []*Booking{existing}}
	// The evening before: inside the 24-hour cancellation window.
	s := newTestService(repo, laundryRoom(), timeutil.LocalDate(2024, 3, 9, 20, 0))

	_, err := s.Cancel(context.Background(), "bk-existing", "user-neighbor", false)

	assert.ErrorIs(t, err, ErrCancelTooLate)
	assert.Equal(t, 0, repo.updateCalls)
}

func TestCancelAdminBypassesDeadline(t *testing.T) {
	existing := existingMorningBooking()
	repo := &fakeRepo{existing: []*Booking{existing}}
	s := newTestService(repo, laundryRoom(), timeutil.LocalDate(2024, 3, 9, 20, 0))

	b, err := s.Cancel(context.Background(), "bk-existing", "user-board", true)

	require.NoError(t, err)
	assert.Equal(t, StatusCancelled, b.Status)
}

func TestCancelByStrangerDenied(t *testing.T) {
	existing := existingMorningBooking()
	repo := &fakeRepo{existing: []*Booking{existing}}
	s := newTestService(repo, laundryRoom(), timeutil.LocalDate(2024, 3, 8, 12, 0))

	_, err := s.Cancel(context.Background(), "bk-existing", "user-stranger", false)

	assert.ErrorIs(t, err, ErrPermissionDenied)
}

func TestCancelAlreadyCancelled(t *testing.T) {
	existing := existingMorningBooking()
	existing.Status = StatusCancelled
	repo := &fakeRepo{existing: []*Booking{existing}}
	s := newTestService(repo, laundryRoom(), timeutil.LocalDate(2024, 3, 8, 12, 0))

	_, err := s.Cancel(context.Background(), "bk-existing", "user-neighbor", false)

	assert.ErrorIs(t, err, ErrAlreadyCancelled)
}

func TestRescheduleIgnoresOwnIntervalAndReplacesAtomically(t *testing.T) {
	existing := existingMorningBooking()
	repo := &fakeRepo{existing: []*Booking{existing}}
	s := newTestService(repo, laundryRoom(), morningOf())

	// Shift by one hour; the new interval overlaps the old one, which must
	// not count as a conflict with itself.
	moved, err := s.Reschedule(context.Background(), "bk-existing",
		timeutil.LocalDate(2024, 3, 10, 10, 0),
		timeutil.LocalDate(2024, 3, 10, 12, 0),
		"user-neighbor", false)

	require.NoError(t, err)
	assert.Equal(t, "replacement-booking", moved.ID)
	assert.Equal(t, 1, repo.replaceCalls)
}

func TestRescheduleIntoOtherBookingRejected(t *testing.T) {
	other := existingMorningBooking()
	own := &Booking{
		ID:         "bk-own",
		HandbookID: "hb-1",
		ResourceID: "res-laundry",
		UserID:     "user-me",
		StartTime:  timeutil.LocalDate(2024, 3, 10, 13, 0),
		EndTime:    timeutil.LocalDate(2024, 3, 10, 15, 0),
		Status:     StatusConfirmed,
	}
	repo := &fakeRepo{existing: []*Booking{other, own}}
	s := newTestService(repo, laundryRoom(), morningOf())

	_, err := s.Reschedule(context.Background(), "bk-own",
		timeutil.LocalDate(2024, 3, 10, 10, 0),
		timeutil.LocalDate(2024, 3, 10, 12, 0),
		"user-me", false)

	var collErr *CollisionError
	require.ErrorAs(t, err, &collErr)
	require.Len(t, collErr.Conflicts, 1)
	assert.Equal(t, "bk-existing", collErr.Conflicts[0].BookingID)
	assert.Equal(t, 0, repo.replaceCalls)
}

func TestDeleteRequiresAdmin(t *testing.T) {
	existing := existingMorningBooking()
	repo := &fakeRepo{existing: []*Booking{existing}}
	s := newTestService(repo, laundryRoom(), morningOf())

	err := s.Delete(context.Background(), "bk-existing", "user-neighbor", false)
	assert.ErrorIs(t, err, ErrPermissionDenied)

	err = s.Delete(context.Background(), "bk-existing", "user-board", true)
	assert.NoError(t, err)
}
