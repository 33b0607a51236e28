package booking

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pontush81/handbook-backend/internal/pkg/timeutil"
)

func TestClassify(t *testing.T) {
	now := timeutil.LocalDate(2024, 3, 10, 12, 0)
	viewer := "user-me"

	tests := []struct {
		name    string
		booking Booking
		want    Kind
	}{
		{
			name:    "finished booking is past",
			booking: Booking{StartTime: timeutil.LocalDate(2024, 3, 10, 9, 0), EndTime: timeutil.LocalDate(2024, 3, 10, 11, 0)},
			want:    KindPast,
		},
		{
			name:    "running booking is active",
			booking: Booking{StartTime: timeutil.LocalDate(2024, 3, 10, 11, 0), EndTime: timeutil.LocalDate(2024, 3, 10, 13, 0)},
			want:    KindActive,
		},
		{
			name:    "booking ending exactly now is still active",
			booking: Booking{StartTime: timeutil.LocalDate(2024, 3, 10, 10, 0), EndTime: now},
			want:    KindActive,
		},
		{
			name:    "future booking by viewer",
			booking: Booking{UserID: viewer, StartTime: timeutil.LocalDate(2024, 3, 10, 15, 0), EndTime: timeutil.LocalDate(2024, 3, 10, 17, 0)},
			want:    KindUpcomingOwn,
		},
		{
			name:    "future booking by someone else",
			booking: Booking{UserID: "user-other", StartTime: timeutil.LocalDate(2024, 3, 10, 15, 0), EndTime: timeutil.LocalDate(2024, 3, 10, 17, 0)},
			want:    KindUpcomingOther,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Classify(&tt.booking, now, viewer))
		})
	}
}

func TestProposeIntervalToday(t *testing.T) {
	res := laundryRoom()

	// 09:20 local: the next full hour beats the opening time.
	now := timeutil.LocalDate(2024, 3, 10, 9, 20)
	iv, err := ProposeInterval(res, now, now)
	require.NoError(t, err)
	assert.Equal(t, timeutil.LocalDate(2024, 3, 10, 10, 0), iv.Start)
	assert.Equal(t, timeutil.LocalDate(2024, 3, 10, 12, 0), iv.End)
}

func TestProposeIntervalTodayBeforeOpening(t *testing.T) {
	res := laundryRoom()

	// 06:30 local: the opening time beats the next full hour.
	now := timeutil.LocalDate(2024, 3, 10, 6, 30)
	iv, err := ProposeInterval(res, now, now)
	require.NoError(t, err)
	assert.Equal(t, timeutil.LocalDate(2024, 3, 10, 8, 0), iv.Start)
	assert.Equal(t, timeutil.LocalDate(2024, 3, 10, 10, 0), iv.End)
}

func TestProposeIntervalFutureDayStartsAtOpening(t *testing.T) {
	res := laundryRoom()

	now := timeutil.LocalDate(2024, 3, 10, 18, 0)
	day := timeutil.LocalDate(2024, 3, 12, 0, 0)
	iv, err := ProposeInterval(res, day, now)
	require.NoError(t, err)
	assert.Equal(t, timeutil.LocalDate(2024, 3, 12, 8, 0), iv.Start)
	assert.Equal(t, timeutil.LocalDate(2024, 3, 12, 10, 0), iv.End)
}

func TestProposeIntervalClampedToClosing(t *testing.T) {
	res := laundryRoom()

	now := timeutil.LocalDate(2024, 3, 10, 20, 30)
	iv, err := ProposeInterval(res, now, now)
	require.NoError(t, err)
	assert.Equal(t, timeutil.LocalDate(2024, 3, 10, 21, 0), iv.Start)
	assert.Equal(t, timeutil.LocalDate(2024, 3, 10, 22, 0), iv.End)
}

func TestProposeIntervalDayOver(t *testing.T) {
	res := laundryRoom()

	now := timeutil.LocalDate(2024, 3, 10, 22, 30)
	_, err := ProposeInterval(res, now, now)
	assert.ErrorIs(t, err, ErrOutsideHours)
}

func TestProposeIntervalCapsAtResourceMax(t *testing.T) {
	res := laundryRoom()
	res.MaxDurationHours = 1

	now := timeutil.LocalDate(2024, 3, 10, 9, 20)
	iv, err := ProposeInterval(res, now, now)
	require.NoError(t, err)
	assert.Equal(t, time.Hour, iv.Duration())
}

func TestGroupWeekBucketsByLocalDay(t *testing.T) {
	// 2024-03-11 is a Monday.
	monday := &Booking{ID: "mon", StartTime: timeutil.LocalDate(2024, 3, 11, 9, 0), EndTime: timeutil.LocalDate(2024, 3, 11, 10, 0)}
	wedLate := &Booking{ID: "wed-late", StartTime: timeutil.LocalDate(2024, 3, 13, 18, 0), EndTime: timeutil.LocalDate(2024, 3, 13, 20, 0)}
	wedEarly := &Booking{ID: "wed-early", StartTime: timeutil.LocalDate(2024, 3, 13, 8, 0), EndTime: timeutil.LocalDate(2024, 3, 13, 9, 0)}
	nextWeek := &Booking{ID: "next", StartTime: timeutil.LocalDate(2024, 3, 18, 9, 0), EndTime: timeutil.LocalDate(2024, 3, 18, 10, 0)}

	days := GroupWeek([]*Booking{wedLate, monday, nextWeek, wedEarly}, timeutil.LocalDate(2024, 3, 13, 12, 0))

	require.Len(t, days, 7)
	assert.Equal(t, timeutil.LocalDate(2024, 3, 11, 0, 0), days[0].Date)

	require.Len(t, days[0].Bookings, 1)
	assert.Equal(t, "mon", days[0].Bookings[0].ID)

	require.Len(t, days[2].Bookings, 2)
	assert.Equal(t, "wed-early", days[2].Bookings[0].ID, "bookings within a day are ordered by start")
	assert.Equal(t, "wed-late", days[2].Bookings[1].ID)

	assert.Empty(t, days[6].Bookings, "days without bookings still appear")
	for _, d := range days {
		for _, b := range d.Bookings {
			assert.NotEqual(t, "next", b.ID, "bookings outside the week are dropped")
		}
	}
}

func TestGroupWeekSpansDSTChange(t *testing.T) {
	// The last Sunday of March 2024 switches to summer time. Day buckets
	// must follow local calendar days, not 24-hour strides.
	sunday := &Booking{ID: "sun", StartTime: timeutil.LocalDate(2024, 3, 31, 9, 0), EndTime: timeutil.LocalDate(2024, 3, 31, 11, 0)}

	days := GroupWeek([]*Booking{sunday}, timeutil.LocalDate(2024, 3, 29, 12, 0))

	require.Len(t, days, 7)
	require.Len(t, days[6].Bookings, 1)
	assert.Equal(t, "sun", days[6].Bookings[0].ID)
}

func TestFreeSlots(t *testing.T) {
	window := Interval{
		Start: timeutil.LocalDate(2024, 3, 10, 8, 0),
		End:   timeutil.LocalDate(2024, 3, 10, 22, 0),
	}
	bookings := []*Booking{
		{StartTime: timeutil.LocalDate(2024, 3, 10, 9, 0), EndTime: timeutil.LocalDate(2024, 3, 10, 11, 0)},
		{StartTime: timeutil.LocalDate(2024, 3, 10, 14, 0), EndTime: timeutil.LocalDate(2024, 3, 10, 16, 0)},
	}

	slots := FreeSlots(window, bookings)

	require.Len(t, slots, 3)
	assert.Equal(t, Interval{timeutil.LocalDate(2024, 3, 10, 8, 0), timeutil.LocalDate(2024, 3, 10, 9, 0)}, slots[0])
	assert.Equal(t, Interval{timeutil.LocalDate(2024, 3, 10, 11, 0), timeutil.LocalDate(2024, 3, 10, 14, 0)}, slots[1])
	assert.Equal(t, Interval{timeutil.LocalDate(2024, 3, 10, 16, 0), timeutil.LocalDate(2024, 3, 10, 22, 0)}, slots[2])
}

func TestFreeSlotsFullyBooked(t *testing.T) {
	window := Interval{
		Start: timeutil.LocalDate(2024, 3, 10, 8, 0),
		End:   timeutil.LocalDate(2024, 3, 10, 22, 0),
	}
	bookings := []*Booking{
		{StartTime: timeutil.LocalDate(2024, 3, 10, 8, 0), EndTime: timeutil.LocalDate(2024, 3, 10, 22, 0)},
	}

	assert.Empty(t, FreeSlots(window, bookings))
}

func TestFreeSlotsOverlappingBookings(t *testing.T) {
	window := Interval{
		Start: timeutil.LocalDate(2024, 3, 10, 8, 0),
		End:   timeutil.LocalDate(2024, 3, 10, 12, 0),
	}
	bookings := []*Booking{
		{StartTime: timeutil.LocalDate(2024, 3, 10, 9, 0), EndTime: timeutil.LocalDate(2024, 3, 10, 11, 0)},
		{StartTime: timeutil.LocalDate(2024, 3, 10, 10, 0), EndTime: timeutil.LocalDate(2024, 3, 10, 10, 30)},
	}

	slots := FreeSlots(window, bookings)

	require.Len(t, slots, 2)
	assert.Equal(t, Interval{timeutil.LocalDate(2024, 3, 10, 8, 0), timeutil.LocalDate(2024, 3, 10, 9, 0)}, slots[0])
	assert.Equal(t, Interval{timeutil.LocalDate(2024, 3, 10, 11, 0), timeutil.LocalDate(2024, 3, 10, 12, 0)}, slots[1])
}
