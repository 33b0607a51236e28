package booking

import (
	"sort"
	"time"

	"github.com/pontush81/handbook-backend/internal/pkg/timeutil"
	"github.com/pontush81/handbook-backend/internal/resource"
)

// defaultProposedDuration is used when pre-filling a new booking form.
const defaultProposedDuration = 2 * time.Hour

// Kind classifies a booking relative to the viewer and the current instant,
// for calendar styling.
type Kind string

const (
	KindPast          Kind = "past"
	KindActive        Kind = "active-now"
	KindUpcomingOwn   Kind = "upcoming-own"
	KindUpcomingOther Kind = "upcoming-other"
)

// Classify determines a booking's calendar kind. A booking is active while
// start <= now <= end, past once end < now, and otherwise upcoming, split by
// whether the viewer made it.
func Classify(b *Booking, now time.Time, viewerID string) Kind {
	switch {
	case b.EndTime.Before(now):
		return KindPast
	case !b.StartTime.After(now):
		return KindActive
	case b.UserID == viewerID:
		return KindUpcomingOwn
	default:
		return KindUpcomingOther
	}
}

// DayWindow returns the resource's operating window for the local calendar
// day containing day, as a UTC interval.
func DayWindow(res *resource.Resource, day time.Time) (Interval, error) {
	open, err := timeutil.ParseClock(res.TimeRestrictions.OpenTime)
	if err != nil {
		return Interval{}, ErrOutsideHours
	}
	close, err := timeutil.ParseClock(res.TimeRestrictions.CloseTime)
	if err != nil {
		return Interval{}, ErrOutsideHours
	}
	return Interval{
		Start: open.AtClock(day),
		End:   close.AtClock(day),
	}, nil
}

// ProposeInterval pre-fills a candidate interval for a new booking on the
// given day. For today the start is the later of the next full hour and the
// opening time; for future days it is the opening time. The duration is the
// smaller of two hours and the resource's maximum, and the end never passes
// the closing time.
func ProposeInterval(res *resource.Resource, day, now time.Time) (Interval, error) {
	window, err := DayWindow(res, day)
	if err != nil {
		return Interval{}, err
	}

	start := window.Start
	if timeutil.SameLocalDay(day, now) {
		if next := timeutil.NextFullHour(now); next.After(start) {
			start = next
		}
	}

	duration := defaultProposedDuration
	if max := time.Duration(res.MaxDurationHours) * time.Hour; max < duration {
		duration = max
	}

	end := start.Add(duration)
	if end.After(window.End) {
		end = window.End
	}
	if !start.Before(end) {
		// The day is already over for this resource.
		return Interval{}, ErrOutsideHours
	}
	return Interval{Start: start, End: end}, nil
}

// DaySchedule is one local calendar day's bookings, ordered by start time.
type DaySchedule struct {
	Date     time.Time // midnight local, converted to UTC
	Bookings []*Booking
}

// GroupWeek distributes bookings over the seven local days of the week
// containing ref. Bookings outside the week are dropped; days without
// bookings still appear.
func GroupWeek(bookings []*Booking, ref time.Time) []DaySchedule {
	weekStart := timeutil.StartOfLocalWeek(ref)
	days := make([]DaySchedule, 7)
	for i := range days {
		// AddDate on the local representation keeps day boundaries correct
		// across DST, where a day is not always 24 hours.
		days[i].Date = timeutil.StartOfLocalDay(timeutil.ToLocal(weekStart).AddDate(0, 0, i))
	}

	sorted := make([]*Booking, len(bookings))
	copy(sorted, bookings)
	sort.Slice(sorted, func(i, j int) bool {
		return sorted[i].StartTime.Before(sorted[j].StartTime)
	})

	for _, b := range sorted {
		for i := range days {
			if timeutil.SameLocalDay(b.StartTime, days[i].Date) {
				days[i].Bookings = append(days[i].Bookings, b)
				break
			}
		}
	}
	return days
}

// FreeSlots subtracts the given bookings from the operating window and
// returns the remaining open intervals, in order. Cancelled bookings must be
// filtered out by the caller.
func FreeSlots(window Interval, bookings []*Booking) []Interval {
	busy := make([]Interval, 0, len(bookings))
	for _, b := range bookings {
		iv := b.Interval()
		if iv.Overlaps(window) {
			busy = append(busy, iv)
		}
	}
	sort.Slice(busy, func(i, j int) bool {
		return busy[i].Start.Before(busy[j].Start)
	})

	var free []Interval
	cursor := window.Start
	for _, iv := range busy {
		if iv.Start.After(cursor) {
			free = append(free, Interval{Start: cursor, End: iv.Start})
		}
		if iv.End.After(cursor) {
			cursor = iv.End
		}
	}
	if cursor.Before(window.End) {
		free = append(free, Interval{Start: cursor, End: window.End})
	}
	return free
}
