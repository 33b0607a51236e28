// Package timeutil converts between UTC instants and the civil wall-clock
// time of the association (Europe/Stockholm, UTC+1/+2 with DST). Bookings are
// stored in UTC; every user-facing scheduling rule is evaluated in local time.
package timeutil

import (
	"fmt"
	"sync"
	"time"
)

const locationName = "Europe/Stockholm"

var (
	locOnce sync.Once
	loc     *time.Location
)

// Location returns the civil timezone all wall-clock policy is evaluated in.
// Panics if the tz database is missing, which is a deployment error.
func Location() *time.Location {
	locOnce.Do(func() {
		var err error
		loc, err = time.LoadLocation(locationName)
		if err != nil {
			panic(fmt.Sprintf("load timezone %s: %v", locationName, err))
		}
	})
	return loc
}

// ToLocal converts a UTC instant to local civil time.
func ToLocal(t time.Time) time.Time {
	return t.In(Location())
}

// ToUTC converts a local civil time to its UTC instant. For a local time
// inside a DST transition gap the Go runtime's normalization applies; no
// dedicated resolution policy is defined for those instants.
func ToUTC(t time.Time) time.Time {
	return t.UTC()
}

// LocalDate constructs an instant from local calendar components and returns
// it in UTC for storage.
func LocalDate(year int, month time.Month, day, hour, min int) time.Time {
	return time.Date(year, month, day, hour, min, 0, 0, Location()).UTC()
}

// Clock is a wall-clock time of day, e.g. a resource's opening time.
type Clock struct {
	Hour   int
	Minute int
}

// ParseClock parses "HH:MM" (seconds tolerated and ignored).
func ParseClock(s string) (Clock, error) {
	var c Clock
	var sec int
	n, err := fmt.Sscanf(s, "%d:%d:%d", &c.Hour, &c.Minute, &sec)
	if err != nil && n < 2 {
		return Clock{}, fmt.Errorf("invalid clock time %q", s)
	}
	if c.Hour < 0 || c.Hour > 23 || c.Minute < 0 || c.Minute > 59 {
		return Clock{}, fmt.Errorf("clock time %q out of range", s)
	}
	return c, nil
}

// String formats the clock as "HH:MM".
func (c Clock) String() string {
	return fmt.Sprintf("%02d:%02d", c.Hour, c.Minute)
}

// Minutes returns the clock as minutes since midnight.
func (c Clock) Minutes() int {
	return c.Hour*60 + c.Minute
}

// AtClock places the clock on the local calendar day of t and returns the
// resulting UTC instant. The DST offset in effect on that specific day is
// applied, not a fixed offset.
func (c Clock) AtClock(t time.Time) time.Time {
	local := ToLocal(t)
	return LocalDate(local.Year(), local.Month(), local.Day(), c.Hour, c.Minute)
}

// NextFullHour returns the first whole local hour at or after t, in UTC.
func NextFullHour(t time.Time) time.Time {
	local := ToLocal(t)
	if local.Minute() == 0 && local.Second() == 0 && local.Nanosecond() == 0 {
		return local.UTC()
	}
	return LocalDate(local.Year(), local.Month(), local.Day(), local.Hour()+1, 0)
}

// SameLocalDay reports whether two instants fall on the same local calendar day.
func SameLocalDay(a, b time.Time) bool {
	la, lb := ToLocal(a), ToLocal(b)
	return la.Year() == lb.Year() && la.YearDay() == lb.YearDay()
}

// StartOfLocalDay returns local midnight of t's calendar day, in UTC.
func StartOfLocalDay(t time.Time) time.Time {
	local := ToLocal(t)
	return LocalDate(local.Year(), local.Month(), local.Day(), 0, 0)
}

// StartOfLocalWeek returns local midnight on the Monday of t's week, in UTC.
func StartOfLocalWeek(t time.Time) time.Time {
	local := ToLocal(t)
	// time.Weekday has Sunday == 0; Swedish weeks start on Monday.
	offset := (int(local.Weekday()) + 6) % 7
	return LocalDate(local.Year(), local.Month(), local.Day()-offset, 0, 0)
}
