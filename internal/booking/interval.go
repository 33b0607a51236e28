package booking

import "time"

// Interval is a half-open time range [Start, End) in UTC.
type Interval struct {
	Start time.Time
	End   time.Time
}

// Overlaps reports whether two half-open intervals intersect. Intervals that
// merely touch at a boundary do not overlap, and an empty (zero or negative
// width) interval contains no instants, so it cannot overlap anything.
func (iv Interval) Overlaps(other Interval) bool {
	if !iv.Start.Before(iv.End) || !other.Start.Before(other.End) {
		return false
	}
	return iv.Start.Before(other.End) && other.Start.Before(iv.End)
}

// Duration returns End - Start.
func (iv Interval) Duration() time.Duration {
	return iv.End.Sub(iv.Start)
}

// Entry is an existing booking's interval as seen by the collision detector.
// Callers must pre-filter entries to a single resource and exclude cancelled
// bookings.
type Entry struct {
	ID    string
	Label string
	Start time.Time
	End   time.Time
}

// Conflict identifies one existing booking that overlaps a candidate.
type Conflict struct {
	BookingID string
	Label     string
	Start     time.Time
	End       time.Time
}

// Result is the outcome of a collision check. When HasCollision is true,
// Conflicts holds every overlapping entry, not just the first.
type Result struct {
	HasCollision bool
	Conflicts    []Conflict
}

// Detect checks a candidate interval against the existing bookings of the
// same resource. Pure function: no I/O, deterministic given its inputs.
// A zero-duration candidate never overlaps anything; rejecting it is the
// caller's job.
func Detect(candidate Interval, existing []Entry) Result {
	var res Result
	for _, e := range existing {
		if candidate.Overlaps(Interval{Start: e.Start, End: e.End}) {
			res.Conflicts = append(res.Conflicts, Conflict{
				BookingID: e.ID,
				Label:     e.Label,
				Start:     e.Start,
				End:       e.End,
			})
		}
	}
	res.HasCollision = len(res.Conflicts) > 0
	return res
}
