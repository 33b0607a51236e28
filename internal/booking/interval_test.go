package booking

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func at(hour, min int) time.Time {
	return time.Date(2024, 3, 10, hour, min, 0, 0, time.UTC)
}

func TestOverlapsSymmetry(t *testing.T) {
	pairs := []struct {
		a, b Interval
		want bool
	}{
		{Interval{at(9, 0), at(10, 0)}, Interval{at(9, 30), at(11, 0)}, true},
		{Interval{at(9, 0), at(10, 0)}, Interval{at(10, 0), at(11, 0)}, false},
		{Interval{at(9, 0), at(12, 0)}, Interval{at(10, 0), at(11, 0)}, true},
		{Interval{at(9, 0), at(10, 0)}, Interval{at(14, 0), at(15, 0)}, false},
		{Interval{at(9, 0), at(9, 0)}, Interval{at(8, 0), at(12, 0)}, false},
	}

	for _, p := range pairs {
		assert.Equal(t, p.want, p.a.Overlaps(p.b))
		assert.Equal(t, p.a.Overlaps(p.b), p.b.Overlaps(p.a), "overlap must be symmetric")
	}
}

func TestTouchingIntervalsDoNotOverlap(t *testing.T) {
	first := Interval{at(9, 0), at(11, 0)}
	second := Interval{at(11, 0), at(13, 0)}

	assert.False(t, first.Overlaps(second))
	assert.False(t, second.Overlaps(first))
}

func TestContainmentOverlaps(t *testing.T) {
	outer := Interval{at(8, 0), at(12, 0)}
	inner := Interval{at(9, 0), at(10, 0)}

	assert.True(t, inner.Overlaps(outer))
	assert.True(t, outer.Overlaps(inner))
}

func TestDetectEmptyExistingSet(t *testing.T) {
	result := Detect(Interval{at(9, 0), at(10, 0)}, nil)

	assert.False(t, result.HasCollision)
	assert.Empty(t, result.Conflicts)
}

func TestDetectReportsAllConflicts(t *testing.T) {
	existing := []Entry{
		{ID: "a", Label: "first", Start: at(9, 0), End: at(10, 0)},
		{ID: "b", Label: "second", Start: at(9, 30), End: at(11, 0)},
		{ID: "c", Label: "later", Start: at(13, 0), End: at(14, 0)},
	}

	result := Detect(Interval{at(9, 15), at(9, 45)}, existing)

	assert.True(t, result.HasCollision)
	if assert.Len(t, result.Conflicts, 2) {
		assert.Equal(t, "a", result.Conflicts[0].BookingID)
		assert.Equal(t, "b", result.Conflicts[1].BookingID)
	}
}

func TestDetectTouchingEndpointIsNotConflict(t *testing.T) {
	existing := []Entry{
		{ID: "a", Label: "morning", Start: at(9, 0), End: at(11, 0)},
	}

	result := Detect(Interval{at(11, 0), at(13, 0)}, existing)

	assert.False(t, result.HasCollision)
	assert.Empty(t, result.Conflicts)
}

func TestDetectZeroDurationCandidateNeverOverlaps(t *testing.T) {
	existing := []Entry{
		{ID: "a", Label: "all morning", Start: at(8, 0), End: at(12, 0)},
	}

	// Rejecting zero-duration candidates is the caller's job; the detector
	// itself finds no area to collide with.
	result := Detect(Interval{at(9, 0), at(9, 0)}, existing)

	assert.False(t, result.HasCollision)
}
