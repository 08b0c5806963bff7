// Package schedule holds the pure date-range arithmetic used by conflict
// detection, absence handling and timeline projection. Assignments are
// granted at day granularity with inclusive boundaries: two windows that
// share a start or end date overlap.
package schedule

import "time"

// Overlaps reports whether the inclusive ranges [aStart, aEnd] and
// [bStart, bEnd] intersect. A nil end means the range extends into the
// unbounded future; no sentinel date is involved.
func Overlaps(aStart time.Time, aEnd *time.Time, bStart time.Time, bEnd *time.Time) bool {
	// aStart <= bEnd (or +inf) AND bStart <= aEnd (or +inf)
	if bEnd != nil && bEnd.Before(aStart) {
		return false
	}
	if aEnd != nil && aEnd.Before(bStart) {
		return false
	}
	return true
}

// Covers reports whether day falls within the inclusive range [start, end].
func Covers(start time.Time, end *time.Time, day time.Time) bool {
	if day.Before(start) {
		return false
	}
	if end != nil && end.Before(day) {
		return false
	}
	return true
}

// DateOf normalizes a timestamp to midnight UTC so window comparisons work
// on calendar days regardless of the clock component callers pass in.
func DateOf(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}
