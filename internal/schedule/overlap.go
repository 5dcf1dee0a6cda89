// Package schedule holds the pure scheduling primitives: the interval
// overlap predicate, recurrence expansion and week arithmetic. Nothing
// here touches the store.
package schedule

import "time"

// Overlaps reports whether the half-open intervals [aStart, aEnd) and
// [bStart, bEnd) share at least one instant. Start is inclusive, end is
// exclusive: intervals that touch at a boundary do not overlap.
//
// This is the single overlap predicate for the whole system. Every
// conflict decision (availability checks, SQL filters, slot occupancy)
// must agree with it; do not inline the comparison elsewhere.
func Overlaps(aStart, aEnd, bStart, bEnd time.Time) bool {
	return aStart.Before(bEnd) && aEnd.After(bStart)
}
