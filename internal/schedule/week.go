package schedule

import (
	"fmt"
	"time"
)

// DaysPerWeek is the width of the calendar grid, Monday through Sunday.
const DaysPerWeek = 7

// StartOfWeek returns the Monday 00:00:00 of the week containing t, in
// t's location (ISO week convention).
func StartOfWeek(t time.Time) time.Time {
	daysSinceMonday := (int(t.Weekday()) + 6) % 7
	d := t.AddDate(0, 0, -daysSinceMonday)
	return time.Date(d.Year(), d.Month(), d.Day(), 0, 0, 0, 0, t.Location())
}

// SlotTime resolves a (dayIndex, "HH:MM") grid coordinate to the
// concrete instant within the week starting at weekStart. dayIndex 0 is
// Monday.
func SlotTime(weekStart time.Time, dayIndex int, timeOfDay string) (time.Time, error) {
	if dayIndex < 0 || dayIndex >= DaysPerWeek {
		return time.Time{}, fmt.Errorf("day index %d out of range", dayIndex)
	}
	parsed, err := time.Parse("15:04", timeOfDay)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid time of day %q: %w", timeOfDay, err)
	}
	day := weekStart.AddDate(0, 0, dayIndex)
	return time.Date(day.Year(), day.Month(), day.Day(), parsed.Hour(), parsed.Minute(), 0, 0, weekStart.Location()), nil
}
