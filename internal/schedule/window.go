// Package schedule holds the pure date/filter logic behind the event
// browsing UI: the rolling date window, the two-click range selector, the
// list filter pipeline and the map marker classifier. Every function takes
// its clock as an argument so behaviour is deterministic under test.
package schedule

import "time"

// DateLayout is the calendar-day wire format used throughout the API.
const DateLayout = "2006-01-02"

// Window returns count consecutive calendar days starting at anchor, with
// the start clamped forward to today. Both anchor and today are truncated to
// midnight in their own location before comparison.
func Window(anchor time.Time, count int, today time.Time) []time.Time {
	if count <= 0 {
		return []time.Time{}
	}

	start := Midnight(anchor)
	floor := Midnight(today)
	if start.Before(floor) {
		start = floor
	}

	dates := make([]time.Time, count)
	for i := 0; i < count; i++ {
		dates[i] = start.AddDate(0, 0, i)
	}
	return dates
}

// Midnight truncates a time to the start of its calendar day.
func Midnight(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
}

// SameDay reports whether two instants fall on the same calendar day.
func SameDay(a, b time.Time) bool {
	return a.Year() == b.Year() && a.Month() == b.Month() && a.Day() == b.Day()
}
