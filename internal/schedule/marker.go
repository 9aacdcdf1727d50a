package schedule

import (
	"time"

	"github.com/campuspulse/campus-events-api/internal/models"
)

// MarkerCategory classifies an event's temporal status for marker styling.
type MarkerCategory string

const (
	MarkerOngoing       MarkerCategory = "ongoing"
	MarkerPast          MarkerCategory = "past"
	MarkerFuture        MarkerCategory = "future"
	MarkerTodayUpcoming MarkerCategory = "today-upcoming"
)

// Classify maps an event onto exactly one marker category relative to now.
// Priority order: ongoing, past, future (calendar day after today), with
// today-upcoming as the catch-all. Missing or unparseable times default to
// 00:00 for the start and 23:59 for the end, so an event that provides no
// timing still classifies.
func Classify(e models.Event, now time.Time) MarkerCategory {
	day, err := time.ParseInLocation(DateLayout, e.Date, now.Location())
	if err != nil {
		return MarkerTodayUpcoming
	}

	startH, startM := parseClock(e.StartTime, 0, 0)
	endH, endM := parseClock(e.EndTime, 23, 59)
	start := time.Date(day.Year(), day.Month(), day.Day(), startH, startM, 0, 0, now.Location())
	end := time.Date(day.Year(), day.Month(), day.Day(), endH, endM, 0, 0, now.Location())

	switch {
	case !start.After(now) && !end.Before(now):
		return MarkerOngoing
	case end.Before(now):
		return MarkerPast
	case day.After(Midnight(now)):
		return MarkerFuture
	default:
		return MarkerTodayUpcoming
	}
}

func parseClock(raw *string, defHour, defMin int) (int, int) {
	if raw == nil || *raw == "" {
		return defHour, defMin
	}
	t, err := time.Parse("15:04", *raw)
	if err != nil {
		return defHour, defMin
	}
	return t.Hour(), t.Minute()
}
