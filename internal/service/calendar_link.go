package service

import (
	"net/url"
	"strings"

	"github.com/campuspulse/campus-events-api/internal/models"
)

const calendarRenderURL = "https://calendar.google.com/calendar/render"

// CalendarLink builds a prefilled Google Calendar template URL for an
// event. Events missing a date or either time cannot produce a valid
// dates range, so they link to "#" and the client renders a dead anchor.
func CalendarLink(e models.Event) string {
	if e.Date == "" || e.StartTime == nil || *e.StartTime == "" || e.EndTime == nil || *e.EndTime == "" {
		return "#"
	}

	day := strings.ReplaceAll(e.Date, "-", "")
	start := day + "T" + compactClock(*e.StartTime) + "00"
	end := day + "T" + compactClock(*e.EndTime) + "00"

	q := url.Values{}
	q.Set("action", "TEMPLATE")
	q.Set("text", e.Title)
	q.Set("dates", start+"/"+end)
	q.Set("details", e.Description)
	q.Set("location", e.Location)
	return calendarRenderURL + "?" + q.Encode()
}

func compactClock(hhmm string) string {
	return strings.ReplaceAll(hhmm, ":", "")
}
