package service

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/campuspulse/campus-events-api/internal/models"
)

func strPtr(s string) *string { return &s }

func TestCalendarLink(t *testing.T) {
	event := models.Event{
		Title:       "Quad Picnic",
		Description: "Food on the mall",
		Date:        "2024-05-01",
		StartTime:   strPtr("12:00"),
		EndTime:     strPtr("14:00"),
		Location:    "https://maps.app.goo.gl/abc",
	}

	link := CalendarLink(event)
	assert.Contains(t, link, "https://calendar.google.com/calendar/render?")
	assert.Contains(t, link, "action=TEMPLATE")
	assert.Contains(t, link, "text=Quad+Picnic")
	assert.Contains(t, link, "dates=20240501T120000%2F20240501T140000")
}

func TestCalendarLinkMissingTimes(t *testing.T) {
	event := models.Event{Title: "No Times", Date: "2024-05-01"}
	assert.Equal(t, "#", CalendarLink(event))

	event.StartTime = strPtr("12:00")
	assert.Equal(t, "#", CalendarLink(event))

	event.EndTime = strPtr("")
	assert.Equal(t, "#", CalendarLink(event))
}

func TestCalendarLinkMissingDate(t *testing.T) {
	event := models.Event{Title: "No Date", StartTime: strPtr("12:00"), EndTime: strPtr("14:00")}
	assert.Equal(t, "#", CalendarLink(event))
}
