package dto

import (
	"github.com/campuspulse/campus-events-api/internal/models"
	"github.com/campuspulse/campus-events-api/internal/schedule"
)

// CreateEventRequest carries the submission form. Start and end time are
// both required at creation even though stored rows may hold either as null.
type CreateEventRequest struct {
	Title           string         `form:"title" json:"title" validate:"required,max=60"`
	Description     string         `form:"description" json:"description" validate:"required,max=250"`
	OrganizerEmail  string         `form:"organizer_email" json:"organizer_email" validate:"required,edu_email"`
	OrganizerName   string         `form:"organizer_name" json:"organizer_name" validate:"required"`
	Date            string         `form:"date" json:"date" validate:"required,datetime=2006-01-02"`
	StartTime       string         `form:"start_time" json:"start_time" validate:"required,datetime=15:04"`
	EndTime         string         `form:"end_time" json:"end_time" validate:"required,datetime=15:04"`
	Location        string         `form:"location" json:"location" validate:"required,url"`
	EventType       models.TagList `form:"event_type" json:"event_type" validate:"required,min=1,event_tags"`
	MaxParticipants int            `form:"max_participants" json:"max_participants" validate:"required,gt=0"`
	RSVPLink        string         `form:"rsvp_link" json:"rsvp_link" validate:"required,url"`
	Password        string         `form:"password" json:"password" validate:"required,min=6"`
}

// UpdateEventRequest merges into an existing record: nil fields keep their
// stored value. The image, when re-uploaded, travels outside this struct.
type UpdateEventRequest struct {
	Title           *string         `form:"title" json:"title" validate:"omitempty,max=60"`
	Description     *string         `form:"description" json:"description" validate:"omitempty,max=250"`
	OrganizerEmail  *string         `form:"organizer_email" json:"organizer_email" validate:"omitempty,edu_email"`
	OrganizerName   *string         `form:"organizer_name" json:"organizer_name"`
	Date            *string         `form:"date" json:"date" validate:"omitempty,datetime=2006-01-02"`
	StartTime       *string         `form:"start_time" json:"start_time" validate:"omitempty,datetime=15:04"`
	EndTime         *string         `form:"end_time" json:"end_time" validate:"omitempty,datetime=15:04"`
	Location        *string         `form:"location" json:"location" validate:"omitempty,url"`
	EventType       *models.TagList `form:"event_type" json:"event_type" validate:"omitempty,min=1,event_tags"`
	MaxParticipants *int            `form:"max_participants" json:"max_participants" validate:"omitempty,gt=0"`
	RSVPLink        *string         `form:"rsvp_link" json:"rsvp_link" validate:"omitempty,url"`
}

// VerifyPasswordRequest proves edit rights over an event.
type VerifyPasswordRequest struct {
	Password string `json:"password" validate:"required"`
}

// EditTokenResponse is returned by a successful password check.
type EditTokenResponse struct {
	Token     string `json:"token"`
	ExpiresAt int64  `json:"expires_at"`
}

// ListEventsRequest mirrors the browse filters.
type ListEventsRequest struct {
	Date     string
	AllTypes bool
	Types    []string
	Search   string
	Page     int
	PageSize int
}

// EventView decorates a stored event with the derived rendering hints.
type EventView struct {
	models.Event
	Marker      schedule.MarkerCategory `json:"marker"`
	CalendarURL string                  `json:"calendar_url"`
}

// MapConfigResponse hands the mapping-widget parameters to the client.
// Enabled is false when no access token is configured; the client then
// renders the list without a map.
type MapConfigResponse struct {
	Enabled     bool    `json:"enabled"`
	AccessToken string  `json:"access_token,omitempty"`
	StyleURL    string  `json:"style_url,omitempty"`
	CenterLat   float64 `json:"center_lat,omitempty"`
	CenterLon   float64 `json:"center_lon,omitempty"`
	Zoom        float64 `json:"zoom,omitempty"`
	Pitch       float64 `json:"pitch,omitempty"`
	Bearing     float64 `json:"bearing,omitempty"`
}

// DateWindowResponse carries the rolling strip of selectable days.
type DateWindowResponse struct {
	Dates []string `json:"dates"`
}
