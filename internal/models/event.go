package models

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"
	"time"
)

// Recognized event type tags.
const (
	EventTypeStudyGroup = "Study Group"
	EventTypeSocial     = "Social"
	EventTypeSports     = "Sports"
	EventTypeAcademic   = "Academic"
	EventTypeOther      = "Other"
)

// EventTypes lists every recognized tag.
var EventTypes = []string{EventTypeStudyGroup, EventTypeSocial, EventTypeSports, EventTypeAcademic, EventTypeOther}

// IsValidEventType reports whether the tag belongs to the enum.
func IsValidEventType(tag string) bool {
	for _, t := range EventTypes {
		if t == tag {
			return true
		}
	}
	return false
}

// TagList is the canonical set-of-tags representation for an event's type.
// Stored rows may carry either a JSON array or a bare string (legacy single
// tag); both normalise to a TagList at the data-access boundary so nothing
// downstream branches on the shape.
type TagList []string

// Contains reports membership of a single tag.
func (t TagList) Contains(tag string) bool {
	for _, v := range t {
		if v == tag {
			return true
		}
	}
	return false
}

// ContainsAny reports whether any of the given tags is present.
func (t TagList) ContainsAny(tags []string) bool {
	for _, tag := range tags {
		if t.Contains(tag) {
			return true
		}
	}
	return false
}

// Value implements driver.Valuer, persisting the list as a JSON array.
func (t TagList) Value() (driver.Value, error) {
	if t == nil {
		return "[]", nil
	}
	raw, err := json.Marshal([]string(t))
	if err != nil {
		return nil, fmt.Errorf("marshal tag list: %w", err)
	}
	return string(raw), nil
}

// Scan implements sql.Scanner, accepting a JSON array, a JSON string, or a
// bare string column value.
func (t *TagList) Scan(src interface{}) error {
	if src == nil {
		*t = nil
		return nil
	}
	var raw []byte
	switch v := src.(type) {
	case []byte:
		raw = v
	case string:
		raw = []byte(v)
	default:
		return fmt.Errorf("unsupported tag list column type %T", src)
	}
	return t.decode(raw)
}

// UnmarshalJSON accepts both "Social" and ["Social","Sports"] payload shapes.
func (t *TagList) UnmarshalJSON(raw []byte) error {
	return t.decode(raw)
}

func (t *TagList) decode(raw []byte) error {
	var many []string
	if err := json.Unmarshal(raw, &many); err == nil {
		*t = many
		return nil
	}
	var one string
	if err := json.Unmarshal(raw, &one); err == nil {
		if one == "" {
			*t = nil
		} else {
			*t = TagList{one}
		}
		return nil
	}
	// Bare (non-JSON) legacy value: treat the raw bytes as a single tag.
	if len(raw) > 0 {
		*t = TagList{string(raw)}
		return nil
	}
	*t = nil
	return nil
}

// Coordinates are derived from the location URL when extraction succeeds.
type Coordinates struct {
	Latitude  float64 `json:"latitude"`
	Longitude float64 `json:"longitude"`
}

// Event represents one scheduled campus event. Date is a calendar day in
// ISO form (YYYY-MM-DD); start/end times are wall-clock HH:MM with no zone.
type Event struct {
	ID                  string   `db:"id" json:"id"`
	Title               string   `db:"title" json:"title"`
	Description         string   `db:"description" json:"description"`
	OrganizerEmail      string   `db:"organizer_email" json:"organizer_email"`
	OrganizerName       string   `db:"organizer_name" json:"organizer_name"`
	Date                string   `db:"date" json:"date"`
	StartTime           *string  `db:"start_time" json:"start_time"`
	EndTime             *string  `db:"end_time" json:"end_time"`
	Location            string   `db:"location" json:"location"`
	Latitude            *float64 `db:"latitude" json:"latitude,omitempty"`
	Longitude           *float64 `db:"longitude" json:"longitude,omitempty"`
	ImageURL            *string  `db:"image_url" json:"image_url,omitempty"`
	EventType           TagList  `db:"event_type" json:"event_type"`
	MaxParticipants     int      `db:"max_participants" json:"max_participants"`
	CurrentParticipants int      `db:"current_participants" json:"current_participants"`
	RSVPLink            string   `db:"rsvp_link" json:"rsvp_link"`
	PasswordHash        string   `db:"password_hash" json:"-"`

	CreatedAt time.Time `db:"created_at" json:"created_at"`
	UpdatedAt time.Time `db:"updated_at" json:"updated_at"`
}

// EventFilter narrows down the repository listing. Type and search
// predicates are applied in memory by the schedule filter; the store is only
// ever queried by calendar date, ordered by date then start time.
type EventFilter struct {
	Date     string
	Page     int
	PageSize int
}

// Pagination describes list slicing metadata.
type Pagination struct {
	Page       int `json:"page"`
	PageSize   int `json:"page_size"`
	TotalCount int `json:"total_count"`
}
