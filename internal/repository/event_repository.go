package repository

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/campuspulse/campus-events-api/internal/models"
)

const eventColumns = `id, title, description, organizer_email, organizer_name, date, start_time, end_time,
location, latitude, longitude, image_url, event_type, max_participants, current_participants,
rsvp_link, password_hash, created_at, updated_at`

// EventRepository persists campus events.
type EventRepository struct {
	db *sqlx.DB
}

// NewEventRepository constructs an event repository.
func NewEventRepository(db *sqlx.DB) *EventRepository {
	return &EventRepository{db: db}
}

// List returns events matching the filter in canonical order: ascending by
// date, then start time with missing times first.
func (r *EventRepository) List(ctx context.Context, filter models.EventFilter) ([]models.Event, int, error) {
	where := []string{"1=1"}
	args := []interface{}{}
	if filter.Date != "" {
		where = append(where, fmt.Sprintf("date = $%d", len(args)+1))
		args = append(args, filter.Date)
	}
	whereClause := strings.Join(where, " AND ")

	page := filter.Page
	if page < 1 {
		page = 1
	}
	size := filter.PageSize
	if size <= 0 || size > 500 {
		size = 200
	}
	offset := (page - 1) * size

	query := fmt.Sprintf(`SELECT %s FROM events WHERE %s ORDER BY date ASC, start_time ASC NULLS FIRST LIMIT %d OFFSET %d`,
		eventColumns, whereClause, size, offset)
	var events []models.Event
	if err := r.db.SelectContext(ctx, &events, query, args...); err != nil {
		return nil, 0, fmt.Errorf("list events: %w", err)
	}

	countQuery := fmt.Sprintf("SELECT COUNT(*) FROM events WHERE %s", whereClause)
	var total int
	if err := r.db.GetContext(ctx, &total, countQuery, args...); err != nil {
		return nil, 0, fmt.Errorf("count events: %w", err)
	}
	return events, total, nil
}

// GetByID fetches one event.
func (r *EventRepository) GetByID(ctx context.Context, id string) (*models.Event, error) {
	query := fmt.Sprintf("SELECT %s FROM events WHERE id = $1", eventColumns)
	var event models.Event
	if err := r.db.GetContext(ctx, &event, query, id); err != nil {
		return nil, err
	}
	return &event, nil
}

// PasswordHash returns the stored edit password hash for an event.
func (r *EventRepository) PasswordHash(ctx context.Context, id string) (string, error) {
	var hash string
	if err := r.db.GetContext(ctx, &hash, "SELECT password_hash FROM events WHERE id = $1", id); err != nil {
		return "", err
	}
	return hash, nil
}

// Create inserts an event. New records always start with zero participants.
func (r *EventRepository) Create(ctx context.Context, event *models.Event) error {
	if event.ID == "" {
		event.ID = uuid.NewString()
	}
	event.CurrentParticipants = 0
	now := time.Now().UTC()
	if event.CreatedAt.IsZero() {
		event.CreatedAt = now
	}
	event.UpdatedAt = now
	query := `INSERT INTO events (id, title, description, organizer_email, organizer_name, date, start_time, end_time,
location, latitude, longitude, image_url, event_type, max_participants, current_participants, rsvp_link, password_hash, created_at, updated_at)
VALUES (:id, :title, :description, :organizer_email, :organizer_name, :date, :start_time, :end_time,
:location, :latitude, :longitude, :image_url, :event_type, :max_participants, :current_participants, :rsvp_link, :password_hash, :created_at, :updated_at)`
	if _, err := r.db.NamedExecContext(ctx, query, event); err != nil {
		return fmt.Errorf("create event: %w", err)
	}
	return nil
}

// Update rewrites the mutable fields of an event. The caller merges the
// submitted form into a loaded record first; current_participants and the
// password hash are never touched here.
func (r *EventRepository) Update(ctx context.Context, event *models.Event) error {
	event.UpdatedAt = time.Now().UTC()
	query := `UPDATE events SET title = :title, description = :description, organizer_email = :organizer_email,
organizer_name = :organizer_name, date = :date, start_time = :start_time, end_time = :end_time, location = :location,
latitude = :latitude, longitude = :longitude, image_url = :image_url, event_type = :event_type,
max_participants = :max_participants, rsvp_link = :rsvp_link, updated_at = :updated_at
WHERE id = :id`
	if _, err := r.db.NamedExecContext(ctx, query, event); err != nil {
		return fmt.Errorf("update event: %w", err)
	}
	return nil
}

// ImageURLs returns every stored image URL, used by the orphan sweep to
// decide which files are still referenced.
func (r *EventRepository) ImageURLs(ctx context.Context) ([]string, error) {
	var urls []string
	if err := r.db.SelectContext(ctx, &urls, "SELECT image_url FROM events WHERE image_url IS NOT NULL"); err != nil {
		return nil, fmt.Errorf("list image urls: %w", err)
	}
	return urls, nil
}
