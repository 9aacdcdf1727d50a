package models

import "time"

// RSVP mirrors the rsvps table. The table is reserved: no endpoint reads or
// writes it yet, and current_participants is never incremented.
type RSVP struct {
	ID        string    `db:"id" json:"id"`
	EventID   string    `db:"event_id" json:"event_id"`
	UserEmail string    `db:"user_email" json:"user_email"`
	CreatedAt time.Time `db:"created_at" json:"created_at"`
}
