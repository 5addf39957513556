package model

import "time"

// Task status values as stored by the platform.
const (
	StatusOpen      = "open"
	StatusAssigned  = "assigned"
	StatusCompleted = "completed"
)

// Task is a postable job with a budget and a from/to route.
type Task struct {
	// ID is the task's row identifier in the platform store.
	ID int64 `json:"id" db:"id"`

	// Title is the short human-readable summary.
	Title string `json:"title" db:"title"`

	// Description is the full body text.
	Description string `json:"description" db:"description"`

	// FromLocation and ToLocation define the task's route.
	FromLocation string `json:"from_location" db:"from_location"`
	ToLocation   string `json:"to_location" db:"to_location"`

	// Budget is the offered price in whole rupees.
	Budget int64 `json:"budget" db:"budget"`

	// Status is one of the Status* constants.
	Status string `json:"status" db:"status"`

	// ExpiresAt is set only for urgent tasks; the server expires them
	// 24 hours after posting.
	ExpiresAt *time.Time `json:"expires_at" db:"expires_at"`

	// PosterID is the platform user id of the task's owner.
	PosterID string `json:"poster_id" db:"poster_id"`

	// PosterEmail is flattened from the embedded users row by the API
	// client; list responses join the poster's email.
	PosterEmail string `json:"-" db:"poster_email"`

	// AcceptedBidID references the winning bid once the poster accepts
	// one. It always points at a bid whose TaskID is this task.
	AcceptedBidID *int64 `json:"accepted_bid_id" db:"accepted_bid_id"`

	CreatedAt time.Time `json:"created_at" db:"created_at"`

	// Users is the embedded poster row as returned by the API's join.
	// Decode target only; use PosterEmail after normalization.
	Users *UserRef `json:"users,omitempty" db:"-"`
}

// Urgent reports whether the task should carry the urgent badge: it has
// an expiry timestamp that is still in the future. Purely presentational;
// actual expiry is the server's business.
func (t Task) Urgent(now time.Time) bool {
	return t.ExpiresAt != nil && t.ExpiresAt.After(now)
}

// OwnedBy reports whether the given user id is the task's poster.
// An empty id (anonymous session) never owns anything.
func (t Task) OwnedBy(userID string) bool {
	return userID != "" && t.PosterID == userID
}

// Normalize flattens the embedded poster row into PosterEmail.
func (t *Task) Normalize() {
	if t.Users != nil {
		t.PosterEmail = t.Users.Email
		t.Users = nil
	}
}
