package model

import "time"

// Notification is an alert surfaced to a user about activity on their
// tasks or bids. The server creates them; the client only reads the
// unread set and listens for inserts.
type Notification struct {
	ID int64 `json:"id" db:"id"`

	// UserID is the recipient.
	UserID string `json:"user_id" db:"user_id"`

	// Message is the human-readable notification text.
	Message string `json:"message" db:"message"`

	// Link is the location fragment the notification points at
	// (e.g. "#task-7").
	Link string `json:"link" db:"link"`

	// IsRead indicates whether the user has seen this notification.
	IsRead bool `json:"is_read" db:"is_read"`

	CreatedAt time.Time `json:"created_at" db:"created_at"`
}
