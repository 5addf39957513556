package model

import "time"

// Message is a single chat message between the two task participants.
// Messages are append-only and ordered by CreatedAt.
type Message struct {
	ID int64 `json:"id" db:"id"`

	// TaskID scopes the message to one task's chat.
	TaskID int64 `json:"task_id" db:"task_id"`

	// SenderID is the platform user id of the author.
	SenderID string `json:"sender_id" db:"sender_id"`

	// SenderEmail is flattened from the embedded users row.
	SenderEmail string `json:"-" db:"sender_email"`

	Text string `json:"text" db:"text"`

	CreatedAt time.Time `json:"created_at" db:"created_at"`

	// Users is the embedded sender row; decode target only.
	Users *UserRef `json:"users,omitempty" db:"-"`
}

// SentBy reports whether the message was authored by the given user.
func (m Message) SentBy(userID string) bool {
	return userID != "" && m.SenderID == userID
}

// Normalize flattens the embedded sender row into SenderEmail.
func (m *Message) Normalize() {
	if m.Users != nil {
		m.SenderEmail = m.Users.Email
		m.Users = nil
	}
}
