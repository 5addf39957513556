package model

import "time"

// Bid is an offer by a user to perform a task at a stated price and ETA.
type Bid struct {
	ID int64 `json:"id" db:"id"`

	// TaskID references the task this bid was placed on.
	TaskID int64 `json:"task_id" db:"task_id"`

	// BidderID is the platform user id of the bidder.
	BidderID string `json:"bidder_id" db:"bidder_id"`

	// BidderEmail is flattened from the embedded users row.
	BidderEmail string `json:"-" db:"bidder_email"`

	// Amount is the offered price in whole rupees.
	Amount int64 `json:"amount" db:"amount"`

	// TimeEstimate is the bidder's free-form ETA (e.g. "2 days").
	TimeEstimate string `json:"time_estimate" db:"time_estimate"`

	CreatedAt time.Time `json:"created_at" db:"created_at"`

	// Users is the embedded bidder row; decode target only.
	Users *UserRef `json:"users,omitempty" db:"-"`
}

// AcceptedFor reports whether this bid is the one the task's poster
// accepted.
func (b Bid) AcceptedFor(t Task) bool {
	return t.AcceptedBidID != nil && *t.AcceptedBidID == b.ID
}

// Normalize flattens the embedded bidder row into BidderEmail.
func (b *Bid) Normalize() {
	if b.Users != nil {
		b.BidderEmail = b.Users.Email
		b.Users = nil
	}
}
