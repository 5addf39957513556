package model

// User is the authenticated identity issued by the platform.
type User struct {
	ID    string `json:"id"`
	Email string `json:"email"`
}

// UserRef is the embedded users row that list endpoints join onto
// tasks, bids and messages. Only the email is selected.
type UserRef struct {
	Email string `json:"email"`
}
