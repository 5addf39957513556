// Package session holds the authenticated identity and token lifecycle
// for the current user, plus the task currently open in the detail view.
// A single Session is created empty at startup and passed explicitly
// into the router and controller; there are no package-level globals.
package session

import "github.com/bidbridge/bidbridge/internal/model"

// Session is the client's view of who is signed in and what they are
// looking at. It is mutated by auth-state changes and navigation only.
type Session struct {
	// Identity is nil while signed out.
	Identity *model.User

	// AccessToken is the bearer token attached to authenticated calls.
	AccessToken string

	// RefreshToken lets the client resume the session after a restart.
	RefreshToken string

	// CurrentTaskID is set while a task detail view is open.
	CurrentTaskID *int64
}

// New returns an empty, signed-out session.
func New() *Session {
	return &Session{}
}

// SignedIn reports whether an identity is established.
func (s *Session) SignedIn() bool {
	return s.Identity != nil
}

// UserID returns the signed-in user's id, or "" when signed out.
func (s *Session) UserID() string {
	if s.Identity == nil {
		return ""
	}
	return s.Identity.ID
}

// Email returns the signed-in user's email, or "" when signed out.
func (s *Session) Email() string {
	if s.Identity == nil {
		return ""
	}
	return s.Identity.Email
}

// Establish records a successful sign-in.
func (s *Session) Establish(user model.User, accessToken, refreshToken string) {
	u := user
	s.Identity = &u
	s.AccessToken = accessToken
	s.RefreshToken = refreshToken
}

// Clear wipes the identity and tokens on logout.
func (s *Session) Clear() {
	s.Identity = nil
	s.AccessToken = ""
	s.RefreshToken = ""
	s.CurrentTaskID = nil
}

// SetCurrentTask records the task open in the detail view.
func (s *Session) SetCurrentTask(id int64) {
	s.CurrentTaskID = &id
}

// ClearCurrentTask forgets the current task on navigation away.
func (s *Session) ClearCurrentTask() {
	s.CurrentTaskID = nil
}
