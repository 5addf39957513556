package session

import (
	"testing"

	"github.com/bidbridge/bidbridge/internal/model"
)

func TestSessionLifecycle(t *testing.T) {
	t.Parallel()

	s := New()
	if s.SignedIn() {
		t.Fatal("new session should be signed out")
	}
	if s.UserID() != "" || s.Email() != "" {
		t.Fatal("anonymous session should have no identity")
	}

	s.Establish(model.User{ID: "u1", Email: "a@b.c"}, "access", "refresh")
	if !s.SignedIn() {
		t.Fatal("session should be signed in after Establish")
	}
	if s.UserID() != "u1" || s.Email() != "a@b.c" {
		t.Errorf("identity = (%q, %q)", s.UserID(), s.Email())
	}
	if s.AccessToken != "access" || s.RefreshToken != "refresh" {
		t.Errorf("tokens = (%q, %q)", s.AccessToken, s.RefreshToken)
	}

	s.SetCurrentTask(7)
	if s.CurrentTaskID == nil || *s.CurrentTaskID != 7 {
		t.Errorf("CurrentTaskID = %v, want 7", s.CurrentTaskID)
	}

	s.Clear()
	if s.SignedIn() {
		t.Error("session should be signed out after Clear")
	}
	if s.AccessToken != "" || s.RefreshToken != "" {
		t.Error("tokens should be wiped on Clear")
	}
	if s.CurrentTaskID != nil {
		t.Error("current task should be forgotten on Clear")
	}
}

func TestClearCurrentTask(t *testing.T) {
	t.Parallel()

	s := New()
	s.SetCurrentTask(3)
	s.ClearCurrentTask()
	if s.CurrentTaskID != nil {
		t.Errorf("CurrentTaskID = %v, want nil", s.CurrentTaskID)
	}
}
