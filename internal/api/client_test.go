package api

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/bidbridge/bidbridge/internal/model"
	"github.com/bidbridge/bidbridge/internal/session"
)

func signedInSession() *session.Session {
	s := session.New()
	s.Establish(model.User{ID: "user-1", Email: "a@b.c"}, "token-abc", "refresh-xyz")
	return s
}

func TestAuthedRequestCarriesBearerToken(t *testing.T) {
	t.Parallel()

	var gotAuth string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotAuth = r.Header.Get("Authorization")
		json.NewEncoder(w).Encode(map[string]string{"suggestion": "do it carefully"})
	}))
	defer srv.Close()

	c := NewClient(srv.URL, signedInSession())
	suggestion, err := c.SuggestDescription(context.Background(), "Fix my sink")
	if err != nil {
		t.Fatalf("SuggestDescription: %v", err)
	}
	if suggestion != "do it carefully" {
		t.Errorf("suggestion = %q", suggestion)
	}
	if gotAuth != "Bearer token-abc" {
		t.Errorf("Authorization = %q, want %q", gotAuth, "Bearer token-abc")
	}
}

func TestPublicRequestOmitsAuthHeader(t *testing.T) {
	t.Parallel()

	var gotAuth string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotAuth = r.Header.Get("Authorization")
		w.Write([]byte("[]"))
	}))
	defer srv.Close()

	c := NewClient(srv.URL, signedInSession())
	if _, err := c.ListTasks(context.Background()); err != nil {
		t.Fatalf("ListTasks: %v", err)
	}
	if gotAuth != "" {
		t.Errorf("public request sent Authorization %q, want none", gotAuth)
	}
}

func TestAuthedRequestWithoutTokenFailsFast(t *testing.T) {
	t.Parallel()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		t.Error("request reached the server despite missing token")
	}))
	defer srv.Close()

	c := NewClient(srv.URL, session.New())
	_, err := c.SuggestDescription(context.Background(), "anything")
	if !errors.Is(err, ErrAuthRequired) {
		t.Fatalf("err = %v, want ErrAuthRequired", err)
	}
}

func TestServerErrorMessageSurfaces(t *testing.T) {
	t.Parallel()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusConflict)
		json.NewEncoder(w).Encode(map[string]string{"error": "task already assigned"})
	}))
	defer srv.Close()

	c := NewClient(srv.URL, signedInSession())
	err := c.AcceptBid(context.Background(), 7, 42)
	if err == nil {
		t.Fatal("AcceptBid succeeded, want error")
	}

	var reqErr *RequestError
	if !errors.As(err, &reqErr) {
		t.Fatalf("err = %T, want *RequestError", err)
	}
	if reqErr.Status != http.StatusConflict {
		t.Errorf("Status = %d, want 409", reqErr.Status)
	}
	if reqErr.Message != "task already assigned" {
		t.Errorf("Message = %q", reqErr.Message)
	}
}

func TestErrorWithoutBodyFallsBackToStatus(t *testing.T) {
	t.Parallel()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer srv.Close()

	c := NewClient(srv.URL, signedInSession())
	err := c.DeleteTask(context.Background(), 3)

	var reqErr *RequestError
	if !errors.As(err, &reqErr) {
		t.Fatalf("err = %v, want *RequestError", err)
	}
	if reqErr.Message != "HTTP error! status: 500" {
		t.Errorf("Message = %q, want fallback", reqErr.Message)
	}
}

func TestAcceptBidPayloadAndPath(t *testing.T) {
	t.Parallel()

	var gotPath string
	var gotBody map[string]int64
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		json.NewDecoder(r.Body).Decode(&gotBody)
		w.Write([]byte("{}"))
	}))
	defer srv.Close()

	c := NewClient(srv.URL, signedInSession())
	if err := c.AcceptBid(context.Background(), 7, 42); err != nil {
		t.Fatalf("AcceptBid: %v", err)
	}
	if gotPath != "/tasks/7/accept_bid" {
		t.Errorf("path = %q", gotPath)
	}
	if gotBody["bid_id"] != 42 {
		t.Errorf("body = %v, want bid_id=42", gotBody)
	}
}

func TestCreateBidUsesCamelCaseEstimateKey(t *testing.T) {
	t.Parallel()

	var gotBody map[string]interface{}
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		json.NewDecoder(r.Body).Decode(&gotBody)
		json.NewEncoder(w).Encode(model.Bid{ID: 1, TaskID: 7})
	}))
	defer srv.Close()

	c := NewClient(srv.URL, signedInSession())
	if _, err := c.CreateBid(context.Background(), 7, 500, "2 days"); err != nil {
		t.Fatalf("CreateBid: %v", err)
	}
	if gotBody["timeEstimate"] != "2 days" {
		t.Errorf("body = %v, want timeEstimate key", gotBody)
	}
	if gotBody["amount"] != float64(500) {
		t.Errorf("amount = %v, want 500", gotBody["amount"])
	}
}

func TestCreateTaskSendsUrgencyFlag(t *testing.T) {
	t.Parallel()

	var gotBody map[string]interface{}
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		json.NewDecoder(r.Body).Decode(&gotBody)
		json.NewEncoder(w).Encode(model.Task{ID: 9, Title: "Move a couch"})
	}))
	defer srv.Close()

	c := NewClient(srv.URL, signedInSession())
	created, err := c.CreateTask(context.Background(), NewTask{
		Title:    "Move a couch",
		Budget:   800,
		IsUrgent: true,
	})
	if err != nil {
		t.Fatalf("CreateTask: %v", err)
	}
	if created.ID != 9 {
		t.Errorf("created.ID = %d, want 9", created.ID)
	}
	if gotBody["is_urgent"] != true {
		t.Errorf("body = %v, want is_urgent=true", gotBody)
	}
}

func TestListTasksFlattensPosterEmail(t *testing.T) {
	t.Parallel()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`[
			{"id": 1, "title": "Walk my dog", "poster_id": "u1",
			 "users": {"email": "poster@example.com"}}
		]`))
	}))
	defer srv.Close()

	c := NewClient(srv.URL, session.New())
	tasks, err := c.ListTasks(context.Background())
	if err != nil {
		t.Fatalf("ListTasks: %v", err)
	}
	if len(tasks) != 1 {
		t.Fatalf("got %d tasks, want 1", len(tasks))
	}
	if tasks[0].PosterEmail != "poster@example.com" {
		t.Errorf("PosterEmail = %q, want flattened join", tasks[0].PosterEmail)
	}
	if tasks[0].Users != nil {
		t.Error("Users still set after normalization")
	}
}
