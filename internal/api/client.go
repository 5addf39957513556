// Package api wraps the privileged HTTP API behind the two call shapes
// the app uses: authenticated (bearer token from the session) and
// public. Errors carry the server-supplied message so handlers can show
// it in a banner verbatim.
package api

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/bidbridge/bidbridge/internal/model"
	"github.com/bidbridge/bidbridge/internal/session"
)

// Client is a thin HTTP client for the BidBridge API. It reads the
// bearer token from the session at call time, so a sign-in or logout
// takes effect on the next request.
type Client struct {
	baseURL    string
	session    *session.Session
	httpClient *http.Client
}

// NewClient creates an API client rooted at baseURL.
func NewClient(baseURL string, sess *session.Session) *Client {
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		session: sess,
		httpClient: &http.Client{
			Timeout: 30 * time.Second,
		},
	}
}

// do builds the request, attaches headers, and maps non-2xx responses
// to RequestError. When authed is true the session must hold a token.
func (c *Client) do(
	ctx context.Context,
	method string,
	path string,
	body interface{},
	result interface{},
	authed bool,
) error {
	if authed && (c.session == nil || c.session.AccessToken == "") {
		return ErrAuthRequired
	}

	var bodyReader io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("marshaling request body: %w", err)
		}
		bodyReader = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(
		ctx, method, c.baseURL+path, bodyReader,
	)
	if err != nil {
		return fmt.Errorf("creating request: %w", err)
	}

	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if authed {
		req.Header.Set("Authorization", "Bearer "+c.session.AccessToken)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("executing request %s %s: %w", method, path, err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("reading response body: %w", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		var errBody struct {
			Error string `json:"error"`
		}
		msg := fallbackMessage(resp.StatusCode)
		if json.Unmarshal(respBody, &errBody) == nil && errBody.Error != "" {
			msg = errBody.Error
		}
		return &RequestError{Status: resp.StatusCode, Message: msg}
	}

	if result == nil || resp.StatusCode == http.StatusNoContent {
		return nil
	}

	if err := json.Unmarshal(respBody, result); err != nil {
		return fmt.Errorf(
			"unmarshaling response from %s %s: %w", method, path, err,
		)
	}

	return nil
}

// Register creates a new account through the privileged API and returns
// the server's confirmation message.
func (c *Client) Register(
	ctx context.Context,
	email string,
	password string,
) (string, error) {
	payload := map[string]string{"email": email, "password": password}
	var resp struct {
		Message string `json:"message"`
	}
	if err := c.do(ctx, http.MethodPost, "/register", payload, &resp, false); err != nil {
		return "", err
	}
	return resp.Message, nil
}

// SuggestDescription asks the API to generate a description template
// for the given task title.
func (c *Client) SuggestDescription(
	ctx context.Context,
	title string,
) (string, error) {
	payload := map[string]string{"title": title}
	var resp struct {
		Suggestion string `json:"suggestion"`
	}
	if err := c.do(ctx, http.MethodPost, "/suggest-description", payload, &resp, true); err != nil {
		return "", err
	}
	return resp.Suggestion, nil
}

// ListTasks fetches all tasks, newest first.
func (c *Client) ListTasks(ctx context.Context) ([]model.Task, error) {
	var tasks []model.Task
	if err := c.do(ctx, http.MethodGet, "/tasks", nil, &tasks, false); err != nil {
		return nil, err
	}
	for i := range tasks {
		tasks[i].Normalize()
	}
	return tasks, nil
}

// TaskDetail is the task plus its bids as returned by the detail
// endpoint.
type TaskDetail struct {
	Task model.Task  `json:"task"`
	Bids []model.Bid `json:"bids"`
}

// GetTaskDetail fetches a single task together with its bids.
func (c *Client) GetTaskDetail(
	ctx context.Context,
	taskID int64,
) (*TaskDetail, error) {
	var detail TaskDetail
	path := fmt.Sprintf("/tasks/%d", taskID)
	if err := c.do(ctx, http.MethodGet, path, nil, &detail, false); err != nil {
		return nil, err
	}
	detail.Task.Normalize()
	for i := range detail.Bids {
		detail.Bids[i].Normalize()
	}
	return &detail, nil
}

// NewTask is the payload for posting a task.
type NewTask struct {
	Title        string `json:"title"`
	Description  string `json:"description"`
	FromLocation string `json:"from_location"`
	ToLocation   string `json:"to_location"`
	Budget       int64  `json:"budget"`
	IsUrgent     bool   `json:"is_urgent"`
}

// CreateTask posts a new task. Urgent tasks are given a 24h expiry by
// the server.
func (c *Client) CreateTask(
	ctx context.Context,
	task NewTask,
) (*model.Task, error) {
	var created model.Task
	if err := c.do(ctx, http.MethodPost, "/tasks", task, &created, true); err != nil {
		return nil, err
	}
	created.Normalize()
	return &created, nil
}

// DeleteTask permanently deletes one of the caller's own tasks.
func (c *Client) DeleteTask(ctx context.Context, taskID int64) error {
	path := fmt.Sprintf("/tasks/%d", taskID)
	return c.do(ctx, http.MethodDelete, path, nil, nil, true)
}

// CreateBid places a bid on an open task.
func (c *Client) CreateBid(
	ctx context.Context,
	taskID int64,
	amount int64,
	timeEstimate string,
) (*model.Bid, error) {
	payload := map[string]interface{}{
		"amount":       amount,
		"timeEstimate": timeEstimate,
	}
	var created model.Bid
	path := fmt.Sprintf("/tasks/%d/bids", taskID)
	if err := c.do(ctx, http.MethodPost, path, payload, &created, true); err != nil {
		return nil, err
	}
	created.Normalize()
	return &created, nil
}

// AcceptBid marks a bid as the winner of one of the caller's tasks.
// The server assigns the task and notifies the bidder.
func (c *Client) AcceptBid(
	ctx context.Context,
	taskID int64,
	bidID int64,
) error {
	payload := map[string]int64{"bid_id": bidID}
	path := fmt.Sprintf("/tasks/%d/accept_bid", taskID)
	return c.do(ctx, http.MethodPost, path, payload, nil, true)
}
