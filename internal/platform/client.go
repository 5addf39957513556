// Package platform is the client for the hosted backend-as-a-service:
// session issuance and refresh, row-level storage queries, and the URL
// of the realtime change feed. The client only depends on the contract
// the app relies on, not on the platform's internals.
package platform

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/bidbridge/bidbridge/internal/session"
)

// OperationError is a failure reported by the platform on a direct
// query or insert.
type OperationError struct {
	Op      string
	Status  int
	Message string
}

func (e *OperationError) Error() string {
	if e.Message != "" {
		return fmt.Sprintf("%s: %s", e.Op, e.Message)
	}
	return fmt.Sprintf("%s: platform returned status %d", e.Op, e.Status)
}

// Client talks to the platform's auth and storage endpoints. The anon
// key identifies the project; signed-in calls additionally carry the
// session's access token.
type Client struct {
	baseURL    string
	anonKey    string
	session    *session.Session
	httpClient *http.Client
}

// NewClient creates a platform client rooted at baseURL.
func NewClient(baseURL, anonKey string, sess *session.Session) *Client {
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		anonKey: anonKey,
		session: sess,
		httpClient: &http.Client{
			Timeout: 30 * time.Second,
		},
	}
}

// SocketURL returns the websocket endpoint of the change-feed service.
func (c *Client) SocketURL() string {
	u := c.baseURL
	switch {
	case strings.HasPrefix(u, "https://"):
		u = "wss://" + strings.TrimPrefix(u, "https://")
	case strings.HasPrefix(u, "http://"):
		u = "ws://" + strings.TrimPrefix(u, "http://")
	}
	return u + "/realtime/v1/websocket?apikey=" + url.QueryEscape(c.anonKey)
}

// bearer returns the token for the Authorization header: the session's
// access token when signed in, the anon key otherwise.
func (c *Client) bearer() string {
	if c.session != nil && c.session.AccessToken != "" {
		return c.session.AccessToken
	}
	return c.anonKey
}

// do executes one platform request and decodes the JSON response.
// Non-2xx responses become OperationError with the body's message when
// one is present.
func (c *Client) do(
	ctx context.Context,
	op string,
	method string,
	path string,
	body interface{},
	result interface{},
) error {
	var bodyReader io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("marshaling %s body: %w", op, err)
		}
		bodyReader = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(
		ctx, method, c.baseURL+path, bodyReader,
	)
	if err != nil {
		return fmt.Errorf("creating %s request: %w", op, err)
	}

	req.Header.Set("apikey", c.anonKey)
	req.Header.Set("Authorization", "Bearer "+c.bearer())
	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("executing %s: %w", op, err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("reading %s response: %w", op, err)
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		var errBody struct {
			Message          string `json:"message"`
			ErrorDescription string `json:"error_description"`
			Msg              string `json:"msg"`
		}
		opErr := &OperationError{Op: op, Status: resp.StatusCode}
		if json.Unmarshal(respBody, &errBody) == nil {
			switch {
			case errBody.Message != "":
				opErr.Message = errBody.Message
			case errBody.ErrorDescription != "":
				opErr.Message = errBody.ErrorDescription
			case errBody.Msg != "":
				opErr.Message = errBody.Msg
			}
		}
		return opErr
	}

	if result == nil || resp.StatusCode == http.StatusNoContent {
		return nil
	}

	if err := json.Unmarshal(respBody, result); err != nil {
		return fmt.Errorf("unmarshaling %s response: %w", op, err)
	}

	return nil
}
