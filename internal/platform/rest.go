package platform

import (
	"context"
	"fmt"
	"net/http"

	"github.com/bidbridge/bidbridge/internal/model"
)

// UnreadNotifications fetches the signed-in user's unread
// notifications, newest first. Row-level security scopes the query to
// the caller; the explicit filter only narrows the result set.
func (c *Client) UnreadNotifications(
	ctx context.Context,
) ([]model.Notification, error) {
	path := "/rest/v1/notifications?select=*&is_read=eq.false" +
		"&order=created_at.desc"
	var notifications []model.Notification
	err := c.do(ctx, "fetch notifications", http.MethodGet, path, nil, &notifications)
	if err != nil {
		return nil, err
	}
	return notifications, nil
}

// TaskMessages fetches the full ordered message history for a task,
// with each sender's email joined in.
func (c *Client) TaskMessages(
	ctx context.Context,
	taskID int64,
) ([]model.Message, error) {
	path := fmt.Sprintf(
		"/rest/v1/messages?select=*,users(email)&task_id=eq.%d&order=created_at.asc",
		taskID,
	)
	var messages []model.Message
	err := c.do(ctx, "fetch messages", http.MethodGet, path, nil, &messages)
	if err != nil {
		return nil, err
	}
	for i := range messages {
		messages[i].Normalize()
	}
	return messages, nil
}

// GetMessage fetches a single message by id, with the sender's email
// joined in. Used when a chat insert event arrives with only the row id.
func (c *Client) GetMessage(
	ctx context.Context,
	messageID int64,
) (*model.Message, error) {
	path := fmt.Sprintf(
		"/rest/v1/messages?select=*,users(email)&id=eq.%d&limit=1",
		messageID,
	)
	var messages []model.Message
	err := c.do(ctx, "fetch message", http.MethodGet, path, nil, &messages)
	if err != nil {
		return nil, err
	}
	if len(messages) == 0 {
		return nil, &OperationError{
			Op:      "fetch message",
			Status:  http.StatusNotFound,
			Message: fmt.Sprintf("message %d not found", messageID),
		}
	}
	messages[0].Normalize()
	return &messages[0], nil
}

// SendMessage inserts a chat message for the current task. The server
// assigns the id and timestamp.
func (c *Client) SendMessage(
	ctx context.Context,
	taskID int64,
	senderID string,
	text string,
) error {
	payload := map[string]interface{}{
		"task_id":   taskID,
		"sender_id": senderID,
		"text":      text,
	}
	return c.do(ctx, "send message", http.MethodPost, "/rest/v1/messages", payload, nil)
}
