package store

import (
	"context"
	"testing"
	"time"

	"github.com/bidbridge/bidbridge/internal/model"
)

func newTestCache(t *testing.T) *Cache {
	t.Helper()
	c, err := NewCache("")
	if err != nil {
		t.Fatalf("NewCache: %v", err)
	}
	t.Cleanup(func() { c.Close() })
	return c
}

func TestReplaceTasksSnapshotsFully(t *testing.T) {
	c := newTestCache(t)
	ctx := context.Background()

	base := time.Date(2026, 8, 1, 12, 0, 0, 0, time.UTC)
	first := []model.Task{
		{ID: 1, Title: "Walk my dog", Status: model.StatusOpen, CreatedAt: base},
		{ID: 2, Title: "Fix my sink", Status: model.StatusOpen, CreatedAt: base.Add(time.Hour)},
	}
	if err := c.ReplaceTasks(ctx, first); err != nil {
		t.Fatalf("ReplaceTasks: %v", err)
	}

	// A later snapshot that dropped task 1 must remove it.
	second := []model.Task{
		{ID: 2, Title: "Fix my sink", Status: model.StatusAssigned, CreatedAt: base.Add(time.Hour)},
		{ID: 3, Title: "Move a couch", Status: model.StatusOpen, CreatedAt: base.Add(2 * time.Hour)},
	}
	if err := c.ReplaceTasks(ctx, second); err != nil {
		t.Fatalf("second ReplaceTasks: %v", err)
	}

	tasks, err := c.Tasks(ctx)
	if err != nil {
		t.Fatalf("Tasks: %v", err)
	}
	if len(tasks) != 2 {
		t.Fatalf("got %d tasks, want 2", len(tasks))
	}
	// Newest first.
	if tasks[0].ID != 3 || tasks[1].ID != 2 {
		t.Errorf("order = [%d %d], want [3 2]", tasks[0].ID, tasks[1].ID)
	}
	if tasks[1].Status != model.StatusAssigned {
		t.Errorf("task 2 status = %q, want refreshed snapshot", tasks[1].Status)
	}

	if got, err := c.GetTask(ctx, 1); err != nil || got != nil {
		t.Errorf("GetTask(1) = (%v, %v), want gone", got, err)
	}
}

func TestTaskNullableColumnsRoundTrip(t *testing.T) {
	c := newTestCache(t)
	ctx := context.Background()

	expires := time.Date(2026, 9, 2, 10, 0, 0, 0, time.UTC)
	acceptedBid := int64(11)
	withBoth := model.Task{
		ID:            5,
		Title:         "Deliver a parcel",
		Status:        model.StatusAssigned,
		ExpiresAt:     &expires,
		AcceptedBidID: &acceptedBid,
		CreatedAt:     time.Date(2026, 9, 1, 9, 0, 0, 0, time.UTC),
	}
	withNeither := model.Task{
		ID:        6,
		Title:     "Water my plants",
		Status:    model.StatusOpen,
		CreatedAt: time.Date(2026, 9, 1, 10, 0, 0, 0, time.UTC),
	}

	if err := c.ReplaceTasks(ctx, []model.Task{withBoth, withNeither}); err != nil {
		t.Fatalf("ReplaceTasks: %v", err)
	}

	got, err := c.GetTask(ctx, 5)
	if err != nil {
		t.Fatalf("GetTask(5): %v", err)
	}
	if got == nil {
		t.Fatal("GetTask(5) = nil")
	}
	if got.ExpiresAt == nil || !got.ExpiresAt.Equal(expires) {
		t.Errorf("ExpiresAt = %v, want %v", got.ExpiresAt, expires)
	}
	if got.AcceptedBidID == nil || *got.AcceptedBidID != 11 {
		t.Errorf("AcceptedBidID = %v, want 11", got.AcceptedBidID)
	}

	got, err = c.GetTask(ctx, 6)
	if err != nil {
		t.Fatalf("GetTask(6): %v", err)
	}
	if got.ExpiresAt != nil {
		t.Errorf("ExpiresAt = %v, want nil", got.ExpiresAt)
	}
	if got.AcceptedBidID != nil {
		t.Errorf("AcceptedBidID = %v, want nil", got.AcceptedBidID)
	}
}

func TestReplaceBidsScopedToTask(t *testing.T) {
	c := newTestCache(t)
	ctx := context.Background()

	base := time.Date(2026, 8, 15, 8, 0, 0, 0, time.UTC)
	if err := c.ReplaceBids(ctx, 7, []model.Bid{
		{ID: 1, TaskID: 7, BidderID: "u2", Amount: 500, TimeEstimate: "2 days", CreatedAt: base},
		{ID: 2, TaskID: 7, BidderID: "u3", Amount: 450, TimeEstimate: "1 day", CreatedAt: base.Add(time.Minute)},
	}); err != nil {
		t.Fatalf("ReplaceBids(7): %v", err)
	}
	if err := c.ReplaceBids(ctx, 8, []model.Bid{
		{ID: 3, TaskID: 8, BidderID: "u2", Amount: 900, TimeEstimate: "3 days", CreatedAt: base},
	}); err != nil {
		t.Fatalf("ReplaceBids(8): %v", err)
	}

	// Replacing one task's bids leaves the other task's alone.
	if err := c.ReplaceBids(ctx, 7, []model.Bid{
		{ID: 2, TaskID: 7, BidderID: "u3", Amount: 450, TimeEstimate: "1 day", CreatedAt: base.Add(time.Minute)},
	}); err != nil {
		t.Fatalf("second ReplaceBids(7): %v", err)
	}

	bids7, err := c.BidsForTask(ctx, 7)
	if err != nil {
		t.Fatalf("BidsForTask(7): %v", err)
	}
	if len(bids7) != 1 || bids7[0].ID != 2 {
		t.Errorf("bids for task 7 = %+v, want just bid 2", bids7)
	}

	bids8, err := c.BidsForTask(ctx, 8)
	if err != nil {
		t.Fatalf("BidsForTask(8): %v", err)
	}
	if len(bids8) != 1 || bids8[0].ID != 3 {
		t.Errorf("bids for task 8 = %+v, want untouched", bids8)
	}
}

func TestAppendMessageIsIdempotent(t *testing.T) {
	c := newTestCache(t)
	ctx := context.Background()

	msg := model.Message{
		ID:        10,
		TaskID:    7,
		SenderID:  "u1",
		Text:      "hello",
		CreatedAt: time.Date(2026, 8, 20, 14, 0, 0, 0, time.UTC),
	}

	for i := 0; i < 3; i++ {
		if err := c.AppendMessage(ctx, msg); err != nil {
			t.Fatalf("AppendMessage #%d: %v", i+1, err)
		}
	}

	messages, err := c.MessagesForTask(ctx, 7)
	if err != nil {
		t.Fatalf("MessagesForTask: %v", err)
	}
	if len(messages) != 1 {
		t.Fatalf("got %d messages after replayed appends, want 1", len(messages))
	}
	if messages[0].Text != "hello" {
		t.Errorf("text = %q", messages[0].Text)
	}
}

func TestMessagesOrderedOldestFirst(t *testing.T) {
	c := newTestCache(t)
	ctx := context.Background()

	base := time.Date(2026, 8, 20, 14, 0, 0, 0, time.UTC)
	history := []model.Message{
		{ID: 2, TaskID: 7, SenderID: "u2", Text: "second", CreatedAt: base.Add(time.Minute)},
		{ID: 1, TaskID: 7, SenderID: "u1", Text: "first", CreatedAt: base},
	}
	if err := c.ReplaceMessages(ctx, 7, history); err != nil {
		t.Fatalf("ReplaceMessages: %v", err)
	}
	if err := c.AppendMessage(ctx, model.Message{
		ID: 3, TaskID: 7, SenderID: "u1", Text: "third", CreatedAt: base.Add(2 * time.Minute),
	}); err != nil {
		t.Fatalf("AppendMessage: %v", err)
	}

	messages, err := c.MessagesForTask(ctx, 7)
	if err != nil {
		t.Fatalf("MessagesForTask: %v", err)
	}
	var texts []string
	for _, msg := range messages {
		texts = append(texts, msg.Text)
	}
	want := []string{"first", "second", "third"}
	for i := range want {
		if i >= len(texts) || texts[i] != want[i] {
			t.Fatalf("order = %v, want %v", texts, want)
		}
	}
}

func TestUnreadCount(t *testing.T) {
	c := newTestCache(t)
	ctx := context.Background()

	base := time.Date(2026, 8, 25, 9, 0, 0, 0, time.UTC)
	if err := c.ReplaceNotifications(ctx, []model.Notification{
		{ID: 1, UserID: "u1", Message: "New bid on your task!", CreatedAt: base},
		{ID: 2, UserID: "u1", Message: "Your bid was accepted!", CreatedAt: base.Add(time.Minute)},
		{ID: 3, UserID: "u1", Message: "old news", IsRead: true, CreatedAt: base.Add(-time.Hour)},
	}); err != nil {
		t.Fatalf("ReplaceNotifications: %v", err)
	}

	count, err := c.UnreadCount(ctx)
	if err != nil {
		t.Fatalf("UnreadCount: %v", err)
	}
	if count != 2 {
		t.Errorf("UnreadCount = %d, want 2", count)
	}

	unread, err := c.UnreadNotifications(ctx)
	if err != nil {
		t.Fatalf("UnreadNotifications: %v", err)
	}
	if len(unread) != 2 {
		t.Fatalf("got %d unread, want 2", len(unread))
	}
	// Newest first.
	if unread[0].ID != 2 || unread[1].ID != 1 {
		t.Errorf("order = [%d %d], want [2 1]", unread[0].ID, unread[1].ID)
	}
}
