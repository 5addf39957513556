// Package store is the local read-through snapshot cache. Every fetch
// replaces the relevant slice of the cache, and views render from the
// latest snapshot; that is what makes overlapping refreshes and
// realtime echoes idempotent. The cache is in-memory by default, so no
// state outlives the process unless a cache path is configured.
package store

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/jmoiron/sqlx"
	_ "modernc.org/sqlite"

	"github.com/bidbridge/bidbridge/internal/model"
)

// Cache implements the snapshot cache over a SQLite database.
type Cache struct {
	db *sqlx.DB
}

// NewCache opens (or creates) the cache database. An empty path selects
// an in-memory database.
func NewCache(path string) (*Cache, error) {
	if path == "" {
		path = ":memory:"
	}

	db, err := sqlx.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("opening cache db: %w", err)
	}

	// A single connection keeps the in-memory database from vanishing
	// between pool checkouts.
	db.SetMaxOpenConns(1)

	if _, err := db.Exec("PRAGMA journal_mode=WAL"); err != nil {
		db.Close()
		return nil, fmt.Errorf("enabling WAL mode: %w", err)
	}

	c := &Cache{db: db}
	if err := c.runMigrations(); err != nil {
		db.Close()
		return nil, fmt.Errorf("running migrations: %w", err)
	}

	return c, nil
}

// Close closes the underlying database connection.
func (c *Cache) Close() error {
	return c.db.Close()
}

// runMigrations checks the current schema version and applies any
// outstanding migrations in order.
func (c *Cache) runMigrations() error {
	currentVersion := 0

	var tableCount int
	err := c.db.Get(
		&tableCount,
		"SELECT COUNT(*) FROM sqlite_master WHERE type='table' AND name='schema_version'",
	)
	if err != nil {
		return fmt.Errorf("checking schema_version table: %w", err)
	}

	if tableCount > 0 {
		err = c.db.Get(&currentVersion, "SELECT COALESCE(MAX(version), 0) FROM schema_version")
		if err != nil {
			return fmt.Errorf("reading schema version: %w", err)
		}
	}

	for _, m := range migrations {
		if m.version <= currentVersion {
			continue
		}
		if _, err := c.db.Exec(m.sql); err != nil {
			return fmt.Errorf("applying migration v%d: %w", m.version, err)
		}
	}

	return nil
}

// ReplaceTasks snapshots the full task list from a dashboard fetch.
func (c *Cache) ReplaceTasks(ctx context.Context, tasks []model.Task) error {
	tx, err := c.db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("beginning transaction: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, "DELETE FROM tasks"); err != nil {
		return fmt.Errorf("clearing tasks: %w", err)
	}

	for _, t := range tasks {
		if err := upsertTaskTx(ctx, tx, t); err != nil {
			return err
		}
	}

	return tx.Commit()
}

// UpsertTask snapshots a single task from a detail fetch.
func (c *Cache) UpsertTask(ctx context.Context, t model.Task) error {
	tx, err := c.db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("beginning transaction: %w", err)
	}
	defer tx.Rollback()

	if err := upsertTaskTx(ctx, tx, t); err != nil {
		return err
	}

	return tx.Commit()
}

func upsertTaskTx(ctx context.Context, tx *sqlx.Tx, t model.Task) error {
	const query = `
		INSERT OR REPLACE INTO tasks (
			id, title, description, from_location, to_location,
			budget, status, expires_at, poster_id, poster_email,
			accepted_bid_id, created_at
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`

	var expiresAt interface{}
	if t.ExpiresAt != nil {
		expiresAt = t.ExpiresAt.UTC()
	}
	var acceptedBidID interface{}
	if t.AcceptedBidID != nil {
		acceptedBidID = *t.AcceptedBidID
	}

	_, err := tx.ExecContext(ctx, query,
		t.ID, t.Title, t.Description, t.FromLocation, t.ToLocation,
		t.Budget, t.Status, expiresAt, t.PosterID, t.PosterEmail,
		acceptedBidID, t.CreatedAt.UTC(),
	)
	if err != nil {
		return fmt.Errorf("upserting task %d: %w", t.ID, err)
	}
	return nil
}

// Tasks returns the cached task list, newest first.
func (c *Cache) Tasks(ctx context.Context) ([]model.Task, error) {
	rows, err := c.db.QueryxContext(
		ctx, "SELECT * FROM tasks ORDER BY created_at DESC, id DESC",
	)
	if err != nil {
		return nil, fmt.Errorf("querying tasks: %w", err)
	}
	defer rows.Close()

	var tasks []model.Task
	for rows.Next() {
		t, err := scanTask(rows)
		if err != nil {
			return nil, err
		}
		tasks = append(tasks, t)
	}
	return tasks, rows.Err()
}

// GetTask returns one cached task, or nil when it is not cached.
func (c *Cache) GetTask(ctx context.Context, id int64) (*model.Task, error) {
	rows, err := c.db.QueryxContext(ctx, "SELECT * FROM tasks WHERE id = ?", id)
	if err != nil {
		return nil, fmt.Errorf("querying task %d: %w", id, err)
	}
	defer rows.Close()

	if !rows.Next() {
		return nil, rows.Err()
	}
	t, err := scanTask(rows)
	if err != nil {
		return nil, err
	}
	return &t, nil
}

// scanTask reads one task row, unpacking the nullable columns.
func scanTask(rows *sqlx.Rows) (model.Task, error) {
	var row struct {
		model.Task
		ExpiresAtN    sql.NullTime  `db:"expires_at"`
		AcceptedBidIN sql.NullInt64 `db:"accepted_bid_id"`
	}
	row.Task.ExpiresAt = nil
	row.Task.AcceptedBidID = nil

	if err := rows.StructScan(&row); err != nil {
		return model.Task{}, fmt.Errorf("scanning task: %w", err)
	}

	t := row.Task
	if row.ExpiresAtN.Valid {
		exp := row.ExpiresAtN.Time
		t.ExpiresAt = &exp
	}
	if row.AcceptedBidIN.Valid {
		bid := row.AcceptedBidIN.Int64
		t.AcceptedBidID = &bid
	}
	return t, nil
}

// ReplaceBids snapshots the bid list for one task.
func (c *Cache) ReplaceBids(
	ctx context.Context,
	taskID int64,
	bids []model.Bid,
) error {
	tx, err := c.db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("beginning transaction: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, "DELETE FROM bids WHERE task_id = ?", taskID); err != nil {
		return fmt.Errorf("clearing bids for task %d: %w", taskID, err)
	}

	const query = `
		INSERT OR REPLACE INTO bids (
			id, task_id, bidder_id, bidder_email,
			amount, time_estimate, created_at
		) VALUES (?, ?, ?, ?, ?, ?, ?)`

	for _, b := range bids {
		_, err := tx.ExecContext(ctx, query,
			b.ID, b.TaskID, b.BidderID, b.BidderEmail,
			b.Amount, b.TimeEstimate, b.CreatedAt.UTC(),
		)
		if err != nil {
			return fmt.Errorf("upserting bid %d: %w", b.ID, err)
		}
	}

	return tx.Commit()
}

// BidsForTask returns the cached bids for a task, oldest first.
func (c *Cache) BidsForTask(
	ctx context.Context,
	taskID int64,
) ([]model.Bid, error) {
	var bids []model.Bid
	err := c.db.SelectContext(
		ctx, &bids,
		"SELECT * FROM bids WHERE task_id = ? ORDER BY created_at ASC, id ASC",
		taskID,
	)
	if err != nil {
		return nil, fmt.Errorf("querying bids for task %d: %w", taskID, err)
	}
	return bids, nil
}

// ReplaceMessages snapshots the full chat history for one task.
func (c *Cache) ReplaceMessages(
	ctx context.Context,
	taskID int64,
	messages []model.Message,
) error {
	tx, err := c.db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("beginning transaction: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, "DELETE FROM messages WHERE task_id = ?", taskID); err != nil {
		return fmt.Errorf("clearing messages for task %d: %w", taskID, err)
	}

	for _, msg := range messages {
		if err := insertMessageTx(ctx, tx, msg); err != nil {
			return err
		}
	}

	return tx.Commit()
}

// AppendMessage caches a single new chat message. Appending a message
// id that is already cached is a no-op, which keeps realtime inserts
// idempotent.
func (c *Cache) AppendMessage(ctx context.Context, msg model.Message) error {
	const query = `
		INSERT OR IGNORE INTO messages (
			id, task_id, sender_id, sender_email, text, created_at
		) VALUES (?, ?, ?, ?, ?, ?)`

	_, err := c.db.ExecContext(ctx, query,
		msg.ID, msg.TaskID, msg.SenderID, msg.SenderEmail,
		msg.Text, msg.CreatedAt.UTC(),
	)
	if err != nil {
		return fmt.Errorf("appending message %d: %w", msg.ID, err)
	}
	return nil
}

func insertMessageTx(ctx context.Context, tx *sqlx.Tx, msg model.Message) error {
	const query = `
		INSERT OR REPLACE INTO messages (
			id, task_id, sender_id, sender_email, text, created_at
		) VALUES (?, ?, ?, ?, ?, ?)`

	_, err := tx.ExecContext(ctx, query,
		msg.ID, msg.TaskID, msg.SenderID, msg.SenderEmail,
		msg.Text, msg.CreatedAt.UTC(),
	)
	if err != nil {
		return fmt.Errorf("inserting message %d: %w", msg.ID, err)
	}
	return nil
}

// MessagesForTask returns the cached chat history, oldest first.
func (c *Cache) MessagesForTask(
	ctx context.Context,
	taskID int64,
) ([]model.Message, error) {
	var messages []model.Message
	err := c.db.SelectContext(
		ctx, &messages,
		"SELECT * FROM messages WHERE task_id = ? ORDER BY created_at ASC, id ASC",
		taskID,
	)
	if err != nil {
		return nil, fmt.Errorf("querying messages for task %d: %w", taskID, err)
	}
	return messages, nil
}

// ReplaceNotifications snapshots the unread notification set.
func (c *Cache) ReplaceNotifications(
	ctx context.Context,
	notifications []model.Notification,
) error {
	tx, err := c.db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("beginning transaction: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, "DELETE FROM notifications"); err != nil {
		return fmt.Errorf("clearing notifications: %w", err)
	}

	const query = `
		INSERT OR REPLACE INTO notifications (
			id, user_id, message, link, is_read, created_at
		) VALUES (?, ?, ?, ?, ?, ?)`

	for _, n := range notifications {
		isRead := 0
		if n.IsRead {
			isRead = 1
		}
		_, err := tx.ExecContext(ctx, query,
			n.ID, n.UserID, n.Message, n.Link, isRead, n.CreatedAt.UTC(),
		)
		if err != nil {
			return fmt.Errorf("upserting notification %d: %w", n.ID, err)
		}
	}

	return tx.Commit()
}

// UnreadNotifications returns the cached unread set, newest first.
func (c *Cache) UnreadNotifications(
	ctx context.Context,
) ([]model.Notification, error) {
	var notifications []model.Notification
	err := c.db.SelectContext(
		ctx, &notifications,
		"SELECT * FROM notifications WHERE is_read = 0 ORDER BY created_at DESC, id DESC",
	)
	if err != nil {
		return nil, fmt.Errorf("querying notifications: %w", err)
	}
	return notifications, nil
}

// UnreadCount returns the number of cached unread notifications.
func (c *Cache) UnreadCount(ctx context.Context) (int, error) {
	var count int
	err := c.db.GetContext(
		ctx, &count,
		"SELECT COUNT(*) FROM notifications WHERE is_read = 0",
	)
	if err != nil {
		return 0, fmt.Errorf("counting notifications: %w", err)
	}
	return count, nil
}
