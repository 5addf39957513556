package store

// migration holds a single schema migration with its target version and SQL.
type migration struct {
	version int
	sql     string
}

// migrations is the ordered list of schema migrations.
// Each migration's version must be sequential starting from 1.
var migrations = []migration{
	{
		version: 1,
		sql: `
CREATE TABLE IF NOT EXISTS schema_version (
	version INTEGER NOT NULL
);

CREATE TABLE IF NOT EXISTS tasks (
	id              INTEGER PRIMARY KEY,
	title           TEXT NOT NULL,
	description     TEXT NOT NULL DEFAULT '',
	from_location   TEXT NOT NULL DEFAULT '',
	to_location     TEXT NOT NULL DEFAULT '',
	budget          INTEGER NOT NULL DEFAULT 0,
	status          TEXT NOT NULL DEFAULT 'open',
	expires_at      DATETIME,
	poster_id       TEXT NOT NULL,
	poster_email    TEXT NOT NULL DEFAULT '',
	accepted_bid_id INTEGER,
	created_at      DATETIME NOT NULL
);

CREATE TABLE IF NOT EXISTS bids (
	id            INTEGER PRIMARY KEY,
	task_id       INTEGER NOT NULL,
	bidder_id     TEXT NOT NULL,
	bidder_email  TEXT NOT NULL DEFAULT '',
	amount        INTEGER NOT NULL DEFAULT 0,
	time_estimate TEXT NOT NULL DEFAULT '',
	created_at    DATETIME NOT NULL
);

CREATE TABLE IF NOT EXISTS messages (
	id           INTEGER PRIMARY KEY,
	task_id      INTEGER NOT NULL,
	sender_id    TEXT NOT NULL,
	sender_email TEXT NOT NULL DEFAULT '',
	text         TEXT NOT NULL DEFAULT '',
	created_at   DATETIME NOT NULL
);

CREATE TABLE IF NOT EXISTS notifications (
	id         INTEGER PRIMARY KEY,
	user_id    TEXT NOT NULL,
	message    TEXT NOT NULL DEFAULT '',
	link       TEXT NOT NULL DEFAULT '',
	is_read    INTEGER NOT NULL DEFAULT 0,
	created_at DATETIME NOT NULL
);

CREATE INDEX IF NOT EXISTS idx_tasks_status ON tasks(status);
CREATE INDEX IF NOT EXISTS idx_tasks_created_at ON tasks(created_at);
CREATE INDEX IF NOT EXISTS idx_bids_task_id ON bids(task_id);
CREATE INDEX IF NOT EXISTS idx_messages_task_id ON messages(task_id);
CREATE INDEX IF NOT EXISTS idx_notifications_is_read ON notifications(is_read);

INSERT INTO schema_version (version) VALUES (1);
`,
	},
}
