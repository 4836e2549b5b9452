package storage

import (
	"database/sql"
	"fmt"
)

// InitDB initializes the local client database. It only holds session state;
// all club data stays on the remote backend.
// PRE: db is a valid database connection
// POST: All tables are created, WAL mode enabled
func InitDB(db *sql.DB) error {
	// Enable WAL mode for better concurrency
	if _, err := db.Exec("PRAGMA journal_mode=WAL"); err != nil {
		return fmt.Errorf("failed to enable WAL mode: %w", err)
	}

	// Two durable slots per browser session: the bearer token and the
	// identity travel together in one row so a partial session can never be
	// persisted. logout_reason is the transient slot cleared on the next
	// successful login.
	schema := `
	CREATE TABLE IF NOT EXISTS session (
		token TEXT PRIMARY KEY,
		bearer_token TEXT NOT NULL,
		username TEXT NOT NULL,
		role TEXT NOT NULL,
		login_time TEXT NOT NULL,
		last_activity TEXT NOT NULL
	);

	CREATE TABLE IF NOT EXISTS logout_reason (
		token TEXT PRIMARY KEY,
		reason TEXT NOT NULL,
		recorded_at TEXT NOT NULL
	);
	`

	if _, err := db.Exec(schema); err != nil {
		return fmt.Errorf("failed to create schema: %w", err)
	}

	return nil
}
