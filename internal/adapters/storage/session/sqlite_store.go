package session

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"strafenkasse/internal/adapters/storage"
	domain "strafenkasse/internal/domain/session"
)

// timeFormat stores timestamps as RFC3339 with sub-second precision.
const timeFormat = time.RFC3339Nano

// SQLiteStore implements Store using the local SQLite database.
type SQLiteStore struct {
	db storage.SQLDB
}

// NewSQLiteStore creates a new session store.
func NewSQLiteStore(db storage.SQLDB) *SQLiteStore {
	return &SQLiteStore{db: db}
}

// Save persists a session in a single row, so the token and the identity can
// never be stored separately.
// PRE: s passes Validate
// POST: Session is persisted (insert or replace)
func (s *SQLiteStore) Save(ctx context.Context, sess domain.Session) error {
	if err := sess.Validate(); err != nil {
		return err
	}
	last := sess.LastActivity
	if last.IsZero() {
		last = sess.LoginTime
	}
	_, err := s.db.ExecContext(ctx,
		`INSERT OR REPLACE INTO session (token, bearer_token, username, role, login_time, last_activity)
		 VALUES (?, ?, ?, ?, ?, ?)`,
		sess.Token, sess.BearerToken, sess.Username, sess.Role,
		sess.LoginTime.UTC().Format(timeFormat), last.UTC().Format(timeFormat))
	if err != nil {
		return fmt.Errorf("save session: %w", err)
	}
	return nil
}

// Get retrieves a session by its local token.
// PRE: token is non-empty
// POST: Returns the session or ErrNotFound
func (s *SQLiteStore) Get(ctx context.Context, token string) (domain.Session, error) {
	row := s.db.QueryRowContext(ctx,
		"SELECT token, bearer_token, username, role, login_time, last_activity FROM session WHERE token = ?",
		token)
	return scanSession(row)
}

// Delete removes a session. Deleting a missing session is not an error.
// PRE: token is non-empty
// POST: No session row exists for token
func (s *SQLiteStore) Delete(ctx context.Context, token string) error {
	if _, err := s.db.ExecContext(ctx, "DELETE FROM session WHERE token = ?", token); err != nil {
		return fmt.Errorf("delete session: %w", err)
	}
	return nil
}

// List returns all persisted sessions, used to re-hydrate after a restart.
func (s *SQLiteStore) List(ctx context.Context) ([]domain.Session, error) {
	rows, err := s.db.QueryContext(ctx,
		"SELECT token, bearer_token, username, role, login_time, last_activity FROM session")
	if err != nil {
		return nil, fmt.Errorf("list sessions: %w", err)
	}
	defer rows.Close()

	var out []domain.Session
	for rows.Next() {
		sess, err := scanSession(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, sess)
	}
	return out, rows.Err()
}

// Touch updates the last-activity timestamp.
// PRE: token is non-empty
// POST: last_activity is set to at
func (s *SQLiteStore) Touch(ctx context.Context, token string, at time.Time) error {
	if _, err := s.db.ExecContext(ctx,
		"UPDATE session SET last_activity = ? WHERE token = ?",
		at.UTC().Format(timeFormat), token); err != nil {
		return fmt.Errorf("touch session: %w", err)
	}
	return nil
}

// SaveLogoutReason records why a session ended, keyed by the ended session's
// token so the next login screen in the same browser can display it.
// PRE: token and reason are non-empty
func (s *SQLiteStore) SaveLogoutReason(ctx context.Context, token, reason string) error {
	_, err := s.db.ExecContext(ctx,
		"INSERT OR REPLACE INTO logout_reason (token, reason, recorded_at) VALUES (?, ?, ?)",
		token, reason, time.Now().UTC().Format(timeFormat))
	if err != nil {
		return fmt.Errorf("save logout reason: %w", err)
	}
	return nil
}

// GetLogoutReason returns the recorded reason, or "" if none exists.
func (s *SQLiteStore) GetLogoutReason(ctx context.Context, token string) (string, error) {
	var reason string
	err := s.db.QueryRowContext(ctx,
		"SELECT reason FROM logout_reason WHERE token = ?", token).Scan(&reason)
	if err == sql.ErrNoRows {
		return "", nil
	}
	if err != nil {
		return "", fmt.Errorf("get logout reason: %w", err)
	}
	return reason, nil
}

// DeleteLogoutReason clears the transient slot, called on successful login.
func (s *SQLiteStore) DeleteLogoutReason(ctx context.Context, token string) error {
	if _, err := s.db.ExecContext(ctx, "DELETE FROM logout_reason WHERE token = ?", token); err != nil {
		return fmt.Errorf("delete logout reason: %w", err)
	}
	return nil
}

// PurgeLogoutReasons drops reasons recorded before olderThan. Reasons for
// abandoned cookies are never read back, so without the purge they would
// accumulate forever.
// POST: No logout_reason row older than olderThan remains
func (s *SQLiteStore) PurgeLogoutReasons(ctx context.Context, olderThan time.Time) error {
	if _, err := s.db.ExecContext(ctx,
		"DELETE FROM logout_reason WHERE recorded_at < ?",
		olderThan.UTC().Format(timeFormat)); err != nil {
		return fmt.Errorf("purge logout reasons: %w", err)
	}
	return nil
}

// rowScanner covers *sql.Row and *sql.Rows.
type rowScanner interface {
	Scan(dest ...any) error
}

func scanSession(row rowScanner) (domain.Session, error) {
	var sess domain.Session
	var loginTime, lastActivity string
	err := row.Scan(&sess.Token, &sess.BearerToken, &sess.Username, &sess.Role, &loginTime, &lastActivity)
	if err == sql.ErrNoRows {
		return domain.Session{}, ErrNotFound
	}
	if err != nil {
		return domain.Session{}, fmt.Errorf("scan session: %w", err)
	}
	if sess.LoginTime, err = time.Parse(timeFormat, loginTime); err != nil {
		return domain.Session{}, fmt.Errorf("parse login_time: %w", err)
	}
	if sess.LastActivity, err = time.Parse(timeFormat, lastActivity); err != nil {
		return domain.Session{}, fmt.Errorf("parse last_activity: %w", err)
	}
	return sess, nil
}
