package sqlstore

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/custodia-labs/box-webauth/internal/core/ports/driven"
)

// Verify interface compliance
var (
	_ driven.SessionStore   = (*SessionStore)(nil)
	_ driven.SessionCleaner = (*SessionStore)(nil)
)

// DefaultTTL is how long an idle session is kept
const DefaultTTL = 30 * time.Minute

// SessionStore implements driven.SessionStore on a session_values table.
// Rows carry their own expiry; expired rows are invisible and removed by Cleanup.
type SessionStore struct {
	db  *DB
	ttl time.Duration
	now func() time.Time
}

// NewSessionStore creates a new SQL-backed SessionStore
func NewSessionStore(db *DB, ttl time.Duration) *SessionStore {
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	return &SessionStore{db: db, ttl: ttl, now: time.Now}
}

func toMillis(t time.Time) int64 {
	return t.UTC().UnixMilli()
}

// Save upserts the given values and refreshes the expiry of the whole session
func (s *SessionStore) Save(ctx context.Context, sessionID string, values map[string]string) error {
	if len(values) == 0 {
		return nil
	}

	expiresAt := toMillis(s.now().Add(s.ttl))
	upsert := s.db.Rebind(`
		INSERT INTO session_values (session_id, field, value, expires_at)
		VALUES (?, ?, ?, ?)
		ON CONFLICT (session_id, field)
		DO UPDATE SET value = excluded.value, expires_at = excluded.expires_at
	`)
	touch := s.db.Rebind(`UPDATE session_values SET expires_at = ? WHERE session_id = ?`)

	err := s.db.Transaction(ctx, func(tx *sql.Tx) error {
		for field, value := range values {
			if _, err := tx.ExecContext(ctx, upsert, sessionID, field, value, expiresAt); err != nil {
				return fmt.Errorf("upsert %s: %w", field, err)
			}
		}
		if _, err := tx.ExecContext(ctx, touch, expiresAt, sessionID); err != nil {
			return fmt.Errorf("refresh expiry: %w", err)
		}
		return nil
	})
	if err != nil {
		return fmt.Errorf("failed to save session: %w", err)
	}
	return nil
}

// Load returns the live values of a session
func (s *SessionStore) Load(ctx context.Context, sessionID string) (map[string]string, error) {
	query := s.db.Rebind(`
		SELECT field, value FROM session_values
		WHERE session_id = ? AND expires_at > ?
	`)

	rows, err := s.db.QueryContext(ctx, query, sessionID, toMillis(s.now()))
	if err != nil {
		return nil, fmt.Errorf("failed to load session: %w", err)
	}
	defer rows.Close()

	values := make(map[string]string)
	for rows.Next() {
		var field, value string
		if err := rows.Scan(&field, &value); err != nil {
			return nil, fmt.Errorf("failed to scan session value: %w", err)
		}
		values[field] = value
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to load session: %w", err)
	}
	return values, nil
}

// Take deletes a live field and returns its value in a single statement
func (s *SessionStore) Take(ctx context.Context, sessionID, key string) (string, error) {
	query := s.db.Rebind(`
		DELETE FROM session_values
		WHERE session_id = ? AND field = ? AND expires_at > ?
		RETURNING value
	`)

	var value string
	err := s.db.QueryRowContext(ctx, query, sessionID, key, toMillis(s.now())).Scan(&value)
	if errors.Is(err, sql.ErrNoRows) {
		return "", nil
	}
	if err != nil {
		return "", fmt.Errorf("failed to take %s: %w", key, err)
	}
	return value, nil
}

// Delete removes the given fields, or every field of the session when none are given
func (s *SessionStore) Delete(ctx context.Context, sessionID string, keys ...string) error {
	query := `DELETE FROM session_values WHERE session_id = ?`
	args := []interface{}{sessionID}
	if len(keys) > 0 {
		query += ` AND field IN (` + placeholders(len(keys)) + `)`
		for _, k := range keys {
			args = append(args, k)
		}
	}

	if _, err := s.db.ExecContext(ctx, s.db.Rebind(query), args...); err != nil {
		return fmt.Errorf("failed to delete session: %w", err)
	}
	return nil
}

// Ping checks if the database is reachable
func (s *SessionStore) Ping(ctx context.Context) error {
	return s.db.Ping(ctx)
}

// Cleanup removes expired rows and returns the number deleted
func (s *SessionStore) Cleanup(ctx context.Context) (int64, error) {
	query := s.db.Rebind(`DELETE FROM session_values WHERE expires_at <= ?`)

	result, err := s.db.ExecContext(ctx, query, toMillis(s.now()))
	if err != nil {
		return 0, fmt.Errorf("failed to cleanup sessions: %w", err)
	}
	n, err := result.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("failed to count cleaned sessions: %w", err)
	}
	return n, nil
}
