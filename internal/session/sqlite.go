package session

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	_ "modernc.org/sqlite"
)

// SQLiteStore implements Store on a SQLite database file.
type SQLiteStore struct {
	db   *sql.DB
	path string
	now  func() time.Time
}

var _ Store = (*SQLiteStore)(nil)

const (
	sqliteBusyCode          = 5
	busyRetryAttempts       = 5
	busyRetryInitialBackoff = 10 * time.Millisecond
	busyRetryMaxBackoff     = 200 * time.Millisecond
)

func ensureContext(ctx context.Context) context.Context {
	if ctx != nil {
		return ctx
	}
	return context.Background()
}

func isSQLiteBusy(err error) bool {
	if err == nil {
		return false
	}
	var coder interface{ Code() int }
	if errors.As(err, &coder) && coder.Code() == sqliteBusyCode {
		return true
	}
	msg := err.Error()
	return strings.Contains(msg, "SQLITE_BUSY") || strings.Contains(msg, "database is locked")
}

func retryOnBusy(ctx context.Context, op func() error) error {
	delay := busyRetryInitialBackoff
	var lastErr error
	for attempt := 0; attempt < busyRetryAttempts; attempt++ {
		lastErr = op()
		if lastErr == nil {
			return nil
		}
		if !isSQLiteBusy(lastErr) || attempt == busyRetryAttempts-1 {
			break
		}
		select {
		case <-time.After(delay):
		case <-ctx.Done():
			return ctx.Err()
		}
		if next := delay * 2; next <= busyRetryMaxBackoff {
			delay = next
		}
	}
	return lastErr
}

// OpenSQLite opens (or creates) the state database at path and prunes session
// rows older than maxAge. A non-positive maxAge disables pruning.
func OpenSQLite(ctx context.Context, path string, maxAge time.Duration) (*SQLiteStore, error) {
	ctx = ensureContext(ctx)
	if strings.TrimSpace(path) == "" {
		return nil, errors.New("session store path is empty")
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o700); err != nil {
		return nil, fmt.Errorf("create state directory: %w", err)
	}

	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open sqlite db: %w", err)
	}

	pragmas := []string{
		"PRAGMA journal_mode=WAL",
		"PRAGMA foreign_keys = ON",
		"PRAGMA busy_timeout = 5000",
	}
	for _, pragma := range pragmas {
		if _, execErr := db.ExecContext(ctx, pragma); execErr != nil {
			_ = db.Close()
			return nil, fmt.Errorf("apply pragma %q: %w", pragma, execErr)
		}
	}

	store := &SQLiteStore{db: db, path: path, now: time.Now}
	if err := store.initSchema(ctx); err != nil {
		_ = db.Close()
		return nil, err
	}
	if maxAge > 0 {
		if _, err := store.PruneSessions(ctx, maxAge); err != nil {
			_ = db.Close()
			return nil, err
		}
	}
	return store, nil
}

// Path returns the database file path.
func (s *SQLiteStore) Path() string {
	return s.path
}

// Close closes the underlying database connection.
func (s *SQLiteStore) Close() error {
	if s == nil || s.db == nil {
		return nil
	}
	return s.db.Close()
}

func (s *SQLiteStore) exec(ctx context.Context, query string, args ...any) (sql.Result, error) {
	ctx = ensureContext(ctx)
	var (
		res     sql.Result
		execErr error
	)
	if err := retryOnBusy(ctx, func() error {
		res, execErr = s.db.ExecContext(ctx, query, args...)
		return execErr
	}); err != nil {
		return nil, err
	}
	return res, nil
}

func (s *SQLiteStore) queryValue(ctx context.Context, query string, args ...any) (string, bool, error) {
	ctx = ensureContext(ctx)
	var value string
	err := retryOnBusy(ctx, func() error {
		return s.db.QueryRowContext(ctx, query, args...).Scan(&value)
	})
	if errors.Is(err, sql.ErrNoRows) {
		return "", false, nil
	}
	if err != nil {
		return "", false, err
	}
	return value, true, nil
}

func (s *SQLiteStore) stamp() int64 {
	return s.now().UnixMilli()
}

// GetLocal reads a value from the local scope.
func (s *SQLiteStore) GetLocal(ctx context.Context, key string) (string, bool, error) {
	value, ok, err := s.queryValue(ctx, "SELECT value FROM local_values WHERE key = ?", key)
	if err != nil {
		return "", false, fmt.Errorf("get local %q: %w", key, err)
	}
	return value, ok, nil
}

// SetLocal writes a value to the local scope.
func (s *SQLiteStore) SetLocal(ctx context.Context, key, value string) error {
	_, err := s.exec(ctx,
		`INSERT INTO local_values (key, value, updated_at) VALUES (?, ?, ?)
		 ON CONFLICT(key) DO UPDATE SET value = excluded.value, updated_at = excluded.updated_at`,
		key, value, s.stamp())
	if err != nil {
		return fmt.Errorf("set local %q: %w", key, err)
	}
	return nil
}

// DeleteLocal removes a value from the local scope.
func (s *SQLiteStore) DeleteLocal(ctx context.Context, key string) error {
	if _, err := s.exec(ctx, "DELETE FROM local_values WHERE key = ?", key); err != nil {
		return fmt.Errorf("delete local %q: %w", key, err)
	}
	return nil
}

// GetSession reads a value from the scope of sessionID.
func (s *SQLiteStore) GetSession(ctx context.Context, sessionID, key string) (string, bool, error) {
	value, ok, err := s.queryValue(ctx,
		"SELECT value FROM session_values WHERE session_id = ? AND key = ?", sessionID, key)
	if err != nil {
		return "", false, fmt.Errorf("get session %q: %w", key, err)
	}
	return value, ok, nil
}

// SetSession writes a value to the scope of sessionID.
func (s *SQLiteStore) SetSession(ctx context.Context, sessionID, key, value string) error {
	if strings.TrimSpace(sessionID) == "" {
		return errors.New("session id is empty")
	}
	_, err := s.exec(ctx,
		`INSERT INTO session_values (session_id, key, value, updated_at) VALUES (?, ?, ?, ?)
		 ON CONFLICT(session_id, key) DO UPDATE SET value = excluded.value, updated_at = excluded.updated_at`,
		sessionID, key, value, s.stamp())
	if err != nil {
		return fmt.Errorf("set session %q: %w", key, err)
	}
	return nil
}

// ClearSession removes every value stored for sessionID.
func (s *SQLiteStore) ClearSession(ctx context.Context, sessionID string) error {
	if _, err := s.exec(ctx, "DELETE FROM session_values WHERE session_id = ?", sessionID); err != nil {
		return fmt.Errorf("clear session: %w", err)
	}
	return nil
}

// PruneSessions deletes session rows not written within maxAge and returns
// the number removed.
func (s *SQLiteStore) PruneSessions(ctx context.Context, maxAge time.Duration) (int64, error) {
	cutoff := s.now().Add(-maxAge).UnixMilli()
	res, err := s.exec(ctx, "DELETE FROM session_values WHERE updated_at < ?", cutoff)
	if err != nil {
		return 0, fmt.Errorf("prune sessions: %w", err)
	}
	removed, err := res.RowsAffected()
	if err != nil {
		return 0, nil
	}
	return removed, nil
}
