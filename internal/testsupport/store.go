package testsupport

import (
	"context"
	"testing"

	"filmdesk/internal/config"
	"filmdesk/internal/session"
)

// MustOpenStore opens a session.Store for tests and registers cleanup.
func MustOpenStore(t testing.TB, cfg *config.Config) *session.SQLiteStore {
	t.Helper()

	store, err := session.OpenSQLite(context.Background(), cfg.StatePath(), cfg.SessionMaxAge())
	if err != nil {
		t.Fatalf("session.OpenSQLite: %v", err)
	}
	t.Cleanup(func() {
		_ = store.Close()
	})
	return store
}
