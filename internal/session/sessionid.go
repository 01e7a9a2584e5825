package session

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/gofrs/flock"
	"github.com/google/uuid"
)

// IDEnv overrides the session id read from the runtime directory.
const IDEnv = "FILMDESK_SESSION"

// ResolveID returns the session id for this login session: the IDEnv value
// when set, otherwise the id stored at path (created on first use).
func ResolveID(path string) (string, error) {
	if id := strings.TrimSpace(os.Getenv(IDEnv)); id != "" {
		return id, nil
	}
	return LoadOrCreateID(path)
}

// LoadOrCreateID reads the session id stored at path, writing a fresh UUID
// when the file is missing or unreadable as one. Concurrent callers are
// serialized with a lock file next to path.
func LoadOrCreateID(path string) (string, error) {
	if strings.TrimSpace(path) == "" {
		return "", errors.New("session file path is empty")
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o700); err != nil {
		return "", fmt.Errorf("create runtime directory: %w", err)
	}

	lock := flock.New(path + ".lock")
	if err := lock.Lock(); err != nil {
		return "", fmt.Errorf("lock session file: %w", err)
	}
	defer func() { _ = lock.Unlock() }()

	if data, err := os.ReadFile(path); err == nil {
		if id, parseErr := uuid.Parse(strings.TrimSpace(string(data))); parseErr == nil {
			return id.String(), nil
		}
	} else if !errors.Is(err, os.ErrNotExist) {
		return "", fmt.Errorf("read session file: %w", err)
	}

	id := uuid.NewString()
	if err := os.WriteFile(path, []byte(id+"\n"), 0o600); err != nil {
		return "", fmt.Errorf("write session file: %w", err)
	}
	return id, nil
}
