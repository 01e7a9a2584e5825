package session

import "context"

// Store persists key/value pairs in the local and session scopes.
// Get methods report whether the key was present.
type Store interface {
	GetLocal(ctx context.Context, key string) (string, bool, error)
	SetLocal(ctx context.Context, key, value string) error
	DeleteLocal(ctx context.Context, key string) error
	GetSession(ctx context.Context, sessionID, key string) (string, bool, error)
	SetSession(ctx context.Context, sessionID, key, value string) error
	ClearSession(ctx context.Context, sessionID string) error
}
