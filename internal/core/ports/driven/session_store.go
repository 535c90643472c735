package driven

import "context"

// SessionStore is per-visitor key/value storage.
// Implementations must be safe for concurrent use and expire idle sessions.
type SessionStore interface {
	// Save writes the given keys, overwriting existing values, and refreshes the session TTL
	Save(ctx context.Context, sessionID string, values map[string]string) error

	// Load returns every live key of the session.
	// Returns an empty map if the session does not exist.
	Load(ctx context.Context, sessionID string) (map[string]string, error)

	// Take atomically reads and deletes a key.
	// Returns "" if the key does not exist. This ensures single-use semantics.
	Take(ctx context.Context, sessionID, key string) (string, error)

	// Delete removes the given keys, or the whole session when no keys are given
	Delete(ctx context.Context, sessionID string, keys ...string) error

	// Ping checks if the backend is reachable
	Ping(ctx context.Context) error
}

// SessionCleaner is implemented by stores without native key expiry.
type SessionCleaner interface {
	// Cleanup removes expired session values.
	// Should be called periodically.
	Cleanup(ctx context.Context) (int64, error)
}
