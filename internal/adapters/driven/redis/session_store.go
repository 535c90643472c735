package redis

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/custodia-labs/box-webauth/internal/core/ports/driven"
)

// Verify interface compliance
var _ driven.SessionStore = (*SessionStore)(nil)

const (
	// Key prefix for session hashes
	sessionPrefix = "webauth:session:"

	// DefaultTTL is how long an idle session is kept
	DefaultTTL = 30 * time.Minute
)

// SessionStore implements driven.SessionStore using Redis.
// Each session is one hash; Redis TTL handles expiration.
type SessionStore struct {
	client *redis.Client
	ttl    time.Duration
}

// NewClient parses a redis:// URL and returns a connected client
func NewClient(ctx context.Context, url string) (*redis.Client, error) {
	opts, err := redis.ParseURL(url)
	if err != nil {
		return nil, fmt.Errorf("parse redis url: %w", err)
	}
	client := redis.NewClient(opts)
	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("ping redis: %w", err)
	}
	return client, nil
}

// NewSessionStore creates a new Redis-backed SessionStore
func NewSessionStore(client *redis.Client, ttl time.Duration) *SessionStore {
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	return &SessionStore{client: client, ttl: ttl}
}

func sessionKey(sessionID string) string {
	return sessionPrefix + sessionID
}

// Save writes values into the session hash and refreshes its TTL
func (s *SessionStore) Save(ctx context.Context, sessionID string, values map[string]string) error {
	if len(values) == 0 {
		return nil
	}

	key := sessionKey(sessionID)
	fields := make(map[string]interface{}, len(values))
	for k, v := range values {
		fields[k] = v
	}

	// Use pipeline so the hash and its TTL are written together
	pipe := s.client.TxPipeline()
	pipe.HSet(ctx, key, fields)
	pipe.Expire(ctx, key, s.ttl)

	if _, err := pipe.Exec(ctx); err != nil {
		return fmt.Errorf("failed to save session: %w", err)
	}
	return nil
}

// Load returns all fields of the session hash
func (s *SessionStore) Load(ctx context.Context, sessionID string) (map[string]string, error) {
	values, err := s.client.HGetAll(ctx, sessionKey(sessionID)).Result()
	if err != nil {
		return nil, fmt.Errorf("failed to load session: %w", err)
	}
	return values, nil
}

// takeScript reads and removes a hash field in one step so that two
// concurrent callers can never both observe the value.
var takeScript = redis.NewScript(`
	local v = redis.call("hget", KEYS[1], ARGV[1])
	if v then
		redis.call("hdel", KEYS[1], ARGV[1])
		return v
	end
	return false
`)

// Take atomically reads and deletes a session field
func (s *SessionStore) Take(ctx context.Context, sessionID, key string) (string, error) {
	value, err := takeScript.Run(ctx, s.client, []string{sessionKey(sessionID)}, key).Text()
	if errors.Is(err, redis.Nil) {
		return "", nil
	}
	if err != nil {
		return "", fmt.Errorf("failed to take %s: %w", key, err)
	}
	return value, nil
}

// Delete removes fields from the session hash, or the whole hash when no keys are given
func (s *SessionStore) Delete(ctx context.Context, sessionID string, keys ...string) error {
	var err error
	if len(keys) == 0 {
		err = s.client.Del(ctx, sessionKey(sessionID)).Err()
	} else {
		err = s.client.HDel(ctx, sessionKey(sessionID), keys...).Err()
	}
	if err != nil {
		return fmt.Errorf("failed to delete session: %w", err)
	}
	return nil
}

// Ping checks if the Redis backend is healthy.
func (s *SessionStore) Ping(ctx context.Context) error {
	return s.client.Ping(ctx).Err()
}
