package memory

import (
	"context"
	"sync"
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

type entry struct {
	values    map[string]string
	expiresAt time.Time
}

// SessionStore implements driven.SessionStore in process memory.
// Expired sessions are dropped lazily on access and by Cleanup.
type SessionStore struct {
	mu       sync.Mutex
	sessions map[string]*entry
	ttl      time.Duration
	now      func() time.Time
}

// NewSessionStore creates a new in-memory SessionStore
func NewSessionStore(ttl time.Duration) *SessionStore {
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	return &SessionStore{
		sessions: make(map[string]*entry),
		ttl:      ttl,
		now:      time.Now,
	}
}

// live returns the session entry if present and not expired. Caller holds mu.
func (s *SessionStore) live(sessionID string) *entry {
	e, ok := s.sessions[sessionID]
	if !ok {
		return nil
	}
	if !s.now().Before(e.expiresAt) {
		delete(s.sessions, sessionID)
		return nil
	}
	return e
}

// Save writes values and extends the session TTL
func (s *SessionStore) Save(ctx context.Context, sessionID string, values map[string]string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	e := s.live(sessionID)
	if e == nil {
		e = &entry{values: make(map[string]string, len(values))}
		s.sessions[sessionID] = e
	}
	for k, v := range values {
		e.values[k] = v
	}
	e.expiresAt = s.now().Add(s.ttl)
	return nil
}

// Load returns a copy of the session values
func (s *SessionStore) Load(ctx context.Context, sessionID string) (map[string]string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	out := make(map[string]string)
	if e := s.live(sessionID); e != nil {
		for k, v := range e.values {
			out[k] = v
		}
	}
	return out, nil
}

// Take reads and deletes a key under the store lock
func (s *SessionStore) Take(ctx context.Context, sessionID, key string) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	e := s.live(sessionID)
	if e == nil {
		return "", nil
	}
	value := e.values[key]
	delete(e.values, key)
	return value, nil
}

// Delete removes keys, or the whole session when none are given
func (s *SessionStore) Delete(ctx context.Context, sessionID string, keys ...string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	e, ok := s.sessions[sessionID]
	if !ok {
		return nil
	}
	if len(keys) == 0 {
		delete(s.sessions, sessionID)
		return nil
	}
	for _, k := range keys {
		delete(e.values, k)
	}
	if len(e.values) == 0 {
		delete(s.sessions, sessionID)
	}
	return nil
}

// Ping always succeeds
func (s *SessionStore) Ping(ctx context.Context) error {
	return nil
}

// Cleanup drops expired sessions and returns how many were removed
func (s *SessionStore) Cleanup(ctx context.Context) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var removed int64
	now := s.now()
	for id, e := range s.sessions {
		if !now.Before(e.expiresAt) {
			delete(s.sessions, id)
			removed++
		}
	}
	return removed, nil
}

// Len returns the number of sessions held, expired or not
func (s *SessionStore) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.sessions)
}
