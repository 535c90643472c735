package mocks

import (
	"context"
	"sync"

	"github.com/custodia-labs/box-webauth/internal/core/ports/driven"
)

// Ensure MockSessionStore implements SessionStore
var _ driven.SessionStore = (*MockSessionStore)(nil)

// MockSessionStore is a mock implementation of SessionStore for testing
type MockSessionStore struct {
	mu       sync.RWMutex
	sessions map[string]map[string]string

	// Err, when set, is returned by every operation
	Err error
}

// NewMockSessionStore creates a new MockSessionStore
func NewMockSessionStore() *MockSessionStore {
	return &MockSessionStore{
		sessions: make(map[string]map[string]string),
	}
}

func (m *MockSessionStore) Save(ctx context.Context, sessionID string, values map[string]string) error {
	if m.Err != nil {
		return m.Err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	sess, ok := m.sessions[sessionID]
	if !ok {
		sess = make(map[string]string)
		m.sessions[sessionID] = sess
	}
	for k, v := range values {
		sess[k] = v
	}
	return nil
}

func (m *MockSessionStore) Load(ctx context.Context, sessionID string) (map[string]string, error) {
	if m.Err != nil {
		return nil, m.Err
	}
	m.mu.RLock()
	defer m.mu.RUnlock()
	out := make(map[string]string, len(m.sessions[sessionID]))
	for k, v := range m.sessions[sessionID] {
		out[k] = v
	}
	return out, nil
}

func (m *MockSessionStore) Take(ctx context.Context, sessionID, key string) (string, error) {
	if m.Err != nil {
		return "", m.Err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	value := m.sessions[sessionID][key]
	delete(m.sessions[sessionID], key)
	return value, nil
}

func (m *MockSessionStore) Delete(ctx context.Context, sessionID string, keys ...string) error {
	if m.Err != nil {
		return m.Err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	if len(keys) == 0 {
		delete(m.sessions, sessionID)
		return nil
	}
	for _, k := range keys {
		delete(m.sessions[sessionID], k)
	}
	return nil
}

func (m *MockSessionStore) Ping(ctx context.Context) error {
	return m.Err
}

// Values returns a copy of the stored session for assertions
func (m *MockSessionStore) Values(sessionID string) map[string]string {
	values, _ := m.Load(context.Background(), sessionID)
	return values
}
