package mocks

import (
	"context"
	"errors"
	"net/url"
	"sync"

	"github.com/custodia-labs/box-webauth/internal/core/domain"
	"github.com/custodia-labs/box-webauth/internal/core/ports/driven"
)

// Ensure MockOAuthProvider implements OAuthProvider
var _ driven.OAuthProvider = (*MockOAuthProvider)(nil)

// MockOAuthProvider is a mock implementation of OAuthProvider for testing.
// BuildAuthURL mimics Box's authorization endpoint.
type MockOAuthProvider struct {
	ExchangeCodeFn func(ctx context.Context, creds domain.ClientCredentials, code string) (*domain.OAuthSession, error)

	mu    sync.Mutex
	calls []ExchangeCall
}

// ExchangeCall records one ExchangeCode invocation
type ExchangeCall struct {
	Creds domain.ClientCredentials
	Code  string
}

// NewMockOAuthProvider creates a provider that returns the given tokens on every exchange
func NewMockOAuthProvider(accessToken, refreshToken string) *MockOAuthProvider {
	return &MockOAuthProvider{
		ExchangeCodeFn: func(ctx context.Context, creds domain.ClientCredentials, code string) (*domain.OAuthSession, error) {
			return &domain.OAuthSession{AccessToken: accessToken, RefreshToken: refreshToken}, nil
		},
	}
}

func (m *MockOAuthProvider) BuildAuthURL(clientID, state string) string {
	params := url.Values{
		"response_type": {"code"},
		"client_id":     {clientID},
		"state":         {state},
	}
	return "https://app.box.com/api/oauth2/authorize?" + params.Encode()
}

func (m *MockOAuthProvider) ExchangeCode(ctx context.Context, creds domain.ClientCredentials, code string) (*domain.OAuthSession, error) {
	m.mu.Lock()
	m.calls = append(m.calls, ExchangeCall{Creds: creds, Code: code})
	m.mu.Unlock()

	if m.ExchangeCodeFn != nil {
		return m.ExchangeCodeFn(ctx, creds, code)
	}
	return nil, errors.New("not implemented")
}

// Calls returns the recorded exchanges
func (m *MockOAuthProvider) Calls() []ExchangeCall {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]ExchangeCall(nil), m.calls...)
}
