package mocks

import (
	"encoding/base64"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/custodia-labs/box-webauth/internal/core/domain"
	"github.com/custodia-labs/box-webauth/internal/core/ports/driven"
)

// Ensure MockSessionTokenSigner implements SessionTokenSigner
var _ driven.SessionTokenSigner = (*MockSessionTokenSigner)(nil)

// MockSessionTokenSigner encodes claims as base64 JSON.
// NOT secure - only for testing.
type MockSessionTokenSigner struct {
	// Now overrides the clock used for expiry checks
	Now func() time.Time
}

// NewMockSessionTokenSigner creates a new MockSessionTokenSigner
func NewMockSessionTokenSigner() *MockSessionTokenSigner {
	return &MockSessionTokenSigner{}
}

// GenerateToken creates a base64-encoded JSON token from claims
func (m *MockSessionTokenSigner) GenerateToken(claims *domain.SessionClaims) (string, error) {
	data, err := json.Marshal(claims)
	if err != nil {
		return "", fmt.Errorf("failed to marshal claims: %w", err)
	}
	return base64.URLEncoding.EncodeToString(data), nil
}

// ParseToken decodes a token produced by GenerateToken
func (m *MockSessionTokenSigner) ParseToken(token string) (*domain.SessionClaims, error) {
	data, err := base64.URLEncoding.DecodeString(token)
	if err != nil {
		return nil, domain.ErrTokenInvalid
	}
	var claims domain.SessionClaims
	if err := json.Unmarshal(data, &claims); err != nil {
		return nil, domain.ErrTokenInvalid
	}
	now := time.Now
	if m.Now != nil {
		now = m.Now
	}
	if claims.ExpiresAt < now().Unix() {
		return nil, domain.ErrTokenExpired
	}
	return &claims, nil
}

// Ensure MockSecretSealer implements SecretSealer
var _ driven.SecretSealer = (*MockSecretSealer)(nil)

// MockSecretSealer prefixes values instead of encrypting them.
// NOT secure - only for testing.
type MockSecretSealer struct{}

const sealedPrefix = "sealed:"

func (MockSecretSealer) Seal(plaintext string) (string, error) {
	return sealedPrefix + plaintext, nil
}

func (MockSecretSealer) Open(sealed string) (string, error) {
	if !strings.HasPrefix(sealed, sealedPrefix) {
		return "", domain.ErrDecryptionFailed
	}
	return strings.TrimPrefix(sealed, sealedPrefix), nil
}
