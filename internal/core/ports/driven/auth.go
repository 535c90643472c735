package driven

import "github.com/custodia-labs/box-webauth/internal/core/domain"

// SessionTokenSigner signs and verifies the session cookie.
// This does NOT handle storage - use SessionStore for session values.
type SessionTokenSigner interface {
	GenerateToken(claims *domain.SessionClaims) (string, error)
	ParseToken(token string) (*domain.SessionClaims, error)
}
