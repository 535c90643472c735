package driven

import (
	"context"
	"fmt"

	"github.com/custodia-labs/box-webauth/internal/core/domain"
)

// OAuthProvider performs the provider side of the authorization code flow.
type OAuthProvider interface {
	// BuildAuthURL constructs the provider's authorization URL.
	// Parameters:
	//   - clientID: OAuth application client ID
	//   - state: anti-forgery token round-tripped through the redirect
	// Returns the full authorization URL to redirect the visitor to.
	BuildAuthURL(clientID, state string) string

	// ExchangeCode exchanges an authorization code for a token pair.
	// It performs exactly one request and never retries.
	// Provider-reported failures are returned as *ExchangeError.
	ExchangeCode(ctx context.Context, creds domain.ClientCredentials, code string) (*domain.OAuthSession, error)
}

// ExchangeError is a failure reported by the provider's token endpoint.
type ExchangeError struct {
	// StatusCode is the HTTP status the token endpoint answered with
	StatusCode int

	// Code is the OAuth error code (invalid_grant, invalid_client, ...), if any
	Code string

	// Message is the provider's error description or raw response body
	Message string
}

func (e *ExchangeError) Error() string {
	if e.Code != "" {
		return fmt.Sprintf("token exchange failed with status %d: %s: %s", e.StatusCode, e.Code, e.Message)
	}
	return fmt.Sprintf("token exchange failed with status %d: %s", e.StatusCode, e.Message)
}
