package box

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"golang.org/x/oauth2"

	"github.com/custodia-labs/box-webauth/internal/core/domain"
	"github.com/custodia-labs/box-webauth/internal/core/ports/driven"
)

// Ensure OAuthProvider implements the interface.
var _ driven.OAuthProvider = (*OAuthProvider)(nil)

const (
	// DefaultAuthURL is Box's OAuth2 authorization endpoint
	DefaultAuthURL = "https://app.box.com/api/oauth2/authorize"

	// DefaultTokenURL is Box's OAuth2 token endpoint
	DefaultTokenURL = "https://api.box.com/oauth2/token"
)

// Config holds Box OAuth configuration
type Config struct {
	AuthURL  string
	TokenURL string

	// RedirectURI is sent on both legs when set. Box falls back to the
	// redirect URI registered for the application when it is empty.
	RedirectURI string

	// Timeout bounds the token exchange request
	Timeout time.Duration
}

// DefaultConfig returns the public Box endpoints
func DefaultConfig() Config {
	return Config{
		AuthURL:  DefaultAuthURL,
		TokenURL: DefaultTokenURL,
		Timeout:  30 * time.Second,
	}
}

// OAuthProvider handles OAuth operations for Box.
type OAuthProvider struct {
	endpoint    oauth2.Endpoint
	redirectURI string
	httpClient  *http.Client
}

// NewOAuthProvider creates a new Box OAuth provider.
func NewOAuthProvider(cfg Config) *OAuthProvider {
	if cfg.AuthURL == "" {
		cfg.AuthURL = DefaultAuthURL
	}
	if cfg.TokenURL == "" {
		cfg.TokenURL = DefaultTokenURL
	}

	return &OAuthProvider{
		endpoint: oauth2.Endpoint{
			AuthURL:  cfg.AuthURL,
			TokenURL: cfg.TokenURL,
			// Box expects the client credentials in the form body
			AuthStyle: oauth2.AuthStyleInParams,
		},
		redirectURI: cfg.RedirectURI,
		httpClient:  &http.Client{Timeout: cfg.Timeout},
	}
}

func (p *OAuthProvider) oauthConfig(creds domain.ClientCredentials) *oauth2.Config {
	return &oauth2.Config{
		ClientID:     creds.ClientID,
		ClientSecret: creds.ClientSecret,
		Endpoint:     p.endpoint,
		RedirectURL:  p.redirectURI,
	}
}

// BuildAuthURL constructs the Box OAuth authorization URL.
func (p *OAuthProvider) BuildAuthURL(clientID, state string) string {
	return p.oauthConfig(domain.ClientCredentials{ClientID: clientID}).AuthCodeURL(state)
}

// ExchangeCode exchanges an authorization code for an access/refresh token pair.
func (p *OAuthProvider) ExchangeCode(ctx context.Context, creds domain.ClientCredentials, code string) (*domain.OAuthSession, error) {
	ctx = context.WithValue(ctx, oauth2.HTTPClient, p.httpClient)

	token, err := p.oauthConfig(creds).Exchange(ctx, code)
	if err != nil {
		var retrieveErr *oauth2.RetrieveError
		if errors.As(err, &retrieveErr) {
			return nil, toExchangeError(retrieveErr)
		}
		return nil, fmt.Errorf("exchange code: %w", err)
	}

	return &domain.OAuthSession{
		AccessToken:  token.AccessToken,
		RefreshToken: token.RefreshToken,
		TokenType:    token.TokenType,
		Expiry:       token.Expiry,
	}, nil
}

// toExchangeError maps an oauth2 token endpoint failure onto the port error
func toExchangeError(err *oauth2.RetrieveError) *driven.ExchangeError {
	status := http.StatusBadGateway
	if err.Response != nil {
		status = err.Response.StatusCode
	}

	message := err.ErrorDescription
	if message == "" && err.ErrorCode == "" {
		message = strings.TrimSpace(string(err.Body))
	}

	return &driven.ExchangeError{
		StatusCode: status,
		Code:       err.ErrorCode,
		Message:    message,
	}
}
