// Package session holds the explicit per-visitor session context passed to
// every flow operation. It replaces ambient framework session state with a
// small object over a pluggable driven.SessionStore.
package session

import (
	"context"
	"fmt"

	"github.com/custodia-labs/box-webauth/internal/core/domain"
	"github.com/custodia-labs/box-webauth/internal/core/ports/driven"
)

// Session is the session context of one visitor.
// It is cheap to construct and must not be shared across visitors.
type Session struct {
	id     string
	store  driven.SessionStore
	sealer driven.SecretSealer
}

// New creates a session context for the given session id
func New(id string, store driven.SessionStore, sealer driven.SecretSealer) *Session {
	return &Session{
		id:     id,
		store:  store,
		sealer: sealer,
	}
}

// ID returns the session id
func (s *Session) ID() string {
	return s.id
}

// Stash stores the client credentials and the anti-forgery token,
// replacing whatever a previous Authorize left behind.
// The client secret is sealed before it reaches the store.
func (s *Session) Stash(ctx context.Context, creds domain.ClientCredentials, antiForgeryToken string) error {
	secret := creds.ClientSecret
	if s.sealer != nil && secret != "" {
		sealed, err := s.sealer.Seal(secret)
		if err != nil {
			return fmt.Errorf("seal client secret: %w", err)
		}
		secret = sealed
	}

	values := map[string]string{
		domain.SessionKeyClientID:     creds.ClientID,
		domain.SessionKeyClientSecret: secret,
		domain.SessionKeyState:        antiForgeryToken,
	}
	if err := s.store.Save(ctx, s.id, values); err != nil {
		return fmt.Errorf("save session: %w", err)
	}
	return nil
}

// Credentials returns the stashed client credentials.
// Missing keys yield empty fields, matching a session that was never stashed.
func (s *Session) Credentials(ctx context.Context) (domain.ClientCredentials, error) {
	values, err := s.store.Load(ctx, s.id)
	if err != nil {
		return domain.ClientCredentials{}, fmt.Errorf("load session: %w", err)
	}

	secret := values[domain.SessionKeyClientSecret]
	if s.sealer != nil && secret != "" {
		opened, err := s.sealer.Open(secret)
		if err != nil {
			return domain.ClientCredentials{}, fmt.Errorf("open client secret: %w", err)
		}
		secret = opened
	}

	return domain.ClientCredentials{
		ClientID:     values[domain.SessionKeyClientID],
		ClientSecret: secret,
	}, nil
}

// TakeAntiForgeryToken consumes the stashed token.
// A second call returns "" until the next Stash.
func (s *Session) TakeAntiForgeryToken(ctx context.Context) (string, error) {
	token, err := s.store.Take(ctx, s.id, domain.SessionKeyState)
	if err != nil {
		return "", fmt.Errorf("take anti-forgery token: %w", err)
	}
	return token, nil
}

// Clear removes the credentials and the anti-forgery token
func (s *Session) Clear(ctx context.Context) error {
	if err := s.store.Delete(ctx, s.id, domain.SessionKeys...); err != nil {
		return fmt.Errorf("clear session: %w", err)
	}
	return nil
}
