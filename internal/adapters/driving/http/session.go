package http

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"github.com/segmentio/ksuid"

	"github.com/custodia-labs/box-webauth/internal/core/domain"
	"github.com/custodia-labs/box-webauth/internal/core/ports/driven"
	"github.com/custodia-labs/box-webauth/internal/core/session"
)

// SessionCookieName is the cookie that carries the signed session id
const SessionCookieName = "webauth_session"

const sessionContextKey contextKey = "webauth_session"

// Context keys
type contextKey string

// SessionManagerConfig holds the session cookie settings
type SessionManagerConfig struct {
	Store  driven.SessionStore
	Sealer driven.SecretSealer
	Signer driven.SessionTokenSigner
	TTL    time.Duration
	Secure bool
	Logger *slog.Logger
}

// SessionManager binds each request to a session context.
// Visitors are identified by a signed cookie holding a ksuid session id.
type SessionManager struct {
	store  driven.SessionStore
	sealer driven.SecretSealer
	signer driven.SessionTokenSigner
	ttl    time.Duration
	secure bool
	logger *slog.Logger
	now    func() time.Time
	newID  func() string
}

// NewSessionManager creates a new SessionManager
func NewSessionManager(cfg SessionManagerConfig) *SessionManager {
	logger := cfg.Logger
	if logger == nil {
		logger = slog.Default()
	}
	ttl := cfg.TTL
	if ttl <= 0 {
		ttl = 30 * time.Minute
	}
	return &SessionManager{
		store:  cfg.Store,
		sealer: cfg.Sealer,
		signer: cfg.Signer,
		ttl:    ttl,
		secure: cfg.Secure,
		logger: logger,
		now:    time.Now,
		newID:  func() string { return ksuid.New().String() },
	}
}

// Middleware resolves the visitor's session and adds it to the request context.
// Missing, expired or tampered cookies start a new session.
func (m *SessionManager) Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		sessionID, issue := m.resolve(r)
		if issue {
			if err := m.issueCookie(w, sessionID); err != nil {
				m.logger.Error("failed to issue session cookie", "error", err)
				writeError(w, http.StatusInternalServerError, "failed to start session")
				return
			}
		}

		sess := session.New(sessionID, m.store, m.sealer)
		ctx := context.WithValue(r.Context(), sessionContextKey, sess)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// resolve returns the session id for the request and whether a cookie must be (re)issued
func (m *SessionManager) resolve(r *http.Request) (string, bool) {
	cookie, err := r.Cookie(SessionCookieName)
	if err != nil || cookie.Value == "" {
		return m.newID(), true
	}

	claims, err := m.signer.ParseToken(cookie.Value)
	if err != nil {
		m.logger.Debug("session cookie rejected", "error", err)
		return m.newID(), true
	}

	// Slide the cookie once half its lifetime has passed
	remaining := time.Unix(claims.ExpiresAt, 0).Sub(m.now())
	return claims.SessionID, remaining < m.ttl/2
}

func (m *SessionManager) issueCookie(w http.ResponseWriter, sessionID string) error {
	now := m.now()
	expiresAt := now.Add(m.ttl)

	token, err := m.signer.GenerateToken(&domain.SessionClaims{
		SessionID: sessionID,
		IssuedAt:  now.Unix(),
		ExpiresAt: expiresAt.Unix(),
	})
	if err != nil {
		return err
	}

	http.SetCookie(w, &http.Cookie{
		Name:     SessionCookieName,
		Value:    token,
		Path:     "/",
		Expires:  expiresAt,
		MaxAge:   int(m.ttl.Seconds()),
		HttpOnly: true,
		Secure:   m.secure,
		SameSite: http.SameSiteLaxMode,
	})
	return nil
}

// GetSession retrieves the session context from a request context
func GetSession(ctx context.Context) *session.Session {
	if ctx == nil {
		return nil
	}
	sess, ok := ctx.Value(sessionContextKey).(*session.Session)
	if !ok {
		return nil
	}
	return sess
}
