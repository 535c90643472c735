package auth

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/custodia-labs/box-webauth/internal/core/domain"
	"github.com/custodia-labs/box-webauth/internal/core/ports/driven"
)

// Ensure SessionSigner implements SessionTokenSigner
var _ driven.SessionTokenSigner = (*SessionSigner)(nil)

// Issuer is stamped into every session cookie
const Issuer = "box-webauth"

// SessionSigner signs the session cookie as an HS256 JWT.
// The session id travels as the subject claim.
type SessionSigner struct {
	secret []byte
}

// NewSessionSigner creates a new signer with the given HMAC secret
func NewSessionSigner(secret []byte) *SessionSigner {
	return &SessionSigner{secret: secret}
}

// GenerateToken creates a signed JWT from session claims
func (s *SessionSigner) GenerateToken(claims *domain.SessionClaims) (string, error) {
	if claims == nil || claims.SessionID == "" {
		return "", fmt.Errorf("%w: session id is required", domain.ErrInvalidInput)
	}

	rc := jwt.RegisteredClaims{
		Issuer:    Issuer,
		Subject:   claims.SessionID,
		IssuedAt:  jwt.NewNumericDate(time.Unix(claims.IssuedAt, 0)),
		ExpiresAt: jwt.NewNumericDate(time.Unix(claims.ExpiresAt, 0)),
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, rc)
	return token.SignedString(s.secret)
}

// ParseToken validates a JWT and extracts session claims.
// Expired tokens map to domain.ErrTokenExpired, anything else that fails to verify to domain.ErrTokenInvalid.
func (s *SessionSigner) ParseToken(tokenString string) (*domain.SessionClaims, error) {
	token, err := jwt.ParseWithClaims(tokenString, &jwt.RegisteredClaims{}, func(token *jwt.Token) (interface{}, error) {
		return s.secret, nil
	},
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithIssuer(Issuer),
		jwt.WithExpirationRequired(),
	)

	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return nil, domain.ErrTokenExpired
		}
		return nil, fmt.Errorf("%w: %v", domain.ErrTokenInvalid, err)
	}

	claims, ok := token.Claims.(*jwt.RegisteredClaims)
	if !ok || !token.Valid || claims.Subject == "" {
		return nil, domain.ErrTokenInvalid
	}

	out := &domain.SessionClaims{
		SessionID: claims.Subject,
		ExpiresAt: claims.ExpiresAt.Unix(),
	}
	if claims.IssuedAt != nil {
		out.IssuedAt = claims.IssuedAt.Unix()
	}
	return out, nil
}
