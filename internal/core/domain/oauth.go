package domain

import "time"

// OAuthSession is the token pair returned by a successful code exchange.
// It is rendered once and never persisted.
type OAuthSession struct {
	AccessToken  string    `json:"access_token"`
	RefreshToken string    `json:"refresh_token"`
	TokenType    string    `json:"token_type,omitempty"`
	Expiry       time.Time `json:"expiry,omitempty"`
}

// AuthResult is the view model rendered after a completed flow
type AuthResult struct {
	ClientID     string
	ClientSecret string
	AccessToken  string
	RefreshToken string
	TokenType    string
	Expiry       time.Time
}

// NewAuthResult combines the stashed credentials with the exchanged tokens
func NewAuthResult(creds ClientCredentials, sess *OAuthSession) *AuthResult {
	return &AuthResult{
		ClientID:     creds.ClientID,
		ClientSecret: creds.ClientSecret,
		AccessToken:  sess.AccessToken,
		RefreshToken: sess.RefreshToken,
		TokenType:    sess.TokenType,
		Expiry:       sess.Expiry,
	}
}

// Session keys shared by every session backend.
const (
	SessionKeyClientID     = "clientId"
	SessionKeyClientSecret = "clientSecret"
	SessionKeyState        = "state"
)

// SessionKeys lists every key the flow writes into a visitor session.
var SessionKeys = []string{SessionKeyClientID, SessionKeyClientSecret, SessionKeyState}

// SessionClaims is the payload of the signed session cookie
type SessionClaims struct {
	SessionID string
	IssuedAt  int64
	ExpiresAt int64
}
