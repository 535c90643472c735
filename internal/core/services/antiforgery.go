package services

import (
	"crypto/subtle"
	"fmt"
	"strings"

	"github.com/google/uuid"
)

// NewAntiForgeryToken generates a fresh, unpredictable anti-forgery token.
// Random (v4) UUIDs draw 122 bits from crypto/rand.
func NewAntiForgeryToken() (string, error) {
	id, err := uuid.NewRandom()
	if err != nil {
		return "", fmt.Errorf("generate anti-forgery token: %w", err)
	}
	return id.String(), nil
}

// ValidateAntiForgeryToken reports whether the state returned by the provider
// matches the token stashed at authorization time. A blank stored token never
// validates, so a consumed or missing token rejects every callback.
func ValidateAntiForgeryToken(stored, supplied string) bool {
	if strings.TrimSpace(stored) == "" {
		return false
	}
	return subtle.ConstantTimeCompare([]byte(stored), []byte(supplied)) == 1
}
