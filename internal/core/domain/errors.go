package domain

import "errors"

// Domain errors - used across all layers
var (
	// ErrInvalidInput indicates the input is invalid
	ErrInvalidInput = errors.New("invalid input")

	// ErrForgedRequest indicates the returned state does not match the stashed anti-forgery token
	ErrForgedRequest = errors.New("forged request")

	// ErrTokenExpired indicates the session cookie has expired
	ErrTokenExpired = errors.New("token expired")

	// ErrTokenInvalid indicates the session cookie is malformed or tampered with
	ErrTokenInvalid = errors.New("token invalid")

	// ErrDecryptionFailed indicates a sealed session value could not be opened
	ErrDecryptionFailed = errors.New("decryption failed")
)
