package crypto

import (
	"crypto/cipher"
	"crypto/rand"
	"crypto/sha256"
	"encoding/base64"
	"errors"
	"fmt"
	"io"

	"golang.org/x/crypto/chacha20poly1305"
	"golang.org/x/crypto/hkdf"

	"github.com/custodia-labs/box-webauth/internal/core/domain"
	"github.com/custodia-labs/box-webauth/internal/core/ports/driven"
)

// Verify interface compliance
var _ driven.SecretSealer = (*Sealer)(nil)

const (
	// sealVersion is the version byte for the sealed blob format.
	sealVersion = 0x01

	// KeySize is the XChaCha20-Poly1305 key size
	KeySize = chacha20poly1305.KeySize

	// sealerInfo binds derived keys to their purpose
	sealerInfo = "box-webauth/session-sealer/v1"
)

var (
	// ErrInvalidKeySize is returned when the sealing key is not 32 bytes.
	ErrInvalidKeySize = errors.New("sealing key must be 32 bytes")

	// ErrEmptySecret is returned when key derivation gets no input material.
	ErrEmptySecret = errors.New("secret must not be empty")

	// ErrInvalidBlobSize is returned when the sealed blob is too small.
	ErrInvalidBlobSize = errors.New("sealed blob is too small")

	// ErrUnsupportedVersion is returned when the blob version is not supported.
	ErrUnsupportedVersion = errors.New("unsupported sealed blob version")
)

// DeriveKey expands secret into size bytes of key material with HKDF-SHA256.
// Different info strings yield independent keys from the same secret.
func DeriveKey(secret []byte, info string, size int) ([]byte, error) {
	if len(secret) == 0 {
		return nil, ErrEmptySecret
	}
	key := make([]byte, size)
	if _, err := io.ReadFull(hkdf.New(sha256.New, secret, nil, []byte(info)), key); err != nil {
		return nil, fmt.Errorf("derive key: %w", err)
	}
	return key, nil
}

// Sealer handles XChaCha20-Poly1305 sealing of session secrets.
// The sealed format is: base64url(version(1) || nonce(24) || ciphertext(N))
type Sealer struct {
	aead cipher.AEAD
}

// NewSealer creates a sealer with the given 32-byte key.
func NewSealer(key []byte) (*Sealer, error) {
	if len(key) != KeySize {
		return nil, fmt.Errorf("%w: got %d bytes", ErrInvalidKeySize, len(key))
	}

	aead, err := chacha20poly1305.NewX(key)
	if err != nil {
		return nil, fmt.Errorf("create XChaCha20-Poly1305: %w", err)
	}

	return &Sealer{aead: aead}, nil
}

// NewSealerFromSecret derives the sealing key from an arbitrary-length secret.
func NewSealerFromSecret(secret []byte) (*Sealer, error) {
	key, err := DeriveKey(secret, sealerInfo, KeySize)
	if err != nil {
		return nil, err
	}
	return NewSealer(key)
}

// Seal encrypts plaintext with a fresh random nonce.
func (s *Sealer) Seal(plaintext string) (string, error) {
	nonceSize := s.aead.NonceSize()
	blob := make([]byte, 1+nonceSize, 1+nonceSize+len(plaintext)+s.aead.Overhead())
	blob[0] = sealVersion

	nonce := blob[1 : 1+nonceSize]
	if _, err := rand.Read(nonce); err != nil {
		return "", fmt.Errorf("generate nonce: %w", err)
	}

	// version byte is authenticated as additional data
	blob = s.aead.Seal(blob, nonce, []byte(plaintext), []byte{sealVersion})
	return base64.RawURLEncoding.EncodeToString(blob), nil
}

// Open decrypts a value produced by Seal.
// Any tampering or wrong key yields domain.ErrDecryptionFailed.
func (s *Sealer) Open(sealed string) (string, error) {
	blob, err := base64.RawURLEncoding.DecodeString(sealed)
	if err != nil {
		return "", fmt.Errorf("%w: malformed encoding", domain.ErrDecryptionFailed)
	}

	nonceSize := s.aead.NonceSize()
	if len(blob) < 1+nonceSize+s.aead.Overhead() {
		return "", fmt.Errorf("%w: %w", domain.ErrDecryptionFailed, ErrInvalidBlobSize)
	}

	if blob[0] != sealVersion {
		return "", fmt.Errorf("%w: %w: got version %d", domain.ErrDecryptionFailed, ErrUnsupportedVersion, blob[0])
	}

	nonce := blob[1 : 1+nonceSize]
	plaintext, err := s.aead.Open(nil, nonce, blob[1+nonceSize:], []byte{sealVersion})
	if err != nil {
		return "", domain.ErrDecryptionFailed
	}
	return string(plaintext), nil
}
