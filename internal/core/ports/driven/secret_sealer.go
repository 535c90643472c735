package driven

// SecretSealer encrypts values before they reach a session backend.
type SecretSealer interface {
	// Seal encrypts plaintext into an opaque printable string
	Seal(plaintext string) (string, error)

	// Open decrypts a value produced by Seal
	Open(sealed string) (string, error)
}
