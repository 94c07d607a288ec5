package auth

import (
	"fmt"

	"github.com/matthewhartstonge/argon2"
)

// PasswordHasher hashes and verifies passwords with argon2id. The encoded
// hash embeds the salt and parameters, so a single string column is enough.
type PasswordHasher struct {
	config argon2.Config
}

// NewPasswordHasher creates a PasswordHasher with the library defaults
// (argon2id, 64 MiB memory, salted per hash).
func NewPasswordHasher() *PasswordHasher {
	return &PasswordHasher{config: argon2.DefaultConfig()}
}

// Hash hashes a plaintext password into an encoded argon2id string.
func (h *PasswordHasher) Hash(plaintext string) (string, error) {
	encoded, err := h.config.HashEncoded([]byte(plaintext))
	if err != nil {
		return "", fmt.Errorf("hash password: %w", err)
	}
	return string(encoded), nil
}

// Verify reports whether plaintext matches the stored encoded hash.
// A malformed hash is an error; a mismatch is (false, nil).
func (h *PasswordHasher) Verify(plaintext, encoded string) (bool, error) {
	ok, err := argon2.VerifyEncoded([]byte(plaintext), []byte(encoded))
	if err != nil {
		return false, fmt.Errorf("verify password: %w", err)
	}
	return ok, nil
}
