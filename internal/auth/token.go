package auth

import (
	"crypto/rand"
	"encoding/hex"
	"fmt"
)

const tokenBytes = 20

// GenerateToken returns a 40-character hex token from 20 bytes of
// crypto/rand entropy. Used for session ids and for single-use email
// verification and password reset tokens; opaque by construction.
func GenerateToken() (string, error) {
	buf := make([]byte, tokenBytes)
	if _, err := rand.Read(buf); err != nil {
		return "", fmt.Errorf("generate token: %w", err)
	}
	return hex.EncodeToString(buf), nil
}
