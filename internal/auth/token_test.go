package auth

import (
	"encoding/hex"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestGenerateToken(t *testing.T) {
	token, err := GenerateToken()
	assert.NoError(t, err)
	assert.Len(t, token, 40)

	_, err = hex.DecodeString(token)
	assert.NoError(t, err)
}

func TestGenerateToken_Unique(t *testing.T) {
	seen := make(map[string]bool)
	for i := 0; i < 100; i++ {
		token, err := GenerateToken()
		assert.NoError(t, err)
		assert.False(t, seen[token])
		seen[token] = true
	}
}
