package auth

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestGitHubProvider_AuthURL(t *testing.T) {
	p := NewGitHubProvider("client-id", "client-secret", "http://localhost:8080/auth/github/callback")

	authURL := p.AuthURL("csrf-state")

	assert.Contains(t, authURL, "https://github.com/login/oauth/authorize")
	assert.Contains(t, authURL, "client_id=client-id")
	assert.Contains(t, authURL, "state=csrf-state")
	assert.Contains(t, authURL, "read%3Auser+user%3Aemail")
	assert.NotContains(t, authURL, "client-secret")
}
