package auth

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/cove-house/waitlist-service/internal/config"
)

func TestKeyVerifier_PlaintextKey(t *testing.T) {
	v := NewAdminVerifier(config.AdminConfig{Key: "super-secret"})

	assert.True(t, v.Verify("super-secret"))
	assert.False(t, v.Verify("wrong"))
	assert.False(t, v.Verify(""))
}

func TestKeyVerifier_HashTakesPrecedence(t *testing.T) {
	hash, err := HashAdminKey("hashed-secret", bcrypt.MinCost)
	require.NoError(t, err)

	v := NewAdminVerifier(config.AdminConfig{Key: "plain-secret", KeyHash: hash})

	assert.True(t, v.Verify("hashed-secret"))
	assert.False(t, v.Verify("plain-secret"), "plaintext key is ignored once a hash is configured")
}

func TestKeyVerifier_NothingConfigured(t *testing.T) {
	v := NewAdminVerifier(config.AdminConfig{})

	assert.False(t, v.Verify("anything"))
	assert.False(t, v.Verify(""))
}

func TestTokenManager_RoundTrip(t *testing.T) {
	tm := NewTokenManager("session-secret", 30)

	token, expiresAt, err := tm.GenerateToken()
	require.NoError(t, err)
	assert.NotEmpty(t, token)
	assert.False(t, expiresAt.IsZero())

	require.NoError(t, tm.ValidateToken(token))
}

func TestTokenManager_RejectsForeignToken(t *testing.T) {
	issuer := NewTokenManager("secret-a", 30)
	verifier := NewTokenManager("secret-b", 30)

	token, _, err := issuer.GenerateToken()
	require.NoError(t, err)

	assert.Error(t, verifier.ValidateToken(token))
	assert.Error(t, verifier.ValidateToken("not-a-token"))
}
