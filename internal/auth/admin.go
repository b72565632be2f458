// Package auth restricts approval and admin listing actions to an
// authorized operator. The wire contract stays a shared admin key; the
// verifier hides how the credential is checked (bcrypt hash when
// configured, constant-time compare otherwise) and the token manager layers
// short-lived session tokens on top for the admin panel.
package auth

import (
	"crypto/subtle"

	"golang.org/x/crypto/bcrypt"

	"github.com/cove-house/waitlist-service/internal/config"
)

// AdminVerifier answers whether a presented credential authorizes admin
// actions.
type AdminVerifier interface {
	Verify(credential string) bool
}

type keyVerifier struct {
	key     string
	keyHash string
}

// NewAdminVerifier builds a verifier from configuration. ADMIN_KEY_HASH
// takes precedence over the plaintext ADMIN_KEY.
func NewAdminVerifier(cfg config.AdminConfig) AdminVerifier {
	return &keyVerifier{key: cfg.Key, keyHash: cfg.KeyHash}
}

func (v *keyVerifier) Verify(credential string) bool {
	if credential == "" {
		return false
	}
	if v.keyHash != "" {
		return bcrypt.CompareHashAndPassword([]byte(v.keyHash), []byte(credential)) == nil
	}
	if v.key == "" {
		return false
	}
	return subtle.ConstantTimeCompare([]byte(v.key), []byte(credential)) == 1
}

// HashAdminKey produces a bcrypt hash suitable for ADMIN_KEY_HASH.
func HashAdminKey(key string, cost int) (string, error) {
	hashed, err := bcrypt.GenerateFromPassword([]byte(key), cost)
	if err != nil {
		return "", err
	}
	return string(hashed), nil
}
