package auth

import (
	"strings"

	"github.com/gofiber/fiber/v2"

	apperrors "github.com/cove-house/waitlist-service/pkg/util"
)

// AdminMiddleware gates the admin panel endpoints. A request may present
// either the shared key in the X-Admin-Key header or a session token from
// POST /admin/login in the Authorization header.
type AdminMiddleware struct {
	verifier AdminVerifier
	tokens   *TokenManager
}

// NewAdminMiddleware constructs the middleware.
func NewAdminMiddleware(verifier AdminVerifier, tokens *TokenManager) *AdminMiddleware {
	return &AdminMiddleware{verifier: verifier, tokens: tokens}
}

// Handle rejects unauthorized requests before any handler runs.
func (m *AdminMiddleware) Handle(c *fiber.Ctx) error {
	if key := c.Get("X-Admin-Key"); key != "" {
		if m.verifier.Verify(key) {
			return c.Next()
		}
		return apperrors.NewUnauthorized()
	}

	header := c.Get(fiber.HeaderAuthorization)
	if token, ok := strings.CutPrefix(header, "Bearer "); ok {
		if err := m.tokens.ValidateToken(strings.TrimSpace(token)); err == nil {
			return c.Next()
		}
	}
	return apperrors.NewUnauthorized()
}
