package auth

import (
	"strings"

	"github.com/gofiber/fiber/v2"

	apperrors "github.com/haeseoky/member-service/pkg/util"
)

// RequireAdmin returns a middleware that rejects requests lacking a valid
// admin bearer token.
func RequireAdmin(manager *TokenManager) fiber.Handler {
	return func(c *fiber.Ctx) error {
		header := c.Get(fiber.HeaderAuthorization)
		if header == "" {
			return apperrors.NewUnauthorized("missing authorization header")
		}

		tokenString := strings.TrimPrefix(header, "Bearer ")
		if tokenString == header {
			return apperrors.NewUnauthorized("authorization header must use Bearer scheme")
		}

		claims, err := manager.VerifyAdminToken(tokenString)
		if err != nil {
			return apperrors.NewUnauthorized("invalid admin token")
		}

		c.Locals("admin_subject", claims.Subject)
		return c.Next()
	}
}
