package middleware

import (
	"context"

	"github.com/gofiber/fiber/v2"
	jwtware "github.com/gofiber/jwt/v3"
	"github.com/golang-jwt/jwt/v4"
	"github.com/meinhoongagan/careforme-admin/auth"
)

// TokenChecker is the part of auth.Service the JWT middleware needs.
type TokenChecker interface {
	Secret() []byte
	IsRevoked(ctx context.Context, jti string) (bool, error)
}

const claimsKey = "claims"

func Protected(tokens TokenChecker) fiber.Handler {
	return jwtware.New(jwtware.Config{
		SigningKey:   tokens.Secret(),
		Claims:       &auth.Claims{},
		ErrorHandler: jwtError,
		SuccessHandler: func(c *fiber.Ctx) error {
			token, ok := c.Locals("user").(*jwt.Token)
			if !ok {
				return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
					"error": "Invalid token",
				})
			}

			claims, ok := token.Claims.(*auth.Claims)
			if !ok || claims.TokenType != auth.TokenAccess {
				return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
					"error": "Invalid token claims",
				})
			}

			revoked, err := tokens.IsRevoked(c.UserContext(), claims.ID)
			if err != nil {
				return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
					"error": "Failed to verify token",
				})
			}
			if revoked {
				return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
					"error":   "Unauthorized",
					"message": "Token has been revoked",
				})
			}

			c.Locals(claimsKey, claims)
			c.Locals("userID", claims.UserID)
			c.Locals("role", claims.Role)
			return c.Next()
		},
	})
}

// ClaimsFrom returns the claims stored by Protected.
func ClaimsFrom(c *fiber.Ctx) (*auth.Claims, bool) {
	claims, ok := c.Locals(claimsKey).(*auth.Claims)
	return claims, ok && claims != nil
}

func jwtError(c *fiber.Ctx, err error) error {
	return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
		"error":   "Unauthorized",
		"message": "Invalid or expired token",
	})
}
