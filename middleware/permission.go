package middleware

import (
	"context"

	"github.com/gofiber/fiber/v2"
)

// PermissionChecker resolves role permissions for a user.
type PermissionChecker interface {
	HasPermission(ctx context.Context, userID uint, resource, action string) (bool, error)
}

// RequirePermission checks if the user has the required permission
func RequirePermission(checker PermissionChecker, resource string, action string) fiber.Handler {
	return func(c *fiber.Ctx) error {
		claims, ok := ClaimsFrom(c)
		if !ok {
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
				"error": "No authentication token",
			})
		}

		hasPermission, err := checker.HasPermission(c.UserContext(), claims.UserID, resource, action)
		if err != nil {
			return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
				"error": "Failed to check permissions",
			})
		}
		if !hasPermission {
			return c.Status(fiber.StatusForbidden).JSON(fiber.Map{
				"error": "You don't have permission to perform this action",
			})
		}

		return c.Next()
	}
}

// RequireRole checks the role carried in the access token.
func RequireRole(roleName string) fiber.Handler {
	return func(c *fiber.Ctx) error {
		claims, ok := ClaimsFrom(c)
		if !ok {
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
				"error": "No authentication token",
			})
		}
		if claims.Role != roleName {
			return c.Status(fiber.StatusForbidden).JSON(fiber.Map{
				"error": "You don't have the required role to perform this action",
			})
		}
		return c.Next()
	}
}
