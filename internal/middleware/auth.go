package middleware

import (
	"github.com/gofiber/fiber/v2"

	"github.com/Ananth-NQI/hotelluxe-backend/internal/services"
)

// Locals keys set by the auth middleware
const (
	LocalUserID  = "userID"
	LocalAdminID = "adminID"
	LocalClaims  = "claims"
)

// RequireUser accepts only valid guest tokens and stores the user id in
// c.Locals(LocalUserID).
func RequireUser(tokens *services.TokenService) fiber.Handler {
	return requireRole(tokens, services.RoleUser, LocalUserID)
}

// RequireAdmin accepts only valid admin tokens and stores the admin id in
// c.Locals(LocalAdminID).
func RequireAdmin(tokens *services.TokenService) fiber.Handler {
	return requireRole(tokens, services.RoleAdmin, LocalAdminID)
}

func requireRole(tokens *services.TokenService, role, local string) fiber.Handler {
	return func(c *fiber.Ctx) error {
		claims, err := tokens.Parse(c.Get(fiber.HeaderAuthorization))
		if err != nil {
			return unauthorized(c, err.Error())
		}
		if claims.Role != role {
			return unauthorized(c, "Unauthorized")
		}
		id, err := claims.SubjectID()
		if err != nil {
			return unauthorized(c, err.Error())
		}

		c.Locals(local, id)
		c.Locals(LocalClaims, claims)
		return c.Next()
	}
}

// UserID returns the authenticated guest id.
func UserID(c *fiber.Ctx) (uint, bool) {
	id, ok := c.Locals(LocalUserID).(uint)
	return id, ok && id != 0
}

// AdminID returns the authenticated admin id.
func AdminID(c *fiber.Ctx) (uint, bool) {
	id, ok := c.Locals(LocalAdminID).(uint)
	return id, ok && id != 0
}

func unauthorized(c *fiber.Ctx, message string) error {
	return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
		"success": false,
		"message": message,
	})
}
