package middleware

// roles.go: per-method role restrictions layered after the gate.
// The gate decides who may reach a resource at all; RequireRole narrows one verb
// on that resource, e.g. only admins may POST a game.

import (
	"github.com/gofiber/fiber/v2"

	"github.com/trentd187/sports-academy/internal/models"
)

// RequireRole returns a middleware handler that allows only users whose role
// matches one of the provided roles, answering 403 with msg otherwise.
//
//	api.Post("/games", middleware.RequireRole("Access Denied: Admins only", models.UserRoleAdmin), h.CreateGame)
//
// RequireRole must be used AFTER the gate, because the gate is what populates
// the "userRole" value in the request context via c.Locals.
func RequireRole(msg string, roles ...models.UserRole) fiber.Handler {
	return func(c *fiber.Ctx) error {
		userRole, ok := c.Locals(LocalUserRole).(string)
		if !ok || userRole == "" {
			// No role means the gate was not applied. Deny rather than guess.
			return deny(c, fiber.StatusForbidden, msg)
		}

		for _, role := range roles {
			if userRole == string(role) {
				return c.Next()
			}
		}
		return deny(c, fiber.StatusForbidden, msg)
	}
}
