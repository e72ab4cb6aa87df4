package handlers

import (
	"fmt"

	"github.com/gofiber/fiber/v2"

	"github.com/trentd187/sports-academy/internal/middleware"
	"github.com/trentd187/sports-academy/internal/models"
	"github.com/trentd187/sports-academy/internal/policy"
)

// GetUsers handles GET /api/users (admin only). Passwords are never selected.
func GetUsers(env *Env) fiber.Handler {
	return func(c *fiber.Ctx) error {
		ctx := c.UserContext()
		if err := env.Authz.Authorize(ctx, middleware.CurrentUser(c), policy.ResourceUsers, policy.ActionList, 0); err != nil {
			return handleError(c, err)
		}

		var users []models.User
		if err := env.DB.WithContext(ctx).
			Select("id", "username", "email", "role", "status", "created_at", "updated_at").
			Order("id").
			Find(&users).Error; err != nil {
			return handleError(c, fmt.Errorf("failed to fetch users: %w", err))
		}
		return respond(c, fiber.StatusOK, users)
	}
}
