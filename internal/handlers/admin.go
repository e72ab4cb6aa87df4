package handlers

import (
	"fmt"

	"github.com/gofiber/fiber/v2"
	log "github.com/sirupsen/logrus"

	"github.com/trentd187/sports-academy/internal/database"
	"github.com/trentd187/sports-academy/internal/middleware"
	"github.com/trentd187/sports-academy/internal/policy"
)

// ResetDatabase handles POST /api/admin/reset-db.
// It drops every table, recreates the schema and reloads the seed data in a single
// transaction, so a failed reset leaves the old data in place.
func ResetDatabase(env *Env) fiber.Handler {
	return func(c *fiber.Ctx) error {
		ctx := c.UserContext()
		user := middleware.CurrentUser(c)
		if err := env.Authz.Authorize(ctx, user, policy.ResourceDatabase, policy.ActionCreate, 0); err != nil {
			return handleError(c, err)
		}

		if err := database.Reset(ctx, env.DB); err != nil {
			return handleError(c, fmt.Errorf("database reset failed: %w", err))
		}

		log.WithField("user_id", user.ID).Warn("database reset to seed data")
		return respond(c, fiber.StatusOK, fiber.Map{"message": "Database reset and seeded successfully"})
	}
}
