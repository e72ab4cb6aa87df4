package handlers

import (
	"github.com/gofiber/fiber/v2"
	log "github.com/sirupsen/logrus"

	"github.com/trentd187/sports-academy/internal/database"
)

// HealthCheck handles GET /health.
// It returns a simple JSON response indicating the process is alive and reachable.
// No database queries, no authentication. Used by container liveness probes and
// load balancers.
func HealthCheck(c *fiber.Ctx) error {
	return c.JSON(fiber.Map{"status": "ok"})
}

// connection is the payload of the database status endpoints.
type connection struct {
	Connected bool `json:"connected"`
}

// DatabaseStatus handles GET /api/status and GET /api/auth/status.
// Unlike HealthCheck it pings the pool, so a 500 here means the API is up but
// cannot reach PostgreSQL.
func DatabaseStatus(env *Env) fiber.Handler {
	return func(c *fiber.Ctx) error {
		if err := database.Ping(c.UserContext(), env.DB); err != nil {
			log.WithError(err).Error("database status check failed")
			return c.Status(fiber.StatusInternalServerError).JSON(envelope{
				Success: false,
				Data:    connection{Connected: false},
				Error:   "Database connection failed",
			})
		}
		return respond(c, fiber.StatusOK, connection{Connected: true})
	}
}
