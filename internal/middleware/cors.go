package middleware

import (
	"strings"

	"github.com/gofiber/fiber/v2"
)

// allowedHeaders is the fixed request-header list announced on preflight.
const allowedHeaders = "Content-Type, Authorization"

// AllowOrigin sets Access-Control-Allow-Origin on every response, errors included.
// The header is written before the chain runs so early returns carry it too.
func AllowOrigin(origin string) fiber.Handler {
	return func(c *fiber.Ctx) error {
		c.Set(fiber.HeaderAccessControlAllowOrigin, origin)
		return c.Next()
	}
}

// Preflight answers OPTIONS for one route with an empty 200, the route's methods plus
// OPTIONS, and the allowed request headers. No authentication is involved.
func Preflight(methods ...string) fiber.Handler {
	allow := strings.Join(append(append([]string{}, methods...), fiber.MethodOptions), ", ")
	return func(c *fiber.Ctx) error {
		c.Set(fiber.HeaderAccessControlAllowMethods, allow)
		c.Set(fiber.HeaderAccessControlAllowHeaders, allowedHeaders)
		return c.Status(fiber.StatusOK).Send(nil)
	}
}
