// Package middleware contains HTTP middleware functions for the Sports Academy API.
// Middleware sits between the HTTP server and route handlers. It runs on every
// request that passes through it, making it the right place for cross-cutting
// concerns like authentication and CORS.
package middleware

import (
	"errors"
	"strings"

	// fiber is the HTTP framework; fiber.Handler is the function signature for middleware
	"github.com/gofiber/fiber/v2"
	log "github.com/sirupsen/logrus"

	"github.com/trentd187/sports-academy/internal/auth"
	"github.com/trentd187/sports-academy/internal/models"
)

// Keys under which the gate stores the caller in c.Locals.
const (
	LocalUser     = "user"     // *models.User without the password
	LocalUserID   = "userID"   // uint
	LocalUserRole = "userRole" // string, read by RequireRole
)

// Gate authenticates requests. It is built once at start-up and hands out one
// handler per route through Require, each with its own role allowlist.
type Gate struct {
	tokens    auth.Codec
	directory auth.Directory
}

// NewGate returns a gate that decodes tokens with tokens and loads users from directory.
func NewGate(tokens auth.Codec, directory auth.Directory) *Gate {
	return &Gate{tokens: tokens, directory: directory}
}

// Require returns a Fiber middleware handler that:
//  1. Lets OPTIONS preflight requests through without credentials
//  2. Reads the token from the "Authorization: Bearer <token>" header
//  3. Decodes it and loads the matching user (same id AND same role)
//  4. Rejects accounts that are not active
//  5. Rejects roles outside the allowlist (an empty allowlist admits every role)
//  6. Stores the user in c.Locals for the handlers
//
// The checks run in exactly this order, so a bad token on an admin-only route is
// still a 401, never a 403.
func (g *Gate) Require(roles ...models.UserRole) fiber.Handler {
	return func(c *fiber.Ctx) error {
		if c.Method() == fiber.MethodOptions {
			return c.Next()
		}

		// --- Step 1: Extract the token ---
		header := c.Get(fiber.HeaderAuthorization)
		token, found := strings.CutPrefix(header, "Bearer ")
		token = strings.TrimSpace(token)
		if !found || token == "" {
			return deny(c, fiber.StatusUnauthorized, "Authentication required")
		}

		// --- Step 2: Decode and resolve ---
		claims, err := g.tokens.Parse(token)
		if err != nil {
			return deny(c, fiber.StatusUnauthorized, "Invalid token")
		}

		user, err := g.directory.Resolve(c.UserContext(), claims.UserID, claims.Role)
		if err != nil {
			// A lookup failure is indistinguishable from a bad token to the caller,
			// but an unexpected one is still worth a log line.
			if !errors.Is(err, auth.ErrIdentityNotFound) {
				log.WithError(err).WithField("user_id", claims.UserID).Error("identity lookup failed")
			}
			return deny(c, fiber.StatusUnauthorized, "Invalid token")
		}

		// --- Step 3: Status and role ---
		if user.Status != models.UserStatusActive {
			return deny(c, fiber.StatusForbidden, "Account is not active")
		}
		if len(roles) > 0 && !hasRole(user.Role, roles) {
			return deny(c, fiber.StatusForbidden, "Access denied")
		}

		// --- Step 4: Store the caller for downstream handlers ---
		c.Locals(LocalUser, user)
		c.Locals(LocalUserID, user.ID)
		c.Locals(LocalUserRole, string(user.Role))

		return c.Next()
	}
}

// CurrentUser returns the user stored by the gate, or nil on a route without one.
func CurrentUser(c *fiber.Ctx) *models.User {
	user, _ := c.Locals(LocalUser).(*models.User)
	return user
}

func hasRole(role models.UserRole, allowed []models.UserRole) bool {
	for _, r := range allowed {
		if r == role {
			return true
		}
	}
	return false
}

// deny writes the standard error envelope.
func deny(c *fiber.Ctx, status int, msg string) error {
	return c.Status(status).JSON(fiber.Map{
		"success": false,
		"error":   msg,
	})
}
