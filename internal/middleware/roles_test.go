package middleware

import (
	"net/http/httptest"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/trentd187/sports-academy/internal/models"
)

func TestRequireRole(t *testing.T) {
	tests := []struct {
		name       string
		role       string
		wantStatus int
	}{
		{"admin passes", "admin", fiber.StatusOK},
		{"coach denied", "coach", fiber.StatusForbidden},
		{"no role denied", "", fiber.StatusForbidden},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			app := fiber.New()
			app.Get("/",
				func(c *fiber.Ctx) error {
					if tt.role != "" {
						c.Locals(LocalUserRole, tt.role)
					}
					return c.Next()
				},
				RequireRole("Access Denied: Admins only", models.UserRoleAdmin),
				func(c *fiber.Ctx) error { return c.SendStatus(fiber.StatusOK) },
			)

			resp, err := app.Test(httptest.NewRequest(fiber.MethodGet, "/", nil))
			require.NoError(t, err)
			assert.Equal(t, tt.wantStatus, resp.StatusCode)
		})
	}
}
