package middleware

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http/httptest"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/trentd187/sports-academy/internal/auth"
	"github.com/trentd187/sports-academy/internal/models"
)

type mockDirectory struct {
	mock.Mock
}

func (m *mockDirectory) Resolve(ctx context.Context, userID uint, role models.UserRole) (*models.User, error) {
	args := m.Called(ctx, userID, role)
	user, _ := args.Get(0).(*models.User)
	return user, args.Error(1)
}

type envelope struct {
	Success bool            `json:"success"`
	Data    json.RawMessage `json:"data"`
	Error   string          `json:"error"`
}

// newGateApp mounts the gate in front of a handler that echoes the caller's username.
func newGateApp(dir auth.Directory, roles ...models.UserRole) *fiber.App {
	app := fiber.New()
	gate := NewGate(auth.LegacyCodec{}, dir)
	app.All("/secret", gate.Require(roles...), func(c *fiber.Ctx) error {
		if c.Method() == fiber.MethodOptions {
			return Preflight(fiber.MethodGet)(c)
		}
		return c.JSON(fiber.Map{"success": true, "data": CurrentUser(c).Username})
	})
	return app
}

func call(t *testing.T, app *fiber.App, method, token string) (int, envelope) {
	t.Helper()
	req := httptest.NewRequest(method, "/secret", nil)
	if token != "" {
		req.Header.Set("Authorization", token)
	}
	resp, err := app.Test(req)
	require.NoError(t, err)
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	var env envelope
	if len(body) > 0 {
		require.NoError(t, json.Unmarshal(body, &env))
	}
	return resp.StatusCode, env
}

func bearer(t *testing.T, id uint, role models.UserRole) string {
	t.Helper()
	token, err := auth.LegacyCodec{}.Issue(id, role)
	require.NoError(t, err)
	return "Bearer " + token
}

func TestGate(t *testing.T) {
	active := &models.User{ID: 3, Username: "player1", Role: models.UserRolePlayer, Status: models.UserStatusActive}
	suspended := &models.User{ID: 4, Username: "player2", Role: models.UserRolePlayer, Status: models.UserStatusSuspended}
	admin := &models.User{ID: 1, Username: "admin", Role: models.UserRoleAdmin, Status: models.UserStatusActive}

	tests := []struct {
		name       string
		roles      []models.UserRole
		header     string
		setup      func(d *mockDirectory)
		wantStatus int
		wantError  string
		wantUser   string
	}{
		{
			name:       "missing header",
			wantStatus: fiber.StatusUnauthorized,
			wantError:  "Authentication required",
		},
		{
			name:       "wrong scheme",
			header:     "Basic abc",
			wantStatus: fiber.StatusUnauthorized,
			wantError:  "Authentication required",
		},
		{
			name:       "empty bearer",
			header:     "Bearer ",
			wantStatus: fiber.StatusUnauthorized,
			wantError:  "Authentication required",
		},
		{
			name:       "undecodable token",
			header:     "Bearer not-a-token!",
			wantStatus: fiber.StatusUnauthorized,
			wantError:  "Invalid token",
		},
		{
			name:   "unknown user",
			header: bearer(t, 99, models.UserRoleAdmin),
			setup: func(d *mockDirectory) {
				d.On("Resolve", mock.Anything, uint(99), models.UserRoleAdmin).Return(nil, auth.ErrIdentityNotFound)
			},
			wantStatus: fiber.StatusUnauthorized,
			wantError:  "Invalid token",
		},
		{
			name:   "directory failure",
			header: bearer(t, 3, models.UserRolePlayer),
			setup: func(d *mockDirectory) {
				d.On("Resolve", mock.Anything, uint(3), models.UserRolePlayer).Return(nil, errors.New("connection refused"))
			},
			wantStatus: fiber.StatusUnauthorized,
			wantError:  "Invalid token",
		},
		{
			name:   "inactive account",
			header: bearer(t, 4, models.UserRolePlayer),
			setup: func(d *mockDirectory) {
				d.On("Resolve", mock.Anything, uint(4), models.UserRolePlayer).Return(suspended, nil)
			},
			wantStatus: fiber.StatusForbidden,
			wantError:  "Account is not active",
		},
		{
			name:   "role not allowed",
			roles:  []models.UserRole{models.UserRoleAdmin},
			header: bearer(t, 3, models.UserRolePlayer),
			setup: func(d *mockDirectory) {
				d.On("Resolve", mock.Anything, uint(3), models.UserRolePlayer).Return(active, nil)
			},
			wantStatus: fiber.StatusForbidden,
			wantError:  "Access denied",
		},
		{
			name:   "empty allowlist admits any role",
			header: bearer(t, 3, models.UserRolePlayer),
			setup: func(d *mockDirectory) {
				d.On("Resolve", mock.Anything, uint(3), models.UserRolePlayer).Return(active, nil)
			},
			wantStatus: fiber.StatusOK,
			wantUser:   `"player1"`,
		},
		{
			name:   "role in allowlist",
			roles:  []models.UserRole{models.UserRoleAdmin, models.UserRoleCoach},
			header: bearer(t, 1, models.UserRoleAdmin),
			setup: func(d *mockDirectory) {
				d.On("Resolve", mock.Anything, uint(1), models.UserRoleAdmin).Return(admin, nil)
			},
			wantStatus: fiber.StatusOK,
			wantUser:   `"admin"`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			dir := &mockDirectory{}
			if tt.setup != nil {
				tt.setup(dir)
			}
			app := newGateApp(dir, tt.roles...)

			status, env := call(t, app, fiber.MethodGet, tt.header)
			assert.Equal(t, tt.wantStatus, status)
			assert.Equal(t, tt.wantError, env.Error)
			if tt.wantUser != "" {
				assert.True(t, env.Success)
				assert.JSONEq(t, tt.wantUser, string(env.Data))
			}
			dir.AssertExpectations(t)
		})
	}
}

func TestGate_OptionsSkipsAuthentication(t *testing.T) {
	dir := &mockDirectory{}
	app := newGateApp(dir, models.UserRoleAdmin)

	status, _ := call(t, app, fiber.MethodOptions, "")
	assert.Equal(t, fiber.StatusOK, status)
	dir.AssertNotCalled(t, "Resolve", mock.Anything, mock.Anything, mock.Anything)
}

func TestGate_BadTokenBeatsRoleCheck(t *testing.T) {
	// A garbage token on an admin-only route is a 401, never a 403.
	dir := &mockDirectory{}
	app := newGateApp(dir, models.UserRoleAdmin)

	status, env := call(t, app, fiber.MethodGet, "Bearer garbage")
	assert.Equal(t, fiber.StatusUnauthorized, status)
	assert.Equal(t, "Invalid token", env.Error)
}
