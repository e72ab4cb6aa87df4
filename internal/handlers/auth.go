package handlers

// auth.go: the public login and registration endpoints.
// Neither is behind the gate: they are how a client gets its first token.

import (
	"errors"
	"fmt"
	"time"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"

	"github.com/trentd187/sports-academy/internal/models"
)

// UserResponse is the user projection returned by login and register: the user
// row without its password, plus a bearer token.
type UserResponse struct {
	ID        uint              `json:"id"`
	Username  string            `json:"username"`
	Email     string            `json:"email"`
	Role      models.UserRole   `json:"role"`
	Status    models.UserStatus `json:"status"`
	CreatedAt time.Time         `json:"createdAt"`
	UpdatedAt time.Time         `json:"updatedAt"`
	Token     string            `json:"token"`
}

func userResponse(u *models.User, token string) UserResponse {
	return UserResponse{
		ID:        u.ID,
		Username:  u.Username,
		Email:     u.Email,
		Role:      u.Role,
		Status:    u.Status,
		CreatedAt: u.CreatedAt,
		UpdatedAt: u.UpdatedAt,
		Token:     token,
	}
}

// LoginRequest is the JSON body of POST /api/auth/login.
type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// Login handles POST /api/auth/login.
// Passwords are stored and compared as plain text.
func Login(env *Env) fiber.Handler {
	return func(c *fiber.Ctx) error {
		var req LoginRequest
		if err := parseBody(c, &req); err != nil {
			return handleError(c, err)
		}
		if req.Email == "" || req.Password == "" {
			return fail(c, fiber.StatusBadRequest, "Email and password are required")
		}

		var user models.User
		err := env.DB.WithContext(c.UserContext()).
			Where("email = ? AND password = ?", req.Email, req.Password).
			Take(&user).Error
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return fail(c, fiber.StatusUnauthorized, "Invalid email or password")
		}
		if err != nil {
			return handleError(c, fmt.Errorf("login lookup failed: %w", err))
		}

		if user.Status != models.UserStatusActive {
			return fail(c, fiber.StatusForbidden, "Account is not active")
		}

		token, err := env.Tokens.Issue(user.ID, user.Role)
		if err != nil {
			return handleError(c, err)
		}
		return respond(c, fiber.StatusOK, userResponse(&user, token))
	}
}

// RegisterRequest is the JSON body of POST /api/auth/register.
// Sports are game names; Specialization and Experience only apply to coaches.
type RegisterRequest struct {
	Username       string   `json:"username"`
	Email          string   `json:"email"`
	Password       string   `json:"password"`
	Role           string   `json:"role"`
	FirstName      string   `json:"firstName"`
	LastName       string   `json:"lastName"`
	Sports         []string `json:"sports"`
	Specialization *string  `json:"specialization"`
	Experience     *int     `json:"experience"`
}

// validate applies the checks that need no database.
func (r *RegisterRequest) validate() error {
	if r.Username == "" || r.Email == "" || r.Password == "" || r.Role == "" || r.FirstName == "" || r.LastName == "" {
		return badRequest("Required user and profile fields are missing")
	}
	if !models.UserRole(r.Role).Valid() {
		return badRequest("Invalid role specified")
	}
	if models.UserRole(r.Role) == models.UserRolePlayer && len(r.Sports) == 0 {
		return badRequest("Player registration requires selecting at least one sport.")
	}
	return nil
}

const msgUserExists = "User with this email or username already exists"

// Register handles POST /api/auth/register.
// The user row and its player or coach profile (and a player's game links) are
// created in one transaction; any failure leaves nothing behind. Admin accounts
// get no profile.
func Register(env *Env) fiber.Handler {
	return func(c *fiber.Ctx) error {
		var req RegisterRequest
		if err := parseBody(c, &req); err != nil {
			return handleError(c, err)
		}
		if err := req.validate(); err != nil {
			return handleError(c, err)
		}

		db := env.DB.WithContext(c.UserContext())

		var existing int64
		if err := db.Model(&models.User{}).
			Where("email = ? OR username = ?", req.Email, req.Username).
			Count(&existing).Error; err != nil {
			return handleError(c, fmt.Errorf("failed to check existing users: %w", err))
		}
		if existing > 0 {
			return fail(c, fiber.StatusConflict, msgUserExists)
		}

		user := models.User{
			Username: req.Username,
			Email:    req.Email,
			Password: req.Password,
			Role:     models.UserRole(req.Role),
			Status:   models.UserStatusActive,
		}

		err := db.Transaction(func(tx *gorm.DB) error {
			if err := tx.Create(&user).Error; err != nil {
				return err
			}

			switch user.Role {
			case models.UserRolePlayer:
				player := models.Player{UserID: user.ID, FirstName: req.FirstName, LastName: req.LastName}
				if err := tx.Create(&player).Error; err != nil {
					return err
				}
				return linkSports(tx, player.ID, req.Sports)
			case models.UserRoleCoach:
				coach := models.Coach{
					UserID:         user.ID,
					FirstName:      req.FirstName,
					LastName:       req.LastName,
					Specialization: emptyToNil(req.Specialization),
					Experience:     zeroToNil(req.Experience),
				}
				return tx.Create(&coach).Error
			}
			return nil
		})
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			// Lost a race with a concurrent registration for the same email or username.
			return fail(c, fiber.StatusConflict, msgUserExists)
		}
		if err != nil {
			return handleError(c, fmt.Errorf("registration failed: %w", err))
		}

		token, err := env.Tokens.Issue(user.ID, user.Role)
		if err != nil {
			return handleError(c, err)
		}
		return respond(c, fiber.StatusCreated, userResponse(&user, token))
	}
}

// linkSports links a player to the games named in sports. Unknown names are skipped.
func linkSports(tx *gorm.DB, playerID uint, sports []string) error {
	if len(sports) == 0 {
		return nil
	}

	var gameIDs []uint
	if err := tx.Model(&models.Game{}).Where("name IN ?", sports).Pluck("id", &gameIDs).Error; err != nil {
		return fmt.Errorf("failed to resolve sports: %w", err)
	}
	if len(gameIDs) == 0 {
		return nil
	}

	links := make([]models.PlayerGame, 0, len(gameIDs))
	for _, id := range gameIDs {
		links = append(links, models.PlayerGame{PlayerID: playerID, GameID: id})
	}
	return tx.Create(&links).Error
}

func emptyToNil(s *string) *string {
	if s == nil || *s == "" {
		return nil
	}
	return s
}

func zeroToNil(n *int) *int {
	if n == nil || *n == 0 {
		return nil
	}
	return n
}
