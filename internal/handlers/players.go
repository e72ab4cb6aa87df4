package handlers

// players.go: /api/players and /api/coaches/:id/players.
// Players are created through registration, so there is no POST here.

import (
	"errors"
	"fmt"

	"github.com/gofiber/fiber/v2"
	log "github.com/sirupsen/logrus"
	"gorm.io/gorm"

	"github.com/trentd187/sports-academy/internal/middleware"
	"github.com/trentd187/sports-academy/internal/models"
	"github.com/trentd187/sports-academy/internal/policy"
)

// GetPlayer handles GET /api/players/:id.
// Admins and coaches may read any player; a player only their own profile.
func GetPlayer(env *Env) fiber.Handler {
	return func(c *fiber.Ctx) error {
		id, err := pathID(c, "player")
		if err != nil {
			return handleError(c, err)
		}
		ctx := c.UserContext()
		if err := env.Authz.Authorize(ctx, middleware.CurrentUser(c), policy.ResourcePlayers, policy.ActionRead, id); err != nil {
			return handleError(c, err)
		}

		var player models.Player
		if err := env.DB.WithContext(ctx).Take(&player, id).Error; err != nil {
			return handleError(c, notFoundOr(err, policy.ResourcePlayers))
		}
		return respond(c, fiber.StatusOK, player)
	}
}

// GetPlayers handles GET /api/players. Optional filter: ?userId=.
func GetPlayers(env *Env) fiber.Handler {
	return func(c *fiber.Ctx) error {
		ctx := c.UserContext()
		if err := env.Authz.Authorize(ctx, middleware.CurrentUser(c), policy.ResourcePlayers, policy.ActionList, 0); err != nil {
			return handleError(c, err)
		}
		userID, err := queryID(c, "userId")
		if err != nil {
			return handleError(c, err)
		}

		query := env.DB.WithContext(ctx).Order("id")
		if userID != nil {
			query = query.Where("user_id = ?", *userID)
		}

		var players []models.Player
		if err := query.Find(&players).Error; err != nil {
			return handleError(c, fmt.Errorf("failed to fetch players: %w", err))
		}
		return respond(c, fiber.StatusOK, players)
	}
}

// UpdatePlayerRequest is the JSON body of PUT /api/players/:id. Only supplied fields
// change. Sports, when supplied, replaces the player's game links.
type UpdatePlayerRequest struct {
	FirstName   Field[string]   `json:"firstName"`
	LastName    Field[string]   `json:"lastName"`
	Position    Field[string]   `json:"position"`
	DateOfBirth Field[string]   `json:"dateOfBirth"`
	Height      Field[float64]  `json:"height"`
	Weight      Field[float64]  `json:"weight"`
	Sports      Field[[]string] `json:"sports"`
}

// UpdatePlayer handles PUT /api/players/:id (admin or the player themselves).
// The sports replacement runs in its own transaction before the column update.
func UpdatePlayer(env *Env) fiber.Handler {
	return func(c *fiber.Ctx) error {
		id, err := pathID(c, "player")
		if err != nil {
			return handleError(c, err)
		}
		ctx := c.UserContext()
		if err := env.Authz.Authorize(ctx, middleware.CurrentUser(c), policy.ResourcePlayers, policy.ActionUpdate, id); err != nil {
			return handleError(c, err)
		}

		var req UpdatePlayerRequest
		if err := parseBody(c, &req); err != nil {
			return handleError(c, err)
		}

		if err := errors.Join(notNull("firstName", req.FirstName), notNull("lastName", req.LastName)); err != nil {
			return handleError(c, err)
		}

		u := updates{}
		set(u, "first_name", req.FirstName)
		set(u, "last_name", req.LastName)
		set(u, "position", req.Position)
		set(u, "height", req.Height)
		set(u, "weight", req.Weight)
		if err := setTime(u, "date_of_birth", req.DateOfBirth); err != nil {
			return handleError(c, err)
		}

		if req.Sports.Set {
			var sports []string
			if req.Sports.Value != nil {
				sports = *req.Sports.Value
			}
			err := env.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
				if err := tx.Where("player_id = ?", id).Delete(&models.PlayerGame{}).Error; err != nil {
					return err
				}
				return linkSports(tx, id, sports)
			})
			if err != nil {
				log.WithError(err).WithField("player_id", id).Error("player sports update rolled back")
				return fail(c, fiber.StatusInternalServerError, "Failed to update player sports")
			}
			if len(u) == 0 {
				return respond(c, fiber.StatusOK, affected{AffectedRows: 1})
			}
		}

		n, err := u.apply(ctx, env.DB, "players", id)
		if err != nil {
			return handleError(c, err)
		}
		return respond(c, fiber.StatusOK, affected{AffectedRows: n})
	}
}

// DeletePlayer handles DELETE /api/players/:id (admin only).
// Game links, payments, notes, stats and attendance go with the player.
func DeletePlayer(env *Env) fiber.Handler {
	return deleteHandler[models.Player](env, policy.ResourcePlayers, "player")
}

// GetCoachPlayers handles GET /api/coaches/:id/players.
// A coach may only call it with their own coach id. The result is every player in
// the academy, not only those in the coach's batches.
func GetCoachPlayers(env *Env) fiber.Handler {
	return func(c *fiber.Ctx) error {
		id, err := pathID(c, "coach")
		if err != nil {
			return handleError(c, err)
		}
		ctx := c.UserContext()
		if err := env.Authz.Authorize(ctx, middleware.CurrentUser(c), policy.ResourceCoachPlayers, policy.ActionRead, id); err != nil {
			return handleError(c, err)
		}

		log.WithField("coach_id", id).Warn("coach player listing returns all players")

		var players []models.Player
		if err := env.DB.WithContext(ctx).Order("id").Find(&players).Error; err != nil {
			return handleError(c, fmt.Errorf("failed to fetch players: %w", err))
		}
		return respond(c, fiber.StatusOK, players)
	}
}
