package handlers

import (
	"fmt"
	"strings"

	"github.com/gofiber/fiber/v2"

	"github.com/trentd187/sports-academy/internal/middleware"
	"github.com/trentd187/sports-academy/internal/models"
	"github.com/trentd187/sports-academy/internal/policy"
)

// GetGame handles GET /api/games/:id.
func GetGame(env *Env) fiber.Handler {
	return func(c *fiber.Ctx) error {
		id, err := pathID(c, "game")
		if err != nil {
			return handleError(c, err)
		}
		ctx := c.UserContext()
		if err := env.Authz.Authorize(ctx, middleware.CurrentUser(c), policy.ResourceGames, policy.ActionRead, id); err != nil {
			return handleError(c, err)
		}

		var game models.Game
		if err := env.DB.WithContext(ctx).Take(&game, id).Error; err != nil {
			return handleError(c, notFoundOr(err, policy.ResourceGames))
		}
		return respond(c, fiber.StatusOK, game)
	}
}

// GetGames handles GET /api/games.
func GetGames(env *Env) fiber.Handler {
	return func(c *fiber.Ctx) error {
		ctx := c.UserContext()
		if err := env.Authz.Authorize(ctx, middleware.CurrentUser(c), policy.ResourceGames, policy.ActionList, 0); err != nil {
			return handleError(c, err)
		}

		var games []models.Game
		if err := env.DB.WithContext(ctx).Order("id").Find(&games).Error; err != nil {
			return handleError(c, fmt.Errorf("failed to fetch games: %w", err))
		}
		return respond(c, fiber.StatusOK, games)
	}
}

// GameRequest is the JSON body of POST and PUT /api/games.
type GameRequest struct {
	Name string `json:"name"`
}

// nameTaken reports whether another game already uses name, ignoring case.
// exceptID is skipped so a game can be renamed to a different casing of itself.
func nameTaken(env *Env, c *fiber.Ctx, name string, exceptID uint) (bool, error) {
	var n int64
	err := env.DB.WithContext(c.UserContext()).Model(&models.Game{}).
		Where("LOWER(name) = LOWER(?) AND id <> ?", name, exceptID).
		Count(&n).Error
	if err != nil {
		return false, fmt.Errorf("failed to check game name: %w", err)
	}
	return n > 0, nil
}

// CreateGame handles POST /api/games (admin only).
func CreateGame(env *Env) fiber.Handler {
	return func(c *fiber.Ctx) error {
		ctx := c.UserContext()
		if err := env.Authz.Authorize(ctx, middleware.CurrentUser(c), policy.ResourceGames, policy.ActionCreate, 0); err != nil {
			return handleError(c, err)
		}

		var req GameRequest
		if err := parseBody(c, &req); err != nil {
			return handleError(c, err)
		}
		req.Name = strings.TrimSpace(req.Name)
		if req.Name == "" {
			return fail(c, fiber.StatusBadRequest, "Game name is required")
		}

		taken, err := nameTaken(env, c, req.Name, 0)
		if err != nil {
			return handleError(c, err)
		}
		if taken {
			return fail(c, fiber.StatusConflict, "Game with this name already exists")
		}

		game := models.Game{Name: req.Name}
		if err := env.DB.WithContext(ctx).Create(&game).Error; err != nil {
			return handleError(c, fmt.Errorf("failed to create game: %w", err))
		}
		return respond(c, fiber.StatusCreated, createdID{ID: game.ID})
	}
}

// UpdateGame handles PUT /api/games/:id (admin only). Only the name can change.
func UpdateGame(env *Env) fiber.Handler {
	return func(c *fiber.Ctx) error {
		id, err := pathID(c, "game")
		if err != nil {
			return handleError(c, err)
		}
		ctx := c.UserContext()
		if err := env.Authz.Authorize(ctx, middleware.CurrentUser(c), policy.ResourceGames, policy.ActionUpdate, id); err != nil {
			return handleError(c, err)
		}

		var req GameRequest
		if err := parseBody(c, &req); err != nil {
			return handleError(c, err)
		}
		req.Name = strings.TrimSpace(req.Name)
		if req.Name == "" {
			return fail(c, fiber.StatusBadRequest, "Game name is required for update")
		}

		taken, err := nameTaken(env, c, req.Name, id)
		if err != nil {
			return handleError(c, err)
		}
		if taken {
			return fail(c, fiber.StatusConflict, "Another game with this name already exists")
		}

		n, err := updates{"name": req.Name}.apply(ctx, env.DB, "games", id)
		if err != nil {
			return handleError(c, err)
		}
		return respond(c, fiber.StatusOK, affected{AffectedRows: n})
	}
}

// DeleteGame handles DELETE /api/games/:id (admin only). A game with batches is a 409.
func DeleteGame(env *Env) fiber.Handler {
	return deleteHandler[models.Game](env, policy.ResourceGames, "game")
}
