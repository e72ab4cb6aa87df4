package handlers

import (
	"errors"
	"fmt"

	"github.com/gofiber/fiber/v2"

	"github.com/trentd187/sports-academy/internal/middleware"
	"github.com/trentd187/sports-academy/internal/models"
	"github.com/trentd187/sports-academy/internal/policy"
)

// GetPlayerStatsRecord handles GET /api/player_stats/:id.
func GetPlayerStatsRecord(env *Env) fiber.Handler {
	return func(c *fiber.Ctx) error {
		id, err := pathID(c, "player stats")
		if err != nil {
			return handleError(c, err)
		}
		ctx := c.UserContext()
		if err := env.Authz.Authorize(ctx, middleware.CurrentUser(c), policy.ResourcePlayerStats, policy.ActionRead, id); err != nil {
			return handleError(c, err)
		}

		var stats models.PlayerStats
		if err := env.DB.WithContext(ctx).Take(&stats, id).Error; err != nil {
			return handleError(c, notFoundOr(err, policy.ResourcePlayerStats))
		}
		return respond(c, fiber.StatusOK, stats)
	}
}

// GetPlayerStats handles GET /api/player_stats, most recently updated first.
// A player sees their own row; coaches and admins see every row and may filter
// with ?playerId=.
func GetPlayerStats(env *Env) fiber.Handler {
	return func(c *fiber.Ctx) error {
		ctx := c.UserContext()
		user := middleware.CurrentUser(c)
		if err := env.Authz.Authorize(ctx, user, policy.ResourcePlayerStats, policy.ActionList, 0); err != nil {
			return handleError(c, err)
		}

		query := env.DB.WithContext(ctx)
		if user.Role == models.UserRolePlayer {
			playerID, found, err := playerIDFor(ctx, env.DB, user.ID)
			if err != nil {
				return handleError(c, err)
			}
			if !found {
				return fail(c, fiber.StatusNotFound, "Player profile not found")
			}
			query = query.Where("player_id = ?", playerID)
		} else {
			playerID, err := queryID(c, "playerId")
			if err != nil {
				return handleError(c, err)
			}
			if playerID != nil {
				query = query.Where("player_id = ?", *playerID)
			}
		}

		var stats []models.PlayerStats
		if err := query.Order("updated_at DESC").Order("id DESC").Find(&stats).Error; err != nil {
			return handleError(c, fmt.Errorf("failed to fetch player stats: %w", err))
		}
		return respond(c, fiber.StatusOK, stats)
	}
}

// CreatePlayerStatsRequest is the JSON body of POST /api/player_stats. Counters left
// out start at zero.
type CreatePlayerStatsRequest struct {
	PlayerID      uint `json:"playerId"`
	GamesPlayed   int  `json:"gamesPlayed"`
	GoalsScored   int  `json:"goalsScored"`
	Assists       int  `json:"assists"`
	YellowCards   int  `json:"yellowCards"`
	RedCards      int  `json:"redCards"`
	MinutesPlayed int  `json:"minutesPlayed"`
}

// CreatePlayerStats handles POST /api/player_stats (admin or coach). A player has at
// most one stats row, so a second one is a 409.
func CreatePlayerStats(env *Env) fiber.Handler {
	return func(c *fiber.Ctx) error {
		ctx := c.UserContext()
		if err := env.Authz.Authorize(ctx, middleware.CurrentUser(c), policy.ResourcePlayerStats, policy.ActionCreate, 0); err != nil {
			return handleError(c, err)
		}

		var req CreatePlayerStatsRequest
		if err := parseBody(c, &req); err != nil {
			return handleError(c, err)
		}
		if req.PlayerID == 0 {
			return fail(c, fiber.StatusBadRequest, "Player ID is required for player stats")
		}

		stats := models.PlayerStats{
			PlayerID:      req.PlayerID,
			GamesPlayed:   req.GamesPlayed,
			GoalsScored:   req.GoalsScored,
			Assists:       req.Assists,
			YellowCards:   req.YellowCards,
			RedCards:      req.RedCards,
			MinutesPlayed: req.MinutesPlayed,
		}
		if err := env.DB.WithContext(ctx).Create(&stats).Error; err != nil {
			return handleError(c, fmt.Errorf("failed to create player stats: %w", err))
		}
		return respond(c, fiber.StatusCreated, createdID{ID: stats.ID})
	}
}

// UpdatePlayerStatsRequest is the JSON body of PUT /api/player_stats/:id.
type UpdatePlayerStatsRequest struct {
	GamesPlayed   Field[int] `json:"gamesPlayed"`
	GoalsScored   Field[int] `json:"goalsScored"`
	Assists       Field[int] `json:"assists"`
	YellowCards   Field[int] `json:"yellowCards"`
	RedCards      Field[int] `json:"redCards"`
	MinutesPlayed Field[int] `json:"minutesPlayed"`
}

// UpdatePlayerStats handles PUT /api/player_stats/:id (admin or any coach).
func UpdatePlayerStats(env *Env) fiber.Handler {
	return func(c *fiber.Ctx) error {
		id, err := pathID(c, "player stats")
		if err != nil {
			return handleError(c, err)
		}
		ctx := c.UserContext()
		if err := env.Authz.Authorize(ctx, middleware.CurrentUser(c), policy.ResourcePlayerStats, policy.ActionUpdate, id); err != nil {
			return handleError(c, err)
		}

		var req UpdatePlayerStatsRequest
		if err := parseBody(c, &req); err != nil {
			return handleError(c, err)
		}

		if err := errors.Join(
			notNull("gamesPlayed", req.GamesPlayed),
			notNull("goalsScored", req.GoalsScored),
			notNull("assists", req.Assists),
			notNull("yellowCards", req.YellowCards),
			notNull("redCards", req.RedCards),
			notNull("minutesPlayed", req.MinutesPlayed),
		); err != nil {
			return handleError(c, err)
		}

		u := updates{}
		set(u, "games_played", req.GamesPlayed)
		set(u, "goals_scored", req.GoalsScored)
		set(u, "assists", req.Assists)
		set(u, "yellow_cards", req.YellowCards)
		set(u, "red_cards", req.RedCards)
		set(u, "minutes_played", req.MinutesPlayed)

		n, err := u.apply(ctx, env.DB, "player_stats", id)
		if err != nil {
			return handleError(c, err)
		}
		return respond(c, fiber.StatusOK, affected{AffectedRows: n})
	}
}

// DeletePlayerStats handles DELETE /api/player_stats/:id (admin only).
func DeletePlayerStats(env *Env) fiber.Handler {
	return deleteHandler[models.PlayerStats](env, policy.ResourcePlayerStats, "player stats")
}
