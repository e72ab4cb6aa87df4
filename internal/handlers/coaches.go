package handlers

import (
	"errors"
	"fmt"

	"github.com/gofiber/fiber/v2"

	"github.com/trentd187/sports-academy/internal/middleware"
	"github.com/trentd187/sports-academy/internal/models"
	"github.com/trentd187/sports-academy/internal/policy"
)

// GetCoach handles GET /api/coaches/:id.
// Admins and players may read any coach; a coach only their own profile.
func GetCoach(env *Env) fiber.Handler {
	return func(c *fiber.Ctx) error {
		id, err := pathID(c, "coach")
		if err != nil {
			return handleError(c, err)
		}
		ctx := c.UserContext()
		if err := env.Authz.Authorize(ctx, middleware.CurrentUser(c), policy.ResourceCoaches, policy.ActionRead, id); err != nil {
			return handleError(c, err)
		}

		var coach models.Coach
		if err := env.DB.WithContext(ctx).Take(&coach, id).Error; err != nil {
			return handleError(c, notFoundOr(err, policy.ResourceCoaches))
		}
		return respond(c, fiber.StatusOK, coach)
	}
}

// GetCoaches handles GET /api/coaches. Optional filter: ?userId=.
func GetCoaches(env *Env) fiber.Handler {
	return func(c *fiber.Ctx) error {
		ctx := c.UserContext()
		if err := env.Authz.Authorize(ctx, middleware.CurrentUser(c), policy.ResourceCoaches, policy.ActionList, 0); err != nil {
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

		var coaches []models.Coach
		if err := query.Find(&coaches).Error; err != nil {
			return handleError(c, fmt.Errorf("failed to fetch coaches: %w", err))
		}
		return respond(c, fiber.StatusOK, coaches)
	}
}

// UpdateCoachRequest is the JSON body of PUT /api/coaches/:id.
type UpdateCoachRequest struct {
	FirstName      Field[string] `json:"firstName"`
	LastName       Field[string] `json:"lastName"`
	Specialization Field[string] `json:"specialization"`
	Experience     Field[int]    `json:"experience"`
}

// UpdateCoach handles PUT /api/coaches/:id (admin or the coach themselves).
func UpdateCoach(env *Env) fiber.Handler {
	return func(c *fiber.Ctx) error {
		id, err := pathID(c, "coach")
		if err != nil {
			return handleError(c, err)
		}
		ctx := c.UserContext()
		if err := env.Authz.Authorize(ctx, middleware.CurrentUser(c), policy.ResourceCoaches, policy.ActionUpdate, id); err != nil {
			return handleError(c, err)
		}

		var req UpdateCoachRequest
		if err := parseBody(c, &req); err != nil {
			return handleError(c, err)
		}

		if err := errors.Join(notNull("firstName", req.FirstName), notNull("lastName", req.LastName)); err != nil {
			return handleError(c, err)
		}

		u := updates{}
		set(u, "first_name", req.FirstName)
		set(u, "last_name", req.LastName)
		set(u, "specialization", req.Specialization)
		set(u, "experience", req.Experience)

		n, err := u.apply(ctx, env.DB, "coaches", id)
		if err != nil {
			return handleError(c, err)
		}
		return respond(c, fiber.StatusOK, affected{AffectedRows: n})
	}
}

// DeleteCoach handles DELETE /api/coaches/:id (admin only).
// Their batches stay, with no coach assigned.
func DeleteCoach(env *Env) fiber.Handler {
	return deleteHandler[models.Coach](env, policy.ResourceCoaches, "coach")
}
