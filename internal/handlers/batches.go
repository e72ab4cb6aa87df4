package handlers

import (
	"errors"
	"fmt"

	"github.com/gofiber/fiber/v2"

	"github.com/trentd187/sports-academy/internal/middleware"
	"github.com/trentd187/sports-academy/internal/models"
	"github.com/trentd187/sports-academy/internal/policy"
)

// GetBatch handles GET /api/batches/:id.
// Admins and the assigned coach pass on ownership; any player may read a batch.
func GetBatch(env *Env) fiber.Handler {
	return func(c *fiber.Ctx) error {
		id, err := pathID(c, "batch")
		if err != nil {
			return handleError(c, err)
		}
		ctx := c.UserContext()
		if err := env.Authz.Authorize(ctx, middleware.CurrentUser(c), policy.ResourceBatches, policy.ActionRead, id); err != nil {
			return handleError(c, err)
		}

		var batch models.Batch
		if err := env.DB.WithContext(ctx).Take(&batch, id).Error; err != nil {
			return handleError(c, notFoundOr(err, policy.ResourceBatches))
		}
		return respond(c, fiber.StatusOK, batch)
	}
}

// GetBatches handles GET /api/batches. Every authenticated role sees every batch.
func GetBatches(env *Env) fiber.Handler {
	return func(c *fiber.Ctx) error {
		ctx := c.UserContext()
		if err := env.Authz.Authorize(ctx, middleware.CurrentUser(c), policy.ResourceBatches, policy.ActionList, 0); err != nil {
			return handleError(c, err)
		}

		var batches []models.Batch
		if err := env.DB.WithContext(ctx).Order("id").Find(&batches).Error; err != nil {
			return handleError(c, fmt.Errorf("failed to fetch batches: %w", err))
		}
		return respond(c, fiber.StatusOK, batches)
	}
}

// CreateBatchRequest is the JSON body of POST /api/batches. CoachID is optional;
// zero and null both mean "no coach".
type CreateBatchRequest struct {
	GameID   uint   `json:"gameId"`
	Name     string `json:"name"`
	Schedule string `json:"schedule"`
	CoachID  *uint  `json:"coachId"`
}

// CreateBatch handles POST /api/batches (admin only).
func CreateBatch(env *Env) fiber.Handler {
	return func(c *fiber.Ctx) error {
		ctx := c.UserContext()
		if err := env.Authz.Authorize(ctx, middleware.CurrentUser(c), policy.ResourceBatches, policy.ActionCreate, 0); err != nil {
			return handleError(c, err)
		}

		var req CreateBatchRequest
		if err := parseBody(c, &req); err != nil {
			return handleError(c, err)
		}
		if req.GameID == 0 || req.Name == "" || req.Schedule == "" {
			return fail(c, fiber.StatusBadRequest, "Game ID, name, and schedule are required for batch")
		}

		batch := models.Batch{
			GameID:   req.GameID,
			Name:     req.Name,
			Schedule: &req.Schedule,
			CoachID:  zeroIDToNil(req.CoachID),
		}
		if err := env.DB.WithContext(ctx).Create(&batch).Error; err != nil {
			return handleError(c, fmt.Errorf("failed to create batch: %w", err))
		}
		return respond(c, fiber.StatusCreated, createdID{ID: batch.ID})
	}
}

// UpdateBatchRequest is the JSON body of PUT /api/batches/:id.
type UpdateBatchRequest struct {
	GameID   Field[uint]   `json:"gameId"`
	Name     Field[string] `json:"name"`
	Schedule Field[string] `json:"schedule"`
	CoachID  Field[uint]   `json:"coachId"`
}

// UpdateBatch handles PUT /api/batches/:id (admin or the assigned coach).
// Sending coachId as null or 0 unassigns the coach.
func UpdateBatch(env *Env) fiber.Handler {
	return func(c *fiber.Ctx) error {
		id, err := pathID(c, "batch")
		if err != nil {
			return handleError(c, err)
		}
		ctx := c.UserContext()
		if err := env.Authz.Authorize(ctx, middleware.CurrentUser(c), policy.ResourceBatches, policy.ActionUpdate, id); err != nil {
			return handleError(c, err)
		}

		var req UpdateBatchRequest
		if err := parseBody(c, &req); err != nil {
			return handleError(c, err)
		}

		if err := errors.Join(notNull("gameId", req.GameID), notNull("name", req.Name)); err != nil {
			return handleError(c, err)
		}

		u := updates{}
		set(u, "game_id", req.GameID)
		set(u, "name", req.Name)
		set(u, "schedule", req.Schedule)
		if req.CoachID.Set {
			if coachID := zeroIDToNil(req.CoachID.Value); coachID != nil {
				u["coach_id"] = *coachID
			} else {
				u["coach_id"] = nil
			}
		}

		n, err := u.apply(ctx, env.DB, "batches", id)
		if err != nil {
			return handleError(c, err)
		}
		return respond(c, fiber.StatusOK, affected{AffectedRows: n})
	}
}

// DeleteBatch handles DELETE /api/batches/:id (admin or the assigned coach).
// A batch with training sessions is a 409.
func DeleteBatch(env *Env) fiber.Handler {
	return deleteHandler[models.Batch](env, policy.ResourceBatches, "batch")
}

func zeroIDToNil(id *uint) *uint {
	if id == nil || *id == 0 {
		return nil
	}
	return id
}
