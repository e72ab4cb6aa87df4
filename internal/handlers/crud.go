package handlers

// crud.go: pieces shared by the per-resource handlers.

import (
	"errors"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"

	"github.com/trentd187/sports-academy/internal/middleware"
	"github.com/trentd187/sports-academy/internal/policy"
)

// notFoundOr turns gorm's ErrRecordNotFound into the resource's 404 message. The
// row can vanish between authorization and the read.
func notFoundOr(err error, res policy.Resource) error {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return policy.NotFound(policy.NotFoundMessage(res))
	}
	return err
}

// deleteHandler handles DELETE /api/<resource>/:id for every resource: authorize,
// then delete through the guard so declared dependents block with a 409.
// T is the resource's model type; a fresh zero value is allocated per request.
func deleteHandler[T any](env *Env, res policy.Resource, noun string) fiber.Handler {
	return func(c *fiber.Ctx) error {
		id, err := pathID(c, noun)
		if err != nil {
			return handleError(c, err)
		}
		ctx := c.UserContext()
		if err := env.Authz.Authorize(ctx, middleware.CurrentUser(c), res, policy.ActionDelete, id); err != nil {
			return handleError(c, err)
		}

		n, err := env.Guard.Delete(ctx, res, new(T), id)
		if err != nil {
			return handleError(c, err)
		}
		return respond(c, fiber.StatusOK, affected{AffectedRows: n})
	}
}
