package handlers

import (
	"errors"

	"github.com/gofiber/fiber/v2"
	log "github.com/sirupsen/logrus"
	"gorm.io/gorm"

	"github.com/trentd187/sports-academy/internal/policy"
)

// envelope is the body of every API response.
type envelope struct {
	Success bool   `json:"success"`
	Data    any    `json:"data,omitempty"`
	Error   string `json:"error,omitempty"`
}

// affected is the payload of PUT and DELETE responses.
type affected struct {
	AffectedRows int64 `json:"affectedRows"`
}

// createdID is the payload of POST responses.
type createdID struct {
	ID uint `json:"id"`
}

func respond(c *fiber.Ctx, status int, data any) error {
	return c.Status(status).JSON(envelope{Success: true, Data: data})
}

func fail(c *fiber.Ctx, status int, msg string) error {
	return c.Status(status).JSON(envelope{Success: false, Error: msg})
}

// badRequest is returned by request parsing helpers and surfaces as a 400.
func badRequest(msg string) error {
	return fiber.NewError(fiber.StatusBadRequest, msg)
}

// handleError turns any error a handler produced into an envelope. Policy violations
// and *fiber.Error carry their own status; unexpected errors are logged and surface
// as a 500 with the error text.
func handleError(c *fiber.Ctx, err error) error {
	var v *policy.Violation
	var fe *fiber.Error

	switch {
	case errors.As(err, &v):
		switch {
		case errors.Is(v.Kind, policy.ErrNotFound):
			return fail(c, fiber.StatusNotFound, v.Message)
		case errors.Is(v.Kind, policy.ErrConflict):
			return fail(c, fiber.StatusConflict, v.Message)
		default:
			return fail(c, fiber.StatusForbidden, v.Message)
		}
	case errors.As(err, &fe):
		return fail(c, fe.Code, fe.Message)
	case errors.Is(err, gorm.ErrDuplicatedKey):
		return fail(c, fiber.StatusConflict, "A record with this value already exists")
	case errors.Is(err, gorm.ErrForeignKeyViolated):
		return fail(c, fiber.StatusBadRequest, "Referenced record does not exist")
	}

	log.WithError(err).WithFields(log.Fields{
		"method": c.Method(),
		"path":   c.Path(),
	}).Error("request failed")
	return fail(c, fiber.StatusInternalServerError, err.Error())
}

// ErrorHandler is the fiber app's error handler. It catches errors that escape the
// handlers: unknown routes (404), known paths hit with the wrong verb (405), and
// panics turned into errors by the recover middleware.
func ErrorHandler(c *fiber.Ctx, err error) error {
	return handleError(c, err)
}

// NotImplemented answers for verbs a resource deliberately does not offer.
func NotImplemented(msg string) fiber.Handler {
	return func(c *fiber.Ctx) error {
		return fail(c, fiber.StatusNotImplemented, msg)
	}
}
