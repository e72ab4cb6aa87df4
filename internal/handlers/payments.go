package handlers

import (
	"errors"
	"fmt"

	"github.com/gofiber/fiber/v2"

	"github.com/trentd187/sports-academy/internal/middleware"
	"github.com/trentd187/sports-academy/internal/models"
	"github.com/trentd187/sports-academy/internal/policy"
)

// GetPayment handles GET /api/payments/:id (admin or the paying player).
func GetPayment(env *Env) fiber.Handler {
	return func(c *fiber.Ctx) error {
		id, err := pathID(c, "payment")
		if err != nil {
			return handleError(c, err)
		}
		ctx := c.UserContext()
		if err := env.Authz.Authorize(ctx, middleware.CurrentUser(c), policy.ResourcePayments, policy.ActionRead, id); err != nil {
			return handleError(c, err)
		}

		var payment models.Payment
		if err := env.DB.WithContext(ctx).Take(&payment, id).Error; err != nil {
			return handleError(c, notFoundOr(err, policy.ResourcePayments))
		}
		return respond(c, fiber.StatusOK, payment)
	}
}

// GetPayments handles GET /api/payments, newest first. A player sees their own
// payments; an admin sees all of them and may filter with ?playerId=.
func GetPayments(env *Env) fiber.Handler {
	return func(c *fiber.Ctx) error {
		ctx := c.UserContext()
		user := middleware.CurrentUser(c)
		if err := env.Authz.Authorize(ctx, user, policy.ResourcePayments, policy.ActionList, 0); err != nil {
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

		var payments []models.Payment
		if err := query.Order("created_at DESC").Order("id DESC").Find(&payments).Error; err != nil {
			return handleError(c, fmt.Errorf("failed to fetch payments: %w", err))
		}
		return respond(c, fiber.StatusOK, payments)
	}
}

// CreatePaymentRequest is the JSON body of POST /api/payments.
type CreatePaymentRequest struct {
	PlayerID    uint    `json:"playerId"`
	Date        string  `json:"date"`
	Amount      float64 `json:"amount"`
	Description string  `json:"description"`
}

// CreatePayment handles POST /api/payments (admin only).
func CreatePayment(env *Env) fiber.Handler {
	return func(c *fiber.Ctx) error {
		ctx := c.UserContext()
		if err := env.Authz.Authorize(ctx, middleware.CurrentUser(c), policy.ResourcePayments, policy.ActionCreate, 0); err != nil {
			return handleError(c, err)
		}

		var req CreatePaymentRequest
		if err := parseBody(c, &req); err != nil {
			return handleError(c, err)
		}
		if req.PlayerID == 0 || req.Date == "" || req.Amount == 0 || req.Description == "" {
			return fail(c, fiber.StatusBadRequest, "Player ID, date, amount, and description are required for payment")
		}
		date, err := parseTime(req.Date)
		if err != nil {
			return handleError(c, err)
		}

		payment := models.Payment{
			PlayerID:    req.PlayerID,
			Date:        date,
			Amount:      req.Amount,
			Description: &req.Description,
		}
		if err := env.DB.WithContext(ctx).Create(&payment).Error; err != nil {
			return handleError(c, fmt.Errorf("failed to create payment: %w", err))
		}
		return respond(c, fiber.StatusCreated, createdID{ID: payment.ID})
	}
}

// UpdatePaymentRequest is the JSON body of PUT /api/payments/:id.
type UpdatePaymentRequest struct {
	PlayerID    Field[uint]    `json:"playerId"`
	Date        Field[string]  `json:"date"`
	Amount      Field[float64] `json:"amount"`
	Description Field[string]  `json:"description"`
}

// UpdatePayment handles PUT /api/payments/:id (admin only).
func UpdatePayment(env *Env) fiber.Handler {
	return func(c *fiber.Ctx) error {
		id, err := pathID(c, "payment")
		if err != nil {
			return handleError(c, err)
		}
		ctx := c.UserContext()
		if err := env.Authz.Authorize(ctx, middleware.CurrentUser(c), policy.ResourcePayments, policy.ActionUpdate, id); err != nil {
			return handleError(c, err)
		}

		var req UpdatePaymentRequest
		if err := parseBody(c, &req); err != nil {
			return handleError(c, err)
		}

		if err := errors.Join(
			notNull("playerId", req.PlayerID),
			notNull("date", req.Date),
			notNull("amount", req.Amount),
		); err != nil {
			return handleError(c, err)
		}

		u := updates{}
		set(u, "player_id", req.PlayerID)
		set(u, "amount", req.Amount)
		set(u, "description", req.Description)
		if err := setTime(u, "date", req.Date); err != nil {
			return handleError(c, err)
		}

		n, err := u.apply(ctx, env.DB, "payments", id)
		if err != nil {
			return handleError(c, err)
		}
		return respond(c, fiber.StatusOK, affected{AffectedRows: n})
	}
}

// DeletePayment handles DELETE /api/payments/:id (admin only).
func DeletePayment(env *Env) fiber.Handler {
	return deleteHandler[models.Payment](env, policy.ResourcePayments, "payment")
}
