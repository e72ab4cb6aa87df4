package handlers

import (
	"errors"
	"fmt"

	"github.com/gofiber/fiber/v2"
	log "github.com/sirupsen/logrus"

	"github.com/trentd187/sports-academy/internal/middleware"
	"github.com/trentd187/sports-academy/internal/models"
	"github.com/trentd187/sports-academy/internal/policy"
)

// GetPerformanceNote handles GET /api/performance_notes/:id. The player the note is
// about and the coach who wrote it may read it.
func GetPerformanceNote(env *Env) fiber.Handler {
	return func(c *fiber.Ctx) error {
		id, err := pathID(c, "performance note")
		if err != nil {
			return handleError(c, err)
		}
		ctx := c.UserContext()
		if err := env.Authz.Authorize(ctx, middleware.CurrentUser(c), policy.ResourcePerformanceNotes, policy.ActionRead, id); err != nil {
			return handleError(c, err)
		}

		var note models.PerformanceNote
		if err := env.DB.WithContext(ctx).Take(&note, id).Error; err != nil {
			return handleError(c, notFoundOr(err, policy.ResourcePerformanceNotes))
		}
		return respond(c, fiber.StatusOK, note)
	}
}

// GetPerformanceNotes handles GET /api/performance_notes, most recent date first.
//
// Players see notes about themselves. Coaches see the notes they wrote. Admins and
// coaches may add ?playerId= and ?coachId=.
func GetPerformanceNotes(env *Env) fiber.Handler {
	return func(c *fiber.Ctx) error {
		ctx := c.UserContext()
		user := middleware.CurrentUser(c)
		if err := env.Authz.Authorize(ctx, user, policy.ResourcePerformanceNotes, policy.ActionList, 0); err != nil {
			return handleError(c, err)
		}

		query := env.DB.WithContext(ctx)

		switch user.Role {
		case models.UserRolePlayer:
			playerID, found, err := playerIDFor(ctx, env.DB, user.ID)
			if err != nil {
				return handleError(c, err)
			}
			if !found {
				return fail(c, fiber.StatusNotFound, "Player profile not found")
			}
			query = query.Where("player_id = ?", playerID)

		default:
			if user.Role == models.UserRoleCoach {
				coachID, found, err := coachIDFor(ctx, env.DB, user.ID)
				if err != nil {
					return handleError(c, err)
				}
				if !found {
					log.WithField("user_id", user.ID).Warn("coach has no coach profile, returning no performance notes")
					return respond(c, fiber.StatusOK, []models.PerformanceNote{})
				}
				query = query.Where("coach_id = ?", coachID)
			}

			playerID, err := queryID(c, "playerId")
			if err != nil {
				return handleError(c, err)
			}
			coachID, err := queryID(c, "coachId")
			if err != nil {
				return handleError(c, err)
			}
			if playerID != nil {
				query = query.Where("player_id = ?", *playerID)
			}
			if coachID != nil {
				query = query.Where("coach_id = ?", *coachID)
			}
		}

		var notes []models.PerformanceNote
		if err := query.Order("date DESC").Order("created_at DESC").Find(&notes).Error; err != nil {
			return handleError(c, fmt.Errorf("failed to fetch performance notes: %w", err))
		}
		return respond(c, fiber.StatusOK, notes)
	}
}

// CreatePerformanceNoteRequest is the JSON body of POST /api/performance_notes.
// CoachID is honoured for admins only; a coach always writes under their own profile.
type CreatePerformanceNoteRequest struct {
	PlayerID uint   `json:"playerId"`
	CoachID  *uint  `json:"coachId"`
	Date     string `json:"date"`
	Note     string `json:"note"`
}

// CreatePerformanceNote handles POST /api/performance_notes (admin or coach).
func CreatePerformanceNote(env *Env) fiber.Handler {
	return func(c *fiber.Ctx) error {
		ctx := c.UserContext()
		user := middleware.CurrentUser(c)
		if err := env.Authz.Authorize(ctx, user, policy.ResourcePerformanceNotes, policy.ActionCreate, 0); err != nil {
			return handleError(c, err)
		}

		var req CreatePerformanceNoteRequest
		if err := parseBody(c, &req); err != nil {
			return handleError(c, err)
		}
		if req.PlayerID == 0 || req.Date == "" || req.Note == "" {
			return fail(c, fiber.StatusBadRequest, "Player ID, date, and note are required for performance note")
		}
		date, err := parseTime(req.Date)
		if err != nil {
			return handleError(c, err)
		}

		coachID := zeroIDToNil(req.CoachID)
		if user.Role == models.UserRoleCoach {
			own, found, err := coachIDFor(ctx, env.DB, user.ID)
			if err != nil {
				return handleError(c, err)
			}
			if !found {
				return fail(c, fiber.StatusForbidden, "Coach profile not found")
			}
			coachID = &own
		}

		note := models.PerformanceNote{
			PlayerID: req.PlayerID,
			CoachID:  coachID,
			Date:     date,
			Note:     req.Note,
		}
		if err := env.DB.WithContext(ctx).Create(&note).Error; err != nil {
			return handleError(c, fmt.Errorf("failed to create performance note: %w", err))
		}
		return respond(c, fiber.StatusCreated, createdID{ID: note.ID})
	}
}

// UpdatePerformanceNoteRequest is the JSON body of PUT /api/performance_notes/:id.
type UpdatePerformanceNoteRequest struct {
	Date Field[string] `json:"date"`
	Note Field[string] `json:"note"`
}

// UpdatePerformanceNote handles PUT /api/performance_notes/:id (admin or the author).
func UpdatePerformanceNote(env *Env) fiber.Handler {
	return func(c *fiber.Ctx) error {
		id, err := pathID(c, "performance note")
		if err != nil {
			return handleError(c, err)
		}
		ctx := c.UserContext()
		if err := env.Authz.Authorize(ctx, middleware.CurrentUser(c), policy.ResourcePerformanceNotes, policy.ActionUpdate, id); err != nil {
			return handleError(c, err)
		}

		var req UpdatePerformanceNoteRequest
		if err := parseBody(c, &req); err != nil {
			return handleError(c, err)
		}

		if err := errors.Join(notNull("date", req.Date), notNull("note", req.Note)); err != nil {
			return handleError(c, err)
		}

		u := updates{}
		set(u, "note", req.Note)
		if err := setTime(u, "date", req.Date); err != nil {
			return handleError(c, err)
		}

		n, err := u.apply(ctx, env.DB, "performance_notes", id)
		if err != nil {
			return handleError(c, err)
		}
		return respond(c, fiber.StatusOK, affected{AffectedRows: n})
	}
}

// DeletePerformanceNote handles DELETE /api/performance_notes/:id (admin or the author).
func DeletePerformanceNote(env *Env) fiber.Handler {
	return deleteHandler[models.PerformanceNote](env, policy.ResourcePerformanceNotes, "performance note")
}
