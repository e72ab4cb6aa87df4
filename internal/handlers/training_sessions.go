package handlers

import (
	"errors"
	"fmt"

	"github.com/gofiber/fiber/v2"

	"github.com/trentd187/sports-academy/internal/middleware"
	"github.com/trentd187/sports-academy/internal/models"
	"github.com/trentd187/sports-academy/internal/policy"
)

// GetTrainingSession handles GET /api/training_sessions/:id.
// The coach of the session's batch passes on ownership; any player may read it.
func GetTrainingSession(env *Env) fiber.Handler {
	return func(c *fiber.Ctx) error {
		id, err := pathID(c, "training session")
		if err != nil {
			return handleError(c, err)
		}
		ctx := c.UserContext()
		if err := env.Authz.Authorize(ctx, middleware.CurrentUser(c), policy.ResourceTrainingSessions, policy.ActionRead, id); err != nil {
			return handleError(c, err)
		}

		var session models.TrainingSession
		if err := env.DB.WithContext(ctx).Take(&session, id).Error; err != nil {
			return handleError(c, notFoundOr(err, policy.ResourceTrainingSessions))
		}
		return respond(c, fiber.StatusOK, session)
	}
}

// GetTrainingSessions handles GET /api/training_sessions, ordered by date.
// Filters: ?coachId= (sessions of that coach's batches) and ?batchId=.
// A coach who passes no coachId sees only their own batches' sessions, or nothing
// when they have no coach profile.
func GetTrainingSessions(env *Env) fiber.Handler {
	return func(c *fiber.Ctx) error {
		ctx := c.UserContext()
		user := middleware.CurrentUser(c)
		if err := env.Authz.Authorize(ctx, user, policy.ResourceTrainingSessions, policy.ActionList, 0); err != nil {
			return handleError(c, err)
		}

		coachID, err := queryID(c, "coachId")
		if err != nil {
			return handleError(c, err)
		}
		batchID, err := queryID(c, "batchId")
		if err != nil {
			return handleError(c, err)
		}

		if user.Role == models.UserRoleCoach && coachID == nil {
			own, found, err := coachIDFor(ctx, env.DB, user.ID)
			if err != nil {
				return handleError(c, err)
			}
			if !found {
				return respond(c, fiber.StatusOK, []models.TrainingSession{})
			}
			coachID = &own
		}

		query := env.DB.WithContext(ctx)
		if coachID != nil {
			query = query.Where("batch_id IN (?)", env.DB.Table("batches").Select("id").Where("coach_id = ?", *coachID))
		}
		if batchID != nil {
			query = query.Where("batch_id = ?", *batchID)
		}

		var sessions []models.TrainingSession
		if err := query.Order("date ASC").Find(&sessions).Error; err != nil {
			return handleError(c, fmt.Errorf("failed to fetch training sessions: %w", err))
		}
		return respond(c, fiber.StatusOK, sessions)
	}
}

// CreateTrainingSessionRequest is the JSON body of POST /api/training_sessions.
type CreateTrainingSessionRequest struct {
	BatchID     uint    `json:"batchId"`
	Title       *string `json:"title"`
	Description *string `json:"description"`
	Date        string  `json:"date"`
	Duration    int     `json:"duration"`
	Location    string  `json:"location"`
}

// CreateTrainingSession handles POST /api/training_sessions (admin or any coach).
// A coach may schedule a session in a batch they do not run.
func CreateTrainingSession(env *Env) fiber.Handler {
	return func(c *fiber.Ctx) error {
		ctx := c.UserContext()
		if err := env.Authz.Authorize(ctx, middleware.CurrentUser(c), policy.ResourceTrainingSessions, policy.ActionCreate, 0); err != nil {
			return handleError(c, err)
		}

		var req CreateTrainingSessionRequest
		if err := parseBody(c, &req); err != nil {
			return handleError(c, err)
		}
		if req.BatchID == 0 || req.Date == "" || req.Duration == 0 || req.Location == "" {
			return fail(c, fiber.StatusBadRequest, "Batch ID, date, duration, and location are required for training session")
		}
		date, err := parseTime(req.Date)
		if err != nil {
			return handleError(c, err)
		}

		session := models.TrainingSession{
			BatchID:     req.BatchID,
			Title:       emptyToNil(req.Title),
			Description: emptyToNil(req.Description),
			Date:        date,
			Duration:    req.Duration,
			Location:    &req.Location,
		}
		if err := env.DB.WithContext(ctx).Create(&session).Error; err != nil {
			return handleError(c, fmt.Errorf("failed to create training session: %w", err))
		}
		return respond(c, fiber.StatusCreated, createdID{ID: session.ID})
	}
}

// UpdateTrainingSessionRequest is the JSON body of PUT /api/training_sessions/:id.
type UpdateTrainingSessionRequest struct {
	BatchID     Field[uint]   `json:"batchId"`
	Title       Field[string] `json:"title"`
	Description Field[string] `json:"description"`
	Date        Field[string] `json:"date"`
	Duration    Field[int]    `json:"duration"`
	Location    Field[string] `json:"location"`
}

// UpdateTrainingSession handles PUT /api/training_sessions/:id (admin or the coach
// of the session's batch).
func UpdateTrainingSession(env *Env) fiber.Handler {
	return func(c *fiber.Ctx) error {
		id, err := pathID(c, "training session")
		if err != nil {
			return handleError(c, err)
		}
		ctx := c.UserContext()
		if err := env.Authz.Authorize(ctx, middleware.CurrentUser(c), policy.ResourceTrainingSessions, policy.ActionUpdate, id); err != nil {
			return handleError(c, err)
		}

		var req UpdateTrainingSessionRequest
		if err := parseBody(c, &req); err != nil {
			return handleError(c, err)
		}

		if err := errors.Join(
			notNull("batchId", req.BatchID),
			notNull("date", req.Date),
			notNull("duration", req.Duration),
		); err != nil {
			return handleError(c, err)
		}

		u := updates{}
		set(u, "batch_id", req.BatchID)
		set(u, "title", req.Title)
		set(u, "description", req.Description)
		set(u, "duration", req.Duration)
		set(u, "location", req.Location)
		if err := setTime(u, "date", req.Date); err != nil {
			return handleError(c, err)
		}

		n, err := u.apply(ctx, env.DB, "training_sessions", id)
		if err != nil {
			return handleError(c, err)
		}
		return respond(c, fiber.StatusOK, affected{AffectedRows: n})
	}
}

// DeleteTrainingSession handles DELETE /api/training_sessions/:id (admin or the
// coach of the session's batch). A session with attendance records is a 409.
func DeleteTrainingSession(env *Env) fiber.Handler {
	return deleteHandler[models.TrainingSession](env, policy.ResourceTrainingSessions, "training session")
}
