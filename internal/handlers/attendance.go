package handlers

import (
	"fmt"

	"github.com/gofiber/fiber/v2"

	"github.com/trentd187/sports-academy/internal/middleware"
	"github.com/trentd187/sports-academy/internal/models"
	"github.com/trentd187/sports-academy/internal/policy"
)

// GetAttendanceRecord handles GET /api/attendance/:id.
func GetAttendanceRecord(env *Env) fiber.Handler {
	return func(c *fiber.Ctx) error {
		id, err := pathID(c, "attendance")
		if err != nil {
			return handleError(c, err)
		}
		ctx := c.UserContext()
		if err := env.Authz.Authorize(ctx, middleware.CurrentUser(c), policy.ResourceAttendance, policy.ActionRead, id); err != nil {
			return handleError(c, err)
		}

		var record models.Attendance
		if err := env.DB.WithContext(ctx).Take(&record, id).Error; err != nil {
			return handleError(c, notFoundOr(err, policy.ResourceAttendance))
		}
		return respond(c, fiber.StatusOK, record)
	}
}

// GetAttendance handles GET /api/attendance, newest first.
//
// A player only ever sees their own records. A coach sees records for sessions in
// batches they run. Admins and coaches may narrow with ?sessionId= and ?playerId=.
func GetAttendance(env *Env) fiber.Handler {
	return func(c *fiber.Ctx) error {
		ctx := c.UserContext()
		user := middleware.CurrentUser(c)
		if err := env.Authz.Authorize(ctx, user, policy.ResourceAttendance, policy.ActionList, 0); err != nil {
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
					return respond(c, fiber.StatusOK, []models.Attendance{})
				}
				query = query.Where("session_id IN (?)",
					env.DB.Table("training_sessions ts").
						Select("ts.id").
						Joins("JOIN batches b ON b.id = ts.batch_id").
						Where("b.coach_id = ?", coachID))
			}

			sessionID, err := queryID(c, "sessionId")
			if err != nil {
				return handleError(c, err)
			}
			playerID, err := queryID(c, "playerId")
			if err != nil {
				return handleError(c, err)
			}
			if sessionID != nil {
				query = query.Where("session_id = ?", *sessionID)
			}
			if playerID != nil {
				query = query.Where("player_id = ?", *playerID)
			}
		}

		var records []models.Attendance
		if err := query.Order("created_at DESC").Order("id DESC").Find(&records).Error; err != nil {
			return handleError(c, fmt.Errorf("failed to fetch attendance: %w", err))
		}
		return respond(c, fiber.StatusOK, records)
	}
}

// CreateAttendanceRequest is the JSON body of POST /api/attendance.
type CreateAttendanceRequest struct {
	SessionID uint                    `json:"sessionId"`
	PlayerID  uint                    `json:"playerId"`
	Status    models.AttendanceStatus `json:"status"`
	Comments  *string                 `json:"comments"`
}

// CreateAttendance handles POST /api/attendance (admin or any coach). A second record
// for the same session and player is a 409.
func CreateAttendance(env *Env) fiber.Handler {
	return func(c *fiber.Ctx) error {
		ctx := c.UserContext()
		if err := env.Authz.Authorize(ctx, middleware.CurrentUser(c), policy.ResourceAttendance, policy.ActionCreate, 0); err != nil {
			return handleError(c, err)
		}

		var req CreateAttendanceRequest
		if err := parseBody(c, &req); err != nil {
			return handleError(c, err)
		}
		if req.SessionID == 0 || req.PlayerID == 0 || req.Status == "" {
			return fail(c, fiber.StatusBadRequest, "Session ID, Player ID, and status are required for attendance")
		}
		if !req.Status.Valid() {
			return fail(c, fiber.StatusBadRequest, "Invalid status specified")
		}

		record := models.Attendance{
			SessionID: req.SessionID,
			PlayerID:  req.PlayerID,
			Status:    req.Status,
			Comments:  emptyToNil(req.Comments),
		}
		if err := env.DB.WithContext(ctx).Create(&record).Error; err != nil {
			return handleError(c, fmt.Errorf("failed to create attendance: %w", err))
		}
		return respond(c, fiber.StatusCreated, createdID{ID: record.ID})
	}
}

// UpdateAttendanceRequest is the JSON body of PUT /api/attendance/:id. The session
// and player of a record are fixed once written.
type UpdateAttendanceRequest struct {
	Status   Field[models.AttendanceStatus] `json:"status"`
	Comments Field[string]                  `json:"comments"`
}

// UpdateAttendance handles PUT /api/attendance/:id (admin or the coach running the
// session's batch).
func UpdateAttendance(env *Env) fiber.Handler {
	return func(c *fiber.Ctx) error {
		id, err := pathID(c, "attendance")
		if err != nil {
			return handleError(c, err)
		}
		ctx := c.UserContext()
		if err := env.Authz.Authorize(ctx, middleware.CurrentUser(c), policy.ResourceAttendance, policy.ActionUpdate, id); err != nil {
			return handleError(c, err)
		}

		var req UpdateAttendanceRequest
		if err := parseBody(c, &req); err != nil {
			return handleError(c, err)
		}
		if req.Status.Set && (req.Status.Value == nil || !req.Status.Value.Valid()) {
			return fail(c, fiber.StatusBadRequest, "Invalid status specified")
		}

		u := updates{}
		set(u, "status", req.Status)
		set(u, "comments", req.Comments)

		n, err := u.apply(ctx, env.DB, "session_attendance", id)
		if err != nil {
			return handleError(c, err)
		}
		return respond(c, fiber.StatusOK, affected{AffectedRows: n})
	}
}

// DeleteAttendance handles DELETE /api/attendance/:id (admin or the coach running
// the session's batch).
func DeleteAttendance(env *Env) fiber.Handler {
	return deleteHandler[models.Attendance](env, policy.ResourceAttendance, "attendance")
}
