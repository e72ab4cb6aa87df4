package policy

import (
	"context"
	"fmt"

	"gorm.io/gorm"

	"github.com/trentd187/sports-academy/internal/models"
)

// Owners are the user ids that own a record through its coach and its player.
// Either may be nil: a batch without a coach, or a resource with no player side.
type Owners struct {
	CoachUserID  *uint `gorm:"column:coach_user_id"`
	PlayerUserID *uint `gorm:"column:player_user_id"`
}

// OwnedBy reports whether user owns the record in the capacity of their role.
func (o Owners) OwnedBy(user *models.User) bool {
	switch user.Role {
	case models.UserRoleCoach:
		return o.CoachUserID != nil && *o.CoachUserID == user.ID
	case models.UserRolePlayer:
		return o.PlayerUserID != nil && *o.PlayerUserID == user.ID
	}
	return false
}

// OwnerResolver finds a record's owners. A missing record is a NotFound violation.
type OwnerResolver interface {
	Owners(ctx context.Context, res Resource, id uint) (Owners, error)
}

// ownerQuery resolves both owners of one resource in a single statement.
type ownerQuery struct {
	sql      string
	notFound string
}

// ownerQueries walks each resource up to its coach and player in one join.
var ownerQueries = map[Resource]ownerQuery{
	ResourceUsers: {
		sql:      `SELECT NULL::integer AS coach_user_id, NULL::integer AS player_user_id FROM users WHERE id = ?`,
		notFound: "User not found",
	},
	ResourcePlayers: {
		sql:      `SELECT NULL::integer AS coach_user_id, p.user_id AS player_user_id FROM players p WHERE p.id = ?`,
		notFound: "Player not found",
	},
	ResourceCoaches: {
		sql:      `SELECT c.user_id AS coach_user_id, NULL::integer AS player_user_id FROM coaches c WHERE c.id = ?`,
		notFound: "Coach not found",
	},
	ResourceCoachPlayers: {
		sql:      `SELECT c.user_id AS coach_user_id, NULL::integer AS player_user_id FROM coaches c WHERE c.id = ?`,
		notFound: "Coach not found",
	},
	ResourceGames: {
		sql:      `SELECT NULL::integer AS coach_user_id, NULL::integer AS player_user_id FROM games WHERE id = ?`,
		notFound: "Game not found",
	},
	ResourceBatches: {
		sql: `SELECT c.user_id AS coach_user_id, NULL::integer AS player_user_id
			FROM batches b
			LEFT JOIN coaches c ON c.id = b.coach_id
			WHERE b.id = ?`,
		notFound: "Batch not found",
	},
	ResourceTrainingSessions: {
		sql: `SELECT c.user_id AS coach_user_id, NULL::integer AS player_user_id
			FROM training_sessions s
			JOIN batches b ON b.id = s.batch_id
			LEFT JOIN coaches c ON c.id = b.coach_id
			WHERE s.id = ?`,
		notFound: "Training session not found",
	},
	ResourceAttendance: {
		sql: `SELECT c.user_id AS coach_user_id, p.user_id AS player_user_id
			FROM session_attendance a
			JOIN training_sessions s ON s.id = a.session_id
			JOIN batches b ON b.id = s.batch_id
			LEFT JOIN coaches c ON c.id = b.coach_id
			JOIN players p ON p.id = a.player_id
			WHERE a.id = ?`,
		notFound: "Attendance record not found",
	},
	ResourcePayments: {
		sql: `SELECT NULL::integer AS coach_user_id, p.user_id AS player_user_id
			FROM payments pay
			JOIN players p ON p.id = pay.player_id
			WHERE pay.id = ?`,
		notFound: "Payment not found",
	},
	ResourcePerformanceNotes: {
		sql: `SELECT c.user_id AS coach_user_id, p.user_id AS player_user_id
			FROM performance_notes n
			LEFT JOIN coaches c ON c.id = n.coach_id
			JOIN players p ON p.id = n.player_id
			WHERE n.id = ?`,
		notFound: "Performance note not found",
	},
	ResourcePlayerStats: {
		sql: `SELECT NULL::integer AS coach_user_id, p.user_id AS player_user_id
			FROM player_stats ps
			JOIN players p ON p.id = ps.player_id
			WHERE ps.id = ?`,
		notFound: "Player stats record not found",
	},
}

// NotFoundMessage is the client-facing message for a missing record of res.
func NotFoundMessage(res Resource) string {
	if q, ok := ownerQueries[res]; ok {
		return q.notFound
	}
	return "Record not found"
}

// SQLOwners resolves owners with the queries above.
type SQLOwners struct {
	db *gorm.DB
}

// NewSQLOwners returns a resolver reading through db.
func NewSQLOwners(db *gorm.DB) *SQLOwners {
	return &SQLOwners{db: db}
}

// Owners runs the resource's owner query for id.
func (s *SQLOwners) Owners(ctx context.Context, res Resource, id uint) (Owners, error) {
	q, ok := ownerQueries[res]
	if !ok {
		return Owners{}, fmt.Errorf("no owner query for resource %q", res)
	}

	var owners Owners
	result := s.db.WithContext(ctx).Raw(q.sql, id).Scan(&owners)
	if result.Error != nil {
		return Owners{}, fmt.Errorf("failed to resolve owners of %s %d: %w", res, id, result.Error)
	}
	if result.RowsAffected == 0 {
		return Owners{}, NotFound(q.notFound)
	}
	return owners, nil
}
