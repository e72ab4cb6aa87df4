package policy

import "github.com/trentd187/sports-academy/internal/models"

var (
	coach  = models.UserRoleCoach
	player = models.UserRolePlayer
)

func roles(r ...models.UserRole) []models.UserRole { return r }

// DefaultTable is the academy's access policy. Every role-only grant that stands in
// for an ownership check is declared Lenient, not Allow, so it shows up in the logs.
func DefaultTable() Table {
	t := Table{}

	// Users: admin only (the missing-rule default), listed here for completeness.
	t.Set(ResourceUsers, ActionList, Rule{Message: MsgAdminOnly})

	// Players
	t.Set(ResourcePlayers, ActionRead, Rule{Lenient: roles(coach), Owner: roles(player)})
	t.Set(ResourcePlayers, ActionList, Rule{Allow: roles(coach)})
	t.Set(ResourcePlayers, ActionUpdate, Rule{Owner: roles(player)})
	t.Set(ResourcePlayers, ActionDelete, Rule{Message: MsgAdminOnly})

	// Coaches
	t.Set(ResourceCoaches, ActionRead, Rule{Lenient: roles(player), Owner: roles(coach)})
	t.Set(ResourceCoaches, ActionList, Rule{Allow: roles(coach, player)})
	t.Set(ResourceCoaches, ActionUpdate, Rule{Owner: roles(coach)})
	t.Set(ResourceCoaches, ActionDelete, Rule{Message: MsgAdminOnly})

	// A coach may list "their" players only through their own profile id. The list
	// itself is every player in the academy.
	t.Set(ResourceCoachPlayers, ActionRead, Rule{Owner: roles(coach)})

	// Games: readable by everyone, managed by admins.
	t.Set(ResourceGames, ActionRead, Rule{Allow: roles(coach, player)})
	t.Set(ResourceGames, ActionList, Rule{Allow: roles(coach, player)})
	t.Set(ResourceGames, ActionCreate, Rule{Message: MsgAdminOnly})
	t.Set(ResourceGames, ActionUpdate, Rule{Message: MsgAdminOnly})
	t.Set(ResourceGames, ActionDelete, Rule{Message: MsgAdminOnly})

	// Batches
	t.Set(ResourceBatches, ActionRead, Rule{Lenient: roles(player), Owner: roles(coach)})
	t.Set(ResourceBatches, ActionList, Rule{Allow: roles(coach, player)})
	t.Set(ResourceBatches, ActionCreate, Rule{Message: MsgAdminOnly})
	t.Set(ResourceBatches, ActionUpdate, Rule{Owner: roles(coach)})
	t.Set(ResourceBatches, ActionDelete, Rule{Owner: roles(coach)})

	// Training sessions. A coach may create a session in any batch.
	t.Set(ResourceTrainingSessions, ActionRead, Rule{Lenient: roles(player), Owner: roles(coach)})
	t.Set(ResourceTrainingSessions, ActionList, Rule{Allow: roles(coach, player)})
	t.Set(ResourceTrainingSessions, ActionCreate, Rule{Lenient: roles(coach)})
	t.Set(ResourceTrainingSessions, ActionUpdate, Rule{Owner: roles(coach)})
	t.Set(ResourceTrainingSessions, ActionDelete, Rule{Owner: roles(coach)})

	// Attendance. A coach may record attendance for any session.
	t.Set(ResourceAttendance, ActionRead, Rule{Owner: roles(coach, player)})
	t.Set(ResourceAttendance, ActionList, Rule{Owner: roles(coach, player)})
	t.Set(ResourceAttendance, ActionCreate, Rule{Lenient: roles(coach)})
	t.Set(ResourceAttendance, ActionUpdate, Rule{Owner: roles(coach)})
	t.Set(ResourceAttendance, ActionDelete, Rule{Owner: roles(coach)})

	// Payments: players see their own, admins do everything else.
	t.Set(ResourcePayments, ActionRead, Rule{Owner: roles(player)})
	t.Set(ResourcePayments, ActionList, Rule{Owner: roles(player)})
	t.Set(ResourcePayments, ActionCreate, Rule{Message: MsgAdminOnly})
	t.Set(ResourcePayments, ActionUpdate, Rule{Message: MsgAdminOnly})
	t.Set(ResourcePayments, ActionDelete, Rule{Message: MsgAdminOnly})

	// Performance notes. Coach lists are scoped to notes they wrote.
	t.Set(ResourcePerformanceNotes, ActionRead, Rule{Owner: roles(coach, player)})
	t.Set(ResourcePerformanceNotes, ActionList, Rule{Owner: roles(coach, player)})
	t.Set(ResourcePerformanceNotes, ActionCreate, Rule{Allow: roles(coach)})
	t.Set(ResourcePerformanceNotes, ActionUpdate, Rule{Owner: roles(coach)})
	t.Set(ResourcePerformanceNotes, ActionDelete, Rule{Owner: roles(coach)})

	// Player stats. Any coach may read and edit any player's stats.
	t.Set(ResourcePlayerStats, ActionRead, Rule{Lenient: roles(coach), Owner: roles(player)})
	t.Set(ResourcePlayerStats, ActionList, Rule{Lenient: roles(coach), Owner: roles(player)})
	t.Set(ResourcePlayerStats, ActionCreate, Rule{Allow: roles(coach)})
	t.Set(ResourcePlayerStats, ActionUpdate, Rule{Lenient: roles(coach)})
	t.Set(ResourcePlayerStats, ActionDelete, Rule{Message: MsgAdminOnly})

	// Database reset: admin only.
	t.Set(ResourceDatabase, ActionCreate, Rule{Message: MsgAdminOnly})

	return t
}
