// Package policy decides who may do what to which record.
//
// Every resource/action pair has one Rule in a Table. The Authorizer looks the rule
// up, resolves the record's owners when the caller can only pass as an owner, and
// returns nil or a *Violation. Admins always pass. Handlers never compare roles
// themselves.
package policy

import (
	"context"

	log "github.com/sirupsen/logrus"

	"github.com/trentd187/sports-academy/internal/models"
)

// Resource names a protected entity.
type Resource string

const (
	ResourceUsers            Resource = "users"
	ResourcePlayers          Resource = "players"
	ResourceCoaches          Resource = "coaches"
	ResourceCoachPlayers     Resource = "coach_players"
	ResourceGames            Resource = "games"
	ResourceBatches          Resource = "batches"
	ResourceTrainingSessions Resource = "training_sessions"
	ResourceAttendance       Resource = "attendance"
	ResourcePayments         Resource = "payments"
	ResourcePerformanceNotes Resource = "performance_notes"
	ResourcePlayerStats      Resource = "player_stats"
	ResourceDatabase         Resource = "database"
)

// Action is what the caller wants to do.
type Action string

const (
	ActionRead   Action = "read"
	ActionList   Action = "list"
	ActionCreate Action = "create"
	ActionUpdate Action = "update"
	ActionDelete Action = "delete"
)

// Record-level actions address one existing row.
func (a Action) onRecord() bool {
	return a == ActionRead || a == ActionUpdate || a == ActionDelete
}

// Default refusal messages.
const (
	MsgDenied    = "Access Denied"
	MsgAdminOnly = "Access Denied: Admins only"
)

// Rule says which roles pass for one resource/action pair. Admin is implicit.
type Rule struct {
	// Allow roles pass on role alone.
	Allow []models.UserRole
	// Lenient roles also pass on role alone, but the grant is broader than the
	// ownership it stands in for, so each pass is logged.
	Lenient []models.UserRole
	// Owner roles pass when the record's owner of that role is the caller.
	// On list and create there is no record, and handlers scope the query instead.
	Owner []models.UserRole
	// Message is returned on refusal; MsgDenied when empty.
	Message string
}

func (r Rule) message() string {
	if r.Message == "" {
		return MsgDenied
	}
	return r.Message
}

type key struct {
	resource Resource
	action   Action
}

// Table maps resource/action pairs to rules. A missing pair is admin-only.
type Table map[key]Rule

// Set registers the rule for one pair.
func (t Table) Set(res Resource, act Action, rule Rule) {
	t[key{res, act}] = rule
}

// Lookup returns the rule for a pair.
func (t Table) Lookup(res Resource, act Action) (Rule, bool) {
	rule, ok := t[key{res, act}]
	return rule, ok
}

// Authorizer applies a Table.
type Authorizer struct {
	table  Table
	owners OwnerResolver
}

// NewAuthorizer returns an Authorizer consulting table and resolving owners through owners.
func NewAuthorizer(table Table, owners OwnerResolver) *Authorizer {
	return &Authorizer{table: table, owners: owners}
}

// Authorize decides whether user may perform act on res. For record-level actions
// id names the row; a missing row is reported as not found, but only to callers
// whose role could have passed, so a refused caller learns nothing about which ids exist.
func (a *Authorizer) Authorize(ctx context.Context, user *models.User, res Resource, act Action, id uint) error {
	if user == nil {
		return Denied(MsgDenied)
	}

	rule, ok := a.table.Lookup(res, act)
	if !ok {
		rule = Rule{Message: MsgAdminOnly}
	}

	admin := user.Role == models.UserRoleAdmin
	allowed := admin || contains(rule.Allow, user.Role)
	lenient := !allowed && contains(rule.Lenient, user.Role)
	owner := !allowed && !lenient && contains(rule.Owner, user.Role)

	if !allowed && !lenient && !owner {
		return Denied(rule.message())
	}

	if !act.onRecord() {
		if lenient {
			logLenient(user, res, act, 0)
		}
		return nil
	}

	owners, err := a.owners.Owners(ctx, res, id)
	if err != nil {
		return err
	}

	switch {
	case allowed:
		return nil
	case lenient:
		logLenient(user, res, act, id)
		return nil
	}

	if owners.OwnedBy(user) {
		return nil
	}
	return Denied(rule.message())
}

func logLenient(user *models.User, res Resource, act Action, id uint) {
	log.WithFields(log.Fields{
		"user_id":  user.ID,
		"role":     user.Role,
		"resource": res,
		"action":   act,
		"record":   id,
	}).Warn("access granted on role alone, ownership not checked")
}

func contains(roles []models.UserRole, role models.UserRole) bool {
	for _, r := range roles {
		if r == role {
			return true
		}
	}
	return false
}
