// Package handlers contains the HTTP route handler functions for the Sports Academy API.
// Each handler corresponds to one API endpoint and is responsible for reading the
// request, asking the policy layer whether the caller may proceed, running the SQL,
// and writing the JSON envelope.
//
// Each exported function follows the "handler factory" pattern: it takes the shared
// *Env and returns a fiber.Handler. This lets us inject the database pool and the
// policy objects without global variables.
//
// --- Permission model ---
// Two layers of access control are used:
//
//  1. Route-level (middleware.Gate): decides which roles may reach a resource at all
//     and rejects missing, forged or inactive credentials.
//  2. Record-level (policy.Authorizer): decides, per action, whether this caller may
//     touch this record. Ownership is resolved in SQL by walking the record up to its
//     coach and player.
package handlers

import (
	"gorm.io/gorm"

	"github.com/trentd187/sports-academy/internal/auth"
	"github.com/trentd187/sports-academy/internal/policy"
)

// Env is everything a handler needs. It is built once at start-up.
type Env struct {
	DB     *gorm.DB
	Authz  *policy.Authorizer
	Guard  *policy.Guard
	Tokens auth.Codec
}

// NewEnv wires the policy objects onto db.
func NewEnv(db *gorm.DB, tokens auth.Codec) *Env {
	return &Env{
		DB:     db,
		Authz:  policy.NewAuthorizer(policy.DefaultTable(), policy.NewSQLOwners(db)),
		Guard:  policy.NewGuard(db),
		Tokens: tokens,
	}
}
