// Package models defines the data structures (models) that map to database tables.
// GORM uses these structs to build SQL and map rows back to Go values. The schema itself
// is owned by the SQL migrations in internal/database/migrations, so the gorm tags here
// only describe column names and keys. Nothing is auto-migrated.
//
// The JSON tags are the snake_case → camelCase boundary: columns such as first_name are
// exposed to the frontend as firstName.
//
// The data model represents a sports academy where:
//   - Users log in and hold one global role (player, coach, admin)
//   - Players and Coaches are 1:1 profiles that extend a User
//   - Games (sports) are grouped into Batches, optionally led by a Coach
//   - Batches hold TrainingSessions, and Players' Attendance is recorded per session
//   - Payments, PerformanceNotes and PlayerStats hang off a Player
package models

import "time"

// --- Enums ---
// Each named string type mirrors a PostgreSQL ENUM created by the first migration.

// UserRole represents a user's global permission level.
type UserRole string

const (
	UserRolePlayer UserRole = "player" // Trains in batches; sees their own records
	UserRoleCoach  UserRole = "coach"  // Runs batches and sessions; writes notes and stats
	UserRoleAdmin  UserRole = "admin"  // Full access, including the database reset
)

// Valid reports whether r is one of the roles stored in user_role_enum.
func (r UserRole) Valid() bool {
	switch r {
	case UserRolePlayer, UserRoleCoach, UserRoleAdmin:
		return true
	}
	return false
}

// UserStatus is the account state; only active accounts pass the auth gate.
type UserStatus string

const (
	UserStatusActive    UserStatus = "active"
	UserStatusInactive  UserStatus = "inactive"
	UserStatusSuspended UserStatus = "suspended"
)

// AttendanceStatus records whether a player turned up to a session.
type AttendanceStatus string

const (
	AttendancePresent AttendanceStatus = "present"
	AttendanceAbsent  AttendanceStatus = "absent"
	AttendanceExcused AttendanceStatus = "excused"
)

// Valid reports whether s is one of the values stored in attendance_status_enum.
func (s AttendanceStatus) Valid() bool {
	switch s {
	case AttendancePresent, AttendanceAbsent, AttendanceExcused:
		return true
	}
	return false
}

// --- Models ---

// User is the root identity. Password is stored as given (no hashing in this system)
// and is never serialised.
type User struct {
	ID        uint       `gorm:"primaryKey" json:"id"`
	Username  string     `gorm:"not null;uniqueIndex" json:"username"`
	Email     string     `gorm:"not null;uniqueIndex" json:"email"`
	Password  string     `gorm:"not null" json:"-"`
	Role      UserRole   `gorm:"type:user_role_enum;not null;default:'player'" json:"role"`
	Status    UserStatus `gorm:"type:user_status_enum;not null;default:'active'" json:"status"`
	CreatedAt time.Time  `json:"createdAt"`
	UpdatedAt time.Time  `json:"updatedAt"`
}

// Game is a sport offered by the academy (Badminton, Swimming, ...).
type Game struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	Name      string    `gorm:"not null;uniqueIndex" json:"name"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// Player extends a User 1:1 through the unique user_id foreign key.
type Player struct {
	ID          uint       `gorm:"primaryKey" json:"id"`
	UserID      uint       `gorm:"not null;uniqueIndex" json:"userId"`
	FirstName   string     `gorm:"not null" json:"firstName"`
	LastName    string     `gorm:"not null" json:"lastName"`
	Position    *string    `json:"position"`
	DateOfBirth *time.Time `gorm:"type:date" json:"dateOfBirth"`
	Height      *float64   `gorm:"type:decimal(5,2)" json:"height"`
	Weight      *float64   `gorm:"type:decimal(5,2)" json:"weight"`
	CreatedAt   time.Time  `json:"createdAt"`
	UpdatedAt   time.Time  `json:"updatedAt"`
}

// PlayerGame is the player↔game join row; the pair is the primary key.
type PlayerGame struct {
	PlayerID uint `gorm:"primaryKey;autoIncrement:false"`
	GameID   uint `gorm:"primaryKey;autoIncrement:false"`
}

// Coach extends a User 1:1 through the unique user_id foreign key.
type Coach struct {
	ID             uint      `gorm:"primaryKey" json:"id"`
	UserID         uint      `gorm:"not null;uniqueIndex" json:"userId"`
	FirstName      string    `gorm:"not null" json:"firstName"`
	LastName       string    `gorm:"not null" json:"lastName"`
	Specialization *string   `json:"specialization"`
	Experience     *int      `json:"experience"`
	CreatedAt      time.Time `json:"createdAt"`
	UpdatedAt      time.Time `json:"updatedAt"`
}

// PlayerStats holds aggregate counters for one player.
type PlayerStats struct {
	ID            uint      `gorm:"primaryKey" json:"id"`
	PlayerID      uint      `gorm:"not null;uniqueIndex" json:"playerId"`
	GamesPlayed   int       `json:"gamesPlayed"`
	GoalsScored   int       `json:"goalsScored"`
	Assists       int       `json:"assists"`
	YellowCards   int       `json:"yellowCards"`
	RedCards      int       `json:"redCards"`
	MinutesPlayed int       `json:"minutesPlayed"`
	CreatedAt     time.Time `json:"createdAt"`
	UpdatedAt     time.Time `json:"updatedAt"`
}

// TableName keeps gorm from pluralising to "player_stats_s".
func (PlayerStats) TableName() string { return "player_stats" }

// Batch is a training group for one Game, optionally assigned a Coach.
// CoachID is nullable: deleting the coach sets it to NULL.
type Batch struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	GameID    uint      `gorm:"not null" json:"gameId"`
	Name      string    `gorm:"not null" json:"name"`
	Schedule  *string   `json:"schedule"`
	CoachID   *uint     `json:"coachId"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// TrainingSession is one scheduled meeting of a Batch. Duration is in minutes.
type TrainingSession struct {
	ID          uint      `gorm:"primaryKey" json:"id"`
	BatchID     uint      `gorm:"not null" json:"batchId"`
	Title       *string   `json:"title"`
	Description *string   `json:"description"`
	Date        time.Time `gorm:"not null" json:"date"`
	Duration    int       `gorm:"not null" json:"duration"`
	Location    *string   `json:"location"`
	CreatedAt   time.Time `json:"createdAt"`
	UpdatedAt   time.Time `json:"updatedAt"`
}

// Attendance links a TrainingSession and a Player. The surrogate id addresses a row in
// the API; (session_id, player_id) is still unique.
type Attendance struct {
	ID        uint             `gorm:"primaryKey" json:"id"`
	SessionID uint             `gorm:"not null" json:"sessionId"`
	PlayerID  uint             `gorm:"not null" json:"playerId"`
	Status    AttendanceStatus `gorm:"type:attendance_status_enum;not null;default:'absent'" json:"status"`
	Comments  *string          `json:"comments"`
	CreatedAt time.Time        `json:"createdAt"`
	UpdatedAt time.Time        `json:"updatedAt"`
}

// TableName maps Attendance to the session_attendance table.
func (Attendance) TableName() string { return "session_attendance" }

// Payment is money received from a Player.
type Payment struct {
	ID          uint      `gorm:"primaryKey" json:"id"`
	PlayerID    uint      `gorm:"not null" json:"playerId"`
	Date        time.Time `gorm:"type:date;not null" json:"date"`
	Amount      float64   `gorm:"type:decimal(10,2);not null" json:"amount"`
	Description *string   `json:"description"`
	CreatedAt   time.Time `json:"createdAt"`
	UpdatedAt   time.Time `json:"updatedAt"`
}

// PerformanceNote is a dated remark about a Player, authored by an optional Coach.
type PerformanceNote struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	PlayerID  uint      `gorm:"not null" json:"playerId"`
	CoachID   *uint     `json:"coachId"`
	Date      time.Time `gorm:"type:date;not null" json:"date"`
	Note      string    `gorm:"not null" json:"note"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}
