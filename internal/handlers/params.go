package handlers

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"
)

// pathID parses the :id route parameter. noun names the resource in the 400 message.
func pathID(c *fiber.Ctx, noun string) (uint, error) {
	id, err := strconv.ParseUint(c.Params("id"), 10, 32)
	if err != nil || id == 0 {
		return 0, badRequest(fmt.Sprintf("Invalid %s ID", noun))
	}
	return uint(id), nil
}

// queryID parses an optional numeric filter such as ?playerId=3. Absent means nil.
func queryID(c *fiber.Ctx, key string) (*uint, error) {
	raw := c.Query(key)
	if raw == "" {
		return nil, nil
	}
	id, err := strconv.ParseUint(raw, 10, 32)
	if err != nil {
		return nil, badRequest(fmt.Sprintf("Invalid %s filter", key))
	}
	v := uint(id)
	return &v, nil
}

// parseBody decodes the JSON request body into dst.
func parseBody(c *fiber.Ctx, dst any) error {
	if err := c.BodyParser(dst); err != nil {
		return badRequest("Invalid request body")
	}
	return nil
}

// --- Partial updates ---

// Field is a JSON field that remembers whether it was present in the body. A present
// null has Set true and a nil Value; an absent field has Set false.
type Field[T any] struct {
	Set   bool
	Value *T
}

// UnmarshalJSON is only called for keys present in the body.
func (f *Field[T]) UnmarshalJSON(b []byte) error {
	f.Set = true
	if bytes.Equal(b, []byte("null")) {
		f.Value = nil
		return nil
	}
	var v T
	if err := json.Unmarshal(b, &v); err != nil {
		return err
	}
	f.Value = &v
	return nil
}

// updates collects the columns a PUT will change.
type updates map[string]any

// set records col when the field was supplied. A supplied null writes NULL.
func set[T any](u updates, col string, f Field[T]) {
	if !f.Set {
		return
	}
	if f.Value == nil {
		u[col] = nil
		return
	}
	u[col] = *f.Value
}

// notNull rejects an explicit null for a NOT NULL column. name is the JSON key.
// Callers join several checks with errors.Join; the first failure is reported.
func notNull[T any](name string, f Field[T]) error {
	if f.Set && f.Value == nil {
		return badRequest(fmt.Sprintf("%s cannot be null", name))
	}
	return nil
}

// setTime is set for date and timestamp columns; the string must parse.
func setTime(u updates, col string, f Field[string]) error {
	if !f.Set {
		return nil
	}
	if f.Value == nil {
		u[col] = nil
		return nil
	}
	t, err := parseTime(*f.Value)
	if err != nil {
		return err
	}
	u[col] = t
	return nil
}

// apply runs the UPDATE for one row, stamping updated_at. No fields is a 400.
func (u updates) apply(ctx context.Context, db *gorm.DB, table string, id uint) (int64, error) {
	if len(u) == 0 {
		return 0, badRequest("No valid fields provided for update")
	}
	u["updated_at"] = gorm.Expr("CURRENT_TIMESTAMP")

	result := db.WithContext(ctx).Table(table).Where("id = ?", id).Updates(map[string]any(u))
	if result.Error != nil {
		return 0, fmt.Errorf("failed to update %s %d: %w", table, id, result.Error)
	}
	return result.RowsAffected, nil
}

// --- Dates ---

// timeLayouts are the formats accepted for date and timestamp fields.
var timeLayouts = []string{
	time.RFC3339Nano,
	"2006-01-02T15:04:05",
	"2006-01-02T15:04",
	"2006-01-02 15:04:05Z07",
	"2006-01-02 15:04:05",
	"2006-01-02",
}

func parseTime(s string) (time.Time, error) {
	for _, layout := range timeLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t, nil
		}
	}
	return time.Time{}, badRequest(fmt.Sprintf("Invalid date %q", s))
}

// --- Profile lookups ---

// profileID returns the id of the players or coaches row belonging to userID.
// found is false when the user has no such profile.
func profileID(ctx context.Context, db *gorm.DB, table string, userID uint) (id uint, found bool, err error) {
	err = db.WithContext(ctx).Table(table).Select("id").Where("user_id = ?", userID).Take(&id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return 0, false, nil
	}
	if err != nil {
		return 0, false, fmt.Errorf("failed to look up %s profile for user %d: %w", table, userID, err)
	}
	return id, true, nil
}

func playerIDFor(ctx context.Context, db *gorm.DB, userID uint) (uint, bool, error) {
	return profileID(ctx, db, "players", userID)
}

func coachIDFor(ctx context.Context, db *gorm.DB, userID uint) (uint, bool, error) {
	return profileID(ctx, db, "coaches", userID)
}
