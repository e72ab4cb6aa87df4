package policy

import (
	"context"
	"errors"
	"fmt"

	"gorm.io/gorm"
)

// Dependent is a child table that blocks deletion of its parent while rows point at it.
type Dependent struct {
	Table   string
	Column  string
	Message string
}

// dependents is the one place guarded deletes are declared. The schema puts
// ON DELETE RESTRICT on exactly these foreign keys.
var dependents = map[Resource]Dependent{
	ResourceGames: {
		Table:   "batches",
		Column:  "game_id",
		Message: "Cannot delete game: It is linked to existing batches.",
	},
	ResourceBatches: {
		Table:   "training_sessions",
		Column:  "batch_id",
		Message: "Cannot delete batch: It contains existing training sessions.",
	},
	ResourceTrainingSessions: {
		Table:   "session_attendance",
		Column:  "session_id",
		Message: "Cannot delete session: It has associated attendance records.",
	},
}

// Guard performs deletes that respect the dependents table.
type Guard struct {
	db *gorm.DB
}

// NewGuard returns a Guard using db.
func NewGuard(db *gorm.DB) *Guard {
	return &Guard{db: db}
}

// Check returns a Conflict violation when res has a declared dependent with rows
// pointing at id.
func (g *Guard) Check(ctx context.Context, res Resource, id uint) error {
	dep, ok := dependents[res]
	if !ok {
		return nil
	}

	var exists bool
	query := fmt.Sprintf("SELECT EXISTS (SELECT 1 FROM %s WHERE %s = ?)", dep.Table, dep.Column)
	if err := g.db.WithContext(ctx).Raw(query, id).Scan(&exists).Error; err != nil {
		return fmt.Errorf("failed to check %s dependents: %w", res, err)
	}
	if exists {
		return Conflict(dep.Message)
	}
	return nil
}

// Delete checks dependents, then deletes the row of model's table with the given id
// and returns the affected row count. A child inserted between the check and the
// delete trips the RESTRICT foreign key and comes back as the same conflict.
func (g *Guard) Delete(ctx context.Context, res Resource, model any, id uint) (int64, error) {
	if err := g.Check(ctx, res, id); err != nil {
		return 0, err
	}

	result := g.db.WithContext(ctx).Delete(model, id)
	if result.Error != nil {
		if dep, ok := dependents[res]; ok && errors.Is(result.Error, gorm.ErrForeignKeyViolated) {
			return 0, Conflict(dep.Message)
		}
		return 0, fmt.Errorf("failed to delete %s %d: %w", res, id, result.Error)
	}
	return result.RowsAffected, nil
}
