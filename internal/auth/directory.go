package auth

import (
	"context"
	"errors"
	"fmt"

	"gorm.io/gorm"

	"github.com/trentd187/sports-academy/internal/models"
)

// ErrIdentityNotFound means no user has both the id and the role a token claims.
var ErrIdentityNotFound = errors.New("identity not found")

// Directory resolves the user a token names.
type Directory interface {
	Resolve(ctx context.Context, userID uint, role models.UserRole) (*models.User, error)
}

// UserDirectory reads the users table.
type UserDirectory struct {
	db *gorm.DB
}

// NewUserDirectory returns a Directory backed by db.
func NewUserDirectory(db *gorm.DB) *UserDirectory {
	return &UserDirectory{db: db}
}

// Resolve loads the user only when id and role both match, so a token minted before a
// role change stops working. The password column is never selected.
func (d *UserDirectory) Resolve(ctx context.Context, userID uint, role models.UserRole) (*models.User, error) {
	var user models.User
	err := d.db.WithContext(ctx).
		Select("id", "username", "email", "role", "status", "created_at", "updated_at").
		Where("id = ? AND role = ?", userID, role).
		Take(&user).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrIdentityNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to resolve user %d: %w", userID, err)
	}
	return &user, nil
}
