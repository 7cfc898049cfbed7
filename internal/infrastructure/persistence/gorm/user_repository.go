// Package gorm provides GORM-based repository implementations
package gorm

import (
	"context"
	"errors"
	"fmt"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/robloxdeveloper2/Foodi-Backup-sub002/internal/domain/user"
	"github.com/robloxdeveloper2/Foodi-Backup-sub002/internal/ports/outbound"
)

// UserProfileRepository implements the profile repository interface using GORM
type UserProfileRepository struct {
	db *gorm.DB
}

// NewUserProfileRepository creates a new profile repository
func NewUserProfileRepository(db *gorm.DB) *UserProfileRepository {
	return &UserProfileRepository{db: db}
}

var _ outbound.UserProfileRepository = (*UserProfileRepository)(nil)

// FindByID finds a profile by user ID
func (r *UserProfileRepository) FindByID(ctx context.Context, userID string) (*user.Profile, error) {
	var model UserProfileModel

	result := r.db.WithContext(ctx).First(&model, "id = ?", userID)
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return nil, user.ErrProfileNotFound
		}
		return nil, result.Error
	}

	return ModelToProfile(&model)
}

// Save creates or replaces a profile
func (r *UserProfileRepository) Save(ctx context.Context, profile *user.Profile) error {
	model := ProfileToModel(profile)

	result := r.db.WithContext(ctx).
		Clauses(clause.OnConflict{UpdateAll: true}).
		Create(model)
	if result.Error != nil {
		return fmt.Errorf("save profile %s: %w", profile.ID(), result.Error)
	}
	return nil
}
