package gorm

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/robloxdeveloper2/Foodi-Backup-sub002/internal/domain/grocery"
	"github.com/robloxdeveloper2/Foodi-Backup-sub002/internal/ports/outbound"
)

// GroceryListRepository stores grocery overlays; the list itself is derived from the plan
type GroceryListRepository struct {
	db *gorm.DB
}

// NewGroceryListRepository creates a new grocery list repository
func NewGroceryListRepository(db *gorm.DB) *GroceryListRepository {
	return &GroceryListRepository{db: db}
}

var _ outbound.GroceryListRepository = (*GroceryListRepository)(nil)

// LoadOverlay returns the saved overlay or an empty one
func (r *GroceryListRepository) LoadOverlay(ctx context.Context, planID uuid.UUID) (grocery.Overlay, error) {
	var model GroceryOverlayModel

	result := r.db.WithContext(ctx).First(&model, "plan_id = ?", planID)
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return emptyOverlay(planID), nil
		}
		return grocery.Overlay{}, result.Error
	}
	return ModelToOverlay(&model), nil
}

// SaveOverlay replaces the saved overlay
func (r *GroceryListRepository) SaveOverlay(ctx context.Context, overlay grocery.Overlay) error {
	return r.db.WithContext(ctx).
		Clauses(clause.OnConflict{UpdateAll: true}).
		Create(OverlayToModel(overlay)).Error
}
