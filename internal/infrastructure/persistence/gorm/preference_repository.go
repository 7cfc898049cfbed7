package gorm

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/robloxdeveloper2/Foodi-Backup-sub002/internal/domain/preference"
	"github.com/robloxdeveloper2/Foodi-Backup-sub002/internal/ports/outbound"
)

// PreferenceRepository stores preference snapshots as JSON documents
type PreferenceRepository struct {
	db *gorm.DB
}

// NewPreferenceRepository creates a new preference repository
func NewPreferenceRepository(db *gorm.DB) *PreferenceRepository {
	return &PreferenceRepository{db: db}
}

var _ outbound.PreferenceRepository = (*PreferenceRepository)(nil)

// Load returns the stored state, or an empty state when the user has no history
func (r *PreferenceRepository) Load(ctx context.Context, userID string) (*preference.State, error) {
	var model PreferenceModel

	result := r.db.WithContext(ctx).First(&model, "user_id = ?", userID)
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return preference.New(userID)
		}
		return nil, result.Error
	}

	var snap preference.Snapshot
	if err := json.Unmarshal([]byte(model.Snapshot), &snap); err != nil {
		return nil, fmt.Errorf("decode preferences of %s: %w", userID, err)
	}
	return preference.Restore(snap)
}

// Save replaces the stored state
func (r *PreferenceRepository) Save(ctx context.Context, state *preference.State) error {
	data, err := json.Marshal(state.Snapshot())
	if err != nil {
		return fmt.Errorf("encode preferences: %w", err)
	}
	model := &PreferenceModel{
		UserID:    state.UserID(),
		Snapshot:  string(data),
		Version:   state.Version(),
		UpdatedAt: state.UpdatedAt(),
	}

	return r.db.WithContext(ctx).
		Clauses(clause.OnConflict{UpdateAll: true}).
		Create(model).Error
}
