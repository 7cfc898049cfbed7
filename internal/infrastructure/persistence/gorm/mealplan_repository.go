package gorm

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/robloxdeveloper2/Foodi-Backup-sub002/internal/domain/mealplan"
	"github.com/robloxdeveloper2/Foodi-Backup-sub002/internal/domain/recipe"
	"github.com/robloxdeveloper2/Foodi-Backup-sub002/internal/ports/outbound"
)

// MealPlanRepository stores the latest version of each plan. Slots and
// substitution history are child rows; recipes are resolved through the
// recipe repository when a plan is loaded.
type MealPlanRepository struct {
	db      *gorm.DB
	recipes outbound.RecipeRepository
}

// NewMealPlanRepository creates a new meal plan repository
func NewMealPlanRepository(db *gorm.DB, recipes outbound.RecipeRepository) *MealPlanRepository {
	return &MealPlanRepository{db: db, recipes: recipes}
}

var _ outbound.MealPlanRepository = (*MealPlanRepository)(nil)

// Save replaces the stored plan with this version
func (r *MealPlanRepository) Save(ctx context.Context, plan *mealplan.Plan) error {
	model := PlanToModel(plan)

	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		err := tx.Omit(clause.Associations).
			Clauses(clause.OnConflict{UpdateAll: true}).
			Create(model).Error
		if err != nil {
			return fmt.Errorf("save meal plan: %w", err)
		}

		if err := tx.Where("plan_id = ?", model.ID).Delete(&MealPlanSlotModel{}).Error; err != nil {
			return fmt.Errorf("clear slots: %w", err)
		}
		if err := tx.Where("plan_id = ?", model.ID).Delete(&SubstitutionModel{}).Error; err != nil {
			return fmt.Errorf("clear substitutions: %w", err)
		}
		if len(model.Slots) > 0 {
			if err := tx.Create(&model.Slots).Error; err != nil {
				return fmt.Errorf("insert slots: %w", err)
			}
		}
		if len(model.Substitutions) > 0 {
			if err := tx.Create(&model.Substitutions).Error; err != nil {
				return fmt.Errorf("insert substitutions: %w", err)
			}
		}
		return nil
	})
}

// FindByID loads a plan with its slots and history
func (r *MealPlanRepository) FindByID(ctx context.Context, id uuid.UUID) (*mealplan.Plan, error) {
	var model MealPlanModel

	result := r.withChildren(ctx).First(&model, "id = ?", id)
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return nil, mealplan.ErrPlanNotFound
		}
		return nil, result.Error
	}

	plans, err := r.hydrate(ctx, []MealPlanModel{model})
	if err != nil {
		return nil, err
	}
	return plans[0], nil
}

// FindRecentByUser returns the user's plans still covering days on or after since, newest first
func (r *MealPlanRepository) FindRecentByUser(ctx context.Context, userID string, since time.Time, limit int) ([]*mealplan.Plan, error) {
	var models []MealPlanModel

	query := r.withChildren(ctx).
		Where("user_id = ? AND end_date > ?", userID, since).
		Order("created_at DESC")
	if limit > 0 {
		query = query.Limit(limit)
	}
	if err := query.Find(&models).Error; err != nil {
		return nil, err
	}
	if len(models) == 0 {
		return nil, nil
	}
	return r.hydrate(ctx, models)
}

func (r *MealPlanRepository) withChildren(ctx context.Context) *gorm.DB {
	return r.db.WithContext(ctx).
		Preload("Slots").
		Preload("Substitutions", func(db *gorm.DB) *gorm.DB {
			return db.Order("seq ASC")
		})
}

// hydrate resolves every referenced recipe with one catalog lookup
func (r *MealPlanRepository) hydrate(ctx context.Context, models []MealPlanModel) ([]*mealplan.Plan, error) {
	seen := make(map[string]struct{})
	var ids []string
	for i := range models {
		for _, id := range models[i].RecipeIDs() {
			if _, ok := seen[id]; !ok {
				seen[id] = struct{}{}
				ids = append(ids, id)
			}
		}
	}

	found, err := r.recipes.FindByIDs(ctx, ids)
	if err != nil {
		return nil, fmt.Errorf("load plan recipes: %w", err)
	}
	byID := make(map[string]*recipe.Recipe, len(found))
	for _, rec := range found {
		byID[rec.ID()] = rec
	}

	plans := make([]*mealplan.Plan, 0, len(models))
	for i := range models {
		p, err := ModelToPlan(&models[i], byID)
		if err != nil {
			return nil, err
		}
		plans = append(plans, p)
	}
	return plans, nil
}
