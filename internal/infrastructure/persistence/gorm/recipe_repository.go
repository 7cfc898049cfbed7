// Package gorm provides GORM-based repository implementations
package gorm

import (
	"context"
	"errors"
	"fmt"

	lru "github.com/hashicorp/golang-lru/v2"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/robloxdeveloper2/Foodi-Backup-sub002/internal/domain/recipe"
	"github.com/robloxdeveloper2/Foodi-Backup-sub002/internal/ports/outbound"
)

const defaultRecipeCacheSize = 1024

// RecipeRepository implements the recipe repository interface using GORM.
// Recipes are immutable reference data so lookups by id are kept in an LRU.
type RecipeRepository struct {
	db    *gorm.DB
	cache *lru.Cache[string, *recipe.Recipe]
}

// NewRecipeRepository creates a new recipe repository. cacheSize <= 0 uses the default.
func NewRecipeRepository(db *gorm.DB, cacheSize int) *RecipeRepository {
	if cacheSize <= 0 {
		cacheSize = defaultRecipeCacheSize
	}
	// lru.New only fails on a non-positive size
	cache, _ := lru.New[string, *recipe.Recipe](cacheSize)
	return &RecipeRepository{db: db, cache: cache}
}

var _ outbound.RecipeRepository = (*RecipeRepository)(nil)

// FindByID finds a recipe by ID
func (r *RecipeRepository) FindByID(ctx context.Context, id string) (*recipe.Recipe, error) {
	if cached, ok := r.cache.Get(id); ok {
		return cached, nil
	}

	var model RecipeModel
	result := r.db.WithContext(ctx).First(&model, "id = ?", id)
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return nil, recipe.ErrRecipeNotFound
		}
		return nil, result.Error
	}

	rec, err := ModelToRecipe(&model)
	if err != nil {
		return nil, err
	}
	r.cache.Add(id, rec)
	return rec, nil
}

// FindByIDs returns the recipes that exist among ids, in no particular order
func (r *RecipeRepository) FindByIDs(ctx context.Context, ids []string) ([]*recipe.Recipe, error) {
	out := make([]*recipe.Recipe, 0, len(ids))
	var missing []string
	for _, id := range ids {
		if cached, ok := r.cache.Get(id); ok {
			out = append(out, cached)
			continue
		}
		missing = append(missing, id)
	}
	if len(missing) == 0 {
		return out, nil
	}

	var models []RecipeModel
	if err := r.db.WithContext(ctx).Where("id IN ?", missing).Find(&models).Error; err != nil {
		return nil, err
	}
	for i := range models {
		rec, err := ModelToRecipe(&models[i])
		if err != nil {
			return nil, err
		}
		r.cache.Add(rec.ID(), rec)
		out = append(out, rec)
	}
	return out, nil
}

// List returns catalog recipes matching the filter, ordered by id
func (r *RecipeRepository) List(ctx context.Context, filter outbound.RecipeFilter) ([]*recipe.Recipe, error) {
	query := r.db.WithContext(ctx).Model(&RecipeModel{})

	if len(filter.MealTypes) > 0 {
		types := make([]string, len(filter.MealTypes))
		for i, mt := range filter.MealTypes {
			types[i] = string(mt)
		}
		query = query.Where("meal_type IN ?", types)
	}
	if len(filter.Cuisines) > 0 {
		cuisines := make([]string, len(filter.Cuisines))
		for i, c := range filter.Cuisines {
			cuisines[i] = string(c)
		}
		query = query.Where("cuisine IN ?", cuisines)
	}
	if filter.MaxCostPerServing > 0 {
		query = query.Where("cost_per_serving <= ?", filter.MaxCostPerServing)
	}
	// Tags live in a JSON column, so the limit can only be applied after tag filtering
	if filter.Limit > 0 && len(filter.DietaryTags) == 0 {
		query = query.Limit(filter.Limit)
	}

	var models []RecipeModel
	if err := query.Order("id").Find(&models).Error; err != nil {
		return nil, err
	}

	out := make([]*recipe.Recipe, 0, len(models))
	for i := range models {
		rec, err := ModelToRecipe(&models[i])
		if err != nil {
			return nil, err
		}
		if !rec.SatisfiesAll(filter.DietaryTags) {
			continue
		}
		out = append(out, rec)
		if filter.Limit > 0 && len(out) == filter.Limit {
			break
		}
	}
	return out, nil
}

// BulkCreate upserts recipes in batches
func (r *RecipeRepository) BulkCreate(ctx context.Context, recipes []*recipe.Recipe) error {
	if len(recipes) == 0 {
		return nil
	}
	models := make([]*RecipeModel, len(recipes))
	for i, rec := range recipes {
		models[i] = RecipeToModel(rec)
	}

	err := r.db.WithContext(ctx).
		Clauses(clause.OnConflict{UpdateAll: true}).
		CreateInBatches(models, 100).Error
	if err != nil {
		return fmt.Errorf("bulk create recipes: %w", err)
	}
	for _, rec := range recipes {
		r.cache.Remove(rec.ID())
	}
	return nil
}
