// Package outbound defines the interfaces for outbound ports (secondary/driven adapters)
// These are the interfaces that the application uses to interact with external systems
package outbound

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"

	"github.com/robloxdeveloper2/Foodi-Backup-sub002/internal/domain/grocery"
	"github.com/robloxdeveloper2/Foodi-Backup-sub002/internal/domain/mealplan"
	"github.com/robloxdeveloper2/Foodi-Backup-sub002/internal/domain/preference"
	"github.com/robloxdeveloper2/Foodi-Backup-sub002/internal/domain/recipe"
	"github.com/robloxdeveloper2/Foodi-Backup-sub002/internal/domain/shared"
	"github.com/robloxdeveloper2/Foodi-Backup-sub002/internal/domain/user"
)

// RecipeRepository defines the interface for the read-only recipe catalog
type RecipeRepository interface {
	FindByID(ctx context.Context, id string) (*recipe.Recipe, error)
	FindByIDs(ctx context.Context, ids []string) ([]*recipe.Recipe, error)

	// List returns catalog recipes matching the filter ordered by id
	List(ctx context.Context, filter RecipeFilter) ([]*recipe.Recipe, error)

	// BulkCreate is used by seeding and imports
	BulkCreate(ctx context.Context, recipes []*recipe.Recipe) error
}

// RecipeFilter narrows catalog reads. Zero values match everything.
type RecipeFilter struct {
	MealTypes []recipe.MealType
	Cuisines  []recipe.CuisineType
	// DietaryTags must all be present on the recipe
	DietaryTags       []string
	MaxCostPerServing float64
	Limit             int
}

// UserProfileRepository reads profile snapshots owned by user management
type UserProfileRepository interface {
	FindByID(ctx context.Context, userID string) (*user.Profile, error)
	Save(ctx context.Context, profile *user.Profile) error
}

// PreferenceRepository persists preference state snapshots
type PreferenceRepository interface {
	// Load returns an empty state when the user has no history
	Load(ctx context.Context, userID string) (*preference.State, error)
	Save(ctx context.Context, state *preference.State) error
}

// MealPlanRepository persists plans together with their substitution history
type MealPlanRepository interface {
	Save(ctx context.Context, plan *mealplan.Plan) error
	FindByID(ctx context.Context, id uuid.UUID) (*mealplan.Plan, error)
	// FindRecentByUser returns plans starting on or after since, newest first
	FindRecentByUser(ctx context.Context, userID string, since time.Time, limit int) ([]*mealplan.Plan, error)
}

// GroceryListRepository stores the user overlay of a derived grocery list
type GroceryListRepository interface {
	// LoadOverlay returns an empty overlay when nothing was saved
	LoadOverlay(ctx context.Context, planID uuid.UUID) (grocery.Overlay, error)
	SaveOverlay(ctx context.Context, overlay grocery.Overlay) error
}

// ErrCacheMiss is returned by CacheRepository.Get for absent or expired keys
var ErrCacheMiss = errors.New("cache miss")

// CacheRepository defines the interface for caching
type CacheRepository interface {
	// Get returns ErrCacheMiss when the key is absent or expired
	Get(ctx context.Context, key string) ([]byte, error)
	Set(ctx context.Context, key string, value []byte, ttl time.Duration) error
	Delete(ctx context.Context, key string) error
	Exists(ctx context.Context, key string) (bool, error)
}

// EventPublisher forwards domain events raised by aggregates
type EventPublisher interface {
	Publish(ctx context.Context, events ...shared.DomainEvent) error
}
