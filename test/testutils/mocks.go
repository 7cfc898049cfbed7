// Package testutils provides mock implementations for testing
package testutils

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"

	"github.com/robloxdeveloper2/Foodi-Backup-sub002/internal/domain/grocery"
	"github.com/robloxdeveloper2/Foodi-Backup-sub002/internal/domain/mealplan"
	"github.com/robloxdeveloper2/Foodi-Backup-sub002/internal/domain/preference"
	"github.com/robloxdeveloper2/Foodi-Backup-sub002/internal/domain/recipe"
	"github.com/robloxdeveloper2/Foodi-Backup-sub002/internal/domain/shared"
	"github.com/robloxdeveloper2/Foodi-Backup-sub002/internal/domain/user"
	"github.com/robloxdeveloper2/Foodi-Backup-sub002/internal/ports/inbound"
	"github.com/robloxdeveloper2/Foodi-Backup-sub002/internal/ports/outbound"
)

// MockRecipeRepository provides a mock implementation of RecipeRepository
type MockRecipeRepository struct {
	mock.Mock
}

var _ outbound.RecipeRepository = (*MockRecipeRepository)(nil)

// FindByID finds a recipe by ID
func (m *MockRecipeRepository) FindByID(ctx context.Context, id string) (*recipe.Recipe, error) {
	args := m.Called(ctx, id)
	if r, ok := args.Get(0).(*recipe.Recipe); ok {
		return r, args.Error(1)
	}
	return nil, args.Error(1)
}

// FindByIDs finds recipes by ID
func (m *MockRecipeRepository) FindByIDs(ctx context.Context, ids []string) ([]*recipe.Recipe, error) {
	args := m.Called(ctx, ids)
	rs, _ := args.Get(0).([]*recipe.Recipe)
	return rs, args.Error(1)
}

// List lists catalog recipes
func (m *MockRecipeRepository) List(ctx context.Context, filter outbound.RecipeFilter) ([]*recipe.Recipe, error) {
	args := m.Called(ctx, filter)
	rs, _ := args.Get(0).([]*recipe.Recipe)
	return rs, args.Error(1)
}

// BulkCreate stores recipes
func (m *MockRecipeRepository) BulkCreate(ctx context.Context, recipes []*recipe.Recipe) error {
	return m.Called(ctx, recipes).Error(0)
}

// MockUserProfileRepository provides a mock implementation of UserProfileRepository
type MockUserProfileRepository struct {
	mock.Mock
}

var _ outbound.UserProfileRepository = (*MockUserProfileRepository)(nil)

// FindByID finds a profile
func (m *MockUserProfileRepository) FindByID(ctx context.Context, userID string) (*user.Profile, error) {
	args := m.Called(ctx, userID)
	if p, ok := args.Get(0).(*user.Profile); ok {
		return p, args.Error(1)
	}
	return nil, args.Error(1)
}

// Save stores a profile
func (m *MockUserProfileRepository) Save(ctx context.Context, profile *user.Profile) error {
	return m.Called(ctx, profile).Error(0)
}

// MockPreferenceRepository provides a mock implementation of PreferenceRepository
type MockPreferenceRepository struct {
	mock.Mock
}

var _ outbound.PreferenceRepository = (*MockPreferenceRepository)(nil)

// Load loads a preference state
func (m *MockPreferenceRepository) Load(ctx context.Context, userID string) (*preference.State, error) {
	args := m.Called(ctx, userID)
	if s, ok := args.Get(0).(*preference.State); ok {
		return s, args.Error(1)
	}
	return nil, args.Error(1)
}

// Save stores a preference state
func (m *MockPreferenceRepository) Save(ctx context.Context, state *preference.State) error {
	return m.Called(ctx, state).Error(0)
}

// MockMealPlanRepository provides a mock implementation of MealPlanRepository
type MockMealPlanRepository struct {
	mock.Mock
}

var _ outbound.MealPlanRepository = (*MockMealPlanRepository)(nil)

// Save stores a plan
func (m *MockMealPlanRepository) Save(ctx context.Context, plan *mealplan.Plan) error {
	return m.Called(ctx, plan).Error(0)
}

// FindByID finds a plan
func (m *MockMealPlanRepository) FindByID(ctx context.Context, id uuid.UUID) (*mealplan.Plan, error) {
	args := m.Called(ctx, id)
	if p, ok := args.Get(0).(*mealplan.Plan); ok {
		return p, args.Error(1)
	}
	return nil, args.Error(1)
}

// FindRecentByUser lists recent plans
func (m *MockMealPlanRepository) FindRecentByUser(ctx context.Context, userID string, since time.Time, limit int) ([]*mealplan.Plan, error) {
	args := m.Called(ctx, userID, since, limit)
	ps, _ := args.Get(0).([]*mealplan.Plan)
	return ps, args.Error(1)
}

// MockGroceryListRepository provides a mock implementation of GroceryListRepository
type MockGroceryListRepository struct {
	mock.Mock
}

var _ outbound.GroceryListRepository = (*MockGroceryListRepository)(nil)

// LoadOverlay loads an overlay
func (m *MockGroceryListRepository) LoadOverlay(ctx context.Context, planID uuid.UUID) (grocery.Overlay, error) {
	args := m.Called(ctx, planID)
	o, _ := args.Get(0).(grocery.Overlay)
	return o, args.Error(1)
}

// SaveOverlay stores an overlay
func (m *MockGroceryListRepository) SaveOverlay(ctx context.Context, overlay grocery.Overlay) error {
	return m.Called(ctx, overlay).Error(0)
}

// MockCacheRepository provides a mock implementation of CacheRepository
type MockCacheRepository struct {
	mock.Mock
}

var _ outbound.CacheRepository = (*MockCacheRepository)(nil)

// Get reads a key
func (m *MockCacheRepository) Get(ctx context.Context, key string) ([]byte, error) {
	args := m.Called(ctx, key)
	b, _ := args.Get(0).([]byte)
	return b, args.Error(1)
}

// Set writes a key
func (m *MockCacheRepository) Set(ctx context.Context, key string, value []byte, ttl time.Duration) error {
	return m.Called(ctx, key, value, ttl).Error(0)
}

// Delete removes a key
func (m *MockCacheRepository) Delete(ctx context.Context, key string) error {
	return m.Called(ctx, key).Error(0)
}

// Exists checks a key
func (m *MockCacheRepository) Exists(ctx context.Context, key string) (bool, error) {
	args := m.Called(ctx, key)
	return args.Bool(0), args.Error(1)
}

// MockEventPublisher records published events
type MockEventPublisher struct {
	mock.Mock
}

var _ outbound.EventPublisher = (*MockEventPublisher)(nil)

// Publish publishes events
func (m *MockEventPublisher) Publish(ctx context.Context, events ...shared.DomainEvent) error {
	return m.Called(ctx, events).Error(0)
}

// EventNames returns the names of every event passed to Publish
func (m *MockEventPublisher) EventNames() []string {
	var names []string
	for _, call := range m.Calls {
		if call.Method != "Publish" {
			continue
		}
		for _, e := range call.Arguments.Get(1).([]shared.DomainEvent) {
			names = append(names, e.EventName())
		}
	}
	return names
}

// MockPlannerService provides a mock implementation of inbound.PlannerService
type MockPlannerService struct {
	mock.Mock
}

var _ inbound.PlannerService = (*MockPlannerService)(nil)

func (m *MockPlannerService) plan(args mock.Arguments) (*inbound.MealPlanDTO, error) {
	p, _ := args.Get(0).(*inbound.MealPlanDTO)
	return p, args.Error(1)
}

func (m *MockPlannerService) list(args mock.Arguments) (*inbound.GroceryListDTO, error) {
	l, _ := args.Get(0).(*inbound.GroceryListDTO)
	return l, args.Error(1)
}

// GeneratePlan generates a plan
func (m *MockPlannerService) GeneratePlan(ctx context.Context, cmd inbound.GeneratePlanCommand) (*inbound.MealPlanDTO, error) {
	return m.plan(m.Called(ctx, cmd))
}

// ApplySubstitution replaces a meal
func (m *MockPlannerService) ApplySubstitution(ctx context.Context, cmd inbound.ApplySubstitutionCommand) (*inbound.MealPlanDTO, error) {
	return m.plan(m.Called(ctx, cmd))
}

// UndoLastSubstitution reverts the latest substitution
func (m *MockPlannerService) UndoLastSubstitution(ctx context.Context, planID uuid.UUID) (*inbound.MealPlanDTO, error) {
	return m.plan(m.Called(ctx, planID))
}

// AddGroceryItem adds a custom item
func (m *MockPlannerService) AddGroceryItem(ctx context.Context, cmd inbound.AddGroceryItemCommand) (*inbound.GroceryListDTO, error) {
	return m.list(m.Called(ctx, cmd))
}

// RemoveGroceryItem removes a custom item
func (m *MockPlannerService) RemoveGroceryItem(ctx context.Context, planID uuid.UUID, key string) (*inbound.GroceryListDTO, error) {
	return m.list(m.Called(ctx, planID, key))
}

// ToggleGroceryItem flips an item's checked flag
func (m *MockPlannerService) ToggleGroceryItem(ctx context.Context, planID uuid.UUID, key string) (*inbound.GroceryListDTO, error) {
	return m.list(m.Called(ctx, planID, key))
}

// ComputeTargets computes daily targets
func (m *MockPlannerService) ComputeTargets(ctx context.Context, userID string) (*inbound.TargetsDTO, error) {
	args := m.Called(ctx, userID)
	t, _ := args.Get(0).(*inbound.TargetsDTO)
	return t, args.Error(1)
}

// GetPlan loads a plan
func (m *MockPlannerService) GetPlan(ctx context.Context, planID uuid.UUID) (*inbound.MealPlanDTO, error) {
	return m.plan(m.Called(ctx, planID))
}

// GetSubstitutes ranks replacements
func (m *MockPlannerService) GetSubstitutes(ctx context.Context, query inbound.SubstitutesQuery) ([]inbound.SubstituteDTO, error) {
	args := m.Called(ctx, query)
	subs, _ := args.Get(0).([]inbound.SubstituteDTO)
	return subs, args.Error(1)
}

// PreviewSubstitution previews a replacement
func (m *MockPlannerService) PreviewSubstitution(ctx context.Context, query inbound.PreviewQuery) (*inbound.ImpactDTO, error) {
	args := m.Called(ctx, query)
	i, _ := args.Get(0).(*inbound.ImpactDTO)
	return i, args.Error(1)
}

// GetGroceryList builds the grocery list
func (m *MockPlannerService) GetGroceryList(ctx context.Context, planID uuid.UUID) (*inbound.GroceryListDTO, error) {
	return m.list(m.Called(ctx, planID))
}

// MockPreferenceService provides a mock implementation of inbound.PreferenceService
type MockPreferenceService struct {
	mock.Mock
}

var _ inbound.PreferenceService = (*MockPreferenceService)(nil)

// RecordFeedback records one feedback event
func (m *MockPreferenceService) RecordFeedback(ctx context.Context, cmd inbound.FeedbackCommand) (*inbound.PreferencesDTO, error) {
	args := m.Called(ctx, cmd)
	p, _ := args.Get(0).(*inbound.PreferencesDTO)
	return p, args.Error(1)
}

// GetPreferences loads the preference state
func (m *MockPreferenceService) GetPreferences(ctx context.Context, userID string) (*inbound.PreferencesDTO, error) {
	args := m.Called(ctx, userID)
	p, _ := args.Get(0).(*inbound.PreferencesDTO)
	return p, args.Error(1)
}

// MockProfileService provides a mock implementation of inbound.ProfileService
type MockProfileService struct {
	mock.Mock
}

var _ inbound.ProfileService = (*MockProfileService)(nil)

// GetProfile loads a profile
func (m *MockProfileService) GetProfile(ctx context.Context, userID string) (*inbound.ProfileDTO, error) {
	args := m.Called(ctx, userID)
	p, _ := args.Get(0).(*inbound.ProfileDTO)
	return p, args.Error(1)
}

// SaveProfile stores a profile
func (m *MockProfileService) SaveProfile(ctx context.Context, cmd inbound.SaveProfileCommand) (*inbound.ProfileDTO, error) {
	args := m.Called(ctx, cmd)
	p, _ := args.Get(0).(*inbound.ProfileDTO)
	return p, args.Error(1)
}

// MockCatalogService provides a mock implementation of inbound.CatalogService
type MockCatalogService struct {
	mock.Mock
}

var _ inbound.CatalogService = (*MockCatalogService)(nil)

// ListRecipes lists catalog recipes
func (m *MockCatalogService) ListRecipes(ctx context.Context, query inbound.RecipeQuery) ([]inbound.RecipeSummaryDTO, error) {
	args := m.Called(ctx, query)
	rs, _ := args.Get(0).([]inbound.RecipeSummaryDTO)
	return rs, args.Error(1)
}

// GetRecipe loads one recipe
func (m *MockCatalogService) GetRecipe(ctx context.Context, recipeID string) (*inbound.RecipeDTO, error) {
	args := m.Called(ctx, recipeID)
	r, _ := args.Get(0).(*inbound.RecipeDTO)
	return r, args.Error(1)
}
