package inbound

import "context"

// ProfileService manages the profile snapshots the planner reads
type ProfileService interface {
	GetProfile(ctx context.Context, userID string) (*ProfileDTO, error)
	// SaveProfile creates or replaces the whole profile
	SaveProfile(ctx context.Context, cmd SaveProfileCommand) (*ProfileDTO, error)
}

// CatalogService browses the recipe catalog
type CatalogService interface {
	ListRecipes(ctx context.Context, query RecipeQuery) ([]RecipeSummaryDTO, error)
	GetRecipe(ctx context.Context, recipeID string) (*RecipeDTO, error)
}

// SaveProfileCommand carries a complete profile. Zero values fall back to
// the domain defaults (maintenance goal, one serving).
type SaveProfileCommand struct {
	UserID              string
	DietaryRestrictions []string
	Budget              BudgetDTO
	Goal                string
	CookingLevel        string
	Biometrics          *BiometricsDTO
	DailyCalories       float64
	LikedCuisines       []string
	DislikedCuisines    []string
	LikedIngredients    []string
	DislikedIngredients []string
	Servings            int
	IncludeSnacks       bool
}

// RecipeQuery narrows a catalog listing. When UserID is set the user's
// dietary restrictions and per-meal ceiling are applied as well.
type RecipeQuery struct {
	MealType          string
	Cuisine           string
	DietaryTags       []string
	MaxCostPerServing float64
	UserID            string
	Limit             int
}

// BudgetDTO is a period amount or a per-meal range
type BudgetDTO struct {
	Amount     float64 `json:"amount,omitempty"`
	Currency   string  `json:"currency,omitempty"`
	Period     string  `json:"period,omitempty"`
	PerMealMin float64 `json:"per_meal_min,omitempty"`
	PerMealMax float64 `json:"per_meal_max,omitempty"`
}

// BiometricsDTO are the optional inputs of calorie estimation
type BiometricsDTO struct {
	WeightKG      float64 `json:"weight_kg"`
	HeightCM      float64 `json:"height_cm"`
	Age           int     `json:"age"`
	Sex           string  `json:"sex"`
	ActivityLevel string  `json:"activity_level"`
}

// ProfileDTO exposes a stored profile
type ProfileDTO struct {
	UserID              string         `json:"user_id"`
	DietaryRestrictions []string       `json:"dietary_restrictions"`
	Budget              BudgetDTO      `json:"budget"`
	Goal                string         `json:"goal"`
	CookingLevel        string         `json:"cooking_level,omitempty"`
	Biometrics          *BiometricsDTO `json:"biometrics,omitempty"`
	DailyCalories       float64        `json:"daily_calories,omitempty"`
	LikedCuisines       []string       `json:"liked_cuisines,omitempty"`
	DislikedCuisines    []string       `json:"disliked_cuisines,omitempty"`
	LikedIngredients    []string       `json:"liked_ingredients,omitempty"`
	DislikedIngredients []string       `json:"disliked_ingredients,omitempty"`
	Servings            int            `json:"servings"`
	IncludeSnacks       bool           `json:"include_snacks"`
}

// IngredientDTO is one line of a recipe
type IngredientDTO struct {
	Name     string  `json:"name"`
	Label    string  `json:"label"`
	Quantity float64 `json:"quantity"`
	Unit     string  `json:"unit,omitempty"`
}

// RecipeDTO is the full catalog entry
type RecipeDTO struct {
	RecipeSummaryDTO
	Servings        int             `json:"servings"`
	PrepTimeMinutes int             `json:"prep_time_minutes"`
	CookTimeMinutes int             `json:"cook_time_minutes"`
	Difficulty      string          `json:"difficulty,omitempty"`
	Ingredients     []IngredientDTO `json:"ingredients"`
}
