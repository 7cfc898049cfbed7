// Package inbound defines the interfaces for inbound ports (primary/driving adapters)
// These are the interfaces that the application exposes to the outside world
package inbound

import (
	"context"

	"github.com/google/uuid"
)

// PlannerService defines the meal planning use cases.
// HTTP handlers and the demo command drive the engine through this port.
type PlannerService interface {
	// Commands - operations that modify state
	GeneratePlan(ctx context.Context, cmd GeneratePlanCommand) (*MealPlanDTO, error)
	ApplySubstitution(ctx context.Context, cmd ApplySubstitutionCommand) (*MealPlanDTO, error)
	UndoLastSubstitution(ctx context.Context, planID uuid.UUID) (*MealPlanDTO, error)

	// Grocery list overlay
	AddGroceryItem(ctx context.Context, cmd AddGroceryItemCommand) (*GroceryListDTO, error)
	RemoveGroceryItem(ctx context.Context, planID uuid.UUID, key string) (*GroceryListDTO, error)
	ToggleGroceryItem(ctx context.Context, planID uuid.UUID, key string) (*GroceryListDTO, error)

	// Queries - operations that read state
	ComputeTargets(ctx context.Context, userID string) (*TargetsDTO, error)
	GetPlan(ctx context.Context, planID uuid.UUID) (*MealPlanDTO, error)
	GetSubstitutes(ctx context.Context, query SubstitutesQuery) ([]SubstituteDTO, error)
	PreviewSubstitution(ctx context.Context, query PreviewQuery) (*ImpactDTO, error)
	GetGroceryList(ctx context.Context, planID uuid.UUID) (*GroceryListDTO, error)
}

// PreferenceService records feedback into the preference model
type PreferenceService interface {
	RecordFeedback(ctx context.Context, cmd FeedbackCommand) (*PreferencesDTO, error)
	GetPreferences(ctx context.Context, userID string) (*PreferencesDTO, error)
}

// Command objects for operations

// GeneratePlanCommand contains data for generating a plan
type GeneratePlanCommand struct {
	UserID       string
	DurationDays int
	// StartDate is YYYY-MM-DD; empty means today
	StartDate string
	// Servings and IncludeSnacks override the profile when set
	Servings      int
	IncludeSnacks *bool
}

// ApplySubstitutionCommand replaces one planned meal
type ApplySubstitutionCommand struct {
	PlanID   uuid.UUID
	Day      int
	MealType string
	RecipeID string
	Reason   string
}

// AddGroceryItemCommand adds a custom line to a plan's grocery list
type AddGroceryItemCommand struct {
	PlanID        uuid.UUID
	Name          string
	Quantity      float64
	Unit          string
	Category      string
	EstimatedCost float64
}

// FeedbackCommand carries one preference event. Type selects which of the
// remaining fields are read.
type FeedbackCommand struct {
	UserID     string
	Type       string
	RecipeID   string
	Action     string
	Stars      int
	Ingredient string
	Liked      bool
	Cuisine    string
	Score      int
	Bucket     string
}

// Query objects

// SubstitutesQuery selects the slot to find replacements for.
// Days are numbered from 1 on every inbound type.
type SubstitutesQuery struct {
	PlanID   uuid.UUID
	Day      int
	MealType string
	Limit    int
}

// PreviewQuery selects a slot and a candidate replacement
type PreviewQuery struct {
	PlanID   uuid.UUID
	Day      int
	MealType string
	RecipeID string
}

// Response DTOs

// TargetsDTO is a user's daily nutrition target
type TargetsDTO struct {
	UserID    string  `json:"user_id"`
	Calories  float64 `json:"calories"`
	ProteinG  float64 `json:"protein_g"`
	CarbsG    float64 `json:"carbs_g"`
	FatG      float64 `json:"fat_g"`
	Estimated bool    `json:"estimated"`
}

// NutritionDTO for nutrition information
type NutritionDTO struct {
	Calories float64 `json:"calories"`
	ProteinG float64 `json:"protein_g"`
	CarbsG   float64 `json:"carbs_g"`
	FatG     float64 `json:"fat_g"`
}

// RecipeSummaryDTO is the catalog data shown next to a planned meal
type RecipeSummaryDTO struct {
	ID               string       `json:"id"`
	Name             string       `json:"name"`
	MealType         string       `json:"meal_type"`
	Cuisine          string       `json:"cuisine,omitempty"`
	CostPerServing   float64      `json:"cost_per_serving"`
	TotalTimeMinutes int          `json:"total_time_minutes"`
	DietaryTags      []string     `json:"dietary_tags,omitempty"`
	Nutrition        NutritionDTO `json:"nutrition"`
}

// MealDTO is one filled slot
type MealDTO struct {
	MealType  string           `json:"meal_type"`
	Recipe    RecipeSummaryDTO `json:"recipe"`
	Servings  int              `json:"servings"`
	Cost      float64          `json:"cost"`
	Nutrition NutritionDTO     `json:"nutrition"`
}

// PlanDayDTO groups the meals of one day
type PlanDayDTO struct {
	Day       int          `json:"day"`
	Date      string       `json:"date"`
	Meals     []MealDTO    `json:"meals"`
	Nutrition NutritionDTO `json:"nutrition"`
	Cost      float64      `json:"cost"`
}

// SubstitutionDTO is one entry of a plan's substitution history
type SubstitutionDTO struct {
	Day        int    `json:"day"`
	MealType   string `json:"meal_type"`
	PreviousID string `json:"previous_recipe_id"`
	ReplacedBy string `json:"replacement_recipe_id"`
	Reason     string `json:"reason,omitempty"`
	At         string `json:"substituted_at"`
}

// MealPlanDTO is the data transfer object for meal plans
type MealPlanDTO struct {
	ID            uuid.UUID         `json:"id"`
	UserID        string            `json:"user_id"`
	StartDate     string            `json:"start_date"`
	DurationDays  int               `json:"duration_days"`
	Servings      int               `json:"servings"`
	Targets       NutritionDTO      `json:"daily_targets"`
	Budget        float64           `json:"budget"`
	TotalCost     float64           `json:"total_cost"`
	GoalsNotMet   bool              `json:"goals_not_met"`
	Reasons       []string          `json:"reasons,omitempty"`
	Notes         []string          `json:"notes,omitempty"`
	Days          []PlanDayDTO      `json:"days"`
	Substitutions []SubstitutionDTO `json:"substitutions,omitempty"`
	Version       int               `json:"version"`
	CreatedAt     string            `json:"created_at"`
}

// ImpactDTO previews the nutrition change of a substitution
type ImpactDTO struct {
	Delta     NutritionDTO `json:"delta"`
	CostDelta float64      `json:"cost_delta"`
	MaxShare  float64      `json:"max_share"`
	Level     string       `json:"level"`
}

// SubstituteDTO is a ranked replacement
type SubstituteDTO struct {
	Recipe RecipeSummaryDTO `json:"recipe"`
	Score  float64          `json:"score"`
	Impact ImpactDTO        `json:"impact"`
}

// GroceryItemDTO is one shopping line
type GroceryItemDTO struct {
	Key           string  `json:"key"`
	Name          string  `json:"name"`
	Quantity      float64 `json:"quantity"`
	Unit          string  `json:"unit,omitempty"`
	Description   string  `json:"description"`
	Category      string  `json:"category"`
	EstimatedCost float64 `json:"estimated_cost"`
	Checked       bool    `json:"checked"`
	IsCustom      bool    `json:"is_custom"`
}

// GroceryListDTO for a plan's shopping list
type GroceryListDTO struct {
	PlanID    uuid.UUID          `json:"plan_id"`
	Items     []GroceryItemDTO   `json:"items"`
	Subtotals map[string]float64 `json:"subtotals"`
	TotalCost float64            `json:"total_cost"`
}

// PreferencesDTO exposes the learned preference state
type PreferencesDTO struct {
	UserID      string          `json:"user_id"`
	Swipes      map[string]int  `json:"swipes"`
	Ratings     map[string]int  `json:"ratings"`
	Ingredients map[string]bool `json:"ingredients"`
	Cuisines    map[string]int  `json:"cuisines"`
	PrepTime    string          `json:"prep_time,omitempty"`
	Version     int             `json:"version"`
	UpdatedAt   string          `json:"updated_at,omitempty"`
}
