// Package gorm provides GORM model definitions for the application
package gorm

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
)

// RecipeModel represents the GORM model for catalog recipes
type RecipeModel struct {
	ID         string `gorm:"type:varchar(64);primaryKey"`
	Name       string `gorm:"type:varchar(200);not null"`
	MealType   string `gorm:"type:varchar(20);not null;index"`
	Cuisine    string `gorm:"type:varchar(50);index"`
	Difficulty string `gorm:"type:varchar(20)"`

	Ingredients IngredientList `gorm:"type:text"`
	DietaryTags StringSlice    `gorm:"type:text"`

	// Nutrition per serving
	Calories float64 `gorm:"not null;default:0"`
	ProteinG float64 `gorm:"column:protein_g;default:0"`
	CarbsG   float64 `gorm:"column:carbs_g;default:0"`
	FatG     float64 `gorm:"column:fat_g;default:0"`

	CostPerServing  float64 `gorm:"not null;default:0;index"`
	Servings        int     `gorm:"default:1"`
	PrepTimeMinutes int     `gorm:"column:prep_time_minutes;default:0"`
	CookTimeMinutes int     `gorm:"column:cook_time_minutes;default:0"`

	CreatedAt time.Time
	UpdatedAt time.Time
}

// UserProfileModel represents the planning profile of a user
type UserProfileModel struct {
	ID                  string      `gorm:"type:varchar(64);primaryKey"`
	DietaryRestrictions StringSlice `gorm:"type:text"`

	BudgetAmount     float64 `gorm:"default:0"`
	BudgetCurrency   string  `gorm:"type:varchar(3)"`
	BudgetPeriod     string  `gorm:"type:varchar(10)"`
	BudgetPerMealMin float64 `gorm:"default:0"`
	BudgetPerMealMax float64 `gorm:"default:0"`

	Goal          string         `gorm:"type:varchar(20);not null"`
	CookingLevel  string         `gorm:"type:varchar(20)"`
	Biometrics    *BiometricsRow `gorm:"type:text"`
	DailyCalories float64        `gorm:"default:0"`

	LikedCuisines       StringSlice `gorm:"type:text"`
	DislikedCuisines    StringSlice `gorm:"type:text"`
	LikedIngredients    StringSlice `gorm:"type:text"`
	DislikedIngredients StringSlice `gorm:"type:text"`

	Servings      int  `gorm:"default:1"`
	IncludeSnacks bool `gorm:"default:false"`

	CreatedAt time.Time
	UpdatedAt time.Time
}

// PreferenceModel stores the learned preference snapshot of a user
type PreferenceModel struct {
	UserID    string `gorm:"type:varchar(64);primaryKey"`
	Snapshot  string `gorm:"type:text;not null"`
	Version   int    `gorm:"default:0"`
	UpdatedAt time.Time
}

// MealPlanModel represents a stored plan version
type MealPlanModel struct {
	ID        uuid.UUID `gorm:"type:char(36);primaryKey"`
	UserID    string    `gorm:"type:varchar(64);not null;index:idx_meal_plans_user_end"`
	StartDate time.Time `gorm:"not null"`
	// EndDate is the day after the last planned day
	EndDate  time.Time `gorm:"not null;index:idx_meal_plans_user_end"`
	Days     int       `gorm:"not null"`
	Servings int       `gorm:"default:1"`

	Targets        TargetRow `gorm:"type:text"`
	Budget         float64   `gorm:"default:0"`
	PerMealCeiling float64   `gorm:"default:0"`

	GoalsNotMet bool        `gorm:"default:false;index"`
	Reasons     StringSlice `gorm:"type:text"`
	Notes       StringSlice `gorm:"type:text"`
	Version     int         `gorm:"default:1"`

	CreatedAt time.Time `gorm:"index"`
	UpdatedAt time.Time

	Slots         []MealPlanSlotModel `gorm:"foreignKey:PlanID;constraint:OnDelete:CASCADE"`
	Substitutions []SubstitutionModel `gorm:"foreignKey:PlanID;constraint:OnDelete:CASCADE"`
}

// MealPlanSlotModel is one planned meal
type MealPlanSlotModel struct {
	PlanID   uuid.UUID `gorm:"type:char(36);primaryKey"`
	Day      int       `gorm:"primaryKey"`
	MealType string    `gorm:"type:varchar(20);primaryKey"`
	RecipeID string    `gorm:"type:varchar(64);not null;index"`
	Servings int       `gorm:"not null"`
}

// SubstitutionModel is one entry of a plan's substitution history
type SubstitutionModel struct {
	PlanID        uuid.UUID `gorm:"type:char(36);primaryKey"`
	Seq           int       `gorm:"primaryKey"`
	Day           int       `gorm:"not null"`
	MealType      string    `gorm:"type:varchar(20);not null"`
	PreviousID    string    `gorm:"column:previous_recipe_id;type:varchar(64);not null"`
	ReplacementID string    `gorm:"column:replacement_recipe_id;type:varchar(64);not null"`
	Reason        string    `gorm:"type:text"`
	At            time.Time `gorm:"not null"`
}

// GroceryOverlayModel stores the user edits layered on a derived grocery list
type GroceryOverlayModel struct {
	PlanID    uuid.UUID      `gorm:"type:char(36);primaryKey"`
	Checked   StringSlice    `gorm:"type:text"`
	Custom    CustomItemList `gorm:"type:text"`
	UpdatedAt time.Time
}

// StringSlice custom type for handling string slices in JSON
type StringSlice []string

// Scan implements the sql.Scanner interface
func (s *StringSlice) Scan(value interface{}) error {
	if value == nil {
		*s = StringSlice{}
		return nil
	}
	return scanJSON(value, s)
}

// Value implements the driver.Valuer interface
func (s StringSlice) Value() (driver.Value, error) {
	if len(s) == 0 {
		return "[]", nil
	}
	return jsonValue(s)
}

// IngredientRow is the stored form of a recipe ingredient
type IngredientRow struct {
	Name        string  `json:"name"`
	Quantity    float64 `json:"quantity"`
	Unit        string  `json:"unit,omitempty"`
	DisplayName string  `json:"display_name,omitempty"`
}

// IngredientList custom type for a JSON ingredient column
type IngredientList []IngredientRow

// Scan implements the sql.Scanner interface
func (l *IngredientList) Scan(value interface{}) error {
	if value == nil {
		*l = IngredientList{}
		return nil
	}
	return scanJSON(value, l)
}

// Value implements the driver.Valuer interface
func (l IngredientList) Value() (driver.Value, error) {
	if len(l) == 0 {
		return "[]", nil
	}
	return jsonValue(l)
}

// BiometricsRow is the stored form of optional biometrics
type BiometricsRow struct {
	WeightKG      float64 `json:"weight_kg"`
	HeightCM      float64 `json:"height_cm"`
	Age           int     `json:"age"`
	Sex           string  `json:"sex"`
	ActivityLevel string  `json:"activity_level"`
}

// Scan implements the sql.Scanner interface
func (b *BiometricsRow) Scan(value interface{}) error {
	if value == nil {
		return nil
	}
	return scanJSON(value, b)
}

// Value implements the driver.Valuer interface
func (b *BiometricsRow) Value() (driver.Value, error) {
	if b == nil {
		return nil, nil
	}
	return jsonValue(b)
}

// TargetRow is the stored daily nutrition target of a plan
type TargetRow struct {
	Calories  float64 `json:"calories"`
	ProteinG  float64 `json:"protein_g"`
	CarbsG    float64 `json:"carbs_g"`
	FatG      float64 `json:"fat_g"`
	Estimated bool    `json:"estimated,omitempty"`
}

// Scan implements the sql.Scanner interface
func (t *TargetRow) Scan(value interface{}) error {
	if value == nil {
		*t = TargetRow{}
		return nil
	}
	return scanJSON(value, t)
}

// Value implements the driver.Valuer interface
func (t TargetRow) Value() (driver.Value, error) {
	return jsonValue(t)
}

// CustomItemRow is the stored form of a user-added grocery line
type CustomItemRow struct {
	Name          string  `json:"name"`
	Quantity      float64 `json:"quantity,omitempty"`
	Unit          string  `json:"unit,omitempty"`
	Category      string  `json:"category,omitempty"`
	EstimatedCost float64 `json:"estimated_cost,omitempty"`
}

// CustomItemList custom type for a JSON list of custom grocery lines
type CustomItemList []CustomItemRow

// Scan implements the sql.Scanner interface
func (l *CustomItemList) Scan(value interface{}) error {
	if value == nil {
		*l = CustomItemList{}
		return nil
	}
	return scanJSON(value, l)
}

// Value implements the driver.Valuer interface
func (l CustomItemList) Value() (driver.Value, error) {
	if len(l) == 0 {
		return "[]", nil
	}
	return jsonValue(l)
}

func scanJSON(value interface{}, dst interface{}) error {
	switch v := value.(type) {
	case []byte:
		return json.Unmarshal(v, dst)
	case string:
		return json.Unmarshal([]byte(v), dst)
	default:
		return fmt.Errorf("cannot scan %T into %T", value, dst)
	}
}

func jsonValue(v interface{}) (driver.Value, error) {
	b, err := json.Marshal(v)
	if err != nil {
		return nil, err
	}
	return string(b), nil
}

// Models lists every model for AutoMigrate
func Models() []interface{} {
	return []interface{}{
		&RecipeModel{},
		&UserProfileModel{},
		&PreferenceModel{},
		&MealPlanModel{},
		&MealPlanSlotModel{},
		&SubstitutionModel{},
		&GroceryOverlayModel{},
	}
}

// TableName methods for custom table names
func (RecipeModel) TableName() string {
	return "recipes"
}

func (UserProfileModel) TableName() string {
	return "user_profiles"
}

func (PreferenceModel) TableName() string {
	return "user_preferences"
}

func (MealPlanModel) TableName() string {
	return "meal_plans"
}

func (MealPlanSlotModel) TableName() string {
	return "meal_plan_slots"
}

func (SubstitutionModel) TableName() string {
	return "meal_plan_substitutions"
}

func (GroceryOverlayModel) TableName() string {
	return "grocery_overlays"
}
