// Package user defines the user profile snapshot consumed by the planning engine
package user

import (
	"errors"
	"strings"
)

var (
	ErrMissingUserID     = errors.New("user id is required")
	ErrInvalidGoal       = errors.New("invalid nutritional goal")
	ErrInvalidBudget     = errors.New("budget amounts cannot be negative")
	ErrInvalidMealBudget = errors.New("per-meal minimum cannot exceed per-meal maximum")
	ErrInvalidServings   = errors.New("household servings must be greater than 0")
	ErrProfileNotFound   = errors.New("user profile not found")
)

// Profile is an immutable snapshot of the user attributes the engine needs.
// It is owned by the user-management collaborator.
type Profile struct {
	id            string
	restrictions  []DietaryRestriction
	budget        Budget
	goal          Goal
	cookingLevel  CookingLevel
	biometrics    *Biometrics
	dailyCalories float64

	likedCuisines       []string
	dislikedCuisines    []string
	likedIngredients    []string
	dislikedIngredients []string

	servings      int
	includeSnacks bool
}

// ProfileParams holds the attributes used to build a Profile
type ProfileParams struct {
	ID                  string
	DietaryRestrictions []DietaryRestriction
	Budget              Budget
	Goal                Goal
	CookingLevel        CookingLevel
	Biometrics          *Biometrics
	DailyCalories       float64 // explicit override, 0 = derive
	LikedCuisines       []string
	DislikedCuisines    []string
	LikedIngredients    []string
	DislikedIngredients []string
	Servings            int
	IncludeSnacks       bool
}

// Budget is either a period amount or a per-meal range
type Budget struct {
	Amount     float64      `json:"amount,omitempty"`
	Currency   string       `json:"currency,omitempty"`
	Period     BudgetPeriod `json:"period,omitempty"`
	PerMealMin float64      `json:"per_meal_min,omitempty"`
	PerMealMax float64      `json:"per_meal_max,omitempty"`
}

// IsSet reports whether any budget constraint is present
func (b Budget) IsSet() bool {
	return b.Amount > 0 || b.PerMealMax > 0
}

// PlanBudget returns the total budget for a plan of days with slots meals
func (b Budget) PlanBudget(days, slots int) float64 {
	if b.Amount > 0 {
		return b.Amount / float64(b.Period.Days()) * float64(days)
	}
	if b.PerMealMax > 0 {
		return (b.PerMealMin + b.PerMealMax) / 2 * float64(slots)
	}
	return 0
}

func (b Budget) validate() error {
	if b.Amount < 0 || b.PerMealMin < 0 || b.PerMealMax < 0 {
		return ErrInvalidBudget
	}
	if b.PerMealMax > 0 && b.PerMealMin > b.PerMealMax {
		return ErrInvalidMealBudget
	}
	return nil
}

// BudgetPeriod is the span a budget amount covers
type BudgetPeriod string

const (
	BudgetPeriodDaily   BudgetPeriod = "daily"
	BudgetPeriodWeekly  BudgetPeriod = "weekly"
	BudgetPeriodMonthly BudgetPeriod = "monthly"
)

// Days returns the number of days in the period; unknown periods count as weekly
func (p BudgetPeriod) Days() int {
	switch p {
	case BudgetPeriodDaily:
		return 1
	case BudgetPeriodMonthly:
		return 30
	default:
		return 7
	}
}

// Biometrics are optional body measurements used for calorie estimation
type Biometrics struct {
	WeightKG      float64       `json:"weight_kg"`
	HeightCM      float64       `json:"height_cm"`
	Age           int           `json:"age"`
	Sex           Sex           `json:"sex"`
	ActivityLevel ActivityLevel `json:"activity_level"`
}

// Complete reports whether every field needed for BMR is present
func (b *Biometrics) Complete() bool {
	return b != nil && b.WeightKG > 0 && b.HeightCM > 0 && b.Age > 0 && b.Age < 130 &&
		(b.Sex == SexMale || b.Sex == SexFemale)
}

// Sex for the Mifflin-St Jeor constant
type Sex string

const (
	SexMale   Sex = "male"
	SexFemale Sex = "female"
)

// ActivityLevel maps to a TDEE multiplier
type ActivityLevel string

const (
	ActivitySedentary  ActivityLevel = "sedentary"
	ActivityLight      ActivityLevel = "light"
	ActivityModerate   ActivityLevel = "moderate"
	ActivityActive     ActivityLevel = "active"
	ActivityVeryActive ActivityLevel = "very_active"
)

// Goal represents the user's nutritional goal
type Goal string

const (
	GoalWeightLoss  Goal = "weight_loss"
	GoalMaintenance Goal = "maintenance"
	GoalMuscleGain  Goal = "muscle_gain"
)

// Valid reports whether the goal is known
func (g Goal) Valid() bool {
	switch g {
	case GoalWeightLoss, GoalMaintenance, GoalMuscleGain:
		return true
	}
	return false
}

// CookingLevel represents a user's cooking skill level
type CookingLevel string

const (
	CookingLevelBeginner     CookingLevel = "beginner"
	CookingLevelIntermediate CookingLevel = "intermediate"
	CookingLevelAdvanced     CookingLevel = "advanced"
	CookingLevelProfessional CookingLevel = "professional"
)

// DietaryRestriction represents dietary restrictions
type DietaryRestriction string

const (
	DietaryRestrictionVegetarian DietaryRestriction = "vegetarian"
	DietaryRestrictionVegan      DietaryRestriction = "vegan"
	DietaryRestrictionGlutenFree DietaryRestriction = "gluten_free"
	DietaryRestrictionDairyFree  DietaryRestriction = "dairy_free"
	DietaryRestrictionKeto       DietaryRestriction = "keto"
	DietaryRestrictionPaleo      DietaryRestriction = "paleo"
	DietaryRestrictionHalal      DietaryRestriction = "halal"
	DietaryRestrictionKosher     DietaryRestriction = "kosher"
)

// NewProfile creates a profile snapshot with validation
func NewProfile(p ProfileParams) (*Profile, error) {
	if strings.TrimSpace(p.ID) == "" {
		return nil, ErrMissingUserID
	}
	goal := p.Goal
	if goal == "" {
		goal = GoalMaintenance
	}
	if !goal.Valid() {
		return nil, ErrInvalidGoal
	}
	if err := p.Budget.validate(); err != nil {
		return nil, err
	}
	servings := p.Servings
	if servings == 0 {
		servings = 1
	}
	if servings < 0 {
		return nil, ErrInvalidServings
	}

	restrictions := make([]DietaryRestriction, 0, len(p.DietaryRestrictions))
	seen := make(map[DietaryRestriction]struct{}, len(p.DietaryRestrictions))
	for _, r := range p.DietaryRestrictions {
		r = DietaryRestriction(strings.ToLower(strings.TrimSpace(string(r))))
		if r == "" {
			continue
		}
		if _, dup := seen[r]; dup {
			continue
		}
		seen[r] = struct{}{}
		restrictions = append(restrictions, r)
	}

	var bio *Biometrics
	if p.Biometrics != nil {
		b := *p.Biometrics
		bio = &b
	}

	return &Profile{
		id:                  p.ID,
		restrictions:        restrictions,
		budget:              p.Budget,
		goal:                goal,
		cookingLevel:        p.CookingLevel,
		biometrics:          bio,
		dailyCalories:       p.DailyCalories,
		likedCuisines:       lowerAll(p.LikedCuisines),
		dislikedCuisines:    lowerAll(p.DislikedCuisines),
		likedIngredients:    lowerAll(p.LikedIngredients),
		dislikedIngredients: lowerAll(p.DislikedIngredients),
		servings:            servings,
		includeSnacks:       p.IncludeSnacks,
	}, nil
}

// ID returns the user's ID
func (p *Profile) ID() string { return p.id }

// DietaryRestrictions returns the restriction tags
func (p *Profile) DietaryRestrictions() []DietaryRestriction {
	out := make([]DietaryRestriction, len(p.restrictions))
	copy(out, p.restrictions)
	return out
}

// RestrictionTags returns the restrictions as plain strings
func (p *Profile) RestrictionTags() []string {
	out := make([]string, len(p.restrictions))
	for i, r := range p.restrictions {
		out[i] = string(r)
	}
	return out
}

// Budget returns the budget
func (p *Profile) Budget() Budget { return p.budget }

// Goal returns the nutritional goal
func (p *Profile) Goal() Goal { return p.goal }

// CookingLevel returns the cooking experience level
func (p *Profile) CookingLevel() CookingLevel { return p.cookingLevel }

// Biometrics returns a copy of the biometrics, or nil
func (p *Profile) Biometrics() *Biometrics {
	if p.biometrics == nil {
		return nil
	}
	b := *p.biometrics
	return &b
}

// DailyCalories returns the explicit calorie override, 0 when unset
func (p *Profile) DailyCalories() float64 { return p.dailyCalories }

// LikedCuisines returns liked cuisine tags
func (p *Profile) LikedCuisines() []string { return append([]string(nil), p.likedCuisines...) }

// DislikedCuisines returns disliked cuisine tags
func (p *Profile) DislikedCuisines() []string { return append([]string(nil), p.dislikedCuisines...) }

// LikedIngredients returns liked ingredient names
func (p *Profile) LikedIngredients() []string { return append([]string(nil), p.likedIngredients...) }

// DislikedIngredients returns disliked ingredient names
func (p *Profile) DislikedIngredients() []string {
	return append([]string(nil), p.dislikedIngredients...)
}

// Servings returns the household serving count used to scale meals
func (p *Profile) Servings() int { return p.servings }

// IncludeSnacks reports whether snack slots are planned
func (p *Profile) IncludeSnacks() bool { return p.includeSnacks }

func lowerAll(in []string) []string {
	out := make([]string, 0, len(in))
	for _, s := range in {
		s = strings.ToLower(strings.TrimSpace(s))
		if s != "" {
			out = append(out, s)
		}
	}
	return out
}
