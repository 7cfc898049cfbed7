// Package planning is the meal plan decision engine: hard filtering, weighted
// scoring, greedy slot filling with bounded relaxation, and substitution ranking.
//
// Every table the engine consults lives in Config and is passed in at
// construction time.
package planning

import (
	"fmt"
	"time"

	"github.com/robloxdeveloper2/Foodi-Backup-sub002/internal/domain/recipe"
)

// VarietyMode selects how the variety term decays
type VarietyMode string

const (
	// VarietyBinary scores 1 for recipes unused in the window, 0 otherwise
	VarietyBinary VarietyMode = "binary"
	// VarietyLinear scores days since last use divided by the window length
	VarietyLinear VarietyMode = "linear"
)

// ScoreWeights are the weights of the four ranking terms
type ScoreWeights struct {
	Nutrition  float64 `mapstructure:"nutrition" json:"nutrition"`
	Cost       float64 `mapstructure:"cost" json:"cost"`
	Preference float64 `mapstructure:"preference" json:"preference"`
	Variety    float64 `mapstructure:"variety" json:"variety"`
}

// PreferenceAdjustments are the additive bonuses applied on top of the
// swipe/rating base of the preference term
type PreferenceAdjustments struct {
	SwipeWeight  float64 `mapstructure:"swipe_weight" json:"swipe_weight"`
	RatingWeight float64 `mapstructure:"rating_weight" json:"rating_weight"`
	Ingredient   float64 `mapstructure:"ingredient" json:"ingredient"`
	Cuisine      float64 `mapstructure:"cuisine" json:"cuisine"`
	PrepTime     float64 `mapstructure:"prep_time" json:"prep_time"`
}

// SubstitutionWeights rank substitution candidates
type SubstitutionWeights struct {
	Similarity float64 `mapstructure:"similarity" json:"similarity"`
	Preference float64 `mapstructure:"preference" json:"preference"`
	Cost       float64 `mapstructure:"cost" json:"cost"`
	PrepTime   float64 `mapstructure:"prep_time" json:"prep_time"`
}

// SubstitutionConfig configures the substitution engine
type SubstitutionConfig struct {
	Weights          SubstitutionWeights `mapstructure:"weights" json:"weights"`
	CalorieTolerance float64             `mapstructure:"calorie_tolerance" json:"calorie_tolerance"`
	MaxResults       int                 `mapstructure:"max_results" json:"max_results"`
	SkipPlanned      bool                `mapstructure:"skip_planned" json:"skip_planned"`
	MinimalImpact    float64             `mapstructure:"minimal_impact" json:"minimal_impact"`
	ModerateImpact   float64             `mapstructure:"moderate_impact" json:"moderate_impact"`
}

// Config holds every tunable of the engine
type Config struct {
	Weights     ScoreWeights                `mapstructure:"weights" json:"weights"`
	Preference  PreferenceAdjustments       `mapstructure:"preference" json:"preference"`
	MealShares  map[recipe.MealType]float64 `mapstructure:"meal_shares" json:"meal_shares"`
	VarietyMode VarietyMode                 `mapstructure:"variety_mode" json:"variety_mode"`
	VarietyDays int                         `mapstructure:"variety_days" json:"variety_days"`

	NutritionTolerance float64 `mapstructure:"nutrition_tolerance" json:"nutrition_tolerance"`
	BudgetTolerance    float64 `mapstructure:"budget_tolerance" json:"budget_tolerance"`
	MaxPasses          int     `mapstructure:"max_passes" json:"max_passes"`
	RelaxStep          float64 `mapstructure:"relax_step" json:"relax_step"`
	SlotRelaxSteps     int     `mapstructure:"slot_relax_steps" json:"slot_relax_steps"`
	CeilingFactor      float64 `mapstructure:"ceiling_factor" json:"ceiling_factor"`

	Substitution SubstitutionConfig `mapstructure:"substitution" json:"substitution"`

	// Concurrency bounds parallel scoring; 0 means unbounded
	Concurrency       int           `mapstructure:"concurrency" json:"concurrency"`
	GenerationTimeout time.Duration `mapstructure:"generation_timeout" json:"generation_timeout"`
}

// DefaultConfig returns the standard engine tables
func DefaultConfig() Config {
	return Config{
		Weights: ScoreWeights{Nutrition: 0.4, Cost: 0.3, Preference: 0.2, Variety: 0.1},
		Preference: PreferenceAdjustments{
			SwipeWeight:  0.6,
			RatingWeight: 0.4,
			Ingredient:   0.1,
			Cuisine:      0.1,
			PrepTime:     0.05,
		},
		MealShares: map[recipe.MealType]float64{
			recipe.MealTypeBreakfast: 0.25,
			recipe.MealTypeLunch:     0.35,
			recipe.MealTypeDinner:    0.40,
			recipe.MealTypeSnack:     0.10,
		},
		VarietyMode:        VarietyBinary,
		VarietyDays:        7,
		NutritionTolerance: 0.15,
		BudgetTolerance:    0.10,
		MaxPasses:          3,
		RelaxStep:          0.10,
		SlotRelaxSteps:     3,
		CeilingFactor:      1.5,
		Substitution: SubstitutionConfig{
			Weights:          SubstitutionWeights{Similarity: 0.4, Preference: 0.3, Cost: 0.2, PrepTime: 0.1},
			CalorieTolerance: 0.15,
			MaxResults:       5,
			SkipPlanned:      true,
			MinimalImpact:    0.05,
			ModerateImpact:   0.10,
		},
		Concurrency:       8,
		GenerationTimeout: 5 * time.Second,
	}
}

// Validate checks the configuration for out-of-range values
func (c Config) Validate() error {
	w := c.Weights
	if w.Nutrition < 0 || w.Cost < 0 || w.Preference < 0 || w.Variety < 0 {
		return fmt.Errorf("score weights cannot be negative")
	}
	if w.Nutrition+w.Cost+w.Preference+w.Variety == 0 {
		return fmt.Errorf("score weights cannot all be zero")
	}
	for mt, share := range c.MealShares {
		if !mt.Valid() {
			return fmt.Errorf("unknown meal type in meal shares: %s", mt)
		}
		if share < 0 {
			return fmt.Errorf("meal share for %s cannot be negative", mt)
		}
	}
	if c.VarietyMode != VarietyBinary && c.VarietyMode != VarietyLinear {
		return fmt.Errorf("variety mode must be binary or linear, got %q", c.VarietyMode)
	}
	if c.NutritionTolerance <= 0 || c.BudgetTolerance <= 0 {
		return fmt.Errorf("tolerances must be positive")
	}
	if c.MaxPasses < 1 {
		return fmt.Errorf("max passes must be at least 1")
	}
	if c.RelaxStep < 0 || c.CeilingFactor <= 0 {
		return fmt.Errorf("relaxation step and ceiling factor must be positive")
	}
	s := c.Substitution
	if s.CalorieTolerance <= 0 {
		return fmt.Errorf("substitution calorie tolerance must be positive")
	}
	if s.MinimalImpact <= 0 || s.ModerateImpact < s.MinimalImpact {
		return fmt.Errorf("impact thresholds must satisfy 0 < minimal <= moderate")
	}
	return nil
}

// withDefaults fills zero values from DefaultConfig
func (c Config) withDefaults() Config {
	d := DefaultConfig()
	if c.Weights == (ScoreWeights{}) {
		c.Weights = d.Weights
	}
	if c.Preference == (PreferenceAdjustments{}) {
		c.Preference = d.Preference
	}
	if len(c.MealShares) == 0 {
		c.MealShares = d.MealShares
	}
	if c.VarietyMode == "" {
		c.VarietyMode = d.VarietyMode
	}
	if c.VarietyDays <= 0 {
		c.VarietyDays = d.VarietyDays
	}
	if c.NutritionTolerance <= 0 {
		c.NutritionTolerance = d.NutritionTolerance
	}
	if c.BudgetTolerance <= 0 {
		c.BudgetTolerance = d.BudgetTolerance
	}
	if c.MaxPasses <= 0 {
		c.MaxPasses = d.MaxPasses
	}
	if c.RelaxStep <= 0 {
		c.RelaxStep = d.RelaxStep
	}
	if c.SlotRelaxSteps < 0 {
		c.SlotRelaxSteps = 0
	}
	if c.CeilingFactor <= 0 {
		c.CeilingFactor = d.CeilingFactor
	}
	if c.Substitution.Weights == (SubstitutionWeights{}) {
		c.Substitution.Weights = d.Substitution.Weights
	}
	if c.Substitution.CalorieTolerance <= 0 {
		c.Substitution.CalorieTolerance = d.Substitution.CalorieTolerance
	}
	if c.Substitution.MaxResults <= 0 {
		c.Substitution.MaxResults = d.Substitution.MaxResults
	}
	if c.Substitution.MinimalImpact <= 0 {
		c.Substitution.MinimalImpact = d.Substitution.MinimalImpact
	}
	if c.Substitution.ModerateImpact <= 0 {
		c.Substitution.ModerateImpact = d.Substitution.ModerateImpact
	}
	if c.GenerationTimeout <= 0 {
		c.GenerationTimeout = d.GenerationTimeout
	}
	return c
}

// mealShares returns the shares of the given meal types renormalized to sum to 1
func (c Config) mealShares(types []recipe.MealType) map[recipe.MealType]float64 {
	var sum float64
	for _, mt := range types {
		sum += c.MealShares[mt]
	}
	out := make(map[recipe.MealType]float64, len(types))
	for _, mt := range types {
		if sum <= 0 {
			out[mt] = 1 / float64(len(types))
			continue
		}
		out[mt] = c.MealShares[mt] / sum
	}
	return out
}
