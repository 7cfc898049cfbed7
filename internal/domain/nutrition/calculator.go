// Package nutrition derives daily calorie and macro targets from a user profile.
package nutrition

import (
	"math"

	"github.com/robloxdeveloper2/Foodi-Backup-sub002/internal/domain/recipe"
	"github.com/robloxdeveloper2/Foodi-Backup-sub002/internal/domain/user"
)

// Target is a daily calorie/macro target
type Target struct {
	Calories float64 `json:"calories"`
	Protein  float64 `json:"protein_g"`
	Carbs    float64 `json:"carbs_g"`
	Fat      float64 `json:"fat_g"`

	// Estimated is set when the target falls back to population averages
	Estimated bool `json:"estimated"`
}

// Nutrition returns the target as a nutrition value
func (t Target) Nutrition() recipe.Nutrition {
	return recipe.Nutrition{Calories: t.Calories, Protein: t.Protein, Carbs: t.Carbs, Fat: t.Fat}
}

// Share returns the portion of the daily target for a fraction of the day
func (t Target) Share(fraction float64) recipe.Nutrition {
	return t.Nutrition().Scale(fraction)
}

// MacroRatio is the fraction of calories from each macro
type MacroRatio struct {
	Protein float64 `mapstructure:"protein" json:"protein"`
	Carbs   float64 `mapstructure:"carbs" json:"carbs"`
	Fat     float64 `mapstructure:"fat" json:"fat"`
}

// Config holds the fixed tables used by the calculator
type Config struct {
	MacroRatios         map[user.Goal]MacroRatio
	ActivityMultipliers map[user.ActivityLevel]float64
	GoalAdjustments     map[user.Goal]float64 // kcal added to TDEE
	DefaultCalories     float64
	MinCalories         float64
}

// DefaultConfig returns the standard macro and activity tables
func DefaultConfig() Config {
	return Config{
		MacroRatios: map[user.Goal]MacroRatio{
			user.GoalWeightLoss:  {Protein: 0.35, Carbs: 0.35, Fat: 0.30},
			user.GoalMaintenance: {Protein: 0.25, Carbs: 0.50, Fat: 0.25},
			user.GoalMuscleGain:  {Protein: 0.30, Carbs: 0.45, Fat: 0.25},
		},
		ActivityMultipliers: map[user.ActivityLevel]float64{
			user.ActivitySedentary:  1.2,
			user.ActivityLight:      1.375,
			user.ActivityModerate:   1.55,
			user.ActivityActive:     1.725,
			user.ActivityVeryActive: 1.9,
		},
		GoalAdjustments: map[user.Goal]float64{
			user.GoalWeightLoss:  -500,
			user.GoalMaintenance: 0,
			user.GoalMuscleGain:  300,
		},
		DefaultCalories: 2000,
		MinCalories:     1200,
	}
}

// Calculator computes daily targets
type Calculator struct {
	cfg Config
}

// NewCalculator creates a calculator from the given tables
func NewCalculator(cfg Config) *Calculator {
	def := DefaultConfig()
	if len(cfg.MacroRatios) == 0 {
		cfg.MacroRatios = def.MacroRatios
	}
	if len(cfg.ActivityMultipliers) == 0 {
		cfg.ActivityMultipliers = def.ActivityMultipliers
	}
	if cfg.GoalAdjustments == nil {
		cfg.GoalAdjustments = def.GoalAdjustments
	}
	if cfg.DefaultCalories <= 0 {
		cfg.DefaultCalories = def.DefaultCalories
	}
	return &Calculator{cfg: cfg}
}

// Compute derives the daily target for the profile.
// Missing biometrics fall back to the population default with Estimated set.
func (c *Calculator) Compute(p *user.Profile) Target {
	calories, estimated := c.calories(p)

	ratio, ok := c.cfg.MacroRatios[p.Goal()]
	if !ok {
		ratio = c.cfg.MacroRatios[user.GoalMaintenance]
	}

	return Target{
		Calories:  round1(calories),
		Protein:   round1(calories * ratio.Protein / 4),
		Carbs:     round1(calories * ratio.Carbs / 4),
		Fat:       round1(calories * ratio.Fat / 9),
		Estimated: estimated,
	}
}

func (c *Calculator) calories(p *user.Profile) (float64, bool) {
	if p.DailyCalories() > 0 {
		return c.floor(p.DailyCalories()), false
	}

	bio := p.Biometrics()
	if !bio.Complete() {
		return c.cfg.DefaultCalories, true
	}

	// Mifflin-St Jeor
	bmr := 10*bio.WeightKG + 6.25*bio.HeightCM - 5*float64(bio.Age)
	if bio.Sex == user.SexMale {
		bmr += 5
	} else {
		bmr -= 161
	}

	mult, ok := c.cfg.ActivityMultipliers[bio.ActivityLevel]
	if !ok {
		mult = c.cfg.ActivityMultipliers[user.ActivitySedentary]
	}

	return c.floor(bmr*mult + c.cfg.GoalAdjustments[p.Goal()]), false
}

func (c *Calculator) floor(kcal float64) float64 {
	if c.cfg.MinCalories > 0 && kcal < c.cfg.MinCalories {
		return c.cfg.MinCalories
	}
	return kcal
}

func round1(v float64) float64 {
	return math.Round(v*10) / 10
}
