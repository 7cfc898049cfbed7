package planning

import (
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/robloxdeveloper2/Foodi-Backup-sub002/internal/domain/grocery"
	"github.com/robloxdeveloper2/Foodi-Backup-sub002/internal/domain/nutrition"
	"github.com/robloxdeveloper2/Foodi-Backup-sub002/internal/domain/recipe"
	"github.com/robloxdeveloper2/Foodi-Backup-sub002/internal/domain/user"
)

var planStart = time.Date(2024, 6, 3, 0, 0, 0, 0, time.UTC)

type recipeOpt func(*recipe.Params)

func withTags(tags ...string) recipeOpt {
	return func(p *recipe.Params) { p.DietaryTags = tags }
}

func withCuisine(c recipe.CuisineType) recipeOpt {
	return func(p *recipe.Params) { p.Cuisine = c }
}

func withIngredients(names ...string) recipeOpt {
	return func(p *recipe.Params) {
		for _, n := range names {
			p.Ingredients = append(p.Ingredients, recipe.Ingredient{Name: n, Quantity: 1, Unit: recipe.MeasurementUnitPiece})
		}
	}
}

func withTime(prep time.Duration) recipeOpt {
	return func(p *recipe.Params) { p.PrepTime = prep }
}

// newRecipe builds a recipe whose macros follow the maintenance split
func newRecipe(t *testing.T, id string, mt recipe.MealType, kcal, cost float64, opts ...recipeOpt) *recipe.Recipe {
	t.Helper()
	p := recipe.Params{
		ID:       id,
		Name:     "Recipe " + id,
		MealType: mt,
		Nutrition: recipe.Nutrition{
			Calories: kcal,
			Protein:  kcal * 0.25 / 4,
			Carbs:    kcal * 0.50 / 4,
			Fat:      kcal * 0.25 / 9,
		},
		CostPerServing: cost,
		PrepTime:       15 * time.Minute,
	}
	for _, o := range opts {
		o(&p)
	}
	r, err := recipe.New(p)
	require.NoError(t, err)
	return r
}

// balancedCatalog returns n recipes per meal type that exactly meet a
// 2000 kcal maintenance day at 15.00 per day
func balancedCatalog(t *testing.T, n int, opts ...recipeOpt) []*recipe.Recipe {
	t.Helper()
	var out []*recipe.Recipe
	for i := 1; i <= n; i++ {
		out = append(out,
			newRecipe(t, fmt.Sprintf("b%d", i), recipe.MealTypeBreakfast, 500, 4, opts...),
			newRecipe(t, fmt.Sprintf("l%d", i), recipe.MealTypeLunch, 700, 5, opts...),
			newRecipe(t, fmt.Sprintf("d%d", i), recipe.MealTypeDinner, 800, 6, opts...),
		)
	}
	return out
}

func newProfile(t *testing.T, p user.ProfileParams) *user.Profile {
	t.Helper()
	if p.ID == "" {
		p.ID = "user-1"
	}
	if p.DailyCalories == 0 {
		p.DailyCalories = 2000
	}
	profile, err := user.NewProfile(p)
	require.NoError(t, err)
	return profile
}

func newEngine() *Engine {
	return NewEngine(DefaultConfig(), nutrition.DefaultConfig(), grocery.DefaultTables())
}
