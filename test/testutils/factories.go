// Package testutils provides test data factories for consistent test data generation
package testutils

import (
	"fmt"
	"testing"
	"time"

	"github.com/brianvoe/gofakeit/v6"
	"github.com/stretchr/testify/require"

	"github.com/robloxdeveloper2/Foodi-Backup-sub002/internal/domain/recipe"
	"github.com/robloxdeveloper2/Foodi-Backup-sub002/internal/domain/user"
)

// RecipeBuilder provides a fluent interface for building test recipes
type RecipeBuilder struct {
	p recipe.Params
}

// NewRecipeBuilder creates a builder with fake but valid defaults.
// Macros follow the 25/50/25 maintenance split of the calories.
func NewRecipeBuilder(id string, mealType recipe.MealType) *RecipeBuilder {
	faker := gofakeit.New(int64(len(id)) + 42)
	rb := &RecipeBuilder{p: recipe.Params{
		ID:             id,
		Name:           faker.Dessert() + " " + id,
		MealType:       mealType,
		Cuisine:        recipe.CuisineTypeAmerican,
		Servings:       1,
		CostPerServing: 4,
		PrepTime:       10 * time.Minute,
		CookTime:       15 * time.Minute,
		Difficulty:     recipe.DifficultyLevelEasy,
		Ingredients: []recipe.Ingredient{
			{Name: faker.Vegetable(), Quantity: 1, Unit: recipe.MeasurementUnitCup},
		},
	}}
	return rb.WithCalories(500)
}

// WithName sets the recipe name
func (rb *RecipeBuilder) WithName(name string) *RecipeBuilder {
	rb.p.Name = name
	return rb
}

// WithCalories sets calories and derives the macros from them
func (rb *RecipeBuilder) WithCalories(kcal float64) *RecipeBuilder {
	rb.p.Nutrition = recipe.Nutrition{
		Calories: kcal,
		Protein:  kcal * 0.25 / 4,
		Carbs:    kcal * 0.50 / 4,
		Fat:      kcal * 0.25 / 9,
	}
	return rb
}

// WithCost sets the cost per serving
func (rb *RecipeBuilder) WithCost(cost float64) *RecipeBuilder {
	rb.p.CostPerServing = cost
	return rb
}

// WithCuisine sets the cuisine
func (rb *RecipeBuilder) WithCuisine(c recipe.CuisineType) *RecipeBuilder {
	rb.p.Cuisine = c
	return rb
}

// WithTags sets the dietary tags
func (rb *RecipeBuilder) WithTags(tags ...string) *RecipeBuilder {
	rb.p.DietaryTags = tags
	return rb
}

// WithIngredients replaces the ingredient list
func (rb *RecipeBuilder) WithIngredients(ings ...recipe.Ingredient) *RecipeBuilder {
	rb.p.Ingredients = ings
	return rb
}

// WithServings sets the recipe yield
func (rb *RecipeBuilder) WithServings(n int) *RecipeBuilder {
	rb.p.Servings = n
	return rb
}

// WithTimes sets prep and cook time
func (rb *RecipeBuilder) WithTimes(prep, cook time.Duration) *RecipeBuilder {
	rb.p.PrepTime, rb.p.CookTime = prep, cook
	return rb
}

// Params returns the raw params
func (rb *RecipeBuilder) Params() recipe.Params {
	return rb.p
}

// Build creates the recipe, failing the test on error
func (rb *RecipeBuilder) Build(t testing.TB) *recipe.Recipe {
	t.Helper()
	r, err := recipe.New(rb.p)
	require.NoError(t, err)
	return r
}

// BalancedCatalog returns n recipes per main meal type whose breakfast,
// lunch and dinner sum to 2000 kcal and 15.00 per day:
// b{i} 500 kcal/4.00, l{i} 700 kcal/5.00, d{i} 800 kcal/6.00.
func BalancedCatalog(t testing.TB, n int) []*recipe.Recipe {
	t.Helper()
	var out []*recipe.Recipe
	for i := 1; i <= n; i++ {
		out = append(out,
			NewRecipeBuilder(fmt.Sprintf("b%d", i), recipe.MealTypeBreakfast).WithCalories(500).WithCost(4).Build(t),
			NewRecipeBuilder(fmt.Sprintf("l%d", i), recipe.MealTypeLunch).WithCalories(700).WithCost(5).Build(t),
			NewRecipeBuilder(fmt.Sprintf("d%d", i), recipe.MealTypeDinner).WithCalories(800).WithCost(6).Build(t),
		)
	}
	return out
}

// ProfileBuilder builds user profiles for tests
type ProfileBuilder struct {
	p user.ProfileParams
}

// NewProfileBuilder starts from a maintenance profile with a 2000 kcal override
func NewProfileBuilder(id string) *ProfileBuilder {
	return &ProfileBuilder{p: user.ProfileParams{
		ID:            id,
		Goal:          user.GoalMaintenance,
		DailyCalories: 2000,
		Servings:      1,
	}}
}

// WithBudget sets the budget
func (pb *ProfileBuilder) WithBudget(b user.Budget) *ProfileBuilder {
	pb.p.Budget = b
	return pb
}

// WithRestrictions sets dietary restrictions
func (pb *ProfileBuilder) WithRestrictions(rs ...user.DietaryRestriction) *ProfileBuilder {
	pb.p.DietaryRestrictions = rs
	return pb
}

// WithBiometrics clears the calorie override and sets biometrics
func (pb *ProfileBuilder) WithBiometrics(b *user.Biometrics) *ProfileBuilder {
	pb.p.DailyCalories = 0
	pb.p.Biometrics = b
	return pb
}

// WithGoal sets the nutritional goal
func (pb *ProfileBuilder) WithGoal(g user.Goal) *ProfileBuilder {
	pb.p.Goal = g
	return pb
}

// Build creates the profile, failing the test on error
func (pb *ProfileBuilder) Build(t testing.TB) *user.Profile {
	t.Helper()
	p, err := user.NewProfile(pb.p)
	require.NoError(t, err)
	return p
}

// RandomProfile returns a valid profile with fake biometrics
func RandomProfile(t testing.TB, faker *gofakeit.Faker) *user.Profile {
	t.Helper()
	sex := user.SexMale
	if faker.Bool() {
		sex = user.SexFemale
	}
	levels := []user.ActivityLevel{user.ActivitySedentary, user.ActivityLight, user.ActivityModerate, user.ActivityActive, user.ActivityVeryActive}
	goals := []user.Goal{user.GoalWeightLoss, user.GoalMaintenance, user.GoalMuscleGain}
	return NewProfileBuilder(faker.UUID()).
		WithGoal(goals[faker.Number(0, len(goals)-1)]).
		WithBiometrics(&user.Biometrics{
			WeightKG:      faker.Float64Range(45, 130),
			HeightCM:      faker.Float64Range(150, 200),
			Age:           faker.Number(18, 80),
			Sex:           sex,
			ActivityLevel: levels[faker.Number(0, len(levels)-1)],
		}).
		Build(t)
}
