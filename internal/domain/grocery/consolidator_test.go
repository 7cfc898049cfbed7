package grocery

import (
	"math/rand"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/robloxdeveloper2/Foodi-Backup-sub002/internal/domain/mealplan"
	"github.com/robloxdeveloper2/Foodi-Backup-sub002/internal/domain/recipe"
)

func dinner(t *testing.T, id string, ingredients ...recipe.Ingredient) *recipe.Recipe {
	t.Helper()
	r, err := recipe.New(recipe.Params{
		ID:          id,
		Name:        "Dinner " + id,
		MealType:    recipe.MealTypeDinner,
		Ingredients: ingredients,
		Nutrition:   recipe.Nutrition{Calories: 600},
	})
	require.NoError(t, err)
	return r
}

func ing(name string, qty float64, unit recipe.MeasurementUnit) recipe.Ingredient {
	return recipe.Ingredient{Name: name, Quantity: qty, Unit: unit}
}

func planOf(t *testing.T, recipes ...*recipe.Recipe) *mealplan.Plan {
	t.Helper()
	slots := make([]mealplan.Slot, len(recipes))
	for i, r := range recipes {
		slots[i] = mealplan.Slot{Day: i, MealType: r.MealType(), Recipe: r}
	}
	plan, err := mealplan.New(mealplan.Params{
		UserID:    "user-1",
		StartDate: time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC),
		Days:      len(recipes),
		Slots:     slots,
	})
	require.NoError(t, err)
	return plan
}

func TestBuild_MergesSameUnitAfterNormalization(t *testing.T) {
	// Arrange
	a := dinner(t, "a", ing("onion, diced", 1, recipe.MeasurementUnitCup))
	b := dinner(t, "b", ing("Onions", 0.5, recipe.MeasurementUnitCup))
	c := NewConsolidator(DefaultTables())

	// Act
	list, err := c.Build(planOf(t, a, b), CostTable{})
	require.NoError(t, err)

	// Assert
	item, ok := list.Item("onion")
	require.True(t, ok)
	assert.Equal(t, 1.5, item.Quantity)
	assert.Equal(t, recipe.MeasurementUnitCup, item.Unit)
	assert.Equal(t, "1.5 cup", item.Description)
	assert.Equal(t, CategoryProduce, item.Category)
	assert.Equal(t, "Onions", item.DisplayName, "shortest raw name, not the key")
}

func TestBuild_ConvertsToLargestUnitPresent(t *testing.T) {
	a := dinner(t, "a", ing("milk", 1, recipe.MeasurementUnitCup))
	b := dinner(t, "b", ing("milk", 8, recipe.MeasurementUnitTablespoon))

	list, err := NewConsolidator(DefaultTables()).Build(planOf(t, a, b), CostTable{})
	require.NoError(t, err)

	item, _ := list.Item("milk")
	assert.Equal(t, recipe.MeasurementUnitCup, item.Unit)
	assert.InDelta(t, 1.5, item.Quantity, 1e-3)
	assert.Equal(t, CategoryDairy, item.Category)
}

func TestBuild_IncompatibleUnitsBecomeMultiLine(t *testing.T) {
	a := dinner(t, "a", ing("garlic", 3, recipe.MeasurementUnitClove))
	b := dinner(t, "b", ing("garlic", 10, recipe.MeasurementUnitGram))

	list, err := NewConsolidator(DefaultTables()).Build(planOf(t, a, b), CostTable{})
	require.NoError(t, err)

	item, _ := list.Item("garlic")
	require.Len(t, item.Parts, 2)
	assert.Equal(t, "3 clove\n10 g", item.Description)
}

func TestBuild_ScalesByServings(t *testing.T) {
	r, err := recipe.New(recipe.Params{
		ID: "r", Name: "Stew", MealType: recipe.MealTypeDinner, Servings: 4,
		Ingredients: []recipe.Ingredient{ing("beef", 1, recipe.MeasurementUnitPound)},
	})
	require.NoError(t, err)
	plan, err := mealplan.New(mealplan.Params{
		UserID: "u", Days: 1, Servings: 2,
		Slots: []mealplan.Slot{{Day: 0, MealType: recipe.MealTypeDinner, Recipe: r}},
	})
	require.NoError(t, err)

	list, err := NewConsolidator(DefaultTables()).Build(plan, CostTable{})
	require.NoError(t, err)

	item, _ := list.Item("beef")
	assert.Equal(t, 0.5, item.Quantity)
	assert.Equal(t, CategoryMeatSeafood, item.Category)
}

func TestBuild_OrderInvariant(t *testing.T) {
	recipes := []*recipe.Recipe{
		dinner(t, "a", ing("rice", 1, recipe.MeasurementUnitCup), ing("chicken breast", 200, recipe.MeasurementUnitGram)),
		dinner(t, "b", ing("Rice", 100, recipe.MeasurementUnitMilliliter), ing("chicken breasts", 0.5, recipe.MeasurementUnitPound)),
		dinner(t, "c", ing("rice (basmati)", 0.25, recipe.MeasurementUnitCup), ing("eggs", 2, recipe.MeasurementUnitPiece)),
		dinner(t, "d", ing("egg", 1, recipe.MeasurementUnitPiece), ing("frozen peas", 1, recipe.MeasurementUnitCup)),
	}
	c := NewConsolidator(DefaultTables())
	costs := CostTable{Prices: map[string]Price{"rice": {Unit: recipe.MeasurementUnitCup, Amount: 0.8}}, Default: 1.25}

	want, err := c.Build(planOf(t, recipes...), costs)
	require.NoError(t, err)

	rng := rand.New(rand.NewSource(7))
	for i := 0; i < 20; i++ {
		shuffled := append([]*recipe.Recipe(nil), recipes...)
		rng.Shuffle(len(shuffled), func(i, j int) { shuffled[i], shuffled[j] = shuffled[j], shuffled[i] })

		got, err := c.Build(planOf(t, shuffled...), costs)
		require.NoError(t, err)
		assert.Equal(t, want.Items, got.Items)
		assert.Equal(t, want.Subtotals, got.Subtotals)
	}

	rice, ok := want.Item("rice")
	require.True(t, ok)
	assert.Equal(t, "Rice", rice.DisplayName)
	chicken, _ := want.Item("chicken breast")
	assert.Equal(t, "chicken breast", chicken.DisplayName)
}

func TestBuild_CostsWithFallback(t *testing.T) {
	a := dinner(t, "a", ing("rice", 2, recipe.MeasurementUnitCup), ing("saffron", 1, recipe.MeasurementUnitPinch))
	costs := CostTable{Prices: map[string]Price{"rice": {Unit: recipe.MeasurementUnitCup, Amount: 0.5}}, Default: 2}

	list, err := NewConsolidator(DefaultTables()).Build(planOf(t, a), costs)
	require.NoError(t, err)

	rice, _ := list.Item("rice")
	saffron, _ := list.Item("saffron")
	assert.Equal(t, 1.0, rice.EstimatedCost)
	assert.Equal(t, 2.0, saffron.EstimatedCost)
	assert.Equal(t, CategoryOther, saffron.Category)
	assert.Equal(t, 3.0, list.TotalCost)
	assert.Equal(t, 1.0, list.Subtotals[CategoryPantry])
}

func TestBuild_NilPlan(t *testing.T) {
	_, err := NewConsolidator(Tables{}).Build(nil, CostTable{})
	assert.ErrorIs(t, err, ErrMissingGroceries)
}

func TestNormalize(t *testing.T) {
	tests := map[string]string{
		"Onion, diced":             "onion",
		"  Red   Onions ":          "red onion",
		"tomatoes (canned)":        "tomato",
		"Blueberries":              "blueberry",
		"hummus":                   "hummus",
		"molasses":                 "molasses",
		"peas":                     "pea",
		"gas":                      "gas",
		"chicken thighs, boneless": "chicken thigh",
	}
	for in, want := range tests {
		assert.Equal(t, want, Normalize(in), in)
	}
}

func TestCategorize_OrderedRules(t *testing.T) {
	tables := DefaultTables()

	assert.Equal(t, CategoryPantry, tables.Categorize("peanut butter"))
	assert.Equal(t, CategoryDairy, tables.Categorize("butter"))
	assert.Equal(t, CategoryFrozen, tables.Categorize("frozen pea"))
	assert.Equal(t, CategoryProduce, tables.Categorize("red bell pepper"))
	assert.Equal(t, CategoryPantry, tables.Categorize("black pepper"))
	assert.Equal(t, CategoryPantry, tables.Categorize("chicken broth"))
	assert.Equal(t, CategoryBakery, tables.Categorize("sourdough bread"))
	assert.Equal(t, CategoryPantry, tables.Categorize("chickpea"))
	assert.Equal(t, CategoryOther, tables.Categorize("saffron"))
}
