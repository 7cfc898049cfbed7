package grocery

import (
	"strings"

	"github.com/robloxdeveloper2/Foodi-Backup-sub002/internal/domain/recipe"
)

// Category is a shopping aisle. The set is closed.
type Category string

const (
	CategoryProduce     Category = "produce"
	CategoryMeatSeafood Category = "meat_seafood"
	CategoryDairy       Category = "dairy"
	CategoryPantry      Category = "pantry"
	CategoryFrozen      Category = "frozen"
	CategoryBakery      Category = "bakery"
	CategoryOther       Category = "other"
)

// Categories lists every category in shopping order
var Categories = []Category{
	CategoryProduce,
	CategoryMeatSeafood,
	CategoryDairy,
	CategoryBakery,
	CategoryFrozen,
	CategoryPantry,
	CategoryOther,
}

// Valid reports whether c is one of the known categories
func (c Category) Valid() bool {
	switch c {
	case CategoryProduce, CategoryMeatSeafood, CategoryDairy, CategoryPantry,
		CategoryFrozen, CategoryBakery, CategoryOther:
		return true
	}
	return false
}

// Order returns the position of the category in shopping order
func (c Category) Order() int {
	for i, cat := range Categories {
		if cat == c {
			return i
		}
	}
	return len(Categories)
}

// Dimension groups units that convert into each other
type Dimension string

const (
	DimensionVolume Dimension = "volume"
	DimensionMass   Dimension = "mass"
)

// Conversion expresses a unit in its dimension's base unit (ml or g)
type Conversion struct {
	Dimension Dimension
	ToBase    float64
}

// KeywordRule maps a keyword to a category. Rules are checked in order and
// the first keyword found as a whole word in the ingredient key wins.
type KeywordRule struct {
	Keyword  string
	Category Category
}

// Tables are the lookup tables of the consolidator
type Tables struct {
	Keywords    []KeywordRule
	Conversions map[recipe.MeasurementUnit]Conversion
}

// DefaultTables returns the standard keyword and conversion tables
func DefaultTables() Tables {
	return Tables{
		Keywords:    defaultKeywords(),
		Conversions: defaultConversions(),
	}
}

func defaultConversions() map[recipe.MeasurementUnit]Conversion {
	return map[recipe.MeasurementUnit]Conversion{
		recipe.MeasurementUnitTeaspoon:   {DimensionVolume, 4.92892},
		recipe.MeasurementUnitTablespoon: {DimensionVolume, 14.7868},
		recipe.MeasurementUnitFluidOunce: {DimensionVolume, 29.5735},
		recipe.MeasurementUnitCup:        {DimensionVolume, 236.588},
		recipe.MeasurementUnitMilliliter: {DimensionVolume, 1},
		recipe.MeasurementUnitLiter:      {DimensionVolume, 1000},
		recipe.MeasurementUnitGram:       {DimensionMass, 1},
		recipe.MeasurementUnitOunce:      {DimensionMass, 28.3495},
		recipe.MeasurementUnitPound:      {DimensionMass, 453.592},
		recipe.MeasurementUnitKilogram:   {DimensionMass, 1000},
	}
}

func defaultKeywords() []KeywordRule {
	groups := []struct {
		category Category
		words    []string
	}{
		{CategoryFrozen, []string{"frozen", "ice cream", "sorbet"}},
		{CategoryBakery, []string{"bread", "bagel", "bun", "tortilla", "pita", "croissant", "baguette", "naan", "roll"}},
		// multi-word pantry items that would otherwise match dairy, meat or produce
		{CategoryPantry, []string{"peanut butter", "almond butter", "coconut milk", "almond milk", "oat milk",
			"black pepper", "soy sauce", "tomato paste", "tomato sauce", "broth", "stock", "canned", "dried"}},
		{CategoryMeatSeafood, []string{"chicken", "beef", "pork", "lamb", "turkey", "bacon", "sausage", "ham",
			"salmon", "tuna", "shrimp", "cod", "fish", "prawn", "steak", "mince"}},
		{CategoryDairy, []string{"milk", "cheese", "butter", "yogurt", "yoghurt", "cream", "egg", "parmesan",
			"mozzarella", "feta", "ricotta"}},
		{CategoryProduce, []string{"onion", "garlic", "tomato", "potato", "carrot", "pepper", "lettuce", "spinach",
			"kale", "broccoli", "cucumber", "zucchini", "mushroom", "avocado", "lemon", "lime", "apple", "banana",
			"berry", "strawberry", "blueberry", "orange", "celery", "ginger", "cilantro", "parsley", "basil",
			"herb", "cabbage", "squash", "pea", "green bean", "bean sprout", "eggplant", "scallion", "shallot", "leek", "corn"}},
		{CategoryPantry, []string{"rice", "pasta", "noodle", "flour", "sugar", "salt", "oil", "vinegar", "honey",
			"oat", "quinoa", "lentil", "bean", "chickpea", "spice", "cumin", "paprika", "cinnamon", "sauce",
			"syrup", "nut", "almond", "seed", "baking", "yeast", "cereal", "granola"}},
	}

	var rules []KeywordRule
	for _, g := range groups {
		for _, w := range g.words {
			rules = append(rules, KeywordRule{Keyword: w, Category: g.category})
		}
	}
	return rules
}

// Categorize returns the category of a normalized ingredient key
func (t Tables) Categorize(key string) Category {
	padded := " " + key + " "
	for _, rule := range t.Keywords {
		if strings.Contains(padded, " "+rule.Keyword+" ") {
			return rule.Category
		}
	}
	return CategoryOther
}

// Convert converts qty from one unit to another within the same dimension
func (t Tables) Convert(qty float64, from, to recipe.MeasurementUnit) (float64, bool) {
	if from == to {
		return qty, true
	}
	cf, ok := t.Conversions[from]
	if !ok {
		return 0, false
	}
	ct, ok := t.Conversions[to]
	if !ok || cf.Dimension != ct.Dimension {
		return 0, false
	}
	return qty * cf.ToBase / ct.ToBase, true
}
