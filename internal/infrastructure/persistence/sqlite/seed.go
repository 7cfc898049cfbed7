package sqlite

import (
	"time"

	"github.com/robloxdeveloper2/Foodi-Backup-sub002/internal/domain/recipe"
	"github.com/robloxdeveloper2/Foodi-Backup-sub002/internal/domain/user"
)

type seedIngredient struct {
	name string
	qty  float64
	unit recipe.MeasurementUnit
}

type seedRecipe struct {
	id, name string
	mealType recipe.MealType
	cuisine  recipe.CuisineType
	kcal     float64
	protein  float64
	carbs    float64
	fat      float64
	cost     float64
	servings int
	prep     int
	cook     int
	tags     []string
	contents []seedIngredient
}

func ing(name string, qty float64, unit recipe.MeasurementUnit) seedIngredient {
	return seedIngredient{name: name, qty: qty, unit: unit}
}

var demoCatalog = []seedRecipe{
	// Breakfast
	{"oatmeal-berries", "Oatmeal with Berries", recipe.MealTypeBreakfast, recipe.CuisineTypeAmerican,
		420, 14, 68, 10, 2.10, 1, 5, 10, []string{"vegetarian", "vegan", "dairy_free"},
		[]seedIngredient{ing("rolled oats", 0.75, recipe.MeasurementUnitCup), ing("blueberry", 0.5, recipe.MeasurementUnitCup), ing("almond milk", 1, recipe.MeasurementUnitCup), ing("honey", 1, recipe.MeasurementUnitTablespoon)}},
	{"veggie-omelette", "Spinach and Feta Omelette", recipe.MealTypeBreakfast, recipe.CuisineTypeMediterranean,
		380, 26, 6, 28, 2.80, 1, 5, 10, []string{"vegetarian", "gluten_free", "keto"},
		[]seedIngredient{ing("egg", 3, recipe.MeasurementUnitPiece), ing("spinach", 1, recipe.MeasurementUnitCup), ing("feta", 30, recipe.MeasurementUnitGram), ing("olive oil", 1, recipe.MeasurementUnitTeaspoon)}},
	{"greek-yogurt-bowl", "Greek Yogurt Granola Bowl", recipe.MealTypeBreakfast, recipe.CuisineTypeMediterranean,
		450, 24, 58, 13, 3.20, 1, 5, 0, []string{"vegetarian"},
		[]seedIngredient{ing("greek yogurt", 200, recipe.MeasurementUnitGram), ing("granola", 0.5, recipe.MeasurementUnitCup), ing("strawberry", 0.5, recipe.MeasurementUnitCup)}},
	{"avocado-toast", "Avocado Toast with Egg", recipe.MealTypeBreakfast, recipe.CuisineTypeAmerican,
		470, 18, 40, 27, 3.60, 1, 5, 5, []string{"vegetarian", "dairy_free"},
		[]seedIngredient{ing("sourdough bread", 2, recipe.MeasurementUnitSlice), ing("avocado", 1, recipe.MeasurementUnitPiece), ing("egg", 1, recipe.MeasurementUnitPiece), ing("lemon", 0.25, recipe.MeasurementUnitPiece)}},
	{"breakfast-burrito", "Breakfast Burrito", recipe.MealTypeBreakfast, recipe.CuisineTypeMexican,
		560, 28, 52, 26, 3.90, 2, 10, 10, nil,
		[]seedIngredient{ing("flour tortilla", 2, recipe.MeasurementUnitPiece), ing("egg", 4, recipe.MeasurementUnitPiece), ing("black beans", 1, recipe.MeasurementUnitCup), ing("cheddar cheese", 60, recipe.MeasurementUnitGram), ing("salsa", 4, recipe.MeasurementUnitTablespoon)}},
	{"tofu-scramble", "Turmeric Tofu Scramble", recipe.MealTypeBreakfast, recipe.CuisineTypeOther,
		360, 24, 14, 22, 2.40, 1, 5, 10, []string{"vegan", "vegetarian", "gluten_free", "dairy_free"},
		[]seedIngredient{ing("firm tofu", 200, recipe.MeasurementUnitGram), ing("onion", 0.5, recipe.MeasurementUnitPiece), ing("bell pepper", 0.5, recipe.MeasurementUnitPiece), ing("olive oil", 1, recipe.MeasurementUnitTeaspoon)}},

	// Lunch
	{"chicken-caesar", "Chicken Caesar Salad", recipe.MealTypeLunch, recipe.CuisineTypeAmerican,
		620, 45, 22, 38, 5.40, 2, 15, 15, []string{"gluten_free"},
		[]seedIngredient{ing("chicken breast", 300, recipe.MeasurementUnitGram), ing("romaine lettuce", 1, recipe.MeasurementUnitPiece), ing("parmesan", 40, recipe.MeasurementUnitGram), ing("caesar dressing", 4, recipe.MeasurementUnitTablespoon)}},
	{"lentil-soup", "Red Lentil Soup", recipe.MealTypeLunch, recipe.CuisineTypeIndian,
		520, 26, 78, 10, 2.60, 4, 10, 30, []string{"vegan", "vegetarian", "gluten_free", "dairy_free"},
		[]seedIngredient{ing("red lentil", 2, recipe.MeasurementUnitCup), ing("onion", 1, recipe.MeasurementUnitPiece), ing("garlic", 3, recipe.MeasurementUnitClove), ing("vegetable broth", 1, recipe.MeasurementUnitLiter), ing("cumin", 1, recipe.MeasurementUnitTeaspoon)}},
	{"quinoa-bowl", "Mediterranean Quinoa Bowl", recipe.MealTypeLunch, recipe.CuisineTypeMediterranean,
		640, 22, 80, 24, 4.60, 2, 15, 15, []string{"vegetarian", "gluten_free"},
		[]seedIngredient{ing("quinoa", 1, recipe.MeasurementUnitCup), ing("chickpea", 1, recipe.MeasurementUnitCan), ing("cucumber", 1, recipe.MeasurementUnitPiece), ing("cherry tomato", 1, recipe.MeasurementUnitCup), ing("feta", 60, recipe.MeasurementUnitGram)}},
	{"turkey-wrap", "Turkey Avocado Wrap", recipe.MealTypeLunch, recipe.CuisineTypeAmerican,
		580, 36, 48, 26, 4.80, 1, 10, 0, []string{"dairy_free"},
		[]seedIngredient{ing("flour tortilla", 1, recipe.MeasurementUnitPiece), ing("turkey breast", 120, recipe.MeasurementUnitGram), ing("avocado", 0.5, recipe.MeasurementUnitPiece), ing("spinach", 0.5, recipe.MeasurementUnitCup)}},
	{"pad-thai", "Shrimp Pad Thai", recipe.MealTypeLunch, recipe.CuisineTypeThai,
		690, 32, 86, 22, 6.20, 2, 20, 15, []string{"dairy_free"},
		[]seedIngredient{ing("rice noodle", 200, recipe.MeasurementUnitGram), ing("shrimp", 250, recipe.MeasurementUnitGram), ing("bean sprout", 1, recipe.MeasurementUnitCup), ing("peanut", 30, recipe.MeasurementUnitGram), ing("lime", 1, recipe.MeasurementUnitPiece)}},
	{"caprese-panini", "Caprese Panini", recipe.MealTypeLunch, recipe.CuisineTypeItalian,
		600, 26, 58, 28, 4.20, 1, 10, 8, []string{"vegetarian"},
		[]seedIngredient{ing("ciabatta roll", 1, recipe.MeasurementUnitPiece), ing("mozzarella", 80, recipe.MeasurementUnitGram), ing("tomato", 1, recipe.MeasurementUnitPiece), ing("basil", 6, recipe.MeasurementUnitPiece)}},

	// Dinner
	{"salmon-asparagus", "Baked Salmon with Asparagus", recipe.MealTypeDinner, recipe.CuisineTypeAmerican,
		720, 48, 30, 44, 8.90, 2, 10, 20, []string{"gluten_free", "dairy_free", "paleo"},
		[]seedIngredient{ing("salmon fillet", 2, recipe.MeasurementUnitPiece), ing("asparagus", 1, recipe.MeasurementUnitPound), ing("lemon", 1, recipe.MeasurementUnitPiece), ing("olive oil", 2, recipe.MeasurementUnitTablespoon), ing("brown rice", 1, recipe.MeasurementUnitCup)}},
	{"chicken-stir-fry", "Chicken Vegetable Stir Fry", recipe.MealTypeDinner, recipe.CuisineTypeChinese,
		700, 46, 70, 22, 5.60, 3, 15, 15, []string{"dairy_free"},
		[]seedIngredient{ing("chicken thigh", 450, recipe.MeasurementUnitGram), ing("broccoli", 2, recipe.MeasurementUnitCup), ing("carrot", 2, recipe.MeasurementUnitPiece), ing("soy sauce", 3, recipe.MeasurementUnitTablespoon), ing("jasmine rice", 1.5, recipe.MeasurementUnitCup)}},
	{"veggie-chili", "Three Bean Chili", recipe.MealTypeDinner, recipe.CuisineTypeMexican,
		650, 30, 96, 14, 3.40, 4, 15, 40, []string{"vegan", "vegetarian", "gluten_free", "dairy_free"},
		[]seedIngredient{ing("kidney bean", 1, recipe.MeasurementUnitCan), ing("black beans", 1, recipe.MeasurementUnitCan), ing("pinto bean", 1, recipe.MeasurementUnitCan), ing("crushed tomato", 1, recipe.MeasurementUnitCan), ing("onion", 1, recipe.MeasurementUnitPiece), ing("chili powder", 2, recipe.MeasurementUnitTablespoon)}},
	{"spaghetti-bolognese", "Spaghetti Bolognese", recipe.MealTypeDinner, recipe.CuisineTypeItalian,
		780, 40, 88, 28, 5.10, 4, 15, 45, nil,
		[]seedIngredient{ing("spaghetti", 400, recipe.MeasurementUnitGram), ing("beef mince", 500, recipe.MeasurementUnitGram), ing("crushed tomato", 1, recipe.MeasurementUnitCan), ing("onion", 1, recipe.MeasurementUnitPiece), ing("garlic", 2, recipe.MeasurementUnitClove), ing("parmesan", 40, recipe.MeasurementUnitGram)}},
	{"chickpea-curry", "Chickpea Coconut Curry", recipe.MealTypeDinner, recipe.CuisineTypeIndian,
		690, 22, 82, 30, 3.80, 4, 10, 25, []string{"vegan", "vegetarian", "gluten_free", "dairy_free"},
		[]seedIngredient{ing("chickpea", 2, recipe.MeasurementUnitCan), ing("coconut milk", 1, recipe.MeasurementUnitCan), ing("spinach", 2, recipe.MeasurementUnitCup), ing("curry paste", 2, recipe.MeasurementUnitTablespoon), ing("basmati rice", 1.5, recipe.MeasurementUnitCup)}},
	{"steak-potatoes", "Steak with Roasted Potatoes", recipe.MealTypeDinner, recipe.CuisineTypeFrench,
		820, 52, 54, 42, 9.80, 2, 15, 35, []string{"gluten_free"},
		[]seedIngredient{ing("sirloin steak", 400, recipe.MeasurementUnitGram), ing("potato", 1, recipe.MeasurementUnitPound), ing("butter", 2, recipe.MeasurementUnitTablespoon), ing("rosemary", 2, recipe.MeasurementUnitPiece)}},
	{"teriyaki-tofu", "Teriyaki Tofu Rice Bowl", recipe.MealTypeDinner, recipe.CuisineTypeJapanese,
		640, 28, 90, 18, 3.60, 2, 15, 20, []string{"vegan", "vegetarian", "dairy_free"},
		[]seedIngredient{ing("firm tofu", 400, recipe.MeasurementUnitGram), ing("teriyaki sauce", 4, recipe.MeasurementUnitTablespoon), ing("jasmine rice", 1, recipe.MeasurementUnitCup), ing("broccoli", 1, recipe.MeasurementUnitCup)}},

	// Snacks
	{"apple-peanut-butter", "Apple with Peanut Butter", recipe.MealTypeSnack, recipe.CuisineTypeAmerican,
		220, 6, 26, 12, 0.90, 1, 2, 0, []string{"vegan", "vegetarian", "gluten_free", "dairy_free"},
		[]seedIngredient{ing("apple", 1, recipe.MeasurementUnitPiece), ing("peanut butter", 1, recipe.MeasurementUnitTablespoon)}},
	{"hummus-veggies", "Hummus and Carrot Sticks", recipe.MealTypeSnack, recipe.CuisineTypeMediterranean,
		200, 7, 22, 10, 1.20, 1, 5, 0, []string{"vegan", "vegetarian", "gluten_free", "dairy_free"},
		[]seedIngredient{ing("hummus", 4, recipe.MeasurementUnitTablespoon), ing("carrot", 2, recipe.MeasurementUnitPiece)}},
	{"trail-mix", "Trail Mix", recipe.MealTypeSnack, recipe.CuisineTypeOther,
		240, 7, 20, 16, 1.10, 1, 2, 0, []string{"vegetarian", "gluten_free", "dairy_free"},
		[]seedIngredient{ing("mixed nut", 30, recipe.MeasurementUnitGram), ing("raisin", 15, recipe.MeasurementUnitGram)}},
}

// DemoRecipes returns the demo catalog
func DemoRecipes() ([]*recipe.Recipe, error) {
	out := make([]*recipe.Recipe, 0, len(demoCatalog))
	for _, s := range demoCatalog {
		ings := make([]recipe.Ingredient, len(s.contents))
		for i, c := range s.contents {
			ings[i] = recipe.Ingredient{Name: c.name, Quantity: c.qty, Unit: c.unit}
		}
		r, err := recipe.New(recipe.Params{
			ID:       s.id,
			Name:     s.name,
			MealType: s.mealType,
			Cuisine:  s.cuisine,
			Nutrition: recipe.Nutrition{
				Calories: s.kcal,
				Protein:  s.protein,
				Carbs:    s.carbs,
				Fat:      s.fat,
			},
			Ingredients:    ings,
			CostPerServing: s.cost,
			Servings:       s.servings,
			PrepTime:       time.Duration(s.prep) * time.Minute,
			CookTime:       time.Duration(s.cook) * time.Minute,
			Difficulty:     recipe.DifficultyLevelEasy,
			DietaryTags:    s.tags,
		})
		if err != nil {
			return nil, err
		}
		out = append(out, r)
	}
	return out, nil
}

// DemoProfiles returns the demo users
func DemoProfiles() ([]*user.Profile, error) {
	params := []user.ProfileParams{
		{
			ID:           "demo-maintenance",
			Goal:         user.GoalMaintenance,
			CookingLevel: user.CookingLevelIntermediate,
			Budget:       user.Budget{Amount: 120, Currency: "USD", Period: user.BudgetPeriodWeekly},
			Biometrics: &user.Biometrics{
				WeightKG:      72,
				HeightCM:      175,
				Age:           34,
				Sex:           user.SexMale,
				ActivityLevel: user.ActivityModerate,
			},
			LikedCuisines:       []string{"italian", "mediterranean"},
			DislikedIngredients: []string{"shrimp"},
			Servings:            1,
		},
		{
			ID:                  "demo-vegan",
			Goal:                user.GoalWeightLoss,
			CookingLevel:        user.CookingLevelBeginner,
			DietaryRestrictions: []user.DietaryRestriction{user.DietaryRestrictionVegan},
			Budget:              user.Budget{PerMealMin: 2, PerMealMax: 5, Currency: "USD"},
			DailyCalories:       1800,
			LikedCuisines:       []string{"indian"},
			Servings:            2,
			IncludeSnacks:       true,
		},
	}

	out := make([]*user.Profile, 0, len(params))
	for _, p := range params {
		profile, err := user.NewProfile(p)
		if err != nil {
			return nil, err
		}
		out = append(out, profile)
	}
	return out, nil
}
