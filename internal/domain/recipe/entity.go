// Package recipe contains the recipe catalog entity.
// Recipes are immutable reference data: the planning engine reads them but
// never mutates them.
package recipe

import (
	"sort"
	"strings"
	"time"
)

// Recipe represents a catalog recipe
type Recipe struct {
	id       string
	name     string
	mealType MealType
	cuisine  CuisineType

	ingredients []Ingredient
	nutrition   Nutrition // per serving

	costPerServing float64
	servings       int // yield the ingredient quantities are written for

	prepTime   time.Duration
	cookTime   time.Duration
	difficulty DifficultyLevel

	dietaryTags []string
}

// Params holds the attributes used to build a Recipe
type Params struct {
	ID             string
	Name           string
	MealType       MealType
	Cuisine        CuisineType
	Ingredients    []Ingredient
	Nutrition      Nutrition
	CostPerServing float64
	Servings       int
	PrepTime       time.Duration
	CookTime       time.Duration
	Difficulty     DifficultyLevel
	DietaryTags    []string
}

// New creates a new Recipe with validation
func New(p Params) (*Recipe, error) {
	if strings.TrimSpace(p.ID) == "" {
		return nil, ErrMissingID
	}
	if err := validateName(p.Name); err != nil {
		return nil, err
	}
	if !p.MealType.Valid() {
		return nil, ErrInvalidMealType
	}
	if p.CostPerServing < 0 {
		return nil, ErrNegativeCost
	}
	if p.PrepTime < 0 || p.CookTime < 0 {
		return nil, ErrNegativeTime
	}
	if err := p.Nutrition.validate(); err != nil {
		return nil, err
	}

	servings := p.Servings
	if servings == 0 {
		servings = 1
	}
	if servings < 0 {
		return nil, ErrInvalidServings
	}

	ingredients := make([]Ingredient, 0, len(p.Ingredients))
	for _, ing := range p.Ingredients {
		if err := ing.Validate(); err != nil {
			return nil, err
		}
		ingredients = append(ingredients, ing)
	}

	return &Recipe{
		id:             p.ID,
		name:           p.Name,
		mealType:       p.MealType,
		cuisine:        CuisineType(strings.ToLower(string(p.Cuisine))),
		ingredients:    ingredients,
		nutrition:      p.Nutrition,
		costPerServing: p.CostPerServing,
		servings:       servings,
		prepTime:       p.PrepTime,
		cookTime:       p.CookTime,
		difficulty:     p.Difficulty,
		dietaryTags:    normalizeTags(p.DietaryTags),
	}, nil
}

// ID returns the recipe's unique identifier
func (r *Recipe) ID() string {
	return r.id
}

// Name returns the recipe's name
func (r *Recipe) Name() string {
	return r.name
}

// MealType returns the meal slot the recipe belongs to
func (r *Recipe) MealType() MealType {
	return r.mealType
}

// Cuisine returns the recipe's cuisine tag
func (r *Recipe) Cuisine() CuisineType {
	return r.cuisine
}

// Ingredients returns a copy of the ingredient list
func (r *Recipe) Ingredients() []Ingredient {
	out := make([]Ingredient, len(r.ingredients))
	copy(out, r.ingredients)
	return out
}

// Nutrition returns per-serving nutrition
func (r *Recipe) Nutrition() Nutrition {
	return r.nutrition
}

// Calories returns per-serving calories
func (r *Recipe) Calories() float64 {
	return r.nutrition.Calories
}

// CostPerServing returns the estimated cost of one serving
func (r *Recipe) CostPerServing() float64 {
	return r.costPerServing
}

// Servings returns the yield the ingredient list is written for
func (r *Recipe) Servings() int {
	return r.servings
}

// PrepTime returns the preparation time
func (r *Recipe) PrepTime() time.Duration {
	return r.prepTime
}

// CookTime returns the cooking time
func (r *Recipe) CookTime() time.Duration {
	return r.cookTime
}

// TotalTime returns prep plus cook time
func (r *Recipe) TotalTime() time.Duration {
	return r.prepTime + r.cookTime
}

// Difficulty returns the difficulty level
func (r *Recipe) Difficulty() DifficultyLevel {
	return r.difficulty
}

// DietaryTags returns the sorted, lower-cased dietary tags
func (r *Recipe) DietaryTags() []string {
	out := make([]string, len(r.dietaryTags))
	copy(out, r.dietaryTags)
	return out
}

// HasDietaryTag reports whether the recipe declares the tag
func (r *Recipe) HasDietaryTag(tag string) bool {
	tag = strings.ToLower(strings.TrimSpace(tag))
	i := sort.SearchStrings(r.dietaryTags, tag)
	return i < len(r.dietaryTags) && r.dietaryTags[i] == tag
}

// SatisfiesAll reports whether every restriction is declared by the recipe
func (r *Recipe) SatisfiesAll(restrictions []string) bool {
	for _, tag := range restrictions {
		if !r.HasDietaryTag(tag) {
			return false
		}
	}
	return true
}

// CostPerCalorie returns cost per calorie, or false when the recipe has no calories
func (r *Recipe) CostPerCalorie() (float64, bool) {
	if r.nutrition.Calories <= 0 {
		return 0, false
	}
	return r.costPerServing / r.nutrition.Calories, true
}

func validateName(name string) error {
	if len(strings.TrimSpace(name)) < 3 {
		return ErrNameTooShort
	}
	if len(name) > 200 {
		return ErrNameTooLong
	}
	return nil
}

func normalizeTags(tags []string) []string {
	seen := make(map[string]struct{}, len(tags))
	out := make([]string, 0, len(tags))
	for _, t := range tags {
		t = strings.ToLower(strings.TrimSpace(t))
		if t == "" {
			continue
		}
		if _, ok := seen[t]; ok {
			continue
		}
		seen[t] = struct{}{}
		out = append(out, t)
	}
	sort.Strings(out)
	return out
}
