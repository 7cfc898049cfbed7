package recipe

import "errors"

// Domain errors for recipe construction

var (
	ErrMissingID         = errors.New("recipe id is required")
	ErrNameTooShort      = errors.New("recipe name must be at least 3 characters")
	ErrNameTooLong       = errors.New("recipe name must not exceed 200 characters")
	ErrInvalidMealType   = errors.New("invalid meal type")
	ErrInvalidServings   = errors.New("servings must be greater than 0")
	ErrNegativeCost      = errors.New("cost per serving cannot be negative")
	ErrNegativeNutrition = errors.New("nutrition values cannot be negative")
	ErrNegativeTime      = errors.New("prep and cook time cannot be negative")
	ErrRecipeNotFound    = errors.New("recipe not found")
)
