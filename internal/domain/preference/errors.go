package preference

import "errors"

var (
	ErrMissingUserID     = errors.New("user id is required")
	ErrMissingRecipeID   = errors.New("recipe id is required")
	ErrInvalidSwipe      = errors.New("swipe action must be like or dislike")
	ErrInvalidRating     = errors.New("rating must be between 1 and 5")
	ErrInvalidAffinity   = errors.New("cuisine affinity must be between 1 and 5")
	ErrMissingIngredient = errors.New("ingredient name is required")
	ErrMissingCuisine    = errors.New("cuisine is required")
	ErrInvalidBucket     = errors.New("prep time bucket must be quick, moderate or elaborate")
	ErrUnknownEvent      = errors.New("unknown feedback event")
)
