package planning

import "errors"

var (
	// ErrCatalogEmpty is returned when no recipes are available at all
	ErrCatalogEmpty = errors.New("recipe catalog is empty")

	ErrMissingProfile  = errors.New("user profile is required")
	ErrInvalidDuration = errors.New("plan duration must be between 1 and 28 days")
	ErrMissingPlan     = errors.New("meal plan is required")
)
