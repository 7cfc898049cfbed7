package mealplan

import "errors"

var (
	ErrMissingUserID      = errors.New("user id is required")
	ErrInvalidDuration    = errors.New("plan duration must be between 1 and 28 days")
	ErrInvalidServings    = errors.New("servings must be greater than 0")
	ErrMissingRecipe      = errors.New("slot recipe is required")
	ErrMealTypeMismatch   = errors.New("recipe meal type does not match slot")
	ErrSlotNotFound       = errors.New("slot not found in plan")
	ErrDuplicateSlot      = errors.New("duplicate slot in plan")
	ErrSameRecipe         = errors.New("replacement recipe is already assigned to the slot")
	ErrPlanNotFound       = errors.New("meal plan not found")
	ErrSlotOutsidePlan    = errors.New("slot day is outside the plan duration")
	ErrInvalidHistoryStep = errors.New("history entry does not match plan slot")
)

// MaxDurationDays bounds a single plan
const MaxDurationDays = 28
