package mealplan

import (
	"time"

	"github.com/google/uuid"

	"github.com/robloxdeveloper2/Foodi-Backup-sub002/internal/domain/recipe"
)

// PlanGeneratedEvent is raised when a new plan is built
type PlanGeneratedEvent struct {
	PlanID      uuid.UUID
	UserID      string
	Days        int
	GoalsNotMet bool
	GeneratedAt time.Time
}

func (e PlanGeneratedEvent) EventName() string {
	return "mealplan.generated"
}

func (e PlanGeneratedEvent) OccurredAt() time.Time {
	return e.GeneratedAt
}

// MealSubstitutedEvent is raised when a slot's recipe is replaced
type MealSubstitutedEvent struct {
	PlanID        uuid.UUID
	Day           int
	MealType      recipe.MealType
	PreviousID    string
	ReplacementID string
	SubstitutedAt time.Time
}

func (e MealSubstitutedEvent) EventName() string {
	return "mealplan.meal.substituted"
}

func (e MealSubstitutedEvent) OccurredAt() time.Time {
	return e.SubstitutedAt
}

// SubstitutionUndoneEvent is raised when the latest substitution is reverted
type SubstitutionUndoneEvent struct {
	PlanID     uuid.UUID
	Day        int
	MealType   recipe.MealType
	RestoredID string
	UndoneAt   time.Time
}

func (e SubstitutionUndoneEvent) EventName() string {
	return "mealplan.substitution.undone"
}

func (e SubstitutionUndoneEvent) OccurredAt() time.Time {
	return e.UndoneAt
}
