package planning

import (
	"context"
	"time"

	"github.com/robloxdeveloper2/Foodi-Backup-sub002/internal/domain/grocery"
	"github.com/robloxdeveloper2/Foodi-Backup-sub002/internal/domain/mealplan"
	"github.com/robloxdeveloper2/Foodi-Backup-sub002/internal/domain/nutrition"
	"github.com/robloxdeveloper2/Foodi-Backup-sub002/internal/domain/preference"
	"github.com/robloxdeveloper2/Foodi-Backup-sub002/internal/domain/recipe"
	"github.com/robloxdeveloper2/Foodi-Backup-sub002/internal/domain/user"
)

// Engine is the pure decision core. It holds no mutable state; callers load
// inputs through their own ports and persist whatever it returns.
type Engine struct {
	cfg          Config
	calc         *nutrition.Calculator
	filter       *Filter
	scorer       *Scorer
	selector     *Selector
	substitutor  *Substitutor
	consolidator *grocery.Consolidator
}

// NewEngine wires every component from the given tables
func NewEngine(cfg Config, nutritionCfg nutrition.Config, tables grocery.Tables) *Engine {
	cfg = cfg.withDefaults()
	calc := nutrition.NewCalculator(nutritionCfg)
	filter := NewFilter()
	scorer := NewScorer(cfg)
	return &Engine{
		cfg:          cfg,
		calc:         calc,
		filter:       filter,
		scorer:       scorer,
		selector:     NewSelector(cfg, filter, scorer, calc),
		substitutor:  NewSubstitutor(cfg, filter, scorer),
		consolidator: grocery.NewConsolidator(tables),
	}
}

// Config returns the engine configuration
func (e *Engine) Config() Config { return e.cfg }

// GroceryTables returns the consolidator lookup tables
func (e *Engine) GroceryTables() grocery.Tables { return e.consolidator.Tables() }

// ComputeTargets returns the daily nutrition target for a profile
func (e *Engine) ComputeTargets(profile *user.Profile) nutrition.Target {
	return e.calc.Compute(profile)
}

// GeneratePlan builds a multi-day plan
func (e *Engine) GeneratePlan(ctx context.Context, req Request) (*mealplan.Plan, error) {
	return e.selector.Generate(ctx, req)
}

// GetSubstitutes ranks replacements for one slot
func (e *Engine) GetSubstitutes(q SubstitutionQuery) ([]Candidate, error) {
	return e.substitutor.Candidates(q)
}

// PreviewSubstitution reports the nutrition impact of a swap without applying it
func (e *Engine) PreviewSubstitution(plan *mealplan.Plan, day int, mealType recipe.MealType, replacement *recipe.Recipe) (Impact, error) {
	if plan == nil {
		return Impact{}, ErrMissingPlan
	}
	slot, ok := plan.Slot(day, mealType)
	if !ok {
		return Impact{}, mealplan.ErrSlotNotFound
	}
	return e.substitutor.Preview(plan, slot.Recipe, replacement), nil
}

// ApplySubstitution replaces a slot's recipe and records it in the history
func (e *Engine) ApplySubstitution(plan *mealplan.Plan, day int, mealType recipe.MealType, replacement *recipe.Recipe, reason string, at time.Time) (*mealplan.Plan, error) {
	if plan == nil {
		return nil, ErrMissingPlan
	}
	return plan.Substitute(day, mealType, replacement, reason, at)
}

// UndoLastSubstitution reverts the latest substitution; no-op on empty history
func (e *Engine) UndoLastSubstitution(plan *mealplan.Plan, at time.Time) *mealplan.Plan {
	if plan == nil {
		return nil
	}
	return plan.Undo(at)
}

// RecordFeedback applies one feedback event to the preference state
func (e *Engine) RecordFeedback(state *preference.State, event preference.Event, at time.Time) (*preference.State, error) {
	if state == nil {
		return nil, preference.ErrMissingUserID
	}
	return state.Apply(event, at)
}

// BuildGroceryList consolidates the plan's ingredients
func (e *Engine) BuildGroceryList(plan *mealplan.Plan, costs grocery.CostTable) (*grocery.List, error) {
	return e.consolidator.Build(plan, costs)
}
