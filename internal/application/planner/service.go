// Package planner provides the application layer for meal planning.
// It loads inputs through the outbound ports, runs the planning engine and
// persists whatever the engine returns.
package planner

import (
	"context"
	"errors"
	"strings"
	"sync/atomic"
	"time"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"

	"github.com/robloxdeveloper2/Foodi-Backup-sub002/internal/application/keylock"
	"github.com/robloxdeveloper2/Foodi-Backup-sub002/internal/domain/grocery"
	"github.com/robloxdeveloper2/Foodi-Backup-sub002/internal/domain/mealplan"
	"github.com/robloxdeveloper2/Foodi-Backup-sub002/internal/domain/planning"
	"github.com/robloxdeveloper2/Foodi-Backup-sub002/internal/domain/preference"
	"github.com/robloxdeveloper2/Foodi-Backup-sub002/internal/domain/recipe"
	"github.com/robloxdeveloper2/Foodi-Backup-sub002/internal/domain/user"
	"github.com/robloxdeveloper2/Foodi-Backup-sub002/internal/ports/inbound"
	"github.com/robloxdeveloper2/Foodi-Backup-sub002/internal/ports/outbound"
	apperrors "github.com/robloxdeveloper2/Foodi-Backup-sub002/pkg/errors"
)

// varietyLookback is how far back prior plans seed the variety window
const varietyLookback = 7 * 24 * time.Hour

// PreferenceLoader reads the current preference state of a user.
// Both outbound.PreferenceRepository and the preference service satisfy it.
type PreferenceLoader interface {
	Load(ctx context.Context, userID string) (*preference.State, error)
}

// Metrics receives planning counters
type Metrics interface {
	PlanGenerated(goalsNotMet bool, duration time.Duration)
	SubstitutionApplied(undo bool)
	GroceryListBuilt(items int)
}

// settings is swapped atomically when configuration is reloaded
type settings struct {
	engine *planning.Engine
	costs  grocery.CostTable
}

// PlannerService implements the planning use cases
type PlannerService struct {
	settings atomic.Pointer[settings]

	profiles    outbound.UserProfileRepository
	recipes     outbound.RecipeRepository
	plans       outbound.MealPlanRepository
	groceries   outbound.GroceryListRepository
	preferences PreferenceLoader
	events      outbound.EventPublisher
	metrics     Metrics

	locks  *keylock.Map
	tracer trace.Tracer
	now    func() time.Time
	logger *zap.Logger
}

// NewPlannerService creates a new planner service
func NewPlannerService(
	engine *planning.Engine,
	costs grocery.CostTable,
	profiles outbound.UserProfileRepository,
	recipes outbound.RecipeRepository,
	plans outbound.MealPlanRepository,
	groceries outbound.GroceryListRepository,
	preferences PreferenceLoader,
	events outbound.EventPublisher,
	metrics Metrics,
	logger *zap.Logger,
) *PlannerService {
	s := &PlannerService{
		profiles:    profiles,
		recipes:     recipes,
		plans:       plans,
		groceries:   groceries,
		preferences: preferences,
		events:      events,
		metrics:     metrics,
		locks:       keylock.New(),
		tracer:      otel.Tracer("foodi/planner"),
		now:         time.Now,
		logger:      logger.Named("planner-service"),
	}
	s.settings.Store(&settings{engine: engine, costs: costs})
	return s
}

var _ inbound.PlannerService = (*PlannerService)(nil)

// Reconfigure swaps the engine and cost table used by subsequent requests
func (s *PlannerService) Reconfigure(engine *planning.Engine, costs grocery.CostTable) {
	s.settings.Store(&settings{engine: engine, costs: costs})
	s.logger.Info("Planner reconfigured",
		zap.String("variety_mode", string(engine.Config().VarietyMode)),
		zap.Duration("generation_timeout", engine.Config().GenerationTimeout),
	)
}

func (s *PlannerService) engine() *planning.Engine { return s.settings.Load().engine }

// ComputeTargets returns the daily nutrition target of a user
func (s *PlannerService) ComputeTargets(ctx context.Context, userID string) (*inbound.TargetsDTO, error) {
	ctx, span := s.tracer.Start(ctx, "planner.ComputeTargets", trace.WithAttributes(attribute.String("user.id", userID)))
	defer span.End()

	profile, err := s.loadProfile(ctx, userID)
	if err != nil {
		return nil, s.fail(span, err)
	}
	return toTargetsDTO(userID, s.engine().ComputeTargets(profile)), nil
}

// GeneratePlan builds and stores a new plan for the user
func (s *PlannerService) GeneratePlan(ctx context.Context, cmd inbound.GeneratePlanCommand) (*inbound.MealPlanDTO, error) {
	ctx, span := s.tracer.Start(ctx, "planner.GeneratePlan", trace.WithAttributes(
		attribute.String("user.id", cmd.UserID),
		attribute.Int("plan.days", cmd.DurationDays),
	))
	defer span.End()

	s.logger.Info("Generating meal plan",
		zap.String("user_id", cmd.UserID),
		zap.Int("duration_days", cmd.DurationDays),
	)

	if strings.TrimSpace(cmd.UserID) == "" {
		return nil, s.fail(span, apperrors.NewValidationError("user_id is required"))
	}
	if cmd.DurationDays < 1 || cmd.DurationDays > mealplan.MaxDurationDays {
		return nil, s.fail(span, apperrors.NewValidationError(planning.ErrInvalidDuration.Error()))
	}
	start, err := s.startDate(cmd.StartDate)
	if err != nil {
		return nil, s.fail(span, err)
	}

	profile, err := s.loadProfile(ctx, cmd.UserID)
	if err != nil {
		return nil, s.fail(span, err)
	}
	catalog, err := s.recipes.List(ctx, outbound.RecipeFilter{})
	if err != nil {
		return nil, s.fail(span, apperrors.NewDatabaseError("list recipes", err))
	}
	prior, err := s.plans.FindRecentByUser(ctx, cmd.UserID, start.Add(-varietyLookback), mealplan.MaxDurationDays)
	if err != nil {
		return nil, s.fail(span, apperrors.NewDatabaseError("find recent plans", err))
	}

	req := planning.Request{
		Profile:     profile,
		Catalog:     catalog,
		Preferences: s.loadPreferences(ctx, cmd.UserID),
		Days:        cmd.DurationDays,
		StartDate:   start,
		Servings:    cmd.Servings,
		PriorPlans:  prior,
	}
	if cmd.IncludeSnacks != nil {
		req.IncludeSnacks = *cmd.IncludeSnacks
	}

	engine := s.engine()
	genCtx, cancel := context.WithTimeout(ctx, engine.Config().GenerationTimeout)
	defer cancel()

	began := s.now()
	plan, err := engine.GeneratePlan(genCtx, req)
	if err != nil {
		return nil, s.fail(span, mapError(err, "generate plan"))
	}
	elapsed := s.now().Sub(began)

	if err := s.plans.Save(ctx, plan); err != nil {
		return nil, s.fail(span, apperrors.NewDatabaseError("save meal plan", err))
	}
	s.publish(ctx, plan)
	if s.metrics != nil {
		s.metrics.PlanGenerated(plan.GoalsNotMet(), elapsed)
	}

	span.SetAttributes(
		attribute.String("plan.id", plan.ID().String()),
		attribute.Bool("plan.goals_not_met", plan.GoalsNotMet()),
	)
	fields := []zap.Field{
		zap.String("plan_id", plan.ID().String()),
		zap.Int("slots", len(plan.Slots())),
		zap.Float64("total_cost", plan.TotalCost()),
		zap.Duration("elapsed", elapsed),
	}
	if plan.GoalsNotMet() {
		s.logger.Warn("Meal plan generated with unmet goals", append(fields, zap.Strings("reasons", plan.Reasons()))...)
	} else {
		s.logger.Info("Meal plan generated", fields...)
	}

	return toPlanDTO(plan), nil
}

// GetPlan returns a stored plan
func (s *PlannerService) GetPlan(ctx context.Context, planID uuid.UUID) (*inbound.MealPlanDTO, error) {
	ctx, span := s.tracer.Start(ctx, "planner.GetPlan", trace.WithAttributes(attribute.String("plan.id", planID.String())))
	defer span.End()

	plan, err := s.loadPlan(ctx, planID)
	if err != nil {
		return nil, s.fail(span, err)
	}
	return toPlanDTO(plan), nil
}

// GetSubstitutes ranks replacements for one planned meal
func (s *PlannerService) GetSubstitutes(ctx context.Context, q inbound.SubstitutesQuery) ([]inbound.SubstituteDTO, error) {
	ctx, span := s.tracer.Start(ctx, "planner.GetSubstitutes", trace.WithAttributes(
		attribute.String("plan.id", q.PlanID.String()),
		attribute.Int("slot.day", q.Day),
		attribute.String("slot.meal_type", q.MealType),
	))
	defer span.End()

	mealType, err := parseMealType(q.MealType)
	if err != nil {
		return nil, s.fail(span, err)
	}
	plan, err := s.loadPlan(ctx, q.PlanID)
	if err != nil {
		return nil, s.fail(span, err)
	}
	profile, err := s.loadProfile(ctx, plan.UserID())
	if err != nil {
		return nil, s.fail(span, err)
	}
	catalog, err := s.recipes.List(ctx, outbound.RecipeFilter{MealTypes: []recipe.MealType{mealType}})
	if err != nil {
		return nil, s.fail(span, apperrors.NewDatabaseError("list recipes", err))
	}

	candidates, err := s.engine().GetSubstitutes(planning.SubstitutionQuery{
		Plan:        plan,
		Day:         q.Day - 1,
		MealType:    mealType,
		Profile:     profile,
		Preferences: s.loadPreferences(ctx, plan.UserID()),
		Catalog:     catalog,
		MaxResults:  q.Limit,
	})
	if err != nil {
		return nil, s.fail(span, mapSlotError(err, q.Day, q.MealType, "rank substitutes"))
	}

	if len(candidates) == 0 {
		s.logger.Info("No substitutes within tolerance",
			zap.String("plan_id", q.PlanID.String()),
			zap.Int("day", q.Day),
			zap.String("meal_type", q.MealType),
		)
	}
	return toSubstituteDTOs(candidates), nil
}

// PreviewSubstitution reports the impact of a swap without applying it
func (s *PlannerService) PreviewSubstitution(ctx context.Context, q inbound.PreviewQuery) (*inbound.ImpactDTO, error) {
	ctx, span := s.tracer.Start(ctx, "planner.PreviewSubstitution", trace.WithAttributes(
		attribute.String("plan.id", q.PlanID.String()),
		attribute.String("recipe.id", q.RecipeID),
	))
	defer span.End()

	mealType, err := parseMealType(q.MealType)
	if err != nil {
		return nil, s.fail(span, err)
	}
	plan, err := s.loadPlan(ctx, q.PlanID)
	if err != nil {
		return nil, s.fail(span, err)
	}
	replacement, err := s.loadRecipe(ctx, q.RecipeID)
	if err != nil {
		return nil, s.fail(span, err)
	}

	impact, err := s.engine().PreviewSubstitution(plan, q.Day-1, mealType, replacement)
	if err != nil {
		return nil, s.fail(span, mapSlotError(err, q.Day, q.MealType, "preview substitution"))
	}
	dto := toImpactDTO(impact)
	return &dto, nil
}

// ApplySubstitution replaces a planned meal and stores the new plan version
func (s *PlannerService) ApplySubstitution(ctx context.Context, cmd inbound.ApplySubstitutionCommand) (*inbound.MealPlanDTO, error) {
	ctx, span := s.tracer.Start(ctx, "planner.ApplySubstitution", trace.WithAttributes(
		attribute.String("plan.id", cmd.PlanID.String()),
		attribute.String("recipe.id", cmd.RecipeID),
	))
	defer span.End()

	mealType, err := parseMealType(cmd.MealType)
	if err != nil {
		return nil, s.fail(span, err)
	}
	replacement, err := s.loadRecipe(ctx, cmd.RecipeID)
	if err != nil {
		return nil, s.fail(span, err)
	}

	unlock := s.locks.Lock(cmd.PlanID.String())
	defer unlock()

	plan, err := s.loadPlan(ctx, cmd.PlanID)
	if err != nil {
		return nil, s.fail(span, err)
	}
	updated, err := s.engine().ApplySubstitution(plan, cmd.Day-1, mealType, replacement, cmd.Reason, s.now())
	if err != nil {
		return nil, s.fail(span, mapSlotError(err, cmd.Day, cmd.MealType, "apply substitution"))
	}
	if err := s.plans.Save(ctx, updated); err != nil {
		return nil, s.fail(span, apperrors.NewDatabaseError("save meal plan", err))
	}
	s.publish(ctx, updated)
	if s.metrics != nil {
		s.metrics.SubstitutionApplied(false)
	}

	s.logger.Info("Substitution applied",
		zap.String("plan_id", cmd.PlanID.String()),
		zap.Int("day", cmd.Day),
		zap.String("meal_type", cmd.MealType),
		zap.String("recipe_id", cmd.RecipeID),
		zap.Int("history", updated.HistoryLen()),
	)
	return toPlanDTO(updated), nil
}

// UndoLastSubstitution reverts the most recent substitution. With an empty
// history the stored plan is returned unchanged.
func (s *PlannerService) UndoLastSubstitution(ctx context.Context, planID uuid.UUID) (*inbound.MealPlanDTO, error) {
	ctx, span := s.tracer.Start(ctx, "planner.UndoLastSubstitution", trace.WithAttributes(attribute.String("plan.id", planID.String())))
	defer span.End()

	unlock := s.locks.Lock(planID.String())
	defer unlock()

	plan, err := s.loadPlan(ctx, planID)
	if err != nil {
		return nil, s.fail(span, err)
	}
	undone := s.engine().UndoLastSubstitution(plan, s.now())
	if undone == plan {
		s.logger.Debug("Undo on empty history", zap.String("plan_id", planID.String()))
		return toPlanDTO(plan), nil
	}

	if err := s.plans.Save(ctx, undone); err != nil {
		return nil, s.fail(span, apperrors.NewDatabaseError("save meal plan", err))
	}
	s.publish(ctx, undone)
	if s.metrics != nil {
		s.metrics.SubstitutionApplied(true)
	}
	return toPlanDTO(undone), nil
}

// GetGroceryList derives the plan's shopping list and layers the saved overlay on it
func (s *PlannerService) GetGroceryList(ctx context.Context, planID uuid.UUID) (*inbound.GroceryListDTO, error) {
	ctx, span := s.tracer.Start(ctx, "planner.GetGroceryList", trace.WithAttributes(attribute.String("plan.id", planID.String())))
	defer span.End()

	list, err := s.groceryList(ctx, planID)
	if err != nil {
		return nil, s.fail(span, err)
	}
	return toGroceryListDTO(list), nil
}

// AddGroceryItem adds a custom line to the list
func (s *PlannerService) AddGroceryItem(ctx context.Context, cmd inbound.AddGroceryItemCommand) (*inbound.GroceryListDTO, error) {
	tables := s.engine().GroceryTables()
	return s.updateGroceryList(ctx, cmd.PlanID, "planner.AddGroceryItem", func(l *grocery.List) error {
		_, err := l.AddCustomItem(grocery.CustomItem{
			Name:          cmd.Name,
			Quantity:      cmd.Quantity,
			Unit:          recipe.MeasurementUnit(cmd.Unit),
			Category:      grocery.Category(cmd.Category),
			EstimatedCost: cmd.EstimatedCost,
		}, tables)
		return err
	})
}

// RemoveGroceryItem removes a custom line
func (s *PlannerService) RemoveGroceryItem(ctx context.Context, planID uuid.UUID, key string) (*inbound.GroceryListDTO, error) {
	return s.updateGroceryList(ctx, planID, "planner.RemoveGroceryItem", func(l *grocery.List) error {
		if err := l.RemoveCustomItem(key); err != nil {
			return apperrors.NewItemNotFoundError(key).WithCause(err)
		}
		return nil
	})
}

// ToggleGroceryItem flips the checked flag of a line
func (s *PlannerService) ToggleGroceryItem(ctx context.Context, planID uuid.UUID, key string) (*inbound.GroceryListDTO, error) {
	return s.updateGroceryList(ctx, planID, "planner.ToggleGroceryItem", func(l *grocery.List) error {
		if err := l.ToggleChecked(key); err != nil {
			return apperrors.NewItemNotFoundError(key).WithCause(err)
		}
		return nil
	})
}

func (s *PlannerService) updateGroceryList(ctx context.Context, planID uuid.UUID, op string, mutate func(*grocery.List) error) (*inbound.GroceryListDTO, error) {
	ctx, span := s.tracer.Start(ctx, op, trace.WithAttributes(attribute.String("plan.id", planID.String())))
	defer span.End()

	unlock := s.locks.Lock("grocery:" + planID.String())
	defer unlock()

	list, err := s.groceryList(ctx, planID)
	if err != nil {
		return nil, s.fail(span, err)
	}
	if err := mutate(list); err != nil {
		return nil, s.fail(span, mapError(err, "update grocery list"))
	}
	if err := s.groceries.SaveOverlay(ctx, list.Overlay()); err != nil {
		return nil, s.fail(span, apperrors.NewDatabaseError("save grocery list", err))
	}
	return toGroceryListDTO(list), nil
}

func (s *PlannerService) groceryList(ctx context.Context, planID uuid.UUID) (*grocery.List, error) {
	plan, err := s.loadPlan(ctx, planID)
	if err != nil {
		return nil, err
	}
	cfg := s.settings.Load()
	list, err := cfg.engine.BuildGroceryList(plan, cfg.costs)
	if err != nil {
		return nil, mapError(err, "build grocery list")
	}
	overlay, err := s.groceries.LoadOverlay(ctx, planID)
	if err != nil {
		return nil, apperrors.NewDatabaseError("load grocery list", err)
	}
	list.ApplyOverlay(overlay, cfg.engine.GroceryTables())
	if s.metrics != nil {
		s.metrics.GroceryListBuilt(len(list.Items))
	}
	return list, nil
}

func (s *PlannerService) loadProfile(ctx context.Context, userID string) (*user.Profile, error) {
	profile, err := s.profiles.FindByID(ctx, userID)
	if err != nil {
		if errors.Is(err, user.ErrProfileNotFound) {
			return nil, apperrors.NewUserNotFoundError(userID)
		}
		return nil, apperrors.NewDatabaseError("find user profile", err)
	}
	return profile, nil
}

func (s *PlannerService) loadPlan(ctx context.Context, planID uuid.UUID) (*mealplan.Plan, error) {
	plan, err := s.plans.FindByID(ctx, planID)
	if err != nil {
		if errors.Is(err, mealplan.ErrPlanNotFound) {
			return nil, apperrors.NewPlanNotFoundError(planID.String())
		}
		return nil, apperrors.NewDatabaseError("find meal plan", err)
	}
	return plan, nil
}

func (s *PlannerService) loadRecipe(ctx context.Context, recipeID string) (*recipe.Recipe, error) {
	if strings.TrimSpace(recipeID) == "" {
		return nil, apperrors.NewValidationError("recipe_id is required")
	}
	r, err := s.recipes.FindByID(ctx, recipeID)
	if err != nil {
		if errors.Is(err, recipe.ErrRecipeNotFound) {
			return nil, apperrors.NewRecipeNotFoundError(recipeID)
		}
		return nil, apperrors.NewDatabaseError("find recipe", err)
	}
	return r, nil
}

// loadPreferences never fails a request; planning without history is valid
func (s *PlannerService) loadPreferences(ctx context.Context, userID string) *preference.State {
	if s.preferences == nil {
		return nil
	}
	state, err := s.preferences.Load(ctx, userID)
	if err != nil {
		s.logger.Warn("Preference state unavailable, planning without it",
			zap.String("user_id", userID),
			zap.Error(err),
		)
		return nil
	}
	return state
}

func (s *PlannerService) startDate(raw string) (time.Time, error) {
	if raw == "" {
		now := s.now().UTC()
		return time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.UTC), nil
	}
	t, err := time.Parse(dateLayout, raw)
	if err != nil {
		return time.Time{}, apperrors.NewValidationError("start_date must be YYYY-MM-DD")
	}
	return t, nil
}

func (s *PlannerService) publish(ctx context.Context, plan *mealplan.Plan) {
	events := plan.DrainEvents()
	if s.events == nil || len(events) == 0 {
		return
	}
	if err := s.events.Publish(ctx, events...); err != nil {
		s.logger.Error("Failed to publish events",
			zap.String("plan_id", plan.ID().String()),
			zap.Int("count", len(events)),
			zap.Error(err),
		)
	}
}

func (s *PlannerService) fail(span trace.Span, err error) error {
	span.RecordError(err)
	span.SetStatus(codes.Error, err.Error())
	return err
}

func parseMealType(raw string) (recipe.MealType, error) {
	mt, err := recipe.ParseMealType(raw)
	if err != nil {
		return "", apperrors.NewValidationError("meal_type must be breakfast, lunch, dinner or snack")
	}
	return mt, nil
}

func mapSlotError(err error, day int, mealType, op string) error {
	if errors.Is(err, mealplan.ErrSlotNotFound) {
		return apperrors.NewSlotNotFoundError(day, mealType)
	}
	return mapError(err, op)
}

// mapError translates domain sentinels into application errors
func mapError(err error, op string) error {
	var appErr *apperrors.AppError
	switch {
	case errors.As(err, &appErr):
		return appErr
	case errors.Is(err, planning.ErrCatalogEmpty):
		return apperrors.NewCatalogEmptyError()
	case errors.Is(err, context.DeadlineExceeded):
		return apperrors.NewTimeoutError(op, err)
	case errors.Is(err, context.Canceled):
		return apperrors.NewAppError(apperrors.CodeServiceUnavailable, "Request cancelled", op).WithCause(err)
	case errors.Is(err, grocery.ErrDuplicateItem):
		return apperrors.NewConflictError(err.Error()).WithCause(err)
	case errors.Is(err, grocery.ErrItemNotFound):
		return apperrors.NewAppError(apperrors.CodeItemNotFound, "Grocery item not found", "").WithCause(err)
	case errors.Is(err, planning.ErrInvalidDuration),
		errors.Is(err, planning.ErrMissingProfile),
		errors.Is(err, mealplan.ErrMealTypeMismatch),
		errors.Is(err, mealplan.ErrSameRecipe),
		errors.Is(err, grocery.ErrMissingItemName),
		errors.Is(err, grocery.ErrInvalidQuantity),
		errors.Is(err, grocery.ErrInvalidCategory):
		return apperrors.NewValidationError(err.Error()).WithCause(err)
	default:
		return apperrors.Wrap(err, "failed to "+op)
	}
}
