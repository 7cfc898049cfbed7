// Package recipe provides the application layer for browsing the recipe catalog
package recipe

import (
	"context"
	"errors"
	"math"
	"strings"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"

	"github.com/robloxdeveloper2/Foodi-Backup-sub002/internal/domain/planning"
	"github.com/robloxdeveloper2/Foodi-Backup-sub002/internal/domain/recipe"
	"github.com/robloxdeveloper2/Foodi-Backup-sub002/internal/domain/user"
	"github.com/robloxdeveloper2/Foodi-Backup-sub002/internal/ports/inbound"
	"github.com/robloxdeveloper2/Foodi-Backup-sub002/internal/ports/outbound"
	apperrors "github.com/robloxdeveloper2/Foodi-Backup-sub002/pkg/errors"
)

const (
	defaultLimit = 50
	maxLimit     = 200
)

// CatalogService implements the catalog queries
type CatalogService struct {
	recipes  outbound.RecipeRepository
	profiles outbound.UserProfileRepository
	filter   *planning.Filter
	tracer   trace.Tracer
	logger   *zap.Logger
}

// NewCatalogService creates a new catalog service
func NewCatalogService(
	recipes outbound.RecipeRepository,
	profiles outbound.UserProfileRepository,
	logger *zap.Logger,
) *CatalogService {
	return &CatalogService{
		recipes:  recipes,
		profiles: profiles,
		filter:   planning.NewFilter(),
		tracer:   otel.Tracer("foodi/recipe"),
		logger:   logger.Named("catalog-service"),
	}
}

var _ inbound.CatalogService = (*CatalogService)(nil)

// ListRecipes returns catalog recipes ordered by id. With a user the same
// hard constraints the planner uses are applied.
func (s *CatalogService) ListRecipes(ctx context.Context, q inbound.RecipeQuery) ([]inbound.RecipeSummaryDTO, error) {
	ctx, span := s.tracer.Start(ctx, "recipe.ListRecipes", trace.WithAttributes(
		attribute.String("recipe.meal_type", q.MealType),
		attribute.String("user.id", q.UserID),
	))
	defer span.End()

	limit := q.Limit
	if limit <= 0 {
		limit = defaultLimit
	}
	if limit > maxLimit {
		limit = maxLimit
	}

	filter := outbound.RecipeFilter{
		DietaryTags:       q.DietaryTags,
		MaxCostPerServing: q.MaxCostPerServing,
	}
	var criteria planning.Criteria
	if q.MealType != "" {
		mt, err := recipe.ParseMealType(q.MealType)
		if err != nil {
			return nil, s.fail(span, apperrors.NewValidationError("meal_type must be breakfast, lunch, dinner or snack"))
		}
		filter.MealTypes = []recipe.MealType{mt}
		criteria.MealType = mt
	}
	if c := strings.TrimSpace(q.Cuisine); c != "" {
		filter.Cuisines = []recipe.CuisineType{recipe.CuisineType(strings.ToLower(c))}
	}

	if q.UserID == "" {
		filter.Limit = limit
	} else {
		profile, err := s.profiles.FindByID(ctx, q.UserID)
		if err != nil {
			if errors.Is(err, user.ErrProfileNotFound) {
				return nil, s.fail(span, apperrors.NewUserNotFoundError(q.UserID))
			}
			return nil, s.fail(span, apperrors.NewDatabaseError("find user profile", err))
		}
		criteria.Restrictions = profile.RestrictionTags()
		criteria.Ceiling = profile.Budget().PerMealMax
	}

	found, err := s.recipes.List(ctx, filter)
	if err != nil {
		return nil, s.fail(span, apperrors.NewDatabaseError("list recipes", err))
	}
	if q.UserID != "" {
		found = s.filter.Apply(found, criteria)
	}
	if len(found) > limit {
		found = found[:limit]
	}

	out := make([]inbound.RecipeSummaryDTO, len(found))
	for i, r := range found {
		out[i] = toSummary(r)
	}
	span.SetAttributes(attribute.Int("recipe.count", len(out)))
	s.logger.Debug("Listed recipes", zap.Int("count", len(out)), zap.String("user_id", q.UserID))
	return out, nil
}

// GetRecipe returns one catalog entry with its ingredients
func (s *CatalogService) GetRecipe(ctx context.Context, recipeID string) (*inbound.RecipeDTO, error) {
	ctx, span := s.tracer.Start(ctx, "recipe.GetRecipe", trace.WithAttributes(attribute.String("recipe.id", recipeID)))
	defer span.End()

	r, err := s.recipes.FindByID(ctx, recipeID)
	if err != nil {
		if errors.Is(err, recipe.ErrRecipeNotFound) {
			return nil, s.fail(span, apperrors.NewRecipeNotFoundError(recipeID))
		}
		return nil, s.fail(span, apperrors.NewDatabaseError("find recipe", err))
	}

	ingredients := make([]inbound.IngredientDTO, 0, len(r.Ingredients()))
	for _, ing := range r.Ingredients() {
		ingredients = append(ingredients, inbound.IngredientDTO{
			Name:     ing.Name,
			Label:    ing.Label(),
			Quantity: ing.Quantity,
			Unit:     string(ing.Unit),
		})
	}
	return &inbound.RecipeDTO{
		RecipeSummaryDTO: toSummary(r),
		Servings:         r.Servings(),
		PrepTimeMinutes:  int(r.PrepTime() / time.Minute),
		CookTimeMinutes:  int(r.CookTime() / time.Minute),
		Difficulty:       string(r.Difficulty()),
		Ingredients:      ingredients,
	}, nil
}

func (s *CatalogService) fail(span trace.Span, err error) error {
	span.RecordError(err)
	span.SetStatus(codes.Error, err.Error())
	return err
}

func toSummary(r *recipe.Recipe) inbound.RecipeSummaryDTO {
	n := r.Nutrition()
	return inbound.RecipeSummaryDTO{
		ID:               r.ID(),
		Name:             r.Name(),
		MealType:         string(r.MealType()),
		Cuisine:          string(r.Cuisine()),
		CostPerServing:   r.CostPerServing(),
		TotalTimeMinutes: int(r.TotalTime() / time.Minute),
		DietaryTags:      r.DietaryTags(),
		Nutrition: inbound.NutritionDTO{
			Calories: round2(n.Calories),
			ProteinG: round2(n.Protein),
			CarbsG:   round2(n.Carbs),
			FatG:     round2(n.Fat),
		},
	}
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}
