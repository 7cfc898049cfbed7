package recipe

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/suite"
	"go.uber.org/zap/zaptest"

	"github.com/robloxdeveloper2/Foodi-Backup-sub002/internal/domain/recipe"
	"github.com/robloxdeveloper2/Foodi-Backup-sub002/internal/domain/user"
	"github.com/robloxdeveloper2/Foodi-Backup-sub002/internal/ports/inbound"
	"github.com/robloxdeveloper2/Foodi-Backup-sub002/internal/ports/outbound"
	apperrors "github.com/robloxdeveloper2/Foodi-Backup-sub002/pkg/errors"
	"github.com/robloxdeveloper2/Foodi-Backup-sub002/test/testutils"
)

type CatalogServiceTestSuite struct {
	suite.Suite
	ctx      context.Context
	recipes  *testutils.MockRecipeRepository
	profiles *testutils.MockUserProfileRepository
	service  *CatalogService
}

func (s *CatalogServiceTestSuite) SetupTest() {
	s.ctx = context.Background()
	s.recipes = new(testutils.MockRecipeRepository)
	s.profiles = new(testutils.MockUserProfileRepository)
	s.service = NewCatalogService(s.recipes, s.profiles, zaptest.NewLogger(s.T()))
}

func (s *CatalogServiceTestSuite) TearDownTest() {
	s.recipes.AssertExpectations(s.T())
	s.profiles.AssertExpectations(s.T())
}

func (s *CatalogServiceTestSuite) TestListRecipes_PushesFiltersToRepository() {
	// Arrange
	want := outbound.RecipeFilter{
		MealTypes:         []recipe.MealType{recipe.MealTypeDinner},
		Cuisines:          []recipe.CuisineType{recipe.CuisineTypeThai},
		DietaryTags:       []string{"vegan"},
		MaxCostPerServing: 8,
		Limit:             10,
	}
	s.recipes.On("List", mock.Anything, want).Return([]*recipe.Recipe{
		testutils.NewRecipeBuilder("d1", recipe.MealTypeDinner).WithCuisine(recipe.CuisineTypeThai).WithCalories(612.344).Build(s.T()),
	}, nil)

	// Act
	out, err := s.service.ListRecipes(s.ctx, inbound.RecipeQuery{
		MealType:          "Dinner",
		Cuisine:           " THAI ",
		DietaryTags:       []string{"vegan"},
		MaxCostPerServing: 8,
		Limit:             10,
	})

	// Assert
	s.Require().NoError(err)
	s.Require().Len(out, 1)
	s.Equal("d1", out[0].ID)
	s.Equal("thai", out[0].Cuisine)
	s.Equal(612.34, out[0].Nutrition.Calories)
}

func (s *CatalogServiceTestSuite) TestListRecipes_LimitBounds() {
	s.recipes.On("List", mock.Anything, outbound.RecipeFilter{Limit: defaultLimit}).Return(nil, nil).Once()
	s.recipes.On("List", mock.Anything, outbound.RecipeFilter{Limit: maxLimit}).Return(nil, nil).Once()

	_, err := s.service.ListRecipes(s.ctx, inbound.RecipeQuery{})
	s.NoError(err)
	_, err = s.service.ListRecipes(s.ctx, inbound.RecipeQuery{Limit: 10_000})
	s.NoError(err)
}

func (s *CatalogServiceTestSuite) TestListRecipes_AppliesUserConstraints() {
	// Arrange
	profile := testutils.NewProfileBuilder("u1").
		WithRestrictions(user.DietaryRestrictionVegan).
		WithBudget(user.Budget{PerMealMin: 2, PerMealMax: 5}).
		Build(s.T())
	s.profiles.On("FindByID", mock.Anything, "u1").Return(profile, nil)
	s.recipes.On("List", mock.Anything, outbound.RecipeFilter{}).Return([]*recipe.Recipe{
		testutils.NewRecipeBuilder("l1", recipe.MealTypeLunch).WithTags("vegan").WithCost(4).Build(s.T()),
		testutils.NewRecipeBuilder("l2", recipe.MealTypeLunch).WithTags("vegan").WithCost(9).Build(s.T()),
		testutils.NewRecipeBuilder("l3", recipe.MealTypeLunch).WithCost(3).Build(s.T()),
		testutils.NewRecipeBuilder("l4", recipe.MealTypeLunch).WithTags("vegan", "gluten_free").WithCost(5).Build(s.T()),
	}, nil)

	// Act
	out, err := s.service.ListRecipes(s.ctx, inbound.RecipeQuery{UserID: "u1"})

	// Assert
	s.Require().NoError(err)
	ids := make([]string, len(out))
	for i, r := range out {
		ids[i] = r.ID
	}
	s.Equal([]string{"l1", "l4"}, ids)
}

func (s *CatalogServiceTestSuite) TestListRecipes_Errors() {
	_, err := s.service.ListRecipes(s.ctx, inbound.RecipeQuery{MealType: "brunch"})
	s.True(apperrors.Is(err, apperrors.CodeValidationFailed), err)

	s.profiles.On("FindByID", mock.Anything, "ghost").Return(nil, user.ErrProfileNotFound)
	_, err = s.service.ListRecipes(s.ctx, inbound.RecipeQuery{UserID: "ghost"})
	s.True(apperrors.Is(err, apperrors.CodeUserNotFound), err)

	s.recipes.On("List", mock.Anything, mock.Anything).Return(nil, errors.New("connection reset"))
	_, err = s.service.ListRecipes(s.ctx, inbound.RecipeQuery{})
	s.True(apperrors.Is(err, apperrors.CodeDatabaseError), err)
}

func (s *CatalogServiceTestSuite) TestGetRecipe() {
	// Arrange
	r := testutils.NewRecipeBuilder("b1", recipe.MealTypeBreakfast).
		WithServings(2).
		WithTimes(5*time.Minute, 20*time.Minute).
		WithIngredients(
			recipe.Ingredient{Name: "oats", Quantity: 80, Unit: recipe.MeasurementUnitGram},
			recipe.Ingredient{Name: "banana", Quantity: 1, Unit: recipe.MeasurementUnitPiece, DisplayName: "1 ripe banana"},
		).
		Build(s.T())
	s.recipes.On("FindByID", mock.Anything, "b1").Return(r, nil)
	s.recipes.On("FindByID", mock.Anything, "nope").Return(nil, recipe.ErrRecipeNotFound)

	// Act
	dto, err := s.service.GetRecipe(s.ctx, "b1")

	// Assert
	s.Require().NoError(err)
	s.Equal("b1", dto.ID)
	s.Equal(2, dto.Servings)
	s.Equal(5, dto.PrepTimeMinutes)
	s.Equal(25, dto.TotalTimeMinutes)
	s.Require().Len(dto.Ingredients, 2)
	s.Equal("oats", dto.Ingredients[0].Label)
	s.Equal("1 ripe banana", dto.Ingredients[1].Label)
	s.Equal("g", dto.Ingredients[0].Unit)

	_, err = s.service.GetRecipe(s.ctx, "nope")
	s.True(apperrors.Is(err, apperrors.CodeRecipeNotFound), err)
}

func TestCatalogServiceTestSuite(t *testing.T) {
	suite.Run(t, new(CatalogServiceTestSuite))
}
