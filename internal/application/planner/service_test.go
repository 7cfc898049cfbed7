package planner

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/brianvoe/gofakeit/v6"
	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/suite"
	"go.uber.org/zap/zaptest"

	"github.com/robloxdeveloper2/Foodi-Backup-sub002/internal/domain/grocery"
	"github.com/robloxdeveloper2/Foodi-Backup-sub002/internal/domain/mealplan"
	"github.com/robloxdeveloper2/Foodi-Backup-sub002/internal/domain/nutrition"
	"github.com/robloxdeveloper2/Foodi-Backup-sub002/internal/domain/planning"
	"github.com/robloxdeveloper2/Foodi-Backup-sub002/internal/domain/preference"
	"github.com/robloxdeveloper2/Foodi-Backup-sub002/internal/domain/recipe"
	"github.com/robloxdeveloper2/Foodi-Backup-sub002/internal/domain/user"
	"github.com/robloxdeveloper2/Foodi-Backup-sub002/internal/ports/inbound"
	apperrors "github.com/robloxdeveloper2/Foodi-Backup-sub002/pkg/errors"
	"github.com/robloxdeveloper2/Foodi-Backup-sub002/test/testutils"
)

var fixedNow = time.Date(2024, 6, 3, 9, 30, 0, 0, time.UTC)

type recordingMetrics struct {
	generated     int
	goalsNotMet   int
	substitutions int
	undos         int
	groceryLists  int
}

func (m *recordingMetrics) PlanGenerated(goalsNotMet bool, _ time.Duration) {
	m.generated++
	if goalsNotMet {
		m.goalsNotMet++
	}
}

func (m *recordingMetrics) SubstitutionApplied(undo bool) {
	if undo {
		m.undos++
		return
	}
	m.substitutions++
}

func (m *recordingMetrics) GroceryListBuilt(int) { m.groceryLists++ }

type PlannerServiceTestSuite struct {
	suite.Suite
	ctx       context.Context
	engine    *planning.Engine
	profiles  *testutils.MockUserProfileRepository
	recipes   *testutils.MockRecipeRepository
	plans     *testutils.MockMealPlanRepository
	groceries *testutils.MockGroceryListRepository
	prefs     *testutils.MockPreferenceRepository
	events    *testutils.MockEventPublisher
	metrics   *recordingMetrics
	service   *PlannerService

	profile *user.Profile
	catalog []*recipe.Recipe
}

func (s *PlannerServiceTestSuite) SetupTest() {
	s.ctx = context.Background()
	s.engine = planning.NewEngine(planning.DefaultConfig(), nutrition.DefaultConfig(), grocery.DefaultTables())
	s.profiles = new(testutils.MockUserProfileRepository)
	s.recipes = new(testutils.MockRecipeRepository)
	s.plans = new(testutils.MockMealPlanRepository)
	s.groceries = new(testutils.MockGroceryListRepository)
	s.prefs = new(testutils.MockPreferenceRepository)
	s.events = new(testutils.MockEventPublisher)
	s.metrics = &recordingMetrics{}

	s.service = NewPlannerService(
		s.engine,
		grocery.CostTable{Default: 1},
		s.profiles, s.recipes, s.plans, s.groceries, s.prefs, s.events, s.metrics,
		zaptest.NewLogger(s.T()),
	)
	s.service.now = func() time.Time { return fixedNow }

	s.profile = testutils.NewProfileBuilder("user-1").
		WithBudget(user.Budget{Amount: 15, Period: user.BudgetPeriodDaily}).
		Build(s.T())
	s.catalog = testutils.BalancedCatalog(s.T(), 3)
}

func (s *PlannerServiceTestSuite) storedPlan() *mealplan.Plan {
	plan, err := s.engine.GeneratePlan(s.ctx, planning.Request{
		Profile:   s.profile,
		Catalog:   s.catalog,
		Days:      2,
		StartDate: fixedNow,
	})
	s.Require().NoError(err)
	plan.DrainEvents()
	s.plans.On("FindByID", mock.Anything, plan.ID()).Return(plan, nil)
	return plan
}

func mealOf(day inbound.PlanDayDTO, mealType string) inbound.MealDTO {
	for _, m := range day.Meals {
		if m.MealType == mealType {
			return m
		}
	}
	return inbound.MealDTO{}
}

func (s *PlannerServiceTestSuite) expectGenerationInputs() {
	s.profiles.On("FindByID", mock.Anything, "user-1").Return(s.profile, nil)
	s.recipes.On("List", mock.Anything, mock.Anything).Return(s.catalog, nil)
	s.plans.On("FindRecentByUser", mock.Anything, "user-1", mock.Anything, mealplan.MaxDurationDays).Return(nil, nil)
}

func (s *PlannerServiceTestSuite) TestGeneratePlan_StoresPlanAndPublishesEvent() {
	// Arrange
	s.expectGenerationInputs()
	state, _ := preference.New("user-1")
	s.prefs.On("Load", mock.Anything, "user-1").Return(state, nil)
	s.plans.On("Save", mock.Anything, mock.AnythingOfType("*mealplan.Plan")).Return(nil)
	s.events.On("Publish", mock.Anything, mock.Anything).Return(nil)

	// Act
	dto, err := s.service.GeneratePlan(s.ctx, inbound.GeneratePlanCommand{
		UserID:       "user-1",
		DurationDays: 3,
		StartDate:    "2024-06-03",
	})

	// Assert
	s.Require().NoError(err)
	s.False(dto.GoalsNotMet, dto.Reasons)
	s.Equal("2024-06-03", dto.StartDate)
	s.Require().Len(dto.Days, 3)
	s.Equal("2024-06-05", dto.Days[2].Date)
	for _, day := range dto.Days {
		s.Len(day.Meals, 3)
		s.InDelta(2000.0, day.Nutrition.Calories, 1e-6)
		s.InDelta(15.0, day.Cost, 1e-6)
	}
	s.InDelta(45.0, dto.TotalCost, 1e-6)
	s.Equal([]string{"mealplan.generated"}, s.events.EventNames())
	s.Equal(1, s.metrics.generated)
	s.plans.AssertNumberOfCalls(s.T(), "Save", 1)
}

func (s *PlannerServiceTestSuite) TestGeneratePlan_DefaultsStartDateToToday() {
	s.expectGenerationInputs()
	s.prefs.On("Load", mock.Anything, "user-1").Return(nil, errors.New("redis down"))
	s.plans.On("Save", mock.Anything, mock.Anything).Return(nil)
	s.events.On("Publish", mock.Anything, mock.Anything).Return(nil)

	dto, err := s.service.GeneratePlan(s.ctx, inbound.GeneratePlanCommand{UserID: "user-1", DurationDays: 1})

	s.Require().NoError(err)
	s.Equal("2024-06-03", dto.StartDate)
}

func (s *PlannerServiceTestSuite) TestGeneratePlan_RejectsInvalidInput() {
	tests := []struct {
		name string
		cmd  inbound.GeneratePlanCommand
	}{
		{"missing user", inbound.GeneratePlanCommand{DurationDays: 3}},
		{"zero days", inbound.GeneratePlanCommand{UserID: "user-1"}},
		{"too many days", inbound.GeneratePlanCommand{UserID: "user-1", DurationDays: 29}},
		{"bad date", inbound.GeneratePlanCommand{UserID: "user-1", DurationDays: 3, StartDate: "03/06/2024"}},
	}
	for _, tt := range tests {
		s.Run(tt.name, func() {
			_, err := s.service.GeneratePlan(s.ctx, tt.cmd)

			s.True(apperrors.Is(err, apperrors.CodeValidationFailed), err)
		})
	}
	s.profiles.AssertNotCalled(s.T(), "FindByID", mock.Anything, mock.Anything)
}

func (s *PlannerServiceTestSuite) TestGeneratePlan_UnknownUser() {
	s.profiles.On("FindByID", mock.Anything, "ghost").Return(nil, user.ErrProfileNotFound)

	_, err := s.service.GeneratePlan(s.ctx, inbound.GeneratePlanCommand{UserID: "ghost", DurationDays: 3})

	s.True(apperrors.Is(err, apperrors.CodeUserNotFound), err)
}

func (s *PlannerServiceTestSuite) TestGeneratePlan_EmptyCatalog() {
	s.profiles.On("FindByID", mock.Anything, "user-1").Return(s.profile, nil)
	s.recipes.On("List", mock.Anything, mock.Anything).Return([]*recipe.Recipe{}, nil)
	s.plans.On("FindRecentByUser", mock.Anything, mock.Anything, mock.Anything, mock.Anything).Return(nil, nil)
	s.prefs.On("Load", mock.Anything, mock.Anything).Return(nil, nil)

	_, err := s.service.GeneratePlan(s.ctx, inbound.GeneratePlanCommand{UserID: "user-1", DurationDays: 3})

	s.True(apperrors.Is(err, apperrors.CodeCatalogEmpty), err)
	s.plans.AssertNotCalled(s.T(), "Save", mock.Anything, mock.Anything)
	s.Zero(s.metrics.generated)
}

func (s *PlannerServiceTestSuite) TestGeneratePlan_CatalogReadFailure() {
	s.profiles.On("FindByID", mock.Anything, "user-1").Return(s.profile, nil)
	s.recipes.On("List", mock.Anything, mock.Anything).Return(nil, errors.New("connection refused"))

	_, err := s.service.GeneratePlan(s.ctx, inbound.GeneratePlanCommand{UserID: "user-1", DurationDays: 3})

	s.True(apperrors.Is(err, apperrors.CodeDatabaseError), err)
}

func (s *PlannerServiceTestSuite) TestComputeTargets() {
	s.profiles.On("FindByID", mock.Anything, "user-1").Return(s.profile, nil)

	dto, err := s.service.ComputeTargets(s.ctx, "user-1")

	s.Require().NoError(err)
	s.Equal(2000.0, dto.Calories)
	s.False(dto.Estimated)
}

func (s *PlannerServiceTestSuite) TestComputeTargets_FromBiometrics() {
	faker := gofakeit.New(7)
	for i := 0; i < 20; i++ {
		profile := testutils.RandomProfile(s.T(), faker)
		s.profiles.On("FindByID", mock.Anything, profile.ID()).Return(profile, nil)

		dto, err := s.service.ComputeTargets(s.ctx, profile.ID())

		s.Require().NoError(err)
		s.False(dto.Estimated, "complete biometrics are not an estimate")
		s.GreaterOrEqual(dto.Calories, 1200.0)
		macroKcal := 4*dto.ProteinG + 4*dto.CarbsG + 9*dto.FatG
		s.InDelta(dto.Calories, macroKcal, 1.0, "macros add up to the calorie target")
	}
}

func (s *PlannerServiceTestSuite) TestApplySubstitutionThenUndo() {
	// Arrange
	plan := s.storedPlan()
	replacement := testutils.NewRecipeBuilder("d-new", recipe.MealTypeDinner).WithCalories(800).WithCost(6).Build(s.T())
	s.recipes.On("FindByID", mock.Anything, "d-new").Return(replacement, nil)
	var saved *mealplan.Plan
	s.plans.On("Save", mock.Anything, mock.Anything).Run(func(args mock.Arguments) {
		saved = args.Get(1).(*mealplan.Plan)
	}).Return(nil)
	s.events.On("Publish", mock.Anything, mock.Anything).Return(nil)

	// Act
	dto, err := s.service.ApplySubstitution(s.ctx, inbound.ApplySubstitutionCommand{
		PlanID: plan.ID(), Day: 1, MealType: "dinner", RecipeID: "d-new", Reason: "craving",
	})

	// Assert
	s.Require().NoError(err)
	s.Equal("d-new", mealOf(dto.Days[0], "dinner").Recipe.ID)
	s.Require().Len(dto.Substitutions, 1)
	s.Equal("craving", dto.Substitutions[0].Reason)
	s.Equal(1, s.metrics.substitutions)

	// the stored original is untouched and undo of the saved version restores it
	slot, _ := plan.Slot(0, recipe.MealTypeDinner)
	s.NotEqual("d-new", slot.Recipe.ID())
	s.plans.ExpectedCalls = nil
	s.plans.On("FindByID", mock.Anything, plan.ID()).Return(saved, nil)
	s.plans.On("Save", mock.Anything, mock.Anything).Return(nil)

	undone, err := s.service.UndoLastSubstitution(s.ctx, plan.ID())
	s.Require().NoError(err)
	s.Equal(slot.Recipe.ID(), mealOf(undone.Days[0], "dinner").Recipe.ID)
	s.Empty(undone.Substitutions)
	s.Equal(1, s.metrics.undos)
	s.Equal([]string{"mealplan.meal.substituted", "mealplan.substitution.undone"}, s.events.EventNames())
}

func (s *PlannerServiceTestSuite) TestUndo_EmptyHistoryIsNoop() {
	plan := s.storedPlan()

	dto, err := s.service.UndoLastSubstitution(s.ctx, plan.ID())

	s.Require().NoError(err)
	s.Equal(plan.Version(), dto.Version)
	s.plans.AssertNotCalled(s.T(), "Save", mock.Anything, mock.Anything)
	s.Zero(s.metrics.undos)
}

func (s *PlannerServiceTestSuite) TestApplySubstitution_Errors() {
	plan := s.storedPlan()
	s.recipes.On("FindByID", mock.Anything, "missing").Return(nil, recipe.ErrRecipeNotFound)
	s.recipes.On("FindByID", mock.Anything, "l2").Return(s.catalog[4], nil)
	s.plans.On("FindByID", mock.Anything, mock.Anything).Return(nil, mealplan.ErrPlanNotFound)

	_, err := s.service.ApplySubstitution(s.ctx, inbound.ApplySubstitutionCommand{PlanID: plan.ID(), Day: 1, MealType: "dinner", RecipeID: "missing"})
	s.True(apperrors.Is(err, apperrors.CodeRecipeNotFound), err)

	_, err = s.service.ApplySubstitution(s.ctx, inbound.ApplySubstitutionCommand{PlanID: plan.ID(), Day: 1, MealType: "brunch", RecipeID: "l2"})
	s.True(apperrors.Is(err, apperrors.CodeValidationFailed), err)

	_, err = s.service.ApplySubstitution(s.ctx, inbound.ApplySubstitutionCommand{PlanID: plan.ID(), Day: 1, MealType: "dinner", RecipeID: "l2"})
	s.True(apperrors.Is(err, apperrors.CodeValidationFailed), err)

	_, err = s.service.ApplySubstitution(s.ctx, inbound.ApplySubstitutionCommand{PlanID: plan.ID(), Day: 9, MealType: "lunch", RecipeID: "l2"})
	s.True(apperrors.Is(err, apperrors.CodeSlotNotFound), err)

	_, err = s.service.ApplySubstitution(s.ctx, inbound.ApplySubstitutionCommand{PlanID: uuid.New(), Day: 1, MealType: "lunch", RecipeID: "l2"})
	s.True(apperrors.Is(err, apperrors.CodePlanNotFound), err)
}

func (s *PlannerServiceTestSuite) TestGetSubstitutes_RankedWithinGate() {
	plan := s.storedPlan()
	s.profiles.On("FindByID", mock.Anything, "user-1").Return(s.profile, nil)
	s.prefs.On("Load", mock.Anything, "user-1").Return(nil, nil)
	s.recipes.On("List", mock.Anything, mock.Anything).Return(s.catalog, nil)

	subs, err := s.service.GetSubstitutes(s.ctx, inbound.SubstitutesQuery{PlanID: plan.ID(), Day: 1, MealType: "lunch"})

	s.Require().NoError(err)
	used := plan.RecipeIDs()
	for _, sub := range subs {
		s.Equal("lunch", sub.Recipe.MealType)
		_, planned := used[sub.Recipe.ID]
		s.False(planned, sub.Recipe.ID)
		s.Equal("minimal", sub.Impact.Level)
	}
	s.Len(subs, 1)
}

func (s *PlannerServiceTestSuite) TestPreviewSubstitution() {
	plan := s.storedPlan()
	heavy := testutils.NewRecipeBuilder("d-heavy", recipe.MealTypeDinner).WithCalories(1200).WithCost(9).Build(s.T())
	s.recipes.On("FindByID", mock.Anything, "d-heavy").Return(heavy, nil)

	impact, err := s.service.PreviewSubstitution(s.ctx, inbound.PreviewQuery{PlanID: plan.ID(), Day: 2, MealType: "dinner", RecipeID: "d-heavy"})

	s.Require().NoError(err)
	s.InDelta(400.0, impact.Delta.Calories, 1e-6)
	s.InDelta(3.0, impact.CostDelta, 1e-6)
	s.Equal("significant", impact.Level)
}

func (s *PlannerServiceTestSuite) TestGroceryList_OverlayRoundTrip() {
	// Arrange
	plan := s.storedPlan()
	s.groceries.On("LoadOverlay", mock.Anything, plan.ID()).Return(grocery.Overlay{PlanID: plan.ID()}, nil).Once()
	var saved grocery.Overlay
	s.groceries.On("SaveOverlay", mock.Anything, mock.Anything).Run(func(args mock.Arguments) {
		saved = args.Get(1).(grocery.Overlay)
	}).Return(nil)

	// Act
	list, err := s.service.AddGroceryItem(s.ctx, inbound.AddGroceryItemCommand{PlanID: plan.ID(), Name: "Coffee", EstimatedCost: 7.5})

	// Assert
	s.Require().NoError(err)
	s.Require().Len(saved.Custom, 1)
	s.Equal("Coffee", saved.Custom[0].Name)

	var custom *inbound.GroceryItemDTO
	for i := range list.Items {
		if list.Items[i].IsCustom {
			custom = &list.Items[i]
		}
	}
	s.Require().NotNil(custom)
	s.Equal("custom:coffee", custom.Key)

	s.groceries.On("LoadOverlay", mock.Anything, plan.ID()).Return(saved, nil)
	toggled, err := s.service.ToggleGroceryItem(s.ctx, plan.ID(), "custom:coffee")
	s.Require().NoError(err)
	s.Equal([]string{"custom:coffee"}, saved.Checked)
	s.InDelta(list.TotalCost, toggled.TotalCost, 1e-9)

	_, err = s.service.ToggleGroceryItem(s.ctx, plan.ID(), "caviar")
	s.True(apperrors.Is(err, apperrors.CodeItemNotFound), err)

	_, err = s.service.AddGroceryItem(s.ctx, inbound.AddGroceryItemCommand{PlanID: plan.ID(), Name: "coffee"})
	s.True(apperrors.Is(err, apperrors.CodeConflict), err)

	_, err = s.service.RemoveGroceryItem(s.ctx, plan.ID(), "custom:coffee")
	s.Require().NoError(err)
	s.Empty(saved.Custom)
}

func TestPlannerServiceTestSuite(t *testing.T) {
	suite.Run(t, new(PlannerServiceTestSuite))
}
