//go:build integration
// +build integration

// Package integration provides API integration tests
package integration

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"net/url"
	"testing"
	"time"

	"github.com/stretchr/testify/suite"
	"go.uber.org/zap/zaptest"

	"github.com/robloxdeveloper2/Foodi-Backup-sub002/internal/application/planner"
	"github.com/robloxdeveloper2/Foodi-Backup-sub002/internal/application/preference"
	apprecipe "github.com/robloxdeveloper2/Foodi-Backup-sub002/internal/application/recipe"
	appuser "github.com/robloxdeveloper2/Foodi-Backup-sub002/internal/application/user"
	"github.com/robloxdeveloper2/Foodi-Backup-sub002/internal/domain/grocery"
	"github.com/robloxdeveloper2/Foodi-Backup-sub002/internal/domain/nutrition"
	"github.com/robloxdeveloper2/Foodi-Backup-sub002/internal/domain/planning"
	"github.com/robloxdeveloper2/Foodi-Backup-sub002/internal/infrastructure/config"
	"github.com/robloxdeveloper2/Foodi-Backup-sub002/internal/infrastructure/http/apiserver"
	"github.com/robloxdeveloper2/Foodi-Backup-sub002/internal/infrastructure/messaging"
	"github.com/robloxdeveloper2/Foodi-Backup-sub002/internal/infrastructure/monitoring"
	gormrepo "github.com/robloxdeveloper2/Foodi-Backup-sub002/internal/infrastructure/persistence/gorm"
	"github.com/robloxdeveloper2/Foodi-Backup-sub002/internal/infrastructure/persistence/memory"
	"github.com/robloxdeveloper2/Foodi-Backup-sub002/internal/ports/inbound"
	apperrors "github.com/robloxdeveloper2/Foodi-Backup-sub002/pkg/errors"
	"github.com/robloxdeveloper2/Foodi-Backup-sub002/pkg/healthcheck"
	"github.com/robloxdeveloper2/Foodi-Backup-sub002/test/testutils"
)

// PlannerAPITestSuite drives the HTTP API over a seeded SQLite catalog
type PlannerAPITestSuite struct {
	suite.Suite
	server *httptest.Server
	http   *testutils.HTTPAssertions
}

func (s *PlannerAPITestSuite) SetupSuite() {
	logger := zaptest.NewLogger(s.T())

	db := testutils.NewSeededSQLiteDB(s.T())

	metrics := monitoring.NewMetricsCollector(logger)
	cache := memory.NewCacheRepository(0, logger)
	s.T().Cleanup(func() { _ = cache.Close() })
	bus := messaging.NewDispatcher(logger)
	messaging.RegisterAuditLog(bus, logger)

	engine := planning.NewEngine(planning.DefaultConfig(), nutrition.DefaultConfig(), grocery.DefaultTables())
	recipes := gormrepo.NewRecipeRepository(db, 128)
	profiles := gormrepo.NewUserProfileRepository(db)
	prefs := preference.NewPreferenceService(gormrepo.NewPreferenceRepository(db), cache, time.Minute, engine, metrics, logger)
	plans := planner.NewPlannerService(engine, grocery.CostTable{Default: 1},
		profiles, recipes, gormrepo.NewMealPlanRepository(db, recipes),
		gormrepo.NewGroceryListRepository(db), prefs, bus, metrics, logger)

	cfg := &config.Config{
		Server: config.ServerConfig{RequestTimeout: 10 * time.Second},
		Monitoring: config.MonitoringConfig{
			EnableMetrics:   true,
			MetricsPath:     "/metrics",
			HealthCheckPath: "/health",
		},
	}
	api := apiserver.New(cfg, logger, apiserver.Deps{
		Planner:     plans,
		Preferences: prefs,
		Profiles:    appuser.NewProfileService(profiles, logger),
		Catalog:     apprecipe.NewCatalogService(recipes, profiles, logger),
		Health:      healthcheck.New("integration", logger),
		Metrics:     metrics,
	})
	s.server = httptest.NewServer(api.Handler())
	s.http = testutils.NewHTTPAssertions(s.T())
}

func (s *PlannerAPITestSuite) TearDownSuite() {
	s.server.Close()
}

func (s *PlannerAPITestSuite) call(method, path string, body interface{}) *httptest.ResponseRecorder {
	var buf bytes.Buffer
	if body != nil {
		s.Require().NoError(json.NewEncoder(&buf).Encode(body))
	}
	req, err := http.NewRequest(method, s.server.URL+"/api/v1"+path, &buf)
	s.Require().NoError(err)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := s.server.Client().Do(req)
	s.Require().NoError(err)
	defer resp.Body.Close()

	rec := httptest.NewRecorder()
	rec.Code = resp.StatusCode
	for k, v := range resp.Header {
		rec.Header()[k] = v
	}
	_, err = rec.Body.ReadFrom(resp.Body)
	s.Require().NoError(err)
	return rec
}

func (s *PlannerAPITestSuite) generate(userID string, days int) inbound.MealPlanDTO {
	var plan inbound.MealPlanDTO
	rec := s.call(http.MethodPost, "/plans", map[string]interface{}{
		"user_id":       userID,
		"duration_days": days,
		"start_date":    "2024-06-03",
	})
	s.http.JSONResponse(rec, http.StatusCreated, &plan)
	return plan
}

func (s *PlannerAPITestSuite) TestPlanLifecycle() {
	// Generate
	plan := s.generate("demo-maintenance", 3)
	s.Require().Len(plan.Days, 3)
	for _, d := range plan.Days {
		s.NotEmpty(d.Meals, "day %d has no meals", d.Day)
	}

	// Reload
	var loaded inbound.MealPlanDTO
	s.http.JSONResponse(s.call(http.MethodGet, "/plans/"+plan.ID.String(), nil), http.StatusOK, &loaded)
	s.Equal(plan.ID, loaded.ID)
	s.Equal(plan.TotalCost, loaded.TotalCost)

	// Substitutes
	slot := plan.Days[0].Meals[0]
	var subs struct {
		Substitutes []inbound.SubstituteDTO `json:"substitutes"`
	}
	s.http.JSONResponse(s.call(http.MethodGet,
		fmt.Sprintf("/plans/%s/substitutes?day=1&meal_type=%s&limit=3", plan.ID, slot.MealType), nil),
		http.StatusOK, &subs)
	s.Require().NotEmpty(subs.Substitutes)
	s.LessOrEqual(len(subs.Substitutes), 3)
	replacement := subs.Substitutes[0].Recipe.ID
	s.NotEqual(slot.Recipe.ID, replacement)

	// Preview
	var impact inbound.ImpactDTO
	s.http.JSONResponse(s.call(http.MethodGet,
		fmt.Sprintf("/plans/%s/substitutes/preview?day=1&meal_type=%s&recipe_id=%s", plan.ID, slot.MealType, replacement), nil),
		http.StatusOK, &impact)
	s.NotEmpty(impact.Level)

	// Apply then undo
	var applied inbound.MealPlanDTO
	s.http.JSONResponse(s.call(http.MethodPost, "/plans/"+plan.ID.String()+"/substitutions", map[string]interface{}{
		"day": 1, "meal_type": slot.MealType, "recipe_id": replacement, "reason": "integration",
	}), http.StatusOK, &applied)
	s.Equal(replacement, applied.Days[0].Meals[0].Recipe.ID)
	s.Len(applied.Substitutions, 1)

	var undone inbound.MealPlanDTO
	s.http.JSONResponse(s.call(http.MethodPost, "/plans/"+plan.ID.String()+"/substitutions/undo", nil), http.StatusOK, &undone)
	s.Equal(slot.Recipe.ID, undone.Days[0].Meals[0].Recipe.ID)
	s.Empty(undone.Substitutions)
}

func (s *PlannerAPITestSuite) TestGroceryListOverlay() {
	plan := s.generate("demo-vegan", 2)
	base := fmt.Sprintf("/plans/%s/grocery-list", plan.ID)

	var list inbound.GroceryListDTO
	s.http.JSONResponse(s.call(http.MethodGet, base, nil), http.StatusOK, &list)
	s.Require().NotEmpty(list.Items)
	generated := list.Items[0].Key

	// Custom item
	s.http.JSONResponse(s.call(http.MethodPost, base+"/items", map[string]interface{}{
		"name": "Sparkling water", "quantity": 6, "unit": "piece", "estimated_cost": 3,
	}), http.StatusCreated, &list)
	var custom string
	for _, item := range list.Items {
		if item.IsCustom {
			custom = item.Key
		}
	}
	s.Require().NotEmpty(custom)

	// Checked flags survive a reload
	s.http.JSONResponse(s.call(http.MethodPost, base+"/items/"+url.PathEscape(generated)+"/toggle", nil), http.StatusOK, &list)
	s.http.JSONResponse(s.call(http.MethodGet, base, nil), http.StatusOK, &list)
	for _, item := range list.Items {
		if item.Key == generated {
			s.True(item.Checked)
		}
	}

	// Only custom items can be removed
	rec := s.call(http.MethodDelete, base+"/items/"+url.PathEscape(generated), nil)
	s.GreaterOrEqual(rec.Code, 400)
	s.http.JSONResponse(s.call(http.MethodDelete, base+"/items/"+url.PathEscape(custom), nil), http.StatusOK, &list)
	for _, item := range list.Items {
		s.False(item.IsCustom)
	}
}

func (s *PlannerAPITestSuite) TestFeedbackChangesPreferences() {
	var prefs inbound.PreferencesDTO
	rec := s.call(http.MethodPost, "/users/demo-maintenance/feedback", map[string]interface{}{
		"type": "cuisine", "cuisine": "italian", "score": 5,
	})
	s.http.JSONResponse(rec, http.StatusOK, &prefs)
	s.Equal(5, prefs.Cuisines["italian"])

	s.http.JSONResponse(s.call(http.MethodGet, "/users/demo-maintenance/preferences", nil), http.StatusOK, &prefs)
	s.Equal(5, prefs.Cuisines["italian"])
}

func (s *PlannerAPITestSuite) TestNewProfileIsPlannable() {
	// Arrange
	var profile inbound.ProfileDTO
	rec := s.call(http.MethodPut, "/users/integration-vegan/profile", map[string]interface{}{
		"dietary_restrictions": []string{"vegan"},
		"budget":               map[string]interface{}{"per_meal_min": 1, "per_meal_max": 12},
		"goal":                 "maintenance",
		"daily_calories":       2000,
	})
	s.http.JSONResponse(rec, http.StatusOK, &profile)
	s.Equal([]string{"vegan"}, profile.DietaryRestrictions)

	// Act
	plan := s.generate("integration-vegan", 2)

	// Assert
	for _, d := range plan.Days {
		for _, m := range d.Meals {
			s.Contains(m.Recipe.DietaryTags, "vegan", "day %d %s", d.Day, m.MealType)
		}
	}

	var listing struct {
		Recipes []inbound.RecipeSummaryDTO `json:"recipes"`
	}
	s.http.JSONResponse(s.call(http.MethodGet, "/recipes?user_id=integration-vegan&meal_type=dinner", nil), http.StatusOK, &listing)
	s.Require().NotEmpty(listing.Recipes)
	for _, r := range listing.Recipes {
		s.Equal("dinner", r.MealType)
		s.Contains(r.DietaryTags, "vegan")
		s.LessOrEqual(r.CostPerServing, 12.0)
	}

	var full inbound.RecipeDTO
	s.http.JSONResponse(s.call(http.MethodGet, "/recipes/"+listing.Recipes[0].ID, nil), http.StatusOK, &full)
	s.NotEmpty(full.Ingredients)
}

func (s *PlannerAPITestSuite) TestUnknownUser() {
	rec := s.call(http.MethodGet, "/users/nobody/targets", nil)

	s.http.ErrorResponse(rec, http.StatusNotFound, apperrors.CodeUserNotFound)
}

func TestPlannerAPI(t *testing.T) {
	if testing.Short() {
		t.Skip("Skipping integration tests in short mode")
	}
	suite.Run(t, new(PlannerAPITestSuite))
}

