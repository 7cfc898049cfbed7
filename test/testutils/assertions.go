// Package testutils provides custom assertions and testing utilities
package testutils

import (
	"encoding/json"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/robloxdeveloper2/Foodi-Backup-sub002/internal/domain/mealplan"
	"github.com/robloxdeveloper2/Foodi-Backup-sub002/internal/domain/recipe"
	apperrors "github.com/robloxdeveloper2/Foodi-Backup-sub002/pkg/errors"
)

// PlanAssertions provides meal plan specific assertion methods
type PlanAssertions struct {
	t testing.TB
}

// NewPlanAssertions creates a new plan assertions helper
func NewPlanAssertions(t testing.TB) *PlanAssertions {
	return &PlanAssertions{t: t}
}

// Complete asserts every day has exactly one slot per meal type, in order
func (pa *PlanAssertions) Complete(plan *mealplan.Plan, mealTypes []recipe.MealType) {
	pa.t.Helper()
	require.NotNil(pa.t, plan, "Plan should not be nil")

	slots := plan.Slots()
	require.Len(pa.t, slots, plan.Days()*len(mealTypes), "Plan should fill every slot")
	for i, s := range slots {
		assert.Equal(pa.t, i/len(mealTypes), s.Day, "slot %d day", i)
		assert.Equal(pa.t, mealTypes[i%len(mealTypes)], s.MealType, "slot %d meal type", i)
		require.NotNil(pa.t, s.Recipe, "slot %d recipe", i)
		assert.Equal(pa.t, s.MealType, s.Recipe.MealType(), "slot %d holds a recipe of another meal type", i)
	}
}

// NoRepeatsWithin asserts a recipe is not reused within window days
func (pa *PlanAssertions) NoRepeatsWithin(plan *mealplan.Plan, window int) {
	pa.t.Helper()
	lastDay := make(map[string]int)
	for _, s := range plan.Slots() {
		if day, seen := lastDay[s.Recipe.ID()]; seen {
			assert.GreaterOrEqual(pa.t, s.Day-day, window,
				"recipe %s repeated on day %d after day %d", s.Recipe.ID(), s.Day, day)
		}
		lastDay[s.Recipe.ID()] = s.Day
	}
}

// SatisfiesRestrictions asserts every planned recipe carries every tag
func (pa *PlanAssertions) SatisfiesRestrictions(plan *mealplan.Plan, tags []string) {
	pa.t.Helper()
	for _, s := range plan.Slots() {
		assert.True(pa.t, s.Recipe.SatisfiesAll(tags),
			"recipe %s on day %d misses one of %v", s.Recipe.ID(), s.Day, tags)
	}
}

// HTTPAssertions provides HTTP-specific assertion methods
type HTTPAssertions struct {
	t testing.TB
}

// NewHTTPAssertions creates a new HTTP assertions helper
func NewHTTPAssertions(t testing.TB) *HTTPAssertions {
	return &HTTPAssertions{t: t}
}

// JSONResponse asserts the status and JSON content type, then decodes the body into target
func (ha *HTTPAssertions) JSONResponse(rec *httptest.ResponseRecorder, expectedCode int, target interface{}) {
	ha.t.Helper()
	require.Equal(ha.t, expectedCode, rec.Code, "unexpected status, body: %s", rec.Body.String())

	contentType := rec.Header().Get("Content-Type")
	assert.True(ha.t, strings.Contains(contentType, "application/json"),
		"Response should have JSON content type, got: %s", contentType)

	if target != nil {
		require.NoError(ha.t, json.Unmarshal(rec.Body.Bytes(), target), "Response should be valid JSON")
	}
}

// ErrorResponse asserts the status and the error code of the body
func (ha *HTTPAssertions) ErrorResponse(rec *httptest.ResponseRecorder, expectedCode int, code apperrors.ErrorCode) apperrors.ErrorResponse {
	ha.t.Helper()
	var body apperrors.ErrorResponse
	ha.JSONResponse(rec, expectedCode, &body)
	assert.Equal(ha.t, code, body.Error.Code)
	assert.NotEmpty(ha.t, body.Error.Message)
	return body
}
