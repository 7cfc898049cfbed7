// Package performance benchmarks plan generation and its follow-up operations
//go:build performance
// +build performance

package performance

import (
	"context"
	"fmt"
	"runtime"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/robloxdeveloper2/Foodi-Backup-sub002/internal/domain/grocery"
	"github.com/robloxdeveloper2/Foodi-Backup-sub002/internal/domain/mealplan"
	"github.com/robloxdeveloper2/Foodi-Backup-sub002/internal/domain/nutrition"
	"github.com/robloxdeveloper2/Foodi-Backup-sub002/internal/domain/planning"
	"github.com/robloxdeveloper2/Foodi-Backup-sub002/internal/domain/recipe"
	"github.com/robloxdeveloper2/Foodi-Backup-sub002/test/testutils"
)

const (
	SmallCatalog  = 10
	MediumCatalog = 100
	LargeCatalog  = 1000

	// MaxGenerationTime bounds one 28-day plan over the large catalog
	MaxGenerationTime = 5 * time.Second
)

var start = time.Date(2024, 6, 3, 0, 0, 0, 0, time.UTC)

// PerformanceMetrics holds performance measurement data
type PerformanceMetrics struct {
	StartTime    time.Time
	EndTime      time.Time
	Duration     time.Duration
	MemoryBefore runtime.MemStats
	MemoryAfter  runtime.MemStats
	GCCycles     uint32
}

// NewPerformanceMetrics creates a new performance metrics instance
func NewPerformanceMetrics() *PerformanceMetrics {
	pm := &PerformanceMetrics{StartTime: time.Now()}
	runtime.GC()
	runtime.ReadMemStats(&pm.MemoryBefore)
	return pm
}

// Stop stops performance measurement and calculates metrics
func (pm *PerformanceMetrics) Stop() {
	pm.EndTime = time.Now()
	pm.Duration = pm.EndTime.Sub(pm.StartTime)
	runtime.ReadMemStats(&pm.MemoryAfter)
	pm.GCCycles = pm.MemoryAfter.NumGC - pm.MemoryBefore.NumGC
}

// AllocatedMB returns the bytes allocated during the measurement in MB
func (pm *PerformanceMetrics) AllocatedMB() float64 {
	return float64(pm.MemoryAfter.TotalAlloc-pm.MemoryBefore.TotalAlloc) / 1024 / 1024
}

// AllocationsPerOp returns allocations per operation
func (pm *PerformanceMetrics) AllocationsPerOp(operations int) uint64 {
	if operations == 0 {
		return 0
	}
	return (pm.MemoryAfter.Mallocs - pm.MemoryBefore.Mallocs) / uint64(operations)
}

func newEngine() *planning.Engine {
	return planning.NewEngine(planning.DefaultConfig(), nutrition.DefaultConfig(), grocery.DefaultTables())
}

func withIngredients(tb testing.TB, n int) []*recipe.Recipe {
	tb.Helper()
	var out []*recipe.Recipe
	for i := 1; i <= n; i++ {
		for _, mt := range []recipe.MealType{recipe.MealTypeBreakfast, recipe.MealTypeLunch, recipe.MealTypeDinner} {
			out = append(out, testutils.NewRecipeBuilder(fmt.Sprintf("%s-%d", mt, i), mt).
				WithCalories(650).
				WithCost(5).
				WithIngredients(
					recipe.Ingredient{Name: "onion", Quantity: 1, Unit: recipe.MeasurementUnitPiece},
					recipe.Ingredient{Name: "olive oil", Quantity: 1, Unit: recipe.MeasurementUnitTablespoon},
					recipe.Ingredient{Name: fmt.Sprintf("item %d", i%25), Quantity: 200, Unit: recipe.MeasurementUnitGram},
				).
				Build(tb))
		}
	}
	return out
}

func generate(tb testing.TB, engine *planning.Engine, catalog []*recipe.Recipe, days int) *mealplan.Plan {
	tb.Helper()
	plan, err := engine.GeneratePlan(context.Background(), planning.Request{
		Profile:   testutils.NewProfileBuilder("bench").Build(tb),
		Catalog:   catalog,
		Days:      days,
		StartDate: start,
	})
	require.NoError(tb, err)
	return plan
}

func BenchmarkGeneratePlan(b *testing.B) {
	engine := newEngine()

	for _, size := range []int{SmallCatalog, MediumCatalog, LargeCatalog} {
		catalog := testutils.BalancedCatalog(b, size)
		for _, days := range []int{7, 28} {
			b.Run(fmt.Sprintf("catalog=%d/days=%d", len(catalog), days), func(b *testing.B) {
				b.ReportAllocs()
				b.ResetTimer()
				for i := 0; i < b.N; i++ {
					generate(b, engine, catalog, days)
				}
			})
		}
	}
}

func BenchmarkGeneratePlan_Parallel(b *testing.B) {
	engine := newEngine()
	catalog := testutils.BalancedCatalog(b, MediumCatalog)

	b.RunParallel(func(pb *testing.PB) {
		for pb.Next() {
			generate(b, engine, catalog, 7)
		}
	})
}

func BenchmarkGetSubstitutes(b *testing.B) {
	engine := newEngine()
	catalog := testutils.BalancedCatalog(b, MediumCatalog)
	profile := testutils.NewProfileBuilder("bench").Build(b)
	plan := generate(b, engine, catalog, 7)

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		_, err := engine.GetSubstitutes(planning.SubstitutionQuery{
			Plan:       plan,
			Day:        1 + i%7,
			MealType:   recipe.MealTypeDinner,
			Profile:    profile,
			Catalog:    catalog,
			MaxResults: 5,
		})
		if err != nil {
			b.Fatal(err)
		}
	}
}

func BenchmarkBuildGroceryList(b *testing.B) {
	engine := newEngine()
	plan := generate(b, engine, withIngredients(b, MediumCatalog), 28)
	costs := grocery.CostTable{Default: 1.5}

	metrics := NewPerformanceMetrics()
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		if _, err := engine.BuildGroceryList(plan, costs); err != nil {
			b.Fatal(err)
		}
	}
	b.StopTimer()
	metrics.Stop()

	b.ReportMetric(metrics.AllocatedMB()/float64(b.N), "MB/op")
	b.ReportMetric(float64(metrics.AllocationsPerOp(b.N)), "mallocs/op")
}

func TestGeneratePlan_LargeCatalogWithinLimit(t *testing.T) {
	if testing.Short() {
		t.Skip("Skipping large catalog timing in short mode")
	}
	engine := newEngine()
	catalog := testutils.BalancedCatalog(t, LargeCatalog)

	metrics := NewPerformanceMetrics()
	plan := generate(t, engine, catalog, mealplan.MaxDurationDays)
	metrics.Stop()

	require.Equal(t, mealplan.MaxDurationDays, plan.Days())
	pa := testutils.NewPlanAssertions(t)
	pa.Complete(plan, []recipe.MealType{recipe.MealTypeBreakfast, recipe.MealTypeLunch, recipe.MealTypeDinner})
	pa.NoRepeatsWithin(plan, 7)
	require.Less(t, metrics.Duration, MaxGenerationTime,
		"28-day plan over %d recipes took %s", len(catalog), metrics.Duration)
	t.Logf("generated in %s, %.1f MB allocated, %d GC cycles",
		metrics.Duration, metrics.AllocatedMB(), metrics.GCCycles)
}
