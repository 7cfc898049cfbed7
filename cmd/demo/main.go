// Package main runs the planner end to end over the seeded demo catalog
package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"maps"
	"os"
	"slices"
	"strings"
	"text/tabwriter"

	"github.com/robloxdeveloper2/Foodi-Backup-sub002/internal/application/planner"
	"github.com/robloxdeveloper2/Foodi-Backup-sub002/internal/application/preference"
	"github.com/robloxdeveloper2/Foodi-Backup-sub002/internal/infrastructure/config"
	"github.com/robloxdeveloper2/Foodi-Backup-sub002/internal/infrastructure/messaging"
	"github.com/robloxdeveloper2/Foodi-Backup-sub002/internal/infrastructure/monitoring"
	gormrepo "github.com/robloxdeveloper2/Foodi-Backup-sub002/internal/infrastructure/persistence/gorm"
	"github.com/robloxdeveloper2/Foodi-Backup-sub002/internal/infrastructure/persistence/memory"
	"github.com/robloxdeveloper2/Foodi-Backup-sub002/internal/infrastructure/persistence/sqlite"
	"github.com/robloxdeveloper2/Foodi-Backup-sub002/internal/ports/inbound"
	"github.com/robloxdeveloper2/Foodi-Backup-sub002/pkg/logger"
)

func main() {
	configPath := flag.String("config", "", "path to the YAML configuration file")
	userID := flag.String("user", "demo-maintenance", "seeded profile to plan for (demo-maintenance, demo-vegan)")
	days := flag.Int("days", 7, "plan duration in days")
	start := flag.String("start", "", "start date YYYY-MM-DD, default today")
	flag.Parse()

	if err := run(*configPath, *userID, *days, *start); err != nil {
		log.Fatalf("demo failed: %v", err)
	}
}

func run(configPath, userID string, days int, start string) error {
	ctx := context.Background()

	cfg, err := config.Load(configPath)
	if err != nil {
		return err
	}
	log, err := logger.New(logger.Config{Level: "warn", Format: "console", Service: "foodi-demo"})
	if err != nil {
		return err
	}
	defer func() { _ = log.Sync() }()

	db, err := sqlite.SetupDatabase("", gormrepo.NewLogger(log, "silent", 0))
	if err != nil {
		return err
	}
	if err := sqlite.SeedDatabase(ctx, db); err != nil {
		return err
	}

	metrics := monitoring.NewMetricsCollector(log)
	cache := memory.NewCacheRepository(0, log)
	defer func() { _ = cache.Close() }()
	bus := messaging.NewDispatcher(log)
	messaging.RegisterAuditLog(bus, log)

	engine := cfg.Engine()
	recipes := gormrepo.NewRecipeRepository(db, cfg.Cache.RecipeLRUSize)
	prefs := preference.NewPreferenceService(gormrepo.NewPreferenceRepository(db), cache,
		cfg.Cache.PreferenceTTL, engine, metrics, log)
	svc := planner.NewPlannerService(engine, cfg.CostTable(),
		gormrepo.NewUserProfileRepository(db), recipes, gormrepo.NewMealPlanRepository(db, recipes),
		gormrepo.NewGroceryListRepository(db), prefs, bus, metrics, log)

	out := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
	defer out.Flush()

	targets, err := svc.ComputeTargets(ctx, userID)
	if err != nil {
		return err
	}
	fmt.Fprintf(out, "Daily targets for %s: %.0f kcal, %.0fg protein, %.0fg carbs, %.0fg fat\n\n",
		userID, targets.Calories, targets.ProteinG, targets.CarbsG, targets.FatG)

	plan, err := svc.GeneratePlan(ctx, inbound.GeneratePlanCommand{UserID: userID, DurationDays: days, StartDate: start})
	if err != nil {
		return err
	}
	printPlan(out, plan)

	if len(plan.Days) > 0 && len(plan.Days[0].Meals) > 0 {
		meal := plan.Days[0].Meals[len(plan.Days[0].Meals)-1]
		subs, err := svc.GetSubstitutes(ctx, inbound.SubstitutesQuery{
			PlanID: plan.ID, Day: 1, MealType: meal.MealType, Limit: 3,
		})
		if err != nil {
			return err
		}
		fmt.Fprintf(out, "\nSubstitutes for day 1 %s (%s):\n", meal.MealType, meal.Recipe.Name)
		for _, s := range subs {
			fmt.Fprintf(out, "  %s\tscore %.2f\timpact %s\n", s.Recipe.Name, s.Score, s.Impact.Level)
		}
		if len(subs) > 0 {
			plan, err = svc.ApplySubstitution(ctx, inbound.ApplySubstitutionCommand{
				PlanID: plan.ID, Day: 1, MealType: meal.MealType, RecipeID: subs[0].Recipe.ID, Reason: "demo",
			})
			if err != nil {
				return err
			}
			fmt.Fprintf(out, "Applied %s, plan version %d\n", subs[0].Recipe.Name, plan.Version)
		}
	}

	list, err := svc.GetGroceryList(ctx, plan.ID)
	if err != nil {
		return err
	}
	printGroceries(out, list)
	return nil
}

func printPlan(out *tabwriter.Writer, plan *inbound.MealPlanDTO) {
	fmt.Fprintf(out, "Plan %s, %d days from %s, %d servings\n", plan.ID, plan.DurationDays, plan.StartDate, plan.Servings)
	fmt.Fprintf(out, "Total cost %.2f of budget %.2f\n", plan.TotalCost, plan.Budget)
	if plan.GoalsNotMet {
		fmt.Fprintf(out, "Goals not met: %s\n", strings.Join(plan.Reasons, "; "))
	}
	for _, note := range plan.Notes {
		fmt.Fprintf(out, "Note: %s\n", note)
	}

	fmt.Fprintln(out, "\nDay\tMeal\tRecipe\tkcal\tCost")
	for _, d := range plan.Days {
		for _, m := range d.Meals {
			fmt.Fprintf(out, "%d\t%s\t%s\t%.0f\t%.2f\n", d.Day, m.MealType, m.Recipe.Name, m.Nutrition.Calories, m.Cost)
		}
		fmt.Fprintf(out, "\t\tday total\t%.0f\t%.2f\n", d.Nutrition.Calories, d.Cost)
	}
}

func printGroceries(out *tabwriter.Writer, list *inbound.GroceryListDTO) {
	fmt.Fprintln(out, "\nCategory\tItem\tCost")
	for _, item := range list.Items {
		fmt.Fprintf(out, "%s\t%s\t%.2f\n", item.Category, item.Description, item.EstimatedCost)
	}
	for _, category := range slices.Sorted(maps.Keys(list.Subtotals)) {
		fmt.Fprintf(out, "%s subtotal\t\t%.2f\n", category, list.Subtotals[category])
	}
	fmt.Fprintf(out, "Total\t\t%.2f\n", list.TotalCost)
}
