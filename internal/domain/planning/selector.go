package planning

import (
	"context"
	"fmt"
	"math"
	"strings"
	"time"

	"github.com/robloxdeveloper2/Foodi-Backup-sub002/internal/domain/mealplan"
	"github.com/robloxdeveloper2/Foodi-Backup-sub002/internal/domain/nutrition"
	"github.com/robloxdeveloper2/Foodi-Backup-sub002/internal/domain/preference"
	"github.com/robloxdeveloper2/Foodi-Backup-sub002/internal/domain/recipe"
	"github.com/robloxdeveloper2/Foodi-Backup-sub002/internal/domain/user"
)

// Request describes one plan generation
type Request struct {
	Profile     *user.Profile
	Catalog     []*recipe.Recipe
	Preferences *preference.State
	Days        int
	StartDate   time.Time
	// Servings overrides the profile household size when > 0
	Servings int
	// IncludeSnacks adds a snack slot per day; the profile flag also enables it
	IncludeSnacks bool
	// PriorPlans seed the variety window
	PriorPlans []*mealplan.Plan
}

// Selector fills a plan slot by slot and validates the result
type Selector struct {
	cfg    Config
	filter *Filter
	scorer *Scorer
	calc   *nutrition.Calculator
}

// NewSelector creates a selector
func NewSelector(cfg Config, filter *Filter, scorer *Scorer, calc *nutrition.Calculator) *Selector {
	return &Selector{cfg: cfg.withDefaults(), filter: filter, scorer: scorer, calc: calc}
}

// attempt is one fill pass over every slot
type attempt struct {
	slots      []mealplan.Slot
	reasons    []string // goal-breaking, set GoalsNotMet
	notes      []string // relaxations that still respect goals
	violations []string
	cost       float64
}

func (a *attempt) problems() int {
	return len(a.reasons) + len(a.violations)
}

// generation holds the fixed inputs of a Generate call
type generation struct {
	req          Request
	targets      nutrition.Target
	mealTypes    []recipe.MealType
	shares       map[recipe.MealType]float64
	servings     int
	restrictions []string
	budget       float64
	ceiling      float64 // per serving
	seed         VarietyWindow
}

// Generate builds a plan. It fails only when the catalog is empty or the
// request is malformed; unmet goals are reported on the plan instead.
func (s *Selector) Generate(ctx context.Context, req Request) (*mealplan.Plan, error) {
	if req.Profile == nil {
		return nil, ErrMissingProfile
	}
	if len(req.Catalog) == 0 {
		return nil, ErrCatalogEmpty
	}
	if req.Days < 1 || req.Days > mealplan.MaxDurationDays {
		return nil, ErrInvalidDuration
	}

	gen := s.initialize(req)

	var best *attempt
	for pass := 0; pass < s.cfg.MaxPasses; pass++ {
		ceiling := gen.ceiling
		if ceiling > 0 {
			ceiling *= 1 + s.cfg.RelaxStep*float64(pass)
		}

		a, err := s.fill(ctx, gen, ceiling)
		if err != nil {
			return nil, err
		}
		a.violations = s.validate(gen, a)
		if pass > 0 && gen.ceiling > 0 {
			a.notes = append(a.notes, fmt.Sprintf("per-meal ceiling relaxed by %.0f%% on pass %d", s.cfg.RelaxStep*float64(pass)*100, pass+1))
		}

		if best == nil || better(a, best, gen.budget) {
			best = a
		}
		if a.problems() == 0 {
			break
		}
	}

	reasons := append(append([]string(nil), best.reasons...), best.violations...)
	return mealplan.New(mealplan.Params{
		UserID:         req.Profile.ID(),
		StartDate:      req.StartDate,
		Days:           req.Days,
		Servings:       gen.servings,
		Slots:          best.slots,
		Targets:        gen.targets,
		Budget:         gen.budget,
		PerMealCeiling: gen.ceiling,
		GoalsNotMet:    len(reasons) > 0,
		Reasons:        reasons,
		Notes:          best.notes,
	})
}

func (s *Selector) initialize(req Request) generation {
	p := req.Profile

	types := []recipe.MealType{recipe.MealTypeBreakfast, recipe.MealTypeLunch, recipe.MealTypeDinner}
	if req.IncludeSnacks || p.IncludeSnacks() {
		types = append(types, recipe.MealTypeSnack)
	}

	servings := req.Servings
	if servings <= 0 {
		servings = p.Servings()
	}
	if servings <= 0 {
		servings = 1
	}

	slots := req.Days * len(types)
	budget := p.Budget().PlanBudget(req.Days, slots)

	var ceiling float64
	switch {
	case p.Budget().PerMealMax > 0:
		ceiling = p.Budget().PerMealMax / float64(servings)
	case budget > 0:
		ceiling = budget / float64(slots) * s.cfg.CeilingFactor / float64(servings)
	}

	start := req.StartDate
	if start.IsZero() {
		start = time.Now()
	}
	start = dayOf(start)
	req.StartDate = start

	return generation{
		req:          req,
		targets:      s.calc.Compute(p),
		mealTypes:    types,
		shares:       s.cfg.mealShares(types),
		servings:     servings,
		restrictions: p.RestrictionTags(),
		budget:       budget,
		ceiling:      ceiling,
		seed:         seedWindow(req.PriorPlans, start, s.cfg.VarietyDays),
	}
}

// seedWindow collects recipes eaten in prior plans during the days before start
func seedWindow(prior []*mealplan.Plan, start time.Time, days int) VarietyWindow {
	w := VarietyWindow{}
	from := start.AddDate(0, 0, -days)
	for _, plan := range prior {
		if plan == nil {
			continue
		}
		for _, slot := range plan.Slots() {
			date := plan.SlotDate(slot)
			if date.Before(from) || !date.Before(start) {
				continue
			}
			w.Use(slot.Recipe.ID(), date)
		}
	}
	return w
}

func (s *Selector) fill(ctx context.Context, gen generation, ceiling float64) (*attempt, error) {
	a := &attempt{}
	window := VarietyWindow{}
	for id, d := range gen.seed {
		window[id] = d
	}

	for day := 0; day < gen.req.Days; day++ {
		date := gen.req.StartDate.AddDate(0, 0, day)
		for _, mt := range gen.mealTypes {
			if err := ctx.Err(); err != nil {
				return nil, err
			}

			label := fmt.Sprintf("day %d %s", day+1, mt)
			pool, reason, note := s.candidates(gen, mt, ceiling, label)
			if reason != "" {
				a.reasons = append(a.reasons, reason)
			}
			if note != "" {
				a.notes = append(a.notes, note)
			}
			if len(pool) == 0 {
				continue
			}

			scored, err := s.scorer.ScoreAll(ctx, pool, ScoreContext{
				Target:      gen.targets.Share(gen.shares[mt]),
				Profile:     gen.req.Profile,
				Preferences: gen.req.Preferences,
				Window:      window,
				Date:        date,
			})
			if err != nil {
				return nil, err
			}

			pick, fresh := s.pick(scored, window, date, gen.req.StartDate)
			if !fresh {
				a.notes = append(a.notes, fmt.Sprintf("%s repeats %q: only %d eligible %s recipes", label, pick.Name(), len(pool), mt))
			}

			window.Use(pick.ID(), date)
			a.slots = append(a.slots, mealplan.Slot{Day: day, MealType: mt, Recipe: pick, Servings: gen.servings})
			a.cost += pick.CostPerServing() * float64(gen.servings)
		}
	}
	return a, nil
}

// pick returns the best-scored recipe outside the variety window. When every
// candidate is inside it, recipes not yet in this plan win over repeats and
// the stalest one is taken; ties keep score order.
func (s *Selector) pick(scored []ScoredRecipe, window VarietyWindow, date, start time.Time) (*recipe.Recipe, bool) {
	for _, c := range scored {
		if !s.scorer.InWindow(c.Recipe.ID(), window, date) {
			return c.Recipe, true
		}
	}

	var (
		best      *recipe.Recipe
		bestDays  int
		bestFresh bool
	)
	for _, c := range scored {
		last := window[c.Recipe.ID()]
		notInPlan := last.Before(start)
		days, _ := window.daysSince(c.Recipe.ID(), date)
		switch {
		case best == nil,
			notInPlan && !bestFresh,
			notInPlan == bestFresh && days > bestDays:
			best, bestDays, bestFresh = c.Recipe, days, notInPlan
		}
	}
	return best, false
}

// candidates returns the eligible pool for a slot, relaxing the ceiling in
// fixed steps and finally falling back to the closest available recipes.
func (s *Selector) candidates(gen generation, mt recipe.MealType, ceiling float64, label string) (pool []*recipe.Recipe, reason, note string) {
	criteria := Criteria{MealType: mt, Restrictions: gen.restrictions, Ceiling: ceiling}
	if pool = s.filter.Apply(gen.req.Catalog, criteria); len(pool) > 0 {
		return pool, "", ""
	}

	if ceiling > 0 {
		for step := 1; step <= s.cfg.SlotRelaxSteps; step++ {
			criteria.Ceiling = ceiling * (1 + s.cfg.RelaxStep*float64(step))
			if pool = s.filter.Apply(gen.req.Catalog, criteria); len(pool) > 0 {
				return pool, "", fmt.Sprintf("%s: per-meal ceiling raised to %.2f", label, criteria.Ceiling*float64(gen.servings))
			}
		}

		criteria.Ceiling = 0
		if pool = s.filter.Apply(gen.req.Catalog, criteria); len(pool) > 0 {
			return pool, "", fmt.Sprintf("%s: no recipe within the per-meal budget, using closest match", label)
		}
	}

	if len(gen.restrictions) > 0 {
		criteria.Restrictions = nil
		if pool = s.filter.Apply(gen.req.Catalog, criteria); len(pool) > 0 {
			return pool, fmt.Sprintf("%s: no recipe satisfies restrictions %s", label, strings.Join(gen.restrictions, ", ")), ""
		}
	}

	return nil, fmt.Sprintf("%s: no %s recipes in catalog", label, mt), ""
}

// validate checks plan-level budget and per-day nutrition tolerances
func (s *Selector) validate(gen generation, a *attempt) []string {
	var out []string

	if gen.budget > 0 {
		dev := (a.cost - gen.budget) / gen.budget
		if math.Abs(dev) > s.cfg.BudgetTolerance {
			dir := "over"
			if dev < 0 {
				dir = "under"
			}
			out = append(out, fmt.Sprintf("total cost %.2f is %.0f%% %s the %.2f budget", a.cost, math.Abs(dev)*100, dir, gen.budget))
		}
	}

	daily := make([]recipe.Nutrition, gen.req.Days)
	for _, slot := range a.slots {
		daily[slot.Day] = daily[slot.Day].Add(slot.Recipe.Nutrition())
	}

	names := [4]string{"calories", "protein", "carbs", "fat"}
	target := gen.targets.Nutrition().Values()
	for day, n := range daily {
		actual := n.Values()
		for i := range target {
			if target[i] <= 0 {
				continue
			}
			dev := (actual[i] - target[i]) / target[i]
			if math.Abs(dev) > s.cfg.NutritionTolerance {
				out = append(out, fmt.Sprintf("day %d %s %.0f outside ±%.0f%% of %.0f",
					day+1, names[i], actual[i], s.cfg.NutritionTolerance*100, target[i]))
			}
		}
	}
	return out
}

// better prefers fewer problems, then the smaller budget deviation
func better(a, b *attempt, budget float64) bool {
	if a.problems() != b.problems() {
		return a.problems() < b.problems()
	}
	return math.Abs(a.cost-budget) < math.Abs(b.cost-budget)
}

func dayOf(t time.Time) time.Time {
	t = t.UTC()
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}
