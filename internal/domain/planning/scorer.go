package planning

import (
	"context"
	"math"
	"sort"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/robloxdeveloper2/Foodi-Backup-sub002/internal/domain/preference"
	"github.com/robloxdeveloper2/Foodi-Backup-sub002/internal/domain/recipe"
	"github.com/robloxdeveloper2/Foodi-Backup-sub002/internal/domain/user"
)

// Breakdown is the per-term contribution of a score
type Breakdown struct {
	Nutrition  float64 `json:"nutrition"`
	Cost       float64 `json:"cost"`
	Preference float64 `json:"preference"`
	Variety    float64 `json:"variety"`
	Total      float64 `json:"total"`
}

// ScoredRecipe pairs a recipe with its score
type ScoredRecipe struct {
	Recipe *recipe.Recipe
	Score  Breakdown
}

// ScoreContext is everything the scorer needs besides the candidate
type ScoreContext struct {
	// Target is the per-serving nutrition target for the slot
	Target      recipe.Nutrition
	Profile     *user.Profile
	Preferences *preference.State
	Window      VarietyWindow
	Date        time.Time
}

// VarietyWindow maps recipe id to the most recent date it was eaten
type VarietyWindow map[string]time.Time

// Use records a recipe eaten on date
func (w VarietyWindow) Use(recipeID string, date time.Time) {
	if last, ok := w[recipeID]; !ok || date.After(last) {
		w[recipeID] = date
	}
}

// daysSince returns whole days between the last use and date, or false if unused
func (w VarietyWindow) daysSince(recipeID string, date time.Time) (int, bool) {
	last, ok := w[recipeID]
	if !ok || last.After(date) {
		return 0, false
	}
	return int(date.Sub(last).Hours() / 24), true
}

// Scorer ranks recipes for a slot. It is pure and safe for concurrent use.
type Scorer struct {
	cfg Config
}

// NewScorer creates a scorer
func NewScorer(cfg Config) *Scorer {
	return &Scorer{cfg: cfg.withDefaults()}
}

// Score computes the weighted score of one recipe. costEfficiency is the
// recipe's normalized cost term within its pool (see CostEfficiency).
func (s *Scorer) Score(r *recipe.Recipe, sc ScoreContext, costEfficiency float64) Breakdown {
	b := Breakdown{
		Nutrition:  NutritionalFit(r.Nutrition(), sc.Target),
		Cost:       costEfficiency,
		Preference: s.PreferenceScore(r, sc.Profile, sc.Preferences),
		Variety:    s.Variety(r.ID(), sc.Window, sc.Date),
	}
	w := s.cfg.Weights
	b.Total = w.Nutrition*b.Nutrition + w.Cost*b.Cost + w.Preference*b.Preference + w.Variety*b.Variety
	return b
}

// ScoreAll scores every recipe in the pool concurrently and returns them
// ranked best first. Ties go to the cheaper recipe, then the lower id.
func (s *Scorer) ScoreAll(ctx context.Context, pool []*recipe.Recipe, sc ScoreContext) ([]ScoredRecipe, error) {
	eff := CostEfficiency(pool)
	out := make([]ScoredRecipe, len(pool))

	g, ctx := errgroup.WithContext(ctx)
	if s.cfg.Concurrency > 0 {
		g.SetLimit(s.cfg.Concurrency)
	}
	for i, r := range pool {
		i, r := i, r
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			out[i] = ScoredRecipe{Recipe: r, Score: s.Score(r, sc, eff[r.ID()])}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	rank(out, func(x ScoredRecipe) float64 { return x.Score.Total }, func(x ScoredRecipe) *recipe.Recipe { return x.Recipe })
	return out, nil
}

// NutritionalFit is 1 minus the mean relative distance from target over
// calories, protein, carbs and fat, clamped to [0,1]. Components with a zero
// target are ignored.
func NutritionalFit(actual, target recipe.Nutrition) float64 {
	a, t := actual.Values(), target.Values()
	var sum float64
	var n int
	for i := range t {
		if t[i] <= 0 {
			continue
		}
		sum += math.Abs(a[i]-t[i]) / t[i]
		n++
	}
	if n == 0 {
		return 1
	}
	return clamp01(1 - sum/float64(n))
}

// CostEfficiency inverse-normalizes cost per calorie over the pool: the
// cheapest per calorie scores 1, the dearest 0. A pool where every recipe has
// the same cost per calorie scores 1 throughout; zero-calorie recipes score 0.
func CostEfficiency(pool []*recipe.Recipe) map[string]float64 {
	out := make(map[string]float64, len(pool))
	lo, hi := math.Inf(1), math.Inf(-1)
	for _, r := range pool {
		if cpc, ok := r.CostPerCalorie(); ok {
			lo = math.Min(lo, cpc)
			hi = math.Max(hi, cpc)
		}
	}
	for _, r := range pool {
		cpc, ok := r.CostPerCalorie()
		switch {
		case !ok:
			out[r.ID()] = 0
		case hi-lo < 1e-12:
			out[r.ID()] = 1
		default:
			out[r.ID()] = (hi - cpc) / (hi - lo)
		}
	}
	return out
}

// PreferenceScore blends swipes, ratings, ingredient and cuisine likes and
// the prep-time bucket into [0,1]. A nil state counts as no feedback.
func (s *Scorer) PreferenceScore(r *recipe.Recipe, profile *user.Profile, state *preference.State) float64 {
	adj := s.cfg.Preference

	swipe, rating := 0.5, 0.5
	if state != nil {
		if w, ok := state.Swipe(r.ID()); ok {
			if w > 0 {
				swipe = 1
			} else {
				swipe = 0
			}
		}
		if stars, ok := state.Rating(r.ID()); ok {
			rating = float64(stars) / 5
		}
	}
	score := adj.SwipeWeight*swipe + adj.RatingWeight*rating

	liked, disliked := profileSets(profile)
	for _, ing := range r.Ingredients() {
		switch ingredientLean(recipe.NormalizeIngredientName(ing.Name), state, liked, disliked) {
		case 1:
			score += adj.Ingredient
		case -1:
			score -= adj.Ingredient
		}
	}

	score += adj.Cuisine * float64(cuisineLean(string(r.Cuisine()), profile, state))

	if state != nil && adj.PrepTime > 0 && state.PrepTime() != "" {
		bucket := preference.BucketFor(r.TotalTime())
		switch {
		case bucket == state.PrepTime():
			score += adj.PrepTime
		case opposite(bucket, state.PrepTime()):
			score -= adj.PrepTime
		}
	}

	return clamp01(score)
}

// Variety returns the variety term for a recipe eaten on date
func (s *Scorer) Variety(recipeID string, window VarietyWindow, date time.Time) float64 {
	days, used := window.daysSince(recipeID, date)
	if !used || days >= s.cfg.VarietyDays {
		return 1
	}
	if s.cfg.VarietyMode == VarietyLinear {
		return clamp01(float64(days) / float64(s.cfg.VarietyDays))
	}
	return 0
}

// InWindow reports whether the recipe was eaten within the variety window before date
func (s *Scorer) InWindow(recipeID string, window VarietyWindow, date time.Time) bool {
	days, used := window.daysSince(recipeID, date)
	return used && days < s.cfg.VarietyDays
}

func profileSets(p *user.Profile) (liked, disliked map[string]struct{}) {
	liked, disliked = map[string]struct{}{}, map[string]struct{}{}
	if p == nil {
		return liked, disliked
	}
	for _, name := range p.LikedIngredients() {
		liked[recipe.NormalizeIngredientName(name)] = struct{}{}
	}
	for _, name := range p.DislikedIngredients() {
		disliked[recipe.NormalizeIngredientName(name)] = struct{}{}
	}
	return liked, disliked
}

// ingredientLean returns +1 liked, -1 disliked, 0 unknown. Learned feedback
// takes precedence over the static profile lists.
func ingredientLean(name string, state *preference.State, liked, disliked map[string]struct{}) int {
	if state != nil {
		if l, ok := state.IngredientPreference(name); ok {
			if l {
				return 1
			}
			return -1
		}
	}
	if _, ok := liked[name]; ok {
		return 1
	}
	if _, ok := disliked[name]; ok {
		return -1
	}
	return 0
}

func cuisineLean(cuisine string, profile *user.Profile, state *preference.State) int {
	if cuisine == "" {
		return 0
	}
	if state != nil {
		if a, ok := state.CuisineAffinity(cuisine); ok {
			switch {
			case a >= 4:
				return 1
			case a <= 2:
				return -1
			}
			return 0
		}
	}
	if profile == nil {
		return 0
	}
	for _, c := range profile.LikedCuisines() {
		if c == cuisine {
			return 1
		}
	}
	for _, c := range profile.DislikedCuisines() {
		if c == cuisine {
			return -1
		}
	}
	return 0
}

func opposite(a, b preference.PrepTimeBucket) bool {
	return (a == preference.PrepTimeQuick && b == preference.PrepTimeElaborate) ||
		(a == preference.PrepTimeElaborate && b == preference.PrepTimeQuick)
}

// rank sorts best first, breaking ties on lower cost then recipe id
func rank[T any](items []T, score func(T) float64, rec func(T) *recipe.Recipe) {
	sort.SliceStable(items, func(i, j int) bool {
		si, sj := score(items[i]), score(items[j])
		if math.Abs(si-sj) > 1e-9 {
			return si > sj
		}
		ri, rj := rec(items[i]), rec(items[j])
		if ri.CostPerServing() != rj.CostPerServing() {
			return ri.CostPerServing() < rj.CostPerServing()
		}
		return ri.ID() < rj.ID()
	})
}

func clamp01(v float64) float64 {
	return math.Max(0, math.Min(1, v))
}
