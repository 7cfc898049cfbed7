package planning

import (
	"math"

	"github.com/robloxdeveloper2/Foodi-Backup-sub002/internal/domain/mealplan"
	"github.com/robloxdeveloper2/Foodi-Backup-sub002/internal/domain/preference"
	"github.com/robloxdeveloper2/Foodi-Backup-sub002/internal/domain/recipe"
	"github.com/robloxdeveloper2/Foodi-Backup-sub002/internal/domain/user"
)

// ImpactLevel classifies how much a substitution moves the day's nutrition
type ImpactLevel string

const (
	ImpactMinimal     ImpactLevel = "minimal"
	ImpactModerate    ImpactLevel = "moderate"
	ImpactSignificant ImpactLevel = "significant"
)

// Impact is the informational preview of a substitution
type Impact struct {
	// Delta is replacement minus current, per serving
	Delta     recipe.Nutrition `json:"delta"`
	CostDelta float64          `json:"cost_delta"`
	// MaxShare is the largest |delta| as a fraction of the daily target
	MaxShare float64     `json:"max_share"`
	Level    ImpactLevel `json:"level"`
}

// SubstitutionBreakdown is the per-term contribution of a candidate score
type SubstitutionBreakdown struct {
	Similarity float64 `json:"similarity"`
	Preference float64 `json:"preference"`
	Cost       float64 `json:"cost"`
	PrepTime   float64 `json:"prep_time"`
	Total      float64 `json:"total"`
}

// Candidate is a ranked substitution option
type Candidate struct {
	Recipe *recipe.Recipe
	Score  SubstitutionBreakdown
	Impact Impact
}

// SubstitutionQuery selects the slot to replace
type SubstitutionQuery struct {
	Plan        *mealplan.Plan
	Day         int
	MealType    recipe.MealType
	Profile     *user.Profile
	Preferences *preference.State
	Catalog     []*recipe.Recipe
	MaxResults  int
}

// Substitutor ranks replacement recipes for a planned slot
type Substitutor struct {
	cfg    Config
	filter *Filter
	scorer *Scorer
}

// NewSubstitutor creates a substitutor
func NewSubstitutor(cfg Config, filter *Filter, scorer *Scorer) *Substitutor {
	return &Substitutor{cfg: cfg.withDefaults(), filter: filter, scorer: scorer}
}

// Candidates returns up to MaxResults replacements ranked best first.
// An empty list means nothing passed the calorie gate; it is not an error.
func (s *Substitutor) Candidates(q SubstitutionQuery) ([]Candidate, error) {
	if q.Plan == nil {
		return nil, ErrMissingPlan
	}
	slot, ok := q.Plan.Slot(q.Day, q.MealType)
	if !ok {
		return nil, mealplan.ErrSlotNotFound
	}
	current := slot.Recipe

	exclude := map[string]struct{}{current.ID(): {}}
	if s.cfg.Substitution.SkipPlanned {
		for id := range q.Plan.RecipeIDs() {
			exclude[id] = struct{}{}
		}
	}

	var restrictions []string
	if q.Profile != nil {
		restrictions = q.Profile.RestrictionTags()
	}

	pool := s.filter.Apply(q.Catalog, Criteria{
		MealType:     q.MealType,
		Restrictions: restrictions,
		Ceiling:      q.Plan.PerMealCeiling(),
		Exclude:      exclude,
	})

	gated := make([]*recipe.Recipe, 0, len(pool))
	for _, r := range pool {
		if s.withinCalorieGate(current, r) {
			gated = append(gated, r)
		}
	}

	eff := CostEfficiency(gated)
	w := s.cfg.Substitution.Weights
	out := make([]Candidate, 0, len(gated))
	for _, r := range gated {
		b := SubstitutionBreakdown{
			Similarity: NutritionalFit(r.Nutrition(), current.Nutrition()),
			Preference: s.scorer.PreferenceScore(r, q.Profile, q.Preferences),
			Cost:       eff[r.ID()],
			PrepTime:   prepSimilarity(current, r),
		}
		b.Total = w.Similarity*b.Similarity + w.Preference*b.Preference + w.Cost*b.Cost + w.PrepTime*b.PrepTime
		out = append(out, Candidate{Recipe: r, Score: b, Impact: s.Preview(q.Plan, current, r)})
	}

	rank(out, func(c Candidate) float64 { return c.Score.Total }, func(c Candidate) *recipe.Recipe { return c.Recipe })

	limit := q.MaxResults
	if limit <= 0 {
		limit = s.cfg.Substitution.MaxResults
	}
	if len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

// Preview classifies the nutrition change of swapping current for replacement
// against the plan's daily target. It never blocks a substitution.
func (s *Substitutor) Preview(plan *mealplan.Plan, current, replacement *recipe.Recipe) Impact {
	delta := replacement.Nutrition().Sub(current.Nutrition())
	impact := Impact{
		Delta:     delta,
		CostDelta: replacement.CostPerServing() - current.CostPerServing(),
	}

	d, t := delta.Values(), plan.Targets().Nutrition().Values()
	for i := range t {
		if t[i] <= 0 {
			continue
		}
		impact.MaxShare = math.Max(impact.MaxShare, math.Abs(d[i])/t[i])
	}

	switch {
	case impact.MaxShare < s.cfg.Substitution.MinimalImpact:
		impact.Level = ImpactMinimal
	case impact.MaxShare <= s.cfg.Substitution.ModerateImpact:
		impact.Level = ImpactModerate
	default:
		impact.Level = ImpactSignificant
	}
	return impact
}

func (s *Substitutor) withinCalorieGate(current, candidate *recipe.Recipe) bool {
	base := current.Calories()
	if base <= 0 {
		return candidate.Calories() == 0
	}
	return math.Abs(candidate.Calories()-base)/base <= s.cfg.Substitution.CalorieTolerance
}

func prepSimilarity(a, b *recipe.Recipe) float64 {
	ta, tb := a.TotalTime().Minutes(), b.TotalTime().Minutes()
	longest := math.Max(ta, tb)
	if longest <= 0 {
		return 1
	}
	return clamp01(1 - math.Abs(ta-tb)/longest)
}
