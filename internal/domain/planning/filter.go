package planning

import "github.com/robloxdeveloper2/Foodi-Backup-sub002/internal/domain/recipe"

// Criteria are the hard constraints a candidate must satisfy
type Criteria struct {
	MealType     recipe.MealType
	Restrictions []string
	// Ceiling is the maximum cost per serving; 0 or less means unbounded
	Ceiling float64
	Exclude map[string]struct{}
}

// Filter removes recipes that violate hard constraints. It never scores.
type Filter struct{}

// NewFilter creates a filter
func NewFilter() *Filter {
	return &Filter{}
}

// Apply returns the recipes that satisfy every criterion, in catalog order.
// An empty result is returned as-is.
func (f *Filter) Apply(catalog []*recipe.Recipe, c Criteria) []*recipe.Recipe {
	out := make([]*recipe.Recipe, 0, len(catalog))
	for _, r := range catalog {
		if f.Accepts(r, c) {
			out = append(out, r)
		}
	}
	return out
}

// Accepts reports whether a single recipe satisfies the criteria
func (f *Filter) Accepts(r *recipe.Recipe, c Criteria) bool {
	if r == nil {
		return false
	}
	if c.MealType != "" && r.MealType() != c.MealType {
		return false
	}
	if _, excluded := c.Exclude[r.ID()]; excluded {
		return false
	}
	if c.Ceiling > 0 && r.CostPerServing() > c.Ceiling {
		return false
	}
	return r.SatisfiesAll(c.Restrictions)
}
