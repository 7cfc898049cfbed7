// Package mealplan contains the MealPlan aggregate: ordered day x meal-type
// slots plus an append-only substitution history.
//
// Plans are values. Substitute and Undo return a new Plan and never touch
// the receiver, so a plan handed to a reader stays valid while another
// request edits it.
package mealplan

import (
	"sort"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/robloxdeveloper2/Foodi-Backup-sub002/internal/domain/nutrition"
	"github.com/robloxdeveloper2/Foodi-Backup-sub002/internal/domain/recipe"
	"github.com/robloxdeveloper2/Foodi-Backup-sub002/internal/domain/shared"
)

// SlotKey identifies a slot within a plan
type SlotKey struct {
	Day      int             `json:"day"`
	MealType recipe.MealType `json:"meal_type"`
}

func (k SlotKey) less(o SlotKey) bool {
	if k.Day != o.Day {
		return k.Day < o.Day
	}
	return k.MealType.Order() < o.MealType.Order()
}

// Slot is one meal in the plan
type Slot struct {
	Day      int
	MealType recipe.MealType
	Recipe   *recipe.Recipe
	Servings int
}

// Key returns the slot position
func (s Slot) Key() SlotKey {
	return SlotKey{Day: s.Day, MealType: s.MealType}
}

// Scale is the factor applied to the recipe's ingredient quantities
func (s Slot) Scale() float64 {
	return float64(s.Servings) / float64(s.Recipe.Servings())
}

// Nutrition returns the slot nutrition for all servings
func (s Slot) Nutrition() recipe.Nutrition {
	return s.Recipe.Nutrition().Scale(float64(s.Servings))
}

// Cost returns the slot cost for all servings
func (s Slot) Cost() float64 {
	return s.Recipe.CostPerServing() * float64(s.Servings)
}

// HistoryEntry records one applied substitution
type HistoryEntry struct {
	Day         int
	MealType    recipe.MealType
	Previous    *recipe.Recipe
	Replacement *recipe.Recipe
	Reason      string
	At          time.Time
}

// history is a persistent stack; pushing never modifies existing nodes
type history struct {
	entry HistoryEntry
	prev  *history
	depth int
}

func (h *history) push(e HistoryEntry) *history {
	depth := 1
	if h != nil {
		depth = h.depth + 1
	}
	return &history{entry: e, prev: h, depth: depth}
}

// Plan is the MealPlan aggregate root
type Plan struct {
	shared.EventRecorder

	id        uuid.UUID
	userID    string
	startDate time.Time
	days      int
	servings  int
	slots     []Slot

	targets        nutrition.Target
	budget         float64
	perMealCeiling float64

	goalsNotMet bool
	reasons     []string
	notes       []string

	history   *history
	version   int
	createdAt time.Time
}

// Params holds the attributes used to build or restore a Plan
type Params struct {
	ID             uuid.UUID
	UserID         string
	StartDate      time.Time
	Days           int
	Servings       int
	Slots          []Slot
	Targets        nutrition.Target
	Budget         float64
	PerMealCeiling float64
	GoalsNotMet    bool
	Reasons        []string
	Notes          []string
	CreatedAt      time.Time

	// History is ordered oldest first; only used by Restore
	History []HistoryEntry
	Version int
}

// New builds a freshly generated plan and raises PlanGeneratedEvent
func New(p Params) (*Plan, error) {
	p.History = nil
	p.Version = 1
	plan, err := build(p)
	if err != nil {
		return nil, err
	}
	plan.Record(PlanGeneratedEvent{
		PlanID:      plan.id,
		UserID:      plan.userID,
		Days:        plan.days,
		GoalsNotMet: plan.goalsNotMet,
		GeneratedAt: plan.createdAt,
	})
	return plan, nil
}

// Restore rebuilds a persisted plan including its substitution history
func Restore(p Params) (*Plan, error) {
	return build(p)
}

func build(p Params) (*Plan, error) {
	if strings.TrimSpace(p.UserID) == "" {
		return nil, ErrMissingUserID
	}
	if p.Days < 1 || p.Days > MaxDurationDays {
		return nil, ErrInvalidDuration
	}
	servings := p.Servings
	if servings == 0 {
		servings = 1
	}
	if servings < 0 {
		return nil, ErrInvalidServings
	}

	slots := make([]Slot, len(p.Slots))
	copy(slots, p.Slots)
	seen := make(map[SlotKey]struct{}, len(slots))
	for i := range slots {
		s := &slots[i]
		if s.Recipe == nil {
			return nil, ErrMissingRecipe
		}
		if s.Day < 0 || s.Day >= p.Days {
			return nil, ErrSlotOutsidePlan
		}
		if s.Recipe.MealType() != s.MealType {
			return nil, ErrMealTypeMismatch
		}
		if s.Servings <= 0 {
			s.Servings = servings
		}
		if _, dup := seen[s.Key()]; dup {
			return nil, ErrDuplicateSlot
		}
		seen[s.Key()] = struct{}{}
	}
	sort.Slice(slots, func(i, j int) bool { return slots[i].Key().less(slots[j].Key()) })

	id := p.ID
	if id == uuid.Nil {
		id = uuid.New()
	}
	createdAt := p.CreatedAt
	if createdAt.IsZero() {
		createdAt = time.Now().UTC()
	}
	version := p.Version
	if version < 1 {
		version = 1
	}

	var h *history
	for _, e := range p.History {
		if _, ok := seen[SlotKey{Day: e.Day, MealType: e.MealType}]; !ok {
			return nil, ErrInvalidHistoryStep
		}
		h = h.push(e)
	}

	return &Plan{
		id:             id,
		userID:         p.UserID,
		startDate:      truncateDay(p.StartDate),
		days:           p.Days,
		servings:       servings,
		slots:          slots,
		targets:        p.Targets,
		budget:         p.Budget,
		perMealCeiling: p.PerMealCeiling,
		goalsNotMet:    p.GoalsNotMet,
		reasons:        append([]string(nil), p.Reasons...),
		notes:          append([]string(nil), p.Notes...),
		history:        h,
		version:        version,
		createdAt:      createdAt,
	}, nil
}

// ID returns the plan's unique identifier
func (p *Plan) ID() uuid.UUID { return p.id }

// UserID returns the owner of the plan
func (p *Plan) UserID() string { return p.userID }

// StartDate returns the calendar date of day 0
func (p *Plan) StartDate() time.Time { return p.startDate }

// Days returns the plan duration
func (p *Plan) Days() int { return p.days }

// Servings returns the household serving count
func (p *Plan) Servings() int { return p.servings }

// Targets returns the per-person daily target the plan was built against
func (p *Plan) Targets() nutrition.Target { return p.targets }

// Budget returns the plan-level budget, 0 when unbounded
func (p *Plan) Budget() float64 { return p.budget }

// PerMealCeiling returns the per-meal cost ceiling used during generation
func (p *Plan) PerMealCeiling() float64 { return p.perMealCeiling }

// GoalsNotMet reports whether the plan misses budget, nutrition or restrictions
func (p *Plan) GoalsNotMet() bool { return p.goalsNotMet }

// Reasons explains why goals were not met
func (p *Plan) Reasons() []string { return append([]string(nil), p.reasons...) }

// Notes lists relaxations applied during generation
func (p *Plan) Notes() []string { return append([]string(nil), p.notes...) }

// Version increments on every substitution or undo
func (p *Plan) Version() int { return p.version }

// CreatedAt returns the generation time
func (p *Plan) CreatedAt() time.Time { return p.createdAt }

// Slots returns the slots ordered by day then meal type
func (p *Plan) Slots() []Slot {
	out := make([]Slot, len(p.slots))
	copy(out, p.slots)
	return out
}

// Slot returns the slot at day and meal type
func (p *Plan) Slot(day int, mealType recipe.MealType) (Slot, bool) {
	i := p.indexOf(SlotKey{Day: day, MealType: mealType})
	if i < 0 {
		return Slot{}, false
	}
	return p.slots[i], true
}

// SlotDate returns the calendar date a slot is eaten on
func (p *Plan) SlotDate(s Slot) time.Time {
	return p.startDate.AddDate(0, 0, s.Day)
}

// TotalCost returns the summed cost of every slot
func (p *Plan) TotalCost() float64 {
	var total float64
	for _, s := range p.slots {
		total += s.Cost()
	}
	return total
}

// DailyNutrition returns the nutrition of one day for all servings
func (p *Plan) DailyNutrition(day int) recipe.Nutrition {
	var total recipe.Nutrition
	for _, s := range p.slots {
		if s.Day == day {
			total = total.Add(s.Nutrition())
		}
	}
	return total
}

// RecipeIDs returns the set of recipes used anywhere in the plan
func (p *Plan) RecipeIDs() map[string]struct{} {
	ids := make(map[string]struct{}, len(p.slots))
	for _, s := range p.slots {
		ids[s.Recipe.ID()] = struct{}{}
	}
	return ids
}

// History returns applied substitutions, oldest first
func (p *Plan) History() []HistoryEntry {
	if p.history == nil {
		return nil
	}
	out := make([]HistoryEntry, p.history.depth)
	for h := p.history; h != nil; h = h.prev {
		out[h.depth-1] = h.entry
	}
	return out
}

// HistoryLen returns the number of undoable substitutions
func (p *Plan) HistoryLen() int {
	if p.history == nil {
		return 0
	}
	return p.history.depth
}

// Substitute returns a new plan with the slot's recipe replaced and the
// change pushed onto the history stack.
func (p *Plan) Substitute(day int, mealType recipe.MealType, replacement *recipe.Recipe, reason string, at time.Time) (*Plan, error) {
	if replacement == nil {
		return nil, ErrMissingRecipe
	}
	i := p.indexOf(SlotKey{Day: day, MealType: mealType})
	if i < 0 {
		return nil, ErrSlotNotFound
	}
	if replacement.MealType() != mealType {
		return nil, ErrMealTypeMismatch
	}
	previous := p.slots[i].Recipe
	if previous.ID() == replacement.ID() {
		return nil, ErrSameRecipe
	}

	at = at.UTC()
	next := p.clone()
	next.slots[i].Recipe = replacement
	next.history = p.history.push(HistoryEntry{
		Day:         day,
		MealType:    mealType,
		Previous:    previous,
		Replacement: replacement,
		Reason:      reason,
		At:          at,
	})
	next.Record(MealSubstitutedEvent{
		PlanID:        p.id,
		Day:           day,
		MealType:      mealType,
		PreviousID:    previous.ID(),
		ReplacementID: replacement.ID(),
		SubstitutedAt: at,
	})
	return next, nil
}

// Undo pops the most recent substitution and restores the prior recipe.
// With an empty history the receiver is returned unchanged.
func (p *Plan) Undo(at time.Time) *Plan {
	if p.history == nil {
		return p
	}
	e := p.history.entry
	i := p.indexOf(SlotKey{Day: e.Day, MealType: e.MealType})
	if i < 0 {
		return p
	}

	next := p.clone()
	next.slots[i].Recipe = e.Previous
	next.history = p.history.prev
	next.Record(SubstitutionUndoneEvent{
		PlanID:     p.id,
		Day:        e.Day,
		MealType:   e.MealType,
		RestoredID: e.Previous.ID(),
		UndoneAt:   at.UTC(),
	})
	return next
}

func (p *Plan) clone() *Plan {
	slots := make([]Slot, len(p.slots))
	copy(slots, p.slots)
	return &Plan{
		id:             p.id,
		userID:         p.userID,
		startDate:      p.startDate,
		days:           p.days,
		servings:       p.servings,
		slots:          slots,
		targets:        p.targets,
		budget:         p.budget,
		perMealCeiling: p.perMealCeiling,
		goalsNotMet:    p.goalsNotMet,
		reasons:        p.reasons,
		notes:          p.notes,
		history:        p.history,
		version:        p.version + 1,
		createdAt:      p.createdAt,
	}
}

func (p *Plan) indexOf(k SlotKey) int {
	for i, s := range p.slots {
		if s.Key() == k {
			return i
		}
	}
	return -1
}

func truncateDay(t time.Time) time.Time {
	if t.IsZero() {
		t = time.Now()
	}
	t = t.UTC()
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}
