// Package grocery derives a consolidated shopping list from a meal plan.
package grocery

import (
	"errors"
	"math"
	"sort"
	"strconv"
	"strings"

	"github.com/google/uuid"

	"github.com/robloxdeveloper2/Foodi-Backup-sub002/internal/domain/mealplan"
	"github.com/robloxdeveloper2/Foodi-Backup-sub002/internal/domain/recipe"
)

var (
	ErrItemNotFound     = errors.New("grocery item not found")
	ErrMissingItemName  = errors.New("item name is required")
	ErrInvalidQuantity  = errors.New("item quantity cannot be negative")
	ErrDuplicateItem    = errors.New("item already on the list")
	ErrInvalidCategory  = errors.New("unknown grocery category")
	ErrMissingGroceries = errors.New("meal plan is required")
)

// Price is the cost of one unit of an ingredient
type Price struct {
	Unit   recipe.MeasurementUnit `json:"unit" mapstructure:"unit"`
	Amount float64                `json:"amount" mapstructure:"amount"`
}

// CostTable prices ingredients by normalized key
type CostTable struct {
	Prices map[string]Price
	// Default is charged once per line for unknown or unconvertible ingredients
	Default float64
}

// Part is one quantity of a line in a single unit
type Part struct {
	Quantity float64                `json:"quantity"`
	Unit     recipe.MeasurementUnit `json:"unit"`
}

// Item is one consolidated shopping line
type Item struct {
	Key           string                 `json:"key"`
	DisplayName   string                 `json:"display_name"`
	Quantity      float64                `json:"quantity"`
	Unit          recipe.MeasurementUnit `json:"unit,omitempty"`
	Parts         []Part                 `json:"parts"`
	Description   string                 `json:"description"`
	Category      Category               `json:"category"`
	EstimatedCost float64                `json:"estimated_cost"`
	Checked       bool                   `json:"checked"`
	IsCustom      bool                   `json:"is_custom"`
}

// List is a derived shopping list
type List struct {
	PlanID    uuid.UUID            `json:"plan_id"`
	Items     []Item               `json:"items"`
	Subtotals map[Category]float64 `json:"subtotals"`
	TotalCost float64              `json:"total_cost"`
}

// Consolidator merges plan ingredients into shopping lines
type Consolidator struct {
	tables Tables
}

// NewConsolidator creates a consolidator; empty tables fall back to the defaults
func NewConsolidator(tables Tables) *Consolidator {
	d := DefaultTables()
	if len(tables.Keywords) == 0 {
		tables.Keywords = d.Keywords
	}
	if len(tables.Conversions) == 0 {
		tables.Conversions = d.Conversions
	}
	return &Consolidator{tables: tables}
}

// Tables returns the lookup tables in use
func (c *Consolidator) Tables() Tables {
	return c.tables
}

type entry struct {
	name     string
	quantity float64
	unit     recipe.MeasurementUnit
}

// Build expands every slot's ingredients scaled by servings, merges lines
// sharing a normalized key and prices them. The result does not depend on
// slot or ingredient order.
func (c *Consolidator) Build(plan *mealplan.Plan, costs CostTable) (*List, error) {
	if plan == nil {
		return nil, ErrMissingGroceries
	}

	grouped := map[string][]entry{}
	for _, slot := range plan.Slots() {
		scale := slot.Scale()
		for _, ing := range slot.Recipe.Ingredients() {
			key := Normalize(ing.Name)
			if key == "" {
				continue
			}
			grouped[key] = append(grouped[key], entry{name: ing.Name, quantity: ing.Quantity * scale, unit: ing.Unit})
		}
	}

	list := c.assemble(grouped, costs)
	list.PlanID = plan.ID()
	return list, nil
}

// Consolidate merges loose ingredients without a plan, e.g. for a single recipe
func (c *Consolidator) Consolidate(ingredients []recipe.Ingredient, costs CostTable) *List {
	grouped := map[string][]entry{}
	for _, ing := range ingredients {
		if key := Normalize(ing.Name); key != "" {
			grouped[key] = append(grouped[key], entry{name: ing.Name, quantity: ing.Quantity, unit: ing.Unit})
		}
	}
	return c.assemble(grouped, costs)
}

func (c *Consolidator) assemble(grouped map[string][]entry, costs CostTable) *List {
	list := &List{}
	for key, entries := range grouped {
		name := displayName(key, entries)
		parts := c.merge(entries)
		item := Item{
			Key:         key,
			DisplayName: name,
			Parts:       parts,
			Description: describe(parts),
			Category:    c.tables.Categorize(key),
		}
		if len(parts) > 0 {
			item.Quantity, item.Unit = parts[0].Quantity, parts[0].Unit
		}
		item.EstimatedCost = c.price(key, parts, costs)
		list.Items = append(list.Items, item)
	}
	list.recalculate()
	return list
}

// displayName picks the shortest raw ingredient name of a line, lowest
// first on ties, so the choice does not depend on input order
func displayName(key string, entries []entry) string {
	best := ""
	for _, e := range entries {
		name := strings.Join(strings.Fields(e.name), " ")
		if name == "" {
			continue
		}
		if best == "" || len(name) < len(best) || (len(name) == len(best) && name < best) {
			best = name
		}
	}
	if best == "" {
		return key
	}
	return best
}

// merge sums same-unit and convertible quantities. Convertible units end up
// in the largest unit present; units of different dimensions stay separate parts.
func (c *Consolidator) merge(entries []entry) []Part {
	sort.Slice(entries, func(i, j int) bool {
		if entries[i].unit != entries[j].unit {
			return entries[i].unit < entries[j].unit
		}
		return entries[i].quantity < entries[j].quantity
	})

	// group key is the dimension for convertible units, the unit itself otherwise
	groups := map[string][]entry{}
	for _, e := range entries {
		g := "unit:" + string(e.unit)
		if conv, ok := c.tables.Conversions[e.unit]; ok {
			g = "dim:" + string(conv.Dimension)
		}
		groups[g] = append(groups[g], e)
	}

	parts := make([]Part, 0, len(groups))
	for _, es := range groups {
		target := es[0].unit
		for _, e := range es[1:] {
			if c.tables.Conversions[e.unit].ToBase > c.tables.Conversions[target].ToBase {
				target = e.unit
			}
		}
		var sum float64
		for _, e := range es {
			q, ok := c.tables.Convert(e.quantity, e.unit, target)
			if !ok {
				q = e.quantity
			}
			sum += q
		}
		parts = append(parts, Part{Quantity: round(sum), Unit: target})
	}

	sort.Slice(parts, func(i, j int) bool { return parts[i].Unit < parts[j].Unit })
	return parts
}

func (c *Consolidator) price(key string, parts []Part, costs CostTable) float64 {
	p, known := costs.Prices[key]
	var total float64
	for _, part := range parts {
		if known {
			if q, ok := c.tables.Convert(part.Quantity, part.Unit, p.Unit); ok {
				total += q * p.Amount
				continue
			}
		}
		total += costs.Default
	}
	return round(total)
}

func describe(parts []Part) string {
	lines := make([]string, len(parts))
	for i, p := range parts {
		lines[i] = formatQuantity(p.Quantity, p.Unit)
	}
	return strings.Join(lines, "\n")
}

func formatQuantity(q float64, unit recipe.MeasurementUnit) string {
	s := strconv.FormatFloat(q, 'f', -1, 64)
	if unit == "" {
		return s
	}
	return s + " " + string(unit)
}

func round(v float64) float64 {
	return math.Round(v*1000) / 1000
}
