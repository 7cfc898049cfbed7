package grocery

import (
	"math"
	"sort"
	"strings"

	"github.com/google/uuid"

	"github.com/robloxdeveloper2/Foodi-Backup-sub002/internal/domain/recipe"
)

const customPrefix = "custom:"

// Item returns the line with the given key
func (l *List) Item(key string) (Item, bool) {
	for _, it := range l.Items {
		if it.Key == key {
			return it, true
		}
	}
	return Item{}, false
}

// ToggleChecked flips the checked flag of a line
func (l *List) ToggleChecked(key string) error {
	for i := range l.Items {
		if l.Items[i].Key == key {
			l.Items[i].Checked = !l.Items[i].Checked
			return nil
		}
	}
	return ErrItemNotFound
}

// SetChecked marks the given keys as checked; unknown keys are ignored
func (l *List) SetChecked(keys []string) {
	set := make(map[string]struct{}, len(keys))
	for _, k := range keys {
		set[k] = struct{}{}
	}
	for i := range l.Items {
		_, l.Items[i].Checked = set[l.Items[i].Key]
	}
}

// CheckedKeys returns the keys of checked lines
func (l *List) CheckedKeys() []string {
	var out []string
	for _, it := range l.Items {
		if it.Checked {
			out = append(out, it.Key)
		}
	}
	return out
}

// CustomItem is a user-added line that is not derived from the plan
type CustomItem struct {
	Name          string                 `json:"name"`
	Quantity      float64                `json:"quantity"`
	Unit          recipe.MeasurementUnit `json:"unit,omitempty"`
	Category      Category               `json:"category,omitempty"`
	EstimatedCost float64                `json:"estimated_cost"`
}

// AddCustomItem appends a user line. An empty category is looked up from tables.
func (l *List) AddCustomItem(ci CustomItem, tables Tables) (Item, error) {
	name := strings.TrimSpace(ci.Name)
	if name == "" {
		return Item{}, ErrMissingItemName
	}
	if ci.Quantity < 0 || ci.EstimatedCost < 0 {
		return Item{}, ErrInvalidQuantity
	}
	key := customPrefix + Normalize(name)
	if _, exists := l.Item(key); exists {
		return Item{}, ErrDuplicateItem
	}

	category := ci.Category
	if category == "" {
		category = tables.Categorize(Normalize(name))
	}
	if !category.Valid() {
		return Item{}, ErrInvalidCategory
	}

	item := Item{
		Key:           key,
		DisplayName:   name,
		Quantity:      ci.Quantity,
		Unit:          ci.Unit,
		Category:      category,
		EstimatedCost: round(ci.EstimatedCost),
		IsCustom:      true,
	}
	if ci.Quantity > 0 {
		item.Parts = []Part{{Quantity: ci.Quantity, Unit: ci.Unit}}
		item.Description = formatQuantity(ci.Quantity, ci.Unit)
	}
	l.Items = append(l.Items, item)
	l.recalculate()
	return item, nil
}

// RemoveCustomItem deletes a user line; plan-derived lines cannot be removed
func (l *List) RemoveCustomItem(key string) error {
	for i, it := range l.Items {
		if it.Key == key && it.IsCustom {
			l.Items = append(l.Items[:i], l.Items[i+1:]...)
			l.recalculate()
			return nil
		}
	}
	return ErrItemNotFound
}

// CustomItems returns the user-added lines
func (l *List) CustomItems() []CustomItem {
	var out []CustomItem
	for _, it := range l.Items {
		if it.IsCustom {
			out = append(out, CustomItem{
				Name:          it.DisplayName,
				Quantity:      it.Quantity,
				Unit:          it.Unit,
				Category:      it.Category,
				EstimatedCost: it.EstimatedCost,
			})
		}
	}
	return out
}

// Overlay is the user state kept on top of a derived list. The list itself is
// rebuilt from the plan on every read.
type Overlay struct {
	PlanID  uuid.UUID    `json:"plan_id"`
	Checked []string     `json:"checked"`
	Custom  []CustomItem `json:"custom"`
}

// Overlay captures the checked flags and custom lines of the list
func (l *List) Overlay() Overlay {
	return Overlay{PlanID: l.PlanID, Checked: l.CheckedKeys(), Custom: l.CustomItems()}
}

// ApplyOverlay restores custom lines and checked flags. Custom lines that no
// longer validate are skipped.
func (l *List) ApplyOverlay(o Overlay, tables Tables) {
	for _, ci := range o.Custom {
		_, _ = l.AddCustomItem(ci, tables)
	}
	l.SetChecked(o.Checked)
}

// recalculate sorts lines and refreshes subtotals
func (l *List) recalculate() {
	sort.SliceStable(l.Items, func(i, j int) bool {
		a, b := l.Items[i], l.Items[j]
		if a.Category.Order() != b.Category.Order() {
			return a.Category.Order() < b.Category.Order()
		}
		return a.Key < b.Key
	})

	l.Subtotals = make(map[Category]float64, len(Categories))
	var total float64
	for _, it := range l.Items {
		l.Subtotals[it.Category] += it.EstimatedCost
		total += it.EstimatedCost
	}
	for c, v := range l.Subtotals {
		l.Subtotals[c] = math.Round(v*100) / 100
	}
	l.TotalCost = math.Round(total*100) / 100
}
