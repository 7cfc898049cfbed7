package grocery

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/robloxdeveloper2/Foodi-Backup-sub002/internal/domain/recipe"
)

func sampleList(t *testing.T) *List {
	t.Helper()
	c := NewConsolidator(DefaultTables())
	return c.Consolidate([]recipe.Ingredient{
		ing("onion", 2, recipe.MeasurementUnitPiece),
		ing("milk", 1, recipe.MeasurementUnitCup),
	}, CostTable{Default: 1})
}

func TestList_SortedByCategoryThenKey(t *testing.T) {
	list := sampleList(t)

	require.Len(t, list.Items, 2)
	assert.Equal(t, "onion", list.Items[0].Key)
	assert.Equal(t, "milk", list.Items[1].Key)
	assert.Equal(t, 2.0, list.TotalCost)
}

func TestList_ToggleChecked(t *testing.T) {
	list := sampleList(t)

	require.NoError(t, list.ToggleChecked("milk"))
	assert.Equal(t, []string{"milk"}, list.CheckedKeys())

	require.NoError(t, list.ToggleChecked("milk"))
	assert.Empty(t, list.CheckedKeys())

	assert.ErrorIs(t, list.ToggleChecked("bread"), ErrItemNotFound)
}

func TestList_SetChecked(t *testing.T) {
	list := sampleList(t)

	list.SetChecked([]string{"onion", "unknown"})

	assert.Equal(t, []string{"onion"}, list.CheckedKeys())
}

func TestList_CustomItems(t *testing.T) {
	list := sampleList(t)
	tables := DefaultTables()

	item, err := list.AddCustomItem(CustomItem{Name: "Paper Towels", Quantity: 1, EstimatedCost: 3.5}, tables)
	require.NoError(t, err)

	assert.Equal(t, "custom:paper towel", item.Key)
	assert.True(t, item.IsCustom)
	assert.Equal(t, CategoryOther, item.Category)
	assert.Equal(t, 5.5, list.TotalCost)
	assert.Len(t, list.CustomItems(), 1)

	_, err = list.AddCustomItem(CustomItem{Name: "paper towels"}, tables)
	assert.ErrorIs(t, err, ErrDuplicateItem)

	_, err = list.AddCustomItem(CustomItem{Name: " "}, tables)
	assert.ErrorIs(t, err, ErrMissingItemName)

	_, err = list.AddCustomItem(CustomItem{Name: "x", Category: "garden"}, tables)
	assert.ErrorIs(t, err, ErrInvalidCategory)

	// categorized through the keyword table when not given
	bread, err := list.AddCustomItem(CustomItem{Name: "bagels"}, tables)
	require.NoError(t, err)
	assert.Equal(t, CategoryBakery, bread.Category)

	require.NoError(t, list.RemoveCustomItem("custom:paper towel"))
	assert.ErrorIs(t, list.RemoveCustomItem("onion"), ErrItemNotFound)
	assert.Equal(t, 2.0, list.TotalCost)
}

func TestList_OverlayRoundTrip(t *testing.T) {
	tables := DefaultTables()
	list := sampleList(t)
	_, err := list.AddCustomItem(CustomItem{Name: "foil", EstimatedCost: 2}, tables)
	require.NoError(t, err)
	require.NoError(t, list.ToggleChecked("milk"))
	require.NoError(t, list.ToggleChecked("custom:foil"))

	overlay := list.Overlay()
	fresh := sampleList(t)
	fresh.ApplyOverlay(overlay, tables)

	assert.Equal(t, list.Items, fresh.Items)
	assert.Equal(t, 4.0, fresh.TotalCost)
	assert.ElementsMatch(t, []string{"milk", "custom:foil"}, fresh.CheckedKeys())
}
