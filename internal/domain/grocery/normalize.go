package grocery

import "github.com/robloxdeveloper2/Foodi-Backup-sub002/internal/domain/recipe"

// Normalize returns the merge key of an ingredient. Lines share a key when
// recipe.NormalizeIngredientName folds their names to the same text.
func Normalize(name string) string {
	return recipe.NormalizeIngredientName(name)
}
