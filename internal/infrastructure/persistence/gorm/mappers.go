// Package gorm provides mapping between domain entities and GORM models
package gorm

import (
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/robloxdeveloper2/Foodi-Backup-sub002/internal/domain/grocery"
	"github.com/robloxdeveloper2/Foodi-Backup-sub002/internal/domain/mealplan"
	"github.com/robloxdeveloper2/Foodi-Backup-sub002/internal/domain/nutrition"
	"github.com/robloxdeveloper2/Foodi-Backup-sub002/internal/domain/recipe"
	"github.com/robloxdeveloper2/Foodi-Backup-sub002/internal/domain/user"
)

// RecipeToModel converts a domain recipe to a GORM model
func RecipeToModel(r *recipe.Recipe) *RecipeModel {
	ings := make(IngredientList, 0, len(r.Ingredients()))
	for _, ing := range r.Ingredients() {
		ings = append(ings, IngredientRow{
			Name:        ing.Name,
			Quantity:    ing.Quantity,
			Unit:        string(ing.Unit),
			DisplayName: ing.DisplayName,
		})
	}
	n := r.Nutrition()
	return &RecipeModel{
		ID:              r.ID(),
		Name:            r.Name(),
		MealType:        string(r.MealType()),
		Cuisine:         string(r.Cuisine()),
		Difficulty:      string(r.Difficulty()),
		Ingredients:     ings,
		DietaryTags:     r.DietaryTags(),
		Calories:        n.Calories,
		ProteinG:        n.Protein,
		CarbsG:          n.Carbs,
		FatG:            n.Fat,
		CostPerServing:  r.CostPerServing(),
		Servings:        r.Servings(),
		PrepTimeMinutes: int(r.PrepTime() / time.Minute),
		CookTimeMinutes: int(r.CookTime() / time.Minute),
	}
}

// ModelToRecipe converts a GORM model to a domain recipe
func ModelToRecipe(m *RecipeModel) (*recipe.Recipe, error) {
	ings := make([]recipe.Ingredient, 0, len(m.Ingredients))
	for _, row := range m.Ingredients {
		ings = append(ings, recipe.Ingredient{
			Name:        row.Name,
			Quantity:    row.Quantity,
			Unit:        recipe.MeasurementUnit(row.Unit),
			DisplayName: row.DisplayName,
		})
	}
	r, err := recipe.New(recipe.Params{
		ID:       m.ID,
		Name:     m.Name,
		MealType: recipe.MealType(m.MealType),
		Cuisine:  recipe.CuisineType(m.Cuisine),
		Nutrition: recipe.Nutrition{
			Calories: m.Calories,
			Protein:  m.ProteinG,
			Carbs:    m.CarbsG,
			Fat:      m.FatG,
		},
		Ingredients:    ings,
		CostPerServing: m.CostPerServing,
		Servings:       m.Servings,
		PrepTime:       time.Duration(m.PrepTimeMinutes) * time.Minute,
		CookTime:       time.Duration(m.CookTimeMinutes) * time.Minute,
		Difficulty:     recipe.DifficultyLevel(m.Difficulty),
		DietaryTags:    m.DietaryTags,
	})
	if err != nil {
		return nil, fmt.Errorf("recipe %s: %w", m.ID, err)
	}
	return r, nil
}

// ProfileToModel converts a domain profile to a GORM model
func ProfileToModel(p *user.Profile) *UserProfileModel {
	restrictions := make(StringSlice, 0, len(p.DietaryRestrictions()))
	for _, r := range p.DietaryRestrictions() {
		restrictions = append(restrictions, string(r))
	}
	b := p.Budget()
	model := &UserProfileModel{
		ID:                  p.ID(),
		DietaryRestrictions: restrictions,
		BudgetAmount:        b.Amount,
		BudgetCurrency:      b.Currency,
		BudgetPeriod:        string(b.Period),
		BudgetPerMealMin:    b.PerMealMin,
		BudgetPerMealMax:    b.PerMealMax,
		Goal:                string(p.Goal()),
		CookingLevel:        string(p.CookingLevel()),
		DailyCalories:       p.DailyCalories(),
		LikedCuisines:       p.LikedCuisines(),
		DislikedCuisines:    p.DislikedCuisines(),
		LikedIngredients:    p.LikedIngredients(),
		DislikedIngredients: p.DislikedIngredients(),
		Servings:            p.Servings(),
		IncludeSnacks:       p.IncludeSnacks(),
	}
	if bio := p.Biometrics(); bio != nil {
		model.Biometrics = &BiometricsRow{
			WeightKG:      bio.WeightKG,
			HeightCM:      bio.HeightCM,
			Age:           bio.Age,
			Sex:           string(bio.Sex),
			ActivityLevel: string(bio.ActivityLevel),
		}
	}
	return model
}

// ModelToProfile converts a GORM model to a domain profile
func ModelToProfile(m *UserProfileModel) (*user.Profile, error) {
	restrictions := make([]user.DietaryRestriction, 0, len(m.DietaryRestrictions))
	for _, r := range m.DietaryRestrictions {
		restrictions = append(restrictions, user.DietaryRestriction(r))
	}
	params := user.ProfileParams{
		ID:                  m.ID,
		DietaryRestrictions: restrictions,
		Budget: user.Budget{
			Amount:     m.BudgetAmount,
			Currency:   m.BudgetCurrency,
			Period:     user.BudgetPeriod(m.BudgetPeriod),
			PerMealMin: m.BudgetPerMealMin,
			PerMealMax: m.BudgetPerMealMax,
		},
		Goal:                user.Goal(m.Goal),
		CookingLevel:        user.CookingLevel(m.CookingLevel),
		DailyCalories:       m.DailyCalories,
		LikedCuisines:       m.LikedCuisines,
		DislikedCuisines:    m.DislikedCuisines,
		LikedIngredients:    m.LikedIngredients,
		DislikedIngredients: m.DislikedIngredients,
		Servings:            m.Servings,
		IncludeSnacks:       m.IncludeSnacks,
	}
	if b := m.Biometrics; b != nil {
		params.Biometrics = &user.Biometrics{
			WeightKG:      b.WeightKG,
			HeightCM:      b.HeightCM,
			Age:           b.Age,
			Sex:           user.Sex(b.Sex),
			ActivityLevel: user.ActivityLevel(b.ActivityLevel),
		}
	}
	p, err := user.NewProfile(params)
	if err != nil {
		return nil, fmt.Errorf("profile %s: %w", m.ID, err)
	}
	return p, nil
}

// PlanToModel converts a plan to its row plus slot and history rows
func PlanToModel(p *mealplan.Plan) *MealPlanModel {
	t := p.Targets()
	model := &MealPlanModel{
		ID:        p.ID(),
		UserID:    p.UserID(),
		StartDate: p.StartDate(),
		EndDate:   p.StartDate().AddDate(0, 0, p.Days()),
		Days:      p.Days(),
		Servings:  p.Servings(),
		Targets: TargetRow{
			Calories:  t.Calories,
			ProteinG:  t.Protein,
			CarbsG:    t.Carbs,
			FatG:      t.Fat,
			Estimated: t.Estimated,
		},
		Budget:         p.Budget(),
		PerMealCeiling: p.PerMealCeiling(),
		GoalsNotMet:    p.GoalsNotMet(),
		Reasons:        p.Reasons(),
		Notes:          p.Notes(),
		Version:        p.Version(),
		CreatedAt:      p.CreatedAt(),
	}
	for _, s := range p.Slots() {
		model.Slots = append(model.Slots, MealPlanSlotModel{
			PlanID:   p.ID(),
			Day:      s.Day,
			MealType: string(s.MealType),
			RecipeID: s.Recipe.ID(),
			Servings: s.Servings,
		})
	}
	for i, h := range p.History() {
		model.Substitutions = append(model.Substitutions, SubstitutionModel{
			PlanID:        p.ID(),
			Seq:           i + 1,
			Day:           h.Day,
			MealType:      string(h.MealType),
			PreviousID:    h.Previous.ID(),
			ReplacementID: h.Replacement.ID(),
			Reason:        h.Reason,
			At:            h.At,
		})
	}
	return model
}

// RecipeIDs returns every recipe a stored plan references
func (m *MealPlanModel) RecipeIDs() []string {
	seen := make(map[string]struct{})
	var ids []string
	add := func(id string) {
		if _, ok := seen[id]; !ok {
			seen[id] = struct{}{}
			ids = append(ids, id)
		}
	}
	for _, s := range m.Slots {
		add(s.RecipeID)
	}
	for _, h := range m.Substitutions {
		add(h.PreviousID)
		add(h.ReplacementID)
	}
	return ids
}

// ModelToPlan rebuilds a plan; recipes must hold every id from RecipeIDs
func ModelToPlan(m *MealPlanModel, recipes map[string]*recipe.Recipe) (*mealplan.Plan, error) {
	lookup := func(id string) (*recipe.Recipe, error) {
		r, ok := recipes[id]
		if !ok {
			return nil, fmt.Errorf("plan %s references missing recipe %s: %w", m.ID, id, recipe.ErrRecipeNotFound)
		}
		return r, nil
	}

	slots := make([]mealplan.Slot, 0, len(m.Slots))
	for _, s := range m.Slots {
		r, err := lookup(s.RecipeID)
		if err != nil {
			return nil, err
		}
		slots = append(slots, mealplan.Slot{
			Day:      s.Day,
			MealType: recipe.MealType(s.MealType),
			Recipe:   r,
			Servings: s.Servings,
		})
	}

	history := make([]mealplan.HistoryEntry, 0, len(m.Substitutions))
	for _, h := range m.Substitutions {
		prev, err := lookup(h.PreviousID)
		if err != nil {
			return nil, err
		}
		next, err := lookup(h.ReplacementID)
		if err != nil {
			return nil, err
		}
		history = append(history, mealplan.HistoryEntry{
			Day:         h.Day,
			MealType:    recipe.MealType(h.MealType),
			Previous:    prev,
			Replacement: next,
			Reason:      h.Reason,
			At:          h.At,
		})
	}

	return mealplan.Restore(mealplan.Params{
		ID:        m.ID,
		UserID:    m.UserID,
		StartDate: m.StartDate,
		Days:      m.Days,
		Servings:  m.Servings,
		Slots:     slots,
		Targets: nutrition.Target{
			Calories:  m.Targets.Calories,
			Protein:   m.Targets.ProteinG,
			Carbs:     m.Targets.CarbsG,
			Fat:       m.Targets.FatG,
			Estimated: m.Targets.Estimated,
		},
		Budget:         m.Budget,
		PerMealCeiling: m.PerMealCeiling,
		GoalsNotMet:    m.GoalsNotMet,
		Reasons:        m.Reasons,
		Notes:          m.Notes,
		CreatedAt:      m.CreatedAt,
		History:        history,
		Version:        m.Version,
	})
}

// OverlayToModel converts a grocery overlay to a GORM model
func OverlayToModel(o grocery.Overlay) *GroceryOverlayModel {
	custom := make(CustomItemList, 0, len(o.Custom))
	for _, c := range o.Custom {
		custom = append(custom, CustomItemRow{
			Name:          c.Name,
			Quantity:      c.Quantity,
			Unit:          string(c.Unit),
			Category:      string(c.Category),
			EstimatedCost: c.EstimatedCost,
		})
	}
	return &GroceryOverlayModel{
		PlanID:  o.PlanID,
		Checked: o.Checked,
		Custom:  custom,
	}
}

// ModelToOverlay converts a GORM model to a grocery overlay
func ModelToOverlay(m *GroceryOverlayModel) grocery.Overlay {
	o := grocery.Overlay{PlanID: m.PlanID, Checked: m.Checked}
	for _, c := range m.Custom {
		o.Custom = append(o.Custom, grocery.CustomItem{
			Name:          c.Name,
			Quantity:      c.Quantity,
			Unit:          recipe.MeasurementUnit(c.Unit),
			Category:      grocery.Category(c.Category),
			EstimatedCost: c.EstimatedCost,
		})
	}
	return o
}

func emptyOverlay(planID uuid.UUID) grocery.Overlay {
	return grocery.Overlay{PlanID: planID}
}
