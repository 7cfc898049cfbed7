package planner

import (
	"math"
	"time"

	"github.com/robloxdeveloper2/Foodi-Backup-sub002/internal/domain/grocery"
	"github.com/robloxdeveloper2/Foodi-Backup-sub002/internal/domain/mealplan"
	"github.com/robloxdeveloper2/Foodi-Backup-sub002/internal/domain/nutrition"
	"github.com/robloxdeveloper2/Foodi-Backup-sub002/internal/domain/planning"
	"github.com/robloxdeveloper2/Foodi-Backup-sub002/internal/domain/recipe"
	"github.com/robloxdeveloper2/Foodi-Backup-sub002/internal/ports/inbound"
)

const dateLayout = "2006-01-02"

func toNutritionDTO(n recipe.Nutrition) inbound.NutritionDTO {
	return inbound.NutritionDTO{
		Calories: round2(n.Calories),
		ProteinG: round2(n.Protein),
		CarbsG:   round2(n.Carbs),
		FatG:     round2(n.Fat),
	}
}

func toTargetsDTO(userID string, t nutrition.Target) *inbound.TargetsDTO {
	return &inbound.TargetsDTO{
		UserID:    userID,
		Calories:  t.Calories,
		ProteinG:  t.Protein,
		CarbsG:    t.Carbs,
		FatG:      t.Fat,
		Estimated: t.Estimated,
	}
}

func toRecipeSummary(r *recipe.Recipe) inbound.RecipeSummaryDTO {
	return inbound.RecipeSummaryDTO{
		ID:               r.ID(),
		Name:             r.Name(),
		MealType:         string(r.MealType()),
		Cuisine:          string(r.Cuisine()),
		CostPerServing:   r.CostPerServing(),
		TotalTimeMinutes: int(r.TotalTime() / time.Minute),
		DietaryTags:      r.DietaryTags(),
		Nutrition:        toNutritionDTO(r.Nutrition()),
	}
}

func toPlanDTO(p *mealplan.Plan) *inbound.MealPlanDTO {
	days := make([]inbound.PlanDayDTO, p.Days())
	for d := range days {
		days[d] = inbound.PlanDayDTO{
			Day:   d + 1,
			Date:  p.StartDate().AddDate(0, 0, d).Format(dateLayout),
			Meals: []inbound.MealDTO{},
		}
	}
	for _, s := range p.Slots() {
		day := &days[s.Day]
		day.Meals = append(day.Meals, inbound.MealDTO{
			MealType:  string(s.MealType),
			Recipe:    toRecipeSummary(s.Recipe),
			Servings:  s.Servings,
			Cost:      round2(s.Cost()),
			Nutrition: toNutritionDTO(s.Nutrition()),
		})
		day.Cost += s.Cost()
	}
	for d := range days {
		days[d].Cost = round2(days[d].Cost)
		days[d].Nutrition = toNutritionDTO(p.DailyNutrition(d))
	}

	var subs []inbound.SubstitutionDTO
	for _, h := range p.History() {
		subs = append(subs, inbound.SubstitutionDTO{
			Day:        h.Day + 1,
			MealType:   string(h.MealType),
			PreviousID: h.Previous.ID(),
			ReplacedBy: h.Replacement.ID(),
			Reason:     h.Reason,
			At:         h.At.Format(time.RFC3339),
		})
	}

	return &inbound.MealPlanDTO{
		ID:            p.ID(),
		UserID:        p.UserID(),
		StartDate:     p.StartDate().Format(dateLayout),
		DurationDays:  p.Days(),
		Servings:      p.Servings(),
		Targets:       toNutritionDTO(p.Targets().Nutrition()),
		Budget:        round2(p.Budget()),
		TotalCost:     round2(p.TotalCost()),
		GoalsNotMet:   p.GoalsNotMet(),
		Reasons:       p.Reasons(),
		Notes:         p.Notes(),
		Days:          days,
		Substitutions: subs,
		Version:       p.Version(),
		CreatedAt:     p.CreatedAt().Format(time.RFC3339),
	}
}

func toImpactDTO(i planning.Impact) inbound.ImpactDTO {
	return inbound.ImpactDTO{
		Delta:     toNutritionDTO(i.Delta),
		CostDelta: round2(i.CostDelta),
		MaxShare:  math.Round(i.MaxShare*1e4) / 1e4,
		Level:     string(i.Level),
	}
}

func toSubstituteDTOs(candidates []planning.Candidate) []inbound.SubstituteDTO {
	out := make([]inbound.SubstituteDTO, 0, len(candidates))
	for _, c := range candidates {
		out = append(out, inbound.SubstituteDTO{
			Recipe: toRecipeSummary(c.Recipe),
			Score:  math.Round(c.Score.Total*1e4) / 1e4,
			Impact: toImpactDTO(c.Impact),
		})
	}
	return out
}

func toGroceryListDTO(l *grocery.List) *inbound.GroceryListDTO {
	items := make([]inbound.GroceryItemDTO, 0, len(l.Items))
	for _, it := range l.Items {
		items = append(items, inbound.GroceryItemDTO{
			Key:           it.Key,
			Name:          it.DisplayName,
			Quantity:      it.Quantity,
			Unit:          string(it.Unit),
			Description:   it.Description,
			Category:      string(it.Category),
			EstimatedCost: it.EstimatedCost,
			Checked:       it.Checked,
			IsCustom:      it.IsCustom,
		})
	}
	subtotals := make(map[string]float64, len(l.Subtotals))
	for c, v := range l.Subtotals {
		subtotals[string(c)] = v
	}
	return &inbound.GroceryListDTO{
		PlanID:    l.PlanID,
		Items:     items,
		Subtotals: subtotals,
		TotalCost: l.TotalCost,
	}
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}
