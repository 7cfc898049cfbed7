package handlers

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"github.com/robloxdeveloper2/Foodi-Backup-sub002/internal/ports/inbound"
)

// PlannerHandlers serves plan generation, substitution and grocery routes
type PlannerHandlers struct {
	base
	planner inbound.PlannerService
}

// NewPlannerHandlers creates a new planner handlers instance
func NewPlannerHandlers(planner inbound.PlannerService, logger *zap.Logger) *PlannerHandlers {
	return &PlannerHandlers{
		base:    newBase(logger.Named("planner-handlers")),
		planner: planner,
	}
}

type generatePlanRequest struct {
	UserID        string `json:"user_id" validate:"required,max=64"`
	DurationDays  int    `json:"duration_days" validate:"required,min=1,max=28"`
	StartDate     string `json:"start_date" validate:"omitempty,datetime=2006-01-02"`
	Servings      int    `json:"servings" validate:"omitempty,min=1,max=20"`
	IncludeSnacks *bool  `json:"include_snacks"`
}

type substitutionRequest struct {
	Day      int    `json:"day" validate:"required,min=1,max=28"`
	MealType string `json:"meal_type" validate:"required,oneof=breakfast lunch dinner snack"`
	RecipeID string `json:"recipe_id" validate:"required"`
	Reason   string `json:"reason" validate:"max=200"`
}

type groceryItemRequest struct {
	Name          string  `json:"name" validate:"required,max=100"`
	Quantity      float64 `json:"quantity" validate:"gte=0"`
	Unit          string  `json:"unit" validate:"max=20"`
	Category      string  `json:"category" validate:"max=40"`
	EstimatedCost float64 `json:"estimated_cost" validate:"gte=0"`
}

// Routes mounts the planner routes on r
func (h *PlannerHandlers) Routes(r chi.Router) {
	r.Get("/users/{userID}/targets", h.GetTargets)
	r.Route("/plans", func(r chi.Router) {
		r.Post("/", h.GeneratePlan)
		r.Route("/{planID}", func(r chi.Router) {
			r.Get("/", h.GetPlan)
			r.Get("/substitutes", h.GetSubstitutes)
			r.Get("/substitutes/preview", h.PreviewSubstitution)
			r.Post("/substitutions", h.ApplySubstitution)
			r.Post("/substitutions/undo", h.UndoSubstitution)
			r.Get("/grocery-list", h.GetGroceryList)
			r.Post("/grocery-list/items", h.AddGroceryItem)
			r.Delete("/grocery-list/items/{key}", h.RemoveGroceryItem)
			r.Post("/grocery-list/items/{key}/toggle", h.ToggleGroceryItem)
		})
	})
}

// GetTargets handles GET /users/{userID}/targets
func (h *PlannerHandlers) GetTargets(w http.ResponseWriter, r *http.Request) {
	targets, err := h.planner.ComputeTargets(r.Context(), chi.URLParam(r, "userID"))
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	h.writeJSON(w, http.StatusOK, targets)
}

// GeneratePlan handles POST /plans
func (h *PlannerHandlers) GeneratePlan(w http.ResponseWriter, r *http.Request) {
	var req generatePlanRequest
	if err := h.decode(r, &req); err != nil {
		h.writeError(w, r, err)
		return
	}

	plan, err := h.planner.GeneratePlan(r.Context(), inbound.GeneratePlanCommand{
		UserID:        req.UserID,
		DurationDays:  req.DurationDays,
		StartDate:     req.StartDate,
		Servings:      req.Servings,
		IncludeSnacks: req.IncludeSnacks,
	})
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	h.writeJSON(w, http.StatusCreated, plan)
}

// GetPlan handles GET /plans/{planID}
func (h *PlannerHandlers) GetPlan(w http.ResponseWriter, r *http.Request) {
	planID, err := planIDParam(r)
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	plan, err := h.planner.GetPlan(r.Context(), planID)
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	h.writeJSON(w, http.StatusOK, plan)
}

// GetSubstitutes handles GET /plans/{planID}/substitutes
func (h *PlannerHandlers) GetSubstitutes(w http.ResponseWriter, r *http.Request) {
	planID, err := planIDParam(r)
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	day, err := intQuery(r, "day", 0)
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	limit, err := intQuery(r, "limit", 0)
	if err != nil {
		h.writeError(w, r, err)
		return
	}

	subs, err := h.planner.GetSubstitutes(r.Context(), inbound.SubstitutesQuery{
		PlanID:   planID,
		Day:      day,
		MealType: r.URL.Query().Get("meal_type"),
		Limit:    limit,
	})
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	h.writeJSON(w, http.StatusOK, map[string]interface{}{"substitutes": subs})
}

// PreviewSubstitution handles GET /plans/{planID}/substitutes/preview
func (h *PlannerHandlers) PreviewSubstitution(w http.ResponseWriter, r *http.Request) {
	planID, err := planIDParam(r)
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	day, err := intQuery(r, "day", 0)
	if err != nil {
		h.writeError(w, r, err)
		return
	}

	impact, err := h.planner.PreviewSubstitution(r.Context(), inbound.PreviewQuery{
		PlanID:   planID,
		Day:      day,
		MealType: r.URL.Query().Get("meal_type"),
		RecipeID: r.URL.Query().Get("recipe_id"),
	})
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	h.writeJSON(w, http.StatusOK, impact)
}

// ApplySubstitution handles POST /plans/{planID}/substitutions
func (h *PlannerHandlers) ApplySubstitution(w http.ResponseWriter, r *http.Request) {
	planID, err := planIDParam(r)
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	var req substitutionRequest
	if err := h.decode(r, &req); err != nil {
		h.writeError(w, r, err)
		return
	}

	plan, err := h.planner.ApplySubstitution(r.Context(), inbound.ApplySubstitutionCommand{
		PlanID:   planID,
		Day:      req.Day,
		MealType: req.MealType,
		RecipeID: req.RecipeID,
		Reason:   req.Reason,
	})
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	h.writeJSON(w, http.StatusOK, plan)
}

// UndoSubstitution handles POST /plans/{planID}/substitutions/undo
func (h *PlannerHandlers) UndoSubstitution(w http.ResponseWriter, r *http.Request) {
	planID, err := planIDParam(r)
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	plan, err := h.planner.UndoLastSubstitution(r.Context(), planID)
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	h.writeJSON(w, http.StatusOK, plan)
}

// GetGroceryList handles GET /plans/{planID}/grocery-list
func (h *PlannerHandlers) GetGroceryList(w http.ResponseWriter, r *http.Request) {
	planID, err := planIDParam(r)
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	list, err := h.planner.GetGroceryList(r.Context(), planID)
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	h.writeJSON(w, http.StatusOK, list)
}

// AddGroceryItem handles POST /plans/{planID}/grocery-list/items
func (h *PlannerHandlers) AddGroceryItem(w http.ResponseWriter, r *http.Request) {
	planID, err := planIDParam(r)
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	var req groceryItemRequest
	if err := h.decode(r, &req); err != nil {
		h.writeError(w, r, err)
		return
	}

	list, err := h.planner.AddGroceryItem(r.Context(), inbound.AddGroceryItemCommand{
		PlanID:        planID,
		Name:          req.Name,
		Quantity:      req.Quantity,
		Unit:          req.Unit,
		Category:      req.Category,
		EstimatedCost: req.EstimatedCost,
	})
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	h.writeJSON(w, http.StatusCreated, list)
}

// RemoveGroceryItem handles DELETE /plans/{planID}/grocery-list/items/{key}
func (h *PlannerHandlers) RemoveGroceryItem(w http.ResponseWriter, r *http.Request) {
	planID, err := planIDParam(r)
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	list, err := h.planner.RemoveGroceryItem(r.Context(), planID, chi.URLParam(r, "key"))
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	h.writeJSON(w, http.StatusOK, list)
}

// ToggleGroceryItem handles POST /plans/{planID}/grocery-list/items/{key}/toggle
func (h *PlannerHandlers) ToggleGroceryItem(w http.ResponseWriter, r *http.Request) {
	planID, err := planIDParam(r)
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	list, err := h.planner.ToggleGroceryItem(r.Context(), planID, chi.URLParam(r, "key"))
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	h.writeJSON(w, http.StatusOK, list)
}
