package handlers

import (
	"net/http"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"github.com/robloxdeveloper2/Foodi-Backup-sub002/internal/ports/inbound"
	apperrors "github.com/robloxdeveloper2/Foodi-Backup-sub002/pkg/errors"
)

// CatalogHandlers serves the read-only recipe routes
type CatalogHandlers struct {
	base
	catalog inbound.CatalogService
}

// NewCatalogHandlers creates a new catalog handlers instance
func NewCatalogHandlers(catalog inbound.CatalogService, logger *zap.Logger) *CatalogHandlers {
	return &CatalogHandlers{
		base:    newBase(logger.Named("catalog-handlers")),
		catalog: catalog,
	}
}

// Routes mounts the catalog routes on r
func (h *CatalogHandlers) Routes(r chi.Router) {
	r.Route("/recipes", func(r chi.Router) {
		r.Get("/", h.ListRecipes)
		r.Get("/{recipeID}", h.GetRecipe)
	})
}

// ListRecipes handles GET /recipes?meal_type=&cuisine=&tag=&max_cost=&user_id=&limit=
func (h *CatalogHandlers) ListRecipes(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	limit, err := intQuery(r, "limit", 0)
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	var maxCost float64
	if raw := q.Get("max_cost"); raw != "" {
		maxCost, err = strconv.ParseFloat(raw, 64)
		if err != nil || maxCost < 0 {
			h.writeError(w, r, apperrors.NewBadRequestError("max_cost must be a non-negative number"))
			return
		}
	}
	var tags []string
	for _, t := range q["tag"] {
		for _, part := range strings.Split(t, ",") {
			if part = strings.TrimSpace(part); part != "" {
				tags = append(tags, part)
			}
		}
	}

	recipes, err := h.catalog.ListRecipes(r.Context(), inbound.RecipeQuery{
		MealType:          q.Get("meal_type"),
		Cuisine:           q.Get("cuisine"),
		DietaryTags:       tags,
		MaxCostPerServing: maxCost,
		UserID:            q.Get("user_id"),
		Limit:             limit,
	})
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	h.writeJSON(w, http.StatusOK, map[string]interface{}{"recipes": recipes})
}

// GetRecipe handles GET /recipes/{recipeID}
func (h *CatalogHandlers) GetRecipe(w http.ResponseWriter, r *http.Request) {
	recipe, err := h.catalog.GetRecipe(r.Context(), chi.URLParam(r, "recipeID"))
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	h.writeJSON(w, http.StatusOK, recipe)
}
