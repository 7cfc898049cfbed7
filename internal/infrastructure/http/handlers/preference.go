package handlers

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"github.com/robloxdeveloper2/Foodi-Backup-sub002/internal/ports/inbound"
)

// PreferenceHandlers serves feedback and preference routes
type PreferenceHandlers struct {
	base
	preferences inbound.PreferenceService
}

// NewPreferenceHandlers creates a new preference handlers instance
func NewPreferenceHandlers(preferences inbound.PreferenceService, logger *zap.Logger) *PreferenceHandlers {
	return &PreferenceHandlers{
		base:        newBase(logger.Named("preference-handlers")),
		preferences: preferences,
	}
}

// feedbackRequest fields other than type are required per type by the
// preference service
type feedbackRequest struct {
	Type       string `json:"type" validate:"required,oneof=swipe rating ingredient cuisine prep_time"`
	RecipeID   string `json:"recipe_id" validate:"required_if=Type swipe,required_if=Type rating"`
	Action     string `json:"action" validate:"required_if=Type swipe"`
	Stars      int    `json:"stars" validate:"omitempty,min=1,max=5"`
	Ingredient string `json:"ingredient" validate:"required_if=Type ingredient,max=100"`
	Liked      bool   `json:"liked"`
	Cuisine    string `json:"cuisine" validate:"required_if=Type cuisine,max=50"`
	Score      int    `json:"score"`
	Bucket     string `json:"bucket" validate:"required_if=Type prep_time"`
}

// Routes mounts the preference routes on r. feedback may wrap the
// feedback handler, e.g. with a rate limiter.
func (h *PreferenceHandlers) Routes(r chi.Router, feedback ...func(http.Handler) http.Handler) {
	r.With(feedback...).Post("/users/{userID}/feedback", h.RecordFeedback)
	r.Get("/users/{userID}/preferences", h.GetPreferences)
}

// RecordFeedback handles POST /users/{userID}/feedback
func (h *PreferenceHandlers) RecordFeedback(w http.ResponseWriter, r *http.Request) {
	var req feedbackRequest
	if err := h.decode(r, &req); err != nil {
		h.writeError(w, r, err)
		return
	}

	prefs, err := h.preferences.RecordFeedback(r.Context(), inbound.FeedbackCommand{
		UserID:     chi.URLParam(r, "userID"),
		Type:       req.Type,
		RecipeID:   req.RecipeID,
		Action:     req.Action,
		Stars:      req.Stars,
		Ingredient: req.Ingredient,
		Liked:      req.Liked,
		Cuisine:    req.Cuisine,
		Score:      req.Score,
		Bucket:     req.Bucket,
	})
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	h.writeJSON(w, http.StatusOK, prefs)
}

// GetPreferences handles GET /users/{userID}/preferences
func (h *PreferenceHandlers) GetPreferences(w http.ResponseWriter, r *http.Request) {
	prefs, err := h.preferences.GetPreferences(r.Context(), chi.URLParam(r, "userID"))
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	h.writeJSON(w, http.StatusOK, prefs)
}
