package handlers

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"github.com/robloxdeveloper2/Foodi-Backup-sub002/internal/ports/inbound"
)

// ProfileHandlers serves the profile routes
type ProfileHandlers struct {
	base
	profiles inbound.ProfileService
}

// NewProfileHandlers creates a new profile handlers instance
func NewProfileHandlers(profiles inbound.ProfileService, logger *zap.Logger) *ProfileHandlers {
	return &ProfileHandlers{
		base:     newBase(logger.Named("profile-handlers")),
		profiles: profiles,
	}
}

type budgetRequest struct {
	Amount     float64 `json:"amount" validate:"gte=0"`
	Currency   string  `json:"currency" validate:"omitempty,len=3"`
	Period     string  `json:"period" validate:"omitempty,oneof=daily weekly monthly"`
	PerMealMin float64 `json:"per_meal_min" validate:"gte=0"`
	PerMealMax float64 `json:"per_meal_max" validate:"gte=0"`
}

type biometricsRequest struct {
	WeightKG      float64 `json:"weight_kg" validate:"gt=0,lte=500"`
	HeightCM      float64 `json:"height_cm" validate:"gt=0,lte=300"`
	Age           int     `json:"age" validate:"gt=0,lt=130"`
	Sex           string  `json:"sex" validate:"oneof=male female"`
	ActivityLevel string  `json:"activity_level" validate:"omitempty,oneof=sedentary light moderate active very_active"`
}

type profileRequest struct {
	DietaryRestrictions []string           `json:"dietary_restrictions" validate:"max=10,dive,required,max=30"`
	Budget              budgetRequest      `json:"budget"`
	Goal                string             `json:"goal" validate:"omitempty,oneof=weight_loss maintenance muscle_gain"`
	CookingLevel        string             `json:"cooking_level" validate:"omitempty,oneof=beginner intermediate advanced professional"`
	Biometrics          *biometricsRequest `json:"biometrics"`
	DailyCalories       float64            `json:"daily_calories" validate:"gte=0,lte=10000"`
	LikedCuisines       []string           `json:"liked_cuisines" validate:"max=20,dive,max=50"`
	DislikedCuisines    []string           `json:"disliked_cuisines" validate:"max=20,dive,max=50"`
	LikedIngredients    []string           `json:"liked_ingredients" validate:"max=50,dive,max=100"`
	DislikedIngredients []string           `json:"disliked_ingredients" validate:"max=50,dive,max=100"`
	Servings            int                `json:"servings" validate:"gte=0,lte=20"`
	IncludeSnacks       bool               `json:"include_snacks"`
}

// Routes mounts the profile routes on r
func (h *ProfileHandlers) Routes(r chi.Router) {
	r.Get("/users/{userID}/profile", h.GetProfile)
	r.Put("/users/{userID}/profile", h.SaveProfile)
}

// GetProfile handles GET /users/{userID}/profile
func (h *ProfileHandlers) GetProfile(w http.ResponseWriter, r *http.Request) {
	profile, err := h.profiles.GetProfile(r.Context(), chi.URLParam(r, "userID"))
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	h.writeJSON(w, http.StatusOK, profile)
}

// SaveProfile handles PUT /users/{userID}/profile
func (h *ProfileHandlers) SaveProfile(w http.ResponseWriter, r *http.Request) {
	var req profileRequest
	if err := h.decode(r, &req); err != nil {
		h.writeError(w, r, err)
		return
	}

	cmd := inbound.SaveProfileCommand{
		UserID:              chi.URLParam(r, "userID"),
		DietaryRestrictions: req.DietaryRestrictions,
		Budget:              inbound.BudgetDTO(req.Budget),
		Goal:                req.Goal,
		CookingLevel:        req.CookingLevel,
		DailyCalories:       req.DailyCalories,
		LikedCuisines:       req.LikedCuisines,
		DislikedCuisines:    req.DislikedCuisines,
		LikedIngredients:    req.LikedIngredients,
		DislikedIngredients: req.DislikedIngredients,
		Servings:            req.Servings,
		IncludeSnacks:       req.IncludeSnacks,
	}
	if req.Biometrics != nil {
		bio := inbound.BiometricsDTO(*req.Biometrics)
		cmd.Biometrics = &bio
	}

	profile, err := h.profiles.SaveProfile(r.Context(), cmd)
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	h.writeJSON(w, http.StatusOK, profile)
}
