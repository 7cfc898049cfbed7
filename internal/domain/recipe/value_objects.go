package recipe

import (
	"errors"
	"strings"
)

// Value Objects - Immutable objects that describe aspects of the domain

// Ingredient represents one line of a recipe's ingredient list
type Ingredient struct {
	Name        string // normalized name, e.g. "onion"
	Quantity    float64
	Unit        MeasurementUnit
	DisplayName string // raw text, e.g. "1 cup onion, diced"
}

// Validate validates the ingredient
func (i Ingredient) Validate() error {
	if strings.TrimSpace(i.Name) == "" {
		return errors.New("ingredient name is required")
	}
	if i.Quantity < 0 {
		return errors.New("ingredient quantity cannot be negative")
	}
	return nil
}

// Label returns the display name, falling back to the normalized name
func (i Ingredient) Label() string {
	if i.DisplayName != "" {
		return i.DisplayName
	}
	return i.Name
}

// Nutrition contains per-serving macro information
type Nutrition struct {
	Calories float64 `json:"calories"`
	Protein  float64 `json:"protein_g"`
	Carbs    float64 `json:"carbs_g"`
	Fat      float64 `json:"fat_g"`
}

// Scale multiplies every value by factor
func (n Nutrition) Scale(factor float64) Nutrition {
	return Nutrition{
		Calories: n.Calories * factor,
		Protein:  n.Protein * factor,
		Carbs:    n.Carbs * factor,
		Fat:      n.Fat * factor,
	}
}

// Add returns the component-wise sum
func (n Nutrition) Add(o Nutrition) Nutrition {
	return Nutrition{
		Calories: n.Calories + o.Calories,
		Protein:  n.Protein + o.Protein,
		Carbs:    n.Carbs + o.Carbs,
		Fat:      n.Fat + o.Fat,
	}
}

// Sub returns the component-wise difference n - o
func (n Nutrition) Sub(o Nutrition) Nutrition {
	return Nutrition{
		Calories: n.Calories - o.Calories,
		Protein:  n.Protein - o.Protein,
		Carbs:    n.Carbs - o.Carbs,
		Fat:      n.Fat - o.Fat,
	}
}

// Values returns calories, protein, carbs and fat in that order
func (n Nutrition) Values() [4]float64 {
	return [4]float64{n.Calories, n.Protein, n.Carbs, n.Fat}
}

func (n Nutrition) validate() error {
	if n.Calories < 0 || n.Protein < 0 || n.Carbs < 0 || n.Fat < 0 {
		return ErrNegativeNutrition
	}
	return nil
}

// MealType is the slot a recipe is meant for
type MealType string

const (
	MealTypeBreakfast MealType = "breakfast"
	MealTypeLunch     MealType = "lunch"
	MealTypeDinner    MealType = "dinner"
	MealTypeSnack     MealType = "snack"
)

// MealTypes lists meal types in slot fill order
var MealTypes = []MealType{MealTypeBreakfast, MealTypeLunch, MealTypeDinner, MealTypeSnack}

// ParseMealType parses a case-insensitive meal type
func ParseMealType(s string) (MealType, error) {
	mt := MealType(strings.ToLower(strings.TrimSpace(s)))
	if !mt.Valid() {
		return "", ErrInvalidMealType
	}
	return mt, nil
}

// Valid reports whether the meal type is known
func (m MealType) Valid() bool {
	switch m {
	case MealTypeBreakfast, MealTypeLunch, MealTypeDinner, MealTypeSnack:
		return true
	}
	return false
}

// Order returns the position of the meal type within a day
func (m MealType) Order() int {
	for i, mt := range MealTypes {
		if mt == m {
			return i
		}
	}
	return len(MealTypes)
}

// MeasurementUnit represents units of measurement
type MeasurementUnit string

const (
	// Volume units
	MeasurementUnitTeaspoon   MeasurementUnit = "tsp"
	MeasurementUnitTablespoon MeasurementUnit = "tbsp"
	MeasurementUnitCup        MeasurementUnit = "cup"
	MeasurementUnitFluidOunce MeasurementUnit = "fl_oz"
	MeasurementUnitMilliliter MeasurementUnit = "ml"
	MeasurementUnitLiter      MeasurementUnit = "l"

	// Weight units
	MeasurementUnitGram     MeasurementUnit = "g"
	MeasurementUnitKilogram MeasurementUnit = "kg"
	MeasurementUnitOunce    MeasurementUnit = "oz"
	MeasurementUnitPound    MeasurementUnit = "lb"

	// Count units
	MeasurementUnitPiece MeasurementUnit = "piece"
	MeasurementUnitClove MeasurementUnit = "clove"
	MeasurementUnitSlice MeasurementUnit = "slice"
	MeasurementUnitCan   MeasurementUnit = "can"
	MeasurementUnitDash  MeasurementUnit = "dash"
	MeasurementUnitPinch MeasurementUnit = "pinch"
)

// CuisineType represents different cuisine types
type CuisineType string

const (
	CuisineTypeItalian       CuisineType = "italian"
	CuisineTypeFrench        CuisineType = "french"
	CuisineTypeChinese       CuisineType = "chinese"
	CuisineTypeJapanese      CuisineType = "japanese"
	CuisineTypeIndian        CuisineType = "indian"
	CuisineTypeMexican       CuisineType = "mexican"
	CuisineTypeAmerican      CuisineType = "american"
	CuisineTypeMediterranean CuisineType = "mediterranean"
	CuisineTypeThai          CuisineType = "thai"
	CuisineTypeOther         CuisineType = "other"
)

// DifficultyLevel represents recipe difficulty
type DifficultyLevel string

const (
	DifficultyLevelEasy   DifficultyLevel = "easy"
	DifficultyLevelMedium DifficultyLevel = "medium"
	DifficultyLevelHard   DifficultyLevel = "hard"
)
