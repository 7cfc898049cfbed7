package preference

import "time"

// EventType names a kind of feedback
type EventType string

const (
	EventTypeSwipe      EventType = "swipe"
	EventTypeRating     EventType = "rating"
	EventTypeIngredient EventType = "ingredient"
	EventTypeCuisine    EventType = "cuisine"
	EventTypePrepTime   EventType = "prep_time"
)

// Event is a single piece of user feedback.
// The set of events is closed; only types in this package implement it.
type Event interface {
	Type() EventType
	applyTo(s *State, at time.Time) (*State, error)
}

// SwipeEvent records a like or dislike on a recipe
type SwipeEvent struct {
	RecipeID string
	Action   SwipeAction
}

func (SwipeEvent) Type() EventType { return EventTypeSwipe }

func (e SwipeEvent) applyTo(s *State, at time.Time) (*State, error) {
	return s.RecordSwipe(e.RecipeID, e.Action, at)
}

// RatingEvent records a 1..5 star rating
type RatingEvent struct {
	RecipeID string
	Stars    int
}

func (RatingEvent) Type() EventType { return EventTypeRating }

func (e RatingEvent) applyTo(s *State, at time.Time) (*State, error) {
	return s.RecordRating(e.RecipeID, e.Stars, at)
}

// IngredientEvent records an ingredient like or dislike
type IngredientEvent struct {
	Ingredient string
	Liked      bool
}

func (IngredientEvent) Type() EventType { return EventTypeIngredient }

func (e IngredientEvent) applyTo(s *State, at time.Time) (*State, error) {
	return s.RecordIngredientPreference(e.Ingredient, e.Liked, at)
}

// CuisineEvent records a cuisine affinity
type CuisineEvent struct {
	Cuisine string
	Score   int
}

func (CuisineEvent) Type() EventType { return EventTypeCuisine }

func (e CuisineEvent) applyTo(s *State, at time.Time) (*State, error) {
	return s.RecordCuisinePreference(e.Cuisine, e.Score, at)
}

// PrepTimeEvent records the preferred prep-time bucket
type PrepTimeEvent struct {
	Bucket PrepTimeBucket
}

func (PrepTimeEvent) Type() EventType { return EventTypePrepTime }

func (e PrepTimeEvent) applyTo(s *State, at time.Time) (*State, error) {
	return s.RecordPrepTimePreference(e.Bucket, at)
}

// Apply returns the state with the event applied. A nil state has no user
// to attach the event to; create one with New first.
func (s *State) Apply(e Event, at time.Time) (*State, error) {
	if s == nil {
		return nil, ErrMissingUserID
	}
	if e == nil {
		return nil, ErrUnknownEvent
	}
	return e.applyTo(s, at)
}
