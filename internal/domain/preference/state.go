// Package preference holds the learned taste model of a single user.
//
// A State is never mutated once built. Every Record* call returns a new State
// carrying the change, so readers can hold a snapshot without locking. Writers
// for the same user must still be serialized by the caller to avoid lost updates.
package preference

import (
	"strings"
	"time"

	"github.com/robloxdeveloper2/Foodi-Backup-sub002/internal/domain/recipe"
)

// SwipeAction is a binary like/dislike signal
type SwipeAction string

const (
	SwipeLike    SwipeAction = "like"
	SwipeDislike SwipeAction = "dislike"
)

// Weight returns +1 for like and -1 for dislike
func (a SwipeAction) Weight() int {
	if a == SwipeLike {
		return 1
	}
	return -1
}

// Valid reports whether the action is known
func (a SwipeAction) Valid() bool {
	return a == SwipeLike || a == SwipeDislike
}

// PrepTimeBucket groups recipes by total time
type PrepTimeBucket string

const (
	PrepTimeQuick     PrepTimeBucket = "quick"
	PrepTimeModerate  PrepTimeBucket = "moderate"
	PrepTimeElaborate PrepTimeBucket = "elaborate"
)

// Valid reports whether the bucket is known
func (b PrepTimeBucket) Valid() bool {
	switch b {
	case PrepTimeQuick, PrepTimeModerate, PrepTimeElaborate:
		return true
	}
	return false
}

// BucketFor returns the bucket a total cooking time falls in
func BucketFor(total time.Duration) PrepTimeBucket {
	switch {
	case total <= 20*time.Minute:
		return PrepTimeQuick
	case total <= 45*time.Minute:
		return PrepTimeModerate
	default:
		return PrepTimeElaborate
	}
}

// State is one user's preference snapshot
type State struct {
	userID      string
	swipes      map[string]int
	ratings     map[string]int
	ingredients map[string]bool
	cuisines    map[string]int
	prepTime    PrepTimeBucket
	version     int
	updatedAt   time.Time
}

// New creates an empty state for the user
func New(userID string) (*State, error) {
	if strings.TrimSpace(userID) == "" {
		return nil, ErrMissingUserID
	}
	return &State{
		userID:      userID,
		swipes:      map[string]int{},
		ratings:     map[string]int{},
		ingredients: map[string]bool{},
		cuisines:    map[string]int{},
	}, nil
}

// Snapshot is the serializable form of a State
type Snapshot struct {
	UserID      string          `json:"user_id"`
	Swipes      map[string]int  `json:"swipes"`
	Ratings     map[string]int  `json:"ratings"`
	Ingredients map[string]bool `json:"ingredients"`
	Cuisines    map[string]int  `json:"cuisines"`
	PrepTime    PrepTimeBucket  `json:"prep_time,omitempty"`
	Version     int             `json:"version"`
	UpdatedAt   time.Time       `json:"updated_at"`
}

// Restore rebuilds a State from a snapshot, dropping out-of-range entries
func Restore(s Snapshot) (*State, error) {
	st, err := New(s.UserID)
	if err != nil {
		return nil, err
	}
	for id, w := range s.Swipes {
		if w > 0 {
			st.swipes[id] = 1
		} else if w < 0 {
			st.swipes[id] = -1
		}
	}
	for id, r := range s.Ratings {
		if r >= 1 && r <= 5 {
			st.ratings[id] = r
		}
	}
	for name, liked := range s.Ingredients {
		if key := recipe.NormalizeIngredientName(name); key != "" {
			st.ingredients[key] = liked
		}
	}
	for c, a := range s.Cuisines {
		if a >= 1 && a <= 5 {
			st.cuisines[normalizeKey(c)] = a
		}
	}
	if s.PrepTime.Valid() {
		st.prepTime = s.PrepTime
	}
	st.version = s.Version
	st.updatedAt = s.UpdatedAt
	return st, nil
}

// Snapshot exports the state
func (s *State) Snapshot() Snapshot {
	return Snapshot{
		UserID:      s.userID,
		Swipes:      copyMap(s.swipes),
		Ratings:     copyMap(s.ratings),
		Ingredients: copyMap(s.ingredients),
		Cuisines:    copyMap(s.cuisines),
		PrepTime:    s.prepTime,
		Version:     s.version,
		UpdatedAt:   s.updatedAt,
	}
}

// UserID returns the owner of the state
func (s *State) UserID() string { return s.userID }

// Version is incremented on every write
func (s *State) Version() int { return s.version }

// UpdatedAt is the time of the last write
func (s *State) UpdatedAt() time.Time { return s.updatedAt }

// Swipe returns +1/-1 for a swiped recipe
func (s *State) Swipe(recipeID string) (int, bool) {
	w, ok := s.swipes[recipeID]
	return w, ok
}

// Rating returns the 1..5 star rating of a recipe
func (s *State) Rating(recipeID string) (int, bool) {
	r, ok := s.ratings[recipeID]
	return r, ok
}

// IngredientPreference reports whether the ingredient is liked, if known
func (s *State) IngredientPreference(name string) (liked bool, ok bool) {
	liked, ok = s.ingredients[recipe.NormalizeIngredientName(name)]
	return liked, ok
}

// CuisineAffinity returns the 1..5 affinity for a cuisine
func (s *State) CuisineAffinity(cuisine string) (int, bool) {
	a, ok := s.cuisines[normalizeKey(cuisine)]
	return a, ok
}

// PrepTime returns the preferred prep-time bucket, empty when unset
func (s *State) PrepTime() PrepTimeBucket { return s.prepTime }

// Empty reports whether no feedback has been recorded
func (s *State) Empty() bool {
	return len(s.swipes) == 0 && len(s.ratings) == 0 && len(s.ingredients) == 0 &&
		len(s.cuisines) == 0 && s.prepTime == ""
}

// RecordSwipe overwrites the swipe for a recipe
func (s *State) RecordSwipe(recipeID string, action SwipeAction, at time.Time) (*State, error) {
	if strings.TrimSpace(recipeID) == "" {
		return nil, ErrMissingRecipeID
	}
	if !action.Valid() {
		return nil, ErrInvalidSwipe
	}
	next := s.clone(at)
	next.swipes[recipeID] = action.Weight()
	return next, nil
}

// RecordRating overwrites the star rating for a recipe
func (s *State) RecordRating(recipeID string, stars int, at time.Time) (*State, error) {
	if strings.TrimSpace(recipeID) == "" {
		return nil, ErrMissingRecipeID
	}
	if stars < 1 || stars > 5 {
		return nil, ErrInvalidRating
	}
	next := s.clone(at)
	next.ratings[recipeID] = stars
	return next, nil
}

// RecordIngredientPreference marks an ingredient as liked or disliked.
// The two are mutually exclusive; the latest call wins.
func (s *State) RecordIngredientPreference(name string, liked bool, at time.Time) (*State, error) {
	key := recipe.NormalizeIngredientName(name)
	if key == "" {
		return nil, ErrMissingIngredient
	}
	next := s.clone(at)
	next.ingredients[key] = liked
	return next, nil
}

// RecordCuisinePreference overwrites the affinity for a cuisine
func (s *State) RecordCuisinePreference(cuisine string, score int, at time.Time) (*State, error) {
	key := normalizeKey(cuisine)
	if key == "" {
		return nil, ErrMissingCuisine
	}
	if score < 1 || score > 5 {
		return nil, ErrInvalidAffinity
	}
	next := s.clone(at)
	next.cuisines[key] = score
	return next, nil
}

// RecordPrepTimePreference sets the preferred prep-time bucket
func (s *State) RecordPrepTimePreference(bucket PrepTimeBucket, at time.Time) (*State, error) {
	if !bucket.Valid() {
		return nil, ErrInvalidBucket
	}
	next := s.clone(at)
	next.prepTime = bucket
	return next, nil
}

func (s *State) clone(at time.Time) *State {
	return &State{
		userID:      s.userID,
		swipes:      copyMap(s.swipes),
		ratings:     copyMap(s.ratings),
		ingredients: copyMap(s.ingredients),
		cuisines:    copyMap(s.cuisines),
		prepTime:    s.prepTime,
		version:     s.version + 1,
		updatedAt:   at.UTC(),
	}
}

func copyMap[K comparable, V any](in map[K]V) map[K]V {
	out := make(map[K]V, len(in))
	for k, v := range in {
		out[k] = v
	}
	return out
}

func normalizeKey(s string) string {
	return strings.ToLower(strings.TrimSpace(s))
}
