package preference

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var now = time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)

func TestNew_RequiresUserID(t *testing.T) {
	_, err := New("  ")
	assert.ErrorIs(t, err, ErrMissingUserID)
}

func TestRecordSwipe_LastWriteWins(t *testing.T) {
	// Arrange
	s, err := New("user-1")
	require.NoError(t, err)

	// Act
	liked, err := s.RecordSwipe("recipe-x", SwipeLike, now)
	require.NoError(t, err)
	disliked, err := liked.RecordSwipe("recipe-x", SwipeDislike, now.Add(time.Minute))
	require.NoError(t, err)

	// Assert
	w, ok := disliked.Swipe("recipe-x")
	assert.True(t, ok)
	assert.Equal(t, -1, w)
	assert.Equal(t, 2, disliked.Version())

	// earlier snapshots are untouched
	w, _ = liked.Swipe("recipe-x")
	assert.Equal(t, 1, w)
	_, ok = s.Swipe("recipe-x")
	assert.False(t, ok)
}

func TestRecordRating_Validation(t *testing.T) {
	s, _ := New("user-1")

	tests := []struct {
		name    string
		stars   int
		wantErr error
	}{
		{"zero", 0, ErrInvalidRating},
		{"six", 6, ErrInvalidRating},
		{"one", 1, nil},
		{"five", 5, nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			next, err := s.RecordRating("r1", tt.stars, now)
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				return
			}
			require.NoError(t, err)
			got, ok := next.Rating("r1")
			assert.True(t, ok)
			assert.Equal(t, tt.stars, got)
		})
	}
}

func TestRecordIngredientPreference_MutuallyExclusive(t *testing.T) {
	s, _ := New("user-1")

	s, err := s.RecordIngredientPreference("Cilantro ", true, now)
	require.NoError(t, err)
	s, err = s.RecordIngredientPreference("cilantro", false, now)
	require.NoError(t, err)

	liked, ok := s.IngredientPreference("CILANTRO")
	assert.True(t, ok)
	assert.False(t, liked)
	assert.Len(t, s.Snapshot().Ingredients, 1)
}

func TestIngredientPreference_MatchesPluralAndPreparation(t *testing.T) {
	s, _ := New("user-1")

	s, err := s.RecordIngredientPreference("Onions", false, now)
	require.NoError(t, err)

	liked, ok := s.IngredientPreference("onion, diced")
	assert.True(t, ok)
	assert.False(t, liked)
	assert.Contains(t, s.Snapshot().Ingredients, "onion")

	restored, err := Restore(Snapshot{UserID: "user-1", Ingredients: map[string]bool{"Tomatoes": true}})
	require.NoError(t, err)
	liked, ok = restored.IngredientPreference("tomato")
	assert.True(t, ok)
	assert.True(t, liked)
}

func TestRecordCuisinePreference(t *testing.T) {
	s, _ := New("user-1")

	_, err := s.RecordCuisinePreference("thai", 9, now)
	assert.ErrorIs(t, err, ErrInvalidAffinity)

	s, err = s.RecordCuisinePreference("Thai", 4, now)
	require.NoError(t, err)
	a, ok := s.CuisineAffinity("thai")
	assert.True(t, ok)
	assert.Equal(t, 4, a)
}

func TestApply_DispatchesEvents(t *testing.T) {
	s, _ := New("user-1")
	events := []Event{
		SwipeEvent{RecipeID: "r1", Action: SwipeLike},
		RatingEvent{RecipeID: "r1", Stars: 4},
		IngredientEvent{Ingredient: "garlic", Liked: true},
		CuisineEvent{Cuisine: "italian", Score: 5},
		PrepTimeEvent{Bucket: PrepTimeQuick},
	}

	var err error
	for _, e := range events {
		s, err = s.Apply(e, now)
		require.NoError(t, err, e.Type())
	}

	assert.Equal(t, len(events), s.Version())
	assert.Equal(t, PrepTimeQuick, s.PrepTime())
	assert.Equal(t, now, s.UpdatedAt())

	_, err = s.Apply(nil, now)
	assert.ErrorIs(t, err, ErrUnknownEvent)
}

func TestApply_NilStateNeedsUser(t *testing.T) {
	var s *State

	got, err := s.Apply(SwipeEvent{RecipeID: "r1", Action: SwipeLike}, now)

	assert.ErrorIs(t, err, ErrMissingUserID)
	assert.Nil(t, got)
}

func TestSnapshotRestore_RoundTrip(t *testing.T) {
	s, _ := New("user-1")
	s, _ = s.RecordSwipe("r1", SwipeDislike, now)
	s, _ = s.RecordPrepTimePreference(PrepTimeElaborate, now)

	restored, err := Restore(s.Snapshot())
	require.NoError(t, err)

	assert.Equal(t, s.Snapshot(), restored.Snapshot())
}

func TestRestore_DropsOutOfRangeEntries(t *testing.T) {
	restored, err := Restore(Snapshot{
		UserID:   "user-1",
		Ratings:  map[string]int{"ok": 3, "bad": 11},
		Cuisines: map[string]int{"thai": 0},
		PrepTime: "forever",
	})
	require.NoError(t, err)

	_, ok := restored.Rating("bad")
	assert.False(t, ok)
	_, ok = restored.CuisineAffinity("thai")
	assert.False(t, ok)
	assert.Empty(t, restored.PrepTime())
}

func TestBucketFor(t *testing.T) {
	assert.Equal(t, PrepTimeQuick, BucketFor(15*time.Minute))
	assert.Equal(t, PrepTimeModerate, BucketFor(30*time.Minute))
	assert.Equal(t, PrepTimeElaborate, BucketFor(90*time.Minute))
}
