package preference

import (
	"context"
	"encoding/json"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"

	"github.com/robloxdeveloper2/Foodi-Backup-sub002/internal/domain/grocery"
	"github.com/robloxdeveloper2/Foodi-Backup-sub002/internal/domain/nutrition"
	"github.com/robloxdeveloper2/Foodi-Backup-sub002/internal/domain/planning"
	"github.com/robloxdeveloper2/Foodi-Backup-sub002/internal/domain/preference"
	"github.com/robloxdeveloper2/Foodi-Backup-sub002/internal/ports/inbound"
	"github.com/robloxdeveloper2/Foodi-Backup-sub002/internal/ports/outbound"
	apperrors "github.com/robloxdeveloper2/Foodi-Backup-sub002/pkg/errors"
	"github.com/robloxdeveloper2/Foodi-Backup-sub002/test/testutils"
)

type counters struct {
	mu       sync.Mutex
	feedback map[string]int
	cache    map[string]int
}

func (c *counters) FeedbackRecorded(eventType string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.feedback[eventType]++
}

func (c *counters) CacheOperation(op, _ string, status string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.cache[op+":"+status]++
}

// memoryRepo is a concurrency-safe preference store for the lost-update test
type memoryRepo struct {
	mu     sync.Mutex
	states map[string]preference.Snapshot
}

func (r *memoryRepo) Load(_ context.Context, userID string) (*preference.State, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if snap, ok := r.states[userID]; ok {
		return preference.Restore(snap)
	}
	return preference.New(userID)
}

func (r *memoryRepo) Save(_ context.Context, state *preference.State) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.states[state.UserID()] = state.Snapshot()
	return nil
}

var _ outbound.PreferenceRepository = (*memoryRepo)(nil)

func newService(t *testing.T, repo outbound.PreferenceRepository, cache outbound.CacheRepository) (*PreferenceService, *counters) {
	engine := planning.NewEngine(planning.DefaultConfig(), nutrition.DefaultConfig(), grocery.DefaultTables())
	m := &counters{feedback: map[string]int{}, cache: map[string]int{}}
	svc := NewPreferenceService(repo, cache, time.Minute, engine, m, zaptest.NewLogger(t))
	svc.now = func() time.Time { return time.Date(2024, 6, 3, 12, 0, 0, 0, time.UTC) }
	return svc, m
}

func TestPreferenceService_Load_CacheHit(t *testing.T) {
	// Arrange
	repo := new(testutils.MockPreferenceRepository)
	cache := new(testutils.MockCacheRepository)
	data, err := json.Marshal(preference.Snapshot{UserID: "u1", Swipes: map[string]int{"r1": 1}, Version: 3})
	require.NoError(t, err)
	cache.On("Get", mock.Anything, "preferences:u1").Return(data, nil)
	svc, m := newService(t, repo, cache)

	// Act
	state, err := svc.Load(context.Background(), "u1")

	// Assert
	require.NoError(t, err)
	assert.Equal(t, 3, state.Version())
	assert.Equal(t, 1, m.cache["get:hit"])
	repo.AssertNotCalled(t, "Load", mock.Anything, mock.Anything)
}

func TestPreferenceService_Load_CacheMissFillsCache(t *testing.T) {
	repo := new(testutils.MockPreferenceRepository)
	cache := new(testutils.MockCacheRepository)
	state, _ := preference.New("u1")
	cache.On("Get", mock.Anything, "preferences:u1").Return(nil, outbound.ErrCacheMiss)
	repo.On("Load", mock.Anything, "u1").Return(state, nil)
	cache.On("Set", mock.Anything, "preferences:u1", mock.Anything, time.Minute).Return(nil)
	svc, m := newService(t, repo, cache)

	got, err := svc.Load(context.Background(), "u1")

	require.NoError(t, err)
	assert.Equal(t, "u1", got.UserID())
	assert.Equal(t, 1, m.cache["get:miss"])
	assert.Equal(t, 1, m.cache["set:ok"])
}

func TestPreferenceService_Load_DropsCorruptEntry(t *testing.T) {
	repo := new(testutils.MockPreferenceRepository)
	cache := new(testutils.MockCacheRepository)
	state, _ := preference.New("u1")
	cache.On("Get", mock.Anything, "preferences:u1").Return([]byte("{not json"), nil)
	cache.On("Delete", mock.Anything, "preferences:u1").Return(nil)
	cache.On("Set", mock.Anything, mock.Anything, mock.Anything, mock.Anything).Return(nil)
	repo.On("Load", mock.Anything, "u1").Return(state, nil)
	svc, _ := newService(t, repo, cache)

	_, err := svc.Load(context.Background(), "u1")

	require.NoError(t, err)
	cache.AssertCalled(t, "Delete", mock.Anything, "preferences:u1")
}

func TestPreferenceService_RecordFeedback(t *testing.T) {
	tests := []struct {
		name  string
		cmd   inbound.FeedbackCommand
		check func(t *testing.T, dto *inbound.PreferencesDTO)
	}{
		{
			name: "swipe",
			cmd:  inbound.FeedbackCommand{UserID: "u1", Type: "SWIPE", RecipeID: "r1", Action: "Like"},
			check: func(t *testing.T, dto *inbound.PreferencesDTO) {
				assert.Equal(t, 1, dto.Swipes["r1"])
			},
		},
		{
			name: "rating",
			cmd:  inbound.FeedbackCommand{UserID: "u1", Type: "rating", RecipeID: "r1", Stars: 4},
			check: func(t *testing.T, dto *inbound.PreferencesDTO) {
				assert.Equal(t, 4, dto.Ratings["r1"])
			},
		},
		{
			name: "prep time",
			cmd:  inbound.FeedbackCommand{UserID: "u1", Type: "prep_time", Bucket: "quick"},
			check: func(t *testing.T, dto *inbound.PreferencesDTO) {
				assert.Equal(t, "quick", dto.PrepTime)
			},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			// Arrange
			repo := new(testutils.MockPreferenceRepository)
			cache := new(testutils.MockCacheRepository)
			state, _ := preference.New("u1")
			repo.On("Load", mock.Anything, "u1").Return(state, nil)
			repo.On("Save", mock.Anything, mock.AnythingOfType("*preference.State")).Return(nil)
			cache.On("Set", mock.Anything, "preferences:u1", mock.Anything, time.Minute).Return(nil)
			svc, m := newService(t, repo, cache)

			// Act
			dto, err := svc.RecordFeedback(context.Background(), tt.cmd)

			// Assert
			require.NoError(t, err)
			assert.Equal(t, 1, dto.Version)
			assert.Equal(t, "2024-06-03T12:00:00Z", dto.UpdatedAt)
			tt.check(t, dto)
			repo.AssertNumberOfCalls(t, "Save", 1)
			cache.AssertNumberOfCalls(t, "Set", 1)
			assert.Len(t, m.feedback, 1)
			cache.AssertNotCalled(t, "Get", mock.Anything, mock.Anything)
		})
	}
}

func TestPreferenceService_RecordFeedback_Invalid(t *testing.T) {
	tests := []struct {
		name string
		cmd  inbound.FeedbackCommand
	}{
		{"missing user", inbound.FeedbackCommand{Type: "swipe", RecipeID: "r1", Action: "like"}},
		{"unknown type", inbound.FeedbackCommand{UserID: "u1", Type: "emoji"}},
		{"bad stars", inbound.FeedbackCommand{UserID: "u1", Type: "rating", RecipeID: "r1", Stars: 9}},
		{"bad swipe", inbound.FeedbackCommand{UserID: "u1", Type: "swipe", RecipeID: "r1", Action: "meh"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			repo := new(testutils.MockPreferenceRepository)
			state, _ := preference.New("u1")
			repo.On("Load", mock.Anything, "u1").Return(state, nil)
			svc, _ := newService(t, repo, nil)

			_, err := svc.RecordFeedback(context.Background(), tt.cmd)

			assert.True(t, apperrors.Is(err, apperrors.CodeValidationFailed), err)
			repo.AssertNotCalled(t, "Save", mock.Anything, mock.Anything)
		})
	}
}

func TestPreferenceService_RecordFeedback_StoreFailure(t *testing.T) {
	repo := new(testutils.MockPreferenceRepository)
	repo.On("Load", mock.Anything, "u1").Return(nil, errors.New("disk full"))
	svc, _ := newService(t, repo, nil)

	_, err := svc.RecordFeedback(context.Background(), inbound.FeedbackCommand{UserID: "u1", Type: "swipe", RecipeID: "r1", Action: "like"})

	assert.True(t, apperrors.Is(err, apperrors.CodeDatabaseError), err)
}

func TestPreferenceService_ConcurrentFeedbackIsNotLost(t *testing.T) {
	repo := &memoryRepo{states: map[string]preference.Snapshot{}}
	svc, _ := newService(t, repo, nil)

	var wg sync.WaitGroup
	for i := 0; i < 20; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			_, err := svc.RecordFeedback(context.Background(), inbound.FeedbackCommand{
				UserID:   "u1",
				Type:     "swipe",
				RecipeID: string(rune('a' + i)),
				Action:   "like",
			})
			assert.NoError(t, err)
		}(i)
	}
	wg.Wait()

	dto, err := svc.GetPreferences(context.Background(), "u1")
	require.NoError(t, err)
	assert.Len(t, dto.Swipes, 20)
	assert.Equal(t, 20, dto.Version)
}
