// Package preference provides the application layer for preference learning
package preference

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"

	"github.com/robloxdeveloper2/Foodi-Backup-sub002/internal/application/keylock"
	"github.com/robloxdeveloper2/Foodi-Backup-sub002/internal/domain/preference"
	"github.com/robloxdeveloper2/Foodi-Backup-sub002/internal/ports/inbound"
	"github.com/robloxdeveloper2/Foodi-Backup-sub002/internal/ports/outbound"
	apperrors "github.com/robloxdeveloper2/Foodi-Backup-sub002/pkg/errors"
)

const cacheKeyPrefix = "preferences:"

// FeedbackRecorder applies a feedback event to a state
type FeedbackRecorder interface {
	RecordFeedback(state *preference.State, event preference.Event, at time.Time) (*preference.State, error)
}

// Metrics receives feedback counters
type Metrics interface {
	FeedbackRecorded(eventType string)
	CacheOperation(operation, cacheType, status string)
}

// PreferenceService implements the feedback use cases. Writes for one user
// are serialized so concurrent feedback is never lost.
type PreferenceService struct {
	repo     outbound.PreferenceRepository
	cache    outbound.CacheRepository
	cacheTTL time.Duration
	recorder FeedbackRecorder
	metrics  Metrics

	locks  *keylock.Map
	tracer trace.Tracer
	now    func() time.Time
	logger *zap.Logger
}

// NewPreferenceService creates a new preference service. cache may be nil.
func NewPreferenceService(
	repo outbound.PreferenceRepository,
	cache outbound.CacheRepository,
	cacheTTL time.Duration,
	recorder FeedbackRecorder,
	metrics Metrics,
	logger *zap.Logger,
) *PreferenceService {
	return &PreferenceService{
		repo:     repo,
		cache:    cache,
		cacheTTL: cacheTTL,
		recorder: recorder,
		metrics:  metrics,
		locks:    keylock.New(),
		tracer:   otel.Tracer("foodi/preference"),
		now:      time.Now,
		logger:   logger.Named("preference-service"),
	}
}

var _ inbound.PreferenceService = (*PreferenceService)(nil)

// Load returns the user's current state, read through the cache
func (s *PreferenceService) Load(ctx context.Context, userID string) (*preference.State, error) {
	if state, ok := s.cached(ctx, userID); ok {
		return state, nil
	}
	state, err := s.repo.Load(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("load preferences: %w", err)
	}
	s.store(ctx, state)
	return state, nil
}

// GetPreferences returns the learned state of a user
func (s *PreferenceService) GetPreferences(ctx context.Context, userID string) (*inbound.PreferencesDTO, error) {
	ctx, span := s.tracer.Start(ctx, "preference.GetPreferences", trace.WithAttributes(attribute.String("user.id", userID)))
	defer span.End()

	if strings.TrimSpace(userID) == "" {
		return nil, s.fail(span, apperrors.NewValidationError("user_id is required"))
	}
	state, err := s.Load(ctx, userID)
	if err != nil {
		return nil, s.fail(span, apperrors.NewDatabaseError("load preferences", err))
	}
	return toDTO(state), nil
}

// RecordFeedback applies one event and persists the new state
func (s *PreferenceService) RecordFeedback(ctx context.Context, cmd inbound.FeedbackCommand) (*inbound.PreferencesDTO, error) {
	ctx, span := s.tracer.Start(ctx, "preference.RecordFeedback", trace.WithAttributes(
		attribute.String("user.id", cmd.UserID),
		attribute.String("feedback.type", cmd.Type),
	))
	defer span.End()

	if strings.TrimSpace(cmd.UserID) == "" {
		return nil, s.fail(span, apperrors.NewValidationError("user_id is required"))
	}
	event, err := toEvent(cmd)
	if err != nil {
		return nil, s.fail(span, apperrors.NewValidationError(err.Error()).WithCause(err))
	}

	unlock := s.locks.Lock(cmd.UserID)
	defer unlock()

	// Writes read the store directly so a stale cache entry cannot win
	state, err := s.repo.Load(ctx, cmd.UserID)
	if err != nil {
		return nil, s.fail(span, apperrors.NewDatabaseError("load preferences", err))
	}
	next, err := s.recorder.RecordFeedback(state, event, s.now())
	if err != nil {
		return nil, s.fail(span, apperrors.NewValidationError(err.Error()).WithCause(err))
	}
	if err := s.repo.Save(ctx, next); err != nil {
		return nil, s.fail(span, apperrors.NewDatabaseError("save preferences", err))
	}
	s.store(ctx, next)
	if s.metrics != nil {
		s.metrics.FeedbackRecorded(string(event.Type()))
	}

	s.logger.Debug("Feedback recorded",
		zap.String("user_id", cmd.UserID),
		zap.String("type", string(event.Type())),
		zap.Int("version", next.Version()),
	)
	return toDTO(next), nil
}

func (s *PreferenceService) cached(ctx context.Context, userID string) (*preference.State, bool) {
	if s.cache == nil {
		return nil, false
	}
	data, err := s.cache.Get(ctx, cacheKeyPrefix+userID)
	if err != nil || data == nil {
		s.cacheMetric("get", "miss")
		return nil, false
	}
	var snap preference.Snapshot
	if err := json.Unmarshal(data, &snap); err != nil {
		s.logger.Warn("Dropping unreadable cached preferences", zap.String("user_id", userID), zap.Error(err))
		_ = s.cache.Delete(ctx, cacheKeyPrefix+userID)
		return nil, false
	}
	state, err := preference.Restore(snap)
	if err != nil {
		return nil, false
	}
	s.cacheMetric("get", "hit")
	return state, true
}

func (s *PreferenceService) store(ctx context.Context, state *preference.State) {
	if s.cache == nil {
		return
	}
	data, err := json.Marshal(state.Snapshot())
	if err != nil {
		return
	}
	if err := s.cache.Set(ctx, cacheKeyPrefix+state.UserID(), data, s.cacheTTL); err != nil {
		s.logger.Warn("Failed to cache preferences", zap.String("user_id", state.UserID()), zap.Error(err))
		s.cacheMetric("set", "error")
		return
	}
	s.cacheMetric("set", "ok")
}

func (s *PreferenceService) cacheMetric(op, status string) {
	if s.metrics != nil {
		s.metrics.CacheOperation(op, "preferences", status)
	}
}

func (s *PreferenceService) fail(span trace.Span, err error) error {
	span.RecordError(err)
	span.SetStatus(codes.Error, err.Error())
	return err
}

func toEvent(cmd inbound.FeedbackCommand) (preference.Event, error) {
	switch preference.EventType(strings.ToLower(cmd.Type)) {
	case preference.EventTypeSwipe:
		return preference.SwipeEvent{RecipeID: cmd.RecipeID, Action: preference.SwipeAction(strings.ToLower(cmd.Action))}, nil
	case preference.EventTypeRating:
		return preference.RatingEvent{RecipeID: cmd.RecipeID, Stars: cmd.Stars}, nil
	case preference.EventTypeIngredient:
		return preference.IngredientEvent{Ingredient: cmd.Ingredient, Liked: cmd.Liked}, nil
	case preference.EventTypeCuisine:
		return preference.CuisineEvent{Cuisine: cmd.Cuisine, Score: cmd.Score}, nil
	case preference.EventTypePrepTime:
		return preference.PrepTimeEvent{Bucket: preference.PrepTimeBucket(strings.ToLower(cmd.Bucket))}, nil
	default:
		return nil, errors.Join(preference.ErrUnknownEvent, fmt.Errorf("type %q", cmd.Type))
	}
}

func toDTO(s *preference.State) *inbound.PreferencesDTO {
	snap := s.Snapshot()
	dto := &inbound.PreferencesDTO{
		UserID:      snap.UserID,
		Swipes:      snap.Swipes,
		Ratings:     snap.Ratings,
		Ingredients: snap.Ingredients,
		Cuisines:    snap.Cuisines,
		PrepTime:    string(snap.PrepTime),
		Version:     snap.Version,
	}
	if !snap.UpdatedAt.IsZero() {
		dto.UpdatedAt = snap.UpdatedAt.Format(time.RFC3339)
	}
	return dto
}
