// Package user provides the application layer for profile management.
// Profiles are the planner's input; this service only validates and stores them.
package user

import (
	"context"
	"errors"
	"strings"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"

	"github.com/robloxdeveloper2/Foodi-Backup-sub002/internal/domain/user"
	"github.com/robloxdeveloper2/Foodi-Backup-sub002/internal/ports/inbound"
	"github.com/robloxdeveloper2/Foodi-Backup-sub002/internal/ports/outbound"
	apperrors "github.com/robloxdeveloper2/Foodi-Backup-sub002/pkg/errors"
)

// ProfileService implements the profile use cases
type ProfileService struct {
	profiles outbound.UserProfileRepository
	tracer   trace.Tracer
	logger   *zap.Logger
}

// NewProfileService creates a new profile service
func NewProfileService(profiles outbound.UserProfileRepository, logger *zap.Logger) *ProfileService {
	return &ProfileService{
		profiles: profiles,
		tracer:   otel.Tracer("foodi/user"),
		logger:   logger.Named("profile-service"),
	}
}

var _ inbound.ProfileService = (*ProfileService)(nil)

// GetProfile returns the stored profile of a user
func (s *ProfileService) GetProfile(ctx context.Context, userID string) (*inbound.ProfileDTO, error) {
	ctx, span := s.tracer.Start(ctx, "user.GetProfile", trace.WithAttributes(attribute.String("user.id", userID)))
	defer span.End()

	if strings.TrimSpace(userID) == "" {
		return nil, s.fail(span, apperrors.NewValidationError("user_id is required"))
	}
	profile, err := s.profiles.FindByID(ctx, userID)
	if err != nil {
		if errors.Is(err, user.ErrProfileNotFound) {
			return nil, s.fail(span, apperrors.NewUserNotFoundError(userID))
		}
		return nil, s.fail(span, apperrors.NewDatabaseError("find user profile", err))
	}
	return toProfileDTO(profile), nil
}

// SaveProfile validates and stores a complete profile
func (s *ProfileService) SaveProfile(ctx context.Context, cmd inbound.SaveProfileCommand) (*inbound.ProfileDTO, error) {
	ctx, span := s.tracer.Start(ctx, "user.SaveProfile", trace.WithAttributes(attribute.String("user.id", cmd.UserID)))
	defer span.End()

	profile, err := user.NewProfile(toParams(cmd))
	if err != nil {
		return nil, s.fail(span, apperrors.NewValidationError(err.Error()))
	}
	if err := s.profiles.Save(ctx, profile); err != nil {
		return nil, s.fail(span, apperrors.NewDatabaseError("save user profile", err))
	}

	s.logger.Info("Profile saved",
		zap.String("user_id", profile.ID()),
		zap.String("goal", string(profile.Goal())),
		zap.Strings("restrictions", profile.RestrictionTags()),
		zap.Bool("budget", profile.Budget().IsSet()),
	)
	return toProfileDTO(profile), nil
}

func (s *ProfileService) fail(span trace.Span, err error) error {
	span.RecordError(err)
	span.SetStatus(codes.Error, err.Error())
	return err
}

func toParams(cmd inbound.SaveProfileCommand) user.ProfileParams {
	restrictions := make([]user.DietaryRestriction, len(cmd.DietaryRestrictions))
	for i, r := range cmd.DietaryRestrictions {
		restrictions[i] = user.DietaryRestriction(r)
	}
	p := user.ProfileParams{
		ID:                  strings.TrimSpace(cmd.UserID),
		DietaryRestrictions: restrictions,
		Budget: user.Budget{
			Amount:     cmd.Budget.Amount,
			Currency:   cmd.Budget.Currency,
			Period:     user.BudgetPeriod(cmd.Budget.Period),
			PerMealMin: cmd.Budget.PerMealMin,
			PerMealMax: cmd.Budget.PerMealMax,
		},
		Goal:                user.Goal(cmd.Goal),
		CookingLevel:        user.CookingLevel(cmd.CookingLevel),
		DailyCalories:       cmd.DailyCalories,
		LikedCuisines:       cmd.LikedCuisines,
		DislikedCuisines:    cmd.DislikedCuisines,
		LikedIngredients:    cmd.LikedIngredients,
		DislikedIngredients: cmd.DislikedIngredients,
		Servings:            cmd.Servings,
		IncludeSnacks:       cmd.IncludeSnacks,
	}
	if b := cmd.Biometrics; b != nil {
		p.Biometrics = &user.Biometrics{
			WeightKG:      b.WeightKG,
			HeightCM:      b.HeightCM,
			Age:           b.Age,
			Sex:           user.Sex(b.Sex),
			ActivityLevel: user.ActivityLevel(b.ActivityLevel),
		}
	}
	return p
}

func toProfileDTO(p *user.Profile) *inbound.ProfileDTO {
	b := p.Budget()
	dto := &inbound.ProfileDTO{
		UserID:              p.ID(),
		DietaryRestrictions: p.RestrictionTags(),
		Budget: inbound.BudgetDTO{
			Amount:     b.Amount,
			Currency:   b.Currency,
			Period:     string(b.Period),
			PerMealMin: b.PerMealMin,
			PerMealMax: b.PerMealMax,
		},
		Goal:                string(p.Goal()),
		CookingLevel:        string(p.CookingLevel()),
		DailyCalories:       p.DailyCalories(),
		LikedCuisines:       p.LikedCuisines(),
		DislikedCuisines:    p.DislikedCuisines(),
		LikedIngredients:    p.LikedIngredients(),
		DislikedIngredients: p.DislikedIngredients(),
		Servings:            p.Servings(),
		IncludeSnacks:       p.IncludeSnacks(),
	}
	if bio := p.Biometrics(); bio != nil {
		dto.Biometrics = &inbound.BiometricsDTO{
			WeightKG:      bio.WeightKG,
			HeightCM:      bio.HeightCM,
			Age:           bio.Age,
			Sex:           string(bio.Sex),
			ActivityLevel: string(bio.ActivityLevel),
		}
	}
	return dto
}
