package user

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"

	"github.com/robloxdeveloper2/Foodi-Backup-sub002/internal/domain/user"
	"github.com/robloxdeveloper2/Foodi-Backup-sub002/internal/ports/inbound"
	apperrors "github.com/robloxdeveloper2/Foodi-Backup-sub002/pkg/errors"
	"github.com/robloxdeveloper2/Foodi-Backup-sub002/test/testutils"
)

func TestProfileService_SaveProfile(t *testing.T) {
	// Arrange
	repo := new(testutils.MockUserProfileRepository)
	svc := NewProfileService(repo, zaptest.NewLogger(t))
	var saved *user.Profile
	repo.On("Save", mock.Anything, mock.AnythingOfType("*user.Profile")).
		Run(func(args mock.Arguments) { saved = args.Get(1).(*user.Profile) }).
		Return(nil)

	// Act
	dto, err := svc.SaveProfile(context.Background(), inbound.SaveProfileCommand{
		UserID:              " u1 ",
		DietaryRestrictions: []string{"Vegan", "vegan", "gluten_free"},
		Budget:              inbound.BudgetDTO{Amount: 70, Period: "weekly"},
		Goal:                "weight_loss",
		Biometrics:          &inbound.BiometricsDTO{WeightKG: 70, HeightCM: 175, Age: 30, Sex: "female", ActivityLevel: "light"},
		LikedCuisines:       []string{" Thai "},
		Servings:            2,
	})

	// Assert
	require.NoError(t, err)
	require.NotNil(t, saved)
	assert.Equal(t, "u1", saved.ID())
	assert.Equal(t, []string{"vegan", "gluten_free"}, dto.DietaryRestrictions)
	assert.Equal(t, "weight_loss", dto.Goal)
	assert.Equal(t, []string{"thai"}, dto.LikedCuisines)
	assert.Equal(t, 2, dto.Servings)
	require.NotNil(t, dto.Biometrics)
	assert.Equal(t, "female", dto.Biometrics.Sex)
	repo.AssertExpectations(t)
}

func TestProfileService_SaveProfile_Defaults(t *testing.T) {
	repo := new(testutils.MockUserProfileRepository)
	svc := NewProfileService(repo, zaptest.NewLogger(t))
	repo.On("Save", mock.Anything, mock.Anything).Return(nil)

	dto, err := svc.SaveProfile(context.Background(), inbound.SaveProfileCommand{UserID: "u1"})

	require.NoError(t, err)
	assert.Equal(t, string(user.GoalMaintenance), dto.Goal)
	assert.Equal(t, 1, dto.Servings)
	assert.Nil(t, dto.Biometrics)
}

func TestProfileService_SaveProfile_Invalid(t *testing.T) {
	tests := []struct {
		name string
		cmd  inbound.SaveProfileCommand
	}{
		{"missing id", inbound.SaveProfileCommand{}},
		{"unknown goal", inbound.SaveProfileCommand{UserID: "u1", Goal: "bulk"}},
		{"negative budget", inbound.SaveProfileCommand{UserID: "u1", Budget: inbound.BudgetDTO{Amount: -1}}},
		{"inverted meal range", inbound.SaveProfileCommand{UserID: "u1", Budget: inbound.BudgetDTO{PerMealMin: 9, PerMealMax: 3}}},
		{"negative servings", inbound.SaveProfileCommand{UserID: "u1", Servings: -2}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			repo := new(testutils.MockUserProfileRepository)
			svc := NewProfileService(repo, zaptest.NewLogger(t))

			_, err := svc.SaveProfile(context.Background(), tt.cmd)

			assert.True(t, apperrors.Is(err, apperrors.CodeValidationFailed), err)
			repo.AssertNotCalled(t, "Save", mock.Anything, mock.Anything)
		})
	}
}

func TestProfileService_GetProfile(t *testing.T) {
	repo := new(testutils.MockUserProfileRepository)
	svc := NewProfileService(repo, zaptest.NewLogger(t))
	profile := testutils.NewProfileBuilder("u1").
		WithRestrictions(user.DietaryRestrictionVegetarian).
		WithBudget(user.Budget{PerMealMin: 2, PerMealMax: 6}).
		Build(t)
	repo.On("FindByID", mock.Anything, "u1").Return(profile, nil)
	repo.On("FindByID", mock.Anything, "ghost").Return(nil, user.ErrProfileNotFound)
	repo.On("FindByID", mock.Anything, "broken").Return(nil, errors.New("disk on fire"))

	dto, err := svc.GetProfile(context.Background(), "u1")
	require.NoError(t, err)
	assert.Equal(t, []string{"vegetarian"}, dto.DietaryRestrictions)
	assert.Equal(t, 6.0, dto.Budget.PerMealMax)

	_, err = svc.GetProfile(context.Background(), "ghost")
	assert.True(t, apperrors.Is(err, apperrors.CodeUserNotFound), err)

	_, err = svc.GetProfile(context.Background(), "broken")
	assert.True(t, apperrors.Is(err, apperrors.CodeDatabaseError), err)

	_, err = svc.GetProfile(context.Background(), " ")
	assert.True(t, apperrors.Is(err, apperrors.CodeValidationFailed), err)
}
