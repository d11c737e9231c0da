package service

import (
	"context"
	"testing"
	"time"

	"gymnexus/coach-api/internal/domain"

	"github.com/brianvoe/gofakeit/v6"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCreateAthleteAndList(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	coach := f.coach(t)

	first := f.athlete(t, coach, domain.GenderMale)
	second := f.athlete(t, coach, domain.GenderFemale)
	f.athlete(t, f.coach(t), domain.GenderMale)

	assert.Equal(t, domain.RoleAthlete, first.Role)
	require.NotNil(t, first.AddedBy)
	assert.Equal(t, coach.ID, *first.AddedBy)

	athletes, err := f.userSvc.ListAthletes(ctx, coach.ID)
	require.NoError(t, err)
	require.Len(t, athletes, 2)
	// newest first
	assert.Equal(t, second.ID, athletes[0].ID)
	assert.Equal(t, first.ID, athletes[1].ID)
	for _, a := range athletes {
		assert.Empty(t, a.PasswordHash)
	}
}

func TestCreateAthlete_Validation(t *testing.T) {
	f := newFixture(t)
	coach := f.coach(t)

	_, err := f.userSvc.CreateAthlete(context.Background(), coach.ID, AthleteInput{
		Email:            gofakeit.Email(),
		Password:         strongPassword,
		Age:              -1,
		BiologicalGender: "OTHER",
	})
	assert.ErrorIs(t, err, domain.ErrValidation)
}

func TestCreateAthlete_OnlyCoaches(t *testing.T) {
	f := newFixture(t)
	athlete := f.athlete(t, f.coach(t), domain.GenderMale)

	_, err := f.userSvc.CreateAthlete(context.Background(), athlete.ID, AthleteInput{
		Email:    gofakeit.Email(),
		Password: strongPassword,
	})
	assert.ErrorIs(t, err, domain.ErrForbidden)
}

func TestGetProfile_Access(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	coach, stranger := f.coach(t), f.coach(t)
	athlete := f.athlete(t, coach, domain.GenderMale)

	got, err := f.userSvc.GetProfile(ctx, athlete.ID, athlete.ID)
	require.NoError(t, err)
	assert.Equal(t, athlete.Email, got.Email)

	_, err = f.userSvc.GetProfile(ctx, coach.ID, athlete.ID)
	require.NoError(t, err)

	_, err = f.userSvc.GetProfile(ctx, stranger.ID, athlete.ID)
	assert.ErrorIs(t, err, domain.ErrForbidden)
}

func TestUpdateProfile_GenderRecomputesBodyFat(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	coach := f.coach(t)
	athlete := f.athlete(t, coach, domain.GenderUnset)

	record, err := f.metricsSvc.AddMetric(ctx, coach.ID, athlete.ID, MetricInput{
		Date:   time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC),
		Height: ptr(180),
		Weight: ptr(80),
		Neck:   ptr(38),
		Waist:  ptr(85),
	})
	require.NoError(t, err)
	assert.Nil(t, record.BodyFatPercentage, "body fat needs a gender")

	male := domain.GenderMale
	name := "Renamed"
	updated, err := f.userSvc.UpdateProfile(ctx, athlete.ID, athlete.ID, ProfileInput{Name: &name, BiologicalGender: &male})
	require.NoError(t, err)
	assert.Equal(t, "Renamed", updated.Name)
	assert.Equal(t, athlete.LastName, updated.LastName)
	require.Len(t, updated.Metrics, 1)
	require.NotNil(t, updated.Metrics[0].BodyFatPercentage)
	assert.InDelta(t, 16.1, *updated.Metrics[0].BodyFatPercentage, 0.05)
	assert.InDelta(t, 24.7, *updated.Metrics[0].IMC, 0.05)
}

func TestUpdateProfile_Invalid(t *testing.T) {
	f := newFixture(t)
	coach := f.coach(t)
	age := 200

	_, err := f.userSvc.UpdateProfile(context.Background(), coach.ID, coach.ID, ProfileInput{Age: &age})
	assert.ErrorIs(t, err, domain.ErrValidation)
}

func TestDeleteUser(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	coach, stranger := f.coach(t), f.coach(t)
	athlete := f.athlete(t, coach, domain.GenderFemale)
	w := f.workout(t, coach)
	_, err := f.workoutSvc.AssignWorkout(ctx, w.ID, athlete.ID)
	require.NoError(t, err)

	assert.ErrorIs(t, f.userSvc.DeleteUser(ctx, stranger.ID, athlete.ID), domain.ErrForbidden)

	require.NoError(t, f.userSvc.DeleteUser(ctx, coach.ID, athlete.ID))
	_, err = f.userSvc.GetProfile(ctx, coach.ID, athlete.ID)
	assert.ErrorIs(t, err, domain.ErrUserNotFound)

	stored, err := f.workoutSvc.GetByID(ctx, w.ID)
	require.NoError(t, err)
	assert.False(t, stored.IsAssignedTo(athlete.ID))

	assert.ErrorIs(t, f.userSvc.DeleteUser(ctx, coach.ID, athlete.ID), domain.ErrUserNotFound)
}
