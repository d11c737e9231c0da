package service

import (
	"context"
	"testing"
	"time"

	"gymnexus/coach-api/internal/domain"
	"gymnexus/coach-api/internal/repository"
	"gymnexus/coach-api/internal/repository/memory"
	"gymnexus/coach-api/internal/telemetry"

	"github.com/brianvoe/gofakeit/v6"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"
)

// TestMain will run goleak after all tests have been run in the package
// to detect any goroutine leaks
func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m)
}

const strongPassword = "Str0ng!Pass"

type fixture struct {
	users    repository.UserRepository
	workouts repository.WorkoutRepository
	metrics  *telemetry.Manager
	files    *fakeStorage

	auth       AuthService
	userSvc    UserService
	workoutSvc WorkoutService
	metricsSvc MetricsService
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	f := &fixture{
		users:    memory.NewUserRepository(),
		workouts: memory.NewWorkoutRepository(),
		metrics:  telemetry.NewTestManager(),
		files:    &fakeStorage{},
	}
	f.auth = NewAuthService(f.users, f.metrics, "test-secret", time.Hour)
	f.userSvc = NewUserService(f.users, f.workouts)
	f.workoutSvc = NewWorkoutService(f.workouts, f.users, f.files, f.metrics)
	f.metricsSvc = NewMetricsService(f.users, f.metrics)
	return f
}

func (f *fixture) coach(t *testing.T) *domain.User {
	t.Helper()
	coach, err := f.auth.RegisterCoach(context.Background(), RegisterInput{
		Email:    gofakeit.Email(),
		Password: strongPassword,
		Name:     gofakeit.FirstName(),
		LastName: gofakeit.LastName(),
	})
	require.NoError(t, err)
	return coach
}

func (f *fixture) athlete(t *testing.T, coach *domain.User, gender domain.Gender) *domain.User {
	t.Helper()
	athlete, err := f.userSvc.CreateAthlete(context.Background(), coach.ID, AthleteInput{
		Email:            gofakeit.Email(),
		Password:         strongPassword,
		Name:             gofakeit.FirstName(),
		LastName:         gofakeit.LastName(),
		Age:              gofakeit.Number(18, 60),
		BiologicalGender: gender,
	})
	require.NoError(t, err)
	return athlete
}

func upperBodyDay() DayInput {
	return DayInput{
		Day:   "Monday",
		Focus: "Upper Body",
		Exercises: []ExerciseInput{
			{Name: "Bench Press", Sets: "4", Reps: "8-10"},
			{Name: "Pull Up", Sets: "3", Reps: "AMRAP", Notes: "strict"},
		},
	}
}

func (f *fixture) workout(t *testing.T, coach *domain.User) *domain.Workout {
	t.Helper()
	w, err := f.workoutSvc.CreateWorkout(context.Background(), coach.ID, CreateWorkoutInput{
		Name: gofakeit.HipsterWord() + " block",
		Days: []DayInput{
			upperBodyDay(),
			{Day: "Wednesday", Focus: "Legs", Exercises: []ExerciseInput{{Name: "Squat", Sets: "5", Reps: "5"}}},
		},
	})
	require.NoError(t, err)
	return w
}

func ptr(v float64) *float64 { return &v }
