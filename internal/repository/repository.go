package repository

import (
	"context"

	"gymnexus/coach-api/internal/domain" // Import our defined domain models

	"go.mongodb.org/mongo-driver/bson/primitive" // For using ObjectIDs
)

// Error constants for repository layer
var (
	ErrNotFound       = RepositoryError("not found")
	ErrDuplicateEmail = RepositoryError("user with this email already exists")
)

// RepositoryError helps distinguish repository errors
type RepositoryError string

func (e RepositoryError) Error() string {
	return string(e)
}

// UserMutator edits a user document in place. Returning an error aborts the
// update and nothing is written.
type UserMutator func(user *domain.User) error

// WorkoutMutator edits a workout document in place. Returning an error aborts
// the update and nothing is written.
type WorkoutMutator func(workout *domain.Workout) error

// UserRepository defines the interface for interacting with user data.
type UserRepository interface {
	Create(ctx context.Context, user *domain.User) (primitive.ObjectID, error)
	GetByEmail(ctx context.Context, email string) (*domain.User, error)
	GetByID(ctx context.Context, id primitive.ObjectID) (*domain.User, error)
	GetByAddedBy(ctx context.Context, coachID primitive.ObjectID) ([]domain.User, error)
	// Update loads the user, applies mutate and writes the result back.
	// Concurrent updates are last-write-wins.
	Update(ctx context.Context, id primitive.ObjectID, mutate UserMutator) (*domain.User, error)
	Delete(ctx context.Context, id primitive.ObjectID) error
}

// WorkoutRepository defines the interface for interacting with workout data.
type WorkoutRepository interface {
	Create(ctx context.Context, workout *domain.Workout) (primitive.ObjectID, error)
	GetByID(ctx context.Context, id primitive.ObjectID) (*domain.Workout, error)
	GetByCoachID(ctx context.Context, coachID primitive.ObjectID) ([]domain.Workout, error)
	GetByAssignee(ctx context.Context, athleteID primitive.ObjectID) ([]domain.Workout, error)
	// Update loads the workout, applies mutate and writes the result back.
	// Concurrent updates are last-write-wins.
	Update(ctx context.Context, id primitive.ObjectID, mutate WorkoutMutator) (*domain.Workout, error)
	Delete(ctx context.Context, id primitive.ObjectID) error
}
