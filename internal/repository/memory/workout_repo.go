package memory

import (
	"context"
	"errors"
	"sync"
	"time"

	"gymnexus/coach-api/internal/domain"
	"gymnexus/coach-api/internal/repository"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

type workoutRepository struct {
	mu       sync.RWMutex
	workouts map[primitive.ObjectID]*domain.Workout
}

// NewWorkoutRepository returns an empty in-memory repository.WorkoutRepository.
func NewWorkoutRepository() repository.WorkoutRepository {
	return &workoutRepository{
		workouts: make(map[primitive.ObjectID]*domain.Workout),
	}
}

func (r *workoutRepository) Create(_ context.Context, workout *domain.Workout) (primitive.ObjectID, error) {
	if workout.CoachID == primitive.NilObjectID || workout.Name == "" {
		return primitive.NilObjectID, errors.New("workout requires coach and name")
	}
	workout.ID = primitive.NewObjectID()
	now := time.Now().UTC()
	workout.CreatedAt = now
	workout.UpdatedAt = now

	stored := &domain.Workout{}
	if err := clone(workout, stored); err != nil {
		return primitive.NilObjectID, err
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	r.workouts[workout.ID] = stored
	return workout.ID, nil
}

func (r *workoutRepository) GetByID(_ context.Context, id primitive.ObjectID) (*domain.Workout, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.get(id)
}

// get must be called with r.mu held.
func (r *workoutRepository) get(id primitive.ObjectID) (*domain.Workout, error) {
	stored, ok := r.workouts[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	out := &domain.Workout{}
	if err := clone(stored, out); err != nil {
		return nil, err
	}
	return out, nil
}

func (r *workoutRepository) GetByCoachID(_ context.Context, coachID primitive.ObjectID) ([]domain.Workout, error) {
	return r.filter(func(w *domain.Workout) bool { return w.CoachID == coachID })
}

func (r *workoutRepository) GetByAssignee(_ context.Context, athleteID primitive.ObjectID) ([]domain.Workout, error) {
	return r.filter(func(w *domain.Workout) bool { return w.IsAssignedTo(athleteID) })
}

func (r *workoutRepository) filter(match func(*domain.Workout) bool) ([]domain.Workout, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := []domain.Workout{}
	for _, id := range sortedIDs(r.workouts) {
		if !match(r.workouts[id]) {
			continue
		}
		w, err := r.get(id)
		if err != nil {
			return nil, err
		}
		out = append(out, *w)
	}
	return out, nil
}

func (r *workoutRepository) Update(_ context.Context, id primitive.ObjectID, mutate repository.WorkoutMutator) (*domain.Workout, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	working, err := r.get(id)
	if err != nil {
		return nil, err
	}
	if err := mutate(working); err != nil {
		return nil, err
	}
	working.ID = id
	working.UpdatedAt = time.Now().UTC()

	stored := &domain.Workout{}
	if err := clone(working, stored); err != nil {
		return nil, err
	}
	r.workouts[id] = stored
	return working, nil
}

func (r *workoutRepository) Delete(_ context.Context, id primitive.ObjectID) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.workouts[id]; !ok {
		return repository.ErrNotFound
	}
	delete(r.workouts, id)
	return nil
}
