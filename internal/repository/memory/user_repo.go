package memory

import (
	"context"
	"errors"
	"strings"
	"sync"
	"time"

	"gymnexus/coach-api/internal/domain"
	"gymnexus/coach-api/internal/repository"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

type userRepository struct {
	mu    sync.RWMutex
	users map[primitive.ObjectID]*domain.User
}

// NewUserRepository returns an empty in-memory repository.UserRepository.
// Emails are unique, compared case-insensitively like the Mongo collation-free
// unique index would for already normalized input.
func NewUserRepository() repository.UserRepository {
	return &userRepository{
		users: make(map[primitive.ObjectID]*domain.User),
	}
}

func (r *userRepository) Create(_ context.Context, user *domain.User) (primitive.ObjectID, error) {
	if user.Email == "" || user.PasswordHash == "" || user.Role == "" {
		return primitive.NilObjectID, errors.New("user email, password hash, and role are required")
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	if r.emailTaken(user.Email, primitive.NilObjectID) {
		return primitive.NilObjectID, repository.ErrDuplicateEmail
	}

	user.ID = primitive.NewObjectID()
	now := time.Now().UTC()
	user.CreatedAt = now
	user.UpdatedAt = now
	if user.Metrics == nil {
		user.Metrics = []domain.MetricRecord{}
	}

	stored := &domain.User{}
	if err := clone(user, stored); err != nil {
		return primitive.NilObjectID, err
	}
	r.users[user.ID] = stored
	return user.ID, nil
}

// emailTaken must be called with r.mu held.
func (r *userRepository) emailTaken(email string, except primitive.ObjectID) bool {
	for id, u := range r.users {
		if id != except && strings.EqualFold(u.Email, email) {
			return true
		}
	}
	return false
}

func (r *userRepository) GetByEmail(_ context.Context, email string) (*domain.User, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	for id, u := range r.users {
		if strings.EqualFold(u.Email, email) {
			return r.get(id)
		}
	}
	return nil, repository.ErrNotFound
}

func (r *userRepository) GetByID(_ context.Context, id primitive.ObjectID) (*domain.User, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.get(id)
}

// get must be called with r.mu held.
func (r *userRepository) get(id primitive.ObjectID) (*domain.User, error) {
	stored, ok := r.users[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	out := &domain.User{}
	if err := clone(stored, out); err != nil {
		return nil, err
	}
	return out, nil
}

// GetByAddedBy returns the coach's users, newest first.
func (r *userRepository) GetByAddedBy(_ context.Context, coachID primitive.ObjectID) ([]domain.User, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	ids := sortedIDs(r.users)
	out := []domain.User{}
	for i := len(ids) - 1; i >= 0; i-- {
		if !r.users[ids[i]].IsManagedBy(coachID) {
			continue
		}
		u, err := r.get(ids[i])
		if err != nil {
			return nil, err
		}
		out = append(out, *u)
	}
	return out, nil
}

func (r *userRepository) Update(_ context.Context, id primitive.ObjectID, mutate repository.UserMutator) (*domain.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	working, err := r.get(id)
	if err != nil {
		return nil, err
	}
	if err := mutate(working); err != nil {
		return nil, err
	}
	if r.emailTaken(working.Email, id) {
		return nil, repository.ErrDuplicateEmail
	}
	working.ID = id
	working.UpdatedAt = time.Now().UTC()

	stored := &domain.User{}
	if err := clone(working, stored); err != nil {
		return nil, err
	}
	r.users[id] = stored
	return working, nil
}

func (r *userRepository) Delete(_ context.Context, id primitive.ObjectID) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.users[id]; !ok {
		return repository.ErrNotFound
	}
	delete(r.users, id)
	return nil
}
