package service

import (
	"context"
	"errors"
	"time"

	"gymnexus/coach-api/internal/bodymetrics"
	"gymnexus/coach-api/internal/domain"
	"gymnexus/coach-api/internal/repository"

	log "github.com/sirupsen/logrus"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// AthleteInput is what a coach fills in to create an athlete account.
type AthleteInput struct {
	Email            string        `json:"email"`
	Password         string        `json:"password"`
	Name             string        `json:"name"`
	LastName         string        `json:"lastName"`
	Age              int           `json:"age"`
	BiologicalGender domain.Gender `json:"biologicalGender"`
}

// ProfileInput is a partial profile update; nil fields are left unchanged.
type ProfileInput struct {
	Name             *string        `json:"name"`
	LastName         *string        `json:"lastName"`
	Age              *int           `json:"age"`
	BiologicalGender *domain.Gender `json:"biologicalGender"`
}

type UserService interface {
	CreateAthlete(ctx context.Context, coachID primitive.ObjectID, in AthleteInput) (*domain.User, error)
	ListAthletes(ctx context.Context, coachID primitive.ObjectID) ([]domain.User, error)
	GetProfile(ctx context.Context, requesterID, userID primitive.ObjectID) (*domain.User, error)
	UpdateProfile(ctx context.Context, requesterID, userID primitive.ObjectID, in ProfileInput) (*domain.User, error)
	DeleteUser(ctx context.Context, requesterID, userID primitive.ObjectID) error
}

type userService struct {
	userRepo    repository.UserRepository
	workoutRepo repository.WorkoutRepository
}

func NewUserService(userRepo repository.UserRepository, workoutRepo repository.WorkoutRepository) UserService {
	return &userService{
		userRepo:    userRepo,
		workoutRepo: workoutRepo,
	}
}

func validateAge(v *validator, age int) {
	if age < 0 || age > 120 {
		v.add("age", "must be between 0 and 120")
	}
}

func validateGender(v *validator, g domain.Gender) {
	if !g.Valid() {
		v.add("biologicalGender", "must be MALE or FEMALE")
	}
}

// CreateAthlete creates an athlete account owned by coachID.
func (s *userService) CreateAthlete(ctx context.Context, coachID primitive.ObjectID, in AthleteInput) (*domain.User, error) {
	v := &validator{}
	v.required("email", in.Email)
	v.merge(validatePassword("password", in.Password))
	validateAge(v, in.Age)
	validateGender(v, in.BiologicalGender)
	if err := v.Err(); err != nil {
		return nil, err
	}

	coach, err := s.userRepo.GetByID(ctx, coachID)
	if err != nil {
		return nil, userErr(err)
	}
	if !coach.IsCoach() {
		return nil, domain.ErrForbidden
	}

	hash, err := hashPassword(in.Password)
	if err != nil {
		return nil, err
	}

	athlete := &domain.User{
		Email:            normalizeEmail(in.Email),
		Role:             domain.RoleAthlete,
		Name:             in.Name,
		LastName:         in.LastName,
		Age:              in.Age,
		BiologicalGender: in.BiologicalGender,
		AddedBy:          &coachID,
	}
	athlete.RecordPassword(hash, time.Now().UTC())

	if _, err := s.userRepo.Create(ctx, athlete); err != nil {
		return nil, userErr(err)
	}
	log.Infof("coach %s added athlete %s", coachID.Hex(), athlete.ID.Hex())

	athlete.PasswordHash = ""
	return athlete, nil
}

// ListAthletes returns the users added by coachID, newest first.
func (s *userService) ListAthletes(ctx context.Context, coachID primitive.ObjectID) ([]domain.User, error) {
	athletes, err := s.userRepo.GetByAddedBy(ctx, coachID)
	if err != nil {
		return nil, err
	}
	for i := range athletes {
		athletes[i].PasswordHash = ""
	}
	return athletes, nil
}

// loadAccessible fetches userID and checks requesterID may act on it.
func loadAccessible(ctx context.Context, repo repository.UserRepository, requesterID, userID primitive.ObjectID) (*domain.User, error) {
	user, err := repo.GetByID(ctx, userID)
	if err != nil {
		return nil, userErr(err)
	}
	if !user.CanBeAccessedBy(requesterID) {
		return nil, domain.ErrForbidden
	}
	return user, nil
}

func (s *userService) GetProfile(ctx context.Context, requesterID, userID primitive.ObjectID) (*domain.User, error) {
	user, err := loadAccessible(ctx, s.userRepo, requesterID, userID)
	if err != nil {
		return nil, err
	}
	user.PasswordHash = ""
	return user, nil
}

// UpdateProfile applies the non-nil fields of in. A gender change recomputes
// the derived body fat values of the stored metrics.
func (s *userService) UpdateProfile(ctx context.Context, requesterID, userID primitive.ObjectID, in ProfileInput) (*domain.User, error) {
	v := &validator{}
	if in.Age != nil {
		validateAge(v, *in.Age)
	}
	if in.BiologicalGender != nil {
		validateGender(v, *in.BiologicalGender)
	}
	if err := v.Err(); err != nil {
		return nil, err
	}

	if _, err := loadAccessible(ctx, s.userRepo, requesterID, userID); err != nil {
		return nil, err
	}

	user, err := s.userRepo.Update(ctx, userID, func(u *domain.User) error {
		if in.Name != nil {
			u.Name = *in.Name
		}
		if in.LastName != nil {
			u.LastName = *in.LastName
		}
		if in.Age != nil {
			u.Age = *in.Age
		}
		if in.BiologicalGender != nil && *in.BiologicalGender != u.BiologicalGender {
			u.BiologicalGender = *in.BiologicalGender
			for i := range u.Metrics {
				u.Metrics[i] = bodymetrics.Derive(u.Metrics[i], u.BiologicalGender)
			}
		}
		return nil
	})
	if err != nil {
		return nil, userErr(err)
	}
	user.PasswordHash = ""
	return user, nil
}

// DeleteUser removes an account. Only the user or the coach that added them
// may do this. A deleted athlete is also removed from every workout.
func (s *userService) DeleteUser(ctx context.Context, requesterID, userID primitive.ObjectID) error {
	user, err := loadAccessible(ctx, s.userRepo, requesterID, userID)
	if err != nil {
		return err
	}

	if err := s.userRepo.Delete(ctx, userID); err != nil {
		return userErr(err)
	}

	if user.IsAthlete() {
		s.unassignEverywhere(ctx, userID)
	}
	log.Infof("user %s deleted by %s", userID.Hex(), requesterID.Hex())
	return nil
}

func (s *userService) unassignEverywhere(ctx context.Context, athleteID primitive.ObjectID) {
	workouts, err := s.workoutRepo.GetByAssignee(ctx, athleteID)
	if err != nil {
		log.Errorf("list workouts of deleted athlete %s: %s", athleteID.Hex(), err)
		return
	}
	for _, w := range workouts {
		_, err := s.workoutRepo.Update(ctx, w.ID, func(doc *domain.Workout) error {
			doc.Unassign(athleteID)
			return nil
		})
		if err != nil && !errors.Is(err, repository.ErrNotFound) {
			log.Errorf("unassign deleted athlete %s from workout %s: %s", athleteID.Hex(), w.ID.Hex(), err)
		}
	}
}
