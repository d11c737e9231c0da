package service

import (
	"context"
	"fmt"
	"strings"

	"gymnexus/coach-api/internal/domain"
	"gymnexus/coach-api/internal/repository"
	"gymnexus/coach-api/internal/storage"
	"gymnexus/coach-api/internal/telemetry"

	"github.com/google/uuid"
	log "github.com/sirupsen/logrus"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// ExerciseInput holds every editable field of an exercise.
type ExerciseInput struct {
	Name    string `json:"name"`
	Sets    string `json:"sets"`
	Reps    string `json:"reps"`
	Cadence string `json:"cadence"`
	Notes   string `json:"notes"`
	Video   string `json:"video"`
}

// DayInput describes a day and, optionally, its initial exercises.
type DayInput struct {
	Day       string          `json:"day"`
	Focus     string          `json:"focus"`
	Exercises []ExerciseInput `json:"exercises"`
}

type CreateWorkoutInput struct {
	Name            string               `json:"name"`
	AssignedTo      []primitive.ObjectID `json:"assignedTo"`
	AdditionalNotes string               `json:"additionalNotes"`
	Days            []DayInput           `json:"days"`
}

type WorkoutService interface {
	CreateWorkout(ctx context.Context, coachID primitive.ObjectID, in CreateWorkoutInput) (*domain.Workout, error)
	AddDay(ctx context.Context, workoutID primitive.ObjectID, in DayInput) (*domain.DayView, error)
	AddExercise(ctx context.Context, workoutID primitive.ObjectID, dayID string, in ExerciseInput) (*domain.Exercise, error)
	UpdateExercise(ctx context.Context, workoutID primitive.ObjectID, dayID, exerciseID string, in ExerciseInput) (*domain.Exercise, error)
	DeleteDay(ctx context.Context, workoutID primitive.ObjectID, dayID string) error
	DeleteExercise(ctx context.Context, workoutID primitive.ObjectID, dayID, exerciseID string) error
	DeleteWorkout(ctx context.Context, workoutID primitive.ObjectID) error

	// VerifyOwnership reports whether coachID owns the workout. It fails with
	// domain.ErrWorkoutNotFound when the workout does not exist.
	VerifyOwnership(ctx context.Context, workoutID, coachID primitive.ObjectID) (bool, error)

	AssignWorkout(ctx context.Context, workoutID, athleteID primitive.ObjectID) (*domain.Workout, error)
	UnassignWorkout(ctx context.Context, workoutID, athleteID primitive.ObjectID) (*domain.Workout, error)
	ListAssignedTo(ctx context.Context, athleteID primitive.ObjectID) ([]domain.Workout, error)
	// ListByCoach returns the coach's workouts, optionally only those in status.
	ListByCoach(ctx context.Context, coachID primitive.ObjectID, status domain.WorkoutStatus) ([]domain.Workout, error)
	GetByID(ctx context.Context, workoutID primitive.ObjectID) (*domain.Workout, error)
	SetStatus(ctx context.Context, workoutID primitive.ObjectID, status domain.WorkoutStatus) (*domain.Workout, error)
}

type workoutService struct {
	workoutRepo repository.WorkoutRepository
	userRepo    repository.UserRepository
	files       storage.FileStorage // nil when no bucket is configured
	metrics     *telemetry.Manager
}

// NewWorkoutService builds the workout store. files may be nil; uploaded
// videos of removed exercises are then left in place.
func NewWorkoutService(workoutRepo repository.WorkoutRepository, userRepo repository.UserRepository, files storage.FileStorage, metrics *telemetry.Manager) WorkoutService {
	return &workoutService{
		workoutRepo: workoutRepo,
		userRepo:    userRepo,
		files:       files,
		metrics:     metrics,
	}
}

const videoKeyMessage = "must be an external link, uploads go through the video-upload-url endpoint"

func validateExerciseFields(v *validator, prefix string, in ExerciseInput) {
	v.required(prefix+"name", in.Name)
	v.required(prefix+"sets", in.Sets)
	v.required(prefix+"reps", in.Reps)
}

func validateExercise(v *validator, prefix string, in ExerciseInput) {
	validateExerciseFields(v, prefix, in)
	if storage.IsObjectKey(in.Video) {
		v.add(prefix+"video", videoKeyMessage)
	}
}

func validateDay(v *validator, prefix string, in DayInput) {
	v.required(prefix+"day", in.Day)
	v.required(prefix+"focus", in.Focus)
	for i, ex := range in.Exercises {
		validateExercise(v, fmt.Sprintf("%sexercises[%d].", prefix, i), ex)
	}
}

func newExercise(in ExerciseInput) domain.Exercise {
	return domain.Exercise{
		ID:      uuid.NewString(),
		Name:    strings.TrimSpace(in.Name),
		Sets:    strings.TrimSpace(in.Sets),
		Reps:    strings.TrimSpace(in.Reps),
		Cadence: in.Cadence,
		Notes:   in.Notes,
		Video:   in.Video,
	}
}

// appendDay adds a validated day and its exercises to w.
func appendDay(w *domain.Workout, in DayInput) (domain.Day, error) {
	day := w.AppendDay(domain.Day{
		ID:    uuid.NewString(),
		Day:   strings.TrimSpace(in.Day),
		Focus: strings.TrimSpace(in.Focus),
	})
	for _, ex := range in.Exercises {
		if _, err := w.AppendExercise(day.ID, newExercise(ex)); err != nil {
			return domain.Day{}, err
		}
	}
	return day, nil
}

// CreateWorkout validates the whole document and stores it. A workout needs
// at least one day; every problem is reported together.
func (s *workoutService) CreateWorkout(ctx context.Context, coachID primitive.ObjectID, in CreateWorkoutInput) (*domain.Workout, error) {
	v := &validator{}
	v.required("name", in.Name)
	if len(in.Days) == 0 {
		v.add("days", "at least one day is required")
	}
	for i, day := range in.Days {
		validateDay(v, fmt.Sprintf("days[%d].", i), day)
	}
	seen := make(map[primitive.ObjectID]bool, len(in.AssignedTo))
	for i, id := range in.AssignedTo {
		if seen[id] {
			v.add(fmt.Sprintf("assignedTo[%d]", i), "duplicate athlete")
		}
		seen[id] = true
	}
	if err := v.Err(); err != nil {
		return nil, err
	}

	for _, athleteID := range in.AssignedTo {
		if err := s.checkAssignable(ctx, coachID, athleteID); err != nil {
			return nil, err
		}
	}

	workout := &domain.Workout{
		Name:            strings.TrimSpace(in.Name),
		CoachID:         coachID,
		AssignedTo:      append([]primitive.ObjectID{}, in.AssignedTo...),
		AdditionalNotes: in.AdditionalNotes,
		Status:          domain.WorkoutStatusActive,
	}
	for _, day := range in.Days {
		if _, err := appendDay(workout, day); err != nil {
			return nil, err
		}
	}

	if _, err := s.workoutRepo.Create(ctx, workout); err != nil {
		return nil, err
	}
	s.metrics.CounterWorkouts.WithLabelValues(telemetry.ActionCreate).Inc()
	log.Debugf("coach %s created workout %s with %d days", coachID.Hex(), workout.ID.Hex(), len(workout.DayOrder))
	return workout, nil
}

// checkAssignable makes sure athleteID is an athlete added by coachID.
func (s *workoutService) checkAssignable(ctx context.Context, coachID, athleteID primitive.ObjectID) error {
	athlete, err := s.userRepo.GetByID(ctx, athleteID)
	if err != nil {
		return userErr(err)
	}
	if !athlete.IsAthlete() || !athlete.IsManagedBy(coachID) {
		return domain.ErrForbidden
	}
	return nil
}

// update runs mutate against the stored workout and counts the change.
func (s *workoutService) update(ctx context.Context, workoutID primitive.ObjectID, mutate repository.WorkoutMutator) (*domain.Workout, error) {
	w, err := s.workoutRepo.Update(ctx, workoutID, mutate)
	if err != nil {
		return nil, workoutErr(err)
	}
	s.metrics.CounterWorkouts.WithLabelValues(telemetry.ActionUpdate).Inc()
	return w, nil
}

func (s *workoutService) AddDay(ctx context.Context, workoutID primitive.ObjectID, in DayInput) (*domain.DayView, error) {
	v := &validator{}
	validateDay(v, "", in)
	if err := v.Err(); err != nil {
		return nil, err
	}

	var dayID string
	w, err := s.update(ctx, workoutID, func(w *domain.Workout) error {
		day, err := appendDay(w, in)
		dayID = day.ID
		return err
	})
	if err != nil {
		return nil, err
	}
	view, _ := w.DayView(dayID)
	return &view, nil
}

func (s *workoutService) AddExercise(ctx context.Context, workoutID primitive.ObjectID, dayID string, in ExerciseInput) (*domain.Exercise, error) {
	v := &validator{}
	validateExercise(v, "", in)
	if err := v.Err(); err != nil {
		return nil, err
	}

	var added domain.Exercise
	_, err := s.update(ctx, workoutID, func(w *domain.Workout) error {
		var err error
		added, err = w.AppendExercise(dayID, newExercise(in))
		return err
	})
	if err != nil {
		return nil, err
	}
	return &added, nil
}

// UpdateExercise overwrites every editable field, so optional fields left
// empty in the input are cleared. The video field may keep the exercise's
// own uploaded key but cannot point at any other stored object.
func (s *workoutService) UpdateExercise(ctx context.Context, workoutID primitive.ObjectID, dayID, exerciseID string, in ExerciseInput) (*domain.Exercise, error) {
	v := &validator{}
	validateExerciseFields(v, "", in)
	if err := v.Err(); err != nil {
		return nil, err
	}

	var updated domain.Exercise
	var replaced string
	_, err := s.update(ctx, workoutID, func(w *domain.Workout) error {
		current := w.Exercises[exerciseID].Video
		if storage.IsObjectKey(in.Video) && in.Video != current {
			return domain.NewValidationError("video", videoKeyMessage)
		}
		var err error
		updated, err = w.ReplaceExercise(dayID, exerciseID, newExercise(in))
		if err != nil {
			return err
		}
		if current != updated.Video {
			replaced = current
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	deleteVideoObjects(ctx, s.files, workoutID, replaced)
	return &updated, nil
}

// DeleteDay removes a day with all of its exercises. Deleting a missing day
// fails with domain.ErrDayNotFound.
func (s *workoutService) DeleteDay(ctx context.Context, workoutID primitive.ObjectID, dayID string) error {
	var videos []string
	_, err := s.update(ctx, workoutID, func(w *domain.Workout) error {
		videos = videos[:0]
		if day, ok := w.Days[dayID]; ok {
			for _, exID := range day.ExerciseOrder {
				videos = append(videos, w.Exercises[exID].Video)
			}
		}
		return w.RemoveDay(dayID)
	})
	if err != nil {
		return err
	}
	deleteVideoObjects(ctx, s.files, workoutID, videos...)
	return nil
}

func (s *workoutService) DeleteExercise(ctx context.Context, workoutID primitive.ObjectID, dayID, exerciseID string) error {
	var video string
	_, err := s.update(ctx, workoutID, func(w *domain.Workout) error {
		video = w.Exercises[exerciseID].Video
		return w.RemoveExercise(dayID, exerciseID)
	})
	if err != nil {
		return err
	}
	deleteVideoObjects(ctx, s.files, workoutID, video)
	return nil
}

func (s *workoutService) DeleteWorkout(ctx context.Context, workoutID primitive.ObjectID) error {
	w, err := s.workoutRepo.GetByID(ctx, workoutID)
	if err != nil {
		return workoutErr(err)
	}
	if err := s.workoutRepo.Delete(ctx, workoutID); err != nil {
		return workoutErr(err)
	}
	s.metrics.CounterWorkouts.WithLabelValues(telemetry.ActionDelete).Inc()

	videos := make([]string, 0, len(w.Exercises))
	for _, ex := range w.Exercises {
		videos = append(videos, ex.Video)
	}
	deleteVideoObjects(ctx, s.files, workoutID, videos...)
	return nil
}

func (s *workoutService) VerifyOwnership(ctx context.Context, workoutID, coachID primitive.ObjectID) (bool, error) {
	w, err := s.workoutRepo.GetByID(ctx, workoutID)
	if err != nil {
		return false, workoutErr(err)
	}
	return w.CoachID == coachID, nil
}

// AssignWorkout gives athleteID access to the workout. The athlete must have
// been added by the workout's coach. Assigning twice fails with
// domain.ErrDuplicateAssignment.
func (s *workoutService) AssignWorkout(ctx context.Context, workoutID, athleteID primitive.ObjectID) (*domain.Workout, error) {
	current, err := s.workoutRepo.GetByID(ctx, workoutID)
	if err != nil {
		return nil, workoutErr(err)
	}
	if err := s.checkAssignable(ctx, current.CoachID, athleteID); err != nil {
		return nil, err
	}

	w, err := s.workoutRepo.Update(ctx, workoutID, func(w *domain.Workout) error {
		return w.Assign(athleteID)
	})
	if err != nil {
		return nil, workoutErr(err)
	}
	s.metrics.CounterAssignments.WithLabelValues(telemetry.ActionAssign).Inc()
	return w, nil
}

// UnassignWorkout removes athleteID from the workout. It is a no-op when the
// athlete was not assigned.
func (s *workoutService) UnassignWorkout(ctx context.Context, workoutID, athleteID primitive.ObjectID) (*domain.Workout, error) {
	var removed bool
	w, err := s.workoutRepo.Update(ctx, workoutID, func(w *domain.Workout) error {
		removed = w.Unassign(athleteID)
		return nil
	})
	if err != nil {
		return nil, workoutErr(err)
	}
	if removed {
		s.metrics.CounterAssignments.WithLabelValues(telemetry.ActionUnassign).Inc()
	}
	return w, nil
}

func (s *workoutService) ListAssignedTo(ctx context.Context, athleteID primitive.ObjectID) ([]domain.Workout, error) {
	return s.workoutRepo.GetByAssignee(ctx, athleteID)
}

func (s *workoutService) ListByCoach(ctx context.Context, coachID primitive.ObjectID, status domain.WorkoutStatus) ([]domain.Workout, error) {
	if status != "" && !status.Valid() {
		return nil, domain.NewValidationError("status", "must be ACTIVE or ARCHIVED")
	}
	workouts, err := s.workoutRepo.GetByCoachID(ctx, coachID)
	if err != nil {
		return nil, err
	}
	if status == "" {
		return workouts, nil
	}
	filtered := workouts[:0]
	for _, w := range workouts {
		current := w.Status
		if current == "" {
			// documents written before the status field existed
			current = domain.WorkoutStatusActive
		}
		if current == status {
			filtered = append(filtered, w)
		}
	}
	return filtered, nil
}

func (s *workoutService) GetByID(ctx context.Context, workoutID primitive.ObjectID) (*domain.Workout, error) {
	w, err := s.workoutRepo.GetByID(ctx, workoutID)
	if err != nil {
		return nil, workoutErr(err)
	}
	return w, nil
}

func (s *workoutService) SetStatus(ctx context.Context, workoutID primitive.ObjectID, status domain.WorkoutStatus) (*domain.Workout, error) {
	if !status.Valid() {
		return nil, domain.NewValidationError("status", "must be ACTIVE or ARCHIVED")
	}
	return s.update(ctx, workoutID, func(w *domain.Workout) error {
		w.Status = status
		return nil
	})
}
