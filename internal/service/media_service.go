package service

import (
	"context"
	"strings"
	"time"

	"gymnexus/coach-api/internal/domain"
	"gymnexus/coach-api/internal/repository"
	"gymnexus/coach-api/internal/storage"

	log "github.com/sirupsen/logrus"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// VideoUpload tells the client where to PUT the file and which key to store.
type VideoUpload struct {
	UploadURL string    `json:"uploadUrl"`
	ObjectKey string    `json:"objectKey"`
	ExpiresAt time.Time `json:"expiresAt"`
}

type MediaService interface {
	// ExerciseVideoUploadURL presigns an upload for a new exercise video and
	// records its object key in the exercise's video field.
	ExerciseVideoUploadURL(ctx context.Context, workoutID primitive.ObjectID, dayID, exerciseID, contentType string) (*VideoUpload, error)
	// ExerciseVideoURL returns a link to watch the exercise video. External
	// URLs are returned as they are; uploaded videos get a presigned link.
	ExerciseVideoURL(ctx context.Context, workoutID primitive.ObjectID, dayID, exerciseID string) (string, error)
	// RemoveExerciseVideo clears the video field and deletes an uploaded object.
	RemoveExerciseVideo(ctx context.Context, workoutID primitive.ObjectID, dayID, exerciseID string) error
}

type mediaService struct {
	workoutRepo repository.WorkoutRepository
	files       storage.FileStorage // nil when no bucket is configured
	expiry      time.Duration
}

func NewMediaService(workoutRepo repository.WorkoutRepository, files storage.FileStorage, expiry time.Duration) MediaService {
	if expiry <= 0 {
		expiry = storage.DefaultPresignedURLExpiry
	}
	return &mediaService{
		workoutRepo: workoutRepo,
		files:       files,
		expiry:      expiry,
	}
}

func findExercise(w *domain.Workout, dayID, exerciseID string) (domain.Exercise, error) {
	if _, ok := w.Day(dayID); !ok {
		return domain.Exercise{}, domain.ErrDayNotFound
	}
	ex, ok := w.Exercises[exerciseID]
	if !ok || ex.DayID != dayID {
		return domain.Exercise{}, domain.ErrExerciseNotFound
	}
	return ex, nil
}

func (s *mediaService) ExerciseVideoUploadURL(ctx context.Context, workoutID primitive.ObjectID, dayID, exerciseID, contentType string) (*VideoUpload, error) {
	if !strings.HasPrefix(contentType, "video/") || len(contentType) == len("video/") {
		return nil, domain.NewValidationError("contentType", "must be a video/* MIME type")
	}
	if s.files == nil {
		return nil, ErrMediaUnavailable
	}

	w, err := s.workoutRepo.GetByID(ctx, workoutID)
	if err != nil {
		return nil, workoutErr(err)
	}
	previous, err := findExercise(w, dayID, exerciseID)
	if err != nil {
		return nil, err
	}

	key := storage.ExerciseVideoKey(workoutID.Hex(), exerciseID)
	uploadURL, err := s.files.GeneratePresignedUploadURL(ctx, key, contentType, s.expiry)
	if err != nil {
		return nil, err
	}

	_, err = s.workoutRepo.Update(ctx, workoutID, func(w *domain.Workout) error {
		ex, err := findExercise(w, dayID, exerciseID)
		if err != nil {
			return err
		}
		ex.Video = key
		w.Exercises[exerciseID] = ex
		return nil
	})
	if err != nil {
		return nil, workoutErr(err)
	}
	deleteVideoObjects(ctx, s.files, workoutID, previous.Video)

	return &VideoUpload{
		UploadURL: uploadURL,
		ObjectKey: key,
		ExpiresAt: time.Now().UTC().Add(s.expiry),
	}, nil
}

func (s *mediaService) ExerciseVideoURL(ctx context.Context, workoutID primitive.ObjectID, dayID, exerciseID string) (string, error) {
	w, err := s.workoutRepo.GetByID(ctx, workoutID)
	if err != nil {
		return "", workoutErr(err)
	}
	ex, err := findExercise(w, dayID, exerciseID)
	if err != nil {
		return "", err
	}
	if ex.Video == "" {
		return "", ErrNoVideo
	}
	if !storage.IsExerciseVideoKey(ex.Video, workoutID.Hex()) {
		return ex.Video, nil
	}
	if s.files == nil {
		return "", ErrMediaUnavailable
	}
	return s.files.GeneratePresignedDownloadURL(ctx, ex.Video, s.expiry)
}

func (s *mediaService) RemoveExerciseVideo(ctx context.Context, workoutID primitive.ObjectID, dayID, exerciseID string) error {
	var previous string
	_, err := s.workoutRepo.Update(ctx, workoutID, func(w *domain.Workout) error {
		ex, err := findExercise(w, dayID, exerciseID)
		if err != nil {
			return err
		}
		if ex.Video == "" {
			return ErrNoVideo
		}
		previous = ex.Video
		ex.Video = ""
		w.Exercises[exerciseID] = ex
		return nil
	})
	if err != nil {
		return workoutErr(err)
	}
	deleteVideoObjects(ctx, s.files, workoutID, previous)
	return nil
}

// deleteVideoObjects removes the keys that are uploaded videos of the workout
// and skips external links. A failure leaves an orphaned object and is only
// logged.
func deleteVideoObjects(ctx context.Context, files storage.FileStorage, workoutID primitive.ObjectID, keys ...string) {
	if files == nil {
		return
	}
	for _, key := range keys {
		if !storage.IsExerciseVideoKey(key, workoutID.Hex()) {
			continue
		}
		if err := files.DeleteObject(ctx, key); err != nil {
			log.Warnf("orphaned video object %s: %s", key, err)
		}
	}
}
