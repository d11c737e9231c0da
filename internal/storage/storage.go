package storage

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
)

// Default expiry duration for presigned URLs
const DefaultPresignedURLExpiry = 15 * time.Minute

var ErrInvalidObjectKey = errors.New("invalid object key")

// FileStorage defines the interface for object storage operations.
type FileStorage interface {
	// GeneratePresignedUploadURL creates a temporary URL that accepts a PUT of
	// the object with the given content type.
	GeneratePresignedUploadURL(ctx context.Context, objectKey string, contentType string, expires time.Duration) (string, error)

	// GeneratePresignedDownloadURL creates a temporary GET URL for the object.
	GeneratePresignedDownloadURL(ctx context.Context, objectKey string, expires time.Duration) (string, error)

	// DeleteObject removes an object from the storage provider.
	DeleteObject(ctx context.Context, objectKey string) error
}

const exerciseVideoPrefix = "workouts/"

// ExerciseVideoKey builds a fresh object key for a video attached to an
// exercise: workouts/<workoutID>/<exerciseID>/<uuid>.
func ExerciseVideoKey(workoutID, exerciseID string) string {
	return fmt.Sprintf("%s%s/%s/%s", exerciseVideoPrefix, workoutID, exerciseID, uuid.NewString())
}

// IsObjectKey reports whether v points into the video namespace of any
// workout rather than at an external link.
func IsObjectKey(v string) bool {
	return strings.HasPrefix(v, exerciseVideoPrefix)
}

// IsExerciseVideoKey reports whether key was produced by ExerciseVideoKey for
// the given workout. Plain URLs stored in an exercise's video field are not keys.
func IsExerciseVideoKey(key, workoutID string) bool {
	rest, ok := strings.CutPrefix(key, exerciseVideoPrefix+workoutID+"/")
	if !ok {
		return false
	}
	parts := strings.Split(rest, "/")
	if len(parts) != 2 || parts[0] == "" {
		return false
	}
	_, err := uuid.Parse(parts[1])
	return err == nil
}
