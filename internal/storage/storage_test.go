package storage

import (
	"context"
	"net/url"
	"strings"
	"testing"
	"time"

	"gymnexus/coach-api/internal/config"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestExerciseVideoKey(t *testing.T) {
	key := ExerciseVideoKey("w1", "e1")
	assert.True(t, strings.HasPrefix(key, "workouts/w1/e1/"))
	assert.True(t, IsExerciseVideoKey(key, "w1"))
	assert.False(t, IsExerciseVideoKey(key, "w2"))
	assert.NotEqual(t, key, ExerciseVideoKey("w1", "e1"))
}

func TestIsExerciseVideoKey_RejectsOthers(t *testing.T) {
	for _, key := range []string{
		"",
		"https://youtube.com/watch?v=abc",
		"workouts/w1/e1",
		"workouts/w1/e1/not-a-uuid",
		"workouts/w1//6f1c2c0e-8e1b-4b8e-9a55-4f0f6c0f8a11",
	} {
		assert.False(t, IsExerciseVideoKey(key, "w1"), key)
	}
}

func TestEndpointURL(t *testing.T) {
	assert.Equal(t, "https://minio:9000", endpointURL("minio:9000", true))
	assert.Equal(t, "http://minio:9000", endpointURL("minio:9000", false))
	assert.Equal(t, "http://minio:9000", endpointURL("http://minio:9000", true))
}

func TestS3Storage_PresignUpload(t *testing.T) {
	// Presigning is computed locally and needs no reachable endpoint.
	fs, err := NewS3Storage(context.Background(), config.S3Config{
		Endpoint:        "localhost:9000",
		Region:          "us-east-1",
		AccessKeyID:     "test-key",
		SecretAccessKey: "test-secret",
		BucketName:      "videos",
		UseSSL:          false,
	})
	require.NoError(t, err)

	raw, err := fs.GeneratePresignedUploadURL(context.Background(), "workouts/w/e/k", "video/mp4", 5*time.Minute)
	require.NoError(t, err)

	u, err := url.Parse(raw)
	require.NoError(t, err)
	assert.Equal(t, "localhost:9000", u.Host)
	assert.Equal(t, "/videos/workouts/w/e/k", u.Path)
	assert.Equal(t, "300", u.Query().Get("X-Amz-Expires"))

	_, err = fs.GeneratePresignedDownloadURL(context.Background(), "", time.Minute)
	assert.ErrorIs(t, err, ErrInvalidObjectKey)
}
