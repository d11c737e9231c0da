package api

import (
	"net/http"
	"testing"

	"gymnexus/coach-api/internal/domain"
	"gymnexus/coach-api/internal/service"

	"github.com/brianvoe/gofakeit/v6"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

func TestCreateAthlete(t *testing.T) {
	s := newTestServer(t)
	coach := s.coach(t)

	w := s.do(t, http.MethodPost, "/api/v1/coach/athletes", coach.Token, CreateAthleteRequest{
		Email:    gofakeit.Email(),
		Password: strongPassword,
		Name:     "Ana",
	})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	athlete := decode[UserResponse](t, w)
	assert.Equal(t, domain.RoleAthlete, athlete.Role)
	require.NotNil(t, athlete.AddedBy)
	assert.Equal(t, coach.ID, *athlete.AddedBy)

	w = s.do(t, http.MethodGet, "/api/v1/coach/athletes", coach.Token, nil)
	require.Equal(t, http.StatusOK, w.Code)
	list := decode[[]UserResponse](t, w)
	require.Len(t, list, 1)
	assert.Equal(t, athlete.ID, list[0].ID)
}

func TestCreateAthlete_Rejected(t *testing.T) {
	s := newTestServer(t)
	coach := s.coach(t)
	athlete := s.athlete(t, coach)

	tests := []struct {
		name  string
		token string
		req   CreateAthleteRequest
		code  int
	}{
		{
			name:  "athletes cannot add athletes",
			token: athlete.Token,
			req:   CreateAthleteRequest{Email: gofakeit.Email(), Password: strongPassword},
			code:  http.StatusForbidden,
		},
		{
			name:  "malformed email",
			token: coach.Token,
			req:   CreateAthleteRequest{Email: "not-an-email", Password: strongPassword},
			code:  http.StatusBadRequest,
		},
		{
			name:  "unknown gender",
			token: coach.Token,
			req:   CreateAthleteRequest{Email: gofakeit.Email(), Password: strongPassword, BiologicalGender: "OTHER"},
			code:  http.StatusBadRequest,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := s.do(t, http.MethodPost, "/api/v1/coach/athletes", tt.token, tt.req)
			assert.Equal(t, tt.code, w.Code, w.Body.String())
		})
	}
}

func TestUserAccess(t *testing.T) {
	s := newTestServer(t)
	coach := s.coach(t)
	athlete := s.athlete(t, coach)
	otherCoach := s.coach(t)
	path := "/api/v1/users/" + athlete.ID

	assert.Equal(t, http.StatusOK, s.do(t, http.MethodGet, path, athlete.Token, nil).Code)
	assert.Equal(t, http.StatusOK, s.do(t, http.MethodGet, path, coach.Token, nil).Code)
	assert.Equal(t, http.StatusForbidden, s.do(t, http.MethodGet, path, otherCoach.Token, nil).Code)
	assert.Equal(t, http.StatusNotFound, s.do(t, http.MethodGet, "/api/v1/users/"+primitive.NewObjectID().Hex(), coach.Token, nil).Code)
	assert.Equal(t, http.StatusBadRequest, s.do(t, http.MethodGet, "/api/v1/users/xyz", coach.Token, nil).Code)
}

func TestUpdateUser(t *testing.T) {
	s := newTestServer(t)
	coach := s.coach(t)
	athlete := s.athlete(t, coach)

	name := "Renamed"
	age := 41
	w := s.do(t, http.MethodPut, "/api/v1/users/"+athlete.ID, coach.Token, service.ProfileInput{Name: &name, Age: &age})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	got := decode[UserResponse](t, w)
	assert.Equal(t, "Renamed", got.Name)
	assert.Equal(t, 41, got.Age)
	assert.Equal(t, domain.GenderMale, got.BiologicalGender)

	bad := 500
	w = s.do(t, http.MethodPut, "/api/v1/users/"+athlete.ID, coach.Token, service.ProfileInput{Age: &bad})
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestDeleteUser_UnassignsWorkouts(t *testing.T) {
	s := newTestServer(t)
	coach := s.coach(t)
	athlete := s.athlete(t, coach)
	wo := s.createWorkout(t, coach, pushDayBody())
	require.Equal(t, http.StatusOK, s.do(t, http.MethodPut, "/api/v1/workouts/"+wo.ID+"/assignees/"+athlete.ID, coach.Token, nil).Code)

	require.Equal(t, http.StatusNoContent, s.do(t, http.MethodDelete, "/api/v1/users/"+athlete.ID, coach.Token, nil).Code)

	w := s.do(t, http.MethodGet, "/api/v1/workouts/"+wo.ID, coach.Token, nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Empty(t, decode[WorkoutResponse](t, w).AssignedTo)
}
