package api

import (
	"time"

	"gymnexus/coach-api/internal/domain"
)

// UserResponse excludes sensitive info like password hash
type UserResponse struct {
	ID               string                `json:"id"`
	Email            string                `json:"email"`
	Role             domain.Role           `json:"role"`
	Name             string                `json:"name,omitempty"`
	LastName         string                `json:"lastName,omitempty"`
	Age              int                   `json:"age,omitempty"`
	BiologicalGender domain.Gender         `json:"biologicalGender,omitempty"`
	AddedBy          *string               `json:"addedBy,omitempty"`
	Metrics          []domain.MetricRecord `json:"metrics,omitempty"`
	CreatedAt        time.Time             `json:"createdAt"`
}

// MapUserToResponse converts a domain User to a UserResponse DTO.
func MapUserToResponse(user *domain.User) UserResponse {
	resp := UserResponse{
		ID:               user.ID.Hex(),
		Email:            user.Email,
		Role:             user.Role,
		Name:             user.Name,
		LastName:         user.LastName,
		Age:              user.Age,
		BiologicalGender: user.BiologicalGender,
		CreatedAt:        user.CreatedAt,
	}
	if user.AddedBy != nil {
		addedBy := user.AddedBy.Hex()
		resp.AddedBy = &addedBy
	}
	return resp
}

func mapUsers(users []domain.User) []UserResponse {
	out := make([]UserResponse, 0, len(users))
	for i := range users {
		out = append(out, MapUserToResponse(&users[i]))
	}
	return out
}

// WorkoutResponse is the nested workout document clients work with.
type WorkoutResponse struct {
	ID              string               `json:"id"`
	Name            string               `json:"name"`
	Coach           string               `json:"coach"`
	AssignedTo      []string             `json:"assignedTo"`
	AdditionalNotes string               `json:"additionalNotes,omitempty"`
	Status          domain.WorkoutStatus `json:"status"`
	Days            []domain.DayView     `json:"days"`
	CreatedAt       time.Time            `json:"createdAt"`
	UpdatedAt       time.Time            `json:"updatedAt"`
}

func MapWorkoutToResponse(w *domain.Workout) WorkoutResponse {
	assigned := make([]string, 0, len(w.AssignedTo))
	for _, id := range w.AssignedTo {
		assigned = append(assigned, id.Hex())
	}
	status := w.Status
	if status == "" {
		status = domain.WorkoutStatusActive
	}
	return WorkoutResponse{
		ID:              w.ID.Hex(),
		Name:            w.Name,
		Coach:           w.CoachID.Hex(),
		AssignedTo:      assigned,
		AdditionalNotes: w.AdditionalNotes,
		Status:          status,
		Days:            w.DayViews(),
		CreatedAt:       w.CreatedAt,
		UpdatedAt:       w.UpdatedAt,
	}
}

func mapWorkouts(workouts []domain.Workout) []WorkoutResponse {
	out := make([]WorkoutResponse, 0, len(workouts))
	for i := range workouts {
		out = append(out, MapWorkoutToResponse(&workouts[i]))
	}
	return out
}
