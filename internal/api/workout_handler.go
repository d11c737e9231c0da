package api

import (
	"net/http"

	"gymnexus/coach-api/internal/domain"
	"gymnexus/coach-api/internal/service"

	"github.com/gin-gonic/gin"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

type WorkoutHandler struct {
	workoutService service.WorkoutService
	mediaService   service.MediaService
}

func NewWorkoutHandler(workoutService service.WorkoutService, mediaService service.MediaService) *WorkoutHandler {
	return &WorkoutHandler{workoutService: workoutService, mediaService: mediaService}
}

// --- Request/Response Structs ---

type SetStatusRequest struct {
	Status domain.WorkoutStatus `json:"status" binding:"required"`
}

type VideoUploadRequest struct {
	ContentType string `json:"contentType" binding:"required"`
}

type VideoURLResponse struct {
	URL string `json:"url"`
}

// ownedWorkout parses :workoutId and checks that the caller is the coach
// that created it. It aborts the request and returns false otherwise.
func (h *WorkoutHandler) ownedWorkout(c *gin.Context) (primitive.ObjectID, bool) {
	coachID, ok := mustUserID(c)
	if !ok {
		return primitive.NilObjectID, false
	}
	workoutID, ok := pathObjectID(c, "workoutId")
	if !ok {
		return primitive.NilObjectID, false
	}

	owner, err := h.workoutService.VerifyOwnership(c.Request.Context(), workoutID, coachID)
	if err != nil {
		respondError(c, err)
		return primitive.NilObjectID, false
	}
	if !owner {
		abortWithError(c, http.StatusForbidden, "Not the owner of this workout")
		return primitive.NilObjectID, false
	}
	return workoutID, true
}

// readableWorkout loads :workoutId for its owner or one of its assignees.
func (h *WorkoutHandler) readableWorkout(c *gin.Context) (*domain.Workout, bool) {
	userID, ok := mustUserID(c)
	if !ok {
		return nil, false
	}
	workoutID, ok := pathObjectID(c, "workoutId")
	if !ok {
		return nil, false
	}

	w, err := h.workoutService.GetByID(c.Request.Context(), workoutID)
	if err != nil {
		respondError(c, err)
		return nil, false
	}
	if w.CoachID != userID && !w.IsAssignedTo(userID) {
		abortWithError(c, http.StatusForbidden, "No access to this workout")
		return nil, false
	}
	return w, true
}

// CreateWorkout godoc
// @Summary Create a workout with its days and exercises
// @Tags Workouts
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param workout body service.CreateWorkoutInput true "Workout document"
// @Success 201 {object} WorkoutResponse
// @Failure 400 {object} gin.H "Invalid document"
// @Failure 403 {object} gin.H "Athlete not managed by the coach"
// @Router /workouts [post]
func (h *WorkoutHandler) CreateWorkout(c *gin.Context) {
	coachID, ok := mustUserID(c)
	if !ok {
		return
	}
	var req service.CreateWorkoutInput
	if err := c.ShouldBindJSON(&req); err != nil {
		bindError(c, err)
		return
	}

	w, err := h.workoutService.CreateWorkout(c.Request.Context(), coachID, req)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, MapWorkoutToResponse(w))
}

func (h *WorkoutHandler) ListWorkouts(c *gin.Context) {
	coachID, ok := mustUserID(c)
	if !ok {
		return
	}
	status := domain.WorkoutStatus(c.Query("status"))

	workouts, err := h.workoutService.ListByCoach(c.Request.Context(), coachID, status)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, mapWorkouts(workouts))
}

func (h *WorkoutHandler) ListAssigned(c *gin.Context) {
	athleteID, ok := mustUserID(c)
	if !ok {
		return
	}
	workouts, err := h.workoutService.ListAssignedTo(c.Request.Context(), athleteID)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, mapWorkouts(workouts))
}

func (h *WorkoutHandler) GetWorkout(c *gin.Context) {
	w, ok := h.readableWorkout(c)
	if !ok {
		return
	}
	c.JSON(http.StatusOK, MapWorkoutToResponse(w))
}

func (h *WorkoutHandler) DeleteWorkout(c *gin.Context) {
	workoutID, ok := h.ownedWorkout(c)
	if !ok {
		return
	}
	if err := h.workoutService.DeleteWorkout(c.Request.Context(), workoutID); err != nil {
		respondError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

func (h *WorkoutHandler) SetStatus(c *gin.Context) {
	workoutID, ok := h.ownedWorkout(c)
	if !ok {
		return
	}
	var req SetStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		bindError(c, err)
		return
	}

	w, err := h.workoutService.SetStatus(c.Request.Context(), workoutID, req.Status)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, MapWorkoutToResponse(w))
}

func (h *WorkoutHandler) AddDay(c *gin.Context) {
	workoutID, ok := h.ownedWorkout(c)
	if !ok {
		return
	}
	var req service.DayInput
	if err := c.ShouldBindJSON(&req); err != nil {
		bindError(c, err)
		return
	}

	day, err := h.workoutService.AddDay(c.Request.Context(), workoutID, req)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, day)
}

func (h *WorkoutHandler) DeleteDay(c *gin.Context) {
	workoutID, ok := h.ownedWorkout(c)
	if !ok {
		return
	}
	if err := h.workoutService.DeleteDay(c.Request.Context(), workoutID, c.Param("dayId")); err != nil {
		respondError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

func (h *WorkoutHandler) AddExercise(c *gin.Context) {
	workoutID, ok := h.ownedWorkout(c)
	if !ok {
		return
	}
	var req service.ExerciseInput
	if err := c.ShouldBindJSON(&req); err != nil {
		bindError(c, err)
		return
	}

	ex, err := h.workoutService.AddExercise(c.Request.Context(), workoutID, c.Param("dayId"), req)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, ex)
}

// UpdateExercise replaces every field of the exercise with the request body.
func (h *WorkoutHandler) UpdateExercise(c *gin.Context) {
	workoutID, ok := h.ownedWorkout(c)
	if !ok {
		return
	}
	var req service.ExerciseInput
	if err := c.ShouldBindJSON(&req); err != nil {
		bindError(c, err)
		return
	}

	ex, err := h.workoutService.UpdateExercise(c.Request.Context(), workoutID, c.Param("dayId"), c.Param("exerciseId"), req)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, ex)
}

func (h *WorkoutHandler) DeleteExercise(c *gin.Context) {
	workoutID, ok := h.ownedWorkout(c)
	if !ok {
		return
	}
	if err := h.workoutService.DeleteExercise(c.Request.Context(), workoutID, c.Param("dayId"), c.Param("exerciseId")); err != nil {
		respondError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

// RequestVideoUpload godoc
// @Summary Get a presigned URL to upload an exercise video
// @Tags Workouts
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param workoutId path string true "Workout ID"
// @Param dayId path string true "Day ID"
// @Param exerciseId path string true "Exercise ID"
// @Param upload body VideoUploadRequest true "Video content type"
// @Success 200 {object} service.VideoUpload
// @Failure 400 {object} gin.H "Unsupported content type"
// @Failure 503 {object} gin.H "Storage not configured"
// @Router /workouts/{workoutId}/days/{dayId}/exercises/{exerciseId}/video-upload-url [post]
func (h *WorkoutHandler) RequestVideoUpload(c *gin.Context) {
	workoutID, ok := h.ownedWorkout(c)
	if !ok {
		return
	}
	var req VideoUploadRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		bindError(c, err)
		return
	}

	upload, err := h.mediaService.ExerciseVideoUploadURL(c.Request.Context(), workoutID, c.Param("dayId"), c.Param("exerciseId"), req.ContentType)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, upload)
}

func (h *WorkoutHandler) GetVideo(c *gin.Context) {
	w, ok := h.readableWorkout(c)
	if !ok {
		return
	}
	url, err := h.mediaService.ExerciseVideoURL(c.Request.Context(), w.ID, c.Param("dayId"), c.Param("exerciseId"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, VideoURLResponse{URL: url})
}

func (h *WorkoutHandler) DeleteVideo(c *gin.Context) {
	workoutID, ok := h.ownedWorkout(c)
	if !ok {
		return
	}
	if err := h.mediaService.RemoveExerciseVideo(c.Request.Context(), workoutID, c.Param("dayId"), c.Param("exerciseId")); err != nil {
		respondError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

func (h *WorkoutHandler) AssignWorkout(c *gin.Context) {
	workoutID, ok := h.ownedWorkout(c)
	if !ok {
		return
	}
	athleteID, ok := pathObjectID(c, "athleteId")
	if !ok {
		return
	}

	w, err := h.workoutService.AssignWorkout(c.Request.Context(), workoutID, athleteID)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, MapWorkoutToResponse(w))
}

func (h *WorkoutHandler) UnassignWorkout(c *gin.Context) {
	workoutID, ok := h.ownedWorkout(c)
	if !ok {
		return
	}
	athleteID, ok := pathObjectID(c, "athleteId")
	if !ok {
		return
	}

	w, err := h.workoutService.UnassignWorkout(c.Request.Context(), workoutID, athleteID)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, MapWorkoutToResponse(w))
}
