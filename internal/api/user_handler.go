package api

import (
	"net/http"

	"gymnexus/coach-api/internal/domain"
	"gymnexus/coach-api/internal/service"

	"github.com/gin-gonic/gin"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

type UserHandler struct {
	userService service.UserService
}

func NewUserHandler(userService service.UserService) *UserHandler {
	return &UserHandler{userService: userService}
}

type CreateAthleteRequest struct {
	Email            string        `json:"email" binding:"required,email"`
	Password         string        `json:"password" binding:"required"`
	Name             string        `json:"name"`
	LastName         string        `json:"lastName"`
	Age              int           `json:"age"`
	BiologicalGender domain.Gender `json:"biologicalGender"`
}

// pathObjectID parses an ObjectID route parameter or aborts with 400.
func pathObjectID(c *gin.Context, name string) (primitive.ObjectID, bool) {
	id, err := primitive.ObjectIDFromHex(c.Param(name))
	if err != nil {
		abortWithError(c, http.StatusBadRequest, "Invalid "+name+" format")
		return primitive.NilObjectID, false
	}
	return id, true
}

// CreateAthlete godoc
// @Summary Create an athlete account owned by the coach
// @Tags Coach
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param athlete body CreateAthleteRequest true "Athlete details"
// @Success 201 {object} UserResponse
// @Failure 400 {object} gin.H "Invalid input"
// @Failure 409 {object} gin.H "Email already registered"
// @Router /coach/athletes [post]
func (h *UserHandler) CreateAthlete(c *gin.Context) {
	coachID, ok := mustUserID(c)
	if !ok {
		return
	}
	var req CreateAthleteRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		bindError(c, err)
		return
	}

	athlete, err := h.userService.CreateAthlete(c.Request.Context(), coachID, service.AthleteInput{
		Email:            req.Email,
		Password:         req.Password,
		Name:             req.Name,
		LastName:         req.LastName,
		Age:              req.Age,
		BiologicalGender: req.BiologicalGender,
	})
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, MapUserToResponse(athlete))
}

func (h *UserHandler) ListAthletes(c *gin.Context) {
	coachID, ok := mustUserID(c)
	if !ok {
		return
	}
	athletes, err := h.userService.ListAthletes(c.Request.Context(), coachID)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, mapUsers(athletes))
}

// GetUser returns a profile with its metric history. Only the user and the
// coach that added them may read it.
func (h *UserHandler) GetUser(c *gin.Context) {
	requesterID, ok := mustUserID(c)
	if !ok {
		return
	}
	userID, ok := pathObjectID(c, "userId")
	if !ok {
		return
	}

	user, err := h.userService.GetProfile(c.Request.Context(), requesterID, userID)
	if err != nil {
		respondError(c, err)
		return
	}
	resp := MapUserToResponse(user)
	resp.Metrics = user.Metrics
	c.JSON(http.StatusOK, resp)
}

func (h *UserHandler) UpdateUser(c *gin.Context) {
	requesterID, ok := mustUserID(c)
	if !ok {
		return
	}
	userID, ok := pathObjectID(c, "userId")
	if !ok {
		return
	}
	var req service.ProfileInput
	if err := c.ShouldBindJSON(&req); err != nil {
		bindError(c, err)
		return
	}

	user, err := h.userService.UpdateProfile(c.Request.Context(), requesterID, userID, req)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, MapUserToResponse(user))
}

func (h *UserHandler) DeleteUser(c *gin.Context) {
	requesterID, ok := mustUserID(c)
	if !ok {
		return
	}
	userID, ok := pathObjectID(c, "userId")
	if !ok {
		return
	}

	if err := h.userService.DeleteUser(c.Request.Context(), requesterID, userID); err != nil {
		respondError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}
