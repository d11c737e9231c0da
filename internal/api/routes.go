package api

import (
	"net/http"

	"gymnexus/coach-api/internal/domain"
	"gymnexus/coach-api/internal/service"

	"github.com/gin-gonic/gin"
)

// Services groups the service dependencies the HTTP layer is built from.
type Services struct {
	Auth    service.AuthService
	Users   service.UserService
	Workout service.WorkoutService
	Metrics service.MetricsService
	Media   service.MediaService
}

// SetupRoutes registers every endpoint under /api/v1. metricsHandler, when
// set, is served on metricsPath outside the versioned group.
func SetupRoutes(router *gin.Engine, services Services, metricsPath string, metricsHandler http.Handler) {
	authHandler := NewAuthHandler(services.Auth, services.Users)
	userHandler := NewUserHandler(services.Users)
	metricHandler := NewMetricsHandler(services.Metrics)
	workoutHandler := NewWorkoutHandler(services.Workout, services.Media)

	authMiddleware := AuthMiddleware(services.Auth)
	coachOnly := RoleMiddleware(domain.RoleCoach)

	router.GET("/ping", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"message": "pong"})
	})
	if metricsHandler != nil {
		router.GET(metricsPath, gin.WrapH(metricsHandler))
	}

	apiV1 := router.Group("/api/v1")
	{
		authGroup := apiV1.Group("/auth")
		{
			authGroup.POST("/register", authHandler.Register)
			authGroup.POST("/login", authHandler.Login)
		}
	}

	protected := apiV1.Group("")
	protected.Use(authMiddleware)
	{
		protected.POST("/auth/change-password", authHandler.ChangePassword)
		protected.GET("/me", authHandler.Me)
		protected.GET("/tools/one-rep-max", metricHandler.OneRepMax)

		coachGroup := protected.Group("/coach")
		coachGroup.Use(coachOnly)
		{
			coachGroup.POST("/athletes", userHandler.CreateAthlete)
			coachGroup.GET("/athletes", userHandler.ListAthletes)
		}

		userGroup := protected.Group("/users/:userId")
		{
			userGroup.GET("", userHandler.GetUser)
			userGroup.PUT("", userHandler.UpdateUser)
			userGroup.DELETE("", userHandler.DeleteUser)

			userGroup.POST("/metrics", metricHandler.AddMetric)
			userGroup.GET("/metrics", metricHandler.ListMetrics)
			userGroup.GET("/metrics/summary", metricHandler.Summary)
			userGroup.GET("/metrics/export", metricHandler.Export)
			userGroup.DELETE("/metrics/:metricId", metricHandler.DeleteMetric)
		}

		workoutGroup := protected.Group("/workouts")
		{
			workoutGroup.POST("", coachOnly, workoutHandler.CreateWorkout)
			workoutGroup.GET("", coachOnly, workoutHandler.ListWorkouts)
			workoutGroup.GET("/assigned", RoleMiddleware(domain.RoleAthlete), workoutHandler.ListAssigned)

			// Ownership of :workoutId is checked by the handlers.
			workoutGroup.GET("/:workoutId", workoutHandler.GetWorkout)
			workoutGroup.DELETE("/:workoutId", workoutHandler.DeleteWorkout)
			workoutGroup.PUT("/:workoutId/status", workoutHandler.SetStatus)

			workoutGroup.PUT("/:workoutId/assignees/:athleteId", workoutHandler.AssignWorkout)
			workoutGroup.DELETE("/:workoutId/assignees/:athleteId", workoutHandler.UnassignWorkout)

			workoutGroup.POST("/:workoutId/days", workoutHandler.AddDay)
			workoutGroup.DELETE("/:workoutId/days/:dayId", workoutHandler.DeleteDay)

			exercises := workoutGroup.Group("/:workoutId/days/:dayId/exercises")
			{
				exercises.POST("", workoutHandler.AddExercise)
				exercises.PUT("/:exerciseId", workoutHandler.UpdateExercise)
				exercises.DELETE("/:exerciseId", workoutHandler.DeleteExercise)
				exercises.POST("/:exerciseId/video-upload-url", workoutHandler.RequestVideoUpload)
				exercises.GET("/:exerciseId/video", workoutHandler.GetVideo)
				exercises.DELETE("/:exerciseId/video", workoutHandler.DeleteVideo)
			}
		}
	}
}
