package api

import (
	"fmt"
	"net/http"
	"time"

	"gymnexus/coach-api/internal/report"
	"gymnexus/coach-api/internal/service"

	"github.com/gin-gonic/gin"
)

type MetricsHandler struct {
	metricsService service.MetricsService
}

func NewMetricsHandler(metricsService service.MetricsService) *MetricsHandler {
	return &MetricsHandler{metricsService: metricsService}
}

type OneRepMaxQuery struct {
	Weight float64 `form:"weight" binding:"required"`
	Reps   int     `form:"reps" binding:"required"`
}

// AddMetric godoc
// @Summary Append a body measurement record
// @Description BMI and body fat are computed by the server; values sent for them are ignored.
// @Tags Metrics
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param userId path string true "User ID"
// @Param record body service.MetricInput true "Measurements"
// @Success 201 {object} domain.MetricRecord
// @Failure 400 {object} gin.H "Invalid input"
// @Failure 403 {object} gin.H "Not the user or their coach"
// @Router /users/{userId}/metrics [post]
func (h *MetricsHandler) AddMetric(c *gin.Context) {
	requesterID, ok := mustUserID(c)
	if !ok {
		return
	}
	userID, ok := pathObjectID(c, "userId")
	if !ok {
		return
	}
	var req service.MetricInput
	if err := c.ShouldBindJSON(&req); err != nil {
		bindError(c, err)
		return
	}

	record, err := h.metricsService.AddMetric(c.Request.Context(), requesterID, userID, req)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, record)
}

func (h *MetricsHandler) ListMetrics(c *gin.Context) {
	requesterID, ok := mustUserID(c)
	if !ok {
		return
	}
	userID, ok := pathObjectID(c, "userId")
	if !ok {
		return
	}

	records, err := h.metricsService.ListMetrics(c.Request.Context(), requesterID, userID)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, records)
}

func (h *MetricsHandler) DeleteMetric(c *gin.Context) {
	requesterID, ok := mustUserID(c)
	if !ok {
		return
	}
	userID, ok := pathObjectID(c, "userId")
	if !ok {
		return
	}

	if err := h.metricsService.DeleteMetric(c.Request.Context(), requesterID, userID, c.Param("metricId")); err != nil {
		respondError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

func (h *MetricsHandler) Summary(c *gin.Context) {
	requesterID, ok := mustUserID(c)
	if !ok {
		return
	}
	userID, ok := pathObjectID(c, "userId")
	if !ok {
		return
	}

	summary, err := h.metricsService.Summary(c.Request.Context(), requesterID, userID)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, summary)
}

// Export streams the metric history as an XLSX attachment.
func (h *MetricsHandler) Export(c *gin.Context) {
	requesterID, ok := mustUserID(c)
	if !ok {
		return
	}
	userID, ok := pathObjectID(c, "userId")
	if !ok {
		return
	}

	data, err := h.metricsService.ExportMetrics(c.Request.Context(), requesterID, userID)
	if err != nil {
		respondError(c, err)
		return
	}
	filename := fmt.Sprintf("metrics-%s-%s.xlsx", userID.Hex(), time.Now().UTC().Format("20060102"))
	c.Header("Content-Disposition", `attachment; filename="`+filename+`"`)
	c.Data(http.StatusOK, report.XLSXContentType, data)
}

// OneRepMax estimates a one-rep max with the Brzycki formula.
func (h *MetricsHandler) OneRepMax(c *gin.Context) {
	var q OneRepMaxQuery
	if err := c.ShouldBindQuery(&q); err != nil {
		bindError(c, err)
		return
	}

	est, err := h.metricsService.EstimateOneRepMax(q.Weight, q.Reps)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, est)
}
