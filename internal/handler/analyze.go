package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/ovacare/pcos-assistant/internal/analysis"
	"github.com/ovacare/pcos-assistant/internal/doctors"
	"github.com/ovacare/pcos-assistant/internal/service"
	"github.com/ovacare/pcos-assistant/internal/wizard"
	"github.com/ovacare/pcos-assistant/pkg/model"
)

// AnalyzeHandler exposes the local analysis engine directly: the full
// report for an arbitrary entry and the incremental per-step feedback
type AnalyzeHandler struct {
	cloud  service.CloudStore // nil when not configured
	logger *zap.Logger
}

// NewAnalyzeHandler creates a new AnalyzeHandler
func NewAnalyzeHandler(cloud service.CloudStore, logger *zap.Logger) *AnalyzeHandler {
	return &AnalyzeHandler{cloud: cloud, logger: logger}
}

// Analyze runs the full engine over the posted entry
func (h *AnalyzeHandler) Analyze(c *gin.Context) {
	var entry model.HealthEntry
	if err := c.ShouldBindJSON(&entry); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{
			Code:    "VALIDATION_ERROR",
			Message: "Invalid request body",
			Details: stringPtr(err.Error()),
		})
		return
	}

	stats := model.DefaultDatasetStats()
	if h.cloud != nil {
		if s, err := h.cloud.DatasetStats(c.Request.Context()); err == nil {
			stats = s
		} else {
			h.logger.Warn("dataset stats unavailable", zap.Error(err))
		}
	}

	report := analysis.Analyze(entry, stats)
	if entry.City != "" {
		report.Specialists = doctors.Recommend(entry.City, report.RiskLevel, entry.Symptoms).PrimaryDoctors
	}

	c.JSON(http.StatusOK, report)
}

// stepRequest carries the step number with its raw fields
type stepRequest struct {
	Step   int               `json:"step" binding:"required"`
	Fields wizard.StepFields `json:"fields"`
}

// AnalyzeStep returns the incremental feedback for one form step
func (h *AnalyzeHandler) AnalyzeStep(c *gin.Context) {
	var req stepRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{
			Code:    "VALIDATION_ERROR",
			Message: "Invalid request body",
			Details: stringPtr(err.Error()),
		})
		return
	}

	if req.Step < model.StepPersonal || req.Step > model.StepReview {
		c.JSON(http.StatusBadRequest, ErrorResponse{
			Code:    "VALIDATION_ERROR",
			Message: "Step must be between 1 and 6",
		})
		return
	}

	c.JSON(http.StatusOK, analysis.AnalyzeStep(req.Step, req.Fields))
}

// Doctors returns the specialist directory for a city, or a name search
// across all cities when ?name= is given
func (h *AnalyzeHandler) Doctors(c *gin.Context) {
	if name := c.Query("name"); name != "" {
		c.JSON(http.StatusOK, gin.H{"doctors": doctors.SearchByName(name)})
		return
	}

	city := c.Query("city")
	severity := model.IndicatorLevel(c.DefaultQuery("severity", string(model.LevelModerate)))

	c.JSON(http.StatusOK, doctors.Recommend(city, severity, nil))
}
