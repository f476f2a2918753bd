package handler

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/ovacare/pcos-assistant/internal/service"
	"github.com/ovacare/pcos-assistant/internal/wizard"
)

// WizardHandler implements the form wizard API endpoints
type WizardHandler struct {
	service *service.WizardService
	logger  *zap.Logger
}

// NewWizardHandler creates a new WizardHandler
func NewWizardHandler(svc *service.WizardService, logger *zap.Logger) *WizardHandler {
	return &WizardHandler{service: svc, logger: logger}
}

// Start opens a new wizard session, resuming a saved draft when present
func (h *WizardHandler) Start(c *gin.Context) {
	state, err := h.service.Start(c.Request.Context())
	if err != nil {
		h.logger.Error("failed to start wizard session", zap.Error(err))
		c.JSON(http.StatusInternalServerError, ErrorResponse{
			Code:    "INTERNAL_ERROR",
			Message: "Failed to start session",
		})
		return
	}

	c.JSON(http.StatusOK, state)
}

// UpdateFields merges draft edits and schedules an autosave
func (h *WizardHandler) UpdateFields(c *gin.Context) {
	var fields wizard.StepFields
	if err := c.ShouldBindJSON(&fields); err != nil {
		h.logger.Error("invalid request body", zap.Error(err))
		c.JSON(http.StatusBadRequest, ErrorResponse{
			Code:    "VALIDATION_ERROR",
			Message: "Invalid request body",
			Details: stringPtr(err.Error()),
		})
		return
	}

	state, err := h.service.UpdateFields(c.Request.Context(), c.Param("session"), fields)
	if err != nil {
		h.respondServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, state)
}

// Next validates the current step and advances on success
func (h *WizardHandler) Next(c *gin.Context) {
	var fields wizard.StepFields
	if err := c.ShouldBindJSON(&fields); err != nil {
		h.logger.Error("invalid request body", zap.Error(err))
		c.JSON(http.StatusBadRequest, ErrorResponse{
			Code:    "VALIDATION_ERROR",
			Message: "Invalid request body",
			Details: stringPtr(err.Error()),
		})
		return
	}

	state, err := h.service.Next(c.Request.Context(), c.Param("session"), fields)
	if err != nil {
		h.respondServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, state)
}

// Prev moves back one step without validation
func (h *WizardHandler) Prev(c *gin.Context) {
	state, err := h.service.Prev(c.Request.Context(), c.Param("session"))
	if err != nil {
		h.respondServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, state)
}

// Status returns the current wizard snapshot
func (h *WizardHandler) Status(c *gin.Context) {
	state, err := h.service.Status(c.Request.Context(), c.Param("session"))
	if err != nil {
		h.respondServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, state)
}

// Submit finalizes the entry and returns the analysis report
func (h *WizardHandler) Submit(c *gin.Context) {
	report, err := h.service.Submit(c.Request.Context(), c.Param("session"))
	if err != nil {
		h.respondServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, report)
}

func (h *WizardHandler) respondServiceError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, service.ErrSessionNotFound):
		c.JSON(http.StatusNotFound, ErrorResponse{
			Code:    "SESSION_NOT_FOUND",
			Message: "Unknown or expired session",
		})
	case errors.Is(err, wizard.ErrNotAtReview):
		c.JSON(http.StatusConflict, ErrorResponse{
			Code:    "NOT_AT_REVIEW",
			Message: "Submit is only available from the review step",
		})
	case errors.Is(err, wizard.ErrAtReview):
		c.JSON(http.StatusConflict, ErrorResponse{
			Code:    "AT_REVIEW",
			Message: "Already at the review step",
		})
	default:
		h.logger.Error("wizard operation failed", zap.Error(err))
		c.JSON(http.StatusInternalServerError, ErrorResponse{
			Code:    "INTERNAL_ERROR",
			Message: "Operation failed",
			Details: stringPtr(err.Error()),
		})
	}
}
