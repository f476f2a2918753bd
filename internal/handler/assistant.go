package handler

import (
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/ovacare/pcos-assistant/internal/assistant"
	"github.com/ovacare/pcos-assistant/internal/store"
	"github.com/ovacare/pcos-assistant/pkg/model"
)

// AssistantHandler exposes the optional chat capability
type AssistantHandler struct {
	capability assistant.Capability
	store      store.Store
	logger     *zap.Logger
}

// NewAssistantHandler creates a new AssistantHandler
func NewAssistantHandler(capability assistant.Capability, st store.Store, logger *zap.Logger) *AssistantHandler {
	return &AssistantHandler{capability: capability, store: st, logger: logger}
}

type chatRequest struct {
	Question string `json:"question" binding:"required"`
}

// Chat answers a question in the context of the latest submission
func (h *AssistantHandler) Chat(c *gin.Context) {
	var req chatRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{
			Code:    "VALIDATION_ERROR",
			Message: "Question is required",
			Details: stringPtr(err.Error()),
		})
		return
	}
	if strings.TrimSpace(req.Question) == "" {
		c.JSON(http.StatusBadRequest, ErrorResponse{
			Code:    "VALIDATION_ERROR",
			Message: "Question is required",
		})
		return
	}

	ctx := c.Request.Context()
	entry, _, err := h.store.LastEntry(ctx)
	if err != nil {
		h.logger.Warn("failed to load entry for chat context", zap.Error(err))
	}

	var report *model.AnalysisReport
	if r, ok, err := h.store.LastAnalysis(ctx); err == nil && ok {
		report = &r
	}

	answer, err := h.capability.Chat(ctx, req.Question, entry, report)
	if errors.Is(err, assistant.ErrDisabled) {
		c.JSON(http.StatusServiceUnavailable, ErrorResponse{
			Code:    "ASSISTANT_DISABLED",
			Message: "Chat assistant is not configured",
		})
		return
	}
	if err != nil {
		h.logger.Error("assistant chat failed", zap.Error(err))
		c.JSON(http.StatusBadGateway, ErrorResponse{
			Code:    "ASSISTANT_ERROR",
			Message: "Assistant is temporarily unavailable",
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{"answer": answer})
}
