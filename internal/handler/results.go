package handler

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/ovacare/pcos-assistant/internal/insight"
	"github.com/ovacare/pcos-assistant/internal/pdf"
	"github.com/ovacare/pcos-assistant/internal/service"
	"github.com/ovacare/pcos-assistant/internal/store"
	"github.com/ovacare/pcos-assistant/pkg/model"
)

// ResultsHandler serves the latest submission, its report, the PDF export
// and the display preferences
type ResultsHandler struct {
	store  store.Store
	cloud  service.CloudStore // nil when not configured
	pdf    *pdf.Generator
	logger *zap.Logger
}

// NewResultsHandler creates a new ResultsHandler. cloud may be nil.
func NewResultsHandler(st store.Store, cloud service.CloudStore, generator *pdf.Generator, logger *zap.Logger) *ResultsHandler {
	return &ResultsHandler{store: st, cloud: cloud, pdf: generator, logger: logger}
}

// resultsResponse combines the last entry with its insight read-out and
// analysis report
type resultsResponse struct {
	Entry       model.HealthEntry     `json:"entry"`
	Insight     model.InsightResult   `json:"insight"`
	LevelLabel  string                `json:"level_label"`
	ReasonsText string                `json:"reasons_text"`
	Suggestions []string              `json:"suggestions"`
	Report      *model.AnalysisReport `json:"report,omitempty"`
}

// Latest returns the most recent submission with its insight and report.
// Display strings follow the stored insight_lang preference.
func (h *ResultsHandler) Latest(c *gin.Context) {
	ctx := c.Request.Context()

	entry, ok, err := h.store.LastEntry(ctx)
	if err != nil {
		h.logger.Error("failed to load last entry", zap.Error(err))
		c.JSON(http.StatusInternalServerError, ErrorResponse{
			Code:    "INTERNAL_ERROR",
			Message: "Failed to load results",
		})
		return
	}
	if !ok {
		// The local store is fresh on this device; the cloud mirror may
		// still hold a submission from elsewhere
		entry, ok = h.latestFromCloud(ctx)
	}
	if !ok {
		c.JSON(http.StatusNotFound, ErrorResponse{
			Code:    "NO_RESULTS",
			Message: "No submission found",
		})
		return
	}

	lang, _, err := h.store.Preference(ctx, store.KeyInsightLang)
	if err != nil {
		h.logger.Warn("failed to load language preference", zap.Error(err))
	}

	result := insight.Compute(entry)
	response := resultsResponse{
		Entry:       entry,
		Insight:     result,
		LevelLabel:  insight.LevelLabel(result.Level, lang),
		ReasonsText: insight.FormatReasons(result, lang),
		Suggestions: insight.CareSuggestions(entry),
	}

	if report, ok, err := h.store.LastAnalysis(ctx); err == nil && ok {
		response.Report = &report
	} else if err != nil {
		h.logger.Warn("failed to load last analysis", zap.Error(err))
	}

	c.JSON(http.StatusOK, response)
}

func (h *ResultsHandler) latestFromCloud(ctx context.Context) (model.HealthEntry, bool) {
	if h.cloud == nil {
		return model.HealthEntry{}, false
	}
	entry, ok, err := h.cloud.LatestEntry(ctx)
	if err != nil {
		h.logger.Warn("cloud latest entry unavailable", zap.Error(err))
		return model.HealthEntry{}, false
	}
	return entry, ok
}

// History returns all stored submissions, oldest first
func (h *ResultsHandler) History(c *gin.Context) {
	entries, err := h.store.Entries(c.Request.Context())
	if err != nil {
		h.logger.Error("failed to load entries", zap.Error(err))
		c.JSON(http.StatusInternalServerError, ErrorResponse{
			Code:    "INTERNAL_ERROR",
			Message: "Failed to load history",
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{"entries": entries, "count": len(entries)})
}

// ReportPDF renders the latest entry and report as a downloadable PDF
func (h *ResultsHandler) ReportPDF(c *gin.Context) {
	ctx := c.Request.Context()

	entry, ok, err := h.store.LastEntry(ctx)
	if err != nil || !ok {
		c.JSON(http.StatusNotFound, ErrorResponse{
			Code:    "NO_RESULTS",
			Message: "No submission found",
		})
		return
	}

	report, ok, err := h.store.LastAnalysis(ctx)
	if err != nil || !ok {
		c.JSON(http.StatusNotFound, ErrorResponse{
			Code:    "NO_RESULTS",
			Message: "No analysis report found",
		})
		return
	}

	data, err := h.pdf.Generate(entry, report)
	if err != nil {
		h.logger.Error("failed to generate report PDF", zap.Error(err))
		c.JSON(http.StatusInternalServerError, ErrorResponse{
			Code:    "INTERNAL_ERROR",
			Message: "Failed to generate PDF",
		})
		return
	}

	filename := fmt.Sprintf("pcos-report-%s.pdf", time.Now().Format("2006-01-02"))
	c.Header("Content-Disposition", `attachment; filename="`+filename+`"`)
	c.Data(http.StatusOK, "application/pdf", data)
}

// preferencesRequest carries the mutable display preferences
type preferencesRequest struct {
	Theme       *string `json:"theme,omitempty"`
	InsightLang *string `json:"insight_lang,omitempty"`
}

// GetPreferences returns the stored display preferences
func (h *ResultsHandler) GetPreferences(c *gin.Context) {
	ctx := c.Request.Context()

	theme, _, err := h.store.Preference(ctx, store.KeyTheme)
	if err != nil {
		h.logger.Warn("failed to load theme preference", zap.Error(err))
	}
	lang, _, err := h.store.Preference(ctx, store.KeyInsightLang)
	if err != nil {
		h.logger.Warn("failed to load language preference", zap.Error(err))
	}

	c.JSON(http.StatusOK, gin.H{"theme": theme, "insight_lang": lang})
}

// PutPreferences stores the provided display preferences
func (h *ResultsHandler) PutPreferences(c *gin.Context) {
	var req preferencesRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{
			Code:    "VALIDATION_ERROR",
			Message: "Invalid request body",
			Details: stringPtr(err.Error()),
		})
		return
	}

	ctx := c.Request.Context()
	if req.Theme != nil {
		if err := h.store.SetPreference(ctx, store.KeyTheme, *req.Theme); err != nil {
			h.logger.Error("failed to store theme preference", zap.Error(err))
			c.JSON(http.StatusInternalServerError, ErrorResponse{
				Code:    "INTERNAL_ERROR",
				Message: "Failed to store preference",
			})
			return
		}
	}
	if req.InsightLang != nil {
		if err := h.store.SetPreference(ctx, store.KeyInsightLang, *req.InsightLang); err != nil {
			h.logger.Error("failed to store language preference", zap.Error(err))
			c.JSON(http.StatusInternalServerError, ErrorResponse{
				Code:    "INTERNAL_ERROR",
				Message: "Failed to store preference",
			})
			return
		}
	}

	c.Status(http.StatusNoContent)
}
