package handler

import (
	"github.com/gin-gonic/gin"
)

// RegisterRoutes mounts every endpoint on the router
func RegisterRoutes(r *gin.Engine, wizardH *WizardHandler, resultsH *ResultsHandler, analyzeH *AnalyzeHandler, assistantH *AssistantHandler) {
	r.GET("/health", Health)

	v1 := r.Group("/api/v1")
	{
		wiz := v1.Group("/wizard")
		{
			wiz.POST("/start", wizardH.Start)
			wiz.PUT("/:session/fields", wizardH.UpdateFields)
			wiz.POST("/:session/next", wizardH.Next)
			wiz.POST("/:session/prev", wizardH.Prev)
			wiz.GET("/:session/status", wizardH.Status)
			wiz.POST("/:session/submit", wizardH.Submit)
		}

		v1.GET("/results", resultsH.Latest)
		v1.GET("/results/history", resultsH.History)
		v1.GET("/report/pdf", resultsH.ReportPDF)
		v1.GET("/preferences", resultsH.GetPreferences)
		v1.PUT("/preferences", resultsH.PutPreferences)

		v1.POST("/analyze", analyzeH.Analyze)
		v1.POST("/analyze/step", analyzeH.AnalyzeStep)
		v1.GET("/doctors", analyzeH.Doctors)

		v1.POST("/assistant/chat", assistantH.Chat)
	}
}
