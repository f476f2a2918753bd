package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/ovacare/pcos-assistant/internal/analysis"
	"github.com/ovacare/pcos-assistant/internal/assistant"
	"github.com/ovacare/pcos-assistant/internal/cloud"
	"github.com/ovacare/pcos-assistant/internal/config"
	"github.com/ovacare/pcos-assistant/internal/handler"
	"github.com/ovacare/pcos-assistant/internal/middleware"
	"github.com/ovacare/pcos-assistant/internal/pdf"
	"github.com/ovacare/pcos-assistant/internal/service"
	"github.com/ovacare/pcos-assistant/internal/store"
	"github.com/ovacare/pcos-assistant/internal/wizard"
)

var (
	logger *zap.Logger
	cfg    *config.Config
)

func main() {
	// Load configuration
	var err error
	cfg, err = config.Load()
	if err != nil {
		panic("Failed to load configuration: " + err.Error())
	}

	// Initialize Zap logger
	if cfg.Server.Environment == "production" {
		logger, err = zap.NewProduction()
	} else {
		logger, err = zap.NewDevelopment()
	}
	if err != nil {
		panic(err)
	}
	defer logger.Sync()

	logger.Info("Configuration loaded successfully",
		zap.String("environment", cfg.Server.Environment),
		zap.String("port", cfg.Server.Port),
	)

	// Open the local key-value store
	st, err := store.Open(cfg.Store.Path, logger)
	if err != nil {
		logger.Fatal("Failed to open local store", zap.Error(err))
	}
	defer st.Close()

	// Connect the optional cloud mirror. The app stays fully functional
	// on local storage when the cloud is unreachable.
	var cloudStore service.CloudStore
	var cloudConn *cloud.Store
	if cfg.Cloud.URL != "" {
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		cloudConn, err = cloud.Connect(ctx, cfg.Cloud.URL, cfg.Cloud.DatasetTable, logger)
		cancel()
		if err != nil {
			logger.Warn("Cloud store unavailable, continuing local-only", zap.Error(err))
		} else {
			defer cloudConn.Close()
			cloudStore = cloudConn
		}
	}

	// Remote analysis client. Disabled when no base URL is configured.
	analyzer := analysis.NewClient(cfg.Analyzer.BaseURL, cfg.Analyzer.Timeout, logger)

	// Chat assistant. An empty API key selects the disabled capability.
	var chat assistant.Capability = assistant.Disabled{}
	if cfg.Assistant.APIKey != "" {
		client, err := assistant.New(cfg.Assistant.APIKey, cfg.Assistant.BaseURL, cfg.Assistant.Model, logger)
		if err != nil {
			logger.Fatal("Failed to initialize assistant client", zap.Error(err))
		}
		chat = client
	}

	// Initialize PDF generator
	pdfGenerator := pdf.NewGenerator(logger)

	// Initialize services
	pipeline := service.NewSubmissionPipeline(st, cloudStore, analyzer, logger)
	wizardService := service.NewWizardService(st, pipeline, wizard.DefaultAutosaveDelay, logger)
	defer wizardService.Close()

	// Initialize handlers
	wizardHandler := handler.NewWizardHandler(wizardService, logger)
	resultsHandler := handler.NewResultsHandler(st, cloudStore, pdfGenerator, logger)
	analyzeHandler := handler.NewAnalyzeHandler(cloudStore, logger)
	assistantHandler := handler.NewAssistantHandler(chat, st, logger)

	// Set Gin mode
	if cfg.Server.Environment == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	// Initialize Gin router
	r := gin.New()

	// Add recovery middleware (must be first)
	r.Use(middleware.RecoveryMiddleware(logger))

	// Add CORS middleware
	r.Use(cors.New(cors.Config{
		AllowOrigins:     []string{"*"}, // Configure appropriately for production
		AllowMethods:     []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Accept", "Authorization", "X-Request-ID"},
		ExposeHeaders:    []string{"Content-Length", "X-Request-ID", "Content-Disposition"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}))

	// Add request ID middleware
	r.Use(middleware.RequestIDMiddleware())

	// Add request logging middleware
	r.Use(middleware.RequestLoggingMiddleware(logger))

	// Add error logging middleware
	r.Use(middleware.ErrorLoggingMiddleware(logger))

	// Register API handlers
	handler.RegisterRoutes(r, wizardHandler, resultsHandler, analyzeHandler, assistantHandler)

	// Start server with graceful shutdown
	srv := &http.Server{
		Addr:    ":" + cfg.Server.Port,
		Handler: r,
	}

	// Start server in a goroutine
	go func() {
		logger.Info("Starting server", zap.String("port", cfg.Server.Port))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Fatal("Failed to start server", zap.Error(err))
		}
	}()

	// Wait for interrupt signal for graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info("Shutting down server...")

	// Create shutdown context with timeout
	ctx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
	defer cancel()

	// Attempt graceful shutdown
	if err := srv.Shutdown(ctx); err != nil {
		logger.Error("Server forced to shutdown", zap.Error(err))
	}

	logger.Info("Server exited")
}
