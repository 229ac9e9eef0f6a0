// Package api assembles the Gin router for the canvas backend.
package api

import (
	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/augmented-canvas/canvas-api/internal/agent"
	"github.com/augmented-canvas/canvas-api/internal/api/handlers"
	apimiddleware "github.com/augmented-canvas/canvas-api/internal/api/middleware"
	"github.com/augmented-canvas/canvas-api/internal/canvas"
	"github.com/augmented-canvas/canvas-api/internal/config"
	"github.com/augmented-canvas/canvas-api/internal/flashcards"
	"github.com/augmented-canvas/canvas-api/internal/metrics"
	"github.com/augmented-canvas/canvas-api/internal/services"
)

// SetupRouter wires middleware, handlers, and routes. db and cw may be
// nil when usage logging or CloudWatch metrics are not configured.
func SetupRouter(db *gorm.DB, cfg *config.Config, cw *metrics.Client, version string) *gin.Engine {
	router := gin.New()

	// Recovery middleware (must be first)
	router.Use(apimiddleware.RecoverWithSentry())

	// Sentry middleware for error tracking
	router.Use(apimiddleware.SentryMiddleware())

	// Request tracking and structured logging
	router.Use(apimiddleware.RequestTracking())

	// CORS for the Obsidian webview
	router.Use(apimiddleware.CORS())

	// Health check
	router.GET("/health", handlers.HealthCheck)

	// Metrics endpoint
	metricsHandler := handlers.NewMetricsHandler(version)
	router.GET("/api/metrics", metricsHandler.GetMetrics)

	agentService := agent.NewService(cfg)
	usageService := services.NewUsageService(db)

	var writer *flashcards.Writer
	if cfg.FlashcardsDir != "" {
		writer = flashcards.NewWriter(cfg.FlashcardsDir)
	}

	var resolver canvas.FileResolver
	if cfg.VaultDir != "" {
		resolver = &canvas.VaultResolver{Root: cfg.VaultDir}
	}

	apiGroup := router.Group("/api")
	{
		agentHandler := handlers.NewAgentHandler(agentService, usageService, writer, cw)
		apiGroup.POST("/prompt", agentHandler.Prompt)
		apiGroup.POST("/questions", agentHandler.Questions)
		apiGroup.POST("/flashcards", agentHandler.Flashcards)

		configHandler := handlers.NewModelConfigHandler(agentService)
		apiGroup.GET("/model-config", configHandler.Get)
		apiGroup.POST("/model-config", configHandler.Update)

		canvasService := services.NewCanvasService(agentService, writer, resolver)
		canvasHandler := handlers.NewCanvasHandler(canvasService)
		apiGroup.POST("/canvas/prompt", canvasHandler.Prompt)
		apiGroup.POST("/canvas/questions", canvasHandler.Questions)
		apiGroup.POST("/canvas/flashcards", canvasHandler.Flashcards)
	}

	return router
}
