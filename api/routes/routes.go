package routes

import (
	"binhoard-api/api/handlers"
	"binhoard-api/api/middleware"
	"binhoard-api/internal/assistant"
	"binhoard-api/internal/config"
	"binhoard-api/internal/events"
	"binhoard-api/internal/inventory"
	"binhoard-api/pkg/logger"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

func SetupRoutes(router *gin.Engine, db *gorm.DB, logger *logger.Logger, cfg *config.Config, assistantService assistant.Service, repo inventory.Repository, eventBus events.EventBus) {
	// Add middleware
	router.Use(middleware.RequestLogging(logger))
	router.Use(gin.Recovery())

	// Initialize handlers
	healthHandler := handlers.NewHealthHandler(db, logger)
	assistantHandler := handlers.NewAssistantHandler(assistantService, logger)
	inventoryHandler := handlers.NewInventoryHandler(repo, eventBus, logger)
	rateLimiter := middleware.NewRateLimiter(cfg.RateLimit, logger)

	// Setup routes
	v1 := router.Group("/api/v1")
	{
		v1.GET("/health", healthHandler.Check)

		// Assistant pipeline, behind the per-user rate limit
		assistantGroup := v1.Group("/assistant")
		assistantGroup.Use(rateLimiter.Handler())
		{
			assistantGroup.POST("/command", assistantHandler.Command)
			assistantGroup.POST("/execute", assistantHandler.Execute)
			assistantGroup.POST("/cancel", assistantHandler.Cancel)
			assistantGroup.POST("/undo/:token", assistantHandler.Undo)
			assistantGroup.POST("/analyze-photo", assistantHandler.AnalyzePhoto)
			assistantGroup.POST("/dictate-items", assistantHandler.DictateItems)
			assistantGroup.POST("/test-connection", assistantHandler.TestConnection)
		}

		// Direct inventory CRUD
		v1.GET("/locations/:locationID/bins", inventoryHandler.ListBins)
		v1.POST("/locations/:locationID/bins", inventoryHandler.CreateBin)
		v1.GET("/locations/:locationID/areas", inventoryHandler.ListAreas)
		v1.POST("/locations/:locationID/areas", inventoryHandler.CreateArea)
		v1.GET("/bins/:binID", inventoryHandler.GetBin)
		v1.PUT("/bins/:binID", inventoryHandler.UpdateBin)
		v1.DELETE("/bins/:binID", inventoryHandler.DeleteBin)
	}

	// Root health check
	router.GET("/health", healthHandler.Check)
}
