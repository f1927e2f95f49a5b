package main

import (
	_ "github.com/joho/godotenv/autoload" // Load .env file automatically

	"context"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"binhoard-api/api/routes"
	"binhoard-api/internal/assistant"
	"binhoard-api/internal/config"
	"binhoard-api/internal/database"
	"binhoard-api/internal/events"
	"binhoard-api/internal/inventory"
	"binhoard-api/pkg/logger"

	"github.com/gin-gonic/gin"
)

func main() {
	// Initialize logger
	logger := logger.New()
	defer logger.Sync()

	// Get the underlying zap logger for services
	zapLogger := logger.SugaredLogger.Desugar()

	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	// Initialize database
	db, err := database.NewPostgresConnection(cfg.Database)
	if err != nil {
		logger.Fatal("Failed to connect to database", "error", err)
	}

	// Run inventory migrations
	if err := inventory.RunMigrations(db); err != nil {
		logger.Fatal("Failed to run inventory migrations", "error", err)
	}

	// Initialize event bus
	eventBus := events.NewEventBus(zapLogger)

	// Initialize services
	repository := inventory.NewGormRepository(db, zapLogger)
	gateway := assistant.NewGateway(cfg.Assistant, zapLogger)
	assistantService := assistant.NewService(eventBus, zapLogger, cfg.Assistant, cfg.Undo, repository, gateway)
	defer assistantService.Close()

	logger.Info("Services initialized",
		"default_provider", cfg.Assistant.DefaultProvider,
		"default_model", cfg.Assistant.DefaultModel)

	// Setup Gin router
	if cfg.Server.Environment == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	router := gin.New()
	routes.SetupRoutes(router, db, logger, cfg, assistantService, repository, eventBus)

	// Create HTTP server
	srv := &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.Server.Port),
		Handler:      router,
		ReadTimeout:  time.Duration(cfg.Server.ReadTimeout) * time.Second,
		WriteTimeout: time.Duration(cfg.Server.WriteTimeout) * time.Second,
	}

	// Start server in goroutine
	go func() {
		logger.Info("Starting server", "port", cfg.Server.Port)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Fatal("Failed to start server", "error", err)
		}
	}()

	// Wait for interrupt signal for graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info("Shutting down server...")

	// Close event bus with timeout
	eventBusCtx, eventBusCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer eventBusCancel()

	go func() {
		if err := eventBus.Close(); err != nil {
			logger.Error("Failed to close event bus", "error", err)
		}
	}()

	select {
	case <-eventBusCtx.Done():
		logger.Warn("Event bus shutdown timed out")
	case <-time.After(5 * time.Second):
		logger.Info("Event bus closed successfully")
	}

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		logger.Fatal("Server forced to shutdown", "error", err)
	}

	logger.Info("Server exited")
}
