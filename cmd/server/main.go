package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/BerylCAtieno/file-forensics-api/internal/cache"
	"github.com/BerylCAtieno/file-forensics-api/internal/config"
	"github.com/BerylCAtieno/file-forensics-api/internal/db"
	"github.com/BerylCAtieno/file-forensics-api/internal/repository"
	"github.com/BerylCAtieno/file-forensics-api/internal/router"
	"github.com/BerylCAtieno/file-forensics-api/internal/services"
	"github.com/BerylCAtieno/file-forensics-api/internal/storage"
	"github.com/BerylCAtieno/file-forensics-api/internal/utils"
)

func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	// Initialize logger
	logger := utils.NewLogger(cfg.LogLevel)

	// Initialize report history
	var repo repository.Repository
	if cfg.DatabasePath != "" {
		database, err := db.NewSQLiteDB(cfg.DatabasePath)
		if err != nil {
			logger.Fatal("Failed to open database", "error", err)
		}
		defer database.Close()

		if err := db.RunMigrations(database); err != nil {
			logger.Fatal("Failed to run migrations", "error", err)
		}
		repo = repository.NewRepository(database)
	} else {
		logger.Info("Report history disabled")
	}

	// Initialize artifact storage
	store, err := storage.New(cfg)
	if err != nil {
		logger.Fatal("Failed to initialize artifact storage", "error", err, "backend", cfg.ArtifactBackend)
	}

	// Initialize result cache
	var resultCache cache.Cache = cache.Noop{}
	if cfg.RedisAddr != "" {
		rc, err := cache.NewRedisCache(cfg)
		if err != nil {
			logger.Warn("Redis unavailable, caching disabled", "error", err, "addr", cfg.RedisAddr)
		} else {
			resultCache = rc
		}
	}

	// Initialize extraction pipeline and report service
	pipeline, err := services.NewPipelineFromConfig(cfg, store, resultCache, logger)
	if err != nil {
		logger.Fatal("Failed to configure extractors", "error", err)
	}
	reportService := services.NewService(pipeline, repo, store, logger)

	// Setup HTTP router
	handler := router.NewRouter(reportService, cfg.MaxFileSize, logger)

	// Create HTTP server
	srv := &http.Server{
		Addr:         ":" + cfg.Port,
		Handler:      handler,
		ReadTimeout:  60 * time.Second,
		WriteTimeout: 120 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	// Start server
	go func() {
		logger.Info("Starting server", "port", cfg.Port)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Fatal("Server failed to start", "error", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info("Shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		logger.Fatal("Server forced to shutdown", "error", err)
	}

	logger.Info("Server exited")
}
