// Package main is the entry point for the StagePlot server.
package main

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"

	"github.com/stageplot/stageplot-go/internal/api"
	"github.com/stageplot/stageplot-go/internal/cache"
	"github.com/stageplot/stageplot-go/internal/config"
	"github.com/stageplot/stageplot-go/internal/database"
	"github.com/stageplot/stageplot-go/internal/database/models"
	"github.com/stageplot/stageplot-go/internal/database/repositories"
	"github.com/stageplot/stageplot-go/internal/services/catalog"
	"github.com/stageplot/stageplot-go/internal/services/plots"
	"github.com/stageplot/stageplot-go/internal/services/pubsub"
	"github.com/stageplot/stageplot-go/internal/services/stages"
)

// Version information (set at build time)
var (
	Version   = "0.1.0"
	BuildTime = "unknown"
	GitCommit = "unknown"
)

func main() {
	// Load .env file if present
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, using environment variables")
	}

	// Load configuration
	cfg := config.Load()
	if err := cfg.Validate(); err != nil {
		log.Fatalf("Invalid configuration: %v", err)
	}
	if cfg.JWTSecret == "" {
		log.Println("Warning: JWT_SECRET is empty, tokens are not secure (development only)")
	}

	// Print startup banner
	printBanner(cfg)

	// Connect to database
	db, err := database.Connect(database.Config{
		URL:         cfg.DatabaseURL,
		MaxIdleConn: 5,
		MaxOpenConn: 10,
		Debug:       cfg.IsDevelopment(),
	})
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}
	defer func() { _ = database.Close() }()

	// Auto-migrate database schema
	log.Println("Running database migrations...")
	if err := db.AutoMigrate(models.AllModels()...); err != nil {
		log.Fatalf("Failed to migrate database: %v", err)
	}
	log.Println("Database migrations complete")

	// Repositories
	categoryRepo := repositories.NewCategoryRepository(db)
	fixtureTypeRepo := repositories.NewFixtureTypeRepository(db)
	stageRepo := repositories.NewStageRepository(db)
	templateRepo := repositories.NewTemplateRepository(db)
	plotRepo := repositories.NewPlotRepository(db)

	// Cache: Redis when configured, otherwise a no-op pass-through
	var plotCache cache.Cache = cache.NewNoop()
	if cfg.CacheEnabled() {
		redisCache, err := cache.NewRedis(context.Background(), cfg.RedisURL)
		if err != nil {
			log.Printf("Warning: Redis unavailable, continuing without cache: %v", err)
		} else {
			defer func() { _ = redisCache.Close() }()
			plotCache = redisCache
			log.Printf("Plot cache enabled (TTL %s)", cfg.CacheTTL)
		}
	}

	// Services
	events := pubsub.New()
	plotService := plots.NewService(plotRepo, stageRepo, fixtureTypeRepo, plotCache, cfg.CacheTTL, events)
	catalogService := catalog.NewService(categoryRepo, fixtureTypeRepo)
	stageService := stages.NewService(stageRepo, templateRepo)

	// Router
	router := api.NewRouter(api.Deps{
		Config:  cfg,
		Plots:   plotService,
		Catalog: catalogService,
		Stages:  stageService,
		Events:  events,
	})
	router.Get("/health", healthCheckHandler)

	// Create HTTP server
	httpServer := &http.Server{
		Addr:         ":" + cfg.Port,
		Handler:      router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	// Start server in goroutine
	go func() {
		log.Printf("Server listening on http://localhost:%s\n", cfg.Port)
		log.Printf("API endpoint: http://localhost:%s/api\n", cfg.Port)
		if err := httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("Server error: %v", err)
		}
	}()

	// Wait for interrupt signal
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Println("Shutting down server...")

	// Graceful shutdown with timeout
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := httpServer.Shutdown(ctx); err != nil {
		log.Fatalf("Server shutdown error: %v", err)
	}

	log.Println("Server stopped")
}

// healthCheckHandler returns the server health status.
func healthCheckHandler(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)

	response := fmt.Sprintf(`{
  "status": "ok",
  "timestamp": "%s",
  "version": "%s",
  "uptime": "N/A"
}`, time.Now().UTC().Format(time.RFC3339), Version)

	_, _ = w.Write([]byte(response))
}

// printBanner prints the startup banner.
func printBanner(cfg *config.Config) {
	fmt.Println("============================================")
	fmt.Println("  StagePlot Server")
	fmt.Printf("  Version: %s\n", Version)
	fmt.Printf("  Build:   %s\n", BuildTime)
	fmt.Printf("  Commit:  %s\n", GitCommit)
	fmt.Println("============================================")
	fmt.Printf("  Environment: %s\n", cfg.Env)
	fmt.Printf("  Port:        %s\n", cfg.Port)
	fmt.Printf("  Database:    %s\n", cfg.DatabaseURL)
	fmt.Printf("  Cache:       %v\n", cfg.CacheEnabled())
	fmt.Println("============================================")
}
