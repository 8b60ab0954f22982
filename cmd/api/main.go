package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/NebiyouChanie/pharma-connect-go/internal/adapters/events"
	"github.com/NebiyouChanie/pharma-connect-go/internal/adapters/inventory"
	"github.com/NebiyouChanie/pharma-connect-go/internal/api/handlers"
	"github.com/NebiyouChanie/pharma-connect-go/internal/api/routes"
	"github.com/NebiyouChanie/pharma-connect-go/internal/domain/providers"
	"github.com/NebiyouChanie/pharma-connect-go/internal/infrastructure/clients/redis"
	"github.com/NebiyouChanie/pharma-connect-go/internal/infrastructure/observability"
	"github.com/NebiyouChanie/pharma-connect-go/pkg/config"
)

func main() {

	// Load configuration

	cfg, err := config.Load()
	if err != nil {
		observability.GetLogger().Fatal().Err(err).Msg("failed to load configuration")
	}

	observability.InitLogger(cfg.OTEL.ServiceName, cfg.Env)
	logger := observability.GetLogger()

	// Set up context for graceful shutdown
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Initialize OpenTelemetry if enabled
	if cfg.OTEL.Enabled && cfg.OTEL.Endpoint != "" {
		shutdown, err := observability.Setup(
			ctx,
			cfg.OTEL.ServiceName,
			cfg.OTEL.ServiceVersion,
			cfg.OTEL.Endpoint,
		)
		if err != nil {
			logger.Warn().Err(err).Msg("failed to set up OpenTelemetry")
		} else {
			defer func() {
				ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
				defer cancel()
				if err := shutdown(ctx); err != nil {
					logger.Error().Err(err).Msg("error shutting down OpenTelemetry")
				}
			}()
			logger.Info().Msg("OpenTelemetry initialized successfully")
		}
	}

	// Initialize Redis client if enabled
	var redisClient *redis.Client
	if cfg.Redis.Enabled {
		redisClient, err = redis.NewClient(&cfg.Redis)
		if err != nil {
			logger.Warn().Err(err).Msg("failed to initialize Redis client")
			// Continue without Redis - search analytics is best effort
		} else {
			defer redisClient.Close()
			logger.Info().Msg("Redis client initialized successfully")
		}
	}

	// Initialize event bus for search analytics
	var eventBus providers.EventBus
	if redisClient != nil {
		eventBus = events.NewRedisEventBus(redisClient)
		logger.Info().Msg("event bus initialized successfully")
	} else {
		logger.Info().Msg("event bus disabled (Redis not available)")
	}

	// Consume search events: surface zero-result queries for catalog gaps
	if eventBus != nil {
		searchEvents, err := eventBus.Subscribe(ctx, providers.EventChannelSearches)
		if err != nil {
			logger.Warn().Err(err).Msg("failed to subscribe to search events")
		} else {
			go func() {
				analyticsLogger := observability.ComponentLogger("search-analytics")
				for event := range searchEvents {
					if event.ResultCount == 0 {
						analyticsLogger.Info().
							Str("query", event.Query).
							Str("session_id", event.SessionID).
							Msg("zero-result search")
					}
				}
			}()
		}
	}

	// Seed the in-memory inventory
	store := inventory.NewStore()
	store.SeedDemo()

	// Initialize handlers

	searchHandler := handlers.NewSearchHandler(store)
	cartHandler := handlers.NewCartHandler(store)

	// Set up router

	router := routes.NewRouter(searchHandler, cartHandler)
	handler := router.SetupRoutes()

	// Create HTTP server
	serverAddr := cfg.Server.ServerAddr()
	server := &http.Server{
		Addr:         serverAddr,
		Handler:      handler,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	// Start server in a goroutine
	go func() {
		logger.Info().Str("addr", serverAddr).Msg("server starting")
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Fatal().Err(err).Msg("server failed to start")
		}
	}()

	// Wait for interrupt signal for graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info().Msg("server shutting down")

	// Graceful shutdown with timeout
	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		logger.Error().Err(err).Msg("error during server shutdown")
	}

	// Close event bus
	if eventBus != nil {
		if err := eventBus.Close(); err != nil {
			logger.Error().Err(err).Msg("error closing event bus")
		}
	}

	logger.Info().Msg("server stopped")
}
