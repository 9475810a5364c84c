package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/rs/zerolog/log"
	"github.com/zatekoja/learnplan/internal/adapters/cache"
	"github.com/zatekoja/learnplan/internal/adapters/database"
	"github.com/zatekoja/learnplan/internal/adapters/sessions"
	"github.com/zatekoja/learnplan/internal/api/handlers"
	"github.com/zatekoja/learnplan/internal/api/middleware"
	"github.com/zatekoja/learnplan/internal/api/routes"
	"github.com/zatekoja/learnplan/internal/application/services"
	"github.com/zatekoja/learnplan/internal/domain/providers"
	"github.com/zatekoja/learnplan/internal/domain/repositories"
	"github.com/zatekoja/learnplan/internal/infrastructure/clients/aiml"
	"github.com/zatekoja/learnplan/internal/infrastructure/clients/postgres"
	"github.com/zatekoja/learnplan/internal/infrastructure/clients/redis"
	"github.com/zatekoja/learnplan/internal/infrastructure/observability"
	"github.com/zatekoja/learnplan/pkg/config"
)

func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to load configuration: %v\n", err)
		os.Exit(1)
	}

	observability.InitLogger(cfg.OTEL.ServiceName, cfg.Environment)

	// Set up context for graceful shutdown
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Initialize OpenTelemetry if enabled
	if cfg.OTEL.Enabled && cfg.OTEL.Endpoint != "" {
		shutdown, err := observability.Setup(ctx, cfg.OTEL.ServiceName, cfg.OTEL.ServiceVersion, cfg.OTEL.Endpoint)
		if err != nil {
			log.Warn().Err(err).Msg("failed to set up OpenTelemetry")
		} else {
			defer func() {
				ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
				defer cancel()
				if err := shutdown(ctx); err != nil {
					log.Error().Err(err).Msg("error shutting down OpenTelemetry")
				}
			}()
			log.Info().Str("endpoint", cfg.OTEL.Endpoint).Msg("OpenTelemetry initialized")
		}
	}

	metrics, err := observability.InitMetrics()
	if err != nil {
		log.Fatal().Err(err).Msg("failed to initialize metrics")
	}

	// Initialize database client
	pgClient, err := postgres.NewClient(&cfg.Database)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to initialize PostgreSQL client")
	}
	defer pgClient.Close()

	if err := database.EnsureSchema(ctx, pgClient); err != nil {
		log.Fatal().Err(err).Msg("failed to apply database schema")
	}
	log.Info().Str("database", cfg.Database.Database).Msg("PostgreSQL ready")

	// Redis is optional: without it sessions live in process memory and reads are uncached
	var redisClient *redis.Client
	if cfg.Redis.Enabled {
		redisClient, err = redis.NewClient(&cfg.Redis)
		if err != nil {
			log.Warn().Err(err).Msg("Redis unavailable, continuing without cache")
			redisClient = nil
		} else {
			defer redisClient.Close()
			log.Info().Str("addr", cfg.Redis.RedisAddr()).Msg("Redis client initialized")
		}
	}

	var (
		resourceRepo    repositories.ResourceRepository = database.NewResourceAdapter(pgClient)
		sessionStore    providers.SessionStore
		cacheMiddleware *middleware.CacheMiddleware
	)
	if redisClient != nil {
		cacheProvider := cache.NewRedisAdapter(redisClient)
		resourceRepo = database.NewCachedResourceAdapter(resourceRepo, cacheProvider, metrics)
		sessionStore = sessions.NewCacheStore(cacheProvider)
		cacheMiddleware = middleware.NewCacheMiddleware(cacheProvider)
	} else {
		memoryStore := sessions.NewMemoryStore()
		go memoryStore.RunSweeper(ctx, time.Minute)
		sessionStore = memoryStore
	}
	contributorRepo := database.NewContributorAdapter(pgClient)

	// The AI gateway is optional; without a key every plan uses the curated fallback
	var suggestionProvider providers.SuggestionProvider
	if cfg.AIML.APIKey == "" {
		log.Warn().Msg("AIML_API_KEY is not set; plans will use curated resources only")
	} else {
		client, err := aiml.NewClient(&cfg.AIML)
		if err != nil {
			log.Warn().Err(err).Msg("failed to initialize AI gateway")
		} else {
			suggestionProvider = client
			log.Info().Str("model", cfg.AIML.Model).Msg("AI gateway initialized")
		}
	}

	// Initialize services
	planService := services.NewPlanService(resourceRepo, suggestionProvider, cfg.Catalog.CandidatePool)
	planService.SetMetrics(metrics)
	contributorService := services.NewContributorService(contributorRepo, sessionStore, cfg.Auth.SessionTTL)
	resourceService := services.NewResourceService(resourceRepo)

	healthChecks := map[string]handlers.HealthCheck{"postgres": pgClient.Ping}
	if redisClient != nil {
		healthChecks["redis"] = redisClient.Ping
	}

	var rateLimiter *middleware.RateLimiter
	if cfg.Server.RateLimitRPM > 0 {
		rateLimiter = middleware.NewRateLimiter(cfg.Server.RateLimitRPM, cfg.Server.RateLimitBurst)
		go rateLimiter.RunCleanup(ctx, 5*time.Minute)
	}

	router := routes.NewRouter(
		handlers.NewPlanHandler(planService),
		handlers.NewContributorHandler(contributorService),
		handlers.NewResourceHandler(resourceService),
		handlers.NewAdminHandler(resourceService),
		handlers.NewHealthHandler(healthChecks),
		routes.Options{
			Sessions:        contributorService,
			AdminToken:      cfg.Auth.AdminToken,
			AllowedOrigins:  cfg.Server.AllowedOrigins,
			RateLimiter:     rateLimiter,
			CacheMiddleware: cacheMiddleware,
			Metrics:         metrics,
		},
	)

	serverAddr := fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port)
	server := &http.Server{
		Addr:         serverAddr,
		Handler:      router.SetupRoutes(),
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 60 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		log.Info().Str("addr", serverAddr).Msg("server starting")
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal().Err(err).Msg("server failed")
		}
	}()

	// Wait for interrupt signal for graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info().Msg("server shutting down")
	cancel()

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("error during server shutdown")
	}

	log.Info().Msg("server stopped")
}
