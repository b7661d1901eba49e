package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"runtime"
	"strconv"
	"syscall"
	"time"

	"github.com/gorilla/mux"
	"github.com/joho/godotenv"

	"show-status/internal/auth"
	"show-status/internal/cache"
	"show-status/internal/common/logging"
	"show-status/internal/config"
	"show-status/internal/database"
	"show-status/internal/handlers"
	"show-status/internal/llm"
	"show-status/internal/middleware"
	"show-status/internal/redis"
	"show-status/internal/search"
	"show-status/internal/server"
	"show-status/internal/status"
)

func main() {
	_ = godotenv.Load()
	runtime.GOMAXPROCS(runtime.NumCPU())

	cfg := config.Load()
	if err := cfg.Validate(); err != nil {
		log.Fatalf("Invalid configuration: %v", err)
	}

	logging.InitGlobalLogger()
	defer logging.MustSync()
	logger := logging.GetGlobalLogger()

	checks := make(map[string]handlers.HealthChecker)

	// Fast tier. A tier that cannot be reached at startup is skipped, not
	// fatal; the service answers without it.
	var fastTier cache.FastTier
	switch cfg.FastTier {
	case "redis":
		redisDB, _ := strconv.Atoi(cfg.RedisDB)
		poolSize, _ := strconv.Atoi(cfg.RedisPoolSize)
		client, err := redis.NewClient(&redis.Config{
			Address:  cfg.RedisAddress,
			Password: cfg.RedisPassword,
			DB:       redisDB,
			PoolSize: poolSize,
		})
		if err != nil {
			logger.Warn("redis unreachable, running without a fast tier", logging.Err(err))
			break
		}
		defer client.Close()
		fastTier = cache.NewRedisFastTier(client)
		checks["redis"] = client
		logger.Info("fast tier ready", logging.Field{Key: "backend", Value: "redis"})
	case "local":
		fastTier = cache.NewLocalFastTier(time.Minute)
		logger.Info("fast tier ready", logging.Field{Key: "backend", Value: "local"})
	case "off":
		logger.Info("fast tier disabled")
	}

	// Durable tier.
	var durableTier cache.DurableTier
	var sweeper *cache.Sweeper
	switch cfg.DurableTier {
	case "sqlite":
		db, err := database.Init("sqlite3", cfg.DatabasePath)
		if err != nil {
			log.Fatalf("Failed to initialize database: %v", err)
		}
		defer db.Close()
		durableTier = cache.NewSQLDurableTier(db)
		checks["database"] = db
		sweeper = mustSweeper(db, cfg.SweepSchedule, logger)
		logger.Info("durable tier ready", logging.Field{Key: "backend", Value: "sqlite"})
	case "postgres", "postgresql":
		db, err := database.Init("pgx", cfg.PostgresDSN())
		if err != nil {
			log.Fatalf("Failed to initialize database: %v", err)
		}
		defer db.Close()
		durableTier = cache.NewSQLDurableTier(db)
		checks["database"] = db
		sweeper = mustSweeper(db, cfg.SweepSchedule, logger)
		logger.Info("durable tier ready", logging.Field{Key: "backend", Value: "postgres"})
	case "off":
		logger.Info("durable tier disabled")
	}

	policy := cache.NewRetentionPolicy(cfg.FastTTL(), cfg.DurableTTL(), cfg.TerminalSet())
	orchestrator := cache.NewOrchestrator(fastTier, durableTier, policy, logger)

	if sweeper != nil {
		sweeper.Start()
		defer sweeper.Stop()
	}

	searcher := search.NewClient(cfg.SearchAPIURL, cfg.SearchAPIKey)
	model := llm.NewClient(cfg.LLMBaseURL, cfg.LLMAPIKey, cfg.LLMModel)
	service := status.NewService(orchestrator, searcher, model, logger)

	h := handlers.New(service, checks, logger)

	router := mux.NewRouter()
	router.Use(middleware.RequestLogging(logger))

	api := router.PathPrefix("/api").Subrouter()
	api.HandleFunc("/check-status", h.CheckStatus).Methods("POST")
	api.HandleFunc("/generate-briefing", h.GenerateBriefing).Methods("POST")

	// The purge endpoint only exists when a JWT secret is configured.
	if cfg.JWTSecret != "" {
		authMiddleware := auth.New(cfg.JWTSecret)
		api.Handle("/cache/{key}",
			authMiddleware.RequireToken(http.HandlerFunc(h.PurgeCache))).Methods("DELETE")
	}

	router.HandleFunc("/health", h.Health).Methods("GET")

	srv := server.New(router, cfg.Port)
	srv.Start()
	logger.Info("server started", logging.Field{Key: "port", Value: cfg.Port})

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	logger.Info("shutting down")

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		logger.Error("forced shutdown", err)
	}
}

func mustSweeper(db *database.DB, schedule string, logger logging.Logger) *cache.Sweeper {
	sweeper, err := cache.NewSweeper(db, schedule, logger)
	if err != nil {
		log.Fatalf("Invalid SWEEP_SCHEDULE: %v", err)
	}
	return sweeper
}
