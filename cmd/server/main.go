package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus"

	"acme-explorer-service/internal/domain/entity"
	"acme-explorer-service/internal/domain/repository"
	"acme-explorer-service/internal/infrastructure/config"
	"acme-explorer-service/internal/infrastructure/persistence"
	"acme-explorer-service/internal/infrastructure/router"
	"acme-explorer-service/internal/interface/cache"
	mongoRepo "acme-explorer-service/internal/interface/repository"
	"acme-explorer-service/internal/interface/rest"
	"acme-explorer-service/internal/usecase"
	"acme-explorer-service/pkg/logger"
	"acme-explorer-service/pkg/metrics"
)

const (
	metricsNamespace    = "acme_explorer"
	cacheJanitorEvery   = time.Minute
	shutdownGracePeriod = 10 * time.Second
)

func main() {
	// Load configuration
	cfg, err := config.LoadConfig()
	if err != nil {
		logger.NewLogger().Fatal("Failed to load config", "error", err)
	}

	// Create logger
	log := logger.NewLoggerWithLevel(cfg.LogLevel)
	defer log.Sync()
	log.Info("Starting Acme Explorer service", "version", cfg.AppVersion, "env", cfg.AppEnv)

	// Set up context with cancellation
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	m := metrics.NewMetrics(metricsNamespace, prometheus.DefaultRegisterer)

	// Set up MongoDB connection
	log.Info("Connecting to MongoDB")
	mongoClient, db, err := persistence.NewMongoClient(ctx, cfg.MongoURI, cfg.MongoDB, cfg.MongoUser, cfg.MongoPassword)
	if err != nil {
		log.Fatal("Failed to connect to MongoDB", "error", err)
	}

	if err := mongoRepo.EnsureIndexes(ctx, db); err != nil {
		log.Fatal("Failed to create MongoDB indexes", "error", err)
	}

	// Set up repositories
	finderRepo := mongoRepo.NewMongoFinderRepository(db)
	tripRepo := mongoRepo.NewMongoTripRepository(db)
	applicationRepo := mongoRepo.NewMongoApplicationRepository(db)
	analyticsRepo := mongoRepo.NewMongoAnalyticsRepository(db)
	cubeRepo := mongoRepo.NewMongoDataCubeRepository(db)
	configRepo := mongoRepo.NewMongoConfigurationRepository(db)

	indicatorRepo, err := persistence.NewIndicatorRepository(cfg.IndicatorBackend, db, cfg.PostgresURI)
	if err != nil {
		log.Fatal("Failed to set up indicator store", "backend", cfg.IndicatorBackend, "error", err)
	}

	cacheStore := newCacheStore(ctx, cfg, log)

	// Set up use cases
	settings := usecase.NewSettingsService(configRepo, entity.FinderSettings{
		MaxResults: cfg.MaxResultsFinder,
		CacheTTL:   cfg.TimeCachedFinder,
	}, log)
	resultCache := usecase.NewResultCache(cacheStore, m, log)
	searchService := usecase.NewTripSearchService(finderRepo, tripRepo, resultCache, settings, m, log)
	finderService := usecase.NewFinderService(finderRepo, log)
	tripService := usecase.NewTripService(tripRepo, applicationRepo, log)

	location, err := time.LoadLocation(cfg.SchedulerTimezone)
	if err != nil {
		log.Warn("Unknown scheduler timezone, using local time", "timezone", cfg.SchedulerTimezone, "error", err)
		location = time.Local
	}
	job := usecase.NewWarehouseJob(analyticsRepo, indicatorRepo, m, log)
	scheduler, err := usecase.NewWarehouseScheduler(job, cfg.RebuildPeriod, location, !cfg.IsTest(), m, log)
	if err != nil {
		log.Fatal("Invalid rebuild period", "period", cfg.RebuildPeriod, "error", err)
	}
	if err := scheduler.Start(); err != nil {
		log.Fatal("Failed to start warehouse scheduler", "error", err)
	}
	warehouseService := usecase.NewWarehouseService(indicatorRepo, analyticsRepo, cubeRepo, scheduler, log)

	if cfg.JWTSecret == "" {
		log.Warn("JWT_SECRET is empty, every authenticated request will be rejected")
	}
	api := rest.NewServer(
		finderService,
		searchService,
		tripService,
		warehouseService,
		settings,
		rest.NewAuthenticator(cfg.JWTSecret),
		log,
	)

	server := &http.Server{
		Addr: ":" + cfg.Port,
		Handler: router.New(api, router.Options{
			CORSOrigins: cfg.CORSOrigins,
			Gatherer:    prometheus.DefaultGatherer,
			Logger:      log,
		}),
		ReadTimeout:  cfg.ReadTimeout,
		WriteTimeout: cfg.WriteTimeout,
	}

	// Start HTTP server in a goroutine
	go func() {
		log.Info("Starting HTTP server", "port", cfg.Port)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal("HTTP server error", "error", err)
		}
	}()

	// Wait for interrupt signal
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
	sig := <-sigChan
	log.Info("Received signal", "signal", sig)

	// Graceful shutdown
	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), shutdownGracePeriod)
	defer shutdownCancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Error("HTTP server shutdown error", "error", err)
	}
	scheduler.Stop(shutdownCtx)

	cancel() // Cancel the context to stop all goroutines

	// Disconnect from MongoDB
	if err := mongoClient.Disconnect(shutdownCtx); err != nil {
		log.Error("MongoDB disconnect error", "error", err)
	}

	log.Info("Acme Explorer service stopped")
}

// newCacheStore uses Redis when REDIS_URI is set and falls back to the in-process cache
func newCacheStore(ctx context.Context, cfg *config.Config, log logger.Logger) repository.CacheRepository {
	if cfg.RedisURI != "" {
		client, err := persistence.NewRedisClient(ctx, cfg.RedisURI)
		if err == nil {
			log.Info("Using Redis result cache")
			return cache.NewRedisCache(client)
		}
		log.Warn("Redis unavailable, using in-process result cache", "error", err)
	}

	memory := cache.NewMemoryCache()
	go memory.RunJanitor(ctx, cacheJanitorEvery)
	return memory
}
