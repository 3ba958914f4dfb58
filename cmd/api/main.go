// Package main provides the entry point for the currency conversion API server
// @title Currency Conversion API
// @version 1.0
// @description Converts amounts between currencies using daily euro reference rates.
// @host localhost:8080
// @BasePath /api
package main

import (
	"context"
	"database/sql"
	"errors"
	"flag"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"fxconvert/internal/api/handlers"
	"fxconvert/internal/api/routes"
	"fxconvert/internal/api/server"
	"fxconvert/internal/config"
	"fxconvert/internal/conversion"
	"fxconvert/internal/database"
	"fxconvert/internal/logging"
	"fxconvert/internal/metrics"
	"fxconvert/internal/provider"
	"fxconvert/internal/provider/swop"
	"fxconvert/internal/rates"
	"fxconvert/internal/rates/cache"
	"fxconvert/internal/repository/postgres"
	"fxconvert/internal/validation"

	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
	"go.uber.org/zap"
)

const cacheJanitorInterval = 5 * time.Minute

func main() {
	// Parse command line flags
	envFile := flag.String("env", ".env", "Path to env file")
	flag.Parse()

	// Load environment file
	envErr := godotenv.Load(*envFile)
	if envErr != nil && *envFile != ".env" {
		fmt.Fprintf(os.Stderr, "Failed to load env file: %v\n", envErr)
		os.Exit(1)
	}

	// Load configuration
	cfg := &config.Config{}
	if err := cfg.LoadFromEnv(); err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load configuration: %v\n", err)
		os.Exit(1)
	}

	logger, err := logging.New(cfg.Log.Level, cfg.Log.Format)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to initialize logger: %v\n", err)
		os.Exit(1)
	}
	defer func() { _ = logger.Sync() }()

	if envErr != nil {
		logger.Warn("No env file loaded", zap.String("path", *envFile), zap.Error(envErr))
	}

	if err := run(cfg, logger); err != nil {
		logger.Error("Server exited with error", zap.Error(err))
		_ = logger.Sync()
		os.Exit(1)
	}
	logger.Info("Server exiting")
}

func run(cfg *config.Config, logger *zap.Logger) error {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	gin.SetMode(cfg.API.Mode)
	validation.Initialize()

	m := metrics.New()

	rateCache, cacheCheck, closeCache, err := setupCache(ctx, cfg.Cache, logger)
	if err != nil {
		return err
	}
	defer closeCache()

	swopClient := swop.NewClient(cfg.Swop,
		swop.WithMetrics(m),
		swop.WithLogger(logger.Named("swop")),
	)

	rateOpts := []rates.Option{
		rates.WithMetrics(m),
		rates.WithLogger(logger.Named("rates")),
		rates.WithTTL(cfg.Cache.RatesTTL, cfg.Cache.CurrenciesTTL),
	}

	// A nil entry reports the database as disabled
	checks := map[string]handlers.Pinger{"database": nil}
	if cacheCheck != nil {
		checks["cache"] = cacheCheck
	}

	if cfg.Database.Enabled {
		db, err := database.SetupDatabase(cfg.Database)
		if err != nil {
			return fmt.Errorf("failed to set up database: %w", err)
		}
		defer func(db *sql.DB) { _ = db.Close() }(db)

		repo := postgres.NewRateRepository(db)
		rateOpts = append(rateOpts, rates.WithStore(repo))
		checks["database"] = repo
		logger.Info("Rate snapshots enabled", zap.String("database", cfg.Database.DBName))
	}

	rateService := rates.NewService(swopClient, rateCache, rateOpts...)
	converter := conversion.NewService(rateService, m, logger.Named("conversion"))

	// Schedule the rate snapshot provider
	providerManager := provider.NewManager(logger.Named("provider"))
	providerManager.RegisterProvider(swop.NewProvider(rateService, provider.Config{
		Schedule: cfg.Provider.Schedule,
		Enabled:  cfg.Provider.Enabled,
	}, m, logger.Named("provider.swop")))

	if cfg.Provider.RunOnStart {
		go func() {
			if err := providerManager.Warm(ctx, swop.ProviderName); err != nil {
				logger.Warn("Startup rate snapshot failed", zap.Error(err))
			}
		}()
	}

	schedulerDone := make(chan error, 1)
	go func() {
		schedulerDone <- providerManager.StartScheduler(ctx)
	}()

	srv, err := server.New(ctx, cfg, routes.Dependencies{
		Converter:    converter,
		HealthChecks: checks,
		Metrics:      m,
		Logger:       logger,
	})
	if err != nil {
		return err
	}

	serverDone := make(chan error, 1)
	go func() {
		serverDone <- srv.Start()
	}()

	select {
	case <-ctx.Done():
		logger.Info("Shutdown signal received")
	case err := <-serverDone:
		if !errors.Is(err, http.ErrServerClosed) {
			return err
		}
	case err := <-schedulerDone:
		if err != nil {
			return fmt.Errorf("provider scheduler failed: %w", err)
		}
	}

	stop()
	if err := srv.Shutdown(context.Background()); err != nil {
		return err
	}
	return nil
}

// setupCache builds the configured rate cache, its health check if it has one, and its cleanup
func setupCache(ctx context.Context, cfg config.CacheConfig, logger *zap.Logger) (cache.Cache, handlers.Pinger, func(), error) {
	switch cfg.Driver {
	case config.CacheDriverRedis:
		rc, err := cache.NewRedisCache(ctx, cfg.RedisURL, cfg.Prefix, logger.Named("cache"))
		if err != nil {
			return nil, nil, nil, fmt.Errorf("failed to set up redis cache: %w", err)
		}
		logger.Info("Using redis rate cache")
		return rc, rc, func() { _ = rc.Close() }, nil
	default:
		mc := cache.NewMemoryCache(logger.Named("cache"))
		mc.StartJanitor(ctx, cacheJanitorInterval)
		logger.Info("Using in-memory rate cache")
		return mc, nil, func() {}, nil
	}
}
