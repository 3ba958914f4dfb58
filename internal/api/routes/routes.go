// Package routes handles the setup and configuration of API routes
package routes

import (
	"context"

	_ "fxconvert/docs" // Import swagger docs
	"fxconvert/internal/api/handlers"
	"fxconvert/internal/api/middleware"
	"fxconvert/internal/config"
	"fxconvert/internal/metrics"

	"github.com/gin-gonic/gin"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
	"go.uber.org/zap"
)

// Dependencies are the services the routes are wired to
type Dependencies struct {
	Converter handlers.Converter
	// HealthChecks are probed by /api/health; a nil entry is reported as disabled
	HealthChecks map[string]handlers.Pinger
	Metrics      *metrics.Metrics
	Logger       *zap.Logger
}

// SetupRoutes configures all API routes and their handlers.
// ctx bounds the background work of the rate limiter.
func SetupRoutes(ctx context.Context, cfg *config.Config, deps Dependencies) *gin.Engine {
	logger := deps.Logger
	if logger == nil {
		logger = zap.NewNop()
	}

	r := gin.New()
	r.Use(middleware.RequestID())
	r.Use(middleware.Logger(logger.Named("http"), deps.Metrics))
	r.Use(middleware.Compression(middleware.DefaultCompressionConfig()))
	r.Use(middleware.Recovery(logger.Named("http")))

	// Routes without rate limiting
	r.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))
	if deps.Metrics != nil {
		r.GET("/metrics", gin.WrapH(deps.Metrics.Handler()))
	}

	// Apply rate limiting to all other routes
	r.Use(middleware.NewRateLimiter(ctx, cfg.RateLimit).Middleware())

	conversionHandler := handlers.NewConversionHandler(deps.Converter, logger.Named("conversion"))
	healthHandler := handlers.NewHealthHandler(deps.HealthChecks)

	api := r.Group("/api")
	{
		api.GET("/health", healthHandler.Health)
		api.GET("/conversion", conversionHandler.Convert)
		api.GET("/currencies", conversionHandler.ListCurrencies)
	}

	r.NoRoute(handlers.NotFound)

	return r
}
