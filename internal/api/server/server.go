// Package server provides the HTTP server implementation
package server

// @title           Currency Conversion API
// @version         1.0
// @description     Converts amounts between currencies using daily euro reference rates.
//
// @description.markdown
// All API endpoints are subject to rate limiting per client IP.
// When the limit is exceeded the API answers 429 with the headers
// X-RateLimit-Limit, X-RateLimit-Remaining, X-RateLimit-Reset and Retry-After.
//
// @host            localhost:8080
// @BasePath        /api
//
// @response 429 {object} models.ErrorResponse "Rate limit exceeded"

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"strconv"
	"time"

	"fxconvert/internal/api/routes"
	"fxconvert/internal/config"

	"go.uber.org/zap"
)

const readHeaderTimeout = 10 * time.Second

// Server represents the HTTP server
type Server struct {
	cfg    *config.Config
	srv    *http.Server
	logger *zap.Logger
}

// New creates a new server instance serving the API routes
func New(ctx context.Context, cfg *config.Config, deps routes.Dependencies) (*Server, error) {
	port, err := strconv.Atoi(cfg.API.Port)
	if err != nil || port < 0 || port > 65535 {
		return nil, fmt.Errorf("invalid port number %q", cfg.API.Port)
	}

	logger := deps.Logger
	if logger == nil {
		logger = zap.NewNop()
	}

	return &Server{
		cfg: cfg,
		srv: &http.Server{
			Addr:              net.JoinHostPort("", strconv.Itoa(port)),
			Handler:           routes.SetupRoutes(ctx, cfg, deps),
			ReadHeaderTimeout: readHeaderTimeout,
		},
		logger: logger,
	}, nil
}

// Handler returns the routed handler
func (s *Server) Handler() http.Handler {
	return s.srv.Handler
}

// Start serves until Shutdown is called. It never returns nil.
func (s *Server) Start() error {
	s.logger.Info("Starting server", zap.String("addr", s.srv.Addr))
	if err := s.srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return fmt.Errorf("failed to start server: %w", err)
	}
	return http.ErrServerClosed
}

// Shutdown gives outstanding requests the configured timeout to complete
func (s *Server) Shutdown(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, s.cfg.API.ShutdownTimeout)
	defer cancel()

	s.logger.Info("Shutting down server")
	if err := s.srv.Shutdown(ctx); err != nil {
		return fmt.Errorf("server forced to shutdown: %w", err)
	}
	return nil
}
