package handlers

import (
	"context"
	"net/http"
	"time"

	"fxconvert/internal/models"

	"github.com/gin-gonic/gin"
)

const healthCheckTimeout = 2 * time.Second

// Pinger is a dependency the health check can probe
type Pinger interface {
	Ping(ctx context.Context) error
}

// HealthHandler reports the health of the API and its configured dependencies
type HealthHandler struct {
	checks map[string]Pinger
}

// NewHealthHandler creates a HealthHandler. Nil checks are reported as disabled.
func NewHealthHandler(checks map[string]Pinger) *HealthHandler {
	return &HealthHandler{checks: checks}
}

// Health godoc
// @Summary Health check
// @Description Returns the health status of the API and its dependencies
// @Tags health
// @Accept json
// @Produce json
// @Success 200 {object} models.HealthResponse
// @Failure 503 {object} models.HealthResponse "A dependency is down"
// @Router /health [get]
func (h *HealthHandler) Health(c *gin.Context) {
	ctx, cancel := context.WithTimeout(c.Request.Context(), healthCheckTimeout)
	defer cancel()

	status := http.StatusOK
	resp := models.HealthResponse{
		Status: models.StatusHealthy,
		Time:   time.Now().UTC(),
	}

	if len(h.checks) > 0 {
		resp.Checks = make(map[string]string, len(h.checks))
	}
	for name, check := range h.checks {
		if check == nil {
			resp.Checks[name] = models.StatusDisabled
			continue
		}
		if err := check.Ping(ctx); err != nil {
			resp.Checks[name] = models.StatusUnhealthy
			resp.Status = models.StatusUnhealthy
			status = http.StatusServiceUnavailable
			continue
		}
		resp.Checks[name] = models.StatusHealthy
	}

	c.JSON(status, resp)
}
