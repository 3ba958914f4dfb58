package middleware

import (
	"context"
	"fmt"
	"math"
	"net/http"
	"strings"
	"sync"
	"time"

	"fxconvert/internal/config"
	"fxconvert/internal/models"

	"github.com/gin-gonic/gin"
	"golang.org/x/time/rate"
)

type clientLimiter struct {
	limiter  *rate.Limiter
	lastSeen time.Time
}

// RateLimiter implements per-client rate limiting using token bucket algorithm
type RateLimiter struct {
	limiters map[string]*clientLimiter
	mu       sync.Mutex
	rate     rate.Limit
	burst    int
	cleanup  time.Duration
	idle     time.Duration
	window   int // Store window size for header calculations
	requests int // Store total requests for header calculations
}

// NewRateLimiter creates a new rate limiter middleware. Idle clients are
// forgotten until ctx is cancelled.
func NewRateLimiter(ctx context.Context, cfg config.RateLimitConfig) *RateLimiter {
	burst := cfg.Burst
	if burst <= 0 {
		burst = cfg.Requests
	}

	limiter := &RateLimiter{
		limiters: make(map[string]*clientLimiter),
		rate:     rate.Every(time.Duration(cfg.Window) * time.Second / time.Duration(cfg.Requests)),
		burst:    burst,
		cleanup:  time.Minute,
		idle:     10 * time.Minute,
		window:   cfg.Window,
		requests: cfg.Requests,
	}

	go limiter.cleanupRoutine(ctx)

	return limiter
}

// getLimiter returns a rate limiter for the given key
func (rl *RateLimiter) getLimiter(key string, now time.Time) *rate.Limiter {
	rl.mu.Lock()
	defer rl.mu.Unlock()

	cl, exists := rl.limiters[key]
	if !exists {
		cl = &clientLimiter{limiter: rate.NewLimiter(rl.rate, rl.burst)}
		rl.limiters[key] = cl
	}
	cl.lastSeen = now
	return cl.limiter
}

// cleanupRoutine periodically removes limiters of idle clients
func (rl *RateLimiter) cleanupRoutine(ctx context.Context) {
	ticker := time.NewTicker(rl.cleanup)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case now := <-ticker.C:
			rl.evictIdle(now)
		}
	}
}

func (rl *RateLimiter) evictIdle(now time.Time) {
	rl.mu.Lock()
	defer rl.mu.Unlock()
	for key, cl := range rl.limiters {
		if now.Sub(cl.lastSeen) > rl.idle {
			delete(rl.limiters, key)
		}
	}
}

// Middleware returns a Gin middleware function that implements rate limiting
func (rl *RateLimiter) Middleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		// Skip rate limiting for documentation and scraping
		path := c.Request.URL.Path
		if strings.HasPrefix(path, "/swagger/") || path == "/metrics" {
			c.Next()
			return
		}

		now := time.Now()
		limiter := rl.getLimiter(c.ClientIP(), now)

		// Try to reserve a token
		r := limiter.ReserveN(now, 1)
		if !r.OK() {
			rl.reject(c, now, time.Duration(rl.window)*time.Second)
			return
		}

		if delay := r.DelayFrom(now); delay > 0 {
			r.CancelAt(now)
			rl.reject(c, now, delay)
			return
		}

		// Calculate remaining tokens
		tokens := int(limiter.TokensAt(now))
		if tokens > rl.requests {
			tokens = rl.requests
		}

		c.Header("X-RateLimit-Limit", fmt.Sprintf("%d", rl.requests))
		c.Header("X-RateLimit-Remaining", fmt.Sprintf("%d", tokens))
		c.Header("X-RateLimit-Reset", fmt.Sprintf("%d", now.Add(time.Duration(rl.window)*time.Second).Unix()))

		c.Next()
	}
}

func (rl *RateLimiter) reject(c *gin.Context, now time.Time, wait time.Duration) {
	seconds := int(math.Ceil(wait.Seconds()))
	if seconds < 1 {
		seconds = 1
	}

	c.Header("X-RateLimit-Limit", fmt.Sprintf("%d", rl.requests))
	c.Header("X-RateLimit-Remaining", "0")
	c.Header("X-RateLimit-Reset", fmt.Sprintf("%d", now.Add(wait).Unix()))
	c.Header("Retry-After", fmt.Sprintf("%d", seconds))
	c.AbortWithStatusJSON(http.StatusTooManyRequests, models.ErrorResponse{
		Code:    models.CodeTooManyRequests,
		Message: fmt.Sprintf("Too many requests. Try again in about %d seconds", seconds),
	})
}
