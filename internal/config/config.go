package config

import (
	"fmt"
	"time"

	"github.com/kelseyhightower/envconfig"
)

// Cache drivers
const (
	CacheDriverMemory = "memory"
	CacheDriverRedis  = "redis"
)

// Config represents the application configuration
type Config struct {
	// API contains API server configuration
	API APIConfig `envconfig:"API"`
	// Database contains database configuration
	Database DatabaseConfig `envconfig:"DB"`
	// RateLimit contains per-client rate limiting settings
	RateLimit RateLimitConfig `envconfig:"RATE_LIMIT"`
	// Cache contains rate cache settings
	Cache CacheConfig `envconfig:"CACHE"`
	// Swop contains exchange rate API settings
	Swop SwopConfig `envconfig:"SWOP"`
	// Provider contains the scheduled rate refresh settings
	Provider ProviderConfig `envconfig:"PROVIDER"`
	// Log contains logging settings
	Log LogConfig `envconfig:"LOG"`
}

// APIConfig contains API server settings
type APIConfig struct {
	// Port is the server port to listen on
	Port string `envconfig:"PORT" default:"8080"`
	// ShutdownTimeout bounds graceful shutdown
	ShutdownTimeout time.Duration `envconfig:"SHUTDOWN_TIMEOUT" default:"5s"`
	// Mode is the gin mode (debug, release, test)
	Mode string `envconfig:"MODE" default:"release"`
}

// DatabaseConfig contains database connection settings
type DatabaseConfig struct {
	// Enabled turns on rate snapshots in PostgreSQL
	Enabled bool `envconfig:"ENABLED" default:"false"`
	// Host is the database server hostname
	Host string `envconfig:"HOST" default:"localhost"`
	// Port is the database server port
	Port int `envconfig:"PORT" default:"5432"`
	// User is the database username
	User string `envconfig:"USER" default:"postgres"`
	// Password is the database password
	Password string `envconfig:"PASSWORD" default:"postgres"`
	// DBName is the database name
	DBName string `envconfig:"NAME" default:"fxconvert"`
	// SSLMode is the SSL mode for the database connection
	SSLMode string `envconfig:"SSL_MODE" default:"disable"`
	// MigrationsPath is the path to database migrations
	MigrationsPath string `envconfig:"MIGRATIONS_PATH" default:"migrations"`
}

// RateLimitConfig contains rate limiting settings
type RateLimitConfig struct {
	Requests int `envconfig:"REQUESTS" default:"100"` // Number of requests allowed per window
	Window   int `envconfig:"WINDOW" default:"1"`     // Time window in seconds
	Burst    int `envconfig:"BURST" default:"100"`    // Maximum burst size
}

// CacheConfig contains rate cache settings
type CacheConfig struct {
	// Driver is either "memory" or "redis"
	Driver string `envconfig:"DRIVER" default:"memory"`
	// RedisURL is used by the redis driver
	RedisURL string `envconfig:"REDIS_URL" default:"redis://localhost:6379/0"`
	// Prefix namespaces every cache key
	Prefix string `envconfig:"PREFIX" default:"fxconvert:"`
	// RatesTTL is how long a fetched rate pair is reused
	RatesTTL time.Duration `envconfig:"RATES_TTL" default:"1h"`
	// CurrenciesTTL is how long the supported currency list is reused
	CurrenciesTTL time.Duration `envconfig:"CURRENCIES_TTL" default:"24h"`
}

// SwopConfig contains Swop GraphQL API settings
type SwopConfig struct {
	URL                 string        `envconfig:"API_URL" default:"https://swop.cx/graphql"`
	APIKey              string        `envconfig:"API_KEY"`
	Timeout             time.Duration `envconfig:"TIMEOUT" default:"5s"`
	MaxConcurrent       int64         `envconfig:"MAX_CONCURRENT" default:"10"`
	MaxRetries          int           `envconfig:"MAX_RETRIES" default:"1"`
	RetryDelay          time.Duration `envconfig:"RETRY_DELAY" default:"1s"`
	BreakerMinRequests  uint32        `envconfig:"BREAKER_MIN_REQUESTS" default:"6"`
	BreakerFailureRatio float64       `envconfig:"BREAKER_FAILURE_RATIO" default:"0.5"`
	BreakerOpenTimeout  time.Duration `envconfig:"BREAKER_OPEN_TIMEOUT" default:"5s"`
}

// ProviderConfig contains the rate snapshot schedule
type ProviderConfig struct {
	// Enabled determines if the snapshot provider runs on schedule
	Enabled bool `envconfig:"ENABLED" default:"true"`
	// Schedule in cron format, minute resolution
	Schedule string `envconfig:"SCHEDULE" default:"0 17 * * 1-5"`
	// RunOnStart takes a snapshot once at startup, before the first scheduled run
	RunOnStart bool `envconfig:"RUN_ON_START" default:"true"`
}

// LogConfig contains logging settings
type LogConfig struct {
	Level  string `envconfig:"LEVEL" default:"info"`
	Format string `envconfig:"FORMAT" default:"json"`
}

// LoadFromEnv retrieves configuration from environment variables
func (c *Config) LoadFromEnv() error {
	if err := envconfig.Process("", c); err != nil {
		return fmt.Errorf("failed to process environment: %w", err)
	}
	return c.Validate()
}

// Validate checks required fields and value ranges
func (c *Config) Validate() error {
	if c.Swop.APIKey == "" {
		return fmt.Errorf("SWOP_API_KEY is required")
	}

	switch c.Cache.Driver {
	case CacheDriverMemory:
	case CacheDriverRedis:
		if c.Cache.RedisURL == "" {
			return fmt.Errorf("CACHE_REDIS_URL is required for the redis cache driver")
		}
	default:
		return fmt.Errorf("unknown cache driver %q", c.Cache.Driver)
	}

	if c.RateLimit.Requests <= 0 || c.RateLimit.Window <= 0 {
		return fmt.Errorf("rate limit requests and window must be positive")
	}
	if c.Swop.MaxConcurrent <= 0 {
		return fmt.Errorf("SWOP_MAX_CONCURRENT must be positive")
	}
	return nil
}
