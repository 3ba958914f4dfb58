// Package provider schedules jobs that pull data from external sources
package provider

import (
	"context"
	"errors"
	"fmt"

	"github.com/robfig/cron/v3"
	"go.uber.org/zap"
)

// Config represents the configuration for a provider
type Config struct {
	// Schedule in cron format (e.g. "0 17 * * 1-5" for 17:00 on weekdays)
	Schedule string `json:"schedule"`
	// Enabled determines if the provider should run on schedule
	Enabled bool `json:"enabled"`
}

// Provider is the interface that all data providers must implement
type Provider interface {
	// Name returns the unique name of the provider
	Name() string
	// Run executes the provider's data fetching and storing logic
	Run(ctx context.Context) error
	// GetConfig returns the provider's configuration
	GetConfig() Config
}

// BaseProvider contains common functionality for all providers
type BaseProvider struct {
	config Config
}

// NewBaseProvider creates a new BaseProvider
func NewBaseProvider(config Config) BaseProvider {
	return BaseProvider{config: config}
}

// GetConfig returns the provider's configuration
func (p *BaseProvider) GetConfig() Config {
	return p.config
}

// Manager handles the scheduling and execution of providers
type Manager struct {
	providers []Provider
	cron      *cron.Cron
	logger    *zap.Logger
}

// NewManager creates a new provider manager
func NewManager(logger *zap.Logger) *Manager {
	if logger == nil {
		logger = zap.NewNop()
	}

	// Create a new cron scheduler with seconds disabled
	c := cron.New(cron.WithParser(cron.NewParser(
		cron.Minute | cron.Hour | cron.Dom | cron.Month | cron.Dow,
	)))

	return &Manager{
		providers: make([]Provider, 0),
		cron:      c,
		logger:    logger,
	}
}

// RegisterProvider adds a provider to the manager
func (m *Manager) RegisterProvider(p Provider) {
	m.providers = append(m.providers, p)
}

// GetProvider returns a provider by name
func (m *Manager) GetProvider(name string) (Provider, bool) {
	for _, p := range m.providers {
		if p.Name() == name {
			return p, true
		}
	}
	return nil, false
}

// RunProvider executes a specific provider by name
func (m *Manager) RunProvider(ctx context.Context, name string) error {
	provider, found := m.GetProvider(name)
	if !found {
		return ErrProviderNotFound
	}

	if !provider.GetConfig().Enabled {
		return fmt.Errorf("%w: %s", ErrProviderDisabled, name)
	}

	return provider.Run(ctx)
}

// Warm runs the named providers once, in order. Disabled providers are
// skipped; every other failure is collected into the returned error.
func (m *Manager) Warm(ctx context.Context, names ...string) error {
	var errs []error
	for _, name := range names {
		err := m.RunProvider(ctx, name)
		switch {
		case errors.Is(err, ErrProviderDisabled):
			m.logger.Info("Provider is disabled, skipping warm-up run", zap.String("provider", name))
		case err != nil:
			errs = append(errs, fmt.Errorf("provider %s: %w", name, err))
		default:
			m.logger.Info("Provider warm-up run finished", zap.String("provider", name))
		}
	}
	return errors.Join(errs...)
}

// StartScheduler starts all enabled providers on their configured schedules
// and blocks until ctx is cancelled
func (m *Manager) StartScheduler(ctx context.Context) error {
	for _, p := range m.providers {
		config := p.GetConfig()
		if !config.Enabled {
			m.logger.Info("Provider is disabled, skipping scheduler", zap.String("provider", p.Name()))
			continue
		}

		if config.Schedule == "" {
			return fmt.Errorf("provider %s has no schedule configured", p.Name())
		}

		provider := p
		_, err := m.cron.AddFunc(config.Schedule, func() {
			m.logger.Info("Running scheduled execution of provider", zap.String("provider", provider.Name()))
			if err := provider.Run(ctx); err != nil {
				m.logger.Error("Error running provider", zap.String("provider", provider.Name()), zap.Error(err))
			}
		})
		if err != nil {
			return fmt.Errorf("failed to schedule provider %s: %w", p.Name(), err)
		}

		m.logger.Info("Scheduled provider",
			zap.String("provider", p.Name()),
			zap.String("schedule", config.Schedule))
	}

	m.cron.Start()
	m.logger.Info("Provider scheduler started")

	<-ctx.Done()
	m.logger.Info("Stopping provider scheduler")
	<-m.cron.Stop().Done()

	return nil
}
