package swop

import (
	"context"
	"fmt"

	"fxconvert/internal/metrics"
	"fxconvert/internal/models"
	"fxconvert/internal/provider"

	"go.uber.org/zap"
)

// ProviderName is the unique identifier for the Swop snapshot provider
const ProviderName = "swop"

// DefaultConfig runs after the ECB reference rates are published on weekdays
func DefaultConfig() provider.Config {
	return provider.Config{
		Schedule: "0 17 * * 1-5",
		Enabled:  true,
	}
}

// Refresher takes a snapshot of the latest rates
type Refresher interface {
	Refresh(ctx context.Context) (models.RateSnapshot, error)
}

// Provider implements provider.Provider by snapshotting all Swop rates
type Provider struct {
	provider.BaseProvider
	refresher Refresher
	metrics   *metrics.Metrics
	logger    *zap.Logger
}

// NewProvider creates the snapshot provider
func NewProvider(refresher Refresher, config provider.Config, m *metrics.Metrics, logger *zap.Logger) *Provider {
	if config.Schedule == "" {
		config.Schedule = DefaultConfig().Schedule
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Provider{
		BaseProvider: provider.NewBaseProvider(config),
		refresher:    refresher,
		metrics:      m,
		logger:       logger,
	}
}

// Name returns the provider's unique identifier
func (p *Provider) Name() string {
	return ProviderName
}

// Run fetches and stores the latest rates of every supported currency
func (p *Provider) Run(ctx context.Context) error {
	snapshot, err := p.refresher.Refresh(ctx)
	p.metrics.Snapshot(err)
	if err != nil {
		return fmt.Errorf("failed to snapshot rates: %w", err)
	}

	p.logger.Info("Stored rate snapshot",
		zap.String("date", snapshot.Date.Format(models.DateLayout)),
		zap.Int("rates", len(snapshot.Rates)))
	return nil
}
