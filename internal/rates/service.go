// Package rates looks up euro exchange rates with caching and a stored fallback
package rates

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"
	"time"

	"fxconvert/internal/metrics"
	"fxconvert/internal/models"
	"fxconvert/internal/rates/cache"

	"go.uber.org/zap"
	"golang.org/x/sync/singleflight"
)

const (
	keyAllCurrencies = "currencies:all"
	keySnapshot      = "snapshot:latest"

	// sharedFetchTimeout bounds a fetch that outlives the caller that started it
	sharedFetchTimeout = time.Minute
)

// Fetcher reads rates from the exchange rate API. Rates are quoted against EUR.
type Fetcher interface {
	// LatestEuroRates returns the latest rate of each quote currency
	LatestEuroRates(ctx context.Context, quoteCurrencies ...string) ([]models.EuroRate, error)
	// Currencies returns the supported codes among codes, or all supported codes when none are given
	Currencies(ctx context.Context, codes ...string) ([]string, error)
}

// Store persists rate snapshots
type Store interface {
	SaveSnapshot(ctx context.Context, snapshot models.RateSnapshot) error
	// LatestSnapshot returns an error when nothing is stored
	LatestSnapshot(ctx context.Context) (models.RateSnapshot, error)
}

// Service serves rate lookups from the cache, the exchange rate API and the store, in that order
type Service struct {
	fetcher       Fetcher
	cache         cache.Cache
	store         Store
	metrics       *metrics.Metrics
	logger        *zap.Logger
	ratesTTL      time.Duration
	currenciesTTL time.Duration
	group         singleflight.Group
	now           func() time.Time
}

// Option configures a Service
type Option func(*Service)

// WithStore enables the stored snapshot fallback
func WithStore(store Store) Option {
	return func(s *Service) { s.store = store }
}

// WithMetrics records lookups
func WithMetrics(m *metrics.Metrics) Option {
	return func(s *Service) { s.metrics = m }
}

// WithLogger sets the logger
func WithLogger(logger *zap.Logger) Option {
	return func(s *Service) { s.logger = logger }
}

// WithTTL sets how long rates and currency lists are cached
func WithTTL(rates, currencies time.Duration) Option {
	return func(s *Service) {
		s.ratesTTL = rates
		s.currenciesTTL = currencies
	}
}

// NewService creates a rate service
func NewService(fetcher Fetcher, c cache.Cache, opts ...Option) *Service {
	s := &Service{
		fetcher:       fetcher,
		cache:         c,
		logger:        zap.NewNop(),
		ratesTTL:      time.Hour,
		currenciesTTL: 24 * time.Hour,
		now:           time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// EuroRates returns the euro rates of source and target, fixed on the same date
func (s *Service) EuroRates(ctx context.Context, source, target string) (models.EuroRates, error) {
	key := "rates:" + source + ":" + target

	var rates models.EuroRates
	if s.cacheGet(ctx, key, &rates) {
		s.metrics.RateLookup(metrics.SourceCache)
		return rates, nil
	}

	v, err := s.shared(ctx, key, func(ctx context.Context) (any, error) {
		return s.liveEuroRates(ctx, source, target)
	})
	if err == nil {
		rates = v.(models.EuroRates)
		s.metrics.RateLookup(metrics.SourceLive)
		s.cacheSet(ctx, key, rates, s.ratesTTL)
		return rates, nil
	}

	if !errors.Is(err, ErrIntegration) || errors.Is(err, ErrInvalidResponse) {
		return models.EuroRates{}, err
	}

	snapshot, serr := s.snapshot(ctx)
	if serr != nil {
		return models.EuroRates{}, err
	}
	stored, ferr := pairFrom(snapshot.Rates, source, target)
	if ferr != nil {
		return models.EuroRates{}, err
	}

	s.logger.Warn("Serving stored rates",
		zap.String("source", source),
		zap.String("target", target),
		zap.Time("date", stored.Date),
		zap.Error(err))
	s.metrics.RateLookup(metrics.SourceStore)
	return stored, nil
}

func (s *Service) liveEuroRates(ctx context.Context, source, target string) (models.EuroRates, error) {
	s.logger.Info("Fetching euro rates", zap.String("source", source), zap.String("target", target))

	quotes, err := s.fetcher.LatestEuroRates(ctx, source, target)
	if err != nil {
		return models.EuroRates{}, fmt.Errorf("failed to get exchange rates: %w", err)
	}
	return pairFrom(quotes, source, target)
}

// pairFrom picks the source and target rates out of a response
func pairFrom(quotes []models.EuroRate, source, target string) (models.EuroRates, error) {
	sourceRate, err := findRate(quotes, source)
	if err != nil {
		return models.EuroRates{}, err
	}
	targetRate, err := findRate(quotes, target)
	if err != nil {
		return models.EuroRates{}, err
	}
	if !sourceRate.Date.Equal(targetRate.Date) {
		return models.EuroRates{}, fmt.Errorf("%w: dates of rates are different (%s, %s)",
			ErrInvalidResponse,
			sourceRate.Date.Format(models.DateLayout),
			targetRate.Date.Format(models.DateLayout))
	}
	return models.EuroRates{Source: sourceRate, Target: targetRate, Date: sourceRate.Date}, nil
}

func findRate(quotes []models.EuroRate, code string) (models.EuroRate, error) {
	for _, q := range quotes {
		if q.CurrencyCode == code {
			return q, nil
		}
	}
	return models.EuroRate{}, fmt.Errorf("%w: given currency code '%s'", ErrCurrencyNotFound, code)
}

// FindCurrencies returns which of codes are supported
func (s *Service) FindCurrencies(ctx context.Context, codes ...string) ([]string, error) {
	sorted := append([]string(nil), codes...)
	sort.Strings(sorted)
	key := "currencies:" + strings.Join(sorted, ",")

	var found []string
	if s.cacheGet(ctx, key, &found) {
		return found, nil
	}

	v, err := s.shared(ctx, key, func(ctx context.Context) (any, error) {
		s.logger.Info("Validating currencies", zap.Strings("codes", codes))
		return s.fetcher.Currencies(ctx, codes...)
	})
	if err == nil {
		found = v.([]string)
		s.cacheSet(ctx, key, found, s.currenciesTTL)
		return found, nil
	}

	snapshot, serr := s.snapshot(ctx)
	if serr != nil || !errors.Is(err, ErrIntegration) {
		return nil, fmt.Errorf("failed to get supported currencies for codes %v: %w", codes, err)
	}
	s.logger.Warn("Validating currencies against stored rates", zap.Error(err))
	return intersect(codes, snapshotCodes(snapshot)), nil
}

// SupportedCurrencies returns every supported currency code, sorted
func (s *Service) SupportedCurrencies(ctx context.Context) ([]string, error) {
	var codes []string
	if s.cacheGet(ctx, keyAllCurrencies, &codes) {
		return codes, nil
	}

	v, err := s.shared(ctx, keyAllCurrencies, func(ctx context.Context) (any, error) {
		s.logger.Info("Retrieving all supported currencies")
		all, err := s.fetcher.Currencies(ctx)
		if err != nil {
			return nil, err
		}
		sorted := append([]string(nil), all...)
		sort.Strings(sorted)
		return sorted, nil
	})
	if err == nil {
		codes = v.([]string)
		s.cacheSet(ctx, keyAllCurrencies, codes, s.currenciesTTL)
		return codes, nil
	}

	snapshot, serr := s.snapshot(ctx)
	if serr != nil || !errors.Is(err, ErrIntegration) {
		return nil, fmt.Errorf("failed to get all supported currencies: %w", err)
	}
	return snapshotCodes(snapshot), nil
}

// shared runs fn once for all concurrent callers of key. fn gets a context
// detached from the caller's cancellation, so one caller going away does not
// fail the others. Each caller still stops waiting when its own ctx is done.
func (s *Service) shared(ctx context.Context, key string, fn func(ctx context.Context) (any, error)) (any, error) {
	ch := s.group.DoChan(key, func() (any, error) {
		fetchCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), sharedFetchTimeout)
		defer cancel()
		return fn(fetchCtx)
	})

	select {
	case res := <-ch:
		return res.Val, res.Err
	case <-ctx.Done():
		return nil, ctx.Err()
	}
}

// Refresh fetches the latest rates of all supported currencies, stores them and warms the cache
func (s *Service) Refresh(ctx context.Context) (models.RateSnapshot, error) {
	all, err := s.fetcher.Currencies(ctx)
	if err != nil {
		return models.RateSnapshot{}, fmt.Errorf("failed to get supported currencies: %w", err)
	}
	if len(all) == 0 {
		return models.RateSnapshot{}, fmt.Errorf("%w: no supported currencies", ErrInvalidResponse)
	}

	quotes, err := s.fetcher.LatestEuroRates(ctx, all...)
	if err != nil {
		return models.RateSnapshot{}, fmt.Errorf("failed to get exchange rates: %w", err)
	}
	if len(quotes) == 0 {
		return models.RateSnapshot{}, fmt.Errorf("%w: no rates", ErrInvalidResponse)
	}

	snapshot := models.RateSnapshot{
		Date:      latestDate(quotes),
		Rates:     quotes,
		FetchedAt: s.now().UTC(),
	}

	if s.store != nil {
		if err := s.store.SaveSnapshot(ctx, snapshot); err != nil {
			return models.RateSnapshot{}, fmt.Errorf("failed to save snapshot: %w", err)
		}
	}

	codes := append([]string(nil), all...)
	sort.Strings(codes)
	s.cacheSet(ctx, keyAllCurrencies, codes, s.currenciesTTL)
	s.cacheSet(ctx, keySnapshot, snapshot, s.currenciesTTL)

	s.logger.Info("Refreshed rates",
		zap.Int("currencies", len(quotes)),
		zap.Time("date", snapshot.Date))
	return snapshot, nil
}

// snapshot returns the most recent snapshot from the cache or the store
func (s *Service) snapshot(ctx context.Context) (models.RateSnapshot, error) {
	var snapshot models.RateSnapshot
	if s.cacheGet(ctx, keySnapshot, &snapshot) {
		return snapshot, nil
	}
	if s.store == nil {
		return models.RateSnapshot{}, ErrNoSnapshot
	}
	snapshot, err := s.store.LatestSnapshot(ctx)
	if err != nil {
		return models.RateSnapshot{}, err
	}
	s.cacheSet(ctx, keySnapshot, snapshot, s.ratesTTL)
	return snapshot, nil
}

func (s *Service) cacheGet(ctx context.Context, key string, dest any) bool {
	found, err := s.cache.Get(ctx, key, dest)
	if err != nil {
		s.logger.Warn("Cache read failed", zap.String("key", key), zap.Error(err))
		return false
	}
	return found
}

func (s *Service) cacheSet(ctx context.Context, key string, value any, ttl time.Duration) {
	if err := s.cache.Set(ctx, key, value, ttl); err != nil {
		s.logger.Warn("Cache write failed", zap.String("key", key), zap.Error(err))
	}
}

func snapshotCodes(snapshot models.RateSnapshot) []string {
	codes := make([]string, 0, len(snapshot.Rates))
	for _, r := range snapshot.Rates {
		codes = append(codes, r.CurrencyCode)
	}
	sort.Strings(codes)
	return codes
}

func intersect(codes, supported []string) []string {
	set := make(map[string]bool, len(supported))
	for _, c := range supported {
		set[c] = true
	}
	found := make([]string, 0, len(codes))
	for _, c := range codes {
		if set[c] {
			found = append(found, c)
		}
	}
	return found
}

func latestDate(quotes []models.EuroRate) time.Time {
	var latest time.Time
	for _, q := range quotes {
		if q.Date.After(latest) {
			latest = q.Date
		}
	}
	return latest
}
