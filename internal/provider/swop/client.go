// Package swop reads euro exchange rates from the Swop GraphQL API
package swop

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"

	"fxconvert/internal/config"
	"fxconvert/internal/metrics"
	"fxconvert/internal/models"
	"fxconvert/internal/rates"

	"github.com/cenkalti/backoff/v4"
	"github.com/shopspring/decimal"
	"github.com/sony/gobreaker"
	"go.uber.org/zap"
	"golang.org/x/sync/semaphore"
)

const (
	baseCurrency    = "EUR"
	breakerInterval = time.Minute

	latestQuery = `query Latest($quoteCurrencies: [String!]) {
  latest(quoteCurrencies: $quoteCurrencies) { baseCurrency quoteCurrency quote date }
}`
	currenciesQuery = `query Currencies($currencyCodes: [String!]) {
  currencies(currencyCodes: $currencyCodes) { code }
}`
)

type graphQLRequest struct {
	Query     string         `json:"query"`
	Variables map[string]any `json:"variables,omitempty"`
}

type graphQLError struct {
	Message string `json:"message"`
}

type graphQLResponse struct {
	Data   json.RawMessage `json:"data"`
	Errors []graphQLError  `json:"errors"`
}

type rateDTO struct {
	BaseCurrency  string          `json:"baseCurrency"`
	QuoteCurrency string          `json:"quoteCurrency"`
	Quote         decimal.Decimal `json:"quote"`
	Date          string          `json:"date"`
}

type currencyDTO struct {
	Code string `json:"code"`
}

// Client calls the Swop API with a timeout, one retry, a circuit breaker and a bulkhead
type Client struct {
	url        string
	apiKey     string
	httpClient *http.Client
	timeout    time.Duration
	maxRetries int
	retryDelay time.Duration
	bulkhead   *semaphore.Weighted
	breaker    *gobreaker.CircuitBreaker
	metrics    *metrics.Metrics
	logger     *zap.Logger
}

// Option configures a Client
type Option func(*Client)

// WithHTTPClient sets the HTTP client
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) { c.httpClient = hc }
}

// WithMetrics records calls and breaker state
func WithMetrics(m *metrics.Metrics) Option {
	return func(c *Client) { c.metrics = m }
}

// WithLogger sets the logger
func WithLogger(logger *zap.Logger) Option {
	return func(c *Client) { c.logger = logger }
}

// NewClient creates a Swop client
func NewClient(cfg config.SwopConfig, opts ...Option) *Client {
	c := &Client{
		url:        cfg.URL,
		apiKey:     cfg.APIKey,
		httpClient: &http.Client{},
		timeout:    cfg.Timeout,
		maxRetries: cfg.MaxRetries,
		retryDelay: cfg.RetryDelay,
		bulkhead:   semaphore.NewWeighted(cfg.MaxConcurrent),
		logger:     zap.NewNop(),
	}
	for _, opt := range opts {
		opt(c)
	}

	minRequests, failureRatio := cfg.BreakerMinRequests, cfg.BreakerFailureRatio
	c.breaker = gobreaker.NewCircuitBreaker(gobreaker.Settings{
		Name:        "swop",
		MaxRequests: 1,
		Interval:    breakerInterval,
		Timeout:     cfg.BreakerOpenTimeout,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			if counts.Requests < minRequests {
				return false
			}
			return float64(counts.TotalFailures)/float64(counts.Requests) >= failureRatio
		},
		// Unusable responses mean Swop is up; they do not count against it
		IsSuccessful: func(err error) bool {
			return err == nil || errors.Is(err, rates.ErrInvalidResponse)
		},
		OnStateChange: func(name string, from, to gobreaker.State) {
			c.logger.Warn("Circuit breaker state changed",
				zap.String("breaker", name),
				zap.String("from", from.String()),
				zap.String("to", to.String()))
			c.metrics.BreakerState(float64(to))
		},
	})
	return c
}

// LatestEuroRates returns the latest rate from EUR to each quote currency
func (c *Client) LatestEuroRates(ctx context.Context, quoteCurrencies ...string) ([]models.EuroRate, error) {
	var data struct {
		Latest []rateDTO `json:"latest"`
	}
	err := c.call(ctx, "latest", graphQLRequest{
		Query:     latestQuery,
		Variables: map[string]any{"quoteCurrencies": quoteCurrencies},
	}, &data)
	if err != nil {
		return nil, err
	}

	out := make([]models.EuroRate, 0, len(data.Latest))
	for _, r := range data.Latest {
		if r.BaseCurrency != baseCurrency {
			return nil, fmt.Errorf("%w: unexpected base currency %q", rates.ErrInvalidResponse, r.BaseCurrency)
		}
		date, err := time.Parse(models.DateLayout, r.Date)
		if err != nil {
			return nil, fmt.Errorf("%w: invalid rate date %q", rates.ErrInvalidResponse, r.Date)
		}
		if !r.Quote.IsPositive() {
			return nil, fmt.Errorf("%w: non-positive quote %s for %s", rates.ErrInvalidResponse, r.Quote, r.QuoteCurrency)
		}
		out = append(out, models.EuroRate{CurrencyCode: r.QuoteCurrency, Rate: r.Quote, Date: date})
	}
	return out, nil
}

// Currencies returns the supported codes among codes, or every supported code when none are given
func (c *Client) Currencies(ctx context.Context, codes ...string) ([]string, error) {
	var vars map[string]any
	if len(codes) > 0 {
		vars = map[string]any{"currencyCodes": codes}
	}

	var data struct {
		Currencies []currencyDTO `json:"currencies"`
	}
	if err := c.call(ctx, "currencies", graphQLRequest{Query: currenciesQuery, Variables: vars}, &data); err != nil {
		return nil, err
	}

	out := make([]string, 0, len(data.Currencies))
	for _, cur := range data.Currencies {
		out = append(out, cur.Code)
	}
	return out, nil
}

// call runs one operation through the bulkhead, retry policy and circuit breaker
func (c *Client) call(ctx context.Context, operation string, req graphQLRequest, dest any) error {
	if !c.bulkhead.TryAcquire(1) {
		return fmt.Errorf("%w: too many concurrent requests", rates.ErrIntegration)
	}
	defer c.bulkhead.Release(1)

	policy := backoff.WithContext(
		backoff.WithMaxRetries(backoff.NewConstantBackOff(c.retryDelay), uint64(c.maxRetries)),
		ctx,
	)

	attempt := func() error {
		_, err := c.breaker.Execute(func() (any, error) {
			return nil, c.post(ctx, req, dest)
		})
		switch {
		case err == nil:
			return nil
		case errors.Is(err, gobreaker.ErrOpenState), errors.Is(err, gobreaker.ErrTooManyRequests):
			return backoff.Permanent(fmt.Errorf("%w: %v", rates.ErrIntegration, err))
		case errors.Is(err, rates.ErrInvalidResponse):
			return backoff.Permanent(err)
		}
		return err
	}

	err := backoff.RetryNotify(attempt, policy, func(err error, wait time.Duration) {
		c.logger.Warn("Retrying Swop request",
			zap.String("operation", operation),
			zap.Duration("wait", wait),
			zap.Error(err))
	})
	c.metrics.SwopRequest(operation, err)
	if err != nil {
		c.logger.Error("Swop request failed", zap.String("operation", operation), zap.Error(err))
		if !errors.Is(err, rates.ErrIntegration) {
			err = fmt.Errorf("%w: %v", rates.ErrIntegration, err)
		}
		return err
	}
	return nil
}

func (c *Client) post(ctx context.Context, gql graphQLRequest, dest any) error {
	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	body, err := json.Marshal(gql)
	if err != nil {
		return fmt.Errorf("failed to encode request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.url, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")
	req.Header.Set("Authorization", "ApiKey "+c.apiKey)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("%w: failed to send request: %v", rates.ErrIntegration, err)
	}
	defer resp.Body.Close()

	payload, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("%w: failed to read response: %v", rates.ErrIntegration, err)
	}
	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("%w: unexpected status code: %d", rates.ErrIntegration, resp.StatusCode)
	}

	var gqlResp graphQLResponse
	if err := json.Unmarshal(payload, &gqlResp); err != nil {
		return fmt.Errorf("%w: failed to decode response: %v", rates.ErrInvalidResponse, err)
	}
	if len(gqlResp.Errors) > 0 {
		return fmt.Errorf("%w: %s", rates.ErrIntegration, gqlResp.Errors[0].Message)
	}
	if err := json.Unmarshal(gqlResp.Data, dest); err != nil {
		return fmt.Errorf("%w: failed to decode data: %v", rates.ErrInvalidResponse, err)
	}
	return nil
}
