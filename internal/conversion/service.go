// Package conversion converts amounts between currencies through euro cross rates
package conversion

import (
	"context"
	"fmt"
	"strings"
	"time"

	"fxconvert/internal/metrics"
	"fxconvert/internal/models"
	"fxconvert/internal/rates"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

// Field names reported in validation errors
const (
	FieldSourceCurrency = "sourceCurrency"
	FieldTargetCurrency = "targetCurrency"
	FieldAmount         = "amount"
)

const (
	// euroScale is the precision of the intermediate euro amount
	euroScale = 10
	// resultScale is the precision of converted amounts
	resultScale = 2
)

// ValidationError reports request values the service cannot convert
type ValidationError struct {
	Message string
	Fields  []string
}

func (e *ValidationError) Error() string {
	return e.Message
}

// RateSource provides currency support checks and euro rates
type RateSource interface {
	FindCurrencies(ctx context.Context, codes ...string) ([]string, error)
	EuroRates(ctx context.Context, source, target string) (models.EuroRates, error)
	SupportedCurrencies(ctx context.Context) ([]string, error)
}

// Result is a converted amount and the date of the rates used
type Result struct {
	ConvertedAmount decimal.Decimal
	Date            time.Time
}

// Service converts currency amounts
type Service struct {
	rates   RateSource
	metrics *metrics.Metrics
	logger  *zap.Logger
}

// NewService creates a conversion service
func NewService(source RateSource, m *metrics.Metrics, logger *zap.Logger) *Service {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Service{rates: source, metrics: m, logger: logger}
}

// Convert converts amount from source to target. Codes are matched case-insensitively.
func (s *Service) Convert(ctx context.Context, source, target string, amount decimal.Decimal) (Result, error) {
	source = strings.ToUpper(strings.TrimSpace(source))
	target = strings.ToUpper(strings.TrimSpace(target))

	result, err := s.convert(ctx, source, target, amount)
	s.metrics.Conversion(outcome(err))
	return result, err
}

func (s *Service) convert(ctx context.Context, source, target string, amount decimal.Decimal) (Result, error) {
	if !amount.IsPositive() {
		return Result{}, &ValidationError{Message: "Amount must be greater than 0", Fields: []string{FieldAmount}}
	}

	if err := s.validateCurrencies(ctx, source, target); err != nil {
		return Result{}, err
	}

	euroRates, err := s.rates.EuroRates(ctx, source, target)
	if err != nil {
		return Result{}, fmt.Errorf("failed to get rates for %s/%s: %w", source, target, err)
	}

	if !euroRates.Source.Rate.IsPositive() || !euroRates.Target.Rate.IsPositive() {
		return Result{}, fmt.Errorf("%w: non-positive rate for %s/%s", rates.ErrInvalidResponse, source, target)
	}

	converted := Cross(amount, euroRates.Source.Rate, euroRates.Target.Rate)
	s.logger.Debug("Converted amount",
		zap.String("source", source),
		zap.String("target", target),
		zap.String("amount", amount.String()),
		zap.String("converted", converted.StringFixed(resultScale)),
		zap.Time("date", euroRates.Date))

	return Result{ConvertedAmount: converted, Date: euroRates.Date}, nil
}

// Cross converts amount through EUR: amount / sourceRate rounded half-up to 10 places,
// times targetRate, rounded half-up to 2 places
func Cross(amount, sourceRate, targetRate decimal.Decimal) decimal.Decimal {
	inEuro := amount.DivRound(sourceRate, euroScale)
	return inEuro.Mul(targetRate).Round(resultScale)
}

func (s *Service) validateCurrencies(ctx context.Context, source, target string) error {
	found, err := s.rates.FindCurrencies(ctx, source, target)
	if err != nil {
		return fmt.Errorf("failed to validate currencies: %w", err)
	}

	supported := make(map[string]bool, len(found))
	for _, code := range found {
		supported[code] = true
	}

	switch {
	case !supported[source] && !supported[target]:
		return &ValidationError{
			Message: "Source and target currencies are not valid",
			Fields:  []string{FieldSourceCurrency, FieldTargetCurrency},
		}
	case !supported[source]:
		return &ValidationError{Message: "Source currency is not valid", Fields: []string{FieldSourceCurrency}}
	case !supported[target]:
		return &ValidationError{Message: "Target currency is not valid", Fields: []string{FieldTargetCurrency}}
	}
	return nil
}

// SupportedCurrencies lists every currency that can be converted
func (s *Service) SupportedCurrencies(ctx context.Context) ([]string, error) {
	return s.rates.SupportedCurrencies(ctx)
}

func outcome(err error) string {
	if err == nil {
		return "success"
	}
	if _, ok := err.(*ValidationError); ok {
		return "validation_error"
	}
	return "error"
}
