package client

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

const (
	conversionPath = "/api/conversion"
	currenciesPath = "/api/currencies"
	maxBodyBytes   = 1 << 20
)

// Client issues lookups against the conversion API
type Client struct {
	baseURL    string
	httpClient *http.Client
	logger     *zap.Logger
}

// Option configures a Client
type Option func(*Client)

// WithHTTPClient replaces the default HTTP client
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) {
		c.httpClient = hc
	}
}

// WithLogger sets the logger used for request diagnostics
func WithLogger(logger *zap.Logger) Option {
	return func(c *Client) {
		c.logger = logger
	}
}

// New creates a client for the API at baseURL
func New(baseURL string, opts ...Option) *Client {
	c := &Client{
		baseURL:    strings.TrimRight(baseURL, "/"),
		httpClient: http.DefaultClient,
		logger:     zap.NewNop(),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

type conversionBody struct {
	Date            string          `json:"date"`
	ConvertedAmount decimal.Decimal `json:"convertedAmount"`
}

type errorBody struct {
	Message string   `json:"message"`
	Fields  []string `json:"fields"`
}

// Convert performs one lookup. Failures are always *ConversionError.
func (c *Client) Convert(ctx context.Context, req ConversionRequest) (ConversionResult, error) {
	if err := req.Validate(); err != nil {
		return ConversionResult{}, &ConversionError{Kind: KindGeneric, Message: DefaultErrorMessage, Err: err}
	}

	params := url.Values{}
	params.Set("sourceCurrency", req.SourceCurrency)
	params.Set("targetCurrency", req.TargetCurrency)
	params.Set("amount", req.WireAmount())

	reqURL := fmt.Sprintf("%s%s?%s", c.baseURL, conversionPath, params.Encode())

	status, body, err := c.get(ctx, reqURL)
	if err != nil {
		c.logger.Warn("conversion request failed", zap.String("url", reqURL), zap.Error(err))
		return ConversionResult{}, &ConversionError{Kind: KindGeneric, Message: DefaultErrorMessage, Err: err}
	}

	c.logger.Debug("conversion response", zap.String("url", reqURL), zap.Int("status", status))

	switch {
	case status >= 200 && status < 300:
		var resp conversionBody
		if err := json.Unmarshal(body, &resp); err != nil {
			return ConversionResult{}, &ConversionError{
				Kind:       KindGeneric,
				Message:    DefaultErrorMessage,
				StatusCode: status,
				Err:        fmt.Errorf("failed to decode response: %w", err),
			}
		}
		return ConversionResult{
			ConvertedAmount: resp.ConvertedAmount.String(),
			Date:            resp.Date,
		}, nil
	case status == http.StatusBadRequest:
		return ConversionResult{}, classifyError(status, body, KindValidation)
	default:
		return ConversionResult{}, classifyError(status, body, KindGeneric)
	}
}

// Currencies lists the currency codes the server can convert between
func (c *Client) Currencies(ctx context.Context) ([]string, error) {
	status, body, err := c.get(ctx, c.baseURL+currenciesPath)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch currencies: %w", err)
	}
	if status != http.StatusOK {
		return nil, classifyError(status, body, KindGeneric)
	}

	var codes []string
	if err := json.Unmarshal(body, &codes); err != nil {
		return nil, fmt.Errorf("failed to decode currencies: %w", err)
	}
	return codes, nil
}

func (c *Client) get(ctx context.Context, reqURL string) (int, []byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
	if err != nil {
		return 0, nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return 0, nil, fmt.Errorf("failed to send request: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxBodyBytes))
	if err != nil {
		return 0, nil, fmt.Errorf("failed to read response: %w", err)
	}
	return resp.StatusCode, body, nil
}

func classifyError(status int, body []byte, kind ErrorKind) *ConversionError {
	convErr := &ConversionError{Kind: kind, Message: DefaultErrorMessage, StatusCode: status}

	var resp errorBody
	if err := json.Unmarshal(body, &resp); err != nil {
		convErr.Kind = KindGeneric
		convErr.Err = fmt.Errorf("unexpected status %d: %w", status, err)
		return convErr
	}

	if strings.TrimSpace(resp.Message) != "" {
		convErr.Message = resp.Message
	}
	if kind == KindValidation {
		convErr.Fields = resp.Fields
	}
	return convErr
}
