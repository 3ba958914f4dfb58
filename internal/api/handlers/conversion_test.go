package handlers_test

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"fxconvert/internal/api/handlers"
	"fxconvert/internal/conversion"
	"fxconvert/internal/models"
	"fxconvert/internal/rates"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type mockConverter struct {
	mock.Mock
}

func (m *mockConverter) Convert(ctx context.Context, source, target string, amount decimal.Decimal) (conversion.Result, error) {
	args := m.Called(ctx, source, target, amount)
	return args.Get(0).(conversion.Result), args.Error(1)
}

func (m *mockConverter) SupportedCurrencies(ctx context.Context) ([]string, error) {
	args := m.Called(ctx)
	codes, _ := args.Get(0).([]string)
	return codes, args.Error(1)
}

func newConversionRouter(conv handlers.Converter) *gin.Engine {
	h := handlers.NewConversionHandler(conv, nil)
	r := gin.New()
	r.GET("/api/conversion", h.Convert)
	r.GET("/api/currencies", h.ListCurrencies)
	return r
}

func doGet(r http.Handler, target string) *httptest.ResponseRecorder {
	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, target, nil)
	r.ServeHTTP(w, req)
	return w
}

func TestConversionHandler_Convert(t *testing.T) {
	rateDate := time.Date(2024, 3, 20, 0, 0, 0, 0, time.UTC)

	tests := []struct {
		name       string
		query      string
		setupMock  func(*mockConverter)
		wantStatus int
		wantBody   any
	}{
		{
			name:  "Success",
			query: "sourceCurrency=EUR&targetCurrency=USD&amount=100",
			setupMock: func(m *mockConverter) {
				m.On("Convert", mock.Anything, "EUR", "USD", decimal.RequireFromString("100")).
					Return(conversion.Result{ConvertedAmount: decimal.RequireFromString("108.2"), Date: rateDate}, nil)
			},
			wantStatus: http.StatusOK,
			wantBody:   models.ConversionResponse{Date: "2024-03-20", ConvertedAmount: "108.20"},
		},
		{
			name:       "Missing parameters",
			query:      "amount=100",
			wantStatus: http.StatusBadRequest,
			wantBody: models.ErrorResponse{
				Code:    models.CodeValidation,
				Message: "Invalid input parameters: sourceCurrency is a required field; targetCurrency is a required field",
				Fields:  []string{"sourceCurrency", "targetCurrency"},
			},
		},
		{
			name:       "Non positive amount",
			query:      "sourceCurrency=EUR&targetCurrency=USD&amount=-5",
			wantStatus: http.StatusBadRequest,
			wantBody: models.ErrorResponse{
				Code:    models.CodeValidation,
				Message: "Invalid input parameters: amount must be a number greater than 0",
				Fields:  []string{"amount"},
			},
		},
		{
			name:  "Unsupported currency",
			query: "sourceCurrency=XXX&targetCurrency=USD&amount=1",
			setupMock: func(m *mockConverter) {
				m.On("Convert", mock.Anything, "XXX", "USD", mock.Anything).
					Return(conversion.Result{}, &conversion.ValidationError{
						Message: "Source currency is not valid",
						Fields:  []string{conversion.FieldSourceCurrency},
					})
			},
			wantStatus: http.StatusBadRequest,
			wantBody: models.ErrorResponse{
				Code:    models.CodeValidation,
				Message: "Source currency is not valid",
				Fields:  []string{"sourceCurrency"},
			},
		},
		{
			name:  "Currency missing from integration",
			query: "sourceCurrency=EUR&targetCurrency=USD&amount=1",
			setupMock: func(m *mockConverter) {
				m.On("Convert", mock.Anything, "EUR", "USD", mock.Anything).
					Return(conversion.Result{}, fmt.Errorf("%w: given currency code 'USD'", rates.ErrCurrencyNotFound))
			},
			wantStatus: http.StatusBadRequest,
			wantBody: models.ErrorResponse{
				Code:    models.CodeBadRequest,
				Message: "Bad request to exchange rate integration",
			},
		},
		{
			name:  "Integration down",
			query: "sourceCurrency=EUR&targetCurrency=USD&amount=1",
			setupMock: func(m *mockConverter) {
				m.On("Convert", mock.Anything, "EUR", "USD", mock.Anything).
					Return(conversion.Result{}, fmt.Errorf("%w: circuit breaker is open", rates.ErrIntegration))
			},
			wantStatus: http.StatusServiceUnavailable,
			wantBody: models.ErrorResponse{
				Code:    models.CodeServiceUnavailable,
				Message: "Service temporarily unavailable",
			},
		},
		{
			name:  "Unexpected error",
			query: "sourceCurrency=EUR&targetCurrency=USD&amount=1",
			setupMock: func(m *mockConverter) {
				m.On("Convert", mock.Anything, "EUR", "USD", mock.Anything).
					Return(conversion.Result{}, errors.New("boom"))
			},
			wantStatus: http.StatusInternalServerError,
			wantBody: models.ErrorResponse{
				Code:    models.CodeInternal,
				Message: "Something went wrong",
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			conv := &mockConverter{}
			if tt.setupMock != nil {
				tt.setupMock(conv)
			}

			w := doGet(newConversionRouter(conv), "/api/conversion?"+tt.query)
			require.Equal(t, tt.wantStatus, w.Code)

			switch want := tt.wantBody.(type) {
			case models.ConversionResponse:
				var got models.ConversionResponse
				require.NoError(t, json.Unmarshal(w.Body.Bytes(), &got))
				assert.Equal(t, want, got)
			case models.ErrorResponse:
				var got models.ErrorResponse
				require.NoError(t, json.Unmarshal(w.Body.Bytes(), &got))
				assert.Equal(t, want, got)
			}

			conv.AssertExpectations(t)
			if tt.setupMock == nil {
				conv.AssertNotCalled(t, "Convert", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
			}
		})
	}
}

func TestConversionHandler_ListCurrencies(t *testing.T) {
	t.Run("Success", func(t *testing.T) {
		conv := &mockConverter{}
		conv.On("SupportedCurrencies", mock.Anything).Return([]string{"EUR", "SEK", "USD"}, nil)

		w := doGet(newConversionRouter(conv), "/api/currencies")
		require.Equal(t, http.StatusOK, w.Code)

		var got []string
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &got))
		assert.Equal(t, []string{"EUR", "SEK", "USD"}, got)
	})

	t.Run("Empty list encodes as array", func(t *testing.T) {
		conv := &mockConverter{}
		conv.On("SupportedCurrencies", mock.Anything).Return(nil, nil)

		w := doGet(newConversionRouter(conv), "/api/currencies")
		require.Equal(t, http.StatusOK, w.Code)
		assert.JSONEq(t, `[]`, w.Body.String())
	})

	t.Run("Integration down", func(t *testing.T) {
		conv := &mockConverter{}
		conv.On("SupportedCurrencies", mock.Anything).Return(nil, rates.ErrIntegration)

		w := doGet(newConversionRouter(conv), "/api/currencies")
		assert.Equal(t, http.StatusServiceUnavailable, w.Code)
	})
}

func TestNotFound(t *testing.T) {
	r := gin.New()
	r.NoRoute(handlers.NotFound)

	w := doGet(r, "/api/unknown")
	require.Equal(t, http.StatusNotFound, w.Code)

	var got models.ErrorResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &got))
	assert.Equal(t, models.ErrorResponse{Code: models.CodeNotFound, Message: "Resource not found"}, got)
}
