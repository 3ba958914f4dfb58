package handlers

import (
	"context"
	"net/http"

	"fxconvert/internal/conversion"
	"fxconvert/internal/models"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

// Converter converts amounts and lists convertible currencies
type Converter interface {
	Convert(ctx context.Context, source, target string, amount decimal.Decimal) (conversion.Result, error)
	SupportedCurrencies(ctx context.Context) ([]string, error)
}

// ConversionHandler handles conversion requests
type ConversionHandler struct {
	converter Converter
	logger    *zap.Logger
}

// NewConversionHandler creates a new ConversionHandler
func NewConversionHandler(converter Converter, logger *zap.Logger) *ConversionHandler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &ConversionHandler{converter: converter, logger: logger}
}

// Convert godoc
// @Summary Convert an amount between currencies
// @Description Converts an amount using the latest euro reference rates. The result is rounded half-up to two decimals.
// @Tags conversion
// @Accept json
// @Produce json
// @Param sourceCurrency query string true "Source currency code" minlength(3) maxlength(3) example(EUR)
// @Param targetCurrency query string true "Target currency code" minlength(3) maxlength(3) example(USD)
// @Param amount query string true "Amount with a dot decimal separator" example(100.00)
// @Success 200 {object} models.ConversionResponse
// @Failure 400 {object} models.ErrorResponse "Invalid parameters or unsupported currency"
// @Failure 429 {object} models.ErrorResponse "Rate limit exceeded"
// @Failure 500 {object} models.ErrorResponse "Internal Server Error"
// @Failure 503 {object} models.ErrorResponse "Exchange rate integration unavailable"
// @Router /conversion [get]
func (h *ConversionHandler) Convert(c *gin.Context) {
	var query models.ConversionQuery
	if err := c.ShouldBindQuery(&query); err != nil {
		respondBindingError(c, err)
		return
	}

	// positive_decimal has already accepted the amount
	amount, err := decimal.NewFromString(query.Amount)
	if err != nil {
		respondBindingError(c, err)
		return
	}

	result, err := h.converter.Convert(c.Request.Context(), query.SourceCurrency, query.TargetCurrency, amount)
	if err != nil {
		respondError(c, h.logger, err)
		return
	}

	c.JSON(http.StatusOK, models.ConversionResponse{
		Date:            result.Date.Format(models.DateLayout),
		ConvertedAmount: result.ConvertedAmount.StringFixed(2),
	})
}

// ListCurrencies godoc
// @Summary List supported currencies
// @Description Returns the codes of every currency that can be converted
// @Tags conversion
// @Accept json
// @Produce json
// @Success 200 {array} string
// @Failure 429 {object} models.ErrorResponse "Rate limit exceeded"
// @Failure 500 {object} models.ErrorResponse "Internal Server Error"
// @Failure 503 {object} models.ErrorResponse "Exchange rate integration unavailable"
// @Router /currencies [get]
func (h *ConversionHandler) ListCurrencies(c *gin.Context) {
	codes, err := h.converter.SupportedCurrencies(c.Request.Context())
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	if codes == nil {
		codes = []string{}
	}
	c.JSON(http.StatusOK, codes)
}
