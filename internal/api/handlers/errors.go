package handlers

import (
	"errors"
	"net/http"

	"fxconvert/internal/api/middleware"
	"fxconvert/internal/conversion"
	"fxconvert/internal/models"
	"fxconvert/internal/rates"
	"fxconvert/internal/validation"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// respondBindingError answers a request whose parameters failed binding
func respondBindingError(c *gin.Context, err error) {
	message, fields := validation.Describe(err)
	c.JSON(http.StatusBadRequest, models.ErrorResponse{
		Code:    models.CodeValidation,
		Message: message,
		Fields:  fields,
	})
}

// respondError maps a service error to its status and client body
func respondError(c *gin.Context, logger *zap.Logger, err error) {
	_ = c.Error(err)

	var verr *conversion.ValidationError
	switch {
	case errors.As(err, &verr):
		c.JSON(http.StatusBadRequest, models.ErrorResponse{
			Code:    models.CodeValidation,
			Message: verr.Message,
			Fields:  verr.Fields,
		})
	case errors.Is(err, rates.ErrCurrencyNotFound):
		logger.Warn("Exchange rate integration rejected request",
			zap.String("request_id", middleware.GetRequestID(c)), zap.Error(err))
		c.JSON(http.StatusBadRequest, models.ErrorResponse{
			Code:    models.CodeBadRequest,
			Message: "Bad request to exchange rate integration",
		})
	case errors.Is(err, rates.ErrIntegration):
		logger.Error("Exchange rate integration unavailable",
			zap.String("request_id", middleware.GetRequestID(c)), zap.Error(err))
		c.JSON(http.StatusServiceUnavailable, models.ErrorResponse{
			Code:    models.CodeServiceUnavailable,
			Message: "Service temporarily unavailable",
		})
	default:
		logger.Error("Unexpected error",
			zap.String("request_id", middleware.GetRequestID(c)), zap.Error(err))
		c.JSON(http.StatusInternalServerError, models.ErrorResponse{
			Code:    models.CodeInternal,
			Message: "Something went wrong",
		})
	}
}

// NotFound answers unknown routes
func NotFound(c *gin.Context) {
	c.JSON(http.StatusNotFound, models.ErrorResponse{
		Code:    models.CodeNotFound,
		Message: "Resource not found",
	})
}
