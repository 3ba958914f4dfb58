package rates

import (
	"errors"
	"fmt"
)

// Common rate lookup errors
var (
	// ErrIntegration is returned when the exchange rate API cannot serve a request
	ErrIntegration = errors.New("exchange rate integration failed")
	// ErrInvalidResponse is returned when the exchange rate API answers with unusable data
	ErrInvalidResponse = fmt.Errorf("%w: invalid response", ErrIntegration)
	// ErrCurrencyNotFound is returned when a requested currency is missing from a response
	ErrCurrencyNotFound = errors.New("currency not found from exchange rate integration")
	// ErrNoSnapshot is returned when no stored rates exist
	ErrNoSnapshot = errors.New("no stored rate snapshot")
)
