// Package client talks to the conversion API
package client

import (
	"errors"
	"fmt"
	"strings"

	"github.com/shopspring/decimal"
)

// DefaultErrorMessage is shown when the server gives no usable message
const DefaultErrorMessage = "Conversion failed"

// ErrInvalidRequest is returned for requests that must not reach the server
var ErrInvalidRequest = errors.New("invalid conversion request")

// ConversionRequest is a single lookup. Amount is a canonical decimal string.
type ConversionRequest struct {
	SourceCurrency string
	TargetCurrency string
	Amount         string
}

// Validate checks the request is structurally fit for submission
func (r ConversionRequest) Validate() error {
	if !isCurrencyCode(r.SourceCurrency) {
		return fmt.Errorf("%w: source currency %q", ErrInvalidRequest, r.SourceCurrency)
	}
	if !isCurrencyCode(r.TargetCurrency) {
		return fmt.Errorf("%w: target currency %q", ErrInvalidRequest, r.TargetCurrency)
	}

	amount, err := decimal.NewFromString(strings.TrimSpace(r.Amount))
	if err != nil {
		return fmt.Errorf("%w: amount %q", ErrInvalidRequest, r.Amount)
	}
	if !amount.IsPositive() {
		return fmt.Errorf("%w: amount must be greater than 0", ErrInvalidRequest)
	}
	return nil
}

// WireAmount returns the amount rounded to two fraction digits
func (r ConversionRequest) WireAmount() string {
	amount, err := decimal.NewFromString(strings.TrimSpace(r.Amount))
	if err != nil {
		return r.Amount
	}
	return amount.StringFixed(2)
}

func isCurrencyCode(code string) bool {
	if len(code) != 3 {
		return false
	}
	for i := 0; i < len(code); i++ {
		if code[i] < 'A' || code[i] > 'Z' {
			return false
		}
	}
	return true
}

// ConversionResult is the server's answer to a successful lookup
type ConversionResult struct {
	ConvertedAmount string
	Date            string
}

// ErrorKind tells validation failures apart from everything else
type ErrorKind int

const (
	// KindGeneric covers server, transport and decoding failures
	KindGeneric ErrorKind = iota
	// KindValidation is a 400 naming the offending fields
	KindValidation
)

func (k ErrorKind) String() string {
	if k == KindValidation {
		return "validation"
	}
	return "generic"
}

// ConversionError is the failure half of a lookup
type ConversionError struct {
	Kind       ErrorKind
	Message    string
	Fields     []string
	StatusCode int
	Err        error
}

func (e *ConversionError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

func (e *ConversionError) Unwrap() error {
	return e.Err
}

// AsConversionError converts any error into a ConversionError
func AsConversionError(err error) *ConversionError {
	if err == nil {
		return nil
	}

	var convErr *ConversionError
	if errors.As(err, &convErr) {
		return convErr
	}
	return &ConversionError{Kind: KindGeneric, Message: DefaultErrorMessage, Err: err}
}
