package form

import (
	"errors"
	"strings"

	"fxconvert/internal/client"
)

// Field names, matching the query parameters the server reports back
const (
	FieldSourceCurrency = "sourceCurrency"
	FieldTargetCurrency = "targetCurrency"
	FieldAmount         = "amount"
)

// ErrInvalidForm is returned when a field fails validation on submit
var ErrInvalidForm = errors.New("form has invalid fields")

// ValidationError lists every failing field
type ValidationError struct {
	Fields []*FieldError
}

func (e *ValidationError) Error() string {
	parts := make([]string, 0, len(e.Fields))
	for _, f := range e.Fields {
		parts = append(parts, f.Error())
	}
	return ErrInvalidForm.Error() + ": " + strings.Join(parts, ", ")
}

func (e *ValidationError) Unwrap() error {
	return ErrInvalidForm
}

// Form is the conversion form
type Form struct {
	Source *CurrencyField
	Target *CurrencyField
	Amount *AmountField
}

// New creates an empty form whose amount is parsed in the given locale
func New(formatter Formatter, locale string) *Form {
	return &Form{
		Source: NewCurrencyField(FieldSourceCurrency, "Source Currency"),
		Target: NewCurrencyField(FieldTargetCurrency, "Target Currency"),
		Amount: NewAmountField(FieldAmount, "Amount", formatter, locale),
	}
}

// Request validates every field and builds the lookup. All fields are
// marked touched so their errors show after a failed submit.
func (f *Form) Request() (client.ConversionRequest, error) {
	f.Source.Blur()
	f.Target.Blur()
	f.Amount.Blur()

	var failed []*FieldError
	if err := f.Source.Validate(); err != nil {
		failed = append(failed, err)
	}
	if err := f.Target.Validate(); err != nil {
		failed = append(failed, err)
	}
	if err := f.Amount.Validate(); err != nil {
		failed = append(failed, err)
	}
	if len(failed) > 0 {
		return client.ConversionRequest{}, &ValidationError{Fields: failed}
	}

	return client.ConversionRequest{
		SourceCurrency: f.Source.Value(),
		TargetCurrency: f.Target.Value(),
		Amount:         f.Amount.Canonical(),
	}, nil
}

// Label returns the human label for a server field name
func (f *Form) Label(field string) string {
	switch field {
	case FieldSourceCurrency:
		return f.Source.Label
	case FieldTargetCurrency:
		return f.Target.Label
	case FieldAmount:
		return f.Amount.Label
	}
	return field
}
