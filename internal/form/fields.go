// Package form holds the conversion form's fields, their input filters and
// their validation rules. It knows nothing about how the form is drawn.
package form

import (
	"errors"
	"fmt"
	"strings"
	"unicode"

	"fxconvert/internal/i18n"

	"github.com/go-playground/validator/v10"
	"github.com/shopspring/decimal"
)

// Field error messages
const (
	MsgRequired       = "required"
	MsgCurrencyLength = "must be exactly 3 characters"
	MsgAmountPositive = "must be greater than 0"
	MsgAmountInvalid  = "must be a valid amount"
	MsgLocaleUnknown  = "locale is not supported"
)

// CurrencyCodeLength is the length of an ISO 4217 code
const CurrencyCodeLength = 3

var validate = validator.New(validator.WithRequiredStructEnabled())

// FieldError is a validation failure for a single field
type FieldError struct {
	Field   string
	Message string
}

func (e *FieldError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

// FilterCurrency keeps ASCII letters only, upper-cased and capped at three.
// "2@(/& CHF /-" becomes "CHF".
func FilterCurrency(raw string) string {
	var b strings.Builder
	for _, r := range raw {
		if b.Len() == CurrencyCodeLength {
			break
		}
		if (r >= 'a' && r <= 'z') || (r >= 'A' && r <= 'Z') {
			b.WriteRune(unicode.ToUpper(r))
		}
	}
	return b.String()
}

// CurrencyField is a currency code input
type CurrencyField struct {
	Name    string
	Label   string
	value   string
	touched bool
}

// NewCurrencyField creates an empty currency field
func NewCurrencyField(name, label string) *CurrencyField {
	return &CurrencyField{Name: name, Label: label}
}

// SetValue stores raw input after filtering and returns what was kept
func (f *CurrencyField) SetValue(raw string) string {
	f.value = FilterCurrency(raw)
	return f.value
}

// Value returns the filtered code
func (f *CurrencyField) Value() string {
	return f.value
}

// Blur marks the field as visited so its error becomes visible
func (f *CurrencyField) Blur() {
	f.touched = true
}

// Touched reports whether the field has been blurred or submitted
func (f *CurrencyField) Touched() bool {
	return f.touched
}

// Validate returns the field's single error, required winning over length
func (f *CurrencyField) Validate() *FieldError {
	err := validate.Var(f.value, "required,len=3")
	if err == nil {
		return nil
	}

	var verrs validator.ValidationErrors
	if errors.As(err, &verrs) && len(verrs) > 0 && verrs[0].Tag() == "required" {
		return &FieldError{Field: f.Name, Message: MsgRequired}
	}
	return &FieldError{Field: f.Name, Message: MsgCurrencyLength}
}

// VisibleError returns the error text to show, empty until the field is touched
func (f *CurrencyField) VisibleError() string {
	if !f.touched {
		return ""
	}
	if err := f.Validate(); err != nil {
		return err.Message
	}
	return ""
}

// Formatter is the locale support the amount field needs
type Formatter interface {
	i18n.Normalizer
	Symbols(locale string) (i18n.Symbols, error)
}

// FilterAmount drops everything but digits and separators from raw input,
// keeps the first decimal symbol and at most two fraction digits. Minus signs
// are dropped, so a negative amount cannot be typed.
func FilterAmount(raw string, sym i18n.Symbols) string {
	var b strings.Builder
	seenDecimal := false
	fraction := 0
	for _, r := range raw {
		switch {
		case r >= '0' && r <= '9':
			if seenDecimal {
				if fraction == i18n.DisplayScale {
					continue
				}
				fraction++
			}
			b.WriteRune(r)
		case string(r) == sym.Decimal:
			if seenDecimal {
				continue
			}
			seenDecimal = true
			b.WriteRune(r)
		case r == '.' || r == ',' || r == '\'' || r == '\u2019' || unicode.IsSpace(r) || string(r) == sym.Group:
			if !seenDecimal {
				b.WriteRune(r)
			}
		}
	}
	return b.String()
}

// AmountField is a locale-aware amount input. It owns the raw text shown to
// the user and the canonical decimal derived from it.
type AmountField struct {
	Name      string
	Label     string
	formatter Formatter
	locale    string
	raw       string
	canonical string
	parseErr  error
	touched   bool
}

// NewAmountField creates an empty amount field for the given locale
func NewAmountField(name, label string, formatter Formatter, locale string) *AmountField {
	return &AmountField{Name: name, Label: label, formatter: formatter, locale: locale}
}

// SetRaw filters the input, stores it and recomputes the canonical value
func (f *AmountField) SetRaw(raw string) string {
	sym, err := f.formatter.Symbols(f.locale)
	if err != nil {
		f.raw, f.canonical, f.parseErr = raw, "", err
		return f.raw
	}
	f.raw = FilterAmount(raw, sym)
	f.canonical, f.parseErr = f.formatter.ParseToCanonical(f.raw, f.locale)
	if f.parseErr != nil {
		f.canonical = ""
	}
	return f.raw
}

// Raw returns the text as shown to the user
func (f *AmountField) Raw() string {
	return f.raw
}

// Canonical returns the dot-separated decimal, empty when there is none
func (f *AmountField) Canonical() string {
	return f.canonical
}

// Locale returns the locale the field parses and renders in
func (f *AmountField) Locale() string {
	return f.locale
}

// Blur re-renders the raw text in the locale display format
func (f *AmountField) Blur() {
	f.touched = true
	if f.canonical == "" {
		return
	}
	if display, err := f.formatter.FormatForDisplay(f.canonical, f.locale); err == nil {
		f.raw = display
	}
}

// Touched reports whether the field has been blurred or submitted
func (f *AmountField) Touched() bool {
	return f.touched
}

// Validate checks that an amount greater than zero was entered
func (f *AmountField) Validate() *FieldError {
	if errors.Is(f.parseErr, i18n.ErrUnsupportedLocale) {
		return &FieldError{Field: f.Name, Message: MsgLocaleUnknown}
	}
	if errors.Is(f.parseErr, i18n.ErrEmptyAmount) || strings.TrimSpace(f.raw) == "" {
		return &FieldError{Field: f.Name, Message: MsgRequired}
	}
	if f.parseErr != nil {
		return &FieldError{Field: f.Name, Message: MsgAmountInvalid}
	}

	amount, err := decimal.NewFromString(f.canonical)
	if err != nil {
		return &FieldError{Field: f.Name, Message: MsgAmountInvalid}
	}
	if !amount.IsPositive() {
		return &FieldError{Field: f.Name, Message: MsgAmountPositive}
	}
	return nil
}

// VisibleError returns the error text to show, empty until the field is touched
func (f *AmountField) VisibleError() string {
	if !f.touched {
		return ""
	}
	if err := f.Validate(); err != nil {
		return err.Message
	}
	return ""
}
