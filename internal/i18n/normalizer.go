package i18n

import (
	"errors"
	"fmt"
	"strings"
	"time"
	"unicode"

	"github.com/shopspring/decimal"
)

var (
	// ErrEmptyAmount is returned when no amount was provided
	ErrEmptyAmount = errors.New("no amount provided")
	// ErrNegativeAmount is returned for amounts carrying a minus sign
	ErrNegativeAmount = errors.New("amount must not be negative")
	// ErrInvalidAmount is returned when the text is not a number in the locale
	ErrInvalidAmount = errors.New("invalid amount")
)

// DisplayScale is the number of fraction digits shown to the user
const DisplayScale = 2

// Normalizer converts between locale-formatted amounts and canonical decimals.
// Canonical amounts use '.' as the decimal separator and carry no grouping.
type Normalizer interface {
	ParseToCanonical(raw, locale string) (string, error)
	FormatForDisplay(canonical, locale string) (string, error)
}

// LocaleNormalizer is a Normalizer backed by CLDR locale data
type LocaleNormalizer struct {
	registry *Registry
}

// NewLocaleNormalizer creates a normalizer over the given registry
func NewLocaleNormalizer(registry *Registry) *LocaleNormalizer {
	if registry == nil {
		registry = DefaultRegistry()
	}
	return &LocaleNormalizer{registry: registry}
}

// Registry returns the locale registry used by the normalizer
func (n *LocaleNormalizer) Registry() *Registry {
	return n.registry
}

// Symbols returns the separators of the locale the tag resolves to
func (n *LocaleNormalizer) Symbols(locale string) (Symbols, error) {
	_, sym, err := n.registry.Resolve(locale)
	return sym, err
}

// ParseToCanonical turns user input such as "1 234,5" (fi-FI) into "1234.5".
//
// Spaces, the locale group symbol and whichever of '.' and ',' is not the
// locale decimal symbol are treated as grouping and dropped.
func (n *LocaleNormalizer) ParseToCanonical(raw, locale string) (string, error) {
	_, sym, err := n.registry.Resolve(locale)
	if err != nil {
		return "", err
	}

	s := strings.TrimSpace(raw)
	if s == "" {
		return "", ErrEmptyAmount
	}
	if strings.ContainsAny(s, "-\u2212") {
		return "", ErrNegativeAmount
	}

	var b strings.Builder
	digits := 0
	seenDecimal := false
	for _, r := range s {
		switch {
		case r >= '0' && r <= '9':
			b.WriteRune(r)
			digits++
		case string(r) == sym.Decimal:
			if seenDecimal {
				return "", fmt.Errorf("%w: %q has more than one decimal separator", ErrInvalidAmount, raw)
			}
			seenDecimal = true
			b.WriteByte('.')
		case isGroupRune(r, sym):
		default:
			return "", fmt.Errorf("%w: unexpected character %q", ErrInvalidAmount, r)
		}
	}
	if digits == 0 {
		return "", fmt.Errorf("%w: %q has no digits", ErrInvalidAmount, raw)
	}

	canonical := strings.TrimSuffix(b.String(), ".")
	if strings.HasPrefix(canonical, ".") {
		canonical = "0" + canonical
	}

	d, err := decimal.NewFromString(canonical)
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrInvalidAmount, err)
	}
	return d.String(), nil
}

// FormatForDisplay renders a canonical amount with the locale's separators
// and exactly two fraction digits.
func (n *LocaleNormalizer) FormatForDisplay(canonical, locale string) (string, error) {
	if strings.TrimSpace(canonical) == "" {
		return "", ErrEmptyAmount
	}

	d, err := decimal.NewFromString(strings.TrimSpace(canonical))
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrInvalidAmount, err)
	}
	if d.IsNegative() {
		return "", ErrNegativeAmount
	}

	_, sym, err := n.registry.Resolve(locale)
	if err != nil {
		return "", err
	}
	return formatDecimal(d, sym), nil
}

// FormatDate renders an ISO date (2006-01-02) in the locale's short format.
// Values that are not ISO dates, or unsupported locales, leave the value unchanged.
func (n *LocaleNormalizer) FormatDate(isoDate, locale string) string {
	t, err := time.Parse(time.DateOnly, isoDate)
	if err != nil {
		return isoDate
	}
	formatted, err := n.registry.FormatDate(t, locale)
	if err != nil {
		return isoDate
	}
	return formatted
}

func formatDecimal(d decimal.Decimal, sym Symbols) string {
	fixed := d.StringFixed(DisplayScale)
	intPart, frac, _ := strings.Cut(fixed, ".")

	var b strings.Builder
	lead := len(intPart) % 3
	if lead == 0 {
		lead = 3
	}
	b.WriteString(intPart[:lead])
	for i := lead; i < len(intPart); i += 3 {
		b.WriteString(sym.Group)
		b.WriteString(intPart[i : i+3])
	}
	b.WriteString(sym.Decimal)
	b.WriteString(frac)
	return b.String()
}

func isGroupRune(r rune, sym Symbols) bool {
	if unicode.IsSpace(r) || r == '\'' || r == '\u2019' {
		return true
	}
	if string(r) == sym.Group {
		return true
	}
	return (r == '.' || r == ',') && string(r) != sym.Decimal
}
