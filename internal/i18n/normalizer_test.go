package i18n_test

import (
	"testing"
	"time"

	"fxconvert/internal/i18n"

	"github.com/go-playground/locales/fi_FI"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLocaleNormalizer_ParseToCanonical(t *testing.T) {
	n := i18n.NewLocaleNormalizer(i18n.DefaultRegistry())

	tests := []struct {
		name    string
		raw     string
		locale  string
		want    string
		wantErr error
	}{
		{name: "Plain integer", raw: "100", locale: "en-US", want: "100"},
		{name: "US decimal", raw: "1,234.56", locale: "en-US", want: "1234.56"},
		{name: "US comma is grouping", raw: "345,12", locale: "en-US", want: "34512"},
		{name: "Finnish decimal comma", raw: "1 234,5", locale: "fi-FI", want: "1234.5"},
		{name: "Finnish dot is grouping", raw: "345.12", locale: "fi-FI", want: "34512"},
		{name: "Finnish non-breaking space", raw: "12\u00a0000,25", locale: "fi-FI", want: "12000.25"},
		{name: "German grouping", raw: "1.234.567,89", locale: "de-DE", want: "1234567.89"},
		{name: "Underscore tag", raw: "10,5", locale: "sv_SE", want: "10.5"},
		{name: "Leading decimal separator", raw: ".5", locale: "en-US", want: "0.5"},
		{name: "Trailing decimal separator", raw: "12.", locale: "en-US", want: "12"},
		{name: "Keeps full precision", raw: "0.123456", locale: "en-US", want: "0.123456"},
		{name: "Italian decimal comma", raw: "1.234,56", locale: "it-IT", want: "1234.56"},
		{name: "Spanish decimal comma", raw: "1.234,56", locale: "es-ES", want: "1234.56"},
		{name: "Dutch decimal comma", raw: "1.234,56", locale: "nl-NL", want: "1234.56"},
		{name: "Brazilian decimal comma", raw: "1.234,56", locale: "pt-BR", want: "1234.56"},
		{name: "Swiss apostrophe grouping", raw: "1'234.56", locale: "de-CH", want: "1234.56"},
		{name: "Swiss typographic apostrophe", raw: "1\u2019234.56", locale: "de-CH", want: "1234.56"},
		{name: "Austrian space grouping", raw: "1 234,56", locale: "de-AT", want: "1234.56"},
		{name: "Polish decimal comma", raw: "1 234,56", locale: "pl-PL", want: "1234.56"},
		{name: "Danish decimal comma", raw: "1.234,56", locale: "da-DK", want: "1234.56"},
		{name: "Norwegian decimal comma", raw: "1 234,56", locale: "nb-NO", want: "1234.56"},
		{name: "Swiss French decimal comma", raw: "1 234,56", locale: "fr-CH", want: "1234.56"},
		{name: "Mexican decimal point", raw: "1,234.56", locale: "es-MX", want: "1234.56"},
		{name: "Language only tag", raw: "1.234,56", locale: "it", want: "1234.56"},
		{name: "Unknown locale", raw: "1,000.5", locale: "xx-YY", wantErr: i18n.ErrUnsupportedLocale},
		{name: "Unregistered region", raw: "1,000.5", locale: "de-LI", wantErr: i18n.ErrUnsupportedLocale},
		{name: "Malformed tag", raw: "1,000.5", locale: "not a tag", wantErr: i18n.ErrUnsupportedLocale},
		{name: "Empty", raw: "", locale: "en-US", wantErr: i18n.ErrEmptyAmount},
		{name: "Whitespace only", raw: "   ", locale: "fi-FI", wantErr: i18n.ErrEmptyAmount},
		{name: "Negative", raw: "-5", locale: "en-US", wantErr: i18n.ErrNegativeAmount},
		{name: "Two decimal separators", raw: "1.2.3", locale: "en-US", wantErr: i18n.ErrInvalidAmount},
		{name: "Letters", raw: "12abc", locale: "en-US", wantErr: i18n.ErrInvalidAmount},
		{name: "Separators only", raw: ",", locale: "en-US", wantErr: i18n.ErrInvalidAmount},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := n.ParseToCanonical(tt.raw, tt.locale)
			if tt.wantErr != nil {
				require.ErrorIs(t, err, tt.wantErr)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestLocaleNormalizer_FormatForDisplay(t *testing.T) {
	n := i18n.NewLocaleNormalizer(nil)

	tests := []struct {
		name      string
		canonical string
		locale    string
		want      string
		wantErr   error
	}{
		{name: "US grouping", canonical: "34512", locale: "en-US", want: "34,512.00"},
		{name: "Finnish grouping", canonical: "34512", locale: "fi-FI", want: "34\u00a0512,00"},
		{name: "Rounds to two digits", canonical: "1234.567", locale: "en-US", want: "1,234.57"},
		{name: "Short integer part", canonical: "5.5", locale: "de-DE", want: "5,50"},
		{name: "Millions", canonical: "1234567.5", locale: "en-GB", want: "1,234,567.50"},
		{name: "Italian grouping", canonical: "1234.56", locale: "it-IT", want: "1.234,56"},
		{name: "Swiss grouping", canonical: "1234.56", locale: "de-CH", want: "1\u2019234.56"},
		{name: "Unsupported locale", canonical: "1234.56", locale: "xx-YY", wantErr: i18n.ErrUnsupportedLocale},
		{name: "Zero", canonical: "0", locale: "en-US", want: "0.00"},
		{name: "Empty", canonical: "", locale: "en-US", wantErr: i18n.ErrEmptyAmount},
		{name: "Not a number", canonical: "abc", locale: "en-US", wantErr: i18n.ErrInvalidAmount},
		{name: "Negative", canonical: "-1", locale: "en-US", wantErr: i18n.ErrNegativeAmount},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := n.FormatForDisplay(tt.canonical, tt.locale)
			if tt.wantErr != nil {
				require.ErrorIs(t, err, tt.wantErr)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestLocaleNormalizer_RoundTrip(t *testing.T) {
	n := i18n.NewLocaleNormalizer(nil)

	for _, locale := range n.Registry().Locales() {
		t.Run(locale, func(t *testing.T) {
			display, err := n.FormatForDisplay("98765.43", locale)
			require.NoError(t, err)

			canonical, err := n.ParseToCanonical(display, locale)
			require.NoError(t, err)
			assert.Equal(t, "98765.43", canonical)
		})
	}
}

func TestLocaleNormalizer_FormatDate(t *testing.T) {
	n := i18n.NewLocaleNormalizer(nil)

	date := time.Date(2024, time.March, 20, 0, 0, 0, 0, time.UTC)
	assert.Equal(t, fi_FI.New().FmtDateShort(date), n.FormatDate("2024-03-20", "fi-FI"))
	assert.Equal(t, "not-a-date", n.FormatDate("not-a-date", "fi-FI"))
	assert.Equal(t, "2024-03-20", n.FormatDate("2024-03-20", "xx-YY"))
}

func TestLocaleNormalizer_Symbols(t *testing.T) {
	n := i18n.NewLocaleNormalizer(nil)

	sym, err := n.Symbols("de-CH")
	require.NoError(t, err)
	assert.Equal(t, i18n.Symbols{Decimal: ".", Group: "\u2019"}, sym)

	_, err = n.Symbols("xx-YY")
	require.ErrorIs(t, err, i18n.ErrUnsupportedLocale)
}

func TestRegistry_Resolve(t *testing.T) {
	r := i18n.DefaultRegistry()

	tests := []struct {
		locale      string
		wantLocale  string
		wantDecimal string
		wantErr     error
	}{
		{locale: "en-US", wantLocale: "en_US", wantDecimal: "."},
		{locale: "fi", wantLocale: "fi_FI", wantDecimal: ","},
		{locale: "de_DE", wantLocale: "de_DE", wantDecimal: ","},
		{locale: "de-CH", wantLocale: "de_CH", wantDecimal: "."},
		{locale: "fr-CA", wantLocale: "fr_CA", wantDecimal: ","},
		{locale: "zh-Hans-CN", wantLocale: "zh_Hans_CN", wantDecimal: "."},
		{locale: "", wantLocale: "en_US", wantDecimal: "."},
		{locale: "en-IN", wantErr: i18n.ErrUnsupportedLocale},
		{locale: "sw", wantErr: i18n.ErrUnsupportedLocale},
		{locale: "not a tag", wantErr: i18n.ErrUnsupportedLocale},
	}

	for _, tt := range tests {
		t.Run(tt.locale, func(t *testing.T) {
			tr, sym, err := r.Resolve(tt.locale)
			if tt.wantErr != nil {
				require.ErrorIs(t, err, tt.wantErr)
				assert.False(t, r.Supports(tt.locale))
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.wantLocale, tr.Locale())
			assert.Equal(t, tt.wantDecimal, sym.Decimal)
			assert.True(t, r.Supports(tt.locale))
		})
	}
}
