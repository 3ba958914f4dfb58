package form_test

import (
	"testing"

	"fxconvert/internal/client"
	"fxconvert/internal/form"
	"fxconvert/internal/i18n"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFilterCurrency(t *testing.T) {
	tests := []struct {
		raw  string
		want string
	}{
		{raw: "eUr", want: "EUR"},
		{raw: "2@(/& CHF /-", want: "CHF"},
		{raw: "usdollar", want: "USD"},
		{raw: "123", want: ""},
		{raw: "s\u00e9K", want: "SK"},
		{raw: "", want: ""},
	}

	for _, tt := range tests {
		t.Run(tt.raw, func(t *testing.T) {
			assert.Equal(t, tt.want, form.FilterCurrency(tt.raw))
		})
	}
}

func TestCurrencyField_Validate(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		wantMsg string
	}{
		{name: "Empty", input: "", wantMsg: form.MsgRequired},
		{name: "Only symbols", input: "12$", wantMsg: form.MsgRequired},
		{name: "Too short", input: "EU", wantMsg: form.MsgCurrencyLength},
		{name: "Valid", input: "eur"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := form.NewCurrencyField(form.FieldSourceCurrency, "Source Currency")
			f.SetValue(tt.input)

			assert.Empty(t, f.VisibleError(), "errors stay hidden until blur")
			f.Blur()

			err := f.Validate()
			if tt.wantMsg == "" {
				assert.Nil(t, err)
				assert.Empty(t, f.VisibleError())
				return
			}
			require.NotNil(t, err)
			assert.Equal(t, tt.wantMsg, err.Message)
			assert.Equal(t, form.FieldSourceCurrency, err.Field)
			assert.Equal(t, tt.wantMsg, f.VisibleError())
		})
	}
}

func TestFilterAmount(t *testing.T) {
	us := i18n.Symbols{Decimal: ".", Group: ","}
	fi := i18n.Symbols{Decimal: ",", Group: "\u00a0"}

	tests := []struct {
		name string
		raw  string
		sym  i18n.Symbols
		want string
	}{
		{name: "Drops minus", raw: "-12.5", sym: us, want: "12.5"},
		{name: "Drops letters", raw: "1a2b3", sym: us, want: "123"},
		{name: "Caps fraction digits", raw: "1.23456", sym: us, want: "1.23"},
		{name: "Single decimal", raw: "1.2.3", sym: us, want: "1.23"},
		{name: "Keeps grouping", raw: "1,234.5", sym: us, want: "1,234.5"},
		{name: "Finnish input", raw: "1 234,567", sym: fi, want: "1 234,56"},
		{name: "Grouping after decimal dropped", raw: "1,2.3", sym: fi, want: "1,23"},
		{name: "Swiss apostrophe", raw: "1'234.5", sym: i18n.Symbols{Decimal: ".", Group: "\u2019"}, want: "1'234.5"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, form.FilterAmount(tt.raw, tt.sym))
		})
	}
}

func TestAmountField(t *testing.T) {
	n := i18n.NewLocaleNormalizer(nil)

	tests := []struct {
		name          string
		locale        string
		input         string
		wantCanonical string
		wantDisplay   string
		wantMsg       string
	}{
		{name: "US comma grouping", locale: "en-US", input: "345,12", wantCanonical: "34512", wantDisplay: "34,512.00"},
		{name: "Finnish dot grouping", locale: "fi-FI", input: "345.12", wantCanonical: "34512", wantDisplay: "34\u00a0512,00"},
		{name: "Finnish decimal", locale: "fi-FI", input: "12,5", wantCanonical: "12.5", wantDisplay: "12,50"},
		{name: "Negative typed", locale: "en-US", input: "-7", wantCanonical: "7", wantDisplay: "7.00"},
		{name: "Empty", locale: "en-US", input: "", wantMsg: form.MsgRequired},
		{name: "Zero", locale: "en-US", input: "0.00", wantCanonical: "0", wantDisplay: "0.00", wantMsg: form.MsgAmountPositive},
		{name: "Separators only", locale: "en-US", input: ",", wantDisplay: ",", wantMsg: form.MsgAmountInvalid},
		{name: "Italian decimal", locale: "it-IT", input: "1.234,56", wantCanonical: "1234.56", wantDisplay: "1.234,56"},
		{name: "Swiss grouping", locale: "de-CH", input: "1'234.56", wantCanonical: "1234.56", wantDisplay: "1\u2019234.56"},
		{name: "Unsupported locale", locale: "xx-YY", input: "1,000.5", wantDisplay: "1,000.5", wantMsg: form.MsgLocaleUnknown},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := form.NewAmountField(form.FieldAmount, "Amount", n, tt.locale)
			f.SetRaw(tt.input)
			assert.Equal(t, tt.wantCanonical, f.Canonical())

			f.Blur()
			assert.Equal(t, tt.wantDisplay, f.Raw())

			err := f.Validate()
			if tt.wantMsg == "" {
				assert.Nil(t, err)
				return
			}
			require.NotNil(t, err)
			assert.Equal(t, tt.wantMsg, err.Message)
		})
	}
}

func TestForm_Request(t *testing.T) {
	n := i18n.NewLocaleNormalizer(nil)

	t.Run("Valid", func(t *testing.T) {
		f := form.New(n, "en-US")
		f.Source.SetValue("eur")
		f.Target.SetValue("usd")
		f.Amount.SetRaw("100")

		req, err := f.Request()
		require.NoError(t, err)
		assert.Equal(t, client.ConversionRequest{SourceCurrency: "EUR", TargetCurrency: "USD", Amount: "100"}, req)
		assert.Equal(t, "100.00", f.Amount.Raw())
	})

	t.Run("Invalid fields are all reported", func(t *testing.T) {
		f := form.New(n, "en-US")
		f.Source.SetValue("EU")

		_, err := f.Request()
		require.ErrorIs(t, err, form.ErrInvalidForm)

		var verr *form.ValidationError
		require.ErrorAs(t, err, &verr)
		require.Len(t, verr.Fields, 3)
		assert.Equal(t, form.MsgCurrencyLength, verr.Fields[0].Message)
		assert.Equal(t, form.MsgRequired, verr.Fields[1].Message)
		assert.Equal(t, form.MsgRequired, verr.Fields[2].Message)

		assert.True(t, f.Target.Touched())
		assert.Equal(t, form.MsgRequired, f.Target.VisibleError())
	})

	t.Run("Labels", func(t *testing.T) {
		f := form.New(n, "en-US")
		assert.Equal(t, "Source Currency", f.Label(form.FieldSourceCurrency))
		assert.Equal(t, "Amount", f.Label(form.FieldAmount))
		assert.Equal(t, "other", f.Label("other"))
	})
}
