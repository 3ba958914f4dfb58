// Package i18n parses and renders amounts and dates in the user's locale
package i18n

import (
	"errors"
	"fmt"
	"strings"
	"time"
	"unicode"

	"github.com/go-playground/locales"
	"github.com/go-playground/locales/bg_BG"
	"github.com/go-playground/locales/cs_CZ"
	"github.com/go-playground/locales/da_DK"
	"github.com/go-playground/locales/de_AT"
	"github.com/go-playground/locales/de_BE"
	"github.com/go-playground/locales/de_CH"
	"github.com/go-playground/locales/de_DE"
	"github.com/go-playground/locales/de_LU"
	"github.com/go-playground/locales/el_GR"
	"github.com/go-playground/locales/en_AU"
	"github.com/go-playground/locales/en_CA"
	"github.com/go-playground/locales/en_GB"
	"github.com/go-playground/locales/en_IE"
	"github.com/go-playground/locales/en_NZ"
	"github.com/go-playground/locales/en_US"
	"github.com/go-playground/locales/en_ZA"
	"github.com/go-playground/locales/es_AR"
	"github.com/go-playground/locales/es_CL"
	"github.com/go-playground/locales/es_CO"
	"github.com/go-playground/locales/es_ES"
	"github.com/go-playground/locales/es_MX"
	"github.com/go-playground/locales/es_US"
	"github.com/go-playground/locales/et_EE"
	"github.com/go-playground/locales/fi_FI"
	"github.com/go-playground/locales/fr_BE"
	"github.com/go-playground/locales/fr_CA"
	"github.com/go-playground/locales/fr_CH"
	"github.com/go-playground/locales/fr_FR"
	"github.com/go-playground/locales/fr_LU"
	"github.com/go-playground/locales/hr_HR"
	"github.com/go-playground/locales/hu_HU"
	"github.com/go-playground/locales/is_IS"
	"github.com/go-playground/locales/it_CH"
	"github.com/go-playground/locales/it_IT"
	"github.com/go-playground/locales/ja_JP"
	"github.com/go-playground/locales/ko_KR"
	"github.com/go-playground/locales/lt_LT"
	"github.com/go-playground/locales/lv_LV"
	"github.com/go-playground/locales/nb_NO"
	"github.com/go-playground/locales/nl_BE"
	"github.com/go-playground/locales/nl_NL"
	"github.com/go-playground/locales/pl_PL"
	"github.com/go-playground/locales/pt_BR"
	"github.com/go-playground/locales/pt_PT"
	"github.com/go-playground/locales/ro_RO"
	"github.com/go-playground/locales/ru_RU"
	"github.com/go-playground/locales/sk_SK"
	"github.com/go-playground/locales/sl_SI"
	"github.com/go-playground/locales/sv_FI"
	"github.com/go-playground/locales/sv_SE"
	"github.com/go-playground/locales/tr_TR"
	"github.com/go-playground/locales/uk_UA"
	"github.com/go-playground/locales/zh_Hans_CN"
	"golang.org/x/text/language"
)

// DefaultLocale is used when no locale is given
const DefaultLocale = "en-US"

// ErrUnsupportedLocale is returned for tags that no registered locale formats
// numbers for. Regional tags only match their own region.
var ErrUnsupportedLocale = errors.New("unsupported locale")

// nbsp stands in for every whitespace group separator
const nbsp = "\u00a0"

// Symbols holds the separators a locale uses when writing numbers
type Symbols struct {
	Decimal string
	Group   string
}

// Registry resolves BCP 47 locale tags to number and date formatting rules
type Registry struct {
	matcher     language.Matcher
	tags        []language.Tag
	regional    map[string]int
	translators []locales.Translator
	symbols     []Symbols
}

// NewRegistry creates a registry over the given translators. The first
// translator serves an empty locale tag.
func NewRegistry(translators ...locales.Translator) *Registry {
	r := &Registry{
		tags:        make([]language.Tag, 0, len(translators)),
		regional:    make(map[string]int, len(translators)),
		translators: translators,
		symbols:     make([]Symbols, 0, len(translators)),
	}
	for i, t := range translators {
		tag := language.Make(normalizeTag(t.Locale()))
		r.tags = append(r.tags, tag)
		r.symbols = append(r.symbols, symbolsOf(t))
		if key, ok := regionKey(tag); ok {
			if _, dup := r.regional[key]; !dup {
				r.regional[key] = i
			}
		}
	}
	r.matcher = language.NewMatcher(r.tags)
	return r
}

// DefaultRegistry returns the registry with every locale the application ships
func DefaultRegistry() *Registry {
	return NewRegistry(
		en_US.New(), en_GB.New(), en_IE.New(), en_CA.New(), en_AU.New(), en_NZ.New(), en_ZA.New(),
		fi_FI.New(), sv_SE.New(), sv_FI.New(), da_DK.New(), nb_NO.New(), is_IS.New(),
		de_DE.New(), de_AT.New(), de_CH.New(), de_BE.New(), de_LU.New(),
		fr_FR.New(), fr_BE.New(), fr_CH.New(), fr_CA.New(), fr_LU.New(),
		it_IT.New(), it_CH.New(),
		es_ES.New(), es_MX.New(), es_AR.New(), es_CO.New(), es_CL.New(), es_US.New(),
		nl_NL.New(), nl_BE.New(), pt_BR.New(), pt_PT.New(),
		pl_PL.New(), cs_CZ.New(), sk_SK.New(), hu_HU.New(), ro_RO.New(), bg_BG.New(),
		hr_HR.New(), sl_SI.New(), el_GR.New(), et_EE.New(), lv_LV.New(), lt_LT.New(),
		uk_UA.New(), ru_RU.New(), tr_TR.New(),
		ja_JP.New(), ko_KR.New(), zh_Hans_CN.New(),
	)
}

// Resolve returns the translator and separators for a locale tag. An empty
// tag resolves to the first registered locale.
func (r *Registry) Resolve(locale string) (locales.Translator, Symbols, error) {
	idx, err := r.match(locale)
	if err != nil {
		return nil, Symbols{}, err
	}
	return r.translators[idx], r.symbols[idx], nil
}

// Supports reports whether the tag resolves to a registered locale
func (r *Registry) Supports(locale string) bool {
	_, err := r.match(locale)
	return err == nil
}

// Locales lists the supported locale tags in BCP 47 form
func (r *Registry) Locales() []string {
	out := make([]string, 0, len(r.translators))
	for _, t := range r.translators {
		out = append(out, normalizeTag(t.Locale()))
	}
	return out
}

// FormatDate renders a date in the locale's short date format
func (r *Registry) FormatDate(date time.Time, locale string) (string, error) {
	t, _, err := r.Resolve(locale)
	if err != nil {
		return "", err
	}
	return t.FmtDateShort(date), nil
}

// match finds the registered locale for a tag. A tag naming a region needs
// that exact language and region, as separators differ between regions
// (de-DE "1.234,5", de-CH "1'234.5"). A bare language takes the
// matcher's pick within the same language.
func (r *Registry) match(locale string) (int, error) {
	locale = normalizeTag(locale)
	if locale == "" {
		return 0, nil
	}
	if len(r.translators) == 0 {
		return 0, fmt.Errorf("%w: %q", ErrUnsupportedLocale, locale)
	}

	tag, err := language.Parse(locale)
	if err != nil {
		return 0, fmt.Errorf("%w: %q", ErrUnsupportedLocale, locale)
	}

	if key, ok := regionKey(tag); ok {
		if idx, found := r.regional[key]; found {
			return idx, nil
		}
		return 0, fmt.Errorf("%w: %q", ErrUnsupportedLocale, locale)
	}

	_, idx, conf := r.matcher.Match(tag)
	wantBase, _ := tag.Base()
	gotBase, _ := r.tags[idx].Base()
	if conf == language.No || wantBase != gotBase {
		return 0, fmt.Errorf("%w: %q", ErrUnsupportedLocale, locale)
	}
	return idx, nil
}

// regionKey is "lang-REGION" for tags that name their region explicitly
func regionKey(tag language.Tag) (string, bool) {
	region, conf := tag.Region()
	if conf != language.Exact {
		return "", false
	}
	base, _ := tag.Base()
	return base.String() + "-" + region.String(), true
}

func normalizeTag(locale string) string {
	return strings.ReplaceAll(strings.TrimSpace(locale), "_", "-")
}

// symbolsOf reads a locale's separators back out of a formatted sample number
func symbolsOf(t locales.Translator) Symbols {
	sample := t.FmtNumber(1234567.5, 1)

	var runs []string
	var cur strings.Builder
	for _, r := range sample {
		if unicode.IsDigit(r) {
			if cur.Len() > 0 {
				runs = append(runs, cur.String())
				cur.Reset()
			}
			continue
		}
		cur.WriteRune(r)
	}

	sym := Symbols{Decimal: ".", Group: ","}
	if len(runs) > 0 {
		sym.Decimal = runs[len(runs)-1]
	}
	if len(runs) > 1 {
		sym.Group = runs[0]
	}
	if strings.TrimFunc(sym.Group, unicode.IsSpace) == "" {
		sym.Group = nbsp
	}
	return sym
}
