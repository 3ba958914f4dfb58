// Package validation provides custom validators and error messages for request binding
package validation

import (
	"errors"
	"fmt"
	"reflect"
	"sort"
	"strings"
	"sync"
	"unicode"

	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/locales/en"
	ut "github.com/go-playground/universal-translator"
	"github.com/go-playground/validator/v10"
	en_translations "github.com/go-playground/validator/v10/translations/en"
	"github.com/shopspring/decimal"
)

// InvalidInputPrefix starts every binding failure message
const InvalidInputPrefix = "Invalid input parameters: "

var (
	once  sync.Once
	trans ut.Translator
)

// Initialize registers all custom validators and translations on gin's validator
func Initialize() {
	once.Do(func() {
		v, ok := binding.Validator.Engine().(*validator.Validate)
		if !ok {
			panic("validation: gin validator engine is not validator/v10")
		}
		if err := register(v); err != nil {
			panic(err)
		}
	})
}

func register(v *validator.Validate) error {
	v.RegisterTagNameFunc(fieldName)

	if err := v.RegisterValidation("positive_decimal", validatePositiveDecimal); err != nil {
		return fmt.Errorf("failed to register positive_decimal: %w", err)
	}
	if err := v.RegisterValidation("nospaces", validateNoSpaces); err != nil {
		return fmt.Errorf("failed to register nospaces: %w", err)
	}

	english := en.New()
	trans, _ = ut.New(english, english).GetTranslator("en")
	if err := en_translations.RegisterDefaultTranslations(v, trans); err != nil {
		return fmt.Errorf("failed to register translations: %w", err)
	}

	err := v.RegisterTranslation("positive_decimal", trans,
		func(ut ut.Translator) error {
			return ut.Add("positive_decimal", "{0} must be a number greater than 0", true)
		},
		func(ut ut.Translator, fe validator.FieldError) string {
			t, _ := ut.T("positive_decimal", fe.Field())
			return t
		})
	if err != nil {
		return fmt.Errorf("failed to register positive_decimal translation: %w", err)
	}

	err = v.RegisterTranslation("nospaces", trans,
		func(ut ut.Translator) error {
			return ut.Add("nospaces", "{0} must not contain spaces", true)
		},
		func(ut ut.Translator, fe validator.FieldError) string {
			t, _ := ut.T("nospaces", fe.Field())
			return t
		})
	if err != nil {
		return fmt.Errorf("failed to register nospaces translation: %w", err)
	}
	return nil
}

// fieldName reports query and JSON names instead of Go field names
func fieldName(f reflect.StructField) string {
	for _, tag := range []string{"form", "json"} {
		name := strings.SplitN(f.Tag.Get(tag), ",", 2)[0]
		if name == "-" {
			return ""
		}
		if name != "" {
			return name
		}
	}
	return f.Name
}

// validatePositiveDecimal checks the string is a decimal number above zero
func validatePositiveDecimal(fl validator.FieldLevel) bool {
	d, err := decimal.NewFromString(strings.TrimSpace(fl.Field().String()))
	if err != nil {
		return false
	}
	return d.IsPositive()
}

// validateNoSpaces checks the string has no whitespace anywhere
func validateNoSpaces(fl validator.FieldLevel) bool {
	return !strings.ContainsFunc(fl.Field().String(), unicode.IsSpace)
}

// Describe turns a binding error into a client message and the offending field names.
// Errors that are not validation failures, such as malformed query values, yield no fields.
func Describe(err error) (string, []string) {
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return InvalidInputPrefix + err.Error(), nil
	}

	messages := make([]string, 0, len(verrs))
	seen := make(map[string]bool, len(verrs))
	fields := make([]string, 0, len(verrs))
	for _, fe := range verrs {
		if trans != nil {
			messages = append(messages, fe.Translate(trans))
		} else {
			messages = append(messages, fe.Error())
		}
		if !seen[fe.Field()] {
			seen[fe.Field()] = true
			fields = append(fields, fe.Field())
		}
	}
	sort.Strings(fields)
	return InvalidInputPrefix + strings.Join(messages, "; "), fields
}
