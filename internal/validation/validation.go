// Package validation builds go-playground validators with English translations.
package validation

import (
	"errors"
	"fmt"
	"reflect"
	"strings"

	"github.com/go-playground/locales/en"
	ut "github.com/go-playground/universal-translator"
	"github.com/go-playground/validator/v10"
	enTranslations "github.com/go-playground/validator/v10/translations/en"
)

// FieldViolation is a translated validation failure for one field.
type FieldViolation struct {
	Field       string
	Description string
}

// New returns a validator whose field names are read from tagKey (e.g. "json" or "mapstructure").
func New(tagKey string) (*validator.Validate, ut.Translator, error) {
	validate := validator.New()

	enLocale := en.New()
	uni := ut.New(enLocale, enLocale)
	trans, _ := uni.GetTranslator("en")
	if err := enTranslations.RegisterDefaultTranslations(validate, trans); err != nil {
		return nil, nil, fmt.Errorf("failed to register default translations: %w", err)
	}

	validate.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get(tagKey), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})
	return validate, trans, nil
}

// Violations converts an error returned by Validate.Struct into translated field violations.
// It returns nil when err is not a validation error.
func Violations(err error, trans ut.Translator) []FieldViolation {
	var validationErrors validator.ValidationErrors
	if !errors.As(err, &validationErrors) {
		return nil
	}
	violations := make([]FieldViolation, 0, len(validationErrors))
	for _, e := range validationErrors {
		violations = append(violations, FieldViolation{
			Field:       e.Field(),
			Description: e.Translate(trans),
		})
	}
	return violations
}
