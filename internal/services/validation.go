package services

import (
	"errors"
	"reflect"
	"strings"

	"github.com/go-playground/locales/en"
	ut "github.com/go-playground/universal-translator"
	"github.com/go-playground/validator/v10"
	en_translations "github.com/go-playground/validator/v10/translations/en"
)

var (
	validate   *validator.Validate
	translator ut.Translator
)

func init() {
	validate = validator.New(validator.WithRequiredStructEnabled())

	// Report JSON field names so messages match what clients send.
	validate.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})

	english := en.New()
	translator, _ = ut.New(english, english).GetTranslator("en")
	if err := en_translations.RegisterDefaultTranslations(validate, translator); err != nil {
		panic(err)
	}

	// min on byte slices counts bytes, the stock message talks about items.
	_ = validate.RegisterTranslation("min", translator, func(ut ut.Translator) error {
		return ut.Add("min", "{0} must not be empty", true)
	}, func(ut ut.Translator, fe validator.FieldError) string {
		if fe.Kind() == reflect.Slice {
			t, _ := ut.T("min", fe.Field())
			return t
		}
		return fe.Error()
	})
}

// validateStruct checks v against its validate tags and converts the first
// failure into a ValidationError.
func validateStruct(v interface{}) error {
	err := validate.Struct(v)
	if err == nil {
		return nil
	}

	var fieldErrors validator.ValidationErrors
	if errors.As(err, &fieldErrors) && len(fieldErrors) > 0 {
		first := fieldErrors[0]
		return &ValidationError{Field: first.Field(), Message: first.Translate(translator)}
	}
	return &ValidationError{Field: "input", Message: err.Error()}
}
