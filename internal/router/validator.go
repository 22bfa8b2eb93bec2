package router

import (
	"errors"
	"reflect"
	"strings"

	"github.com/go-playground/locales/en"
	ut "github.com/go-playground/universal-translator"
	"github.com/go-playground/validator/v10"
	entranslations "github.com/go-playground/validator/v10/translations/en"

	apperrors "agencysite/internal/errors"
	"agencysite/internal/service"
)

// CustomValidator wraps validator for Echo. Failures are reported as
// *errors.ValidationError keyed by JSON field name.
type CustomValidator struct {
	validator  *validator.Validate
	translator ut.Translator
}

// NewValidator builds the request validator with English messages.
func NewValidator() (*CustomValidator, error) {
	v := validator.New(validator.WithRequiredStructEnabled())
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})

	if err := v.RegisterValidation("slug", func(fl validator.FieldLevel) bool {
		return service.ValidSlug(fl.Field().String())
	}); err != nil {
		return nil, err
	}

	locale := en.New()
	trans, _ := ut.New(locale, locale).GetTranslator("en")
	if err := entranslations.RegisterDefaultTranslations(v, trans); err != nil {
		return nil, err
	}
	if err := v.RegisterTranslation("slug", trans,
		func(t ut.Translator) error {
			return t.Add("slug", "{0} may only contain lowercase letters, numbers and hyphens", true)
		},
		func(t ut.Translator, fe validator.FieldError) string {
			msg, _ := t.T("slug", fe.Field())
			return msg
		},
	); err != nil {
		return nil, err
	}

	return &CustomValidator{validator: v, translator: trans}, nil
}

// Validate implements echo.Validator interface.
func (cv *CustomValidator) Validate(i interface{}) error {
	err := cv.validator.Struct(i)
	if err == nil {
		return nil
	}

	var fieldErrs validator.ValidationErrors
	if !errors.As(err, &fieldErrs) {
		return err
	}

	verr := &apperrors.ValidationError{Fields: make([]apperrors.FieldError, 0, len(fieldErrs))}
	for _, fe := range fieldErrs {
		verr.Fields = append(verr.Fields, apperrors.FieldError{
			Field:   fieldPath(fe),
			Message: fe.Translate(cv.translator),
		})
	}
	return verr
}

// fieldPath drops the root struct name and embedded struct names from the namespace, so
// "ContactInput.SubmissionBaseInput.email" becomes "email" and list items keep their index.
func fieldPath(fe validator.FieldError) string {
	parts := strings.Split(fe.Namespace(), ".")
	out := parts[:0]
	for i, p := range parts {
		if i == 0 || p == "" {
			continue
		}
		if first := p[0]; first >= 'A' && first <= 'Z' {
			continue
		}
		out = append(out, p)
	}
	if len(out) == 0 {
		return fe.Field()
	}
	return strings.Join(out, ".")
}
