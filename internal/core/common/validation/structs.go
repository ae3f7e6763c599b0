package validation

import (
	"reflect"
	"regexp"
	"strings"
	"sync"

	"github.com/go-playground/locales/es"
	ut "github.com/go-playground/universal-translator"
	"github.com/go-playground/validator/v10"
	es_translations "github.com/go-playground/validator/v10/translations/es"

	apperrors "github.com/frahmantamala/school-admin/internal"
)

var (
	// custom validation tags & texts
	grupoTag   = "grupo"
	grupoText  = "{0} debe ser un grado del 1 al 3 seguido de una letra de la A a la L"
	grupoRegex = regexp.MustCompile(`^[1-3][A-L]$`)

	requiredTag  = "required"
	requiredText = "{0} es obligatorio"

	once       sync.Once
	validate   *validator.Validate
	translator ut.Translator
)

var tagCodes = map[string]apperrors.ErrorCode{
	"required": apperrors.ErrCodeFieldRequired,
	"max":      apperrors.ErrCodeFieldTooLong,
	"grupo":    apperrors.ErrCodeInvalidGroup,
}

// Validator returns the shared validator with Spanish messages.
func Validator() (*validator.Validate, ut.Translator) {
	once.Do(func() {
		validate = validator.New()

		locale := es.New()
		uni := ut.New(locale, locale)
		translator, _ = uni.GetTranslator("es")
		_ = es_translations.RegisterDefaultTranslations(validate, translator)

		// Use JSON tag names for errors instead of Go struct names.
		validate.RegisterTagNameFunc(func(fld reflect.StructField) string {
			name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
			if name == "-" {
				return ""
			}
			return name
		})

		_ = validate.RegisterValidation(grupoTag, func(fl validator.FieldLevel) bool {
			return grupoRegex.MatchString(fl.Field().String())
		})
		registerTranslation(grupoTag, grupoText)
		registerTranslation(requiredTag, requiredText, true)
	})
	return validate, translator
}

func registerTranslation(tag, text string, override ...bool) {
	var ovrd bool
	if len(override) > 0 {
		ovrd = override[0]
	}
	_ = validate.RegisterTranslation(
		tag, translator,
		func(t ut.Translator) error { return t.Add(tag, text, ovrd) },
		func(t ut.Translator, fe validator.FieldError) string {
			s, _ := t.T(tag, fe.Field())
			return s
		},
	)
}

// Struct validates s against its `validate` tags and returns the failures as
// field level validation errors.
func Struct(s interface{}) *apperrors.AppError {
	v, trans := Validator()
	err := v.Struct(s)
	if err == nil {
		return nil
	}

	fieldErrs, ok := err.(validator.ValidationErrors)
	if !ok {
		return apperrors.NewValidationError(err.Error(), apperrors.ErrCodeValidationFailed)
	}

	out := make([]apperrors.ValidationError, 0, len(fieldErrs))
	for _, fe := range fieldErrs {
		code, ok := tagCodes[fe.Tag()]
		if !ok {
			code = apperrors.ErrCodeValidationFailed
		}
		out = append(out, apperrors.ValidationError{
			Field:   fe.Field(),
			Message: fe.Translate(trans),
			Code:    string(code),
		})
	}
	return apperrors.NewFieldErrors(out...)
}
