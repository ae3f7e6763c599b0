package validation

import (
	"errors"
	"fmt"
	"unicode/utf8"

	apperrors "github.com/frahmantamala/school-admin/internal"
)

type ValidatorFunc func(interface{}) *apperrors.ValidationError

type FieldValidator struct {
	FieldName  string
	Value      interface{}
	Validators []ValidatorFunc
}

// ValidationBuilder collects field checks and reports every failure at once,
// in the order the fields were declared.
type ValidationBuilder struct {
	fields []*FieldValidator
	extra  []apperrors.ValidationError
}

func NewValidator() *ValidationBuilder {
	return &ValidationBuilder{}
}

func (v *ValidationBuilder) Field(name string, value interface{}) *FieldValidator {
	fv := &FieldValidator{FieldName: name, Value: value}
	v.fields = append(v.fields, fv)
	return fv
}

func (fv *FieldValidator) fail(message string, code apperrors.ErrorCode) *apperrors.ValidationError {
	return &apperrors.ValidationError{Field: fv.FieldName, Message: message, Code: string(code)}
}

func (fv *FieldValidator) Required(message string) *FieldValidator {
	fv.Validators = append(fv.Validators, func(value interface{}) *apperrors.ValidationError {
		empty := false
		switch v := value.(type) {
		case string:
			empty = v == ""
		case int:
			empty = v == 0
		case int64:
			empty = v == 0
		case *string:
			empty = v == nil || *v == ""
		case interface{ IsZero() bool }:
			empty = v.IsZero()
		case nil:
			empty = true
		}
		if empty {
			return fv.fail(message, apperrors.ErrCodeFieldRequired)
		}
		return nil
	})
	return fv
}

// MaxLength counts characters, not bytes.
func (fv *FieldValidator) MaxLength(max int) *FieldValidator {
	fv.Validators = append(fv.Validators, func(value interface{}) *apperrors.ValidationError {
		if v, ok := value.(string); ok && utf8.RuneCountInString(v) > max {
			return fv.fail(fmt.Sprintf("Máximo %d caracteres", max), apperrors.ErrCodeFieldTooLong)
		}
		return nil
	})
	return fv
}

func (fv *FieldValidator) Custom(validator func(interface{}) *apperrors.ValidationError) *FieldValidator {
	fv.Validators = append(fv.Validators, validator)
	return fv
}

// Check records a failure on field when cond does not hold. Use it for rules
// spanning several fields.
func (v *ValidationBuilder) Check(cond bool, field, message string, code apperrors.ErrorCode) *ValidationBuilder {
	if !cond {
		v.extra = append(v.extra, apperrors.ValidationError{Field: field, Message: message, Code: string(code)})
	}
	return v
}

// Validate runs the checks. Only the first failure of each field is kept.
func (v *ValidationBuilder) Validate() *apperrors.AppError {
	var validationErrors []apperrors.ValidationError

	for _, field := range v.fields {
		for _, validator := range field.Validators {
			if err := validator(field.Value); err != nil {
				validationErrors = append(validationErrors, *err)
				break
			}
		}
	}
	validationErrors = append(validationErrors, v.extra...)

	if len(validationErrors) > 0 {
		return apperrors.NewFieldErrors(validationErrors...)
	}
	return nil
}

// Merge folds field errors from err into one validation error. Errors that
// are not validation errors are returned as they are.
func Merge(errs ...error) error {
	var fields []apperrors.ValidationError
	for _, err := range errs {
		if err == nil {
			continue
		}
		var appErr *apperrors.AppError
		if !errors.As(err, &appErr) || appErr.Type != apperrors.ErrorTypeValidation {
			return err
		}
		if fe := apperrors.FieldErrors(appErr); len(fe) > 0 {
			fields = append(fields, fe...)
		} else {
			fields = append(fields, apperrors.ValidationError{Message: appErr.Message, Code: string(appErr.Code)})
		}
	}
	if len(fields) == 0 {
		return nil
	}
	return apperrors.NewFieldErrors(fields...)
}

// Join is Merge for the results of Struct and Validate. Nil entries are
// skipped.
func Join(errs ...*apperrors.AppError) error {
	list := make([]error, 0, len(errs))
	for _, e := range errs {
		if e != nil {
			list = append(list, e)
		}
	}
	return Merge(list...)
}
