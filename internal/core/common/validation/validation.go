// Package validation validates request DTOs with struct tags and reports every
// failing field as an *internal.AppError.
package validation

import (
	"errors"
	"fmt"
	"reflect"
	"strings"
	"sync"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/shopspring/decimal"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	apperrors "github.com/mariustrier/TimeTrack-sub004/internal"
	"github.com/mariustrier/TimeTrack-sub004/internal/currency"
)

const dateLayout = "2006-01-02"

var (
	once     sync.Once
	validate *validator.Validate
)

func engine() *validator.Validate {
	once.Do(func() {
		v := validator.New(validator.WithRequiredStructEnabled())

		v.RegisterTagNameFunc(func(fld reflect.StructField) string {
			name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
			if name == "-" {
				return ""
			}
			return name
		})

		// decimal.Decimal is a struct; numeric tags see its float value.
		v.RegisterCustomTypeFunc(func(field reflect.Value) interface{} {
			if d, ok := field.Interface().(decimal.Decimal); ok {
				f, _ := d.Float64()
				return f
			}
			return nil
		}, decimal.Decimal{})

		_ = v.RegisterValidation("currency", func(fl validator.FieldLevel) bool {
			return currency.ValidCode(fl.Field().String())
		})
		_ = v.RegisterValidation("isodate", func(fl validator.FieldLevel) bool {
			_, err := time.Parse(dateLayout, fl.Field().String())
			return err == nil
		})

		validate = v
	})
	return validate
}

// Struct validates s and returns nil or a 400 AppError listing each failing
// field.
func Struct(s interface{}) error {
	err := engine().Struct(s)
	if err == nil {
		return nil
	}

	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return apperrors.NewValidationError("invalid input", apperrors.ErrCodeValidationFailed).WithCause(err)
	}

	details := apperrors.ValidationErrors{Errors: make([]apperrors.ValidationError, 0, len(verrs))}
	for _, fe := range verrs {
		details.Errors = append(details.Errors, apperrors.ValidationError{
			Field:   fe.Field(),
			Message: message(fe),
			Code:    string(codeFor(fe)),
		})
	}

	return apperrors.NewValidationError("Validation failed", apperrors.ErrCodeValidationFailed).WithDetails(details)
}

func message(fe validator.FieldError) string {
	field := formatFieldName(fe.Field())
	switch fe.Tag() {
	case "required", "required_without":
		return fmt.Sprintf("%s is required", field)
	case "min":
		if fe.Kind() == reflect.Slice {
			return fmt.Sprintf("%s must contain at least %s item(s)", field, fe.Param())
		}
		return fmt.Sprintf("%s must be at least %s", field, fe.Param())
	case "max":
		return fmt.Sprintf("%s must not exceed %s", field, fe.Param())
	case "gt":
		return fmt.Sprintf("%s must be greater than %s", field, fe.Param())
	case "gte":
		return fmt.Sprintf("%s must be at least %s", field, fe.Param())
	case "lte":
		return fmt.Sprintf("%s must not exceed %s", field, fe.Param())
	case "oneof":
		return fmt.Sprintf("%s must be one of: %s", field, fe.Param())
	case "currency":
		return fmt.Sprintf("%s must be an ISO 4217 currency code", field)
	case "isodate":
		return fmt.Sprintf("%s must be a date formatted as YYYY-MM-DD", field)
	default:
		return fmt.Sprintf("%s is invalid", field)
	}
}

func codeFor(fe validator.FieldError) apperrors.ErrorCode {
	switch fe.Tag() {
	case "currency":
		return apperrors.ErrCodeInvalidCurrency
	case "isodate":
		return apperrors.ErrCodeInvalidDate
	}
	switch fe.Field() {
	case "amount":
		return apperrors.ErrCodeInvalidAmount
	case "hours":
		return apperrors.ErrCodeInvalidHours
	case "category":
		return apperrors.ErrCodeInvalidCategory
	case "ids":
		return apperrors.ErrCodeEmptyIDs
	}
	return apperrors.ErrCodeValidationFailed
}

// formatFieldName turns user_id into "User Id".
func formatFieldName(s string) string {
	s = strings.ReplaceAll(s, "_", " ")
	return cases.Title(language.English).String(s)
}
