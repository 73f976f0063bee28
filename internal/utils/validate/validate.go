// Package validate checks request structs against their `validate` tags and
// reports failures as a field map keyed by JSON name.
package validate

import (
	"errors"
	"fmt"
	"reflect"
	"strings"
	"sync"
	"unicode"

	"github.com/go-playground/validator/v10"

	svcErr "github.com/oggyb/swipe-match/internal/errors"
)

var (
	once sync.Once
	v    *validator.Validate
)

func instance() *validator.Validate {
	once.Do(func() {
		v = validator.New(validator.WithRequiredStructEnabled())
		v.RegisterTagNameFunc(func(f reflect.StructField) string {
			name := strings.SplitN(f.Tag.Get("json"), ",", 2)[0]
			if name == "-" {
				return ""
			}
			if name == "" {
				return f.Name
			}
			return name
		})
		// singleline rejects control characters such as CR and LF in free text
		// that ends up in mail headers and logs.
		_ = v.RegisterValidation("singleline", func(fl validator.FieldLevel) bool {
			return !strings.ContainsFunc(fl.Field().String(), unicode.IsControl)
		})
	})
	return v
}

// Struct validates s. The result is nil or a *errors.ValidationError.
func Struct(s any) error {
	err := instance().Struct(s)
	if err == nil {
		return nil
	}

	var fieldErrs validator.ValidationErrors
	if !errors.As(err, &fieldErrs) {
		return fmt.Errorf("%w: %v", svcErr.ErrInvalidArgument, err)
	}

	verr := svcErr.Validation()
	for _, fe := range fieldErrs {
		verr.Add(fe.Field(), message(fe))
	}
	return verr.Err()
}

func message(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return fmt.Sprintf("The %s field is required.", fe.Field())
	case "email":
		return fmt.Sprintf("The %s must be a valid email address.", fe.Field())
	case "min":
		if fe.Kind() == reflect.String {
			return fmt.Sprintf("The %s must be at least %s characters.", fe.Field(), fe.Param())
		}
		return fmt.Sprintf("The %s must be at least %s.", fe.Field(), fe.Param())
	case "max":
		if fe.Kind() == reflect.String {
			return fmt.Sprintf("The %s may not be greater than %s characters.", fe.Field(), fe.Param())
		}
		return fmt.Sprintf("The %s may not be greater than %s.", fe.Field(), fe.Param())
	case "gte":
		return fmt.Sprintf("The %s must be at least %s.", fe.Field(), fe.Param())
	case "lte":
		return fmt.Sprintf("The %s may not be greater than %s.", fe.Field(), fe.Param())
	case "eqfield":
		return fmt.Sprintf("The %s confirmation does not match.", strings.TrimSuffix(fe.Field(), "_confirmation"))
	case "singleline":
		return fmt.Sprintf("The %s may not contain line breaks or control characters.", fe.Field())
	default:
		return fmt.Sprintf("The %s is invalid.", fe.Field())
	}
}
