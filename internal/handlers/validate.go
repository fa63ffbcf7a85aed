package handlers

import (
	"errors"
	"fmt"
	"reflect"
	"strings"
	"sync"

	"github.com/go-playground/validator/v10"

	"proviewz/internal/apperr"
)

var (
	validateOnce sync.Once
	validatorV   *validator.Validate
)

func getValidator() *validator.Validate {
	validateOnce.Do(func() {
		validatorV = validator.New(validator.WithRequiredStructEnabled())
		// Report JSON field names instead of Go field names.
		validatorV.RegisterTagNameFunc(func(f reflect.StructField) string {
			name, _, _ := strings.Cut(f.Tag.Get("json"), ",")
			if name == "-" {
				return ""
			}
			return name
		})
	})
	return validatorV
}

// validate checks struct tags on v and converts the first failure into a
// validation error.
func validate(v any) error {
	err := getValidator().Struct(v)
	if err == nil {
		return nil
	}
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) || len(verrs) == 0 {
		return apperr.Validation("invalid request body")
	}
	return apperr.Validation("%s", fieldMessage(verrs[0]))
}

func fieldMessage(fe validator.FieldError) string {
	field := fe.Field()
	switch fe.Tag() {
	case "required":
		return field + " is required"
	case "email":
		return field + " must be a valid email address"
	case "min":
		return fmt.Sprintf("%s must be at least %s characters", field, fe.Param())
	case "max":
		if fe.Kind() == reflect.Slice {
			return fmt.Sprintf("%s must have at most %s entries", field, fe.Param())
		}
		return fmt.Sprintf("%s is too long (max %s characters)", field, fe.Param())
	case "uuid":
		return field + " must be a UUID"
	default:
		return field + " is invalid"
	}
}
