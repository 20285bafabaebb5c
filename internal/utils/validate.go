package utils

import (
	"errors"
	"fmt"
	"reflect"
	"regexp"
	"sort"
	"strings"
	"sync"

	"github.com/go-playground/validator/v10"
	"github.com/localnerve/storefront/internal/types"
)

var (
	validate     *validator.Validate
	validateOnce sync.Once

	hasUpper = regexp.MustCompile(`[A-Z]`)
	hasLower = regexp.MustCompile(`[a-z]`)
	hasDigit = regexp.MustCompile(`\d`)
)

// Validator returns the shared validator with the custom rules registered
func Validator() *validator.Validate {
	validateOnce.Do(func() {
		validate = validator.New(validator.WithRequiredStructEnabled())
		validate.RegisterTagNameFunc(func(fld reflect.StructField) string {
			name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
			if name == "-" || name == "" {
				return fld.Name
			}
			return name
		})
		_ = validate.RegisterValidation("password", func(fl validator.FieldLevel) bool {
			value := fl.Field().String()
			return hasUpper.MatchString(value) && hasLower.MatchString(value) && hasDigit.MatchString(value)
		})
	})
	return validate
}

// ValidateStruct runs the struct tags, failures come back as a validation CustomError
func ValidateStruct(v interface{}) error {
	err := Validator().Struct(v)
	if err == nil {
		return nil
	}

	var validationErrors validator.ValidationErrors
	if !errors.As(err, &validationErrors) {
		return types.NewValidation(err.Error())
	}

	fields := FormatValidationError(validationErrors)
	messages := make([]string, 0, len(fields))
	for _, msg := range fields {
		messages = append(messages, msg)
	}
	sort.Strings(messages)

	return types.NewValidation(strings.Join(messages, "; "))
}

// FormatValidationError maps each failing field to a readable message
func FormatValidationError(validationErrors validator.ValidationErrors) map[string]string {
	out := make(map[string]string)
	for _, err := range validationErrors {
		field := err.Field()

		switch err.Tag() {
		case "required":
			out[field] = fmt.Sprintf("%s is required", field)
		case "min":
			if err.Kind() == reflect.String {
				out[field] = fmt.Sprintf("%s must be at least %s characters", field, err.Param())
			} else {
				out[field] = fmt.Sprintf("%s must be at least %s", field, err.Param())
			}
		case "max":
			out[field] = fmt.Sprintf("%s must be at most %s characters", field, err.Param())
		case "gt":
			out[field] = fmt.Sprintf("%s must be greater than %s", field, err.Param())
		case "gte":
			out[field] = fmt.Sprintf("%s must be greater than or equal to %s", field, err.Param())
		case "email":
			out[field] = fmt.Sprintf("%s must be a valid email", field)
		case "oneof":
			out[field] = fmt.Sprintf("%s must be one of: %s", field, err.Param())
		case "password":
			out[field] = "The password must have a Uppercase, lowercase letter and a number"
		default:
			out[field] = fmt.Sprintf("%s is invalid", field)
		}
	}
	return out
}
