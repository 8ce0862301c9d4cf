package utils

import (
	"errors"
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"
)

var validate = validator.New(validator.WithRequiredStructEnabled())

// ValidateStruct runs the shared validator and turns the first failure into a ValidationError.
func ValidateStruct(v any) error {
	err := validate.Struct(v)
	if err == nil {
		return nil
	}

	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) || len(verrs) == 0 {
		return err
	}

	fe := verrs[0]
	field := strings.ToLower(fe.Field())
	switch fe.Tag() {
	case "required":
		return NewValidationError(fmt.Sprintf("%s is required", field))
	case "min":
		return NewValidationError(fmt.Sprintf("%s must be at least %s characters", field, fe.Param()))
	case "max":
		return NewValidationError(fmt.Sprintf("%s must be at most %s characters", field, fe.Param()))
	case "hexcolor":
		return NewValidationError(fmt.Sprintf("%s must be a hex color such as #14b8a6", field))
	case "email":
		return NewValidationError(fmt.Sprintf("%s must be a valid email address", field))
	default:
		return NewValidationError(fmt.Sprintf("%s is invalid", field))
	}
}

// ValidateVar validates a single value against a tag expression.
func ValidateVar(v any, tag string) bool {
	return validate.Var(v, tag) == nil
}
