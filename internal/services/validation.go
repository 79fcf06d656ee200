package services

import (
	"errors"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"
)

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		name := strings.SplitN(f.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})
	return v
}

// validateInput returns an Invalid FlowError naming the first bad field.
func validateInput(input any) error {
	err := validate.Struct(input)
	if err == nil {
		return nil
	}
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) || len(verrs) == 0 {
		return newFlowError(ErrInvalid, err, "Invalid request.")
	}
	fe := verrs[0]
	switch fe.Tag() {
	case "required":
		return newFlowError(ErrInvalid, err, "%s is required.", fe.Field())
	case "email":
		return newFlowError(ErrInvalid, err, "%s must be a valid email address.", fe.Field())
	case "min":
		return newFlowError(ErrInvalid, err, "%s must be at least %s characters.", fe.Field(), fe.Param())
	case "gt":
		return newFlowError(ErrInvalid, err, "%s must be greater than %s.", fe.Field(), fe.Param())
	case "oneof":
		return newFlowError(ErrInvalid, err, "%s must be one of: %s.", fe.Field(), fe.Param())
	default:
		return newFlowError(ErrInvalid, err, "%s is invalid.", fe.Field())
	}
}
