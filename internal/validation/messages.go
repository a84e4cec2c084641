package validation

import (
	"fmt"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"
)

// defaultMessage renders a violation when the shape has no override for it.
func defaultMessage(fe validator.FieldError) string {
	field := fe.Field()
	switch fe.Tag() {
	case "required":
		return field + " is required"
	case "email":
		return field + " is not valid"
	case "min":
		if isString(fe) {
			return fmt.Sprintf("%s must be at least %s characters long", field, fe.Param())
		}
		return fmt.Sprintf("%s must be at least %s", field, fe.Param())
	case "max":
		if isString(fe) {
			return fmt.Sprintf("%s must be at most %s characters long", field, fe.Param())
		}
		return fmt.Sprintf("%s must be at most %s", field, fe.Param())
	case "oneof":
		options := strings.Fields(fe.Param())
		for i, o := range options {
			options[i] = `"` + o + `"`
		}
		return "Invalid option: expected one of " + strings.Join(options, "|")
	case "number", "numeric":
		return field + " must be a positive integer"
	case "uuid", "uuid4", "uuid7":
		return field + " must be a valid identifier"
	default:
		return fmt.Sprintf("%s is invalid (%s)", field, fe.Tag())
	}
}

func isString(fe validator.FieldError) bool {
	return fe.Kind() == reflect.String
}
