package handlers

import (
	"errors"
	"fmt"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/m1z23r/drift/pkg/drift"
)

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name, _, _ := strings.Cut(fld.Tag.Get("json"), ",")
		if name == "-" {
			return ""
		}
		return name
	})
	return v
}

// bindJSON decodes the body into req and runs its validate tags.
// It writes a 400 and returns false when either step fails.
func bindJSON(c *drift.Context, req any) bool {
	if err := c.BindJSON(req); err != nil {
		c.BadRequest("invalid request body")
		return false
	}
	if err := validate.Struct(req); err != nil {
		field, msg := describeValidation(err)
		_ = c.JSON(400, map[string]string{"error": msg, "field": field})
		return false
	}
	return true
}

func describeValidation(err error) (string, string) {
	var errs validator.ValidationErrors
	if !errors.As(err, &errs) || len(errs) == 0 {
		return "", "invalid request body"
	}

	fe := errs[0]
	field := fe.Field()
	switch fe.Tag() {
	case "required":
		return field, field + " is required"
	case "len":
		return field, fmt.Sprintf("%s must be exactly %s characters", field, fe.Param())
	case "min":
		return field, fmt.Sprintf("%s must be at least %s", field, fe.Param())
	case "max":
		return field, fmt.Sprintf("%s must be at most %s", field, fe.Param())
	case "oneof":
		return field, fmt.Sprintf("%s must be one of: %s", field, fe.Param())
	case "email":
		return field, field + " must be a valid email address"
	case "numeric":
		return field, field + " must contain only digits"
	default:
		return field, field + " is invalid"
	}
}
