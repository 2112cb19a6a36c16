// Package validation wraps go-playground/validator so both the services
// and Echo (c.Validate) report the same first-violation message.
package validation

import (
	"errors"
	"fmt"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"

	"github.com/shopline/shop-api/internal/core/domain"
)

// Validator validates tagged input structs.
type Validator struct {
	v *validator.Validate
}

// New returns a Validator that names fields after their json (or query) tag.
func New() *Validator {
	v := validator.New(validator.WithRequiredStructEnabled())
	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		for _, tag := range []string{"json", "query", "param"} {
			name := strings.SplitN(f.Tag.Get(tag), ",", 2)[0]
			if name != "" && name != "-" {
				return name
			}
		}
		return f.Name
	})
	return &Validator{v: v}
}

// Struct validates i and returns domain.ErrValidation wrapping the first
// failing field's message.
func (val *Validator) Struct(i any) error {
	err := val.v.Struct(i)
	if err == nil {
		return nil
	}
	var ve validator.ValidationErrors
	if errors.As(err, &ve) && len(ve) > 0 {
		return domain.Validationf("%s", fieldError(ve[0]))
	}
	return domain.Validationf("%v", err)
}

// Validate satisfies the echo.Validator interface.
func (val *Validator) Validate(i any) error {
	return val.Struct(i)
}

// fieldError converts a single FieldError into a human-readable message.
func fieldError(fe validator.FieldError) string {
	field := fe.Field()
	switch fe.Tag() {
	case "required":
		return field + " is required"
	case "email":
		return field + " must be a valid email"
	case "gt":
		return fmt.Sprintf("%s must be greater than %s", field, fe.Param())
	case "gte":
		return fmt.Sprintf("%s must be at least %s", field, fe.Param())
	case "gtefield":
		return fmt.Sprintf("%s must not be less than %s", field, lowerFirst(fe.Param()))
	case "min":
		if fe.Kind() == reflect.String {
			return fmt.Sprintf("%s length must be at least %s characters long", field, fe.Param())
		}
		return fmt.Sprintf("%s must be at least %s", field, fe.Param())
	case "max":
		if fe.Kind() == reflect.String {
			return fmt.Sprintf("%s length must be at most %s characters long", field, fe.Param())
		}
		return fmt.Sprintf("%s must be at most %s", field, fe.Param())
	case "oneof":
		return fmt.Sprintf("%s must be one of: %s", field, fe.Param())
	default:
		return fmt.Sprintf("%s failed validation (%s)", field, fe.Tag())
	}
}

func lowerFirst(s string) string {
	if s == "" {
		return s
	}
	return strings.ToLower(s[:1]) + s[1:]
}
