// Package validation wires go-playground/validator with json field names and
// turns its errors into messages that can be shown to curators.
package validation

import (
	"errors"
	"fmt"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"
)

// FieldError is one failing field. Field uses the json name of the struct
// field, including a slice index for dive errors ("gallery_urls[1]").
type FieldError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

func (e FieldError) String() string {
	return e.Field + " " + e.Message
}

func New() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		if name == "" {
			return fld.Name
		}
		return name
	})
	return v
}

var shared = New()

// Struct validates s with the package validator. A nil slice means s passed.
// Errors that are not field errors (for example a nil struct) are returned
// as-is in err.
func Struct(s any) ([]FieldError, error) {
	return StructWith(shared, s)
}

func StructWith(v *validator.Validate, s any) ([]FieldError, error) {
	err := v.Struct(s)
	if err == nil {
		return nil, nil
	}
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return nil, err
	}
	out := make([]FieldError, 0, len(verrs))
	for _, fe := range verrs {
		out = append(out, FieldError{Field: fe.Field(), Message: Message(fe)})
	}
	return out, nil
}

// Message renders a single validator failure. Unknown tags fall back to the
// tag name so new rules still produce something readable.
func Message(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return "is required"
	case "gte":
		return fmt.Sprintf("must be greater than or equal to %s", fe.Param())
	case "lte":
		return fmt.Sprintf("must be less than or equal to %s", fe.Param())
	case "oneof":
		return "must be one of: " + strings.Join(strings.Fields(fe.Param()), ", ")
	case "http_url", "url":
		return "must be a valid http(s) URL"
	case "email":
		return "must be a valid email address"
	case "max":
		return fmt.Sprintf("must be at most %s characters", fe.Param())
	case "uuid", "uuid4":
		return "must be a valid uuid"
	default:
		return "failed " + fe.Tag() + " check"
	}
}

// Join renders a list of field errors as a single line.
func Join(errs []FieldError) string {
	parts := make([]string, len(errs))
	for i, fe := range errs {
		parts[i] = fe.String()
	}
	return strings.Join(parts, "; ")
}

// EchoValidator plugs the validator into echo's c.Validate.
type EchoValidator struct {
	v *validator.Validate
}

func NewEchoValidator() *EchoValidator {
	return &EchoValidator{v: shared}
}

func (ev *EchoValidator) Validate(i any) error {
	errs, err := StructWith(ev.v, i)
	if err != nil {
		return err
	}
	if len(errs) > 0 {
		return &Errors{Fields: errs}
	}
	return nil
}

// Errors is returned by EchoValidator so handlers can surface every field.
type Errors struct {
	Fields []FieldError
}

func (e *Errors) Error() string {
	return Join(e.Fields)
}
