// internal/form/validate.go
//
// Server-side validation of decoded JSON payloads.
//
// Context
//   Components decode request bodies into small input structs tagged for
//   go-playground/validator.  Validate runs the rules and, on failure,
//   returns a validationError carrying one ErrorField per offending field,
//   named by its JSON key so clients can highlight the exact input.
//
// Workflow
//   •  The validator instance is built once; field names come from the
//      `json` tag, so "meta_description" is reported, not "MetaDescription".
//   •  Each failed rule maps to a short human sentence (see message()).
//   •  Callers distinguish user errors from system failures with
//      IsValidationError / Fields.
//
//------------------------------------------------------------------------------

package form

import (
	"errors"
	"fmt"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"

	"github.com/yanizio/corpsite/internal/view"
)

// ErrorField describes a single validation failure.
type ErrorField = view.FieldError

// validationError wraps []ErrorField and satisfies the error interface.
type validationError struct{ Fields []ErrorField }

func (ve validationError) Error() string { return "form validation failed" }

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		name, _, _ := strings.Cut(f.Tag.Get("json"), ",")
		if name == "-" {
			return ""
		}
		if name == "" {
			return f.Name
		}
		return name
	})
	return v
}

// Validate checks dst against its `validate` tags.
func Validate(dst any) error {
	err := validate.Struct(dst)
	if err == nil {
		return nil
	}
	var ve validator.ValidationErrors
	if !errors.As(err, &ve) {
		return err
	}
	fields := make([]ErrorField, 0, len(ve))
	for _, fe := range ve {
		fields = append(fields, ErrorField{Field: fe.Field(), Message: message(fe)})
	}
	return validationError{Fields: fields}
}

// IsValidationError reports whether err came from a failed Validate.
func IsValidationError(err error) bool {
	var ve validationError
	return errors.As(err, &ve)
}

// Fields returns the per-field failures carried by err, if any.
func Fields(err error) []ErrorField {
	var ve validationError
	if errors.As(err, &ve) {
		return ve.Fields
	}
	return nil
}

// message turns a failed rule into a user-facing sentence.
func message(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return "This field is required."
	case "email":
		return "Must be a valid email address."
	case "url":
		return "Must be a valid URL."
	case "min":
		if fe.Kind() == reflect.String {
			return fmt.Sprintf("Must be at least %s characters.", fe.Param())
		}
		return fmt.Sprintf("Must be at least %s.", fe.Param())
	case "max":
		if fe.Kind() == reflect.String {
			return fmt.Sprintf("Must be at most %s characters.", fe.Param())
		}
		return fmt.Sprintf("Must be at most %s.", fe.Param())
	case "gte":
		return fmt.Sprintf("Must be %s or greater.", fe.Param())
	case "lte":
		return fmt.Sprintf("Must be %s or less.", fe.Param())
	case "oneof":
		return fmt.Sprintf("Must be one of: %s.", strings.ReplaceAll(fe.Param(), " ", ", "))
	case "alphanum":
		return "Only letters and digits are allowed."
	default:
		return "Invalid input."
	}
}
