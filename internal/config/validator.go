// internal/config/validator.go
//
// Thin wrapper around go-playground/validator.
//
// `Load` calls validateStruct right after defaults are applied.  Any
// violation aborts startup, so the binary never runs with partial or
// malformed configuration.  Errors are flattened to "field: rule" pairs so
// the boot log names the offending key.

package config

import (
	"errors"
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"
)

var v = validator.New()

// validateStruct returns nil or one error listing every failed field.
func validateStruct(c *Config) error {
	err := v.Struct(c)
	if err == nil {
		return nil
	}
	var ve validator.ValidationErrors
	if !errors.As(err, &ve) {
		return err
	}
	parts := make([]string, 0, len(ve))
	for _, fe := range ve {
		parts = append(parts, fmt.Sprintf("%s: %s", fe.Namespace(), fe.Tag()))
	}
	return fmt.Errorf("config invalid: %s", strings.Join(parts, ", "))
}
