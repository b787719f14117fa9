package shared

import (
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"

	"github.com/smartstock/smartstock/internal/platform/httpx"
)

var validate = newValidator()

// newValidator reports fields by their JSON names.
func newValidator() *validator.Validate {
	v := validator.New()
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name, _, _ := strings.Cut(fld.Tag.Get("json"), ",")
		if name == "-" {
			return ""
		}
		return name
	})
	return v
}

// Validate checks struct tags on v.
func Validate(v any) error {
	return httpx.Validate(validate, v)
}
