package model

import (
	"errors"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"
)

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	v.RegisterTagNameFunc(func(field reflect.StructField) string {
		name, _, _ := strings.Cut(field.Tag.Get("json"), ",")
		if name == "-" {
			return ""
		}
		if name == "" {
			return field.Name
		}
		return name
	})
	return v
}

// validateStruct runs the struct tags of a raw payload and reports failures with JSON field paths.
func validateStruct(schema string, payload any) error {
	err := validate.Struct(payload)
	if err == nil {
		return nil
	}

	var validationErrors validator.ValidationErrors
	if !errors.As(err, &validationErrors) {
		return &ValidationError{Schema: schema, Fields: []FieldError{{Field: schema, Rule: err.Error()}}}
	}

	fields := make([]FieldError, len(validationErrors))
	for i, fe := range validationErrors {
		field := fe.Namespace()
		if _, rest, found := strings.Cut(field, "."); found {
			field = rest
		}
		fields[i] = FieldError{Field: field, Rule: fe.Tag()}
	}
	return &ValidationError{Schema: schema, Fields: fields}
}
