package model

import (
	"errors"
	"fmt"
	"strings"
)

var (
	// ErrValidation matches every *ValidationError.
	ErrValidation = errors.New("payload validation failed")
	// ErrInvalidQuery is returned for lookup keys that cannot be used.
	ErrInvalidQuery = errors.New("invalid query")
)

// FieldError names one field that failed a rule.
type FieldError struct {
	Field string `json:"field"`
	Rule  string `json:"rule"`
}

// ValidationError reports every field of a raw payload that did not match its schema.
type ValidationError struct {
	Schema string       `json:"schema"`
	Fields []FieldError `json:"fields"`
}

func (e *ValidationError) Error() string {
	parts := make([]string, len(e.Fields))
	for i, f := range e.Fields {
		parts[i] = fmt.Sprintf("%s (%s)", f.Field, f.Rule)
	}
	return fmt.Sprintf("invalid %s payload: %s", e.Schema, strings.Join(parts, ", "))
}

func (e *ValidationError) Is(target error) bool {
	return target == ErrValidation
}

// fieldErrors collects conversion failures found after the structural validation.
type fieldErrors struct {
	schema string
	fields []FieldError
}

func (f *fieldErrors) add(field, rule string) {
	f.fields = append(f.fields, FieldError{Field: field, Rule: rule})
}

func (f *fieldErrors) err() error {
	if len(f.fields) == 0 {
		return nil
	}
	return &ValidationError{Schema: f.schema, Fields: f.fields}
}
