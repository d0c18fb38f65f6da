package model

import (
	"bytes"
	"encoding/json"
)

// Optional is a value that may be missing. It encodes to JSON null when not Valid.
type Optional[T comparable] struct {
	Value T
	Valid bool
}

func Some[T comparable](v T) Optional[T] {
	return Optional[T]{Value: v, Valid: true}
}

func None[T comparable]() Optional[T] {
	return Optional[T]{}
}

// OptionalOf dereferences p, mapping nil to None.
func OptionalOf[T comparable](p *T) Optional[T] {
	if p == nil {
		return None[T]()
	}
	return Some(*p)
}

// Ptr returns nil when the value is missing.
func (o Optional[T]) Ptr() *T {
	if !o.Valid {
		return nil
	}
	v := o.Value
	return &v
}

func (o Optional[T]) MarshalJSON() ([]byte, error) {
	if !o.Valid {
		return []byte("null"), nil
	}
	return json.Marshal(o.Value)
}

func (o *Optional[T]) UnmarshalJSON(data []byte) error {
	if bytes.Equal(bytes.TrimSpace(data), []byte("null")) {
		*o = Optional[T]{}
		return nil
	}
	var v T
	if err := json.Unmarshal(data, &v); err != nil {
		return err
	}
	*o = Some(v)
	return nil
}
