package dto

import (
	"encoding/json"
)

// Optional tells an absent JSON key apart from an explicit null.
// Set is true whenever the key was present; Null marks a literal null.
type Optional[T any] struct {
	Set   bool
	Null  bool
	Value T
}

// UnmarshalJSON is only invoked for keys present in the payload
func (o *Optional[T]) UnmarshalJSON(data []byte) error {
	o.Set = true
	if string(data) == "null" {
		o.Null = true
		var zero T
		o.Value = zero
		return nil
	}
	o.Null = false
	return json.Unmarshal(data, &o.Value)
}

// Present reports a non-null value
func (o Optional[T]) Present() bool {
	return o.Set && !o.Null
}

// Some builds a set, non-null Optional
func Some[T any](v T) Optional[T] {
	return Optional[T]{Set: true, Value: v}
}

// Null builds an Optional holding an explicit null
func Null[T any]() Optional[T] {
	return Optional[T]{Set: true, Null: true}
}
