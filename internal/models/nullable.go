package models

import (
	"bytes"
	"encoding/json"
)

// Nullable is an optional JSON field that distinguishes "absent" from an
// explicit null. Set is true whenever the key was present in the payload.
type Nullable[T any] struct {
	Set   bool
	Value *T
}

// NullableOf returns a Nullable holding v.
func NullableOf[T any](v T) Nullable[T] {
	return Nullable[T]{Set: true, Value: &v}
}

// Null returns a Nullable that explicitly clears the field.
func Null[T any]() Nullable[T] {
	return Nullable[T]{Set: true}
}

// UnmarshalJSON implements json.Unmarshaler.
func (n *Nullable[T]) UnmarshalJSON(data []byte) error {
	n.Set = true
	if bytes.Equal(bytes.TrimSpace(data), []byte("null")) {
		n.Value = nil
		return nil
	}
	var v T
	if err := json.Unmarshal(data, &v); err != nil {
		return err
	}
	n.Value = &v
	return nil
}

// MarshalJSON implements json.Marshaler.
func (n Nullable[T]) MarshalJSON() ([]byte, error) {
	if n.Value == nil {
		return []byte("null"), nil
	}
	return json.Marshal(*n.Value)
}
