package mapper

import (
	"errors"
	"fmt"
)

// ErrNoIdentifier is returned by FromTags for a reference field whose target
// type has no identifier field.
var ErrNoIdentifier = errors.New("querykit: reference type has no identifier field")

// CoercionError reports a raw value that could not be converted to its field.
type CoercionError struct {
	Field  string
	Column string
	Value  interface{}
	Kind   Kind
	Cause  error
}

func (e *CoercionError) Error() string {
	return fmt.Sprintf("querykit: cannot map column %q value %v (%T) to %s field %s: %v",
		e.Column, e.Value, e.Value, e.Kind, e.Field, e.Cause)
}

func (e *CoercionError) Unwrap() error {
	return e.Cause
}

// IsCoercion reports whether err is a mapping coercion failure.
func IsCoercion(err error) bool {
	var ce *CoercionError
	return errors.As(err, &ce)
}
