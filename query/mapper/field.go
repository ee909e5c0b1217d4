package mapper

import (
	"time"

	"github.com/google/uuid"
)

// Kind is the coercion rule applied to a field.
type Kind int

const (
	KindInt Kind = iota
	KindInt64
	KindFloat
	KindBool
	KindString
	KindChar
	KindEnum
	KindUUID
	KindTime
	// KindRef is a by-id reference: only the identifier of a default
	// instance of the referenced type is populated.
	KindRef
)

var kindNames = [...]string{"int", "int64", "float", "bool", "string", "char", "enum", "uuid", "time", "ref"}

func (k Kind) String() string {
	if int(k) < len(kindNames) {
		return kindNames[k]
	}
	return "unknown"
}

// Field maps one column onto one field of T.
type Field[T any] struct {
	// Name is the field (attribute) name; Column the column read from a row.
	Name   string
	Column string
	Kind   Kind
	set    func(dst *T, raw interface{}) error
}

// Property is the column to field pairing of a declared field.
type Property struct {
	Column string
	Field  string
}

// Custom declares a field with its own coercion.
func Custom[T any](name, column string, kind Kind, set func(dst *T, raw interface{}) error) Field[T] {
	return Field[T]{Name: name, Column: column, Kind: kind, set: set}
}

func Int[T any](name, column string, set func(*T, int)) Field[T] {
	return Custom(name, column, KindInt, func(dst *T, raw interface{}) error {
		n, err := toInt64(raw)
		if err != nil {
			return err
		}
		set(dst, int(n))
		return nil
	})
}

func Int64[T any](name, column string, set func(*T, int64)) Field[T] {
	return Custom(name, column, KindInt64, func(dst *T, raw interface{}) error {
		n, err := toInt64(raw)
		if err != nil {
			return err
		}
		set(dst, n)
		return nil
	})
}

func Float[T any](name, column string, set func(*T, float64)) Field[T] {
	return Custom(name, column, KindFloat, func(dst *T, raw interface{}) error {
		f, err := toFloat64(raw)
		if err != nil {
			return err
		}
		set(dst, f)
		return nil
	})
}

func Bool[T any](name, column string, set func(*T, bool)) Field[T] {
	return Custom(name, column, KindBool, func(dst *T, raw interface{}) error {
		b, err := toBool(raw)
		if err != nil {
			return err
		}
		set(dst, b)
		return nil
	})
}

func String[T any](name, column string, set func(*T, string)) Field[T] {
	return Custom(name, column, KindString, func(dst *T, raw interface{}) error {
		s, err := toString(raw)
		if err != nil {
			return err
		}
		set(dst, s)
		return nil
	})
}

func Char[T any](name, column string, set func(*T, rune)) Field[T] {
	return Custom(name, column, KindChar, func(dst *T, raw interface{}) error {
		r, err := toChar(raw)
		if err != nil {
			return err
		}
		set(dst, r)
		return nil
	})
}

// Enum matches the raw text against constant names exactly, case included.
func Enum[T any, E any](name, column string, constants map[string]E, set func(*T, E)) Field[T] {
	return Custom(name, column, KindEnum, func(dst *T, raw interface{}) error {
		s, err := toString(raw)
		if err != nil {
			return err
		}
		e, ok := constants[s]
		if !ok {
			return errNotConstant
		}
		set(dst, e)
		return nil
	})
}

func UUID[T any](name, column string, set func(*T, uuid.UUID)) Field[T] {
	return Custom(name, column, KindUUID, func(dst *T, raw interface{}) error {
		id, err := toUUID(raw)
		if err != nil {
			return err
		}
		set(dst, id)
		return nil
	})
}

func Time[T any](name, column string, set func(*T, time.Time)) Field[T] {
	return Custom(name, column, KindTime, func(dst *T, raw interface{}) error {
		t, err := toTime(raw)
		if err != nil {
			return err
		}
		set(dst, t)
		return nil
	})
}

// Ref declares a by-id reference to R. The raw value is coerced through id,
// the identifier field of R, into a fresh R which set then attaches to T.
func Ref[T any, R any](name, column string, id Field[R], set func(*T, *R)) Field[T] {
	return Custom(name, column, KindRef, func(dst *T, raw interface{}) error {
		ref := new(R)
		if err := id.set(ref, raw); err != nil {
			return err
		}
		set(dst, ref)
		return nil
	})
}
