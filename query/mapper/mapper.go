// Package mapper converts column-keyed rows into typed values using a
// statically declared column to field table.
package mapper

import (
	"strings"

	"github.com/satishbabariya/querykit/query"
)

// Table is the metadata of T: its fields and any attribute overrides.
// A Table is immutable once built and safe for concurrent use.
type Table[T any] struct {
	fields    []Field[T]
	overrides map[string]string
}

// NewTable declares the fields of T.
func NewTable[T any](fields ...Field[T]) *Table[T] {
	return &Table[T]{fields: append([]Field[T](nil), fields...)}
}

// WithOverride returns a copy of t reading attr (a field name or declared
// column) from column instead.
func (t *Table[T]) WithOverride(attr, column string) *Table[T] {
	overrides := make(map[string]string, len(t.overrides)+1)
	for k, v := range t.overrides {
		overrides[k] = v
	}
	overrides[attr] = column
	return &Table[T]{fields: t.fields, overrides: overrides}
}

// Properties lists the effective column to field pairs.
func (t *Table[T]) Properties() []Property {
	props := make([]Property, len(t.fields))
	for i, f := range t.fields {
		props[i] = Property{Column: t.column(f), Field: f.Name}
	}
	return props
}

// ToList maps every row. The first coercion failure aborts the call.
func (t *Table[T]) ToList(rows []query.Row) ([]T, error) {
	columns := make([]string, len(t.fields))
	for i, f := range t.fields {
		columns[i] = t.column(f)
	}

	out := make([]T, 0, len(rows))
	for _, row := range rows {
		var v T
		if err := t.mapRow(row, columns, &v); err != nil {
			return nil, err
		}
		out = append(out, v)
	}
	return out, nil
}

// ToObject maps the first row. ok is false without rows.
func (t *Table[T]) ToObject(rows []query.Row) (v T, ok bool, err error) {
	if len(rows) == 0 {
		return v, false, nil
	}
	list, err := t.ToList(rows[:1])
	if err != nil {
		return v, false, err
	}
	return list[0], true, nil
}

func (t *Table[T]) column(f Field[T]) string {
	if c, ok := t.overrides[f.Name]; ok {
		return c
	}
	if c, ok := t.overrides[f.Column]; ok {
		return c
	}
	return f.Column
}

func (t *Table[T]) mapRow(row query.Row, columns []string, dst *T) error {
	var folded map[string]interface{}
	for i, f := range t.fields {
		raw, ok := row[columns[i]]
		if !ok {
			// Drivers differ in the case they report column names in.
			if folded == nil {
				folded = make(map[string]interface{}, len(row))
				for k, v := range row {
					folded[strings.ToLower(k)] = v
				}
			}
			raw, ok = folded[strings.ToLower(columns[i])]
		}
		if !ok || absent(raw) {
			continue
		}
		if err := f.set(dst, raw); err != nil {
			return &CoercionError{Field: f.Name, Column: columns[i], Value: raw, Kind: f.Kind, Cause: err}
		}
	}
	return nil
}

// absent reports NULLs and empty text, which leave the field at its zero value.
func absent(v interface{}) bool {
	switch x := v.(type) {
	case nil:
		return true
	case string:
		return x == ""
	case []byte:
		return len(x) == 0
	}
	return false
}
