package mapper

import (
	"fmt"
	"reflect"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/satishbabariya/querykit/query"
)

var (
	uuidType = reflect.TypeOf(uuid.UUID{})
	timeType = reflect.TypeOf(time.Time{})

	tagTables sync.Map // reflect.Type -> *Table[T]
)

// FromTags derives the table of struct type T from `db` tags:
//
//	ID     int64     `db:"id"`
//	Status Status    `db:"status,enum=ACTIVE|INACTIVE"`
//	Grade  rune      `db:"grade,char"`
//	Owner  *User     `db:"owner_id,ref=ID"`
//	Secret string    `db:"-"`
//
// Untagged exported fields use the snake_case field name as column.
// Tables are computed once per type.
func FromTags[T any]() (*Table[T], error) {
	var zero T
	typ := reflect.TypeOf(zero)
	if typ == nil || typ.Kind() != reflect.Struct {
		return nil, fmt.Errorf("querykit: FromTags needs a struct type, got %v", typ)
	}
	if cached, ok := tagTables.Load(typ); ok {
		return cached.(*Table[T]), nil
	}

	var fields []Field[T]
	for i := 0; i < typ.NumField(); i++ {
		sf := typ.Field(i)
		if !sf.IsExported() {
			continue
		}
		tag := sf.Tag.Get("db")
		if tag == "-" {
			continue
		}
		column, opts := parseTag(tag)
		if column == "" {
			column = query.SnakeCase(sf.Name)
		}

		kind, coerce, err := coercerFor(sf.Type, opts)
		if err != nil {
			return nil, fmt.Errorf("field %s: %w", sf.Name, err)
		}
		index := sf.Index
		fields = append(fields, Custom(sf.Name, column, kind, func(dst *T, raw interface{}) error {
			v, err := coerce(raw)
			if err != nil {
				return err
			}
			reflect.ValueOf(dst).Elem().FieldByIndex(index).Set(v)
			return nil
		}))
	}

	t := NewTable(fields...)
	actual, _ := tagTables.LoadOrStore(typ, t)
	return actual.(*Table[T]), nil
}

type coercer func(raw interface{}) (reflect.Value, error)

func parseTag(tag string) (string, map[string]string) {
	parts := strings.Split(tag, ",")
	opts := make(map[string]string, len(parts)-1)
	for _, p := range parts[1:] {
		k, v, _ := strings.Cut(strings.TrimSpace(p), "=")
		opts[k] = v
	}
	return strings.TrimSpace(parts[0]), opts
}

func coercerFor(typ reflect.Type, opts map[string]string) (Kind, coercer, error) {
	if idName, ok := opts["ref"]; ok {
		return refCoercer(typ, idName)
	}
	if typ.Kind() == reflect.Ptr {
		kind, elem, err := coercerFor(typ.Elem(), opts)
		if err != nil {
			return 0, nil, err
		}
		return kind, func(raw interface{}) (reflect.Value, error) {
			v, err := elem(raw)
			if err != nil {
				return reflect.Value{}, err
			}
			p := reflect.New(typ.Elem())
			p.Elem().Set(v)
			return p, nil
		}, nil
	}

	switch {
	case typ == uuidType:
		return KindUUID, func(raw interface{}) (reflect.Value, error) {
			id, err := toUUID(raw)
			return reflect.ValueOf(id), err
		}, nil
	case typ == timeType:
		return KindTime, func(raw interface{}) (reflect.Value, error) {
			t, err := toTime(raw)
			return reflect.ValueOf(t), err
		}, nil
	}

	out := func() reflect.Value { return reflect.New(typ).Elem() }
	switch typ.Kind() {
	case reflect.String:
		if values, ok := opts["enum"]; ok {
			constants := make(map[string]bool)
			for _, c := range strings.Split(values, "|") {
				constants[c] = true
			}
			return KindEnum, func(raw interface{}) (reflect.Value, error) {
				s, err := toString(raw)
				if err != nil {
					return reflect.Value{}, err
				}
				if !constants[s] {
					return reflect.Value{}, errNotConstant
				}
				v := out()
				v.SetString(s)
				return v, nil
			}, nil
		}
		return KindString, func(raw interface{}) (reflect.Value, error) {
			s, err := toString(raw)
			v := out()
			v.SetString(s)
			return v, err
		}, nil

	case reflect.Int32:
		if _, ok := opts["char"]; ok {
			return KindChar, func(raw interface{}) (reflect.Value, error) {
				r, err := toChar(raw)
				v := out()
				v.SetInt(int64(r))
				return v, err
			}, nil
		}
		fallthrough
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int64:
		kind := KindInt
		if typ.Kind() == reflect.Int64 {
			kind = KindInt64
		}
		return kind, func(raw interface{}) (reflect.Value, error) {
			n, err := toInt64(raw)
			if err != nil {
				return reflect.Value{}, err
			}
			v := out()
			if v.OverflowInt(n) {
				return reflect.Value{}, fmt.Errorf("%d overflows %s", n, typ)
			}
			v.SetInt(n)
			return v, nil
		}, nil

	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		return KindInt, func(raw interface{}) (reflect.Value, error) {
			n, err := toInt64(raw)
			if err != nil {
				return reflect.Value{}, err
			}
			v := out()
			if n < 0 || v.OverflowUint(uint64(n)) {
				return reflect.Value{}, fmt.Errorf("%d overflows %s", n, typ)
			}
			v.SetUint(uint64(n))
			return v, nil
		}, nil

	case reflect.Float32, reflect.Float64:
		return KindFloat, func(raw interface{}) (reflect.Value, error) {
			f, err := toFloat64(raw)
			v := out()
			v.SetFloat(f)
			return v, err
		}, nil

	case reflect.Bool:
		return KindBool, func(raw interface{}) (reflect.Value, error) {
			b, err := toBool(raw)
			v := out()
			v.SetBool(b)
			return v, err
		}, nil
	}
	return 0, nil, fmt.Errorf("unsupported field type %s", typ)
}

// refCoercer builds a by-id reference: a fresh *R whose identifier field
// idName receives the raw value.
func refCoercer(typ reflect.Type, idName string) (Kind, coercer, error) {
	if typ.Kind() != reflect.Ptr || typ.Elem().Kind() != reflect.Struct {
		return 0, nil, fmt.Errorf("reference field must be a pointer to struct, got %s", typ)
	}
	target := typ.Elem()
	if idName == "" {
		idName = "ID"
	}
	idField, ok := target.FieldByName(idName)
	if !ok || !idField.IsExported() {
		return 0, nil, fmt.Errorf("%w: %s.%s", ErrNoIdentifier, target, idName)
	}
	_, idCoerce, err := coercerFor(idField.Type, nil)
	if err != nil {
		return 0, nil, err
	}
	return KindRef, func(raw interface{}) (reflect.Value, error) {
		id, err := idCoerce(raw)
		if err != nil {
			return reflect.Value{}, err
		}
		ref := reflect.New(target)
		ref.Elem().FieldByIndex(idField.Index).Set(id)
		return ref, nil
	}, nil
}
