package executor

import (
	"errors"
	"fmt"
	"math"
	"reflect"
	"strconv"
	"strings"
)

var errNotIntegral = errors.New("value is not integral")

// convert coerces a driver value to T. Strings are parsed for numeric and
// boolean targets; numeric kinds convert between each other, except that a
// float with a fractional part never becomes an integer.
func convert[T any](v interface{}) (T, error) {
	var zero T
	if t, ok := v.(T); ok {
		return t, nil
	}
	target := reflect.TypeOf(zero)
	if target == nil {
		return zero, fmt.Errorf("cannot convert %T to %T", v, zero)
	}

	out := reflect.New(target).Elem()
	src := reflect.ValueOf(v)

	switch {
	case target.Kind() == reflect.String:
		out.SetString(fmt.Sprint(v))
	case src.Kind() == reflect.String:
		if err := parseInto(out, strings.TrimSpace(src.String())); err != nil {
			return zero, err
		}
	case isNumeric(src.Kind()) && isNumeric(target.Kind()):
		if isFloat(src.Kind()) && !isFloat(target.Kind()) {
			if f := src.Float(); f != math.Trunc(f) {
				return zero, fmt.Errorf("cannot convert %v to %s: %w", v, target, errNotIntegral)
			}
		}
		out.Set(src.Convert(target))
	case src.Type().AssignableTo(target):
		out.Set(src)
	default:
		return zero, fmt.Errorf("cannot convert %T to %s", v, target)
	}
	return out.Interface().(T), nil
}

func parseInto(out reflect.Value, s string) error {
	switch out.Kind() {
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		n, err := strconv.ParseInt(s, 10, out.Type().Bits())
		if err != nil {
			return err
		}
		out.SetInt(n)
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		n, err := strconv.ParseUint(s, 10, out.Type().Bits())
		if err != nil {
			return err
		}
		out.SetUint(n)
	case reflect.Float32, reflect.Float64:
		f, err := strconv.ParseFloat(s, out.Type().Bits())
		if err != nil {
			return err
		}
		out.SetFloat(f)
	case reflect.Bool:
		b, err := strconv.ParseBool(s)
		if err != nil {
			return err
		}
		out.SetBool(b)
	default:
		return fmt.Errorf("cannot parse %q into %s", s, out.Type())
	}
	return nil
}

func isNumeric(k reflect.Kind) bool {
	switch k {
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64,
		reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64,
		reflect.Float32, reflect.Float64:
		return true
	}
	return false
}

func isFloat(k reflect.Kind) bool {
	return k == reflect.Float32 || k == reflect.Float64
}

func toInt64(v interface{}) (int64, error) {
	if v == nil {
		return 0, nil
	}
	return convert[int64](v)
}
