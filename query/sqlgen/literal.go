package sqlgen

import (
	"errors"
	"fmt"
	"reflect"
	"strconv"
	"strings"
	"unicode"
)

var (
	// ErrExpressionValue is returned when an IN value is an unevaluated `#{...}` expression.
	ErrExpressionValue = errors.New("querykit: in values can not be an expression")

	// ErrUnsafeLiteral is returned for IN values that cannot be inlined safely.
	ErrUnsafeLiteral = errors.New("querykit: unsafe literal in IN list")

	// ErrEmptyInList is returned for an IN list without values.
	ErrEmptyInList = errors.New("querykit: empty IN list")
)

// InList renders v as a comma-joined literal list for IN / NOT IN.
//
// Accepted shapes are slices or arrays of scalars and comma-separated strings.
// Numbers and booleans are written bare, strings are single-quoted with
// embedded quotes doubled. Backslashes and control characters are rejected
// because some servers treat them as escapes inside literals.
func InList(v interface{}) (string, error) {
	if s, ok := v.(string); ok {
		return stringList(s)
	}

	rv := reflect.ValueOf(v)
	if rv.Kind() != reflect.Slice && rv.Kind() != reflect.Array {
		lit, err := Literal(v)
		if err != nil {
			return "", err
		}
		return lit, nil
	}
	if rv.Len() == 0 {
		return "", ErrEmptyInList
	}

	parts := make([]string, 0, rv.Len())
	for i := 0; i < rv.Len(); i++ {
		lit, err := Literal(rv.Index(i).Interface())
		if err != nil {
			return "", err
		}
		parts = append(parts, lit)
	}
	return strings.Join(parts, ", "), nil
}

func stringList(s string) (string, error) {
	if isExpression(s) {
		return "", fmt.Errorf("%w: %s", ErrExpressionValue, s)
	}
	var parts []string
	for _, item := range strings.Split(s, ",") {
		item = strings.TrimSpace(item)
		if item == "" {
			continue
		}
		if isNumber(item) {
			parts = append(parts, item)
			continue
		}
		if len(item) >= 2 && item[0] == '\'' && item[len(item)-1] == '\'' {
			item = strings.ReplaceAll(item[1:len(item)-1], "''", "'")
		}
		lit, err := quote(item)
		if err != nil {
			return "", err
		}
		parts = append(parts, lit)
	}
	if len(parts) == 0 {
		return "", ErrEmptyInList
	}
	return strings.Join(parts, ", "), nil
}

// Literal renders one scalar as inline SQL.
func Literal(v interface{}) (string, error) {
	switch x := v.(type) {
	case nil:
		return "NULL", nil
	case string:
		if isExpression(x) {
			return "", fmt.Errorf("%w: %s", ErrExpressionValue, x)
		}
		return quote(x)
	case bool:
		return strconv.FormatBool(x), nil
	case fmt.Stringer:
		return quote(x.String())
	}

	rv := reflect.ValueOf(v)
	switch rv.Kind() {
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		return strconv.FormatInt(rv.Int(), 10), nil
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		return strconv.FormatUint(rv.Uint(), 10), nil
	case reflect.Float32, reflect.Float64:
		return strconv.FormatFloat(rv.Float(), 'f', -1, 64), nil
	case reflect.String:
		return quote(rv.String())
	case reflect.Ptr:
		if rv.IsNil() {
			return "NULL", nil
		}
		return Literal(rv.Elem().Interface())
	}
	return "", fmt.Errorf("%w: unsupported type %T", ErrUnsafeLiteral, v)
}

func quote(s string) (string, error) {
	for _, r := range s {
		if r == '\\' || unicode.IsControl(r) {
			return "", fmt.Errorf("%w: %q", ErrUnsafeLiteral, s)
		}
	}
	return "'" + strings.ReplaceAll(s, "'", "''") + "'", nil
}

func isNumber(s string) bool {
	if _, err := strconv.ParseInt(s, 10, 64); err == nil {
		return true
	}
	_, err := strconv.ParseFloat(s, 64)
	return err == nil && !strings.ContainsAny(s, "xXpPeEiInN_")
}

func isExpression(s string) bool {
	return strings.HasPrefix(s, "#{") && strings.HasSuffix(s, "}")
}
