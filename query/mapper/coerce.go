package mapper

import (
	"errors"
	"fmt"
	"math"
	"strconv"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/google/uuid"
)

var (
	errUnsupported = errors.New("unsupported source type")
	errNotIntegral = errors.New("value is not integral")
	errNotChar     = errors.New("value is not a single character")
	errNotConstant = errors.New("no enum constant with that name")
)

// timeLayouts are tried in order when a time field receives text.
var timeLayouts = []string{
	time.RFC3339Nano,
	"2006-01-02 15:04:05.999999999",
	"2006-01-02 15:04:05",
	"2006-01-02",
}

func toInt64(v interface{}) (int64, error) {
	switch x := v.(type) {
	case int64:
		return x, nil
	case int:
		return int64(x), nil
	case int32:
		return int64(x), nil
	case int16:
		return int64(x), nil
	case int8:
		return int64(x), nil
	case uint64:
		if x > math.MaxInt64 {
			return 0, strconv.ErrRange
		}
		return int64(x), nil
	case uint32:
		return int64(x), nil
	case uint:
		return int64(x), nil
	case float64:
		if x != math.Trunc(x) {
			return 0, errNotIntegral
		}
		return int64(x), nil
	case float32:
		return toInt64(float64(x))
	case bool:
		if x {
			return 1, nil
		}
		return 0, nil
	case string:
		return strconv.ParseInt(strings.TrimSpace(x), 10, 64)
	case []byte:
		return toInt64(string(x))
	}
	return 0, errUnsupported
}

func toFloat64(v interface{}) (float64, error) {
	switch x := v.(type) {
	case float64:
		return x, nil
	case float32:
		return float64(x), nil
	case string:
		return strconv.ParseFloat(strings.TrimSpace(x), 64)
	case []byte:
		return toFloat64(string(x))
	}
	n, err := toInt64(v)
	return float64(n), err
}

func toBool(v interface{}) (bool, error) {
	switch x := v.(type) {
	case bool:
		return x, nil
	case string:
		return strconv.ParseBool(strings.TrimSpace(x))
	case []byte:
		return toBool(string(x))
	}
	n, err := toInt64(v)
	if err != nil {
		return false, err
	}
	return n != 0, nil
}

func toString(v interface{}) (string, error) {
	switch x := v.(type) {
	case string:
		return x, nil
	case []byte:
		return string(x), nil
	case time.Time:
		return x.Format(time.RFC3339Nano), nil
	case fmt.Stringer:
		return x.String(), nil
	case int64, int, int32, float64, float32, bool, uint64:
		return fmt.Sprint(x), nil
	}
	return "", errUnsupported
}

func toChar(v interface{}) (rune, error) {
	switch x := v.(type) {
	case rune:
		return x, nil
	case string:
		if utf8.RuneCountInString(x) != 1 {
			return 0, errNotChar
		}
		r, _ := utf8.DecodeRuneInString(x)
		return r, nil
	case []byte:
		return toChar(string(x))
	}
	n, err := toInt64(v)
	if err != nil {
		return 0, err
	}
	return rune(n), nil
}

func toUUID(v interface{}) (uuid.UUID, error) {
	switch x := v.(type) {
	case uuid.UUID:
		return x, nil
	case string:
		return uuid.Parse(strings.TrimSpace(x))
	case []byte:
		if len(x) == 16 {
			return uuid.FromBytes(x)
		}
		return uuid.ParseBytes(x)
	}
	return uuid.Nil, errUnsupported
}

func toTime(v interface{}) (time.Time, error) {
	switch x := v.(type) {
	case time.Time:
		return x, nil
	case string:
		s := strings.TrimSpace(x)
		var err error
		for _, layout := range timeLayouts {
			var t time.Time
			if t, err = time.Parse(layout, s); err == nil {
				return t, nil
			}
		}
		return time.Time{}, err
	case []byte:
		return toTime(string(x))
	}
	return time.Time{}, errUnsupported
}
