package filter

import (
	"fmt"
	"net/url"
	"reflect"
	"strings"
	"time"

	"github.com/satishbabariya/querykit/query"
	"github.com/satishbabariya/querykit/query/clause"
)

const tagName = "qparam"

var timeType = reflect.TypeOf(time.Time{})

// fieldSpec is a parsed qparam tag.
type fieldSpec struct {
	property  string
	op        clause.Operator
	omitEmpty bool
	fn        clause.Function
}

// FromStruct builds an AND-joined where clause from the qparam-tagged fields
// of v, a struct or a pointer to one.
//
//	type AccountFilter struct {
//		Name    *string   `qparam:"name,op=lk,lower"`
//		Created time.Time `qparam:"created,op=gte,omitempty"`
//		Kinds   []string  `qparam:"kind,op=in"`
//	}
//
// The property defaults to the snake_case field name and the operator to EQUAL.
// Nil pointers are skipped, and so are zero values with omitempty. Time values
// are truncated to midnight. Boolean fields tagged with a null check add the
// check only when true.
func FromStruct(v interface{}) (*clause.WhereClause, error) {
	rv, err := structValue(v)
	if err != nil {
		return nil, err
	}
	wc := clause.NewWhere()
	if err := collectParams(rv, wc); err != nil {
		return nil, err
	}
	return wc, nil
}

func collectParams(rv reflect.Value, wc *clause.WhereClause) error {
	rt := rv.Type()
	for i := 0; i < rt.NumField(); i++ {
		sf := rt.Field(i)
		tag, tagged := sf.Tag.Lookup(tagName)

		if sf.Anonymous && !tagged {
			fv := rv.Field(i)
			if fv.Kind() == reflect.Ptr {
				if fv.IsNil() {
					continue
				}
				fv = fv.Elem()
			}
			if fv.Kind() == reflect.Struct && fv.Type() != timeType {
				if err := collectParams(fv, wc); err != nil {
					return err
				}
			}
			continue
		}
		if !tagged || tag == "-" || !sf.IsExported() {
			continue
		}

		spec, err := parseFieldTag(sf.Name, tag)
		if err != nil {
			return err
		}
		value, ok := fieldValue(rv.Field(i), spec.omitEmpty)
		if !ok {
			continue
		}
		if spec.op.NullCheck() {
			if b, isBool := value.(bool); isBool && !b {
				continue
			}
			value = nil
		}
		p := clause.Param(spec.property, spec.op, value)
		if spec.fn != nil {
			p = p.With(spec.fn)
		}
		wc.Add(p)
	}
	return nil
}

func parseFieldTag(field, tag string) (fieldSpec, error) {
	parts := strings.Split(tag, ",")
	spec := fieldSpec{property: strings.TrimSpace(parts[0]), op: clause.Equal}
	if spec.property == "" {
		spec.property = query.SnakeCase(field)
	}
	if err := ValidateProperty(spec.property); err != nil {
		return spec, fmt.Errorf("%s: %w", field, err)
	}

	for _, opt := range parts[1:] {
		opt = strings.TrimSpace(opt)
		switch {
		case opt == "omitempty":
			spec.omitEmpty = true
		case opt == "lower":
			spec.fn = clause.Lower()
		case opt == "upper":
			spec.fn = clause.Upper()
		case strings.HasPrefix(opt, "op="):
			op, err := parseFilterOperator(strings.TrimPrefix(opt, "op="))
			if err != nil {
				return spec, fmt.Errorf("%s: %w", field, err)
			}
			spec.op = op
		case opt == "":
		default:
			return spec, fmt.Errorf("%w: %s: unknown tag option %q", ErrInvalidFilter, field, opt)
		}
	}
	return spec, nil
}

// parseFilterOperator accepts JSON short names ("lk", "gte") and operator
// names ("LIKE", "not_equal"). QUERY is refused.
func parseFilterOperator(name string) (clause.Operator, error) {
	if op, ok := jsonOperators["$"+strings.ToLower(name)]; ok {
		return op, nil
	}
	op, err := clause.ParseOperator(name)
	if err != nil {
		return 0, fmt.Errorf("%w: %q", ErrUnknownFilterOperator, name)
	}
	if op == clause.Query {
		return 0, fmt.Errorf("%w: %s", ErrUnsupportedOperator, op)
	}
	if !op.Comparison() {
		return 0, fmt.Errorf("%w: %s", ErrUnknownFilterOperator, op)
	}
	return op, nil
}

// fieldValue dereferences fv and truncates times. ok is false when the field
// contributes nothing.
func fieldValue(fv reflect.Value, omitEmpty bool) (interface{}, bool) {
	for fv.Kind() == reflect.Ptr || fv.Kind() == reflect.Interface {
		if fv.IsNil() {
			return nil, false
		}
		fv = fv.Elem()
	}
	if omitEmpty && fv.IsZero() {
		return nil, false
	}
	if fv.Type() == timeType {
		t := fv.Interface().(time.Time)
		if t.IsZero() {
			return nil, false
		}
		return truncateDay(t), true
	}
	return fv.Interface(), true
}

// QueryString renders the populated fields of v as "&name=value" pairs, the
// form list pages append to their links. Field names follow the qparam tag,
// or snake_case without one. Nil, blank and empty values are left out; the
// result is empty when nothing is set.
func QueryString(v interface{}) (string, error) {
	rv, err := structValue(v)
	if err != nil {
		return "", err
	}
	var b strings.Builder
	writeQueryParams(&b, rv)
	return b.String(), nil
}

func writeQueryParams(b *strings.Builder, rv reflect.Value) {
	rt := rv.Type()
	for i := 0; i < rt.NumField(); i++ {
		sf := rt.Field(i)
		tag := sf.Tag.Get(tagName)
		if tag == "-" || !sf.IsExported() {
			continue
		}

		fv := rv.Field(i)
		if sf.Anonymous && tag == "" && fv.Kind() == reflect.Struct && fv.Type() != timeType {
			writeQueryParams(b, fv)
			continue
		}

		name := strings.TrimSpace(strings.Split(tag, ",")[0])
		if name == "" {
			name = query.SnakeCase(sf.Name)
		}
		value, ok := formatParam(fv)
		if !ok {
			continue
		}
		b.WriteByte('&')
		b.WriteString(url.QueryEscape(name))
		b.WriteByte('=')
		b.WriteString(url.QueryEscape(value))
	}
}

func formatParam(fv reflect.Value) (string, bool) {
	for fv.Kind() == reflect.Ptr || fv.Kind() == reflect.Interface {
		if fv.IsNil() {
			return "", false
		}
		fv = fv.Elem()
	}

	switch {
	case fv.Type() == timeType:
		t := fv.Interface().(time.Time)
		if t.IsZero() {
			return "", false
		}
		return t.Format("2006-01-02"), true
	case fv.Kind() == reflect.Slice || fv.Kind() == reflect.Array:
		if fv.Len() == 0 {
			return "", false
		}
		items := make([]string, 0, fv.Len())
		for i := 0; i < fv.Len(); i++ {
			if s, ok := formatParam(fv.Index(i)); ok {
				items = append(items, s)
			}
		}
		if len(items) == 0 {
			return "", false
		}
		return strings.Join(items, ","), true
	case fv.Kind() == reflect.String:
		s := fv.String()
		return s, strings.TrimSpace(s) != ""
	}
	return fmt.Sprint(fv.Interface()), true
}

func structValue(v interface{}) (reflect.Value, error) {
	rv := reflect.ValueOf(v)
	for rv.Kind() == reflect.Ptr {
		if rv.IsNil() {
			return reflect.Value{}, fmt.Errorf("%w: nil %T", ErrInvalidFilter, v)
		}
		rv = rv.Elem()
	}
	if rv.Kind() != reflect.Struct {
		return reflect.Value{}, fmt.Errorf("%w: %T is not a struct", ErrInvalidFilter, v)
	}
	return rv, nil
}
