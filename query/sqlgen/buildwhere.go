package sqlgen

import (
	"database/sql/driver"
	"errors"
	"fmt"
	"reflect"
	"strings"

	"github.com/satishbabariya/querykit/query"
	"github.com/satishbabariya/querykit/query/clause"
)

// ErrPlaceholderMismatch is returned when a raw expression's `?` count differs from its bound values.
var ErrPlaceholderMismatch = errors.New("querykit: placeholder count does not match bound values")

// buildClause joins the surviving predicates of one clause with its logical operand.
func buildClause(wc *clause.WhereClause, root string) (string, []interface{}, int, error) {
	var (
		parts []string
		args  []interface{}
	)
	for _, p := range wc.Params {
		cond, condArgs, ok, err := buildCondition(p, root)
		if err != nil {
			return "", nil, 0, err
		}
		if !ok {
			continue
		}
		parts = append(parts, cond)
		args = append(args, condArgs...)
	}
	return strings.Join(parts, " "+wc.Joiner().String()+" "), args, len(parts), nil
}

// buildCondition renders one predicate. ok is false when the param is skipped.
func buildCondition(p clause.QueryParam, root string) (sql string, args []interface{}, ok bool, err error) {
	op := p.Operator
	value, present := resolveValue(p.Value)
	if !present && !op.NullCheck() {
		return "", nil, false, nil
	}

	column := p.Column
	if op != clause.Query {
		column = Qualify(root, column)
	}
	if p.Function != nil && op != clause.Query {
		column = p.Function.Column(column)
	}

	switch {
	case op.NullCheck():
		return column + strings.TrimRight(op.Symbol(), " "), nil, true, nil

	case op.InList():
		list, err := InList(value)
		if err != nil {
			return "", nil, false, fmt.Errorf("%s: %w", p.Column, err)
		}
		return column + op.Symbol() + list + " )", nil, true, nil

	case op == clause.Query:
		args = bindValues(value, op, p.Function)
		if n := query.CountPlaceholders(column); n != len(args) {
			return "", nil, false, fmt.Errorf("%w: %q has %d, got %d", ErrPlaceholderMismatch, column, n, len(args))
		}
		return column, args, true, nil
	}

	args = bindValues(value, op, p.Function)
	if len(args) == 0 {
		return "", nil, false, nil
	}
	cond := column + strings.TrimRight(op.Symbol(), " ")
	if len(args) == 1 {
		return cond, args, true, nil
	}

	// Multi-value shorthand: one comparison per value.
	joiner := " OR "
	if op == clause.NotEqual {
		joiner = " AND "
	}
	conds := make([]string, len(args))
	for i := range conds {
		conds[i] = cond
	}
	return "( " + strings.Join(conds, joiner) + " )", args, true, nil
}

// resolveValue dereferences pointers and reports whether a value is present.
// nil, nil pointers, blank strings, empty lists and NULL valuers are absent.
func resolveValue(v interface{}) (interface{}, bool) {
	for {
		if v == nil {
			return nil, false
		}
		rv := reflect.ValueOf(v)
		if rv.Kind() != reflect.Ptr {
			break
		}
		if rv.IsNil() {
			return nil, false
		}
		v = rv.Elem().Interface()
	}

	switch x := v.(type) {
	case string:
		return x, strings.TrimSpace(x) != ""
	case []interface{}:
		return x, len(x) > 0
	case []string:
		return x, len(x) > 0
	case driver.Valuer:
		if dv, err := x.Value(); err == nil && dv == nil {
			return nil, false
		}
	}
	if rv := reflect.ValueOf(v); rv.Kind() == reflect.Slice && rv.Len() == 0 {
		return nil, false
	}
	return v, true
}

// bindValues produces the bound arguments of one predicate. Strings holding
// commas become several values; LIKE wildcards are placed before the function runs.
func bindValues(v interface{}, op clause.Operator, fn clause.Function) []interface{} {
	var out []interface{}
	switch x := v.(type) {
	case string:
		pieces := []string{x}
		if strings.Contains(x, ",") {
			pieces = pieces[:0]
			for _, s := range strings.Split(x, ",") {
				if s = strings.TrimSpace(s); s != "" {
					pieces = append(pieces, s)
				}
			}
		}
		for _, s := range pieces {
			out = append(out, applyFunction(op.Wrap(s), fn))
		}
	case []string:
		for _, s := range x {
			out = append(out, applyFunction(op.Wrap(s), fn))
		}
	case []interface{}:
		for _, item := range x {
			if s, ok := item.(string); ok {
				out = append(out, applyFunction(op.Wrap(s), fn))
				continue
			}
			out = append(out, applyFunction(item, fn))
		}
	default:
		out = append(out, applyFunction(v, fn))
	}
	return out
}

func applyFunction(v interface{}, fn clause.Function) interface{} {
	if fn == nil {
		return v
	}
	return fn.Value(v)
}
