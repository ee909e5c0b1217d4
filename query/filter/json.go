package filter

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/satishbabariya/querykit/query/clause"
)

var jsonOperators = map[string]clause.Operator{
	"$eq":  clause.Equal,
	"$neq": clause.NotEqual,
	"$gt":  clause.GT,
	"$gte": clause.GTE,
	"$lt":  clause.LT,
	"$lte": clause.LTE,
	"$lk":  clause.Like,
	"$bw":  clause.BeginWith,
	"$ew":  clause.EndWith,
	"$in":  clause.In,
	"$nin": clause.NotIn,
	// $ne reads "null entry", not "not equal".
	"$ne": clause.IsNull,
	"$nn": clause.NotNull,
}

// ParseJSON reads a filter document into one where clause. Properties keep
// the order they appear in the document. With "$match": "or" the clause is
// grouped.
//
//	{"name": {"$lk": "jo"}, "age": {"$gte": 18, "$lt": 65}, "kind": ["A", "B"], "$match": "or"}
//
// A scalar value means $eq and an array means $in. "$match" selects how the
// predicates are joined and defaults to "and". An empty document yields nil.
func ParseJSON(data []byte) (*clause.WhereClause, error) {
	if len(bytes.TrimSpace(data)) == 0 {
		return nil, nil
	}

	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()
	if err := expectDelim(dec, '{'); err != nil {
		return nil, err
	}

	wc := clause.NewWhere()
	for dec.More() {
		key, err := objectKey(dec)
		if err != nil {
			return nil, err
		}

		if key == "$match" {
			var match string
			if err := dec.Decode(&match); err != nil {
				return nil, fmt.Errorf("%w: $match: %v", ErrInvalidFilter, err)
			}
			switch strings.ToLower(match) {
			case "and":
				wc.LogicalOperand = clause.And
			case "or":
				wc.LogicalOperand = clause.Or
			default:
				return nil, fmt.Errorf("%w: $match must be and/or, got %q", ErrInvalidFilter, match)
			}
			continue
		}
		if strings.HasPrefix(key, "$") {
			return nil, fmt.Errorf("%w: %s", ErrUnknownFilterOperator, key)
		}
		if err := ValidateProperty(key); err != nil {
			return nil, err
		}

		var raw json.RawMessage
		if err := dec.Decode(&raw); err != nil {
			return nil, fmt.Errorf("%w: %s: %v", ErrInvalidFilter, key, err)
		}
		params, err := propertyParams(key, raw)
		if err != nil {
			return nil, err
		}
		wc.Params = append(wc.Params, params...)
	}

	if err := expectDelim(dec, '}'); err != nil {
		return nil, err
	}
	// An OR filter must stay one unit when AND-ed with other clauses.
	if wc.LogicalOperand == clause.Or {
		wc.Grouped()
	}
	return wc, nil
}

func propertyParams(property string, raw json.RawMessage) ([]clause.QueryParam, error) {
	raw = bytes.TrimSpace(raw)
	if len(raw) > 0 && raw[0] == '{' {
		return operatorParams(property, raw)
	}

	v, err := decodeValue(raw)
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %v", ErrInvalidFilter, property, err)
	}
	op := clause.Equal
	if _, ok := v.([]interface{}); ok {
		op = clause.In
	}
	value, err := jsonValue(property, op, v)
	if err != nil {
		return nil, err
	}
	return []clause.QueryParam{clause.Param(property, op, value)}, nil
}

func operatorParams(property string, raw json.RawMessage) ([]clause.QueryParam, error) {
	dec := json.NewDecoder(bytes.NewReader(raw))
	dec.UseNumber()
	if err := expectDelim(dec, '{'); err != nil {
		return nil, err
	}

	var params []clause.QueryParam
	for dec.More() {
		name, err := objectKey(dec)
		if err != nil {
			return nil, err
		}
		op, ok := jsonOperators[strings.ToLower(name)]
		if !ok {
			if strings.EqualFold(name, "$query") {
				return nil, fmt.Errorf("%w: %s on %s", ErrUnsupportedOperator, name, property)
			}
			return nil, fmt.Errorf("%w: %s on %s", ErrUnknownFilterOperator, name, property)
		}

		var v interface{}
		if err := dec.Decode(&v); err != nil {
			return nil, fmt.Errorf("%w: %s.%s: %v", ErrInvalidFilter, property, name, err)
		}
		value, err := jsonValue(property, op, v)
		if err != nil {
			return nil, err
		}
		params = append(params, clause.Param(property, op, value))
	}
	return params, nil
}

// jsonValue converts a decoded JSON value into something the engine binds.
func jsonValue(property string, op clause.Operator, v interface{}) (interface{}, error) {
	if op.NullCheck() {
		return nil, nil
	}

	if items, ok := v.([]interface{}); ok {
		if !op.InList() {
			return nil, fmt.Errorf("%w: %s %s does not take a list", ErrInvalidFilter, property, op)
		}
		out := make([]interface{}, 0, len(items))
		for _, item := range items {
			s, err := scalar(property, item)
			if err != nil {
				return nil, err
			}
			if s != nil {
				out = append(out, s)
			}
		}
		return out, nil
	}

	s, err := scalar(property, v)
	if err != nil {
		return nil, err
	}
	if op.InList() && s != nil {
		return []interface{}{s}, nil
	}
	return s, nil
}

func scalar(property string, v interface{}) (interface{}, error) {
	switch t := v.(type) {
	case nil, string, bool:
		return t, nil
	case json.Number:
		if i, err := t.Int64(); err == nil {
			return i, nil
		}
		f, err := t.Float64()
		if err != nil {
			return nil, fmt.Errorf("%w: %s: %v", ErrInvalidFilter, property, err)
		}
		return f, nil
	}
	return nil, fmt.Errorf("%w: %s: nested value %T", ErrInvalidFilter, property, v)
}

func decodeValue(raw json.RawMessage) (interface{}, error) {
	dec := json.NewDecoder(bytes.NewReader(raw))
	dec.UseNumber()
	var v interface{}
	if err := dec.Decode(&v); err != nil {
		return nil, err
	}
	return v, nil
}

func objectKey(dec *json.Decoder) (string, error) {
	tok, err := dec.Token()
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrInvalidFilter, err)
	}
	key, ok := tok.(string)
	if !ok {
		return "", fmt.Errorf("%w: unexpected token %v", ErrInvalidFilter, tok)
	}
	return key, nil
}

func expectDelim(dec *json.Decoder, want json.Delim) error {
	tok, err := dec.Token()
	if err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidFilter, err)
	}
	if d, ok := tok.(json.Delim); !ok || d != want {
		return fmt.Errorf("%w: expected %q, got %v", ErrInvalidFilter, want, tok)
	}
	return nil
}
