// Package clause describes filters, ordering and grouping for the query builder.
package clause

import (
	"fmt"
	"strings"
)

// Operator is a comparison applied by a QueryParam, or a marker combining clauses.
type Operator int

const (
	Equal Operator = iota
	NotEqual
	GT
	GTE
	LT
	LTE
	Like
	BeginWith
	EndWith
	IsNull
	NotNull
	In
	NotIn
	// Query passes the column expression through verbatim; its placeholders are fed by the value.
	Query

	And
	Or
	Group
	NonGroup
	GroupBy
)

var operatorNames = map[Operator]string{
	Equal:     "EQUAL",
	NotEqual:  "NOT_EQUAL",
	GT:        "GT",
	GTE:       "GTE",
	LT:        "LT",
	LTE:       "LTE",
	Like:      "LIKE",
	BeginWith: "BEGIN_WITH",
	EndWith:   "END_WITH",
	IsNull:    "IS_NULL",
	NotNull:   "NOT_NULL",
	In:        "IN",
	NotIn:     "NOT_IN",
	Query:     "QUERY",
	And:       "AND",
	Or:        "OR",
	Group:     "GROUP",
	NonGroup:  "NON_GROUP",
	GroupBy:   "GROUP_BY",
}

func (o Operator) String() string {
	if name, ok := operatorNames[o]; ok {
		return name
	}
	return fmt.Sprintf("Operator(%d)", int(o))
}

// ParseOperator resolves an operator by name, case-insensitively.
// NOTEQUAL is accepted as an alias of NOT_EQUAL.
func ParseOperator(name string) (Operator, error) {
	upper := strings.ToUpper(strings.TrimSpace(name))
	if upper == "NOTEQUAL" {
		return NotEqual, nil
	}
	for op, n := range operatorNames {
		if n == upper {
			return op, nil
		}
	}
	return 0, fmt.Errorf("%w: %q", ErrUnknownOperator, name)
}

// Comparison reports whether o compares a column, as opposed to joining clauses.
func (o Operator) Comparison() bool {
	return o >= Equal && o <= Query
}

// Logical reports whether o is AND or OR.
func (o Operator) Logical() bool {
	return o == And || o == Or
}

// NullCheck reports whether o never carries a value.
func (o Operator) NullCheck() bool {
	return o == IsNull || o == NotNull
}

// Pattern reports whether o renders as LIKE.
func (o Operator) Pattern() bool {
	return o == Like || o == BeginWith || o == EndWith
}

// InList reports whether o renders an inline literal list.
func (o Operator) InList() bool {
	return o == In || o == NotIn
}

// Symbol is the SQL fragment written after the column expression.
func (o Operator) Symbol() string {
	switch o {
	case Equal:
		return " = ?"
	case NotEqual:
		return " <> ?"
	case GT:
		return " > ?"
	case GTE:
		return " >= ?"
	case LT:
		return " < ?"
	case LTE:
		return " <= ?"
	case Like, BeginWith, EndWith:
		return " LIKE ? "
	case IsNull:
		return " IS NULL "
	case NotNull:
		return " IS NOT NULL "
	case In:
		return " IN ( "
	case NotIn:
		return " NOT IN ( "
	}
	return ""
}

// Wrap places the LIKE wildcards around v for the pattern operators.
func (o Operator) Wrap(v string) string {
	switch o {
	case Like:
		return "%" + v + "%"
	case BeginWith:
		return v + "%"
	case EndWith:
		return "%" + v
	}
	return v
}
