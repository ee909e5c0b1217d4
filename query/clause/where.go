package clause

import (
	"fmt"
)

// QueryParam is one predicate. A bare Column is qualified with the root alias
// when the query is built; a dotted one is used as-is.
type QueryParam struct {
	Column   string
	Operator Operator
	Value    interface{}
	Function Function
}

// Param builds a predicate with an explicit operator.
func Param(column string, op Operator, value interface{}) QueryParam {
	return QueryParam{Column: column, Operator: op, Value: value}
}

func Eq(column string, value interface{}) QueryParam  { return Param(column, Equal, value) }
func Ne(column string, value interface{}) QueryParam  { return Param(column, NotEqual, value) }
func Gt(column string, value interface{}) QueryParam  { return Param(column, GT, value) }
func Gte(column string, value interface{}) QueryParam { return Param(column, GTE, value) }
func Lt(column string, value interface{}) QueryParam  { return Param(column, LT, value) }
func Lte(column string, value interface{}) QueryParam { return Param(column, LTE, value) }

// Contains matches value anywhere in the column.
func Contains(column string, value interface{}) QueryParam { return Param(column, Like, value) }

func StartsWith(column string, value interface{}) QueryParam { return Param(column, BeginWith, value) }
func EndsWith(column string, value interface{}) QueryParam   { return Param(column, EndWith, value) }

func WhereNull(column string) QueryParam    { return Param(column, IsNull, nil) }
func WhereNotNull(column string) QueryParam { return Param(column, NotNull, nil) }

// InValues renders values as an inline literal list. Only scalar literals are accepted.
func InValues(column string, values interface{}) QueryParam { return Param(column, In, values) }

func NotInValues(column string, values interface{}) QueryParam { return Param(column, NotIn, values) }

// Expr inserts expr verbatim; each `?` in it is bound from args in order.
// A single string arg containing commas is split into several bindings.
func Expr(expr string, args ...interface{}) QueryParam {
	var v interface{}
	switch len(args) {
	case 0:
	case 1:
		v = args[0]
	default:
		v = args
	}
	return QueryParam{Column: expr, Operator: Query, Value: v}
}

// With attaches a column/value function such as Lower().
func (p QueryParam) With(f Function) QueryParam {
	p.Function = f
	return p
}

// WhereClause is an ordered list of predicates joined by one logical operand.
type WhereClause struct {
	Params []QueryParam

	// LogicalOperand joins the params of this clause.
	LogicalOperand Operator
	// LogicalOperandClause joins this clause to the previous one.
	LogicalOperandClause Operator
	// GroupOperand wraps the clause in parentheses when set to Group.
	GroupOperand Operator
}

// NewWhere returns an AND-joined, ungrouped clause.
func NewWhere(params ...QueryParam) *WhereClause {
	return &WhereClause{
		Params:               append([]QueryParam(nil), params...),
		LogicalOperand:       And,
		LogicalOperandClause: And,
		GroupOperand:         NonGroup,
	}
}

// Add appends a predicate.
func (w *WhereClause) Add(p QueryParam) *WhereClause {
	w.Params = append(w.Params, p)
	return w
}

// Any joins the params of this clause with OR.
func (w *WhereClause) Any() *WhereClause {
	w.LogicalOperand = Or
	return w
}

// OrWithPrevious joins this clause to the previous one with OR.
func (w *WhereClause) OrWithPrevious() *WhereClause {
	w.LogicalOperandClause = Or
	return w
}

// Grouped wraps this clause in parentheses.
func (w *WhereClause) Grouped() *WhereClause {
	w.GroupOperand = Group
	return w
}

// IsEmpty returns true if the clause has no params
func (w *WhereClause) IsEmpty() bool {
	return w == nil || len(w.Params) == 0
}

// Validate checks the operand settings. Zero values are read as the defaults.
func (w *WhereClause) Validate() error {
	if op := w.logical(); !op.Logical() {
		return fmt.Errorf("%w: logical operand %s", ErrInvalidOperand, op)
	}
	if op := w.clauseJoin(); !op.Logical() {
		return fmt.Errorf("%w: clause operand %s", ErrInvalidOperand, op)
	}
	if g := w.GroupOperand; g != Group && g != NonGroup && g != Equal {
		return fmt.Errorf("%w: group operand %s", ErrInvalidOperand, g)
	}
	for _, p := range w.Params {
		if !p.Operator.Comparison() {
			return fmt.Errorf("%w: %s on %q", ErrUnknownOperator, p.Operator, p.Column)
		}
	}
	return nil
}

// Joiner is the operand between params, AND unless set otherwise.
func (w *WhereClause) Joiner() Operator {
	return w.logical()
}

// ClauseJoiner is the operand before this clause, AND unless set otherwise.
func (w *WhereClause) ClauseJoiner() Operator {
	return w.clauseJoin()
}

// IsGrouped reports whether the clause renders in parentheses.
func (w *WhereClause) IsGrouped() bool {
	return w.GroupOperand == Group
}

// A zero-valued WhereClause literal has Equal (0) in every operand field.
func (w *WhereClause) logical() Operator {
	if w.LogicalOperand == Equal {
		return And
	}
	return w.LogicalOperand
}

func (w *WhereClause) clauseJoin() Operator {
	if w.LogicalOperandClause == Equal {
		return And
	}
	return w.LogicalOperandClause
}
