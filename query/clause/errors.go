package clause

import "errors"

var (
	// ErrEmptySort is returned when a sort is built without any order.
	ErrEmptySort = errors.New("querykit: at least one sort property is required")

	// ErrEmptyGroupBy is returned when a group-by is built without properties.
	ErrEmptyGroupBy = errors.New("querykit: at least one group by property is required")

	ErrUnknownOperator  = errors.New("querykit: unknown operator")
	ErrUnknownDirection = errors.New("querykit: unknown sort direction")

	// ErrInvalidOperand is returned when a clause is joined by something other than AND/OR,
	// or grouped by something other than GROUP/NON_GROUP.
	ErrInvalidOperand = errors.New("querykit: invalid clause operand")
)
