package filter

import "errors"

var (
	// ErrInvalidFilter is returned for filter documents that are not JSON objects
	// or that nest values the engine cannot bind.
	ErrInvalidFilter = errors.New("querykit: invalid filter")

	// ErrInvalidProperty is returned for property names that are not plain
	// or alias-qualified identifiers.
	ErrInvalidProperty = errors.New("querykit: invalid filter property")

	// ErrUnsupportedOperator is returned for operators that must not be reachable
	// from request input, such as QUERY.
	ErrUnsupportedOperator = errors.New("querykit: operator not supported in filters")

	ErrUnknownFilterOperator = errors.New("querykit: unknown filter operator")
	ErrInvalidSort           = errors.New("querykit: invalid sort parameter")
	ErrInvalidExpression     = errors.New("querykit: invalid filter expression")
)
