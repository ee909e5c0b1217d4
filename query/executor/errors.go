package executor

import (
	"errors"
	"fmt"
)

// QueryError wraps a driver or conversion failure with the statement that caused it.
type QueryError struct {
	Op    string
	SQL   string
	Cause error
}

func (e *QueryError) Error() string {
	return fmt.Sprintf("querykit: %s failed: %v", e.Op, e.Cause)
}

func (e *QueryError) Unwrap() error {
	return e.Cause
}

// IsQueryError reports whether err came from executing a statement.
func IsQueryError(err error) bool {
	var qe *QueryError
	return errors.As(err, &qe)
}
