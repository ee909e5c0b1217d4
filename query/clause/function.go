package clause

import (
	"fmt"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// Function rewrites a column expression and its bound value symmetrically.
type Function interface {
	Column(expr string) string
	Value(v interface{}) interface{}
}

type caseFunction struct {
	sqlName string
	caser   func() cases.Caser
}

func (f caseFunction) Column(expr string) string {
	return f.sqlName + "(" + expr + ")"
}

// Value folds the textual form of v; nil becomes the empty string.
// A Caser is stateful, so one is made per call.
func (f caseFunction) Value(v interface{}) interface{} {
	if v == nil {
		return ""
	}
	s, ok := v.(string)
	if !ok {
		s = fmt.Sprint(v)
	}
	return f.caser().String(s)
}

// Lower compares lower(column) against the lower-cased value.
func Lower() Function {
	return caseFunction{sqlName: "lower", caser: func() cases.Caser { return cases.Lower(language.Und) }}
}

// Upper compares upper(column) against the upper-cased value.
func Upper() Function {
	return caseFunction{sqlName: "upper", caser: func() cases.Caser { return cases.Upper(language.Und) }}
}
