// Package query holds the values shared by the builder, the executor and the mapper.
package query

import (
	"fmt"
	"strings"
)

// Query is built SQL text plus its positional arguments, in placeholder order.
type Query struct {
	SQL  string
	Args []interface{}
}

// Row is one result row keyed by the column name returned by the driver.
type Row map[string]interface{}

// WithPrefix returns a copy of q whose arguments start with prefix.
func (q Query) WithPrefix(prefix ...interface{}) Query {
	if len(prefix) == 0 {
		return q
	}
	args := make([]interface{}, 0, len(prefix)+len(q.Args))
	args = append(args, prefix...)
	args = append(args, q.Args...)
	return Query{SQL: q.SQL, Args: args}
}

// String returns the SQL text.
func (q Query) String() string {
	return q.SQL
}

// Key identifies q by its text and argument values, for caching.
func (q Query) Key() string {
	var b strings.Builder
	b.WriteString(q.SQL)
	for _, a := range q.Args {
		fmt.Fprintf(&b, "\x00%T:%v", a, a)
	}
	return b.String()
}

// CountPlaceholders counts `?` markers outside single-quoted literals.
func CountPlaceholders(sql string) int {
	n := 0
	inQuote := false
	for i := 0; i < len(sql); i++ {
		switch sql[i] {
		case '\'':
			inQuote = !inQuote
		case '?':
			if !inQuote {
				n++
			}
		}
	}
	return n
}

// Normalize collapses carriage returns, tabs and newlines to spaces.
func Normalize(sql string) string {
	return strings.Map(func(r rune) rune {
		switch r {
		case '\r', '\t', '\n':
			return ' '
		}
		return r
	}, sql)
}
