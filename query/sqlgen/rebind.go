package sqlgen

import (
	"strconv"
	"strings"
)

// BindStyle is the placeholder syntax a driver expects.
type BindStyle int

const (
	// Question keeps `?` (mysql, sqlite3, godror with question binds).
	Question BindStyle = iota
	// Dollar numbers placeholders `$1..$n` (postgres).
	Dollar
)

// BindStyleFor returns the placeholder syntax of a database/sql driver name.
func BindStyleFor(driverName string) BindStyle {
	switch driverName {
	case "postgres", "pgx", "pq":
		return Dollar
	}
	return Question
}

// Rebind rewrites `?` placeholders for style, leaving quoted literals untouched.
func Rebind(style BindStyle, sql string) string {
	if style == Question || !strings.Contains(sql, "?") {
		return sql
	}
	var (
		b       strings.Builder
		n       int
		inQuote bool
	)
	b.Grow(len(sql) + 8)
	for i := 0; i < len(sql); i++ {
		c := sql[i]
		switch {
		case c == '\'':
			inQuote = !inQuote
			b.WriteByte(c)
		case c == '?' && !inQuote:
			n++
			b.WriteByte('$')
			b.WriteString(strconv.Itoa(n))
		default:
			b.WriteByte(c)
		}
	}
	return b.String()
}
