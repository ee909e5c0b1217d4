// Package sqlgen renders clause models into dialect-specific SQL text.
package sqlgen

import (
	"fmt"
	"strings"
)

// Dialect selects the pagination syntax family.
type Dialect int

const (
	// Generic appends `limit n offset m` (PostgreSQL, SQLite and most others).
	Generic Dialect = iota
	// MySQL appends `limit offset,count`.
	MySQL
	// Oracle wraps the query in rownum subqueries.
	Oracle
)

func (d Dialect) String() string {
	switch d {
	case MySQL:
		return "mysql"
	case Oracle:
		return "oracle"
	default:
		return "generic"
	}
}

// ParseDialect maps a provider or driver name onto a dialect.
func ParseDialect(name string) (Dialect, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "oracle", "godror", "oci8":
		return Oracle, nil
	case "mysql", "mariadb":
		return MySQL, nil
	case "", "generic", "other", "default", "postgres", "postgresql", "pgx", "sqlite", "sqlite3":
		return Generic, nil
	}
	return Generic, fmt.Errorf("unsupported dialect: %s", name)
}

// IsDialect reports whether name resolves to d.
func (d Dialect) IsDialect(name string) bool {
	parsed, err := ParseDialect(name)
	return err == nil && parsed == d
}
