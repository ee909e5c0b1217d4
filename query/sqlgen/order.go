package sqlgen

import (
	"regexp"
	"strings"

	"github.com/satishbabariya/querykit/query/clause"
)

var groupByKeyword = regexp.MustCompile(`(?i)\bgroup\s+by\b`)

// Ordering collects the three ORDER BY sources, highest priority first.
type Ordering struct {
	// Column and Direction come from request parameters. Direction defaults to DESC.
	Column    string
	Direction string
	// Expression is a raw ORDER BY body, e.g. from a SortDecorator.
	Expression string
	Sort       *clause.Sort
}

// IsEmpty returns true when no source yields an ORDER BY
func (o Ordering) IsEmpty() bool {
	return strings.TrimSpace(o.Column) == "" && strings.TrimSpace(o.Expression) == "" && o.Sort.Len() == 0
}

// Body renders the text following ORDER BY.
func (o Ordering) Body(root string) string {
	if col := strings.TrimSpace(o.Column); col != "" {
		dir := strings.TrimSpace(o.Direction)
		if dir == "" {
			dir = clause.Desc.Label()
		}
		return col + " " + strings.ToUpper(dir)
	}
	if expr := strings.TrimSpace(o.Expression); expr != "" {
		return expr
	}

	orders := o.Sort.Orders()
	parts := make([]string, 0, len(orders))
	for _, order := range orders {
		if order.Direction == clause.Raw {
			parts = append(parts, order.Property)
			continue
		}
		parts = append(parts, Qualify(root, order.Property)+" "+order.Direction.Label())
	}
	return strings.Join(parts, ", ")
}

// ApplyOrder wraps sql as a derived table aliased root and orders it.
// Without any ordering sql is returned untouched.
func ApplyOrder(sql, root string, o Ordering) string {
	if o.IsEmpty() {
		return sql
	}
	return "SELECT * FROM ( " + sql + " ) " + root + " ORDER BY " + o.Body(root)
}

// AppendGroupBy adds the properties to an existing GROUP BY, or opens one.
func AppendGroupBy(sql, root string, g *clause.GroupByClause) string {
	props := g.Properties()
	if len(props) == 0 {
		return sql
	}
	cols := make([]string, len(props))
	for i, p := range props {
		cols[i] = Qualify(root, p)
	}
	if groupByKeyword.MatchString(sql) {
		return sql + ", " + strings.Join(cols, ", ")
	}
	return sql + " GROUP BY " + strings.Join(cols, ", ")
}

// WrapCount turns sql into a row count over a derived table aliased root.
func WrapCount(sql, root string) string {
	return "SELECT count(*) FROM ( " + sql + " ) " + root
}
