package sqlgen

import (
	"regexp"
	"strings"

	"github.com/satishbabariya/querykit/query/clause"
)

var whereKeyword = regexp.MustCompile(`(?i)\bwhere\b`)

// Where is a compiled predicate tree and its bound values in placeholder order.
type Where struct {
	SQL        string
	Args       []interface{}
	Predicates int
}

// IsEmpty returns true when no clause contributed a predicate
func (w Where) IsEmpty() bool {
	return w.SQL == ""
}

// CompileWhere renders clauses in order. Clauses whose params were all skipped
// contribute nothing, and the first contributing clause takes no joiner.
func CompileWhere(clauses []*clause.WhereClause, root string) (Where, error) {
	var (
		out   Where
		parts []string
	)
	for _, wc := range clauses {
		if wc.IsEmpty() {
			continue
		}
		if err := wc.Validate(); err != nil {
			return Where{}, err
		}
		text, args, n, err := buildClause(wc, root)
		if err != nil {
			return Where{}, err
		}
		if n == 0 {
			continue
		}
		if wc.IsGrouped() {
			text = "( " + text + " )"
		}
		if len(parts) > 0 {
			parts = append(parts, wc.ClauseJoiner().String())
		}
		parts = append(parts, text)
		out.Args = append(out.Args, args...)
		out.Predicates += n
	}
	out.SQL = strings.Join(parts, " ")
	return out, nil
}

// AppendWhere attaches the predicate tree to sql with WHERE, or with AND when
// sql already contains a WHERE keyword. In the AND case a tree of several
// predicates is parenthesized so its ORs stay bound together.
func AppendWhere(sql string, w Where) string {
	if w.IsEmpty() {
		return sql
	}
	if whereKeyword.MatchString(sql) {
		if w.Predicates > 1 {
			return sql + " AND ( " + w.SQL + " )"
		}
		return sql + " AND " + w.SQL
	}
	return sql + " WHERE " + w.SQL
}
