package builder_test

import (
	"bytes"
	"fmt"
	"strings"
	"testing"

	"github.com/sebdah/goldie/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/satishbabariya/querykit/query"
	"github.com/satishbabariya/querykit/query/builder"
	"github.com/satishbabariya/querykit/query/clause"
	"github.com/satishbabariya/querykit/query/filter"
	"github.com/satishbabariya/querykit/query/sqlgen"
)

func intPtr(i int) *int { return &i }

func render(q query.Query) []byte {
	var b bytes.Buffer
	b.WriteString(q.SQL)
	b.WriteByte('\n')
	for i, a := range q.Args {
		fmt.Fprintf(&b, "$%d %T %v\n", i+1, a, a)
	}
	return b.Bytes()
}

// fullController exercises joins, grouped clauses, functions, IN literals,
// sorting and paging together.
func fullController(d sqlgen.Dialect) *builder.Controller {
	c := builder.New(d, builder.WithQuery("select f.* from foo f"))
	c.Append("left join bar b on b.id = f.bar_id")
	c.AddWhere(clause.NewWhere(
		clause.Eq("status", "ACTIVE"),
		clause.Contains("name", "JO").With(clause.Lower()),
	))
	c.AddWhere(clause.NewWhere(
		clause.InValues("kind", []string{"A", "B"}),
		clause.Gte("b.created", 5),
	).Any().Grouped().OrWithPrevious())
	c.OrderBy(clause.MustSort(clause.DescOrder("name"), clause.AscOrder("b.created")))
	c.SetFirstResult(intPtr(21))
	c.SetMaxResults(intPtr(10))
	return c
}

func TestBuildGolden(t *testing.T) {
	g := goldie.New(t, goldie.WithFixtureDir("testdata/golden"), goldie.WithNameSuffix(".golden"))

	tests := []struct {
		name    string
		dialect sqlgen.Dialect
		count   bool
	}{
		{name: "oracle", dialect: sqlgen.Oracle},
		{name: "mysql", dialect: sqlgen.MySQL},
		{name: "generic", dialect: sqlgen.Generic},
		{name: "count", dialect: sqlgen.Generic, count: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := fullController(tt.dialect)
			build := c.Build
			if tt.count {
				build = c.BuildCount
			}
			q, err := build()
			require.NoError(t, err)
			assert.Equal(t, len(q.Args), query.CountPlaceholders(q.SQL))
			g.Assert(t, tt.name, render(q))
		})
	}
}

func TestOraclePagination(t *testing.T) {
	c := builder.New(sqlgen.Oracle, builder.WithQuery("select * from foo f"), builder.WithMaxResults(10))

	q, err := c.Build()
	require.NoError(t, err)
	assert.Contains(t, q.SQL, "rownum <= 11")
	assert.Contains(t, q.SQL, "FROM ( select * from foo f ) a")
	assert.True(t, strings.HasPrefix(q.SQL, "SELECT * FROM (SELECT a.*, rownum rn FROM ("))
	assert.Empty(t, q.Args)

	c.SetPageNumber(1)
	q, err = c.Build()
	require.NoError(t, err)
	assert.True(t, strings.HasSuffix(q.SQL, "WHERE rownum <= 21 ) WHERE rn >= 11"), q.SQL)
	require.NotNil(t, c.FirstResult())
	assert.Equal(t, 10, *c.FirstResult(), "reported offset stays 0-based")
}

func TestMySQLPagination(t *testing.T) {
	tests := []struct {
		name   string
		first  *int
		max    *int
		page   int
		suffix string
	}{
		{name: "explicit first", first: intPtr(21), max: intPtr(10), suffix: " limit 20,11"},
		{name: "max only", max: intPtr(10), suffix: "foo f limit 11"},
		{name: "page number", max: intPtr(10), page: 2, suffix: " limit 20,11"},
		{name: "no max", first: intPtr(21), suffix: "from foo f"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := builder.New(sqlgen.MySQL, builder.WithQuery("select * from foo f"))
			c.SetFirstResult(tt.first).SetMaxResults(tt.max).SetPageNumber(tt.page)

			q, err := c.Build()
			require.NoError(t, err)
			assert.True(t, strings.HasSuffix(q.SQL, tt.suffix), q.SQL)
		})
	}
}

func TestGenericPageNumber(t *testing.T) {
	c := builder.New(sqlgen.Generic, builder.WithQuery("select * from foo f"), builder.WithMaxResults(10))
	c.SetPageNumber(2)

	q, err := c.Build()
	require.NoError(t, err)
	assert.Equal(t, "select * from foo f limit 11 offset 20", q.SQL)
	require.NotNil(t, c.FirstResult())
	assert.Equal(t, 20, *c.FirstResult())
}

func TestSortRendering(t *testing.T) {
	c := builder.New(sqlgen.Generic, builder.WithQuery("select * from foo f"))
	c.OrderBy(clause.MustSort(clause.DescOrder("name"), clause.AscOrder("id.value")))

	q, err := c.Build()
	require.NoError(t, err)
	assert.Equal(t, "SELECT * FROM ( select * from foo f ) f ORDER BY f.name DESC, id.value ASC", q.SQL)
}

func TestOrderingPriority(t *testing.T) {
	c := builder.New(sqlgen.Generic, builder.WithQuery("select * from foo f"))
	c.OrderBy(clause.MustSort(clause.AscOrder("name")))
	c.SetSortDecorator(clause.SortExpression("f.rank desc"))

	q, err := c.Build()
	require.NoError(t, err)
	assert.True(t, strings.HasSuffix(q.SQL, "ORDER BY f.rank desc"), q.SQL)

	c.OrderColumn("f.created", "")
	q, err = c.Build()
	require.NoError(t, err)
	assert.True(t, strings.HasSuffix(q.SQL, "ORDER BY f.created DESC"), q.SQL)
}

func TestWhereAssembly(t *testing.T) {
	tests := []struct {
		name     string
		base     string
		clauses  []*clause.WhereClause
		wantSQL  string
		wantArgs []interface{}
	}{
		{
			name:    "in fragment",
			base:    "select * from foo f",
			clauses: []*clause.WhereClause{clause.NewWhere(clause.InValues("status", []string{"A", "B"}))},
			wantSQL: "select * from foo f WHERE f.status IN ( 'A', 'B' )",
		},
		{
			name:     "comma shorthand",
			base:     "select * from foo f",
			clauses:  []*clause.WhereClause{clause.NewWhere(clause.Eq("code", "a,b,c"))},
			wantSQL:  "select * from foo f WHERE ( f.code = ? OR f.code = ? OR f.code = ? )",
			wantArgs: []interface{}{"a", "b", "c"},
		},
		{
			name:    "skippable clause",
			base:    "select * from foo f",
			clauses: []*clause.WhereClause{clause.NewWhere(clause.Eq("a", nil), clause.Eq("b", " "))},
			wantSQL: "select * from foo f",
		},
		{
			name:     "existing where",
			base:     "select * from foo f\nwhere f.deleted = 0",
			clauses:  []*clause.WhereClause{clause.NewWhere(clause.Eq("a", 1), clause.Eq("b", 2)).Any()},
			wantSQL:  "select * from foo f where f.deleted = 0 AND ( f.a = ? OR f.b = ? )",
			wantArgs: []interface{}{1, 2},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := builder.New(sqlgen.Generic, builder.WithQuery(tt.base)).SetWhere(tt.clauses)

			q, err := c.Build()
			require.NoError(t, err)
			assert.Equal(t, tt.wantSQL, q.SQL)
			assert.Equal(t, tt.wantArgs, q.Args)
			assert.Equal(t, len(q.Args), query.CountPlaceholders(q.SQL))
		})
	}
}

func TestBuildIsIdempotent(t *testing.T) {
	c := fullController(sqlgen.MySQL)

	first, err := c.Build()
	require.NoError(t, err)
	second, err := c.Build()
	require.NoError(t, err)

	assert.Equal(t, first, second)
	assert.Len(t, second.Args, 3)
}

func TestCountSharesWhere(t *testing.T) {
	c := fullController(sqlgen.Oracle)

	page, err := c.Build()
	require.NoError(t, err)
	count, err := c.BuildCount()
	require.NoError(t, err)

	const where = "WHERE f.status = ? AND lower(f.name) LIKE ? OR ( f.kind IN ( 'A', 'B' ) OR b.created >= ? )"
	assert.Contains(t, page.SQL, where)
	assert.Contains(t, count.SQL, where)
	assert.Equal(t, page.Args, count.Args)
	assert.NotContains(t, count.SQL, "ORDER BY")
	assert.NotContains(t, count.SQL, "rownum")
}

func TestCountGroupBy(t *testing.T) {
	g, err := clause.NewGroupBy("status")
	require.NoError(t, err)
	c := builder.New(sqlgen.Generic, builder.WithQuery("select f.status from foo f")).GroupBy(g)

	q, err := c.BuildCount()
	require.NoError(t, err)
	assert.Equal(t, "SELECT count(*) FROM ( select f.status from foo f ) f GROUP BY f.status", q.SQL)

	q, err = c.Build()
	require.NoError(t, err)
	assert.Equal(t, "select f.status from foo f GROUP BY f.status", q.SQL)
}

func TestPrefixParams(t *testing.T) {
	c := builder.New(sqlgen.Generic, builder.WithQuery("select * from foo f where f.tenant = ?"))
	c.SetPrefixParams(7)
	c.AddWhere(clause.NewWhere(clause.Eq("a", 1)))

	q, err := c.Build()
	require.NoError(t, err)
	assert.Equal(t, "select * from foo f where f.tenant = ? AND f.a = ?", q.SQL)
	assert.Equal(t, []interface{}{7, 1}, q.Args)

	count, err := c.BuildCount()
	require.NoError(t, err)
	assert.Equal(t, q.Args, count.Args)
}

func TestRestrictionsHook(t *testing.T) {
	calls := 0
	hook := func(c *builder.Controller) []*clause.WhereClause {
		calls++
		return []*clause.WhereClause{clause.NewWhere(clause.Eq("owner", "me"))}
	}
	c := builder.New(sqlgen.Generic, builder.WithQuery("select * from foo f"), builder.WithRestrictions(hook))

	q, err := c.Build()
	require.NoError(t, err)
	assert.Equal(t, "select * from foo f WHERE f.owner = ?", q.SQL)
	assert.Equal(t, 1, calls)

	c.AddWhere(clause.NewWhere(clause.Eq("id", 3)))
	q, err = c.Build()
	require.NoError(t, err)
	assert.Equal(t, "select * from foo f WHERE f.id = ?", q.SQL)
	assert.Equal(t, 1, calls)
}

func TestRoot(t *testing.T) {
	c := builder.New(sqlgen.Generic)
	_, err := c.Build()
	require.ErrorIs(t, err, builder.ErrNoQuery)

	c.SetQuery("select 1")
	_, err = c.Build()
	require.ErrorIs(t, err, sqlgen.ErrInvalidRoot)

	require.Error(t, c.SetRoot("1x"))
	require.NoError(t, c.SetRoot("d"))
	c.AddWhere(clause.NewWhere(clause.Eq("a", 1)))
	q, err := c.Build()
	require.NoError(t, err)
	assert.Equal(t, "select 1 WHERE d.a = ?", q.SQL)
}

func TestBuildErrors(t *testing.T) {
	c := builder.New(sqlgen.Generic, builder.WithQuery("select * from foo f"))
	c.AddWhere(clause.NewWhere(clause.Expr("f.a = ? and f.b = ?", 1)))

	_, err := c.Build()
	require.ErrorIs(t, err, sqlgen.ErrPlaceholderMismatch)
	_, err = c.BuildCount()
	require.ErrorIs(t, err, sqlgen.ErrPlaceholderMismatch)
}

func TestReset(t *testing.T) {
	c := fullController(sqlgen.Generic)
	c.SetPageNumber(3).SetPrefixParams(1)
	c.Reset()

	q, err := c.Build()
	require.NoError(t, err)
	assert.Equal(t, "select f.* from foo f", q.SQL)
	assert.Empty(t, q.Args)
	assert.Nil(t, c.MaxResults())
	assert.Nil(t, c.FirstResult())
	assert.Equal(t, 0, c.PageNumber())
}

func TestParsedFiltersStayInsideAnd(t *testing.T) {
	jsonOr := func(t *testing.T) []*clause.WhereClause {
		wc, err := filter.ParseJSON([]byte(`{"a": 1, "b": 2, "$match": "or"}`))
		require.NoError(t, err)
		return []*clause.WhereClause{wc}
	}
	exprOr := func(t *testing.T) []*clause.WhereClause {
		clauses, err := filter.ParseExpression("a = 1 or b = 2")
		require.NoError(t, err)
		return clauses
	}
	exprMixed := func(t *testing.T) []*clause.WhereClause {
		clauses, err := filter.ParseExpression("a = 1 and c = 3 or b = 2")
		require.NoError(t, err)
		return clauses
	}

	tests := []struct {
		name     string
		base     string
		filter   func(t *testing.T) []*clause.WhereClause
		hook     bool
		wantSQL  string
		wantArgs []interface{}
	}{
		{
			name:     "json or after where",
			base:     "select * from foo f",
			filter:   jsonOr,
			wantSQL:  "select * from foo f WHERE f.tenant = ? AND ( f.a = ? OR f.b = ? )",
			wantArgs: []interface{}{7, int64(1), int64(2)},
		},
		{
			name:     "expression or after where",
			base:     "select * from foo f",
			filter:   exprOr,
			wantSQL:  "select * from foo f WHERE f.tenant = ? AND ( f.a = ? OR f.b = ? )",
			wantArgs: []interface{}{7, int64(1), int64(2)},
		},
		{
			name:     "mixed expression from restrictions",
			base:     "select * from foo f",
			filter:   exprMixed,
			hook:     true,
			wantSQL:  "select * from foo f WHERE f.tenant = ? AND ( f.a = ? OR f.b = ? ) AND ( f.c = ? OR f.b = ? )",
			wantArgs: []interface{}{7, int64(1), int64(2), int64(3), int64(2)},
		},
		{
			name:     "json or on a query with where",
			base:     "select * from foo f where f.active = 1",
			filter:   jsonOr,
			wantSQL:  "select * from foo f where f.active = 1 AND ( f.tenant = ? AND ( f.a = ? OR f.b = ? ) )",
			wantArgs: []interface{}{7, int64(1), int64(2)},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			clauses := append([]*clause.WhereClause{clause.NewWhere(clause.Eq("tenant", 7))}, tt.filter(t)...)

			c := builder.New(sqlgen.Generic, builder.WithQuery(tt.base))
			if tt.hook {
				c.SetRestrictions(func(*builder.Controller) []*clause.WhereClause { return clauses })
			} else {
				for _, wc := range clauses {
					c.AddWhere(wc)
				}
			}

			q, err := c.Build()
			require.NoError(t, err)
			assert.Equal(t, tt.wantSQL, q.SQL)
			assert.Equal(t, tt.wantArgs, q.Args)
		})
	}
}
