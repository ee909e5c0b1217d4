// Package builder assembles dialect-specific SQL and its bound arguments
// from a base query and clause objects.
package builder

import (
	"errors"
	"strings"

	"github.com/satishbabariya/querykit/query"
	"github.com/satishbabariya/querykit/query/clause"
	"github.com/satishbabariya/querykit/query/sqlgen"
)

// ErrNoQuery is returned when Build is called before a base query is set.
var ErrNoQuery = errors.New("querykit: base query is not set")

// RestrictionsFunc supplies default where-clauses for a controller that was
// given none explicitly.
type RestrictionsFunc func(c *Controller) []*clause.WhereClause

// Option configures a Controller.
type Option func(*Controller)

// WithQuery sets the base query.
func WithQuery(sql string) Option {
	return func(c *Controller) {
		c.query = sql
	}
}

// WithMaxResults sets the page size.
func WithMaxResults(n int) Option {
	return func(c *Controller) {
		c.SetMaxResults(&n)
	}
}

// WithRestrictions installs a default restrictions hook.
func WithRestrictions(fn RestrictionsFunc) Option {
	return func(c *Controller) {
		c.restrictions = fn
	}
}

// Controller holds the configuration of one logical query.
//
// Configuration methods mutate the controller; Build and BuildCount derive a
// fresh query.Query on every call and never modify it. A Controller is meant
// to be owned by a single request flow.
type Controller struct {
	dialect sqlgen.Dialect
	query   string
	root    string

	appenders    []string
	where        []*clause.WhereClause
	whereSet     bool
	restrictions RestrictionsFunc

	sort           *clause.Sort
	orderColumn    string
	orderDirection string
	decorator      clause.SortDecorator
	groupBy        *clause.GroupByClause

	firstResult *int
	maxResults  *int
	pageNumber  int

	prefix []interface{}
}

// New creates a controller for dialect.
func New(dialect sqlgen.Dialect, opts ...Option) *Controller {
	c := &Controller{dialect: dialect}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Dialect returns the pagination dialect.
func (c *Controller) Dialect() sqlgen.Dialect {
	return c.dialect
}

// SetQuery replaces the base query.
func (c *Controller) SetQuery(sql string) *Controller {
	c.query = sql
	return c
}

// Query returns the base query as given.
func (c *Controller) Query() string {
	return c.query
}

// SetRoot overrides the alias parsed from the base query.
func (c *Controller) SetRoot(alias string) error {
	if err := sqlgen.ValidateAlias(alias); err != nil {
		return err
	}
	c.root = alias
	return nil
}

// Root returns the explicit alias, or the one parsed from the base query.
func (c *Controller) Root() (string, error) {
	if c.root != "" {
		return c.root, nil
	}
	return sqlgen.ParseRoot(c.query)
}

// Append registers a fragment, typically a join, that is added verbatim
// after the base query.
func (c *Controller) Append(fragment string) *Controller {
	if strings.TrimSpace(fragment) != "" {
		c.appenders = append(c.appenders, fragment)
	}
	return c
}

// AddWhere adds a clause. Nil clauses and clauses without params are ignored.
// Once any clause is added the restrictions hook is no longer consulted.
func (c *Controller) AddWhere(wc *clause.WhereClause) *Controller {
	c.whereSet = true
	if wc != nil && !wc.IsEmpty() {
		c.where = append(c.where, wc)
	}
	return c
}

// SetWhere replaces the clause list. A nil list re-enables the restrictions hook.
func (c *Controller) SetWhere(clauses []*clause.WhereClause) *Controller {
	c.where = nil
	c.whereSet = clauses != nil
	for _, wc := range clauses {
		if wc != nil && !wc.IsEmpty() {
			c.where = append(c.where, wc)
		}
	}
	return c
}

// SetRestrictions installs the default restrictions hook.
func (c *Controller) SetRestrictions(fn RestrictionsFunc) *Controller {
	c.restrictions = fn
	return c
}

// WhereClauses returns the clauses a build would use.
func (c *Controller) WhereClauses() []*clause.WhereClause {
	if c.whereSet || c.restrictions == nil {
		return append([]*clause.WhereClause(nil), c.where...)
	}
	return c.restrictions(c)
}

// OrderBy sets the structured sort. Nil clears it.
func (c *Controller) OrderBy(s *clause.Sort) *Controller {
	c.sort = s
	return c
}

// OrderColumn sets an explicit order column; it takes priority over every
// other ordering. An empty direction means DESC.
func (c *Controller) OrderColumn(column, direction string) *Controller {
	c.orderColumn = column
	c.orderDirection = direction
	return c
}

// SetSortDecorator sets a raw ORDER BY source used when no order column is set.
func (c *Controller) SetSortDecorator(d clause.SortDecorator) *Controller {
	c.decorator = d
	return c
}

// Sort returns the structured sort, if any.
func (c *Controller) Sort() *clause.Sort {
	return c.sort
}

// GroupBy sets the grouping. Nil clears it.
func (c *Controller) GroupBy(g *clause.GroupByClause) *Controller {
	c.groupBy = g
	return c
}

// SetFirstResult sets the row offset. Nil derives it from the page number.
func (c *Controller) SetFirstResult(n *int) *Controller {
	c.firstResult = copyInt(n)
	return c
}

// SetMaxResults sets the page size. Nil disables pagination.
func (c *Controller) SetMaxResults(n *int) *Controller {
	c.maxResults = copyInt(n)
	return c
}

// SetPageNumber sets the zero-based page. Negative values become 0.
func (c *Controller) SetPageNumber(n int) *Controller {
	if n < 0 {
		n = 0
	}
	c.pageNumber = n
	return c
}

// MaxResults returns the page size, or nil.
func (c *Controller) MaxResults() *int {
	return copyInt(c.maxResults)
}

// PageNumber returns the zero-based page.
func (c *Controller) PageNumber() int {
	return c.pageNumber
}

// FirstResult returns the explicit offset, or pageNumber*maxResults when a
// page size is set. Nil when neither is known.
func (c *Controller) FirstResult() *int {
	if c.firstResult != nil {
		return copyInt(c.firstResult)
	}
	if c.maxResults != nil {
		n := c.pageNumber * *c.maxResults
		return &n
	}
	return nil
}

// SetPrefixParams sets values bound ahead of every where value, for
// placeholders written into the base query itself.
func (c *Controller) SetPrefixParams(values ...interface{}) *Controller {
	c.prefix = append([]interface{}(nil), values...)
	return c
}

// PrefixParams returns the prefix values.
func (c *Controller) PrefixParams() []interface{} {
	return append([]interface{}(nil), c.prefix...)
}

// Reset clears paging, sort, grouping, where clauses, appenders and prefix
// values. The base query, root, dialect and restrictions hook are kept.
func (c *Controller) Reset() {
	c.firstResult = nil
	c.maxResults = nil
	c.pageNumber = 0
	c.sort = nil
	c.orderColumn = ""
	c.orderDirection = ""
	c.decorator = nil
	c.groupBy = nil
	c.where = nil
	c.whereSet = false
	c.appenders = nil
	c.prefix = nil
}

// Build returns the paged, ordered query and its arguments.
func (c *Controller) Build() (query.Query, error) {
	sql, root, where, err := c.prepare()
	if err != nil {
		return query.Query{}, err
	}
	sql = sqlgen.AppendWhere(sql, where)
	sql = sqlgen.AppendGroupBy(sql, root, c.groupBy)
	sql = sqlgen.ApplyOrder(sql, root, c.ordering())
	sql = sqlgen.Paginate(c.dialect, sql, c.window())
	return query.Query{SQL: sql, Args: where.Args}.WithPrefix(c.prefix...), nil
}

// BuildCount returns the row-count query. It shares the where text and
// arguments of Build but carries no ordering or pagination.
func (c *Controller) BuildCount() (query.Query, error) {
	sql, root, where, err := c.prepare()
	if err != nil {
		return query.Query{}, err
	}
	sql = sqlgen.AppendWhere(sql, where)
	sql = sqlgen.WrapCount(sql, root)
	sql = sqlgen.AppendGroupBy(sql, root, c.groupBy)
	return query.Query{SQL: sql, Args: where.Args}.WithPrefix(c.prefix...), nil
}

func (c *Controller) prepare() (string, string, sqlgen.Where, error) {
	base := strings.TrimSpace(query.Normalize(c.query))
	if base == "" {
		return "", "", sqlgen.Where{}, ErrNoQuery
	}
	root, err := c.Root()
	if err != nil {
		return "", "", sqlgen.Where{}, err
	}

	var b strings.Builder
	b.WriteString(base)
	for _, fragment := range c.appenders {
		fragment = query.Normalize(fragment)
		if !strings.HasPrefix(fragment, " ") {
			b.WriteByte(' ')
		}
		b.WriteString(fragment)
	}

	where, err := sqlgen.CompileWhere(c.WhereClauses(), root)
	if err != nil {
		return "", "", sqlgen.Where{}, err
	}
	return b.String(), root, where, nil
}

func (c *Controller) ordering() sqlgen.Ordering {
	o := sqlgen.Ordering{
		Column:    c.orderColumn,
		Direction: c.orderDirection,
		Sort:      c.sort,
	}
	if c.decorator != nil {
		o.Expression = c.decorator.SortExpression()
	}
	return o
}

// window maps the controller's paging onto the dialect window. MySQL and
// Oracle read First as 1-based, so an offset derived from the page number is
// shifted here and nowhere else: FirstResult keeps reporting the 0-based row
// (20 on page 2 of 10) while the emitted window starts at 21. Explicit
// SetFirstResult values are already 1-based and pass through unchanged.
func (c *Controller) window() sqlgen.Window {
	w := sqlgen.Window{Max: copyInt(c.maxResults), First: c.FirstResult()}
	if c.firstResult == nil && w.First != nil && *w.First > 0 && c.dialect != sqlgen.Generic {
		n := *w.First + 1
		w.First = &n
	}
	return w
}

func copyInt(n *int) *int {
	if n == nil {
		return nil
	}
	v := *n
	return &v
}
