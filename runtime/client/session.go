package client

import (
	"context"

	"github.com/satishbabariya/querykit/internal/debug"
	"github.com/satishbabariya/querykit/query"
	"github.com/satishbabariya/querykit/query/builder"
	"github.com/satishbabariya/querykit/query/cache"
	"github.com/satishbabariya/querykit/query/executor"
	"github.com/satishbabariya/querykit/query/mapper"
	"github.com/satishbabariya/querykit/query/paging"
)

// DefaultScope is the count cache scope of sessions that set none.
const DefaultScope = "default"

// Session is a query controller bound to an executor. It remembers the last
// result list and the row count, and drops the count when the configuration
// changes in a way that alters the count query.
//
// A Session belongs to one request flow; it is not safe for concurrent use.
type Session struct {
	*builder.Controller

	exec   *executor.Executor
	counts cache.Counts
	scope  string

	rows     []query.Row
	fetched  *int
	count    *int64
	countKey string
}

func newSession(c *builder.Controller, exec *executor.Executor, counts cache.Counts) *Session {
	return &Session{Controller: c, exec: exec, counts: counts, scope: DefaultScope}
}

// SetScope names the group of cached counts this session reads and invalidates.
func (s *Session) SetScope(scope string) *Session {
	if scope == "" {
		scope = DefaultScope
	}
	s.scope = scope
	return s
}

// Scope returns the count cache scope.
func (s *Session) Scope() string {
	return s.scope
}

// Execute runs the built query and keeps the rows, including the over-fetched one.
func (s *Session) Execute(ctx context.Context) ([]query.Row, error) {
	q, err := s.Build()
	if err != nil {
		return nil, err
	}
	rows, err := s.exec.RunQuery(ctx, q)
	if err != nil {
		return nil, err
	}
	s.rows = rows
	s.setFetched(len(rows))
	return rows, nil
}

// ExecuteForList runs the built query and maps every row with t.
func ExecuteForList[T any](ctx context.Context, s *Session, t *mapper.Table[T]) ([]T, error) {
	q, err := s.Build()
	if err != nil {
		return nil, err
	}
	rows, err := s.exec.RunQuery(ctx, q)
	if err != nil {
		return nil, err
	}
	list, err := t.ToList(rows)
	if err != nil {
		return nil, err
	}
	s.rows = rows
	s.setFetched(len(list))
	return list, nil
}

// ExecuteForObject runs the built query and maps its first row. ok is false
// when nothing matched. The session's result list is left untouched.
func ExecuteForObject[T any](ctx context.Context, s *Session, t *mapper.Table[T]) (v T, ok bool, err error) {
	q, err := s.Build()
	if err != nil {
		return v, false, err
	}
	rows, err := s.exec.RunQuery(ctx, q)
	if err != nil {
		return v, false, err
	}
	return t.ToObject(rows)
}

// ExecuteUpdate runs a statement outside the controller, then drops every
// count cached for the session's scope.
func (s *Session) ExecuteUpdate(ctx context.Context, q query.Query) (int64, error) {
	n, err := s.exec.RunUpdate(ctx, q)
	if err != nil {
		return 0, err
	}
	s.Refresh()
	if s.counts != nil {
		s.counts.InvalidateScope(s.scope)
	}
	return n, nil
}

// ResultCount returns the number of rows the where-clauses match. The count
// is kept until Refresh or until the count query changes; with a shared
// cache it is also looked up there before hitting the database.
func (s *Session) ResultCount(ctx context.Context) (int64, error) {
	q, err := s.BuildCount()
	if err != nil {
		return 0, err
	}
	key := q.Key()
	if s.count != nil && key != s.countKey {
		debug.Debug("count query changed, refreshing", "scope", s.scope)
		s.Refresh()
	}
	if s.count != nil {
		return *s.count, nil
	}

	if s.counts != nil {
		if n, ok := s.counts.Get(s.scope, q); ok {
			s.setCount(key, n)
			return n, nil
		}
	}

	n, err := s.exec.ScalarInt64(ctx, q)
	if err != nil {
		return 0, err
	}
	if s.counts != nil {
		s.counts.Put(s.scope, q, n)
	}
	s.setCount(key, n)
	return n, nil
}

// Page returns the paging state of the last execution. The row count is
// fetched when a page size is set, since the page count depends on it.
func (s *Session) Page(ctx context.Context) (paging.Page, error) {
	p := paging.Page{
		First:   s.FirstResult(),
		Max:     s.MaxResults(),
		Number:  s.PageNumber(),
		Fetched: s.fetched,
	}
	if p.Max != nil {
		n, err := s.ResultCount(ctx)
		if err != nil {
			return paging.Page{}, err
		}
		p.Count = &n
	}
	return p, nil
}

// Rows returns the rows of the last Execute or ExecuteForList.
func (s *Session) Rows() []query.Row {
	return s.rows
}

// TruncResultList returns the last rows without the over-fetched one.
func (s *Session) TruncResultList() []query.Row {
	return paging.Trunc(s.rows, s.MaxResults())
}

// Refresh forgets the result list and the row count.
func (s *Session) Refresh() {
	s.rows = nil
	s.fetched = nil
	s.count = nil
	s.countKey = ""
}

// Reset clears the controller configuration and the cached results.
func (s *Session) Reset() {
	s.Controller.Reset()
	s.Refresh()
}

func (s *Session) setFetched(n int) {
	s.fetched = &n
}

func (s *Session) setCount(key string, n int64) {
	s.count = &n
	s.countKey = key
}
