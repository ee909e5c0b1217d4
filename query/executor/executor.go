// Package executor runs built queries against database/sql and returns rows
// keyed by column name.
package executor

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/satishbabariya/querykit/query"
	"github.com/satishbabariya/querykit/query/sqlgen"
)

// ErrNilDB is returned by New without a database handle.
var ErrNilDB = errors.New("querykit: executor requires a database handle")

// Querier is satisfied by *sql.DB, *sql.Tx and *sql.Conn.
type Querier interface {
	QueryContext(ctx context.Context, query string, args ...interface{}) (*sql.Rows, error)
	ExecContext(ctx context.Context, query string, args ...interface{}) (sql.Result, error)
	PrepareContext(ctx context.Context, query string) (*sql.Stmt, error)
}

// Option configures an Executor.
type Option func(*Executor)

// WithBindStyle sets the placeholder syntax the driver expects.
func WithBindStyle(style sqlgen.BindStyle) Option {
	return func(e *Executor) {
		e.bind = style
	}
}

// WithMiddleware appends middlewares to the chain.
func WithMiddleware(mw ...Middleware) Option {
	return func(e *Executor) {
		e.middlewares = append(e.middlewares, mw...)
	}
}

// WithStatementCache keeps prepared statements per SQL text.
func WithStatementCache(enabled bool) Option {
	return func(e *Executor) {
		e.cacheStmts = enabled
	}
}

// Executor runs queries. Parameters are bound strictly in argument order.
type Executor struct {
	db          Querier
	bind        sqlgen.BindStyle
	middlewares []Middleware

	cacheStmts bool
	stmtCache  map[string]*sql.Stmt
	cacheMu    sync.RWMutex
}

// New creates an executor over db.
func New(db Querier, opts ...Option) (*Executor, error) {
	if db == nil {
		return nil, ErrNilDB
	}
	e := &Executor{
		db:        db,
		stmtCache: make(map[string]*sql.Stmt),
	}
	for _, opt := range opts {
		opt(e)
	}
	return e, nil
}

// Use adds a middleware to the chain
func (e *Executor) Use(mw Middleware) {
	e.middlewares = append(e.middlewares, mw)
}

// RunQuery executes q and returns every row keyed by the column names the
// driver reports, casing preserved. Byte slices are returned as strings.
func (e *Executor) RunQuery(ctx context.Context, q query.Query) ([]query.Row, error) {
	var out []query.Row
	err := e.run(ctx, "query", q, func(event *QueryEvent) error {
		rows, err := e.query(ctx, event.Query, q.Args)
		if err != nil {
			return err
		}
		defer rows.Close()

		out, err = scanRows(rows)
		event.Rows = int64(len(out))
		return err
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}

// RunScalar returns the first column of the first row, or nil without rows.
func (e *Executor) RunScalar(ctx context.Context, q query.Query) (interface{}, error) {
	var out interface{}
	err := e.run(ctx, "scalar", q, func(event *QueryEvent) error {
		rows, err := e.query(ctx, event.Query, q.Args)
		if err != nil {
			return err
		}
		defer rows.Close()

		if !rows.Next() {
			return rows.Err()
		}
		cols, err := rows.Columns()
		if err != nil {
			return err
		}
		values := make([]interface{}, len(cols))
		ptrs := make([]interface{}, len(cols))
		for i := range values {
			ptrs[i] = &values[i]
		}
		if err := rows.Scan(ptrs...); err != nil {
			return fmt.Errorf("scan failed: %w", err)
		}
		event.Rows = 1
		if len(values) > 0 {
			out = normalize(values[0])
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}

// ScalarInt64 runs a count-like query. A NULL result counts as 0.
func (e *Executor) ScalarInt64(ctx context.Context, q query.Query) (int64, error) {
	v, err := e.RunScalar(ctx, q)
	if err != nil {
		return 0, err
	}
	n, err := toInt64(v)
	if err != nil {
		return 0, &QueryError{Op: "scalar", SQL: q.SQL, Cause: err}
	}
	return n, nil
}

// RunUpdate executes a statement and returns the affected row count.
func (e *Executor) RunUpdate(ctx context.Context, q query.Query) (int64, error) {
	var affected int64
	err := e.run(ctx, "update", q, func(event *QueryEvent) error {
		result, err := e.exec(ctx, event.Query, q.Args)
		if err != nil {
			return err
		}
		affected, err = result.RowsAffected()
		if err != nil {
			return fmt.Errorf("failed to get rows affected: %w", err)
		}
		event.Rows = affected
		return nil
	})
	if err != nil {
		return 0, err
	}
	return affected, nil
}

// Column returns the first column of every row converted to T. NULL values
// are skipped.
func Column[T any](ctx context.Context, e *Executor, q query.Query) ([]T, error) {
	values, err := e.firstColumn(ctx, q)
	if err != nil {
		return nil, err
	}
	out := make([]T, 0, len(values))
	for _, v := range values {
		if v == nil {
			continue
		}
		t, err := convert[T](v)
		if err != nil {
			return nil, &QueryError{Op: "column", SQL: q.SQL, Cause: err}
		}
		out = append(out, t)
	}
	return out, nil
}

// Close releases cached prepared statements.
func (e *Executor) Close() error {
	e.cacheMu.Lock()
	defer e.cacheMu.Unlock()

	var errs []error
	for _, stmt := range e.stmtCache {
		if err := stmt.Close(); err != nil {
			errs = append(errs, err)
		}
	}
	e.stmtCache = make(map[string]*sql.Stmt)
	return errors.Join(errs...)
}

func (e *Executor) run(ctx context.Context, op string, q query.Query, exec func(*QueryEvent) error) error {
	event := &QueryEvent{
		Op:    op,
		Query: sqlgen.Rebind(e.bind, q.SQL),
		Args:  q.Args,
		Start: time.Now(),
	}

	index := 0
	var next func() error
	next = func() error {
		if index >= len(e.middlewares) {
			err := exec(event)
			event.End = time.Now()
			event.Duration = event.End.Sub(event.Start)
			event.Error = err
			return err
		}
		mw := e.middlewares[index]
		index++
		return mw(ctx, event, next)
	}

	if err := next(); err != nil {
		return &QueryError{Op: op, SQL: event.Query, Cause: err}
	}
	return nil
}

func (e *Executor) query(ctx context.Context, sqlText string, args []interface{}) (*sql.Rows, error) {
	if !e.cacheStmts {
		return e.db.QueryContext(ctx, sqlText, args...)
	}
	stmt, err := e.getCachedStmt(ctx, sqlText)
	if err != nil {
		return nil, err
	}
	return stmt.QueryContext(ctx, args...)
}

func (e *Executor) exec(ctx context.Context, sqlText string, args []interface{}) (sql.Result, error) {
	if !e.cacheStmts {
		return e.db.ExecContext(ctx, sqlText, args...)
	}
	stmt, err := e.getCachedStmt(ctx, sqlText)
	if err != nil {
		return nil, err
	}
	return stmt.ExecContext(ctx, args...)
}

// getCachedStmt gets a cached prepared statement or creates a new one
func (e *Executor) getCachedStmt(ctx context.Context, sqlText string) (*sql.Stmt, error) {
	e.cacheMu.RLock()
	stmt, ok := e.stmtCache[sqlText]
	e.cacheMu.RUnlock()
	if ok {
		return stmt, nil
	}

	stmt, err := e.db.PrepareContext(ctx, sqlText)
	if err != nil {
		return nil, fmt.Errorf("failed to prepare statement: %w", err)
	}

	e.cacheMu.Lock()
	defer e.cacheMu.Unlock()
	if cached, ok := e.stmtCache[sqlText]; ok {
		stmt.Close()
		return cached, nil
	}
	e.stmtCache[sqlText] = stmt
	return stmt, nil
}

// scanRows reads every row into a column-keyed map.
func scanRows(rows *sql.Rows) ([]query.Row, error) {
	columns, err := rows.Columns()
	if err != nil {
		return nil, fmt.Errorf("failed to get columns: %w", err)
	}

	var out []query.Row
	for rows.Next() {
		values := make([]interface{}, len(columns))
		ptrs := make([]interface{}, len(columns))
		for i := range values {
			ptrs[i] = &values[i]
		}
		if err := rows.Scan(ptrs...); err != nil {
			return nil, fmt.Errorf("scan failed: %w", err)
		}
		row := make(query.Row, len(columns))
		for i, col := range columns {
			row[col] = normalize(values[i])
		}
		out = append(out, row)
	}
	return out, rows.Err()
}

func normalize(v interface{}) interface{} {
	if b, ok := v.([]byte); ok {
		return string(b)
	}
	return v
}

func (e *Executor) firstColumn(ctx context.Context, q query.Query) ([]interface{}, error) {
	var out []interface{}
	err := e.run(ctx, "column", q, func(event *QueryEvent) error {
		rows, err := e.query(ctx, event.Query, q.Args)
		if err != nil {
			return err
		}
		defer rows.Close()

		cols, err := rows.Columns()
		if err != nil {
			return fmt.Errorf("failed to get columns: %w", err)
		}
		values := make([]interface{}, len(cols))
		ptrs := make([]interface{}, len(cols))
		for i := range values {
			ptrs[i] = &values[i]
		}
		for rows.Next() {
			if err := rows.Scan(ptrs...); err != nil {
				return fmt.Errorf("scan failed: %w", err)
			}
			if len(values) > 0 {
				out = append(out, normalize(values[0]))
			}
		}
		event.Rows = int64(len(out))
		return rows.Err()
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}
