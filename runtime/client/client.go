// Package client binds query controllers to a database connection.
package client

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	_ "github.com/go-sql-driver/mysql" // MySQL driver
	_ "github.com/lib/pq"              // PostgreSQL driver
	_ "github.com/mattn/go-sqlite3"    // SQLite driver

	"github.com/satishbabariya/querykit/internal/debug"
	"github.com/satishbabariya/querykit/query/builder"
	"github.com/satishbabariya/querykit/query/cache"
	"github.com/satishbabariya/querykit/query/executor"
	"github.com/satishbabariya/querykit/query/sqlgen"
)

// ErrUnsupportedProvider is returned by Open for providers without a bundled driver.
var ErrUnsupportedProvider = errors.New("querykit: unsupported provider")

// Option configures a Client.
type Option func(*Client)

// WithCounts shares a count cache between the client's sessions.
func WithCounts(c cache.Counts) Option {
	return func(cl *Client) {
		cl.counts = c
	}
}

// WithExecutorOptions passes options to the underlying executor.
func WithExecutorOptions(opts ...executor.Option) Option {
	return func(cl *Client) {
		cl.execOpts = append(cl.execOpts, opts...)
	}
}

// Client owns a connection pool, its dialect and an executor.
type Client struct {
	db       *sql.DB
	provider string
	dialect  sqlgen.Dialect
	exec     *executor.Executor
	counts   cache.Counts

	execOpts []executor.Option
}

// Open connects to a database through one of the bundled drivers:
// postgres, mysql or sqlite.
func Open(provider, dsn string, opts ...Option) (*Client, error) {
	driverName := getDriverName(provider)
	if driverName == "" {
		return nil, fmt.Errorf("%w: %s", ErrUnsupportedProvider, provider)
	}

	db, err := sql.Open(driverName, dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to open %s: %w", provider, err)
	}
	debug.Info("database opened", "provider", provider, "dsn", debug.SanitizeDSN(dsn))

	c, err := NewFromDB(provider, db, opts...)
	if err != nil {
		db.Close()
		return nil, err
	}
	return c, nil
}

// NewFromDB wraps an open pool. provider selects the dialect and placeholder
// style, so drivers that are not bundled (an Oracle driver, for instance)
// can be used too.
func NewFromDB(provider string, db *sql.DB, opts ...Option) (*Client, error) {
	if db == nil {
		return nil, executor.ErrNilDB
	}
	dialect, err := sqlgen.ParseDialect(provider)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrUnsupportedProvider, err)
	}

	c := &Client{db: db, provider: provider, dialect: dialect}
	for _, opt := range opts {
		opt(c)
	}

	execOpts := append([]executor.Option{
		executor.WithBindStyle(sqlgen.BindStyleFor(getDriverName(provider))),
	}, c.execOpts...)
	// Debug output logs each statement through the logging middleware only.
	if debug.Enabled() {
		execOpts = append(execOpts, executor.WithMiddleware(executor.LoggingMiddleware(nil)))
	}
	c.exec, err = executor.New(db, execOpts...)
	if err != nil {
		return nil, err
	}
	return c, nil
}

// getDriverName maps provider names to database/sql driver names
func getDriverName(provider string) string {
	switch strings.ToLower(provider) {
	case "postgresql", "postgres":
		return "postgres"
	case "mysql", "mariadb":
		return "mysql"
	case "sqlite", "sqlite3":
		return "sqlite3"
	default:
		return ""
	}
}

// NewSession starts a query session over the client's executor.
func (c *Client) NewSession(opts ...builder.Option) *Session {
	return newSession(builder.New(c.dialect, opts...), c.exec, c.counts)
}

// Use adds a middleware to the executor chain.
func (c *Client) Use(mw executor.Middleware) {
	c.exec.Use(mw)
}

// Connect verifies the connection
func (c *Client) Connect(ctx context.Context) error {
	return c.db.PingContext(ctx)
}

// Close releases cached statements and closes the pool.
func (c *Client) Close() error {
	return errors.Join(c.exec.Close(), c.db.Close())
}

// DB returns the underlying database connection
func (c *Client) DB() *sql.DB {
	return c.db
}

// Provider returns the provider name the client was created with.
func (c *Client) Provider() string {
	return c.provider
}

// Dialect returns the pagination dialect.
func (c *Client) Dialect() sqlgen.Dialect {
	return c.dialect
}

// Executor returns the client's executor.
func (c *Client) Executor() *executor.Executor {
	return c.exec
}
