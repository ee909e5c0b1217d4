package client

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/satishbabariya/querykit/query"
	"github.com/satishbabariya/querykit/query/builder"
	"github.com/satishbabariya/querykit/query/cache"
	"github.com/satishbabariya/querykit/query/executor"
)

// txCountsSize bounds the counts a transaction remembers.
const txCountsSize = 64

// IsolationLevel represents transaction isolation levels
type IsolationLevel int

const (
	// ReadCommitted prevents dirty reads (default)
	ReadCommitted IsolationLevel = iota
	ReadUncommitted
	RepeatableRead
	Serializable
)

// ToSQLIsolationLevel converts IsolationLevel to sql.IsolationLevel
func (level IsolationLevel) ToSQLIsolationLevel() sql.IsolationLevel {
	switch level {
	case ReadUncommitted:
		return sql.LevelReadUncommitted
	case RepeatableRead:
		return sql.LevelRepeatableRead
	case Serializable:
		return sql.LevelSerializable
	default:
		return sql.LevelReadCommitted
	}
}

// Tx is a transaction whose sessions run on the transaction's connection.
// Counts read inside it are cached per transaction; the client's shared cache
// only sees the scopes it updated, invalidated once it commits.
type Tx struct {
	*sql.Tx
	client *Client
	exec   *executor.Executor
	counts *txCounts
	depth  int
}

// txCounts keeps uncommitted counts away from the shared cache.
type txCounts struct {
	local  *cache.LRU
	shared cache.Counts
	dirty  map[string]bool
}

func newTxCounts(shared cache.Counts) *txCounts {
	return &txCounts{
		local:  cache.NewLRU(txCountsSize, 0),
		shared: shared,
		dirty:  make(map[string]bool),
	}
}

func (c *txCounts) Get(scope string, q query.Query) (int64, bool) { return c.local.Get(scope, q) }

func (c *txCounts) Put(scope string, q query.Query, n int64) { c.local.Put(scope, q, n) }

func (c *txCounts) InvalidateScope(scope string) {
	c.local.InvalidateScope(scope)
	c.dirty[scope] = true
}

func (c *txCounts) Clear() { c.local.Clear() }

func (c *txCounts) Stats() cache.Stats { return c.local.Stats() }

// committed invalidates the updated scopes in the shared cache.
func (c *txCounts) committed() {
	if c.shared == nil {
		return
	}
	for scope := range c.dirty {
		c.shared.InvalidateScope(scope)
	}
}

// TransactionFunc is a function that runs within a transaction
type TransactionFunc func(tx *Tx) error

// NewSession starts a session bound to the transaction.
func (tx *Tx) NewSession(opts ...builder.Option) *Session {
	return newSession(builder.New(tx.client.dialect, opts...), tx.exec, tx.counts)
}

// Transaction runs fn in a transaction, committing when it returns nil and
// rolling back otherwise.
func (c *Client) Transaction(ctx context.Context, fn TransactionFunc) error {
	return c.TransactionWithOptions(ctx, nil, fn)
}

// TransactionWithIsolation executes a transaction with a specific isolation level
func (c *Client) TransactionWithIsolation(ctx context.Context, level IsolationLevel, readOnly bool, fn TransactionFunc) error {
	return c.TransactionWithOptions(ctx, &sql.TxOptions{Isolation: level.ToSQLIsolationLevel(), ReadOnly: readOnly}, fn)
}

// TransactionWithOptions executes a transaction with custom options
func (c *Client) TransactionWithOptions(ctx context.Context, opts *sql.TxOptions, fn TransactionFunc) error {
	sqlTx, err := c.db.BeginTx(ctx, opts)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	tx := &Tx{Tx: sqlTx, client: c, exec: c.exec.WithTx(sqlTx), counts: newTxCounts(c.counts)}

	defer func() {
		if p := recover(); p != nil {
			_ = tx.Rollback()
			panic(p)
		}
	}()

	if err := fn(tx); err != nil {
		if rbErr := tx.Rollback(); rbErr != nil {
			return fmt.Errorf("transaction error: %v, rollback error: %w", err, rbErr)
		}
		return err
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}
	tx.counts.committed()
	return nil
}

// NestedTransaction runs fn inside a savepoint of tx.
func (tx *Tx) NestedTransaction(ctx context.Context, fn TransactionFunc) error {
	tx.depth++
	defer func() { tx.depth-- }()
	savepoint := fmt.Sprintf("sp_%d", tx.depth)

	if _, err := tx.ExecContext(ctx, "SAVEPOINT "+savepoint); err != nil {
		return fmt.Errorf("failed to create savepoint: %w", err)
	}
	if err := fn(tx); err != nil {
		// Counts read after the savepoint may include rolled back rows.
		tx.counts.Clear()
		if _, rbErr := tx.ExecContext(ctx, "ROLLBACK TO SAVEPOINT "+savepoint); rbErr != nil {
			return fmt.Errorf("nested transaction error: %v, rollback error: %w", err, rbErr)
		}
		return err
	}
	if _, err := tx.ExecContext(ctx, "RELEASE SAVEPOINT "+savepoint); err != nil {
		return fmt.Errorf("failed to release savepoint: %w", err)
	}
	return nil
}
