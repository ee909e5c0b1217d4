package executor

import (
	"database/sql"
)

// WithTx returns an executor bound to tx that shares the middleware chain
// and bind style. Statements are not cached inside a transaction; the caller
// owns commit and rollback.
func (e *Executor) WithTx(tx *sql.Tx) *Executor {
	return &Executor{
		db:          tx,
		bind:        e.bind,
		middlewares: append([]Middleware(nil), e.middlewares...),
		stmtCache:   make(map[string]*sql.Stmt),
	}
}
