package executor

import (
	"context"
	"log/slog"
	"time"

	"github.com/satishbabariya/querykit/internal/debug"
)

// QueryEvent describes one execution as it passes through the middleware chain.
type QueryEvent struct {
	// Op is one of query, scalar, column or update.
	Op    string
	Query string
	Args  []interface{}

	Start    time.Time
	End      time.Time
	Duration time.Duration
	// Rows is the number of rows read, or affected for updates.
	Rows  int64
	Error error
}

// Middleware intercepts an execution. It must call next exactly once.
type Middleware func(ctx context.Context, event *QueryEvent, next func() error) error

// LoggingMiddleware logs start, failure and completion of every statement.
// SQL literals are redacted.
func LoggingMiddleware(logger *slog.Logger) Middleware {
	if logger == nil {
		logger = debug.Logger()
	}
	return func(ctx context.Context, event *QueryEvent, next func() error) error {
		sqlText := debug.SanitizeSQL(event.Query)
		logger.DebugContext(ctx, "executing query", "op", event.Op, "sql", sqlText, "args", len(event.Args))
		err := next()
		if err != nil {
			logger.ErrorContext(ctx, "query failed", "op", event.Op, "sql", sqlText, "error", err)
			return err
		}
		logger.InfoContext(ctx, "query completed", "op", event.Op, "rows", event.Rows, "duration", event.Duration)
		return nil
	}
}

// TimingMiddleware reports the duration of every statement.
func TimingMiddleware(onTiming func(op, query string, d time.Duration)) Middleware {
	return func(ctx context.Context, event *QueryEvent, next func() error) error {
		err := next()
		if onTiming != nil {
			onTiming(event.Op, event.Query, event.Duration)
		}
		return err
	}
}
