// Package trace provides debug-level operation logging for table
// operations. The logger is a no-op unless debug tracing is enabled, so
// instrumented call sites cost one atomic load on the hot path.
package trace

import (
	"sync"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

var (
	mu     sync.RWMutex
	logger = zap.NewNop()
)

// Configure installs the trace logger. With debug false the logger is a
// no-op. Configure is typically driven by config.Config.Debug.
func Configure(debug bool) {
	mu.Lock()
	defer mu.Unlock()
	if !debug {
		logger = zap.NewNop()
		return
	}
	l, err := zap.NewDevelopment()
	if err != nil {
		l = zap.NewNop()
	}
	logger = l
}

// SetLogger installs a caller-provided zap logger, replacing the default.
func SetLogger(l *zap.Logger) {
	mu.Lock()
	defer mu.Unlock()
	if l == nil {
		l = zap.NewNop()
	}
	logger = l
}

func current() *zap.Logger {
	mu.RLock()
	defer mu.RUnlock()
	return logger
}

// Op logs the start of a table operation and returns a completion func
// that logs the elapsed time and resulting row count. Usage:
//
//	done := trace.Op("Where", t.ID(), t.NumRows())
//	...
//	done(result.NumRows())
func Op(op string, tableID uuid.UUID, rows int) func(outRows int) {
	l := current()
	if l.Core().Enabled(zap.DebugLevel) {
		start := time.Now()
		return func(outRows int) {
			l.Debug("table operation",
				zap.String("op", op),
				zap.String("table", tableID.String()),
				zap.Int("rows_in", rows),
				zap.Int("rows_out", outRows),
				zap.Duration("elapsed", time.Since(start)),
			)
		}
	}
	return func(int) {}
}

// Event logs a one-off debug event with structured fields.
func Event(msg string, fields ...zap.Field) {
	current().Debug(msg, fields...)
}
