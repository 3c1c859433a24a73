package table

import (
	"github.com/paveg/slate/internal/datatypes"
	"github.com/paveg/slate/internal/monitoring"
)

// Aggregation reduces a table (usually one of its columns) to a single
// value. Implementations validate their inputs before running and report
// the data type of their result so TableSet aggregation can build typed
// output columns.
type Aggregation interface {
	// Name returns the default output column name.
	Name() string

	// CacheKey identifies the operation and its bound column(s) for the
	// per-table result cache. Two aggregations with equal cache keys must
	// produce equal results on the same table.
	CacheKey() string

	// ResultType returns the data type of the aggregation result for the
	// given table.
	ResultType(t *Table) (datatypes.DataType, error)

	// Validate fails fast when the aggregation cannot run against the
	// table, identifying the missing or mistyped column.
	Validate(t *Table) error

	// Run performs the reduction. It is called at most once per table and
	// cache key; callers go through Table.Aggregate for caching.
	Run(t *Table) (any, error)
}

// Aggregate validates and runs an aggregation against the table, caching
// the result under the aggregation's cache key. Because tables are
// immutable the cache is never invalidated: re-invoking the same
// aggregation returns the cached value without recomputing. The
// miss-then-populate sequence runs under the table's cache mutex, which
// makes concurrent aggregation of a shared table safe; implementations
// must therefore compute directly rather than re-entering Aggregate on
// the same table.
func (t *Table) Aggregate(agg Aggregation) (any, error) {
	if err := agg.Validate(t); err != nil {
		return nil, err
	}

	key := agg.CacheKey()
	t.cacheMu.Lock()
	defer t.cacheMu.Unlock()
	if v, ok := t.cache[key]; ok {
		monitoring.RecordCacheHit()
		return v, nil
	}
	monitoring.RecordCacheMiss()

	var v any
	err := monitoring.Global().RecordOperation("Aggregate", int64(len(t.rows)), func() error {
		var runErr error
		v, runErr = agg.Run(t)
		return runErr
	})
	if err != nil {
		return nil, err
	}
	t.cache[key] = v
	return v, nil
}
