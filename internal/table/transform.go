package table

import (
	"github.com/paveg/slate/internal/common"
	"github.com/paveg/slate/internal/config"
	"github.com/paveg/slate/internal/errors"
	"github.com/paveg/slate/internal/parallel"
	"github.com/paveg/slate/internal/value"
)

// Select returns a new table restricted to the named columns, in the
// requested order. Selection narrows the tuples, so fresh tuples are
// allocated; the cell values themselves are immutable and carried over.
func (t *Table) Select(names ...string) (*Table, error) {
	done := t.traceOp("Select")
	indices := make([]int, len(names))
	specs := make([]ColumnSpec, len(names))
	for i, name := range names {
		ci, ok := t.byName[name]
		if !ok {
			return nil, errors.NewColumnDoesNotExistError("Select", name)
		}
		indices[i] = ci
		specs[i] = ColumnSpec{Name: name, Type: t.columns[ci].dtype}
	}

	nt, err := newTable(specs)
	if err != nil {
		return nil, err
	}
	rows := make([][]any, len(t.rows))
	for ri, row := range t.rows {
		nr := make([]any, len(indices))
		for i, ci := range indices {
			nr[i] = row[ci]
		}
		rows[ri] = nr
	}
	nt.rows = rows
	done(len(rows))
	return nt, nil
}

// Where returns a new table containing the rows for which the predicate
// reports true. The result shares row tuples with t. Large tables are
// evaluated on the worker pool in order-preserving chunks; the result is
// identical to sequential evaluation.
func (t *Table) Where(predicate func(Row) bool) *Table {
	done := t.traceOp("Where")

	var mask []bool
	cfg := config.GetGlobalConfig()
	if len(t.rows) >= cfg.ParallelThreshold {
		wp := parallel.NewWorkerPool(cfg.WorkerPoolSize)
		defer wp.Close()
		mask = parallel.ProcessIndexed(wp, t.Rows(), func(_ int, r Row) bool {
			return predicate(r)
		})
	} else {
		mask = make([]bool, len(t.rows))
		for i := range t.rows {
			mask[i] = predicate(Row{table: t, index: i})
		}
	}

	rows := make([][]any, 0, len(t.rows))
	for i, keep := range mask {
		if keep {
			rows = append(rows, t.rows[i])
		}
	}
	nt := t.derive(rows)
	done(len(rows))
	return nt
}

// Limit returns a new table containing the first n rows. It shares row
// tuples with t.
func (t *Table) Limit(n int) *Table {
	return t.Slice(0, n)
}

// Slice returns a new table containing rows in [start, stop). Bounds are
// clamped to the table. The result shares row tuples with t.
func (t *Table) Slice(start, stop int) *Table {
	done := t.traceOp("Slice")
	stop = common.Clamp(stop, 0, len(t.rows))
	start = common.Clamp(start, 0, stop)
	nt := t.derive(t.rows[start:stop])
	done(nt.NumRows())
	return nt
}

// Distinct returns a new table with duplicate rows removed by full-row
// equality. The first occurrence wins and original order is preserved.
func (t *Table) Distinct() *Table {
	return t.distinctBy(func(r Row) []any { return r.Cells() })
}

// DistinctBy returns a new table with duplicate rows removed by equality
// of the named column.
func (t *Table) DistinctBy(column string) (*Table, error) {
	ci, ok := t.byName[column]
	if !ok {
		return nil, errors.NewColumnDoesNotExistError("Distinct", column)
	}
	return t.distinctBy(func(r Row) []any { return []any{r.table.rows[r.index][ci]} }), nil
}

// DistinctByKey returns a new table with duplicate rows removed by
// equality of the extracted key.
func (t *Table) DistinctByKey(key KeyFunc) *Table {
	return t.distinctBy(func(r Row) []any { return []any{key(r)} })
}

// distinctBy deduplicates rows by the canonical encoding of their key
// values. The encoding is injective per value, so no equality confirm
// pass is needed. Shares row tuples.
func (t *Table) distinctBy(keyOf func(Row) []any) *Table {
	done := t.traceOp("Distinct")
	seen := make(map[string]struct{}, len(t.rows))
	rows := make([][]any, 0, len(t.rows))
	for i := range t.rows {
		k := value.Key(keyOf(Row{table: t, index: i})...)
		if _, dup := seen[k]; dup {
			continue
		}
		seen[k] = struct{}{}
		rows = append(rows, t.rows[i])
	}
	nt := t.derive(rows)
	done(len(rows))
	return nt
}
