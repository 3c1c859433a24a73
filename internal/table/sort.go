package table

import (
	"sort"

	"github.com/paveg/slate/internal/errors"
	"github.com/paveg/slate/internal/value"
)

// Comparer orders two key values. It returns a negative number, zero or a
// positive number, and an error when the values are not comparable.
type Comparer func(a, b any) (int, error)

// OrderBy returns a new table with rows stably sorted by the named
// column. Ties preserve original row order. Nulls order after every
// value; desc reverses the whole ordering, nulls included. The result
// shares row tuples with t.
func (t *Table) OrderBy(column string, desc bool) (*Table, error) {
	ci, ok := t.byName[column]
	if !ok {
		return nil, errors.NewColumnDoesNotExistError("OrderBy", column)
	}
	return t.orderBy("OrderBy", func(r Row) any { return r.table.rows[r.index][ci] }, value.CompareNullable, desc)
}

// OrderByKey returns a new table stably sorted by the extracted key.
func (t *Table) OrderByKey(key KeyFunc, desc bool) (*Table, error) {
	return t.orderBy("OrderByKey", key, value.CompareNullable, desc)
}

// OrderByComparer returns a new table stably sorted by the extracted key
// under a caller-supplied ordering.
func (t *Table) OrderByComparer(key KeyFunc, cmp Comparer, desc bool) (*Table, error) {
	return t.orderBy("OrderByComparer", key, cmp, desc)
}

func (t *Table) orderBy(op string, key KeyFunc, cmp Comparer, desc bool) (*Table, error) {
	done := t.traceOp(op)
	keys := make([]any, len(t.rows))
	for i := range t.rows {
		keys[i] = key(Row{table: t, index: i})
	}

	indices := make([]int, len(t.rows))
	for i := range indices {
		indices[i] = i
	}

	// sort.SliceStable cannot surface errors from the comparator, so the
	// first comparison failure is captured and unequal pairs after it are
	// treated as equal; the error is returned before any table is built.
	var cmpErr error
	sort.SliceStable(indices, func(a, b int) bool {
		c, err := cmp(keys[indices[a]], keys[indices[b]])
		if err != nil {
			if cmpErr == nil {
				cmpErr = err
			}
			return false
		}
		if desc {
			return c > 0
		}
		return c < 0
	})
	if cmpErr != nil {
		return nil, cmpErr
	}

	rows := make([][]any, len(t.rows))
	for i, idx := range indices {
		rows[i] = t.rows[idx]
	}
	nt := t.derive(rows)
	done(len(rows))
	return nt, nil
}

// Rank returns competition ranks for every row, ordered by the named
// column: tied values share a rank and the sequence skips the positions
// the tie consumed, so [10, 20, 20, 30] ranks [1, 2, 2, 4]. Ranks are
// aligned to the table's row order.
func (t *Table) Rank(column string, desc bool) ([]int, error) {
	ci, ok := t.byName[column]
	if !ok {
		return nil, errors.NewColumnDoesNotExistError("Rank", column)
	}
	return t.rank(func(r Row) any { return r.table.rows[r.index][ci] }, value.CompareNullable, desc)
}

// RankByKey returns competition ranks ordered by the extracted key.
func (t *Table) RankByKey(key KeyFunc, desc bool) ([]int, error) {
	return t.rank(key, value.CompareNullable, desc)
}

// RankByComparer returns competition ranks under a caller-supplied
// ordering. The ranking scheme stays competition ranking; only the order
// and tie definition change.
func (t *Table) RankByComparer(key KeyFunc, cmp Comparer, desc bool) ([]int, error) {
	return t.rank(key, cmp, desc)
}

func (t *Table) rank(key KeyFunc, cmp Comparer, desc bool) ([]int, error) {
	keys := make([]any, len(t.rows))
	for i := range t.rows {
		keys[i] = key(Row{table: t, index: i})
	}

	indices := make([]int, len(t.rows))
	for i := range indices {
		indices[i] = i
	}
	var cmpErr error
	sort.SliceStable(indices, func(a, b int) bool {
		c, err := cmp(keys[indices[a]], keys[indices[b]])
		if err != nil {
			if cmpErr == nil {
				cmpErr = err
			}
			return false
		}
		if desc {
			return c > 0
		}
		return c < 0
	})
	if cmpErr != nil {
		return nil, cmpErr
	}

	ranks := make([]int, len(t.rows))
	for pos, idx := range indices {
		if pos == 0 {
			ranks[idx] = 1
			continue
		}
		prev := indices[pos-1]
		c, err := cmp(keys[idx], keys[prev])
		if err != nil {
			return nil, err
		}
		if c == 0 {
			ranks[idx] = ranks[prev]
		} else {
			ranks[idx] = pos + 1
		}
	}
	return ranks, nil
}
