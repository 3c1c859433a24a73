package table

import (
	"github.com/paveg/slate/internal/errors"
	"github.com/paveg/slate/internal/value"
)

// InnerJoin joins t with right on equality of the named key columns,
// emitting one row per matching pair and dropping unmatched rows on both
// sides. The right key column is dropped from the output since it
// duplicates the left one.
func (t *Table) InnerJoin(right *Table, leftKey, rightKey string) (*Table, error) {
	return t.joinColumns(right, leftKey, rightKey, false)
}

// LeftOuterJoin joins t with right on equality of the named key columns,
// keeping every left row and filling right-side columns with null when no
// match exists.
func (t *Table) LeftOuterJoin(right *Table, leftKey, rightKey string) (*Table, error) {
	return t.joinColumns(right, leftKey, rightKey, true)
}

// InnerJoinByKey joins on equality of extracted keys. All right columns
// are kept, since no single column embodies the key.
func (t *Table) InnerJoinByKey(right *Table, leftKey, rightKey KeyFunc) (*Table, error) {
	return t.joinFuncs("InnerJoinByKey", right, leftKey, rightKey, false)
}

// LeftOuterJoinByKey joins on equality of extracted keys, keeping every
// left row.
func (t *Table) LeftOuterJoinByKey(right *Table, leftKey, rightKey KeyFunc) (*Table, error) {
	return t.joinFuncs("LeftOuterJoinByKey", right, leftKey, rightKey, true)
}

func (t *Table) joinColumns(right *Table, leftKey, rightKey string, outer bool) (*Table, error) {
	op := "InnerJoin"
	if outer {
		op = "LeftOuterJoin"
	}
	lci, ok := t.byName[leftKey]
	if !ok {
		return nil, errors.NewColumnDoesNotExistError(op, leftKey)
	}
	rci, ok := right.byName[rightKey]
	if !ok {
		return nil, errors.NewColumnDoesNotExistError(op, rightKey)
	}
	return t.join(op, right,
		func(r Row) any { return r.table.rows[r.index][lci] },
		func(r Row) any { return r.table.rows[r.index][rci] },
		rci, outer)
}

func (t *Table) joinFuncs(op string, right *Table, leftKey, rightKey KeyFunc, outer bool) (*Table, error) {
	return t.join(op, right, leftKey, rightKey, -1, outer)
}

// join is the shared hash-join core. The right table is indexed once,
// hashing each key's canonical encoding into buckets of row positions;
// candidate matches are confirmed by exact value equality so hash
// collisions cannot produce false pairs. Key equality is exact post-cast
// equality, and null keys match null keys. dropRight names a right column
// index excluded from the output (-1 keeps all).
func (t *Table) join(op string, right *Table, leftKey, rightKey KeyFunc, dropRight int, outer bool) (*Table, error) {
	done := t.traceOp(op)

	specs := make([]ColumnSpec, 0, len(t.columns)+len(right.columns))
	for _, c := range t.columns {
		specs = append(specs, ColumnSpec{Name: c.name, Type: c.dtype})
	}
	rightCols := make([]int, 0, len(right.columns))
	for ci, c := range right.columns {
		if ci == dropRight {
			continue
		}
		rightCols = append(rightCols, ci)
		specs = append(specs, ColumnSpec{Name: c.name, Type: c.dtype})
	}

	nt, err := newTable(specs)
	if err != nil {
		return nil, err
	}

	// Index the right side once; repeated key lookups stay O(1).
	rightKeys := make([]any, len(right.rows))
	index := make(map[uint64][]int, len(right.rows))
	for ri := range right.rows {
		k := rightKey(Row{table: right, index: ri})
		rightKeys[ri] = k
		h := value.Hash(k)
		index[h] = append(index[h], ri)
	}

	width := len(t.columns) + len(rightCols)
	rows := make([][]any, 0, len(t.rows))
	for li := range t.rows {
		k := leftKey(Row{table: t, index: li})
		matched := false
		for _, ri := range index[value.Hash(k)] {
			if !value.Equal(k, rightKeys[ri]) {
				continue
			}
			matched = true
			rows = append(rows, joinedRow(width, t.rows[li], right.rows[ri], rightCols))
		}
		if !matched && outer {
			rows = append(rows, joinedRow(width, t.rows[li], nil, rightCols))
		}
	}
	nt.rows = rows
	done(len(rows))
	return nt, nil
}

// joinedRow builds a fresh output tuple from a left row and an optional
// right row; a nil right row null-fills the right columns.
func joinedRow(width int, left, right []any, rightCols []int) []any {
	row := make([]any, 0, width)
	row = append(row, left...)
	for _, ci := range rightCols {
		if right == nil {
			row = append(row, nil)
		} else {
			row = append(row, right[ci])
		}
	}
	return row
}
