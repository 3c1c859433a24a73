package table

import (
	"fmt"

	"github.com/paveg/slate/internal/config"
	"github.com/paveg/slate/internal/datatypes"
	"github.com/paveg/slate/internal/errors"
	"github.com/paveg/slate/internal/parallel"
	"github.com/paveg/slate/internal/value"
)

// TableSet is an ordered mapping from group key to member table, all
// members sharing one column schema. A TableSet's members may themselves
// be TableSets, which is how multi-dimensional grouping nests.
type TableSet struct {
	keyName string
	keyType datatypes.DataType
	keys    []any
	byKey   map[string]int

	// Exactly one of tables and nested is populated.
	tables []*Table
	nested []*TableSet
}

// GroupBy partitions the table's rows into an ordered mapping from group
// key to sub-table, keyed by the named column. Group order follows first
// appearance. The key column's name and data type become the set's key
// name and key type. Member tables share row tuples with t.
func (t *Table) GroupBy(column string) (*TableSet, error) {
	ci, ok := t.byName[column]
	if !ok {
		return nil, errors.NewColumnDoesNotExistError("GroupBy", column)
	}
	col := t.columns[ci]
	return t.groupBy(col.name, col.dtype, func(r Row) any { return r.table.rows[r.index][ci] })
}

// GroupByKey partitions rows by an extracted key. keyType may be nil, in
// which case the key column of aggregated output defaults to Text.
func (t *Table) GroupByKey(keyName string, keyType datatypes.DataType, key KeyFunc) (*TableSet, error) {
	if keyType == nil {
		keyType = datatypes.NewText()
	}
	return t.groupBy(keyName, keyType, key)
}

func (t *Table) groupBy(keyName string, keyType datatypes.DataType, key KeyFunc) (*TableSet, error) {
	done := t.traceOp("GroupBy")
	ts := &TableSet{
		keyName: keyName,
		keyType: keyType,
		byKey:   make(map[string]int),
	}
	groups := make([][][]any, 0)
	for i := range t.rows {
		// Keys are normalized so native numerics from key functions become
		// canonical cell values in Keys() and in aggregated key columns.
		k := value.Normalize(key(Row{table: t, index: i}))
		enc := value.Key(k)
		gi, ok := ts.byKey[enc]
		if !ok {
			gi = len(ts.keys)
			ts.byKey[enc] = gi
			ts.keys = append(ts.keys, k)
			groups = append(groups, nil)
		}
		groups[gi] = append(groups[gi], t.rows[i])
	}
	ts.tables = make([]*Table, len(groups))
	for gi, rows := range groups {
		ts.tables[gi] = t.derive(rows)
	}
	done(len(ts.keys))
	return ts, nil
}

// KeyName returns the name of the grouping key.
func (ts *TableSet) KeyName() string { return ts.keyName }

// KeyType returns the data type of the grouping key.
func (ts *TableSet) KeyType() datatypes.DataType { return ts.keyType }

// Len returns the number of groups.
func (ts *TableSet) Len() int { return len(ts.keys) }

// Keys returns the group keys in order of first appearance.
func (ts *TableSet) Keys() []any {
	out := make([]any, len(ts.keys))
	copy(out, ts.keys)
	return out
}

// Nested reports whether the members are themselves TableSets.
func (ts *TableSet) Nested() bool { return ts.nested != nil }

// Table returns the member table for the given key. It reports false for
// unknown keys and for nested sets.
func (ts *TableSet) Table(key any) (*Table, bool) {
	gi, ok := ts.byKey[value.Key(key)]
	if !ok || ts.tables == nil {
		return nil, false
	}
	return ts.tables[gi], true
}

// Set returns the nested member set for the given key. It reports false
// for unknown keys and for leaf sets.
func (ts *TableSet) Set(key any) (*TableSet, bool) {
	gi, ok := ts.byKey[value.Key(key)]
	if !ok || ts.nested == nil {
		return nil, false
	}
	return ts.nested[gi], true
}

// Each calls fn for every leaf (key path, table) pair in order.
func (ts *TableSet) Each(fn func(keys []any, t *Table) error) error {
	return ts.each(nil, fn)
}

func (ts *TableSet) each(prefix []any, fn func([]any, *Table) error) error {
	for gi, k := range ts.keys {
		path := append(append([]any{}, prefix...), k)
		if ts.nested != nil {
			if err := ts.nested[gi].each(path, fn); err != nil {
				return err
			}
			continue
		}
		if err := fn(path, ts.tables[gi]); err != nil {
			return err
		}
	}
	return nil
}

// firstLeaf returns any leaf member table, used to resolve schemas.
func (ts *TableSet) firstLeaf() *Table {
	if len(ts.keys) == 0 {
		return nil
	}
	if ts.nested != nil {
		return ts.nested[0].firstLeaf()
	}
	return ts.tables[0]
}

// ColumnNames returns the shared member schema's column names.
func (ts *TableSet) ColumnNames() []string {
	leaf := ts.firstLeaf()
	if leaf == nil {
		return nil
	}
	return leaf.ColumnNames()
}

// ColumnTypes returns the shared member schema's column types.
func (ts *TableSet) ColumnTypes() []datatypes.DataType {
	leaf := ts.firstLeaf()
	if leaf == nil {
		return nil
	}
	return leaf.ColumnTypes()
}

// GroupBy groups every member by the named column, producing a TableSet
// of TableSets for multi-dimensional aggregation.
func (ts *TableSet) GroupBy(column string) (*TableSet, error) {
	nt := &TableSet{
		keyName: ts.keyName,
		keyType: ts.keyType,
		keys:    ts.Keys(),
		byKey:   ts.copyByKey(),
	}
	nt.nested = make([]*TableSet, len(ts.keys))
	for gi := range ts.keys {
		var (
			sub *TableSet
			err error
		)
		if ts.nested != nil {
			sub, err = ts.nested[gi].GroupBy(column)
		} else {
			sub, err = ts.tables[gi].GroupBy(column)
		}
		if err != nil {
			return nil, err
		}
		nt.nested[gi] = sub
	}
	return nt, nil
}

// AggregateItem names the output column for one aggregation; an empty
// Name uses the aggregation's own name.
type AggregateItem struct {
	Name        string
	Aggregation Aggregation
}

// Aggregate runs each aggregation against every member table, producing
// one output row per leaf group. The group key is the first column, named
// after the set's key name; nested sets contribute one key column per
// nesting level, outermost first. One output column per aggregation
// follows, named per item. No count column is implied; callers who want
// row counts request a Length aggregation explicitly. Sets with many
// groups aggregate their members on the worker pool; the output row
// order is identical to sequential evaluation.
func (ts *TableSet) Aggregate(items ...AggregateItem) (*Table, error) {
	leaf := ts.firstLeaf()
	if leaf == nil {
		return nil, errors.NewValidationError("Aggregate", "", "table set has no groups")
	}

	specs := ts.keyColumnSpecs(nil)
	for _, item := range items {
		if item.Aggregation == nil {
			return nil, errors.NewValidationError("Aggregate", item.Name, "nil aggregation")
		}
		dt, err := item.Aggregation.ResultType(leaf)
		if err != nil {
			return nil, err
		}
		specs = append(specs, ColumnSpec{Name: aggregateName(item), Type: dt})
	}

	type leafGroup struct {
		index  int
		keys   []any
		member *Table
	}
	var leaves []leafGroup
	_ = ts.Each(func(keys []any, member *Table) error {
		leaves = append(leaves, leafGroup{index: len(leaves), keys: keys, member: member})
		return nil
	})

	aggregateLeaf := func(lg leafGroup) ([]any, error) {
		row := make([]any, 0, len(specs))
		row = append(row, lg.keys...)
		for _, item := range items {
			v, err := lg.member.Aggregate(item.Aggregation)
			if err != nil {
				return nil, err
			}
			row = append(row, v)
		}
		return row, nil
	}

	type leafResult struct {
		index int
		row   []any
		err   error
	}

	rows := make([][]any, len(leaves))
	errs := make([]error, len(leaves))
	cfg := config.GetGlobalConfig()
	if len(leaves) >= cfg.ParallelThreshold {
		// Member tables are independent and every result carries its own
		// slot, so the groups can be aggregated in any order.
		wp := parallel.NewWorkerPool(cfg.WorkerPoolSize)
		defer wp.Close()
		for _, res := range parallel.Process(wp, leaves, func(lg leafGroup) leafResult {
			row, rerr := aggregateLeaf(lg)
			return leafResult{index: lg.index, row: row, err: rerr}
		}) {
			rows[res.index] = res.row
			errs[res.index] = res.err
		}
	} else {
		for _, lg := range leaves {
			rows[lg.index], errs[lg.index] = aggregateLeaf(lg)
		}
	}
	for _, err := range errs {
		if err != nil {
			return nil, err
		}
	}
	return New(specs, rows)
}

// keyColumnSpecs collects one key column spec per nesting level,
// outermost first. Duplicate level names get a positional suffix so the
// output table constructs cleanly.
func (ts *TableSet) keyColumnSpecs(seen []string) []ColumnSpec {
	name := ts.keyName
	for _, prior := range seen {
		if prior == name {
			name = fmt.Sprintf("%s_%d", name, len(seen))
			break
		}
	}
	specs := []ColumnSpec{{Name: name, Type: ts.keyType}}
	if ts.nested != nil && len(ts.nested) > 0 {
		specs = append(specs, ts.nested[0].keyColumnSpecs(append(seen, name))...)
	}
	return specs
}

func aggregateName(item AggregateItem) string {
	if item.Name != "" {
		return item.Name
	}
	return item.Aggregation.Name()
}

func (ts *TableSet) copyByKey() map[string]int {
	out := make(map[string]int, len(ts.byKey))
	for k, v := range ts.byKey {
		out[k] = v
	}
	return out
}

// The member-wise transforms below apply one table operation to every
// member and reassemble a set with the same keys, recursing through
// nested sets.

func (ts *TableSet) mapMembers(fn func(*Table) (*Table, error)) (*TableSet, error) {
	nt := &TableSet{
		keyName: ts.keyName,
		keyType: ts.keyType,
		keys:    ts.Keys(),
		byKey:   ts.copyByKey(),
	}
	if ts.nested != nil {
		nt.nested = make([]*TableSet, len(ts.nested))
		for gi, sub := range ts.nested {
			mapped, err := sub.mapMembers(fn)
			if err != nil {
				return nil, err
			}
			nt.nested[gi] = mapped
		}
		return nt, nil
	}
	nt.tables = make([]*Table, len(ts.tables))
	for gi, member := range ts.tables {
		mapped, err := fn(member)
		if err != nil {
			return nil, err
		}
		nt.tables[gi] = mapped
	}
	return nt, nil
}

// Select applies Table.Select to every member.
func (ts *TableSet) Select(names ...string) (*TableSet, error) {
	return ts.mapMembers(func(t *Table) (*Table, error) { return t.Select(names...) })
}

// Where applies Table.Where to every member.
func (ts *TableSet) Where(predicate func(Row) bool) (*TableSet, error) {
	return ts.mapMembers(func(t *Table) (*Table, error) { return t.Where(predicate), nil })
}

// OrderBy applies Table.OrderBy to every member.
func (ts *TableSet) OrderBy(column string, desc bool) (*TableSet, error) {
	return ts.mapMembers(func(t *Table) (*Table, error) { return t.OrderBy(column, desc) })
}

// Limit applies Table.Limit to every member.
func (ts *TableSet) Limit(n int) (*TableSet, error) {
	return ts.mapMembers(func(t *Table) (*Table, error) { return t.Limit(n), nil })
}

// Distinct applies Table.Distinct to every member.
func (ts *TableSet) Distinct() (*TableSet, error) {
	return ts.mapMembers(func(t *Table) (*Table, error) { return t.Distinct(), nil })
}

// Compute applies Table.Compute to every member.
func (ts *TableSet) Compute(items ...ComputeItem) (*TableSet, error) {
	return ts.mapMembers(func(t *Table) (*Table, error) { return t.Compute(items...) })
}
