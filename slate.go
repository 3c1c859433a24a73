// Package slate provides an immutable, typed, in-memory tabular data engine.
// This package is the sole public API for the library.
package slate

import (
	"io"
	"time"

	"github.com/google/uuid"
	"github.com/paveg/slate/internal/aggregations"
	"github.com/paveg/slate/internal/computations"
	"github.com/paveg/slate/internal/config"
	"github.com/paveg/slate/internal/datatypes"
	"github.com/paveg/slate/internal/monitoring"
	"github.com/paveg/slate/internal/table"
	"github.com/paveg/slate/internal/trace"
	"github.com/rickb777/date/v2"
	"github.com/shopspring/decimal"
	"golang.org/x/text/language"
)

// DataType describes a column type: testing raw values during inference,
// casting raw values to canonical cell values, comparing and formatting them.
type DataType = datatypes.DataType

// TypeTester infers column types from raw sample values.
type TypeTester = datatypes.TypeTester

// NewTypeTester creates a tester over the given types, tried in order.
// With no arguments the default order is used: Boolean, Number, TimeDelta,
// Date, DateTime, Text.
func NewTypeTester(types ...DataType) *TypeTester {
	return datatypes.NewTypeTester(types...)
}

// Type construction options, re-exported so callers can configure
// parsing without importing internal packages.
type (
	BooleanOption   = datatypes.BooleanOption
	NumberOption    = datatypes.NumberOption
	TextOption      = datatypes.TextOption
	DateOption      = datatypes.DateOption
	DateTimeOption  = datatypes.DateTimeOption
	TimeDeltaOption = datatypes.TimeDeltaOption
)

// NewBoolean creates a Boolean type.
func NewBoolean(opts ...BooleanOption) DataType { return datatypes.NewBoolean(opts...) }

// NewNumber creates a Number type backed by arbitrary-precision decimals.
func NewNumber(opts ...NumberOption) DataType { return datatypes.NewNumber(opts...) }

// NewText creates a Text type.
func NewText(opts ...TextOption) DataType { return datatypes.NewText(opts...) }

// NewDate creates a calendar Date type.
func NewDate(opts ...DateOption) DataType { return datatypes.NewDate(opts...) }

// NewDateTime creates a DateTime type.
func NewDateTime(opts ...DateTimeOption) DataType { return datatypes.NewDateTime(opts...) }

// NewTimeDelta creates a duration type.
func NewTimeDelta(opts ...TimeDeltaOption) DataType { return datatypes.NewTimeDelta(opts...) }

// Parsing options.
var (
	WithTrueTokens          = datatypes.WithTrueTokens
	WithFalseTokens         = datatypes.WithFalseTokens
	WithBooleanNullTokens   = datatypes.WithBooleanNullTokens
	WithLocale              = datatypes.WithLocale
	WithNumberNullTokens    = datatypes.WithNumberNullTokens
	WithTextNullTokens      = datatypes.WithTextNullTokens
	WithDateLayout          = datatypes.WithDateLayout
	WithDateNullTokens      = datatypes.WithDateNullTokens
	WithDateTimeLayout      = datatypes.WithDateTimeLayout
	WithLocation            = datatypes.WithLocation
	WithDateTimeNullTokens  = datatypes.WithDateTimeNullTokens
	WithTimeDeltaNullTokens = datatypes.WithTimeDeltaNullTokens
)

// DefaultNullTokens returns the raw strings treated as null by default.
func DefaultNullTokens() []string { return datatypes.DefaultNullTokens() }

// ColumnSpec names a column and its type.
type ColumnSpec = table.ColumnSpec

// RawOption configures raw-value table construction.
type RawOption = table.RawOption

// WithTypeTester overrides the tester used for type inference.
func WithTypeTester(tt *TypeTester) RawOption { return table.WithTypeTester(tt) }

// WithSampleSize overrides the number of rows sampled during inference.
func WithSampleSize(n int) RawOption { return table.WithSampleSize(n) }

// Comparer orders two cell values.
type Comparer = table.Comparer

// KeyFunc derives a grouping or ordering key from a row.
type KeyFunc func(Row) any

// Table is the public type for an immutable table of typed columns.
// All operations return new tables; a table never changes after creation.
type Table struct {
	t *table.Table
}

// TableSet is the public type for a keyed collection of tables produced
// by grouping. Nested sets arise from grouping a set again.
type TableSet struct {
	ts *table.TableSet
}

// Column is the public type for a typed view of one table column.
type Column struct {
	c *table.Column
}

// Row is the public type for a view of one table row.
type Row struct {
	r table.Row
}

// Aggregation reduces a table to a single value, keyed into the table's
// aggregation cache.
type Aggregation struct {
	agg table.Aggregation
}

// Name returns the aggregation's display name.
func (a Aggregation) Name() string { return a.agg.Name() }

// Computation derives one new column value per row of a table.
type Computation struct {
	comp table.Computation
}

// Name returns the computation's display name.
func (c Computation) Name() string { return c.comp.Name() }

// AggregateItem pairs an output column name with an aggregation.
type AggregateItem struct {
	Name        string
	Aggregation Aggregation
}

// ComputeItem pairs a new column name with the computation producing it.
type ComputeItem struct {
	Name        string
	Computation Computation
}

// NewTable creates a table from typed rows. Every cell must be a valid
// value of its column's type or null.
func NewTable(specs []ColumnSpec, rows [][]any) (*Table, error) {
	t, err := table.New(specs, rows)
	if err != nil {
		return nil, err
	}
	return &Table{t: t}, nil
}

// NewTableFromRaw creates a table from raw values, casting each cell with
// its column's type. Columns with a nil type are inferred from a sample.
func NewTableFromRaw(specs []ColumnSpec, raw [][]any, opts ...RawOption) (*Table, error) {
	t, err := table.NewFromRaw(specs, raw, opts...)
	if err != nil {
		return nil, err
	}
	return &Table{t: t}, nil
}

func wrapTable(t *table.Table) *Table {
	if t == nil {
		return nil
	}
	return &Table{t: t}
}

func wrapTableSet(ts *table.TableSet) *TableSet {
	if ts == nil {
		return nil
	}
	return &TableSet{ts: ts}
}

func (fn KeyFunc) internal() table.KeyFunc {
	if fn == nil {
		return nil
	}
	return func(r table.Row) any { return fn(Row{r: r}) }
}

func wrapPredicate(predicate func(Row) bool) func(table.Row) bool {
	return func(r table.Row) bool { return predicate(Row{r: r}) }
}

func internalAggregateItems(items []AggregateItem) []table.AggregateItem {
	out := make([]table.AggregateItem, len(items))
	for i, item := range items {
		out[i] = table.AggregateItem{Name: item.Name, Aggregation: item.Aggregation.agg}
	}
	return out
}

func internalComputeItems(items []ComputeItem) []table.ComputeItem {
	out := make([]table.ComputeItem, len(items))
	for i, item := range items {
		out[i] = table.ComputeItem{Name: item.Name, Computation: item.Computation.comp}
	}
	return out
}

// Table methods

// ID returns the table's unique identifier.
func (t *Table) ID() uuid.UUID {
	return t.t.ID()
}

// NumRows returns the number of rows.
func (t *Table) NumRows() int {
	return t.t.NumRows()
}

// NumColumns returns the number of columns.
func (t *Table) NumColumns() int {
	return t.t.NumColumns()
}

// Columns returns views of all columns in order.
func (t *Table) Columns() []*Column {
	internal := t.t.Columns()
	columns := make([]*Column, len(internal))
	for i, c := range internal {
		columns[i] = &Column{c: c}
	}
	return columns
}

// ColumnNames returns the column names in order.
func (t *Table) ColumnNames() []string {
	return t.t.ColumnNames()
}

// ColumnTypes returns the column types in order.
func (t *Table) ColumnTypes() []DataType {
	return t.t.ColumnTypes()
}

// Column returns the column with the given name.
func (t *Table) Column(name string) (*Column, error) {
	c, err := t.t.Column(name)
	if err != nil {
		return nil, err
	}
	return &Column{c: c}, nil
}

// HasColumn returns true if the table has the given column.
func (t *Table) HasColumn(name string) bool {
	return t.t.HasColumn(name)
}

// Row returns the row at the given index.
func (t *Table) Row(i int) (Row, error) {
	r, err := t.t.Row(i)
	if err != nil {
		return Row{}, err
	}
	return Row{r: r}, nil
}

// Rows returns views of all rows in order.
func (t *Table) Rows() []Row {
	internal := t.t.Rows()
	rows := make([]Row, len(internal))
	for i, r := range internal {
		rows[i] = Row{r: r}
	}
	return rows
}

// Each calls fn for every row in order, stopping at the first error.
func (t *Table) Each(fn func(Row) error) error {
	return t.t.Each(func(r table.Row) error { return fn(Row{r: r}) })
}

// Print writes an aligned preview of the table to w.
func (t *Table) Print(w io.Writer) error {
	return t.t.Print(w)
}

// Select returns a new table with only the named columns, in the given order.
func (t *Table) Select(names ...string) (*Table, error) {
	result, err := t.t.Select(names...)
	if err != nil {
		return nil, err
	}
	return wrapTable(result), nil
}

// Where returns a new table with the rows matching the predicate.
func (t *Table) Where(predicate func(Row) bool) *Table {
	return wrapTable(t.t.Where(wrapPredicate(predicate)))
}

// Limit returns a new table with at most the first n rows.
func (t *Table) Limit(n int) *Table {
	return wrapTable(t.t.Limit(n))
}

// Slice returns a new table with rows from start to stop (exclusive).
func (t *Table) Slice(start, stop int) *Table {
	return wrapTable(t.t.Slice(start, stop))
}

// Distinct returns a new table keeping the first occurrence of each
// distinct full row.
func (t *Table) Distinct() *Table {
	return wrapTable(t.t.Distinct())
}

// DistinctBy returns a new table keeping the first row for each distinct
// value of the named column.
func (t *Table) DistinctBy(column string) (*Table, error) {
	result, err := t.t.DistinctBy(column)
	if err != nil {
		return nil, err
	}
	return wrapTable(result), nil
}

// DistinctByKey returns a new table keeping the first row for each
// distinct key.
func (t *Table) DistinctByKey(key KeyFunc) *Table {
	return wrapTable(t.t.DistinctByKey(key.internal()))
}

// OrderBy returns a new table sorted by the named column. Nulls sort last
// in ascending order. The sort is stable.
func (t *Table) OrderBy(column string, desc bool) (*Table, error) {
	result, err := t.t.OrderBy(column, desc)
	if err != nil {
		return nil, err
	}
	return wrapTable(result), nil
}

// OrderByKey returns a new table sorted by the derived key.
func (t *Table) OrderByKey(key KeyFunc, desc bool) (*Table, error) {
	result, err := t.t.OrderByKey(key.internal(), desc)
	if err != nil {
		return nil, err
	}
	return wrapTable(result), nil
}

// OrderByComparer returns a new table sorted by the derived key using a
// custom comparer.
func (t *Table) OrderByComparer(key KeyFunc, cmp Comparer, desc bool) (*Table, error) {
	result, err := t.t.OrderByComparer(key.internal(), cmp, desc)
	if err != nil {
		return nil, err
	}
	return wrapTable(result), nil
}

// Rank returns competition ranks (1, 2, 2, 4) for each row ordered by the
// named column.
func (t *Table) Rank(column string, desc bool) ([]int, error) {
	return t.t.Rank(column, desc)
}

// RankByKey returns competition ranks for each row ordered by the derived key.
func (t *Table) RankByKey(key KeyFunc, desc bool) ([]int, error) {
	return t.t.RankByKey(key.internal(), desc)
}

// RankByComparer returns competition ranks using a custom comparer.
func (t *Table) RankByComparer(key KeyFunc, cmp Comparer, desc bool) ([]int, error) {
	return t.t.RankByComparer(key.internal(), cmp, desc)
}

// InnerJoin joins on equal values of the named key columns, keeping rows
// with a match on both sides. The right key column is dropped from the
// result. Null keys match null keys.
func (t *Table) InnerJoin(right *Table, leftKey, rightKey string) (*Table, error) {
	result, err := t.t.InnerJoin(right.t, leftKey, rightKey)
	if err != nil {
		return nil, err
	}
	return wrapTable(result), nil
}

// LeftOuterJoin joins on equal values of the named key columns, keeping
// every left row and null-filling right columns without a match.
func (t *Table) LeftOuterJoin(right *Table, leftKey, rightKey string) (*Table, error) {
	result, err := t.t.LeftOuterJoin(right.t, leftKey, rightKey)
	if err != nil {
		return nil, err
	}
	return wrapTable(result), nil
}

// InnerJoinByKey joins on equal derived keys, keeping all right columns.
func (t *Table) InnerJoinByKey(right *Table, leftKey, rightKey KeyFunc) (*Table, error) {
	result, err := t.t.InnerJoinByKey(right.t, leftKey.internal(), rightKey.internal())
	if err != nil {
		return nil, err
	}
	return wrapTable(result), nil
}

// LeftOuterJoinByKey joins on equal derived keys, keeping every left row.
func (t *Table) LeftOuterJoinByKey(right *Table, leftKey, rightKey KeyFunc) (*Table, error) {
	result, err := t.t.LeftOuterJoinByKey(right.t, leftKey.internal(), rightKey.internal())
	if err != nil {
		return nil, err
	}
	return wrapTable(result), nil
}

// GroupBy partitions the table by the values of the named column,
// preserving first-appearance key order.
func (t *Table) GroupBy(column string) (*TableSet, error) {
	ts, err := t.t.GroupBy(column)
	if err != nil {
		return nil, err
	}
	return wrapTableSet(ts), nil
}

// GroupByKey partitions the table by a derived key. A nil keyType groups
// under the Text type.
func (t *Table) GroupByKey(keyName string, keyType DataType, key KeyFunc) (*TableSet, error) {
	ts, err := t.t.GroupByKey(keyName, keyType, key.internal())
	if err != nil {
		return nil, err
	}
	return wrapTableSet(ts), nil
}

// Aggregate runs an aggregation against the table, caching the result so
// repeated aggregations compute once.
func (t *Table) Aggregate(agg Aggregation) (any, error) {
	return t.t.Aggregate(agg.agg)
}

// Compute returns a new table with one appended column per item. Items
// run in order, so later computations see the columns added by earlier ones.
func (t *Table) Compute(items ...ComputeItem) (*Table, error) {
	result, err := t.t.Compute(internalComputeItems(items)...)
	if err != nil {
		return nil, err
	}
	return wrapTable(result), nil
}

// StdevOutliers returns the rows whose value in the named column lies
// within (reject=false) or beyond (reject=true) the given number of
// standard deviations from the mean. Null rows stay with the inliers.
func (t *Table) StdevOutliers(column string, deviations int, reject bool) (*Table, error) {
	result, err := aggregations.StdevOutliers(t.t, column, deviations, reject)
	if err != nil {
		return nil, err
	}
	return wrapTable(result), nil
}

// MADOutliers is like StdevOutliers using the median absolute deviation,
// which tolerates extreme values better than the standard deviation.
func (t *Table) MADOutliers(column string, deviations int, reject bool) (*Table, error) {
	result, err := aggregations.MADOutliers(t.t, column, deviations, reject)
	if err != nil {
		return nil, err
	}
	return wrapTable(result), nil
}

// Column methods

// Name returns the column name.
func (c *Column) Name() string { return c.c.Name() }

// Index returns the column's position in its table.
func (c *Column) Index() int { return c.c.Index() }

// DataType returns the column's type.
func (c *Column) DataType() DataType { return c.c.DataType() }

// Table returns the table the column belongs to.
func (c *Column) Table() *Table { return wrapTable(c.c.Table()) }

// Value returns the cell at the given row.
func (c *Column) Value(row int) (any, error) { return c.c.Value(row) }

// Values returns all cells in row order, nulls included.
func (c *Column) Values() []any { return c.c.Values() }

// NonNullValues returns all non-null cells in row order.
func (c *Column) NonNullValues() []any { return c.c.NonNullValues() }

// NullCount returns the number of null cells.
func (c *Column) NullCount() int { return c.c.NullCount() }

// Row methods

// Index returns the row's position in its table.
func (r Row) Index() int { return r.r.Index() }

// Table returns the table the row belongs to.
func (r Row) Table() *Table { return wrapTable(r.r.Table()) }

// Cells returns the row's values in column order. The returned slice is
// shared and must not be modified.
func (r Row) Cells() []any { return r.r.Cells() }

// Value returns the cell in the named column.
func (r Row) Value(column string) (any, error) { return r.r.Value(column) }

// IsNull returns true if the cell in the named column is null or the
// column does not exist.
func (r Row) IsNull(column string) bool { return r.r.IsNull(column) }

// Bool returns the named Boolean cell, or false when null or absent.
func (r Row) Bool(column string) bool { return r.r.Bool(column) }

// Number returns the named Number cell, or zero when null or absent.
func (r Row) Number(column string) decimal.Decimal { return r.r.Number(column) }

// Text returns the named Text cell, or "" when null or absent.
func (r Row) Text(column string) string { return r.r.Text(column) }

// Date returns the named Date cell, or the zero date when null or absent.
func (r Row) Date(column string) date.Date { return r.r.Date(column) }

// DateTime returns the named DateTime cell, or the zero time when null
// or absent.
func (r Row) DateTime(column string) time.Time { return r.r.DateTime(column) }

// Duration returns the named TimeDelta cell, or zero when null or absent.
func (r Row) Duration(column string) time.Duration { return r.r.Duration(column) }

// TableSet methods

// KeyName returns the name of the grouping key.
func (ts *TableSet) KeyName() string { return ts.ts.KeyName() }

// KeyType returns the type of the grouping key.
func (ts *TableSet) KeyType() DataType { return ts.ts.KeyType() }

// Len returns the number of groups.
func (ts *TableSet) Len() int { return ts.ts.Len() }

// Keys returns the group keys in first-appearance order.
func (ts *TableSet) Keys() []any { return ts.ts.Keys() }

// Nested returns true if the members are table sets rather than tables.
func (ts *TableSet) Nested() bool { return ts.ts.Nested() }

// Table returns the member table for the given key. It returns false for
// unknown keys and for nested sets.
func (ts *TableSet) Table(key any) (*Table, bool) {
	t, ok := ts.ts.Table(key)
	if !ok {
		return nil, false
	}
	return wrapTable(t), true
}

// Set returns the nested member set for the given key.
func (ts *TableSet) Set(key any) (*TableSet, bool) {
	inner, ok := ts.ts.Set(key)
	if !ok {
		return nil, false
	}
	return wrapTableSet(inner), true
}

// Each calls fn for every leaf table with its full key path, outermost
// key first.
func (ts *TableSet) Each(fn func(keys []any, t *Table) error) error {
	return ts.ts.Each(func(keys []any, t *table.Table) error {
		return fn(keys, wrapTable(t))
	})
}

// ColumnNames returns the member tables' column names.
func (ts *TableSet) ColumnNames() []string { return ts.ts.ColumnNames() }

// ColumnTypes returns the member tables' column types.
func (ts *TableSet) ColumnTypes() []DataType { return ts.ts.ColumnTypes() }

// GroupBy groups every member table by the named column, producing a
// nested set.
func (ts *TableSet) GroupBy(column string) (*TableSet, error) {
	result, err := ts.ts.GroupBy(column)
	if err != nil {
		return nil, err
	}
	return wrapTableSet(result), nil
}

// Aggregate reduces the set to a single table with one row per leaf: the
// group key columns followed by one column per aggregation.
func (ts *TableSet) Aggregate(items ...AggregateItem) (*Table, error) {
	result, err := ts.ts.Aggregate(internalAggregateItems(items)...)
	if err != nil {
		return nil, err
	}
	return wrapTable(result), nil
}

// Select applies Select to every member table.
func (ts *TableSet) Select(names ...string) (*TableSet, error) {
	result, err := ts.ts.Select(names...)
	if err != nil {
		return nil, err
	}
	return wrapTableSet(result), nil
}

// Where applies Where to every member table.
func (ts *TableSet) Where(predicate func(Row) bool) (*TableSet, error) {
	result, err := ts.ts.Where(wrapPredicate(predicate))
	if err != nil {
		return nil, err
	}
	return wrapTableSet(result), nil
}

// OrderBy applies OrderBy to every member table.
func (ts *TableSet) OrderBy(column string, desc bool) (*TableSet, error) {
	result, err := ts.ts.OrderBy(column, desc)
	if err != nil {
		return nil, err
	}
	return wrapTableSet(result), nil
}

// Limit applies Limit to every member table.
func (ts *TableSet) Limit(n int) (*TableSet, error) {
	result, err := ts.ts.Limit(n)
	if err != nil {
		return nil, err
	}
	return wrapTableSet(result), nil
}

// Distinct applies Distinct to every member table.
func (ts *TableSet) Distinct() (*TableSet, error) {
	result, err := ts.ts.Distinct()
	if err != nil {
		return nil, err
	}
	return wrapTableSet(result), nil
}

// Compute applies Compute to every member table.
func (ts *TableSet) Compute(items ...ComputeItem) (*TableSet, error) {
	result, err := ts.ts.Compute(internalComputeItems(items)...)
	if err != nil {
		return nil, err
	}
	return wrapTableSet(result), nil
}

// Aggregations

// Named wraps an aggregation under a different display and cache name.
func Named(name string, agg Aggregation) Aggregation {
	return Aggregation{agg: aggregations.Named(name, agg.agg)}
}

// Sum sums a Number column. An empty or all-null column sums to zero.
func Sum(column string) Aggregation {
	return Aggregation{agg: aggregations.Sum(column)}
}

// Mean averages a Number column.
func Mean(column string) Aggregation {
	return Aggregation{agg: aggregations.Mean(column)}
}

// Median returns the 50th percentile of a Number column.
func Median(column string) Aggregation {
	return Aggregation{agg: aggregations.Median(column)}
}

// Mode returns the most frequent non-null value of a column of any type,
// keeping the first-seen value on ties.
func Mode(column string) Aggregation {
	return Aggregation{agg: aggregations.Mode(column)}
}

// Min returns the smallest non-null value of a Number, Date, DateTime or
// TimeDelta column.
func Min(column string) Aggregation {
	return Aggregation{agg: aggregations.Min(column)}
}

// Max returns the largest non-null value of a Number, Date, DateTime or
// TimeDelta column.
func Max(column string) Aggregation {
	return Aggregation{agg: aggregations.Max(column)}
}

// Length counts all rows, nulls included.
func Length() Aggregation {
	return Aggregation{agg: aggregations.Length()}
}

// Count counts the non-null values of a column.
func Count(column string) Aggregation {
	return Aggregation{agg: aggregations.Count(column)}
}

// Variance returns the sample variance of a Number column.
func Variance(column string) Aggregation {
	return Aggregation{agg: aggregations.Variance(column)}
}

// PopulationVariance returns the population variance of a Number column.
func PopulationVariance(column string) Aggregation {
	return Aggregation{agg: aggregations.PopulationVariance(column)}
}

// StDev returns the sample standard deviation of a Number column.
func StDev(column string) Aggregation {
	return Aggregation{agg: aggregations.StDev(column)}
}

// PopulationStDev returns the population standard deviation of a Number column.
func PopulationStDev(column string) Aggregation {
	return Aggregation{agg: aggregations.PopulationStDev(column)}
}

// MAD returns the median absolute deviation of a Number column.
func MAD(column string) Aggregation {
	return Aggregation{agg: aggregations.MAD(column)}
}

// PearsonCorrelation returns the correlation between two Number columns,
// computed over rows where both are non-null.
func PearsonCorrelation(xColumn, yColumn string) Aggregation {
	return Aggregation{agg: aggregations.PearsonCorrelation(xColumn, yColumn)}
}

// Quantiles holds the crossing points dividing a column into intervals
// of equal row count. Aggregating NewQuantiles yields a *Quantiles.
type Quantiles = aggregations.Quantiles

// NewQuantiles divides a Number column into count intervals and returns
// the crossing points as a *Quantiles.
func NewQuantiles(column string, count int) Aggregation {
	return Aggregation{agg: aggregations.NewQuantiles(column, count)}
}

// Quartiles divides a Number column into four intervals.
func Quartiles(column string) Aggregation {
	return Aggregation{agg: aggregations.Quartiles(column)}
}

// Quintiles divides a Number column into five intervals.
func Quintiles(column string) Aggregation {
	return Aggregation{agg: aggregations.Quintiles(column)}
}

// Deciles divides a Number column into ten intervals.
func Deciles(column string) Aggregation {
	return Aggregation{agg: aggregations.Deciles(column)}
}

// Percentiles divides a Number column into one hundred intervals.
func Percentiles(column string) Aggregation {
	return Aggregation{agg: aggregations.Percentiles(column)}
}

// Percentile returns the pth percentile (0 to 100) of a Number column.
func Percentile(column string, p int) Aggregation {
	return Aggregation{agg: aggregations.Percentile(column, p)}
}

// IQR returns the interquartile range of a Number column.
func IQR(column string) Aggregation {
	return Aggregation{agg: aggregations.IQR(column)}
}

// Computations

// Change computes after minus before for two Number or temporal columns.
// Temporal differences are TimeDelta values.
func Change(before, after string) Computation {
	return Computation{comp: computations.Change(before, after)}
}

// PercentChange computes the change from before to after as a percentage
// of before.
func PercentChange(before, after string) Computation {
	return Computation{comp: computations.PercentChange(before, after)}
}

// RowPercentChange computes each row's percent change from the previous
// row of a Number column. The first row is null.
func RowPercentChange(column string) Computation {
	return Computation{comp: computations.RowPercentChange(column)}
}

// Ranks computes each row's competition rank ordered by the named column.
func Ranks(column string, desc bool) Computation {
	return Computation{comp: computations.Rank(column, desc)}
}

// RanksByKey computes competition ranks ordered by a derived key.
func RanksByKey(key KeyFunc, desc bool) Computation {
	return Computation{comp: computations.RankByKey(key.internal(), desc)}
}

// RanksByComparer computes competition ranks using a custom comparer.
func RanksByComparer(key KeyFunc, cmp Comparer, desc bool) Computation {
	return Computation{comp: computations.RankByComparer(key.internal(), cmp, desc)}
}

// ZScores computes each row's distance from the column mean in sample
// standard deviations.
func ZScores(column string) Computation {
	return Computation{comp: computations.ZScores(column)}
}

// PercentileRank computes the percentile each row's value falls into.
func PercentileRank(column string) Computation {
	return Computation{comp: computations.PercentileRank(column)}
}

// Configuration and observability

// Config holds the library's performance and debugging knobs.
type Config = config.Config

// NewConfig returns a config populated with defaults.
func NewConfig() Config { return config.NewConfig() }

// SetConfig installs the global configuration and reconfigures tracing
// and metrics collection to match.
func SetConfig(c Config) {
	config.SetGlobalConfig(c)
	trace.Configure(c.Debug)
	monitoring.Global().SetEnabled(c.MetricsCollection)
}

// GetConfig returns the current global configuration.
func GetConfig() Config { return config.GetGlobalConfig() }

// LoadConfigFromFile loads a JSON or YAML config file.
func LoadConfigFromFile(path string) (Config, error) { return config.LoadFromFile(path) }

// LoadConfigFromEnv builds a config from SLATE_* environment variables.
func LoadConfigFromEnv() Config { return config.LoadFromEnv() }

// MetricsSummary describes collected operation metrics and cache traffic.
type MetricsSummary = monitoring.MetricsSummary

// CacheStats counts aggregation cache hits and misses.
type CacheStats = monitoring.CacheStats

// Metrics returns a summary of collected metrics.
func Metrics() MetricsSummary { return monitoring.Global().GetSummary() }

// ResetMetrics clears all collected metrics.
func ResetMetrics() { monitoring.Global().Clear() }

// Locale returns the language tag for a BCP 47 string, for use with
// WithLocale. Invalid tags fall back to English.
func Locale(tag string) language.Tag {
	parsed, err := language.Parse(tag)
	if err != nil {
		return language.English
	}
	return parsed
}
