// Package table implements the immutable table core: typed columns, row
// views, construction with casting and type inference, transformations,
// joins, grouping and the cached aggregation entry point. A Table is never
// mutated after construction; every transformation returns a new Table.
// Non-destructive operations share the backing row tuples with their
// parent, operations that produce different cell values allocate fresh
// tuples. Immutability is what makes both the sharing and the per-table
// result cache safe.
package table

import (
	stderrors "errors"
	"fmt"
	"io"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/paveg/slate/internal/config"
	"github.com/paveg/slate/internal/datatypes"
	"github.com/paveg/slate/internal/errors"
	"github.com/paveg/slate/internal/monitoring"
	"github.com/paveg/slate/internal/trace"
	"github.com/paveg/slate/internal/value"
)

// ColumnSpec pairs a column name with its data type. A nil Type in the
// raw construction path requests inference for that column.
type ColumnSpec struct {
	Name string
	Type datatypes.DataType
}

// KeyFunc extracts a grouping, ordering or join key from a row.
type KeyFunc func(Row) any

// Table is an immutable, schema-consistent collection of rows and typed
// columns.
type Table struct {
	id      uuid.UUID
	columns []*Column
	byName  map[string]int
	rows    [][]any

	cacheMu sync.Mutex
	cache   map[string]any
}

// New constructs a Table from already-typed rows. Every non-null cell must
// be a valid value of its column's data type; values from application code
// bypass casting and are validated, never coerced.
func New(specs []ColumnSpec, rows [][]any) (*Table, error) {
	t, err := newTable(specs)
	if err != nil {
		return nil, err
	}
	for i, row := range rows {
		if err := t.validateRow(i, row); err != nil {
			return nil, err
		}
	}
	t.rows = rows
	return t, nil
}

// RawOption configures the raw construction path.
type RawOption func(*rawConfig)

type rawConfig struct {
	tester     *datatypes.TypeTester
	sampleSize int
}

// WithTypeTester supplies a custom candidate ordering for type inference.
func WithTypeTester(tt *datatypes.TypeTester) RawOption {
	return func(rc *rawConfig) { rc.tester = tt }
}

// WithSampleSize overrides the number of rows sampled per column during
// inference. Zero samples every row.
func WithSampleSize(n int) RawOption {
	return func(rc *rawConfig) { rc.sampleSize = n }
}

// NewFromRaw constructs a Table by casting raw cell values (strings or
// native scalars) column by column. Columns whose spec carries a nil Type
// are inferred by the TypeTester from a sample of rows; a forced (non-nil)
// type is never probed, and a cast failure under a forced type is a hard
// error, not a fallback to inference.
func NewFromRaw(specs []ColumnSpec, raw [][]any, opts ...RawOption) (*Table, error) {
	rc := rawConfig{sampleSize: config.GetGlobalConfig().InferenceSampleSize}
	for _, opt := range opts {
		opt(&rc)
	}
	if rc.tester == nil {
		rc.tester = datatypes.NewTypeTester()
	}

	resolved := make([]ColumnSpec, len(specs))
	for ci, spec := range specs {
		dt := spec.Type
		if dt == nil {
			dt = rc.tester.Infer(columnSample(raw, ci, rc.sampleSize))
		}
		resolved[ci] = ColumnSpec{Name: spec.Name, Type: dt}
	}

	t, err := newTable(resolved)
	if err != nil {
		return nil, err
	}

	// Casting always allocates fresh tuples; raw input is never aliased.
	rows := make([][]any, len(raw))
	for ri, rawRow := range raw {
		if len(rawRow) != len(resolved) {
			return nil, errors.NewValidationError("NewFromRaw", "",
				fmt.Sprintf("row %d has %d cells, want %d", ri, len(rawRow), len(resolved)))
		}
		row := make([]any, len(rawRow))
		for ci, cell := range rawRow {
			v, err := resolved[ci].Type.Cast(cell)
			if err != nil {
				var castErr *errors.CastError
				if stderrors.As(err, &castErr) {
					return nil, castErr.WithContext(resolved[ci].Name, ri)
				}
				return nil, err
			}
			row[ci] = v
		}
		rows[ri] = row
	}
	t.rows = rows
	return t, nil
}

// columnSample collects up to limit raw values from one column position.
func columnSample(raw [][]any, ci, limit int) []any {
	n := len(raw)
	if limit > 0 && limit < n {
		n = limit
	}
	sample := make([]any, 0, n)
	for ri := 0; ri < n; ri++ {
		if ci < len(raw[ri]) {
			sample = append(sample, raw[ri][ci])
		}
	}
	return sample
}

// newTable builds a rowless table, validating name uniqueness.
func newTable(specs []ColumnSpec) (*Table, error) {
	t := &Table{
		id:     uuid.New(),
		byName: make(map[string]int, len(specs)),
		cache:  make(map[string]any),
	}
	t.columns = make([]*Column, len(specs))
	for i, spec := range specs {
		if spec.Type == nil {
			return nil, errors.NewValidationError("NewTable", spec.Name, "column has no data type")
		}
		if _, dup := t.byName[spec.Name]; dup {
			return nil, errors.NewDuplicateColumnNameError(spec.Name)
		}
		t.byName[spec.Name] = i
		t.columns[i] = &Column{name: spec.Name, index: i, dtype: spec.Type, table: t}
	}
	return t, nil
}

func (t *Table) validateRow(ri int, row []any) error {
	if len(row) != len(t.columns) {
		return errors.NewValidationError("NewTable", "",
			fmt.Sprintf("row %d has %d cells, want %d", ri, len(row), len(t.columns)))
	}
	for ci, cell := range row {
		col := t.columns[ci]
		if !col.dtype.ValidValue(cell) {
			return errors.NewTypeMismatchError("NewTable", col.name, col.dtype.Name(), value.TypeName(cell))
		}
	}
	return nil
}

// derive builds a new Table over the given row tuples with fresh Column
// wrappers cloned from t's schema. Columns are exclusively owned by one
// table, so wrappers are never shared even when the tuples are.
func (t *Table) derive(rows [][]any) *Table {
	nt := &Table{
		id:     uuid.New(),
		byName: make(map[string]int, len(t.columns)),
		rows:   rows,
		cache:  make(map[string]any),
	}
	nt.columns = make([]*Column, len(t.columns))
	for i, c := range t.columns {
		nt.byName[c.name] = i
		nt.columns[i] = &Column{name: c.name, index: i, dtype: c.dtype, table: nt}
	}
	return nt
}

// ID returns the table's unique identity, used for trace correlation.
func (t *Table) ID() uuid.UUID { return t.id }

// NumRows returns the number of rows.
func (t *Table) NumRows() int { return len(t.rows) }

// NumColumns returns the number of columns.
func (t *Table) NumColumns() int { return len(t.columns) }

// Columns returns the table's columns in order.
func (t *Table) Columns() []*Column {
	out := make([]*Column, len(t.columns))
	copy(out, t.columns)
	return out
}

// ColumnNames returns the column names in order.
func (t *Table) ColumnNames() []string {
	names := make([]string, len(t.columns))
	for i, c := range t.columns {
		names[i] = c.name
	}
	return names
}

// ColumnTypes returns the column data types in order.
func (t *Table) ColumnTypes() []datatypes.DataType {
	types := make([]datatypes.DataType, len(t.columns))
	for i, c := range t.columns {
		types[i] = c.dtype
	}
	return types
}

// Column returns the named column.
func (t *Table) Column(name string) (*Column, error) {
	i, ok := t.byName[name]
	if !ok {
		return nil, errors.NewColumnDoesNotExistError("Column", name)
	}
	return t.columns[i], nil
}

// HasColumn reports whether the table has a column with the given name.
func (t *Table) HasColumn(name string) bool {
	_, ok := t.byName[name]
	return ok
}

// Row returns the row view at the given index.
func (t *Table) Row(i int) (Row, error) {
	if i < 0 || i >= len(t.rows) {
		return Row{}, errors.NewRowDoesNotExistError("Row", i, len(t.rows))
	}
	return Row{table: t, index: i}, nil
}

// Rows returns row views over every row in order. The views are cheap;
// iterating them is restartable because the table never changes.
func (t *Table) Rows() []Row {
	rows := make([]Row, len(t.rows))
	for i := range t.rows {
		rows[i] = Row{table: t, index: i}
	}
	return rows
}

// Each calls fn for every row in order, stopping at the first error.
func (t *Table) Each(fn func(Row) error) error {
	for i := range t.rows {
		if err := fn(Row{table: t, index: i}); err != nil {
			return err
		}
	}
	return nil
}

// cached returns a previously stored operation result.
func (t *Table) cached(key string) (any, bool) {
	v, ok := t.cache[key]
	return v, ok
}

// Print writes an aligned text preview of the table, a debugging aid
// rather than a formatting layer.
func (t *Table) Print(w io.Writer) error {
	widths := make([]int, len(t.columns))
	header := make([]string, len(t.columns))
	for i, c := range t.columns {
		header[i] = fmt.Sprintf("%s (%s)", c.name, c.dtype.Name())
		widths[i] = len(header[i])
	}
	cells := make([][]string, len(t.rows))
	for ri, row := range t.rows {
		cells[ri] = make([]string, len(t.columns))
		for ci, cell := range row {
			s := t.columns[ci].dtype.Format(cell)
			if cell == nil {
				s = "<null>"
			}
			cells[ri][ci] = s
			if len(s) > widths[ci] {
				widths[ci] = len(s)
			}
		}
	}
	writeLine := func(parts []string) error {
		var sb strings.Builder
		for i, p := range parts {
			if i > 0 {
				sb.WriteString("  ")
			}
			sb.WriteString(p)
			sb.WriteString(strings.Repeat(" ", widths[i]-len(p)))
		}
		_, err := fmt.Fprintln(w, strings.TrimRight(sb.String(), " "))
		return err
	}
	if err := writeLine(header); err != nil {
		return err
	}
	for _, row := range cells {
		if err := writeLine(row); err != nil {
			return err
		}
	}
	_, err := fmt.Fprintf(w, "%d rows\n", len(t.rows))
	return err
}

// traceOp instruments a transformation for debug logging and metrics.
func (t *Table) traceOp(op string) func(int) {
	done := trace.Op(op, t.id, len(t.rows))
	mc := monitoring.Global()
	if !mc.IsEnabled() {
		return done
	}
	start := time.Now()
	return func(outRows int) {
		mc.Record(op, int64(outRows), time.Since(start))
		done(outRows)
	}
}
