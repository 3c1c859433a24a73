package table

import (
	"time"

	"github.com/rickb777/date/v2"
	"github.com/shopspring/decimal"

	"github.com/paveg/slate/internal/errors"
)

// Row is an ordered view over one row of a table, aligned to the table's
// column list. Rows are cheap value types; they never outlive the schema
// of the table they belong to.
type Row struct {
	table *Table
	index int
}

// Index returns the row's position in its table.
func (r Row) Index() int { return r.index }

// Table returns the table the row belongs to.
func (r Row) Table() *Table { return r.table }

// Cells returns the backing cell tuple. The tuple may be shared with
// other tables derived from the same data; callers must treat it as
// read-only.
func (r Row) Cells() []any {
	return r.table.rows[r.index]
}

// Value returns the cell value in the named column.
func (r Row) Value(column string) (any, error) {
	i, ok := r.table.byName[column]
	if !ok {
		return nil, errors.NewColumnDoesNotExistError("Row.Value", column)
	}
	return r.table.rows[r.index][i], nil
}

// IsNull reports whether the cell in the named column is null. Unknown
// columns report true.
func (r Row) IsNull(column string) bool {
	i, ok := r.table.byName[column]
	if !ok {
		return true
	}
	return r.table.rows[r.index][i] == nil
}

// The typed getters below exist for predicate ergonomics in Where and key
// functions. They return the zero value when the cell is null, the column
// is unknown, or the cell has a different type; use Value when the
// distinction matters.

// Bool returns the cell as a bool.
func (r Row) Bool(column string) bool {
	v, _ := r.Value(column)
	b, _ := v.(bool)
	return b
}

// Number returns the cell as a decimal.
func (r Row) Number(column string) decimal.Decimal {
	v, _ := r.Value(column)
	d, _ := v.(decimal.Decimal)
	return d
}

// Text returns the cell as a string.
func (r Row) Text(column string) string {
	v, _ := r.Value(column)
	s, _ := v.(string)
	return s
}

// Date returns the cell as a civil date.
func (r Row) Date(column string) date.Date {
	v, _ := r.Value(column)
	d, _ := v.(date.Date)
	return d
}

// DateTime returns the cell as an instant.
func (r Row) DateTime(column string) time.Time {
	v, _ := r.Value(column)
	t, _ := v.(time.Time)
	return t
}

// Duration returns the cell as a duration.
func (r Row) Duration(column string) time.Duration {
	v, _ := r.Value(column)
	d, _ := v.(time.Duration)
	return d
}
