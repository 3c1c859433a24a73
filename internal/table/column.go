package table

import (
	"github.com/paveg/slate/internal/datatypes"
	"github.com/paveg/slate/internal/errors"
)

// Column is a named, typed view over one positional slot of every row.
// It holds identity only; cell values live in the owning table's row
// store. A Column belongs to exactly one Table and is never shared across
// table instances.
type Column struct {
	name  string
	index int
	dtype datatypes.DataType
	table *Table
}

// Name returns the column name.
func (c *Column) Name() string { return c.name }

// Index returns the column's position in the table schema.
func (c *Column) Index() int { return c.index }

// DataType returns the column's data type.
func (c *Column) DataType() datatypes.DataType { return c.dtype }

// Table returns the owning table.
func (c *Column) Table() *Table { return c.table }

// Value returns the cell value at the given row.
func (c *Column) Value(row int) (any, error) {
	if row < 0 || row >= len(c.table.rows) {
		return nil, errors.NewRowDoesNotExistError("Column.Value", row, len(c.table.rows))
	}
	return c.table.rows[row][c.index], nil
}

// Values returns every cell value of the column in row order, including
// nulls.
func (c *Column) Values() []any {
	out := make([]any, len(c.table.rows))
	for i, row := range c.table.rows {
		out[i] = row[c.index]
	}
	return out
}

// NonNullValues returns the column's non-null cell values in row order.
func (c *Column) NonNullValues() []any {
	out := make([]any, 0, len(c.table.rows))
	for _, row := range c.table.rows {
		if row[c.index] != nil {
			out = append(out, row[c.index])
		}
	}
	return out
}

// NullCount returns the number of null cells in the column.
func (c *Column) NullCount() int {
	n := 0
	for _, row := range c.table.rows {
		if row[c.index] == nil {
			n++
		}
	}
	return n
}
