package table

import (
	"github.com/paveg/slate/internal/datatypes"
	"github.com/paveg/slate/internal/errors"
	"github.com/paveg/slate/internal/value"
)

// Computation derives one new column from a table, producing one typed
// value per row.
type Computation interface {
	// Name returns a short operation name for error messages.
	Name() string

	// ResultType returns the data type of the derived column.
	ResultType(t *Table) (datatypes.DataType, error)

	// Validate fails fast when the computation cannot run against the
	// table, identifying the missing or mistyped source column.
	Validate(t *Table) error

	// Run produces one value per row, aligned to the table's row order.
	Run(t *Table) ([]any, error)
}

// ComputeItem names the output column for one computation.
type ComputeItem struct {
	Name        string
	Computation Computation
}

// Compute returns a new table with each computation's output appended as
// a new column. Computations are applied in order and each one sees the
// columns the previous ones produced, so one Compute call behaves
// identically to chaining single-computation calls. Every computation is
// validated before it runs; any failure surfaces before a table with
// partial output can be observed. Output tuples are fresh; t is untouched.
func (t *Table) Compute(items ...ComputeItem) (*Table, error) {
	done := t.traceOp("Compute")

	current := t
	for _, item := range items {
		if item.Computation == nil {
			return nil, errors.NewValidationError("Compute", item.Name, "nil computation")
		}
		if current.HasColumn(item.Name) {
			return nil, errors.NewDuplicateColumnNameError(item.Name)
		}
		if err := item.Computation.Validate(current); err != nil {
			return nil, err
		}
		dt, err := item.Computation.ResultType(current)
		if err != nil {
			return nil, err
		}
		values, err := item.Computation.Run(current)
		if err != nil {
			return nil, err
		}
		if len(values) != current.NumRows() {
			return nil, errors.NewValidationError("Compute", item.Name, "computation output length does not match row count")
		}
		current, err = current.withColumn(item.Name, dt, values)
		if err != nil {
			return nil, err
		}
	}
	done(current.NumRows())
	return current, nil
}

// withColumn appends one typed column, validating each value against the
// column type.
func (t *Table) withColumn(name string, dt datatypes.DataType, values []any) (*Table, error) {
	specs := make([]ColumnSpec, 0, len(t.columns)+1)
	for _, c := range t.columns {
		specs = append(specs, ColumnSpec{Name: c.name, Type: c.dtype})
	}
	specs = append(specs, ColumnSpec{Name: name, Type: dt})

	nt, err := newTable(specs)
	if err != nil {
		return nil, err
	}
	rows := make([][]any, len(t.rows))
	for ri, row := range t.rows {
		if !dt.ValidValue(values[ri]) {
			return nil, errors.NewTypeMismatchError("Compute", name, dt.Name(), value.TypeName(values[ri]))
		}
		nr := make([]any, 0, len(row)+1)
		nr = append(nr, row...)
		nr = append(nr, values[ri])
		rows[ri] = nr
	}
	nt.rows = rows
	return nt, nil
}
