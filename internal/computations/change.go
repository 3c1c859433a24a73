package computations

import (
	"time"

	"github.com/rickb777/date/v2"
	"github.com/shopspring/decimal"

	"github.com/paveg/slate/internal/datatypes"
	"github.com/paveg/slate/internal/errors"
	"github.com/paveg/slate/internal/table"
	"github.com/paveg/slate/internal/value"
)

// Change computes after - before for each row. It works uniformly across
// Number, Date, DateTime and TimeDelta columns by delegating the
// subtraction to the column type: Number differences are Numbers, all
// temporal differences are TimeDeltas. A null operand yields null.
func Change(before, after string) table.Computation {
	return &changeComputation{before: before, after: after}
}

type changeComputation struct {
	before string
	after  string
}

func (c *changeComputation) Name() string { return "Change" }

func (c *changeComputation) ResultType(t *table.Table) (datatypes.DataType, error) {
	col, err := t.Column(c.before)
	if err != nil {
		return nil, errors.NewColumnDoesNotExistError("Change", c.before)
	}
	switch col.DataType().(type) {
	case *datatypes.NumberType:
		return datatypes.NewNumber(), nil
	case *datatypes.DateType, *datatypes.DateTimeType, *datatypes.TimeDeltaType:
		return datatypes.NewTimeDelta(), nil
	default:
		return nil, errors.NewTypeMismatchError("Change", c.before, "Number, Date, DateTime or TimeDelta", col.DataType().Name())
	}
}

func (c *changeComputation) Validate(t *table.Table) error {
	beforeCol, err := t.Column(c.before)
	if err != nil {
		return errors.NewColumnDoesNotExistError("Change", c.before)
	}
	afterCol, err := t.Column(c.after)
	if err != nil {
		return errors.NewColumnDoesNotExistError("Change", c.after)
	}
	if beforeCol.DataType().Name() != afterCol.DataType().Name() {
		return errors.NewTypeMismatchError("Change", c.after, beforeCol.DataType().Name(), afterCol.DataType().Name())
	}
	if _, err := c.ResultType(t); err != nil {
		return err
	}
	return nil
}

func (c *changeComputation) Run(t *table.Table) ([]any, error) {
	beforeCol, err := t.Column(c.before)
	if err != nil {
		return nil, err
	}
	afterCol, err := t.Column(c.after)
	if err != nil {
		return nil, err
	}
	bi, ai := beforeCol.Index(), afterCol.Index()

	out := make([]any, t.NumRows())
	for i, row := range t.Rows() {
		cells := row.Cells()
		if cells[bi] == nil || cells[ai] == nil {
			continue
		}
		d, err := subtract(cells[ai], cells[bi])
		if err != nil {
			return nil, err
		}
		out[i] = d
	}
	return out, nil
}

// subtract computes a - b for two same-typed cell values.
func subtract(a, b any) (any, error) {
	switch av := a.(type) {
	case decimal.Decimal:
		return av.Sub(b.(decimal.Decimal)), nil
	case date.Date:
		return value.DateTime(av).Sub(value.DateTime(b.(date.Date))), nil
	case time.Time:
		return av.Sub(b.(time.Time)), nil
	case time.Duration:
		return av - b.(time.Duration), nil
	default:
		return nil, errors.NewTypeMismatchError("Change", "", "a subtractable cell value", value.TypeName(a))
	}
}

// PercentChange computes the change from a before column to an after
// column as a percentage of the before value. Both columns must be
// Numbers; a null operand yields null.
func PercentChange(before, after string) table.Computation {
	return &percentChangeComputation{before: before, after: after}
}

type percentChangeComputation struct {
	before string
	after  string
}

func (c *percentChangeComputation) Name() string { return "PercentChange" }

func (c *percentChangeComputation) ResultType(*table.Table) (datatypes.DataType, error) {
	return datatypes.NewNumber(), nil
}

func (c *percentChangeComputation) Validate(t *table.Table) error {
	if err := validateNumberColumn(t, "PercentChange", c.before); err != nil {
		return err
	}
	return validateNumberColumn(t, "PercentChange", c.after)
}

func (c *percentChangeComputation) Run(t *table.Table) ([]any, error) {
	bi, err := numberColumnIndex(t, "PercentChange", c.before)
	if err != nil {
		return nil, err
	}
	ai, err := numberColumnIndex(t, "PercentChange", c.after)
	if err != nil {
		return nil, err
	}

	out := make([]any, t.NumRows())
	for i, row := range t.Rows() {
		cells := row.Cells()
		if cells[bi] == nil || cells[ai] == nil {
			continue
		}
		p, err := percentOf("PercentChange", c.before, cells[bi].(decimal.Decimal), cells[ai].(decimal.Decimal))
		if err != nil {
			return nil, err
		}
		out[i] = p
	}
	return out, nil
}

// RowPercentChange computes row-over-row percent change within one Number
// column. The first row, and any row whose predecessor or self is null,
// yields null.
func RowPercentChange(column string) table.Computation {
	return &rowPercentChangeComputation{column: column}
}

type rowPercentChangeComputation struct{ column string }

func (c *rowPercentChangeComputation) Name() string { return "RowPercentChange" }

func (c *rowPercentChangeComputation) ResultType(*table.Table) (datatypes.DataType, error) {
	return datatypes.NewNumber(), nil
}

func (c *rowPercentChangeComputation) Validate(t *table.Table) error {
	return validateNumberColumn(t, "RowPercentChange", c.column)
}

func (c *rowPercentChangeComputation) Run(t *table.Table) ([]any, error) {
	ci, err := numberColumnIndex(t, "RowPercentChange", c.column)
	if err != nil {
		return nil, err
	}

	out := make([]any, t.NumRows())
	var prev any
	for i, row := range t.Rows() {
		cur := row.Cells()[ci]
		if i > 0 && prev != nil && cur != nil {
			p, err := percentOf("RowPercentChange", c.column, prev.(decimal.Decimal), cur.(decimal.Decimal))
			if err != nil {
				return nil, err
			}
			out[i] = p
		}
		prev = cur
	}
	return out, nil
}
