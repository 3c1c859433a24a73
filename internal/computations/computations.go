// Package computations provides the built-in row-wise derived-column
// generators appended by Table.Compute: differences, percent change,
// ranks, z-scores and percentile ranks. Every computation validates its
// source columns before producing any output.
package computations

import (
	"github.com/shopspring/decimal"

	"github.com/paveg/slate/internal/datatypes"
	"github.com/paveg/slate/internal/errors"
	"github.com/paveg/slate/internal/table"
)

// numberColumnIndex verifies the named column exists and is a Number
// column, returning its position.
func numberColumnIndex(t *table.Table, op, column string) (int, error) {
	col, err := t.Column(column)
	if err != nil {
		return 0, errors.NewColumnDoesNotExistError(op, column)
	}
	if _, ok := col.DataType().(*datatypes.NumberType); !ok {
		return 0, errors.NewTypeMismatchError(op, column, "Number", col.DataType().Name())
	}
	return col.Index(), nil
}

func validateNumberColumn(t *table.Table, op, column string) error {
	_, err := numberColumnIndex(t, op, column)
	return err
}

// percentOf returns (after - before) / before * 100 as an exact decimal.
func percentOf(op, column string, before, after decimal.Decimal) (decimal.Decimal, error) {
	if before.IsZero() {
		return decimal.Zero, errors.NewDivisionError(op, column, "percent change from zero is undefined")
	}
	return after.Sub(before).Div(before).Mul(decimal.NewFromInt(100)), nil
}
