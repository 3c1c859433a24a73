package aggregations

import (
	"fmt"

	"github.com/shopspring/decimal"

	"github.com/paveg/slate/internal/datatypes"
	"github.com/paveg/slate/internal/errors"
	"github.com/paveg/slate/internal/table"
	"github.com/paveg/slate/internal/value"
)

// Sum totals the non-null values of a Number column. An empty column sums
// to zero.
func Sum(column string) table.Aggregation {
	return &sumAggregation{column: column}
}

type sumAggregation struct{ column string }

func (a *sumAggregation) Name() string     { return "Sum" }
func (a *sumAggregation) CacheKey() string { return fmt.Sprintf("Sum(%s)", a.column) }

func (a *sumAggregation) ResultType(*table.Table) (datatypes.DataType, error) {
	return datatypes.NewNumber(), nil
}

func (a *sumAggregation) Validate(t *table.Table) error {
	return validateNumberColumn(t, "Sum", a.column)
}

func (a *sumAggregation) Run(t *table.Table) (any, error) {
	values, err := numberColumn(t, "Sum", a.column)
	if err != nil {
		return nil, err
	}
	return sumOf(values), nil
}

// Mean averages the non-null values of a Number column.
func Mean(column string) table.Aggregation {
	return &meanAggregation{column: column}
}

type meanAggregation struct{ column string }

func (a *meanAggregation) Name() string     { return "Mean" }
func (a *meanAggregation) CacheKey() string { return fmt.Sprintf("Mean(%s)", a.column) }

func (a *meanAggregation) ResultType(*table.Table) (datatypes.DataType, error) {
	return datatypes.NewNumber(), nil
}

func (a *meanAggregation) Validate(t *table.Table) error {
	return validateNumberColumn(t, "Mean", a.column)
}

func (a *meanAggregation) Run(t *table.Table) (any, error) {
	values, err := numberColumn(t, "Mean", a.column)
	if err != nil {
		return nil, err
	}
	if len(values) == 0 {
		return nil, errors.NewValidationError("Mean", a.column, "column has no non-null values")
	}
	return meanOf(values), nil
}

// Median returns the 50th percentile of a Number column under linear
// interpolation.
func Median(column string) table.Aggregation {
	return &medianAggregation{column: column}
}

type medianAggregation struct{ column string }

func (a *medianAggregation) Name() string     { return "Median" }
func (a *medianAggregation) CacheKey() string { return fmt.Sprintf("Median(%s)", a.column) }

func (a *medianAggregation) ResultType(*table.Table) (datatypes.DataType, error) {
	return datatypes.NewNumber(), nil
}

func (a *medianAggregation) Validate(t *table.Table) error {
	return validateNumberColumn(t, "Median", a.column)
}

func (a *medianAggregation) Run(t *table.Table) (any, error) {
	values, err := numberColumn(t, "Median", a.column)
	if err != nil {
		return nil, err
	}
	if len(values) == 0 {
		return nil, errors.NewValidationError("Median", a.column, "column has no non-null values")
	}
	return medianOf(sortedCopy(values)), nil
}

// Mode returns the most frequent non-null value of a column. Ties go to
// the value seen first.
func Mode(column string) table.Aggregation {
	return &modeAggregation{column: column}
}

type modeAggregation struct{ column string }

func (a *modeAggregation) Name() string     { return "Mode" }
func (a *modeAggregation) CacheKey() string { return fmt.Sprintf("Mode(%s)", a.column) }

func (a *modeAggregation) ResultType(t *table.Table) (datatypes.DataType, error) {
	col, err := t.Column(a.column)
	if err != nil {
		return nil, errors.NewColumnDoesNotExistError("Mode", a.column)
	}
	return col.DataType(), nil
}

func (a *modeAggregation) Validate(t *table.Table) error {
	if !t.HasColumn(a.column) {
		return errors.NewColumnDoesNotExistError("Mode", a.column)
	}
	return nil
}

func (a *modeAggregation) Run(t *table.Table) (any, error) {
	col, err := t.Column(a.column)
	if err != nil {
		return nil, err
	}
	values := col.NonNullValues()
	if len(values) == 0 {
		return nil, errors.NewValidationError("Mode", a.column, "column has no non-null values")
	}
	counts := make(map[string]int, len(values))
	var best any
	bestCount := 0
	for _, v := range values {
		k := value.Key(v)
		counts[k]++
		if counts[k] > bestCount {
			best = v
			bestCount = counts[k]
		}
	}
	return best, nil
}

// comparableTypes are the column types Min and Max accept.
func comparableType(dt datatypes.DataType) bool {
	switch dt.(type) {
	case *datatypes.NumberType, *datatypes.DateType, *datatypes.DateTimeType, *datatypes.TimeDeltaType:
		return true
	default:
		return false
	}
}

// Min returns the smallest non-null value of a Number, Date, DateTime or
// TimeDelta column.
func Min(column string) table.Aggregation {
	return &extremeAggregation{column: column, op: "Min", sign: -1}
}

// Max returns the largest non-null value of a Number, Date, DateTime or
// TimeDelta column.
func Max(column string) table.Aggregation {
	return &extremeAggregation{column: column, op: "Max", sign: 1}
}

type extremeAggregation struct {
	column string
	op     string
	sign   int
}

func (a *extremeAggregation) Name() string     { return a.op }
func (a *extremeAggregation) CacheKey() string { return fmt.Sprintf("%s(%s)", a.op, a.column) }

func (a *extremeAggregation) ResultType(t *table.Table) (datatypes.DataType, error) {
	col, err := t.Column(a.column)
	if err != nil {
		return nil, errors.NewColumnDoesNotExistError(a.op, a.column)
	}
	return col.DataType(), nil
}

func (a *extremeAggregation) Validate(t *table.Table) error {
	col, err := t.Column(a.column)
	if err != nil {
		return errors.NewColumnDoesNotExistError(a.op, a.column)
	}
	if !comparableType(col.DataType()) {
		return errors.NewTypeMismatchError(a.op, a.column, "Number, Date, DateTime or TimeDelta", col.DataType().Name())
	}
	return nil
}

func (a *extremeAggregation) Run(t *table.Table) (any, error) {
	col, err := t.Column(a.column)
	if err != nil {
		return nil, err
	}
	values := col.NonNullValues()
	if len(values) == 0 {
		return nil, errors.NewValidationError(a.op, a.column, "column has no non-null values")
	}
	best := values[0]
	for _, v := range values[1:] {
		c, err := value.Compare(v, best)
		if err != nil {
			return nil, err
		}
		if c*a.sign > 0 {
			best = v
		}
	}
	return best, nil
}

// Length counts the table's rows, nulls included.
func Length() table.Aggregation {
	return &lengthAggregation{}
}

type lengthAggregation struct{}

func (a *lengthAggregation) Name() string     { return "Length" }
func (a *lengthAggregation) CacheKey() string { return "Length()" }

func (a *lengthAggregation) ResultType(*table.Table) (datatypes.DataType, error) {
	return datatypes.NewNumber(), nil
}

func (a *lengthAggregation) Validate(*table.Table) error { return nil }

func (a *lengthAggregation) Run(t *table.Table) (any, error) {
	return decimal.NewFromInt(int64(t.NumRows())), nil
}

// Count counts a column's non-null values.
func Count(column string) table.Aggregation {
	return &countAggregation{column: column}
}

type countAggregation struct{ column string }

func (a *countAggregation) Name() string     { return "Count" }
func (a *countAggregation) CacheKey() string { return fmt.Sprintf("Count(%s)", a.column) }

func (a *countAggregation) ResultType(*table.Table) (datatypes.DataType, error) {
	return datatypes.NewNumber(), nil
}

func (a *countAggregation) Validate(t *table.Table) error {
	if !t.HasColumn(a.column) {
		return errors.NewColumnDoesNotExistError("Count", a.column)
	}
	return nil
}

func (a *countAggregation) Run(t *table.Table) (any, error) {
	col, err := t.Column(a.column)
	if err != nil {
		return nil, err
	}
	return decimal.NewFromInt(int64(t.NumRows() - col.NullCount())), nil
}
