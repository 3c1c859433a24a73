package aggregations

import (
	"fmt"

	"github.com/shopspring/decimal"

	"github.com/paveg/slate/internal/datatypes"
	"github.com/paveg/slate/internal/errors"
	"github.com/paveg/slate/internal/table"
)

// Variance computes the sample variance of a Number column. Sample and
// population variants are distinct operations; neither substitutes for
// the other.
func Variance(column string) table.Aggregation {
	return &varianceAggregation{column: column, op: "Variance", sample: true}
}

// PopulationVariance computes the population variance of a Number column.
func PopulationVariance(column string) table.Aggregation {
	return &varianceAggregation{column: column, op: "PopulationVariance", sample: false}
}

type varianceAggregation struct {
	column string
	op     string
	sample bool
}

func (a *varianceAggregation) Name() string     { return a.op }
func (a *varianceAggregation) CacheKey() string { return fmt.Sprintf("%s(%s)", a.op, a.column) }

func (a *varianceAggregation) ResultType(*table.Table) (datatypes.DataType, error) {
	return datatypes.NewNumber(), nil
}

func (a *varianceAggregation) Validate(t *table.Table) error {
	return validateNumberColumn(t, a.op, a.column)
}

func (a *varianceAggregation) Run(t *table.Table) (any, error) {
	values, err := numberColumn(t, a.op, a.column)
	if err != nil {
		return nil, err
	}
	return varianceOf(a.op, a.column, values, a.sample)
}

// StDev computes the sample standard deviation of a Number column.
func StDev(column string) table.Aggregation {
	return &stdevAggregation{column: column, op: "StDev", sample: true}
}

// PopulationStDev computes the population standard deviation of a Number
// column.
func PopulationStDev(column string) table.Aggregation {
	return &stdevAggregation{column: column, op: "PopulationStDev", sample: false}
}

type stdevAggregation struct {
	column string
	op     string
	sample bool
}

func (a *stdevAggregation) Name() string     { return a.op }
func (a *stdevAggregation) CacheKey() string { return fmt.Sprintf("%s(%s)", a.op, a.column) }

func (a *stdevAggregation) ResultType(*table.Table) (datatypes.DataType, error) {
	return datatypes.NewNumber(), nil
}

func (a *stdevAggregation) Validate(t *table.Table) error {
	return validateNumberColumn(t, a.op, a.column)
}

func (a *stdevAggregation) Run(t *table.Table) (any, error) {
	values, err := numberColumn(t, a.op, a.column)
	if err != nil {
		return nil, err
	}
	v, err := varianceOf(a.op, a.column, values, a.sample)
	if err != nil {
		return nil, err
	}
	return decimalSqrt(v)
}

// MAD computes the median absolute deviation of a Number column: the
// median distance of values from their median.
func MAD(column string) table.Aggregation {
	return &madAggregation{column: column}
}

type madAggregation struct{ column string }

func (a *madAggregation) Name() string     { return "MAD" }
func (a *madAggregation) CacheKey() string { return fmt.Sprintf("MAD(%s)", a.column) }

func (a *madAggregation) ResultType(*table.Table) (datatypes.DataType, error) {
	return datatypes.NewNumber(), nil
}

func (a *madAggregation) Validate(t *table.Table) error {
	return validateNumberColumn(t, "MAD", a.column)
}

func (a *madAggregation) Run(t *table.Table) (any, error) {
	values, err := numberColumn(t, "MAD", a.column)
	if err != nil {
		return nil, err
	}
	if len(values) == 0 {
		return nil, errors.NewValidationError("MAD", a.column, "column has no non-null values")
	}
	m := medianOf(sortedCopy(values))
	deviations := make([]decimal.Decimal, len(values))
	for i, v := range values {
		deviations[i] = v.Sub(m).Abs()
	}
	return medianOf(sortedCopy(deviations)), nil
}
