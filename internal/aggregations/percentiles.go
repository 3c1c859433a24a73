package aggregations

import (
	"fmt"

	"github.com/shopspring/decimal"

	"github.com/paveg/slate/internal/datatypes"
	"github.com/paveg/slate/internal/errors"
	"github.com/paveg/slate/internal/table"
)

// Quantiles holds the cut points of a quantile aggregation: count+1
// values from the minimum (point 0) to the maximum (point count).
type Quantiles struct {
	points []decimal.Decimal
}

// Len returns the number of cut points.
func (q *Quantiles) Len() int { return len(q.points) }

// At returns the i-th cut point.
func (q *Quantiles) At(i int) decimal.Decimal { return q.points[i] }

// Points returns all cut points in order.
func (q *Quantiles) Points() []decimal.Decimal {
	out := make([]decimal.Decimal, len(q.points))
	copy(out, q.points)
	return out
}

// Locate returns the index of the quantile bucket containing v: the
// largest i with point[i] <= v. Values below the minimum are an error.
func (q *Quantiles) Locate(v decimal.Decimal) (int, error) {
	if len(q.points) == 0 || v.Cmp(q.points[0]) < 0 {
		return 0, errors.NewValidationError("Quantiles.Locate", "", fmt.Sprintf("value %s is below the distribution minimum", v))
	}
	i := len(q.points) - 1
	for ; i > 0; i-- {
		if q.points[i].Cmp(v) <= 0 {
			break
		}
	}
	return i, nil
}

// NewQuantiles computes count+1 cut points over a Number column using
// linear interpolation between order statistics. It backs the Quartiles,
// Quintiles, Deciles and Percentiles aggregations.
func NewQuantiles(column string, count int) table.Aggregation {
	return &quantilesAggregation{column: column, count: count, op: "Quantiles"}
}

// Quartiles computes the five quartile cut points of a Number column.
func Quartiles(column string) table.Aggregation {
	return &quantilesAggregation{column: column, count: 4, op: "Quartiles"}
}

// Quintiles computes the six quintile cut points of a Number column.
func Quintiles(column string) table.Aggregation {
	return &quantilesAggregation{column: column, count: 5, op: "Quintiles"}
}

// Deciles computes the eleven decile cut points of a Number column.
func Deciles(column string) table.Aggregation {
	return &quantilesAggregation{column: column, count: 10, op: "Deciles"}
}

// Percentiles computes the hundred and one percentile cut points of a
// Number column.
func Percentiles(column string) table.Aggregation {
	return &quantilesAggregation{column: column, count: 100, op: "Percentiles"}
}

type quantilesAggregation struct {
	column string
	count  int
	op     string
}

func (a *quantilesAggregation) Name() string { return a.op }

func (a *quantilesAggregation) CacheKey() string {
	return fmt.Sprintf("Quantiles(%s,%d)", a.column, a.count)
}

// ResultType fails because a quantile set is not a single cell value; use
// Percentile inside TableSet.Aggregate instead.
func (a *quantilesAggregation) ResultType(*table.Table) (datatypes.DataType, error) {
	return nil, errors.NewValidationError(a.op, a.column, "quantiles do not reduce to a single value; aggregate with Percentile instead")
}

func (a *quantilesAggregation) Validate(t *table.Table) error {
	if a.count < 1 {
		return errors.NewValidationError(a.op, a.column, "quantile count must be at least 1")
	}
	return validateNumberColumn(t, a.op, a.column)
}

func (a *quantilesAggregation) Run(t *table.Table) (any, error) {
	values, err := numberColumn(t, a.op, a.column)
	if err != nil {
		return nil, err
	}
	if len(values) == 0 {
		return nil, errors.NewValidationError(a.op, a.column, "column has no non-null values")
	}
	sorted := sortedCopy(values)
	points := make([]decimal.Decimal, a.count+1)
	den := decimal.NewFromInt(int64(a.count))
	for i := 0; i <= a.count; i++ {
		p := decimal.NewFromInt(int64(i)).Div(den)
		points[i] = interpolate(sorted, p)
	}
	return &Quantiles{points: points}, nil
}

// Percentile returns the pth percentile (0-100) of a Number column under
// linear interpolation.
func Percentile(column string, p int) table.Aggregation {
	return &percentileAggregation{column: column, p: p}
}

type percentileAggregation struct {
	column string
	p      int
}

func (a *percentileAggregation) Name() string { return "Percentile" }

func (a *percentileAggregation) CacheKey() string {
	return fmt.Sprintf("Percentile(%s,%d)", a.column, a.p)
}

func (a *percentileAggregation) ResultType(*table.Table) (datatypes.DataType, error) {
	return datatypes.NewNumber(), nil
}

func (a *percentileAggregation) Validate(t *table.Table) error {
	if a.p < 0 || a.p > 100 {
		return errors.NewValidationError("Percentile", a.column, fmt.Sprintf("percentile %d out of range [0, 100]", a.p))
	}
	return validateNumberColumn(t, "Percentile", a.column)
}

func (a *percentileAggregation) Run(t *table.Table) (any, error) {
	values, err := numberColumn(t, "Percentile", a.column)
	if err != nil {
		return nil, err
	}
	if len(values) == 0 {
		return nil, errors.NewValidationError("Percentile", a.column, "column has no non-null values")
	}
	p := decimal.NewFromInt(int64(a.p)).Div(decimal.NewFromInt(100))
	return interpolate(sortedCopy(values), p), nil
}

// IQR computes the interquartile range of a Number column: the 75th
// percentile minus the 25th.
func IQR(column string) table.Aggregation {
	return &iqrAggregation{column: column}
}

type iqrAggregation struct{ column string }

func (a *iqrAggregation) Name() string     { return "IQR" }
func (a *iqrAggregation) CacheKey() string { return fmt.Sprintf("IQR(%s)", a.column) }

func (a *iqrAggregation) ResultType(*table.Table) (datatypes.DataType, error) {
	return datatypes.NewNumber(), nil
}

func (a *iqrAggregation) Validate(t *table.Table) error {
	return validateNumberColumn(t, "IQR", a.column)
}

func (a *iqrAggregation) Run(t *table.Table) (any, error) {
	values, err := numberColumn(t, "IQR", a.column)
	if err != nil {
		return nil, err
	}
	if len(values) == 0 {
		return nil, errors.NewValidationError("IQR", a.column, "column has no non-null values")
	}
	sorted := sortedCopy(values)
	q3 := interpolate(sorted, decimal.New(75, -2))
	q1 := interpolate(sorted, decimal.New(25, -2))
	return q3.Sub(q1), nil
}
