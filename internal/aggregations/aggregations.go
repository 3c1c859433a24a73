// Package aggregations provides the built-in single-value reductions over
// table columns: sums, moments, order statistics, outlier filters and
// correlation. Every aggregation implements the table.Aggregation
// contract; results are cached per table by Table.Aggregate, so an
// aggregation's Run must compute directly and never re-enter the cache.
package aggregations

import (
	"fmt"
	"math"
	"sort"

	"github.com/shopspring/decimal"

	"github.com/paveg/slate/internal/datatypes"
	"github.com/paveg/slate/internal/errors"
	"github.com/paveg/slate/internal/table"
)

// Named wraps an aggregation, overriding its output column name. The
// cache key is untouched, so a renamed aggregation still shares cached
// results with its original.
func Named(name string, agg table.Aggregation) table.Aggregation {
	return &named{name: name, Aggregation: agg}
}

type named struct {
	table.Aggregation
	name string
}

func (n *named) Name() string { return n.name }

// numberColumn fetches the named column, verifying it is a Number column,
// and returns its non-null values in row order.
func numberColumn(t *table.Table, op, column string) ([]decimal.Decimal, error) {
	col, err := t.Column(column)
	if err != nil {
		return nil, errors.NewColumnDoesNotExistError(op, column)
	}
	if _, ok := col.DataType().(*datatypes.NumberType); !ok {
		return nil, errors.NewTypeMismatchError(op, column, "Number", col.DataType().Name())
	}
	raw := col.NonNullValues()
	values := make([]decimal.Decimal, len(raw))
	for i, v := range raw {
		values[i] = v.(decimal.Decimal)
	}
	return values, nil
}

// validateNumberColumn is the Validate half of numberColumn: it checks
// presence and type without materializing values.
func validateNumberColumn(t *table.Table, op, column string) error {
	col, err := t.Column(column)
	if err != nil {
		return errors.NewColumnDoesNotExistError(op, column)
	}
	if _, ok := col.DataType().(*datatypes.NumberType); !ok {
		return errors.NewTypeMismatchError(op, column, "Number", col.DataType().Name())
	}
	return nil
}

func sumOf(values []decimal.Decimal) decimal.Decimal {
	total := decimal.Zero
	for _, v := range values {
		total = total.Add(v)
	}
	return total
}

func meanOf(values []decimal.Decimal) decimal.Decimal {
	return sumOf(values).Div(decimal.NewFromInt(int64(len(values))))
}

// varianceOf computes the sample or population variance of values. The
// sample variant needs at least two values.
func varianceOf(op, column string, values []decimal.Decimal, sample bool) (decimal.Decimal, error) {
	n := int64(len(values))
	if sample && n < 2 {
		return decimal.Zero, errors.NewValidationError(op, column, "sample variance needs at least two values")
	}
	if n == 0 {
		return decimal.Zero, errors.NewValidationError(op, column, "column has no non-null values")
	}
	m := meanOf(values)
	sq := decimal.Zero
	for _, v := range values {
		d := v.Sub(m)
		sq = sq.Add(d.Mul(d))
	}
	if sample {
		n--
	}
	return sq.Div(decimal.NewFromInt(n)), nil
}

// decimalSqrt computes the square root of a non-negative decimal with a
// float seed refined by Newton iterations, keeping the arithmetic in
// decimals.
func decimalSqrt(d decimal.Decimal) (decimal.Decimal, error) {
	if d.Sign() < 0 {
		return decimal.Zero, errors.NewValidationError("Sqrt", "", fmt.Sprintf("square root of negative value %s", d))
	}
	if d.IsZero() {
		return decimal.Zero, nil
	}
	f, _ := d.Float64()
	x := decimal.NewFromFloat(math.Sqrt(f))
	if x.IsZero() {
		x = decimal.New(1, 0)
	}
	two := decimal.NewFromInt(2)
	for i := 0; i < 8; i++ {
		x = x.Add(d.Div(x)).Div(two)
	}
	return x, nil
}

// sortedCopy returns the values in ascending order without disturbing the
// caller's slice.
func sortedCopy(values []decimal.Decimal) []decimal.Decimal {
	out := make([]decimal.Decimal, len(values))
	copy(out, values)
	sort.Slice(out, func(i, j int) bool { return out[i].Cmp(out[j]) < 0 })
	return out
}

// interpolate returns the order statistic of sorted values at the
// fractional position p in [0, 1], linearly interpolating between the
// two nearest values: position (n-1)*p.
func interpolate(sorted []decimal.Decimal, p decimal.Decimal) decimal.Decimal {
	n := len(sorted)
	if n == 1 {
		return sorted[0]
	}
	pos := decimal.NewFromInt(int64(n - 1)).Mul(p)
	lower := pos.Floor()
	li := int(lower.IntPart())
	if li >= n-1 {
		return sorted[n-1]
	}
	frac := pos.Sub(lower)
	return sorted[li].Add(frac.Mul(sorted[li+1].Sub(sorted[li])))
}

// medianOf returns the 50th percentile of sorted values.
func medianOf(sorted []decimal.Decimal) decimal.Decimal {
	half := decimal.New(5, -1)
	return interpolate(sorted, half)
}
