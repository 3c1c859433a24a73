package aggregations_test

import (
	"testing"
	"time"

	"github.com/rickb777/date/v2"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/paveg/slate/internal/aggregations"
	"github.com/paveg/slate/internal/datatypes"
	slateerrors "github.com/paveg/slate/internal/errors"
	"github.com/paveg/slate/internal/table"
)

func dec(t *testing.T, s string) decimal.Decimal {
	t.Helper()
	d, err := decimal.NewFromString(s)
	require.NoError(t, err)
	return d
}

// numTable builds a one-column Number table from string literals; "null"
// becomes a null cell.
func numTable(t *testing.T, values ...string) *table.Table {
	t.Helper()
	rows := make([][]any, len(values))
	for i, s := range values {
		if s == "null" {
			rows[i] = []any{nil}
			continue
		}
		rows[i] = []any{dec(t, s)}
	}
	tbl, err := table.New(
		[]table.ColumnSpec{{Name: "x", Type: datatypes.NewNumber()}},
		rows,
	)
	require.NoError(t, err)
	return tbl
}

func runNumber(t *testing.T, tbl *table.Table, agg table.Aggregation) decimal.Decimal {
	t.Helper()
	v, err := tbl.Aggregate(agg)
	require.NoError(t, err)
	d, ok := v.(decimal.Decimal)
	require.True(t, ok, "expected decimal result, got %T", v)
	return d
}

func TestSum(t *testing.T) {
	tbl := numTable(t, "1", "2", "null", "3")
	assert.True(t, dec(t, "6").Equal(runNumber(t, tbl, aggregations.Sum("x"))))

	// An empty column sums to zero.
	empty := numTable(t)
	assert.True(t, decimal.Zero.Equal(runNumber(t, empty, aggregations.Sum("x"))))
}

func TestSumValidation(t *testing.T) {
	tbl, err := table.New(
		[]table.ColumnSpec{{Name: "s", Type: datatypes.NewText()}},
		[][]any{{"a"}},
	)
	require.NoError(t, err)

	_, err = tbl.Aggregate(aggregations.Sum("s"))
	var tmErr *slateerrors.TypeMismatchError
	require.ErrorAs(t, err, &tmErr)
	assert.Equal(t, "Text", tmErr.Actual)

	_, err = tbl.Aggregate(aggregations.Sum("missing"))
	var cdErr *slateerrors.ColumnDoesNotExistError
	assert.ErrorAs(t, err, &cdErr)
}

func TestMean(t *testing.T) {
	tbl := numTable(t, "2", "4", "null", "6")
	assert.True(t, dec(t, "4").Equal(runNumber(t, tbl, aggregations.Mean("x"))))

	_, err := numTable(t, "null").Aggregate(aggregations.Mean("x"))
	assert.Error(t, err)
}

func TestMedian(t *testing.T) {
	// Even count interpolates between the middle pair.
	even := numTable(t, "4", "1", "3", "2")
	assert.True(t, dec(t, "2.5").Equal(runNumber(t, even, aggregations.Median("x"))))

	odd := numTable(t, "3", "1", "2")
	assert.True(t, dec(t, "2").Equal(runNumber(t, odd, aggregations.Median("x"))))

	single := numTable(t, "7")
	assert.True(t, dec(t, "7").Equal(runNumber(t, single, aggregations.Median("x"))))
}

func TestMode(t *testing.T) {
	tbl, err := table.New(
		[]table.ColumnSpec{{Name: "s", Type: datatypes.NewText()}},
		[][]any{{"a"}, {"b"}, {"a"}, {"b"}, {"c"}, {nil}},
	)
	require.NoError(t, err)

	// Ties go to the value whose winning count was reached first.
	v, err := tbl.Aggregate(aggregations.Mode("s"))
	require.NoError(t, err)
	assert.Equal(t, "a", v)

	nums := numTable(t, "5", "9", "9", "5", "9")
	assert.True(t, dec(t, "9").Equal(runNumber(t, nums, aggregations.Mode("x"))))
}

func TestMinMax(t *testing.T) {
	tbl := numTable(t, "3", "null", "-1", "7")
	assert.True(t, dec(t, "-1").Equal(runNumber(t, tbl, aggregations.Min("x"))))
	assert.True(t, dec(t, "7").Equal(runNumber(t, tbl, aggregations.Max("x"))))
}

func TestMinMaxTemporal(t *testing.T) {
	tbl, err := table.New(
		[]table.ColumnSpec{{Name: "d", Type: datatypes.NewDate()}},
		[][]any{
			{date.New(2024, time.March, 15)},
			{nil},
			{date.New(2021, time.July, 1)},
			{date.New(2026, time.January, 2)},
		},
	)
	require.NoError(t, err)

	v, err := tbl.Aggregate(aggregations.Min("d"))
	require.NoError(t, err)
	assert.Equal(t, date.New(2021, time.July, 1), v)

	v, err = tbl.Aggregate(aggregations.Max("d"))
	require.NoError(t, err)
	assert.Equal(t, date.New(2026, time.January, 2), v)
}

func TestMinMaxValidation(t *testing.T) {
	tbl, err := table.New(
		[]table.ColumnSpec{{Name: "s", Type: datatypes.NewText()}},
		[][]any{{"a"}},
	)
	require.NoError(t, err)

	_, err = tbl.Aggregate(aggregations.Min("s"))
	var tmErr *slateerrors.TypeMismatchError
	assert.ErrorAs(t, err, &tmErr)

	_, err = numTable(t, "null", "null").Aggregate(aggregations.Max("x"))
	assert.Error(t, err)
}

func TestLengthAndCount(t *testing.T) {
	tbl := numTable(t, "1", "null", "3", "null")
	assert.True(t, dec(t, "4").Equal(runNumber(t, tbl, aggregations.Length())))
	assert.True(t, dec(t, "2").Equal(runNumber(t, tbl, aggregations.Count("x"))))
}

func TestVariance(t *testing.T) {
	tbl := numTable(t, "2", "4", "4", "4", "5", "5", "7", "9")

	pop := runNumber(t, tbl, aggregations.PopulationVariance("x"))
	assert.True(t, dec(t, "4").Equal(pop))

	sample := runNumber(t, tbl, aggregations.Variance("x"))
	f, _ := sample.Float64()
	assert.InDelta(t, 32.0/7.0, f, 1e-9)

	// Sample variance is undefined on fewer than two values.
	_, err := numTable(t, "1").Aggregate(aggregations.Variance("x"))
	assert.Error(t, err)

	one := runNumber(t, numTable(t, "1"), aggregations.PopulationVariance("x"))
	assert.True(t, one.IsZero())
}

func TestStDev(t *testing.T) {
	tbl := numTable(t, "2", "4", "4", "4", "5", "5", "7", "9")

	pop := runNumber(t, tbl, aggregations.PopulationStDev("x"))
	f, _ := pop.Float64()
	assert.InDelta(t, 2.0, f, 1e-9)

	sample := runNumber(t, tbl, aggregations.StDev("x"))
	f, _ = sample.Float64()
	assert.InDelta(t, 2.1380899352, f, 1e-9)
}

func TestMAD(t *testing.T) {
	tbl := numTable(t, "1", "1", "2", "2", "4", "6", "9")
	assert.True(t, dec(t, "1").Equal(runNumber(t, tbl, aggregations.MAD("x"))))
}

func TestPercentile(t *testing.T) {
	tbl := numTable(t, "1", "2", "3", "4")

	assert.True(t, dec(t, "2.5").Equal(runNumber(t, tbl, aggregations.Percentile("x", 50))))
	assert.True(t, dec(t, "1").Equal(runNumber(t, tbl, aggregations.Percentile("x", 0))))
	assert.True(t, dec(t, "4").Equal(runNumber(t, tbl, aggregations.Percentile("x", 100))))
	assert.True(t, dec(t, "1.75").Equal(runNumber(t, tbl, aggregations.Percentile("x", 25))))

	_, err := tbl.Aggregate(aggregations.Percentile("x", 101))
	assert.Error(t, err)
	_, err = tbl.Aggregate(aggregations.Percentile("x", -1))
	assert.Error(t, err)
}

func TestIQR(t *testing.T) {
	tbl := numTable(t, "1", "2", "3", "4")
	assert.True(t, dec(t, "1.5").Equal(runNumber(t, tbl, aggregations.IQR("x"))))
}

func TestQuartiles(t *testing.T) {
	tbl := numTable(t, "1", "2", "3", "4")

	v, err := tbl.Aggregate(aggregations.Quartiles("x"))
	require.NoError(t, err)
	q, ok := v.(*aggregations.Quantiles)
	require.True(t, ok)

	require.Equal(t, 5, q.Len())
	assert.True(t, dec(t, "1").Equal(q.At(0)))
	assert.True(t, dec(t, "1.75").Equal(q.At(1)))
	assert.True(t, dec(t, "2.5").Equal(q.At(2)))
	assert.True(t, dec(t, "3.25").Equal(q.At(3)))
	assert.True(t, dec(t, "4").Equal(q.At(4)))
	assert.Len(t, q.Points(), 5)

	i, err := q.Locate(dec(t, "3"))
	require.NoError(t, err)
	assert.Equal(t, 2, i)

	i, err = q.Locate(dec(t, "4"))
	require.NoError(t, err)
	assert.Equal(t, 4, i)

	_, err = q.Locate(dec(t, "0.5"))
	assert.Error(t, err)
}

func TestQuantilesDoNotAggregateIntoTables(t *testing.T) {
	tbl := numTable(t, "1", "2", "3", "4")

	grouped, err := tbl.GroupByKey("bucket", nil, func(r table.Row) any { return "all" })
	require.NoError(t, err)

	_, err = grouped.Aggregate(table.AggregateItem{
		Name:        "q",
		Aggregation: aggregations.Quartiles("x"),
	})
	var vErr *slateerrors.ValidationError
	assert.ErrorAs(t, err, &vErr)
}

func TestNamed(t *testing.T) {
	agg := aggregations.Named("total", aggregations.Sum("x"))
	assert.Equal(t, "total", agg.Name())
	// The cache key is the wrapped aggregation's, so results are shared.
	assert.Equal(t, aggregations.Sum("x").CacheKey(), agg.CacheKey())

	tbl := numTable(t, "1", "2")
	assert.True(t, dec(t, "3").Equal(runNumber(t, tbl, agg)))
}

func TestPearsonCorrelation(t *testing.T) {
	tbl, err := table.New(
		[]table.ColumnSpec{
			{Name: "x", Type: datatypes.NewNumber()},
			{Name: "y", Type: datatypes.NewNumber()},
		},
		[][]any{
			{dec(t, "1"), dec(t, "2")},
			{dec(t, "2"), dec(t, "4")},
			{dec(t, "3"), dec(t, "6")},
			{dec(t, "4"), nil},
			{nil, dec(t, "8")},
		},
	)
	require.NoError(t, err)

	r := runNumber(t, tbl, aggregations.PearsonCorrelation("x", "y"))
	f, _ := r.Float64()
	assert.InDelta(t, 1.0, f, 1e-9)
}

func TestPearsonCorrelationErrors(t *testing.T) {
	constant, err := table.New(
		[]table.ColumnSpec{
			{Name: "x", Type: datatypes.NewNumber()},
			{Name: "y", Type: datatypes.NewNumber()},
		},
		[][]any{
			{dec(t, "5"), dec(t, "1")},
			{dec(t, "5"), dec(t, "2")},
			{dec(t, "5"), dec(t, "3")},
		},
	)
	require.NoError(t, err)

	_, err = constant.Aggregate(aggregations.PearsonCorrelation("x", "y"))
	var dErr *slateerrors.DivisionError
	assert.ErrorAs(t, err, &dErr)

	sparse, err := table.New(
		[]table.ColumnSpec{
			{Name: "x", Type: datatypes.NewNumber()},
			{Name: "y", Type: datatypes.NewNumber()},
		},
		[][]any{
			{dec(t, "1"), nil},
			{nil, dec(t, "2")},
			{dec(t, "3"), dec(t, "4")},
		},
	)
	require.NoError(t, err)

	_, err = sparse.Aggregate(aggregations.PearsonCorrelation("x", "y"))
	assert.Error(t, err)
}

func TestStdevOutliers(t *testing.T) {
	tbl := numTable(t, "10", "12", "11", "100", "null")

	inliers, err := aggregations.StdevOutliers(tbl, "x", 1, false)
	require.NoError(t, err)
	assert.Equal(t, 4, inliers.NumRows())

	// Nulls are never outliers, so rejection drops them too.
	outliers, err := aggregations.StdevOutliers(tbl, "x", 1, true)
	require.NoError(t, err)
	require.Equal(t, 1, outliers.NumRows())
	row, err := outliers.Row(0)
	require.NoError(t, err)
	assert.True(t, dec(t, "100").Equal(row.Number("x")))
}

func TestMADOutliers(t *testing.T) {
	tbl := numTable(t, "10", "12", "11", "100", "null")

	inliers, err := aggregations.MADOutliers(tbl, "x", 3, false)
	require.NoError(t, err)
	assert.Equal(t, 4, inliers.NumRows())

	outliers, err := aggregations.MADOutliers(tbl, "x", 3, true)
	require.NoError(t, err)
	require.Equal(t, 1, outliers.NumRows())
	row, err := outliers.Row(0)
	require.NoError(t, err)
	assert.True(t, dec(t, "100").Equal(row.Number("x")))
}
