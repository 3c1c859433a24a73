package computations_test

import (
	"testing"
	"time"

	"github.com/rickb777/date/v2"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/paveg/slate/internal/computations"
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

func columnValues(t *testing.T, tbl *table.Table, name string) []any {
	t.Helper()
	col, err := tbl.Column(name)
	require.NoError(t, err)
	return col.Values()
}

func assertNumberValues(t *testing.T, got []any, want []string) {
	t.Helper()
	require.Len(t, got, len(want))
	for i, w := range want {
		if w == "null" {
			assert.Nil(t, got[i], "row %d", i)
			continue
		}
		require.NotNil(t, got[i], "row %d", i)
		assert.True(t, dec(t, w).Equal(got[i].(decimal.Decimal)), "row %d: want %s, got %s", i, w, got[i])
	}
}

func TestChangeNumbers(t *testing.T) {
	tbl, err := table.New(
		[]table.ColumnSpec{
			{Name: "before", Type: datatypes.NewNumber()},
			{Name: "after", Type: datatypes.NewNumber()},
		},
		[][]any{
			{dec(t, "100"), dec(t, "150")},
			{dec(t, "80"), nil},
			{nil, dec(t, "10")},
			{dec(t, "7"), dec(t, "5")},
		},
	)
	require.NoError(t, err)

	out, err := tbl.Compute(table.ComputeItem{
		Name:        "delta",
		Computation: computations.Change("before", "after"),
	})
	require.NoError(t, err)

	col, err := out.Column("delta")
	require.NoError(t, err)
	assert.Equal(t, "Number", col.DataType().Name())
	assertNumberValues(t, col.Values(), []string{"50", "null", "null", "-2"})
}

func TestChangeDates(t *testing.T) {
	tbl, err := table.New(
		[]table.ColumnSpec{
			{Name: "start", Type: datatypes.NewDate()},
			{Name: "end", Type: datatypes.NewDate()},
		},
		[][]any{
			{date.New(2024, time.March, 10), date.New(2024, time.March, 15)},
			{date.New(2024, time.March, 10), nil},
		},
	)
	require.NoError(t, err)

	out, err := tbl.Compute(table.ComputeItem{
		Name:        "elapsed",
		Computation: computations.Change("start", "end"),
	})
	require.NoError(t, err)

	col, err := out.Column("elapsed")
	require.NoError(t, err)
	assert.Equal(t, "TimeDelta", col.DataType().Name())
	values := col.Values()
	assert.Equal(t, 120*time.Hour, values[0])
	assert.Nil(t, values[1])
}

func TestChangeDateTimes(t *testing.T) {
	t0 := time.Date(2024, time.March, 10, 8, 0, 0, 0, time.UTC)
	tbl, err := table.New(
		[]table.ColumnSpec{
			{Name: "start", Type: datatypes.NewDateTime()},
			{Name: "end", Type: datatypes.NewDateTime()},
		},
		[][]any{{t0, t0.Add(90 * time.Minute)}},
	)
	require.NoError(t, err)

	out, err := tbl.Compute(table.ComputeItem{
		Name:        "elapsed",
		Computation: computations.Change("start", "end"),
	})
	require.NoError(t, err)
	assert.Equal(t, 90*time.Minute, columnValues(t, out, "elapsed")[0])
}

func TestChangeDurations(t *testing.T) {
	tbl, err := table.New(
		[]table.ColumnSpec{
			{Name: "before", Type: datatypes.NewTimeDelta()},
			{Name: "after", Type: datatypes.NewTimeDelta()},
		},
		[][]any{{time.Hour, 150 * time.Minute}},
	)
	require.NoError(t, err)

	out, err := tbl.Compute(table.ComputeItem{
		Name:        "delta",
		Computation: computations.Change("before", "after"),
	})
	require.NoError(t, err)
	assert.Equal(t, 30*time.Minute, columnValues(t, out, "delta")[0])
}

func TestChangeMismatchedTypes(t *testing.T) {
	tbl, err := table.New(
		[]table.ColumnSpec{
			{Name: "n", Type: datatypes.NewNumber()},
			{Name: "d", Type: datatypes.NewDate()},
		},
		[][]any{{dec(t, "1"), date.New(2024, time.March, 10)}},
	)
	require.NoError(t, err)

	_, err = tbl.Compute(table.ComputeItem{
		Name:        "delta",
		Computation: computations.Change("n", "d"),
	})
	var tmErr *slateerrors.TypeMismatchError
	assert.ErrorAs(t, err, &tmErr)

	textTbl, err := table.New(
		[]table.ColumnSpec{
			{Name: "a", Type: datatypes.NewText()},
			{Name: "b", Type: datatypes.NewText()},
		},
		[][]any{{"x", "y"}},
	)
	require.NoError(t, err)

	_, err = textTbl.Compute(table.ComputeItem{
		Name:        "delta",
		Computation: computations.Change("a", "b"),
	})
	assert.Error(t, err)
}

func TestPercentChange(t *testing.T) {
	tbl, err := table.New(
		[]table.ColumnSpec{
			{Name: "before", Type: datatypes.NewNumber()},
			{Name: "after", Type: datatypes.NewNumber()},
		},
		[][]any{
			{dec(t, "100"), dec(t, "150")},
			{dec(t, "200"), dec(t, "150")},
			{nil, dec(t, "1")},
		},
	)
	require.NoError(t, err)

	out, err := tbl.Compute(table.ComputeItem{
		Name:        "pct",
		Computation: computations.PercentChange("before", "after"),
	})
	require.NoError(t, err)
	assertNumberValues(t, columnValues(t, out, "pct"), []string{"50", "-25", "null"})
}

func TestPercentChangeFromZero(t *testing.T) {
	tbl, err := table.New(
		[]table.ColumnSpec{
			{Name: "before", Type: datatypes.NewNumber()},
			{Name: "after", Type: datatypes.NewNumber()},
		},
		[][]any{{dec(t, "0"), dec(t, "5")}},
	)
	require.NoError(t, err)

	_, err = tbl.Compute(table.ComputeItem{
		Name:        "pct",
		Computation: computations.PercentChange("before", "after"),
	})
	var dErr *slateerrors.DivisionError
	assert.ErrorAs(t, err, &dErr)
}

func numColumn(t *testing.T, values ...string) *table.Table {
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
		[]table.ColumnSpec{{Name: "v", Type: datatypes.NewNumber()}},
		rows,
	)
	require.NoError(t, err)
	return tbl
}

func TestRowPercentChange(t *testing.T) {
	tbl := numColumn(t, "100", "110", "null", "121")

	out, err := tbl.Compute(table.ComputeItem{
		Name:        "pct",
		Computation: computations.RowPercentChange("v"),
	})
	require.NoError(t, err)

	// The first row and any row adjacent to a null yield null.
	assertNumberValues(t, columnValues(t, out, "pct"), []string{"null", "10", "null", "null"})
}

func TestRank(t *testing.T) {
	tbl := numColumn(t, "10", "20", "20", "30", "null")

	out, err := tbl.Compute(table.ComputeItem{
		Name:        "rank",
		Computation: computations.Rank("v", false),
	})
	require.NoError(t, err)
	assertNumberValues(t, columnValues(t, out, "rank"), []string{"1", "2", "2", "4", "5"})

	desc, err := tbl.Compute(table.ComputeItem{
		Name:        "rank",
		Computation: computations.Rank("v", true),
	})
	require.NoError(t, err)
	assertNumberValues(t, columnValues(t, desc, "rank"), []string{"5", "3", "3", "2", "1"})
}

func TestRankByKey(t *testing.T) {
	tbl, err := table.New(
		[]table.ColumnSpec{{Name: "name", Type: datatypes.NewText()}},
		[][]any{{"Charlie"}, {"alice"}, {"Bob"}},
	)
	require.NoError(t, err)

	out, err := tbl.Compute(table.ComputeItem{
		Name: "rank",
		Computation: computations.RankByKey(func(r table.Row) any {
			return len(r.Text("name"))
		}, false),
	})
	require.NoError(t, err)
	assertNumberValues(t, columnValues(t, out, "rank"), []string{"3", "2", "1"})
}

func TestRankMissingColumn(t *testing.T) {
	tbl := numColumn(t, "1")
	_, err := tbl.Compute(table.ComputeItem{
		Name:        "rank",
		Computation: computations.Rank("missing", false),
	})
	var cdErr *slateerrors.ColumnDoesNotExistError
	assert.ErrorAs(t, err, &cdErr)
}

func TestZScores(t *testing.T) {
	tbl := numColumn(t, "10", "20", "30", "null")

	out, err := tbl.Compute(table.ComputeItem{
		Name:        "z",
		Computation: computations.ZScores("v"),
	})
	require.NoError(t, err)

	values := columnValues(t, out, "z")
	require.Len(t, values, 4)
	assert.Nil(t, values[3])

	// Mean 20, sample stdev 10.
	f, _ := values[0].(decimal.Decimal).Float64()
	assert.InDelta(t, -1.0, f, 1e-9)
	f, _ = values[1].(decimal.Decimal).Float64()
	assert.InDelta(t, 0.0, f, 1e-9)
	f, _ = values[2].(decimal.Decimal).Float64()
	assert.InDelta(t, 1.0, f, 1e-9)
}

func TestZScoresZeroDeviation(t *testing.T) {
	tbl := numColumn(t, "5", "5", "5")

	_, err := tbl.Compute(table.ComputeItem{
		Name:        "z",
		Computation: computations.ZScores("v"),
	})
	var dErr *slateerrors.DivisionError
	assert.ErrorAs(t, err, &dErr)
}

func TestPercentileRank(t *testing.T) {
	tbl := numColumn(t, "1", "2", "3", "4", "null")

	out, err := tbl.Compute(table.ComputeItem{
		Name:        "pr",
		Computation: computations.PercentileRank("v"),
	})
	require.NoError(t, err)
	assertNumberValues(t, columnValues(t, out, "pr"), []string{"0", "33", "66", "100", "null"})
}

func TestComputationsValidateTypes(t *testing.T) {
	tbl, err := table.New(
		[]table.ColumnSpec{{Name: "s", Type: datatypes.NewText()}},
		[][]any{{"a"}},
	)
	require.NoError(t, err)

	for _, comp := range []table.Computation{
		computations.PercentChange("s", "s"),
		computations.RowPercentChange("s"),
		computations.ZScores("s"),
		computations.PercentileRank("s"),
	} {
		_, err := tbl.Compute(table.ComputeItem{Name: "out", Computation: comp})
		var tmErr *slateerrors.TypeMismatchError
		assert.ErrorAs(t, err, &tmErr, comp.Name())
	}
}
