package table_test

import (
	stderrors "errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/paveg/slate/internal/config"
	"github.com/paveg/slate/internal/datatypes"
	slateerrors "github.com/paveg/slate/internal/errors"
	"github.com/paveg/slate/internal/table"
)

func TestSelect(t *testing.T) {
	tbl := employeeTable(t)

	selected, err := tbl.Select("salary", "name")
	require.NoError(t, err)

	assert.Equal(t, []string{"salary", "name"}, selected.ColumnNames())
	assert.Equal(t, 5, selected.NumRows())

	row, err := selected.Row(0)
	require.NoError(t, err)
	assert.Equal(t, "Alice", row.Text("name"))
	assert.True(t, dec("100000").Equal(row.Number("salary")))

	_, err = tbl.Select("name", "missing")
	require.Error(t, err)
	var colErr *slateerrors.ColumnDoesNotExistError
	assert.True(t, stderrors.As(err, &colErr))
}

func TestWhere(t *testing.T) {
	tbl := employeeTable(t)

	engineering := tbl.Where(func(r table.Row) bool {
		return r.Text("department") == "Engineering"
	})
	assert.Equal(t, 3, engineering.NumRows())

	none := tbl.Where(func(table.Row) bool { return false })
	assert.Equal(t, 0, none.NumRows())
}

func TestWhereParallel(t *testing.T) {
	// Forcing the threshold to 1 routes even a small table through the
	// worker pool; the result must match sequential evaluation exactly.
	original := config.GetGlobalConfig()
	defer config.SetGlobalConfig(original)

	cfg := original
	cfg.ParallelThreshold = 1
	config.SetGlobalConfig(cfg)

	tbl := employeeTable(t)
	filtered := tbl.Where(func(r table.Row) bool {
		return r.Text("department") == "Engineering"
	})

	var names []string
	require.NoError(t, filtered.Each(func(r table.Row) error {
		names = append(names, r.Text("name"))
		return nil
	}))
	assert.Equal(t, []string{"Alice", "Charlie", "Eve"}, names)
}

func TestLimitAndSlice(t *testing.T) {
	tbl := employeeTable(t)

	assert.Equal(t, 2, tbl.Limit(2).NumRows())
	assert.Equal(t, 5, tbl.Limit(10).NumRows())
	assert.Equal(t, 0, tbl.Limit(0).NumRows())

	sliced := tbl.Slice(1, 3)
	assert.Equal(t, 2, sliced.NumRows())
	row, err := sliced.Row(0)
	require.NoError(t, err)
	assert.Equal(t, "Bob", row.Text("name"))

	// Bounds clamp instead of failing.
	assert.Equal(t, 5, tbl.Slice(-2, 99).NumRows())
	assert.Equal(t, 0, tbl.Slice(4, 2).NumRows())
}

func TestDistinct(t *testing.T) {
	tbl, err := table.New(
		[]table.ColumnSpec{
			{Name: "fruit", Type: datatypes.NewText()},
			{Name: "count", Type: datatypes.NewNumber()},
		},
		[][]any{
			{"apple", dec("1")},
			{"apple", dec("1")},
			{"apple", dec("2")},
			{"pear", nil},
			{"pear", nil},
		},
	)
	require.NoError(t, err)

	distinct := tbl.Distinct()
	assert.Equal(t, 3, distinct.NumRows())

	// First occurrence wins, order preserved.
	var fruits []string
	require.NoError(t, distinct.Each(func(r table.Row) error {
		fruits = append(fruits, r.Text("fruit"))
		return nil
	}))
	assert.Equal(t, []string{"apple", "apple", "pear"}, fruits)
}

func TestDistinctBy(t *testing.T) {
	tbl := employeeTable(t)

	byDept, err := tbl.DistinctBy("department")
	require.NoError(t, err)
	assert.Equal(t, 3, byDept.NumRows())

	var names []string
	require.NoError(t, byDept.Each(func(r table.Row) error {
		names = append(names, r.Text("name"))
		return nil
	}))
	assert.Equal(t, []string{"Alice", "Bob", "Diana"}, names)

	_, err = tbl.DistinctBy("missing")
	assert.Error(t, err)
}

func TestDistinctByKey(t *testing.T) {
	tbl := employeeTable(t)

	byInitial := tbl.DistinctByKey(func(r table.Row) any {
		return r.Text("name")[:1]
	})
	assert.Equal(t, 5, byInitial.NumRows())

	byDeptInitial := tbl.DistinctByKey(func(r table.Row) any {
		return r.Text("department")[:1]
	})
	assert.Equal(t, 3, byDeptInitial.NumRows())
}
