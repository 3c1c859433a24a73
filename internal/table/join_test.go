package table_test

import (
	stderrors "errors"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/paveg/slate/internal/datatypes"
	slateerrors "github.com/paveg/slate/internal/errors"
	"github.com/paveg/slate/internal/table"
)

func ordersTable(t *testing.T) *table.Table {
	t.Helper()
	tbl, err := table.New(
		[]table.ColumnSpec{
			{Name: "order_id", Type: datatypes.NewText()},
			{Name: "customer", Type: datatypes.NewText()},
		},
		[][]any{
			{"o1", "alice"},
			{"o2", "bob"},
			{"o3", "carol"},
		},
	)
	require.NoError(t, err)
	return tbl
}

func customersTable(t *testing.T) *table.Table {
	t.Helper()
	tbl, err := table.New(
		[]table.ColumnSpec{
			{Name: "id", Type: datatypes.NewText()},
			{Name: "city", Type: datatypes.NewText()},
		},
		[][]any{
			{"alice", "Berlin"},
			{"carol", "Oslo"},
		},
	)
	require.NoError(t, err)
	return tbl
}

func TestInnerJoin(t *testing.T) {
	left := ordersTable(t)
	right := customersTable(t)

	joined, err := left.InnerJoin(right, "customer", "id")
	require.NoError(t, err)

	// bob has no match and is dropped; the right key column is dropped
	// because it duplicates the left one.
	assert.Equal(t, 2, joined.NumRows())
	assert.Equal(t, []string{"order_id", "customer", "city"}, joined.ColumnNames())

	row, err := joined.Row(0)
	require.NoError(t, err)
	assert.Equal(t, "o1", row.Text("order_id"))
	assert.Equal(t, "Berlin", row.Text("city"))
}

func TestLeftOuterJoin(t *testing.T) {
	left := ordersTable(t)
	right := customersTable(t)

	joined, err := left.LeftOuterJoin(right, "customer", "id")
	require.NoError(t, err)

	assert.Equal(t, 3, joined.NumRows())

	row, err := joined.Row(1)
	require.NoError(t, err)
	assert.Equal(t, "bob", row.Text("customer"))
	assert.True(t, row.IsNull("city"))
}

func TestJoinDuplicateRightKeys(t *testing.T) {
	left := ordersTable(t)
	right, err := table.New(
		[]table.ColumnSpec{
			{Name: "id", Type: datatypes.NewText()},
			{Name: "tag", Type: datatypes.NewText()},
		},
		[][]any{
			{"alice", "vip"},
			{"alice", "beta"},
		},
	)
	require.NoError(t, err)

	joined, err := left.InnerJoin(right, "customer", "id")
	require.NoError(t, err)

	// One output row per matching pair.
	assert.Equal(t, 2, joined.NumRows())
}

func TestJoinNullKeysMatch(t *testing.T) {
	left, err := table.New(
		[]table.ColumnSpec{
			{Name: "k", Type: datatypes.NewText()},
			{Name: "l", Type: datatypes.NewText()},
		},
		[][]any{{nil, "left-null"}, {"x", "left-x"}},
	)
	require.NoError(t, err)

	right, err := table.New(
		[]table.ColumnSpec{
			{Name: "rk", Type: datatypes.NewText()},
			{Name: "r", Type: datatypes.NewText()},
		},
		[][]any{{nil, "right-null"}},
	)
	require.NoError(t, err)

	joined, err := left.InnerJoin(right, "k", "rk")
	require.NoError(t, err)

	require.Equal(t, 1, joined.NumRows())
	row, err := joined.Row(0)
	require.NoError(t, err)
	assert.Equal(t, "left-null", row.Text("l"))
	assert.Equal(t, "right-null", row.Text("r"))
}

func TestJoinColumnNameCollision(t *testing.T) {
	left := ordersTable(t)
	right, err := table.New(
		[]table.ColumnSpec{
			{Name: "id", Type: datatypes.NewText()},
			{Name: "customer", Type: datatypes.NewText()},
		},
		[][]any{{"alice", "dup"}},
	)
	require.NoError(t, err)

	_, err = left.InnerJoin(right, "customer", "id")
	require.Error(t, err)
	var dupErr *slateerrors.DuplicateColumnNameError
	assert.True(t, stderrors.As(err, &dupErr))
}

func TestJoinUnknownColumns(t *testing.T) {
	left := ordersTable(t)
	right := customersTable(t)

	_, err := left.InnerJoin(right, "missing", "id")
	assert.Error(t, err)

	_, err = left.InnerJoin(right, "customer", "missing")
	assert.Error(t, err)
}

func TestInnerJoinByKey(t *testing.T) {
	left := ordersTable(t)
	right := customersTable(t)

	joined, err := left.InnerJoinByKey(right,
		func(r table.Row) any { return r.Text("customer") },
		func(r table.Row) any { return r.Text("id") },
	)
	require.NoError(t, err)

	// Key-function joins keep every right column.
	assert.Equal(t, 2, joined.NumRows())
	assert.Equal(t, []string{"order_id", "customer", "id", "city"}, joined.ColumnNames())
}

func TestLeftOuterJoinByKey(t *testing.T) {
	left := ordersTable(t)
	right := customersTable(t)

	joined, err := left.LeftOuterJoinByKey(right,
		func(r table.Row) any { return r.Text("customer") },
		func(r table.Row) any { return r.Text("id") },
	)
	require.NoError(t, err)

	assert.Equal(t, 3, joined.NumRows())
	row, err := joined.Row(1)
	require.NoError(t, err)
	assert.True(t, row.IsNull("id"))
	assert.True(t, row.IsNull("city"))
}

func TestJoinByDerivedIntKey(t *testing.T) {
	left := ordersTable(t)
	right := customersTable(t)

	nameLen := func(column string) table.KeyFunc {
		return func(r table.Row) any { return len(r.Text(column)) }
	}

	// alice and carol are five letters each; bob matches nothing.
	joined, err := left.InnerJoinByKey(right, nameLen("customer"), nameLen("id"))
	require.NoError(t, err)
	assert.Equal(t, 4, joined.NumRows())

	// Grouping by the same key function sees the same equality, and the
	// int keys surface as Numbers.
	groups, err := left.GroupByKey("name_len", datatypes.NewNumber(), nameLen("customer"))
	require.NoError(t, err)
	require.Equal(t, 2, groups.Len())

	keys := groups.Keys()
	assert.True(t, dec("5").Equal(keys[0].(decimal.Decimal)))
	assert.True(t, dec("3").Equal(keys[1].(decimal.Decimal)))
}
