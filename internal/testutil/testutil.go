// Package testutil provides common testing utilities to reduce code duplication
// across test files in the slate library.
//
// It consolidates the recurring fixture patterns:
// - Standard employee test table creation with configurable shape
// - Decimal construction helpers for expected values
// - Common table assertions
package testutil

import (
	"testing"

	"github.com/paveg/slate/internal/datatypes"
	"github.com/paveg/slate/internal/table"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const (
	// defaultRowCount is the default number of rows in test tables.
	defaultRowCount = 4
)

// TestTableOption configures test table creation.
type TestTableOption func(*testTableConfig)

type testTableConfig struct {
	includeNulls bool
	rowCount     int
	withActive   bool
}

// WithNulls includes null values in test data.
func WithNulls() TestTableOption {
	return func(cfg *testTableConfig) {
		cfg.includeNulls = true
	}
}

// WithRowCount sets the number of rows in test data.
func WithRowCount(count int) TestTableOption {
	return func(cfg *testTableConfig) {
		cfg.rowCount = count
	}
}

// WithActiveColumn includes an 'active' boolean column.
func WithActiveColumn() TestTableOption {
	return func(cfg *testTableConfig) {
		cfg.withActive = true
	}
}

// Dec builds a decimal from its string form, failing the test on bad input.
func Dec(tb testing.TB, s string) decimal.Decimal {
	tb.Helper()
	d, err := decimal.NewFromString(s)
	require.NoError(tb, err, "invalid decimal literal %q", s)
	return d
}

// CreateTestTable creates a standard employee test table.
//
// Default table:
//   - name (Text): ["Alice", "Bob", "Charlie", "David"]
//   - age (Number): [25, 30, 35, 28]
//   - department (Text): ["Engineering", "Sales", "Engineering", "Marketing"]
//   - salary (Number): [100000, 80000, 120000, 75000]
//
// WithNulls replaces every third salary with null; WithActiveColumn adds a
// Boolean 'active' column.
func CreateTestTable(tb testing.TB, opts ...TestTableOption) *table.Table {
	tb.Helper()

	cfg := &testTableConfig{
		includeNulls: false,
		rowCount:     defaultRowCount,
		withActive:   false,
	}

	for _, opt := range opts {
		opt(cfg)
	}

	specs := []table.ColumnSpec{
		{Name: "name", Type: datatypes.NewText()},
		{Name: "age", Type: datatypes.NewNumber()},
		{Name: "department", Type: datatypes.NewText()},
		{Name: "salary", Type: datatypes.NewNumber()},
	}
	if cfg.withActive {
		specs = append(specs, table.ColumnSpec{Name: "active", Type: datatypes.NewBoolean()})
	}

	names := cycle(cfg.rowCount, "Alice", "Bob", "Charlie", "David", "Eve", "Frank", "Grace", "Henry")
	ages := cycle(cfg.rowCount, 25, 30, 35, 28, 32, 45, 29, 38)
	departments := cycle(cfg.rowCount, "Engineering", "Sales", "Engineering", "Marketing", "HR", "Finance", "Engineering", "Sales")
	salaries := cycle(cfg.rowCount, 100000, 80000, 120000, 75000, 90000, 110000, 95000, 85000)
	active := cycle(cfg.rowCount, true, true, false, true, true, false, true, false)

	rows := make([][]any, cfg.rowCount)
	for i := range rows {
		salary := any(decimal.NewFromInt(int64(salaries[i])))
		if cfg.includeNulls && i%3 == 2 {
			salary = nil
		}
		row := []any{
			names[i],
			decimal.NewFromInt(int64(ages[i])),
			departments[i],
			salary,
		}
		if cfg.withActive {
			row = append(row, active[i])
		}
		rows[i] = row
	}

	t, err := table.New(specs, rows)
	require.NoError(tb, err, "building test table")
	return t
}

// CreateSimpleTestTable creates a two column table for basic testing.
func CreateSimpleTestTable(tb testing.TB) *table.Table {
	tb.Helper()

	t, err := table.New(
		[]table.ColumnSpec{
			{Name: "name", Type: datatypes.NewText()},
			{Name: "age", Type: datatypes.NewNumber()},
		},
		[][]any{
			{"Alice", decimal.NewFromInt(25)},
			{"Bob", decimal.NewFromInt(30)},
		},
	)
	require.NoError(tb, err, "building simple test table")
	return t
}

// AssertTablesEqual performs deep equality comparison of two tables:
// same column names and type names, same row values cell by cell.
func AssertTablesEqual(t *testing.T, expected, actual *table.Table) {
	t.Helper()

	require.NotNil(t, expected, "expected table should not be nil")
	require.NotNil(t, actual, "actual table should not be nil")

	assert.Equal(t, expected.NumRows(), actual.NumRows(), "row counts should match")
	assert.Equal(t, expected.NumColumns(), actual.NumColumns(), "column counts should match")
	assert.Equal(t, expected.ColumnNames(), actual.ColumnNames(), "column names should match")

	for _, name := range expected.ColumnNames() {
		expectedCol, err := expected.Column(name)
		require.NoError(t, err)
		actualCol, err := actual.Column(name)
		require.NoError(t, err, "actual column %s should exist", name)

		assert.Equal(t, expectedCol.DataType().Name(), actualCol.DataType().Name(),
			"column %s type should match", name)
		assertValuesEqual(t, name, expectedCol.Values(), actualCol.Values())
	}
}

// AssertTableHasColumns verifies that a table has exactly the expected columns.
func AssertTableHasColumns(t *testing.T, tbl *table.Table, expectedColumns []string) {
	t.Helper()

	require.NotNil(t, tbl, "table should not be nil")

	assert.Len(t, tbl.ColumnNames(), len(expectedColumns), "column count should match")
	for _, col := range expectedColumns {
		assert.True(t, tbl.HasColumn(col), "table should have column %s", col)
	}
}

// AssertTableNotEmpty verifies that a table has rows and columns.
func AssertTableNotEmpty(t *testing.T, tbl *table.Table) {
	t.Helper()

	require.NotNil(t, tbl, "table should not be nil")
	assert.Positive(t, tbl.NumRows(), "table should not be empty")
	assert.Positive(t, tbl.NumColumns(), "table should have columns")
}

// AssertColumnValues compares a column's values against expectations, using
// decimal equality for Number cells.
func AssertColumnValues(t *testing.T, tbl *table.Table, column string, expected []any) {
	t.Helper()

	col, err := tbl.Column(column)
	require.NoError(t, err, "table should have column %s", column)
	assertValuesEqual(t, column, expected, col.Values())
}

func assertValuesEqual(t *testing.T, column string, expected, actual []any) {
	t.Helper()

	require.Len(t, actual, len(expected), "column %s length should match", column)
	for i := range expected {
		ed, eOK := expected[i].(decimal.Decimal)
		ad, aOK := actual[i].(decimal.Decimal)
		if eOK && aOK {
			assert.True(t, ed.Equal(ad),
				"column %s row %d: expected %s, got %s", column, i, ed, ad)
			continue
		}
		assert.Equal(t, expected[i], actual[i], "column %s row %d", column, i)
	}
}

func cycle[T any](count int, base ...T) []T {
	out := make([]T, count)
	for i := range out {
		out[i] = base[i%len(base)]
	}
	return out
}
