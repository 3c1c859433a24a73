package table_test

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/paveg/slate/internal/datatypes"
	slateerrors "github.com/paveg/slate/internal/errors"
	"github.com/paveg/slate/internal/table"
)

// constantComputation emits a fixed slice of values for every table.
type constantComputation struct {
	values      []any
	dtype       datatypes.DataType
	validateErr error
}

func (c *constantComputation) Name() string { return "constant" }

func (c *constantComputation) ResultType(t *table.Table) (datatypes.DataType, error) {
	return c.dtype, nil
}

func (c *constantComputation) Validate(t *table.Table) error { return c.validateErr }

func (c *constantComputation) Run(t *table.Table) ([]any, error) { return c.values, nil }

// doublingComputation doubles an existing Number column, to prove each
// computation in a batch sees the columns produced before it.
type doublingComputation struct {
	column string
}

func (c *doublingComputation) Name() string { return "double" }

func (c *doublingComputation) ResultType(t *table.Table) (datatypes.DataType, error) {
	return datatypes.NewNumber(), nil
}

func (c *doublingComputation) Validate(t *table.Table) error {
	if !t.HasColumn(c.column) {
		return slateerrors.NewColumnDoesNotExistError("double", c.column)
	}
	return nil
}

func (c *doublingComputation) Run(t *table.Table) ([]any, error) {
	col, err := t.Column(c.column)
	if err != nil {
		return nil, err
	}
	out := make([]any, 0, t.NumRows())
	for _, v := range col.Values() {
		if v == nil {
			out = append(out, nil)
			continue
		}
		out = append(out, v.(decimal.Decimal).Mul(decimal.NewFromInt(2)))
	}
	return out, nil
}

func TestCompute(t *testing.T) {
	tbl := employeeTable(t)

	out, err := tbl.Compute(table.ComputeItem{
		Name: "bonus",
		Computation: &constantComputation{
			dtype:  datatypes.NewNumber(),
			values: []any{dec("10"), dec("20"), dec("30"), nil, dec("50")},
		},
	})
	require.NoError(t, err)

	assert.Equal(t, []string{"name", "department", "salary", "bonus"}, out.ColumnNames())
	col, err := out.Column("bonus")
	require.NoError(t, err)
	assert.Equal(t, 1, col.NullCount())

	// The source table is untouched.
	assert.False(t, tbl.HasColumn("bonus"))
	assert.Equal(t, 3, tbl.NumColumns())
}

func TestComputeSequencing(t *testing.T) {
	tbl := employeeTable(t)

	out, err := tbl.Compute(
		table.ComputeItem{
			Name: "base",
			Computation: &constantComputation{
				dtype:  datatypes.NewNumber(),
				values: []any{dec("1"), dec("2"), dec("3"), dec("4"), dec("5")},
			},
		},
		table.ComputeItem{Name: "doubled", Computation: &doublingComputation{column: "base"}},
	)
	require.NoError(t, err)

	row, err := out.Row(2)
	require.NoError(t, err)
	assert.True(t, dec("6").Equal(row.Number("doubled")))
}

func TestComputeDuplicateName(t *testing.T) {
	tbl := employeeTable(t)

	_, err := tbl.Compute(table.ComputeItem{
		Name: "salary",
		Computation: &constantComputation{
			dtype:  datatypes.NewNumber(),
			values: []any{nil, nil, nil, nil, nil},
		},
	})

	var dupErr *slateerrors.DuplicateColumnNameError
	require.ErrorAs(t, err, &dupErr)
	assert.Equal(t, "salary", dupErr.Name)
}

func TestComputeLengthMismatch(t *testing.T) {
	tbl := employeeTable(t)

	_, err := tbl.Compute(table.ComputeItem{
		Name: "short",
		Computation: &constantComputation{
			dtype:  datatypes.NewNumber(),
			values: []any{dec("1")},
		},
	})

	var vErr *slateerrors.ValidationError
	assert.ErrorAs(t, err, &vErr)
}

func TestComputeInvalidCellValue(t *testing.T) {
	tbl := employeeTable(t)

	_, err := tbl.Compute(table.ComputeItem{
		Name: "bad",
		Computation: &constantComputation{
			dtype:  datatypes.NewNumber(),
			values: []any{dec("1"), "two", dec("3"), dec("4"), dec("5")},
		},
	})

	var tmErr *slateerrors.TypeMismatchError
	require.ErrorAs(t, err, &tmErr)
	assert.Equal(t, "bad", tmErr.Column)
	assert.Equal(t, "Number", tmErr.Expected)
}

func TestComputeValidateError(t *testing.T) {
	tbl := employeeTable(t)

	_, err := tbl.Compute(table.ComputeItem{
		Name:        "x",
		Computation: &constantComputation{dtype: datatypes.NewNumber(), validateErr: assert.AnError},
	})
	assert.ErrorIs(t, err, assert.AnError)

	_, err = tbl.Compute(table.ComputeItem{Name: "y"})
	assert.Error(t, err)
}
