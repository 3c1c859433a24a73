package computations

import (
	"github.com/shopspring/decimal"

	"github.com/paveg/slate/internal/datatypes"
	"github.com/paveg/slate/internal/errors"
	"github.com/paveg/slate/internal/table"
)

// Rank derives a column of competition ranks ordered by the named
// column, delegating to the table-level ranking algorithm: ties share a
// rank and subsequent ranks skip the positions the tie consumed.
func Rank(column string, desc bool) table.Computation {
	return &rankComputation{column: column, desc: desc}
}

// RankByKey derives competition ranks ordered by an extracted key.
func RankByKey(key table.KeyFunc, desc bool) table.Computation {
	return &rankComputation{key: key, desc: desc}
}

// RankByComparer derives competition ranks under a caller-supplied
// ordering.
func RankByComparer(key table.KeyFunc, cmp table.Comparer, desc bool) table.Computation {
	return &rankComputation{key: key, cmp: cmp, desc: desc}
}

type rankComputation struct {
	column string
	key    table.KeyFunc
	cmp    table.Comparer
	desc   bool
}

func (c *rankComputation) Name() string { return "Rank" }

func (c *rankComputation) ResultType(*table.Table) (datatypes.DataType, error) {
	return datatypes.NewNumber(), nil
}

func (c *rankComputation) Validate(t *table.Table) error {
	if c.key == nil && !t.HasColumn(c.column) {
		return errors.NewColumnDoesNotExistError("Rank", c.column)
	}
	return nil
}

func (c *rankComputation) Run(t *table.Table) ([]any, error) {
	var (
		ranks []int
		err   error
	)
	switch {
	case c.cmp != nil:
		ranks, err = t.RankByComparer(c.key, c.cmp, c.desc)
	case c.key != nil:
		ranks, err = t.RankByKey(c.key, c.desc)
	default:
		ranks, err = t.Rank(c.column, c.desc)
	}
	if err != nil {
		return nil, err
	}

	out := make([]any, len(ranks))
	for i, r := range ranks {
		out[i] = decimal.NewFromInt(int64(r))
	}
	return out, nil
}
