package computations

import (
	"github.com/shopspring/decimal"

	"github.com/paveg/slate/internal/aggregations"
	"github.com/paveg/slate/internal/datatypes"
	"github.com/paveg/slate/internal/errors"
	"github.com/paveg/slate/internal/table"
)

// ZScores standardizes each value of a Number column against the column's
// sample mean and standard deviation. A column with zero deviation fails
// with a DivisionError before any output row is produced; null values
// yield null.
func ZScores(column string) table.Computation {
	return &zScoresComputation{column: column}
}

type zScoresComputation struct{ column string }

func (c *zScoresComputation) Name() string { return "ZScores" }

func (c *zScoresComputation) ResultType(*table.Table) (datatypes.DataType, error) {
	return datatypes.NewNumber(), nil
}

func (c *zScoresComputation) Validate(t *table.Table) error {
	return validateNumberColumn(t, "ZScores", c.column)
}

func (c *zScoresComputation) Run(t *table.Table) ([]any, error) {
	ci, err := numberColumnIndex(t, "ZScores", c.column)
	if err != nil {
		return nil, err
	}
	meanV, err := t.Aggregate(aggregations.Mean(c.column))
	if err != nil {
		return nil, err
	}
	stdevV, err := t.Aggregate(aggregations.StDev(c.column))
	if err != nil {
		return nil, err
	}
	mean := meanV.(decimal.Decimal)
	stdev := stdevV.(decimal.Decimal)
	if stdev.IsZero() {
		return nil, errors.NewDivisionError("ZScores", c.column, "z-scores are undefined for a column with zero deviation")
	}

	out := make([]any, t.NumRows())
	for i, row := range t.Rows() {
		v := row.Cells()[ci]
		if v == nil {
			continue
		}
		out[i] = v.(decimal.Decimal).Sub(mean).Div(stdev)
	}
	return out, nil
}

// PercentileRank expresses each value of a Number column as the
// percentile of the column's distribution it falls into, by locating it
// among one hundred interpolated percentile cut points. Null values yield
// null.
func PercentileRank(column string) table.Computation {
	return &percentileRankComputation{column: column}
}

type percentileRankComputation struct{ column string }

func (c *percentileRankComputation) Name() string { return "PercentileRank" }

func (c *percentileRankComputation) ResultType(*table.Table) (datatypes.DataType, error) {
	return datatypes.NewNumber(), nil
}

func (c *percentileRankComputation) Validate(t *table.Table) error {
	return validateNumberColumn(t, "PercentileRank", c.column)
}

func (c *percentileRankComputation) Run(t *table.Table) ([]any, error) {
	ci, err := numberColumnIndex(t, "PercentileRank", c.column)
	if err != nil {
		return nil, err
	}
	quantilesV, err := t.Aggregate(aggregations.NewQuantiles(c.column, 100))
	if err != nil {
		return nil, err
	}
	quantiles := quantilesV.(*aggregations.Quantiles)

	out := make([]any, t.NumRows())
	for i, row := range t.Rows() {
		v := row.Cells()[ci]
		if v == nil {
			continue
		}
		rank, err := quantiles.Locate(v.(decimal.Decimal))
		if err != nil {
			return nil, err
		}
		out[i] = decimal.NewFromInt(int64(rank))
	}
	return out, nil
}
