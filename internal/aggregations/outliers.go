package aggregations

import (
	"github.com/shopspring/decimal"

	"github.com/paveg/slate/internal/table"
)

// StdevOutliers filters a table by distance from the mean of a Number
// column: with reject false it keeps the rows within deviations sample
// standard deviations, with reject true it keeps only the outliers. Null
// values never count as outliers and are kept with the inliers.
func StdevOutliers(t *table.Table, column string, deviations int, reject bool) (*table.Table, error) {
	meanV, err := t.Aggregate(Mean(column))
	if err != nil {
		return nil, err
	}
	stdevV, err := t.Aggregate(StDev(column))
	if err != nil {
		return nil, err
	}
	center := meanV.(decimal.Decimal)
	bound := stdevV.(decimal.Decimal).Mul(decimal.NewFromInt(int64(deviations)))
	return filterByDistance(t, column, center, bound, reject)
}

// MADOutliers filters a table by distance from the median of a Number
// column, measured in median absolute deviations. The MAD is robust to
// the very outliers being hunted, which is why it exists alongside
// StdevOutliers.
func MADOutliers(t *table.Table, column string, deviations int, reject bool) (*table.Table, error) {
	medianV, err := t.Aggregate(Median(column))
	if err != nil {
		return nil, err
	}
	madV, err := t.Aggregate(MAD(column))
	if err != nil {
		return nil, err
	}
	center := medianV.(decimal.Decimal)
	bound := madV.(decimal.Decimal).Mul(decimal.NewFromInt(int64(deviations)))
	return filterByDistance(t, column, center, bound, reject)
}

func filterByDistance(t *table.Table, column string, center, bound decimal.Decimal, reject bool) (*table.Table, error) {
	col, err := t.Column(column)
	if err != nil {
		return nil, err
	}
	ci := col.Index()
	return t.Where(func(r table.Row) bool {
		v := r.Cells()[ci]
		if v == nil {
			return !reject
		}
		within := v.(decimal.Decimal).Sub(center).Abs().Cmp(bound) <= 0
		if reject {
			return !within
		}
		return within
	}), nil
}
