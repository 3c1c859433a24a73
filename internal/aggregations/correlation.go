package aggregations

import (
	"fmt"

	"github.com/shopspring/decimal"

	"github.com/paveg/slate/internal/datatypes"
	"github.com/paveg/slate/internal/errors"
	"github.com/paveg/slate/internal/table"
)

// PearsonCorrelation computes the Pearson correlation coefficient between
// two Number columns. Rows where either value is null are excluded
// pairwise.
func PearsonCorrelation(xColumn, yColumn string) table.Aggregation {
	return &correlationAggregation{x: xColumn, y: yColumn}
}

type correlationAggregation struct {
	x string
	y string
}

func (a *correlationAggregation) Name() string { return "PearsonCorrelation" }

func (a *correlationAggregation) CacheKey() string {
	return fmt.Sprintf("PearsonCorrelation(%s,%s)", a.x, a.y)
}

func (a *correlationAggregation) ResultType(*table.Table) (datatypes.DataType, error) {
	return datatypes.NewNumber(), nil
}

func (a *correlationAggregation) Validate(t *table.Table) error {
	if err := validateNumberColumn(t, "PearsonCorrelation", a.x); err != nil {
		return err
	}
	return validateNumberColumn(t, "PearsonCorrelation", a.y)
}

func (a *correlationAggregation) Run(t *table.Table) (any, error) {
	xcol, err := t.Column(a.x)
	if err != nil {
		return nil, err
	}
	ycol, err := t.Column(a.y)
	if err != nil {
		return nil, err
	}

	var xs, ys []decimal.Decimal
	for _, row := range t.Rows() {
		xv := row.Cells()[xcol.Index()]
		yv := row.Cells()[ycol.Index()]
		if xv == nil || yv == nil {
			continue
		}
		xs = append(xs, xv.(decimal.Decimal))
		ys = append(ys, yv.(decimal.Decimal))
	}
	if len(xs) < 2 {
		return nil, errors.NewValidationError("PearsonCorrelation", a.x, "needs at least two rows where both columns are non-null")
	}

	mx := meanOf(xs)
	my := meanOf(ys)
	cov := decimal.Zero
	vx := decimal.Zero
	vy := decimal.Zero
	for i := range xs {
		dx := xs[i].Sub(mx)
		dy := ys[i].Sub(my)
		cov = cov.Add(dx.Mul(dy))
		vx = vx.Add(dx.Mul(dx))
		vy = vy.Add(dy.Mul(dy))
	}
	if vx.IsZero() || vy.IsZero() {
		return nil, errors.NewDivisionError("PearsonCorrelation", a.x, "correlation is undefined when a column has zero variance")
	}
	sx, err := decimalSqrt(vx)
	if err != nil {
		return nil, err
	}
	sy, err := decimalSqrt(vy)
	if err != nil {
		return nil, err
	}
	return cov.Div(sx.Mul(sy)), nil
}
