package provider

import (
	"context"
	"fmt"
	"math"

	"gonum.org/v1/gonum/interp"

	"wellflow/internal/model"
)

// Interpolate evaluates each property column piecewise-linearly between table
// rows. Pressures outside the tabulated range are lookup failures; there is no
// extrapolation.
type Interpolate struct {
	lo, hi float64

	oilDensity    interp.PiecewiseLinear
	gasDensity    interp.PiecewiseLinear
	gasSolubility interp.PiecewiseLinear
	z             interp.PiecewiseLinear
	oilFVF        interp.PiecewiseLinear
}

func NewInterpolate(t *Table) (*Interpolate, error) {
	if t.Len() < 2 {
		return nil, fmt.Errorf("%w: interpolation needs at least 2 table rows, got %d", model.ErrInvalidInput, t.Len())
	}
	n := t.Len()
	cols := make([][]float64, 5)
	for c := range cols {
		cols[c] = make([]float64, n)
	}
	for i, r := range t.rows {
		cols[0][i] = r.OilDensity
		cols[1][i] = r.GasDensity
		cols[2][i] = r.GasSolubility
		cols[3][i] = r.GasCompressibilityFactor
		cols[4][i] = r.OilFVF
	}

	p := &Interpolate{}
	p.lo, p.hi = t.Range()
	fits := []*interp.PiecewiseLinear{&p.oilDensity, &p.gasDensity, &p.gasSolubility, &p.z, &p.oilFVF}
	for c, pl := range fits {
		if err := pl.Fit(t.pressures, cols[c]); err != nil {
			return nil, fmt.Errorf("fit PVT column %d: %w", c, err)
		}
	}
	return p, nil
}

func (p *Interpolate) Name() string { return string(KindInterpolate) }

func (p *Interpolate) Resolve(ctx context.Context, pressure float64) (model.FluidSample, error) {
	if err := ctx.Err(); err != nil {
		return model.FluidSample{}, err
	}
	if math.IsNaN(pressure) || pressure < p.lo || pressure > p.hi {
		return model.FluidSample{}, lookupErr(p.Name(), pressure, pressure,
			fmt.Errorf("%w [%g, %g] psia", errOutOfRange, p.lo, p.hi))
	}
	return model.FluidSample{
		Pressure:                 pressure,
		OilDensity:               p.oilDensity.Predict(pressure),
		GasDensity:               p.gasDensity.Predict(pressure),
		GasSolubility:            p.gasSolubility.Predict(pressure),
		GasCompressibilityFactor: p.z.Predict(pressure),
		OilFVF:                   p.oilFVF.Predict(pressure),
	}, nil
}
