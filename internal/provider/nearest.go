package provider

import (
	"context"
	"fmt"
	"math"

	"wellflow/internal/model"
)

// Nearest returns the closest table row if it lies within Tolerance psia.
type Nearest struct {
	table     *Table
	tolerance float64
}

func NewNearest(t *Table, tolerance float64) (*Nearest, error) {
	if tolerance < 0 || math.IsNaN(tolerance) || math.IsInf(tolerance, 0) {
		return nil, fmt.Errorf("%w: nearest tolerance must be >= 0 psia, got %g", model.ErrInvalidInput, tolerance)
	}
	return &Nearest{table: t, tolerance: tolerance}, nil
}

func (p *Nearest) Name() string { return string(KindNearest) }

func (p *Nearest) Resolve(ctx context.Context, pressure float64) (model.FluidSample, error) {
	if err := ctx.Err(); err != nil {
		return model.FluidSample{}, err
	}
	if math.IsNaN(pressure) {
		return model.FluidSample{}, lookupErr(p.Name(), pressure, pressure, nil)
	}
	i := p.table.search(pressure)
	best := -1
	bestDist := math.Inf(1)
	for _, j := range []int{i - 1, i} {
		if j < 0 || j >= p.table.Len() {
			continue
		}
		if d := math.Abs(p.table.pressures[j] - pressure); d < bestDist {
			best, bestDist = j, d
		}
	}
	if best < 0 || bestDist > p.tolerance {
		key := pressure
		if best >= 0 {
			key = p.table.pressures[best]
		}
		return model.FluidSample{}, lookupErr(p.Name(), pressure, key,
			fmt.Errorf("nearest row is %g psia away, tolerance %g", bestDist, p.tolerance))
	}
	return p.table.rows[best], nil
}
