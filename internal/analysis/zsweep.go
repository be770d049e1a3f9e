package analysis

import (
	"context"
	"fmt"

	"golang.org/x/sync/errgroup"
	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat"

	"wellflow/internal/model"
	"wellflow/internal/pvt"
)

// ZSeries is the compressibility factor over a pressure range for one gas gravity.
type ZSeries struct {
	GasSG      float64   `json:"gas_sg"`
	Pressures  []float64 `json:"pressures_psia"`
	Z          []float64 `json:"z"`
	Iterations []int     `json:"iterations"`
	Fallbacks  int       `json:"fallbacks"`
	Min        float64   `json:"min"`
	Max        float64   `json:"max"`
	Mean       float64   `json:"mean"`
}

// ZSweep solves Z at temperature (degR) for each gravity over pressures
// from..to every step psia. Gravities are solved concurrently; a solver failure
// at any point fails the sweep.
func ZSweep(ctx context.Context, solver pvt.Solver, temperature float64, gravities []float64, from, to, step float64) ([]ZSeries, error) {
	if len(gravities) == 0 {
		return nil, fmt.Errorf("%w: no gas gravities given", model.ErrInvalidInput)
	}
	if !(from > 0) || to < from || !(step > 0) {
		return nil, fmt.Errorf("%w: sweep needs 0 < from <= to and step > 0, got from=%g to=%g step=%g", model.ErrInvalidInput, from, to, step)
	}
	n := int((to-from)/step) + 1
	pressures := make([]float64, n)
	for i := range pressures {
		pressures[i] = from + float64(i)*step
	}

	out := make([]ZSeries, len(gravities))
	g, gctx := errgroup.WithContext(ctx)
	for i, sg := range gravities {
		g.Go(func() error {
			series := ZSeries{
				GasSG:      sg,
				Pressures:  pressures,
				Z:          make([]float64, n),
				Iterations: make([]int, n),
			}
			for j, p := range pressures {
				if err := gctx.Err(); err != nil {
					return err
				}
				sol, err := solver.Solve(p, temperature, sg)
				if err != nil {
					return fmt.Errorf("gas sg %g at %g psia: %w", sg, p, err)
				}
				series.Z[j] = sol.Z
				series.Iterations[j] = sol.Iterations
				if sol.Attempts > 1 {
					series.Fallbacks++
				}
			}
			series.Min = floats.Min(series.Z)
			series.Max = floats.Max(series.Z)
			series.Mean = stat.Mean(series.Z, nil)
			out[i] = series
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return out, nil
}
