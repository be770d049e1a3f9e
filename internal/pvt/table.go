package pvt

import (
	"context"
	"fmt"
	"math"

	"wellflow/internal/model"
)

// Evaluate computes one fluid sample at pressure (psia) from the black-oil
// correlations. Below the bubble point the oil is saturated; above it Rs and Bo
// are held at their bubble-point values.
func Evaluate(fluid model.FluidParams, solver Solver, pressure float64) (model.FluidSample, error) {
	if err := fluid.Validate(); err != nil {
		return model.FluidSample{}, err
	}
	if !(pressure > 0) || math.IsInf(pressure, 0) {
		return model.FluidSample{}, fmt.Errorf("%w: pressure must be > 0 psia, got %g", model.ErrInvalidInput, pressure)
	}

	sol, err := solver.Solve(pressure, fluid.Temperature, fluid.GasSG)
	if err != nil {
		return model.FluidSample{}, fmt.Errorf("z-factor at %g psia: %w", pressure, err)
	}

	saturation := pressure
	if fluid.BubblePoint > 0 && saturation > fluid.BubblePoint {
		saturation = fluid.BubblePoint
	}
	rs := GasSolubility(saturation, fluid.Temperature, fluid.OilAPI, fluid.GasSG)
	bo := OilFVF(rs, fluid.Temperature, fluid.OilAPI, fluid.GasSG)

	gasDensity := StandardGasDensity(fluid.GasSG)
	if fluid.GasDensityBasis == model.GasDensityInSitu {
		gasDensity = GasDensity(pressure, fluid.Temperature, sol.Z, fluid.GasSG)
	}

	return model.FluidSample{
		Pressure:                 pressure,
		OilDensity:               OilDensity(fluid.OilSG(), fluid.GasSG, rs, bo),
		GasDensity:               gasDensity,
		GasSolubility:            rs,
		GasCompressibilityFactor: sol.Z,
		OilFVF:                   bo,
	}, nil
}

// BuildTable evaluates integer pressures from..to (inclusive) every step psia.
// The context is checked between rows.
func BuildTable(ctx context.Context, fluid model.FluidParams, solver Solver, from, to, step int) ([]model.FluidSample, error) {
	if from < 1 {
		return nil, fmt.Errorf("%w: table start pressure must be >= 1 psia, got %d", model.ErrInvalidInput, from)
	}
	if to < from {
		return nil, fmt.Errorf("%w: table end pressure %d is below start %d", model.ErrInvalidInput, to, from)
	}
	if step < 1 {
		return nil, fmt.Errorf("%w: table step must be >= 1 psia, got %d", model.ErrInvalidInput, step)
	}
	if err := fluid.Validate(); err != nil {
		return nil, err
	}

	rows := make([]model.FluidSample, 0, (to-from)/step+1)
	for p := from; p <= to; p += step {
		if err := ctx.Err(); err != nil {
			return nil, fmt.Errorf("build table at %d psia: %w", p, err)
		}
		s, err := Evaluate(fluid, solver, float64(p))
		if err != nil {
			return nil, err
		}
		rows = append(rows, s)
	}
	return rows, nil
}
