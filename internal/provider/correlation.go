package provider

import (
	"context"

	"wellflow/internal/model"
	"wellflow/internal/pvt"
)

// Correlation evaluates the black-oil correlations at the requested pressure.
// Solver failures surface as lookup errors that also match the solver's kind.
type Correlation struct {
	fluid  model.FluidParams
	solver pvt.Solver
}

func NewCorrelation(fluid model.FluidParams, solver pvt.Solver) (*Correlation, error) {
	if err := fluid.Validate(); err != nil {
		return nil, err
	}
	return &Correlation{fluid: fluid, solver: solver}, nil
}

func (p *Correlation) Name() string { return string(KindCorrelation) }

func (p *Correlation) Fluid() model.FluidParams { return p.fluid }

func (p *Correlation) Resolve(ctx context.Context, pressure float64) (model.FluidSample, error) {
	if err := ctx.Err(); err != nil {
		return model.FluidSample{}, err
	}
	s, err := pvt.Evaluate(p.fluid, p.solver, pressure)
	if err != nil {
		return model.FluidSample{}, lookupErr(p.Name(), pressure, pressure, err)
	}
	return s, nil
}
