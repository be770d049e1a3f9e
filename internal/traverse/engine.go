// Package traverse marches the Poettmann-Carpenter pressure gradient along a
// vertical tubing string.
package traverse

import (
	"context"
	"fmt"
	"math"

	"go.uber.org/zap"
	"gonum.org/v1/gonum/floats"

	"wellflow/internal/model"
	"wellflow/internal/provider"
	"wellflow/internal/units"
)

// Poettmann-Carpenter correlation constants.
const (
	frictionScale  = 1.4737e-5
	frictionA      = 1.444
	frictionB      = 2.5
	kFactorDivisor = 7.7137e10
	psfToPsi       = 144.0
	bblToFt3       = 5.61458333
)

// Options configures an Engine.
type Options struct {
	// Envelope decides what happens when the well is outside the correlation's
	// fitted range. The zero value behaves as EnvelopeWarn.
	Envelope model.EnvelopePolicy
	Logger   *zap.SugaredLogger
}

type Engine struct {
	envelope model.EnvelopePolicy
	log      *zap.SugaredLogger
}

func New(opts Options) *Engine {
	policy := opts.Envelope
	if policy == "" {
		policy = model.EnvelopeWarn
	}
	logger := opts.Logger
	if logger == nil {
		logger = zap.NewNop().Sugar()
	}
	return &Engine{envelope: policy, log: logger}
}

// Run computes the traverse for well using prov for fluid properties. The
// boundary pressure is held at segment 0; every later node is derived from the
// previous one. A failed run returns no result.
func (e *Engine) Run(ctx context.Context, well model.WellConfig, prov provider.Provider) (*Result, error) {
	if prov == nil {
		return nil, fmt.Errorf("%w: PVT provider is nil", model.ErrInvalidInput)
	}
	well.ApplyDefaults()
	if err := well.Validate(); err != nil {
		return nil, err
	}

	violations := model.CheckEnvelope(well)
	if len(violations) > 0 {
		switch e.envelope {
		case model.EnvelopeReject:
			return nil, fmt.Errorf("%w: outside correlation envelope: %v", model.ErrInvalidInput, violations)
		case model.EnvelopeWarn:
			for _, v := range violations {
				e.log.Warnw("well outside Poettmann-Carpenter envelope", "field", v.Field, "value", v.Value, "limit", v.Limit)
			}
		}
	}

	length := well.TubingLengthFt()
	diameter := well.TubingIDFt()
	temperature := well.WellheadTempRankine()
	wor := well.WOR()
	n := well.Segments
	dh := length / float64(n)

	grid := floats.Span(make([]float64, n+1), 0, length)
	grid[n] = length
	sign := 1.0
	if well.Direction == model.BottomUp {
		floats.Reverse(grid)
		sign = -1.0
	}

	segments := make([]Segment, n+1)
	pressure := well.BoundaryPressure
	segments[0] = Segment{Index: 0, Depth: grid[0], Pressure: pressure}

	for i := 0; i < n; i++ {
		if err := ctx.Err(); err != nil {
			return nil, &SegmentError{Index: i, Depth: grid[i], Pressure: pressure, Err: err}
		}

		sample, err := prov.Resolve(ctx, pressure)
		if err != nil {
			return nil, &SegmentError{Index: i, Depth: grid[i], Pressure: pressure, Err: err}
		}

		step, err := gradient(well, sample, pressure, temperature, wor, diameter)
		if err != nil {
			return nil, &SegmentError{Index: i, Depth: grid[i], Pressure: pressure, Err: err}
		}

		seg := &segments[i]
		seg.MixtureMass = step.mass
		seg.MixtureVolume = step.volume
		seg.MixtureDensity = step.density
		seg.FrictionFactor = step.friction
		seg.KFactor = step.k
		seg.Gradient = step.grad

		next := pressure + sign*step.grad*dh
		if !(next > 0) || math.IsInf(next, 0) {
			return nil, &SegmentError{Index: i + 1, Depth: grid[i+1], Pressure: next,
				Err: fmt.Errorf("%w: pressure %g psia is not positive", model.ErrDomainViolation, next)}
		}
		e.log.Debugw("segment", "index", i, "depth_ft", grid[i], "pressure_psia", pressure, "lookup_psia", sample.Pressure, "gradient_psi_ft", step.grad)

		pressure = next
		segments[i+1] = Segment{Index: i + 1, Depth: grid[i+1], Pressure: pressure}
	}

	return &Result{
		Direction:      well.Direction,
		Provider:       prov.Name(),
		TubingLengthFt: length,
		SegmentLength:  dh,
		Segments:       segments,
		Violations:     violations,
	}, nil
}

type stepValues struct {
	mass, volume, density float64
	friction, k, grad     float64
}

// gradient evaluates the mixture properties and the pressure gradient (psi/ft)
// at pressure for one stock-tank barrel of oil.
func gradient(well model.WellConfig, s model.FluidSample, pressure, temperature, wor, diameter float64) (stepValues, error) {
	var v stepValues
	waterDensity := units.WaterDensity * well.WaterSG
	gor := well.GasOilRatio

	v.mass = bblToFt3*(s.OilDensity+wor*waterDensity) + gor*s.GasDensity
	v.volume = bblToFt3*(s.OilFVF+wor) +
		(gor-s.GasSolubility)*(units.StandardPressure/pressure)*(temperature/units.StandardTemperature)*s.GasCompressibilityFactor
	if !positiveFinite(v.mass) {
		return v, fmt.Errorf("%w: mixture mass %g lbm/stb", model.ErrDomainViolation, v.mass)
	}
	if !positiveFinite(v.volume) {
		return v, fmt.Errorf("%w: mixture volume %g ft3/stb", model.ErrDomainViolation, v.volume)
	}
	v.density = v.mass / v.volume

	dRhoV := frictionScale * v.mass * well.OilRate / diameter
	v.friction = math.Pow(10, frictionA-frictionB*math.Log10(dRhoV))
	v.k = v.friction * well.OilRate * well.OilRate * v.mass * v.mass / (kFactorDivisor * math.Pow(diameter, 5))
	v.grad = (v.density + v.k/v.density) / psfToPsi

	if !positiveFinite(v.density) || !positiveFinite(v.friction) || !positiveFinite(v.grad) {
		return v, fmt.Errorf("%w: mixture density %g lbm/ft3, friction factor %g, gradient %g psi/ft",
			model.ErrDomainViolation, v.density, v.friction, v.grad)
	}
	return v, nil
}

func positiveFinite(x float64) bool {
	return x > 0 && !math.IsInf(x, 0)
}
