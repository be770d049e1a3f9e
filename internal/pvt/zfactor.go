// Package pvt implements the black-oil fluid correlations: Standing's gas
// solubility and oil formation volume factor, gas formation volume factor and
// densities, and the Hall-Yarborough compressibility factor solver.
package pvt

import (
	"errors"
	"fmt"
	"math"

	"wellflow/internal/model"
)

const (
	DefaultSeed      = 0.8
	DefaultTolerance = 0.001
	DefaultMaxIter   = 100

	// WetGasThreshold switches Standing's pseudo-critical coefficients from the
	// dry-gas to the wet-gas set. The switch is a hard branch, so Z is
	// discontinuous at this gravity.
	WetGasThreshold = 0.75
)

// PseudoCritical holds the mixture pseudo-critical point.
type PseudoCritical struct {
	Temperature float64 // degR
	Pressure    float64 // psia
}

// PseudoCriticals returns Standing's pseudo-critical temperature and pressure
// for a gas of specific gravity sg.
func PseudoCriticals(sg float64) PseudoCritical {
	sg2 := sg * sg
	if sg < WetGasThreshold {
		return PseudoCritical{
			Temperature: 168 + 325*sg - 12.5*sg2,
			Pressure:    667 + 15*sg - 37.5*sg2,
		}
	}
	return PseudoCritical{
		Temperature: 187 + 330*sg - 71.5*sg2,
		Pressure:    706 - 51.7*sg - 11.1*sg2,
	}
}

// Solver finds the Hall-Yarborough reduced density by Newton-Raphson.
//
// Seeds are tried in order; when IdealGasFallback is set, one more attempt
// starts from the ideal-gas reduced density alpha*Ppr (Z = 1). A seed attempt
// fails when it exhausts MaxIter or when an iterate leaves (0, 1).
type Solver struct {
	Seeds            []float64
	IdealGasFallback bool
	Tolerance        float64
	MaxIter          int
}

// DefaultSolver starts from 0.8 and falls back to the ideal-gas seed.
func DefaultSolver() Solver {
	return Solver{
		Seeds:            []float64{DefaultSeed},
		IdealGasFallback: true,
		Tolerance:        DefaultTolerance,
		MaxIter:          DefaultMaxIter,
	}
}

// Solution is the outcome of one Solve call. Converged is false when every seed
// attempt failed; ReducedDensity then holds the last iterate of the last attempt.
type Solution struct {
	Z              float64 `json:"z"`
	ReducedDensity float64 `json:"reduced_density"`
	Iterations     int     `json:"iterations"`
	Seed           float64 `json:"seed"`
	Attempts       int     `json:"attempts"`
	Tpr            float64 `json:"tpr"`
	Ppr            float64 `json:"ppr"`
	Converged      bool    `json:"converged"`
}

// ConvergenceError reports a seed attempt that ran out of iterations.
type ConvergenceError struct {
	Seed       float64
	LastValue  float64
	Iterations int
}

func (e *ConvergenceError) Error() string {
	return fmt.Sprintf("reduced density from seed %g not converged after %d iterations (last %g)", e.Seed, e.Iterations, e.LastValue)
}

func (e *ConvergenceError) Unwrap() error {
	return model.ErrNonConvergence
}

// Solve returns the compressibility factor at pressure (psia), temperature (degR)
// and gas specific gravity sg. Pseudo-reduced temperatures below 1 are rejected
// with model.ErrDomainViolation. When no seed converges the returned error joins
// the per-seed failures, so errors.Is matches ErrNonConvergence or
// ErrDomainViolation depending on how the attempts failed.
func (s Solver) Solve(pressure, temperature, sg float64) (Solution, error) {
	if !(pressure > 0) || math.IsInf(pressure, 0) {
		return Solution{}, fmt.Errorf("%w: pressure must be > 0 psia, got %g", model.ErrInvalidInput, pressure)
	}
	if !(temperature > 0) || math.IsInf(temperature, 0) {
		return Solution{}, fmt.Errorf("%w: temperature must be > 0 degR, got %g", model.ErrInvalidInput, temperature)
	}
	if !(sg > 0) || math.IsInf(sg, 0) {
		return Solution{}, fmt.Errorf("%w: gas specific gravity must be > 0, got %g", model.ErrInvalidInput, sg)
	}
	s = s.withDefaults()

	pc := PseudoCriticals(sg)
	tpr := temperature / pc.Temperature
	ppr := pressure / pc.Pressure
	if tpr < 1 {
		return Solution{Tpr: tpr, Ppr: ppr}, fmt.Errorf("%w: pseudo-reduced temperature %.4f < 1 is outside the Hall-Yarborough range", model.ErrDomainViolation, tpr)
	}

	theta := 1 / tpr
	alpha := 0.06125 * theta * math.Exp(-1.2*(1-theta)*(1-theta))
	target := alpha * ppr

	seeds := append([]float64(nil), s.Seeds...)
	if s.IdealGasFallback {
		seeds = append(seeds, target)
	}

	sol := Solution{Tpr: tpr, Ppr: ppr}
	var errs []error
	for i, seed := range seeds {
		rho, iters, err := s.newton(seed, theta, target)
		sol.ReducedDensity = rho
		sol.Iterations = iters
		sol.Seed = seed
		sol.Attempts = i + 1
		if err == nil {
			sol.Z = target / rho
			sol.Converged = true
			return sol, nil
		}
		errs = append(errs, err)
	}
	return sol, errors.Join(errs...)
}

func (s Solver) withDefaults() Solver {
	if len(s.Seeds) == 0 && !s.IdealGasFallback {
		s.Seeds = []float64{DefaultSeed}
	}
	if s.Tolerance <= 0 {
		s.Tolerance = DefaultTolerance
	}
	if s.MaxIter <= 0 {
		s.MaxIter = DefaultMaxIter
	}
	return s
}

// newton iterates from seed until the step is below tolerance.
func (s Solver) newton(seed, theta, target float64) (float64, int, error) {
	rho := seed
	for i := 1; i <= s.MaxIter; i++ {
		if !(rho > 0 && rho < 1) {
			return rho, i - 1, fmt.Errorf("%w: reduced density iterate %g outside (0, 1) (seed %g, iteration %d)", model.ErrDomainViolation, rho, seed, i-1)
		}
		f, df := residual(rho, theta, target)
		step := f / df
		if math.IsNaN(step) || math.IsInf(step, 0) {
			return rho, i, fmt.Errorf("%w: singular Newton step at reduced density %g (seed %g)", model.ErrDomainViolation, rho, seed)
		}
		next := rho - step
		if math.Abs(next-rho) < s.Tolerance {
			if !(next > 0 && next < 1) {
				return next, i, fmt.Errorf("%w: reduced density %g outside (0, 1) (seed %g)", model.ErrDomainViolation, next, seed)
			}
			return next, i, nil
		}
		rho = next
	}
	return rho, s.MaxIter, &ConvergenceError{Seed: seed, LastValue: rho, Iterations: s.MaxIter}
}

// residual evaluates the Hall-Yarborough function F and its derivative at rho.
// rho must be in (0, 1).
func residual(rho, theta, target float64) (f, df float64) {
	t2 := theta * theta
	t3 := t2 * theta
	r2 := rho * rho
	r3 := r2 * rho
	r4 := r3 * rho
	omr := 1 - rho
	omr3 := omr * omr * omr

	exp := 2.18 + 2.82*theta

	f1 := -target + (rho+r2+r3-r4)/omr3
	f2 := -(14.76*theta - 9.76*t2 + 4.58*t3) * r2
	f3 := (90.7*theta - 242.2*t2 + 42.4*t3) * math.Pow(rho, exp)

	d1 := (1 + 4*rho + 4*r2 - 4*r3 + r4) / (omr3 * omr)
	d2 := 2 * f2 / rho
	d3 := exp * f3 / rho

	return f1 + f2 + f3, d1 + d2 + d3
}

// CompressibilityFactor solves with DefaultSolver.
func CompressibilityFactor(pressure, temperature, sg float64) (float64, error) {
	sol, err := DefaultSolver().Solve(pressure, temperature, sg)
	if err != nil {
		return 0, err
	}
	return sol.Z, nil
}
