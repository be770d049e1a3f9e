package provider

import (
	"fmt"
	"strings"

	"wellflow/internal/model"
	"wellflow/internal/pvt"
)

// Kind names a resolution strategy.
type Kind string

const (
	KindExact       Kind = "exact"
	KindNearest     Kind = "nearest"
	KindInterpolate Kind = "interpolate"
	KindCorrelation Kind = "correlation"
)

// Info describes a provider kind for listings.
type Info struct {
	Kind        Kind   `json:"kind"`
	NeedsTable  bool   `json:"needs_table"`
	Description string `json:"description"`
}

// Kinds lists the available strategies in a stable order.
func Kinds() []Info {
	return []Info{
		{KindExact, true, "round to the nearest integer psia and require a table row at that pressure"},
		{KindNearest, true, "closest table row within a pressure tolerance"},
		{KindInterpolate, true, "piecewise-linear interpolation between table rows, no extrapolation"},
		{KindCorrelation, false, "Standing Rs/Bo and Hall-Yarborough Z evaluated on demand"},
	}
}

// ParseKind maps "" to exact.
func ParseKind(s string) (Kind, error) {
	switch k := Kind(strings.ToLower(strings.TrimSpace(s))); k {
	case "":
		return KindExact, nil
	case KindExact, KindNearest, KindInterpolate, KindCorrelation:
		return k, nil
	}
	return "", fmt.Errorf("%w: unknown provider kind %q (valid: exact, nearest, interpolate, correlation)", model.ErrInvalidInput, s)
}

// Options configures New. Table is required for the table-backed kinds, Fluid
// for correlation. Cache wraps the result in a Cached provider.
type Options struct {
	Kind            Kind
	Table           *Table
	Fluid           *model.FluidParams
	Solver          pvt.Solver
	Tolerance       float64
	Cache           bool
	CacheResolution float64
}

// New builds the provider for opts.Kind.
func New(opts Options) (Provider, error) {
	kind, err := ParseKind(string(opts.Kind))
	if err != nil {
		return nil, err
	}

	var p Provider
	switch kind {
	case KindCorrelation:
		if opts.Fluid == nil {
			return nil, fmt.Errorf("%w: provider %q needs fluid parameters", model.ErrInvalidInput, kind)
		}
		solver := opts.Solver
		if len(solver.Seeds) == 0 && !solver.IdealGasFallback {
			solver = pvt.DefaultSolver()
		}
		p, err = NewCorrelation(*opts.Fluid, solver)
	default:
		if opts.Table == nil {
			return nil, fmt.Errorf("%w: provider %q needs a PVT table", model.ErrInvalidInput, kind)
		}
		switch kind {
		case KindExact:
			p = NewExact(opts.Table)
		case KindNearest:
			p, err = NewNearest(opts.Table, opts.Tolerance)
		case KindInterpolate:
			p, err = NewInterpolate(opts.Table)
		}
	}
	if err != nil {
		return nil, err
	}

	if opts.Cache {
		return NewCached(p, opts.CacheResolution), nil
	}
	return p, nil
}
