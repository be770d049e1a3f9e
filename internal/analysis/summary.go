package analysis

import (
	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat"

	"wellflow/internal/traverse"
)

// Summary condenses a traverse for listings and CLI output.
type Summary struct {
	Segments           int     `json:"segments"`
	WellheadPressure   float64 `json:"wellhead_pressure_psia"`
	BottomholePressure float64 `json:"bottomhole_pressure_psia"`
	PressureDrop       float64 `json:"pressure_drop_psi"`
	MeanGradient       float64 `json:"mean_gradient_psi_ft"`
	MinGradient        float64 `json:"min_gradient_psi_ft"`
	MaxGradient        float64 `json:"max_gradient_psi_ft"`
	MeanDensity        float64 `json:"mean_mixture_density_lbm_ft3"`
}

// Summarize computes gradient and density statistics over the marched steps.
func Summarize(res *traverse.Result) Summary {
	s := Summary{
		Segments:           len(res.Segments) - 1,
		WellheadPressure:   res.WellheadPressure(),
		BottomholePressure: res.BottomholePressure(),
	}
	s.PressureDrop = s.BottomholePressure - s.WellheadPressure
	if s.Segments < 1 {
		return s
	}

	// The last node carries no step.
	steps := res.Segments[:len(res.Segments)-1]
	grads := make([]float64, len(steps))
	dens := make([]float64, len(steps))
	for i, seg := range steps {
		grads[i] = seg.Gradient
		dens[i] = seg.MixtureDensity
	}
	s.MeanGradient = stat.Mean(grads, nil)
	s.MinGradient = floats.Min(grads)
	s.MaxGradient = floats.Max(grads)
	s.MeanDensity = stat.Mean(dens, nil)
	return s
}
