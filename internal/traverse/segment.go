package traverse

import (
	"fmt"

	"wellflow/internal/model"
	"wellflow/internal/units"
)

// Segment is one node of the traverse. The step fields describe the step that
// leaves this node toward the next one and are zero on the last node.
type Segment struct {
	Index    int     `json:"index"`
	Depth    float64 `json:"depth_ft"`
	Pressure float64 `json:"pressure_psia"`

	MixtureMass    float64 `json:"mixture_mass_lbm_per_stb,omitempty"`
	MixtureVolume  float64 `json:"mixture_volume_ft3_per_stb,omitempty"`
	MixtureDensity float64 `json:"mixture_density_lbm_ft3,omitempty"`
	FrictionFactor float64 `json:"friction_factor,omitempty"`
	KFactor        float64 `json:"k_factor,omitempty"`
	Gradient       float64 `json:"gradient_psi_ft,omitempty"`
}

// Result is a completed traverse. Segments run from the boundary node
// (index 0) in march order.
type Result struct {
	Direction      model.Direction           `json:"direction"`
	Provider       string                    `json:"provider"`
	TubingLengthFt float64                   `json:"tubing_length_ft"`
	SegmentLength  float64                   `json:"segment_length_ft"`
	Segments       []Segment                 `json:"segments"`
	Violations     []model.EnvelopeViolation `json:"envelope_violations,omitempty"`
}

// WellheadPressure is the pressure at depth 0.
func (r *Result) WellheadPressure() float64 {
	if r.Direction == model.BottomUp {
		return r.Segments[len(r.Segments)-1].Pressure
	}
	return r.Segments[0].Pressure
}

// BottomholePressure is the pressure at the tubing shoe.
func (r *Result) BottomholePressure() float64 {
	if r.Direction == model.BottomUp {
		return r.Segments[0].Pressure
	}
	return r.Segments[len(r.Segments)-1].Pressure
}

func (r *Result) Depths() []float64 {
	out := make([]float64, len(r.Segments))
	for i, s := range r.Segments {
		out[i] = s.Depth
	}
	return out
}

func (r *Result) Pressures() []float64 {
	out := make([]float64, len(r.Segments))
	for i, s := range r.Segments {
		out[i] = s.Pressure
	}
	return out
}

// DepthsIn returns the segment depths converted to unit u.
func (r *Result) DepthsIn(u units.LengthUnit) ([]float64, error) {
	out := make([]float64, len(r.Segments))
	for i, s := range r.Segments {
		d, err := units.FromFeet(s.Depth, u)
		if err != nil {
			return nil, fmt.Errorf("%w: %v", model.ErrInvalidInput, err)
		}
		out[i] = d
	}
	return out, nil
}
