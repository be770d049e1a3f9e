package models

import (
	"time"

	"wellflow/internal/analysis"
	"wellflow/internal/model"
	"wellflow/internal/pvt"
	"wellflow/internal/traverse"
)

// TraverseResponse represents the response from a traverse run
type TraverseResponse struct {
	ID         string                    `json:"id,omitempty"`
	Status     string                    `json:"status"`
	Direction  model.Direction           `json:"direction"`
	Provider   string                    `json:"provider"`
	Summary    analysis.Summary          `json:"summary"`
	Violations []model.EnvelopeViolation `json:"envelope_violations,omitempty"`
	Segments   []traverse.Segment        `json:"segments,omitempty"`
}

// RunResponse is a stored traverse.
type RunResponse struct {
	CreatedAt time.Time        `json:"created_at"`
	Name      string           `json:"name,omitempty"`
	Well      model.WellConfig `json:"well"`
	TraverseResponse
}

// VLPResponse lists bottomhole pressure against oil rate.
type VLPResponse struct {
	Provider string              `json:"provider"`
	Points   []analysis.VLPPoint `json:"points"`
}

// ZFactorResponse wraps one solver outcome with its inputs.
type ZFactorResponse struct {
	Pressure    float64      `json:"pressure_psia"`
	Temperature float64      `json:"temperature_r"`
	GasSG       float64      `json:"gas_sg"`
	Solution    pvt.Solution `json:"solution"`
}

// PVTTableResponse carries a generated table.
type PVTTableResponse struct {
	Fluid  model.FluidParams   `json:"fluid"`
	Source string              `json:"source"`
	Count  int                 `json:"count"`
	Rows   []model.FluidSample `json:"rows"`
}

// ProviderInfo describes a property provider kind
type ProviderInfo struct {
	Kind        string          `json:"kind"`
	Description string          `json:"description"`
	NeedsTable  bool            `json:"needs_table"`
	Parameters  []ParameterInfo `json:"parameters,omitempty"`
}

// ParameterInfo describes a provider parameter
type ParameterInfo struct {
	Name        string      `json:"name"`
	Type        string      `json:"type"`
	Description string      `json:"description"`
	Default     interface{} `json:"default,omitempty"`
}

// WellInfo describes an available well preset
type WellInfo struct {
	ID    string    `json:"id"`
	Name  string    `json:"name"`
	File  string    `json:"file"`
	Specs WellSpecs `json:"specs"`
}

// WellSpecs contains the headline well parameters
type WellSpecs struct {
	OilRate          float64 `json:"oil_rate_stbd"`
	GasOilRatio      float64 `json:"gor_scf_stb"`
	WaterCut         float64 `json:"water_cut"`
	BoundaryPressure float64 `json:"boundary_pressure_psia"`
	TubingID         float64 `json:"tubing_id_in"`
	TubingLength     float64 `json:"tubing_length"`
	LengthUnit       string  `json:"length_unit,omitempty"`
}

// ErrorResponse represents an error response
type ErrorResponse struct {
	Error ErrorDetail `json:"error"`
}

// ErrorDetail contains error information
type ErrorDetail struct {
	Code    string                 `json:"code"`
	Message string                 `json:"message"`
	Details map[string]interface{} `json:"details,omitempty"`
}
