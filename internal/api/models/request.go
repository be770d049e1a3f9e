package models

import (
	"wellflow/internal/config"
)

// TraverseRequest represents a request to run a pressure traverse.
// Well may be partial when WellID names a preset; its non-zero fields then
// override the preset.
type TraverseRequest struct {
	WellID   string                `json:"well_id,omitempty"`
	Well     config.WellConfig     `json:"well"`
	Fluid    config.FluidConfig    `json:"fluid"`
	Provider config.ProviderConfig `json:"provider"`
	Traverse config.TraverseConfig `json:"traverse"`
	Options  TraverseOptions       `json:"options"`
}

// TraverseOptions contains optional traverse execution options
type TraverseOptions struct {
	IncludeSegments bool   `json:"include_segments"`
	Save            bool   `json:"save"`
	Name            string `json:"name,omitempty"`
}

// Config assembles a configuration from the request sections.
func (r *TraverseRequest) Config() *config.Config {
	c := &config.Config{
		Well:     r.Well,
		Fluid:    r.Fluid,
		Provider: r.Provider,
		Traverse: r.Traverse,
	}
	// Table paths are never read on behalf of a request.
	c.Provider.Table = ""
	c.ApplyDefaults()
	return c
}

// VLPRequest sweeps the oil rate of a traverse. Either Rates or a
// RateMin/RateMax/Points span must be given.
type VLPRequest struct {
	TraverseRequest
	Rates       []float64 `json:"rates,omitempty"`
	RateMin     float64   `json:"rate_min,omitempty"`
	RateMax     float64   `json:"rate_max,omitempty"`
	Points      int       `json:"points,omitempty"`
	Concurrency int       `json:"concurrency,omitempty"`
}

// PVTTableRequest generates a PVT table from the correlations.
type PVTTableRequest struct {
	Fluid  config.FluidConfig  `json:"fluid"`
	Range  config.TableRange   `json:"range"`
	Solver config.SolverConfig `json:"solver"`
}

// ZFactorQuery is bound from the GET /zfactor query string.
type ZFactorQuery struct {
	Pressure    float64 `form:"pressure" binding:"required"`
	Temperature float64 `form:"temperature" binding:"required"`
	TempUnit    string  `form:"temp_unit"`
	GasSG       float64 `form:"gas_sg" binding:"required"`
}
