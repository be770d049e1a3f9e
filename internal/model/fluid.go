package model

import (
	"fmt"
	"strings"
)

// FluidSample is the set of fluid properties the traverse needs at one pressure.
// All fields are functions of pressure at a fixed temperature and composition.
type FluidSample struct {
	Pressure                 float64 `json:"pressure"`                   // psia
	OilDensity               float64 `json:"oil_density"`                // lbm/ft3
	GasDensity               float64 `json:"gas_density"`                // lbm/ft3, see GasDensityBasis
	GasSolubility            float64 `json:"gas_solubility"`             // scf/stb
	GasCompressibilityFactor float64 `json:"gas_compressibility_factor"` // dimensionless
	OilFVF                   float64 `json:"oil_fvf"`                    // rb/stb
}

// Validate rejects samples the traverse could not use.
func (s FluidSample) Validate() error {
	switch {
	case !positive(s.Pressure):
		return fmt.Errorf("%w: sample pressure must be > 0, got %g", ErrInvalidInput, s.Pressure)
	case !positive(s.OilDensity):
		return fmt.Errorf("%w: oil density at %g psia must be > 0, got %g", ErrInvalidInput, s.Pressure, s.OilDensity)
	case s.GasDensity < 0 || !finite(s.GasDensity):
		return fmt.Errorf("%w: gas density at %g psia must be >= 0, got %g", ErrInvalidInput, s.Pressure, s.GasDensity)
	case s.GasSolubility < 0 || !finite(s.GasSolubility):
		return fmt.Errorf("%w: gas solubility at %g psia must be >= 0, got %g", ErrInvalidInput, s.Pressure, s.GasSolubility)
	case !positive(s.GasCompressibilityFactor):
		return fmt.Errorf("%w: compressibility factor at %g psia must be > 0, got %g", ErrInvalidInput, s.Pressure, s.GasCompressibilityFactor)
	case !positive(s.OilFVF):
		return fmt.Errorf("%w: oil FVF at %g psia must be > 0, got %g", ErrInvalidInput, s.Pressure, s.OilFVF)
	}
	return nil
}

// GasDensityBasis selects how the gas density column of a generated PVT table is
// expressed. The traverse multiplies it by the GOR (scf/stb), so Standard (mass of
// one standard cubic foot) keeps the mixture mass per stock-tank barrel constant.
type GasDensityBasis string

const (
	GasDensityStandard GasDensityBasis = "standard"
	GasDensityInSitu   GasDensityBasis = "in_situ"
)

// ParseGasDensityBasis maps "" to Standard.
func ParseGasDensityBasis(s string) (GasDensityBasis, error) {
	switch GasDensityBasis(strings.ToLower(strings.TrimSpace(s))) {
	case "", GasDensityStandard:
		return GasDensityStandard, nil
	case GasDensityInSitu, "insitu":
		return GasDensityInSitu, nil
	}
	return "", fmt.Errorf("%w: gas density basis must be standard or in_situ, got %q", ErrInvalidInput, s)
}

// FluidParams describes the black-oil fluid used to generate PVT properties.
// Units:
// - OilAPI: degAPI
// - GasSG, WaterSG: relative to air / fresh water
// - BubblePoint: psia; 0 means the oil is saturated at every pressure
// - Temperature: degR, the temperature the table is evaluated at
type FluidParams struct {
	OilAPI          float64         `json:"oil_api"`
	GasSG           float64         `json:"gas_sg"`
	WaterSG         float64         `json:"water_sg"`
	BubblePoint     float64         `json:"bubble_point_psia"`
	Temperature     float64         `json:"temperature_r"`
	GasDensityBasis GasDensityBasis `json:"gas_density_basis"`
}

func (f *FluidParams) Validate() error {
	if f == nil {
		return fmt.Errorf("%w: fluid params are nil", ErrInvalidInput)
	}
	if !positive(f.OilAPI) {
		return fmt.Errorf("%w: oil API must be > 0, got %g", ErrInvalidInput, f.OilAPI)
	}
	if !positive(f.GasSG) {
		return fmt.Errorf("%w: gas specific gravity must be > 0, got %g", ErrInvalidInput, f.GasSG)
	}
	if f.WaterSG < 0 || !finite(f.WaterSG) {
		return fmt.Errorf("%w: water specific gravity must be >= 0, got %g", ErrInvalidInput, f.WaterSG)
	}
	if f.BubblePoint < 0 || !finite(f.BubblePoint) {
		return fmt.Errorf("%w: bubble point must be >= 0 psia, got %g", ErrInvalidInput, f.BubblePoint)
	}
	if !positive(f.Temperature) {
		return fmt.Errorf("%w: fluid temperature must be > 0 degR, got %g", ErrInvalidInput, f.Temperature)
	}
	if _, err := ParseGasDensityBasis(string(f.GasDensityBasis)); err != nil {
		return err
	}
	return nil
}

// OilSG converts API gravity to specific gravity.
func (f *FluidParams) OilSG() float64 {
	return 141.5 / (f.OilAPI + 131.5)
}
