package model

import (
	"fmt"
	"math"

	"wellflow/internal/units"
)

// Direction is the march direction of a traverse.
type Direction string

const (
	// TopDown starts at the wellhead (depth 0) and marches to the tubing shoe.
	TopDown Direction = "top_down"
	// BottomUp starts at the tubing shoe and marches to the wellhead.
	BottomUp Direction = "bottom_up"
)

// WellConfig describes one traverse run. It is immutable for the duration of the run.
// Units:
// - OilRate: stb/day
// - GasOilRatio: scf/stb
// - WaterCut: fraction of liquid at standard conditions, 0 <= wc < 1
// - BoundaryPressure: psia, known at segment 0 (wellhead for TopDown, bottomhole for BottomUp)
// - WellheadTemp: in TempUnit
// - TubingID: inches
// - TubingLength: in LengthUnit (measured length, vertical well)
type WellConfig struct {
	OilRate          float64          `json:"oil_rate_stbd"`
	GasOilRatio      float64          `json:"gor_scf_stb"`
	WaterCut         float64          `json:"water_cut"`
	BoundaryPressure float64          `json:"boundary_pressure_psia"`
	WellheadTemp     float64          `json:"wellhead_temp"`
	TempUnit         units.TempUnit   `json:"temp_unit"`
	TubingID         float64          `json:"tubing_id_in"`
	TubingLength     float64          `json:"tubing_length"`
	LengthUnit       units.LengthUnit `json:"length_unit"`
	WaterSG          float64          `json:"water_sg"`
	Segments         int              `json:"segments"`
	Direction        Direction        `json:"direction"`
}

// NewWellConfig fills defaults and validates.
func NewWellConfig(w WellConfig) (*WellConfig, error) {
	w.ApplyDefaults()
	if err := w.Validate(); err != nil {
		return nil, err
	}
	return &w, nil
}

// ApplyDefaults sets water SG 1.0, Celsius, meters and TopDown where unset.
func (w *WellConfig) ApplyDefaults() {
	if w.WaterSG == 0 {
		w.WaterSG = 1.0
	}
	if w.TempUnit == "" {
		w.TempUnit = units.Celsius
	}
	if w.LengthUnit == "" {
		w.LengthUnit = units.Meter
	}
	if w.Direction == "" {
		w.Direction = TopDown
	}
}

func (w *WellConfig) Validate() error {
	if w == nil {
		return fmt.Errorf("%w: well config is nil", ErrInvalidInput)
	}
	if !positive(w.OilRate) {
		return fmt.Errorf("%w: oil rate must be > 0, got %g", ErrInvalidInput, w.OilRate)
	}
	if w.GasOilRatio < 0 || !finite(w.GasOilRatio) {
		return fmt.Errorf("%w: gas-oil ratio must be >= 0, got %g", ErrInvalidInput, w.GasOilRatio)
	}
	if w.WaterCut < 0 || w.WaterCut >= 1 || !finite(w.WaterCut) {
		return fmt.Errorf("%w: water cut must be in [0, 1), got %g", ErrInvalidInput, w.WaterCut)
	}
	if !positive(w.BoundaryPressure) {
		return fmt.Errorf("%w: boundary pressure must be > 0 psia, got %g", ErrInvalidInput, w.BoundaryPressure)
	}
	tR, err := units.ToRankine(w.WellheadTemp, w.TempUnit)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidInput, err)
	}
	if !positive(tR) {
		return fmt.Errorf("%w: wellhead temperature must be above absolute zero, got %g %s", ErrInvalidInput, w.WellheadTemp, w.TempUnit)
	}
	if !positive(w.TubingID) {
		return fmt.Errorf("%w: tubing ID must be > 0 in, got %g", ErrInvalidInput, w.TubingID)
	}
	if _, err := units.ToFeet(w.TubingLength, w.LengthUnit); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidInput, err)
	}
	if !positive(w.TubingLength) {
		return fmt.Errorf("%w: tubing length must be > 0, got %g", ErrInvalidInput, w.TubingLength)
	}
	if !positive(w.WaterSG) {
		return fmt.Errorf("%w: water specific gravity must be > 0, got %g", ErrInvalidInput, w.WaterSG)
	}
	if w.Segments < 1 {
		return fmt.Errorf("%w: segment count must be >= 1, got %d", ErrInvalidInput, w.Segments)
	}
	if w.Direction != TopDown && w.Direction != BottomUp {
		return fmt.Errorf("%w: direction must be %q or %q, got %q", ErrInvalidInput, TopDown, BottomUp, w.Direction)
	}
	return nil
}

// WOR is the water-oil ratio wc/(1-wc). Undefined at wc = 1, which Validate rejects.
func (w *WellConfig) WOR() float64 {
	return w.WaterCut / (1 - w.WaterCut)
}

// GLR is the produced gas-liquid ratio in scf/stb of liquid.
func (w *WellConfig) GLR() float64 {
	return w.GasOilRatio * (1 - w.WaterCut)
}

func (w *WellConfig) TubingLengthFt() float64 {
	ft, _ := units.ToFeet(w.TubingLength, w.LengthUnit)
	return ft
}

func (w *WellConfig) TubingIDFt() float64 {
	return w.TubingID * units.InToFt
}

func (w *WellConfig) WellheadTempRankine() float64 {
	r, _ := units.ToRankine(w.WellheadTemp, w.TempUnit)
	return r
}

func positive(x float64) bool {
	return x > 0 && finite(x)
}

func finite(x float64) bool {
	return !math.IsNaN(x) && !math.IsInf(x, 0)
}
