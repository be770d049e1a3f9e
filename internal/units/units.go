// Package units holds the physical constants and unit conversions shared by the
// PVT correlations and the traverse engine. Everything here is read-only.
package units

import (
	"errors"
	"fmt"
	"strings"
)

// ErrUnknownUnit is returned for unit identifiers outside the supported set.
var ErrUnknownUnit = errors.New("unknown unit")

// Physical constants (field units).
const (
	GasConstant        = 10.73159 // psia-ft3/(R-lbmol)
	AirMolecularWeight = 28.9647  // lb/lb-mol
	WaterDensity       = 62.4     // lbm/ft3

	StandardPressure    = 14.7  // psia
	StandardTemperature = 520.0 // degR
)

// Length and volume multipliers.
const (
	InToFt = 1.0 / 12.0
	FtToIn = 12.0

	MToFt = 3.2808399
	FtToM = 1.0 / MToFt

	BblToFt3 = 5.6145833333333
	Ft3ToBbl = 1.0 / BblToFt3
)

// TempUnit is a temperature scale identifier.
type TempUnit string

const (
	Celsius    TempUnit = "C"
	Fahrenheit TempUnit = "F"
	Kelvin     TempUnit = "K"
	Rankine    TempUnit = "R"
)

// ParseTempUnit accepts "C", "degC", "celsius" and the like.
func ParseTempUnit(s string) (TempUnit, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "c", "degc", "celsius":
		return Celsius, nil
	case "f", "degf", "fahrenheit":
		return Fahrenheit, nil
	case "k", "kelvin":
		return Kelvin, nil
	case "r", "degr", "rankine":
		return Rankine, nil
	}
	return "", fmt.Errorf("%w: temperature %q", ErrUnknownUnit, s)
}

// ConvertTemperature converts between C, F, K and R using Celsius as the pivot.
func ConvertTemperature(v float64, from, to TempUnit) (float64, error) {
	if from == to {
		if !from.valid() {
			return 0, fmt.Errorf("%w: temperature %q", ErrUnknownUnit, from)
		}
		return v, nil
	}

	var c float64
	switch from {
	case Celsius:
		c = v
	case Fahrenheit:
		c = (v - 32) * 5 / 9
	case Kelvin:
		c = v - 273.15
	case Rankine:
		c = (v - 491.67) * 5 / 9
	default:
		return 0, fmt.Errorf("%w: temperature %q", ErrUnknownUnit, from)
	}

	switch to {
	case Celsius:
		return c, nil
	case Fahrenheit:
		return c*9/5 + 32, nil
	case Kelvin:
		return c + 273.15, nil
	case Rankine:
		return (c + 273.15) * 9 / 5, nil
	}
	return 0, fmt.Errorf("%w: temperature %q", ErrUnknownUnit, to)
}

// ToRankine is ConvertTemperature(v, from, Rankine).
func ToRankine(v float64, from TempUnit) (float64, error) {
	return ConvertTemperature(v, from, Rankine)
}

func (u TempUnit) valid() bool {
	switch u {
	case Celsius, Fahrenheit, Kelvin, Rankine:
		return true
	}
	return false
}

// LengthUnit is a length scale identifier for tubing lengths.
type LengthUnit string

const (
	Meter LengthUnit = "m"
	Foot  LengthUnit = "ft"
	Inch  LengthUnit = "in"
)

// ParseLengthUnit accepts "m", "ft", "in" and their long names.
func ParseLengthUnit(s string) (LengthUnit, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "m", "meter", "meters", "metre", "metres":
		return Meter, nil
	case "ft", "foot", "feet":
		return Foot, nil
	case "in", "inch", "inches":
		return Inch, nil
	}
	return "", fmt.Errorf("%w: length %q", ErrUnknownUnit, s)
}

// ToFeet converts a length in unit u to feet.
func ToFeet(v float64, u LengthUnit) (float64, error) {
	switch u {
	case Meter:
		return v * MToFt, nil
	case Foot:
		return v, nil
	case Inch:
		return v * InToFt, nil
	}
	return 0, fmt.Errorf("%w: length %q", ErrUnknownUnit, u)
}

// FromFeet converts a length in feet to unit u.
func FromFeet(ft float64, u LengthUnit) (float64, error) {
	switch u {
	case Meter:
		return ft * FtToM, nil
	case Foot:
		return ft, nil
	case Inch:
		return ft * FtToIn, nil
	}
	return 0, fmt.Errorf("%w: length %q", ErrUnknownUnit, u)
}
