package pvt

import (
	"wellflow/internal/units"
)

const standardRatio = units.StandardPressure / units.StandardTemperature

// GasDensity returns the in-situ gas density (lbm/ft3) from the real-gas law.
func GasDensity(pressure, temperature, z, gasSG float64) float64 {
	return units.AirMolecularWeight * gasSG * pressure / (z * units.GasConstant * temperature)
}

// StandardGasDensity is the mass of one standard cubic foot of gas (lbm/scf).
func StandardGasDensity(gasSG float64) float64 {
	return GasDensity(units.StandardPressure, units.StandardTemperature, 1, gasSG)
}

// OilDensity returns live oil density (lbm/ft3) from stock-tank oil gravity, the
// dissolved gas and the formation volume factor.
func OilDensity(oilSG, gasSG, rs, bo float64) float64 {
	return (units.WaterDensity*oilSG + 0.0136*rs*gasSG) / bo
}
