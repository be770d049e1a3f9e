package pvt

import (
	"fmt"
	"math"

	"wellflow/internal/model"
)

// fahrenheitOffset converts degR to degF in Standing's temperature terms.
const fahrenheitOffset = 460.67

// GasSolubility returns Standing's solution gas-oil ratio Rs (scf/stb) at
// pressure (psia) and temperature (degR). The correlation assumes saturated oil;
// callers cap the pressure at the bubble point.
func GasSolubility(pressure, temperature, oilAPI, gasSG float64) float64 {
	exponent := 0.0125*oilAPI - 0.00091*(temperature-fahrenheitOffset)
	return gasSG * math.Pow((pressure/18.2+1.4)*math.Pow(10, exponent), 1.2048)
}

// OilFVF returns Standing's saturated oil formation volume factor Bo (rb/stb) for
// solution gas rs (scf/stb) at temperature (degR).
func OilFVF(rs, temperature, oilAPI, gasSG float64) float64 {
	oilSG := 141.5 / (oilAPI + 131.5)
	return 0.9759 + 0.00012*math.Pow(rs*math.Sqrt(gasSG/oilSG)+1.25*(temperature-fahrenheitOffset), 1.2)
}

// GasFVF returns the gas formation volume factor Bg (rcf/scf),
// (14.7/520)*Z*T/P.
func GasFVF(pressure, temperature, z float64) (float64, error) {
	if !(pressure > 0) {
		return 0, fmt.Errorf("%w: pressure must be > 0 psia, got %g", model.ErrInvalidInput, pressure)
	}
	return standardRatio * z * temperature / pressure, nil
}
