package model

import (
	"fmt"
	"strings"
)

// EnvelopePolicy controls what happens when a well falls outside the range the
// Poettmann-Carpenter correlation was fitted on.
type EnvelopePolicy string

const (
	EnvelopeOff    EnvelopePolicy = "off"
	EnvelopeWarn   EnvelopePolicy = "warn"
	EnvelopeReject EnvelopePolicy = "reject"
)

// ParseEnvelopePolicy maps "" to warn.
func ParseEnvelopePolicy(s string) (EnvelopePolicy, error) {
	switch EnvelopePolicy(strings.ToLower(strings.TrimSpace(s))) {
	case "", EnvelopeWarn:
		return EnvelopeWarn, nil
	case EnvelopeOff:
		return EnvelopeOff, nil
	case EnvelopeReject:
		return EnvelopeReject, nil
	}
	return "", fmt.Errorf("%w: envelope policy must be off, warn or reject, got %q", ErrInvalidInput, s)
}

// Correlation validity limits. Liquid viscosity (< 5 cp) is part of the published
// envelope but is not an input here.
const (
	MinTubingIDIn  = 2.0
	MaxTubingIDIn  = 3.0
	MinOilRateSTBD = 400.0
	MaxGLRSCFSTB   = 1500.0
)

// EnvelopeViolation describes one input outside the correlation envelope.
type EnvelopeViolation struct {
	Field string  `json:"field"`
	Value float64 `json:"value"`
	Limit string  `json:"limit"`
}

func (v EnvelopeViolation) String() string {
	return fmt.Sprintf("%s=%g outside %s", v.Field, v.Value, v.Limit)
}

// CheckEnvelope lists every envelope violation for w. An empty result means the
// inputs are within the fitted range.
func CheckEnvelope(w WellConfig) []EnvelopeViolation {
	var out []EnvelopeViolation
	if w.TubingID < MinTubingIDIn || w.TubingID > MaxTubingIDIn {
		out = append(out, EnvelopeViolation{
			Field: "tubing_id_in",
			Value: w.TubingID,
			Limit: fmt.Sprintf("[%g, %g] in", MinTubingIDIn, MaxTubingIDIn),
		})
	}
	if w.OilRate <= MinOilRateSTBD {
		out = append(out, EnvelopeViolation{
			Field: "oil_rate_stbd",
			Value: w.OilRate,
			Limit: fmt.Sprintf("> %g stb/d", MinOilRateSTBD),
		})
	}
	if glr := w.GLR(); glr >= MaxGLRSCFSTB {
		out = append(out, EnvelopeViolation{
			Field: "glr_scf_stb",
			Value: glr,
			Limit: fmt.Sprintf("< %g scf/stb", MaxGLRSCFSTB),
		})
	}
	return out
}
