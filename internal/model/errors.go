package model

import "errors"

// Error kinds. Callers match these with errors.Is; the packages that raise them
// wrap them with the segment, pressure or iterate that triggered the failure.
var (
	// ErrInvalidInput indicates an out-of-range configuration value.
	ErrInvalidInput = errors.New("invalid input")

	// ErrPropertyLookup indicates the PVT provider has no fluid sample for a pressure.
	ErrPropertyLookup = errors.New("property not available")

	// ErrNonConvergence indicates an iterative solver exhausted its iteration bound.
	ErrNonConvergence = errors.New("solver did not converge")

	// ErrDomainViolation indicates an intermediate value outside the domain of the next step.
	ErrDomainViolation = errors.New("domain violation")
)

// ErrorKind returns a stable, upper-case code for err, suitable for API responses.
func ErrorKind(err error) string {
	switch {
	case err == nil:
		return ""
	case errors.Is(err, ErrInvalidInput):
		return "INVALID_INPUT"
	case errors.Is(err, ErrPropertyLookup):
		return "PROPERTY_LOOKUP_FAILURE"
	case errors.Is(err, ErrNonConvergence):
		return "NON_CONVERGENCE"
	case errors.Is(err, ErrDomainViolation):
		return "DOMAIN_VIOLATION"
	default:
		return "INTERNAL_ERROR"
	}
}
