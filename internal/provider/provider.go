// Package provider resolves fluid properties at a pressure. The traverse engine
// only sees the Provider interface; how a pressure maps to a sample (exact table
// row, nearest row, interpolation or live correlations) is chosen here.
package provider

import (
	"context"
	"errors"
	"fmt"

	"wellflow/internal/model"
)

// Provider returns the fluid sample at a pressure (psia). Implementations are
// read-only after construction and safe for concurrent use.
type Provider interface {
	Name() string
	Resolve(ctx context.Context, pressure float64) (model.FluidSample, error)
}

// LookupError reports a pressure a provider could not serve. It matches
// model.ErrPropertyLookup and, when set, the underlying cause.
type LookupError struct {
	Provider string
	Pressure float64
	Key      float64 // pressure actually looked up, after rounding
	Err      error
}

func (e *LookupError) Error() string {
	msg := fmt.Sprintf("%s: property not available at pressure %g psia", e.Provider, e.Pressure)
	if e.Key != e.Pressure {
		msg += fmt.Sprintf(" (key %g)", e.Key)
	}
	if e.Err != nil {
		msg += ": " + e.Err.Error()
	}
	return msg
}

func (e *LookupError) Unwrap() []error {
	if e.Err == nil {
		return []error{model.ErrPropertyLookup}
	}
	return []error{model.ErrPropertyLookup, e.Err}
}

var errOutOfRange = errors.New("outside table range")

func lookupErr(name string, pressure, key float64, err error) *LookupError {
	return &LookupError{Provider: name, Pressure: pressure, Key: key, Err: err}
}
