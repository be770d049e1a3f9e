package provider

import (
	"fmt"
	"sort"

	"wellflow/internal/model"
)

// Table is an immutable PVT table sorted by pressure.
type Table struct {
	rows      []model.FluidSample
	pressures []float64
}

// NewTable copies, validates and sorts rows. Duplicate pressures are rejected.
func NewTable(rows []model.FluidSample) (*Table, error) {
	if len(rows) == 0 {
		return nil, fmt.Errorf("%w: PVT table has no rows", model.ErrInvalidInput)
	}
	sorted := append([]model.FluidSample(nil), rows...)
	sort.Slice(sorted, func(i, j int) bool { return sorted[i].Pressure < sorted[j].Pressure })

	pressures := make([]float64, len(sorted))
	for i, r := range sorted {
		if err := r.Validate(); err != nil {
			return nil, fmt.Errorf("PVT table row %d: %w", i, err)
		}
		if i > 0 && r.Pressure == sorted[i-1].Pressure {
			return nil, fmt.Errorf("%w: PVT table has duplicate pressure %g psia", model.ErrInvalidInput, r.Pressure)
		}
		pressures[i] = r.Pressure
	}
	return &Table{rows: sorted, pressures: pressures}, nil
}

func (t *Table) Len() int { return len(t.rows) }

// Range returns the lowest and highest tabulated pressure.
func (t *Table) Range() (lo, hi float64) {
	return t.pressures[0], t.pressures[len(t.pressures)-1]
}

// Rows returns a copy of the sorted rows.
func (t *Table) Rows() []model.FluidSample {
	return append([]model.FluidSample(nil), t.rows...)
}

// search returns the index of the first row with pressure >= p.
func (t *Table) search(p float64) int {
	return sort.SearchFloat64s(t.pressures, p)
}
