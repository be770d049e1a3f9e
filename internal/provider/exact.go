package provider

import (
	"context"
	"math"

	"wellflow/internal/model"
)

// Exact rounds the pressure to the nearest integer psia, halves to even, and
// requires a table row at exactly that pressure. A gap in the table is a
// lookup failure.
type Exact struct {
	table *Table
	index map[int64]int
}

func NewExact(t *Table) *Exact {
	idx := make(map[int64]int, t.Len())
	for i, p := range t.pressures {
		if p == math.Trunc(p) {
			idx[int64(p)] = i
		}
	}
	return &Exact{table: t, index: idx}
}

func (p *Exact) Name() string { return string(KindExact) }

func (p *Exact) Resolve(ctx context.Context, pressure float64) (model.FluidSample, error) {
	if err := ctx.Err(); err != nil {
		return model.FluidSample{}, err
	}
	key := math.RoundToEven(pressure)
	if math.IsNaN(key) || math.IsInf(key, 0) {
		return model.FluidSample{}, lookupErr(p.Name(), pressure, key, nil)
	}
	i, ok := p.index[int64(key)]
	if !ok {
		return model.FluidSample{}, lookupErr(p.Name(), pressure, key, nil)
	}
	return p.table.rows[i], nil
}
