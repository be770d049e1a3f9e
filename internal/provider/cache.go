package provider

import (
	"context"
	"fmt"
	"math"
	"sync"
	"sync/atomic"

	"wellflow/internal/model"
)

// Cached memoizes an inner provider by pressure rounded to Resolution psia. A
// miss resolves the inner provider at the rounded pressure, so every caller sees
// the same sample for a key. Failures are not cached.
type Cached struct {
	inner      Provider
	resolution float64

	mu    sync.RWMutex
	store map[int64]model.FluidSample

	hits   atomic.Int64
	misses atomic.Int64
}

// NewCached wraps inner. A resolution <= 0 means 1 psia.
func NewCached(inner Provider, resolution float64) *Cached {
	if resolution <= 0 || math.IsNaN(resolution) || math.IsInf(resolution, 0) {
		resolution = 1
	}
	return &Cached{
		inner:      inner,
		resolution: resolution,
		store:      make(map[int64]model.FluidSample),
	}
}

func (c *Cached) Name() string { return "cached-" + c.inner.Name() }

func (c *Cached) Resolve(ctx context.Context, pressure float64) (model.FluidSample, error) {
	steps := math.Round(pressure / c.resolution)
	if math.IsNaN(steps) || math.IsInf(steps, 0) {
		return model.FluidSample{}, lookupErr(c.Name(), pressure, pressure, fmt.Errorf("pressure is not finite"))
	}
	key := int64(steps)

	c.mu.RLock()
	s, ok := c.store[key]
	c.mu.RUnlock()
	if ok {
		c.hits.Add(1)
		return s, nil
	}

	c.misses.Add(1)
	s, err := c.inner.Resolve(ctx, steps*c.resolution)
	if err != nil {
		return model.FluidSample{}, err
	}

	c.mu.Lock()
	c.store[key] = s
	c.mu.Unlock()
	return s, nil
}

// Stats reports cache hits, misses and the number of memoized pressures.
func (c *Cached) Stats() (hits, misses int64, size int) {
	c.mu.RLock()
	size = len(c.store)
	c.mu.RUnlock()
	return c.hits.Load(), c.misses.Load(), size
}

// Reset drops every memoized sample.
func (c *Cached) Reset() {
	c.mu.Lock()
	c.store = make(map[int64]model.FluidSample)
	c.mu.Unlock()
}
