package data

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"sync"
	"time"

	"wellflow/internal/model"
)

// CacheEntry is one generated PVT table.
type CacheEntry struct {
	Rows      []model.FluidSample
	ExpiresAt time.Time
}

// TableCache keeps generated PVT tables in memory for a fixed TTL so repeated
// requests for the same fluid skip the Z-factor solves.
type TableCache struct {
	mu    sync.RWMutex
	store map[string]*CacheEntry
	ttl   time.Duration
	now   func() time.Time
}

func NewTableCache(ttl time.Duration) *TableCache {
	if ttl <= 0 {
		ttl = time.Hour
	}
	return &TableCache{
		store: make(map[string]*CacheEntry),
		ttl:   ttl,
		now:   time.Now,
	}
}

// Get retrieves a copy of the cached rows if available and not expired.
func (c *TableCache) Get(key string) ([]model.FluidSample, bool) {
	if c == nil {
		return nil, false
	}

	c.mu.RLock()
	defer c.mu.RUnlock()

	entry, exists := c.store[key]
	if !exists || c.now().After(entry.ExpiresAt) {
		return nil, false
	}
	return append([]model.FluidSample(nil), entry.Rows...), true
}

// Set stores a copy of rows under key.
func (c *TableCache) Set(key string, rows []model.FluidSample) {
	if c == nil {
		return
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	c.store[key] = &CacheEntry{
		Rows:      append([]model.FluidSample(nil), rows...),
		ExpiresAt: c.now().Add(c.ttl),
	}
}

func (c *TableCache) Len() int {
	if c == nil {
		return 0
	}
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.store)
}

// Clear removes all entries from the cache.
func (c *TableCache) Clear() {
	if c == nil {
		return
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	c.store = make(map[string]*CacheEntry)
}

// Run removes expired entries every interval until ctx is done.
func (c *TableCache) Run(ctx context.Context, interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			c.evictExpired()
		}
	}
}

func (c *TableCache) evictExpired() {
	c.mu.Lock()
	defer c.mu.Unlock()
	now := c.now()
	for key, entry := range c.store {
		if now.After(entry.ExpiresAt) {
			delete(c.store, key)
		}
	}
}

// TableKey is a deterministic key for a fluid and table range.
func TableKey(fluid model.FluidParams, from, to, step int) string {
	basis := fluid.GasDensityBasis
	if basis == "" {
		basis = model.GasDensityStandard
	}
	keyStr := fmt.Sprintf("%g:%g:%g:%g:%g:%s:%d:%d:%d",
		fluid.OilAPI,
		fluid.GasSG,
		fluid.WaterSG,
		fluid.BubblePoint,
		fluid.Temperature,
		basis,
		from, to, step,
	)

	hash := sha256.Sum256([]byte(keyStr))
	return hex.EncodeToString(hash[:])
}
