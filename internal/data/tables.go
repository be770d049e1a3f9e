package data

import (
	"context"
	"errors"

	"go.uber.org/zap"

	"wellflow/internal/model"
	"wellflow/internal/pvt"
)

// Source of a table returned by Tables.Get.
const (
	SourceCache     = "cache"
	SourceStore     = "store"
	SourceGenerated = "generated"
)

// Tables resolves generated PVT tables through the memory cache, then the
// SQLite store, then the correlations. Cache and Store may be nil.
type Tables struct {
	Cache *TableCache
	Store *Store
	Log   *zap.SugaredLogger
}

// Get returns the rows for fluid over [from, to] every step psia.
func (t *Tables) Get(ctx context.Context, fluid model.FluidParams, solver pvt.Solver, from, to, step int) ([]model.FluidSample, string, error) {
	key := TableKey(fluid, from, to, step)
	if rows, ok := t.Cache.Get(key); ok {
		return rows, SourceCache, nil
	}
	if t.Store != nil {
		rows, err := t.Store.LoadTable(ctx, key)
		switch {
		case err == nil:
			t.Cache.Set(key, rows)
			return rows, SourceStore, nil
		case !errors.Is(err, ErrNotFound):
			t.logger().Warnw("pvt table store read failed", "key", key, "error", err)
		}
	}

	rows, err := pvt.BuildTable(ctx, fluid, solver, from, to, step)
	if err != nil {
		return nil, "", err
	}
	t.Cache.Set(key, rows)
	if t.Store != nil {
		if err := t.Store.SaveTable(ctx, key, fluid, rows); err != nil {
			t.logger().Warnw("pvt table store write failed", "key", key, "error", err)
		}
	}
	return rows, SourceGenerated, nil
}

func (t *Tables) logger() *zap.SugaredLogger {
	if t.Log == nil {
		return zap.NewNop().Sugar()
	}
	return t.Log
}
