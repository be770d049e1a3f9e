package data

import (
	"context"
	"errors"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"wellflow/internal/model"
	"wellflow/internal/pvt"
	"wellflow/internal/traverse"
)

func rows() []model.FluidSample {
	return []model.FluidSample{
		{Pressure: 500, OilDensity: 48.78, GasDensity: 0.0534, GasSolubility: 92.4, GasCompressibilityFactor: 0.946, OilFVF: 1.0922},
		{Pressure: 501, OilDensity: 48.77, GasDensity: 0.0534, GasSolubility: 92.6, GasCompressibilityFactor: 0.9459, OilFVF: 1.0923},
	}
}

func TestReadTableCSV(t *testing.T) {
	in := "pressure, Oil Density,Gas Density,Gas Solubility,Gas Compressibility Factor,Oil FVF,Oil Viscosity\n" +
		"500,48.78,0.0534,92.4,0.946,1.0922,1.2\n" +
		"501,48.77,0.0534,92.6,0.9459,1.0923,1.2\n"
	got, err := ReadTableCSV(strings.NewReader(in))
	if err != nil {
		t.Fatalf("ReadTableCSV: %v", err)
	}
	if len(got) != 2 || got[1] != rows()[1] {
		t.Errorf("got %+v", got)
	}

	tests := []struct {
		name string
		in   string
	}{
		{"empty", ""},
		{"missing column", "Pressure,Oil Density\n500,48\n"},
		{"bad number", strings.Join(tableHeader, ",") + "\n500,x,1,1,1,1\n"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := ReadTableCSV(strings.NewReader(tt.in)); !errors.Is(err, model.ErrInvalidInput) {
				t.Errorf("expected ErrInvalidInput, got %v", err)
			}
		})
	}
}

func TestTableFiles(t *testing.T) {
	dir := t.TempDir()

	csvPath := filepath.Join(dir, "pvt.csv")
	if err := WriteTableCSV(csvPath, rows()); err != nil {
		t.Fatal(err)
	}
	got, err := LoadTable(csvPath)
	if err != nil {
		t.Fatal(err)
	}
	if len(got) != 2 || got[0] != rows()[0] {
		t.Errorf("csv rows = %+v", got)
	}

	jsonPath := filepath.Join(dir, "pvt.json")
	fluid := model.FluidParams{OilAPI: 37, GasSG: 0.7}
	if err := WriteTableJSON(jsonPath, &fluid, rows()); err != nil {
		t.Fatal(err)
	}
	got, err = LoadTable(jsonPath)
	if err != nil {
		t.Fatal(err)
	}
	if len(got) != 2 || got[1] != rows()[1] {
		t.Errorf("json rows = %+v", got)
	}

	if _, err := LoadTable(filepath.Join(dir, "pvt.xlsx")); !errors.Is(err, model.ErrInvalidInput) {
		t.Errorf("xlsx: %v", err)
	}
}

func TestTableCacheExpiry(t *testing.T) {
	c := NewTableCache(time.Minute)
	now := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	c.now = func() time.Time { return now }

	c.Set("k", rows())
	if _, ok := c.Get("k"); !ok {
		t.Fatal("expected hit")
	}
	now = now.Add(2 * time.Minute)
	if _, ok := c.Get("k"); ok {
		t.Error("expected expired entry to miss")
	}
	c.evictExpired()
	if c.Len() != 0 {
		t.Errorf("Len after eviction = %d", c.Len())
	}

	var nilCache *TableCache
	nilCache.Set("k", rows())
	if _, ok := nilCache.Get("k"); ok {
		t.Error("nil cache returned a hit")
	}
}

func TestTableCacheGetReturnsCopy(t *testing.T) {
	c := NewTableCache(time.Minute)
	c.Set("k", rows())

	got, ok := c.Get("k")
	if !ok || len(got) == 0 {
		t.Fatal("expected hit")
	}
	want := got[0].OilDensity
	got[0].OilDensity = -1

	again, _ := c.Get("k")
	if again[0].OilDensity != want {
		t.Errorf("cached row changed through a returned slice: %g, expected %g", again[0].OilDensity, want)
	}
}

func TestTableCacheSetStoresCopy(t *testing.T) {
	c := NewTableCache(time.Minute)
	in := rows()
	c.Set("k", in)
	in[0].OilDensity = -1

	got, ok := c.Get("k")
	if !ok {
		t.Fatal("expected hit")
	}
	if got[0].OilDensity != 48.78 {
		t.Errorf("cached row changed through the caller's slice: %g", got[0].OilDensity)
	}
}

func TestTableKey(t *testing.T) {
	f := model.FluidParams{OilAPI: 37, GasSG: 0.7, Temperature: 639.67}
	a := TableKey(f, 1, 2000, 1)
	f.GasDensityBasis = model.GasDensityStandard
	if b := TableKey(f, 1, 2000, 1); a != b {
		t.Error("empty basis and standard basis should share a key")
	}
	if c := TableKey(f, 1, 2000, 2); a == c {
		t.Error("different step produced the same key")
	}
	if len(a) != 64 {
		t.Errorf("key length = %d", len(a))
	}
}

func openStore(t *testing.T) *Store {
	t.Helper()
	s, err := OpenStore(context.Background(), filepath.Join(t.TempDir(), "wellflow.db"))
	if err != nil {
		t.Fatalf("OpenStore: %v", err)
	}
	t.Cleanup(func() { _ = s.Close() })
	return s
}

func TestStoreRuns(t *testing.T) {
	s := openStore(t)
	ctx := context.Background()

	res := &traverse.Result{
		Direction: model.TopDown,
		Provider:  "exact",
		Segments: []traverse.Segment{
			{Index: 0, Depth: 0, Pressure: 500, Gradient: 0.6},
			{Index: 1, Depth: 100, Pressure: 560},
		},
	}
	well := model.WellConfig{OilRate: 2000, Segments: 1}
	run, err := s.SaveRun(ctx, "reference", well, res)
	if err != nil {
		t.Fatalf("SaveRun: %v", err)
	}

	got, err := s.GetRun(ctx, run.ID)
	if err != nil {
		t.Fatalf("GetRun: %v", err)
	}
	if got.Name != "reference" || got.Well.OilRate != 2000 || len(got.Result.Segments) != 2 {
		t.Errorf("GetRun = %+v", got)
	}
	if got.Result.BottomholePressure() != 560 {
		t.Errorf("bhp = %g", got.Result.BottomholePressure())
	}

	list, err := s.ListRuns(ctx, 10)
	if err != nil {
		t.Fatal(err)
	}
	if len(list) != 1 || list[0].ID != run.ID || list[0].Segments != 1 || list[0].BottomholePressure != 560 {
		t.Errorf("ListRuns = %+v", list)
	}

	if _, err := s.GetRun(ctx, "00000000-0000-0000-0000-000000000000"); !errors.Is(err, ErrNotFound) {
		t.Errorf("unknown id: %v", err)
	}
	if _, err := s.GetRun(ctx, "nope"); !errors.Is(err, model.ErrInvalidInput) {
		t.Errorf("malformed id: %v", err)
	}
	if _, err := s.SaveRun(ctx, "", well, nil); !errors.Is(err, model.ErrInvalidInput) {
		t.Errorf("nil result: %v", err)
	}
}

func TestTablesGet(t *testing.T) {
	s := openStore(t)
	ctx := context.Background()
	fluid := model.FluidParams{OilAPI: 37, GasSG: 0.7, WaterSG: 1, BubblePoint: 2500, Temperature: 639.67}

	tables := &Tables{Cache: NewTableCache(time.Hour), Store: s}
	got, src, err := tables.Get(ctx, fluid, pvt.DefaultSolver(), 100, 200, 10)
	if err != nil {
		t.Fatal(err)
	}
	if src != SourceGenerated || len(got) != 11 {
		t.Errorf("first Get: source %s, %d rows", src, len(got))
	}

	if _, src, _ = tables.Get(ctx, fluid, pvt.DefaultSolver(), 100, 200, 10); src != SourceCache {
		t.Errorf("second Get source = %s", src)
	}

	tables.Cache.Clear()
	stored, src, err := tables.Get(ctx, fluid, pvt.DefaultSolver(), 100, 200, 10)
	if err != nil || src != SourceStore || len(stored) != 11 || stored[3] != got[3] {
		t.Errorf("store Get: source %s, err %v", src, err)
	}

	uncached := &Tables{}
	if _, src, err := uncached.Get(ctx, fluid, pvt.DefaultSolver(), 100, 110, 10); err != nil || src != SourceGenerated {
		t.Errorf("no cache or store: %s, %v", src, err)
	}
}
