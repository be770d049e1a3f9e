package config

import (
	"context"
	"errors"
	"math"
	"os"
	"path/filepath"
	"testing"
	"time"

	"wellflow/internal/data"
	"wellflow/internal/model"
	"wellflow/internal/pvt"
	"wellflow/internal/units"
)

const wellPreset = `
well:
  name: reference
  oil_rate_stbd: 2000
  gor_scf_stb: 1200
  water_cut: 0.25
  boundary_pressure_psia: 500
  wellhead_temp: 39
  temp_unit: C
  tubing_id_in: 1.661
  tubing_length: 1650
  length_unit: m
  segments: 200
`

func writeFile(t *testing.T, dir, name, body string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(path, []byte(body), 0o644); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestLoadWithWellFile(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "wells/reference.yaml", wellPreset)
	path := writeFile(t, dir, "config.yaml", `
well_file: wells/reference.yaml
well:
  segments: 50
fluid:
  oil_api: 37
  gas_sg: 0.7
  bubble_point_psia: 2500
  temperature: 180
  temp_unit: F
provider:
  kind: correlation
  cache: true
traverse:
  envelope: off
  solver:
    seeds: [0.8, 0.5]
    ideal_gas_fallback: false
    max_iter: 50
`)

	c, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if c.Well.Name != "reference" || c.Well.OilRate != 2000 {
		t.Errorf("well file not merged: %+v", c.Well)
	}
	if c.Well.Segments != 50 {
		t.Errorf("segments override lost: %d", c.Well.Segments)
	}

	w, err := c.Well.ToModel()
	if err != nil {
		t.Fatal(err)
	}
	if w.TempUnit != units.Celsius || w.LengthUnit != units.Meter || w.Direction != model.TopDown {
		t.Errorf("unexpected well model %+v", w)
	}

	f, err := c.FluidParams()
	if err != nil {
		t.Fatal(err)
	}
	if math.Abs(f.Temperature-639.67) > 1e-9 || f.WaterSG != 1.0 || f.GasDensityBasis != model.GasDensityStandard {
		t.Errorf("unexpected fluid %+v", f)
	}

	s := c.Traverse.Solver.Solver()
	if len(s.Seeds) != 2 || s.IdealGasFallback || s.MaxIter != 50 || s.Tolerance != 0.001 {
		t.Errorf("unexpected solver %+v", s)
	}
	if c.Traverse.EnvelopePolicy() != model.EnvelopeOff {
		t.Errorf("envelope = %q", c.Traverse.EnvelopePolicy())
	}
	if r := c.Provider.TableRange; r.From != 1 || r.To != 5000 || r.Step != 1 {
		t.Errorf("table range defaults = %+v", r)
	}
}

func TestFluidTemperatureFallsBackToWellhead(t *testing.T) {
	c := Config{
		Well:  WellConfig{WellheadTemp: 39, TempUnit: "C"},
		Fluid: FluidConfig{OilAPI: 37, GasSG: 0.7},
	}
	f, err := c.FluidParams()
	if err != nil {
		t.Fatal(err)
	}
	if math.Abs(f.Temperature-561.87) > 1e-9 {
		t.Errorf("temperature = %g R, expected 561.87", f.Temperature)
	}
}

func TestValidateErrors(t *testing.T) {
	base := func() *Config {
		return &Config{
			Well: WellConfig{
				OilRate: 2000, GasOilRatio: 1200, WaterCut: 0.25, BoundaryPressure: 500,
				WellheadTemp: 39, TubingID: 1.661, TubingLength: 1650, Segments: 200,
			},
			Fluid: FluidConfig{OilAPI: 37, GasSG: 0.7},
		}
	}

	tests := []struct {
		name   string
		mutate func(*Config)
	}{
		{"water cut one", func(c *Config) { c.Well.WaterCut = 1 }},
		{"no segments", func(c *Config) { c.Well.Segments = -1 }},
		{"bad temp unit", func(c *Config) { c.Well.TempUnit = "Q" }},
		{"bad provider", func(c *Config) { c.Provider.Kind = "spline" }},
		{"bad envelope", func(c *Config) { c.Traverse.Envelope = "maybe" }},
		{"missing fluid", func(c *Config) { c.Fluid.GasSG = 0 }},
		{"bad range", func(c *Config) { c.Provider.TableRange = TableRange{From: 10, To: 5, Step: 1} }},
		{"bad ttl", func(c *Config) { c.Storage.CacheTTL = "soon" }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := base()
			tt.mutate(c)
			c.ApplyDefaults()
			if err := c.Validate(); !errors.Is(err, model.ErrInvalidInput) {
				t.Errorf("expected ErrInvalidInput, got %v", err)
			}
		})
	}

	c := base()
	c.ApplyDefaults()
	if err := c.Validate(); err != nil {
		t.Errorf("base config invalid: %v", err)
	}
}

func TestMergeWell(t *testing.T) {
	base := WellConfig{Name: "a", OilRate: 1000, Segments: 100, LengthUnit: "ft"}
	out := MergeWell(base, WellConfig{OilRate: 1500, Direction: "bottom_up"})
	if out.Name != "a" || out.OilRate != 1500 || out.Segments != 100 || out.LengthUnit != "ft" || out.Direction != "bottom_up" {
		t.Errorf("MergeWell = %+v", out)
	}
}

func TestStorageTTL(t *testing.T) {
	d, err := StorageConfig{}.TTL()
	if err != nil || d != time.Hour {
		t.Errorf("default TTL = %v, %v", d, err)
	}
	d, err = StorageConfig{CacheTTL: "15m"}.TTL()
	if err != nil || d != 15*time.Minute {
		t.Errorf("TTL = %v, %v", d, err)
	}
}

func TestBuildProvider(t *testing.T) {
	ctx := context.Background()
	fluidCfg := FluidConfig{OilAPI: 37, GasSG: 0.7, BubblePoint: 2500, Temperature: 180, TempUnit: "F"}
	fluid := model.FluidParams{OilAPI: 37, GasSG: 0.7, WaterSG: 1, BubblePoint: 2500, Temperature: 639.67}
	rows, err := pvt.BuildTable(ctx, fluid, pvt.DefaultSolver(), 900, 1100, 1)
	if err != nil {
		t.Fatal(err)
	}
	tablePath := filepath.Join(t.TempDir(), "pvt.csv")
	if err := data.WriteTableCSV(tablePath, rows); err != nil {
		t.Fatal(err)
	}

	tests := []struct {
		name     string
		provider ProviderConfig
		expected string
	}{
		{"correlation cached", ProviderConfig{Kind: "correlation", Cache: true}, "cached-correlation"},
		{"inline rows", ProviderConfig{Kind: "exact", Rows: rows}, "exact"},
		{"table file", ProviderConfig{Kind: "interpolate", Table: tablePath}, "interpolate"},
		{"generated", ProviderConfig{Kind: "nearest", TableRange: TableRange{From: 900, To: 1100, Step: 1}}, "nearest"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := &Config{Fluid: fluidCfg, Provider: tt.provider}
			c.ApplyDefaults()
			prov, err := c.BuildProvider(ctx, nil)
			if err != nil {
				t.Fatalf("BuildProvider: %v", err)
			}
			if prov.Name() != tt.expected {
				t.Errorf("Name = %q, expected %q", prov.Name(), tt.expected)
			}
			s, err := prov.Resolve(ctx, 1000)
			if err != nil {
				t.Fatalf("Resolve: %v", err)
			}
			if math.Abs(s.GasSolubility-206.7756) > 1e-3 {
				t.Errorf("Rs(1000) = %g, expected 206.7756", s.GasSolubility)
			}
		})
	}

	c := &Config{Provider: ProviderConfig{Kind: "exact"}}
	c.ApplyDefaults()
	if _, err := c.BuildProvider(ctx, nil); !errors.Is(err, model.ErrInvalidInput) {
		t.Errorf("expected ErrInvalidInput without fluid or table, got %v", err)
	}
}
