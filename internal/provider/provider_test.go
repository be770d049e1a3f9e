package provider

import (
	"context"
	"errors"
	"math"
	"sync"
	"testing"

	"wellflow/internal/model"
	"wellflow/internal/pvt"
)

func sample(p float64) model.FluidSample {
	return model.FluidSample{
		Pressure:                 p,
		OilDensity:               50 - p/100,
		GasDensity:               0.05,
		GasSolubility:            p / 10,
		GasCompressibilityFactor: 0.9,
		OilFVF:                   1 + p/10000,
	}
}

func testTable(t *testing.T, pressures ...float64) *Table {
	t.Helper()
	rows := make([]model.FluidSample, len(pressures))
	for i, p := range pressures {
		rows[i] = sample(p)
	}
	tbl, err := NewTable(rows)
	if err != nil {
		t.Fatalf("NewTable: %v", err)
	}
	return tbl
}

func TestNewTable(t *testing.T) {
	tbl := testTable(t, 300, 100, 200)
	lo, hi := tbl.Range()
	if lo != 100 || hi != 300 || tbl.Len() != 3 {
		t.Errorf("Range = (%g, %g), Len = %d", lo, hi, tbl.Len())
	}

	if _, err := NewTable(nil); !errors.Is(err, model.ErrInvalidInput) {
		t.Errorf("empty table: %v", err)
	}
	if _, err := NewTable([]model.FluidSample{sample(100), sample(100)}); !errors.Is(err, model.ErrInvalidInput) {
		t.Errorf("duplicate pressure: %v", err)
	}
	bad := sample(100)
	bad.OilFVF = 0
	if _, err := NewTable([]model.FluidSample{bad}); !errors.Is(err, model.ErrInvalidInput) {
		t.Errorf("invalid row: %v", err)
	}
}

func TestExact(t *testing.T) {
	p := NewExact(testTable(t, 500, 501, 503))
	ctx := context.Background()

	tests := []struct {
		name     string
		pressure float64
		expected float64
		miss     bool
	}{
		{"exact row", 501, 501, false},
		{"rounds down", 500.49, 500, false},
		{"rounds up", 500.51, 501, false},
		{"half rounds to even", 500.5, 500, false},
		{"half to even lands in gap", 501.5, 0, true},
		{"gap", 502.2, 0, true},
		{"below table", 10, 0, true},
		{"NaN", math.NaN(), 0, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s, err := p.Resolve(ctx, tt.pressure)
			if tt.miss {
				if !errors.Is(err, model.ErrPropertyLookup) {
					t.Fatalf("expected ErrPropertyLookup, got %v", err)
				}
				var le *LookupError
				if !errors.As(err, &le) {
					t.Fatalf("expected *LookupError, got %T", err)
				}
				return
			}
			if err != nil {
				t.Fatalf("Resolve: %v", err)
			}
			if s.Pressure != tt.expected {
				t.Errorf("resolved row %g, expected %g", s.Pressure, tt.expected)
			}
		})
	}
}

func TestLookupErrorReportsKey(t *testing.T) {
	p := NewExact(testTable(t, 500))
	_, err := p.Resolve(context.Background(), 502.2)
	var le *LookupError
	if !errors.As(err, &le) {
		t.Fatalf("expected *LookupError, got %v", err)
	}
	if le.Pressure != 502.2 || le.Key != 502 || le.Provider != "exact" {
		t.Errorf("LookupError = %+v", le)
	}
}

func TestNearest(t *testing.T) {
	p, err := NewNearest(testTable(t, 100, 200, 300), 10)
	if err != nil {
		t.Fatal(err)
	}
	ctx := context.Background()
	s, err := p.Resolve(ctx, 205)
	if err != nil || s.Pressure != 200 {
		t.Errorf("Resolve(205) = %g, %v", s.Pressure, err)
	}
	s, err = p.Resolve(ctx, 292)
	if err != nil || s.Pressure != 300 {
		t.Errorf("Resolve(292) = %g, %v", s.Pressure, err)
	}
	if _, err := p.Resolve(ctx, 250); !errors.Is(err, model.ErrPropertyLookup) {
		t.Errorf("Resolve(250) expected lookup failure, got %v", err)
	}
	if _, err := p.Resolve(ctx, 311); !errors.Is(err, model.ErrPropertyLookup) {
		t.Errorf("Resolve(311) expected lookup failure, got %v", err)
	}
	if _, err := NewNearest(testTable(t, 100), -1); !errors.Is(err, model.ErrInvalidInput) {
		t.Errorf("negative tolerance: %v", err)
	}
}

func TestInterpolate(t *testing.T) {
	p, err := NewInterpolate(testTable(t, 100, 200, 400))
	if err != nil {
		t.Fatal(err)
	}
	ctx := context.Background()
	s, err := p.Resolve(ctx, 300)
	if err != nil {
		t.Fatal(err)
	}
	// Columns are linear in pressure, so interpolation is exact.
	want := sample(300)
	if math.Abs(s.OilDensity-want.OilDensity) > 1e-9 || math.Abs(s.GasSolubility-want.GasSolubility) > 1e-9 ||
		math.Abs(s.OilFVF-want.OilFVF) > 1e-12 || s.Pressure != 300 {
		t.Errorf("Resolve(300) = %+v, expected %+v", s, want)
	}
	if _, err := p.Resolve(ctx, 99); !errors.Is(err, model.ErrPropertyLookup) {
		t.Errorf("below range: %v", err)
	}
	if _, err := p.Resolve(ctx, 401); !errors.Is(err, model.ErrPropertyLookup) {
		t.Errorf("above range: %v", err)
	}
	if _, err := NewInterpolate(testTable(t, 100)); !errors.Is(err, model.ErrInvalidInput) {
		t.Errorf("single row: %v", err)
	}
}

func testFluid() model.FluidParams {
	return model.FluidParams{OilAPI: 37, GasSG: 0.7, WaterSG: 1, BubblePoint: 2500, Temperature: 639.67}
}

func TestCorrelation(t *testing.T) {
	p, err := NewCorrelation(testFluid(), pvt.DefaultSolver())
	if err != nil {
		t.Fatal(err)
	}
	s, err := p.Resolve(context.Background(), 500)
	if err != nil {
		t.Fatal(err)
	}
	if math.Abs(s.GasSolubility-92.3975) > 1e-3 {
		t.Errorf("Rs = %g", s.GasSolubility)
	}

	cold := testFluid()
	cold.Temperature = 300
	p, err = NewCorrelation(cold, pvt.DefaultSolver())
	if err != nil {
		t.Fatal(err)
	}
	_, err = p.Resolve(context.Background(), 500)
	if !errors.Is(err, model.ErrPropertyLookup) || !errors.Is(err, model.ErrDomainViolation) {
		t.Errorf("expected lookup failure caused by domain violation, got %v", err)
	}
}

type countingProvider struct {
	mu    sync.Mutex
	calls int
}

func (c *countingProvider) Name() string { return "counting" }

func (c *countingProvider) Resolve(_ context.Context, p float64) (model.FluidSample, error) {
	c.mu.Lock()
	c.calls++
	c.mu.Unlock()
	if p > 1000 {
		return model.FluidSample{}, lookupErr(c.Name(), p, p, nil)
	}
	return sample(p), nil
}

func TestCached(t *testing.T) {
	inner := &countingProvider{}
	c := NewCached(inner, 0)
	ctx := context.Background()

	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for p := 500.0; p < 510; p += 0.25 {
				if _, err := c.Resolve(ctx, p); err != nil {
					t.Error(err)
				}
			}
		}()
	}
	wg.Wait()

	hits, misses, size := c.Stats()
	if size != 11 {
		t.Errorf("size = %d, expected 11 keys (500..510)", size)
	}
	if hits+misses != 8*40 {
		t.Errorf("hits+misses = %d", hits+misses)
	}

	s, err := c.Resolve(ctx, 504.9)
	if err != nil || s.Pressure != 505 {
		t.Errorf("Resolve(504.9) = %g, %v; expected the 505 sample", s.Pressure, err)
	}

	if _, err := c.Resolve(ctx, 2000); !errors.Is(err, model.ErrPropertyLookup) {
		t.Errorf("expected inner failure, got %v", err)
	}
	_, _, size = c.Stats()
	if size != 11 {
		t.Errorf("failure was cached, size = %d", size)
	}

	c.Reset()
	if _, _, size := c.Stats(); size != 0 {
		t.Errorf("size after Reset = %d", size)
	}
	if c.Name() != "cached-counting" {
		t.Errorf("Name = %q", c.Name())
	}
}

func TestNew(t *testing.T) {
	tbl := testTable(t, 100, 200)
	fluid := testFluid()

	tests := []struct {
		name    string
		opts    Options
		want    string
		wantErr bool
	}{
		{"default exact", Options{Table: tbl}, "exact", false},
		{"nearest", Options{Kind: KindNearest, Table: tbl, Tolerance: 5}, "nearest", false},
		{"interpolate", Options{Kind: KindInterpolate, Table: tbl}, "interpolate", false},
		{"correlation", Options{Kind: KindCorrelation, Fluid: &fluid}, "correlation", false},
		{"cached correlation", Options{Kind: KindCorrelation, Fluid: &fluid, Cache: true}, "cached-correlation", false},
		{"unknown kind", Options{Kind: "magic", Table: tbl}, "", true},
		{"table missing", Options{Kind: KindExact}, "", true},
		{"fluid missing", Options{Kind: KindCorrelation}, "", true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p, err := New(tt.opts)
			if tt.wantErr {
				if !errors.Is(err, model.ErrInvalidInput) {
					t.Errorf("expected ErrInvalidInput, got %v", err)
				}
				return
			}
			if err != nil {
				t.Fatal(err)
			}
			if p.Name() != tt.want {
				t.Errorf("Name = %q, expected %q", p.Name(), tt.want)
			}
		})
	}
}
