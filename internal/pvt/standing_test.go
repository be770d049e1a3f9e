package pvt

import (
	"context"
	"errors"
	"math"
	"testing"

	"wellflow/internal/model"
)

func referenceFluid() model.FluidParams {
	return model.FluidParams{
		OilAPI:          37,
		GasSG:           0.7,
		WaterSG:         1.0,
		BubblePoint:     2500,
		Temperature:     639.67,
		GasDensityBasis: model.GasDensityStandard,
	}
}

func TestStandingCorrelations(t *testing.T) {
	tests := []struct {
		name     string
		got      float64
		expected float64
		eps      float64
	}{
		{"Rs 2000 psia 600 R", GasSolubility(2000, 600, 35, 0.8), 553.355, 1e-3},
		{"Bo Rs 100 617.67 R", OilFVF(100, 617.67, 35, 0.8), 1.085524, 1e-6},
		{"Rs 1000 psia 180 F", GasSolubility(1000, 639.67, 37, 0.7), 206.7756, 1e-4},
		{"Bo 1000 psia 180 F", OilFVF(206.7756, 639.67, 37, 0.7), 1.140996, 1e-6},
		{"standard gas density", StandardGasDensity(0.7), 0.0534093, 1e-7},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if math.Abs(tt.got-tt.expected) > tt.eps {
				t.Errorf("got %.7f, expected %.7f", tt.got, tt.expected)
			}
		})
	}
}

func TestGasFVF(t *testing.T) {
	bg, err := GasFVF(1000, 617.67, 0.9)
	if err != nil {
		t.Fatal(err)
	}
	if math.Abs(bg-0.0157150) > 1e-6 {
		t.Errorf("Bg = %.7f, expected 0.0157150", bg)
	}
	if _, err := GasFVF(0, 617.67, 0.9); !errors.Is(err, model.ErrInvalidInput) {
		t.Errorf("expected ErrInvalidInput, got %v", err)
	}
}

func TestEvaluate(t *testing.T) {
	s, err := Evaluate(referenceFluid(), DefaultSolver(), 500)
	if err != nil {
		t.Fatalf("Evaluate: %v", err)
	}
	checks := []struct {
		name     string
		got      float64
		expected float64
	}{
		{"Rs", s.GasSolubility, 92.3975},
		{"Bo", s.OilFVF, 1.092212},
		{"oil density", s.OilDensity, 48.78246},
		{"Z", s.GasCompressibilityFactor, 0.946183},
		{"gas density", s.GasDensity, 0.0534093},
	}
	for _, c := range checks {
		if math.Abs(c.got-c.expected) > 1e-3 {
			t.Errorf("%s = %g, expected %g", c.name, c.got, c.expected)
		}
	}
}

func TestEvaluateAboveBubblePoint(t *testing.T) {
	fluid := referenceFluid()
	atPb, err := Evaluate(fluid, DefaultSolver(), fluid.BubblePoint)
	if err != nil {
		t.Fatal(err)
	}
	above, err := Evaluate(fluid, DefaultSolver(), 3500)
	if err != nil {
		t.Fatal(err)
	}
	if above.GasSolubility != atPb.GasSolubility || above.OilFVF != atPb.OilFVF {
		t.Errorf("Rs/Bo above bubble point should be held: %+v vs %+v", above, atPb)
	}
}

func TestEvaluateInSituGasDensity(t *testing.T) {
	fluid := referenceFluid()
	fluid.GasDensityBasis = model.GasDensityInSitu
	s, err := Evaluate(fluid, DefaultSolver(), 1000)
	if err != nil {
		t.Fatal(err)
	}
	want := GasDensity(1000, fluid.Temperature, s.GasCompressibilityFactor, fluid.GasSG)
	if s.GasDensity != want {
		t.Errorf("gas density = %g, expected %g", s.GasDensity, want)
	}
}

func TestBuildTable(t *testing.T) {
	rows, err := BuildTable(context.Background(), referenceFluid(), DefaultSolver(), 1, 2000, 1)
	if err != nil {
		t.Fatalf("BuildTable: %v", err)
	}
	if len(rows) != 2000 {
		t.Fatalf("rows = %d, expected 2000", len(rows))
	}
	for i, r := range rows {
		if r.Pressure != float64(i+1) {
			t.Fatalf("row %d pressure = %g", i, r.Pressure)
		}
		if err := r.Validate(); err != nil {
			t.Fatalf("row %d: %v", i, err)
		}
	}
	for i := 1; i < len(rows); i++ {
		if rows[i].GasSolubility < rows[i-1].GasSolubility {
			t.Fatalf("Rs decreased at %g psia", rows[i].Pressure)
		}
	}
}

func TestBuildTableRejects(t *testing.T) {
	ctx := context.Background()
	if _, err := BuildTable(ctx, referenceFluid(), DefaultSolver(), 0, 10, 1); !errors.Is(err, model.ErrInvalidInput) {
		t.Errorf("zero start: %v", err)
	}
	if _, err := BuildTable(ctx, referenceFluid(), DefaultSolver(), 10, 5, 1); !errors.Is(err, model.ErrInvalidInput) {
		t.Errorf("inverted range: %v", err)
	}
	if _, err := BuildTable(ctx, referenceFluid(), DefaultSolver(), 1, 10, 0); !errors.Is(err, model.ErrInvalidInput) {
		t.Errorf("zero step: %v", err)
	}

	cancelled, cancel := context.WithCancel(ctx)
	cancel()
	if _, err := BuildTable(cancelled, referenceFluid(), DefaultSolver(), 1, 10, 1); !errors.Is(err, context.Canceled) {
		t.Errorf("expected context.Canceled, got %v", err)
	}
}
