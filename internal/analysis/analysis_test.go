package analysis

import (
	"context"
	"errors"
	"math"
	"testing"

	"wellflow/internal/model"
	"wellflow/internal/provider"
	"wellflow/internal/pvt"
	"wellflow/internal/traverse"
	"wellflow/internal/units"
)

func referenceProvider(t *testing.T) provider.Provider {
	t.Helper()
	fluid := model.FluidParams{OilAPI: 37, GasSG: 0.7, WaterSG: 1, BubblePoint: 2500, Temperature: 639.67}
	rows, err := pvt.BuildTable(context.Background(), fluid, pvt.DefaultSolver(), 1, 2000, 1)
	if err != nil {
		t.Fatal(err)
	}
	tbl, err := provider.NewTable(rows)
	if err != nil {
		t.Fatal(err)
	}
	return provider.NewExact(tbl)
}

func referenceWell() model.WellConfig {
	return model.WellConfig{
		OilRate:          2000,
		GasOilRatio:      1200,
		WaterCut:         0.25,
		BoundaryPressure: 500,
		WellheadTemp:     39,
		TempUnit:         units.Celsius,
		TubingID:         1.661,
		TubingLength:     1650,
		LengthUnit:       units.Meter,
		Segments:         200,
	}
}

func TestVLPCurve(t *testing.T) {
	engine := traverse.New(traverse.Options{Envelope: model.EnvelopeOff})
	rates := []float64{1000, 1500, 2000, 3000}
	want := []float64{1380.757, 1333.243, 1304.090, 1268.629}

	points, err := VLPCurve(context.Background(), engine, referenceWell(), referenceProvider(t), rates, 2)
	if err != nil {
		t.Fatalf("VLPCurve: %v", err)
	}
	if len(points) != len(rates) {
		t.Fatalf("points = %d", len(points))
	}
	for i, p := range points {
		if p.OilRate != rates[i] {
			t.Errorf("point %d rate = %g, expected %g", i, p.OilRate, rates[i])
		}
		if math.Abs(p.BottomholePressure-want[i]) > 0.1 {
			t.Errorf("rate %g: bhp = %.3f, expected %.3f", p.OilRate, p.BottomholePressure, want[i])
		}
		if p.MeanGradient <= 0 {
			t.Errorf("rate %g: mean gradient %g", p.OilRate, p.MeanGradient)
		}
	}
}

func TestVLPCurveFailsOnAnyRate(t *testing.T) {
	engine := traverse.New(traverse.Options{Envelope: model.EnvelopeOff})
	_, err := VLPCurve(context.Background(), engine, referenceWell(), referenceProvider(t), []float64{2000, -5}, 0)
	if !errors.Is(err, model.ErrInvalidInput) {
		t.Errorf("expected ErrInvalidInput for negative rate, got %v", err)
	}

	bottomUp := referenceWell()
	bottomUp.Direction = model.BottomUp
	if _, err := VLPCurve(context.Background(), engine, bottomUp, referenceProvider(t), []float64{2000}, 1); !errors.Is(err, model.ErrInvalidInput) {
		t.Errorf("bottom-up base: %v", err)
	}
}

func TestRateSpan(t *testing.T) {
	r, err := RateSpan(500, 2500, 5)
	if err != nil {
		t.Fatal(err)
	}
	want := []float64{500, 1000, 1500, 2000, 2500}
	for i := range want {
		if math.Abs(r[i]-want[i]) > 1e-9 {
			t.Errorf("RateSpan = %v", r)
			break
		}
	}
	if _, err := RateSpan(500, 100, 5); !errors.Is(err, model.ErrInvalidInput) {
		t.Errorf("inverted span: %v", err)
	}
}

func TestSummarize(t *testing.T) {
	res := &traverse.Result{
		Direction: model.TopDown,
		Segments: []traverse.Segment{
			{Index: 0, Pressure: 500, Gradient: 0.5, MixtureDensity: 40},
			{Index: 1, Pressure: 550, Gradient: 0.7, MixtureDensity: 44},
			{Index: 2, Pressure: 620},
		},
	}
	s := Summarize(res)
	if s.Segments != 2 || s.PressureDrop != 120 {
		t.Errorf("Summary = %+v", s)
	}
	if math.Abs(s.MeanGradient-0.6) > 1e-12 || s.MinGradient != 0.5 || s.MaxGradient != 0.7 || s.MeanDensity != 42 {
		t.Errorf("Summary stats = %+v", s)
	}
}

func TestZSweep(t *testing.T) {
	gravities := []float64{0.6, 0.7, 0.8, 0.9}
	series, err := ZSweep(context.Background(), pvt.DefaultSolver(), 600, gravities, 100, 5000, 100)
	if err != nil {
		t.Fatalf("ZSweep: %v", err)
	}
	if len(series) != len(gravities) {
		t.Fatalf("series = %d", len(series))
	}
	for i, s := range series {
		if s.GasSG != gravities[i] || len(s.Z) != 50 {
			t.Errorf("series %d: sg %g, %d points", i, s.GasSG, len(s.Z))
		}
		if s.Min < 0.3 || s.Max > 1.2 {
			t.Errorf("sg %g: Z range [%g, %g] outside [0.3, 1.2]", s.GasSG, s.Min, s.Max)
		}
		if s.Mean < s.Min || s.Mean > s.Max {
			t.Errorf("sg %g: mean %g outside [%g, %g]", s.GasSG, s.Mean, s.Min, s.Max)
		}
	}

	if _, err := ZSweep(context.Background(), pvt.DefaultSolver(), 300, []float64{0.7}, 100, 200, 100); !errors.Is(err, model.ErrDomainViolation) {
		t.Errorf("Tpr < 1: %v", err)
	}
	if _, err := ZSweep(context.Background(), pvt.DefaultSolver(), 600, nil, 100, 200, 100); !errors.Is(err, model.ErrInvalidInput) {
		t.Errorf("no gravities: %v", err)
	}
}
