package main

import (
	"context"
	"flag"
	"fmt"
	"os"

	"wellflow/internal/analysis"
	"wellflow/internal/config"
	"wellflow/internal/log"
	"wellflow/internal/model"
	"wellflow/internal/provider"
	"wellflow/internal/pvt"
	"wellflow/internal/traverse"
	"wellflow/internal/units"
)

// Demo:
// - Generate a PVT table for a 37 API oil with 0.7 gas at 180 F
// - Describe the reference well (2000 stb/d, GOR 1200, 25% water, 1.661 in x 1650 m)
// - March the traverse down from 500 psia and print a few nodes
func main() {
	cfgPath := flag.String("config", "", "Path to YAML config (optional, overrides the reference case)")
	every := flag.Int("every", 20, "Print every Nth node")
	outCSV := flag.String("out", "", "Optional path to write the traverse CSV (e.g. results/demo.csv)")
	debug := flag.Bool("debug", false, "Log every segment")
	flag.Parse()

	if err := log.Init(*debug); err != nil {
		fail(err)
	}
	defer log.Sync()
	ctx := context.Background()

	// Reference case (can be overridden via --config).
	well := model.WellConfig{
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
	fluid := model.FluidParams{
		OilAPI:      37,
		GasSG:       0.7,
		WaterSG:     1.0,
		BubblePoint: 2500,
		Temperature: 639.67,
	}
	envelope := model.EnvelopeWarn

	var prov provider.Provider
	if *cfgPath != "" {
		cfg, err := config.Load(*cfgPath)
		if err != nil {
			fail(err)
		}
		w, err := cfg.Well.ToModel()
		if err != nil {
			fail(err)
		}
		well = *w
		envelope = cfg.Traverse.EnvelopePolicy()
		prov, err = cfg.BuildProvider(ctx, nil)
		if err != nil {
			fail(err)
		}
	} else {
		rows, err := pvt.BuildTable(ctx, fluid, pvt.DefaultSolver(), 1, 3000, 1)
		if err != nil {
			fail(err)
		}
		tbl, err := provider.NewTable(rows)
		if err != nil {
			fail(err)
		}
		prov = provider.NewExact(tbl)
		fmt.Printf("Generated %d PVT rows (%.0f..%.0f psia) at %.2f R\n", len(rows), rows[0].Pressure, rows[len(rows)-1].Pressure, fluid.Temperature)
	}

	engine := traverse.New(traverse.Options{Envelope: envelope, Logger: log.GetSugaredLogger()})
	res, err := engine.Run(ctx, well, prov)
	if err != nil {
		fail(err)
	}

	fmt.Printf("Provider=%s Direction=%s Segment=%.2f ft\n\n", res.Provider, res.Direction, res.SegmentLength)
	step := *every
	if step < 1 {
		step = 1
	}
	for i, s := range res.Segments {
		if i%step != 0 && i != len(res.Segments)-1 {
			continue
		}
		fmt.Printf("node %3d  depth=%8.2f ft  p=%9.3f psia  rho=%7.3f lbm/ft3  f=%.5f  dp/dh=%.5f psi/ft\n",
			s.Index, s.Depth, s.Pressure, s.MixtureDensity, s.FrictionFactor, s.Gradient)
	}

	if *outCSV != "" {
		if err := traverse.WriteCSV(*outCSV, res); err != nil {
			fail(err)
		}
		fmt.Printf("\nWrote CSV: %s\n", *outCSV)
	}

	sum := analysis.Summarize(res)
	fmt.Printf("\nDone. Wellhead=%.2f psia  Bottomhole=%.2f psia  Mean gradient=%.4f psi/ft\n",
		sum.WellheadPressure, sum.BottomholePressure, sum.MeanGradient)
}

func fail(err error) {
	fmt.Fprintf(os.Stderr, "error (%s): %v\n", model.ErrorKind(err), err)
	os.Exit(1)
}
