package analysis

import (
	"context"
	"fmt"
	"runtime"

	"golang.org/x/sync/errgroup"
	"gonum.org/v1/gonum/floats"

	"wellflow/internal/model"
	"wellflow/internal/provider"
	"wellflow/internal/traverse"
)

// VLPPoint is the bottomhole pressure the tubing needs to lift one oil rate.
type VLPPoint struct {
	OilRate            float64 `json:"oil_rate_stbd"`
	BottomholePressure float64 `json:"bottomhole_pressure_psia"`
	MeanGradient       float64 `json:"mean_gradient_psi_ft"`
}

// RateSpan returns n evenly spaced rates from lo to hi inclusive.
func RateSpan(lo, hi float64, n int) ([]float64, error) {
	if n < 2 || !(lo > 0) || hi <= lo {
		return nil, fmt.Errorf("%w: rate span needs 0 < lo < hi and n >= 2, got lo=%g hi=%g n=%d", model.ErrInvalidInput, lo, hi, n)
	}
	return floats.Span(make([]float64, n), lo, hi), nil
}

// VLPCurve runs one top-down traverse per oil rate, up to concurrency at a time
// (GOMAXPROCS when <= 0). Any failed traverse fails the whole curve. Points are
// returned in the order of rates.
func VLPCurve(ctx context.Context, engine *traverse.Engine, base model.WellConfig, prov provider.Provider, rates []float64, concurrency int) ([]VLPPoint, error) {
	if len(rates) == 0 {
		return nil, fmt.Errorf("%w: no oil rates given", model.ErrInvalidInput)
	}
	if base.Direction == model.BottomUp {
		return nil, fmt.Errorf("%w: a VLP curve is computed from the wellhead down", model.ErrInvalidInput)
	}
	if concurrency <= 0 {
		concurrency = runtime.GOMAXPROCS(0)
	}

	points := make([]VLPPoint, len(rates))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(concurrency)
	for i, rate := range rates {
		g.Go(func() error {
			well := base
			well.OilRate = rate
			res, err := engine.Run(gctx, well, prov)
			if err != nil {
				return fmt.Errorf("oil rate %g stb/d: %w", rate, err)
			}
			s := Summarize(res)
			points[i] = VLPPoint{
				OilRate:            rate,
				BottomholePressure: res.BottomholePressure(),
				MeanGradient:       s.MeanGradient,
			}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return points, nil
}
