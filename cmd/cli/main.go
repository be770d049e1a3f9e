package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"strconv"
	"strings"

	"wellflow/internal/analysis"
	"wellflow/internal/config"
	"wellflow/internal/data"
	"wellflow/internal/log"
	"wellflow/internal/model"
	"wellflow/internal/pvt"
	"wellflow/internal/traverse"
	"wellflow/internal/units"
)

func main() {
	if len(os.Args) < 2 {
		usage()
		os.Exit(2)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	var err error
	switch os.Args[1] {
	case "traverse":
		err = cmdTraverse(ctx, os.Args[2:])
	case "zfactor":
		err = cmdZFactor(ctx, os.Args[2:])
	case "pvt":
		err = cmdPVT(ctx, os.Args[2:])
	case "vlp":
		err = cmdVLP(ctx, os.Args[2:])
	default:
		usage()
		os.Exit(2)
	}
	log.Sync()
	if err != nil {
		fmt.Fprintf(os.Stderr, "error (%s): %v\n", model.ErrorKind(err), err)
		os.Exit(1)
	}
}

func usage() {
	fmt.Println("usage:")
	fmt.Println("  cli traverse --config examples/config.yaml --out results/traverse.csv [--save]")
	fmt.Println("  cli zfactor --pressure 1000 --temperature 500 --unit R --sg 0.7")
	fmt.Println("  cli zfactor --temperature 180 --unit F --sg 0.6,0.7,0.8 --from 100 --to 5000 --step 100")
	fmt.Println("  cli pvt --config examples/config.yaml --out results/pvt.csv")
	fmt.Println("  cli vlp --config examples/config.yaml --min 500 --max 3000 --points 6")
	fmt.Println("")
	fmt.Println("notes:")
	fmt.Println("  - traverse writes one CSV row per node: depth, pressure and the step to the next node")
	fmt.Println("  - pvt writes CSV or JSON depending on the --out extension")
}

// setup loads the config and initializes logging from its logging section.
func setup(cfgPath string, debug bool) (*config.Config, error) {
	if cfgPath == "" {
		return nil, fmt.Errorf("%w: --config is required", model.ErrInvalidInput)
	}
	cfg, err := config.Load(cfgPath)
	if err != nil {
		return nil, err
	}
	level := cfg.Logging.Level
	if debug {
		level = "debug"
	}
	if err := log.Configure(level, cfg.Logging.Development || debug); err != nil {
		return nil, err
	}
	return cfg, nil
}

// openTables wires the table cache and, when storage.path is set, the SQLite store.
func openTables(ctx context.Context, cfg *config.Config) (*data.Tables, func(), error) {
	ttl, err := cfg.Storage.TTL()
	if err != nil {
		return nil, nil, err
	}
	tables := &data.Tables{Cache: data.NewTableCache(ttl), Log: log.GetSugaredLogger()}
	if cfg.Storage.Path == "" {
		return tables, func() {}, nil
	}
	store, err := data.OpenStore(ctx, cfg.Storage.Path)
	if err != nil {
		return nil, nil, err
	}
	tables.Store = store
	return tables, func() { store.Close() }, nil
}

func cmdTraverse(ctx context.Context, args []string) error {
	fs := flag.NewFlagSet("traverse", flag.ExitOnError)
	cfgPath := fs.String("config", "", "Path to YAML config")
	outPath := fs.String("out", "results/traverse.csv", "Output CSV path (empty to skip)")
	save := fs.Bool("save", false, "Store the run in storage.path")
	name := fs.String("name", "", "Optional run name when saving")
	debug := fs.Bool("debug", false, "Log every segment")
	_ = fs.Parse(args)

	cfg, err := setup(*cfgPath, *debug)
	if err != nil {
		return err
	}
	tables, closeTables, err := openTables(ctx, cfg)
	if err != nil {
		return err
	}
	defer closeTables()

	well, err := cfg.Well.ToModel()
	if err != nil {
		return err
	}
	prov, err := cfg.BuildProvider(ctx, tables)
	if err != nil {
		return err
	}

	engine := traverse.New(traverse.Options{
		Envelope: cfg.Traverse.EnvelopePolicy(),
		Logger:   log.GetSugaredLogger(),
	})
	res, err := engine.Run(ctx, *well, prov)
	if err != nil {
		return err
	}

	if *outPath != "" {
		if err := os.MkdirAll(filepath.Dir(*outPath), 0o755); err != nil {
			return err
		}
		if err := traverse.WriteCSV(*outPath, res); err != nil {
			return err
		}
		fmt.Printf("Wrote %d rows to %s\n", len(res.Segments), *outPath)
	}

	s := analysis.Summarize(res)
	fmt.Printf("Provider=%s Direction=%s Segments=%d\n", res.Provider, res.Direction, s.Segments)
	fmt.Printf("Wellhead=%.2f psia Bottomhole=%.2f psia Drop=%.2f psi\n", s.WellheadPressure, s.BottomholePressure, s.PressureDrop)
	fmt.Printf("Gradient mean=%.4f min=%.4f max=%.4f psi/ft\n", s.MeanGradient, s.MinGradient, s.MaxGradient)
	for _, v := range res.Violations {
		fmt.Printf("Envelope: %s\n", v)
	}

	if *save {
		if tables.Store == nil {
			return fmt.Errorf("%w: --save needs storage.path in the config", model.ErrInvalidInput)
		}
		run, err := tables.Store.SaveRun(ctx, *name, *well, res)
		if err != nil {
			return err
		}
		fmt.Printf("Saved run %s\n", run.ID)
	}
	return nil
}

func cmdZFactor(ctx context.Context, args []string) error {
	fs := flag.NewFlagSet("zfactor", flag.ExitOnError)
	pressure := fs.Float64("pressure", 0, "Pressure (psia) for a single solve")
	temperature := fs.Float64("temperature", 0, "Temperature")
	unit := fs.String("unit", "R", "Temperature unit: C, F, K or R")
	sgs := fs.String("sg", "0.7", "Gas specific gravity; comma-separated for a sweep")
	from := fs.Float64("from", 0, "Sweep start pressure (psia)")
	to := fs.Float64("to", 0, "Sweep end pressure (psia)")
	step := fs.Float64("step", 100, "Sweep pressure step (psi)")
	noFallback := fs.Bool("no-fallback", false, "Disable the ideal-gas seed fallback")
	_ = fs.Parse(args)

	if err := log.Init(false); err != nil {
		return err
	}
	u, err := units.ParseTempUnit(*unit)
	if err != nil {
		return fmt.Errorf("%w: %v", model.ErrInvalidInput, err)
	}
	tR, err := units.ToRankine(*temperature, u)
	if err != nil {
		return fmt.Errorf("%w: %v", model.ErrInvalidInput, err)
	}
	gravities, err := parseFloats(*sgs)
	if err != nil {
		return err
	}
	solver := pvt.DefaultSolver()
	solver.IdealGasFallback = !*noFallback

	if *from > 0 || *to > 0 {
		series, err := analysis.ZSweep(ctx, solver, tR, gravities, *from, *to, *step)
		if err != nil {
			return err
		}
		fmt.Printf("%-8s %-10s %-10s %-10s %-10s\n", "sg", "min", "max", "mean", "fallbacks")
		for _, s := range series {
			fmt.Printf("%-8.3f %-10.5f %-10.5f %-10.5f %-10d\n", s.GasSG, s.Min, s.Max, s.Mean, s.Fallbacks)
		}
		return nil
	}

	for _, sg := range gravities {
		sol, err := solver.Solve(*pressure, tR, sg)
		if err != nil {
			return fmt.Errorf("sg %g: %w", sg, err)
		}
		fmt.Printf("sg=%.3f Z=%.6f rho_r=%.6f Tpr=%.4f Ppr=%.4f iterations=%d attempt=%d seed=%.4f\n",
			sg, sol.Z, sol.ReducedDensity, sol.Tpr, sol.Ppr, sol.Iterations, sol.Attempts, sol.Seed)
	}
	return nil
}

func cmdPVT(ctx context.Context, args []string) error {
	fs := flag.NewFlagSet("pvt", flag.ExitOnError)
	cfgPath := fs.String("config", "", "Path to YAML config (fluid section)")
	outPath := fs.String("out", "results/pvt.csv", "Output path (.csv or .json)")
	from := fs.Int("from", 0, "First pressure (psia); 0 uses provider.table_range")
	to := fs.Int("to", 0, "Last pressure (psia); 0 uses provider.table_range")
	step := fs.Int("step", 0, "Pressure step (psi); 0 uses provider.table_range")
	_ = fs.Parse(args)

	cfg, err := setup(*cfgPath, false)
	if err != nil {
		return err
	}
	fluid, err := cfg.FluidParams()
	if err != nil {
		return err
	}
	r := cfg.Provider.TableRange
	if *from > 0 {
		r.From = *from
	}
	if *to > 0 {
		r.To = *to
	}
	if *step > 0 {
		r.Step = *step
	}

	tables, closeTables, err := openTables(ctx, cfg)
	if err != nil {
		return err
	}
	defer closeTables()

	rows, source, err := tables.Get(ctx, fluid, cfg.Traverse.Solver.Solver(), r.From, r.To, r.Step)
	if err != nil {
		return err
	}

	if err := os.MkdirAll(filepath.Dir(*outPath), 0o755); err != nil {
		return err
	}
	if strings.EqualFold(filepath.Ext(*outPath), ".json") {
		err = data.WriteTableJSON(*outPath, &fluid, rows)
	} else {
		err = data.WriteTableCSV(*outPath, rows)
	}
	if err != nil {
		return err
	}
	fmt.Printf("Wrote %d rows (%s) to %s\n", len(rows), source, *outPath)
	return nil
}

func cmdVLP(ctx context.Context, args []string) error {
	fs := flag.NewFlagSet("vlp", flag.ExitOnError)
	cfgPath := fs.String("config", "", "Path to YAML config")
	ratesFlag := fs.String("rates", "", "Comma-separated oil rates (stb/d)")
	lo := fs.Float64("min", 0, "Lowest oil rate (stb/d) when --rates is not given")
	hi := fs.Float64("max", 0, "Highest oil rate (stb/d) when --rates is not given")
	points := fs.Int("points", 5, "Number of rates between --min and --max")
	concurrency := fs.Int("concurrency", 0, "Traverses run at once (0 = GOMAXPROCS)")
	_ = fs.Parse(args)

	cfg, err := setup(*cfgPath, false)
	if err != nil {
		return err
	}

	var rates []float64
	if *ratesFlag != "" {
		rates, err = parseFloats(*ratesFlag)
	} else {
		rates, err = analysis.RateSpan(*lo, *hi, *points)
	}
	if err != nil {
		return err
	}

	tables, closeTables, err := openTables(ctx, cfg)
	if err != nil {
		return err
	}
	defer closeTables()

	well, err := cfg.Well.ToModel()
	if err != nil {
		return err
	}
	prov, err := cfg.BuildProvider(ctx, tables)
	if err != nil {
		return err
	}
	// Envelope warnings would repeat for every rate.
	policy := cfg.Traverse.EnvelopePolicy()
	if policy == model.EnvelopeWarn {
		policy = model.EnvelopeOff
	}
	engine := traverse.New(traverse.Options{Envelope: policy, Logger: log.GetSugaredLogger()})
	curve, err := analysis.VLPCurve(ctx, engine, *well, prov, rates, *concurrency)
	if err != nil {
		return err
	}

	fmt.Printf("%-12s %-16s %-12s\n", "rate_stbd", "bhp_psia", "grad_psi_ft")
	for _, p := range curve {
		fmt.Printf("%-12.1f %-16.2f %-12.4f\n", p.OilRate, p.BottomholePressure, p.MeanGradient)
	}
	return nil
}

func parseFloats(s string) ([]float64, error) {
	parts := strings.Split(s, ",")
	out := make([]float64, 0, len(parts))
	for _, p := range parts {
		p = strings.TrimSpace(p)
		if p == "" {
			continue
		}
		v, err := strconv.ParseFloat(p, 64)
		if err != nil {
			return nil, fmt.Errorf("%w: %q is not a number", model.ErrInvalidInput, p)
		}
		out = append(out, v)
	}
	if len(out) == 0 {
		return nil, fmt.Errorf("%w: no values given", model.ErrInvalidInput)
	}
	return out, nil
}
