package config

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"wellflow/internal/data"
	"wellflow/internal/model"
	"wellflow/internal/provider"
	"wellflow/internal/pvt"
	"wellflow/internal/units"

	"gopkg.in/yaml.v3"
)

// Config is the on-disk configuration shape (YAML).
type Config struct {
	// Optional: load well parameters from a separate YAML (e.g. examples/wells/*.yaml).
	// If both WellFile and Well are provided, non-zero Well fields override the file.
	WellFile string         `yaml:"well_file"`
	Well     WellConfig     `yaml:"well"`
	Fluid    FluidConfig    `yaml:"fluid"`
	Provider ProviderConfig `yaml:"provider"`
	Traverse TraverseConfig `yaml:"traverse"`
	Storage  StorageConfig  `yaml:"storage"`
	Logging  LoggingConfig  `yaml:"logging"`
}

type WellConfig struct {
	Name             string  `yaml:"name" json:"name,omitempty"`
	OilRate          float64 `yaml:"oil_rate_stbd" json:"oil_rate_stbd"`
	GasOilRatio      float64 `yaml:"gor_scf_stb" json:"gor_scf_stb"`
	WaterCut         float64 `yaml:"water_cut" json:"water_cut"`
	BoundaryPressure float64 `yaml:"boundary_pressure_psia" json:"boundary_pressure_psia"`
	WellheadTemp     float64 `yaml:"wellhead_temp" json:"wellhead_temp"`
	TempUnit         string  `yaml:"temp_unit" json:"temp_unit,omitempty"`
	TubingID         float64 `yaml:"tubing_id_in" json:"tubing_id_in"`
	TubingLength     float64 `yaml:"tubing_length" json:"tubing_length"`
	LengthUnit       string  `yaml:"length_unit" json:"length_unit,omitempty"`
	WaterSG          float64 `yaml:"water_sg" json:"water_sg,omitempty"`
	Segments         int     `yaml:"segments" json:"segments"`
	Direction        string  `yaml:"direction" json:"direction,omitempty"`
}

type FluidConfig struct {
	OilAPI      float64 `yaml:"oil_api" json:"oil_api"`
	GasSG       float64 `yaml:"gas_sg" json:"gas_sg"`
	WaterSG     float64 `yaml:"water_sg" json:"water_sg,omitempty"`
	BubblePoint float64 `yaml:"bubble_point_psia" json:"bubble_point_psia,omitempty"`
	// Temperature the properties are evaluated at. Zero means the wellhead temperature.
	Temperature     float64 `yaml:"temperature" json:"temperature,omitempty"`
	TempUnit        string  `yaml:"temp_unit" json:"temp_unit,omitempty"`
	GasDensityBasis string  `yaml:"gas_density_basis" json:"gas_density_basis,omitempty"`
}

// ProviderConfig selects how fluid properties are resolved. Table-backed kinds
// read Table (CSV or JSON) or, when it is empty, generate rows from the fluid
// over TableRange.
type ProviderConfig struct {
	Kind            string     `yaml:"kind" json:"kind,omitempty"`
	Table           string     `yaml:"table" json:"-"`
	TableRange      TableRange `yaml:"table_range" json:"table_range,omitempty"`
	Tolerance       float64    `yaml:"tolerance_psia" json:"tolerance_psia,omitempty"`
	Cache           bool       `yaml:"cache" json:"cache,omitempty"`
	CacheResolution float64    `yaml:"cache_resolution_psia" json:"cache_resolution_psia,omitempty"`

	// Rows is an inline table; it takes precedence over Table and TableRange.
	Rows []model.FluidSample `yaml:"-" json:"rows,omitempty"`
}

type TableRange struct {
	From int `yaml:"from" json:"from"`
	To   int `yaml:"to" json:"to"`
	Step int `yaml:"step" json:"step"`
}

type TraverseConfig struct {
	Envelope string       `yaml:"envelope" json:"envelope,omitempty"`
	Solver   SolverConfig `yaml:"solver" json:"solver,omitempty"`
}

type SolverConfig struct {
	Seeds            []float64 `yaml:"seeds" json:"seeds,omitempty"`
	IdealGasFallback *bool     `yaml:"ideal_gas_fallback" json:"ideal_gas_fallback,omitempty"`
	Tolerance        float64   `yaml:"tolerance" json:"tolerance,omitempty"`
	MaxIter          int       `yaml:"max_iter" json:"max_iter,omitempty"`
}

type StorageConfig struct {
	// Path of the SQLite database. Empty disables persistence.
	Path     string `yaml:"path"`
	CacheTTL string `yaml:"cache_ttl"`
}

type LoggingConfig struct {
	Level       string `yaml:"level"`
	Development bool   `yaml:"development"`
}

// Defaults for a generated table: 1 psia steps up to 5000 psia.
const (
	DefaultTableFrom = 1
	DefaultTableTo   = 5000
	DefaultTableStep = 1
	DefaultCacheTTL  = time.Hour
)

func Load(path string) (*Config, error) {
	c, err := LoadUnchecked(path)
	if err != nil {
		return nil, err
	}
	c.ApplyDefaults()
	if err := c.Validate(); err != nil {
		return nil, err
	}
	return c, nil
}

// LoadUnchecked loads and merges config, but does not validate it.
// Useful for debugging/printing partial configs.
func LoadUnchecked(path string) (*Config, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var c Config
	if err := yaml.Unmarshal(raw, &c); err != nil {
		return nil, fmt.Errorf("parse %s: %w", path, err)
	}
	if c.WellFile != "" {
		wellPath := resolveRelative(path, c.WellFile)
		loaded, err := LoadWellFile(wellPath)
		if err != nil {
			return nil, err
		}
		c.Well = MergeWell(loaded, c.Well)
	}
	if c.Provider.Table != "" {
		c.Provider.Table = resolveRelative(path, c.Provider.Table)
	}
	return &c, nil
}

// resolveRelative interprets ref relative to the config file directory, falling
// back to the path as given (relative to cwd) if that doesn't exist.
func resolveRelative(configPath, ref string) string {
	if filepath.IsAbs(ref) {
		return ref
	}
	cand := filepath.Join(filepath.Dir(configPath), ref)
	if _, err := os.Stat(cand); err == nil {
		return cand
	}
	return ref
}

// ApplyDefaults fills provider, table and logging defaults.
func (c *Config) ApplyDefaults() {
	if c.Provider.Kind == "" {
		c.Provider.Kind = string(provider.KindExact)
	}
	if c.Provider.TableRange.From == 0 {
		c.Provider.TableRange.From = DefaultTableFrom
	}
	if c.Provider.TableRange.To == 0 {
		c.Provider.TableRange.To = DefaultTableTo
	}
	if c.Provider.TableRange.Step == 0 {
		c.Provider.TableRange.Step = DefaultTableStep
	}
	if c.Traverse.Envelope == "" {
		c.Traverse.Envelope = string(model.EnvelopeWarn)
	}
	if c.Logging.Level == "" {
		c.Logging.Level = "info"
	}
}

func (c *Config) Validate() error {
	if c == nil {
		return errors.New("config is nil")
	}
	if _, err := c.Well.ToModel(); err != nil {
		return fmt.Errorf("well config invalid: %w", err)
	}
	kind, err := provider.ParseKind(c.Provider.Kind)
	if err != nil {
		return fmt.Errorf("provider.kind: %w", err)
	}
	if kind == provider.KindCorrelation || (c.Provider.Table == "" && len(c.Provider.Rows) == 0) {
		if _, err := c.FluidParams(); err != nil {
			return fmt.Errorf("fluid config invalid: %w", err)
		}
	}
	if r := c.Provider.TableRange; r.From < 1 || r.To < r.From || r.Step < 1 {
		return fmt.Errorf("%w: provider.table_range must satisfy 1 <= from <= to and step >= 1, got %+v", model.ErrInvalidInput, r)
	}
	if c.Provider.Tolerance < 0 {
		return fmt.Errorf("%w: provider.tolerance_psia must be >= 0", model.ErrInvalidInput)
	}
	if _, err := model.ParseEnvelopePolicy(c.Traverse.Envelope); err != nil {
		return fmt.Errorf("traverse.envelope: %w", err)
	}
	if s := c.Traverse.Solver; s.Tolerance < 0 || s.MaxIter < 0 {
		return fmt.Errorf("%w: traverse.solver tolerance and max_iter must be >= 0", model.ErrInvalidInput)
	}
	if _, err := c.Storage.TTL(); err != nil {
		return err
	}
	return nil
}

// BuildProvider constructs the configured provider. Table-backed kinds use the
// inline rows, then the table file, then a table generated from the fluid
// through tables (which may be nil).
func (c *Config) BuildProvider(ctx context.Context, tables *data.Tables) (provider.Provider, error) {
	kind, err := provider.ParseKind(c.Provider.Kind)
	if err != nil {
		return nil, err
	}
	opts := provider.Options{
		Kind:            kind,
		Solver:          c.Traverse.Solver.Solver(),
		Tolerance:       c.Provider.Tolerance,
		Cache:           c.Provider.Cache,
		CacheResolution: c.Provider.CacheResolution,
	}

	if kind == provider.KindCorrelation {
		fluid, err := c.FluidParams()
		if err != nil {
			return nil, err
		}
		opts.Fluid = &fluid
		return provider.New(opts)
	}

	rows := c.Provider.Rows
	switch {
	case len(rows) > 0:
	case c.Provider.Table != "":
		rows, err = data.LoadTable(c.Provider.Table)
		if err != nil {
			return nil, fmt.Errorf("load PVT table: %w", err)
		}
	default:
		fluid, err := c.FluidParams()
		if err != nil {
			return nil, err
		}
		if tables == nil {
			tables = &data.Tables{}
		}
		r := c.Provider.TableRange
		rows, _, err = tables.Get(ctx, fluid, opts.Solver, r.From, r.To, r.Step)
		if err != nil {
			return nil, fmt.Errorf("generate PVT table: %w", err)
		}
	}

	tbl, err := provider.NewTable(rows)
	if err != nil {
		return nil, err
	}
	opts.Table = tbl
	return provider.New(opts)
}

// ToModel converts the YAML well into a validated model.WellConfig.
func (w WellConfig) ToModel() (*model.WellConfig, error) {
	out := model.WellConfig{
		OilRate:          w.OilRate,
		GasOilRatio:      w.GasOilRatio,
		WaterCut:         w.WaterCut,
		BoundaryPressure: w.BoundaryPressure,
		WellheadTemp:     w.WellheadTemp,
		TubingID:         w.TubingID,
		TubingLength:     w.TubingLength,
		WaterSG:          w.WaterSG,
		Segments:         w.Segments,
		Direction:        model.Direction(w.Direction),
	}
	if w.TempUnit != "" {
		u, err := units.ParseTempUnit(w.TempUnit)
		if err != nil {
			return nil, fmt.Errorf("%w: well.temp_unit: %v", model.ErrInvalidInput, err)
		}
		out.TempUnit = u
	}
	if w.LengthUnit != "" {
		u, err := units.ParseLengthUnit(w.LengthUnit)
		if err != nil {
			return nil, fmt.Errorf("%w: well.length_unit: %v", model.ErrInvalidInput, err)
		}
		out.LengthUnit = u
	}
	return model.NewWellConfig(out)
}

// FluidParams converts the fluid section, taking the temperature from the well
// when the fluid has none. Water SG falls back to the well's.
func (c *Config) FluidParams() (model.FluidParams, error) {
	f := c.Fluid
	temp, unit := f.Temperature, f.TempUnit
	if temp == 0 {
		temp, unit = c.Well.WellheadTemp, c.Well.TempUnit
	}
	if unit == "" {
		unit = string(units.Celsius)
	}
	u, err := units.ParseTempUnit(unit)
	if err != nil {
		return model.FluidParams{}, fmt.Errorf("%w: fluid.temp_unit: %v", model.ErrInvalidInput, err)
	}
	tR, err := units.ToRankine(temp, u)
	if err != nil {
		return model.FluidParams{}, fmt.Errorf("%w: %v", model.ErrInvalidInput, err)
	}
	basis, err := model.ParseGasDensityBasis(f.GasDensityBasis)
	if err != nil {
		return model.FluidParams{}, err
	}
	waterSG := f.WaterSG
	if waterSG == 0 {
		waterSG = c.Well.WaterSG
	}
	if waterSG == 0 {
		waterSG = 1.0
	}
	out := model.FluidParams{
		OilAPI:          f.OilAPI,
		GasSG:           f.GasSG,
		WaterSG:         waterSG,
		BubblePoint:     f.BubblePoint,
		Temperature:     tR,
		GasDensityBasis: basis,
	}
	if err := out.Validate(); err != nil {
		return model.FluidParams{}, err
	}
	return out, nil
}

// Solver builds the Z-factor solver. Unset fields keep the defaults.
func (s SolverConfig) Solver() pvt.Solver {
	out := pvt.DefaultSolver()
	if len(s.Seeds) > 0 {
		out.Seeds = append([]float64(nil), s.Seeds...)
	}
	if s.IdealGasFallback != nil {
		out.IdealGasFallback = *s.IdealGasFallback
	}
	if s.Tolerance > 0 {
		out.Tolerance = s.Tolerance
	}
	if s.MaxIter > 0 {
		out.MaxIter = s.MaxIter
	}
	return out
}

// EnvelopePolicy returns the parsed envelope policy, warn when unset.
func (t TraverseConfig) EnvelopePolicy() model.EnvelopePolicy {
	p, err := model.ParseEnvelopePolicy(t.Envelope)
	if err != nil {
		return model.EnvelopeWarn
	}
	return p
}

// TTL parses cache_ttl; empty means DefaultCacheTTL.
func (s StorageConfig) TTL() (time.Duration, error) {
	if s.CacheTTL == "" {
		return DefaultCacheTTL, nil
	}
	d, err := time.ParseDuration(s.CacheTTL)
	if err != nil || d <= 0 {
		return 0, fmt.Errorf("%w: storage.cache_ttl %q is not a positive duration", model.ErrInvalidInput, s.CacheTTL)
	}
	return d, nil
}

type wellFileWrapper struct {
	Well WellConfig `yaml:"well"`
}

// LoadWellFile reads a well preset (a YAML document with a top-level "well" key).
func LoadWellFile(path string) (WellConfig, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return WellConfig{}, err
	}
	var w wellFileWrapper
	if err := yaml.Unmarshal(raw, &w); err != nil {
		return WellConfig{}, fmt.Errorf("parse %s: %w", path, err)
	}
	return w.Well, nil
}

// MergeWell overlays non-zero fields from override onto base.
// This is used when loading a well file and then applying overrides from the config or request.
func MergeWell(base, override WellConfig) WellConfig {
	out := base
	if override.Name != "" {
		out.Name = override.Name
	}
	if override.OilRate != 0 {
		out.OilRate = override.OilRate
	}
	if override.GasOilRatio != 0 {
		out.GasOilRatio = override.GasOilRatio
	}
	// Water cut 0 is a valid value but cannot be told apart from "unset" here.
	if override.WaterCut != 0 {
		out.WaterCut = override.WaterCut
	}
	if override.BoundaryPressure != 0 {
		out.BoundaryPressure = override.BoundaryPressure
	}
	if override.WellheadTemp != 0 {
		out.WellheadTemp = override.WellheadTemp
	}
	if override.TempUnit != "" {
		out.TempUnit = override.TempUnit
	}
	if override.TubingID != 0 {
		out.TubingID = override.TubingID
	}
	if override.TubingLength != 0 {
		out.TubingLength = override.TubingLength
	}
	if override.LengthUnit != "" {
		out.LengthUnit = override.LengthUnit
	}
	if override.WaterSG != 0 {
		out.WaterSG = override.WaterSG
	}
	if override.Segments != 0 {
		out.Segments = override.Segments
	}
	if override.Direction != "" {
		out.Direction = override.Direction
	}
	return out
}
