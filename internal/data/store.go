package data

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"
	_ "modernc.org/sqlite" // pure go sqlite driver

	"wellflow/internal/model"
	"wellflow/internal/traverse"
)

// ErrNotFound is returned for unknown run IDs and table keys.
var ErrNotFound = errors.New("not found")

// Run is a stored traverse.
type Run struct {
	ID        string           `json:"id"`
	CreatedAt time.Time        `json:"created_at"`
	Name      string           `json:"name,omitempty"`
	Well      model.WellConfig `json:"well"`
	Result    *traverse.Result `json:"result"`
}

// RunSummary is a Run without its segments.
type RunSummary struct {
	ID                 string    `json:"id"`
	CreatedAt          time.Time `json:"created_at"`
	Name               string    `json:"name,omitempty"`
	Provider           string    `json:"provider"`
	Segments           int       `json:"segments"`
	BottomholePressure float64   `json:"bottomhole_pressure_psia"`
}

// Store persists PVT tables and traverse runs in SQLite.
type Store struct {
	db   *sql.DB
	path string
}

// OpenStore opens (or creates) the database at path. ":memory:" keeps
// everything in a single in-process connection.
func OpenStore(ctx context.Context, path string) (*Store, error) {
	if path == "" {
		path = "wellflow.db"
	}
	if path != ":memory:" {
		if err := os.MkdirAll(filepath.Dir(path), 0o750); err != nil && !errors.Is(err, os.ErrExist) {
			return nil, fmt.Errorf("create dirs: %w", err)
		}
	}
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open sqlite: %w", err)
	}
	db.SetMaxOpenConns(1)

	schema := []string{
		`CREATE TABLE IF NOT EXISTS runs (
			id TEXT PRIMARY KEY,
			created_at INTEGER NOT NULL,
			name TEXT NOT NULL DEFAULT '',
			provider TEXT NOT NULL,
			segments INTEGER NOT NULL,
			bhp REAL NOT NULL,
			well BLOB NOT NULL,
			result BLOB NOT NULL
		)`,
		`CREATE TABLE IF NOT EXISTS pvt_tables (
			key TEXT PRIMARY KEY,
			created_at INTEGER NOT NULL,
			fluid BLOB NOT NULL,
			rows BLOB NOT NULL
		)`,
	}
	for _, stmt := range schema {
		if _, err := db.ExecContext(ctx, stmt); err != nil {
			_ = db.Close()
			return nil, fmt.Errorf("create schema: %w", err)
		}
	}
	return &Store{db: db, path: path}, nil
}

func (s *Store) Close() error {
	return s.db.Close()
}

func (s *Store) Path() string { return s.path }

// SaveRun assigns an ID and stores the run.
func (s *Store) SaveRun(ctx context.Context, name string, well model.WellConfig, res *traverse.Result) (*Run, error) {
	if res == nil || len(res.Segments) == 0 {
		return nil, fmt.Errorf("%w: traverse result is empty", model.ErrInvalidInput)
	}
	run := &Run{
		ID:        uuid.NewString(),
		CreatedAt: time.Now().UTC(),
		Name:      name,
		Well:      well,
		Result:    res,
	}
	wellJSON, err := json.Marshal(run.Well)
	if err != nil {
		return nil, fmt.Errorf("encode well: %w", err)
	}
	resJSON, err := json.Marshal(run.Result)
	if err != nil {
		return nil, fmt.Errorf("encode result: %w", err)
	}
	_, err = s.db.ExecContext(ctx,
		`INSERT INTO runs (id, created_at, name, provider, segments, bhp, well, result) VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		run.ID, run.CreatedAt.UnixNano(), name, res.Provider, len(res.Segments)-1, res.BottomholePressure(), wellJSON, resJSON)
	if err != nil {
		return nil, fmt.Errorf("insert run: %w", err)
	}
	return run, nil
}

// GetRun loads a stored run by ID.
func (s *Store) GetRun(ctx context.Context, id string) (*Run, error) {
	if _, err := uuid.Parse(id); err != nil {
		return nil, fmt.Errorf("%w: run id %q is not a UUID", model.ErrInvalidInput, id)
	}
	var (
		run      Run
		created  int64
		wellJSON []byte
		resJSON  []byte
	)
	err := s.db.QueryRowContext(ctx, `SELECT id, created_at, name, well, result FROM runs WHERE id = ?`, id).
		Scan(&run.ID, &created, &run.Name, &wellJSON, &resJSON)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("run %s: %w", id, ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("select run: %w", err)
	}
	run.CreatedAt = time.Unix(0, created).UTC()
	if err := json.Unmarshal(wellJSON, &run.Well); err != nil {
		return nil, fmt.Errorf("decode well: %w", err)
	}
	if err := json.Unmarshal(resJSON, &run.Result); err != nil {
		return nil, fmt.Errorf("decode result: %w", err)
	}
	return &run, nil
}

// ListRuns returns the most recent runs first.
func (s *Store) ListRuns(ctx context.Context, limit int) ([]RunSummary, error) {
	if limit <= 0 {
		limit = 50
	}
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, created_at, name, provider, segments, bhp FROM runs ORDER BY created_at DESC LIMIT ?`, limit)
	if err != nil {
		return nil, fmt.Errorf("select runs: %w", err)
	}
	defer func() { _ = rows.Close() }()

	out := []RunSummary{}
	for rows.Next() {
		var r RunSummary
		var created int64
		if err := rows.Scan(&r.ID, &created, &r.Name, &r.Provider, &r.Segments, &r.BottomholePressure); err != nil {
			return nil, fmt.Errorf("scan: %w", err)
		}
		r.CreatedAt = time.Unix(0, created).UTC()
		out = append(out, r)
	}
	return out, rows.Err()
}

// SaveTable stores generated rows under key, replacing any previous entry.
func (s *Store) SaveTable(ctx context.Context, key string, fluid model.FluidParams, rows []model.FluidSample) error {
	fluidJSON, err := json.Marshal(fluid)
	if err != nil {
		return fmt.Errorf("encode fluid: %w", err)
	}
	rowsJSON, err := json.Marshal(rows)
	if err != nil {
		return fmt.Errorf("encode rows: %w", err)
	}
	_, err = s.db.ExecContext(ctx,
		`INSERT INTO pvt_tables (key, created_at, fluid, rows) VALUES (?, ?, ?, ?)
		 ON CONFLICT(key) DO UPDATE SET created_at = excluded.created_at, fluid = excluded.fluid, rows = excluded.rows`,
		key, time.Now().UnixNano(), fluidJSON, rowsJSON)
	if err != nil {
		return fmt.Errorf("upsert table: %w", err)
	}
	return nil
}

// LoadTable returns the rows stored under key.
func (s *Store) LoadTable(ctx context.Context, key string) ([]model.FluidSample, error) {
	var raw []byte
	err := s.db.QueryRowContext(ctx, `SELECT rows FROM pvt_tables WHERE key = ?`, key).Scan(&raw)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("table %s: %w", key, ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("select table: %w", err)
	}
	var rows []model.FluidSample
	if err := json.Unmarshal(raw, &rows); err != nil {
		return nil, fmt.Errorf("decode rows: %w", err)
	}
	return rows, nil
}
