package data

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"wellflow/internal/model"
)

type tableFile struct {
	Fluid *model.FluidParams  `json:"fluid,omitempty"`
	Rows  []model.FluidSample `json:"rows"`
}

// LoadTableJSON reads {"rows": [...]} or a bare array of samples.
func LoadTableJSON(path string) ([]model.FluidSample, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	trimmed := strings.TrimSpace(string(raw))
	if strings.HasPrefix(trimmed, "[") {
		var rows []model.FluidSample
		if err := json.Unmarshal(raw, &rows); err != nil {
			return nil, fmt.Errorf("%w: %s: %v", model.ErrInvalidInput, path, err)
		}
		return rows, nil
	}
	var tf tableFile
	if err := json.Unmarshal(raw, &tf); err != nil {
		return nil, fmt.Errorf("%w: %s: %v", model.ErrInvalidInput, path, err)
	}
	return tf.Rows, nil
}

// WriteTableJSON writes rows and, if given, the fluid they were generated from.
func WriteTableJSON(path string, fluid *model.FluidParams, rows []model.FluidSample) error {
	raw, err := json.MarshalIndent(tableFile{Fluid: fluid, Rows: rows}, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(path, raw, 0o644)
}

// LoadTable picks the reader from the file extension (.csv or .json).
func LoadTable(path string) ([]model.FluidSample, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".csv":
		return LoadTableCSV(path)
	case ".json":
		return LoadTableJSON(path)
	}
	return nil, fmt.Errorf("%w: unsupported PVT table format %q (use .csv or .json)", model.ErrInvalidInput, filepath.Ext(path))
}
