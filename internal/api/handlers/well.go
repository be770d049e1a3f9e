package handlers

import (
	"fmt"
	"net/http"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"wellflow/internal/api/models"
	"wellflow/internal/config"
	"wellflow/internal/data"
	"wellflow/internal/model"
)

// WellHandler serves the well presets found in a directory of YAML files
type WellHandler struct {
	wellDir string
	log     *zap.SugaredLogger
}

// NewWellHandler creates a well handler. An empty dir falls back to WELL_DIR,
// then to examples/wells under the working directory.
func NewWellHandler(dir string, log *zap.SugaredLogger) *WellHandler {
	if log == nil {
		log = zap.NewNop().Sugar()
	}
	if dir == "" {
		dir = os.Getenv("WELL_DIR")
	}
	if dir == "" {
		dir = filepath.Join("examples", "wells")
	}
	if abs, err := filepath.Abs(dir); err == nil {
		dir = abs
	}
	log.Infow("well presets", "dir", dir)
	return &WellHandler{wellDir: dir, log: log}
}

// Dir returns the preset directory.
func (h *WellHandler) Dir() string {
	return h.wellDir
}

// ListWells handles GET /api/v1/wells
func (h *WellHandler) ListWells(c *gin.Context) {
	wells := []models.WellInfo{}

	entries, err := os.ReadDir(h.wellDir)
	if err != nil {
		h.log.Warnw("cannot read well directory", "dir", h.wellDir, "error", err)
		c.JSON(http.StatusOK, gin.H{"wells": wells})
		return
	}

	for _, entry := range entries {
		if entry.IsDir() || !strings.HasSuffix(entry.Name(), ".yaml") {
			continue
		}
		path := filepath.Join(h.wellDir, entry.Name())
		w, err := config.LoadWellFile(path)
		if err != nil {
			h.log.Warnw("skipping invalid well preset", "file", path, "error", err)
			continue
		}
		wells = append(wells, wellInfo(strings.TrimSuffix(entry.Name(), ".yaml"), path, w))
	}
	sort.Slice(wells, func(i, j int) bool { return wells[i].ID < wells[j].ID })

	c.JSON(http.StatusOK, gin.H{"wells": wells})
}

// GetWell handles GET /api/v1/wells/:id
func (h *WellHandler) GetWell(c *gin.Context) {
	w, err := h.Load(c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"id": c.Param("id"), "well": w})
}

// Load reads the preset with the given ID (its file name without .yaml).
func (h *WellHandler) Load(id string) (config.WellConfig, error) {
	if id == "" || id != filepath.Base(id) || strings.HasPrefix(id, ".") {
		return config.WellConfig{}, fmt.Errorf("%w: invalid well id %q", model.ErrInvalidInput, id)
	}
	path := filepath.Join(h.wellDir, id+".yaml")
	if _, err := os.Stat(path); err != nil {
		return config.WellConfig{}, fmt.Errorf("well %q: %w", id, data.ErrNotFound)
	}
	return config.LoadWellFile(path)
}

func wellInfo(id, path string, w config.WellConfig) models.WellInfo {
	name := w.Name
	if name == "" {
		name = id
	}
	return models.WellInfo{
		ID:   id,
		Name: name,
		File: path,
		Specs: models.WellSpecs{
			OilRate:          w.OilRate,
			GasOilRatio:      w.GasOilRatio,
			WaterCut:         w.WaterCut,
			BoundaryPressure: w.BoundaryPressure,
			TubingID:         w.TubingID,
			TubingLength:     w.TubingLength,
			LengthUnit:       w.LengthUnit,
		},
	}
}
