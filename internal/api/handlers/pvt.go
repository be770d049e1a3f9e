package handlers

import (
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"wellflow/internal/api/middleware"
	"wellflow/internal/api/models"
	"wellflow/internal/config"
	"wellflow/internal/data"
	"wellflow/internal/model"
	"wellflow/internal/pvt"
	"wellflow/internal/units"
)

// maxTableRows bounds the size of a generated table.
const maxTableRows = 20000

// PVTHandler serves Z-factor solves and generated PVT tables
type PVTHandler struct {
	tables  *data.Tables
	metrics *middleware.Metrics
	log     *zap.SugaredLogger
}

// NewPVTHandler creates a PVT handler. tables and metrics may be nil.
func NewPVTHandler(tables *data.Tables, metrics *middleware.Metrics, log *zap.SugaredLogger) *PVTHandler {
	if tables == nil {
		tables = &data.Tables{}
	}
	if log == nil {
		log = zap.NewNop().Sugar()
	}
	return &PVTHandler{tables: tables, metrics: metrics, log: log}
}

// ZFactor handles GET /api/v1/zfactor?pressure=&temperature=&temp_unit=&gas_sg=
// The temperature unit defaults to Rankine.
func (h *PVTHandler) ZFactor(c *gin.Context) {
	var q models.ZFactorQuery
	if err := c.ShouldBindQuery(&q); err != nil {
		invalidRequest(c, err)
		return
	}
	unit := units.Rankine
	if q.TempUnit != "" {
		u, err := units.ParseTempUnit(q.TempUnit)
		if err != nil {
			respondError(c, fmt.Errorf("%w: temp_unit: %v", model.ErrInvalidInput, err))
			return
		}
		unit = u
	}
	tR, err := units.ToRankine(q.Temperature, unit)
	if err != nil {
		respondError(c, fmt.Errorf("%w: %v", model.ErrInvalidInput, err))
		return
	}

	sol, err := pvt.DefaultSolver().Solve(q.Pressure, tR, q.GasSG)
	h.metrics.ObserveZSolve(err)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, models.ZFactorResponse{
		Pressure:    q.Pressure,
		Temperature: tR,
		GasSG:       q.GasSG,
		Solution:    sol,
	})
}

// BuildTable handles POST /api/v1/pvt/table
// ?format=csv returns the table as CSV.
func (h *PVTHandler) BuildTable(c *gin.Context) {
	var req models.PVTTableRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		invalidRequest(c, err)
		return
	}
	if req.Fluid.Temperature == 0 {
		respondError(c, fmt.Errorf("%w: fluid.temperature is required", model.ErrInvalidInput))
		return
	}

	cfg := &config.Config{Fluid: req.Fluid}
	fluid, err := cfg.FluidParams()
	if err != nil {
		respondError(c, err)
		return
	}

	r := req.Range
	if r.From == 0 {
		r.From = config.DefaultTableFrom
	}
	if r.To == 0 {
		r.To = config.DefaultTableTo
	}
	if r.Step == 0 {
		r.Step = config.DefaultTableStep
	}
	if r.From < 1 || r.To < r.From || r.Step < 1 {
		respondError(c, fmt.Errorf("%w: range must satisfy 1 <= from <= to and step >= 1, got %+v", model.ErrInvalidInput, r))
		return
	}
	if n := (r.To-r.From)/r.Step + 1; n > maxTableRows {
		respondError(c, fmt.Errorf("%w: range yields %d rows, at most %d allowed", model.ErrInvalidInput, n, maxTableRows))
		return
	}

	rows, source, err := h.tables.Get(c.Request.Context(), fluid, req.Solver.Solver(), r.From, r.To, r.Step)
	if err != nil {
		respondError(c, err)
		return
	}
	h.log.Debugw("pvt table", "source", source, "rows", len(rows))

	if c.Query("format") == "csv" {
		c.Header("Content-Type", "text/csv")
		c.Status(http.StatusOK)
		if err := data.WriteTable(c.Writer, rows); err != nil {
			h.log.Errorw("write pvt table csv", "error", err)
		}
		return
	}
	c.JSON(http.StatusOK, models.PVTTableResponse{
		Fluid:  fluid,
		Source: source,
		Count:  len(rows),
		Rows:   rows,
	})
}
