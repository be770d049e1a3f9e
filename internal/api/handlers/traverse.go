package handlers

import (
	"fmt"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"wellflow/internal/analysis"
	"wellflow/internal/api/middleware"
	"wellflow/internal/api/models"
	"wellflow/internal/config"
	"wellflow/internal/data"
	"wellflow/internal/model"
	"wellflow/internal/provider"
	"wellflow/internal/traverse"
)

// TraverseHandler runs, stores and serves pressure traverses
type TraverseHandler struct {
	tables  *data.Tables
	store   *data.Store
	wells   *WellHandler
	metrics *middleware.Metrics
	log     *zap.SugaredLogger
}

// NewTraverseHandler creates a traverse handler. store and metrics may be nil;
// without a store runs cannot be saved or fetched.
func NewTraverseHandler(tables *data.Tables, store *data.Store, wells *WellHandler, metrics *middleware.Metrics, log *zap.SugaredLogger) *TraverseHandler {
	if tables == nil {
		tables = &data.Tables{}
	}
	if log == nil {
		log = zap.NewNop().Sugar()
	}
	return &TraverseHandler{tables: tables, store: store, wells: wells, metrics: metrics, log: log}
}

// RunTraverse handles POST /api/v1/traverse
func (h *TraverseHandler) RunTraverse(c *gin.Context) {
	var req models.TraverseRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		invalidRequest(c, err)
		return
	}
	if req.Options.Save && h.store == nil {
		storageDisabled(c)
		return
	}

	cfg, well, prov, err := h.prepare(c, &req)
	if err != nil {
		respondError(c, err)
		return
	}

	res, err := h.run(c, cfg, *well, prov)
	if err != nil {
		respondError(c, err)
		return
	}

	response := buildResponse(res, req.Options.IncludeSegments)
	if req.Options.Save {
		run, err := h.store.SaveRun(c.Request.Context(), req.Options.Name, *well, res)
		if err != nil {
			respondError(c, err)
			return
		}
		response.ID = run.ID
	}
	c.JSON(http.StatusOK, response)
}

// GetRun handles GET /api/v1/traverse/:id
func (h *TraverseHandler) GetRun(c *gin.Context) {
	if h.store == nil {
		storageDisabled(c)
		return
	}
	run, err := h.store.GetRun(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}
	resp := models.RunResponse{
		CreatedAt:        run.CreatedAt,
		Name:             run.Name,
		Well:             run.Well,
		TraverseResponse: buildResponse(run.Result, c.Query("segments") == "true"),
	}
	resp.ID = run.ID
	c.JSON(http.StatusOK, resp)
}

// GetSegments handles GET /api/v1/traverse/:id/segments
// ?format=csv returns the traverse CSV instead of JSON.
func (h *TraverseHandler) GetSegments(c *gin.Context) {
	if h.store == nil {
		storageDisabled(c)
		return
	}
	run, err := h.store.GetRun(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}

	if c.Query("format") == "csv" {
		c.Header("Content-Type", "text/csv")
		c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%q", run.ID+".csv"))
		c.Status(http.StatusOK)
		if err := traverse.Write(c.Writer, run.Result); err != nil {
			h.log.Errorw("write segments csv", "id", run.ID, "error", err)
		}
		return
	}
	c.JSON(http.StatusOK, gin.H{"id": run.ID, "segments": run.Result.Segments})
}

// ListRuns handles GET /api/v1/traverse
func (h *TraverseHandler) ListRuns(c *gin.Context) {
	if h.store == nil {
		storageDisabled(c)
		return
	}
	limit := 50
	if s := c.Query("limit"); s != "" {
		n, err := strconv.Atoi(s)
		if err != nil || n < 1 {
			invalidRequest(c, fmt.Errorf("limit must be a positive integer, got %q", s))
			return
		}
		limit = n
	}
	runs, err := h.store.ListRuns(c.Request.Context(), limit)
	if err != nil {
		respondError(c, err)
		return
	}
	if runs == nil {
		runs = []data.RunSummary{}
	}
	c.JSON(http.StatusOK, gin.H{"runs": runs})
}

// prepare resolves the well preset, validates the assembled configuration and
// builds the provider.
func (h *TraverseHandler) prepare(c *gin.Context, req *models.TraverseRequest) (*config.Config, *model.WellConfig, provider.Provider, error) {
	cfg := req.Config()
	if req.WellID != "" {
		if h.wells == nil {
			return nil, nil, nil, fmt.Errorf("%w: well presets are not available", model.ErrInvalidInput)
		}
		preset, err := h.wells.Load(req.WellID)
		if err != nil {
			return nil, nil, nil, err
		}
		cfg.Well = config.MergeWell(preset, req.Well)
	}
	if err := cfg.Validate(); err != nil {
		return nil, nil, nil, err
	}
	well, err := cfg.Well.ToModel()
	if err != nil {
		return nil, nil, nil, err
	}
	prov, err := cfg.BuildProvider(c.Request.Context(), h.tables)
	if err != nil {
		return nil, nil, nil, err
	}
	return cfg, well, prov, nil
}

func (h *TraverseHandler) engine(cfg *config.Config) *traverse.Engine {
	return traverse.New(traverse.Options{
		Envelope: cfg.Traverse.EnvelopePolicy(),
		Logger:   h.log,
	})
}

func (h *TraverseHandler) run(c *gin.Context, cfg *config.Config, well model.WellConfig, prov provider.Provider) (*traverse.Result, error) {
	res, err := h.engine(cfg).Run(c.Request.Context(), well, prov)
	segments := 0
	if res != nil {
		segments = len(res.Segments) - 1
	}
	h.metrics.ObserveTraverse(prov.Name(), segments, err)
	if err != nil {
		h.log.Warnw("traverse failed", "provider", prov.Name(), "kind", model.ErrorKind(err), "error", err)
	}
	return res, err
}

func buildResponse(res *traverse.Result, includeSegments bool) models.TraverseResponse {
	resp := models.TraverseResponse{
		Status:     "completed",
		Direction:  res.Direction,
		Provider:   res.Provider,
		Summary:    analysis.Summarize(res),
		Violations: res.Violations,
	}
	if includeSegments {
		resp.Segments = res.Segments
	}
	return resp
}

func storageDisabled(c *gin.Context) {
	c.JSON(http.StatusServiceUnavailable, models.ErrorResponse{
		Error: models.ErrorDetail{
			Code:    "STORAGE_DISABLED",
			Message: "run storage is not configured (set WELLFLOW_DB)",
		},
	})
}
