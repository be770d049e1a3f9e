package handlers

import (
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"

	"wellflow/internal/analysis"
	"wellflow/internal/api/models"
	"wellflow/internal/model"
)

// maxVLPPoints bounds the number of traverses one request may start.
const maxVLPPoints = 200

// RunVLP handles POST /api/v1/vlp
func (h *TraverseHandler) RunVLP(c *gin.Context) {
	var req models.VLPRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		invalidRequest(c, err)
		return
	}

	if req.Points > maxVLPPoints {
		respondError(c, fmt.Errorf("%w: at most %d rates per curve, got %d", model.ErrInvalidInput, maxVLPPoints, req.Points))
		return
	}
	rates := req.Rates
	if len(rates) == 0 {
		span, err := analysis.RateSpan(req.RateMin, req.RateMax, req.Points)
		if err != nil {
			respondError(c, err)
			return
		}
		rates = span
	}
	if len(rates) > maxVLPPoints {
		respondError(c, fmt.Errorf("%w: at most %d rates per curve, got %d", model.ErrInvalidInput, maxVLPPoints, len(rates)))
		return
	}

	// The base rate only has to pass validation; every point overrides it.
	if req.Well.OilRate == 0 {
		req.Well.OilRate = rates[0]
	}
	cfg, well, prov, err := h.prepare(c, &req.TraverseRequest)
	if err != nil {
		respondError(c, err)
		return
	}

	points, err := analysis.VLPCurve(c.Request.Context(), h.engine(cfg), *well, prov, rates, req.Concurrency)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, models.VLPResponse{Provider: prov.Name(), Points: points})
}
