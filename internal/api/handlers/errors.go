package handlers

import (
	"context"
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"wellflow/internal/api/models"
	"wellflow/internal/data"
	"wellflow/internal/model"
	"wellflow/internal/provider"
	"wellflow/internal/pvt"
	"wellflow/internal/traverse"
)

// invalidRequest answers a request body or query that could not be bound.
func invalidRequest(c *gin.Context, err error) {
	c.JSON(http.StatusBadRequest, models.ErrorResponse{
		Error: models.ErrorDetail{
			Code:    "INVALID_REQUEST",
			Message: err.Error(),
		},
	})
}

// respondError maps an error kind to a status code and writes the error body.
// Input errors are 400; lookup, convergence and domain failures are 422.
func respondError(c *gin.Context, err error) {
	status := http.StatusInternalServerError
	code := model.ErrorKind(err)
	switch {
	case errors.Is(err, data.ErrNotFound):
		status, code = http.StatusNotFound, "NOT_FOUND"
	case errors.Is(err, model.ErrInvalidInput):
		status = http.StatusBadRequest
	case errors.Is(err, model.ErrPropertyLookup),
		errors.Is(err, model.ErrNonConvergence),
		errors.Is(err, model.ErrDomainViolation):
		status = http.StatusUnprocessableEntity
	case errors.Is(err, context.Canceled), errors.Is(err, context.DeadlineExceeded):
		status, code = http.StatusServiceUnavailable, "CANCELED"
	}

	detail := models.ErrorDetail{Code: code, Message: err.Error()}
	details := map[string]interface{}{}
	var segErr *traverse.SegmentError
	if errors.As(err, &segErr) {
		details["segment"] = segErr.Index
		details["depth_ft"] = segErr.Depth
		details["pressure_psia"] = segErr.Pressure
	}
	var lookupErr *provider.LookupError
	if errors.As(err, &lookupErr) {
		details["provider"] = lookupErr.Provider
		details["lookup_pressure_psia"] = lookupErr.Key
	}
	var convErr *pvt.ConvergenceError
	if errors.As(err, &convErr) {
		details["seed"] = convErr.Seed
		details["iterations"] = convErr.Iterations
	}
	if len(details) > 0 {
		detail.Details = details
	}
	c.JSON(status, models.ErrorResponse{Error: detail})
}
