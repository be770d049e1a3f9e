package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"

	"wellflow/internal/api/models"
	"wellflow/internal/data"
	"wellflow/internal/model"
	"wellflow/internal/provider"
	"wellflow/internal/pvt"
	"wellflow/internal/traverse"
)

func TestRespondError(t *testing.T) {
	gin.SetMode(gin.TestMode)

	lookup := &traverse.SegmentError{
		Index:    43,
		Depth:    1164.6,
		Pressure: 641.627,
		Err:      &provider.LookupError{Provider: "exact", Pressure: 641.627, Key: 642},
	}
	tests := []struct {
		name   string
		err    error
		status int
		code   string
		detail string
	}{
		{"invalid input", fmt.Errorf("%w: water cut", model.ErrInvalidInput), http.StatusBadRequest, "INVALID_INPUT", ""},
		{"lookup", lookup, http.StatusUnprocessableEntity, "PROPERTY_LOOKUP_FAILURE", "segment"},
		{"non-convergence", &pvt.ConvergenceError{Seed: 0.8, Iterations: 100}, http.StatusUnprocessableEntity, "NON_CONVERGENCE", "seed"},
		{"domain", fmt.Errorf("%w: Tpr", model.ErrDomainViolation), http.StatusUnprocessableEntity, "DOMAIN_VIOLATION", ""},
		{"not found", fmt.Errorf("run x: %w", data.ErrNotFound), http.StatusNotFound, "NOT_FOUND", ""},
		{"canceled", &traverse.SegmentError{Err: context.Canceled}, http.StatusServiceUnavailable, "CANCELED", "segment"},
		{"other", errors.New("disk on fire"), http.StatusInternalServerError, "INTERNAL_ERROR", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := httptest.NewRecorder()
			c, _ := gin.CreateTestContext(w)
			respondError(c, tt.err)

			if w.Code != tt.status {
				t.Errorf("status = %d, expected %d", w.Code, tt.status)
			}
			var resp models.ErrorResponse
			if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
				t.Fatal(err)
			}
			if resp.Error.Code != tt.code {
				t.Errorf("code = %q, expected %q", resp.Error.Code, tt.code)
			}
			if tt.detail != "" {
				if _, ok := resp.Error.Details[tt.detail]; !ok {
					t.Errorf("details %v missing %q", resp.Error.Details, tt.detail)
				}
			}
		})
	}
}
