// Package api wires the HTTP handlers and middleware into a gin router.
package api

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"wellflow/internal/api/handlers"
	"wellflow/internal/api/middleware"
	"wellflow/internal/data"
)

// Options are the router dependencies. Only Log is required to be useful;
// nil Store disables run persistence and nil Metrics disables /metrics.
type Options struct {
	Tables      *data.Tables
	Store       *data.Store
	Metrics     *middleware.Metrics
	Log         *zap.SugaredLogger
	WellDir     string
	CORSOrigins string
}

// NewRouter builds the API router.
func NewRouter(opts Options) *gin.Engine {
	log := opts.Log
	if log == nil {
		log = zap.NewNop().Sugar()
	}

	router := gin.New()
	router.Use(middleware.RequestID())
	router.Use(middleware.CORS(opts.CORSOrigins))
	router.Use(middleware.Logger(log))
	router.Use(opts.Metrics.Middleware())
	router.Use(middleware.ErrorHandler(log))

	wellHandler := handlers.NewWellHandler(opts.WellDir, log)
	traverseHandler := handlers.NewTraverseHandler(opts.Tables, opts.Store, wellHandler, opts.Metrics, log)
	pvtHandler := handlers.NewPVTHandler(opts.Tables, opts.Metrics, log)

	// Health check
	router.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok", "storage": opts.Store != nil})
	})
	if opts.Metrics != nil {
		router.GET("/metrics", opts.Metrics.Handler())
	}

	// API routes
	v1 := router.Group("/api/v1")
	{
		v1.POST("/traverse", traverseHandler.RunTraverse)
		v1.GET("/traverse", traverseHandler.ListRuns)
		v1.GET("/traverse/:id", traverseHandler.GetRun)
		v1.GET("/traverse/:id/segments", traverseHandler.GetSegments)
		v1.POST("/vlp", traverseHandler.RunVLP)

		v1.GET("/zfactor", pvtHandler.ZFactor)
		v1.POST("/pvt/table", pvtHandler.BuildTable)

		v1.GET("/providers", handlers.ListProviders)
		v1.GET("/wells", wellHandler.ListWells)
		v1.GET("/wells/:id", wellHandler.GetWell)
	}

	router.NoRoute(func(c *gin.Context) {
		c.JSON(http.StatusNotFound, gin.H{"error": gin.H{"code": "NOT_FOUND", "message": "route not found"}})
	})
	return router
}
