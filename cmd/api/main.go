package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"

	"wellflow/internal/api"
	"wellflow/internal/api/middleware"
	"wellflow/internal/config"
	"wellflow/internal/data"
	"wellflow/internal/log"
)

func main() {
	// Get configuration from environment
	port := os.Getenv("API_PORT")
	if port == "" {
		port = "8080"
	}
	production := os.Getenv("API_ENV") == "production"

	if err := log.Init(!production); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
	defer log.Sync()

	if production {
		gin.SetMode(gin.ReleaseMode)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	ttl := config.DefaultCacheTTL
	if s := os.Getenv("WELLFLOW_CACHE_TTL"); s != "" {
		d, err := config.StorageConfig{CacheTTL: s}.TTL()
		if err != nil {
			log.Fatalf("WELLFLOW_CACHE_TTL: %v", err)
		}
		ttl = d
	}
	cache := data.NewTableCache(ttl)
	go cache.Run(ctx, ttl/4)

	tables := &data.Tables{Cache: cache, Log: log.GetSugaredLogger()}
	var store *data.Store
	if path := os.Getenv("WELLFLOW_DB"); path != "" {
		s, err := data.OpenStore(ctx, path)
		if err != nil {
			log.Fatalf("open store %s: %v", path, err)
		}
		defer s.Close()
		store = s
		tables.Store = s
		log.Infow("run storage enabled", "path", s.Path())
	} else {
		log.Info("WELLFLOW_DB not set, run storage disabled")
	}

	router := api.NewRouter(api.Options{
		Tables:      tables,
		Store:       store,
		Metrics:     middleware.NewMetrics(),
		Log:         log.GetSugaredLogger(),
		WellDir:     os.Getenv("WELL_DIR"),
		CORSOrigins: os.Getenv("CORS_ORIGINS"),
	})

	srv := &http.Server{
		Addr:              fmt.Sprintf(":%s", port),
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}
	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			log.Errorf("shutdown: %v", err)
		}
	}()

	log.Infow("starting API server", "addr", srv.Addr, "production", production)
	if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		log.Fatalf("Failed to start server: %v", err)
	}
}
