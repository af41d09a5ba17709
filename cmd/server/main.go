package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	appservice "github.com/damon-houk/fx-timeseries-export/internal/application/service"
	"github.com/damon-houk/fx-timeseries-export/internal/config"
	"github.com/damon-houk/fx-timeseries-export/internal/infrastructure/api"
	"github.com/damon-houk/fx-timeseries-export/internal/infrastructure/cache"
	"github.com/damon-houk/fx-timeseries-export/internal/infrastructure/excel"
	"github.com/damon-houk/fx-timeseries-export/internal/infrastructure/handler"
	"github.com/damon-houk/fx-timeseries-export/internal/infrastructure/logger"
	"github.com/damon-houk/fx-timeseries-export/internal/infrastructure/middleware"
	"github.com/gorilla/mux"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

func main() {
	cfg := config.NewConfig()

	log := logger.NewJSONLogger(os.Stdout, logger.InfoLevel)
	logger.SetDefaultLogger(log)

	log.Info("Starting FX timeseries export service", map[string]interface{}{
		"port":      cfg.HTTPServer.Port,
		"upstream":  cfg.Upstream.URL,
		"cache_ttl": cfg.Cache.TTL.String(),
	})

	// Ephemeral rate-series cache; nothing survives the process
	seriesCache, err := cache.NewSeriesCache(cfg.Cache.TTL)
	if err != nil {
		log.Error("Failed to open series cache", map[string]interface{}{"error": err.Error()})
		os.Exit(1)
	}
	defer func() {
		if err := seriesCache.Close(); err != nil {
			log.Error("Error closing series cache", map[string]interface{}{"error": err.Error()})
		}
	}()

	// Upstream client wrapped by the TTL cache
	timeframeClient := api.NewTimeframeClient(
		cfg.Upstream.URL,
		cfg.Upstream.AccessKey,
		&http.Client{Timeout: cfg.Upstream.Timeout},
		log,
	)
	rateSeries := cache.NewCachingRateSeriesProvider(timeframeClient, seriesCache, log)

	// Services
	rangeService := appservice.NewRangeService(nil)
	exportService := appservice.NewExportService(rateSeries, rangeService, cfg.Upstream.MaxThrottle, log)

	// Handlers
	exportHandler := handler.NewExportHandler(exportService, excel.NewWorkbookWriter(), log)
	pageHandler := handler.NewPageHandler(log)
	healthHandler := handler.NewHealthHandler()

	// Router
	router := mux.NewRouter()
	router.Use(middleware.RequestIDMiddleware)
	router.Use(middleware.LoggingMiddleware(log))

	router.Handle("/metrics", promhttp.Handler())
	pageHandler.RegisterRoutes(router)
	exportHandler.RegisterRoutes(router)
	healthHandler.RegisterRoutes(router)

	srv := &http.Server{
		Addr:         ":" + cfg.HTTPServer.Port,
		Handler:      router,
		ReadTimeout:  cfg.HTTPServer.Timeout,
		WriteTimeout: cfg.HTTPServer.Timeout,
		IdleTimeout:  cfg.HTTPServer.IdleTimeout,
	}

	go func() {
		log.Info("Server listening", map[string]interface{}{"addr": srv.Addr})
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Error("Server error", map[string]interface{}{"error": err.Error()})
			os.Exit(1)
		}
	}()

	done := make(chan os.Signal, 1)
	signal.Notify(done, os.Interrupt, syscall.SIGINT, syscall.SIGTERM)
	<-done

	log.Info("Shutting down", nil)

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error("Failed to stop server", map[string]interface{}{"error": err.Error()})
	}

	log.Info("Server stopped", nil)
}
