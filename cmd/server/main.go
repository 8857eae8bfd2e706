// Package main provides the entry point for the bibliographic enrichment
// service HTTP server.
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

	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/medbiblio/biblio-enrichment-service/internal/concepts"
	"github.com/medbiblio/biblio-enrichment-service/internal/config"
	"github.com/medbiblio/biblio-enrichment-service/internal/enrich"
	"github.com/medbiblio/biblio-enrichment-service/internal/harvest"
	"github.com/medbiblio/biblio-enrichment-service/internal/observability"
	"github.com/medbiblio/biblio-enrichment-service/internal/reference"
	httpserver "github.com/medbiblio/biblio-enrichment-service/internal/server/http"
	"github.com/medbiblio/biblio-enrichment-service/internal/sidelog"
	"github.com/medbiblio/biblio-enrichment-service/internal/store"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	// Load configuration.
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	// Set up structured logging.
	logger := observability.NewLogger(observability.LoggingConfig{
		Level:      cfg.Logging.Level,
		Format:     cfg.Logging.Format,
		Output:     cfg.Logging.Output,
		AddSource:  cfg.Logging.AddSource,
		TimeFormat: cfg.Logging.TimeFormat,
	})
	logger = logger.With().Str("component", "server").Logger()
	logger.Info().Msg("biblio-enrichment-service server starting")

	// Set up context with graceful shutdown via OS signals.
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	var metrics *observability.Metrics
	if cfg.Metrics.Enabled {
		metrics = observability.NewMetrics(cfg.Metrics.Namespace)
	}

	// Load the journal reference workbook.
	table, err := reference.LoadWorkbook(cfg.Reference.Path, cfg.Reference.Sheet)
	if err != nil {
		return fmt.Errorf("load reference workbook: %w", err)
	}
	logger.Info().Int("journals", table.Len()).Str("path", cfg.Reference.Path).Msg("reference table loaded")

	// Wire the pipeline.
	tagger := concepts.NewTagger(sidelog.NewFileLog(cfg.Concepts.SideLogPath), logger)

	searchClient := harvest.NewClient(harvest.ClientConfig{
		BaseURL:   cfg.Search.BaseURL,
		StartYear: cfg.Search.StartYear,
		Timeout:   cfg.Search.Timeout,
		RateLimit: cfg.Search.RateLimit,
		Burst:     cfg.Search.Burst,
	})
	harvester := harvest.NewHarvester(searchClient, harvest.RetryPolicy{
		MaxAttempts: cfg.Search.MaxRetries,
		Delay:       cfg.Search.RetryDelay,
	}, logger, metrics)

	records, err := store.NewFSStore(cfg.Store.Dir)
	if err != nil {
		return fmt.Errorf("open record store: %w", err)
	}

	service := enrich.NewService(harvester, records, table, tagger, logger, metrics)

	httpSrv := httpserver.NewServer(httpserver.Config{
		Address:         cfg.Server.HTTPAddress(),
		ReadTimeout:     cfg.Server.ReadTimeout,
		WriteTimeout:    cfg.Server.WriteTimeout,
		IdleTimeout:     2 * time.Minute,
		ShutdownTimeout: cfg.Server.ShutdownTimeout,
	}, service, table, tagger, logger)

	// Set up Prometheus metrics handler on a separate port if configured.
	var metricsServer *http.Server
	if cfg.Metrics.Enabled {
		metricsMux := http.NewServeMux()
		metricsMux.Handle(cfg.Metrics.Path, promhttp.Handler())
		metricsServer = &http.Server{
			Addr:         cfg.Server.MetricsAddress(),
			Handler:      metricsMux,
			ReadTimeout:  cfg.Server.ReadTimeout,
			WriteTimeout: cfg.Server.WriteTimeout,
		}
	}

	// Channel to collect server errors.
	errCh := make(chan error, 2)

	go func() {
		if err := httpSrv.Start(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- fmt.Errorf("HTTP server error: %w", err)
		}
	}()

	if metricsServer != nil {
		go func() {
			logger.Info().Str("address", metricsServer.Addr).Msg("metrics server starting")
			if err := metricsServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
				errCh <- fmt.Errorf("metrics server error: %w", err)
			}
		}()
	}

	logger.Info().
		Str("http_address", cfg.Server.HTTPAddress()).
		Msg("biblio-enrichment-service is ready")

	// Wait for shutdown signal or server error.
	select {
	case <-ctx.Done():
		logger.Info().Msg("received shutdown signal")
	case err := <-errCh:
		logger.Error().Err(err).Msg("server error")
		return err
	}

	// Graceful shutdown.
	logger.Info().Msg("shutting down biblio-enrichment-service")

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
	defer shutdownCancel()

	if err := httpSrv.Shutdown(shutdownCtx); err != nil {
		logger.Error().Err(err).Msg("HTTP server shutdown error")
	}
	if metricsServer != nil {
		if err := metricsServer.Shutdown(shutdownCtx); err != nil {
			logger.Error().Err(err).Msg("metrics server shutdown error")
		}
	}

	logger.Info().Msg("biblio-enrichment-service shutdown complete")
	return nil
}
