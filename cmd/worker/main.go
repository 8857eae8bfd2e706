// Package main provides the one-shot batch worker for the bibliographic
// enrichment service. It runs one operation against a user's record store
// and exits: harvesting a list of term variants, re-segmenting the stored
// lines, or deduplicating them.
package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/medbiblio/biblio-enrichment-service/internal/concepts"
	"github.com/medbiblio/biblio-enrichment-service/internal/config"
	"github.com/medbiblio/biblio-enrichment-service/internal/domain"
	"github.com/medbiblio/biblio-enrichment-service/internal/enrich"
	"github.com/medbiblio/biblio-enrichment-service/internal/harvest"
	"github.com/medbiblio/biblio-enrichment-service/internal/observability"
	"github.com/medbiblio/biblio-enrichment-service/internal/reference"
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
	var (
		userID = flag.String("user", "", "record store owner (required)")
		op     = flag.String("op", "harvest", "operation: harvest, resegment, or dedupe")
		terms  = flag.String("terms", "", "comma-separated search term variants (harvest only)")
	)
	flag.Parse()

	if *userID == "" {
		return fmt.Errorf("-user is required")
	}

	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	logger := observability.NewLogger(observability.LoggingConfig{
		Level:      cfg.Logging.Level,
		Format:     cfg.Logging.Format,
		Output:     cfg.Logging.Output,
		AddSource:  cfg.Logging.AddSource,
		TimeFormat: cfg.Logging.TimeFormat,
	})
	logger = logger.With().Str("component", "worker").Logger()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	table, err := reference.LoadWorkbook(cfg.Reference.Path, cfg.Reference.Sheet)
	if err != nil {
		return fmt.Errorf("load reference workbook: %w", err)
	}

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
	}, logger, nil)

	records, err := store.NewFSStore(cfg.Store.Dir)
	if err != nil {
		return fmt.Errorf("open record store: %w", err)
	}

	service := enrich.NewService(harvester, records, table, tagger, logger, nil)
	sess := domain.NewSession(*userID)

	var report domain.BatchReport
	switch *op {
	case "harvest":
		termList := splitTerms(*terms)
		if len(termList) == 0 {
			return fmt.Errorf("-terms is required for the harvest operation")
		}
		report, err = service.HarvestAndEnrich(ctx, *sess, termList)
	case "resegment":
		report, err = service.ResegmentStore(ctx, *sess)
	case "dedupe":
		report, err = service.DedupeStore(ctx, *sess)
	default:
		return fmt.Errorf("unknown operation %q", *op)
	}
	if err != nil {
		return fmt.Errorf("%s: %w", *op, err)
	}

	logger.Info().
		Str("batch_id", report.ID.String()).
		Str("op", report.Op).
		Int("processed", report.Processed).
		Int("failed", report.Failed).
		Int("removed", report.Removed).
		Msg("batch finished")
	return nil
}

// splitTerms splits the comma-separated -terms flag, dropping empty entries.
func splitTerms(s string) []string {
	var out []string
	for _, t := range strings.Split(s, ",") {
		if t = strings.TrimSpace(t); t != "" {
			out = append(out, t)
		}
	}
	return out
}
