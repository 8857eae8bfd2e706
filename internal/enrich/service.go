// Package enrich orchestrates the record pipeline: harvest citations for
// search terms, classify and tag them, and reconcile the result with the
// user's stored record file. All batch operations report per-item counts
// instead of aborting on the first bad item.
package enrich

import (
	"context"
	"fmt"
	"time"

	"github.com/rs/zerolog"

	"github.com/medbiblio/biblio-enrichment-service/internal/classify"
	"github.com/medbiblio/biblio-enrichment-service/internal/concepts"
	"github.com/medbiblio/biblio-enrichment-service/internal/dedup"
	"github.com/medbiblio/biblio-enrichment-service/internal/domain"
	"github.com/medbiblio/biblio-enrichment-service/internal/observability"
	"github.com/medbiblio/biblio-enrichment-service/internal/reference"
	"github.com/medbiblio/biblio-enrichment-service/internal/segment"
	"github.com/medbiblio/biblio-enrichment-service/internal/store"
)

// Harvester collects citations for one search term.
type Harvester interface {
	Harvest(ctx context.Context, term string) ([]domain.Citation, error)
}

// Service wires the pipeline stages together. One Service handles all
// users; per-user state lives in the record store, keyed by session.
type Service struct {
	harvester Harvester
	records   store.RecordStore
	table     *reference.Table
	tagger    *concepts.Tagger
	logger    zerolog.Logger
	metrics   *observability.Metrics
}

// NewService creates the enrichment service. metrics may be nil in tests.
func NewService(
	harvester Harvester,
	records store.RecordStore,
	table *reference.Table,
	tagger *concepts.Tagger,
	logger zerolog.Logger,
	metrics *observability.Metrics,
) *Service {
	return &Service{
		harvester: harvester,
		records:   records,
		table:     table,
		tagger:    tagger,
		logger:    logger.With().Str("component", "enrich").Logger(),
		metrics:   metrics,
	}
}

// Enrich resolves the tier and concept for one citation.
func (s *Service) Enrich(c domain.Citation) domain.EnrichedRecord {
	tier := classify.Classify(c.Journal, s.table)
	if tier == domain.TierNotFound {
		s.countMiss("classifier")
	}

	concept := s.tagger.Tag(c.Journal)
	if concept == domain.ConceptUnidentified {
		s.countMiss("tagger")
	}

	return domain.EnrichedRecord{Citation: c, Tier: tier, Concept: concept}
}

// HarvestAndEnrich harvests every term, enriches the citations, merges the
// resulting lines with the user's current snapshot, and writes back the
// deduplicated store. A term that fails keeps its partial results; the
// failure is recorded on the report item and the batch continues.
func (s *Service) HarvestAndEnrich(ctx context.Context, sess domain.Session, terms []string) (domain.BatchReport, error) {
	report := domain.NewBatchReport("harvest")
	logger := observability.WithUserContext(s.logger, sess.UserID)

	lines, err := s.records.Fetch(ctx, sess.UserID)
	if err != nil {
		return report.Finish(), fmt.Errorf("fetch record snapshot: %w", err)
	}
	before := len(lines)

	for _, term := range terms {
		start := time.Now()
		citations, err := s.harvester.Harvest(ctx, term)
		s.observeHarvest(time.Since(start), len(citations))

		item := domain.BatchItem{Name: term, Count: len(citations)}
		if err != nil {
			if ctx.Err() != nil {
				return report.Finish(), ctx.Err()
			}
			item.Err = err.Error()
			report.Failed++
			logger.Warn().Err(err).Str("term", term).Msg("term harvest failed, keeping partial results")
		}

		for _, c := range citations {
			lines = append(lines, s.Enrich(c).Line())
			report.Processed++
		}
		report.Items = append(report.Items, item)
	}

	deduped := dedup.UniqueSorted(lines)
	report.Removed = before + report.Processed - len(deduped)

	if err := s.replace(ctx, sess.UserID, deduped, report.Removed); err != nil {
		return report.Finish(), err
	}

	logger.Info().
		Int("processed", report.Processed).
		Int("failed", report.Failed).
		Int("removed", report.Removed).
		Msg("harvest batch finished")
	return report.Finish(), nil
}

// ResegmentStore re-runs the field segmenter over every stored line,
// skipping malformed records. The rewritten snapshot replaces the old one.
func (s *Service) ResegmentStore(ctx context.Context, sess domain.Session) (domain.BatchReport, error) {
	report := domain.NewBatchReport("resegment")
	logger := observability.WithUserContext(s.logger, sess.UserID)

	lines, err := s.records.Fetch(ctx, sess.UserID)
	if err != nil {
		return report.Finish(), fmt.Errorf("fetch record snapshot: %w", err)
	}

	kept, failed := segment.ResegmentLines(lines, logger)
	report.Processed = len(kept)
	report.Failed = failed
	if s.metrics != nil {
		s.metrics.RecordsSegmented.Add(float64(len(kept)))
		s.metrics.SegmentFailures.Add(float64(failed))
	}

	if err := s.replace(ctx, sess.UserID, kept, 0); err != nil {
		return report.Finish(), err
	}

	logger.Info().Int("kept", len(kept)).Int("failed", failed).Msg("resegment finished")
	return report.Finish(), nil
}

// DedupeStore rewrites the user's snapshot as unique sorted lines.
func (s *Service) DedupeStore(ctx context.Context, sess domain.Session) (domain.BatchReport, error) {
	report := domain.NewBatchReport("dedupe")
	logger := observability.WithUserContext(s.logger, sess.UserID)

	lines, err := s.records.Fetch(ctx, sess.UserID)
	if err != nil {
		return report.Finish(), fmt.Errorf("fetch record snapshot: %w", err)
	}

	deduped := dedup.UniqueSorted(lines)
	report.Processed = len(deduped)
	report.Removed = len(lines) - len(deduped)

	if err := s.replace(ctx, sess.UserID, deduped, report.Removed); err != nil {
		return report.Finish(), err
	}

	logger.Info().Int("removed", report.Removed).Msg("dedupe finished")
	return report.Finish(), nil
}

// EnrichManual enriches one user-entered citation and appends it to the
// user's store, deduplicating afterwards so re-entering a record is a no-op.
func (s *Service) EnrichManual(ctx context.Context, sess domain.Session, c domain.Citation) (domain.EnrichedRecord, error) {
	record := s.Enrich(c)

	lines, err := s.records.Fetch(ctx, sess.UserID)
	if err != nil {
		return domain.EnrichedRecord{}, fmt.Errorf("fetch record snapshot: %w", err)
	}

	merged := dedup.UniqueSorted(append(lines, record.Line()))
	removed := len(lines) + 1 - len(merged)
	if err := s.replace(ctx, sess.UserID, merged, removed); err != nil {
		return domain.EnrichedRecord{}, err
	}
	return record, nil
}

// replace writes the new snapshot and updates store metrics.
func (s *Service) replace(ctx context.Context, userID string, lines []string, removed int) error {
	if err := s.records.Replace(ctx, userID, lines); err != nil {
		return fmt.Errorf("replace record snapshot: %w", err)
	}
	if s.metrics != nil {
		s.metrics.StoreReplacements.Inc()
		s.metrics.LinesDeduped.Add(float64(removed))
	}
	return nil
}

func (s *Service) countMiss(component string) {
	if s.metrics != nil {
		s.metrics.LookupMisses.WithLabelValues(component).Inc()
	}
}

func (s *Service) observeHarvest(d time.Duration, records int) {
	if s.metrics != nil {
		s.metrics.HarvestDuration.Observe(d.Seconds())
		s.metrics.HarvestRecords.Add(float64(records))
	}
}
