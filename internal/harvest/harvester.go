// Package harvest walks the paginated result listing of an external
// literature search interface and collects citations for a term. Retries,
// rate limiting, and in-harvest deduplication live here; enrichment of the
// collected citations does not.
package harvest

import (
	"context"
	"time"

	"github.com/rs/zerolog"

	"github.com/medbiblio/biblio-enrichment-service/internal/domain"
	"github.com/medbiblio/biblio-enrichment-service/internal/observability"
)

// RetryPolicy bounds per-page retries on transient failures.
type RetryPolicy struct {
	// MaxAttempts is the total number of tries per page, first attempt
	// included.
	MaxAttempts int

	// Delay is the fixed wait between attempts.
	Delay time.Duration
}

// DefaultRetryPolicy matches the interface's observed flakiness: five tries
// per page, five seconds apart.
func DefaultRetryPolicy() RetryPolicy {
	return RetryPolicy{MaxAttempts: 5, Delay: 5 * time.Second}
}

// Sleeper abstracts the inter-retry wait so tests run without real delays.
type Sleeper interface {
	Sleep(ctx context.Context, d time.Duration) error
}

// realSleeper waits on a timer, respecting context cancellation.
type realSleeper struct{}

func (realSleeper) Sleep(ctx context.Context, d time.Duration) error {
	timer := time.NewTimer(d)
	defer timer.Stop()

	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}

// PageFetcher retrieves one parsed result page. *Client satisfies it.
type PageFetcher interface {
	FetchPage(ctx context.Context, term string, page int) ([]domain.Citation, error)
}

// Harvester collects every citation the search interface returns for a
// term, page by page.
type Harvester struct {
	fetcher PageFetcher
	policy  RetryPolicy
	sleeper Sleeper
	logger  zerolog.Logger
	metrics *observability.Metrics
}

// NewHarvester creates a harvester. metrics may be nil when instrumentation
// is not wanted, as in tests.
func NewHarvester(fetcher PageFetcher, policy RetryPolicy, logger zerolog.Logger, metrics *observability.Metrics) *Harvester {
	return &Harvester{
		fetcher: fetcher,
		policy:  policy,
		sleeper: realSleeper{},
		logger:  logger.With().Str("component", "harvest").Logger(),
		metrics: metrics,
	}
}

// WithSleeper replaces the inter-retry sleeper. For tests.
func (h *Harvester) WithSleeper(s Sleeper) *Harvester {
	h.sleeper = s
	return h
}

// Harvest walks result pages for a term until an empty page, accumulating
// citations in discovery order and dropping in-harvest duplicates by
// composite key.
//
// Failure semantics: a transient failure retries the same page up to
// MaxAttempts with a fixed delay; exhaustion ends the term with whatever was
// collected and a nil error. A fatal failure (non-200 response) ends the
// term immediately, returning the collected citations alongside the error.
// Context cancellation is propagated.
func (h *Harvester) Harvest(ctx context.Context, term string) ([]domain.Citation, error) {
	citations := []domain.Citation{}
	seen := make(map[string]struct{})

	for page := 1; ; page++ {
		logger := observability.WithHarvestContext(h.logger, term, page)

		entries, err := h.fetchWithRetry(ctx, logger, term, page)
		if err != nil {
			if IsTransient(err) {
				logger.Warn().Err(err).Msg("retries exhausted, keeping partial results")
				return citations, nil
			}
			logger.Error().Err(err).Msg("page fetch failed")
			return citations, err
		}

		if len(entries) == 0 {
			logger.Debug().Int("collected", len(citations)).Msg("empty page, term finished")
			return citations, nil
		}

		for _, c := range entries {
			if _, dup := seen[c.Key()]; dup {
				h.countDuplicate()
				continue
			}
			seen[c.Key()] = struct{}{}
			citations = append(citations, c)
		}
	}
}

// fetchWithRetry tries one page up to MaxAttempts times, sleeping between
// attempts. Only transient failures are retried.
func (h *Harvester) fetchWithRetry(ctx context.Context, logger zerolog.Logger, term string, page int) ([]domain.Citation, error) {
	var lastErr error
	for attempt := 1; attempt <= h.policy.MaxAttempts; attempt++ {
		entries, err := h.fetcher.FetchPage(ctx, term, page)
		if err == nil {
			h.countPage("success")
			return entries, nil
		}
		if !IsTransient(err) {
			h.countPage("fatal")
			return nil, err
		}

		lastErr = err
		h.countRetry()
		logger.Warn().Err(err).Int("attempt", attempt).Msg("transient page failure")

		if attempt < h.policy.MaxAttempts {
			if serr := h.sleeper.Sleep(ctx, h.policy.Delay); serr != nil {
				return nil, serr
			}
		}
	}
	h.countPage("exhausted")
	return nil, lastErr
}

func (h *Harvester) countPage(outcome string) {
	if h.metrics != nil {
		h.metrics.HarvestPages.WithLabelValues(outcome).Inc()
	}
}

func (h *Harvester) countRetry() {
	if h.metrics != nil {
		h.metrics.HarvestRetries.Inc()
	}
}

func (h *Harvester) countDuplicate() {
	if h.metrics != nil {
		h.metrics.HarvestDuplicates.Inc()
	}
}
