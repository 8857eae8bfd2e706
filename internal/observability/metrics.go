package observability

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics contains all Prometheus metrics for the enrichment service.
// Metrics are organized by pipeline stage: harvesting, segmentation,
// enrichment lookups, and store deduplication. All collectors are registered
// via promauto with the default registry.
type Metrics struct {
	// HarvestPages counts result pages fetched, labeled by outcome
	// (success, fatal, exhausted).
	HarvestPages *prometheus.CounterVec

	// HarvestRetries counts retry attempts against stalled pages.
	HarvestRetries prometheus.Counter

	// HarvestRecords counts citations accepted during harvesting.
	HarvestRecords prometheus.Counter

	// HarvestDuplicates counts citations discarded by the in-harvest seen set.
	HarvestDuplicates prometheus.Counter

	// HarvestDuration observes the duration of one term's harvest in seconds.
	HarvestDuration prometheus.Histogram

	// RecordsSegmented counts raw records successfully re-segmented.
	RecordsSegmented prometheus.Counter

	// SegmentFailures counts records skipped as malformed.
	SegmentFailures prometheus.Counter

	// LookupMisses counts enrichment lookups that fell through to a sentinel
	// value, labeled by component (classifier, tagger).
	LookupMisses *prometheus.CounterVec

	// LinesDeduped counts duplicate lines removed from record stores.
	LinesDeduped prometheus.Counter

	// StoreReplacements counts whole-snapshot writes to record stores.
	StoreReplacements prometheus.Counter
}

// NewMetrics creates and registers all metrics with the given namespace.
func NewMetrics(namespace string) *Metrics {
	return &Metrics{
		HarvestPages: promauto.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "harvest_pages_total",
			Help:      "Total result pages fetched, by outcome",
		}, []string{"outcome"}),
		HarvestRetries: promauto.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "harvest_retries_total",
			Help:      "Total retry attempts against stalled result pages",
		}),
		HarvestRecords: promauto.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "harvest_records_total",
			Help:      "Total citations accepted during harvesting",
		}),
		HarvestDuplicates: promauto.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "harvest_duplicates_total",
			Help:      "Total citations discarded as in-harvest duplicates",
		}),
		HarvestDuration: promauto.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "harvest_duration_seconds",
			Help:      "Duration of one term's harvest in seconds",
			Buckets:   []float64{0.5, 1, 5, 10, 30, 60, 120, 300},
		}),
		RecordsSegmented: promauto.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "records_segmented_total",
			Help:      "Total raw records successfully re-segmented",
		}),
		SegmentFailures: promauto.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "segment_failures_total",
			Help:      "Total records skipped as malformed during re-segmentation",
		}),
		LookupMisses: promauto.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "lookup_misses_total",
			Help:      "Total enrichment lookups resolved to a sentinel value, by component",
		}, []string{"component"}),
		LinesDeduped: promauto.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "lines_deduped_total",
			Help:      "Total duplicate lines removed from record stores",
		}),
		StoreReplacements: promauto.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "store_replacements_total",
			Help:      "Total whole-snapshot writes to record stores",
		}),
	}
}
