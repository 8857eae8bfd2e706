package domain

import (
	"strings"
	"time"

	"github.com/google/uuid"
)

// Sentinel labels attached to records when enrichment cannot resolve a value.
// The labels are user-facing and kept in the vocabulary of the reference
// material they originate from.
const (
	// TierNotFound is the tier assigned when the journal is absent from the
	// reference table and no fuzzy match clears the cutoff.
	TierNotFound = "Grupo no encontrado"

	// ConceptUnidentified is the concept label for journals that no alias,
	// keyword, or prefix rule could classify.
	ConceptUnidentified = "Concepto no identificado"

	// JournalUnspecified marks harvested entries whose citation detail
	// carried no journal segment.
	JournalUnspecified = "Revista no especificada"
)

// recordMarker is the leading field of every serialized store line.
const recordMarker = "REG"

// Citation is one bibliographic search result: the author list, title, and
// citation detail scraped from a single result entry. Journal and Remainder
// are derived from Detail by splitting on the first period; entries without
// a period keep the whole detail as Remainder and an unspecified Journal.
type Citation struct {
	Authors   string
	Title     string
	Journal   string
	Detail    string
	Remainder string
}

// NewCitation builds a Citation from scraped entry fields, deriving the
// journal and detail remainder from the citation detail text.
func NewCitation(authors, title, detail string) Citation {
	c := Citation{
		Authors: strings.TrimSpace(authors),
		Title:   strings.TrimSpace(title),
		Detail:  strings.TrimSpace(detail),
	}

	if idx := strings.Index(c.Detail, "."); idx >= 0 {
		c.Journal = strings.TrimSpace(c.Detail[:idx])
		c.Remainder = strings.TrimSpace(c.Detail[idx+1:])
	} else {
		c.Journal = JournalUnspecified
		c.Remainder = c.Detail
	}

	return c
}

// Key returns the composite identity used for in-harvest deduplication.
// Two citations with the same key are the same publication; only the first
// one discovered is kept.
func (c Citation) Key() string {
	return c.Title + c.Journal + c.Remainder + c.Authors
}

// EnrichedRecord is a citation augmented with its journal impact tier and
// topical concept label. It is built once at enrichment time and not
// modified afterwards.
type EnrichedRecord struct {
	Citation Citation
	Tier     string
	Concept  string
}

// Line renders the record as one pipe-delimited store line.
func (r EnrichedRecord) Line() string {
	return strings.Join([]string{
		recordMarker,
		r.Citation.Authors,
		r.Citation.Title,
		r.Citation.Journal,
		r.Citation.Remainder,
		r.Tier,
		r.Concept,
	}, "|")
}

// BatchItem is the outcome of one item (search term, record, or file) within
// a batch operation.
type BatchItem struct {
	Name  string `json:"name"`
	Count int    `json:"count"`
	Err   string `json:"error,omitempty"`
}

// BatchReport summarizes a batch operation. Batch operations report per-item
// counts instead of failing wholesale on one bad item.
type BatchReport struct {
	ID         uuid.UUID   `json:"id"`
	Op         string      `json:"op"`
	Processed  int         `json:"processed"`
	Failed     int         `json:"failed"`
	Removed    int         `json:"removed"`
	StartedAt  time.Time   `json:"started_at"`
	FinishedAt time.Time   `json:"finished_at"`
	Items      []BatchItem `json:"items,omitempty"`
}

// NewBatchReport starts a report for the named operation.
func NewBatchReport(op string) BatchReport {
	return BatchReport{
		ID:        uuid.New(),
		Op:        op,
		StartedAt: time.Now().UTC(),
	}
}

// Finish stamps the completion time and returns the report.
func (r BatchReport) Finish() BatchReport {
	r.FinishedAt = time.Now().UTC()
	return r
}
