// Package concepts assigns thematic concept labels to journal names using a
// curated alias table, stop-word stripping, and keyword fuzzy matching.
package concepts

import (
	"strings"

	"github.com/rs/zerolog"

	"github.com/medbiblio/biblio-enrichment-service/internal/domain"
	"github.com/medbiblio/biblio-enrichment-service/internal/match"
	"github.com/medbiblio/biblio-enrichment-service/internal/sidelog"
)

// KeywordCutoff is the minimum similarity for a keyword fuzzy match. It is
// deliberately looser than journal-name matching: keywords are short and a
// single shared stem should be enough.
const KeywordCutoff = 0.3

// Tagger resolves journal names to concept labels. Unresolvable names go to
// the side-log for curation and get the unidentified sentinel.
type Tagger struct {
	sideLog sidelog.Log
	logger  zerolog.Logger
}

// NewTagger creates a tagger writing misses to the given side-log.
func NewTagger(sideLog sidelog.Log, logger zerolog.Logger) *Tagger {
	return &Tagger{
		sideLog: sideLog,
		logger:  logger.With().Str("component", "concepts").Logger(),
	}
}

// Tag resolves a journal name to a concept label. Resolution order: exact
// alias lookup, keyword fuzzy match over the concept vocabulary, then the
// "bio" prefix heuristic. A name that survives all three is appended to the
// side-log and tagged with the unidentified sentinel. Tag never fails: a
// side-log write error is logged and swallowed.
func (t *Tagger) Tag(name string) string {
	normalized := strings.ToLower(strings.TrimSpace(name))

	for _, a := range knownJournals {
		if a.Journal == normalized {
			return a.Concept
		}
	}

	cleaned := stripStopWords(normalized)
	for _, entry := range conceptKeywords {
		if _, ok := match.Closest(cleaned, entry.Keywords, KeywordCutoff); ok {
			return entry.Concept
		}
	}

	if strings.HasPrefix(normalized, "bio") {
		return "biomedicina"
	}

	if err := t.sideLog.Append(name); err != nil {
		t.logger.Warn().Err(err).Str("journal", name).Msg("side-log append failed")
	}
	return domain.ConceptUnidentified
}

// stripStopWords drops generic journal-title tokens before keyword matching
// so that words like "journal" or "review" cannot carry a fuzzy match.
func stripStopWords(name string) string {
	fields := strings.Fields(name)
	kept := fields[:0]
	for _, f := range fields {
		if !stopWords[f] {
			kept = append(kept, f)
		}
	}
	return strings.Join(kept, " ")
}
