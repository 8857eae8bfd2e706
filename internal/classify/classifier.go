// Package classify maps free-text journal names to impact tiers using the
// external reference table: exact lookup first, then fuzzy matching.
package classify

import (
	"math"

	"github.com/medbiblio/biblio-enrichment-service/internal/domain"
	"github.com/medbiblio/biblio-enrichment-service/internal/match"
	"github.com/medbiblio/biblio-enrichment-service/internal/reference"
)

// FuzzyCutoff is the minimum similarity for a fuzzy journal-name match.
const FuzzyCutoff = 0.5

// Tier labels ordered from weakest to strongest impact.
const (
	Group1 = "Group 1"
	Group2 = "Group 2"
	Group3 = "Group 3"
	Group4 = "Group 4"
	Group5 = "Group 5"
	Group6 = "Group 6"
	Group7 = "Group 7"
)

// Classify resolves a journal name to its impact tier. The name is matched
// case-insensitively against the canonical and abbreviated columns of the
// reference table; when no exact match exists the closest fuzzy match above
// FuzzyCutoff is used. Journals that resolve nowhere get the not-found
// sentinel, never an error.
func Classify(name string, table *reference.Table) string {
	if impact, ok := table.Lookup(name); ok {
		return tierFor(impact)
	}

	candidate, ok := match.Closest(reference.Normalize(name), table.Names(), FuzzyCutoff)
	if !ok {
		return domain.TierNotFound
	}

	impact, ok := table.Lookup(candidate)
	if !ok {
		return domain.TierNotFound
	}

	return tierFor(impact)
}

// tierFor buckets the 5-year impact metric into its ordinal group. Band
// bounds are inclusive; values falling between bands land in the catch-all
// top group.
func tierFor(impact float64) string {
	switch {
	case math.IsNaN(impact):
		return Group1
	case impact <= 0.9:
		return Group2
	case impact >= 1 && impact <= 2.99:
		return Group3
	case impact >= 3 && impact <= 5.99:
		return Group4
	case impact >= 6 && impact <= 8.99:
		return Group5
	case impact >= 9 && impact <= 11.99:
		return Group6
	default:
		return Group7
	}
}
