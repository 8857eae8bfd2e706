// Package segment re-delimits raw bibliographic records whose composite
// field mixes the author list, publication year, journal citation, and DOI
// without reliable separators.
//
// A raw record is a pipe-delimited line with at least six top-level fields.
// Field index 3 is the composite blob; Segment rebuilds it as exactly four
// pipe-delimited sub-fields: the author/year prefix, the citation detail,
// the literal "doi" marker, and the DOI value.
package segment

import (
	"regexp"
	"strings"

	"github.com/rs/zerolog"

	"github.com/medbiblio/biblio-enrichment-service/internal/domain"
)

const (
	// minTopLevelFields is the minimum field count of a well-formed raw record.
	minTopLevelFields = 6

	// minSubFields is the minimum part count of a decomposed composite field.
	minSubFields = 4

	// compositeIndex is the position of the composite blob in the record.
	compositeIndex = 3
)

// yearRe matches a standalone 4-digit year token.
var yearRe = regexp.MustCompile(`\b\d{4}\b`)

// Segment rebuilds the composite field of one raw record. It returns the
// re-delimited record, or a MalformedRecordError when the record has fewer
// than six top-level fields, lacks one of the expected year/colon/doi
// tokens, or decomposes into fewer than four parts. Segment is a pure
// function over text; a failed record produces no partial output.
func Segment(raw string) (string, error) {
	fields := strings.Split(raw, "|")
	if len(fields) < minTopLevelFields {
		return "", domain.NewMalformedRecordError(raw, "fewer than 6 top-level fields")
	}

	blob := fields[compositeIndex]

	// Semicolons are ambiguous separators inherited from the source feed.
	blob = strings.ReplaceAll(blob, ";", " ")

	var err error
	if blob, err = breakAfterYear(blob); err != nil {
		return "", domain.NewMalformedRecordError(raw, err.Error())
	}
	if blob, err = breakAtColon(blob); err != nil {
		return "", domain.NewMalformedRecordError(raw, err.Error())
	}
	if blob, err = breakAtDOI(blob); err != nil {
		return "", domain.NewMalformedRecordError(raw, err.Error())
	}

	parts := strings.Split(blob, "|")
	if len(parts) < minSubFields {
		return "", domain.NewMalformedRecordError(raw, "composite field decomposed into fewer than 4 parts")
	}

	// Parts beyond the fourth are intentionally discarded.
	fields[compositeIndex] = strings.Join(parts[:minSubFields], "|")

	return strings.Join(fields, "|"), nil
}

// breakAfterYear inserts a delimiter after the first standalone 4-digit year,
// consuming any whitespace that follows the token. Later year tokens are
// left untouched.
func breakAfterYear(blob string) (string, error) {
	loc := yearRe.FindStringIndex(blob)
	if loc == nil {
		return "", errMissingToken("year")
	}

	end := loc[1]
	for end < len(blob) && (blob[end] == ' ' || blob[end] == '\t') {
		end++
	}

	return blob[:loc[1]] + "|" + blob[end:], nil
}

// breakAtColon turns the first colon into a delimiter, consuming a single
// following space. A colon directly adjacent to the year delimiter merges
// with it instead of opening an empty part.
func breakAtColon(blob string) (string, error) {
	idx := strings.IndexByte(blob, ':')
	if idx < 0 {
		return "", errMissingToken("citation colon")
	}

	rest := idx + 1
	if rest < len(blob) && blob[rest] == ' ' {
		rest++
	}

	blob = blob[:idx] + "|" + blob[rest:]
	return strings.Replace(blob, "||", "|", 1), nil
}

// breakAtDOI rewrites the first "doi:" token as the final two delimited
// parts, "doi" and the DOI text. The token match is case-sensitive.
func breakAtDOI(blob string) (string, error) {
	idx := strings.Index(blob, "doi:")
	if idx < 0 {
		return "", errMissingToken("doi")
	}

	value := idx + len("doi:")
	for value < len(blob) && (blob[value] == ' ' || blob[value] == '\t') {
		value++
	}

	return blob[:idx] + "|doi|" + blob[value:], nil
}

type errMissingToken string

func (e errMissingToken) Error() string {
	return "composite field has no " + string(e) + " token"
}

// ResegmentLines applies Segment to every line of a record-store snapshot.
// Malformed lines are logged and skipped; the batch never aborts on one bad
// record. Blank lines are dropped silently. It returns the re-delimited
// lines and the count of records skipped as malformed.
func ResegmentLines(lines []string, logger zerolog.Logger) ([]string, int) {
	out := make([]string, 0, len(lines))
	failed := 0

	for i, line := range lines {
		if strings.TrimSpace(line) == "" {
			continue
		}

		segmented, err := Segment(line)
		if err != nil {
			failed++
			logger.Warn().
				Err(err).
				Int("line", i+1).
				Msg("skipping malformed record")
			continue
		}
		out = append(out, segmented)
	}

	return out, failed
}
