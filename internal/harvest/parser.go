package harvest

import (
	"fmt"
	"io"
	"strings"

	"github.com/PuerkitoBio/goquery"

	"github.com/medbiblio/biblio-enrichment-service/internal/domain"
)

// Result-page markup selectors. One ".docsum-content" block per entry.
const (
	selectorEntry   = ".docsum-content"
	selectorTitle   = ".docsum-title"
	selectorAuthors = ".docsum-authors"
	selectorDetail  = ".docsum-journal-citation"
)

// parseResults extracts citations from one search result page. Entries
// without a title are skipped: they are decorative blocks, not records.
// An empty page parses to an empty slice, which the harvester treats as the
// end of the term.
func parseResults(r io.Reader) ([]domain.Citation, error) {
	doc, err := goquery.NewDocumentFromReader(r)
	if err != nil {
		return nil, fmt.Errorf("parse result page: %w", err)
	}

	var citations []domain.Citation
	doc.Find(selectorEntry).Each(func(_ int, entry *goquery.Selection) {
		title := cleanText(entry.Find(selectorTitle).First().Text())
		if title == "" {
			return
		}
		authors := cleanText(entry.Find(selectorAuthors).First().Text())
		detail := cleanText(entry.Find(selectorDetail).First().Text())
		citations = append(citations, domain.NewCitation(authors, title, detail))
	})
	return citations, nil
}

// cleanText collapses the whitespace runs that HTML indentation leaves in
// extracted text.
func cleanText(s string) string {
	return strings.Join(strings.Fields(s), " ")
}
