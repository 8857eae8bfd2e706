package enrich

import (
	"context"
	"errors"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/medbiblio/biblio-enrichment-service/internal/concepts"
	"github.com/medbiblio/biblio-enrichment-service/internal/domain"
	"github.com/medbiblio/biblio-enrichment-service/internal/reference"
	"github.com/medbiblio/biblio-enrichment-service/internal/sidelog"
	"github.com/medbiblio/biblio-enrichment-service/internal/store"
)

type fakeHarvester struct {
	results map[string][]domain.Citation
	errs    map[string]error
}

func (f *fakeHarvester) Harvest(ctx context.Context, term string) ([]domain.Citation, error) {
	return f.results[term], f.errs[term]
}

func newTestService(h Harvester) (*Service, *store.MemoryStore) {
	records := store.NewMemoryStore()
	table := reference.NewTable([]reference.Row{
		{Name: "Circulation", Abbrev: "Circ", Impact: 12.5},
		{Name: "Stroke", Abbrev: "Stroke", Impact: 7.2},
	})
	tagger := concepts.NewTagger(sidelog.NewMemoryLog(), zerolog.Nop())
	return NewService(h, records, table, tagger, zerolog.Nop(), nil), records
}

func sess() domain.Session {
	return *domain.NewSession("u1")
}

func TestEnrich(t *testing.T) {
	svc, _ := newTestService(&fakeHarvester{})

	t.Run("known journal gets tier and concept", func(t *testing.T) {
		record := svc.Enrich(domain.NewCitation("Smith J", "A title", "Circulation. 2023;148:1"))
		assert.Equal(t, "Group 7", record.Tier)
		assert.Equal(t, "cardiología", record.Concept)
	})

	t.Run("unknown journal gets both sentinels", func(t *testing.T) {
		record := svc.Enrich(domain.NewCitation("Smith J", "A title", "Obscure Quarterly Gazette. 2023;1:1"))
		assert.Equal(t, domain.TierNotFound, record.Tier)
		assert.Equal(t, domain.ConceptUnidentified, record.Concept)
	})
}

func TestHarvestAndEnrich(t *testing.T) {
	ctx := context.Background()

	t.Run("harvested records land deduplicated in the store", func(t *testing.T) {
		h := &fakeHarvester{results: map[string][]domain.Citation{
			"heart": {
				domain.NewCitation("Smith J", "Title A", "Circulation. 2023;1:1"),
				domain.NewCitation("Jones K", "Title B", "Stroke. 2022;2:2"),
			},
			"cardiac": {
				// Same publication found under the second term variant.
				domain.NewCitation("Smith J", "Title A", "Circulation. 2023;1:1"),
			},
		}}
		svc, records := newTestService(h)

		report, err := svc.HarvestAndEnrich(ctx, sess(), []string{"heart", "cardiac"})
		require.NoError(t, err)

		assert.Equal(t, 3, report.Processed)
		assert.Equal(t, 0, report.Failed)
		assert.Equal(t, 1, report.Removed)

		lines, _ := records.Fetch(ctx, "u1")
		assert.Len(t, lines, 2)
	})

	t.Run("failed term keeps partial results and the batch continues", func(t *testing.T) {
		h := &fakeHarvester{
			results: map[string][]domain.Citation{
				"bad":  {domain.NewCitation("Smith J", "Partial", "Circulation. 2023;1:1")},
				"good": {domain.NewCitation("Jones K", "Full", "Stroke. 2022;2:2")},
			},
			errs: map[string]error{"bad": errors.New("server returned 403")},
		}
		svc, records := newTestService(h)

		report, err := svc.HarvestAndEnrich(ctx, sess(), []string{"bad", "good"})
		require.NoError(t, err)

		assert.Equal(t, 2, report.Processed)
		assert.Equal(t, 1, report.Failed)
		require.Len(t, report.Items, 2)
		assert.NotEmpty(t, report.Items[0].Err)
		assert.Empty(t, report.Items[1].Err)

		lines, _ := records.Fetch(ctx, "u1")
		assert.Len(t, lines, 2)
	})

	t.Run("existing snapshot is merged, not replaced", func(t *testing.T) {
		h := &fakeHarvester{results: map[string][]domain.Citation{
			"heart": {domain.NewCitation("Smith J", "Title A", "Circulation. 2023;1:1")},
		}}
		svc, records := newTestService(h)
		require.NoError(t, records.Replace(ctx, "u1", []string{"REG|Old|Line|J|r|Group 2|nutrición"}))

		_, err := svc.HarvestAndEnrich(ctx, sess(), []string{"heart"})
		require.NoError(t, err)

		lines, _ := records.Fetch(ctx, "u1")
		assert.Len(t, lines, 2)
	})
}

func TestResegmentStore(t *testing.T) {
	ctx := context.Background()
	svc, records := newTestService(&fakeHarvester{})

	good := "A|B|C|Smith J; Results show improvement 2023: discussion text doi:10.1/xyz|E|F"
	require.NoError(t, records.Replace(ctx, "u1", []string{good, "too|few|fields"}))

	report, err := svc.ResegmentStore(ctx, sess())
	require.NoError(t, err)

	assert.Equal(t, 1, report.Processed)
	assert.Equal(t, 1, report.Failed)

	lines, _ := records.Fetch(ctx, "u1")
	require.Len(t, lines, 1)
	assert.Contains(t, lines[0], "|doi|")
}

func TestDedupeStore(t *testing.T) {
	ctx := context.Background()
	svc, records := newTestService(&fakeHarvester{})

	require.NoError(t, records.Replace(ctx, "u1", []string{"b", "a", "b", "a", "c"}))

	report, err := svc.DedupeStore(ctx, sess())
	require.NoError(t, err)

	assert.Equal(t, 3, report.Processed)
	assert.Equal(t, 2, report.Removed)

	lines, _ := records.Fetch(ctx, "u1")
	assert.Equal(t, []string{"a", "b", "c"}, lines)
}

func TestEnrichManual(t *testing.T) {
	ctx := context.Background()
	svc, records := newTestService(&fakeHarvester{})

	c := domain.NewCitation("Smith J", "Manual entry", "Circulation. 2023;1:1")

	record, err := svc.EnrichManual(ctx, sess(), c)
	require.NoError(t, err)
	assert.Equal(t, "Group 7", record.Tier)

	// Entering the same record again does not grow the store.
	_, err = svc.EnrichManual(ctx, sess(), c)
	require.NoError(t, err)

	lines, _ := records.Fetch(ctx, "u1")
	assert.Len(t, lines, 1)
}
