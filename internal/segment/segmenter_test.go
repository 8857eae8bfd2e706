package segment

import (
	"errors"
	"strings"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/medbiblio/biblio-enrichment-service/internal/domain"
)

func TestSegment(t *testing.T) {
	t.Run("year adjacent to colon merges into one boundary", func(t *testing.T) {
		raw := "A|B|C|Smith J; Results show improvement 2023: discussion text doi:10.1/xyz|E|F"

		got, err := Segment(raw)
		require.NoError(t, err)

		fields := strings.Split(got, "|")
		require.Len(t, fields, 9) // 6 top-level fields, composite rebuilt as 4 parts

		composite := strings.Join(fields[3:7], "|")
		assert.Equal(t, "Smith J  Results show improvement 2023|discussion text |doi|10.1/xyz", composite)
		assert.Equal(t, 3, strings.Count(composite, "|"))

		assert.Equal(t, "A", fields[0])
		assert.Equal(t, "B", fields[1])
		assert.Equal(t, "C", fields[2])
		assert.Equal(t, "E", fields[7])
		assert.Equal(t, "F", fields[8])
	})

	t.Run("separate year and colon boundaries", func(t *testing.T) {
		raw := "REF|123|A|García P; López M. Estudio de caso 2019 Rev Esp Cardiol: 72(5) 401-410 doi:10.1016/j.rec.2019.01.001|X|Y"

		got, err := Segment(raw)
		require.NoError(t, err)

		fields := strings.Split(got, "|")
		require.Len(t, fields, 9)
		assert.Equal(t, "García P  López M. Estudio de caso 2019", fields[3])
		assert.Equal(t, "Rev Esp Cardiol", fields[4])
		assert.Equal(t, "72(5) 401-410 ", fields[5])
		// Intentional truncation: parts beyond the fourth are discarded.
		assert.Equal(t, "doi", fields[6])
	})

	t.Run("whitespace after doi colon is consumed", func(t *testing.T) {
		raw := "A|B|C|Smith J 2020 J Clin: 5(2) doi: 10.1/x|E|F"

		got, err := Segment(raw)
		require.NoError(t, err)

		fields := strings.Split(got, "|")
		assert.Equal(t, "Smith J 2020", fields[3])
		assert.Equal(t, "J Clin", fields[4])
		assert.Equal(t, "5(2) ", fields[5])
		assert.Equal(t, "doi", fields[6])
	})

	t.Run("only first year token breaks", func(t *testing.T) {
		raw := "A|B|C|Smith 2018 Rev: detail 2020 doi:10.1/x|E|F"

		got, err := Segment(raw)
		require.NoError(t, err)

		fields := strings.Split(got, "|")
		assert.Equal(t, "Smith 2018", fields[3])
		assert.Equal(t, "Rev", fields[4])
		assert.Equal(t, "detail 2020 ", fields[5])
	})

	t.Run("fewer than six top-level fields fails", func(t *testing.T) {
		raw := "A|B|C|Smith 2020 Rev: x doi:10.1/x|E"

		got, err := Segment(raw)
		require.Error(t, err)
		assert.True(t, errors.Is(err, domain.ErrMalformedRecord))
		assert.Empty(t, got)
	})

	t.Run("missing year token fails", func(t *testing.T) {
		raw := "A|B|C|Smith J: something doi:10.1/x|E|F"

		_, err := Segment(raw)
		require.Error(t, err)
		assert.True(t, errors.Is(err, domain.ErrMalformedRecord))
	})

	t.Run("missing colon fails", func(t *testing.T) {
		raw := "A|B|C|Smith 2020 thing doi 10/x|E|F"

		_, err := Segment(raw)
		require.Error(t, err)
		assert.True(t, errors.Is(err, domain.ErrMalformedRecord))
	})

	t.Run("colon belonging to doi leaves no doi token", func(t *testing.T) {
		// The only colon is the DOI's own; once the colon rule consumes it
		// there is no doi: token left, so the record is malformed.
		raw := "A|B|C|Smith 2020 thing doi:10.1/x|E|F"

		_, err := Segment(raw)
		require.Error(t, err)
		assert.True(t, errors.Is(err, domain.ErrMalformedRecord))
	})

	t.Run("semicolons become spaces", func(t *testing.T) {
		raw := "A|B|C|One; Two; Three 2020 Rev: d doi:10/x|E|F"

		got, err := Segment(raw)
		require.NoError(t, err)
		assert.NotContains(t, strings.Split(got, "|")[3], ";")
	})
}

func TestResegmentLines(t *testing.T) {
	logger := zerolog.Nop()

	t.Run("skips malformed lines and keeps the rest", func(t *testing.T) {
		lines := []string{
			"A|B|C|Smith 2020 Rev: d doi:10/x|E|F",
			"too|short",
			"",
			"A|B|C|Jones 2021 Lancet: 9(1) doi:10/y|E|F",
		}

		out, failed := ResegmentLines(lines, logger)
		assert.Equal(t, 1, failed)
		require.Len(t, out, 2)
		assert.Contains(t, out[0], "Smith 2020")
		assert.Contains(t, out[1], "Jones 2021")
	})

	t.Run("empty input", func(t *testing.T) {
		out, failed := ResegmentLines(nil, logger)
		assert.Empty(t, out)
		assert.Zero(t, failed)
	})
}
