package reference

import (
	"math"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"
)

func TestTableLookup(t *testing.T) {
	table := NewTable([]Row{
		{Name: "Circulation", Abbrev: "Circ", Impact: 12.5},
		{Name: "The Lancet", Abbrev: "Lancet", Impact: 59.1},
		{Name: "Unrated Journal", Abbrev: "", Impact: math.NaN()},
	})

	t.Run("matches canonical name case-insensitively", func(t *testing.T) {
		impact, ok := table.Lookup("CIRCULATION")
		require.True(t, ok)
		assert.Equal(t, 12.5, impact)
	})

	t.Run("matches abbreviated name", func(t *testing.T) {
		impact, ok := table.Lookup("circ")
		require.True(t, ok)
		assert.Equal(t, 12.5, impact)
	})

	t.Run("misses unknown name", func(t *testing.T) {
		_, ok := table.Lookup("Acta Astronautica")
		assert.False(t, ok)
	})

	t.Run("NaN impact survives lookup", func(t *testing.T) {
		impact, ok := table.Lookup("unrated journal")
		require.True(t, ok)
		assert.True(t, math.IsNaN(impact))
	})

	t.Run("name union keeps canonical names before abbreviations", func(t *testing.T) {
		names := table.Names()
		require.NotEmpty(t, names)
		assert.Equal(t, "circulation", names[0])
		assert.Equal(t, "the lancet", names[1])
	})
}

func TestLoadWorkbook(t *testing.T) {
	writeWorkbook := func(t *testing.T, rows [][]interface{}) string {
		t.Helper()
		f := excelize.NewFile()
		sheet := f.GetSheetList()[0]
		for i, row := range rows {
			cell, err := excelize.CoordinatesToCellName(1, i+1)
			require.NoError(t, err)
			require.NoError(t, f.SetSheetRow(sheet, cell, &row))
		}
		path := filepath.Join(t.TempDir(), "factors.xlsx")
		require.NoError(t, f.SaveAs(path))
		return path
	}

	t.Run("loads rows and skips header", func(t *testing.T) {
		path := writeWorkbook(t, [][]interface{}{
			{"Journal", "Abbreviation", "5-Year IF"},
			{"Circulation", "Circ", 12.5},
			{"Revista Española de Cardiología", "Rev Esp Cardiol", 4.2},
		})

		table, err := LoadWorkbook(path, "")
		require.NoError(t, err)
		assert.Equal(t, 2, table.Len())

		impact, ok := table.Lookup("rev esp cardiol")
		require.True(t, ok)
		assert.Equal(t, 4.2, impact)
	})

	t.Run("non-numeric impact loads as NaN", func(t *testing.T) {
		path := writeWorkbook(t, [][]interface{}{
			{"Journal", "Abbrev", "IF"},
			{"Mystery Journal", "Myst J", "n/a"},
		})

		table, err := LoadWorkbook(path, "")
		require.NoError(t, err)

		impact, ok := table.Lookup("mystery journal")
		require.True(t, ok)
		assert.True(t, math.IsNaN(impact))
	})

	t.Run("missing file errors", func(t *testing.T) {
		_, err := LoadWorkbook(filepath.Join(t.TempDir(), "absent.xlsx"), "")
		assert.Error(t, err)
	})
}
