// Package reference wraps the external journal impact-factor workbook as a
// read-only lookup table. The workbook is owned by an external collaborator;
// this package only queries it.
package reference

import (
	"strings"
)

// Row is one reference entry: the canonical journal name, its abbreviated
// name, and the 5-year impact metric. Impact is NaN when the workbook cell
// is empty or not numeric.
type Row struct {
	Name   string
	Abbrev string
	Impact float64
}

// Table is an in-memory snapshot of the reference workbook. Lookups are by
// normalized (lowercased, trimmed) name against either name column.
type Table struct {
	rows   []Row
	byName map[string]float64
	names  []string
}

// NewTable builds a lookup table from reference rows. The normalized name
// union preserves row order: canonical names first, then abbreviated names,
// so fuzzy tie-breaks are deterministic.
func NewTable(rows []Row) *Table {
	t := &Table{
		rows:   rows,
		byName: make(map[string]float64, len(rows)*2),
	}

	add := func(name string, impact float64) {
		key := Normalize(name)
		if key == "" {
			return
		}
		if _, ok := t.byName[key]; !ok {
			t.byName[key] = impact
			t.names = append(t.names, key)
		}
	}

	for _, r := range rows {
		add(r.Name, r.Impact)
	}
	for _, r := range rows {
		add(r.Abbrev, r.Impact)
	}

	return t
}

// Normalize lowercases and trims a journal name for comparison.
func Normalize(name string) string {
	return strings.ToLower(strings.TrimSpace(name))
}

// Len returns the number of reference rows.
func (t *Table) Len() int {
	return len(t.rows)
}

// Lookup returns the impact metric for an exact normalized-name match on
// either the canonical or the abbreviated column.
func (t *Table) Lookup(name string) (float64, bool) {
	impact, ok := t.byName[Normalize(name)]
	return impact, ok
}

// Names returns the normalized union of canonical and abbreviated names in
// declaration order. The slice is shared; callers must not modify it.
func (t *Table) Names() []string {
	return t.names
}
