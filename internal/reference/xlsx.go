package reference

import (
	"fmt"
	"math"
	"strconv"
	"strings"

	"github.com/xuri/excelize/v2"
)

// Column layout of the reference workbook: canonical name, abbreviated
// name, 5-year impact metric.
const (
	colName = iota
	colAbbrev
	colImpact
)

// LoadWorkbook reads the journal impact-factor workbook into a Table.
// When sheet is empty the first sheet is used. A leading header row is
// skipped when its impact cell is not numeric. Cells with a missing or
// non-numeric impact load as NaN, which the classifier maps to the lowest
// tier.
func LoadWorkbook(path, sheet string) (*Table, error) {
	f, err := excelize.OpenFile(path)
	if err != nil {
		return nil, fmt.Errorf("open reference workbook: %w", err)
	}
	defer f.Close()

	if sheet == "" {
		sheets := f.GetSheetList()
		if len(sheets) == 0 {
			return nil, fmt.Errorf("reference workbook %s has no sheets", path)
		}
		sheet = sheets[0]
	}

	cells, err := f.GetRows(sheet)
	if err != nil {
		return nil, fmt.Errorf("read sheet %q: %w", sheet, err)
	}

	rows := make([]Row, 0, len(cells))
	for i, cell := range cells {
		if len(cell) == 0 || strings.TrimSpace(cell[colName]) == "" {
			continue
		}

		row := Row{
			Name:   strings.TrimSpace(cell[colName]),
			Impact: math.NaN(),
		}
		if len(cell) > colAbbrev {
			row.Abbrev = strings.TrimSpace(cell[colAbbrev])
		}

		numeric := false
		if len(cell) > colImpact {
			if v, err := strconv.ParseFloat(strings.TrimSpace(cell[colImpact]), 64); err == nil {
				row.Impact = v
				numeric = true
			}
		}

		// Header row: first row without a numeric impact cell.
		if i == 0 && !numeric {
			continue
		}

		rows = append(rows, row)
	}

	return NewTable(rows), nil
}
