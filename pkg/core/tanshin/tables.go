package tanshin

import (
	"strconv"
	"strings"

	"github.com/PuerkitoBio/goquery"
)

// Table is one HTML table rebuilt as an aligned cell grid. Colspan and
// rowspan are resolved so every row has the same number of columns; spanned
// slots are blank.
type Table struct {
	Caption string
	Grid    [][]string
}

// Header returns the first row of the grid, or nil for an empty table.
func (t *Table) Header() []string {
	if len(t.Grid) == 0 {
		return nil
	}
	return t.Grid[0]
}

// DataRows returns all rows after the header.
func (t *Table) DataRows() [][]string {
	if len(t.Grid) < 2 {
		return nil
	}
	return t.Grid[1:]
}

// Contains reports whether any cell in the grid contains the substring.
func (t *Table) Contains(sub string) bool {
	if strings.Contains(t.Caption, sub) {
		return true
	}
	for _, row := range t.Grid {
		for _, cell := range row {
			if strings.Contains(cell, sub) {
				return true
			}
		}
	}
	return false
}

// CollectTables converts every table in the cleaned document into a grid,
// skipping tables with no rows. Table order follows document order, which the
// extractor relies on (summary tables precede attachment statements).
func CollectTables(doc *goquery.Document) []*Table {
	var tables []*Table
	doc.Find("table").Each(func(i int, sel *goquery.Selection) {
		t := convertTable(sel)
		if t != nil && len(t.Grid) > 0 {
			tables = append(tables, t)
		}
	})
	return tables
}

// convertTable builds the virtual grid for a single table, handling colspan
// and rowspan by pre-sizing the grid and filling spanned slots.
func convertTable(sel *goquery.Selection) *Table {
	rows := sel.Find("tr")
	rowCount := rows.Length()
	if rowCount == 0 {
		return nil
	}

	// Pre-scan for column count.
	maxCols := 0
	rows.Each(func(i int, tr *goquery.Selection) {
		cols := 0
		tr.Find("td, th").Each(func(_ int, cell *goquery.Selection) {
			colspan, _ := strconv.Atoi(cell.AttrOr("colspan", "1"))
			if colspan < 1 {
				colspan = 1
			}
			cols += colspan
		})
		if cols > maxCols {
			maxCols = cols
		}
	})
	if maxCols == 0 {
		return nil
	}

	grid := make([][]string, rowCount)
	filled := make([][]bool, rowCount)
	for i := range grid {
		grid[i] = make([]string, maxCols)
		filled[i] = make([]bool, maxCols)
	}

	rowIdx := 0
	rows.Each(func(i int, tr *goquery.Selection) {
		colIdx := 0
		for colIdx < maxCols && filled[rowIdx][colIdx] {
			colIdx++
		}

		tr.Find("td, th").Each(func(_ int, cell *goquery.Selection) {
			colspan, _ := strconv.Atoi(cell.AttrOr("colspan", "1"))
			rowspan, _ := strconv.Atoi(cell.AttrOr("rowspan", "1"))
			if colspan < 1 {
				colspan = 1
			}
			if rowspan < 1 {
				rowspan = 1
			}

			text := cleanCellText(cell.Text())

			for r := 0; r < rowspan; r++ {
				for c := 0; c < colspan; c++ {
					rr, cc := rowIdx+r, colIdx+c
					if rr < rowCount && cc < maxCols {
						if r == 0 && c == 0 {
							grid[rr][cc] = text
						}
						filled[rr][cc] = true
					}
				}
			}

			colIdx += colspan
			for colIdx < maxCols && filled[rowIdx][colIdx] {
				colIdx++
			}
		})
		rowIdx++
	})

	return &Table{
		Caption: tableCaption(sel),
		Grid:    grid,
	}
}

// tableCaption prefers an explicit <caption>, then the nearest preceding
// heading or bold paragraph.
func tableCaption(sel *goquery.Selection) string {
	if cap := strings.TrimSpace(sel.Find("caption").First().Text()); cap != "" {
		return cap
	}
	prev := sel.PrevAllFiltered("h1, h2, h3, h4, p, div").First()
	text := strings.TrimSpace(prev.Text())
	if len(text) > 80 {
		return ""
	}
	return text
}

func cleanCellText(text string) string {
	text = strings.ReplaceAll(text, "\n", " ")
	text = strings.Join(strings.Fields(text), " ")
	return strings.TrimSpace(text)
}
