// Package export serializes a grid for download. Pure functions, no
// storage side effects: exporting never persists the grid.
package export

import (
	"bytes"
	"encoding/csv"
	"fmt"

	"github.com/ruslano69/sitedesk/internal/grid"
)

// CSV renders the grid as UTF-8 CSV: header row of display column names
// in grid order, one record per row, standard quoting for embedded
// delimiters.
func CSV(g *grid.Grid) ([]byte, error) {
	var buf bytes.Buffer
	w := csv.NewWriter(&buf)

	header := make([]string, len(g.Columns))
	for i, c := range g.Columns {
		header[i] = c.Name
	}
	if err := w.Write(header); err != nil {
		return nil, fmt.Errorf("write header: %w", err)
	}

	record := make([]string, len(g.Columns))
	for _, row := range g.Rows {
		for i, val := range row {
			record[i] = val.String()
		}
		if err := w.Write(record); err != nil {
			return nil, fmt.Errorf("write row: %w", err)
		}
	}

	w.Flush()
	if err := w.Error(); err != nil {
		return nil, fmt.Errorf("flush csv: %w", err)
	}
	return buf.Bytes(), nil
}
