package web

import (
	"fmt"
	"net/url"
	"strconv"

	"github.com/ruslano69/sitedesk/internal/dashboard"
	"github.com/ruslano69/sitedesk/internal/grid"
)

// The edit form carries the whole grid: hidden colname_<i>/colkind_<i>
// fields describe the shape, cell_<row>_<col> fields carry the values.
// The server holds no session state between renders.
const (
	maxFormRows    = 10000
	maxFormColumns = 100
)

// parseGridForm reconstructs a grid from a submitted edit form. Declared
// columns recover their full editor configuration (options, bounds) from
// the table spec; user-added columns keep the name and kind the form
// carried. Cell values are coerced, so a hand-edited request degrades to
// defaults instead of failing.
func parseGridForm(form url.Values, spec dashboard.TableSpec) (*grid.Grid, error) {
	colCount, err := strconv.Atoi(form.Get("colcount"))
	if err != nil || colCount <= 0 || colCount > maxFormColumns {
		return nil, fmt.Errorf("bad colcount %q", form.Get("colcount"))
	}
	rowCount, err := strconv.Atoi(form.Get("rowcount"))
	if err != nil || rowCount < 0 || rowCount > maxFormRows {
		return nil, fmt.Errorf("bad rowcount %q", form.Get("rowcount"))
	}

	columns := make([]grid.Column, colCount)
	for i := range columns {
		name := form.Get(fmt.Sprintf("colname_%d", i))
		if name == "" {
			return nil, fmt.Errorf("missing colname_%d", i)
		}
		kind, err := grid.ParseKind(form.Get(fmt.Sprintf("colkind_%d", i)))
		if err != nil {
			return nil, fmt.Errorf("colkind_%d: %w", i, err)
		}
		if declared, ok := spec.DeclaredColumn(name); ok {
			columns[i] = declared
		} else {
			columns[i] = grid.Column{Name: name, Kind: kind}
		}
	}

	g := grid.New(columns)
	for r := 0; r < rowCount; r++ {
		row := make([]grid.Value, colCount)
		for c := range columns {
			raw := form.Get(fmt.Sprintf("cell_%d_%d", r, c))
			row[c] = grid.Coerce(raw, columns[c].Kind)
		}
		g.Rows = append(g.Rows, row)
	}
	return g, nil
}
