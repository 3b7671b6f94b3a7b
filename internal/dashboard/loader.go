package dashboard

import (
	"context"
	"fmt"
	"strings"

	"github.com/ruslano69/sitedesk/internal/grid"
	"github.com/ruslano69/sitedesk/internal/storage"
)

// Loader reads a table fresh from storage and normalizes it into a
// display grid. No caching: every page render goes back to the database.
type Loader struct {
	store storage.Store
}

func NewLoader(store storage.Store) *Loader {
	return &Loader{store: store}
}

// Load reads the spec's table and returns a grid with:
//   - columns renamed storage snake_case → display labels,
//   - every declared display column present (empty ones backfilled),
//   - cells coerced per declared kind (failures degrade to defaults),
//   - timeline Status never empty,
//   - user-added storage columns preserved as extra columns.
func (l *Loader) Load(ctx context.Context, spec TableSpec) (*grid.Grid, error) {
	tbl, err := l.store.LoadTable(ctx, spec.StorageName)
	if err != nil {
		return nil, fmt.Errorf("load %s: %w", spec.StorageName, err)
	}

	// Index storage columns by display label; collect the ones the spec
	// does not declare so dynamic columns survive a reload.
	srcIndex := make(map[string]int, len(tbl.Columns))
	var extras []grid.Column
	for i, ci := range tbl.Columns {
		display := spec.DisplayFor(ci.Name)
		srcIndex[display] = i
		if _, declared := spec.DeclaredColumn(display); !declared {
			extras = append(extras, grid.Column{Name: display, Kind: ci.Kind})
		}
	}

	columns := make([]grid.Column, 0, len(spec.Columns)+len(extras))
	columns = append(columns, spec.Columns...)
	columns = append(columns, extras...)

	g := grid.New(columns)
	for _, src := range tbl.Rows {
		row := make([]grid.Value, len(columns))
		for ci, col := range columns {
			si, ok := srcIndex[col.Name]
			if !ok || si >= len(src) {
				row[ci] = col.Kind.Zero()
				continue
			}
			row[ci] = grid.Coerce(src[si], col.Kind)
		}
		g.Rows = append(g.Rows, row)
	}

	if spec.Slug == Timeline.Slug {
		normalizeStatus(g)
	}
	return g, nil
}

// normalizeStatus rewrites null-ish status cells to the default. The
// storage layer renders SQL NULL as "", and the previous implementation
// could also persist literal "nan"/"None" markers.
func normalizeStatus(g *grid.Grid) {
	idx := g.ColumnIndex(StatusColumn)
	if idx < 0 {
		return
	}
	for i := range g.Rows {
		s := strings.TrimSpace(g.Rows[i][idx].Str)
		switch strings.ToLower(s) {
		case "", "nan", "none", "null", "<na>":
			g.Rows[i][idx] = grid.Text(StatusDefault)
		}
	}
}
