package dashboard

import (
	"context"
	"fmt"
	"strings"

	"github.com/ruslano69/sitedesk/internal/grid"
	"github.com/ruslano69/sitedesk/internal/storage"
)

// Saver persists a grid by full-table replace. There is no upsert and no
// conflict detection: whatever is saved last is the table.
type Saver struct {
	store storage.Store
}

func NewSaver(store storage.Store) *Saver {
	return &Saver{store: store}
}

// Save applies the pre-save transform (timeline only), reverse-maps
// display labels to storage names, and replaces the destination table
// with the grid's current shape and rows.
//
// The transform runs on a clone, so a failed write leaves the caller's
// grid exactly as the user edited it.
func (s *Saver) Save(ctx context.Context, spec TableSpec, g *grid.Grid) error {
	work := g
	if spec.Slug == Timeline.Slug {
		work = g.Clone()
		ApplyFinishRule(work)
	}

	columns := make([]grid.Column, len(work.Columns))
	for i, c := range work.Columns {
		columns[i] = c
		columns[i].Name = spec.StorageFor(c.Name)
	}

	if err := s.store.ReplaceTable(ctx, spec.StorageName, columns, work.Rows); err != nil {
		return fmt.Errorf("save %s: %w", spec.StorageName, err)
	}
	return nil
}

// ApplyFinishRule forces Progress to 100 on every row whose Status is
// "Finished" (case-insensitive), overriding whatever was entered.
func ApplyFinishRule(g *grid.Grid) {
	statusIdx := g.ColumnIndex(StatusColumn)
	progressIdx := g.ColumnIndex(ProgressColumn)
	if statusIdx < 0 || progressIdx < 0 {
		return
	}
	for i := range g.Rows {
		if strings.EqualFold(strings.TrimSpace(g.Rows[i][statusIdx].Str), "finished") {
			g.Rows[i][progressIdx] = grid.Coerce("100", g.Columns[progressIdx].Kind)
		}
	}
}
