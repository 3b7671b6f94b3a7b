package dashboard

import (
	"context"
	"fmt"

	"github.com/ruslano69/sitedesk/internal/grid"
	"github.com/ruslano69/sitedesk/internal/storage"
)

// Seed creates both tables with sample project data when they are absent.
// Used by --dev mode so the dashboard comes up populated against a local
// SQLite file with no external database.
func Seed(ctx context.Context, store storage.Store) error {
	seeds := []struct {
		spec TableSpec
		rows [][]string
	}{
		{Timeline, [][]string{
			{"Demolition", "Walls", "Remove partition wall", "Kitchen", "Ground floor", "", "2026-03-02", "2026-03-06", "Finished", "5", "100"},
			{"Electrical", "Wiring", "Rough-in wiring", "Kitchen", "Ground floor", "inspection booked", "2026-03-09", "2026-03-13", "In Progress", "5", "60"},
			{"Plumbing", "Pipes", "Relocate sink drain", "Kitchen", "Ground floor", "", "2026-03-09", "2026-03-11", "Delayed", "3", "20"},
			{"Finishes", "Tiles", "Lay floor tiles", "Bathroom", "First floor", "", "2026-03-16", "2026-03-20", "Not Started", "5", "0"},
		}},
		{Items, [][]string{
			{"Cement", "10", "Ordered", "Delivered", ""},
			{"Floor tiles 60x60", "48", "Ordered", "Not Delivered", "check shade batch"},
			{"Copper pipe 22mm", "12", "Not Ordered", "Not Delivered", "urgent"},
		}},
	}

	for _, seed := range seeds {
		exists, err := store.TableExists(ctx, seed.spec.StorageName)
		if err != nil {
			return fmt.Errorf("seed %s: %w", seed.spec.StorageName, err)
		}
		if exists {
			continue
		}

		columns := make([]grid.Column, len(seed.spec.Columns))
		for i, c := range seed.spec.Columns {
			columns[i] = c
			columns[i].Name = seed.spec.StorageFor(c.Name)
		}
		rows := make([][]grid.Value, len(seed.rows))
		for i, raw := range seed.rows {
			row := make([]grid.Value, len(seed.spec.Columns))
			for j, col := range seed.spec.Columns {
				row[j] = grid.Coerce(raw[j], col.Kind)
			}
			rows[i] = row
		}

		if err := store.ReplaceTable(ctx, seed.spec.StorageName, columns, rows); err != nil {
			return fmt.Errorf("seed %s: %w", seed.spec.StorageName, err)
		}
	}
	return nil
}
