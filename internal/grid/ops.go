package grid

import (
	"errors"
	"fmt"
	"strings"
)

// Sentinel errors for the row/column management commands. Handlers match
// them with errors.Is to decide which control the warning belongs to.
var (
	ErrRowIndex       = errors.New("row index out of range")
	ErrColumnName     = errors.New("invalid column name")
	ErrColumnExists   = errors.New("column already exists")
	ErrColumnNotFound = errors.New("column not found")
)

// SetCell coerces raw per the column's declared kind and writes it into
// the in-memory grid. No validation beyond the kind: an out-of-range
// number or unlisted enum choice is the rendering layer's problem.
func (g *Grid) SetCell(row, col int, raw string) error {
	if row < 0 || row >= len(g.Rows) {
		return fmt.Errorf("%w: %d", ErrRowIndex, row)
	}
	if col < 0 || col >= len(g.Columns) {
		return fmt.Errorf("%w: index %d", ErrColumnNotFound, col)
	}
	g.Rows[row][col] = Coerce(raw, g.Columns[col].Kind)
	return nil
}

// InsertRow appends a row filled with each column kind's zero value.
func (g *Grid) InsertRow() {
	row := make([]Value, len(g.Columns))
	for i, c := range g.Columns {
		row[i] = c.Kind.Zero()
	}
	g.Rows = append(g.Rows, row)
}

// DeleteRow removes the row at idx. Out-of-range indices are reported
// and leave the grid unchanged.
func (g *Grid) DeleteRow(idx int) error {
	if idx < 0 || idx >= len(g.Rows) {
		return fmt.Errorf("%w: %d (have %d rows)", ErrRowIndex, idx, len(g.Rows))
	}
	g.Rows = append(g.Rows[:idx], g.Rows[idx+1:]...)
	return nil
}

// AddColumn appends a column of the given kind, backfilling every existing
// row with the kind's zero value. Empty and duplicate names are rejected
// without touching the grid.
func (g *Grid) AddColumn(name string, k Kind) error {
	name = strings.TrimSpace(name)
	if name == "" {
		return fmt.Errorf("%w: empty name", ErrColumnName)
	}
	if g.ColumnIndex(name) >= 0 {
		return fmt.Errorf("%w: %q", ErrColumnExists, name)
	}
	g.Columns = append(g.Columns, Column{Name: name, Kind: k})
	for i := range g.Rows {
		g.Rows[i] = append(g.Rows[i], k.Zero())
	}
	return nil
}

// DeleteColumn removes the named column from every row. Empty or unknown
// names are rejected without touching the grid.
func (g *Grid) DeleteColumn(name string) error {
	if strings.TrimSpace(name) == "" {
		return fmt.Errorf("%w: empty name", ErrColumnName)
	}
	idx := g.ColumnIndex(name)
	if idx < 0 {
		return fmt.Errorf("%w: %q", ErrColumnNotFound, name)
	}
	g.Columns = append(g.Columns[:idx], g.Columns[idx+1:]...)
	for i := range g.Rows {
		g.Rows[i] = append(g.Rows[i][:idx], g.Rows[i][idx+1:]...)
	}
	return nil
}
