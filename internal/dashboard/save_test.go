package dashboard

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/ruslano69/sitedesk/internal/grid"
	"github.com/ruslano69/sitedesk/internal/storage"

	_ "github.com/ruslano69/sitedesk/internal/storage/sqlite"
)

func newTestStore(t *testing.T) storage.Store {
	t.Helper()
	store, err := storage.New("sqlite")
	if err != nil {
		t.Fatalf("storage.New() error = %v", err)
	}
	dsn := filepath.Join(t.TempDir(), "test.db")
	if err := store.Connect(context.Background(), storage.Config{Driver: "sqlite", DSN: dsn}); err != nil {
		t.Fatalf("Connect() error = %v", err)
	}
	t.Cleanup(func() { store.Close(context.Background()) }) //nolint:errcheck
	return store
}

// --- ApplyFinishRule ---

func TestApplyFinishRule_ForcesProgressTo100(t *testing.T) {
	g := buildTimeline(
		[]string{"A", "", "Done task", "X", "", "", "", "", "Finished", "1", "40"},
		[]string{"B", "", "Open task", "X", "", "", "", "", "In Progress", "1", "40"},
	)
	ApplyFinishRule(g)

	progressIdx := g.ColumnIndex(ProgressColumn)
	if g.Rows[0][progressIdx].Int != 100 {
		t.Errorf("finished row progress = %d, want 100", g.Rows[0][progressIdx].Int)
	}
	if g.Rows[1][progressIdx].Int != 40 {
		t.Errorf("unfinished row progress = %d, want untouched 40", g.Rows[1][progressIdx].Int)
	}
}

func TestApplyFinishRule_CaseInsensitive(t *testing.T) {
	g := buildTimeline(
		[]string{"A", "", "Shouting", "X", "", "", "", "", "FINISHED", "1", "10"},
	)
	ApplyFinishRule(g)
	if got := g.Rows[0][g.ColumnIndex(ProgressColumn)].Int; got != 100 {
		t.Errorf("progress = %d, want 100", got)
	}
}

func TestApplyFinishRule_MissingColumnsIsNoop(t *testing.T) {
	g := grid.New([]grid.Column{{Name: "Item", Kind: grid.KindText}})
	g.Rows = [][]grid.Value{{grid.Text("Cement")}}
	ApplyFinishRule(g) // must not panic
}

// --- Save ---

func TestSave_TransformRunsOnCloneNotCaller(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	g := buildTimeline(
		[]string{"A", "", "Done task", "X", "", "", "2026-01-05", "2026-01-09", "Finished", "5", "40"},
	)
	if err := NewSaver(store).Save(ctx, Timeline, g); err != nil {
		t.Fatalf("Save() error = %v", err)
	}

	// The caller's grid keeps the entered value.
	if got := g.Rows[0][g.ColumnIndex(ProgressColumn)].Int; got != 40 {
		t.Errorf("caller grid progress = %d, want untouched 40", got)
	}

	// The stored row carries the transformed value.
	loaded, err := NewLoader(store).Load(ctx, Timeline)
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if got := loaded.Rows[0][loaded.ColumnIndex(ProgressColumn)].Int; got != 100 {
		t.Errorf("stored progress = %d, want 100", got)
	}
}

func TestSave_WritesSnakeCaseColumnNames(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	g := grid.New(Items.Columns)
	g.Rows = [][]grid.Value{{
		grid.Text("Nails"), grid.Int(200), grid.Text("Ordered"), grid.Text("Delivered"), grid.Text(""),
	}}
	if err := NewSaver(store).Save(ctx, Items, g); err != nil {
		t.Fatalf("Save() error = %v", err)
	}

	tbl, err := store.LoadTable(ctx, ItemsTable)
	if err != nil {
		t.Fatalf("LoadTable() error = %v", err)
	}
	want := []string{"item", "quantity", "order_status", "delivery_status", "notes"}
	if len(tbl.Columns) != len(want) {
		t.Fatalf("stored columns = %d, want %d", len(tbl.Columns), len(want))
	}
	for i, w := range want {
		if tbl.Columns[i].Name != w {
			t.Errorf("stored column %d = %q, want %q", i, tbl.Columns[i].Name, w)
		}
	}
}

func TestSave_ReplacesWholeTable(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()
	saver := NewSaver(store)

	first := grid.New(Items.Columns)
	first.Rows = [][]grid.Value{
		{grid.Text("Cement"), grid.Int(10), grid.Text("Ordered"), grid.Text("Delivered"), grid.Text("")},
		{grid.Text("Sand"), grid.Int(5), grid.Text("Ordered"), grid.Text("Delivered"), grid.Text("")},
	}
	if err := saver.Save(ctx, Items, first); err != nil {
		t.Fatalf("first Save() error = %v", err)
	}

	second := grid.New(Items.Columns)
	second.Rows = [][]grid.Value{
		{grid.Text("Bricks"), grid.Int(500), grid.Text("Not Ordered"), grid.Text("Not Delivered"), grid.Text("")},
	}
	if err := saver.Save(ctx, Items, second); err != nil {
		t.Fatalf("second Save() error = %v", err)
	}

	loaded, err := NewLoader(store).Load(ctx, Items)
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if len(loaded.Rows) != 1 {
		t.Fatalf("rows after replace = %d, want 1 (last writer wins)", len(loaded.Rows))
	}
	if loaded.Rows[0][0].Str != "Bricks" {
		t.Errorf("surviving row = %q, want Bricks", loaded.Rows[0][0].Str)
	}
}
