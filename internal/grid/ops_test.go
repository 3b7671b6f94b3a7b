package grid

import (
	"errors"
	"testing"
)

func testGrid() *Grid {
	g := New([]Column{
		{Name: "Item", Kind: KindText},
		{Name: "Quantity", Kind: KindInt},
		{Name: "Due", Kind: KindDate},
	})
	g.Rows = [][]Value{
		{Text("Cement"), Int(10), CoerceDate("2026-03-01")},
		{Text("Tiles"), Int(48), CoerceDate("2026-03-15")},
	}
	return g
}

// --- SetCell ---

func TestSetCell_CoercesPerColumnKind(t *testing.T) {
	g := testGrid()
	if err := g.SetCell(0, 1, "nonsense"); err != nil {
		t.Fatalf("SetCell() error = %v", err)
	}
	if g.Rows[0][1].Int != 0 {
		t.Errorf("SetCell int cell = %d, want degraded 0", g.Rows[0][1].Int)
	}
}

func TestSetCell_RowOutOfRange(t *testing.T) {
	g := testGrid()
	if err := g.SetCell(5, 0, "x"); !errors.Is(err, ErrRowIndex) {
		t.Errorf("SetCell(5,0) = %v, want ErrRowIndex", err)
	}
}

// --- InsertRow ---

func TestInsertRow_AppendsZeroValues(t *testing.T) {
	g := testGrid()
	g.InsertRow()

	if len(g.Rows) != 3 {
		t.Fatalf("rows = %d, want 3", len(g.Rows))
	}
	last := g.Rows[2]
	if last[0].Str != "" {
		t.Errorf("new text cell = %q, want empty", last[0].Str)
	}
	if last[1].Int != 0 {
		t.Errorf("new int cell = %d, want 0", last[1].Int)
	}
	if !last[2].IsNull {
		t.Errorf("new date cell = %+v, want null", last[2])
	}
}

// --- DeleteRow ---

func TestDeleteRow_RemovesRow(t *testing.T) {
	g := testGrid()
	if err := g.DeleteRow(0); err != nil {
		t.Fatalf("DeleteRow() error = %v", err)
	}
	if len(g.Rows) != 1 || g.Rows[0][0].Str != "Tiles" {
		t.Errorf("after delete rows = %v", g.Rows)
	}
}

func TestDeleteRow_OutOfRangeLeavesGridUntouched(t *testing.T) {
	g := testGrid()
	if err := g.DeleteRow(9); !errors.Is(err, ErrRowIndex) {
		t.Errorf("DeleteRow(9) = %v, want ErrRowIndex", err)
	}
	if len(g.Rows) != 2 {
		t.Errorf("rows = %d, want unchanged 2", len(g.Rows))
	}
}

// --- AddColumn ---

func TestAddColumn_BackfillsExistingRows(t *testing.T) {
	g := testGrid()
	if err := g.AddColumn("Weight", KindFloat); err != nil {
		t.Fatalf("AddColumn() error = %v", err)
	}
	if len(g.Columns) != 4 {
		t.Fatalf("columns = %d, want 4", len(g.Columns))
	}
	for i, row := range g.Rows {
		if len(row) != 4 || row[3].Float != 0 {
			t.Errorf("row %d not backfilled: %v", i, row)
		}
	}
}

func TestAddColumn_RejectsEmptyName(t *testing.T) {
	g := testGrid()
	if err := g.AddColumn("  ", KindText); !errors.Is(err, ErrColumnName) {
		t.Errorf("AddColumn(blank) = %v, want ErrColumnName", err)
	}
}

func TestAddColumn_RejectsDuplicate(t *testing.T) {
	g := testGrid()
	if err := g.AddColumn("Item", KindText); !errors.Is(err, ErrColumnExists) {
		t.Errorf("AddColumn(Item) = %v, want ErrColumnExists", err)
	}
	if len(g.Columns) != 3 {
		t.Errorf("columns = %d, want unchanged 3", len(g.Columns))
	}
}

// --- DeleteColumn ---

func TestDeleteColumn_RemovesFromEveryRow(t *testing.T) {
	g := testGrid()
	if err := g.DeleteColumn("Quantity"); err != nil {
		t.Fatalf("DeleteColumn() error = %v", err)
	}
	if g.ColumnIndex("Quantity") != -1 {
		t.Error("Quantity still present after delete")
	}
	for i, row := range g.Rows {
		if len(row) != 2 {
			t.Errorf("row %d width = %d, want 2", i, len(row))
		}
	}
}

func TestDeleteColumn_UnknownName(t *testing.T) {
	g := testGrid()
	if err := g.DeleteColumn("Ghost"); !errors.Is(err, ErrColumnNotFound) {
		t.Errorf("DeleteColumn(Ghost) = %v, want ErrColumnNotFound", err)
	}
}

// --- Clone ---

func TestClone_IsDeep(t *testing.T) {
	g := testGrid()
	c := g.Clone()
	c.Rows[0][0] = Text("changed")
	if g.Rows[0][0].Str != "Cement" {
		t.Error("Clone() shares row storage with the original")
	}
}

// --- ParseKind ---

func TestParseKind_Aliases(t *testing.T) {
	cases := map[string]Kind{
		"string":   KindText,
		"integer":  KindInt,
		"float":    KindFloat,
		"datetime": KindDate,
	}
	for in, want := range cases {
		k, err := ParseKind(in)
		if err != nil {
			t.Fatalf("ParseKind(%q) error = %v", in, err)
		}
		if k != want {
			t.Errorf("ParseKind(%q) = %q, want %q", in, k, want)
		}
	}
	if _, err := ParseKind("blob"); err == nil {
		t.Error("ParseKind(blob) = nil error, want error")
	}
}
