package web

import (
	"fmt"
	"net/url"
	"strconv"
	"testing"

	"github.com/ruslano69/sitedesk/internal/dashboard"
	"github.com/ruslano69/sitedesk/internal/grid"
)

// gridForm encodes a grid the way the edit form does.
func gridForm(g *grid.Grid) url.Values {
	v := url.Values{}
	v.Set("colcount", strconv.Itoa(len(g.Columns)))
	v.Set("rowcount", strconv.Itoa(len(g.Rows)))
	for i, c := range g.Columns {
		v.Set(fmt.Sprintf("colname_%d", i), c.Name)
		v.Set(fmt.Sprintf("colkind_%d", i), string(c.Kind))
	}
	for r, row := range g.Rows {
		for c, val := range row {
			v.Set(fmt.Sprintf("cell_%d_%d", r, c), val.String())
		}
	}
	return v
}

func TestParseGridForm_RoundTrip(t *testing.T) {
	g := grid.New(dashboard.Items.Columns)
	g.Rows = [][]grid.Value{
		{grid.Text("Nails"), grid.Int(200), grid.Text("Ordered"), grid.Text("Delivered"), grid.Text("urgent")},
	}

	parsed, err := parseGridForm(gridForm(g), dashboard.Items)
	if err != nil {
		t.Fatalf("parseGridForm() error = %v", err)
	}

	if len(parsed.Columns) != len(g.Columns) || len(parsed.Rows) != 1 {
		t.Fatalf("parsed shape = %dx%d", len(parsed.Columns), len(parsed.Rows))
	}
	if parsed.Rows[0][0].Str != "Nails" || parsed.Rows[0][1].Int != 200 {
		t.Errorf("parsed row = %v", parsed.Rows[0])
	}
	// Declared columns recover their editor configuration.
	if len(parsed.Columns[2].Options) == 0 {
		t.Error("Order Status lost its option list")
	}
}

func TestParseGridForm_CoercesBadCells(t *testing.T) {
	g := grid.New(dashboard.Items.Columns)
	g.InsertRow()
	form := gridForm(g)
	form.Set("cell_0_1", "lots") // Quantity

	parsed, err := parseGridForm(form, dashboard.Items)
	if err != nil {
		t.Fatalf("parseGridForm() error = %v", err)
	}
	if parsed.Rows[0][1].Int != 0 {
		t.Errorf("bad quantity = %d, want degraded 0", parsed.Rows[0][1].Int)
	}
}

func TestParseGridForm_UserColumnKeepsSubmittedKind(t *testing.T) {
	g := grid.New(dashboard.Items.Columns)
	if err := g.AddColumn("Crew Size", grid.KindInt); err != nil {
		t.Fatalf("AddColumn() error = %v", err)
	}
	g.InsertRow()
	form := gridForm(g)
	form.Set("cell_0_5", "4")

	parsed, err := parseGridForm(form, dashboard.Items)
	if err != nil {
		t.Fatalf("parseGridForm() error = %v", err)
	}
	if parsed.Columns[5].Kind != grid.KindInt {
		t.Errorf("user column kind = %q, want integer", parsed.Columns[5].Kind)
	}
	if parsed.Rows[0][5].Int != 4 {
		t.Errorf("user column cell = %d, want 4", parsed.Rows[0][5].Int)
	}
}

func TestParseGridForm_RejectsBadShape(t *testing.T) {
	cases := []url.Values{
		{},
		{"colcount": {"0"}, "rowcount": {"0"}},
		{"colcount": {"2"}, "rowcount": {"-1"}},
		{"colcount": {"999999"}, "rowcount": {"1"}},
	}
	for i, form := range cases {
		if _, err := parseGridForm(form, dashboard.Items); err == nil {
			t.Errorf("case %d: parseGridForm() = nil error, want error", i)
		}
	}
}
