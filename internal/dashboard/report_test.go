package dashboard

import (
	"testing"

	"github.com/ruslano69/sitedesk/internal/grid"
)

// buildTimeline fills a timeline grid from raw strings in declared
// column order.
func buildTimeline(rows ...[]string) *grid.Grid {
	g := grid.New(Timeline.Columns)
	for _, raw := range rows {
		row := make([]grid.Value, len(Timeline.Columns))
		for i, col := range Timeline.Columns {
			row[i] = grid.Coerce(raw[i], col.Kind)
		}
		g.Rows = append(g.Rows, row)
	}
	return g
}

func sampleTimeline() *grid.Grid {
	return buildTimeline(
		[]string{"Demolition", "Walls", "Remove wall", "Kitchen", "Ground", "", "2026-03-02", "2026-03-06", "Finished", "5", "100"},
		[]string{"Electrical", "Wiring", "Rough-in", "Kitchen", "Ground", "", "2026-03-09", "2026-03-13", "In Progress", "5", "60"},
		[]string{"Plumbing", "Pipes", "Sink drain", "Bathroom", "First", "", "2026-03-09", "2026-03-11", "Delayed", "3", "20"},
		[]string{"Finishes", "Tiles", "Floor tiles", "Bathroom", "First", "", "", "", "Not Started", "5", "0"},
	)
}

// --- Summarize ---

func TestSummarize_Counts(t *testing.T) {
	kpi := Summarize(sampleTimeline())

	if kpi.Total != 4 {
		t.Errorf("Total = %d, want 4", kpi.Total)
	}
	if kpi.Finished != 1 || kpi.InProgress != 1 || kpi.Delayed != 1 || kpi.NotStarted != 1 {
		t.Errorf("status counts = %+v", kpi)
	}
	if kpi.AvgProgress != 45 {
		t.Errorf("AvgProgress = %v, want 45", kpi.AvgProgress)
	}
	if kpi.TotalWorkdays != 18 {
		t.Errorf("TotalWorkdays = %v, want 18", kpi.TotalWorkdays)
	}
}

func TestSummarize_EmptyGrid(t *testing.T) {
	kpi := Summarize(grid.New(Timeline.Columns))
	if kpi.Total != 0 || kpi.AvgProgress != 0 {
		t.Errorf("empty grid KPI = %+v", kpi)
	}
}

// --- TimelineSpans ---

func TestTimelineSpans_SkipsRowsMissingDates(t *testing.T) {
	spans := TimelineSpans(sampleTimeline())
	if len(spans) != 3 {
		t.Fatalf("spans = %d, want 3 (row without dates skipped)", len(spans))
	}
	if spans[0].Label != "Remove wall" {
		t.Errorf("first span label = %q, want task name", spans[0].Label)
	}
	if spans[0].Days != 5 {
		t.Errorf("first span days = %d, want 5", spans[0].Days)
	}
}

func TestTimelineSpans_ClampsEndBeforeStart(t *testing.T) {
	g := buildTimeline(
		[]string{"A", "", "Backwards", "X", "", "", "2026-03-10", "2026-03-01", "In Progress", "1", "0"},
	)
	spans := TimelineSpans(g)
	if len(spans) != 1 {
		t.Fatalf("spans = %d, want 1", len(spans))
	}
	if spans[0].Days != 1 {
		t.Errorf("clamped span days = %d, want 1", spans[0].Days)
	}
}

// --- Filter ---

func TestApplyFilter_ByStatusAndRoom(t *testing.T) {
	g := sampleTimeline()

	byStatus := ApplyFilter(g, Filter{Status: "finished"})
	if len(byStatus.Rows) != 1 {
		t.Errorf("status filter rows = %d, want 1", len(byStatus.Rows))
	}

	byRoom := ApplyFilter(g, Filter{Room: "Bathroom"})
	if len(byRoom.Rows) != 2 {
		t.Errorf("room filter rows = %d, want 2", len(byRoom.Rows))
	}

	both := ApplyFilter(g, Filter{Status: "Delayed", Room: "Bathroom"})
	if len(both.Rows) != 1 {
		t.Errorf("combined filter rows = %d, want 1", len(both.Rows))
	}
}

func TestApplyFilter_ZeroFilterReturnsSameGrid(t *testing.T) {
	g := sampleTimeline()
	if ApplyFilter(g, Filter{}) != g {
		t.Error("zero filter should return the grid unchanged")
	}
}

func TestRooms_DistinctNonEmpty(t *testing.T) {
	rooms := Rooms(sampleTimeline())
	if len(rooms) != 2 || rooms[0] != "Kitchen" || rooms[1] != "Bathroom" {
		t.Errorf("Rooms() = %v, want [Kitchen Bathroom]", rooms)
	}
}
