package dashboard

import (
	"strings"
	"time"

	"github.com/ruslano69/sitedesk/internal/grid"
)

// KPI summarizes the timeline grid for the dashboard header cards.
type KPI struct {
	Total         int
	Finished      int
	InProgress    int
	NotStarted    int
	Delayed       int
	AvgProgress   float64
	TotalWorkdays float64
}

// Summarize computes the timeline KPIs from the in-memory grid.
func Summarize(g *grid.Grid) KPI {
	var kpi KPI
	statusIdx := g.ColumnIndex(StatusColumn)
	progressIdx := g.ColumnIndex(ProgressColumn)
	workdaysIdx := g.ColumnIndex("Workdays")

	var progressSum int64
	for _, row := range g.Rows {
		kpi.Total++
		if statusIdx >= 0 {
			switch strings.ToLower(strings.TrimSpace(row[statusIdx].Str)) {
			case "finished":
				kpi.Finished++
			case "in progress":
				kpi.InProgress++
			case "delayed":
				kpi.Delayed++
			default:
				kpi.NotStarted++
			}
		}
		if progressIdx >= 0 && !row[progressIdx].IsNull {
			progressSum += row[progressIdx].Int
		}
		if workdaysIdx >= 0 && !row[workdaysIdx].IsNull {
			kpi.TotalWorkdays += row[workdaysIdx].Float
		}
	}
	if kpi.Total > 0 {
		kpi.AvgProgress = float64(progressSum) / float64(kpi.Total)
	}
	return kpi
}

// Span is one timeline bar: a task with both dates set.
type Span struct {
	Label    string
	Start    time.Time
	End      time.Time
	Days     int
	Status   string
	Progress int64
}

// TimelineSpans extracts Gantt bars from the timeline grid. Rows missing
// either date are skipped; an end before its start is clamped to one day.
func TimelineSpans(g *grid.Grid) []Span {
	taskIdx := g.ColumnIndex("Task")
	if taskIdx < 0 {
		taskIdx = g.ColumnIndex("Activity")
	}
	startIdx := g.ColumnIndex("Start Date")
	endIdx := g.ColumnIndex("End Date")
	statusIdx := g.ColumnIndex(StatusColumn)
	progressIdx := g.ColumnIndex(ProgressColumn)
	if startIdx < 0 || endIdx < 0 {
		return nil
	}

	var spans []Span
	for _, row := range g.Rows {
		start, end := row[startIdx], row[endIdx]
		if start.IsNull || end.IsNull {
			continue
		}
		sp := Span{Start: start.Time, End: end.Time}
		if sp.End.Before(sp.Start) {
			sp.End = sp.Start
		}
		sp.Days = int(sp.End.Sub(sp.Start).Hours()/24) + 1
		if taskIdx >= 0 {
			sp.Label = row[taskIdx].Str
		}
		if statusIdx >= 0 {
			sp.Status = row[statusIdx].Str
		}
		if progressIdx >= 0 {
			sp.Progress = row[progressIdx].Int
		}
		spans = append(spans, sp)
	}
	return spans
}

// Filter narrows the timeline view. Empty fields match everything.
type Filter struct {
	Status string
	Room   string
}

func (f Filter) IsZero() bool {
	return f.Status == "" && f.Room == ""
}

// Match reports whether the grid row at idx passes the filter.
func (f Filter) Match(g *grid.Grid, idx int) bool {
	if f.IsZero() {
		return true
	}
	row := g.Rows[idx]
	if f.Status != "" {
		statusIdx := g.ColumnIndex(StatusColumn)
		if statusIdx < 0 || !strings.EqualFold(strings.TrimSpace(row[statusIdx].Str), f.Status) {
			return false
		}
	}
	if f.Room != "" {
		roomIdx := g.ColumnIndex("Room")
		if roomIdx < 0 || !strings.EqualFold(strings.TrimSpace(row[roomIdx].Str), f.Room) {
			return false
		}
	}
	return true
}

// ApplyFilter returns a copy of the grid holding only matching rows.
// Filtering is a view concern: the full grid is what gets edited and
// saved, so the filtered copy drives the KPI cards and the timeline
// chart, never a write.
func ApplyFilter(g *grid.Grid, f Filter) *grid.Grid {
	if f.IsZero() {
		return g
	}
	out := grid.New(g.Columns)
	for i := range g.Rows {
		if f.Match(g, i) {
			out.Rows = append(out.Rows, g.Rows[i])
		}
	}
	return out
}

// Rooms lists the distinct non-empty Room values for the filter control.
func Rooms(g *grid.Grid) []string {
	idx := g.ColumnIndex("Room")
	if idx < 0 {
		return nil
	}
	seen := make(map[string]bool)
	var rooms []string
	for _, row := range g.Rows {
		room := strings.TrimSpace(row[idx].Str)
		if room == "" || seen[room] {
			continue
		}
		seen[room] = true
		rooms = append(rooms, room)
	}
	return rooms
}
