package web

import (
	"fmt"
	"html"
	"io"
	"net/http"
	"strconv"
	"strings"

	"github.com/ruslano69/sitedesk/internal/dashboard"
	"github.com/ruslano69/sitedesk/internal/grid"
)

// viewState is everything one dashboard render needs: the grids to show
// (fresh-loaded or carried over from a submitted form), the active
// timeline filter, and an optional flash message.
type viewState struct {
	grids  map[string]*grid.Grid
	filter dashboard.Filter
	flash  string
	warn   string
}

func (h *Handler) renderIndex(w io.Writer, v *viewState) {
	timeline := v.grids[dashboard.Timeline.Slug]
	visible := dashboard.ApplyFilter(timeline, v.filter)
	kpi := dashboard.Summarize(visible)
	spans := dashboard.TimelineSpans(visible)

	var b strings.Builder

	b.WriteString(`<!DOCTYPE html>
<html lang="en">
<head>
<meta charset="UTF-8">
<meta name="viewport" content="width=device-width,initial-scale=1">
<title>` + html.EscapeString(h.cfg.Server.Name) + `</title>
` + commonCSS() + dashboardCSS() + `
</head>
<body>
<div class="container">
`)
	writeNavbar(&b, h.cfg.Server.Name)

	if v.flash != "" {
		b.WriteString(`<div class="flash-bar">` + html.EscapeString(v.flash) + `</div>`)
	}
	if v.warn != "" {
		b.WriteString(`<div class="error-bar">` + html.EscapeString(v.warn) + `</div>`)
	}

	writeKPICards(&b, kpi)
	writeFilterBar(&b, v.filter, dashboard.Rooms(timeline))
	writeGantt(&b, spans)

	for _, spec := range dashboard.Specs() {
		writeTableSection(&b, spec, v.grids[spec.Slug], v.filter)
	}

	b.WriteString(`<div class="footer">sitedesk &mdash; ` + html.EscapeString(h.cfg.Server.Name) + `</div>`)
	b.WriteString(`</div></body></html>`)

	fmt.Fprint(w, b.String())
}

// renderFatal is the page shown when storage itself is unreachable.
func (h *Handler) renderFatal(w http.ResponseWriter, err error) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(http.StatusInternalServerError)

	var b strings.Builder
	b.WriteString(`<!DOCTYPE html><html lang="en"><head><meta charset="UTF-8"><title>` +
		html.EscapeString(h.cfg.Server.Name) + `</title>` + commonCSS() + `</head><body><div class="container">`)
	writeNavbar(&b, h.cfg.Server.Name)
	b.WriteString(`<div class="error-bar">Database error: ` + html.EscapeString(err.Error()) + `</div>`)
	b.WriteString(`<div class="footer">restart the service once the database is reachable</div>`)
	b.WriteString(`</div></body></html>`)
	fmt.Fprint(w, b.String())
}

// ── KPI cards ──

func writeKPICards(b *strings.Builder, kpi dashboard.KPI) {
	b.WriteString(`<div class="meta-grid" style="margin-bottom:20px;">`)
	writeMetaItem(b, "Tasks", strconv.Itoa(kpi.Total))
	writeMetaItem(b, "Finished", strconv.Itoa(kpi.Finished))
	writeMetaItem(b, "In Progress", strconv.Itoa(kpi.InProgress))
	writeMetaItem(b, "Delayed", strconv.Itoa(kpi.Delayed))
	writeMetaItem(b, "Avg Progress", fmt.Sprintf("%.0f%%", kpi.AvgProgress))
	writeMetaItem(b, "Total Workdays", strconv.FormatFloat(kpi.TotalWorkdays, 'f', -1, 64))
	b.WriteString(`</div>`)
}

// ── Filter bar ──

func writeFilterBar(b *strings.Builder, f dashboard.Filter, rooms []string) {
	b.WriteString(`<form method="GET" action="/" class="filter-bar">`)

	b.WriteString(`<div class="filter-group" style="max-width:220px;">`)
	b.WriteString(`<label class="filter-label">Status</label>`)
	b.WriteString(`<select class="filter-input" name="status">`)
	b.WriteString(`<option value="">All</option>`)
	for _, s := range dashboard.TimelineStatuses {
		b.WriteString(`<option value="` + html.EscapeString(s) + `"`)
		if strings.EqualFold(s, f.Status) {
			b.WriteString(` selected`)
		}
		b.WriteString(`>` + html.EscapeString(s) + `</option>`)
	}
	b.WriteString(`</select></div>`)

	b.WriteString(`<div class="filter-group" style="max-width:220px;">`)
	b.WriteString(`<label class="filter-label">Room</label>`)
	b.WriteString(`<select class="filter-input" name="room">`)
	b.WriteString(`<option value="">All</option>`)
	for _, room := range rooms {
		b.WriteString(`<option value="` + html.EscapeString(room) + `"`)
		if strings.EqualFold(room, f.Room) {
			b.WriteString(` selected`)
		}
		b.WriteString(`>` + html.EscapeString(room) + `</option>`)
	}
	b.WriteString(`</select></div>`)

	b.WriteString(`<div style="display:flex;gap:8px;align-self:flex-end;">`)
	b.WriteString(`<button class="btn btn-primary" type="submit">Filter</button>`)
	b.WriteString(`<a class="btn btn-ghost" href="/">Clear</a>`)
	b.WriteString(`</div>`)
	b.WriteString(`</form>`)
}

// ── Timeline chart ──

var statusBarClass = map[string]string{
	"finished":    "bar-finished",
	"in progress": "bar-progress",
	"delayed":     "bar-delayed",
}

func writeGantt(b *strings.Builder, spans []dashboard.Span) {
	b.WriteString(`<div class="card">`)
	b.WriteString(`<div class="card-header">Timeline <span class="pill">` + strconv.Itoa(len(spans)) + ` tasks</span></div>`)
	if len(spans) == 0 {
		b.WriteString(`<div class="empty-note">No tasks with both dates set.</div></div>`)
		return
	}

	min, max := spans[0].Start, spans[0].End
	for _, sp := range spans[1:] {
		if sp.Start.Before(min) {
			min = sp.Start
		}
		if sp.End.After(max) {
			max = sp.End
		}
	}
	total := max.Sub(min).Hours() / 24
	if total < 1 {
		total = 1
	}

	b.WriteString(`<div class="gantt">`)
	for _, sp := range spans {
		left := sp.Start.Sub(min).Hours() / 24 / total * 100
		width := float64(sp.Days) / total * 100
		if width < 1.5 {
			width = 1.5
		}

		cls := statusBarClass[strings.ToLower(strings.TrimSpace(sp.Status))]
		if cls == "" {
			cls = "bar-notstarted"
		}

		label := sp.Label
		if label == "" {
			label = "(untitled)"
		}
		title := fmt.Sprintf("%s: %s → %s (%d days, %d%%)",
			label, sp.Start.Format("2006-01-02"), sp.End.Format("2006-01-02"), sp.Days, sp.Progress)

		b.WriteString(`<div class="gantt-row">`)
		b.WriteString(`<div class="gantt-label" title="` + html.EscapeString(title) + `">` + html.EscapeString(label) + `</div>`)
		b.WriteString(`<div class="gantt-track">`)
		b.WriteString(fmt.Sprintf(`<div class="gantt-bar %s" style="left:%.1f%%;width:%.1f%%;" title="%s"></div>`,
			cls, left, width, html.EscapeString(title)))
		b.WriteString(`</div></div>`)
	}
	b.WriteString(`</div>`)

	b.WriteString(`<div class="stats-bar">` +
		`<span><span class="dot bar-finished"></span> Finished</span>` +
		`<span><span class="dot bar-progress"></span> In Progress</span>` +
		`<span><span class="dot bar-delayed"></span> Delayed</span>` +
		`<span><span class="dot bar-notstarted"></span> Not Started</span>` +
		fmt.Sprintf(`<span>%s &rarr; %s</span>`, min.Format("2006-01-02"), max.Format("2006-01-02")) +
		`</div>`)
	b.WriteString(`</div>`)
}

// ── Editable grid section ──

// writeTableSection renders one table: the edit form carrying the whole
// grid, the column-management panel, and the export links. When a filter
// is active, non-matching timeline rows stay in the form as hidden rows
// so a save still replaces the full table.
func writeTableSection(b *strings.Builder, spec dashboard.TableSpec, g *grid.Grid, f dashboard.Filter) {
	filtered := spec.Slug == dashboard.Timeline.Slug && !f.IsZero()

	b.WriteString(`<div class="card">`)
	b.WriteString(`<div class="card-header">` + html.EscapeString(spec.Title) +
		` <span class="pill">` + strconv.Itoa(len(g.Rows)) + ` rows</span>`)
	if filtered {
		b.WriteString(`<span class="pill pill-filter">filtered view</span>`)
	}
	b.WriteString(`<span class="header-links">` +
		`<a href="/table/` + spec.Slug + `/export.csv">CSV</a>` +
		`<a href="/table/` + spec.Slug + `/export.xlsx">Excel</a>` +
		`</span></div>`)

	b.WriteString(`<form method="POST" action="/table/` + spec.Slug + `/save">`)
	b.WriteString(`<input type="hidden" name="colcount" value="` + strconv.Itoa(len(g.Columns)) + `">`)
	b.WriteString(`<input type="hidden" name="rowcount" value="` + strconv.Itoa(len(g.Rows)) + `">`)
	for i, c := range g.Columns {
		b.WriteString(`<input type="hidden" name="colname_` + strconv.Itoa(i) + `" value="` + html.EscapeString(c.Name) + `">`)
		b.WriteString(`<input type="hidden" name="colkind_` + strconv.Itoa(i) + `" value="` + string(c.Kind) + `">`)
	}

	b.WriteString(`<div class="data-wrapper"><table class="data-table"><thead><tr>`)
	b.WriteString(`<th class="row-num">#</th>`)
	for _, c := range g.Columns {
		b.WriteString(`<th>` + html.EscapeString(c.Name) + `<br><small>` + string(c.Kind) + `</small></th>`)
	}
	b.WriteString(`<th></th>`)
	b.WriteString(`</tr></thead><tbody>`)

	for ri, row := range g.Rows {
		if filtered && !f.Match(g, ri) {
			b.WriteString(`<tr class="hidden-row">`)
		} else {
			b.WriteString(`<tr>`)
		}
		b.WriteString(`<td class="row-num">` + strconv.Itoa(ri+1) + `</td>`)
		for ci, val := range row {
			b.WriteString(`<td>`)
			writeCellInput(b, g.Columns[ci], val, ri, ci)
			b.WriteString(`</td>`)
		}
		b.WriteString(`<td class="row-actions"><button class="btn-del" type="submit" ` +
			`formaction="/table/` + spec.Slug + `/rows/delete" name="row" value="` + strconv.Itoa(ri) + `" ` +
			`title="delete row">&#x2715;</button></td>`)
		b.WriteString(`</tr>`)
	}
	b.WriteString(`</tbody></table></div>`)

	b.WriteString(`<div class="stats-bar">` +
		`<button class="btn btn-ghost" type="submit" formaction="/table/` + spec.Slug + `/rows/insert">+ Add Row</button>` +
		`<button class="btn btn-primary" type="submit">Save ` + html.EscapeString(spec.Title) + `</button>` +
		`<span class="save-note">saving replaces the whole table</span>` +
		`</div>`)
	b.WriteString(`</form>`)

	writeColumnPanel(b, spec, g)
	b.WriteString(`</div>`)
}

// writeCellInput picks the input widget the column kind calls for.
func writeCellInput(b *strings.Builder, col grid.Column, val grid.Value, row, colIdx int) {
	name := fmt.Sprintf("cell_%d_%d", row, colIdx)

	if len(col.Options) > 0 {
		b.WriteString(`<select class="cell-input" name="` + name + `">`)
		current := val.Str
		listed := false
		for _, opt := range col.Options {
			b.WriteString(`<option value="` + html.EscapeString(opt) + `"`)
			if opt == current {
				b.WriteString(` selected`)
				listed = true
			}
			b.WriteString(`>` + html.EscapeString(opt) + `</option>`)
		}
		// A stored value outside the list still has to round-trip.
		if !listed && current != "" {
			b.WriteString(`<option value="` + html.EscapeString(current) + `" selected>` + html.EscapeString(current) + `</option>`)
		}
		b.WriteString(`</select>`)
		return
	}

	switch col.Kind {
	case grid.KindDate:
		b.WriteString(`<input class="cell-input" type="date" name="` + name + `" value="` + val.String() + `">`)
	case grid.KindInt, grid.KindFloat:
		b.WriteString(`<input class="cell-input num" type="number" name="` + name + `"`)
		b.WriteString(` min="` + strconv.Itoa(col.Min) + `"`)
		if col.Max > 0 {
			b.WriteString(` max="` + strconv.Itoa(col.Max) + `"`)
		}
		if col.Step > 0 {
			b.WriteString(` step="` + strconv.Itoa(col.Step) + `"`)
		} else {
			b.WriteString(` step="any"`)
		}
		b.WriteString(` value="` + val.String() + `">`)
	default:
		b.WriteString(`<input class="cell-input" type="text" name="` + name + `" value="` + html.EscapeString(val.String()) + `">`)
	}
}

// writeColumnPanel renders the add/remove column forms. Both commands
// persist immediately.
func writeColumnPanel(b *strings.Builder, spec dashboard.TableSpec, g *grid.Grid) {
	b.WriteString(`<div class="col-panel">`)

	b.WriteString(`<form method="POST" action="/table/` + spec.Slug + `/columns/add" class="col-form">`)
	b.WriteString(`<span class="filter-label">Add column</span>`)
	b.WriteString(`<input class="filter-input" name="name" placeholder="column name">`)
	b.WriteString(`<select class="filter-input" name="kind">` +
		`<option value="string">string</option>` +
		`<option value="integer">integer</option>` +
		`<option value="float">float</option>` +
		`<option value="datetime">datetime</option>` +
		`</select>`)
	b.WriteString(`<button class="btn btn-ghost" type="submit">Add</button>`)
	b.WriteString(`</form>`)

	b.WriteString(`<form method="POST" action="/table/` + spec.Slug + `/columns/delete" class="col-form">`)
	b.WriteString(`<span class="filter-label">Remove column</span>`)
	b.WriteString(`<select class="filter-input" name="name">`)
	for _, c := range g.Columns {
		b.WriteString(`<option value="` + html.EscapeString(c.Name) + `">` + html.EscapeString(c.Name) + `</option>`)
	}
	b.WriteString(`</select>`)
	b.WriteString(`<button class="btn btn-ghost" type="submit">Remove</button>`)
	b.WriteString(`</form>`)

	b.WriteString(`</div>`)
}

// ── Shared HTML helpers ──

func commonCSS() string {
	return `<style>
  * { box-sizing:border-box; margin:0; padding:0; }
  body { font-family:-apple-system,BlinkMacSystemFont,"Segoe UI",Roboto,sans-serif; background:#0f1117; color:#e2e8f0; min-height:100vh; padding:24px; }
  .container { max-width:1600px; margin:0 auto; }
  .navbar {
    display:flex; align-items:center; gap:12px; margin-bottom:24px;
    padding-bottom:16px; border-bottom:1px solid #1e293b;
  }
  .nav-title { font-size:18px; font-weight:700; color:#f1f5f9; }
  .nav-home  { color:#60a5fa; text-decoration:none; font-weight:700; }
  .nav-home:hover { color:#93c5fd; }
  .meta-grid   { display:grid; grid-template-columns:repeat(auto-fill,minmax(160px,1fr)); gap:12px; }
  .meta-item   { display:flex; flex-direction:column; gap:2px; background:#1e293b; border:1px solid #334155; border-radius:12px; padding:14px 18px; }
  .meta-label  { font-size:11px; font-weight:600; color:#64748b; text-transform:uppercase; letter-spacing:.05em; }
  .meta-value  { font-size:20px; color:#f1f5f9; font-weight:700; }
  .card        { background:#1e293b; border:1px solid #334155; border-radius:12px; margin-bottom:20px; overflow:hidden; }
  .card-header { padding:14px 20px; border-bottom:1px solid #334155; font-size:14px; font-weight:600; color:#94a3b8; display:flex; align-items:center; gap:10px; background:#0f172a; }
  .pill        { background:#334155; color:#94a3b8; padding:2px 8px; border-radius:10px; font-size:11px; font-weight:600; }
  .stats-bar   { display:flex; gap:16px; flex-wrap:wrap; align-items:center; padding:12px 20px; background:#0f172a; border-top:1px solid #334155; font-size:12px; color:#64748b; }
  .footer      { text-align:center; padding:20px; font-size:11px; color:#334155; }
  .footer a    { color:#475569; text-decoration:none; }
  .error-bar {
    background:#3a1a1a; border:1px solid #f87171; border-radius:8px;
    padding:10px 16px; margin-bottom:16px; color:#f87171; font-size:13px;
  }
  .flash-bar {
    background:#0d2019; border:1px solid #34d399; border-radius:8px;
    padding:10px 16px; margin-bottom:16px; color:#34d399; font-size:13px;
  }
  .filter-bar {
    background:#1e293b; border:1px solid #334155; border-radius:12px;
    padding:16px 20px; margin-bottom:20px;
    display:flex; gap:12px; flex-wrap:wrap; align-items:flex-end;
  }
  .filter-group { display:flex; flex-direction:column; gap:4px; flex:1; min-width:160px; }
  .filter-label { font-size:11px; font-weight:600; color:#64748b; text-transform:uppercase; letter-spacing:.05em; }
  .filter-input {
    background:#0f172a; border:1px solid #334155; border-radius:6px;
    color:#e2e8f0; padding:7px 10px; font-size:13px;
    outline:none; transition:border-color .15s;
  }
  .filter-input:focus { border-color:#3b82f6; }
  .btn {
    padding:8px 18px; border-radius:6px; font-size:13px; font-weight:600;
    cursor:pointer; border:none; transition:opacity .15s; text-decoration:none;
  }
  .btn:hover { opacity:.85; }
  .btn-primary { background:#2563eb; color:#fff; }
  .btn-ghost   { background:#1e293b; color:#94a3b8; border:1px solid #334155; }
</style>`
}

func dashboardCSS() string {
	return `<style>
  .header-links { margin-left:auto; display:flex; gap:10px; }
  .header-links a { color:#60a5fa; text-decoration:none; font-size:12px; font-weight:600; }
  .header-links a:hover { color:#93c5fd; }
  .pill-filter { color:#a78bfa; background:#1a0f3c; }
  .data-wrapper { overflow-x:auto; }
  .data-table { width:100%; border-collapse:collapse; font-size:13px; }
  .data-table th {
    padding:10px 14px; text-align:left;
    font-size:11px; font-weight:600; color:#475569;
    text-transform:uppercase; letter-spacing:.04em;
    border-bottom:2px solid #334155; background:#0f172a;
    white-space:nowrap; position:sticky; top:0; z-index:10;
  }
  .data-table td { padding:4px 8px; border-bottom:1px solid #1e293b; }
  .data-table tr:hover td { background:#1e2d42; }
  .hidden-row { display:none; }
  .row-num { color:#475569; text-align:right; user-select:none; font-size:11px; padding:8px 10px; }
  .row-actions { width:32px; text-align:center; }
  .btn-del {
    background:none; border:none; color:#475569; cursor:pointer;
    font-size:13px; padding:4px 6px; border-radius:4px;
  }
  .btn-del:hover { color:#f87171; background:#3a1a1a; }
  .cell-input {
    width:100%; min-width:90px; background:#0f172a; border:1px solid #1e293b;
    border-radius:4px; color:#cbd5e1; padding:5px 8px; font-size:13px;
    font-family:monospace; outline:none;
  }
  .cell-input:focus { border-color:#3b82f6; }
  .cell-input.num { min-width:70px; max-width:110px; }
  .save-note { margin-left:auto; font-style:italic; }
  .col-panel {
    display:flex; gap:24px; flex-wrap:wrap; padding:12px 20px;
    background:#0f172a; border-top:1px solid #334155;
  }
  .col-form { display:flex; gap:8px; align-items:center; }
  .empty-note { padding:20px; color:#64748b; font-size:13px; font-style:italic; }
  .gantt { padding:16px 20px; display:flex; flex-direction:column; gap:6px; }
  .gantt-row { display:flex; align-items:center; gap:12px; }
  .gantt-label {
    width:200px; flex-shrink:0; font-size:12px; color:#cbd5e1;
    white-space:nowrap; overflow:hidden; text-overflow:ellipsis; text-align:right;
  }
  .gantt-track { position:relative; flex:1; height:18px; background:#0f172a; border-radius:4px; }
  .gantt-bar { position:absolute; top:2px; bottom:2px; border-radius:3px; min-width:4px; }
  .bar-finished   { background:#34d399; }
  .bar-progress   { background:#60a5fa; }
  .bar-delayed    { background:#f87171; }
  .bar-notstarted { background:#475569; }
  .dot { display:inline-block; width:10px; height:10px; border-radius:3px; margin-right:4px; vertical-align:middle; }
</style>`
}

func writeNavbar(b *strings.Builder, serverName string) {
	b.WriteString(`<div class="navbar">`)
	b.WriteString(`<a class="nav-home" href="/">` + html.EscapeString(serverName) + `</a>`)
	b.WriteString(`<form method="POST" action="/refresh" style="margin-left:auto;">` +
		`<button class="btn btn-ghost" type="submit">&#x21bb; Refresh</button>` +
		`</form>`)
	b.WriteString(`</div>`)
}

func writeMetaItem(b *strings.Builder, label, value string) {
	b.WriteString(`<div class="meta-item">`)
	b.WriteString(`<span class="meta-label">` + html.EscapeString(label) + `</span>`)
	b.WriteString(`<span class="meta-value">` + html.EscapeString(value) + `</span>`)
	b.WriteString(`</div>`)
}
