package web

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog/log"

	"github.com/ruslano69/sitedesk/internal/config"
	"github.com/ruslano69/sitedesk/internal/dashboard"
	"github.com/ruslano69/sitedesk/internal/export"
	"github.com/ruslano69/sitedesk/internal/grid"
	"github.com/ruslano69/sitedesk/internal/storage"
)

// Handler serves the dashboard. Every page render loads both tables
// fresh from storage; edits live only in the submitted form until the
// user saves.
type Handler struct {
	cfg      *config.Config
	provider *storage.Provider
}

func NewHandler(cfg *config.Config, provider *storage.Provider) *Handler {
	return &Handler{cfg: cfg, provider: provider}
}

// loadAll reads every managed table into a slug-indexed grid map.
func (h *Handler) loadAll(ctx context.Context) (map[string]*grid.Grid, error) {
	store, err := h.provider.Get(ctx)
	if err != nil {
		return nil, err
	}
	loader := dashboard.NewLoader(store)

	grids := make(map[string]*grid.Grid, len(dashboard.Specs()))
	for _, spec := range dashboard.Specs() {
		g, err := loader.Load(ctx, spec)
		if err != nil {
			return nil, err
		}
		tableRows.WithLabelValues(spec.Slug).Set(float64(len(g.Rows)))
		grids[spec.Slug] = g
	}
	return grids, nil
}

func (h *Handler) save(ctx context.Context, spec dashboard.TableSpec, g *grid.Grid) error {
	store, err := h.provider.Get(ctx)
	if err != nil {
		savesTotal.WithLabelValues(spec.Slug, "error").Inc()
		return err
	}
	if err := dashboard.NewSaver(store).Save(ctx, spec, g); err != nil {
		savesTotal.WithLabelValues(spec.Slug, "error").Inc()
		return err
	}
	savesTotal.WithLabelValues(spec.Slug, "ok").Inc()
	return nil
}

// handleIndex renders the dashboard: KPI cards, filter bar, timeline
// chart, and both editable grids.
func (h *Handler) handleIndex(w http.ResponseWriter, r *http.Request) {
	if r.URL.Path != "/" {
		http.NotFound(w, r)
		return
	}

	q := r.URL.Query()
	view := &viewState{
		filter: dashboard.Filter{
			Status: strings.TrimSpace(q.Get("status")),
			Room:   strings.TrimSpace(q.Get("room")),
		},
		flash: q.Get("msg"),
		warn:  q.Get("warn"),
	}

	grids, err := h.loadAll(r.Context())
	if err != nil {
		log.Error().Err(err).Msg("load tables")
		h.renderFatal(w, err)
		return
	}
	view.grids = grids

	rendersTotal.Inc()
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	h.renderIndex(w, view)
}

// handleSave persists the submitted grid by full-table replace. Success
// redirects back to the dashboard; failure re-renders the page with the
// submitted grid intact so no edits are lost.
func (h *Handler) handleSave(w http.ResponseWriter, r *http.Request) {
	spec, g, ok := h.submittedGrid(w, r)
	if !ok {
		return
	}

	if err := h.save(r.Context(), spec, g); err != nil {
		log.Error().Err(err).Str("table", spec.Slug).Msg("save failed")
		h.rerenderWith(w, r, spec, g, fmt.Sprintf("Save failed: %v", err))
		return
	}
	log.Info().Str("table", spec.Slug).Int("rows", len(g.Rows)).Msg("table saved")
	h.redirect(w, r, "msg", spec.Title+" saved")
}

// handleInsertRow appends a blank row to the submitted grid and
// re-renders without saving. The new row reaches storage only when the
// user saves.
func (h *Handler) handleInsertRow(w http.ResponseWriter, r *http.Request) {
	spec, g, ok := h.submittedGrid(w, r)
	if !ok {
		return
	}
	g.InsertRow()
	h.rerenderWith(w, r, spec, g, "")
}

// handleDeleteRow removes one row from the submitted grid and persists
// immediately. The submitted grid is used, not a fresh load, so pending
// cell edits survive the deletion.
func (h *Handler) handleDeleteRow(w http.ResponseWriter, r *http.Request) {
	spec, g, ok := h.submittedGrid(w, r)
	if !ok {
		return
	}
	idx, err := strconv.Atoi(r.Form.Get("row"))
	if err != nil {
		h.redirect(w, r, "warn", "bad row index")
		return
	}
	if err := g.DeleteRow(idx); err != nil {
		h.redirect(w, r, "warn", err.Error())
		return
	}
	if err := h.save(r.Context(), spec, g); err != nil {
		log.Error().Err(err).Str("table", spec.Slug).Msg("save after row delete failed")
		h.rerenderWith(w, r, spec, g, fmt.Sprintf("Save failed: %v", err))
		return
	}
	h.redirect(w, r, "msg", fmt.Sprintf("Row %d deleted from %s", idx+1, spec.Title))
}

// handleAddColumn adds a column to the stored table: load fresh, extend,
// save. The column appears in every later render of the edit grid.
func (h *Handler) handleAddColumn(w http.ResponseWriter, r *http.Request) {
	spec, ok := h.tableSpec(w, r)
	if !ok {
		return
	}
	if err := r.ParseForm(); err != nil {
		http.Error(w, "bad form", http.StatusBadRequest)
		return
	}
	name := strings.TrimSpace(r.Form.Get("name"))
	kind, err := grid.ParseKind(r.Form.Get("kind"))
	if err != nil {
		h.redirect(w, r, "warn", err.Error())
		return
	}

	store, err := h.provider.Get(r.Context())
	if err != nil {
		h.renderFatal(w, err)
		return
	}
	g, err := dashboard.NewLoader(store).Load(r.Context(), spec)
	if err != nil {
		h.renderFatal(w, err)
		return
	}
	if err := g.AddColumn(name, kind); err != nil {
		h.redirect(w, r, "warn", err.Error())
		return
	}
	if err := h.save(r.Context(), spec, g); err != nil {
		log.Error().Err(err).Str("table", spec.Slug).Msg("save after column add failed")
		h.redirect(w, r, "warn", fmt.Sprintf("save failed: %v", err))
		return
	}
	h.redirect(w, r, "msg", fmt.Sprintf("Column %q added to %s", name, spec.Title))
}

// handleDeleteColumn drops a column from the stored table: load fresh,
// remove, save.
func (h *Handler) handleDeleteColumn(w http.ResponseWriter, r *http.Request) {
	spec, ok := h.tableSpec(w, r)
	if !ok {
		return
	}
	if err := r.ParseForm(); err != nil {
		http.Error(w, "bad form", http.StatusBadRequest)
		return
	}
	name := strings.TrimSpace(r.Form.Get("name"))

	store, err := h.provider.Get(r.Context())
	if err != nil {
		h.renderFatal(w, err)
		return
	}
	g, err := dashboard.NewLoader(store).Load(r.Context(), spec)
	if err != nil {
		h.renderFatal(w, err)
		return
	}
	if err := g.DeleteColumn(name); err != nil {
		h.redirect(w, r, "warn", err.Error())
		return
	}
	if err := h.save(r.Context(), spec, g); err != nil {
		log.Error().Err(err).Str("table", spec.Slug).Msg("save after column delete failed")
		h.redirect(w, r, "warn", fmt.Sprintf("save failed: %v", err))
		return
	}
	h.redirect(w, r, "msg", fmt.Sprintf("Column %q removed from %s", name, spec.Title))
}

// handleExportCSV streams the current stored table as CSV. Export reads
// fresh from storage and never writes.
func (h *Handler) handleExportCSV(w http.ResponseWriter, r *http.Request) {
	spec, g, ok := h.freshGrid(w, r)
	if !ok {
		return
	}
	data, err := export.CSV(g)
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
	exportsTotal.WithLabelValues(spec.Slug, "csv").Inc()
	h.writeDownload(w, r, spec.Slug+".csv", "text/csv; charset=utf-8", data, true)
}

// handleExportXLSX streams the current stored table as an Excel workbook.
func (h *Handler) handleExportXLSX(w http.ResponseWriter, r *http.Request) {
	spec, g, ok := h.freshGrid(w, r)
	if !ok {
		return
	}
	data, err := export.XLSX(g, spec.Title)
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
	exportsTotal.WithLabelValues(spec.Slug, "xlsx").Inc()
	// xlsx is already deflate-compressed, gzip would only burn CPU
	h.writeDownload(w, r, spec.Slug+".xlsx",
		"application/vnd.openxmlformats-officedocument.spreadsheetml.sheet", data, false)
}

// ── shared plumbing ──

func (h *Handler) tableSpec(w http.ResponseWriter, r *http.Request) (dashboard.TableSpec, bool) {
	slug := chi.URLParam(r, "table")
	spec, ok := dashboard.BySlug(slug)
	if !ok {
		http.Error(w, "unknown table: "+slug, http.StatusNotFound)
		return dashboard.TableSpec{}, false
	}
	return spec, true
}

// submittedGrid resolves the table and reconstructs the grid carried by
// the posted edit form.
func (h *Handler) submittedGrid(w http.ResponseWriter, r *http.Request) (dashboard.TableSpec, *grid.Grid, bool) {
	spec, ok := h.tableSpec(w, r)
	if !ok {
		return dashboard.TableSpec{}, nil, false
	}
	if err := r.ParseForm(); err != nil {
		http.Error(w, "bad form", http.StatusBadRequest)
		return dashboard.TableSpec{}, nil, false
	}
	g, err := parseGridForm(r.Form, spec)
	if err != nil {
		http.Error(w, "bad grid form: "+err.Error(), http.StatusBadRequest)
		return dashboard.TableSpec{}, nil, false
	}
	return spec, g, true
}

// freshGrid resolves the table and loads it from storage.
func (h *Handler) freshGrid(w http.ResponseWriter, r *http.Request) (dashboard.TableSpec, *grid.Grid, bool) {
	spec, ok := h.tableSpec(w, r)
	if !ok {
		return dashboard.TableSpec{}, nil, false
	}
	store, err := h.provider.Get(r.Context())
	if err != nil {
		h.renderFatal(w, err)
		return dashboard.TableSpec{}, nil, false
	}
	g, err := dashboard.NewLoader(store).Load(r.Context(), spec)
	if err != nil {
		h.renderFatal(w, err)
		return dashboard.TableSpec{}, nil, false
	}
	return spec, g, true
}

// rerenderWith renders the full dashboard using the given in-memory grid
// for one table and fresh loads for the rest. warn, when non-empty,
// shows as an error bar.
func (h *Handler) rerenderWith(w http.ResponseWriter, r *http.Request, spec dashboard.TableSpec, g *grid.Grid, warn string) {
	grids, err := h.loadAll(r.Context())
	if err != nil {
		log.Error().Err(err).Msg("load tables")
		h.renderFatal(w, err)
		return
	}
	grids[spec.Slug] = g

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	h.renderIndex(w, &viewState{grids: grids, warn: warn})
}

// redirect sends the browser back to the dashboard with a flash message
// in the query string.
func (h *Handler) redirect(w http.ResponseWriter, r *http.Request, key, msg string) {
	q := url.Values{}
	q.Set(key, msg)
	http.Redirect(w, r, "/?"+q.Encode(), http.StatusSeeOther)
}
