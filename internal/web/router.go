// Package web serves the dashboard UI: one HTML page rendering both
// project tables as editable grids, plus export, health, and metrics
// endpoints.
package web

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/ruslano69/sitedesk/internal/config"
	"github.com/ruslano69/sitedesk/internal/storage"
)

// NewRouter wires all dependencies and returns the chi router.
func NewRouter(cfg *config.Config, provider *storage.Provider) http.Handler {
	r := chi.NewRouter()

	r.Use(zerologMiddleware)
	r.Use(middleware.Recoverer)
	r.Use(middleware.Timeout(60 * time.Second))

	h := NewHandler(cfg, provider)

	r.Get("/", h.handleIndex)
	// Every GET is already a fresh load; the refresh button just drops
	// whatever the form was carrying.
	r.Post("/refresh", func(w http.ResponseWriter, r *http.Request) {
		http.Redirect(w, r, "/", http.StatusSeeOther)
	})

	r.Route("/table/{table}", func(r chi.Router) {
		r.Post("/save", h.handleSave)
		r.Post("/rows/insert", h.handleInsertRow)
		r.Post("/rows/delete", h.handleDeleteRow)
		r.Post("/columns/add", h.handleAddColumn)
		r.Post("/columns/delete", h.handleDeleteColumn)
		r.Get("/export.csv", h.handleExportCSV)
		r.Get("/export.xlsx", h.handleExportXLSX)
	})

	r.Get("/healthz", handleHealthz)
	r.Get("/readyz", handleReadyz(provider))
	r.Handle("/metrics", promhttp.Handler())

	return r
}

func handleHealthz(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// handleReadyz pings the database to confirm the service can render.
func handleReadyz(provider *storage.Provider) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		store, err := provider.Get(r.Context())
		if err != nil {
			writeJSON(w, http.StatusServiceUnavailable, map[string]string{"database": err.Error()})
			return
		}
		if err := store.Ping(r.Context()); err != nil {
			writeJSON(w, http.StatusServiceUnavailable, map[string]string{"database": err.Error()})
			return
		}
		writeJSON(w, http.StatusOK, map[string]string{"database": "ok"})
	}
}

func writeJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(body)
}
