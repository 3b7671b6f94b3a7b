package web

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// rendersTotal counts dashboard page renders, each of which reloads
	// both tables from storage.
	rendersTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "sitedesk_renders_total",
			Help: "Total number of dashboard page renders",
		},
	)

	// savesTotal counts full-table replace attempts per table and outcome.
	savesTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "sitedesk_saves_total",
			Help: "Total number of table save attempts",
		},
		[]string{"table", "result"},
	)

	// exportsTotal counts file downloads per table and format.
	exportsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "sitedesk_exports_total",
			Help: "Total number of table exports",
		},
		[]string{"table", "format"},
	)

	// tableRows tracks the row count observed on the most recent load.
	tableRows = promauto.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "sitedesk_table_rows",
			Help: "Row count of each managed table at last load",
		},
		[]string{"table"},
	)
)
