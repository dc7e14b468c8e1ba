package controllers

import (
	"github.com/prometheus/client_golang/prometheus"
)

// Results of imported CSV rows
const (
	importImported = "imported"
	importSkipped  = "skipped"
	importError    = "error"
)

// Collectors are the Prometheus collectors of the controllers.
var Collectors = []prometheus.Collector{
	importRows,
	importRuns,
}

var importRows = prometheus.NewCounterVec(
	prometheus.CounterOpts{
		Name: "purchase_import_rows_total",
		Help: "How many CSV rows were processed by purchase imports, partitioned by result.",
	},
	[]string{"result"},
)

var importRuns = prometheus.NewCounterVec(
	prometheus.CounterOpts{
		Name: "purchase_imports_total",
		Help: "How many purchase imports were run, partitioned by whether they completed.",
	},
	[]string{"completed"},
)
