package observability

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	ImportRuns = prometheus.NewCounterVec(
		prometheus.CounterOpts{Namespace: "dogatlas", Name: "place_import_runs_total", Help: "Place import runs."},
		[]string{"mode", "result"}, // result: ok|unauthorized|decode_error|persistence_error|storage_error
	)
	ImportRows = prometheus.NewCounterVec(
		prometheus.CounterOpts{Namespace: "dogatlas", Name: "place_import_rows_total", Help: "Rows seen by the place importer."},
		[]string{"mode", "outcome"}, // outcome: valid|invalid|inserted|updated
	)
	CacheEvents = prometheus.NewCounterVec(
		prometheus.CounterOpts{Namespace: "dogatlas", Name: "cache_events_total", Help: "Cache hits/misses/sets/dels."},
		[]string{"cache", "event"},
	)
)

func InitRegistry() *prometheus.Registry {
	reg := prometheus.NewRegistry()
	reg.MustRegister(ImportRuns, ImportRows, CacheEvents)
	return reg
}

func MetricsHandler(reg *prometheus.Registry) http.Handler {
	return promhttp.HandlerFor(reg, promhttp.HandlerOpts{})
}

func ObserveImportRun(mode, result string) {
	ImportRuns.WithLabelValues(mode, result).Inc()
}

func ObserveImportRows(mode, outcome string, n int) {
	if n <= 0 {
		return
	}
	ImportRows.WithLabelValues(mode, outcome).Add(float64(n))
}

func ObserveCache(cache, event string) { // event: hit|miss|set|del
	CacheEvents.WithLabelValues(cache, event).Inc()
}
