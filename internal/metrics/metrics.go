package metrics

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	// Outbound API calls to the vendor, by endpoint and outcome.
	VendorRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "square_api_requests_total",
			Help: "Total number of Square API requests made (by endpoint and status).",
		},
		[]string{"endpoint", "status"},
	)

	SyncRunsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "catalog_sync_runs_total",
			Help: "Synchronization runs by outcome (ok or aborted).",
		},
		[]string{"outcome"},
	)

	SyncDuration = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "catalog_sync_duration_seconds",
			Help:    "End-to-end duration of a synchronization run.",
			Buckets: prometheus.ExponentialBuckets(0.1, 2, 10), // 100ms → ~51s
		},
	)

	CatalogSize = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "catalog_products",
			Help: "Number of products in the most recently written catalog.",
		},
	)

	SkippedRecordsTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "catalog_skipped_records_total",
			Help: "Vendor records skipped as malformed or unpurchasable.",
		},
	)
)

func IncVendorRequest(endpoint, status string) {
	VendorRequestsTotal.WithLabelValues(endpoint, status).Inc()
}

func IncSyncRun(outcome string) {
	SyncRunsTotal.WithLabelValues(outcome).Inc()
}

func ObserveSyncDuration(start time.Time) {
	SyncDuration.Observe(time.Since(start).Seconds())
}

func SetCatalogSize(n int) {
	CatalogSize.Set(float64(n))
}

func AddSkippedRecords(n int) {
	SkippedRecordsTotal.Add(float64(n))
}

// StartServer exposes /metrics on its own listener.
func StartServer(addr string) {
	go func() {
		mux := http.NewServeMux()
		mux.Handle("/metrics", promhttp.Handler())
		http.ListenAndServe(addr, mux) //nolint:errcheck
	}()
}
