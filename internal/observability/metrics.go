package observability

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// RequestDuration tracks request duration
	RequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name: "app_mcmv_request_duration_seconds",
			Help: "Duration of HTTP requests in seconds",
		},
		[]string{"path", "method", "status"},
	)

	// CacheHits tracks cache hits/misses
	CacheHits = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "app_mcmv_cache_hits_total",
			Help: "Number of cache lookups by result",
		},
		[]string{"operation"},
	)

	// DatabaseOperations tracks database operations
	DatabaseOperations = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "app_mcmv_database_operations_total",
			Help: "Number of database operations",
		},
		[]string{"operation", "status"},
	)

	// RegistrationsTotal counts submissions by outcome
	RegistrationsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "app_mcmv_registrations_total",
			Help: "Number of registration submissions",
		},
		[]string{"status"},
	)

	// ExportRows counts rows appended to the spreadsheet export
	ExportRows = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "app_mcmv_export_rows_total",
			Help: "Number of rows appended to the spreadsheet export",
		},
		[]string{"status"},
	)

	// DocumentsGenerated counts rendered registration documents
	DocumentsGenerated = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "app_mcmv_documents_generated_total",
			Help: "Number of registration PDFs rendered",
		},
		[]string{"status"},
	)

	// ActiveConnections tracks in-flight requests
	ActiveConnections = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "app_mcmv_active_connections",
			Help: "Number of active connections",
		},
	)
)
