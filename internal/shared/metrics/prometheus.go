package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	// HTTP metrics
	httpRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "http_requests_total",
			Help: "Total number of HTTP requests",
		},
		[]string{"method", "path", "status"},
	)

	httpRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "http_request_duration_seconds",
			Help:    "HTTP request duration in seconds",
			Buckets: []float64{.001, .005, .01, .025, .05, .1, .25, .5, 1, 2.5, 5, 10},
		},
		[]string{"method", "path"},
	)

	httpRequestsInFlight = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "http_requests_in_flight",
			Help: "Number of HTTP requests currently being processed",
		},
	)

	// Business metrics
	incidentsReported = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "incidents_reported_total",
			Help: "Total number of incidents reported",
		},
		[]string{"type", "severity"},
	)

	incidentsStatusChanged = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "incidents_status_changed_total",
			Help: "Total number of incident status changes",
		},
		[]string{"from_status", "to_status"},
	)

	incidentsArchived = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "incidents_archived_total",
			Help: "Total number of incidents archived",
		},
	)

	incidentsUnarchived = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "incidents_unarchived_total",
			Help: "Total number of incidents unarchived",
		},
	)

	accessDecisions = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "access_decisions_total",
			Help: "Total number of incident access policy decisions",
		},
		[]string{"role", "action", "decision"},
	)

	rollupDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "rollup_duration_seconds",
			Help:    "Statistics rollup duration in seconds",
			Buckets: []float64{.001, .005, .01, .025, .05, .1, .25, .5, 1, 2.5},
		},
		[]string{"scope"},
	)

	rollupIncidents = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "rollup_incident_count",
			Help:    "Number of incidents aggregated per rollup",
			Buckets: []float64{1, 5, 10, 25, 50, 100, 250, 500, 1000},
		},
		[]string{"scope"},
	)

	legacyImportsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "legacy_imports_total",
			Help: "Total number of legacy registry population imports",
		},
		[]string{"status"},
	)

	// Database metrics
	dbConnectionsActive = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "db_connections_active",
			Help: "Number of active database connections",
		},
	)

	dbQueryDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "db_query_duration_seconds",
			Help:    "Database query duration in seconds",
			Buckets: []float64{.001, .005, .01, .025, .05, .1, .25, .5, 1},
		},
		[]string{"operation"},
	)
)

// Handler returns the Prometheus metrics HTTP handler
func Handler() http.Handler {
	return promhttp.Handler()
}

// Middleware creates HTTP metrics middleware
func Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		httpRequestsInFlight.Inc()
		defer httpRequestsInFlight.Dec()

		// Wrap response writer to capture status code
		wrapped := &responseWriter{ResponseWriter: w, statusCode: http.StatusOK}

		next.ServeHTTP(wrapped, r)

		duration := time.Since(start).Seconds()
		path := normalizePath(r.URL.Path)

		httpRequestsTotal.WithLabelValues(r.Method, path, strconv.Itoa(wrapped.statusCode)).Inc()
		httpRequestDuration.WithLabelValues(r.Method, path).Observe(duration)
	})
}

// responseWriter wraps http.ResponseWriter to capture status code
type responseWriter struct {
	http.ResponseWriter
	statusCode int
}

func (rw *responseWriter) WriteHeader(code int) {
	rw.statusCode = code
	rw.ResponseWriter.WriteHeader(code)
}

// normalizePath normalizes URL paths for metrics to avoid cardinality explosion
func normalizePath(path string) string {
	if len(path) > 100 {
		return "/api/..."
	}
	return path
}

// --- Business metric helpers ---

// RecordIncidentReported records an incident creation
func RecordIncidentReported(incidentType, severity string) {
	incidentsReported.WithLabelValues(incidentType, severity).Inc()
}

// RecordIncidentStatusChange records an incident status change
func RecordIncidentStatusChange(fromStatus, toStatus string) {
	incidentsStatusChanged.WithLabelValues(fromStatus, toStatus).Inc()
}

// RecordIncidentArchived records an incident archive
func RecordIncidentArchived() {
	incidentsArchived.Inc()
}

// RecordIncidentUnarchived records an incident unarchive
func RecordIncidentUnarchived() {
	incidentsUnarchived.Inc()
}

// RecordAccessDecision records an access policy decision
func RecordAccessDecision(role, action string, allowed bool) {
	decision := "deny"
	if allowed {
		decision = "allow"
	}
	accessDecisions.WithLabelValues(role, action, decision).Inc()
}

// RecordRollup records a statistics rollup pass
func RecordRollup(scope string, incidentCount int, duration time.Duration) {
	rollupDuration.WithLabelValues(scope).Observe(duration.Seconds())
	rollupIncidents.WithLabelValues(scope).Observe(float64(incidentCount))
}

// RecordLegacyImport records a legacy registry import attempt
func RecordLegacyImport(status string) {
	legacyImportsTotal.WithLabelValues(status).Inc()
}

// RecordDBConnections records active database connections
func RecordDBConnections(count int) {
	dbConnectionsActive.Set(float64(count))
}

// RecordDBQuery records a database query duration
func RecordDBQuery(operation string, duration time.Duration) {
	dbQueryDuration.WithLabelValues(operation).Observe(duration.Seconds())
}
