package monitoring

import (
	"database/sql"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"
)

const namespace = "foodi"

// MetricsCollector owns a private Prometheus registry and records HTTP,
// planning, feedback, cache and database metrics
type MetricsCollector struct {
	logger   *zap.Logger
	registry *prometheus.Registry

	// HTTP metrics
	httpRequestsTotal   *prometheus.CounterVec
	httpRequestDuration *prometheus.HistogramVec
	httpResponseSize    *prometheus.HistogramVec

	// Business metrics
	plansGenerated         *prometheus.CounterVec
	planGenerationDuration prometheus.Histogram
	substitutions          *prometheus.CounterVec
	groceryListItems       prometheus.Histogram
	feedbackEvents         *prometheus.CounterVec

	// System metrics
	dbQueryDuration *prometheus.HistogramVec
	dbQueryErrors   *prometheus.CounterVec
	cacheOperations *prometheus.CounterVec
	errorsTotal     *prometheus.CounterVec
}

// NewMetricsCollector creates a collector with the Go and process collectors registered
func NewMetricsCollector(logger *zap.Logger) *MetricsCollector {
	reg := prometheus.NewRegistry()
	reg.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	factory := promauto.With(reg)

	return &MetricsCollector{
		logger:   logger.Named("metrics"),
		registry: reg,

		httpRequestsTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "http_requests_total",
				Help:      "Total number of HTTP requests",
			},
			[]string{"method", "route", "status_code"},
		),
		httpRequestDuration: factory.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: namespace,
				Name:      "http_request_duration_seconds",
				Help:      "HTTP request duration in seconds",
				Buckets:   prometheus.DefBuckets,
			},
			[]string{"method", "route", "status_code"},
		),
		httpResponseSize: factory.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: namespace,
				Name:      "http_response_size_bytes",
				Help:      "HTTP response size in bytes",
				Buckets:   prometheus.ExponentialBuckets(100, 10, 6),
			},
			[]string{"method", "route"},
		),

		plansGenerated: factory.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "plans_generated_total",
				Help:      "Total number of generated meal plans",
			},
			[]string{"goals_met"},
		),
		planGenerationDuration: factory.NewHistogram(
			prometheus.HistogramOpts{
				Namespace: namespace,
				Name:      "plan_generation_duration_seconds",
				Help:      "Time spent generating a meal plan",
				Buckets:   []float64{0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 2.5},
			},
		),
		substitutions: factory.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "substitutions_total",
				Help:      "Total number of applied and undone substitutions",
			},
			[]string{"kind"},
		),
		groceryListItems: factory.NewHistogram(
			prometheus.HistogramOpts{
				Namespace: namespace,
				Name:      "grocery_list_items",
				Help:      "Number of items on built grocery lists",
				Buckets:   prometheus.LinearBuckets(0, 10, 8),
			},
		),
		feedbackEvents: factory.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "feedback_events_total",
				Help:      "Total number of recorded preference feedback events",
			},
			[]string{"event_type"},
		),

		dbQueryDuration: factory.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: namespace,
				Name:      "db_query_duration_seconds",
				Help:      "Database query duration in seconds",
				Buckets:   []float64{0.001, 0.005, 0.01, 0.05, 0.1, 0.5, 1.0},
			},
			[]string{"operation", "table"},
		),
		dbQueryErrors: factory.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "db_query_errors_total",
				Help:      "Total number of failed database statements",
			},
			[]string{"operation", "table"},
		),
		cacheOperations: factory.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "cache_operations_total",
				Help:      "Total number of cache operations",
			},
			[]string{"operation", "cache_type", "status"},
		),
		errorsTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "errors_total",
				Help:      "Total number of errors by service and type",
			},
			[]string{"service", "error_type"},
		),
	}
}

// Registry exposes the underlying registry
func (m *MetricsCollector) Registry() *prometheus.Registry {
	return m.registry
}

// RegisterDBStats exports connection pool statistics of db
func (m *MetricsCollector) RegisterDBStats(db *sql.DB, dbName string) error {
	return m.registry.Register(collectors.NewDBStatsCollector(db, dbName))
}

// HTTPMiddleware records request metrics labelled by chi route pattern
func (m *MetricsCollector) HTTPMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)

		next.ServeHTTP(ww, r)

		route := "unmatched"
		if rctx := chi.RouteContext(r.Context()); rctx != nil && rctx.RoutePattern() != "" {
			route = rctx.RoutePattern()
		}
		status := ww.Status()
		if status == 0 {
			status = http.StatusOK
		}
		code := strconv.Itoa(status)

		m.httpRequestsTotal.WithLabelValues(r.Method, route, code).Inc()
		m.httpRequestDuration.WithLabelValues(r.Method, route, code).Observe(time.Since(start).Seconds())
		m.httpResponseSize.WithLabelValues(r.Method, route).Observe(float64(ww.BytesWritten()))

		if status >= 500 {
			m.errorsTotal.WithLabelValues("http", "server_error").Inc()
		} else if status >= 400 {
			m.errorsTotal.WithLabelValues("http", "client_error").Inc()
		}
	})
}

// PlanGenerated records one generated plan
func (m *MetricsCollector) PlanGenerated(goalsNotMet bool, duration time.Duration) {
	m.plansGenerated.WithLabelValues(strconv.FormatBool(!goalsNotMet)).Inc()
	m.planGenerationDuration.Observe(duration.Seconds())
}

// SubstitutionApplied records a substitution or its undo
func (m *MetricsCollector) SubstitutionApplied(undo bool) {
	kind := "apply"
	if undo {
		kind = "undo"
	}
	m.substitutions.WithLabelValues(kind).Inc()
}

// GroceryListBuilt records the size of a built list
func (m *MetricsCollector) GroceryListBuilt(items int) {
	m.groceryListItems.Observe(float64(items))
}

// FeedbackRecorded counts a preference feedback event
func (m *MetricsCollector) FeedbackRecorded(eventType string) {
	m.feedbackEvents.WithLabelValues(eventType).Inc()
}

// CacheOperation counts a cache access
func (m *MetricsCollector) CacheOperation(operation, cacheType, status string) {
	m.cacheOperations.WithLabelValues(operation, cacheType, status).Inc()
}

// ObserveQuery records one database statement
func (m *MetricsCollector) ObserveQuery(operation, table string, duration time.Duration, failed bool) {
	if table == "" {
		table = "unknown"
	}
	m.dbQueryDuration.WithLabelValues(operation, table).Observe(duration.Seconds())
	if failed {
		m.dbQueryErrors.WithLabelValues(operation, table).Inc()
	}
}

// RecordError counts an error outside the HTTP path
func (m *MetricsCollector) RecordError(service, errorType string) {
	m.errorsTotal.WithLabelValues(service, errorType).Inc()
}

// Handler returns the Prometheus metrics HTTP handler
func (m *MetricsCollector) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{
		Registry:          m.registry,
		EnableOpenMetrics: true,
		ErrorLog:          zap.NewStdLog(m.logger),
	})
}
