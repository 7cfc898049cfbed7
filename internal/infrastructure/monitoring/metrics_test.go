package monitoring

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"

	"github.com/robloxdeveloper2/Foodi-Backup-sub002/test/testutils"
)

func TestMetricsCollector_BusinessMetrics(t *testing.T) {
	// Arrange
	m := NewMetricsCollector(zaptest.NewLogger(t))

	// Act
	m.PlanGenerated(false, 20*time.Millisecond)
	m.PlanGenerated(true, 30*time.Millisecond)
	m.PlanGenerated(false, 10*time.Millisecond)
	m.SubstitutionApplied(false)
	m.SubstitutionApplied(true)
	m.FeedbackRecorded("swipe")
	m.CacheOperation("get", "preferences", "miss")
	m.ObserveQuery("select", "recipes", time.Millisecond, false)
	m.ObserveQuery("insert", "", time.Millisecond, true)

	// Assert
	assert.Equal(t, 2.0, testutil.ToFloat64(m.plansGenerated.WithLabelValues("true")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.plansGenerated.WithLabelValues("false")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.substitutions.WithLabelValues("apply")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.substitutions.WithLabelValues("undo")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.feedbackEvents.WithLabelValues("swipe")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.cacheOperations.WithLabelValues("get", "preferences", "miss")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.dbQueryErrors.WithLabelValues("insert", "unknown")))
	assert.Equal(t, 2, testutil.CollectAndCount(m.dbQueryDuration))
}

func TestMetricsCollector_HTTPMiddleware(t *testing.T) {
	// Arrange
	m := NewMetricsCollector(zaptest.NewLogger(t))
	r := chi.NewRouter()
	r.Use(m.HTTPMiddleware)
	r.Get("/plans/{planID}", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	})
	r.Get("/health", func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte("ok"))
	})

	// Act
	for _, path := range []string{"/plans/a", "/plans/b", "/health"} {
		r.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, path, nil))
	}

	// Assert
	assert.Equal(t, 2.0, testutil.ToFloat64(m.httpRequestsTotal.WithLabelValues("GET", "/plans/{planID}", "404")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.httpRequestsTotal.WithLabelValues("GET", "/health", "200")))
	assert.Equal(t, 2.0, testutil.ToFloat64(m.errorsTotal.WithLabelValues("http", "client_error")))
}

func TestMetricsCollector_HandlerExposesRegistry(t *testing.T) {
	m := NewMetricsCollector(zaptest.NewLogger(t))
	db := testutils.NewSQLiteDB(t)
	sqlDB, err := db.DB()
	require.NoError(t, err)
	require.NoError(t, m.RegisterDBStats(sqlDB, "foodi"))
	m.GroceryListBuilt(12)

	rec := httptest.NewRecorder()
	m.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))

	require.Equal(t, http.StatusOK, rec.Code)
	body := rec.Body.String()
	assert.True(t, strings.Contains(body, "foodi_grocery_list_items_count 1"), body)
	assert.Contains(t, body, `go_sql_max_open_connections{db_name="foodi"}`)
	assert.Contains(t, body, "go_goroutines")
}
