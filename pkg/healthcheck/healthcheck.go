// Package healthcheck aggregates dependency probes into the /health,
// /health/live and /health/ready responses
package healthcheck

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"net/http"
	"sort"
	"sync"
	"time"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

// Status is the outcome of a probe or of the whole report
type Status string

const (
	StatusHealthy   Status = "healthy"
	StatusDegraded  Status = "degraded"
	StatusUnhealthy Status = "unhealthy"
)

// severity orders statuses so the report takes the worst one
func (s Status) severity() int {
	switch s {
	case StatusHealthy:
		return 0
	case StatusDegraded:
		return 1
	default:
		return 2
	}
}

// Check is the result of one probe
type Check struct {
	Name      string                 `json:"name"`
	Status    Status                 `json:"status"`
	Message   string                 `json:"message,omitempty"`
	Optional  bool                   `json:"optional,omitempty"`
	CheckedAt time.Time              `json:"checked_at"`
	Duration  time.Duration          `json:"-"`
	Details   map[string]interface{} `json:"details,omitempty"`
}

// MarshalJSON renders the duration in milliseconds
func (c Check) MarshalJSON() ([]byte, error) {
	type plain Check
	return json.Marshal(struct {
		plain
		DurationMS float64 `json:"duration_ms"`
	}{plain(c), float64(c.Duration.Milliseconds())})
}

// Report is the aggregated result served by Handler
type Report struct {
	Status    Status        `json:"status"`
	Version   string        `json:"version"`
	Timestamp time.Time     `json:"timestamp"`
	Checks    []Check       `json:"checks"`
	Duration  time.Duration `json:"-"`
}

// MarshalJSON renders the total duration in milliseconds
func (r Report) MarshalJSON() ([]byte, error) {
	type plain Report
	return json.Marshal(struct {
		plain
		DurationMS float64 `json:"total_duration_ms"`
	}{plain(r), float64(r.Duration.Milliseconds())})
}

// Checker probes one dependency
type Checker interface {
	Check(ctx context.Context) Check
}

// CheckFunc adapts a function to Checker
type CheckFunc func(ctx context.Context) Check

// Check calls f
func (f CheckFunc) Check(ctx context.Context) Check { return f(ctx) }

// Option configures a registration
type Option func(*registration)

// Optional marks a dependency the service can run without. A failing
// optional probe degrades the report instead of failing it.
func Optional() Option {
	return func(r *registration) { r.optional = true }
}

// Timeout bounds a single probe
func Timeout(d time.Duration) Option {
	return func(r *registration) { r.timeout = d }
}

type registration struct {
	checker  Checker
	optional bool
	timeout  time.Duration
}

// HealthCheck holds the registered probes and the last report
type HealthCheck struct {
	version string
	logger  *zap.Logger

	mu       sync.RWMutex
	probes   map[string]registration
	last     *Report
	cacheTTL time.Duration
}

// New creates an empty health check for the given build version
func New(version string, logger *zap.Logger) *HealthCheck {
	return &HealthCheck{
		version:  version,
		logger:   logger.Named("healthcheck"),
		probes:   make(map[string]registration),
		cacheTTL: 5 * time.Second,
	}
}

// Register adds or replaces a probe
func (h *HealthCheck) Register(name string, checker Checker, opts ...Option) {
	reg := registration{checker: checker, timeout: 5 * time.Second}
	for _, opt := range opts {
		opt(&reg)
	}

	h.mu.Lock()
	defer h.mu.Unlock()
	h.probes[name] = reg
	h.last = nil
}

// SetCacheTTL sets how long a report is reused. Zero disables caching.
func (h *HealthCheck) SetCacheTTL(ttl time.Duration) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.cacheTTL = ttl
}

// Check runs every probe concurrently and returns checks sorted by name
func (h *HealthCheck) Check(ctx context.Context) Report {
	h.mu.RLock()
	if h.last != nil && time.Since(h.last.Timestamp) < h.cacheTTL {
		report := *h.last
		h.mu.RUnlock()
		return report
	}
	probes := make(map[string]registration, len(h.probes))
	for name, reg := range h.probes {
		probes[name] = reg
	}
	h.mu.RUnlock()

	start := time.Now()
	checks := make([]Check, 0, len(probes))
	var mu sync.Mutex
	g, gctx := errgroup.WithContext(ctx)
	for name, reg := range probes {
		g.Go(func() error {
			pctx, cancel := context.WithTimeout(gctx, reg.timeout)
			defer cancel()

			c := reg.checker.Check(pctx)
			c.Name = name
			c.Optional = reg.optional
			if c.CheckedAt.IsZero() {
				c.CheckedAt = start
			}
			mu.Lock()
			checks = append(checks, c)
			mu.Unlock()
			return nil
		})
	}
	_ = g.Wait()

	sort.Slice(checks, func(i, j int) bool { return checks[i].Name < checks[j].Name })
	report := Report{
		Status:    StatusHealthy,
		Version:   h.version,
		Timestamp: start,
		Checks:    checks,
		Duration:  time.Since(start),
	}
	for _, c := range checks {
		s := c.Status
		if c.Optional && s == StatusUnhealthy {
			s = StatusDegraded
		}
		if s.severity() > report.Status.severity() {
			report.Status = s
		}
	}

	h.mu.Lock()
	h.last = &report
	h.mu.Unlock()
	return report
}

// Handler serves the full report. Unhealthy maps to 503.
func (h *HealthCheck) Handler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		report := h.Check(r.Context())
		code := http.StatusOK
		if report.Status == StatusUnhealthy {
			code = http.StatusServiceUnavailable
			h.logger.Warn("Health check failed", zap.Any("checks", report.Checks))
		}
		writeJSON(w, code, report)
	}
}

// LivenessHandler answers as long as the process serves requests
func (h *HealthCheck) LivenessHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, _ *http.Request) {
		writeJSON(w, http.StatusOK, map[string]interface{}{
			"status":    "alive",
			"timestamp": time.Now().UTC(),
		})
	}
}

// ReadinessHandler is ready unless a required probe is unhealthy.
// A degraded report still accepts traffic.
func (h *HealthCheck) ReadinessHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		report := h.Check(r.Context())
		if report.Status == StatusUnhealthy {
			writeJSON(w, http.StatusServiceUnavailable, map[string]interface{}{
				"status": "not_ready",
				"checks": report.Checks,
			})
			return
		}
		writeJSON(w, http.StatusOK, map[string]interface{}{
			"status":    "ready",
			"degraded":  report.Status == StatusDegraded,
			"timestamp": report.Timestamp.UTC(),
		})
	}
}

// NewDatabaseChecker pings a database/sql pool. A pool above 90% in-use
// is reported as degraded.
func NewDatabaseChecker(db *sql.DB) Checker {
	return CheckFunc(func(ctx context.Context) Check {
		start := time.Now()
		err := db.PingContext(ctx)
		c := Check{CheckedAt: start, Duration: time.Since(start)}
		if err != nil {
			c.Status = StatusUnhealthy
			c.Message = err.Error()
			return c
		}

		stats := db.Stats()
		c.Status = StatusHealthy
		c.Details = map[string]interface{}{
			"open_conns":     stats.OpenConnections,
			"in_use_conns":   stats.InUse,
			"idle_conns":     stats.Idle,
			"max_open_conns": stats.MaxOpenConnections,
		}
		if stats.MaxOpenConnections > 0 && stats.InUse*10 > stats.MaxOpenConnections*9 {
			c.Status = StatusDegraded
			c.Message = "connection pool nearly exhausted"
		}
		return c
	})
}

// NewRedisChecker pings the preference cache
func NewRedisChecker(client redis.UniversalClient) Checker {
	return CheckFunc(func(ctx context.Context) Check {
		start := time.Now()
		pong, err := client.Ping(ctx).Result()
		c := Check{CheckedAt: start, Duration: time.Since(start), Status: StatusHealthy}
		switch {
		case err != nil:
			c.Status = StatusUnhealthy
			c.Message = err.Error()
		case pong != "PONG":
			c.Status = StatusUnhealthy
			c.Message = fmt.Sprintf("unexpected ping reply %q", pong)
		}
		return c
	})
}

func writeJSON(w http.ResponseWriter, status int, body interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(body)
}
