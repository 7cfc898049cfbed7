package healthcheck

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/stretchr/testify/suite"
	"go.uber.org/zap/zaptest"

	"github.com/robloxdeveloper2/Foodi-Backup-sub002/test/testutils"
)

type HealthCheckTestSuite struct {
	suite.Suite
	hc *HealthCheck
}

func (s *HealthCheckTestSuite) SetupTest() {
	s.hc = New("1.2.3", zaptest.NewLogger(s.T()))
	s.hc.SetCacheTTL(0)
}

func fixed(status Status, msg string) Checker {
	return CheckFunc(func(context.Context) Check {
		return Check{Status: status, Message: msg}
	})
}

func (s *HealthCheckTestSuite) TestAggregateStatus() {
	type probe struct {
		checker Checker
		opts    []Option
	}
	tests := []struct {
		name   string
		probes map[string]probe
		want   Status
	}{
		{"no checks", map[string]probe{}, StatusHealthy},
		{"all healthy", map[string]probe{
			"a": {checker: fixed(StatusHealthy, "")},
			"b": {checker: fixed(StatusHealthy, "")},
		}, StatusHealthy},
		{"degraded wins over healthy", map[string]probe{
			"a": {checker: fixed(StatusHealthy, "")},
			"b": {checker: fixed(StatusDegraded, "slow")},
		}, StatusDegraded},
		{"unhealthy wins", map[string]probe{
			"a": {checker: fixed(StatusDegraded, "")},
			"b": {checker: fixed(StatusUnhealthy, "down")},
		}, StatusUnhealthy},
		{"optional failure only degrades", map[string]probe{
			"database": {checker: fixed(StatusHealthy, "")},
			"redis":    {checker: fixed(StatusUnhealthy, "refused"), opts: []Option{Optional()}},
		}, StatusDegraded},
	}

	for _, tt := range tests {
		s.Run(tt.name, func() {
			hc := New("1.2.3", zaptest.NewLogger(s.T()))
			for name, p := range tt.probes {
				hc.Register(name, p.checker, p.opts...)
			}

			report := hc.Check(context.Background())

			s.Equal(tt.want, report.Status)
			s.Len(report.Checks, len(tt.probes))
			s.Equal("1.2.3", report.Version)
		})
	}
}

func (s *HealthCheckTestSuite) TestChecksSortedByName() {
	s.hc.Register("redis", fixed(StatusHealthy, ""))
	s.hc.Register("catalog", fixed(StatusHealthy, ""))
	s.hc.Register("database", fixed(StatusHealthy, ""))

	report := s.hc.Check(context.Background())

	names := make([]string, len(report.Checks))
	for i, c := range report.Checks {
		names[i] = c.Name
	}
	s.Equal([]string{"catalog", "database", "redis"}, names)
}

func (s *HealthCheckTestSuite) TestHandlerStatusCodes() {
	// Arrange
	s.hc.Register("database", fixed(StatusUnhealthy, "connection refused"))

	// Act
	rec := httptest.NewRecorder()
	s.hc.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/health", nil))

	// Assert
	s.Equal(http.StatusServiceUnavailable, rec.Code)
	var body map[string]interface{}
	s.Require().NoError(json.Unmarshal(rec.Body.Bytes(), &body))
	s.Equal("unhealthy", body["status"])
	checks := body["checks"].([]interface{})
	s.Equal("database", checks[0].(map[string]interface{})["name"])
	s.Equal("connection refused", checks[0].(map[string]interface{})["message"])

	rec = httptest.NewRecorder()
	s.hc.ReadinessHandler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/health/ready", nil))
	s.Equal(http.StatusServiceUnavailable, rec.Code)

	rec = httptest.NewRecorder()
	s.hc.LivenessHandler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/health/live", nil))
	s.Equal(http.StatusOK, rec.Code)
}

func (s *HealthCheckTestSuite) TestReadyWhileDegraded() {
	s.hc.Register("redis", fixed(StatusUnhealthy, "refused"), Optional())

	rec := httptest.NewRecorder()
	s.hc.ReadinessHandler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/health/ready", nil))

	s.Equal(http.StatusOK, rec.Code)
	var body map[string]interface{}
	s.Require().NoError(json.Unmarshal(rec.Body.Bytes(), &body))
	s.Equal("ready", body["status"])
	s.Equal(true, body["degraded"])
}

func (s *HealthCheckTestSuite) TestProbeTimeout() {
	s.hc.Register("slow", CheckFunc(func(ctx context.Context) Check {
		<-ctx.Done()
		return Check{Status: StatusUnhealthy, Message: ctx.Err().Error()}
	}), Timeout(10*time.Millisecond))

	report := s.hc.Check(context.Background())

	s.Equal(StatusUnhealthy, report.Status)
	s.Equal(context.DeadlineExceeded.Error(), report.Checks[0].Message)
}

func (s *HealthCheckTestSuite) TestCachedWithinTTL() {
	calls := 0
	s.hc.SetCacheTTL(time.Minute)
	s.hc.Register("counter", CheckFunc(func(context.Context) Check {
		calls++
		return Check{Status: StatusHealthy}
	}))

	s.hc.Check(context.Background())
	s.hc.Check(context.Background())

	s.Equal(1, calls)
}

func TestHealthCheckTestSuite(t *testing.T) {
	suite.Run(t, new(HealthCheckTestSuite))
}

func TestDatabaseChecker(t *testing.T) {
	db := testutils.NewSQLiteDB(t)
	sqlDB, err := db.DB()
	require.NoError(t, err)

	check := NewDatabaseChecker(sqlDB).Check(context.Background())
	assert.Equal(t, StatusHealthy, check.Status)
	assert.Contains(t, check.Details, "open_conns")

	require.NoError(t, sqlDB.Close())
	check = NewDatabaseChecker(sqlDB).Check(context.Background())
	assert.Equal(t, StatusUnhealthy, check.Status)
	assert.NotEmpty(t, check.Message)
}

func TestCheckJSONDurationInMilliseconds(t *testing.T) {
	data, err := json.Marshal(Check{Name: "database", Status: StatusHealthy, Duration: 1500 * time.Millisecond})
	require.NoError(t, err)

	var decoded map[string]interface{}
	require.NoError(t, json.Unmarshal(data, &decoded))
	assert.Equal(t, 1500.0, decoded["duration_ms"])
	assert.Equal(t, "database", decoded["name"])
	assert.NotContains(t, decoded, "Duration")
}
