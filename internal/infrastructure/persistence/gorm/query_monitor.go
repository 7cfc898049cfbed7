package gorm

import (
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"go.uber.org/zap"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

const queryStartKey = "query_monitor:start"

// QueryObserver receives one observation per executed statement
type QueryObserver interface {
	ObserveQuery(operation, table string, duration time.Duration, failed bool)
}

// QueryStats holds aggregated query statistics
type QueryStats struct {
	TotalQueries     int64         `json:"total_queries"`
	SlowQueries      int64         `json:"slow_queries"`
	FailedQueries    int64         `json:"failed_queries"`
	AverageQueryTime time.Duration `json:"average_query_time"`
	TotalQueryTime   time.Duration `json:"total_query_time"`
}

// SlowQuery represents a slow query with context
type SlowQuery struct {
	SQL       string        `json:"sql"`
	Table     string        `json:"table"`
	Duration  time.Duration `json:"duration"`
	Timestamp time.Time     `json:"timestamp"`
	Error     string        `json:"error,omitempty"`
}

// QueryMonitor tracks statement timings through GORM callbacks
type QueryMonitor struct {
	logger    *zap.Logger
	observer  QueryObserver
	threshold time.Duration

	mu          sync.RWMutex
	stats       QueryStats
	slowQueries []SlowQuery
	maxSlowLogs int
}

// NewQueryMonitor creates a new query monitor. observer may be nil.
func NewQueryMonitor(logger *zap.Logger, observer QueryObserver, slowThreshold time.Duration) *QueryMonitor {
	if slowThreshold <= 0 {
		slowThreshold = 100 * time.Millisecond
	}
	return &QueryMonitor{
		logger:      logger.Named("query-monitor"),
		observer:    observer,
		threshold:   slowThreshold,
		maxSlowLogs: 100,
	}
}

// Install registers before/after callbacks on every statement kind
func (qm *QueryMonitor) Install(db *gorm.DB) error {
	cb := db.Callback()
	hooks := []struct {
		op       string
		name     string
		register func(before, after func(*gorm.DB)) error
	}{
		{"select", "gorm:query", func(b, a func(*gorm.DB)) error {
			if err := cb.Query().Before("gorm:query").Register("monitor:before_query", b); err != nil {
				return err
			}
			return cb.Query().After("gorm:query").Register("monitor:after_query", a)
		}},
		{"insert", "gorm:create", func(b, a func(*gorm.DB)) error {
			if err := cb.Create().Before("gorm:create").Register("monitor:before_create", b); err != nil {
				return err
			}
			return cb.Create().After("gorm:create").Register("monitor:after_create", a)
		}},
		{"update", "gorm:update", func(b, a func(*gorm.DB)) error {
			if err := cb.Update().Before("gorm:update").Register("monitor:before_update", b); err != nil {
				return err
			}
			return cb.Update().After("gorm:update").Register("monitor:after_update", a)
		}},
		{"delete", "gorm:delete", func(b, a func(*gorm.DB)) error {
			if err := cb.Delete().Before("gorm:delete").Register("monitor:before_delete", b); err != nil {
				return err
			}
			return cb.Delete().After("gorm:delete").Register("monitor:after_delete", a)
		}},
		{"raw", "gorm:raw", func(b, a func(*gorm.DB)) error {
			if err := cb.Raw().Before("gorm:raw").Register("monitor:before_raw", b); err != nil {
				return err
			}
			return cb.Raw().After("gorm:raw").Register("monitor:after_raw", a)
		}},
	}

	for _, h := range hooks {
		if err := h.register(qm.before, qm.after(h.op)); err != nil {
			return fmt.Errorf("register %s callbacks: %w", h.name, err)
		}
	}
	return nil
}

func (qm *QueryMonitor) before(db *gorm.DB) {
	db.InstanceSet(queryStartKey, time.Now())
}

func (qm *QueryMonitor) after(operation string) func(*gorm.DB) {
	return func(db *gorm.DB) {
		v, ok := db.InstanceGet(queryStartKey)
		if !ok {
			return
		}
		start, ok := v.(time.Time)
		if !ok {
			return
		}

		var sql, table string
		if db.Statement != nil {
			sql = db.Statement.SQL.String()
			table = db.Statement.Table
		}
		err := db.Error
		if errors.Is(err, gorm.ErrRecordNotFound) {
			err = nil
		}
		qm.record(operation, table, sql, time.Since(start), err)
	}
}

// record updates statistics and forwards the observation
func (qm *QueryMonitor) record(operation, table, sql string, duration time.Duration, err error) {
	if qm.observer != nil {
		qm.observer.ObserveQuery(operation, table, duration, err != nil)
	}

	qm.mu.Lock()
	defer qm.mu.Unlock()

	qm.stats.TotalQueries++
	qm.stats.TotalQueryTime += duration
	qm.stats.AverageQueryTime = qm.stats.TotalQueryTime / time.Duration(qm.stats.TotalQueries)
	if err != nil {
		qm.stats.FailedQueries++
	}
	if duration < qm.threshold {
		return
	}

	qm.stats.SlowQueries++
	slow := SlowQuery{
		SQL:       sanitizeSQL(sql),
		Table:     table,
		Duration:  duration,
		Timestamp: time.Now(),
	}
	if err != nil {
		slow.Error = err.Error()
	}
	if len(qm.slowQueries) >= qm.maxSlowLogs {
		qm.slowQueries = qm.slowQueries[1:]
	}
	qm.slowQueries = append(qm.slowQueries, slow)

	qm.logger.Warn("Slow query detected",
		zap.String("operation", operation),
		zap.String("table", table),
		zap.Duration("duration", duration),
		zap.String("sql", slow.SQL),
		zap.Error(err),
	)
}

// sanitizeSQL hides literal values and bounds the length
func sanitizeSQL(sql string) string {
	sanitized := strings.ReplaceAll(sql, "'", "?")
	if len(sanitized) > 500 {
		sanitized = sanitized[:500] + "..."
	}
	return sanitized
}

// GetStats returns current query statistics
func (qm *QueryMonitor) GetStats() QueryStats {
	qm.mu.RLock()
	defer qm.mu.RUnlock()
	return qm.stats
}

// GetSlowQueries returns up to limit of the most recent slow queries; 0 returns all
func (qm *QueryMonitor) GetSlowQueries(limit int) []SlowQuery {
	qm.mu.RLock()
	defer qm.mu.RUnlock()

	if limit <= 0 || limit > len(qm.slowQueries) {
		limit = len(qm.slowQueries)
	}
	out := make([]SlowQuery, limit)
	copy(out, qm.slowQueries[len(qm.slowQueries)-limit:])
	return out
}

// LogWriter implements GORM's logger.Writer on top of zap
type LogWriter struct {
	logger *zap.Logger
}

// Printf implements the Writer interface
func (w *LogWriter) Printf(format string, args ...interface{}) {
	msg := fmt.Sprintf(format, args...)

	switch {
	case strings.Contains(msg, "SLOW SQL"):
		w.logger.Warn("GORM slow query", zap.String("message", msg))
	case strings.Contains(msg, "error"):
		w.logger.Error("GORM error", zap.String("message", msg))
	default:
		w.logger.Debug("GORM log", zap.String("message", msg))
	}
}

// NewLogger builds a GORM logger writing through zap. level is one of
// silent, error, warn or info.
func NewLogger(log *zap.Logger, level string, slowThreshold time.Duration) logger.Interface {
	return logger.New(
		&LogWriter{logger: log.Named("gorm")},
		logger.Config{
			SlowThreshold:             slowThreshold,
			LogLevel:                  ParseLogLevel(level),
			IgnoreRecordNotFoundError: true,
			Colorful:                  false,
		},
	)
}

// ParseLogLevel maps a configuration string to a GORM log level
func ParseLogLevel(level string) logger.LogLevel {
	switch strings.ToLower(level) {
	case "debug", "info":
		return logger.Info
	case "warn":
		return logger.Warn
	case "error":
		return logger.Error
	default:
		return logger.Silent
	}
}
