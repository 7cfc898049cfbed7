// Package postgres provides PostgreSQL database connection and management
package postgres

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"go.uber.org/zap"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/plugin/dbresolver"

	"github.com/robloxdeveloper2/Foodi-Backup-sub002/internal/infrastructure/config"
	gormrepo "github.com/robloxdeveloper2/Foodi-Backup-sub002/internal/infrastructure/persistence/gorm"
	"github.com/robloxdeveloper2/Foodi-Backup-sub002/internal/infrastructure/persistence/migrations"
)

// ConnectionManager owns the pooled primary connection and any read replicas
type ConnectionManager struct {
	cfg          config.DatabaseConfig
	logger       *zap.Logger
	db           *gorm.DB
	writeDB      *sql.DB
	queryMonitor *gormrepo.QueryMonitor
}

// NewConnectionManager opens the primary, registers replicas and installs query monitoring.
// observer may be nil.
func NewConnectionManager(cfg config.DatabaseConfig, observer gormrepo.QueryObserver, log *zap.Logger) (*ConnectionManager, error) {
	cm := &ConnectionManager{
		cfg:          cfg,
		logger:       log.Named("postgres"),
		queryMonitor: gormrepo.NewQueryMonitor(log, observer, cfg.SlowQueryThreshold),
	}

	if err := cm.initializePrimaryConnection(); err != nil {
		return nil, fmt.Errorf("failed to initialize primary connection: %w", err)
	}

	// Replicas are optional; reads fall back to the primary
	if err := cm.initializeReadReplicas(); err != nil {
		cm.logger.Warn("Failed to initialize read replicas", zap.Error(err))
	}

	cm.logger.Info("Database connection manager initialized",
		zap.String("host", cfg.Host),
		zap.Int("max_open_conns", cfg.MaxOpenConns),
		zap.Int("max_idle_conns", cfg.MaxIdleConns),
		zap.Duration("conn_max_lifetime", cfg.ConnMaxLifetime),
		zap.Duration("slow_query_threshold", cfg.SlowQueryThreshold),
	)

	return cm, nil
}

// initializePrimaryConnection sets up the primary database connection
func (cm *ConnectionManager) initializePrimaryConnection() error {
	db, err := gorm.Open(postgres.Open(cm.cfg.DSN(cm.cfg.Host)), &gorm.Config{
		Logger:                 gormrepo.NewLogger(cm.logger, cm.cfg.LogLevel, cm.cfg.SlowQueryThreshold),
		SkipDefaultTransaction: true,
		PrepareStmt:            true,
	})
	if err != nil {
		return fmt.Errorf("failed to connect to database: %w", err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		return fmt.Errorf("failed to get underlying sql.DB: %w", err)
	}
	configurePool(sqlDB, cm.cfg)

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := sqlDB.PingContext(ctx); err != nil {
		return fmt.Errorf("failed to ping database: %w", err)
	}

	cm.db = db
	cm.writeDB = sqlDB

	if err := cm.queryMonitor.Install(db); err != nil {
		cm.logger.Warn("Failed to install query monitoring", zap.Error(err))
	}
	return nil
}

// initializeReadReplicas routes reads to the configured replica hosts
func (cm *ConnectionManager) initializeReadReplicas() error {
	if len(cm.cfg.ReadReplicas) == 0 {
		return nil
	}

	replicas := make([]gorm.Dialector, len(cm.cfg.ReadReplicas))
	for i, host := range cm.cfg.ReadReplicas {
		replicas[i] = postgres.Open(cm.cfg.DSN(host))
	}

	resolver := dbresolver.Register(dbresolver.Config{
		Replicas: replicas,
		Policy:   getLoadBalancePolicy(cm.cfg.LoadBalancePolicy),
	}).
		SetMaxOpenConns(cm.cfg.MaxOpenConns).
		SetMaxIdleConns(cm.cfg.MaxIdleConns).
		SetConnMaxLifetime(cm.cfg.ConnMaxLifetime).
		SetConnMaxIdleTime(cm.cfg.ConnMaxIdleTime)

	if err := cm.db.Use(resolver); err != nil {
		return fmt.Errorf("failed to register read replicas: %w", err)
	}

	cm.logger.Info("Read replicas configured",
		zap.Int("replica_count", len(cm.cfg.ReadReplicas)),
		zap.String("load_balance_policy", cm.cfg.LoadBalancePolicy),
	)
	return nil
}

func configurePool(sqlDB *sql.DB, cfg config.DatabaseConfig) {
	if cfg.MaxOpenConns > 0 {
		sqlDB.SetMaxOpenConns(cfg.MaxOpenConns)
	}
	if cfg.MaxIdleConns > 0 {
		sqlDB.SetMaxIdleConns(cfg.MaxIdleConns)
	}
	if cfg.ConnMaxLifetime > 0 {
		sqlDB.SetConnMaxLifetime(cfg.ConnMaxLifetime)
	}
	if cfg.ConnMaxIdleTime > 0 {
		sqlDB.SetConnMaxIdleTime(cfg.ConnMaxIdleTime)
	}
}

// Migrate applies the embedded schema migrations to the primary
func (cm *ConnectionManager) Migrate() error {
	return cm.RunMigration(migrations.Action{Kind: migrations.ActionUp})
}

// RunMigration runs one migration command against the primary
func (cm *ConnectionManager) RunMigration(a migrations.Action) error {
	m, err := migrations.New(cm.writeDB, cm.cfg.Database, cm.logger)
	if err != nil {
		return err
	}
	defer m.Close()
	return m.Run(a)
}

// GetDB returns the main database connection
func (cm *ConnectionManager) GetDB() *gorm.DB {
	return cm.db
}

// SQLDB returns the primary connection pool
func (cm *ConnectionManager) SQLDB() *sql.DB {
	return cm.writeDB
}

// HealthCheck pings the primary
func (cm *ConnectionManager) HealthCheck(ctx context.Context) error {
	if err := cm.writeDB.PingContext(ctx); err != nil {
		return fmt.Errorf("primary database ping failed: %w", err)
	}
	return nil
}

// Close closes the primary pool
func (cm *ConnectionManager) Close() error {
	if cm.writeDB == nil {
		return nil
	}
	if err := cm.writeDB.Close(); err != nil {
		cm.logger.Error("Failed to close primary database", zap.Error(err))
		return err
	}
	return nil
}

// getLoadBalancePolicy converts string to dbresolver policy
func getLoadBalancePolicy(policy string) dbresolver.Policy {
	switch policy {
	case "round_robin":
		return dbresolver.RoundRobinPolicy()
	default:
		return dbresolver.RandomPolicy{}
	}
}
